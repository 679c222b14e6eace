package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/jsamuelsen/quote-sync/internal/domain"
	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

// ExportFilename is the suggested name for exported collections.
const ExportFilename = "quotes.json"

// QuoteService orchestrates quote-related use cases.
// It depends on port interfaces, not concrete implementations,
// following the Dependency Inversion Principle.
type QuoteService struct {
	store    *QuoteStore
	repo     ports.QuoteRepository
	sessions ports.SessionStore
	sync     *SyncService
	flags    ports.FeatureFlags
	logger   *slog.Logger
}

// QuoteServiceConfig contains configuration for the quote service.
type QuoteServiceConfig struct {
	Store      *QuoteStore
	Repository ports.QuoteRepository
	Sessions   ports.SessionStore

	// Sync is optional. Without it nothing is pushed and imports are not reconciled.
	Sync *SyncService

	// Flags is optional. Without it every flag takes its default.
	Flags ports.FeatureFlags

	Logger *slog.Logger
}

// NewQuoteService creates a new quote service with the provided dependencies.
// Panics if Store, Repository or Sessions is nil. Defaults logger to slog.Default() if nil.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Store == nil {
		panic("QuoteService: Store is required")
	}

	if cfg.Repository == nil {
		panic("QuoteService: Repository is required")
	}

	if cfg.Sessions == nil {
		panic("QuoteService: Sessions is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteService{
		store:    cfg.Store,
		repo:     cfg.Repository,
		sessions: cfg.Sessions,
		sync:     cfg.Sync,
		flags:    cfg.Flags,
		logger:   logger,
	}
}

// AddQuote stores a new quote and, when push-on-add is enabled, pushes it to
// the remote endpoint in the background.
func (s *QuoteService) AddQuote(ctx context.Context, text, category string) (domain.Quote, error) {
	quote, err := s.store.Add(ctx, domain.Quote{Text: text, Category: category})
	if err != nil {
		return domain.Quote{}, err
	}

	logging.FromContext(ctx).InfoContext(ctx, "quote added",
		slog.String("category", quote.Category),
		slog.Int("total", s.store.Len()),
	)

	if s.sync != nil && s.enabled(ctx, ports.FlagPushOnAdd, true) {
		s.sync.PushInBackground(ctx, quote)
	}

	return quote, nil
}

// RandomQuote picks a quote from filter, or from the saved filter when filter is
// empty, and records it as the session's last viewed quote.
func (s *QuoteService) RandomQuote(ctx context.Context, sessionID, filter string) (domain.Quote, error) {
	filter, err := s.resolveFilter(ctx, filter)
	if err != nil {
		return domain.Quote{}, err
	}

	quote, err := s.store.PickRandom(filter)
	if err != nil {
		return domain.Quote{}, err
	}

	if sessionID != "" {
		if err := s.sessions.RecordLastViewed(ctx, sessionID, quote.Text); err != nil {
			logging.FromContext(ctx).WarnContext(ctx, "recording last viewed quote failed", slog.Any("error", err))
		}
	}

	return quote, nil
}

// ListQuotes returns the quotes matching filter, or the saved filter when filter is empty.
func (s *QuoteService) ListQuotes(ctx context.Context, filter string) ([]domain.Quote, error) {
	filter, err := s.resolveFilter(ctx, filter)
	if err != nil {
		return nil, err
	}

	return s.store.Filter(filter), nil
}

// Categories returns the distinct categories of the collection.
func (s *QuoteService) Categories(context.Context) []string {
	return s.store.ListCategories()
}

// Count returns the size of the collection.
func (s *QuoteService) Count() int {
	return s.store.Len()
}

// SelectedFilter returns the saved category filter.
func (s *QuoteService) SelectedFilter(ctx context.Context) (string, error) {
	filter, err := s.repo.LoadSelectedFilter(ctx)
	if err != nil {
		return "", fmt.Errorf("loading selected filter: %w", err)
	}

	return filter, nil
}

// SetSelectedFilter saves a category filter. Blank values select every category.
func (s *QuoteService) SetSelectedFilter(ctx context.Context, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = domain.FilterAll
	}

	if err := s.repo.SaveSelectedFilter(ctx, value); err != nil {
		return "", err
	}

	return value, nil
}

// LastViewed returns the text of the last quote shown to the session,
// or domain.NoQuoteYet.
func (s *QuoteService) LastViewed(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return domain.NoQuoteYet, nil
	}

	text, ok, err := s.sessions.ReadLastViewed(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("reading last viewed quote: %w", err)
	}

	if !ok {
		return domain.NoQuoteYet, nil
	}

	return text, nil
}

// Export encodes the collection as a JSON array indented with two spaces.
func (s *QuoteService) Export(ctx context.Context) ([]byte, error) {
	quotes := s.store.Snapshot()

	data, err := json.MarshalIndent(quotes, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding quotes: %w", err)
	}

	logging.FromContext(ctx).InfoContext(ctx, "quotes exported", slog.Int("quotes", len(quotes)))

	return data, nil
}

// ImportResult reports an import and the follow-up work it triggered.
type ImportResult struct {
	Imported   int         `json:"imported"`
	Sync       *SyncResult `json:"sync,omitempty"`
	SyncError  string      `json:"syncError,omitempty"`
	Pushed     int         `json:"pushed,omitempty"`
	PushFailed int         `json:"pushFailed,omitempty"`
}

// Import replaces the collection with the quotes in data.
//
// data must be a JSON array whose every element is an object with string "text"
// and "category" members; anything else fails with an ImportFormatError and the
// collection is untouched. Follow-up reconciliation and pushes never undo the import.
func (s *QuoteService) Import(ctx context.Context, data []byte) (*ImportResult, error) {
	quotes, err := parseImport(data)
	if err != nil {
		return nil, err
	}

	if err := s.store.ReplaceAll(ctx, quotes); err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	logger.InfoContext(ctx, "quotes imported", slog.Int("quotes", len(quotes)))

	result := &ImportResult{Imported: len(quotes)}

	if s.sync == nil {
		return result, nil
	}

	if s.enabled(ctx, ports.FlagSyncAfterImport, true) {
		syncResult, syncErr := s.sync.Reconcile(ctx, TriggerImport)
		result.Sync = syncResult

		if syncErr != nil {
			result.SyncError = syncErr.Error()
		}
	}

	if s.enabled(ctx, ports.FlagPushOnImport, false) {
		for _, outcome := range s.sync.PushAll(ctx, quotes) {
			if outcome.Err != nil {
				result.PushFailed++
				continue
			}

			result.Pushed++
		}

		if result.PushFailed > 0 {
			logger.WarnContext(ctx, "some imported quotes were not pushed",
				slog.Int("failed", result.PushFailed),
				slog.Int("pushed", result.Pushed))
		}
	}

	return result, nil
}

// parseImport checks the shape of an import document before building quotes from it.
// Empty strings are accepted; absent, null or non-string members are not.
func parseImport(data []byte) ([]domain.Quote, error) {
	if !gjson.ValidBytes(data) {
		return nil, domain.NewImportFormatError("not valid JSON")
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, domain.NewImportFormatError("expected a JSON array")
	}

	elements := root.Array()
	quotes := make([]domain.Quote, 0, len(elements))

	for i, el := range elements {
		if !el.IsObject() {
			return nil, domain.NewImportElementError(i, "expected an object")
		}

		text, err := importMember(el, i, "text")
		if err != nil {
			return nil, err
		}

		category, err := importMember(el, i, "category")
		if err != nil {
			return nil, err
		}

		quotes = append(quotes, domain.Quote{Text: text, Category: category})
	}

	return quotes, nil
}

func importMember(el gjson.Result, index int, key string) (string, error) {
	member := el.Get(key)

	switch {
	case !member.Exists(), member.Type == gjson.Null:
		return "", domain.NewImportElementError(index, fmt.Sprintf("missing %q", key))
	case member.Type != gjson.String:
		return "", domain.NewImportElementError(index, fmt.Sprintf("%q must be a string", key))
	default:
		return member.String(), nil
	}
}

func (s *QuoteService) resolveFilter(ctx context.Context, filter string) (string, error) {
	filter = strings.TrimSpace(filter)
	if filter != "" {
		return filter, nil
	}

	return s.SelectedFilter(ctx)
}

func (s *QuoteService) enabled(ctx context.Context, flag string, defaultValue bool) bool {
	if s.flags == nil {
		return defaultValue
	}

	return s.flags.IsEnabled(ctx, flag, defaultValue)
}

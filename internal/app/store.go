package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/jsamuelsen/quote-sync/internal/domain"
	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
	"github.com/jsamuelsen/quote-sync/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

// QuoteStore owns the in-memory quote collection and mirrors every change to the
// repository. Writes persist first and only then swap the collection, so memory
// never runs ahead of durable storage.
type QuoteStore struct {
	mu      sync.RWMutex
	quotes  []domain.Quote
	repo    ports.QuoteRepository
	metrics *telemetry.SyncMetrics

	// intn picks an index in [0, n). Replaced in tests.
	intn func(n int) int
}

// QuoteStoreConfig contains the dependencies of a QuoteStore.
type QuoteStoreConfig struct {
	Repository ports.QuoteRepository
	Metrics    *telemetry.SyncMetrics
}

// NewQuoteStore creates an empty store. Call Load before serving reads.
// Panics if Repository is nil.
func NewQuoteStore(cfg QuoteStoreConfig) *QuoteStore {
	if cfg.Repository == nil {
		panic("QuoteStore: Repository is required")
	}

	return &QuoteStore{
		repo:    cfg.Repository,
		metrics: cfg.Metrics,
		intn:    rand.IntN,
	}
}

// Load replaces the in-memory collection with the stored one.
func (s *QuoteStore) Load(ctx context.Context) error {
	quotes, err := s.repo.LoadCollection(ctx)
	if err != nil {
		return fmt.Errorf("loading quotes: %w", err)
	}

	s.mu.Lock()
	s.quotes = quotes
	s.mu.Unlock()

	s.metrics.SetCollectionSize(len(quotes))
	logging.FromContext(ctx).InfoContext(ctx, "quote store loaded", slog.Int("quotes", len(quotes)))

	return nil
}

// Add validates and appends a quote. Text and category are stored trimmed.
func (s *QuoteStore) Add(ctx context.Context, quote domain.Quote) (domain.Quote, error) {
	if err := quote.Validate(); err != nil {
		return domain.Quote{}, err
	}

	quote = quote.Normalize()

	err := s.Commit(ctx, func(local []domain.Quote) []domain.Quote {
		return append(domain.Clone(local), quote)
	})
	if err != nil {
		return domain.Quote{}, err
	}

	return quote, nil
}

// ReplaceAll swaps the whole collection.
func (s *QuoteStore) ReplaceAll(ctx context.Context, quotes []domain.Quote) error {
	replacement := domain.Clone(quotes)

	return s.Commit(ctx, func([]domain.Quote) []domain.Quote {
		return replacement
	})
}

// Commit computes the next collection from the current one under the write lock,
// persists it, and swaps it in. When persisting fails the collection is unchanged.
// fn must not retain or mutate the slice it receives.
func (s *QuoteStore) Commit(ctx context.Context, fn func(local []domain.Quote) []domain.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := fn(s.quotes)

	if err := s.repo.SaveCollection(ctx, next); err != nil {
		return fmt.Errorf("committing quotes: %w", err)
	}

	s.quotes = next
	s.metrics.SetCollectionSize(len(next))

	return nil
}

// PickRandom returns a uniformly chosen quote matching filter.
// Returns a NotFoundError when no quote matches.
func (s *QuoteStore) PickRandom(filter string) (domain.Quote, error) {
	s.mu.RLock()
	candidates := domain.FilterByCategory(s.quotes, filter)
	s.mu.RUnlock()

	if len(candidates) == 0 {
		if filter == domain.FilterAll {
			return domain.Quote{}, domain.NewNotFoundError("quote", "")
		}

		return domain.Quote{}, domain.NewNotFoundError("quote in category", filter)
	}

	return candidates[s.intn(len(candidates))], nil
}

// Filter returns a copy of the quotes matching filter.
func (s *QuoteStore) Filter(filter string) []domain.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.FilterByCategory(s.quotes, filter)
}

// ListCategories returns the distinct categories of the collection.
func (s *QuoteStore) ListCategories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.Categories(s.quotes)
}

// Snapshot returns a copy of the collection.
func (s *QuoteStore) Snapshot() []domain.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.Clone(s.quotes)
}

// Len returns the number of quotes.
func (s *QuoteStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.quotes)
}

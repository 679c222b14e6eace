package storage

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jsamuelsen/quote-sync/internal/domain"
	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
	"github.com/jsamuelsen/quote-sync/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

// QuoteRepository implements ports.QuoteRepository on top of a SlotStore.
type QuoteRepository struct {
	slots SlotStore
}

// NewQuoteRepository creates a repository over the given slot store.
func NewQuoteRepository(slots SlotStore) *QuoteRepository {
	return &QuoteRepository{slots: slots}
}

// LoadCollection returns the stored collection, seeding the defaults when the
// slot is absent or cannot be decoded. A failed read is returned as a
// PersistenceError and leaves the slot untouched.
func (r *QuoteRepository) LoadCollection(ctx context.Context) ([]domain.Quote, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "storage.LoadCollection")
	defer span.End()

	logger := logging.FromContext(ctx)

	raw, ok, err := r.slots.Get(ctx, ports.SlotQuotes)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")

		return nil, domain.NewPersistenceError(ports.SlotQuotes, err)
	}

	if ok {
		quotes, decodeErr := decodeCollection(raw)
		if decodeErr == nil {
			span.SetAttributes(attribute.Int("quotes.count", len(quotes)))
			return quotes, nil
		}

		logger.WarnContext(ctx, "stored quotes are unreadable, reseeding defaults", slog.Any("error", decodeErr))
	}

	seed := domain.DefaultQuotes()

	if err := r.SaveCollection(ctx, seed); err != nil {
		logger.WarnContext(ctx, "persisting default quotes failed", slog.Any("error", err))
	}

	span.SetAttributes(attribute.Bool("quotes.seeded", true), attribute.Int("quotes.count", len(seed)))

	return seed, nil
}

// SaveCollection writes the JSON encoding of the collection to the quotes slot.
func (r *QuoteRepository) SaveCollection(ctx context.Context, quotes []domain.Quote) error {
	ctx, span := telemetry.Tracer().Start(ctx, "storage.SaveCollection")
	defer span.End()

	span.SetAttributes(attribute.Int("quotes.count", len(quotes)))

	if quotes == nil {
		quotes = []domain.Quote{}
	}

	data, err := json.Marshal(quotes)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return domain.NewPersistenceError(ports.SlotQuotes, err)
	}

	if err := r.slots.Put(ctx, ports.SlotQuotes, string(data)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "write failed")

		return domain.NewPersistenceError(ports.SlotQuotes, err)
	}

	return nil
}

// LoadSelectedFilter returns the saved filter or domain.FilterAll.
func (r *QuoteRepository) LoadSelectedFilter(ctx context.Context) (string, error) {
	value, ok, err := r.slots.Get(ctx, ports.SlotSelectedCategory)
	if err != nil {
		return domain.FilterAll, domain.NewPersistenceError(ports.SlotSelectedCategory, err)
	}

	if !ok || strings.TrimSpace(value) == "" {
		return domain.FilterAll, nil
	}

	return value, nil
}

// SaveSelectedFilter writes the selected filter. Selecting every category
// clears the slot, since an absent slot already reads as domain.FilterAll.
func (r *QuoteRepository) SaveSelectedFilter(ctx context.Context, value string) error {
	var err error
	if value == domain.FilterAll || strings.TrimSpace(value) == "" {
		err = r.slots.Delete(ctx, ports.SlotSelectedCategory)
	} else {
		err = r.slots.Put(ctx, ports.SlotSelectedCategory, value)
	}

	if err != nil {
		return domain.NewPersistenceError(ports.SlotSelectedCategory, err)
	}

	return nil
}

// decodeCollection parses a stored collection. JSON null counts as unreadable.
func decodeCollection(raw string) ([]domain.Quote, error) {
	var quotes []domain.Quote

	if err := json.Unmarshal([]byte(raw), &quotes); err != nil {
		return nil, err
	}

	if quotes == nil {
		return nil, errNullCollection
	}

	return quotes, nil
}

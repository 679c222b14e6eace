package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-sync/internal/adapters/storage"
	"github.com/jsamuelsen/quote-sync/internal/adapters/storage/storagetest"
	"github.com/jsamuelsen/quote-sync/internal/domain"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestStore returns a loaded store over an in-memory slot store seeded with quotes.
func newTestStore(t *testing.T, quotes ...domain.Quote) (*QuoteStore, *storagetest.Slots) {
	t.Helper()

	slots := storagetest.NewSlots()
	repo := storage.NewQuoteRepository(slots)

	if quotes != nil {
		require.NoError(t, repo.SaveCollection(context.Background(), quotes))
	}

	store := NewQuoteStore(QuoteStoreConfig{Repository: repo})
	require.NoError(t, store.Load(context.Background()))

	return store, slots
}

func q(text, category string) domain.Quote {
	return domain.Quote{Text: text, Category: category}
}

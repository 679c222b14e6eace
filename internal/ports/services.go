// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrPersistence, ErrRemote, etc.)
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"

	"github.com/jsamuelsen/quote-sync/internal/domain"
)

// Durable and session slot names.
const (
	SlotQuotes           = "quotes"
	SlotSelectedCategory = "selectedCategory"
	SlotLastViewedQuote  = "lastViewedQuote"
)

// QuoteRepository persists the quote collection and the selected filter
// to durable storage.
type QuoteRepository interface {
	// LoadCollection returns the stored collection. When nothing is stored,
	// or the stored value cannot be decoded, the default seed collection is
	// returned and written back, so absence is never an error.
	LoadCollection(ctx context.Context) ([]domain.Quote, error)

	// SaveCollection durably writes the whole collection before returning.
	// Returns domain.ErrPersistence if the write fails.
	SaveCollection(ctx context.Context, quotes []domain.Quote) error

	// LoadSelectedFilter returns the saved filter, or domain.FilterAll if unset.
	LoadSelectedFilter(ctx context.Context) (string, error)

	// SaveSelectedFilter durably writes the selected filter.
	SaveSelectedFilter(ctx context.Context, value string) error
}

// SessionStore holds values that live only as long as a client session.
type SessionStore interface {
	// RecordLastViewed remembers the text of the last quote shown to a session.
	RecordLastViewed(ctx context.Context, sessionID, text string) error

	// ReadLastViewed returns the last viewed text and whether one was recorded.
	ReadLastViewed(ctx context.Context, sessionID string) (string, bool, error)
}

// PushResult describes a push accepted by the remote endpoint.
// The endpoint may echo back an identifier; acceptance does not mean durable storage.
type PushResult struct {
	RemoteID int
}

// RemoteQuotes is the remote source the local collection is reconciled against.
type RemoteQuotes interface {
	// FetchRemoteQuotes reads the remote collection and translates it to quotes.
	// Returns domain.ErrRemote on transport failure or non-success status.
	FetchRemoteQuotes(ctx context.Context) ([]domain.Quote, error)

	// PushQuote submits a single quote to the remote endpoint.
	// Returns domain.ErrRemote on failure. Callers never retry automatically.
	PushQuote(ctx context.Context, quote domain.Quote) (*PushResult, error)
}

// Package storage provides the durable and session-scoped persistence adapters.
//
// Durable state lives in named slots of a SlotStore. Two drivers exist:
//
//   - sqlite: a single-file database (modernc.org/sqlite, no cgo) for real runs
//   - memory: a map for tests and throwaway runs
//
// QuoteRepository layers the quote semantics (JSON encoding, self-healing seed,
// selected filter) on top of a SlotStore and implements ports.QuoteRepository.
// SessionStore keeps per-session values in memory and implements ports.SessionStore.
package storage

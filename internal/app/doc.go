// Package app contains application services that orchestrate use cases.
// This is the application layer in Clean Architecture - it coordinates
// domain logic and infrastructure through ports.
//
// QuoteStore owns the in-memory collection. QuoteService drives the quote use
// cases for the HTTP API and the CLI. SyncService reconciles the store with the
// remote endpoint and pushes local quotes to it.
//
// What does NOT belong here:
//   - HTTP or CLI specifics (that's adapters)
//   - Storage encodings (that's the storage adapter)
//   - Merge rules (that's the domain layer)
package app

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Pure-Go SQLite driver, registers as "sqlite".
	_ "modernc.org/sqlite"
)

const slotsSchema = `
CREATE TABLE IF NOT EXISTS slots (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);`

// SQLiteSlotStore persists slots in a single SQLite file.
type SQLiteSlotStore struct {
	db *sql.DB
}

// NewSQLiteSlotStore opens or creates the database at path and ensures the schema.
// Use ":memory:" for a private in-memory database.
func NewSQLiteSlotStore(path string) (*SQLiteSlotStore, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("creating storage directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One writer at a time; also keeps ":memory:" on a single connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(slotsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating slots table: %w", err)
	}

	return &SQLiteSlotStore{db: db}, nil
}

// Get returns the slot value and whether it was present.
func (s *SQLiteSlotStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string

	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("reading slot %q: %w", key, err)
	}

	return value, true, nil
}

// Put upserts the slot.
func (s *SQLiteSlotStore) Put(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("writing slot %q: %w", key, err)
	}

	return nil
}

// Delete removes the slot.
func (s *SQLiteSlotStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting slot %q: %w", key, err)
	}

	return nil
}

// Close closes the database.
func (s *SQLiteSlotStore) Close() error {
	return s.db.Close()
}

// Name implements ports.HealthChecker.
func (s *SQLiteSlotStore) Name() string {
	return "slot-store"
}

// Check implements ports.HealthChecker.
func (s *SQLiteSlotStore) Check(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

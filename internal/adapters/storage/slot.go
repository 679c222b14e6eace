package storage

import (
	"context"
	"fmt"
	"io"
)

// Storage drivers accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// SlotStore is a tiny key/value store of named string slots.
type SlotStore interface {
	io.Closer

	// Get returns the slot value and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Put durably writes the slot before returning.
	Put(ctx context.Context, key, value string) error

	// Delete removes the slot. Deleting an absent slot is not an error.
	Delete(ctx context.Context, key string) error
}

// Open creates the SlotStore selected by driver.
func Open(driver, path string) (SlotStore, error) {
	switch driver {
	case DriverSQLite:
		return NewSQLiteSlotStore(path)
	case DriverMemory:
		return NewMemorySlotStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}


package storage

import (
	"context"
	"sync"
)

// MemorySlotStore keeps slots in a map. Nothing survives the process.
type MemorySlotStore struct {
	mu    sync.RWMutex
	slots map[string]string
}

// NewMemorySlotStore creates an empty in-memory store.
func NewMemorySlotStore() *MemorySlotStore {
	return &MemorySlotStore{slots: make(map[string]string)}
}

// Get returns the slot value and whether it was present.
func (m *MemorySlotStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.slots[key]

	return v, ok, nil
}

// Put writes the slot.
func (m *MemorySlotStore) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.slots[key] = value

	return nil
}

// Delete removes the slot.
func (m *MemorySlotStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.slots, key)

	return nil
}

// Close is a no-op.
func (m *MemorySlotStore) Close() error {
	return nil
}

// Name implements ports.HealthChecker.
func (m *MemorySlotStore) Name() string {
	return "slot-store"
}

// Check implements ports.HealthChecker.
func (m *MemorySlotStore) Check(context.Context) error {
	return nil
}

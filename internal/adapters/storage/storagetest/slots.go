// Package storagetest provides a slot store with fault injection for tests
// of code built on the storage package.
package storagetest

import (
	"context"
	"maps"
	"sync"
)

// Slots is an in-memory slot store whose reads and writes can be made to fail.
type Slots struct {
	mu      sync.RWMutex
	slots   map[string]string
	getErr  error
	putErr  error
	deletes int
}

// NewSlots returns an empty store.
func NewSlots() *Slots {
	return &Slots{slots: make(map[string]string)}
}

func (s *Slots) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.getErr != nil {
		return "", false, s.getErr
	}

	v, ok := s.slots[key]

	return v, ok, nil
}

func (s *Slots) Put(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.putErr != nil {
		return s.putErr
	}

	s.slots[key] = value

	return nil
}

func (s *Slots) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.putErr != nil {
		return s.putErr
	}

	delete(s.slots, key)
	s.deletes++

	return nil
}

func (s *Slots) Close() error { return nil }

// FailReads makes subsequent Gets return err. Pass nil to recover.
func (s *Slots) FailReads(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.getErr = err
}

// FailWrites makes subsequent Puts and Deletes return err. Pass nil to recover.
func (s *Slots) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.putErr = err
}

// Dump returns a copy of every slot, regardless of FailReads.
func (s *Slots) Dump() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.slots)
}

// Deletes counts successful Delete calls.
func (s *Slots) Deletes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.deletes
}

package storage

import (
	"context"
	"sync"
	"time"

	"github.com/jsamuelsen/quote-sync/internal/ports"
)

// sessionEntry holds the per-session slots and when the session was last touched.
type sessionEntry struct {
	values   map[string]string
	lastSeen time.Time
}

// SessionStore keeps session-scoped values in memory. A session idle for longer
// than the TTL is treated as gone and removed by Sweep or on access.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*sessionEntry
}

// NewSessionStore creates a session store with the given idle TTL.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*sessionEntry),
	}
}

// RecordLastViewed implements ports.SessionStore.
func (s *SessionStore) RecordLastViewed(_ context.Context, sessionID, text string) error {
	s.put(sessionID, ports.SlotLastViewedQuote, text)
	return nil
}

// ReadLastViewed implements ports.SessionStore.
func (s *SessionStore) ReadLastViewed(_ context.Context, sessionID string) (string, bool, error) {
	v, ok := s.get(sessionID, ports.SlotLastViewedQuote)
	return v, ok, nil
}

// Sweep drops expired sessions and returns how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0

	for id, entry := range s.sessions {
		if s.expired(entry, now) {
			delete(s.sessions, id)
			removed++
		}
	}

	return removed
}

// Len returns the number of live sessions, expired ones included until swept.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

func (s *SessionStore) put(sessionID, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	entry, ok := s.sessions[sessionID]
	if !ok || s.expired(entry, now) {
		entry = &sessionEntry{values: make(map[string]string)}
		s.sessions[sessionID] = entry
	}

	entry.values[key] = value
	entry.lastSeen = now
}

func (s *SessionStore) get(sessionID, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	entry, ok := s.sessions[sessionID]
	if !ok {
		return "", false
	}

	if s.expired(entry, now) {
		delete(s.sessions, sessionID)
		return "", false
	}

	entry.lastSeen = now
	v, ok := entry.values[key]

	return v, ok
}

func (s *SessionStore) expired(entry *sessionEntry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(entry.lastSeen) > s.ttl
}

package state

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
	ttl      time.Duration
}

// NewMemoryStore constructs an in-memory Store. Sessions idle longer
// than ttl read back as fresh idle sessions; ttl <= 0 disables expiry.
func NewMemoryStore(ttl time.Duration) Store {
	return &memoryStore{
		sessions: make(map[int64]Session),
		ttl:      ttl,
	}
}

// Get returns the session for a user, or an idle session if absent or expired.
func (m *memoryStore) Get(_ context.Context, userID int64) (Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[userID]
	m.mu.RUnlock()

	if !ok || expired(s, m.ttl) {
		return NewIdle(), nil
	}
	return s, nil
}

// Set stores the session for a user, stamping UpdatedAt.
func (m *memoryStore) Set(_ context.Context, userID int64, s Session) error {
	s.UpdatedAt = time.Now()
	m.mu.Lock()
	m.sessions[userID] = s
	m.mu.Unlock()
	return nil
}

// Clear removes the session for a user, returning it to idle.
func (m *memoryStore) Clear(_ context.Context, userID int64) error {
	m.mu.Lock()
	delete(m.sessions, userID)
	m.mu.Unlock()
	return nil
}

package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"solar_sizer/internal/model"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Memory holds sessions in memory, indexed by session ID. Sessions idle for
// longer than the TTL are treated as gone.
type Memory struct {
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]model.Session
}

// NewMemory creates an in-memory store. A zero ttl keeps sessions forever.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]model.Session),
	}
}

// Get returns a copy of the session.
func (m *Memory) Get(_ context.Context, id string) (model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok || m.expired(s) {
		return model.Session{}, ErrNotFound
	}
	return s.Clone(), nil
}

// Put stores a copy of the session.
func (m *Memory) Put(_ context.Context, s model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s.Clone()
	return nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// IDs returns the IDs of live sessions, sorted.
func (m *Memory) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.sessions))
	for id, s := range m.sessions {
		if !m.expired(s) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Prune drops expired sessions and returns how many were removed.
func (m *Memory) Prune() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if m.expired(s) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

func (m *Memory) expired(s model.Session) bool {
	return m.ttl > 0 && m.now().Sub(s.UpdatedAt) > m.ttl
}

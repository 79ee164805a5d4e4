package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryStore keeps sessions in a process-local map. It is the fallback
// when no redis address is configured and the backing store for tests.
type MemoryStore struct {
	mu          sync.RWMutex
	sessions    map[string][]byte
	maxSessions int
}

// NewMemoryStore creates an in-memory store. maxSessions <= 0 disables
// the cap.
func NewMemoryStore(maxSessions int) *MemoryStore {
	return &MemoryStore{
		sessions:    make(map[string][]byte),
		maxSessions: maxSessions,
	}
}

// Get retrieves a session by ID. Returns nil when absent.
func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	data, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save persists the session, enforcing the session cap for new IDs.
func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[s.ID]; !exists {
		if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
			return ErrStoreFull
		}
	}
	m.sessions[s.ID] = data
	return nil
}

// Delete removes a session.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// Len reports how many sessions are tracked.
func (m *MemoryStore) Len(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions), nil
}

// Sweep evicts sessions whose last activity predates the cutoff.
func (m *MemoryStore) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, data := range m.sessions {
		var s Session
		if err := json.Unmarshal(data, &s); err != nil {
			delete(m.sessions, id)
			evicted++
			continue
		}
		if s.IdleSince(cutoff) {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted, nil
}

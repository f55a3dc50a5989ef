package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var ErrNotFound = errors.New("session not found")

// Manager owns the live sessions and evicts idle ones.
type Manager struct {
	ttl    time.Duration
	logger *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager returns a manager that forgets sessions idle for longer than
// ttl. A non-positive ttl disables eviction.
func NewManager(ttl time.Duration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{ttl: ttl, logger: logger, sessions: make(map[string]*Session)}
}

// Create registers a new session.
func (m *Manager) Create() *Session {
	s := New()
	m.mu.Lock()
	m.sessions[s.id] = s
	n := len(m.sessions)
	m.mu.Unlock()
	m.logger.Debug("session created", zap.String("id", s.id), zap.Int("live", n))
	return s
}

// Get looks up a live session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// GetOrCreate returns the session for id, or a new one when id is empty or
// unknown.
func (m *Manager) GetOrCreate(id string) *Session {
	if id != "" {
		if s, err := m.Get(id); err == nil {
			return s
		}
	}
	return m.Create()
}

// Delete forgets a session. Deleting an unknown id is not an error.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Evict removes sessions idle since before now-ttl and returns how many were
// removed.
func (m *Manager) Evict(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := now.Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(m.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		m.logger.Debug("evicted idle sessions", zap.Int("evicted", evicted), zap.Int("live", len(m.sessions)))
	}
	return evicted
}

// Run evicts idle sessions every interval until ctx is done. An interval of
// zero uses ttl/2.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	if m.ttl <= 0 {
		<-ctx.Done()
		return nil
	}
	if interval <= 0 {
		interval = m.ttl / 2
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			m.Evict(now)
		}
	}
}

package engine

import (
	"context"
	"sync"
)

// Manager owns the live sessions, one per authenticated account plus one per
// anonymous device. Sessions are created lazily on first request and stay
// resident so the debounced push timers keep running between requests.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	deps     Deps
}

func NewManager(deps Deps) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		deps:     deps,
	}
}

// ForAccount returns the account's session, creating and hydrating it (device
// restore, then remote pull) on first use.
func (m *Manager) ForAccount(ctx context.Context, accountID string) *Session {
	return m.get(ctx, accountID, accountID)
}

// ForDevice returns the anonymous session for a device. Anonymous sessions
// never sync; they only persist to the device store.
func (m *Manager) ForDevice(ctx context.Context, deviceID string) *Session {
	return m.get(ctx, "device:"+deviceID, "")
}

func (m *Manager) get(ctx context.Context, key, accountID string) *Session {
	m.mu.Lock()
	if s, ok := m.sessions[key]; ok {
		m.mu.Unlock()
		return s
	}
	m.mu.Unlock()

	// Hydration does I/O (device load, remote pull); build outside the map
	// lock and let the first writer win.
	s := NewSession(ctx, key, accountID, m.deps)

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[key]; ok {
		s.Close()
		return existing
	}
	m.sessions[key] = s
	return s
}

// Drop closes and forgets the account's session, e.g. after logout.
func (m *Manager) Drop(accountID string) {
	m.mu.Lock()
	s, ok := m.sessions[accountID]
	delete(m.sessions, accountID)
	m.mu.Unlock()
	if ok {
		s.Close()
	}
}

// CloseAll stops every session's push timer. Called on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, s := range m.sessions {
		s.Close()
		delete(m.sessions, key)
	}
}

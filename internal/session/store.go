package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// CookieName is the session cookie issued at login.
const CookieName = "medpredict_session"

type entry struct {
	userID    int64
	expiresAt time.Time
}

// Manager owns the server-side session table. Tokens are opaque; all state
// lives here, so revocation takes effect immediately.
type Manager struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]entry
	now      func() time.Time
}

func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		ttl:      ttl,
		sessions: make(map[string]entry),
		now:      time.Now,
	}
}

// Issue creates a session for the user and returns its opaque token.
// Expired sessions are swept here so abandoned logins cannot grow the
// table beyond the set of recently active users.
func (m *Manager) Issue(userID int64) string {
	token := uuid.NewString()
	m.mu.Lock()
	m.sweepLocked()
	m.sessions[token] = entry{
		userID:    userID,
		expiresAt: m.now().Add(m.ttl),
	}
	m.mu.Unlock()
	return token
}

// sweepLocked drops every expired session. Caller holds mu.
func (m *Manager) sweepLocked() {
	now := m.now()
	for token, e := range m.sessions {
		if now.After(e.expiresAt) {
			delete(m.sessions, token)
		}
	}
}

// Resolve returns the user id bound to the token. Expired sessions are
// evicted on lookup.
func (m *Manager) Resolve(token string) (int64, bool) {
	if token == "" {
		return 0, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[token]
	if !ok {
		return 0, false
	}
	if m.now().After(e.expiresAt) {
		delete(m.sessions, token)
		return 0, false
	}
	return e.userID, true
}

// Revoke destroys the session. It is a no-op for unknown tokens.
func (m *Manager) Revoke(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

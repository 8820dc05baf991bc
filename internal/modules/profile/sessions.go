package profile

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrSessionNotFound indicates an unknown or expired wizard session id.
var ErrSessionNotFound = errors.New("wizard session not found")

// SessionManager holds active wizard sessions in memory, keyed by id.
// Sessions are transient by design: they exist only until the profile is
// saved or the process restarts. Multiple sessions may be open at once
// (e.g. multiple browser tabs); each is fully independent.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewSessionManager creates an empty session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]Session)}
}

// Create starts a new wizard session and returns it.
func (m *SessionManager) Create() Session {
	s := NewSession(uuid.New().String())

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	return s
}

// Get returns the session with the given id.
func (m *SessionManager) Get(id string) (Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

// Put stores the successor of a session transition.
func (m *SessionManager) Put(s Session) {
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
}

// Delete discards a session.
func (m *SessionManager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

package simulation

import (
	"sync"

	"surgsim-platform/backend/internal/surgery/domain"
)

// Arena is the process-wide map from live connection id to in-progress
// session. Get-or-create and remove are atomic with respect to concurrent
// message delivery on other connections; messages on a single connection are
// processed one at a time by the read loop, so no per-session lock exists.
type Arena struct {
	mu       sync.Mutex
	sessions map[string]*domain.SurgerySession
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{sessions: make(map[string]*domain.SurgerySession)}
}

// GetOrCreate returns the session for connID, creating a fresh one owned by
// ownerID if none exists. created reports whether a new session was started.
func (a *Arena) GetOrCreate(connID, ownerID string) (s *domain.SurgerySession, created bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if s, ok := a.sessions[connID]; ok {
		return s, false
	}
	s = domain.NewSession(ownerID)
	a.sessions[connID] = s
	return s, true
}

// Get returns the session for connID, or nil.
func (a *Arena) Get(connID string) *domain.SurgerySession {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessions[connID]
}

// Remove deletes the entry for connID. The aggregate's remaining lifetime is
// owned by storage after finalize.
func (a *Arena) Remove(connID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.sessions, connID)
}

// Len returns the number of live sessions.
func (a *Arena) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.sessions)
}

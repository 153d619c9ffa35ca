package runner

import (
	"errors"
	"sync"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore maps a user to at most one live session handle. A single
// mutex serialises all access.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Handle
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Handle),
	}
}

func (s *SessionStore) Get(userID string) (*Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.sessions[userID]
	return h, ok
}

// Put stores h for userID and returns the handle it replaced, if any. The
// caller is responsible for cancelling the previous handle.
func (s *SessionStore) Put(userID string, h *Handle) *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.sessions[userID]
	s.sessions[userID] = h
	return prev
}

func (s *SessionStore) Remove(userID string) (*Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.sessions[userID]
	if ok {
		delete(s.sessions, userID)
	}
	return h, ok
}

// RemoveIf removes the entry for userID only while it is still h.
func (s *SessionStore) RemoveIf(userID string, h *Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessions[userID] != h {
		return false
	}
	delete(s.sessions, userID)
	return true
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// CancelAll cancels and forgets every session, returning the handles so the
// caller can wait on them.
func (s *SessionStore) CancelAll() []*Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	handles := make([]*Handle, 0, len(s.sessions))
	for id, h := range s.sessions {
		h.Cancel()
		handles = append(handles, h)
		delete(s.sessions, id)
	}
	return handles
}

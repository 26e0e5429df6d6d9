package service

import (
	"sync"

	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/domain"
)

// SessionStore owns every ConversationSession, keyed by user identity. Turns
// for the same user serialize on a per-session lock held for the whole turn;
// the store-level lock only guards the map, so one user's assistant polling
// never blocks another user.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	mu      sync.Mutex
	session domain.ConversationSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*sessionEntry)}
}

// WithSession runs fn with exclusive access to the user's session. Mutations
// fn makes are retained. The session is created in StateIdle on first use.
func (s *SessionStore) WithSession(userID string, fn func(*domain.ConversationSession)) {
	entry := s.entry(userID)
	entry.mu.Lock()
	defer entry.mu.Unlock()
	fn(&entry.session)
}

// Delete drops the user's session entirely.
func (s *SessionStore) Delete(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

func (s *SessionStore) entry(userID string) *sessionEntry {
	s.mu.RLock()
	entry, ok := s.sessions[userID]
	s.mu.RUnlock()
	if ok {
		return entry
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok = s.sessions[userID]; ok {
		return entry
	}
	entry = &sessionEntry{session: domain.ConversationSession{UserID: userID, State: domain.StateIdle}}
	s.sessions[userID] = entry
	return entry
}

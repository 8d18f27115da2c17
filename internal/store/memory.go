package store

import (
	"errors"
	"strings"
	"sync"
	"time"

	"matchday-app/internal/model"
)

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]model.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]model.Session)}
}

func (s *MemoryStore) GetSession(id string) (model.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return model.Session{}, false
	}
	return copySession(session), true
}

func (s *MemoryStore) SaveSession(session model.Session) error {
	if strings.TrimSpace(session.ID) == "" {
		return errors.New("session id is required")
	}
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = copySession(session)
	return nil
}

func (s *MemoryStore) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) PruneSessions(before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.UpdatedAt.Before(before) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func copySession(session model.Session) model.Session {
	session.Seasons = append([]string(nil), session.Seasons...)
	session.Selected = append([]string(nil), session.Selected...)
	session.Dataset = append([]byte(nil), session.Dataset...)
	return session
}

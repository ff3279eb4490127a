package memory

import (
	"context"
	"sync"
	"time"

	"github.com/weaverapp/backend/domain"
)

// SessionStore is an in-memory SessionRepository used in tests.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.Session),
	}
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok || session.IsExpired(time.Now()) {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidPayload
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *SessionStore) Extend(ctx context.Context, id string, ttlSeconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.ExpiresAt = time.Now().Add(time.Duration(ttlSeconds) * time.Second)
	s.sessions[id] = session
	return nil
}

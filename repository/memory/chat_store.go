package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/weaverapp/backend/domain"
	"github.com/weaverapp/backend/repository"
)

// ChatSessionStore is an in-memory ChatSessionRepository used in tests and
// local development.
type ChatSessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.ChatSession
}

func NewChatSessionStore() *ChatSessionStore {
	return &ChatSessionStore{
		sessions: make(map[string]domain.ChatSession),
	}
}

func (s *ChatSessionStore) Find(ctx context.Context, id, userID string) (*domain.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok || session.UserID != userID {
		return nil, domain.ErrChatSessionNotFound
	}
	out := cloneChatSession(session)
	return &out, nil
}

func (s *ChatSessionStore) List(ctx context.Context, filter repository.ChatSessionFilter) ([]domain.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sessions []domain.ChatSession
	for _, session := range s.sessions {
		if session.UserID != filter.UserID {
			continue
		}
		if filter.Category != "" && session.Category != filter.Category {
			continue
		}
		sessions = append(sessions, cloneChatSession(session))
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	if filter.Limit > 0 && len(sessions) > filter.Limit {
		sessions = sessions[:filter.Limit]
	}
	return sessions, nil
}

func (s *ChatSessionStore) Create(ctx context.Context, session *domain.ChatSession) error {
	if session == nil {
		return domain.ErrInvalidPayload
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.Category == "" {
		session.Category = domain.ChatKindChat
	}
	now := time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	s.sessions[session.ID] = cloneChatSession(*session)
	return nil
}

func (s *ChatSessionStore) Save(ctx context.Context, session *domain.ChatSession) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidPayload
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.sessions[session.ID]
	if !ok || existing.UserID != session.UserID {
		return domain.ErrChatSessionNotFound
	}
	session.UpdatedAt = time.Now()
	s.sessions[session.ID] = cloneChatSession(*session)
	return nil
}

func (s *ChatSessionStore) CountByUser(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, session := range s.sessions {
		if session.UserID == userID {
			count++
		}
	}
	return count, nil
}

func cloneChatSession(session domain.ChatSession) domain.ChatSession {
	out := session
	out.Messages = append([]domain.ChatMessage(nil), session.Messages...)
	return out
}

package repository

import (
	"context"

	"github.com/weaverapp/backend/domain"
)

type ChatSessionFilter struct {
	UserID   string
	Category string
	Limit    int
}

// ChatSessionRepository persists whole conversation documents. Find enforces
// ownership: a session id belonging to another user behaves as not found.
type ChatSessionRepository interface {
	Find(ctx context.Context, id, userID string) (*domain.ChatSession, error)
	List(ctx context.Context, filter ChatSessionFilter) ([]domain.ChatSession, error)
	Create(ctx context.Context, session *domain.ChatSession) error
	Save(ctx context.Context, session *domain.ChatSession) error
	CountByUser(ctx context.Context, userID string) (int, error)
}

package repository

import (
	"context"

	"github.com/weaverapp/backend/domain"
)

// Task list filters mirroring the query surface of the tasks screen.
const (
	TaskFilterCompleted   = "completed"
	TaskFilterPending     = "pending"
	TaskFilterAIGenerated = "ai-generated"

	TaskSortPriority = "priority"
	TaskSortDueDate  = "dueDate"
)

type TaskFilter struct {
	UserID string
	Filter string
	PlanID string
	SortBy string
	Limit  int
	Offset int
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
	CountByUser(ctx context.Context, userID string) (total, completed int, err error)
}

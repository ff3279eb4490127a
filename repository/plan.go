package repository

import (
	"context"

	"github.com/weaverapp/backend/domain"
)

type PlanFilter struct {
	UserID   string
	Status   string
	Category string
	Limit    int
	Offset   int
}

type PlanRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	List(ctx context.Context, filter PlanFilter) ([]domain.Plan, error)
	Create(ctx context.Context, plan *domain.Plan) (*domain.Plan, error)
	Update(ctx context.Context, plan *domain.Plan) error
	Delete(ctx context.Context, id string) error
	// LatestActive returns the active plan with the nearest due date,
	// breaking ties by most recent creation.
	LatestActive(ctx context.Context, userID string) (*domain.Plan, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

package repository

import (
	"context"

	"github.com/weaverapp/backend/domain"
)

// StatsRepository maintains increment-only activity counters per user.
type StatsRepository interface {
	Get(ctx context.Context, userID string) (*domain.UserStats, error)
	Increment(ctx context.Context, userID, counter string) error
}

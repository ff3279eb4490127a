package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/weaverapp/backend/domain"
	"github.com/weaverapp/backend/repository"
)

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository returns a Postgres-backed StatsRepository.
func NewStatsRepository(pool *pgxpool.Pool) repository.StatsRepository {
	return &statsRepository{pool: pool}
}

// Counter names map onto fixed columns so the increment query can never be
// steered by caller input.
var statColumns = map[string]string{
	domain.StatPlansCreated:   "plans_created",
	domain.StatTasksCreated:   "tasks_created",
	domain.StatTasksCompleted: "tasks_completed",
	domain.StatTotalSessions:  "total_sessions",
}

func (r *statsRepository) Get(ctx context.Context, userID string) (*domain.UserStats, error) {
	const query = `
	SELECT user_id, plans_created, tasks_created, tasks_completed, total_sessions
	FROM user_stats
	WHERE user_id = $1
	`
	stats := &domain.UserStats{UserID: userID}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&stats.UserID,
		&stats.PlansCreated,
		&stats.TasksCreated,
		&stats.TasksCompleted,
		&stats.TotalSessions,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// A user with no recorded activity reads as all-zero counters.
			return &domain.UserStats{UserID: userID}, nil
		}
		return nil, err
	}
	return stats, nil
}

func (r *statsRepository) Increment(ctx context.Context, userID, counter string) error {
	column, ok := statColumns[counter]
	if !ok {
		return domain.WrapError(domain.ErrCodeInvalid, "unknown stat counter", fmt.Errorf("counter %q", counter))
	}

	query := fmt.Sprintf(`
	INSERT INTO user_stats (user_id, %[1]s)
	VALUES ($1, 1)
	ON CONFLICT (user_id) DO UPDATE
	SET %[1]s = user_stats.%[1]s + 1
	`, column)

	_, err := r.pool.Exec(ctx, query, userID)
	return err
}

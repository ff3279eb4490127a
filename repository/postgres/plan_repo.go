package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/weaverapp/backend/domain"
	"github.com/weaverapp/backend/repository"
)

type planRepository struct {
	pool *pgxpool.Pool
}

// NewPlanRepository returns a Postgres-backed implementation of PlanRepository.
func NewPlanRepository(pool *pgxpool.Pool) repository.PlanRepository {
	return &planRepository{pool: pool}
}

const planColumns = `id, user_id, title, description, category, duration, status, progress, due_date, ai_generated, created_at, updated_at`

func (r *planRepository) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id::text = $1`
	return scanPlan(r.pool.QueryRow(ctx, query, id))
}

func (r *planRepository) List(ctx context.Context, filter repository.PlanFilter) ([]domain.Plan, error) {
	query := `
	SELECT ` + planColumns + `
	FROM plans
	WHERE ($1 = '' OR user_id::text = $1)
	  AND ($2 = '' OR status = $2)
	  AND ($3 = '' OR category = $3)
	ORDER BY created_at DESC
	LIMIT $4 OFFSET $5
	`
	rows, err := r.pool.Query(ctx, query, filter.UserID, filter.Status, filter.Category, clampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []domain.Plan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *plan)
	}
	return plans, rows.Err()
}

func (r *planRepository) Create(ctx context.Context, plan *domain.Plan) (*domain.Plan, error) {
	if plan == nil {
		return nil, domain.ErrInvalidPayload
	}
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	if plan.Status == "" {
		plan.Status = domain.PlanStatusActive
	}

	const query = `
	INSERT INTO plans (id, user_id, title, description, category, duration, status, progress, due_date, ai_generated)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		plan.ID,
		plan.UserID,
		plan.Title,
		plan.Description,
		plan.Category,
		plan.Duration,
		plan.Status,
		plan.Progress,
		nullTime(plan.DueDate),
		plan.AIGenerated,
	).Scan(&plan.CreatedAt, &plan.UpdatedAt); err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *planRepository) Update(ctx context.Context, plan *domain.Plan) error {
	if plan == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE plans
	SET title = $2,
		description = $3,
		category = $4,
		duration = $5,
		status = $6,
		progress = $7,
		due_date = $8,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		plan.ID,
		plan.Title,
		plan.Description,
		plan.Category,
		plan.Duration,
		plan.Status,
		plan.Progress,
		nullTime(plan.DueDate),
	).Scan(&plan.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrPlanNotFound
		}
		return err
	}
	return nil
}

func (r *planRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM plans WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlanNotFound
	}
	return nil
}

func (r *planRepository) LatestActive(ctx context.Context, userID string) (*domain.Plan, error) {
	query := `
	SELECT ` + planColumns + `
	FROM plans
	WHERE user_id = $1 AND status = $2
	ORDER BY due_date ASC NULLS LAST, created_at DESC
	LIMIT 1
	`
	return scanPlan(r.pool.QueryRow(ctx, query, userID, domain.PlanStatusActive))
}

func (r *planRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM plans WHERE user_id = $1`
	var count int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanPlan(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Plan, error) {
	var plan domain.Plan
	var due *time.Time

	if err := row.Scan(
		&plan.ID,
		&plan.UserID,
		&plan.Title,
		&plan.Description,
		&plan.Category,
		&plan.Duration,
		&plan.Status,
		&plan.Progress,
		&due,
		&plan.AIGenerated,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, err
	}

	plan.DueDate = due
	return &plan, nil
}

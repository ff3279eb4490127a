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

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `id, user_id, plan_id, title, description, category, priority, completed, due_date, estimated_time, ai_generated, created_at, updated_at`

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id::text = $1`
	return scanTask(r.pool.QueryRow(ctx, query, id))
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	query := `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE ($1 = '' OR user_id::text = $1)
	  AND ($2 = '' OR plan_id::text = $2)
	` + filterClause(filter.Filter) + orderClause(filter.SortBy) + `
	LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query, filter.UserID, filter.PlanID, clampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	}

	const query = `
	INSERT INTO tasks (id, user_id, plan_id, title, description, category, priority, completed, due_date, estimated_time, ai_generated)
	VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.PlanID,
		task.Title,
		task.Description,
		task.Category,
		task.Priority,
		task.Completed,
		nullTime(task.DueDate),
		task.EstimatedTime,
		task.AIGenerated,
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET plan_id = NULLIF($2, ''),
		title = $3,
		description = $4,
		category = $5,
		priority = $6,
		completed = $7,
		due_date = $8,
		estimated_time = $9,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.PlanID,
		task.Title,
		task.Description,
		task.Category,
		task.Priority,
		task.Completed,
		nullTime(task.DueDate),
		task.EstimatedTime,
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) CountByUser(ctx context.Context, userID string) (int, int, error) {
	const query = `
	SELECT COUNT(*), COUNT(*) FILTER (WHERE completed)
	FROM tasks
	WHERE user_id = $1
	`
	var total, completed int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&total, &completed); err != nil {
		return 0, 0, err
	}
	return total, completed, nil
}

func filterClause(filter string) string {
	switch filter {
	case repository.TaskFilterCompleted:
		return ` AND completed`
	case repository.TaskFilterPending:
		return ` AND NOT completed`
	case repository.TaskFilterAIGenerated:
		return ` AND ai_generated`
	default:
		return ``
	}
}

func orderClause(sortBy string) string {
	switch sortBy {
	case repository.TaskSortPriority:
		return ` ORDER BY CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 WHEN 'low' THEN 1 ELSE 0 END DESC, created_at DESC`
	case repository.TaskSortDueDate:
		return ` ORDER BY due_date ASC NULLS LAST`
	default:
		return ` ORDER BY created_at DESC`
	}
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	var (
		planID *string
		due    *time.Time
	)

	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&planID,
		&task.Title,
		&task.Description,
		&task.Category,
		&task.Priority,
		&task.Completed,
		&due,
		&task.EstimatedTime,
		&task.AIGenerated,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	if planID != nil {
		task.PlanID = *planID
	}
	task.DueDate = due
	return &task, nil
}

package task

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/weaverapp/backend/domain"
	"github.com/weaverapp/backend/repository"
	"github.com/weaverapp/backend/usecase"
)

type UseCase struct {
	tasks  repository.TaskRepository
	stats  repository.StatsRepository
	buffer usecase.OperationBuffer
	logger *zap.Logger
	now    func() time.Time
}

func New(tasks repository.TaskRepository, stats repository.StatsRepository, buffer usecase.OperationBuffer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		stats:  stats,
		buffer: buffer,
		logger: logger,
		now:    time.Now,
	}
}

func (uc *UseCase) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	return uc.tasks.List(ctx, filter)
}

func (uc *UseCase) GetTask(ctx context.Context, id, userID string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

func (uc *UseCase) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationCreate, task) {
			return task, nil
		}
		return nil, err
	}
	uc.bumpCounter(ctx, task.UserID, domain.StatTasksCreated)
	return created, nil
}

func (uc *UseCase) UpdateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	previous, err := uc.GetTask(ctx, task.ID, task.UserID)
	if err != nil {
		return nil, err
	}

	if err := uc.tasks.Update(ctx, task); err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationUpdate, task) {
			return task, nil
		}
		return nil, err
	}

	// Crossing into completed is what the dashboard counts; un-completing
	// does not decrement.
	if task.Completed && !previous.Completed {
		uc.bumpCounter(ctx, task.UserID, domain.StatTasksCompleted)
	}
	return task, nil
}

func (uc *UseCase) DeleteTask(ctx context.Context, id, userID string) error {
	task, err := uc.GetTask(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := uc.tasks.Delete(ctx, id); err != nil {
		if err == domain.ErrTaskNotFound {
			return err
		}
		if uc.shouldBuffer(ctx, usecase.OperationDelete, task) {
			return nil
		}
		return err
	}
	return nil
}

// GenerateInput controls template-based bulk task generation.
type GenerateInput struct {
	UserID   string
	Category string
	Count    int
}

// taskTemplate seeds generated tasks; generation samples from this pool.
type taskTemplate struct {
	Title         string
	Category      string
	Priority      string
	EstimatedTime string
}

var taskTemplates = []taskTemplate{
	{Title: "Review and organize project files", Category: "Work", Priority: domain.PriorityMedium, EstimatedTime: "1 hour"},
	{Title: "Schedule team meeting for next week", Category: "Work", Priority: domain.PriorityHigh, EstimatedTime: "30 minutes"},
	{Title: "Update project documentation", Category: "Work", Priority: domain.PriorityMedium, EstimatedTime: "2 hours"},
	{Title: "Plan weekly workout routine", Category: "Health", Priority: domain.PriorityLow, EstimatedTime: "45 minutes"},
	{Title: "Read industry articles and trends", Category: "Learning", Priority: domain.PriorityLow, EstimatedTime: "1 hour"},
	{Title: "Prepare monthly budget review", Category: "Finance", Priority: domain.PriorityHigh, EstimatedTime: "1.5 hours"},
	{Title: "Clean and organize workspace", Category: "Personal", Priority: domain.PriorityLow, EstimatedTime: "30 minutes"},
	{Title: "Research new productivity tools", Category: "Learning", Priority: domain.PriorityMedium, EstimatedTime: "45 minutes"},
}

// GenerateTasks creates a batch of suggested tasks from the template pool,
// optionally filtered by category, with due dates spread over the next week.
func (uc *UseCase) GenerateTasks(ctx context.Context, in GenerateInput) ([]domain.Task, error) {
	if in.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}
	count := in.Count
	if count <= 0 {
		count = 5
	}

	pool := make([]taskTemplate, 0, len(taskTemplates))
	for _, tpl := range taskTemplates {
		if in.Category == "" || tpl.Category == in.Category {
			pool = append(pool, tpl)
		}
	}
	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if count > len(pool) {
		count = len(pool)
	}

	now := uc.now()
	created := make([]domain.Task, 0, count)
	for _, tpl := range pool[:count] {
		due := now.Add(time.Duration(rand.Intn(7*24)) * time.Hour)
		task := domain.Task{
			UserID:        in.UserID,
			Title:         tpl.Title,
			Description:   "AI-generated task to help improve your " + strings.ToLower(tpl.Category) + " productivity",
			Category:      tpl.Category,
			Priority:      tpl.Priority,
			DueDate:       &due,
			EstimatedTime: tpl.EstimatedTime,
			AIGenerated:   true,
		}
		stored, err := uc.tasks.Create(ctx, &task)
		if err != nil {
			return created, err
		}
		created = append(created, *stored)
	}

	uc.bumpCounter(ctx, in.UserID, domain.StatTasksCreated)
	return created, nil
}

func (uc *UseCase) bumpCounter(ctx context.Context, userID, counter string) {
	if err := uc.stats.Increment(ctx, userID, counter); err != nil {
		uc.logger.Warn("failed to bump counter", zap.String("counter", counter), zap.Error(err))
	}
}

func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, task *domain.Task) bool {
	if uc.buffer == nil {
		return false
	}
	if err := uc.buffer.BufferTask(ctx, operation, task); err != nil {
		uc.logger.Error("failed to buffer task operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	uc.logger.Warn("task operation buffered", zap.String("operation", operation))
	return true
}

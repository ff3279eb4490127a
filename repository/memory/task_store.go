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

// TaskStore is an in-memory TaskRepository used in tests.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[string]domain.Task
}

func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make(map[string]domain.Task),
	}
}

func (s *TaskStore) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return &task, nil
}

func (s *TaskStore) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tasks []domain.Task
	for _, task := range s.tasks {
		if filter.UserID != "" && task.UserID != filter.UserID {
			continue
		}
		if filter.PlanID != "" && task.PlanID != filter.PlanID {
			continue
		}
		switch filter.Filter {
		case repository.TaskFilterCompleted:
			if !task.Completed {
				continue
			}
		case repository.TaskFilterPending:
			if task.Completed {
				continue
			}
		case repository.TaskFilterAIGenerated:
			if !task.AIGenerated {
				continue
			}
		}
		tasks = append(tasks, task)
	}

	switch filter.SortBy {
	case repository.TaskSortPriority:
		sort.Slice(tasks, func(i, j int) bool {
			return domain.PriorityRank(tasks[i].Priority) > domain.PriorityRank(tasks[j].Priority)
		})
	case repository.TaskSortDueDate:
		sort.Slice(tasks, func(i, j int) bool {
			di, dj := tasks[i].DueDate, tasks[j].DueDate
			if di == nil {
				return false
			}
			if dj == nil {
				return true
			}
			return di.Before(*dj)
		})
	default:
		sort.Slice(tasks, func(i, j int) bool {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		})
	}

	if filter.Limit > 0 && len(tasks) > filter.Limit {
		tasks = tasks[:filter.Limit]
	}
	return tasks, nil
}

func (s *TaskStore) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	s.tasks[task.ID] = *task
	return task, nil
}

func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	task.UpdatedAt = time.Now()
	s.tasks[task.ID] = *task
	return nil
}

func (s *TaskStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *TaskStore) CountByUser(ctx context.Context, userID string) (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total, completed := 0, 0
	for _, task := range s.tasks {
		if task.UserID != userID {
			continue
		}
		total++
		if task.Completed {
			completed++
		}
	}
	return total, completed, nil
}

package history

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/weaverapp/backend/repository"
)

// Item is one row of the merged activity feed: a chat session, plan, or task
// flattened into a uniform shape.
type Item struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Duration    string    `json:"duration,omitempty"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
}

type UseCase struct {
	chats  repository.ChatSessionRepository
	plans  repository.PlanRepository
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(chats repository.ChatSessionRepository, plans repository.PlanRepository, tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		chats:  chats,
		plans:  plans,
		tasks:  tasks,
		logger: logger,
	}
}

// Feed returns the user's chats, plans, and tasks as one list, newest first.
func (uc *UseCase) Feed(ctx context.Context, userID string) ([]Item, error) {
	sessions, err := uc.chats.List(ctx, repository.ChatSessionFilter{UserID: userID})
	if err != nil {
		return nil, err
	}
	plans, err := uc.plans.List(ctx, repository.PlanFilter{UserID: userID})
	if err != nil {
		return nil, err
	}
	tasks, err := uc.tasks.List(ctx, repository.TaskFilter{UserID: userID})
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(sessions)+len(plans)+len(tasks))

	for _, s := range sessions {
		description := ""
		if last := s.LastMessage(); last != nil {
			description = last.Content
		}
		items = append(items, Item{
			ID:          s.ID,
			Type:        "chat",
			Title:       s.Title,
			Description: description,
			Timestamp:   s.UpdatedAt,
			Category:    s.Category,
			Status:      "completed",
		})
	}

	for _, p := range plans {
		items = append(items, Item{
			ID:          p.ID,
			Type:        "plan",
			Title:       p.Title,
			Description: p.Description,
			Timestamp:   p.UpdatedAt,
			Duration:    p.Duration,
			Category:    p.Category,
			Status:      p.Status,
		})
	}

	for _, t := range tasks {
		status := "active"
		if t.Completed {
			status = "completed"
		}
		items = append(items, Item{
			ID:          t.ID,
			Type:        "task",
			Title:       t.Title,
			Description: t.Description,
			Timestamp:   t.UpdatedAt,
			Duration:    t.EstimatedTime,
			Category:    t.Category,
			Status:      status,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	return items, nil
}

package history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaverapp/backend/domain"
	"github.com/weaverapp/backend/repository/memory"
)

func TestFeedMergesNewestFirst(t *testing.T) {
	chats := memory.NewChatSessionStore()
	plans := memory.NewPlanStore()
	tasks := memory.NewTaskStore()
	uc := New(chats, plans, tasks, nil)
	ctx := context.Background()

	require.NoError(t, chats.Create(ctx, &domain.ChatSession{
		ID:     "chat-1",
		UserID: "user-1",
		Title:  "Trip planning",
		Messages: []domain.ChatMessage{
			{Role: domain.RoleUser, Content: "help"},
			{Role: domain.RoleAssistant, Content: "sure, where to?"},
		},
	}))
	_, err := plans.Create(ctx, &domain.Plan{
		UserID:   "user-1",
		Title:    "Focus Day",
		Duration: "3.0hours",
		Status:   domain.PlanStatusActive,
	})
	require.NoError(t, err)
	_, err = tasks.Create(ctx, &domain.Task{
		UserID:    "user-1",
		Title:     "Book hotel",
		Completed: true,
	})
	require.NoError(t, err)

	// Someone else's records never leak in.
	_, err = tasks.Create(ctx, &domain.Task{UserID: "user-2", Title: "Other"})
	require.NoError(t, err)

	items, err := uc.Feed(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 3)

	types := make(map[string]Item, len(items))
	for _, item := range items {
		types[item.Type] = item
	}

	chat := types["chat"]
	assert.Equal(t, "Trip planning", chat.Title)
	assert.Equal(t, "sure, where to?", chat.Description)
	assert.Equal(t, "completed", chat.Status)

	plan := types["plan"]
	assert.Equal(t, "Focus Day", plan.Title)
	assert.Equal(t, "3.0hours", plan.Duration)
	assert.Equal(t, domain.PlanStatusActive, plan.Status)

	task := types["task"]
	assert.Equal(t, "Book hotel", task.Title)
	assert.Equal(t, "completed", task.Status)

	for i := 1; i < len(items); i++ {
		assert.False(t, items[i-1].Timestamp.Before(items[i].Timestamp),
			"feed must be ordered newest first")
	}
}

func TestFeedEmpty(t *testing.T) {
	uc := New(memory.NewChatSessionStore(), memory.NewPlanStore(), memory.NewTaskStore(), nil)

	items, err := uc.Feed(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

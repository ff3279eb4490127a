package task

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaverapp/backend/domain"
	"github.com/weaverapp/backend/repository"
	"github.com/weaverapp/backend/repository/memory"
)

func newTestUseCase(t *testing.T) (*UseCase, *memory.TaskStore, *memory.StatsStore) {
	t.Helper()
	tasks := memory.NewTaskStore()
	stats := memory.NewStatsStore()
	return New(tasks, stats, nil, nil), tasks, stats
}

func TestCreateTaskBumpsCounter(t *testing.T) {
	uc, _, stats := newTestUseCase(t)

	created, err := uc.CreateTask(context.Background(), &domain.Task{
		UserID: "user-1",
		Title:  "Write report",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 1, stats.Counter("user-1", domain.StatTasksCreated))
}

func TestUpdateTaskCompletionCounter(t *testing.T) {
	uc, _, stats := newTestUseCase(t)

	created, err := uc.CreateTask(context.Background(), &domain.Task{UserID: "user-1", Title: "T"})
	require.NoError(t, err)

	created.Completed = true
	_, err = uc.UpdateTask(context.Background(), created)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Counter("user-1", domain.StatTasksCompleted))

	// Saving an already-completed task does not double count.
	_, err = uc.UpdateTask(context.Background(), created)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Counter("user-1", domain.StatTasksCompleted))

	// Un-completing does not decrement.
	created.Completed = false
	_, err = uc.UpdateTask(context.Background(), created)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Counter("user-1", domain.StatTasksCompleted))
}

func TestTaskOwnership(t *testing.T) {
	uc, _, _ := newTestUseCase(t)

	created, err := uc.CreateTask(context.Background(), &domain.Task{UserID: "user-1", Title: "Mine"})
	require.NoError(t, err)

	_, err = uc.GetTask(context.Background(), created.ID, "user-2")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	err = uc.DeleteTask(context.Background(), created.ID, "user-2")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	err = uc.DeleteTask(context.Background(), created.ID, "user-1")
	assert.NoError(t, err)
}

func TestGenerateTasksDefaults(t *testing.T) {
	uc, store, stats := newTestUseCase(t)

	generated, err := uc.GenerateTasks(context.Background(), GenerateInput{UserID: "user-1"})
	require.NoError(t, err)
	assert.Len(t, generated, 5)

	for _, task := range generated {
		assert.True(t, task.AIGenerated)
		assert.NotEmpty(t, task.Title)
		assert.NotEmpty(t, task.EstimatedTime)
		require.NotNil(t, task.DueDate)
		assert.Contains(t, task.Description, "productivity")
	}

	stored, err := store.List(context.Background(), repository.TaskFilter{UserID: "user-1"})
	require.NoError(t, err)
	assert.Len(t, stored, 5)

	// One counter bump for the whole batch.
	assert.Equal(t, 1, stats.Counter("user-1", domain.StatTasksCreated))
}

func TestGenerateTasksCategoryFilter(t *testing.T) {
	uc, _, _ := newTestUseCase(t)

	generated, err := uc.GenerateTasks(context.Background(), GenerateInput{
		UserID:   "user-1",
		Category: "Work",
		Count:    10,
	})
	require.NoError(t, err)
	// The Work pool only holds three templates.
	assert.Len(t, generated, 3)
	for _, task := range generated {
		assert.Equal(t, "Work", task.Category)
	}
}

func TestGenerateTasksRequiresUser(t *testing.T) {
	uc, _, _ := newTestUseCase(t)

	_, err := uc.GenerateTasks(context.Background(), GenerateInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

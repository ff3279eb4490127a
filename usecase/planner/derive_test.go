package planner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaverapp/backend/domain"
	"github.com/weaverapp/backend/internal/ai"
	"github.com/weaverapp/backend/repository"
	"github.com/weaverapp/backend/repository/memory"
)

func newTestUseCase(t *testing.T, now time.Time) (*UseCase, *memory.PlanStore, *memory.TaskStore, *memory.StatsStore) {
	t.Helper()
	plans := memory.NewPlanStore()
	tasks := memory.NewTaskStore()
	stats := memory.NewStatsStore()
	uc := New(plans, tasks, stats, nil, nil).WithClock(func() time.Time { return now })
	return uc, plans, tasks, stats
}

func TestInferCategory(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Morning Workout Routine", domain.CategoryFitness},
		{"gym schedule", domain.CategoryFitness},
		{"Study for finals", domain.CategoryEducation},
		{"Exam week", domain.CategoryEducation},
		{"Trip to Kyoto", domain.CategoryTravel},
		{"travel checklist", domain.CategoryTravel},
		{"Project kickoff", domain.CategoryWork},
		{"Grocery shopping", domain.CategoryGeneral},
		// First matching rule wins when several keywords appear.
		{"Morning Gym and Exam Prep", domain.CategoryFitness},
		{"Study trip planning", domain.CategoryEducation},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, inferCategory(tc.title), "title %q", tc.title)
	}
}

func TestDurationFromSchedule(t *testing.T) {
	mk := func(times ...string) []ai.ScheduleEntry {
		entries := make([]ai.ScheduleEntry, len(times))
		for i, tm := range times {
			entries[i] = ai.ScheduleEntry{Time: tm, Activity: "x"}
		}
		return entries
	}

	assert.Equal(t, "2.5hours", durationFromSchedule(mk("09:00", "10:15", "11:30")))
	assert.Equal(t, "3.0hours", durationFromSchedule(mk("09:00", "12:00")))
	assert.Equal(t, "1.5hours", durationFromSchedule(mk("2:00 PM", "3:30 PM")))

	// Crossing midnight gains a day rather than going negative.
	assert.Equal(t, "2.0hours", durationFromSchedule(mk("23:00", "01:00")))

	// Degenerate inputs fall back to the default.
	assert.Equal(t, "1hour", durationFromSchedule(mk("09:00")))
	assert.Equal(t, "1hour", durationFromSchedule(nil))
	assert.Equal(t, "1hour", durationFromSchedule(mk("09:00", "09:00")))
	assert.Equal(t, "1hour", durationFromSchedule(mk("soonish", "later")))
}

func TestDueDateFromSchedule(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	// First entry earlier today rolls to tomorrow.
	due := dueDateFromSchedule([]ai.ScheduleEntry{{Time: "10:00"}}, now)
	assert.Equal(t, time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC), due)

	// First entry still ahead stays today.
	due = dueDateFromSchedule([]ai.ScheduleEntry{{Time: "18:30"}}, now)
	assert.Equal(t, time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC), due)

	// Unparseable time falls back to now.
	due = dueDateFromSchedule([]ai.ScheduleEntry{{Time: "whenever"}}, now)
	assert.Equal(t, now, due)
}

func TestDeriveFromExtraction(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	uc, _, tasks, stats := newTestUseCase(t, now)

	extracted := &ai.ExtractedPlan{
		Title: "Morning Gym Session",
		Schedule: []ai.ScheduleEntry{
			{Time: "09:00", Activity: "Warm up", Details: "10 minutes easy"},
			{Time: "09:30", Activity: "Lifting"},
			{Time: "11:30", Activity: ""},
		},
	}

	plan, created, err := uc.DeriveFromExtraction(context.Background(), "user-1", extracted)
	require.NoError(t, err)
	require.NotNil(t, plan)

	assert.Equal(t, "Morning Gym Session", plan.Title)
	assert.Equal(t, domain.CategoryFitness, plan.Category)
	assert.Equal(t, "2.5hours", plan.Duration)
	assert.Equal(t, domain.PlanStatusActive, plan.Status)
	assert.True(t, plan.AIGenerated)
	require.NotNil(t, plan.DueDate)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), *plan.DueDate)
	assert.JSONEq(t, `{"title":"Morning Gym Session","schedule":[
		{"time":"09:00","activity":"Warm up","details":"10 minutes easy"},
		{"time":"09:30","activity":"Lifting"},
		{"time":"11:30","activity":""}]}`, plan.Description)

	require.Len(t, created, 3)
	assert.Equal(t, "Warm up", created[0].Title)
	assert.Equal(t, "10 minutes easy", created[0].Description)
	assert.Equal(t, "AI Task", created[2].Title)
	for _, task := range created {
		assert.Equal(t, plan.ID, task.PlanID)
		assert.Equal(t, domain.CategoryFitness, task.Category)
		assert.Equal(t, domain.PriorityMedium, task.Priority)
		assert.True(t, task.AIGenerated)
		require.NotNil(t, task.DueDate)
		assert.Equal(t, *plan.DueDate, *task.DueDate)
	}

	stored, err := tasks.List(context.Background(), repository.TaskFilter{UserID: "user-1"})
	require.NoError(t, err)
	assert.Len(t, stored, 3)

	// Derivation itself does not touch counters; the chat flow owns those.
	assert.Equal(t, 0, stats.Counter("user-1", domain.StatPlansCreated))
}

func TestDeriveFromExtractionRejectsIncompletePayloads(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t, time.Now())

	_, _, err := uc.DeriveFromExtraction(context.Background(), "user-1", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)

	_, _, err = uc.DeriveFromExtraction(context.Background(), "user-1", &ai.ExtractedPlan{Title: "No schedule"})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestCreatePlanManual(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	uc, _, _, stats := newTestUseCase(t, now)

	plan, err := uc.CreatePlan(context.Background(), ManualPlanInput{
		UserID:   "user-1",
		Title:    "Study Spanish",
		Duration: "1month",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryEducation, plan.Category)
	assert.False(t, plan.AIGenerated)
	require.NotNil(t, plan.DueDate)
	assert.Equal(t, now.AddDate(0, 0, 30), *plan.DueDate)
	assert.Equal(t, 1, stats.Counter("user-1", domain.StatPlansCreated))

	// Unknown duration labels use the default horizon.
	plan, err = uc.CreatePlan(context.Background(), ManualPlanInput{
		UserID:   "user-1",
		Title:    "Anything",
		Duration: "someday",
	})
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, 30), *plan.DueDate)
}

func TestUpdatePlanValidation(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t, time.Now())

	plan, err := uc.CreatePlan(context.Background(), ManualPlanInput{UserID: "user-1", Title: "P"})
	require.NoError(t, err)

	bad := "archived"
	_, err = uc.UpdatePlan(context.Background(), plan.ID, "user-1", UpdatePlanInput{Status: &bad})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	paused := domain.PlanStatusPaused
	progress := 150
	updated, err := uc.UpdatePlan(context.Background(), plan.ID, "user-1", UpdatePlanInput{Status: &paused, Progress: &progress})
	require.NoError(t, err)
	assert.Equal(t, domain.PlanStatusPaused, updated.Status)
	assert.Equal(t, 100, updated.Progress)

	// Another user's id reads as not found.
	_, err = uc.UpdatePlan(context.Background(), plan.ID, "user-2", UpdatePlanInput{})
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)
}

package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaverapp/backend/domain"
	"github.com/weaverapp/backend/internal/ai"
	"github.com/weaverapp/backend/repository"
	"github.com/weaverapp/backend/repository/memory"
	plannerUC "github.com/weaverapp/backend/usecase/planner"
)

// scriptedAPI serves responses in order; safe for concurrent turns.
type scriptedAPI struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     int
}

func (s *scriptedAPI) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	text := "ok"
	if len(s.responses) > 0 {
		text = s.responses[0]
		s.responses = s.responses[1:]
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: text}},
		},
	}, nil
}

type fixture struct {
	uc    *UseCase
	chats *memory.ChatSessionStore
	plans *memory.PlanStore
	tasks *memory.TaskStore
	stats *memory.StatsStore
	api   *scriptedAPI
	now   time.Time
}

func newFixture(t *testing.T, responses ...string) *fixture {
	t.Helper()

	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	api := &scriptedAPI{responses: responses}
	client := ai.NewClientWithAPI(api, "test-model", time.Second)

	chats := memory.NewChatSessionStore()
	plans := memory.NewPlanStore()
	tasks := memory.NewTaskStore()
	stats := memory.NewStatsStore()

	clock := func() time.Time { return now }
	planner := plannerUC.New(plans, tasks, stats, nil, nil).WithClock(clock)
	uc := New(client, chats, tasks, stats, planner, nil).WithClock(clock)

	return &fixture{uc: uc, chats: chats, plans: plans, tasks: tasks, stats: stats, api: api, now: now}
}

const planReply = "Here you go:\n```json\n{\"title\":\"Focus Day\",\"schedule\":[" +
	"{\"time\":\"09:00\",\"activity\":\"Deep work\",\"details\":\"No meetings\"}," +
	"{\"time\":\"12:00\",\"activity\":\"Review\"}]}\n```"

func TestHandleTurnPlan(t *testing.T) {
	f := newFixture(t, planReply)

	result, err := f.uc.HandleTurn(context.Background(), TurnInput{
		UserID:  "user-1",
		Message: "Plan my focus day",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.SessionID)
	assert.Equal(t, ai.KindPlan, result.Kind)
	require.NotNil(t, result.Plan)
	assert.Equal(t, "Focus Day", result.Plan.Title)
	assert.Equal(t, f.now, result.Timestamp)

	// Session holds the user message and the canonical assistant payload.
	session, err := f.chats.Find(context.Background(), result.SessionID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Focus Day", session.Title)
	assert.Equal(t, string(ai.KindPlan), session.Category)
	require.Len(t, session.Messages, 2)
	assert.Equal(t, domain.RoleUser, session.Messages[0].Role)
	assert.Equal(t, "Plan my focus day", session.Messages[0].Content)
	assert.Equal(t, domain.RoleAssistant, session.Messages[1].Role)
	assert.Equal(t, string(ai.KindPlan), session.Messages[1].Type)
	assert.JSONEq(t, `{"title":"Focus Day","schedule":[
		{"time":"09:00","activity":"Deep work","details":"No meetings"},
		{"time":"12:00","activity":"Review"}]}`, session.Messages[1].Content)

	// A plan record and one task per schedule entry were derived.
	plans, err := f.plans.List(context.Background(), repository.PlanFilter{UserID: "user-1"})
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "Focus Day", plans[0].Title)
	assert.Equal(t, domain.CategoryGeneral, plans[0].Category)
	assert.Equal(t, "3.0hours", plans[0].Duration)
	assert.True(t, plans[0].AIGenerated)

	tasks, err := f.tasks.List(context.Background(), repository.TaskFilter{UserID: "user-1"})
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	assert.Equal(t, 1, f.stats.Counter("user-1", domain.StatPlansCreated))
	assert.Equal(t, 1, f.stats.Counter("user-1", domain.StatTotalSessions))
}

func TestHandleTurnTasks(t *testing.T) {
	reply := "```json\n{\"tasks\":[{\"title\":\"Buy tickets\"},{\"title\":\"Book hotel\",\"description\":\"Two nights\"}]}\n```"
	f := newFixture(t, reply)

	result, err := f.uc.HandleTurn(context.Background(), TurnInput{
		UserID:  "user-1",
		Message: "What should I prepare for the trip?",
	})
	require.NoError(t, err)
	assert.Equal(t, ai.KindTasks, result.Kind)
	assert.Nil(t, result.Plan)

	tasks, err := f.tasks.List(context.Background(), repository.TaskFilter{UserID: "user-1"})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		assert.True(t, task.AIGenerated)
		assert.Equal(t, domain.PriorityMedium, task.Priority)
	}

	plans, err := f.plans.List(context.Background(), repository.PlanFilter{UserID: "user-1"})
	require.NoError(t, err)
	assert.Empty(t, plans)

	assert.Equal(t, 1, f.stats.Counter("user-1", domain.StatTasksCreated))
	assert.Equal(t, 0, f.stats.Counter("user-1", domain.StatPlansCreated))
}

func TestHandleTurnChat(t *testing.T) {
	f := newFixture(t, "What time do you usually start your day?")

	result, err := f.uc.HandleTurn(context.Background(), TurnInput{
		UserID:  "user-1",
		Message: "Help me plan something",
	})
	require.NoError(t, err)
	assert.Equal(t, ai.KindChat, result.Kind)
	assert.Equal(t, "What time do you usually start your day?", result.Text)

	session, err := f.chats.Find(context.Background(), result.SessionID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Help me plan something", session.Title)
	assert.Equal(t, string(ai.KindChat), session.Category)
}

func TestHandleTurnLongMessageTruncatesTitle(t *testing.T) {
	long := strings.Repeat("a", 80)
	f := newFixture(t, "sure")

	result, err := f.uc.HandleTurn(context.Background(), TurnInput{UserID: "user-1", Message: long})
	require.NoError(t, err)

	session, err := f.chats.Find(context.Background(), result.SessionID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 50)+"...", session.Title)
}

func TestHandleTurnContinuesExistingSession(t *testing.T) {
	f := newFixture(t, "first reply", "second reply")

	first, err := f.uc.HandleTurn(context.Background(), TurnInput{UserID: "user-1", Message: "one"})
	require.NoError(t, err)

	second, err := f.uc.HandleTurn(context.Background(), TurnInput{
		UserID:    "user-1",
		Message:   "two",
		SessionID: first.SessionID,
	})
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, second.SessionID)

	session, err := f.chats.Find(context.Background(), first.SessionID, "user-1")
	require.NoError(t, err)
	assert.Len(t, session.Messages, 4)

	// Only the first turn created a session.
	assert.Equal(t, 1, f.stats.Counter("user-1", domain.StatTotalSessions))
}

func TestHandleTurnUnknownSessionWritesNothing(t *testing.T) {
	f := newFixture(t, "never sent")

	_, err := f.uc.HandleTurn(context.Background(), TurnInput{
		UserID:    "user-1",
		Message:   "hello",
		SessionID: "missing-session",
	})
	assert.ErrorIs(t, err, domain.ErrChatSessionNotFound)

	// No generation, no writes.
	assert.Equal(t, 0, f.api.calls)
	sessions, err := f.chats.List(context.Background(), repository.ChatSessionFilter{UserID: "user-1"})
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestHandleTurnOtherUsersSessionIsNotFound(t *testing.T) {
	f := newFixture(t, "a", "never sent")

	first, err := f.uc.HandleTurn(context.Background(), TurnInput{UserID: "user-1", Message: "mine"})
	require.NoError(t, err)

	_, err = f.uc.HandleTurn(context.Background(), TurnInput{
		UserID:    "user-2",
		Message:   "theirs",
		SessionID: first.SessionID,
	})
	assert.ErrorIs(t, err, domain.ErrChatSessionNotFound)
}

func TestHandleTurnGenerationFailureWritesNothing(t *testing.T) {
	f := newFixture(t)
	f.api.err = errors.New("model offline")

	_, err := f.uc.HandleTurn(context.Background(), TurnInput{UserID: "user-1", Message: "hello"})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUpstream))

	sessions, listErr := f.chats.List(context.Background(), repository.ChatSessionFilter{UserID: "user-1"})
	require.NoError(t, listErr)
	assert.Empty(t, sessions)
	assert.Equal(t, 0, f.stats.Counter("user-1", domain.StatTotalSessions))
}

func TestHandleTurnRejectsEmptyInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.HandleTurn(context.Background(), TurnInput{UserID: "", Message: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)

	_, err = f.uc.HandleTurn(context.Background(), TurnInput{UserID: "u", Message: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestHandleTurnConcurrentTurnsSameSession(t *testing.T) {
	f := newFixture(t, "a", "b", "c")

	first, err := f.uc.HandleTurn(context.Background(), TurnInput{UserID: "user-1", Message: "start"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.HandleTurn(context.Background(), TurnInput{
				UserID:    "user-1",
				Message:   "again",
				SessionID: first.SessionID,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Two serialized turns on top of the first: exactly six messages.
	session, err := f.chats.Find(context.Background(), first.SessionID, "user-1")
	require.NoError(t, err)
	assert.Len(t, session.Messages, 6)
}

func TestHistoryFiltersByCategory(t *testing.T) {
	f := newFixture(t, planReply, "just chatting")

	_, err := f.uc.HandleTurn(context.Background(), TurnInput{UserID: "user-1", Message: "plan please"})
	require.NoError(t, err)
	_, err = f.uc.HandleTurn(context.Background(), TurnInput{UserID: "user-1", Message: "hello"})
	require.NoError(t, err)

	all, err := f.uc.History(context.Background(), "user-1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	plansOnly, err := f.uc.History(context.Background(), "user-1", string(ai.KindPlan))
	require.NoError(t, err)
	require.Len(t, plansOnly, 1)
	assert.Equal(t, "Focus Day", plansOnly[0].Title)
}

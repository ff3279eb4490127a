package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/weaverapp/backend/domain"
	"github.com/weaverapp/backend/repository/memory"
)

type fixture struct {
	uc    *UseCase
	users *memory.UserStore
	tasks *memory.TaskStore
	plans *memory.PlanStore
	chats *memory.ChatSessionStore
	stats *memory.StatsStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users: memory.NewUserStore(),
		tasks: memory.NewTaskStore(),
		plans: memory.NewPlanStore(),
		chats: memory.NewChatSessionStore(),
		stats: memory.NewStatsStore(),
	}
	f.uc = New(f.users, f.tasks, f.plans, f.chats, f.stats, nil, nil)
	return f
}

func seedUser(t *testing.T, f *fixture, id, email, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{
		ID:           id,
		Name:         "Test User",
		Email:        email,
		PasswordHash: string(hash),
		Preferences:  domain.DefaultPreferences(),
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func TestUpdateProfilePartial(t *testing.T) {
	f := newFixture(t)
	seedUser(t, f, "user-1", "a@example.com", "pw")

	bio := "Building things"
	updated, err := f.uc.UpdateProfile(context.Background(), "user-1", UpdateInput{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Building things", updated.Bio)
	// Untouched fields survive.
	assert.Equal(t, "Test User", updated.Name)
	assert.Equal(t, "a@example.com", updated.Email)
}

func TestUpdateProfileEmailTaken(t *testing.T) {
	f := newFixture(t)
	seedUser(t, f, "user-1", "a@example.com", "pw")
	seedUser(t, f, "user-2", "b@example.com", "pw")

	email := "b@example.com"
	_, err := f.uc.UpdateProfile(context.Background(), "user-1", UpdateInput{Email: &email})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	seedUser(t, f, "user-1", "a@example.com", "old-pass")
	ctx := context.Background()

	err := f.uc.ChangePassword(ctx, "user-1", "wrong", "new-pass")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	require.NoError(t, f.uc.ChangePassword(ctx, "user-1", "old-pass", "new-pass"))

	stored, err := f.users.GetByID(ctx, "user-1")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-pass")))
}

func TestStatsOverview(t *testing.T) {
	f := newFixture(t)
	seedUser(t, f, "user-1", "a@example.com", "pw")
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := f.tasks.Create(ctx, &domain.Task{UserID: "user-1", Title: "t", Completed: i < 3})
		require.NoError(t, err)
	}
	_, err := f.plans.Create(ctx, &domain.Plan{UserID: "user-1", Title: "p"})
	require.NoError(t, err)
	require.NoError(t, f.stats.Increment(ctx, "user-1", domain.StatPlansCreated))

	overview, err := f.uc.Stats(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 4, overview.TotalTasks)
	assert.Equal(t, 3, overview.CompletedTasks)
	assert.Equal(t, 1, overview.PendingTasks)
	assert.Equal(t, 1, overview.TotalPlans)
	assert.Equal(t, 75, overview.CompletionRate)
	assert.Equal(t, 1, overview.Counters.PlansCreated)
}

func TestDeleteAccount(t *testing.T) {
	f := newFixture(t)
	seedUser(t, f, "user-1", "a@example.com", "pw")
	ctx := context.Background()

	require.NoError(t, f.uc.DeleteAccount(ctx, "user-1"))

	_, err := f.uc.GetProfile(ctx, "user-1")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	err = f.uc.DeleteAccount(ctx, "user-1")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

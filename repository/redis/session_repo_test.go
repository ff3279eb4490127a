package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaverapp/backend/domain"
	"github.com/weaverapp/backend/repository"
)

func setupRepo(t *testing.T) (*miniredis.Miniredis, repository.SessionRepository) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, NewSessionRepository(client, time.Hour)
}

func TestSessionSaveAndGet(t *testing.T) {
	_, repo := setupRepo(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	session := &domain.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}

	require.NoError(t, repo.Save(ctx, session))

	loaded, err := repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", loaded.UserID)
	assert.Equal(t, session.ExpiresAt.Unix(), loaded.ExpiresAt.Unix())
}

func TestSessionGetMissing(t *testing.T) {
	_, repo := setupRepo(t)

	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionDelete(t *testing.T) {
	_, repo := setupRepo(t)
	ctx := context.Background()

	session := &domain.Session{ID: "sess-2", UserID: "user-1"}
	require.NoError(t, repo.Save(ctx, session))
	require.NoError(t, repo.Delete(ctx, "sess-2"))

	_, err := repo.Get(ctx, "sess-2")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionExpiry(t *testing.T) {
	mr, repo := setupRepo(t)
	ctx := context.Background()

	now := time.Now()
	session := &domain.Session{
		ID:        "sess-3",
		UserID:    "user-1",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Minute),
	}
	require.NoError(t, repo.Save(ctx, session))

	mr.FastForward(2 * time.Minute)

	_, err := repo.Get(ctx, "sess-3")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionExtend(t *testing.T) {
	mr, repo := setupRepo(t)
	ctx := context.Background()

	now := time.Now()
	session := &domain.Session{
		ID:        "sess-4",
		UserID:    "user-1",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Minute),
	}
	require.NoError(t, repo.Save(ctx, session))
	require.NoError(t, repo.Extend(ctx, "sess-4", int((10*time.Minute).Seconds())))

	mr.FastForward(5 * time.Minute)

	loaded, err := repo.Get(ctx, "sess-4")
	require.NoError(t, err)
	assert.True(t, loaded.ExpiresAt.After(now.Add(time.Minute)))
}

func TestSessionExtendMissing(t *testing.T) {
	_, repo := setupRepo(t)

	err := repo.Extend(context.Background(), "nope", 600)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaverapp/backend/domain"
	"github.com/weaverapp/backend/repository/memory"
)

const testSecret = "test-secret"

func newTestUseCase(t *testing.T) (*UseCase, *memory.UserStore) {
	t.Helper()
	users := memory.NewUserStore()
	sessions := memory.NewSessionStore()
	return New(users, sessions, testSecret, "weaver-test", nil), users
}

func TestRegisterAndLogin(t *testing.T) {
	uc, _ := newTestUseCase(t)
	ctx := context.Background()

	creds, err := uc.Register(ctx, "Ada", "ada@example.com", "hunter22", time.Hour)
	require.NoError(t, err)
	require.NotNil(t, creds.User)
	assert.NotEmpty(t, creds.Token)
	assert.NotEmpty(t, creds.Session.ID)
	assert.Equal(t, "Ada", creds.User.Name)
	// The raw password never survives registration.
	assert.NotEqual(t, "hunter22", creds.User.PasswordHash)

	// The issued token verifies against the shared secret and names the user.
	token, err := jwt.Parse(creds.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, creds.User.ID, claims["user_id"])
	assert.Equal(t, "weaver-test", claims["iss"])

	logged, err := uc.Login(ctx, "ada@example.com", "hunter22", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, creds.User.ID, logged.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	uc, _ := newTestUseCase(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, "Ada", "ada@example.com", "pw", time.Hour)
	require.NoError(t, err)

	_, err = uc.Register(ctx, "Imposter", "ada@example.com", "pw2", time.Hour)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	uc, _ := newTestUseCase(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, "Ada", "ada@example.com", "correct", time.Hour)
	require.NoError(t, err)

	_, err = uc.Login(ctx, "ada@example.com", "wrong", time.Hour)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Login(ctx, "nobody@example.com", "correct", time.Hour)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRefreshUnknownSession(t *testing.T) {
	uc, _ := newTestUseCase(t)

	_, err := uc.RefreshSession(context.Background(), "missing", time.Hour)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRegisterRejectsEmptyFields(t *testing.T) {
	uc, _ := newTestUseCase(t)

	_, err := uc.Register(context.Background(), "", "a@b.c", "pw", time.Hour)
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/weaverapp/backend/domain"
	"github.com/weaverapp/backend/repository"
)

type UseCase struct {
	users     repository.UserRepository
	sessions  repository.SessionRepository
	jwtSecret []byte
	jwtIssuer string
	logger    *zap.Logger
}

func New(users repository.UserRepository, sessions repository.SessionRepository, jwtSecret, jwtIssuer string, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:     users,
		sessions:  sessions,
		jwtSecret: []byte(jwtSecret),
		jwtIssuer: jwtIssuer,
		logger:    logger,
	}
}

// Credentials is the outcome of a successful register or login.
type Credentials struct {
	Token   string          `json:"token"`
	User    *domain.User    `json:"user"`
	Session *domain.Session `json:"session"`
}

func (uc *UseCase) Register(ctx context.Context, name, email, password string, ttl time.Duration) (*Credentials, error) {
	if name == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidPayload
	}

	if _, err := uc.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Preferences:  domain.DefaultPreferences(),
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.logger.Info("user registered", zap.String("user_id", user.ID))
	return uc.issueCredentials(ctx, user, ttl)
}

func (uc *UseCase) Login(ctx context.Context, email, password string, ttl time.Duration) (*Credentials, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return uc.issueCredentials(ctx, user, ttl)
}

func (uc *UseCase) RefreshSession(ctx context.Context, sessionID string, ttl time.Duration) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.Extend(ctx, sessionID, int(ttl.Seconds())); err != nil {
		return nil, err
	}
	session.ExpiresAt = time.Now().Add(ttl)
	return session, nil
}

func (uc *UseCase) RevokeSession(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

func (uc *UseCase) issueCredentials(ctx context.Context, user *domain.User, ttl time.Duration) (*Credentials, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := time.Now()

	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"sid":     session.ID,
		"iss":     uc.jwtIssuer,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &Credentials{
		Token:   token,
		User:    user,
		Session: session,
	}, nil
}

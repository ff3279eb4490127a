package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/weaverapp/backend/domain"
	"github.com/weaverapp/backend/repository"
)

const sessionKeyPrefix = "auth:session:"

// sessionRepository keeps auth sessions in Redis with the key TTL as the
// source of truth for expiry, so expired sessions vanish without a sweeper.
type sessionRepository struct {
	client *redislib.Client
	ttl    time.Duration
}

func NewSessionRepository(client *redislib.Client, ttl time.Duration) repository.SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &sessionRepository{client: client, ttl: ttl}
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := r.client.Get(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidPayload
	}

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	if session.ExpiresAt.Before(session.CreatedAt) {
		session.ExpiresAt = session.CreatedAt.Add(r.ttl)
	}

	return r.write(ctx, session)
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKeyPrefix+id).Err()
}

// Extend pushes the expiry forward and rewrites the payload so ExpiresAt
// stays consistent with the key TTL.
func (r *sessionRepository) Extend(ctx context.Context, id string, ttlSeconds int) error {
	duration := time.Duration(ttlSeconds) * time.Second
	if duration <= 0 {
		duration = r.ttl
	}

	session, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	session.ExpiresAt = time.Now().Add(duration)
	return r.write(ctx, session)
}

func (r *sessionRepository) write(ctx context.Context, session *domain.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		ttl = r.ttl
	}
	return r.client.Set(ctx, sessionKeyPrefix+session.ID, payload, ttl).Err()
}

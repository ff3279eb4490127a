package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/weaverapp/backend/domain"
)

// UserStore is an in-memory UserRepository used in tests.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[string]domain.User),
	}
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			out := user
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	user.UpdatedAt = time.Now()
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

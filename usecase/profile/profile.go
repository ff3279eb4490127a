package profile

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/weaverapp/backend/domain"
	"github.com/weaverapp/backend/repository"
	"github.com/weaverapp/backend/usecase"
)

type UseCase struct {
	users  repository.UserRepository
	tasks  repository.TaskRepository
	plans  repository.PlanRepository
	chats  repository.ChatSessionRepository
	stats  repository.StatsRepository
	buffer usecase.OperationBuffer
	logger *zap.Logger
}

func New(
	users repository.UserRepository,
	tasks repository.TaskRepository,
	plans repository.PlanRepository,
	chats repository.ChatSessionRepository,
	stats repository.StatsRepository,
	buffer usecase.OperationBuffer,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		tasks:  tasks,
		plans:  plans,
		chats:  chats,
		stats:  stats,
		buffer: buffer,
		logger: logger,
	}
}

func (uc *UseCase) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

// UpdateInput carries the mutable profile fields; nil pointers leave the
// stored value untouched.
type UpdateInput struct {
	Name        *string
	Email       *string
	Phone       *string
	Location    *string
	Bio         *string
	Avatar      *string
	Preferences *domain.Preferences
}

func (uc *UseCase) UpdateProfile(ctx context.Context, userID string, in UpdateInput) (*domain.User, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != user.Email {
		if existing, err := uc.users.GetByEmail(ctx, *in.Email); err == nil && existing.ID != userID {
			return nil, domain.ErrEmailTaken
		}
		user.Email = *in.Email
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Location != nil {
		user.Location = *in.Location
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}
	if in.Preferences != nil {
		user.Preferences = *in.Preferences
	}

	if err := uc.users.Update(ctx, user); err != nil {
		if uc.buffer != nil {
			if bufErr := uc.buffer.BufferProfile(ctx, usecase.OperationUpdate, user); bufErr != nil {
				uc.logger.Error("failed to buffer profile update", zap.Error(bufErr))
				return nil, err
			}
			uc.logger.Warn("profile update buffered due to repository error", zap.Error(err))
			return user, nil
		}
		return nil, err
	}
	return user, nil
}

func (uc *UseCase) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return domain.ErrInvalidPayload
	}

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return domain.WrapError(domain.ErrCodeInvalid, "current password is incorrect", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)

	return uc.users.Update(ctx, user)
}

func (uc *UseCase) DeleteAccount(ctx context.Context, userID string) error {
	if _, err := uc.users.GetByID(ctx, userID); err != nil {
		return err
	}
	return uc.users.Delete(ctx, userID)
}

// Stats assembles the dashboard overview: live aggregates over source
// records plus the stored increment-only counters.
func (uc *UseCase) Stats(ctx context.Context, userID string) (*domain.StatsOverview, error) {
	totalTasks, completedTasks, err := uc.tasks.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	totalPlans, err := uc.plans.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	totalChats, err := uc.chats.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	counters, err := uc.stats.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	rate := 0
	if totalTasks > 0 {
		rate = completedTasks * 100 / totalTasks
	}

	return &domain.StatsOverview{
		TotalTasks:     totalTasks,
		CompletedTasks: completedTasks,
		PendingTasks:   totalTasks - completedTasks,
		TotalPlans:     totalPlans,
		TotalChats:     totalChats,
		CompletionRate: rate,
		Counters:       *counters,
	}, nil
}

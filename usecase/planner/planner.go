package planner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/weaverapp/backend/domain"
	"github.com/weaverapp/backend/repository"
	"github.com/weaverapp/backend/usecase"
)

// UseCase owns plan CRUD and the derivation of plans from extracted
// assistant payloads.
type UseCase struct {
	plans  repository.PlanRepository
	tasks  repository.TaskRepository
	stats  repository.StatsRepository
	buffer usecase.OperationBuffer
	logger *zap.Logger
	now    func() time.Time
}

func New(plans repository.PlanRepository, tasks repository.TaskRepository, stats repository.StatsRepository, buffer usecase.OperationBuffer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		plans:  plans,
		tasks:  tasks,
		stats:  stats,
		buffer: buffer,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the time source, used by tests that pin "now".
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	if now != nil {
		uc.now = now
	}
	return uc
}

func (uc *UseCase) ListPlans(ctx context.Context, filter repository.PlanFilter) ([]domain.Plan, error) {
	return uc.plans.List(ctx, filter)
}

func (uc *UseCase) GetPlan(ctx context.Context, id, userID string) (*domain.Plan, error) {
	plan, err := uc.plans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, domain.ErrPlanNotFound
	}
	return plan, nil
}

// Manual plan durations map onto a horizon in days; the due date is that far
// out from creation.
var durationDays = map[string]int{
	"1week":   7,
	"1month":  30,
	"3months": 90,
	"6months": 180,
	"1year":   365,
}

const defaultDurationDays = 30

// ManualPlanInput is a plan authored through the planner screen rather than
// derived from a conversation.
type ManualPlanInput struct {
	UserID      string
	Title       string
	Description string
	Category    string
	Duration    string
}

func (uc *UseCase) CreatePlan(ctx context.Context, in ManualPlanInput) (*domain.Plan, error) {
	if in.UserID == "" || in.Title == "" {
		return nil, domain.ErrInvalidPayload
	}

	days, ok := durationDays[in.Duration]
	if !ok {
		days = defaultDurationDays
	}
	due := uc.now().AddDate(0, 0, days)

	category := in.Category
	if category == "" {
		category = inferCategory(in.Title)
	}

	plan := &domain.Plan{
		UserID:      in.UserID,
		Title:       in.Title,
		Description: in.Description,
		Category:    category,
		Duration:    in.Duration,
		Status:      domain.PlanStatusActive,
		DueDate:     &due,
	}

	created, err := uc.plans.Create(ctx, plan)
	if err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationCreate, plan) {
			created = plan
		} else {
			return nil, err
		}
	}

	if err := uc.stats.Increment(ctx, in.UserID, domain.StatPlansCreated); err != nil {
		uc.logger.Warn("failed to bump plans counter", zap.Error(err))
	}
	return created, nil
}

// UpdatePlanInput carries the mutable plan fields; nil pointers leave the
// stored value untouched.
type UpdatePlanInput struct {
	Title       *string
	Description *string
	Category    *string
	Duration    *string
	Status      *string
	Progress    *int
	DueDate     *time.Time
}

func (uc *UseCase) UpdatePlan(ctx context.Context, id, userID string, in UpdatePlanInput) (*domain.Plan, error) {
	plan, err := uc.GetPlan(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		plan.Title = *in.Title
	}
	if in.Description != nil {
		plan.Description = *in.Description
	}
	if in.Category != nil {
		plan.Category = *in.Category
	}
	if in.Duration != nil {
		plan.Duration = *in.Duration
	}
	if in.Status != nil {
		if !domain.ValidPlanStatus(*in.Status) {
			return nil, domain.WrapError(domain.ErrCodeInvalid, "invalid plan status", nil)
		}
		plan.Status = *in.Status
	}
	if in.Progress != nil {
		plan.Progress = domain.ClampProgress(*in.Progress)
	}
	if in.DueDate != nil {
		plan.DueDate = in.DueDate
	}

	if err := uc.plans.Update(ctx, plan); err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationUpdate, plan) {
			return plan, nil
		}
		return nil, err
	}
	return plan, nil
}

func (uc *UseCase) DeletePlan(ctx context.Context, id, userID string) error {
	plan, err := uc.GetPlan(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := uc.plans.Delete(ctx, id); err != nil {
		if err == domain.ErrPlanNotFound {
			return err
		}
		if uc.shouldBuffer(ctx, usecase.OperationDelete, plan) {
			return nil
		}
		return err
	}
	return nil
}

// LatestPlan returns the user's active plan with the nearest due date.
func (uc *UseCase) LatestPlan(ctx context.Context, userID string) (*domain.Plan, error) {
	return uc.plans.LatestActive(ctx, userID)
}

func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, plan *domain.Plan) bool {
	if uc.buffer == nil {
		return false
	}
	if err := uc.buffer.BufferPlan(ctx, operation, plan); err != nil {
		uc.logger.Warn("failed to buffer plan operation", zap.Error(err))
		return false
	}
	uc.logger.Info("plan operation buffered",
		zap.String("operation", operation),
		zap.String("plan_id", plan.ID),
	)
	return true
}

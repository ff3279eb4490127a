package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/weaverapp/backend/domain"
	"github.com/weaverapp/backend/repository"
)

// PlanStore is an in-memory PlanRepository used in tests.
type PlanStore struct {
	mu    sync.RWMutex
	plans map[string]domain.Plan
}

func NewPlanStore() *PlanStore {
	return &PlanStore{
		plans: make(map[string]domain.Plan),
	}
}

func (s *PlanStore) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.plans[id]
	if !ok {
		return nil, domain.ErrPlanNotFound
	}
	return &plan, nil
}

func (s *PlanStore) List(ctx context.Context, filter repository.PlanFilter) ([]domain.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var plans []domain.Plan
	for _, plan := range s.plans {
		if filter.UserID != "" && plan.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && plan.Status != filter.Status {
			continue
		}
		if filter.Category != "" && plan.Category != filter.Category {
			continue
		}
		plans = append(plans, plan)
	}
	sort.Slice(plans, func(i, j int) bool {
		return plans[i].CreatedAt.After(plans[j].CreatedAt)
	})
	if filter.Limit > 0 && len(plans) > filter.Limit {
		plans = plans[:filter.Limit]
	}
	return plans, nil
}

func (s *PlanStore) Create(ctx context.Context, plan *domain.Plan) (*domain.Plan, error) {
	if plan == nil {
		return nil, domain.ErrInvalidPayload
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	if plan.Status == "" {
		plan.Status = domain.PlanStatusActive
	}
	now := time.Now()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	s.plans[plan.ID] = *plan
	return plan, nil
}

func (s *PlanStore) Update(ctx context.Context, plan *domain.Plan) error {
	if plan == nil {
		return domain.ErrInvalidPayload
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plans[plan.ID]; !ok {
		return domain.ErrPlanNotFound
	}
	plan.UpdatedAt = time.Now()
	s.plans[plan.ID] = *plan
	return nil
}

func (s *PlanStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plans[id]; !ok {
		return domain.ErrPlanNotFound
	}
	delete(s.plans, id)
	return nil
}

func (s *PlanStore) LatestActive(ctx context.Context, userID string) (*domain.Plan, error) {
	plans, err := s.List(ctx, repository.PlanFilter{UserID: userID, Status: domain.PlanStatusActive})
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, domain.ErrPlanNotFound
	}
	sort.Slice(plans, func(i, j int) bool {
		di, dj := plans[i].DueDate, plans[j].DueDate
		switch {
		case di == nil && dj == nil:
			return plans[i].CreatedAt.After(plans[j].CreatedAt)
		case di == nil:
			return false
		case dj == nil:
			return true
		case !di.Equal(*dj):
			return di.Before(*dj)
		default:
			return plans[i].CreatedAt.After(plans[j].CreatedAt)
		}
	})
	return &plans[0], nil
}

func (s *PlanStore) CountByUser(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, plan := range s.plans {
		if plan.UserID == userID {
			count++
		}
	}
	return count, nil
}

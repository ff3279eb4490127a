package memory

import (
	"context"
	"sync"

	"github.com/weaverapp/backend/domain"
)

// StatsStore is an in-memory StatsRepository used in tests.
type StatsStore struct {
	mu       sync.RWMutex
	counters map[string]map[string]int
}

func NewStatsStore() *StatsStore {
	return &StatsStore{
		counters: make(map[string]map[string]int),
	}
}

func (s *StatsStore) Get(ctx context.Context, userID string) (*domain.UserStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.counters[userID]
	return &domain.UserStats{
		UserID:         userID,
		PlansCreated:   c[domain.StatPlansCreated],
		TasksCreated:   c[domain.StatTasksCreated],
		TasksCompleted: c[domain.StatTasksCompleted],
		TotalSessions:  c[domain.StatTotalSessions],
	}, nil
}

func (s *StatsStore) Increment(ctx context.Context, userID, counter string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.counters[userID] == nil {
		s.counters[userID] = make(map[string]int)
	}
	s.counters[userID][counter]++
	return nil
}

// Counter reads one counter directly, a convenience for assertions.
func (s *StatsStore) Counter(userID, counter string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counters[userID][counter]
}

package domain

import "time"

// Plan lifecycle states. Any state may transition back to active; deletion is
// allowed from any state.
const (
	PlanStatusActive    = "active"
	PlanStatusCompleted = "completed"
	PlanStatusPaused    = "paused"
)

// Plan categories inferred from the plan title.
const (
	CategoryFitness   = "fitness"
	CategoryEducation = "education"
	CategoryTravel    = "travel"
	CategoryWork      = "work"
	CategoryGeneral   = "general"
)

// Plan represents a user-owned plan, either authored manually or derived from
// an assistant conversation. Description stores the serialized schedule for
// AI-derived plans and freeform text for manual ones, so heterogeneous shapes
// round-trip through the same field.
type Plan struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Duration    string     `json:"duration"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	AIGenerated bool       `json:"ai_generated"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ValidPlanStatus reports whether status names a known lifecycle state.
func ValidPlanStatus(status string) bool {
	switch status {
	case PlanStatusActive, PlanStatusCompleted, PlanStatusPaused:
		return true
	}
	return false
}

// ClampProgress bounds a progress percentage to [0,100].
func ClampProgress(progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

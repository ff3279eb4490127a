package domain

import "time"

// Task priority levels.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task represents a user-owned activity item. PlanID is a weak reference:
// a task survives the deletion of its parent plan and is then surfaced as
// unassigned.
type Task struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	PlanID        string     `json:"plan_id,omitempty"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Category      string     `json:"category,omitempty"`
	Priority      string     `json:"priority"`
	Completed     bool       `json:"completed"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	EstimatedTime string     `json:"estimated_time,omitempty"`
	AIGenerated   bool       `json:"ai_generated"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// PriorityRank maps priorities to a sortable weight, highest first.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

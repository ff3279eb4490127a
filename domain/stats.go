package domain

// Counter names accepted by the stats store. These are increment-only
// aggregates, never recomputed from source records.
const (
	StatPlansCreated   = "plans_created"
	StatTasksCreated   = "tasks_created"
	StatTasksCompleted = "tasks_completed"
	StatTotalSessions  = "total_sessions"
)

// UserStats holds per-user activity counters.
type UserStats struct {
	UserID         string `json:"user_id"`
	PlansCreated   int    `json:"plans_created"`
	TasksCreated   int    `json:"tasks_created"`
	TasksCompleted int    `json:"tasks_completed"`
	TotalSessions  int    `json:"total_sessions"`
}

// StatsOverview is the live dashboard aggregation computed from source
// records, merged with the stored counters.
type StatsOverview struct {
	TotalTasks     int `json:"total_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	PendingTasks   int `json:"pending_tasks"`
	TotalPlans     int `json:"total_plans"`
	TotalChats     int `json:"total_chats"`
	CompletionRate int `json:"completion_rate"`

	Counters UserStats `json:"counters"`
}

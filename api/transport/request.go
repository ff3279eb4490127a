package transport

import "github.com/weaverapp/backend/domain"

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	SessionID string `json:"session_id"`
	TTL       int    `json:"ttl_seconds"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type ChatMessageRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type PlanRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Duration    string `json:"duration"`
}

// PlanUpdateRequest uses pointers so absent fields leave the stored plan untouched.
type PlanUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Duration    *string `json:"duration"`
	Status      *string `json:"status"`
	Progress    *int    `json:"progress"`
	DueDate     *string `json:"due_date"`
}

type TaskRequest struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Priority      string `json:"priority"`
	Completed     bool   `json:"completed"`
	DueDate       string `json:"due_date"`
	EstimatedTime string `json:"estimated_time"`
	PlanID        string `json:"plan_id"`
}

type GenerateTasksRequest struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// ProfileUpdateRequest uses pointers so absent fields leave the stored profile untouched.
type ProfileUpdateRequest struct {
	Name        *string             `json:"name"`
	Email       *string             `json:"email"`
	Phone       *string             `json:"phone"`
	Location    *string             `json:"location"`
	Bio         *string             `json:"bio"`
	Avatar      *string             `json:"avatar"`
	Preferences *domain.Preferences `json:"preferences"`
}

package domain

import "time"

// User represents an authenticated identity in the platform.
type User struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Phone        string      `json:"phone,omitempty"`
	Location     string      `json:"location,omitempty"`
	Bio          string      `json:"bio,omitempty"`
	Avatar       string      `json:"avatar,omitempty"`
	Preferences  Preferences `json:"preferences"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Preferences holds per-user application toggles.
type Preferences struct {
	EmailNotifications bool `json:"email_notifications"`
	PushNotifications  bool `json:"push_notifications"`
	WeeklyReports      bool `json:"weekly_reports"`
	AISuggestions      bool `json:"ai_suggestions"`
	DarkMode           bool `json:"dark_mode"`
	CompactView        bool `json:"compact_view"`
	AutoGenerateTasks  bool `json:"auto_generate_tasks"`
	SmartScheduling    bool `json:"smart_scheduling"`
}

// DefaultPreferences mirrors the defaults applied at registration.
func DefaultPreferences() Preferences {
	return Preferences{
		EmailNotifications: true,
		PushNotifications:  true,
		WeeklyReports:      true,
		AISuggestions:      true,
		DarkMode:           true,
		AutoGenerateTasks:  true,
		SmartScheduling:    true,
	}
}

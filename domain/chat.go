package domain

import "time"

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Classification of an assistant turn. Also used as the session-level
// category, which always reflects the most recent turn.
const (
	ChatKindPlan  = "plan"
	ChatKindTasks = "tasks"
	ChatKindChat  = "chat"
)

// ChatMessage is one turn half inside a chat session. Type is empty for user
// messages and carries the turn classification for assistant messages.
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Type      string    `json:"type,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatSession is an append-only, timestamp-ordered conversation between one
// user and the assistant, persisted as a single document.
type ChatSession struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Title     string        `json:"title"`
	Category  string        `json:"category"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Append adds a message and keeps the session's updated timestamp in step.
func (s *ChatSession) Append(msg ChatMessage) {
	if s == nil {
		return
	}
	s.Messages = append(s.Messages, msg)
	if msg.Timestamp.After(s.UpdatedAt) {
		s.UpdatedAt = msg.Timestamp
	}
}

// LastMessage returns the most recent message, or nil for an empty session.
func (s *ChatSession) LastMessage() *ChatMessage {
	if s == nil || len(s.Messages) == 0 {
		return nil
	}
	return &s.Messages[len(s.Messages)-1]
}

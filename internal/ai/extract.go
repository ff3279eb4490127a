package ai

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Kind classifies one assistant response.
type Kind string

const (
	KindPlan  Kind = "plan"
	KindTasks Kind = "tasks"
	KindChat  Kind = "chat"
)

// ScheduleEntry is one timed step inside an extracted plan.
type ScheduleEntry struct {
	Time     string `json:"time"`
	Activity string `json:"activity"`
	Details  string `json:"details,omitempty"`
}

// ExtractedPlan is the structured payload recovered from assistant text.
// A response only counts as a plan when both Title and a non-empty Schedule
// are present.
type ExtractedPlan struct {
	Title    string          `json:"title"`
	Schedule []ScheduleEntry `json:"schedule"`
}

// TaskEntry is one item of an extracted task list.
type TaskEntry struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// ExtractedTaskList is the structured payload for a task-list response.
type ExtractedTaskList struct {
	Tasks []TaskEntry `json:"tasks"`
}

// Extraction is the closed result of classifying one assistant response.
// Exactly one of Plan/Tasks is set for the structured kinds; Text always
// carries the original assistant text.
type Extraction struct {
	Kind  Kind
	Plan  *ExtractedPlan
	Tasks *ExtractedTaskList
	Text  string
}

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// Extract classifies assistant text as plan, tasks, or chat. It prefers a
// fenced code block and otherwise takes the widest top-level {...} span.
// Malformed or missing structure never raises: ambiguous input degrades to a
// chat passthrough so the caller always has a readable reply.
func Extract(text string) Extraction {
	chat := Extraction{Kind: KindChat, Text: text}

	raw := candidateJSON(text)
	if raw == "" {
		return chat
	}

	var payload struct {
		Title    string          `json:"title"`
		Schedule []ScheduleEntry `json:"schedule"`
		Tasks    []TaskEntry     `json:"tasks"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return chat
	}

	switch {
	case payload.Title != "" && len(payload.Schedule) > 0:
		return Extraction{
			Kind: KindPlan,
			Plan: &ExtractedPlan{Title: payload.Title, Schedule: payload.Schedule},
			Text: text,
		}
	case len(payload.Tasks) > 0:
		return Extraction{
			Kind:  KindTasks,
			Tasks: &ExtractedTaskList{Tasks: payload.Tasks},
			Text:  text,
		}
	default:
		return chat
	}
}

func candidateJSON(text string) string {
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

package monitor

import "time"

// Status is the last probe snapshot served by the health endpoint.
type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	Buffer     bool      `json:"buffer"`
	BufferSize int       `json:"buffer_size"`
	LastCheck  time.Time `json:"last_check"`
}

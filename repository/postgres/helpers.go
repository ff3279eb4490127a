package postgres

import "time"

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}

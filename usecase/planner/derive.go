package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/weaverapp/backend/domain"
	"github.com/weaverapp/backend/internal/ai"
)

// Category inference walks this table in order and takes the first rule whose
// keyword appears in the lowercased plan title. The order is part of the
// observable behavior; tests pin it.
type categoryRule struct {
	keywords []string
	category string
}

var categoryRules = []categoryRule{
	{keywords: []string{"workout", "gym"}, category: domain.CategoryFitness},
	{keywords: []string{"study", "exam"}, category: domain.CategoryEducation},
	{keywords: []string{"trip", "travel"}, category: domain.CategoryTravel},
	{keywords: []string{"project"}, category: domain.CategoryWork},
}

const defaultDuration = "1hour"

func inferCategory(title string) string {
	lower := strings.ToLower(title)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return domain.CategoryGeneral
}

type clockTime struct {
	hour   int
	minute int
}

// parseClock understands "15:04" and "3:04 PM" style times.
func parseClock(s string) (clockTime, bool) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return clockTime{}, false
	}

	parts := strings.Split(fields[0], ":")
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return clockTime{}, false
	}
	minute := 0
	if len(parts) > 1 {
		if minute, err = strconv.Atoi(parts[1]); err != nil {
			return clockTime{}, false
		}
	}

	if len(fields) > 1 {
		switch strings.ToLower(fields[1]) {
		case "pm":
			if hour < 12 {
				hour += 12
			}
		case "am":
			if hour == 12 {
				hour = 0
			}
		}
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return clockTime{}, false
	}
	return clockTime{hour: hour, minute: minute}, true
}

// durationFromSchedule spans the first and last entry's clock times. A
// negative span is read as a schedule crossing midnight and gains a day; only
// a zero span or unparseable endpoints fall back to the default.
func durationFromSchedule(schedule []ai.ScheduleEntry) string {
	if len(schedule) < 2 {
		return defaultDuration
	}
	start, okStart := parseClock(schedule[0].Time)
	end, okEnd := parseClock(schedule[len(schedule)-1].Time)
	if !okStart || !okEnd {
		return defaultDuration
	}

	minutes := (end.hour-start.hour)*60 + (end.minute - start.minute)
	if minutes < 0 {
		minutes += 24 * 60
	}
	if minutes == 0 {
		return defaultDuration
	}
	return fmt.Sprintf("%.1fhours", float64(minutes)/60)
}

// dueDateFromSchedule anchors the first entry's time on today, rolling to
// tomorrow when that moment already passed.
func dueDateFromSchedule(schedule []ai.ScheduleEntry, now time.Time) time.Time {
	if len(schedule) == 0 {
		return now
	}
	clock, ok := parseClock(schedule[0].Time)
	if !ok {
		return now
	}

	due := time.Date(now.Year(), now.Month(), now.Day(), clock.hour, clock.minute, 0, 0, now.Location())
	if due.Before(now) {
		due = due.AddDate(0, 0, 1)
	}
	return due
}

// DeriveFromExtraction materializes an extracted plan as a Plan record plus
// one Task per schedule entry. Task creation happens per record with no
// cross-record transaction: if it fails partway the Plan and earlier tasks
// remain and the error reports the partial state.
func (uc *UseCase) DeriveFromExtraction(ctx context.Context, userID string, extracted *ai.ExtractedPlan) (*domain.Plan, []domain.Task, error) {
	if extracted == nil || extracted.Title == "" || len(extracted.Schedule) == 0 {
		return nil, nil, domain.ErrInvalidPayload
	}

	description, err := json.Marshal(extracted)
	if err != nil {
		return nil, nil, err
	}

	now := uc.now()
	due := dueDateFromSchedule(extracted.Schedule, now)
	category := inferCategory(extracted.Title)

	plan := &domain.Plan{
		UserID:      userID,
		Title:       extracted.Title,
		Description: string(description),
		Category:    category,
		Duration:    durationFromSchedule(extracted.Schedule),
		Status:      domain.PlanStatusActive,
		Progress:    0,
		DueDate:     &due,
		AIGenerated: true,
	}

	created, err := uc.plans.Create(ctx, plan)
	if err != nil {
		return nil, nil, domain.WrapError(domain.ErrCodeUnavailable, "plan not persisted", err)
	}

	tasks := make([]domain.Task, 0, len(extracted.Schedule))
	for _, entry := range extracted.Schedule {
		title := entry.Activity
		if title == "" {
			title = "AI Task"
		}
		task := domain.Task{
			UserID:      userID,
			PlanID:      created.ID,
			Title:       title,
			Description: entry.Details,
			Category:    category,
			Priority:    domain.PriorityMedium,
			DueDate:     &due,
			AIGenerated: true,
		}
		stored, err := uc.tasks.Create(ctx, &task)
		if err != nil {
			uc.logger.Error("plan task not persisted",
				zap.String("plan_id", created.ID),
				zap.String("activity", entry.Activity),
				zap.Error(err))
			return created, tasks, domain.WrapError(domain.ErrCodeUnavailable, "plan tasks partially created", err)
		}
		tasks = append(tasks, *stored)
	}

	uc.logger.Info("plan derived from conversation",
		zap.String("plan_id", created.ID),
		zap.String("category", category),
		zap.Int("tasks", len(tasks)))
	return created, tasks, nil
}

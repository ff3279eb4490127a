package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/weaverapp/backend/api/transport"
	"github.com/weaverapp/backend/domain"
	"github.com/weaverapp/backend/pkg/httpcontext"
	"github.com/weaverapp/backend/repository"
	taskUC "github.com/weaverapp/backend/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List tasks
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	filter := repository.TaskFilter{
		UserID: userID,
		Filter: string(ctx.QueryArgs().Peek("filter")),
		PlanID: string(ctx.QueryArgs().Peek("plan_id")),
		SortBy: string(ctx.QueryArgs().Peek("sort")),
		Limit:  parseInt(string(ctx.QueryArgs().Peek("limit")), 50),
		Offset: parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListTasks(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	task, ok := h.parseTask(ctx, userID)
	if !ok {
		return
	}
	if task.Title == "" {
		h.respondInvalid(ctx, "title is required")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateTask(stdCtx, task)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update task
// @Tags tasks
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	task, ok := h.parseTask(ctx, userID)
	if !ok {
		return
	}

	if task.ID == "" {
		if id, ok := ctx.UserValue("id").(string); ok {
			task.ID = id
		}
	}
	if task.ID == "" {
		h.respondInvalid(ctx, "missing task id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateTask(stdCtx, task)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing task id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteTask(stdCtx, id, userID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Generate suggested tasks
// @Tags tasks
// @Router /api/v1/tasks/generate [post]
func (h *TaskHandler) GenerateTasks(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.GenerateTasksRequest
	if len(ctx.PostBody()) > 0 {
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			h.respondInvalid(ctx, "invalid payload")
			return
		}
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.GenerateTasks(stdCtx, taskUC.GenerateInput{
		UserID:   userID,
		Category: req.Category,
		Count:    req.Count,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, tasks)
}

func (h *TaskHandler) parseTask(ctx *fasthttp.RequestCtx, userID string) (*domain.Task, bool) {
	var req transport.TaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return nil, false
	}

	var due *time.Time
	if req.DueDate != "" {
		if parsed, err := time.Parse(time.RFC3339, req.DueDate); err == nil {
			due = &parsed
		}
	}

	task := &domain.Task{
		ID:            req.ID,
		UserID:        userID,
		PlanID:        req.PlanID,
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Priority:      req.Priority,
		Completed:     req.Completed,
		DueDate:       due,
		EstimatedTime: req.EstimatedTime,
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	}
	return task, true
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}

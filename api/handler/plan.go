package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/weaverapp/backend/api/transport"
	"github.com/weaverapp/backend/pkg/httpcontext"
	"github.com/weaverapp/backend/repository"
	plannerUC "github.com/weaverapp/backend/usecase/planner"
)

type PlanHandler struct {
	baseHandler
	uc *plannerUC.UseCase
}

func NewPlanHandler(uc *plannerUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *PlanHandler {
	return &PlanHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List plans
// @Tags plans
// @Router /api/v1/plans [get]
func (h *PlanHandler) GetPlans(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	filter := repository.PlanFilter{
		UserID:   userID,
		Status:   string(ctx.QueryArgs().Peek("status")),
		Category: string(ctx.QueryArgs().Peek("category")),
		Limit:    parseInt(string(ctx.QueryArgs().Peek("limit")), 50),
		Offset:   parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	plans, err := h.uc.ListPlans(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, plans)
}

// @Summary Get plan
// @Tags plans
// @Router /api/v1/plans/{id} [get]
func (h *PlanHandler) GetPlan(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing plan id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	plan, err := h.uc.GetPlan(stdCtx, id, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, plan)
}

// @Summary Create plan
// @Tags plans
// @Router /api/v1/plans [post]
func (h *PlanHandler) CreatePlan(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.PlanRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Title == "" {
		h.respondInvalid(ctx, "title is required")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreatePlan(stdCtx, plannerUC.ManualPlanInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Duration:    req.Duration,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update plan
// @Tags plans
// @Router /api/v1/plans/{id} [put]
func (h *PlanHandler) UpdatePlan(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing plan id")
		return
	}

	var req transport.PlanUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	in := plannerUC.UpdatePlanInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Duration:    req.Duration,
		Status:      req.Status,
		Progress:    req.Progress,
	}
	if req.DueDate != nil {
		parsed, err := time.Parse(time.RFC3339, *req.DueDate)
		if err != nil {
			h.respondInvalid(ctx, "due_date must be RFC 3339")
			return
		}
		in.DueDate = &parsed
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdatePlan(stdCtx, id, userID, in)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete plan
// @Tags plans
// @Router /api/v1/plans/{id} [delete]
func (h *PlanHandler) DeletePlan(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing plan id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeletePlan(stdCtx, id, userID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

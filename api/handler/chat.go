package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/weaverapp/backend/api/transport"
	"github.com/weaverapp/backend/internal/ai"
	"github.com/weaverapp/backend/pkg/httpcontext"
	chatUC "github.com/weaverapp/backend/usecase/chat"
	plannerUC "github.com/weaverapp/backend/usecase/planner"
)

type ChatHandler struct {
	baseHandler
	uc      *chatUC.UseCase
	planner *plannerUC.UseCase
}

func NewChatHandler(uc *chatUC.UseCase, planner *plannerUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		planner:     planner,
	}
}

// @Summary Send a message to the assistant
// @Tags chat
// @Router /api/v1/chat/message [post]
func (h *ChatHandler) Message(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.ChatMessageRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Message == "" {
		h.respondInvalid(ctx, "message is required")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.HandleTurn(stdCtx, chatUC.TurnInput{
		UserID:    userID,
		Message:   req.Message,
		SessionID: req.SessionID,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	var response interface{} = result.Text
	if result.Kind == ai.KindPlan {
		response = result.Plan
	}

	h.respondSuccess(ctx, http.StatusOK, transport.ChatTurnResponse{
		Response:  response,
		SessionID: result.SessionID,
		Type:      string(result.Kind),
		Timestamp: result.Timestamp.UTC().Format(time.RFC3339),
	})
}

// @Summary List chat sessions
// @Tags chat
// @Router /api/v1/chat/history [get]
func (h *ChatHandler) History(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	category := string(ctx.QueryArgs().Peek("category"))

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	sessions, err := h.uc.History(stdCtx, userID, category)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, sessions)
}

// @Summary Get one chat session with messages
// @Tags chat
// @Router /api/v1/chat/session/{id} [get]
func (h *ChatHandler) GetSession(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing session id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, err := h.uc.GetSession(stdCtx, id, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, session)
}

// @Summary Most recent active plan
// @Tags chat
// @Router /api/v1/chat/latest-plan [get]
func (h *ChatHandler) LatestPlan(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	plan, err := h.planner.LatestPlan(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, plan)
}

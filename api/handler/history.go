package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/weaverapp/backend/pkg/httpcontext"
	historyUC "github.com/weaverapp/backend/usecase/history"
)

type HistoryHandler struct {
	baseHandler
	uc *historyUC.UseCase
}

func NewHistoryHandler(uc *historyUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Merged activity feed
// @Tags history
// @Router /api/v1/history [get]
func (h *HistoryHandler) Feed(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	items, err := h.uc.Feed(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, items)
}

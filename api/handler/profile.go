package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/weaverapp/backend/api/transport"
	"github.com/weaverapp/backend/pkg/httpcontext"
	profileUC "github.com/weaverapp/backend/usecase/profile"
)

type ProfileHandler struct {
	baseHandler
	uc *profileUC.UseCase
}

func NewProfileHandler(uc *profileUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Get profile
// @Tags profile
// @Router /api/v1/profile [get]
func (h *ProfileHandler) GetProfile(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.GetProfile(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, user)
}

// @Summary Update profile
// @Tags profile
// @Router /api/v1/profile [put]
func (h *ProfileHandler) UpdateProfile(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.ProfileUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateProfile(stdCtx, userID, profileUC.UpdateInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Location:    req.Location,
		Bio:         req.Bio,
		Avatar:      req.Avatar,
		Preferences: req.Preferences,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Change password
// @Tags profile
// @Router /api/v1/profile/password [put]
func (h *ProfileHandler) ChangePassword(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.ChangePasswordRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.CurrentPassword == "" || req.NewPassword == "" {
		h.respondInvalid(ctx, "current_password and new_password are required")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.ChangePassword(stdCtx, userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"message": "password updated"})
}

// @Summary Productivity stats
// @Tags profile
// @Router /api/v1/profile/stats [get]
func (h *ProfileHandler) Stats(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	overview, err := h.uc.Stats(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, overview)
}

// @Summary Delete account
// @Tags profile
// @Router /api/v1/account [delete]
func (h *ProfileHandler) DeleteAccount(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteAccount(stdCtx, userID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

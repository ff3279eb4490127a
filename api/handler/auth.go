package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/weaverapp/backend/api/transport"
	"github.com/weaverapp/backend/pkg/httpcontext"
	authUC "github.com/weaverapp/backend/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc         *authUC.UseCase
	defaultTTL time.Duration
}

func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger, ttl time.Duration) *AuthHandler {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		defaultTTL:  ttl,
	}
}

// @Summary Register a new account
// @Tags auth
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	var req transport.RegisterRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Name == "" || req.Email == "" || req.Password == "" {
		h.respondInvalid(ctx, "name, email and password are required")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	creds, err := h.uc.Register(stdCtx, req.Name, req.Email, req.Password, h.defaultTTL)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, creds)
}

// @Summary Log in with email and password
// @Tags auth
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Email == "" || req.Password == "" {
		h.respondInvalid(ctx, "email and password are required")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	creds, err := h.uc.Login(stdCtx, req.Email, req.Password, h.defaultTTL)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, creds)
}

// @Summary Refresh an existing session
// @Tags auth
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(ctx *fasthttp.RequestCtx) {
	var req transport.RefreshRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.SessionID == "" {
		h.respondInvalid(ctx, "session_id is required")
		return
	}

	ttl := h.defaultTTL
	if req.TTL > 0 {
		ttl = time.Duration(req.TTL) * time.Second
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, err := h.uc.RefreshSession(stdCtx, req.SessionID, ttl)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, session)
}

// @Summary Revoke a session
// @Tags auth
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	var req transport.RefreshRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.SessionID == "" {
		h.respondInvalid(ctx, "session_id is required")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.RevokeSession(stdCtx, req.SessionID); err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.SetStatusCode(http.StatusNoContent)
}

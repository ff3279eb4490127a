package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/weaverapp/backend/pkg/logger"
)

// Key identifies request metadata propagated through the stdlib context.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"
)

const defaultTimeout = 5 * time.Second

// Adapter bridges fasthttp's request context to a context.Context carrying a
// deadline, the request ID and client metadata. Assistant turns can hold the
// connection for a while, so the timeout is configured rather than fixed.
type Adapter struct {
	timeout time.Duration
}

func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Adapter{timeout: timeout}
}

// Attach derives a deadline-bound context for the request and echoes the
// request ID back to the client. The returned cancel func must be called
// once the handler finishes.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	reqID := requestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)
	ctx.Response.Header.Set("X-Request-ID", reqID)

	if addr := ctx.RemoteAddr(); addr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, addr.String())
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}

	return stdCtx, cancel
}

// requestID reuses the client-supplied X-Request-ID when present so IDs
// stay stable across proxies, otherwise mints a fresh one.
func requestID(ctx *fasthttp.RequestCtx) string {
	if ctx != nil {
		if header := strings.TrimSpace(string(ctx.Request.Header.Peek("X-Request-ID"))); header != "" {
			return header
		}
	}
	return uuid.NewString()
}

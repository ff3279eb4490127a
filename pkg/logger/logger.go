package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

// Config holds the logging knobs exposed through the environment. Service,
// when set, is stamped on every entry so log aggregation can tell backend
// instances apart.
type Config struct {
	Level    string
	Encoding string
	Service  string
}

// New builds the process-wide zap.Logger. Unknown levels degrade to info
// rather than failing startup.
func New(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Encoding == "console" {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(zapcore.Lock(os.Stdout)), level)

	opts := []zap.Option{zap.AddCaller()}
	if cfg.Service != "" {
		opts = append(opts, zap.Fields(zap.String("service", cfg.Service)))
	}
	return zap.New(core, opts...), nil
}

// ContextWithRequestID stores the request ID so downstream layers can emit
// correlated log entries.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithRequestID returns base enriched with the request ID carried by ctx,
// or base unchanged when no ID is present.
func WithRequestID(ctx context.Context, base *zap.Logger) *zap.Logger {
	if ctx == nil || base == nil {
		return base
	}
	if reqID, ok := ctx.Value(requestIDKey).(string); ok && reqID != "" {
		return base.With(zap.String("request_id", reqID))
	}
	return base
}

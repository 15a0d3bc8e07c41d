package observability

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

type ctxKey string

const ctxKeyRequestID ctxKey = "request_id"

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
}

func Logger() *slog.Logger {
	return logger.Load()
}

// SetLogger replaces the process logger. Safe for concurrent use.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

// WithRequestID stores a request id in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

// RequestID returns the request id stored in ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// LoggerFromContext returns the process logger, tagged with request_id when present.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	l := Logger()
	reqID := RequestID(ctx)
	if reqID == "" {
		return l
	}
	return l.With("request_id", reqID)
}

package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type traceIDKey struct{}

// WithTraceID returns ctx carrying traceID. Every log record written with
// ctx includes it as trace_id.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// GetTraceID returns the trace ID carried by ctx, or "".
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	traceID, _ := ctx.Value(traceIDKey{}).(string)
	return traceID
}

// EnsureTraceID keeps an existing trace ID. Otherwise it attaches fallback,
// or a new UUID when fallback is empty. Runs started outside an HTTP request
// use their batch ID.
func EnsureTraceID(ctx context.Context, fallback string) context.Context {
	if GetTraceID(ctx) != "" {
		return ctx
	}
	if fallback == "" {
		fallback = uuid.New().String()
	}
	return WithTraceID(ctx, fallback)
}

// WithComponent tags logger with the emitting component
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = GetLogger()
	}
	return logger.With(slog.String("component", component))
}

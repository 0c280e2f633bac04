package infrastructure

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey int

const (
	traceIDKey ctxKey = iota
	usernameKey
)

// WithTraceID stores the request or run trace ID
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// GetTraceID returns the trace ID stored on ctx, or ""
func GetTraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey).(string)
	return id
}

// EnsureTraceID returns ctx unchanged when it already carries a trace ID,
// otherwise a child context with a random one. CLI runs use it so that
// every log line of one report run can be correlated.
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) != "" {
		return ctx
	}
	return WithTraceID(ctx, uuid.NewString())
}

// WithUsername records the authenticated account on ctx
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}

// GetUsername returns the authenticated account on ctx, or ""
func GetUsername(ctx context.Context) string {
	u, _ := ctx.Value(usernameKey).(string)
	return u
}

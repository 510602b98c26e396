package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	requestIDKey
	actorIDKey
)

// WithContext attaches a logger to the context. Request middleware calls
// this once so that L picks up the request-scoped logger everywhere below.
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// WithRequestID records the request ID so L and the gorm trace logger can
// tag entries with it.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithActorID records the authenticated user's ID for log correlation.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorIDKey, actorID)
}

// RequestID returns the request ID stored in the context, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// ActorID returns the actor ID stored in the context, or "".
func ActorID(ctx context.Context) string {
	id, _ := ctx.Value(actorIDKey).(string)
	return id
}

// L returns the context's logger enriched with request_id and user_id
// fields when present. Falls back to a no-op logger so callers never need
// a nil check.
func L(ctx context.Context) *zap.Logger {
	l, ok := ctx.Value(loggerKey).(*zap.Logger)
	if !ok {
		return zap.NewNop()
	}
	if id := RequestID(ctx); id != "" {
		l = l.With(zap.String("request_id", id))
	}
	if id := ActorID(ctx); id != "" {
		l = l.With(zap.String("user_id", id))
	}
	return l
}

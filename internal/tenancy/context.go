// Package tenancy carries the active tenant through a request and resolves
// it per the session and membership rules. The active tenant is always an
// explicit context value, never process-global state, so concurrent requests
// stay isolated.
package tenancy

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey int

const (
	tenantIDKey ctxKey = iota
	bypassKey
	sessionIDKey
)

// WithTenant returns a context with the active tenant id set. This is the
// in-process override: it wins over any session-persisted tenant and lives
// only for the current unit of work.
func WithTenant(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, tenantIDKey, tenantID)
}

// TenantID returns the active tenant id from the context. The second return
// is false when no tenant is active.
func TenantID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(tenantIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithBypass marks the context as exempt from tenant scoping. Only
// super-admin code paths and cross-tenant seeding may use it.
func WithBypass(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassKey, true)
}

// BypassEnabled reports whether tenant scoping is bypassed for this context
func BypassEnabled(ctx context.Context) bool {
	enabled, ok := ctx.Value(bypassKey).(bool)
	return ok && enabled
}

// WithSession returns a context carrying the logical session id, used to
// persist tenant switches across requests
func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// SessionID returns the logical session id from the context
func SessionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

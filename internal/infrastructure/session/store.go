package session

import (
	"context"

	"github.com/google/uuid"
)

// Store persists per-session state across requests. Its single concern today
// is the active tenant id: setting it is what makes a tenant switch stick
// beyond the request that performed it.
type Store interface {
	// SetTenant persists the active tenant for a session
	SetTenant(ctx context.Context, sessionID string, tenantID uuid.UUID) error

	// Tenant returns the persisted tenant for a session. The second return
	// is false when the session has no tenant recorded.
	Tenant(ctx context.Context, sessionID string) (uuid.UUID, bool, error)

	// ClearTenant removes the persisted tenant for a session
	ClearTenant(ctx context.Context, sessionID string) error

	// Close releases the store's resources
	Close() error
}

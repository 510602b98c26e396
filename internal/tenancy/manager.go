package tenancy

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/possuite/backend/internal/domain/identity"
	"github.com/possuite/backend/internal/domain/shared"
	"github.com/possuite/backend/internal/infrastructure/logger"
	"github.com/possuite/backend/internal/infrastructure/session"
)

// AccessChecker answers whether a user may act within a tenant. Super-admin
// implementations return true for every tenant.
type AccessChecker interface {
	HasAccessToTenant(ctx context.Context, userID, tenantID uuid.UUID) (bool, error)
}

// Manager resolves and switches the active tenant for a request. Resolution
// order: in-process override, session-persisted choice, the user's default
// membership, then the first membership.
type Manager struct {
	sessions session.Store
	users    identity.UserRepository
	access   AccessChecker
}

func NewManager(sessions session.Store, users identity.UserRepository, access AccessChecker) *Manager {
	return &Manager{
		sessions: sessions,
		users:    users,
		access:   access,
	}
}

// SetCurrent switches the active tenant after verifying the user has access
// to it. The choice is persisted to the session when one is attached to the
// context, and the returned context carries the new tenant.
func (m *Manager) SetCurrent(ctx context.Context, userID, tenantID uuid.UUID) (context.Context, error) {
	allowed, err := m.access.HasAccessToTenant(ctx, userID, tenantID)
	if err != nil {
		return ctx, err
	}
	if !allowed {
		return ctx, shared.ErrTenantAccessDenied
	}

	if sessionID, ok := SessionID(ctx); ok {
		if err := m.sessions.SetTenant(ctx, sessionID, tenantID); err != nil {
			// A dead session backend must not block the switch itself;
			// the tenant just won't survive into the next request.
			logger.L(ctx).Warn("failed to persist tenant choice to session",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err))
		}
	}

	logger.L(ctx).Info("active tenant switched",
		zap.String("user_id", userID.String()),
		zap.String("tenant_id", tenantID.String()))

	return WithTenant(ctx, tenantID), nil
}

// Resolve determines the active tenant for the request and returns a context
// carrying it. Users without any membership get shared.ErrNoActiveTenant.
func (m *Manager) Resolve(ctx context.Context, userID uuid.UUID) (context.Context, error) {
	if id, ok := TenantID(ctx); ok {
		return WithTenant(ctx, id), nil
	}

	if id, ok := m.sessionTenant(ctx, userID); ok {
		return WithTenant(ctx, id), nil
	}

	user, err := m.users.FindByID(ctx, userID)
	if err != nil {
		return ctx, err
	}
	if id, ok := user.DefaultTenantID(); ok {
		return WithTenant(ctx, id), nil
	}

	return ctx, shared.ErrNoActiveTenant
}

// Current returns the active tenant id or shared.ErrNoActiveTenant
func (m *Manager) Current(ctx context.Context) (uuid.UUID, error) {
	id, ok := TenantID(ctx)
	if !ok {
		return uuid.Nil, shared.ErrNoActiveTenant
	}
	return id, nil
}

// Clear drops the session-persisted tenant choice and returns a context with
// no active tenant. The next Resolve falls back to the membership chain.
func (m *Manager) Clear(ctx context.Context) (context.Context, error) {
	if sessionID, ok := SessionID(ctx); ok {
		if err := m.sessions.ClearTenant(ctx, sessionID); err != nil {
			return ctx, err
		}
	}
	return WithTenant(ctx, uuid.Nil), nil
}

// sessionTenant returns the session-persisted tenant when it exists and the
// user still has access to it. A revoked membership silently falls through
// to the membership chain.
func (m *Manager) sessionTenant(ctx context.Context, userID uuid.UUID) (uuid.UUID, bool) {
	sessionID, ok := SessionID(ctx)
	if !ok {
		return uuid.Nil, false
	}

	id, found, err := m.sessions.Tenant(ctx, sessionID)
	if err != nil {
		logger.L(ctx).Warn("failed to read session tenant", zap.Error(err))
		return uuid.Nil, false
	}
	if !found {
		return uuid.Nil, false
	}

	allowed, err := m.access.HasAccessToTenant(ctx, userID, id)
	if err != nil || !allowed {
		return uuid.Nil, false
	}
	return id, true
}

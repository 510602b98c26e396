package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/possuite/backend/internal/domain/identity"
	"github.com/possuite/backend/internal/domain/policy"
)

// Authorizer answers access questions by combining tenant memberships with
// partitioned role assignments. It implements tenancy.AccessChecker and
// builds policy.Actor snapshots for the constraint engine.
type Authorizer struct {
	users identity.UserRepository
	roles identity.RoleRepository
}

// NewAuthorizer creates a new Authorizer
func NewAuthorizer(users identity.UserRepository, roles identity.RoleRepository) *Authorizer {
	return &Authorizer{users: users, roles: roles}
}

// IsSuperAdmin reports whether the user holds the global super-admin role
func (a *Authorizer) IsSuperAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	return a.roles.UserHasGlobalRole(ctx, userID, identity.RoleSuperAdmin)
}

// CanAccessAllTenants is IsSuperAdmin under its access-semantics name
func (a *Authorizer) CanAccessAllTenants(ctx context.Context, userID uuid.UUID) (bool, error) {
	return a.IsSuperAdmin(ctx, userID)
}

// HasAccessToTenant reports whether the user may act within the tenant. A
// super-admin may act within every tenant; everyone else needs a membership.
func (a *Authorizer) HasAccessToTenant(ctx context.Context, userID, tenantID uuid.UUID) (bool, error) {
	isSuper, err := a.IsSuperAdmin(ctx, userID)
	if err != nil {
		return false, err
	}
	if isSuper {
		return true, nil
	}

	memberships, err := a.users.Memberships(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, m := range memberships {
		if m.TenantID == tenantID {
			return true, nil
		}
	}
	return false, nil
}

// HasPermission reports whether the user holds the permission within the
// tenant, through either the tenant's role partition or a global role
func (a *Authorizer) HasPermission(ctx context.Context, userID, tenantID uuid.UUID, permission string) (bool, error) {
	return a.roles.UserHasPermission(ctx, userID, tenantID, permission)
}

// ActorFor snapshots the user's roles and permissions within a tenant for
// gate evaluation. The snapshot is immutable; policy rules are read live by
// the engine, not here.
func (a *Authorizer) ActorFor(ctx context.Context, userID, tenantID uuid.UUID) (policy.Actor, error) {
	tenantRoles, err := a.roles.RolesForUser(ctx, userID, &tenantID)
	if err != nil {
		return nil, err
	}
	globalRoles, err := a.roles.RolesForUser(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	snapshot := actorSnapshot{
		roles:       make(map[string]struct{}),
		permissions: make(map[string]struct{}),
	}
	for _, role := range append(tenantRoles, globalRoles...) {
		snapshot.roles[role.Name] = struct{}{}
		if role.Name == identity.RoleSuperAdmin && role.IsGlobal() {
			snapshot.super = true
		}
		for _, perm := range role.Permissions {
			snapshot.permissions[perm] = struct{}{}
		}
	}
	return snapshot, nil
}

// actorSnapshot is a point-in-time view of one user's authority in one
// tenant
type actorSnapshot struct {
	roles       map[string]struct{}
	permissions map[string]struct{}
	super       bool
}

func (s actorSnapshot) HasPermission(permission string) bool {
	if s.super {
		return true
	}
	_, ok := s.permissions[permission]
	return ok
}

func (s actorSnapshot) HasRole(roleName string) bool {
	_, ok := s.roles[roleName]
	return ok
}

func (s actorSnapshot) HasAnyRole(roleNames ...string) bool {
	for _, name := range roleNames {
		if s.HasRole(name) {
			return true
		}
	}
	return false
}

// Ensure the snapshot satisfies the engine's contract
var _ policy.Actor = actorSnapshot{}

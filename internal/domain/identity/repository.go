package identity

import (
	"context"

	"github.com/google/uuid"
)

// TenantRepository persists tenants. Tenants are the partition roots and are
// never themselves tenant-scoped.
type TenantRepository interface {
	Save(ctx context.Context, tenant *Tenant) error
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindByCode(ctx context.Context, code string) (*Tenant, error)
	FindAll(ctx context.Context, limit, offset int) ([]*Tenant, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// UserRepository persists users and their tenant memberships. Users are
// global records; membership rows bind them to tenants.
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*User, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AddMembership(ctx context.Context, membership *TenantMembership) error
	RemoveMembership(ctx context.Context, userID, tenantID uuid.UUID) error
	Memberships(ctx context.Context, userID uuid.UUID) ([]TenantMembership, error)
	SetDefaultTenant(ctx context.Context, userID, tenantID uuid.UUID) error
}

// RoleRepository persists roles and role assignments. Every lookup takes an
// explicit partition: a non-nil tenantID selects that tenant's partition and
// nil selects the global partition. Callers never rely on an ambient tenant
// for role operations.
type RoleRepository interface {
	Save(ctx context.Context, role *Role) error
	FindByID(ctx context.Context, id uuid.UUID) (*Role, error)
	FindByName(ctx context.Context, tenantID *uuid.UUID, name string) (*Role, error)
	FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]*Role, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AssignRole(ctx context.Context, userID, roleID uuid.UUID, tenantID *uuid.UUID) error
	RevokeRole(ctx context.Context, userID, roleID uuid.UUID) error
	SyncRoles(ctx context.Context, userID uuid.UUID, tenantID *uuid.UUID, roleIDs []uuid.UUID) error
	RolesForUser(ctx context.Context, userID uuid.UUID, tenantID *uuid.UUID) ([]*Role, error)

	UserHasRole(ctx context.Context, userID uuid.UUID, tenantID *uuid.UUID, roleName string) (bool, error)
	UserHasPermission(ctx context.Context, userID, tenantID uuid.UUID, permission string) (bool, error)
	UserHasGlobalRole(ctx context.Context, userID uuid.UUID, roleName string) (bool, error)
}

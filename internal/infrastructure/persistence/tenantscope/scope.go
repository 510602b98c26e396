// Package tenantscope enforces row-level tenant isolation at the GORM layer.
// Registered callbacks add a tenant_id predicate to every query, update, and
// delete against a tenant-owned model, and stamp tenant_id on creates. Models
// without a tenant_id column pass through untouched; they are scoped
// transitively through their parent.
package tenantscope

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/possuite/backend/internal/tenancy"
)

var (
	// ErrTenantRequired is returned when a tenant-owned row is created with
	// no active tenant and no explicit bypass.
	ErrTenantRequired = errors.New("tenantscope: no active tenant for tenant-owned entity")
)

// DB wraps a gorm handle with tenant-aware entry points. Repositories go
// through it so the choice between scoped and unscoped access is visible at
// every call site.
type DB struct {
	db *gorm.DB
}

func New(db *gorm.DB) *DB {
	return &DB{db: db}
}

// Scoped returns a handle whose operations are filtered to the context's
// active tenant. With no active tenant, reads return nothing scoping can
// vouch for and creates of tenant-owned rows fail.
func (d *DB) Scoped(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx)
}

// ForTenant returns a handle pinned to the given tenant regardless of what
// the context currently carries.
func (d *DB) ForTenant(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return d.db.WithContext(tenancy.WithTenant(ctx, tenantID))
}

// CrossTenant returns a handle that bypasses tenant scoping entirely. Only
// super-admin operations and seeding may use it.
func (d *DB) CrossTenant(ctx context.Context) *gorm.DB {
	return d.db.WithContext(tenancy.WithBypass(ctx))
}

// Transaction runs fn inside a database transaction with scoping intact.
func (d *DB) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.db.WithContext(ctx).Transaction(fn)
}

// Raw exposes the underlying handle for migrations and health checks.
func (d *DB) Raw() *gorm.DB {
	return d.db
}

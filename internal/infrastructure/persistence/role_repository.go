package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/possuite/backend/internal/domain/identity"
	"github.com/possuite/backend/internal/domain/shared"
	"github.com/possuite/backend/internal/infrastructure/persistence/tenantscope"
)

// GormRoleRepository implements RoleRepository using GORM. Role partitions
// are always selected explicitly, so every query here runs cross-tenant and
// names its partition in the predicate. A nil partition is the global one
// (tenant_id IS NULL).
type GormRoleRepository struct {
	db *tenantscope.DB
}

// NewGormRoleRepository creates a new GormRoleRepository
func NewGormRoleRepository(db *tenantscope.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

func (r *GormRoleRepository) session(ctx context.Context) *gorm.DB {
	return r.db.CrossTenant(ctx)
}

func partition(query *gorm.DB, column string, tenantID *uuid.UUID) *gorm.DB {
	if tenantID == nil {
		return query.Where(column + " IS NULL")
	}
	return query.Where(column+" = ?", *tenantID)
}

// Save creates or updates a role
func (r *GormRoleRepository) Save(ctx context.Context, role *identity.Role) error {
	return r.session(ctx).Save(role).Error
}

// FindByID finds a role by ID in any partition
func (r *GormRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Role, error) {
	var role identity.Role
	if err := r.session(ctx).First(&role, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// FindByName finds a role by name within the given partition
func (r *GormRoleRepository) FindByName(ctx context.Context, tenantID *uuid.UUID, name string) (*identity.Role, error) {
	var role identity.Role
	query := partition(r.session(ctx), "tenant_id", tenantID).
		Where("name = ?", strings.ToLower(name))
	if err := query.First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// FindByTenant lists all roles in a tenant's partition
func (r *GormRoleRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]*identity.Role, error) {
	var roles []*identity.Role
	if err := r.session(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// Delete deletes a role and its assignments
func (r *GormRoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.session(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&identity.UserRole{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&identity.Role{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// AssignRole grants a role to a user within a partition. Assigning twice is
// a no-op.
func (r *GormRoleRepository) AssignRole(ctx context.Context, userID, roleID uuid.UUID, tenantID *uuid.UUID) error {
	var count int64
	query := partition(r.session(ctx).Model(&identity.UserRole{}), "tenant_id", tenantID).
		Where("user_id = ? AND role_id = ?", userID, roleID)
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return r.session(ctx).Create(&identity.UserRole{
		UserID:    userID,
		RoleID:    roleID,
		TenantID:  tenantID,
		CreatedAt: time.Now(),
	}).Error
}

// RevokeRole removes a role assignment from a user
func (r *GormRoleRepository) RevokeRole(ctx context.Context, userID, roleID uuid.UUID) error {
	result := r.session(ctx).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Delete(&identity.UserRole{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SyncRoles replaces a user's role assignments within one partition. Other
// partitions are untouched.
func (r *GormRoleRepository) SyncRoles(ctx context.Context, userID uuid.UUID, tenantID *uuid.UUID, roleIDs []uuid.UUID) error {
	return r.session(ctx).Transaction(func(tx *gorm.DB) error {
		query := partition(tx.Where("user_id = ?", userID), "tenant_id", tenantID)
		if err := query.Delete(&identity.UserRole{}).Error; err != nil {
			return err
		}

		if len(roleIDs) == 0 {
			return nil
		}

		now := time.Now()
		assignments := make([]identity.UserRole, len(roleIDs))
		for i, roleID := range roleIDs {
			assignments[i] = identity.UserRole{
				UserID:    userID,
				RoleID:    roleID,
				TenantID:  tenantID,
				CreatedAt: now,
			}
		}
		return tx.Create(&assignments).Error
	})
}

// RolesForUser returns the roles assigned to a user within one partition
func (r *GormRoleRepository) RolesForUser(ctx context.Context, userID uuid.UUID, tenantID *uuid.UUID) ([]*identity.Role, error) {
	var roles []*identity.Role
	query := r.session(ctx).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID)
	query = partition(query, "user_roles.tenant_id", tenantID)

	if err := query.Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// UserHasRole reports whether the user holds the named role in a partition
func (r *GormRoleRepository) UserHasRole(ctx context.Context, userID uuid.UUID, tenantID *uuid.UUID, roleName string) (bool, error) {
	var count int64
	query := r.session(ctx).
		Model(&identity.UserRole{}).
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("user_roles.user_id = ? AND roles.name = ?", userID, strings.ToLower(roleName))
	query = partition(query, "user_roles.tenant_id", tenantID)

	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UserHasPermission reports whether any of the user's roles in the tenant
// partition or the global partition grants the permission. A global
// super-admin role grants everything.
func (r *GormRoleRepository) UserHasPermission(ctx context.Context, userID, tenantID uuid.UUID, permission string) (bool, error) {
	var roles []*identity.Role
	if err := r.session(ctx).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Where("user_roles.tenant_id = ? OR user_roles.tenant_id IS NULL", tenantID).
		Find(&roles).Error; err != nil {
		return false, err
	}

	for _, role := range roles {
		if role.HasPermission(permission) {
			return true, nil
		}
	}
	return false, nil
}

// UserHasGlobalRole reports whether the user holds the named role in the
// global partition
func (r *GormRoleRepository) UserHasGlobalRole(ctx context.Context, userID uuid.UUID, roleName string) (bool, error) {
	return r.UserHasRole(ctx, userID, nil, roleName)
}

// Ensure GormRoleRepository implements RoleRepository
var _ identity.RoleRepository = (*GormRoleRepository)(nil)

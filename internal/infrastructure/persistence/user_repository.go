package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/possuite/backend/internal/domain/identity"
	"github.com/possuite/backend/internal/domain/shared"
	"github.com/possuite/backend/internal/infrastructure/persistence/tenantscope"
)

// GormUserRepository implements UserRepository using GORM. User rows are
// global; tenant membership rows bind them to tenants. Membership queries
// run cross-tenant because the membership chain is what the active tenant
// gets resolved FROM.
type GormUserRepository struct {
	db *tenantscope.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *tenantscope.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return r.db.Scoped(ctx).Save(user).Error
}

// FindByID finds a user by ID with memberships loaded
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var user identity.User
	if err := r.db.Scoped(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	memberships, err := r.Memberships(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Memberships = memberships

	return &user, nil
}

// FindByEmail finds a user by email with memberships loaded
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var user identity.User
	if err := r.db.Scoped(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	memberships, err := r.Memberships(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Memberships = memberships

	return &user, nil
}

// FindByTenant lists users holding a membership in the given tenant
func (r *GormUserRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*identity.User, error) {
	var users []*identity.User
	query := r.db.CrossTenant(ctx).
		Joins("JOIN user_tenants ON user_tenants.user_id = users.id").
		Where("user_tenants.tenant_id = ?", tenantID).
		Order("users.name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Delete deletes a user and their memberships
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.CrossTenant(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&identity.TenantMembership{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&identity.UserRole{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&identity.User{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// AddMembership binds a user to a tenant. The first membership a user gets
// becomes their default.
func (r *GormUserRepository) AddMembership(ctx context.Context, membership *identity.TenantMembership) error {
	return r.db.CrossTenant(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&identity.TenantMembership{}).
			Where("user_id = ?", membership.UserID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			membership.IsDefault = true
		}
		return tx.Create(membership).Error
	})
}

// RemoveMembership unbinds a user from a tenant
func (r *GormUserRepository) RemoveMembership(ctx context.Context, userID, tenantID uuid.UUID) error {
	result := r.db.CrossTenant(ctx).
		Where("user_id = ? AND tenant_id = ?", userID, tenantID).
		Delete(&identity.TenantMembership{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Memberships returns all of a user's memberships, default first
func (r *GormUserRepository) Memberships(ctx context.Context, userID uuid.UUID) ([]identity.TenantMembership, error) {
	var memberships []identity.TenantMembership
	if err := r.db.CrossTenant(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// SetDefaultTenant marks one membership as the user's default
func (r *GormUserRepository) SetDefaultTenant(ctx context.Context, userID, tenantID uuid.UUID) error {
	return r.db.CrossTenant(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&identity.TenantMembership{}).
			Where("user_id = ? AND tenant_id = ?", userID, tenantID).
			Update("is_default", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrTenantAccessDenied
		}

		return tx.Model(&identity.TenantMembership{}).
			Where("user_id = ? AND tenant_id <> ?", userID, tenantID).
			Update("is_default", false).Error
	})
}

// Ensure GormUserRepository implements UserRepository
var _ identity.UserRepository = (*GormUserRepository)(nil)

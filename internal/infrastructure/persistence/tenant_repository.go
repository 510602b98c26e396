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

// GormTenantRepository implements TenantRepository using GORM. Tenants are
// the partition roots and carry no tenant_id column themselves.
type GormTenantRepository struct {
	db *tenantscope.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *tenantscope.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// Save creates or updates a tenant
func (r *GormTenantRepository) Save(ctx context.Context, tenant *identity.Tenant) error {
	return r.db.Scoped(ctx).Save(tenant).Error
}

// FindByID finds a tenant by ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	var tenant identity.Tenant
	if err := r.db.Scoped(ctx).First(&tenant, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

// FindByCode finds a tenant by its unique code, case-insensitively
func (r *GormTenantRepository) FindByCode(ctx context.Context, code string) (*identity.Tenant, error) {
	var tenant identity.Tenant
	if err := r.db.Scoped(ctx).
		Where("LOWER(code) = ?", strings.ToLower(code)).
		First(&tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

// FindAll lists tenants with pagination
func (r *GormTenantRepository) FindAll(ctx context.Context, limit, offset int) ([]*identity.Tenant, error) {
	var tenants []*identity.Tenant
	query := r.db.Scoped(ctx).Order("name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

// Delete deletes a tenant by ID
func (r *GormTenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.Scoped(ctx).Delete(&identity.Tenant{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count returns the total number of tenants
func (r *GormTenantRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.Scoped(ctx).Model(&identity.Tenant{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormTenantRepository implements TenantRepository
var _ identity.TenantRepository = (*GormTenantRepository)(nil)

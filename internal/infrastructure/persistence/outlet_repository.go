package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/possuite/backend/internal/domain/pos"
	"github.com/possuite/backend/internal/domain/shared"
	"github.com/possuite/backend/internal/infrastructure/persistence/tenantscope"
)

// GormOutletRepository implements OutletRepository using GORM. All queries
// are narrowed to the active tenant by the scoping callbacks.
type GormOutletRepository struct {
	db *tenantscope.DB
}

// NewGormOutletRepository creates a new GormOutletRepository
func NewGormOutletRepository(db *tenantscope.DB) *GormOutletRepository {
	return &GormOutletRepository{db: db}
}

// Save creates or updates an outlet
func (r *GormOutletRepository) Save(ctx context.Context, outlet *pos.Outlet) error {
	return r.db.Scoped(ctx).Save(outlet).Error
}

// FindByID finds an outlet by ID within the active tenant
func (r *GormOutletRepository) FindByID(ctx context.Context, id uuid.UUID) (*pos.Outlet, error) {
	var outlet pos.Outlet
	if err := r.db.Scoped(ctx).First(&outlet, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &outlet, nil
}

// FindByCode finds an outlet by code within the active tenant
func (r *GormOutletRepository) FindByCode(ctx context.Context, code string) (*pos.Outlet, error) {
	var outlet pos.Outlet
	if err := r.db.Scoped(ctx).
		Where("LOWER(code) = ?", strings.ToLower(code)).
		First(&outlet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &outlet, nil
}

// FindAll lists the active tenant's outlets with pagination
func (r *GormOutletRepository) FindAll(ctx context.Context, limit, offset int) ([]*pos.Outlet, error) {
	var outlets []*pos.Outlet
	query := r.db.Scoped(ctx).Order("name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&outlets).Error; err != nil {
		return nil, err
	}
	return outlets, nil
}

// Delete deletes an outlet by ID
func (r *GormOutletRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.Scoped(ctx).Delete(&pos.Outlet{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountRegisters counts registers belonging to an outlet
func (r *GormOutletRepository) CountRegisters(ctx context.Context, outletID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.Scoped(ctx).
		Model(&pos.Register{}).
		Where("outlet_id = ?", outletID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormOutletRepository implements OutletRepository
var _ pos.OutletRepository = (*GormOutletRepository)(nil)

package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/possuite/backend/internal/domain/pos"
	"github.com/possuite/backend/internal/domain/shared"
	"github.com/possuite/backend/internal/infrastructure/persistence/tenantscope"
)

// GormInventoryRepository implements InventoryRepository using GORM
type GormInventoryRepository struct {
	db *tenantscope.DB
}

// NewGormInventoryRepository creates a new GormInventoryRepository
func NewGormInventoryRepository(db *tenantscope.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// Save creates or updates an inventory record
func (r *GormInventoryRepository) Save(ctx context.Context, inv *pos.Inventory) error {
	return r.db.Scoped(ctx).Save(inv).Error
}

// FindByID finds an inventory record by ID within the active tenant
func (r *GormInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*pos.Inventory, error) {
	var inv pos.Inventory
	if err := r.db.Scoped(ctx).First(&inv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindByVariantAndOutlet finds the stock record for one variant at one outlet
func (r *GormInventoryRepository) FindByVariantAndOutlet(ctx context.Context, variantID, outletID uuid.UUID) (*pos.Inventory, error) {
	var inv pos.Inventory
	if err := r.db.Scoped(ctx).
		Where("variant_id = ? AND outlet_id = ?", variantID, outletID).
		First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindByOutlet lists an outlet's stock records with pagination
func (r *GormInventoryRepository) FindByOutlet(ctx context.Context, outletID uuid.UUID, limit, offset int) ([]*pos.Inventory, error) {
	var records []*pos.Inventory
	query := r.db.Scoped(ctx).Where("outlet_id = ?", outletID)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindLowStock lists stock records at or below their safety level
func (r *GormInventoryRepository) FindLowStock(ctx context.Context, outletID uuid.UUID) ([]*pos.Inventory, error) {
	var records []*pos.Inventory
	if err := r.db.Scoped(ctx).
		Where("outlet_id = ? AND on_hand <= safety_stock", outletID).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Delete deletes an inventory record by ID
func (r *GormInventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.Scoped(ctx).Delete(&pos.Inventory{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormInventoryRepository implements InventoryRepository
var _ pos.InventoryRepository = (*GormInventoryRepository)(nil)

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

// GormRegisterRepository implements RegisterRepository using GORM. Registers
// carry no tenant column; isolation comes from reaching them through their
// tenant-scoped outlet.
type GormRegisterRepository struct {
	db *tenantscope.DB
}

// NewGormRegisterRepository creates a new GormRegisterRepository
func NewGormRegisterRepository(db *tenantscope.DB) *GormRegisterRepository {
	return &GormRegisterRepository{db: db}
}

// Save creates or updates a register
func (r *GormRegisterRepository) Save(ctx context.Context, register *pos.Register) error {
	return r.db.Scoped(ctx).Save(register).Error
}

// FindByID finds a register by ID
func (r *GormRegisterRepository) FindByID(ctx context.Context, id uuid.UUID) (*pos.Register, error) {
	var register pos.Register
	if err := r.db.Scoped(ctx).First(&register, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &register, nil
}

// FindByOutlet lists an outlet's registers
func (r *GormRegisterRepository) FindByOutlet(ctx context.Context, outletID uuid.UUID) ([]*pos.Register, error) {
	var registers []*pos.Register
	if err := r.db.Scoped(ctx).
		Where("outlet_id = ?", outletID).
		Order("name ASC").
		Find(&registers).Error; err != nil {
		return nil, err
	}
	return registers, nil
}

// Delete deletes a register by ID
func (r *GormRegisterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.Scoped(ctx).Delete(&pos.Register{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormRegisterRepository implements RegisterRepository
var _ pos.RegisterRepository = (*GormRegisterRepository)(nil)

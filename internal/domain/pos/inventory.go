package pos

import (
	"github.com/google/uuid"
	"github.com/possuite/backend/internal/domain/shared"
)

// Inventory tracks on-hand stock for one variant at one outlet. The
// (tenant_id, variant_id, outlet_id) triple is unique. TenantID is carried
// directly so inventory is tenant-scoped independently of the variant's
// transitive scoping; it must agree with the tenant implied by the outlet
// and product.
type Inventory struct {
	shared.BaseEntity
	TenantID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_tenant_variant_outlet"`
	VariantID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_tenant_variant_outlet"`
	OutletID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_tenant_variant_outlet"`
	OnHand      int       `gorm:"not null;default:0"`
	SafetyStock int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Inventory) TableName() string {
	return "inventory"
}

// GetTenantID implements the tenant-owned entity contract
func (i *Inventory) GetTenantID() uuid.UUID {
	return i.TenantID
}

// NewInventory creates an inventory record for a variant at an outlet
func NewInventory(tenantID, variantID, outletID uuid.UUID, onHand, safetyStock int) (*Inventory, error) {
	if variantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VARIANT", "Inventory must reference a variant")
	}
	if outletID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OUTLET", "Inventory must reference an outlet")
	}
	if safetyStock < 0 {
		return nil, shared.NewDomainError("INVALID_SAFETY_STOCK", "Safety stock cannot be negative")
	}

	return &Inventory{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		VariantID:   variantID,
		OutletID:    outletID,
		OnHand:      onHand,
		SafetyStock: safetyStock,
	}, nil
}

// IsLowStock reports whether on-hand is at or below safety stock
func (i *Inventory) IsLowStock() bool {
	return i.OnHand <= i.SafetyStock
}

// IsAvailable reports whether at least quantity units are on hand
func (i *Inventory) IsAvailable(quantity int) bool {
	return i.OnHand >= quantity
}

// Decrement removes stock. Fails when the result would go negative unless
// allowNegative is set by the tenant's negative-stock policy.
func (i *Inventory) Decrement(quantity int, allowNegative bool) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !allowNegative && i.OnHand < quantity {
		return shared.ErrInsufficientStock
	}

	i.OnHand -= quantity
	i.Touch()

	return nil
}

// Increment adds stock
func (i *Inventory) Increment(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	i.OnHand += quantity
	i.Touch()

	return nil
}

// Adjust applies a signed stock adjustment. Negative adjustments may push
// on-hand below zero only when allowNegative is set.
func (i *Inventory) Adjust(quantity int, allowNegative bool) error {
	if quantity == 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Adjustment cannot be zero")
	}
	if quantity > 0 {
		return i.Increment(quantity)
	}
	return i.Decrement(-quantity, allowNegative)
}

// SetSafetyStock updates the safety stock threshold
func (i *Inventory) SetSafetyStock(level int) error {
	if level < 0 {
		return shared.NewDomainError("INVALID_SAFETY_STOCK", "Safety stock cannot be negative")
	}

	i.SafetyStock = level
	i.Touch()

	return nil
}

package pos

import (
	"context"

	"github.com/google/uuid"
)

// OutletRepository persists outlets. Implementations apply tenant scoping
// from the request context on every query.
type OutletRepository interface {
	Save(ctx context.Context, outlet *Outlet) error
	FindByID(ctx context.Context, id uuid.UUID) (*Outlet, error)
	FindByCode(ctx context.Context, code string) (*Outlet, error)
	FindAll(ctx context.Context, limit, offset int) ([]*Outlet, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountRegisters(ctx context.Context, outletID uuid.UUID) (int64, error)
}

// RegisterRepository persists registers. Registers carry no tenant column,
// so lookups are always constrained by outlet.
type RegisterRepository interface {
	Save(ctx context.Context, register *Register) error
	FindByID(ctx context.Context, id uuid.UUID) (*Register, error)
	FindByOutlet(ctx context.Context, outletID uuid.UUID) ([]*Register, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductRepository persists products and their variants
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	FindAll(ctx context.Context, status ProductStatus, limit, offset int) ([]*Product, error)
	Delete(ctx context.Context, id uuid.UUID) error

	SaveVariant(ctx context.Context, variant *ProductVariant) error
	FindVariantByID(ctx context.Context, id uuid.UUID) (*ProductVariant, error)
	FindVariantByBarcode(ctx context.Context, barcode string) (*ProductVariant, error)
	FindVariantsByProduct(ctx context.Context, productID uuid.UUID) ([]*ProductVariant, error)
	BarcodeExists(ctx context.Context, barcode string, excludeID uuid.UUID) (bool, error)
	DeleteVariant(ctx context.Context, id uuid.UUID) error
}

// InventoryRepository persists per-outlet stock records
type InventoryRepository interface {
	Save(ctx context.Context, inv *Inventory) error
	FindByID(ctx context.Context, id uuid.UUID) (*Inventory, error)
	FindByVariantAndOutlet(ctx context.Context, variantID, outletID uuid.UUID) (*Inventory, error)
	FindByOutlet(ctx context.Context, outletID uuid.UUID, limit, offset int) ([]*Inventory, error)
	FindLowStock(ctx context.Context, outletID uuid.UUID) ([]*Inventory, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

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

// GormProductRepository implements ProductRepository using GORM. Products
// are tenant-scoped; variants reach their tenant through the parent product,
// except for barcode lookups which are globally unique and deliberately
// cross-tenant.
type GormProductRepository struct {
	db *tenantscope.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *tenantscope.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Save creates or updates a product together with its variants
func (r *GormProductRepository) Save(ctx context.Context, product *pos.Product) error {
	return r.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Omit("Variants").Save(product).Error; err != nil {
			return err
		}
		for i := range product.Variants {
			product.Variants[i].ProductID = product.ID
			if err := tx.Save(&product.Variants[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID finds a product by ID within the active tenant, variants loaded
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*pos.Product, error) {
	var product pos.Product
	if err := r.db.Scoped(ctx).
		Preload("Variants").
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindBySKU finds a product by SKU within the active tenant
func (r *GormProductRepository) FindBySKU(ctx context.Context, sku string) (*pos.Product, error) {
	var product pos.Product
	if err := r.db.Scoped(ctx).
		Preload("Variants").
		Where("LOWER(sku) = ?", strings.ToLower(sku)).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAll lists the active tenant's products, optionally by status
func (r *GormProductRepository) FindAll(ctx context.Context, status pos.ProductStatus, limit, offset int) ([]*pos.Product, error) {
	var products []*pos.Product
	query := r.db.Scoped(ctx).Preload("Variants").Order("name ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Delete deletes a product and its variants
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&pos.ProductVariant{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&pos.Product{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// SaveVariant creates or updates a single variant
func (r *GormProductRepository) SaveVariant(ctx context.Context, variant *pos.ProductVariant) error {
	return r.db.Scoped(ctx).Save(variant).Error
}

// FindVariantByID finds a variant by ID
func (r *GormProductRepository) FindVariantByID(ctx context.Context, id uuid.UUID) (*pos.ProductVariant, error) {
	var variant pos.ProductVariant
	if err := r.db.Scoped(ctx).First(&variant, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// FindVariantByBarcode finds a variant by its barcode. Barcodes are unique
// across all tenants, so the lookup itself is unscoped; the caller decides
// whether the owning product is visible.
func (r *GormProductRepository) FindVariantByBarcode(ctx context.Context, barcode string) (*pos.ProductVariant, error) {
	var variant pos.ProductVariant
	if err := r.db.CrossTenant(ctx).
		Where("barcode = ?", barcode).
		First(&variant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// FindVariantsByProduct lists a product's variants
func (r *GormProductRepository) FindVariantsByProduct(ctx context.Context, productID uuid.UUID) ([]*pos.ProductVariant, error) {
	var variants []*pos.ProductVariant
	if err := r.db.Scoped(ctx).
		Where("product_id = ?", productID).
		Order("code ASC").
		Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// BarcodeExists reports whether any variant in any tenant uses the barcode,
// excluding the given variant ID
func (r *GormProductRepository) BarcodeExists(ctx context.Context, barcode string, excludeID uuid.UUID) (bool, error) {
	if barcode == "" {
		return false, nil
	}

	var count int64
	query := r.db.CrossTenant(ctx).
		Model(&pos.ProductVariant{}).
		Where("barcode = ?", barcode)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteVariant deletes a variant by ID
func (r *GormProductRepository) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	result := r.db.Scoped(ctx).Delete(&pos.ProductVariant{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormProductRepository implements ProductRepository
var _ pos.ProductRepository = (*GormProductRepository)(nil)

package pos

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/possuite/backend/internal/domain/pos"
	"github.com/possuite/backend/internal/domain/shared"
	"github.com/possuite/backend/internal/tenancy"
)

// ProductService manages the active tenant's catalogue. SKUs repeat across
// tenants; barcodes never do.
type ProductService struct {
	products pos.ProductRepository
	logger   *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(products pos.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{products: products, logger: logger}
}

// CreateProduct lists a product with its variants in the active tenant
func (s *ProductService) CreateProduct(ctx context.Context, input CreateProductInput) (*pos.Product, error) {
	tenantID, ok := tenancy.TenantID(ctx)
	if !ok {
		return nil, shared.ErrNoActiveTenant
	}

	if _, err := s.products.FindBySKU(ctx, input.SKU); err == nil {
		return nil, shared.ErrAlreadyExists
	}

	product, err := pos.NewProduct(tenantID, input.SKU, input.Name, input.TaxRate, input.PriceIncl)
	if err != nil {
		return nil, err
	}
	product.Description = input.Description

	for _, v := range input.Variants {
		if err := s.checkBarcode(ctx, v.Barcode, uuid.Nil); err != nil {
			return nil, err
		}
		variant, err := pos.NewProductVariant(product.ID, v.Code, v.Name, v.Barcode)
		if err != nil {
			return nil, err
		}
		if v.PriceOverride != nil {
			if err := variant.SetPriceOverride(v.PriceOverride); err != nil {
				return nil, err
			}
		}
		product.Variants = append(product.Variants, *variant)
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU))

	return product, nil
}

// GetProduct returns one of the active tenant's products
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*pos.Product, error) {
	return s.products.FindByID(ctx, id)
}

// ListProducts lists products, optionally filtered by status
func (s *ProductService) ListProducts(ctx context.Context, status pos.ProductStatus, limit, offset int) ([]*pos.Product, error) {
	return s.products.FindAll(ctx, status, limit, offset)
}

// UpdateProduct changes a product's details
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*pos.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := input.Name
	if name == "" {
		name = product.Name
	}
	if err := product.Update(name, input.Description, input.TaxRate, input.PriceIncl); err != nil {
		return nil, err
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// ArchiveProduct takes a product off sale
func (s *ProductService) ArchiveProduct(ctx context.Context, id uuid.UUID) (*pos.Product, error) {
	return s.flipStatus(ctx, id, (*pos.Product).Archive)
}

// ActivateProduct puts an archived product back on sale
func (s *ProductService) ActivateProduct(ctx context.Context, id uuid.UUID) (*pos.Product, error) {
	return s.flipStatus(ctx, id, (*pos.Product).Activate)
}

func (s *ProductService) flipStatus(ctx context.Context, id uuid.UUID, flip func(*pos.Product) error) (*pos.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := flip(product); err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product and its variants
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.products.Delete(ctx, id)
}

// AddVariant adds a variant to a product
func (s *ProductService) AddVariant(ctx context.Context, productID uuid.UUID, input VariantInput) (*pos.ProductVariant, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	if err := s.checkBarcode(ctx, input.Barcode, uuid.Nil); err != nil {
		return nil, err
	}

	variant, err := pos.NewProductVariant(productID, input.Code, input.Name, input.Barcode)
	if err != nil {
		return nil, err
	}
	if input.PriceOverride != nil {
		if err := variant.SetPriceOverride(input.PriceOverride); err != nil {
			return nil, err
		}
	}

	if err := s.products.SaveVariant(ctx, variant); err != nil {
		return nil, err
	}
	return variant, nil
}

// UpdateVariantBarcode changes a variant's barcode, keeping it globally
// unique
func (s *ProductService) UpdateVariantBarcode(ctx context.Context, variantID uuid.UUID, barcode string) (*pos.ProductVariant, error) {
	variant, err := s.products.FindVariantByID(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if _, err := s.products.FindByID(ctx, variant.ProductID); err != nil {
		return nil, err
	}

	if err := s.checkBarcode(ctx, barcode, variant.ID); err != nil {
		return nil, err
	}

	variant.Barcode = barcode
	if err := s.products.SaveVariant(ctx, variant); err != nil {
		return nil, err
	}
	return variant, nil
}

// LookupByBarcode resolves a barcode to a variant and its product. A
// barcode belonging to another tenant's product reads as not found.
func (s *ProductService) LookupByBarcode(ctx context.Context, barcode string) (*pos.ProductVariant, *pos.Product, error) {
	variant, err := s.products.FindVariantByBarcode(ctx, barcode)
	if err != nil {
		return nil, nil, err
	}

	product, err := s.products.FindByID(ctx, variant.ProductID)
	if err != nil {
		return nil, nil, err
	}
	return variant, product, nil
}

// DeleteVariant removes a variant from its product
func (s *ProductService) DeleteVariant(ctx context.Context, variantID uuid.UUID) error {
	variant, err := s.products.FindVariantByID(ctx, variantID)
	if err != nil {
		return err
	}
	if _, err := s.products.FindByID(ctx, variant.ProductID); err != nil {
		return err
	}
	return s.products.DeleteVariant(ctx, variantID)
}

func (s *ProductService) checkBarcode(ctx context.Context, barcode string, excludeID uuid.UUID) error {
	taken, err := s.products.BarcodeExists(ctx, barcode, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return shared.ErrBarcodeTaken
	}
	return nil
}

package pos

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/possuite/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductStatus is the lifecycle status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusArchived ProductStatus = "archived"
)

// Product is a sellable item owned by one tenant. SKU is unique within the
// tenant; prices are stored tax-inclusive with TaxRate as a percentage.
type Product struct {
	shared.BaseEntity
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_products_tenant_sku"`
	SKU         string          `gorm:"column:sku;type:varchar(100);not null;uniqueIndex:idx_products_tenant_sku"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:varchar(1000)"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	PriceIncl   decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Status      ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`

	Variants []ProductVariant `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// GetTenantID returns the owning tenant ID
func (p *Product) GetTenantID() uuid.UUID {
	return p.TenantID
}

// ProductVariant is a concrete sellable form of a product. Barcode is
// globally unique across all tenants; scoping is inherited through the
// product. PriceOverrideIncl, when set, replaces the product price.
type ProductVariant struct {
	shared.BaseEntity
	ProductID         uuid.UUID        `gorm:"type:uuid;not null;index"`
	Code              string           `gorm:"type:varchar(100);not null"`
	Name              string           `gorm:"type:varchar(200);not null"`
	Barcode           string           `gorm:"type:varchar(100);not null;uniqueIndex"`
	PriceOverrideIncl *decimal.Decimal `gorm:"type:decimal(15,2)"`
}

// TableName returns the table name for GORM
func (ProductVariant) TableName() string {
	return "product_variants"
}

// NewProduct creates a new product for a tenant
func NewProduct(tenantID uuid.UUID, sku, name string, taxRate, priceIncl decimal.Decimal) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateName(name, "Product"); err != nil {
		return nil, err
	}
	if taxRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}
	if priceIncl.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		SKU:        strings.ToUpper(strings.TrimSpace(sku)),
		Name:       strings.TrimSpace(name),
		TaxRate:    taxRate,
		PriceIncl:  priceIncl,
		Status:     ProductStatusActive,
	}, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string, taxRate, priceIncl decimal.Decimal) error {
	if err := validateName(name, "Product"); err != nil {
		return err
	}
	if taxRate.IsNegative() {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}
	if priceIncl.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	p.Name = strings.TrimSpace(name)
	p.Description = strings.TrimSpace(description)
	p.TaxRate = taxRate
	p.PriceIncl = priceIncl
	p.Touch()

	return nil
}

// Archive moves the product out of active sale
func (p *Product) Archive() error {
	if p.Status == ProductStatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Product is already archived")
	}
	p.Status = ProductStatusArchived
	p.Touch()
	return nil
}

// Activate restores an archived product
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Product is already active")
	}
	p.Status = ProductStatusActive
	p.Touch()
	return nil
}

// IsActive reports whether the product can be sold
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// PriceExcl returns the tax-exclusive price, rounded to 2 decimal places
func (p *Product) PriceExcl() decimal.Decimal {
	divisor := decimal.NewFromInt(1).Add(p.TaxRate.Div(decimal.NewFromInt(100)))
	return p.PriceIncl.DivRound(divisor, 2)
}

// TaxAmount returns the tax portion of the tax-inclusive price
func (p *Product) TaxAmount() decimal.Decimal {
	return p.PriceIncl.Sub(p.PriceExcl()).Round(2)
}

// NewProductVariant creates a variant of a product
func NewProductVariant(productID uuid.UUID, code, name, barcode string) (*ProductVariant, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Variant must belong to a product")
	}
	if strings.TrimSpace(code) == "" {
		return nil, shared.NewDomainError("INVALID_VARIANT_CODE", "Variant code cannot be empty")
	}
	if err := validateName(name, "Variant"); err != nil {
		return nil, err
	}
	if err := validateBarcode(barcode); err != nil {
		return nil, err
	}

	return &ProductVariant{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		Code:       strings.ToUpper(strings.TrimSpace(code)),
		Name:       strings.TrimSpace(name),
		Barcode:    strings.TrimSpace(barcode),
	}, nil
}

// SetPriceOverride sets or clears the variant's price override
func (v *ProductVariant) SetPriceOverride(price *decimal.Decimal) error {
	if price != nil && price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price override cannot be negative")
	}
	v.PriceOverrideIncl = price
	v.Touch()
	return nil
}

// EffectivePrice returns the override when set, otherwise the product price
func (v *ProductVariant) EffectivePrice(product *Product) decimal.Decimal {
	if v.PriceOverrideIncl != nil {
		return *v.PriceOverrideIncl
	}
	return product.PriceIncl
}

func validateSKU(sku string) error {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 100 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 100 characters")
	}

	skuRegex := regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_\-]*$`)
	if !skuRegex.MatchString(sku) {
		return shared.NewDomainError("INVALID_SKU", "SKU must contain only letters, numbers, underscores, and hyphens")
	}

	return nil
}

func validateBarcode(barcode string) error {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return shared.NewDomainError("INVALID_BARCODE", "Barcode cannot be empty")
	}
	if len(barcode) > 100 {
		return shared.NewDomainError("INVALID_BARCODE", "Barcode cannot exceed 100 characters")
	}
	return nil
}

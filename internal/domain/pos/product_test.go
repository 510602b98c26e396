package pos

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestProduct(t *testing.T) *Product {
	product, err := NewProduct(uuid.New(), "KOPI-001", "Kopi Susu",
		decimal.NewFromFloat(11), decimal.NewFromInt(22000))
	require.NoError(t, err)
	require.NotNil(t, product)
	return product
}

func TestNewProduct(t *testing.T) {
	tests := []struct {
		name        string
		sku         string
		productName string
		taxRate     decimal.Decimal
		priceIncl   decimal.Decimal
		wantErr     bool
		errContains string
	}{
		{
			name:        "valid product",
			sku:         "KOPI-001",
			productName: "Kopi Susu",
			taxRate:     decimal.NewFromFloat(11),
			priceIncl:   decimal.NewFromInt(22000),
			wantErr:     false,
		},
		{
			name:        "zero tax rate",
			sku:         "TEH-001",
			productName: "Teh Manis",
			taxRate:     decimal.Zero,
			priceIncl:   decimal.NewFromInt(8000),
			wantErr:     false,
		},
		{
			name:        "empty sku",
			sku:         "",
			productName: "Kopi Susu",
			taxRate:     decimal.Zero,
			priceIncl:   decimal.NewFromInt(22000),
			wantErr:     true,
			errContains: "SKU cannot be empty",
		},
		{
			name:        "sku with spaces",
			sku:         "KOPI 001",
			productName: "Kopi Susu",
			taxRate:     decimal.Zero,
			priceIncl:   decimal.NewFromInt(22000),
			wantErr:     true,
			errContains: "must contain only",
		},
		{
			name:        "negative tax rate",
			sku:         "KOPI-001",
			productName: "Kopi Susu",
			taxRate:     decimal.NewFromInt(-1),
			priceIncl:   decimal.NewFromInt(22000),
			wantErr:     true,
			errContains: "Tax rate cannot be negative",
		},
		{
			name:        "negative price",
			sku:         "KOPI-001",
			productName: "Kopi Susu",
			taxRate:     decimal.Zero,
			priceIncl:   decimal.NewFromInt(-100),
			wantErr:     true,
			errContains: "Price cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tenantID := uuid.New()
			product, err := NewProduct(tenantID, tt.sku, tt.productName, tt.taxRate, tt.priceIncl)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, product)
				assert.Equal(t, tenantID, product.GetTenantID())
				assert.Equal(t, ProductStatusActive, product.Status)
				assert.True(t, product.IsActive())
			}
		})
	}
}

func TestProduct_PriceExcl(t *testing.T) {
	// 22000 inclusive at 11% tax: 22000 / 1.11 = 19819.82
	product := createTestProduct(t)
	assert.Equal(t, "19819.82", product.PriceExcl().StringFixed(2))
	assert.Equal(t, "2180.18", product.TaxAmount().StringFixed(2))

	// Zero tax rate: exclusive equals inclusive
	free, err := NewProduct(uuid.New(), "TEH-001", "Teh", decimal.Zero, decimal.NewFromInt(8000))
	require.NoError(t, err)
	assert.True(t, free.PriceExcl().Equal(decimal.NewFromInt(8000)))
	assert.True(t, free.TaxAmount().IsZero())
}

func TestProduct_ArchiveActivate(t *testing.T) {
	product := createTestProduct(t)

	require.NoError(t, product.Archive())
	assert.Equal(t, ProductStatusArchived, product.Status)
	assert.False(t, product.IsActive())

	err := product.Archive()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already archived")

	require.NoError(t, product.Activate())
	assert.True(t, product.IsActive())

	err = product.Activate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already active")
}

func TestNewProductVariant(t *testing.T) {
	productID := uuid.New()

	variant, err := NewProductVariant(productID, "reg", "Regular", "8991234567890")
	require.NoError(t, err)
	assert.Equal(t, productID, variant.ProductID)
	assert.Equal(t, "REG", variant.Code)
	assert.Equal(t, "8991234567890", variant.Barcode)
	assert.Nil(t, variant.PriceOverrideIncl)

	_, err = NewProductVariant(uuid.Nil, "REG", "Regular", "8991234567890")
	require.Error(t, err)

	_, err = NewProductVariant(productID, "", "Regular", "8991234567890")
	require.Error(t, err)

	_, err = NewProductVariant(productID, "REG", "Regular", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Barcode cannot be empty")
}

func TestProductVariant_EffectivePrice(t *testing.T) {
	product := createTestProduct(t)
	variant, err := NewProductVariant(product.ID, "LG", "Large", "8991234567891")
	require.NoError(t, err)

	// No override: product price
	assert.True(t, variant.EffectivePrice(product).Equal(product.PriceIncl))

	override := decimal.NewFromInt(25000)
	require.NoError(t, variant.SetPriceOverride(&override))
	assert.True(t, variant.EffectivePrice(product).Equal(override))

	negative := decimal.NewFromInt(-1)
	err = variant.SetPriceOverride(&negative)
	require.Error(t, err)

	require.NoError(t, variant.SetPriceOverride(nil))
	assert.True(t, variant.EffectivePrice(product).Equal(product.PriceIncl))
}

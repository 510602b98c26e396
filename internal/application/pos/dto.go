package pos

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/possuite/backend/internal/domain/policy"
	"github.com/possuite/backend/internal/domain/shared"
	"github.com/possuite/backend/internal/domain/pos"
)

// CreateOutletInput carries the fields for opening an outlet
type CreateOutletInput struct {
	Code    string
	Name    string
	Address string
	Mode    pos.OutletMode
}

// UpdateOutletInput carries mutable outlet fields
type UpdateOutletInput struct {
	Name     string
	Address  string
	Mode     pos.OutletMode
	Settings map[string]string
}

// CreateRegisterInput creates a till inside an outlet
type CreateRegisterInput struct {
	OutletID         uuid.UUID
	Name             string
	PrinterProfileID *uuid.UUID
}

// VariantInput describes one sellable variant of a product
type VariantInput struct {
	Code          string
	Name          string
	Barcode       string
	PriceOverride *decimal.Decimal
}

// CreateProductInput carries the fields for listing a product
type CreateProductInput struct {
	SKU         string
	Name        string
	Description string
	TaxRate     decimal.Decimal
	PriceIncl   decimal.Decimal
	Variants    []VariantInput
}

// UpdateProductInput carries mutable product fields
type UpdateProductInput struct {
	Name        string
	Description string
	TaxRate     decimal.Decimal
	PriceIncl   decimal.Decimal
}

// AdjustStockInput is a manual stock correction request
type AdjustStockInput struct {
	VariantID uuid.UUID
	OutletID  uuid.UUID
	Quantity  int
	Reason    string
}

// SaleLine is one line of a sale or return
type SaleLine struct {
	VariantID uuid.UUID
	Quantity  int
}

// ProcessSaleInput carries a sale through the policy gates
type ProcessSaleInput struct {
	OutletID uuid.UUID
	Lines    []SaleLine
	Total    decimal.Decimal
}

// ProcessReturnInput carries a return through the policy gates
type ProcessReturnInput struct {
	OutletID uuid.UUID
	Lines    []SaleLine
	Amount   decimal.Decimal
}

// DiscountInput asks for a discount approval decision
type DiscountInput struct {
	Percentage float64
}

// CashVarianceInput reports a drawer variance at shift close
type CashVarianceInput struct {
	Variance decimal.Decimal
}

// SaleResult reports the outcome of a processed sale
type SaleResult struct {
	OutletID  uuid.UUID
	Total     decimal.Decimal
	LineCount int
}

// ReturnResult reports the outcome of a processed return
type ReturnResult struct {
	OutletID  uuid.UUID
	Amount    decimal.Decimal
	LineCount int
}

// denied wraps a gate denial as a domain error so transports map it
// uniformly. The reason text is exactly what the gate produced.
func denied(decision policy.Decision) error {
	return shared.NewDomainError("POLICY_DENIED", decision.Reason)
}

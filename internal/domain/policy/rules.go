package policy

import "github.com/shopspring/decimal"

// Rules holds the business constraints the gates evaluate against. All
// values come from external configuration, never compiled constants.
type Rules struct {
	// Cashier constraints
	CashierMaxReturnAmount decimal.Decimal

	// Supervisor constraints
	SupervisorMaxStockAdjustment int

	// Transaction approval
	SupervisorRequiredAmount decimal.Decimal

	// Business hours, [Start, End) in the configured timezone
	BusinessHoursStart int
	BusinessHoursEnd   int
	Timezone           string

	// Currency presentation for deny reasons
	CurrencySymbol   string
	CurrencyDecimals int

	// Inventory
	AllowNegativeStock bool

	// Shifts
	CashVarianceThreshold decimal.Decimal
	RequireOpeningFloat   bool

	// Discounts, percentages in [0, 100]
	DiscountMaxPercentage     float64
	DiscountApprovalThreshold float64
}

// RulesProvider supplies the current rules. The engine calls it on every
// gate evaluation so configuration changes take effect between requests
// without a restart.
type RulesProvider interface {
	Rules() Rules
}

// RulesFunc adapts a function to the RulesProvider interface
type RulesFunc func() Rules

func (f RulesFunc) Rules() Rules {
	return f()
}

// StaticRules returns a provider that always yields the same rules
func StaticRules(r Rules) RulesProvider {
	return RulesFunc(func() Rules { return r })
}

package config

import (
	"github.com/possuite/backend/internal/domain/policy"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// applyPOSDefaults registers the default business rule values on the viper
// instance so live reads fall back correctly when the config file omits them
func applyPOSDefaults(v *viper.Viper) {
	v.SetDefault("pos.constraints.cashier.max_return_amount", 1000000)
	v.SetDefault("pos.constraints.supervisor.max_stock_adjustment", 5)
	v.SetDefault("pos.constraints.approval.supervisor_required_amount", 5000000)
	v.SetDefault("pos.business_hours.start", 8)
	v.SetDefault("pos.business_hours.end", 22)
	v.SetDefault("pos.business_hours.timezone", "Asia/Jakarta")
	v.SetDefault("pos.currency.code", "IDR")
	v.SetDefault("pos.currency.symbol", "Rp")
	v.SetDefault("pos.currency.decimal_places", 0)
	v.SetDefault("pos.currency.cash_rounding", 100)
	v.SetDefault("pos.inventory.allow_negative_stock", false)
	v.SetDefault("pos.tax.default_rate", 0.11)
	v.SetDefault("pos.tax.price_includes_tax", true)
	v.SetDefault("pos.shifts.require_opening_float", true)
	v.SetDefault("pos.shifts.cash_variance_threshold", 10000)
	v.SetDefault("pos.discounts.max_percentage", 100)
	v.SetDefault("pos.discounts.require_approval_threshold", 50)
}

// POSRules returns a live rules provider backed by the config file. Values
// are read from viper on every call, so WatchConfig-driven reloads and
// environment overrides take effect between gate evaluations.
func (c *Config) POSRules() policy.RulesProvider {
	v := c.v
	return policy.RulesFunc(func() policy.Rules {
		return policy.Rules{
			CashierMaxReturnAmount:       decimal.NewFromFloat(v.GetFloat64("pos.constraints.cashier.max_return_amount")),
			SupervisorMaxStockAdjustment: v.GetInt("pos.constraints.supervisor.max_stock_adjustment"),
			SupervisorRequiredAmount:     decimal.NewFromFloat(v.GetFloat64("pos.constraints.approval.supervisor_required_amount")),
			BusinessHoursStart:           v.GetInt("pos.business_hours.start"),
			BusinessHoursEnd:             v.GetInt("pos.business_hours.end"),
			Timezone:                     v.GetString("pos.business_hours.timezone"),
			CurrencySymbol:               v.GetString("pos.currency.symbol"),
			CurrencyDecimals:             v.GetInt("pos.currency.decimal_places"),
			AllowNegativeStock:           v.GetBool("pos.inventory.allow_negative_stock"),
			CashVarianceThreshold:        decimal.NewFromFloat(v.GetFloat64("pos.shifts.cash_variance_threshold")),
			RequireOpeningFloat:          v.GetBool("pos.shifts.require_opening_float"),
			DiscountMaxPercentage:        v.GetFloat64("pos.discounts.max_percentage"),
			DiscountApprovalThreshold:    v.GetFloat64("pos.discounts.require_approval_threshold"),
		}
	})
}

// CashRoundingUnit returns the configured cash rounding unit
func (c *Config) CashRoundingUnit() int {
	return c.v.GetInt("pos.currency.cash_rounding")
}

// DefaultTaxRate returns the configured default tax rate as a fraction
func (c *Config) DefaultTaxRate() float64 {
	return c.v.GetFloat64("pos.tax.default_rate")
}

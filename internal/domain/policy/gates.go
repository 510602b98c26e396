package policy

import (
	"fmt"
	"time"

	"github.com/possuite/backend/internal/domain/identity"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Actor is the policy engine's view of the acting user, resolved against the
// active tenant partition. Super-admin actors report true for every
// permission check.
type Actor interface {
	HasPermission(permission string) bool
	HasRole(roleName string) bool
	HasAnyRole(roleNames ...string) bool
}

// Engine evaluates named authorization gates. Each gate combines a raw
// permission check with numeric, role, or time constraints read from the
// rules provider at evaluation time.
type Engine struct {
	provider RulesProvider
	now      func() time.Time
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithClock overrides the engine's time source
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a gate engine backed by a rules provider
func NewEngine(provider RulesProvider, opts ...EngineOption) *Engine {
	e := &Engine{
		provider: provider,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var amountPrinter = message.NewPrinter(language.English)

// formatAmount renders a monetary amount with thousands separators, the
// configured currency symbol, and the configured number of decimal places
func formatAmount(symbol string, amount decimal.Decimal, decimals int) string {
	rounded := amount.Round(int32(decimals))
	if decimals <= 0 {
		return amountPrinter.Sprintf("%s%d", symbol, rounded.IntPart())
	}
	f, _ := rounded.Float64()
	return amountPrinter.Sprintf("%s%v", symbol, number.Decimal(f, number.Scale(decimals)))
}

// CreateReturn gates return processing. Cashiers are capped at the
// configured maximum return amount; other roles with the permission are not.
func (e *Engine) CreateReturn(actor Actor, amount decimal.Decimal) Decision {
	if !actor.HasPermission(identity.PermCreateReturn) {
		return Deny("You do not have permission to create returns.")
	}

	rules := e.provider.Rules()
	if actor.HasRole(identity.RoleCashier) && amount.GreaterThan(rules.CashierMaxReturnAmount) {
		return Deny(fmt.Sprintf("Cashiers can only process returns up to %s. Amount: %s",
			formatAmount(rules.CurrencySymbol, rules.CashierMaxReturnAmount, rules.CurrencyDecimals),
			formatAmount(rules.CurrencySymbol, amount, rules.CurrencyDecimals)))
	}

	return Allow()
}

// AdjustStock gates signed stock adjustments. Supervisors are capped at the
// configured absolute quantity; admins are not.
func (e *Engine) AdjustStock(actor Actor, quantity int) Decision {
	if !actor.HasPermission(identity.PermAdjustStock) {
		return Deny("You do not have permission to adjust stock.")
	}

	rules := e.provider.Rules()
	abs := quantity
	if abs < 0 {
		abs = -abs
	}
	// Negating math.MinInt overflows back to a negative value; treat it as
	// over any cap.
	if actor.HasRole(identity.RoleSupervisor) && (abs < 0 || abs > rules.SupervisorMaxStockAdjustment) {
		return Deny(fmt.Sprintf("Supervisors can only adjust stock by ±%d units. Requested: %d",
			rules.SupervisorMaxStockAdjustment, quantity))
	}

	return Allow()
}

// ApproveDiscount gates discount approval by percentage. Nobody may exceed
// the configured maximum; percentages over the approval threshold require a
// supervisor or admin role.
func (e *Engine) ApproveDiscount(actor Actor, percentage float64) Decision {
	if !actor.HasPermission(identity.PermApproveDiscount) {
		return Deny("You do not have permission to approve discounts.")
	}

	rules := e.provider.Rules()
	if percentage > rules.DiscountMaxPercentage {
		return Deny(fmt.Sprintf("Discount cannot exceed %g%%.", rules.DiscountMaxPercentage))
	}
	if percentage > rules.DiscountApprovalThreshold &&
		!actor.HasAnyRole(identity.RoleSupervisor, identity.RoleAdmin) {
		return Deny(fmt.Sprintf("Discounts over %g%% require supervisor approval.",
			rules.DiscountApprovalThreshold))
	}

	return Allow()
}

// VoidSale gates sale voiding on the raw permission
func (e *Engine) VoidSale(actor Actor) Decision {
	if !actor.HasPermission(identity.PermVoidSale) {
		return Deny("You do not have permission to void sales. Contact your supervisor.")
	}
	return Allow()
}

// RequiresActiveShift gates shift-bound operations. Currently a permission
// check standing in for a live shift-state lookup.
// TODO: check the register's open shift once shift tracking lands.
func (e *Engine) RequiresActiveShift(actor Actor) Decision {
	if !actor.HasPermission(identity.PermOpenShift) {
		return Deny("You must have shift management permissions.")
	}
	return Allow()
}

// BusinessHoursOnly denies outside the configured [start, end) hour window
// in the configured timezone
func (e *Engine) BusinessHoursOnly(actor Actor) Decision {
	rules := e.provider.Rules()

	loc, err := time.LoadLocation(rules.Timezone)
	if err != nil {
		loc = time.UTC
	}

	hour := e.now().In(loc).Hour()
	if hour < rules.BusinessHoursStart || hour >= rules.BusinessHoursEnd {
		return Deny(fmt.Sprintf("Sales operations are only allowed between %d:00 and %d:00.",
			rules.BusinessHoursStart, rules.BusinessHoursEnd))
	}

	return Allow()
}

// RequiresSupervisorApproval denies large transactions for actors without a
// supervisor or admin role
func (e *Engine) RequiresSupervisorApproval(actor Actor, amount decimal.Decimal) Decision {
	rules := e.provider.Rules()

	if amount.GreaterThan(rules.SupervisorRequiredAmount) &&
		!actor.HasAnyRole(identity.RoleSupervisor, identity.RoleAdmin) {
		return Deny(fmt.Sprintf("Transactions over %s require supervisor approval.",
			formatAmount(rules.CurrencySymbol, rules.SupervisorRequiredAmount, rules.CurrencyDecimals)))
	}

	return Allow()
}

// AllowNegativeStock reflects the configured negative-stock flag
func (e *Engine) AllowNegativeStock(actor Actor) Decision {
	if !e.provider.Rules().AllowNegativeStock {
		return Deny("Negative stock is not allowed in this system.")
	}
	return Allow()
}

// AcceptCashVariance gates shift-close cash variance. Variances beyond the
// threshold need a supervisor or admin role; the sign of the variance does
// not matter.
func (e *Engine) AcceptCashVariance(actor Actor, variance decimal.Decimal) Decision {
	rules := e.provider.Rules()

	if variance.Abs().GreaterThan(rules.CashVarianceThreshold) &&
		!actor.HasAnyRole(identity.RoleSupervisor, identity.RoleAdmin) {
		return Deny(fmt.Sprintf("Cash variance of %s exceeds threshold of %s. Supervisor approval required.",
			formatAmount(rules.CurrencySymbol, variance.Abs(), rules.CurrencyDecimals),
			formatAmount(rules.CurrencySymbol, rules.CashVarianceThreshold, rules.CurrencyDecimals)))
	}

	return Allow()
}

// RequiresOpeningFloat reports whether an opening float must be recorded
// when opening a shift. The semantics are inverted relative to the other
// gates: Allow means the requirement exists, Deny means it does not.
func (e *Engine) RequiresOpeningFloat(actor Actor) Decision {
	if e.provider.Rules().RequireOpeningFloat {
		return Allow()
	}
	return Deny("Opening float is not required in this configuration.")
}

// CanProcessSale is the compound sale gate: the actor needs the create_sale
// permission and must pass the active-shift, business-hours, and
// supervisor-approval gates. The first failing check wins.
func (e *Engine) CanProcessSale(actor Actor, amount decimal.Decimal) Decision {
	if !actor.HasPermission(identity.PermCreateSale) {
		return Deny("You do not have permission to create sales.")
	}
	if d := e.RequiresActiveShift(actor); d.Denied() {
		return d
	}
	if d := e.BusinessHoursOnly(actor); d.Denied() {
		return d
	}
	if d := e.RequiresSupervisorApproval(actor, amount); d.Denied() {
		return d
	}
	return Allow()
}

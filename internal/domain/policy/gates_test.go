package policy

import (
	"math"
	"testing"
	"time"

	"github.com/possuite/backend/internal/domain/identity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakeActor struct {
	permissions map[string]bool
	roles       map[string]bool
}

func newFakeActor(roles []string, permissions ...string) *fakeActor {
	a := &fakeActor{
		permissions: make(map[string]bool),
		roles:       make(map[string]bool),
	}
	for _, r := range roles {
		a.roles[r] = true
	}
	for _, p := range permissions {
		a.permissions[p] = true
	}
	return a
}

func (a *fakeActor) HasPermission(permission string) bool {
	return a.permissions[permission]
}

func (a *fakeActor) HasRole(roleName string) bool {
	return a.roles[roleName]
}

func (a *fakeActor) HasAnyRole(roleNames ...string) bool {
	for _, r := range roleNames {
		if a.roles[r] {
			return true
		}
	}
	return false
}

func defaultTestRules() Rules {
	return Rules{
		CashierMaxReturnAmount:       decimal.NewFromInt(1000000),
		SupervisorMaxStockAdjustment: 5,
		SupervisorRequiredAmount:     decimal.NewFromInt(5000000),
		BusinessHoursStart:           8,
		BusinessHoursEnd:             22,
		Timezone:                     "Asia/Jakarta",
		CurrencySymbol:               "Rp",
		AllowNegativeStock:           false,
		CashVarianceThreshold:        decimal.NewFromInt(10000),
		RequireOpeningFloat:          true,
		DiscountMaxPercentage:        100,
		DiscountApprovalThreshold:    50,
	}
}

func newTestEngine(rules Rules, opts ...EngineOption) *Engine {
	return NewEngine(StaticRules(rules), opts...)
}

// businessHoursClock returns a clock fixed at the given hour in Asia/Jakarta
func businessHoursClock(t *testing.T, hour int) func() time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	fixed := time.Date(2025, 6, 2, hour, 30, 0, 0, loc)
	return func() time.Time { return fixed }
}

func TestEngine_CreateReturn(t *testing.T) {
	engine := newTestEngine(defaultTestRules())
	cashier := newFakeActor([]string{identity.RoleCashier}, identity.PermCreateReturn)
	admin := newFakeActor([]string{identity.RoleAdmin}, identity.PermCreateReturn)
	noPerm := newFakeActor([]string{identity.RoleCashier})

	tests := []struct {
		name          string
		actor         Actor
		amount        int64
		wantAllowed   bool
		wantReasonHas string
	}{
		{
			name:        "cashier under limit",
			actor:       cashier,
			amount:      500000,
			wantAllowed: true,
		},
		{
			name:        "cashier at limit",
			actor:       cashier,
			amount:      1000000,
			wantAllowed: true,
		},
		{
			name:          "cashier over limit",
			actor:         cashier,
			amount:        1500000,
			wantAllowed:   false,
			wantReasonHas: "Cashiers can only process returns up to Rp1,000,000. Amount: Rp1,500,000",
		},
		{
			name:        "admin unbounded",
			actor:       admin,
			amount:      9000000,
			wantAllowed: true,
		},
		{
			name:          "missing permission",
			actor:         noPerm,
			amount:        100,
			wantAllowed:   false,
			wantReasonHas: "do not have permission to create returns",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := engine.CreateReturn(tt.actor, decimal.NewFromInt(tt.amount))
			assert.Equal(t, tt.wantAllowed, d.Allowed)
			if tt.wantReasonHas != "" {
				assert.Contains(t, d.Reason, tt.wantReasonHas)
			}
		})
	}
}

func TestEngine_AdjustStock(t *testing.T) {
	engine := newTestEngine(defaultTestRules())
	supervisor := newFakeActor([]string{identity.RoleSupervisor}, identity.PermAdjustStock)
	admin := newFakeActor([]string{identity.RoleAdmin}, identity.PermAdjustStock)
	noPerm := newFakeActor([]string{identity.RoleSupervisor})

	tests := []struct {
		name          string
		actor         Actor
		quantity      int
		wantAllowed   bool
		wantReasonHas string
	}{
		{name: "supervisor negative within limit", actor: supervisor, quantity: -5, wantAllowed: true},
		{name: "supervisor positive within limit", actor: supervisor, quantity: 3, wantAllowed: true},
		{
			name:          "supervisor positive over limit",
			actor:         supervisor,
			quantity:      10,
			wantAllowed:   false,
			wantReasonHas: "Supervisors can only adjust stock by ±5 units. Requested: 10",
		},
		{
			name:          "supervisor negative over limit",
			actor:         supervisor,
			quantity:      -7,
			wantAllowed:   false,
			wantReasonHas: "Requested: -7",
		},
		{
			name:          "supervisor most negative quantity",
			actor:         supervisor,
			quantity:      math.MinInt,
			wantAllowed:   false,
			wantReasonHas: "Supervisors can only adjust stock by ±5 units.",
		},
		{name: "admin unbounded", actor: admin, quantity: 100, wantAllowed: true},
		{
			name:          "missing permission",
			actor:         noPerm,
			quantity:      1,
			wantAllowed:   false,
			wantReasonHas: "do not have permission to adjust stock",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := engine.AdjustStock(tt.actor, tt.quantity)
			assert.Equal(t, tt.wantAllowed, d.Allowed)
			if tt.wantReasonHas != "" {
				assert.Contains(t, d.Reason, tt.wantReasonHas)
			}
		})
	}
}

func TestEngine_ApproveDiscount(t *testing.T) {
	rules := defaultTestRules()
	rules.DiscountMaxPercentage = 80
	rules.DiscountApprovalThreshold = 30
	engine := newTestEngine(rules)

	cashier := newFakeActor([]string{identity.RoleCashier}, identity.PermApproveDiscount)
	supervisor := newFakeActor([]string{identity.RoleSupervisor}, identity.PermApproveDiscount)
	noPerm := newFakeActor([]string{identity.RoleCashier})

	tests := []struct {
		name          string
		actor         Actor
		percentage    float64
		wantAllowed   bool
		wantReasonHas string
	}{
		{name: "cashier under threshold", actor: cashier, percentage: 25, wantAllowed: true},
		{
			name:          "cashier over threshold",
			actor:         cashier,
			percentage:    50,
			wantAllowed:   false,
			wantReasonHas: "Discounts over 30% require supervisor approval.",
		},
		{name: "supervisor over threshold", actor: supervisor, percentage: 50, wantAllowed: true},
		{
			name:          "supervisor over maximum",
			actor:         supervisor,
			percentage:    90,
			wantAllowed:   false,
			wantReasonHas: "Discount cannot exceed 80%.",
		},
		{
			name:          "missing permission",
			actor:         noPerm,
			percentage:    10,
			wantAllowed:   false,
			wantReasonHas: "do not have permission to approve discounts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := engine.ApproveDiscount(tt.actor, tt.percentage)
			assert.Equal(t, tt.wantAllowed, d.Allowed)
			if tt.wantReasonHas != "" {
				assert.Contains(t, d.Reason, tt.wantReasonHas)
			}
		})
	}
}

func TestEngine_VoidSale(t *testing.T) {
	engine := newTestEngine(defaultTestRules())

	allowed := engine.VoidSale(newFakeActor(nil, identity.PermVoidSale))
	assert.True(t, allowed.Allowed)

	denied := engine.VoidSale(newFakeActor(nil))
	assert.False(t, denied.Allowed)
	assert.Contains(t, denied.Reason, "Contact your supervisor")
}

func TestEngine_RequiresActiveShift(t *testing.T) {
	engine := newTestEngine(defaultTestRules())

	assert.True(t, engine.RequiresActiveShift(newFakeActor(nil, identity.PermOpenShift)).Allowed)

	d := engine.RequiresActiveShift(newFakeActor(nil))
	assert.False(t, d.Allowed)
	assert.Contains(t, d.Reason, "shift management permissions")
}

func TestEngine_BusinessHoursOnly(t *testing.T) {
	actor := newFakeActor(nil)

	tests := []struct {
		name        string
		hour        int
		wantAllowed bool
	}{
		{name: "start of window", hour: 8, wantAllowed: true},
		{name: "midday", hour: 13, wantAllowed: true},
		{name: "last open hour", hour: 21, wantAllowed: true},
		{name: "closing hour excluded", hour: 22, wantAllowed: false},
		{name: "before opening", hour: 7, wantAllowed: false},
		{name: "middle of night", hour: 2, wantAllowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(defaultTestRules(), WithClock(businessHoursClock(t, tt.hour)))
			d := engine.BusinessHoursOnly(actor)
			assert.Equal(t, tt.wantAllowed, d.Allowed)
			if !tt.wantAllowed {
				assert.Contains(t, d.Reason, "between 8:00 and 22:00")
			}
		})
	}
}

func TestEngine_RequiresSupervisorApproval(t *testing.T) {
	engine := newTestEngine(defaultTestRules())
	cashier := newFakeActor([]string{identity.RoleCashier})
	supervisor := newFakeActor([]string{identity.RoleSupervisor})

	assert.True(t, engine.RequiresSupervisorApproval(cashier, decimal.NewFromInt(4000000)).Allowed)
	assert.True(t, engine.RequiresSupervisorApproval(supervisor, decimal.NewFromInt(9000000)).Allowed)

	d := engine.RequiresSupervisorApproval(cashier, decimal.NewFromInt(6000000))
	assert.False(t, d.Allowed)
	assert.Contains(t, d.Reason, "Transactions over Rp5,000,000 require supervisor approval.")
}

func TestEngine_AllowNegativeStock(t *testing.T) {
	actor := newFakeActor(nil)

	denied := newTestEngine(defaultTestRules()).AllowNegativeStock(actor)
	assert.False(t, denied.Allowed)
	assert.Contains(t, denied.Reason, "Negative stock is not allowed")

	rules := defaultTestRules()
	rules.AllowNegativeStock = true
	assert.True(t, newTestEngine(rules).AllowNegativeStock(actor).Allowed)
}

func TestEngine_AcceptCashVariance(t *testing.T) {
	engine := newTestEngine(defaultTestRules())
	cashier := newFakeActor([]string{identity.RoleCashier})
	supervisor := newFakeActor([]string{identity.RoleSupervisor})

	assert.True(t, engine.AcceptCashVariance(cashier, decimal.NewFromInt(5000)).Allowed)
	assert.True(t, engine.AcceptCashVariance(cashier, decimal.NewFromInt(-9000)).Allowed)
	assert.True(t, engine.AcceptCashVariance(supervisor, decimal.NewFromInt(50000)).Allowed)

	d := engine.AcceptCashVariance(cashier, decimal.NewFromInt(-15000))
	assert.False(t, d.Allowed)
	assert.Contains(t, d.Reason, "Cash variance of Rp15,000 exceeds threshold of Rp10,000.")
}

func TestEngine_RequiresOpeningFloat(t *testing.T) {
	actor := newFakeActor(nil)

	// Allow means the requirement exists
	assert.True(t, newTestEngine(defaultTestRules()).RequiresOpeningFloat(actor).Allowed)

	rules := defaultTestRules()
	rules.RequireOpeningFloat = false
	d := newTestEngine(rules).RequiresOpeningFloat(actor)
	assert.False(t, d.Allowed)
	assert.Contains(t, d.Reason, "Opening float is not required")
}

func TestEngine_CanProcessSale(t *testing.T) {
	duringHours := WithClock(businessHoursClock(t, 10))
	afterHours := WithClock(businessHoursClock(t, 23))

	cashier := newFakeActor([]string{identity.RoleCashier},
		identity.PermCreateSale, identity.PermOpenShift)
	supervisor := newFakeActor([]string{identity.RoleSupervisor},
		identity.PermCreateSale, identity.PermOpenShift)
	noShiftPerm := newFakeActor([]string{identity.RoleCashier}, identity.PermCreateSale)
	noSalePerm := newFakeActor([]string{identity.RoleCashier}, identity.PermOpenShift)

	tests := []struct {
		name          string
		clock         EngineOption
		actor         Actor
		amount        int64
		wantAllowed   bool
		wantReasonHas string
	}{
		{
			name:        "cashier small sale during hours",
			clock:       duringHours,
			actor:       cashier,
			amount:      100000,
			wantAllowed: true,
		},
		{
			name:          "missing create_sale",
			clock:         duringHours,
			actor:         noSalePerm,
			amount:        100000,
			wantAllowed:   false,
			wantReasonHas: "do not have permission to create sales",
		},
		{
			name:          "missing shift permission",
			clock:         duringHours,
			actor:         noShiftPerm,
			amount:        100000,
			wantAllowed:   false,
			wantReasonHas: "shift management permissions",
		},
		{
			name:          "after hours",
			clock:         afterHours,
			actor:         cashier,
			amount:        100000,
			wantAllowed:   false,
			wantReasonHas: "between 8:00 and 22:00",
		},
		{
			name:          "cashier above approval threshold",
			clock:         duringHours,
			actor:         cashier,
			amount:        6000000,
			wantAllowed:   false,
			wantReasonHas: "require supervisor approval",
		},
		{
			name:        "supervisor above approval threshold",
			clock:       duringHours,
			actor:       supervisor,
			amount:      6000000,
			wantAllowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(defaultTestRules(), tt.clock)
			d := engine.CanProcessSale(tt.actor, decimal.NewFromInt(tt.amount))
			assert.Equal(t, tt.wantAllowed, d.Allowed)
			if tt.wantReasonHas != "" {
				assert.Contains(t, d.Reason, tt.wantReasonHas)
			}
		})
	}
}

func TestEngine_AmountsUseConfiguredDecimalPlaces(t *testing.T) {
	rules := defaultTestRules()
	rules.CurrencySymbol = "$"
	rules.CurrencyDecimals = 2
	rules.CashierMaxReturnAmount = decimal.NewFromFloat(1000.50)
	engine := newTestEngine(rules)

	cashier := newFakeActor([]string{identity.RoleCashier}, identity.PermCreateReturn)
	d := engine.CreateReturn(cashier, decimal.NewFromFloat(2500.75))
	assert.False(t, d.Allowed)
	assert.Contains(t, d.Reason, "$1,000.50")
	assert.Contains(t, d.Reason, "$2,500.75")
}

func TestEngine_RulesReReadPerEvaluation(t *testing.T) {
	rules := defaultTestRules()
	provider := RulesFunc(func() Rules { return rules })
	engine := NewEngine(provider)
	cashier := newFakeActor([]string{identity.RoleCashier}, identity.PermCreateReturn)

	amount := decimal.NewFromInt(1500000)
	assert.False(t, engine.CreateReturn(cashier, amount).Allowed)

	// Raising the limit takes effect on the next evaluation without
	// rebuilding the engine
	rules.CashierMaxReturnAmount = decimal.NewFromInt(2000000)
	assert.True(t, engine.CreateReturn(cashier, amount).Allowed)
}

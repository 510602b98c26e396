package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/possuite/backend/internal/domain/shared"
)

// Well-known tenant settings keys. Settings is a free-form mapping; these keys
// are the ones the POS layer reads.
const (
	SettingAllowNegativeStock = "allow_negative_stock"
	SettingCashRoundingUnit   = "cash_rounding_unit"
	SettingPriceIncludesTax   = "price_includes_tax"
	SettingDefaultTaxRate     = "default_tax_rate"
)

// Tenant represents an isolated business owning its own outlets, products,
// inventory, and users. Tenants are created administratively and never
// implicitly deleted; every tenant-owned entity references one.
type Tenant struct {
	shared.BaseEntity
	Code     string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name     string            `gorm:"type:varchar(200);not null"`
	Timezone string            `gorm:"type:varchar(64);not null;default:'Asia/Jakarta'"`
	Settings map[string]string `gorm:"serializer:json"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates a new tenant with required fields
func NewTenant(code, name string) (*Tenant, error) {
	if err := validateTenantCode(code); err != nil {
		return nil, err
	}
	if err := validateTenantName(name); err != nil {
		return nil, err
	}

	return &Tenant{
		BaseEntity: shared.NewBaseEntity(),
		Code:       strings.ToUpper(strings.TrimSpace(code)),
		Name:       strings.TrimSpace(name),
		Timezone:   "Asia/Jakarta",
		Settings:   map[string]string{},
	}, nil
}

// Update updates the tenant's basic information
func (t *Tenant) Update(name string) error {
	if err := validateTenantName(name); err != nil {
		return err
	}

	t.Name = strings.TrimSpace(name)
	t.Touch()

	return nil
}

// SetTimezone sets the tenant's IANA timezone
func (t *Tenant) SetTimezone(tz string) error {
	if _, err := time.LoadLocation(tz); err != nil {
		return shared.NewDomainError("INVALID_TIMEZONE", "Unknown timezone: "+tz)
	}

	t.Timezone = tz
	t.Touch()

	return nil
}

// SetSetting stores a free-form setting value
func (t *Tenant) SetSetting(key, value string) {
	if t.Settings == nil {
		t.Settings = map[string]string{}
	}
	t.Settings[key] = value
	t.Touch()
}

// Setting returns a setting value with a fallback default
func (t *Tenant) Setting(key, fallback string) string {
	if v, ok := t.Settings[key]; ok {
		return v
	}
	return fallback
}

func validateTenantCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_TENANT_CODE", "Tenant code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_TENANT_CODE", "Tenant code cannot exceed 50 characters")
	}

	codeRegex := regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_\-]*$`)
	if !codeRegex.MatchString(code) {
		return shared.NewDomainError("INVALID_TENANT_CODE", "Tenant code must start with a letter and contain only letters, numbers, underscores, and hyphens")
	}

	return nil
}

func validateTenantName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_TENANT_NAME", "Tenant name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_TENANT_NAME", "Tenant name cannot exceed 200 characters")
	}
	return nil
}

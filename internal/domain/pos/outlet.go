package pos

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/possuite/backend/internal/domain/shared"
)

// OutletMode is the operating mode of an outlet
type OutletMode string

const (
	OutletModePOS        OutletMode = "pos"
	OutletModeRestaurant OutletMode = "restaurant"
	OutletModeMinimarket OutletMode = "minimarket"
)

// IsValid checks if the outlet mode is one of the known modes
func (m OutletMode) IsValid() bool {
	switch m {
	case OutletModePOS, OutletModeRestaurant, OutletModeMinimarket:
		return true
	}
	return false
}

// Outlet is a physical or logical place of business owned by one tenant.
// Code is unique within the tenant. Deletion is blocked while the outlet
// owns any register.
type Outlet struct {
	shared.BaseEntity
	TenantID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_outlets_tenant_code"`
	Code     string            `gorm:"type:varchar(50);not null;uniqueIndex:idx_outlets_tenant_code"`
	Name     string            `gorm:"type:varchar(200);not null"`
	Address  string            `gorm:"type:varchar(500)"`
	Mode     OutletMode        `gorm:"type:varchar(20);not null;default:'pos'"`
	Settings map[string]string `gorm:"serializer:json"`
}

// TableName returns the table name for GORM
func (Outlet) TableName() string {
	return "outlets"
}

// NewOutlet creates a new outlet for a tenant
func NewOutlet(tenantID uuid.UUID, code, name string, mode OutletMode) (*Outlet, error) {
	if err := validateOutletCode(code); err != nil {
		return nil, err
	}
	if err := validateName(name, "Outlet"); err != nil {
		return nil, err
	}
	if !mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_OUTLET_MODE", "Outlet mode must be one of: pos, restaurant, minimarket")
	}

	return &Outlet{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		Code:       strings.ToUpper(strings.TrimSpace(code)),
		Name:       strings.TrimSpace(name),
		Mode:       mode,
		Settings:   map[string]string{},
	}, nil
}

// GetTenantID returns the owning tenant's ID
func (o *Outlet) GetTenantID() uuid.UUID {
	return o.TenantID
}

// Update updates the outlet's basic information
func (o *Outlet) Update(name, address string, mode OutletMode) error {
	if err := validateName(name, "Outlet"); err != nil {
		return err
	}
	if !mode.IsValid() {
		return shared.NewDomainError("INVALID_OUTLET_MODE", "Outlet mode must be one of: pos, restaurant, minimarket")
	}

	o.Name = strings.TrimSpace(name)
	o.Address = strings.TrimSpace(address)
	o.Mode = mode
	o.Touch()

	return nil
}

// SetSetting stores a free-form setting value
func (o *Outlet) SetSetting(key, value string) {
	if o.Settings == nil {
		o.Settings = map[string]string{}
	}
	o.Settings[key] = value
	o.Touch()
}

func validateOutletCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_OUTLET_CODE", "Outlet code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_OUTLET_CODE", "Outlet code cannot exceed 50 characters")
	}

	codeRegex := regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_\-]*$`)
	if !codeRegex.MatchString(code) {
		return shared.NewDomainError("INVALID_OUTLET_CODE", "Outlet code must start with a letter and contain only letters, numbers, underscores, and hyphens")
	}

	return nil
}

func validateName(name, kind string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", kind+" name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", kind+" name cannot exceed 200 characters")
	}
	return nil
}

package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/possuite/backend/internal/domain/shared"
)

// RoleSuperAdmin is the reserved global role. It is the only role stored
// without a tenant partition: it implies access to every tenant and
// unconditional satisfaction of every permission check.
const RoleSuperAdmin = "super-admin"

// Tenant-partitioned role names seeded for every tenant. The same name may
// exist independently per tenant with an independent permission set.
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleCashier    = "cashier"
)

// Permission names. A permission is a named atomic capability; gates in the
// policy package layer business constraints on top of these.
const (
	PermCreateSale      = "create_sale"
	PermVoidSale        = "void_sale"
	PermViewSale        = "view_sale"
	PermCreateReturn    = "create_return"
	PermViewProduct     = "view_product"
	PermManageProduct   = "manage_product"
	PermViewInventory   = "view_inventory"
	PermAdjustStock     = "adjust_stock"
	PermOpenShift       = "open_shift"
	PermCloseShift      = "close_shift"
	PermViewShift       = "view_shift"
	PermApplyDiscount   = "apply_discount"
	PermApproveDiscount = "approve_discount"
	PermViewReports     = "view_reports"
	PermViewUser        = "view_user"
	PermManageUser      = "manage_user"
	PermViewRole        = "view_role"
	PermManageRole      = "manage_role"
	PermViewOutlet      = "view_outlet"
	PermManageOutlet    = "manage_outlet"
	PermViewSettings    = "view_settings"
	PermManageSettings  = "manage_settings"
)

// AllPermissions lists every known permission name
func AllPermissions() []string {
	return []string{
		PermCreateSale, PermVoidSale, PermViewSale,
		PermCreateReturn,
		PermViewProduct, PermManageProduct,
		PermViewInventory, PermAdjustStock,
		PermOpenShift, PermCloseShift, PermViewShift,
		PermApplyDiscount, PermApproveDiscount,
		PermViewReports,
		PermViewUser, PermManageUser,
		PermViewRole, PermManageRole,
		PermViewOutlet, PermManageOutlet,
		PermViewSettings, PermManageSettings,
	}
}

// Role is a named bundle of permissions. TenantID is the partition: role
// names are unique per (tenant, name), and a nil TenantID marks the global
// super-admin role (unique by name alone).
type Role struct {
	shared.BaseEntity
	TenantID    *uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_roles_tenant_name"`
	Name        string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_roles_tenant_name"`
	Permissions []string   `gorm:"serializer:json"`
}

// TableName returns the table name for GORM
func (Role) TableName() string {
	return "roles"
}

// UserRole assigns a role to a user within a tenant partition. TenantID is
// nil only for the super-admin assignment.
type UserRole struct {
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	RoleID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	TenantID  *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (UserRole) TableName() string {
	return "user_roles"
}

// NewRole creates a tenant-partitioned role
func NewRole(tenantID uuid.UUID, name string) (*Role, error) {
	if err := validateRoleName(name); err != nil {
		return nil, err
	}
	if strings.EqualFold(name, RoleSuperAdmin) {
		return nil, shared.NewDomainError("RESERVED_ROLE_NAME", "super-admin is a reserved global role")
	}

	tid := tenantID
	return &Role{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    &tid,
		Name:        strings.ToLower(strings.TrimSpace(name)),
		Permissions: make([]string, 0),
	}, nil
}

// NewSuperAdminRole creates the global super-admin role. It carries no
// explicit permission list: permission checks short-circuit for it.
func NewSuperAdminRole() *Role {
	return &Role{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    nil,
		Name:        RoleSuperAdmin,
		Permissions: make([]string, 0),
	}
}

// IsGlobal reports whether the role lives outside any tenant partition
func (r *Role) IsGlobal() bool {
	return r.TenantID == nil
}

// HasPermission checks if the role grants a permission by name
func (r *Role) HasPermission(name string) bool {
	if r.Name == RoleSuperAdmin {
		return true
	}
	for _, p := range r.Permissions {
		if p == name {
			return true
		}
	}
	return false
}

// GrantPermission grants a permission to the role
func (r *Role) GrantPermission(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_PERMISSION", "Permission name cannot be empty")
	}
	if r.HasPermission(name) {
		return shared.NewDomainError("PERMISSION_ALREADY_GRANTED", "Role already has this permission")
	}

	r.Permissions = append(r.Permissions, name)
	r.Touch()

	return nil
}

// SetPermissions replaces the role's permission set, deduplicated
func (r *Role) SetPermissions(names []string) error {
	seen := make(map[string]bool, len(names))
	unique := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			return shared.NewDomainError("INVALID_PERMISSION", "Permission name cannot be empty")
		}
		if !seen[n] {
			seen[n] = true
			unique = append(unique, n)
		}
	}

	r.Permissions = unique
	r.Touch()

	return nil
}

func validateRoleName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot exceed 100 characters")
	}

	nameRegex := regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_\-]*$`)
	if !nameRegex.MatchString(name) {
		return shared.NewDomainError("INVALID_ROLE_NAME", "Role name must start with a letter and contain only letters, numbers, underscores, and hyphens")
	}

	return nil
}

// DefaultRolePermissions returns the seeded permission set per role name.
// Cashier return amounts and supervisor stock adjustments are capped by
// policy gates, not by withholding the permission.
func DefaultRolePermissions(roleName string) []string {
	switch roleName {
	case RoleCashier:
		return []string{
			PermCreateSale, PermViewSale,
			PermViewProduct, PermViewInventory,
			PermOpenShift, PermCloseShift, PermViewShift,
			PermCreateReturn,
			PermApplyDiscount,
		}
	case RoleSupervisor:
		return []string{
			PermCreateSale, PermVoidSale, PermViewSale,
			PermViewProduct, PermViewInventory,
			PermOpenShift, PermCloseShift, PermViewShift,
			PermCreateReturn,
			PermApplyDiscount, PermApproveDiscount,
			PermAdjustStock,
			PermViewReports,
			PermViewUser, PermViewRole,
		}
	case RoleAdmin:
		return AllPermissions()
	default:
		return nil
	}
}

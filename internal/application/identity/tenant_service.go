package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/possuite/backend/internal/domain/identity"
	"github.com/possuite/backend/internal/domain/shared"
	"github.com/possuite/backend/internal/tenancy"
)

// TenantService handles tenant provisioning, the switch/assume operations,
// and tenant settings
type TenantService struct {
	tenants    identity.TenantRepository
	users      identity.UserRepository
	roles      identity.RoleRepository
	authorizer *Authorizer
	manager    *tenancy.Manager
	logger     *zap.Logger
}

// NewTenantService creates a new tenant service
func NewTenantService(
	tenants identity.TenantRepository,
	users identity.UserRepository,
	roles identity.RoleRepository,
	authorizer *Authorizer,
	manager *tenancy.Manager,
	logger *zap.Logger,
) *TenantService {
	return &TenantService{
		tenants:    tenants,
		users:      users,
		roles:      roles,
		authorizer: authorizer,
		manager:    manager,
		logger:     logger,
	}
}

// CreateTenant provisions a tenant together with its standard role
// catalogue. Only a super-admin may provision tenants.
func (s *TenantService) CreateTenant(ctx context.Context, actorID uuid.UUID, input CreateTenantInput) (*identity.Tenant, error) {
	isSuper, err := s.authorizer.IsSuperAdmin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !isSuper {
		return nil, shared.ErrForbidden
	}

	if _, err := s.tenants.FindByCode(ctx, input.Code); err == nil {
		return nil, shared.ErrAlreadyExists
	}

	tenant, err := identity.NewTenant(input.Code, input.Name)
	if err != nil {
		return nil, err
	}
	if input.Timezone != "" {
		if err := tenant.SetTimezone(input.Timezone); err != nil {
			return nil, err
		}
	}

	if err := s.tenants.Save(ctx, tenant); err != nil {
		return nil, err
	}

	if err := s.seedRoleCatalogue(ctx, tenant.ID); err != nil {
		return nil, err
	}

	s.logger.Info("tenant provisioned",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("code", tenant.Code))

	return tenant, nil
}

// seedRoleCatalogue creates the admin, supervisor, and cashier roles in a
// fresh tenant's partition
func (s *TenantService) seedRoleCatalogue(ctx context.Context, tenantID uuid.UUID) error {
	for _, name := range []string{identity.RoleAdmin, identity.RoleSupervisor, identity.RoleCashier} {
		role, err := identity.NewRole(tenantID, name)
		if err != nil {
			return err
		}
		if err := role.SetPermissions(identity.DefaultRolePermissions(name)); err != nil {
			return err
		}
		if err := s.roles.Save(ctx, role); err != nil {
			return err
		}
	}
	return nil
}

// GetTenant returns a tenant the actor has access to
func (s *TenantService) GetTenant(ctx context.Context, actorID, tenantID uuid.UUID) (*identity.Tenant, error) {
	allowed, err := s.authorizer.HasAccessToTenant(ctx, actorID, tenantID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, shared.ErrTenantAccessDenied
	}
	return s.tenants.FindByID(ctx, tenantID)
}

// ListTenants returns every tenant for a super-admin and the actor's
// memberships for everyone else
func (s *TenantService) ListTenants(ctx context.Context, actorID uuid.UUID, limit, offset int) ([]*identity.Tenant, error) {
	isSuper, err := s.authorizer.IsSuperAdmin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if isSuper {
		return s.tenants.FindAll(ctx, limit, offset)
	}

	memberships, err := s.users.Memberships(ctx, actorID)
	if err != nil {
		return nil, err
	}
	tenants := make([]*identity.Tenant, 0, len(memberships))
	for _, m := range memberships {
		tenant, err := s.tenants.FindByID(ctx, m.TenantID)
		if err != nil {
			continue
		}
		tenants = append(tenants, tenant)
	}
	return tenants, nil
}

// UpdateTenant changes tenant settings. Requires settings management
// permission within the tenant.
func (s *TenantService) UpdateTenant(ctx context.Context, actorID, tenantID uuid.UUID, input UpdateTenantInput) (*identity.Tenant, error) {
	allowed, err := s.authorizer.HasPermission(ctx, actorID, tenantID, identity.PermManageSettings)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, shared.ErrForbidden
	}

	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		if err := tenant.Update(input.Name); err != nil {
			return nil, err
		}
	}
	if input.Timezone != "" {
		if err := tenant.SetTimezone(input.Timezone); err != nil {
			return nil, err
		}
	}
	for key, value := range input.Settings {
		tenant.SetSetting(key, value)
	}

	if err := s.tenants.Save(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

// DeleteTenant removes a tenant. Super-admin only.
func (s *TenantService) DeleteTenant(ctx context.Context, actorID, tenantID uuid.UUID) error {
	isSuper, err := s.authorizer.IsSuperAdmin(ctx, actorID)
	if err != nil {
		return err
	}
	if !isSuper {
		return shared.ErrForbidden
	}
	return s.tenants.Delete(ctx, tenantID)
}

// SwitchTenant changes the actor's active tenant. Membership (or the global
// super-admin role) is required; the choice persists in the session.
func (s *TenantService) SwitchTenant(ctx context.Context, actorID, tenantID uuid.UUID) (context.Context, error) {
	return s.manager.SetCurrent(ctx, actorID, tenantID)
}

// AssumeTenant lets a super-admin act inside any tenant without holding a
// membership. Everyone else is rejected even for tenants they belong to;
// members use SwitchTenant.
func (s *TenantService) AssumeTenant(ctx context.Context, actorID, tenantID uuid.UUID) (context.Context, error) {
	isSuper, err := s.authorizer.IsSuperAdmin(ctx, actorID)
	if err != nil {
		return ctx, err
	}
	if !isSuper {
		return ctx, shared.ErrForbidden
	}

	if _, err := s.tenants.FindByID(ctx, tenantID); err != nil {
		return ctx, err
	}

	s.logger.Info("super-admin assumed tenant",
		zap.String("user_id", actorID.String()),
		zap.String("tenant_id", tenantID.String()))

	return s.manager.SetCurrent(ctx, actorID, tenantID)
}

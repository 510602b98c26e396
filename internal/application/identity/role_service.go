package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/possuite/backend/internal/domain/identity"
	"github.com/possuite/backend/internal/domain/shared"
	"github.com/possuite/backend/internal/tenancy"
)

// RoleService manages the active tenant's role partition. Global roles are
// seeded out of band and never reachable through this service.
type RoleService struct {
	roles  identity.RoleRepository
	logger *zap.Logger
}

// NewRoleService creates a new role service
func NewRoleService(roles identity.RoleRepository, logger *zap.Logger) *RoleService {
	return &RoleService{roles: roles, logger: logger}
}

// CreateRole creates a role in the active tenant's partition. The reserved
// super-admin name is rejected by the domain constructor.
func (s *RoleService) CreateRole(ctx context.Context, input CreateRoleInput) (*identity.Role, error) {
	tenantID, ok := tenancy.TenantID(ctx)
	if !ok {
		return nil, shared.ErrNoActiveTenant
	}

	if _, err := s.roles.FindByName(ctx, &tenantID, input.Name); err == nil {
		return nil, shared.ErrAlreadyExists
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	role, err := identity.NewRole(tenantID, input.Name)
	if err != nil {
		return nil, err
	}
	if err := role.SetPermissions(input.Permissions); err != nil {
		return nil, err
	}

	if err := s.roles.Save(ctx, role); err != nil {
		return nil, err
	}

	s.logger.Info("role created",
		zap.String("role_id", role.ID.String()),
		zap.String("tenant_id", tenantID.String()),
		zap.String("name", role.Name))

	return role, nil
}

// ListRoles lists the active tenant's roles
func (s *RoleService) ListRoles(ctx context.Context) ([]*identity.Role, error) {
	tenantID, ok := tenancy.TenantID(ctx)
	if !ok {
		return nil, shared.ErrNoActiveTenant
	}
	return s.roles.FindByTenant(ctx, tenantID)
}

// GetRole returns a role from the active tenant's partition
func (s *RoleService) GetRole(ctx context.Context, roleID uuid.UUID) (*identity.Role, error) {
	return s.partitionRole(ctx, roleID)
}

// UpdatePermissions replaces a role's permission set
func (s *RoleService) UpdatePermissions(ctx context.Context, roleID uuid.UUID, permissions []string) (*identity.Role, error) {
	role, err := s.partitionRole(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if err := role.SetPermissions(permissions); err != nil {
		return nil, err
	}
	if err := s.roles.Save(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// DeleteRole removes a role and its assignments from the partition
func (s *RoleService) DeleteRole(ctx context.Context, roleID uuid.UUID) error {
	role, err := s.partitionRole(ctx, roleID)
	if err != nil {
		return err
	}
	return s.roles.Delete(ctx, role.ID)
}

// AssignRole grants a partition role to a user
func (s *RoleService) AssignRole(ctx context.Context, userID, roleID uuid.UUID) error {
	role, err := s.partitionRole(ctx, roleID)
	if err != nil {
		return err
	}
	return s.roles.AssignRole(ctx, userID, role.ID, role.TenantID)
}

// RevokeRole removes a partition role from a user
func (s *RoleService) RevokeRole(ctx context.Context, userID, roleID uuid.UUID) error {
	if _, err := s.partitionRole(ctx, roleID); err != nil {
		return err
	}
	return s.roles.RevokeRole(ctx, userID, roleID)
}

// partitionRole loads a role and verifies it belongs to the active tenant's
// partition. Global roles and other tenants' roles read as not found.
func (s *RoleService) partitionRole(ctx context.Context, roleID uuid.UUID) (*identity.Role, error) {
	tenantID, ok := tenancy.TenantID(ctx)
	if !ok {
		return nil, shared.ErrNoActiveTenant
	}

	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role.TenantID == nil || *role.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return role, nil
}

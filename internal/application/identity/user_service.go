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

// UserService manages users within the active tenant. All operations run
// against the context's active tenant; cross-tenant user administration goes
// through the seeder or a super-admin assuming the tenant first.
type UserService struct {
	users   identity.UserRepository
	tenants identity.TenantRepository
	roles   identity.RoleRepository
	logger  *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	users identity.UserRepository,
	tenants identity.TenantRepository,
	roles identity.RoleRepository,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		users:   users,
		tenants: tenants,
		roles:   roles,
		logger:  logger,
	}
}

// CreateUser provisions a user in the active tenant. An existing user with
// the same email is attached by membership instead of recreated.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*identity.User, error) {
	tenantID, ok := tenancy.TenantID(ctx)
	if !ok {
		return nil, shared.ErrNoActiveTenant
	}

	user, err := s.users.FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
		if user.IsMemberOf(tenantID) {
			return nil, shared.ErrAlreadyExists
		}
	case errors.Is(err, shared.ErrNotFound):
		user, err = identity.NewUser(input.Name, input.Email, input.Password)
		if err != nil {
			return nil, err
		}
		if err := s.users.Save(ctx, user); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.users.AddMembership(ctx, &identity.TenantMembership{
		UserID:   user.ID,
		TenantID: tenantID,
	}); err != nil {
		return nil, err
	}

	if len(input.RoleIDs) > 0 {
		if err := s.syncPartitionRoles(ctx, user.ID, tenantID, input.RoleIDs); err != nil {
			return nil, err
		}
	}

	s.logger.Info("user provisioned",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", tenantID.String()))

	return s.users.FindByID(ctx, user.ID)
}

// GetUser returns a user who is a member of the active tenant
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*identity.User, error) {
	tenantID, ok := tenancy.TenantID(ctx)
	if !ok {
		return nil, shared.ErrNoActiveTenant
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsMemberOf(tenantID) {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

// ListUsers lists the active tenant's members
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]*identity.User, error) {
	tenantID, ok := tenancy.TenantID(ctx)
	if !ok {
		return nil, shared.ErrNoActiveTenant
	}
	return s.users.FindByTenant(ctx, tenantID, limit, offset)
}

// UpdateUser changes a member's name and role set within the active tenant
func (s *UserService) UpdateUser(ctx context.Context, userID uuid.UUID, input UpdateUserInput) (*identity.User, error) {
	tenantID, ok := tenancy.TenantID(ctx)
	if !ok {
		return nil, shared.ErrNoActiveTenant
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		if err := user.Rename(input.Name); err != nil {
			return nil, err
		}
		if err := s.users.Save(ctx, user); err != nil {
			return nil, err
		}
	}

	if input.RoleIDs != nil {
		if err := s.syncPartitionRoles(ctx, user.ID, tenantID, input.RoleIDs); err != nil {
			return nil, err
		}
	}

	return user, nil
}

// RemoveUser detaches a user from the active tenant: membership and role
// assignments go, the user record stays for their other tenants
func (s *UserService) RemoveUser(ctx context.Context, userID uuid.UUID) error {
	tenantID, ok := tenancy.TenantID(ctx)
	if !ok {
		return shared.ErrNoActiveTenant
	}

	if _, err := s.GetUser(ctx, userID); err != nil {
		return err
	}

	if err := s.roles.SyncRoles(ctx, userID, &tenantID, nil); err != nil {
		return err
	}
	return s.users.RemoveMembership(ctx, userID, tenantID)
}

// RolesOf returns the user's roles within the active tenant
func (s *UserService) RolesOf(ctx context.Context, userID uuid.UUID) ([]*identity.Role, error) {
	tenantID, ok := tenancy.TenantID(ctx)
	if !ok {
		return nil, shared.ErrNoActiveTenant
	}
	return s.roles.RolesForUser(ctx, userID, &tenantID)
}

// syncPartitionRoles replaces a user's roles in one tenant partition after
// verifying every role actually lives in that partition
func (s *UserService) syncPartitionRoles(ctx context.Context, userID, tenantID uuid.UUID, roleIDs []uuid.UUID) error {
	for _, roleID := range roleIDs {
		role, err := s.roles.FindByID(ctx, roleID)
		if err != nil {
			return err
		}
		if role.TenantID == nil || *role.TenantID != tenantID {
			return shared.NewDomainError("ROLE_WRONG_PARTITION", "Role does not belong to this tenant")
		}
	}
	return s.roles.SyncRoles(ctx, userID, &tenantID, roleIDs)
}

package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	domainidentity "github.com/possuite/backend/internal/domain/identity"
	"github.com/possuite/backend/internal/domain/shared"
	"github.com/possuite/backend/internal/infrastructure/auth"
	"github.com/possuite/backend/internal/infrastructure/config"
	"github.com/possuite/backend/internal/infrastructure/persistence"
	"github.com/possuite/backend/internal/infrastructure/persistence/tenantscope"
	"github.com/possuite/backend/internal/infrastructure/session"
	"github.com/possuite/backend/internal/tenancy"
)

type fixture struct {
	users      *persistence.GormUserRepository
	tenants    *persistence.GormTenantRepository
	roles      *persistence.GormRoleRepository
	authorizer *Authorizer
	manager    *tenancy.Manager
	sessions   session.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, tenantscope.Register(db))
	require.NoError(t, db.AutoMigrate(
		&domainidentity.Tenant{},
		&domainidentity.User{},
		&domainidentity.TenantMembership{},
		&domainidentity.Role{},
		&domainidentity.UserRole{},
	))

	scope := tenantscope.New(db)
	users := persistence.NewGormUserRepository(scope)
	tenants := persistence.NewGormTenantRepository(scope)
	roles := persistence.NewGormRoleRepository(scope)
	authorizer := NewAuthorizer(users, roles)
	sessions := session.NewMemoryStore(time.Hour)

	return &fixture{
		users:      users,
		tenants:    tenants,
		roles:      roles,
		authorizer: authorizer,
		manager:    tenancy.NewManager(sessions, users, authorizer),
		sessions:   sessions,
	}
}

func (f *fixture) tenantService(t *testing.T) *TenantService {
	return NewTenantService(f.tenants, f.users, f.roles, f.authorizer, f.manager, zaptest.NewLogger(t))
}

func (f *fixture) seedTenant(t *testing.T, code string) *domainidentity.Tenant {
	t.Helper()
	tenant, err := domainidentity.NewTenant(code, "Tenant "+code)
	require.NoError(t, err)
	require.NoError(t, f.tenants.Save(context.Background(), tenant))
	return tenant
}

func (f *fixture) seedUser(t *testing.T, email string, tenantIDs ...uuid.UUID) *domainidentity.User {
	t.Helper()
	user, err := domainidentity.NewUser("Test User", email, "correct-horse-battery")
	require.NoError(t, err)
	require.NoError(t, f.users.Save(context.Background(), user))
	for _, tenantID := range tenantIDs {
		require.NoError(t, f.users.AddMembership(context.Background(), &domainidentity.TenantMembership{
			UserID:   user.ID,
			TenantID: tenantID,
		}))
	}
	return user
}

func (f *fixture) seedSuperAdmin(t *testing.T, email string) *domainidentity.User {
	t.Helper()
	user := f.seedUser(t, email)
	super := domainidentity.NewSuperAdminRole()
	require.NoError(t, f.roles.Save(context.Background(), super))
	require.NoError(t, f.roles.AssignRole(context.Background(), user.ID, super.ID, nil))
	return user
}

func TestAuthorizer_TenantAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tenantA := f.seedTenant(t, "alpha")
	tenantB := f.seedTenant(t, "beta")
	member := f.seedUser(t, "member@example.com", tenantA.ID)
	super := f.seedSuperAdmin(t, "root@example.com")

	ok, err := f.authorizer.HasAccessToTenant(ctx, member.ID, tenantA.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.authorizer.HasAccessToTenant(ctx, member.ID, tenantB.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// Super-admin reaches every tenant with no membership at all.
	for _, tenantID := range []uuid.UUID{tenantA.ID, tenantB.ID} {
		ok, err = f.authorizer.HasAccessToTenant(ctx, super.ID, tenantID)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestAuthorizer_ActorSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tenantA := f.seedTenant(t, "alpha")
	user := f.seedUser(t, "cashier@example.com", tenantA.ID)

	cashier, err := domainidentity.NewRole(tenantA.ID, "cashier")
	require.NoError(t, err)
	require.NoError(t, cashier.SetPermissions(domainidentity.DefaultRolePermissions(domainidentity.RoleCashier)))
	require.NoError(t, f.roles.Save(ctx, cashier))
	require.NoError(t, f.roles.AssignRole(ctx, user.ID, cashier.ID, &tenantA.ID))

	actor, err := f.authorizer.ActorFor(ctx, user.ID, tenantA.ID)
	require.NoError(t, err)

	assert.True(t, actor.HasRole(domainidentity.RoleCashier))
	assert.True(t, actor.HasPermission(domainidentity.PermCreateSale))
	assert.False(t, actor.HasPermission(domainidentity.PermVoidSale))
	assert.True(t, actor.HasAnyRole(domainidentity.RoleSupervisor, domainidentity.RoleCashier))
}

func TestAuthorizer_SuperAdminActorHasEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tenantA := f.seedTenant(t, "alpha")
	super := f.seedSuperAdmin(t, "root@example.com")

	actor, err := f.authorizer.ActorFor(ctx, super.ID, tenantA.ID)
	require.NoError(t, err)

	for _, perm := range domainidentity.AllPermissions() {
		assert.True(t, actor.HasPermission(perm), perm)
	}
	assert.True(t, actor.HasRole(domainidentity.RoleSuperAdmin))
}

func TestTenantService_CreateTenantSeedsRoleCatalogue(t *testing.T) {
	f := newFixture(t)
	svc := f.tenantService(t)
	ctx := context.Background()

	super := f.seedSuperAdmin(t, "root@example.com")

	tenant, err := svc.CreateTenant(ctx, super.ID, CreateTenantInput{
		Code:     "warung-kopi",
		Name:     "Warung Kopi",
		Timezone: "Asia/Jakarta",
	})
	require.NoError(t, err)

	roles, err := f.roles.FindByTenant(ctx, tenant.ID)
	require.NoError(t, err)
	require.Len(t, roles, 3)

	admin, err := f.roles.FindByName(ctx, &tenant.ID, domainidentity.RoleAdmin)
	require.NoError(t, err)
	assert.ElementsMatch(t, domainidentity.AllPermissions(), admin.Permissions)

	cashier, err := f.roles.FindByName(ctx, &tenant.ID, domainidentity.RoleCashier)
	require.NoError(t, err)
	assert.Contains(t, cashier.Permissions, domainidentity.PermCreateSale)
	assert.NotContains(t, cashier.Permissions, domainidentity.PermVoidSale)
}

func TestTenantService_CreateTenantRequiresSuperAdmin(t *testing.T) {
	f := newFixture(t)
	svc := f.tenantService(t)
	ctx := context.Background()

	tenantA := f.seedTenant(t, "alpha")
	member := f.seedUser(t, "member@example.com", tenantA.ID)

	_, err := svc.CreateTenant(ctx, member.ID, CreateTenantInput{Code: "new", Name: "New"})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestTenantService_SwitchAndAssume(t *testing.T) {
	f := newFixture(t)
	svc := f.tenantService(t)
	ctx := context.Background()

	tenantA := f.seedTenant(t, "alpha")
	tenantB := f.seedTenant(t, "beta")
	member := f.seedUser(t, "member@example.com", tenantA.ID)
	super := f.seedSuperAdmin(t, "root@example.com")

	// A member switches into their tenant.
	switched, err := svc.SwitchTenant(ctx, member.ID, tenantA.ID)
	require.NoError(t, err)
	current, ok := tenancy.TenantID(switched)
	require.True(t, ok)
	assert.Equal(t, tenantA.ID, current)

	// But not into someone else's.
	_, err = svc.SwitchTenant(ctx, member.ID, tenantB.ID)
	assert.ErrorIs(t, err, shared.ErrTenantAccessDenied)

	// And never through assume, even for a tenant they belong to.
	_, err = svc.AssumeTenant(ctx, member.ID, tenantA.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	// A super-admin assumes any tenant without a membership.
	assumed, err := svc.AssumeTenant(ctx, super.ID, tenantB.ID)
	require.NoError(t, err)
	current, ok = tenancy.TenantID(assumed)
	require.True(t, ok)
	assert.Equal(t, tenantB.ID, current)

	// Assuming a tenant that does not exist fails.
	_, err = svc.AssumeTenant(ctx, super.ID, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestTenantService_ListTenants(t *testing.T) {
	f := newFixture(t)
	svc := f.tenantService(t)
	ctx := context.Background()

	tenantA := f.seedTenant(t, "alpha")
	f.seedTenant(t, "beta")
	member := f.seedUser(t, "member@example.com", tenantA.ID)
	super := f.seedSuperAdmin(t, "root@example.com")

	mine, err := svc.ListTenants(ctx, member.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, tenantA.ID, mine[0].ID)

	all, err := svc.ListTenants(ctx, super.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUserService_LifecycleWithinTenant(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.users, f.tenants, f.roles, zaptest.NewLogger(t))

	tenantA := f.seedTenant(t, "alpha")
	tenantB := f.seedTenant(t, "beta")
	ctx := tenancy.WithTenant(context.Background(), tenantA.ID)

	cashier, err := domainidentity.NewRole(tenantA.ID, "cashier")
	require.NoError(t, err)
	require.NoError(t, f.roles.Save(ctx, cashier))

	user, err := svc.CreateUser(ctx, CreateUserInput{
		Name:     "Jane",
		Email:    "jane@example.com",
		Password: "correct-horse-battery",
		RoleIDs:  []uuid.UUID{cashier.ID},
	})
	require.NoError(t, err)
	assert.True(t, user.IsMemberOf(tenantA.ID))

	// Creating the same member twice fails.
	_, err = svc.CreateUser(ctx, CreateUserInput{
		Name:     "Jane",
		Email:    "jane@example.com",
		Password: "correct-horse-battery",
	})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)

	roles, err := svc.RolesOf(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, cashier.ID, roles[0].ID)

	// The user is invisible from another tenant's context.
	ctxB := tenancy.WithTenant(context.Background(), tenantB.ID)
	_, err = svc.GetUser(ctxB, user.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	listed, err := svc.ListUsers(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	// Removal detaches the membership but keeps the account.
	require.NoError(t, svc.RemoveUser(ctx, user.ID))
	_, err = svc.GetUser(ctx, user.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = f.users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
}

func TestUserService_RejectsRoleFromOtherPartition(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.users, f.tenants, f.roles, zaptest.NewLogger(t))

	tenantA := f.seedTenant(t, "alpha")
	tenantB := f.seedTenant(t, "beta")
	ctx := tenancy.WithTenant(context.Background(), tenantA.ID)

	foreign, err := domainidentity.NewRole(tenantB.ID, "cashier")
	require.NoError(t, err)
	require.NoError(t, f.roles.Save(ctx, foreign))

	_, err = svc.CreateUser(ctx, CreateUserInput{
		Name:     "Jane",
		Email:    "jane@example.com",
		Password: "correct-horse-battery",
		RoleIDs:  []uuid.UUID{foreign.ID},
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ROLE_WRONG_PARTITION", domainErr.Code)
}

func TestRoleService_PartitionGuards(t *testing.T) {
	f := newFixture(t)
	svc := NewRoleService(f.roles, zaptest.NewLogger(t))

	tenantA := f.seedTenant(t, "alpha")
	tenantB := f.seedTenant(t, "beta")
	ctxA := tenancy.WithTenant(context.Background(), tenantA.ID)
	ctxB := tenancy.WithTenant(context.Background(), tenantB.ID)

	role, err := svc.CreateRole(ctxA, CreateRoleInput{
		Name:        "shift-lead",
		Permissions: []string{domainidentity.PermOpenShift, domainidentity.PermCloseShift},
	})
	require.NoError(t, err)

	// Duplicate names rejected within the partition, fine across partitions.
	_, err = svc.CreateRole(ctxA, CreateRoleInput{Name: "shift-lead"})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	_, err = svc.CreateRole(ctxB, CreateRoleInput{Name: "shift-lead"})
	require.NoError(t, err)

	// The reserved global name cannot be claimed.
	_, err = svc.CreateRole(ctxA, CreateRoleInput{Name: "Super-Admin"})
	require.Error(t, err)

	// Another tenant cannot see or edit the role.
	_, err = svc.GetRole(ctxB, role.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = svc.UpdatePermissions(ctxB, role.ID, nil)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// The global super-admin role is unreachable through the service.
	super := domainidentity.NewSuperAdminRole()
	require.NoError(t, f.roles.Save(context.Background(), super))
	_, err = svc.GetRole(ctxA, super.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	err = svc.DeleteRole(ctxA, super.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func newJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-that-is-long-enough",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "possuite-test",
	})
}

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.users, f.tenants, newJWTService(), f.manager, zaptest.NewLogger(t))
	ctx := context.Background()

	tenantA := f.seedTenant(t, "alpha")
	f.seedUser(t, "jane@example.com", tenantA.ID)

	result, err := svc.Login(ctx, LoginInput{Email: "jane@example.com", Password: "correct-horse-battery"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	require.NotNil(t, result.ActiveTenantID)
	assert.Equal(t, tenantA.ID, *result.ActiveTenantID)
	require.Len(t, result.User.Tenants, 1)
	assert.Equal(t, "alpha", result.User.Tenants[0].Code)
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.users, f.tenants, newJWTService(), f.manager, zaptest.NewLogger(t))
	ctx := context.Background()

	tenantA := f.seedTenant(t, "alpha")
	f.seedUser(t, "jane@example.com", tenantA.ID)

	for _, input := range []LoginInput{
		{Email: "jane@example.com", Password: "wrong"},
		{Email: "nobody@example.com", Password: "correct-horse-battery"},
	} {
		_, err := svc.Login(ctx, input)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	}
}

func TestAuthService_LoginWithoutMemberships(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.users, f.tenants, newJWTService(), f.manager, zaptest.NewLogger(t))

	f.seedUser(t, "orphan@example.com")

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "orphan@example.com",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)
	assert.Nil(t, result.ActiveTenantID)
}

func TestAuthService_RefreshToken(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.users, f.tenants, newJWTService(), f.manager, zaptest.NewLogger(t))
	ctx := context.Background()

	tenantA := f.seedTenant(t, "alpha")
	f.seedUser(t, "jane@example.com", tenantA.ID)

	login, err := svc.Login(ctx, LoginInput{Email: "jane@example.com", Password: "correct-horse-battery"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: "garbage"})
	require.Error(t, err)
}

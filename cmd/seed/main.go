package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/possuite/backend/internal/domain/identity"
	"github.com/possuite/backend/internal/domain/shared"
	"github.com/possuite/backend/internal/infrastructure/config"
	"github.com/possuite/backend/internal/infrastructure/logger"
	"github.com/possuite/backend/internal/infrastructure/persistence"
	"github.com/possuite/backend/internal/tenancy"
)

func main() {
	var (
		email    string
		password string
		name     string
		demo     bool
		logLevel string
	)

	flag.StringVar(&email, "email", "", "Super-admin email (required)")
	flag.StringVar(&password, "password", "", "Super-admin password (required)")
	flag.StringVar(&name, "name", "Platform Admin", "Super-admin display name")
	flag.BoolVar(&demo, "demo", false, "Also create a demo tenant with the default role catalogue")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	if email == "" || password == "" {
		fmt.Fprintln(os.Stderr, "usage: seed -email admin@example.com -password secret [-name \"Platform Admin\"] [-demo]")
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Seeding writes global rows, so the whole run bypasses tenant scoping.
	ctx := tenancy.WithBypass(context.Background())

	scope := db.Scope()
	users := persistence.NewGormUserRepository(scope)
	roles := persistence.NewGormRoleRepository(scope)
	tenants := persistence.NewGormTenantRepository(scope)

	superRole, err := ensureSuperAdminRole(ctx, roles)
	if err != nil {
		log.Fatal("Failed to ensure super-admin role", zap.Error(err))
	}

	user, err := ensureUser(ctx, users, name, email, password)
	if err != nil {
		log.Fatal("Failed to ensure super-admin user", zap.Error(err))
	}

	if err := roles.AssignRole(ctx, user.ID, superRole.ID, nil); err != nil {
		log.Fatal("Failed to assign super-admin role", zap.Error(err))
	}
	log.Info("Super-admin ready", zap.String("email", email))

	if demo {
		if err := seedDemoTenant(ctx, tenants, roles, users, user); err != nil {
			log.Fatal("Failed to seed demo tenant", zap.Error(err))
		}
		log.Info("Demo tenant ready", zap.String("code", "demo"))
	}
}

func ensureSuperAdminRole(ctx context.Context, roles identity.RoleRepository) (*identity.Role, error) {
	role, err := roles.FindByName(ctx, nil, identity.RoleSuperAdmin)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	role = identity.NewSuperAdminRole()
	if err := roles.Save(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func ensureUser(ctx context.Context, users identity.UserRepository, name, email, password string) (*identity.User, error) {
	user, err := users.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	user, err = identity.NewUser(name, email, password)
	if err != nil {
		return nil, err
	}
	if err := users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func seedDemoTenant(
	ctx context.Context,
	tenants identity.TenantRepository,
	roles identity.RoleRepository,
	users identity.UserRepository,
	admin *identity.User,
) error {
	tenant, err := tenants.FindByCode(ctx, "demo")
	if errors.Is(err, shared.ErrNotFound) {
		tenant, err = identity.NewTenant("demo", "Demo Company")
		if err != nil {
			return err
		}
		if err := tenants.Save(ctx, tenant); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	for _, roleName := range []string{identity.RoleAdmin, identity.RoleSupervisor, identity.RoleCashier} {
		if _, err := roles.FindByName(ctx, &tenant.ID, roleName); err == nil {
			continue
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		role, err := identity.NewRole(tenant.ID, roleName)
		if err != nil {
			return err
		}
		if err := role.SetPermissions(identity.DefaultRolePermissions(roleName)); err != nil {
			return err
		}
		if err := roles.Save(ctx, role); err != nil {
			return err
		}
	}

	memberships, err := users.Memberships(ctx, admin.ID)
	if err != nil {
		return err
	}
	for _, m := range memberships {
		if m.TenantID == tenant.ID {
			return nil
		}
	}
	return users.AddMembership(ctx, &identity.TenantMembership{
		UserID:   admin.ID,
		TenantID: tenant.ID,
	})
}

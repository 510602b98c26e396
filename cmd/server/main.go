package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	identityapp "github.com/possuite/backend/internal/application/identity"
	posapp "github.com/possuite/backend/internal/application/pos"
	"github.com/possuite/backend/internal/domain/policy"
	"github.com/possuite/backend/internal/infrastructure/auth"
	"github.com/possuite/backend/internal/infrastructure/config"
	"github.com/possuite/backend/internal/infrastructure/logger"
	"github.com/possuite/backend/internal/infrastructure/persistence"
	"github.com/possuite/backend/internal/infrastructure/session"
	"github.com/possuite/backend/internal/interfaces/http/handler"
	"github.com/possuite/backend/internal/interfaces/http/middleware"
	"github.com/possuite/backend/internal/interfaces/http/router"
	"github.com/possuite/backend/internal/tenancy"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting POS backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Session store keeps the active-tenant choice between requests.
	sessionFactory := session.NewFactory(session.RedisConfig{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.Session.TTL,
	}, cfg.Session.TTL, session.WithLogger(log))
	sessions, err := sessionFactory.CreateStore(cfg.Session.Backend)
	if err != nil {
		log.Fatal("Failed to create session store", zap.Error(err))
	}

	// Repositories share one tenant-aware entry point into the connection.
	scope := db.Scope()
	tenantRepo := persistence.NewGormTenantRepository(scope)
	userRepo := persistence.NewGormUserRepository(scope)
	roleRepo := persistence.NewGormRoleRepository(scope)
	outletRepo := persistence.NewGormOutletRepository(scope)
	registerRepo := persistence.NewGormRegisterRepository(scope)
	productRepo := persistence.NewGormProductRepository(scope)
	inventoryRepo := persistence.NewGormInventoryRepository(scope)

	// Authorization and tenancy
	authorizer := identityapp.NewAuthorizer(userRepo, roleRepo)
	tenantManager := tenancy.NewManager(sessions, userRepo, authorizer)
	jwtService := auth.NewJWTService(cfg.JWT)

	// Policy engine reads rules live, so edits to the rules file apply
	// without a restart.
	engine := policy.NewEngine(cfg.POSRules())

	// Application services
	authService := identityapp.NewAuthService(userRepo, tenantRepo, jwtService, tenantManager, log)
	tenantService := identityapp.NewTenantService(tenantRepo, userRepo, roleRepo, authorizer, tenantManager, log)
	userService := identityapp.NewUserService(userRepo, tenantRepo, roleRepo, log)
	roleService := identityapp.NewRoleService(roleRepo, log)
	outletService := posapp.NewOutletService(outletRepo, log)
	registerService := posapp.NewRegisterService(registerRepo, outletRepo, log)
	productService := posapp.NewProductService(productRepo, log)
	inventoryService := posapp.NewInventoryService(inventoryRepo, engine, authorizer, log)
	salesService := posapp.NewSalesService(outletRepo, productRepo, inventoryRepo, engine, authorizer, log)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	ginEngine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := ginEngine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	ginEngine.Use(middleware.RequestID())
	ginEngine.Use(logger.GinMiddleware(log))
	ginEngine.Use(logger.Recovery(log))
	ginEngine.Use(middleware.CORSWithConfig(corsConfig(cfg)))
	ginEngine.Use(middleware.JWTAuthMiddleware(jwtService))
	ginEngine.Use(middleware.TenantContext(middleware.TenantContextConfig{
		Manager: tenantManager,
		Access:  authorizer,
		// Tenant CRUD and auth endpoints must work for users who have no
		// membership yet, super-admins included.
		Optional: true,
	}))

	ginEngine.GET("/health", healthHandler(db))
	ginEngine.GET("/ready", healthHandler(db))

	r := router.NewRouter(ginEngine, router.WithAPIVersion("v1"))
	r.Register(handler.NewAuthHandler(authService)).
		Register(handler.NewTenantHandler(tenantService)).
		Register(handler.NewUserHandler(userService)).
		Register(handler.NewRoleHandler(roleService)).
		Register(handler.NewOutletHandler(outletService, registerService)).
		Register(handler.NewProductHandler(productService)).
		Register(handler.NewInventoryHandler(inventoryService)).
		Register(handler.NewSalesHandler(salesService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        ginEngine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	return corsCfg
}

func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}

package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/possuite/backend/internal/domain/shared"
	"github.com/possuite/backend/internal/interfaces/http/dto"
	"github.com/possuite/backend/internal/tenancy"
)

// TenantIDHeader lets a client pin a specific tenant for one request. The
// header is validated against the user's memberships before it takes effect.
const TenantIDHeader = "X-Tenant-ID"

// TenantContextConfig holds dependencies for tenant resolution
type TenantContextConfig struct {
	Manager *tenancy.Manager
	Access  tenancy.AccessChecker
	// Optional denies the request when no tenant resolves if false
	Optional bool
}

// TenantContext resolves the active tenant for the authenticated user and
// injects it into the request context. Every repository query downstream is
// filtered to that tenant. Requests without resolvable tenant are rejected
// unless the config marks the tenant optional; super-admin management
// endpoints mount with Optional set.
func TenantContext(cfg TenantContextConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := GetUserUUID(c)
		if err != nil {
			// Unauthenticated paths carry no tenant.
			c.Next()
			return
		}

		ctx := c.Request.Context()

		if header := c.GetHeader(TenantIDHeader); header != "" {
			tenantID, err := uuid.Parse(header)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest,
					dto.NewErrorResponse(dto.ErrCodeInvalidInput, "Invalid X-Tenant-ID header"))
				return
			}
			allowed, err := cfg.Access.HasAccessToTenant(ctx, userID, tenantID)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					dto.NewErrorResponse(dto.ErrCodeInternal, "Tenant access check failed"))
				return
			}
			if !allowed {
				c.AbortWithStatusJSON(http.StatusForbidden,
					dto.NewErrorResponse(dto.ErrCodeTenantDenied, shared.ErrTenantAccessDenied.Message))
				return
			}
			ctx = tenancy.WithTenant(ctx, tenantID)
		}

		resolved, err := cfg.Manager.Resolve(ctx, userID)
		if err != nil {
			if errors.Is(err, shared.ErrNoActiveTenant) {
				if cfg.Optional {
					c.Next()
					return
				}
				c.AbortWithStatusJSON(http.StatusForbidden,
					dto.NewErrorResponse(dto.ErrCodeNoActiveTenant, shared.ErrNoActiveTenant.Message))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewErrorResponse(dto.ErrCodeInternal, "Tenant resolution failed"))
			return
		}

		c.Request = c.Request.WithContext(resolved)
		c.Next()
	}
}

// GetActiveTenantID returns the resolved tenant for the request
func GetActiveTenantID(c *gin.Context) (uuid.UUID, bool) {
	return tenancy.TenantID(c.Request.Context())
}

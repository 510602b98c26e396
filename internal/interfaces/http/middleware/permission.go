package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/possuite/backend/internal/interfaces/http/dto"
	"github.com/possuite/backend/internal/tenancy"
)

// PermissionChecker answers live permission questions for the authenticated
// user. Checks run against the database on every request, so a role change
// takes effect without reissuing tokens.
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID, tenantID uuid.UUID, permission string) (bool, error)
	IsSuperAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

// RequirePermission denies the request unless the user holds the permission
// in the active tenant
func RequirePermission(checker PermissionChecker, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := GetUserUUID(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
			return
		}

		// An unset tenant leaves only global roles in scope, which is
		// exactly what super-admin requests outside a tenant need.
		tenantID, _ := tenancy.TenantID(c.Request.Context())
		allowed, err := checker.HasPermission(c.Request.Context(), userID, tenantID, permission)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewErrorResponse(dto.ErrCodeInternal, "Permission check failed"))
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Missing required permission: "+permission))
			return
		}
		c.Next()
	}
}

// RequireAnyPermission denies the request unless the user holds at least one
// of the permissions in the active tenant
func RequireAnyPermission(checker PermissionChecker, permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := GetUserUUID(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
			return
		}

		tenantID, _ := tenancy.TenantID(c.Request.Context())
		for _, permission := range permissions {
			allowed, err := checker.HasPermission(c.Request.Context(), userID, tenantID, permission)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					dto.NewErrorResponse(dto.ErrCodeInternal, "Permission check failed"))
				return
			}
			if allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden,
			dto.NewErrorResponse(dto.ErrCodeForbidden, "Missing required permission"))
	}
}

// RequireSuperAdmin denies the request unless the user holds the global
// super-admin role
func RequireSuperAdmin(checker PermissionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := GetUserUUID(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
			return
		}

		super, err := checker.IsSuperAdmin(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewErrorResponse(dto.ErrCodeInternal, "Permission check failed"))
			return
		}
		if !super {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Super-admin role required"))
			return
		}
		c.Next()
	}
}

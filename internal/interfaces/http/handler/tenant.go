package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appidentity "github.com/possuite/backend/internal/application/identity"
	"github.com/possuite/backend/internal/interfaces/http/dto"
	"github.com/possuite/backend/internal/tenancy"
)

// TenantHandler handles tenant management and tenant-switching endpoints
type TenantHandler struct {
	BaseHandler
	tenants *appidentity.TenantService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenants *appidentity.TenantService) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

// RegisterRoutes registers tenant routes
func (h *TenantHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/tenants")
	{
		group.POST("", h.Create)
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
		group.POST("/:id/switch", h.Switch)
		group.POST("/:id/assume", h.Assume)
	}
}

type createTenantRequest struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Timezone string `json:"timezone"`
}

// Create provisions a new tenant with its seeded role catalogue
func (h *TenantHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req createTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	tenant, err := h.tenants.CreateTenant(c.Request.Context(), userID, appidentity.CreateTenantInput{
		Code:     req.Code,
		Name:     req.Name,
		Timezone: req.Timezone,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tenant)
}

// List returns the tenants visible to the caller
func (h *TenantHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var list dto.ListRequest
	if err := c.ShouldBindQuery(&list); err != nil {
		h.BindError(c, err)
		return
	}
	list.Normalize()

	tenants, err := h.tenants.ListTenants(c.Request.Context(), userID, list.PageSize, list.Offset())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenants)
}

// Get returns one tenant
func (h *TenantHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	tenantID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	tenant, err := h.tenants.GetTenant(c.Request.Context(), userID, tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

type updateTenantRequest struct {
	Name     string            `json:"name"`
	Timezone string            `json:"timezone"`
	Settings map[string]string `json:"settings"`
}

// Update modifies tenant profile and settings
func (h *TenantHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	tenantID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req updateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	tenant, err := h.tenants.UpdateTenant(c.Request.Context(), userID, tenantID, appidentity.UpdateTenantInput{
		Name:     req.Name,
		Timezone: req.Timezone,
		Settings: req.Settings,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// Delete removes a tenant
func (h *TenantHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	tenantID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	if err := h.tenants.DeleteTenant(c.Request.Context(), userID, tenantID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Switch changes the caller's active tenant to one they are a member of.
// The choice persists in the session, so it survives into later requests.
func (h *TenantHandler) Switch(c *gin.Context) {
	h.changeTenant(c, h.tenants.SwitchTenant)
}

// Assume lets a super-admin act inside a tenant without holding a
// membership there
func (h *TenantHandler) Assume(c *gin.Context) {
	h.changeTenant(c, h.tenants.AssumeTenant)
}

func (h *TenantHandler) changeTenant(
	c *gin.Context,
	change func(ctx context.Context, actorID, tenantID uuid.UUID) (context.Context, error),
) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	tenantID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	ctx, err := change(c.Request.Context(), userID, tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	activeID, _ := tenancy.TenantID(ctx)
	h.Success(c, gin.H{"active_tenant_id": activeID})
}

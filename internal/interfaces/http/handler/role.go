package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appidentity "github.com/possuite/backend/internal/application/identity"
)

// RoleHandler handles role management within the active tenant's partition
type RoleHandler struct {
	BaseHandler
	roles *appidentity.RoleService
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(roles *appidentity.RoleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

// RegisterRoutes registers role routes
func (h *RoleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/roles")
	{
		group.POST("", h.Create)
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.PUT("/:id/permissions", h.UpdatePermissions)
		group.DELETE("/:id", h.Delete)
		group.POST("/:id/assign", h.Assign)
		group.POST("/:id/revoke", h.Revoke)
	}
}

type createRoleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Permissions []string `json:"permissions"`
}

// Create adds a role to the active tenant's partition
func (h *RoleHandler) Create(c *gin.Context) {
	var req createRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	role, err := h.roles.CreateRole(c.Request.Context(), appidentity.CreateRoleInput{
		Name:        req.Name,
		Permissions: req.Permissions,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, role)
}

// List returns the active tenant's roles
func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.roles.ListRoles(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, roles)
}

// Get returns one role
func (h *RoleHandler) Get(c *gin.Context) {
	roleID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid role ID")
		return
	}

	role, err := h.roles.GetRole(c.Request.Context(), roleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, role)
}

type updatePermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required"`
}

// UpdatePermissions replaces a role's permission set
func (h *RoleHandler) UpdatePermissions(c *gin.Context) {
	roleID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid role ID")
		return
	}

	var req updatePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	role, err := h.roles.UpdatePermissions(c.Request.Context(), roleID, req.Permissions)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, role)
}

// Delete removes a role from the active tenant's partition
func (h *RoleHandler) Delete(c *gin.Context) {
	roleID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid role ID")
		return
	}

	if err := h.roles.DeleteRole(c.Request.Context(), roleID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

type roleMemberRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// Assign grants a role to a user within the active tenant
func (h *RoleHandler) Assign(c *gin.Context) {
	h.changeMember(c, h.roles.AssignRole)
}

// Revoke removes a role from a user within the active tenant
func (h *RoleHandler) Revoke(c *gin.Context) {
	h.changeMember(c, h.roles.RevokeRole)
}

func (h *RoleHandler) changeMember(c *gin.Context, change func(ctx context.Context, userID, roleID uuid.UUID) error) {
	roleID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid role ID")
		return
	}

	var req roleMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if err := change(c.Request.Context(), req.UserID, roleID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

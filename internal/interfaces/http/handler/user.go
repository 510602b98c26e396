package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appidentity "github.com/possuite/backend/internal/application/identity"
	"github.com/possuite/backend/internal/interfaces/http/dto"
)

// UserHandler handles staff management inside the active tenant
type UserHandler struct {
	BaseHandler
	users *appidentity.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *appidentity.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterRoutes registers user routes
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/users")
	{
		group.POST("", h.Create)
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Remove)
		group.GET("/:id/roles", h.Roles)
	}
}

type createUserRequest struct {
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password"`
	RoleIDs  []uuid.UUID `json:"role_ids"`
}

// Create enrolls a user into the active tenant, creating the account when
// the email is new
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), appidentity.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		RoleIDs:  req.RoleIDs,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// List returns the active tenant's staff
func (h *UserHandler) List(c *gin.Context) {
	var list dto.ListRequest
	if err := c.ShouldBindQuery(&list); err != nil {
		h.BindError(c, err)
		return
	}
	list.Normalize()

	users, err := h.users.ListUsers(c.Request.Context(), list.PageSize, list.Offset())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, users)
}

// Get returns one staff member
func (h *UserHandler) Get(c *gin.Context) {
	userID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

type updateUserRequest struct {
	Name    string      `json:"name"`
	RoleIDs []uuid.UUID `json:"role_ids"`
}

// Update renames a staff member and syncs their tenant-partition roles
func (h *UserHandler) Update(c *gin.Context) {
	userID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), userID, appidentity.UpdateUserInput{
		Name:    req.Name,
		RoleIDs: req.RoleIDs,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Remove detaches a staff member from the active tenant. The account itself
// survives for their other tenants.
func (h *UserHandler) Remove(c *gin.Context) {
	userID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.users.RemoveUser(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Roles returns the roles a staff member holds in the active tenant
func (h *UserHandler) Roles(c *gin.Context) {
	userID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	roles, err := h.users.RolesOf(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, roles)
}

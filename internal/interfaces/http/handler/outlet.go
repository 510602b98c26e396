package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apppos "github.com/possuite/backend/internal/application/pos"
	"github.com/possuite/backend/internal/domain/pos"
	"github.com/possuite/backend/internal/interfaces/http/dto"
)

// OutletHandler handles outlet management
type OutletHandler struct {
	BaseHandler
	outlets   *apppos.OutletService
	registers *apppos.RegisterService
}

// NewOutletHandler creates a new outlet handler
func NewOutletHandler(outlets *apppos.OutletService, registers *apppos.RegisterService) *OutletHandler {
	return &OutletHandler{outlets: outlets, registers: registers}
}

// RegisterRoutes registers outlet routes, with registers nested under their
// outlet
func (h *OutletHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/outlets")
	{
		group.POST("", h.Create)
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
		group.GET("/:id/registers", h.ListRegisters)
		group.POST("/:id/registers", h.CreateRegister)
	}

	registers := rg.Group("/registers")
	{
		registers.GET("/:id", h.GetRegister)
		registers.PUT("/:id", h.RenameRegister)
		registers.DELETE("/:id", h.DeleteRegister)
	}
}

type createOutletRequest struct {
	Code    string `json:"code" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Mode    string `json:"mode"`
}

// Create opens a new outlet in the active tenant
func (h *OutletHandler) Create(c *gin.Context) {
	var req createOutletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	outlet, err := h.outlets.CreateOutlet(c.Request.Context(), apppos.CreateOutletInput{
		Code:    req.Code,
		Name:    req.Name,
		Address: req.Address,
		Mode:    pos.OutletMode(req.Mode),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, outlet)
}

// List returns the active tenant's outlets
func (h *OutletHandler) List(c *gin.Context) {
	var list dto.ListRequest
	if err := c.ShouldBindQuery(&list); err != nil {
		h.BindError(c, err)
		return
	}
	list.Normalize()

	outlets, err := h.outlets.ListOutlets(c.Request.Context(), list.PageSize, list.Offset())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, outlets)
}

// Get returns one outlet
func (h *OutletHandler) Get(c *gin.Context) {
	outletID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid outlet ID")
		return
	}

	outlet, err := h.outlets.GetOutlet(c.Request.Context(), outletID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, outlet)
}

type updateOutletRequest struct {
	Name     string            `json:"name"`
	Address  string            `json:"address"`
	Mode     string            `json:"mode"`
	Settings map[string]string `json:"settings"`
}

// Update modifies outlet profile and settings
func (h *OutletHandler) Update(c *gin.Context) {
	outletID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid outlet ID")
		return
	}

	var req updateOutletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	outlet, err := h.outlets.UpdateOutlet(c.Request.Context(), outletID, apppos.UpdateOutletInput{
		Name:     req.Name,
		Address:  req.Address,
		Mode:     pos.OutletMode(req.Mode),
		Settings: req.Settings,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, outlet)
}

// Delete removes an outlet once it has no registers
func (h *OutletHandler) Delete(c *gin.Context) {
	outletID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid outlet ID")
		return
	}

	if err := h.outlets.DeleteOutlet(c.Request.Context(), outletID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

type createRegisterRequest struct {
	Name             string     `json:"name" binding:"required"`
	PrinterProfileID *uuid.UUID `json:"printer_profile_id"`
}

// CreateRegister adds a till to an outlet
func (h *OutletHandler) CreateRegister(c *gin.Context) {
	outletID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid outlet ID")
		return
	}

	var req createRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	register, err := h.registers.CreateRegister(c.Request.Context(), apppos.CreateRegisterInput{
		OutletID:         outletID,
		Name:             req.Name,
		PrinterProfileID: req.PrinterProfileID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, register)
}

// ListRegisters returns an outlet's tills
func (h *OutletHandler) ListRegisters(c *gin.Context) {
	outletID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid outlet ID")
		return
	}

	registers, err := h.registers.ListRegisters(c.Request.Context(), outletID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, registers)
}

// GetRegister returns one till
func (h *OutletHandler) GetRegister(c *gin.Context) {
	registerID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid register ID")
		return
	}

	register, err := h.registers.GetRegister(c.Request.Context(), registerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, register)
}

type renameRegisterRequest struct {
	Name string `json:"name" binding:"required"`
}

// RenameRegister renames a till
func (h *OutletHandler) RenameRegister(c *gin.Context) {
	registerID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid register ID")
		return
	}

	var req renameRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	register, err := h.registers.RenameRegister(c.Request.Context(), registerID, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, register)
}

// DeleteRegister removes a till
func (h *OutletHandler) DeleteRegister(c *gin.Context) {
	registerID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid register ID")
		return
	}

	if err := h.registers.DeleteRegister(c.Request.Context(), registerID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

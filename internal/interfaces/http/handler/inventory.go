package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apppos "github.com/possuite/backend/internal/application/pos"
	"github.com/possuite/backend/internal/interfaces/http/dto"
)

// InventoryHandler handles per-outlet stock endpoints
type InventoryHandler struct {
	BaseHandler
	inventory *apppos.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventory *apppos.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// RegisterRoutes registers inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/inventory")
	{
		group.POST("/adjust", h.Adjust)
		group.PUT("/safety-stock", h.SetSafetyStock)
		group.GET("/outlets/:id", h.ListByOutlet)
		group.GET("/outlets/:id/low-stock", h.LowStock)
		group.GET("/stock", h.Stock)
	}
}

type adjustStockRequest struct {
	VariantID uuid.UUID `json:"variant_id" binding:"required"`
	OutletID  uuid.UUID `json:"outlet_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required"`
	Reason    string    `json:"reason" binding:"required"`
}

// Adjust applies a manual stock correction through the policy gates
func (h *InventoryHandler) Adjust(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	inv, err := h.inventory.AdjustStock(c.Request.Context(), userID, apppos.AdjustStockInput{
		VariantID: req.VariantID,
		OutletID:  req.OutletID,
		Quantity:  req.Quantity,
		Reason:    req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

type safetyStockRequest struct {
	VariantID uuid.UUID `json:"variant_id" binding:"required"`
	OutletID  uuid.UUID `json:"outlet_id" binding:"required"`
	Level     int       `json:"level" binding:"min=0"`
}

// SetSafetyStock sets the low-stock threshold for a variant at an outlet
func (h *InventoryHandler) SetSafetyStock(c *gin.Context) {
	var req safetyStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	inv, err := h.inventory.SetSafetyStock(c.Request.Context(), req.VariantID, req.OutletID, req.Level)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// ListByOutlet returns an outlet's stock records
func (h *InventoryHandler) ListByOutlet(c *gin.Context) {
	outletID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid outlet ID")
		return
	}

	var list dto.ListRequest
	if err := c.ShouldBindQuery(&list); err != nil {
		h.BindError(c, err)
		return
	}
	list.Normalize()

	records, err := h.inventory.ListByOutlet(c.Request.Context(), outletID, list.PageSize, list.Offset())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}

// LowStock returns records at or below their safety level
func (h *InventoryHandler) LowStock(c *gin.Context) {
	outletID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid outlet ID")
		return
	}

	records, err := h.inventory.LowStock(c.Request.Context(), outletID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}

// Stock returns the stock record for one variant at one outlet, addressed
// by query parameters
func (h *InventoryHandler) Stock(c *gin.Context) {
	variantID, err := uuid.Parse(c.Query("variant_id"))
	if err != nil {
		h.BadRequest(c, "Invalid variant_id")
		return
	}
	outletID, err := uuid.Parse(c.Query("outlet_id"))
	if err != nil {
		h.BadRequest(c, "Invalid outlet_id")
		return
	}

	inv, err := h.inventory.StockOf(c.Request.Context(), variantID, outletID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

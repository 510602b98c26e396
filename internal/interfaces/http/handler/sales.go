package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apppos "github.com/possuite/backend/internal/application/pos"
)

// SalesHandler handles counter operations that pass through the policy
// gates
type SalesHandler struct {
	BaseHandler
	sales *apppos.SalesService
}

// NewSalesHandler creates a new sales handler
func NewSalesHandler(sales *apppos.SalesService) *SalesHandler {
	return &SalesHandler{sales: sales}
}

// RegisterRoutes registers sales routes
func (h *SalesHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/sales")
	{
		group.POST("", h.ProcessSale)
		group.POST("/returns", h.ProcessReturn)
		group.POST("/void", h.VoidSale)
		group.POST("/discounts", h.ApproveDiscount)
		group.POST("/cash-variance", h.RecordCashVariance)
		group.GET("/opening-float", h.OpeningFloat)
	}
}

type saleLineRequest struct {
	VariantID uuid.UUID `json:"variant_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

type processSaleRequest struct {
	OutletID uuid.UUID         `json:"outlet_id" binding:"required"`
	Lines    []saleLineRequest `json:"lines" binding:"required,min=1"`
	Total    decimal.Decimal   `json:"total" binding:"required"`
}

// ProcessSale runs a sale through the compound sale gate and decrements
// stock
func (h *SalesHandler) ProcessSale(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req processSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	input := apppos.ProcessSaleInput{
		OutletID: req.OutletID,
		Total:    req.Total,
	}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, apppos.SaleLine{
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
		})
	}

	result, err := h.sales.ProcessSale(c.Request.Context(), userID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

type processReturnRequest struct {
	OutletID uuid.UUID         `json:"outlet_id" binding:"required"`
	Lines    []saleLineRequest `json:"lines" binding:"required,min=1"`
	Amount   decimal.Decimal   `json:"amount" binding:"required"`
}

// ProcessReturn runs a return through the return gate and restocks
func (h *SalesHandler) ProcessReturn(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req processReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	input := apppos.ProcessReturnInput{
		OutletID: req.OutletID,
		Amount:   req.Amount,
	}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, apppos.SaleLine{
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
		})
	}

	result, err := h.sales.ProcessReturn(c.Request.Context(), userID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// VoidSale checks whether the caller may void a completed sale
func (h *SalesHandler) VoidSale(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.sales.VoidSale(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"allowed": true})
}

type discountRequest struct {
	Percentage float64 `json:"percentage" binding:"min=0,max=100"`
}

// ApproveDiscount checks a discount percentage against the caller's cap
func (h *SalesHandler) ApproveDiscount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req discountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.sales.ApproveDiscount(c.Request.Context(), userID, apppos.DiscountInput{
		Percentage: req.Percentage,
	}); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"allowed": true})
}

type cashVarianceRequest struct {
	Variance decimal.Decimal `json:"variance"`
}

// RecordCashVariance checks a drawer variance against the tolerated band
func (h *SalesHandler) RecordCashVariance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req cashVarianceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.sales.RecordCashVariance(c.Request.Context(), userID, apppos.CashVarianceInput{
		Variance: req.Variance,
	}); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"accepted": true})
}

// OpeningFloat reports whether a float must be recorded when opening a
// shift
func (h *SalesHandler) OpeningFloat(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	required, err := h.sales.OpeningFloatRequired(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"required": required})
}

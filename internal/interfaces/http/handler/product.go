package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apppos "github.com/possuite/backend/internal/application/pos"
	"github.com/possuite/backend/internal/domain/pos"
	"github.com/possuite/backend/internal/interfaces/http/dto"
)

// ProductHandler handles the product catalogue
type ProductHandler struct {
	BaseHandler
	products *apppos.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(products *apppos.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// RegisterRoutes registers product and variant routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/products")
	{
		group.POST("", h.Create)
		group.GET("", h.List)
		group.GET("/barcode/:barcode", h.LookupBarcode)
		group.GET("/:id", h.Get)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
		group.POST("/:id/archive", h.Archive)
		group.POST("/:id/activate", h.Activate)
		group.POST("/:id/variants", h.AddVariant)
	}

	variants := rg.Group("/variants")
	{
		variants.PUT("/:id/barcode", h.UpdateBarcode)
		variants.DELETE("/:id", h.DeleteVariant)
	}
}

type variantRequest struct {
	Code          string           `json:"code" binding:"required"`
	Name          string           `json:"name" binding:"required"`
	Barcode       string           `json:"barcode"`
	PriceOverride *decimal.Decimal `json:"price_override"`
}

type createProductRequest struct {
	SKU         string           `json:"sku" binding:"required"`
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	TaxRate     decimal.Decimal  `json:"tax_rate"`
	PriceIncl   decimal.Decimal  `json:"price_incl"`
	Variants    []variantRequest `json:"variants"`
}

// Create lists a product with its variants
func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	input := apppos.CreateProductInput{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		TaxRate:     req.TaxRate,
		PriceIncl:   req.PriceIncl,
	}
	for _, v := range req.Variants {
		input.Variants = append(input.Variants, apppos.VariantInput{
			Code:          v.Code,
			Name:          v.Name,
			Barcode:       v.Barcode,
			PriceOverride: v.PriceOverride,
		})
	}

	product, err := h.products.CreateProduct(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// List returns the active tenant's products, optionally filtered by status
func (h *ProductHandler) List(c *gin.Context) {
	var list dto.ListRequest
	if err := c.ShouldBindQuery(&list); err != nil {
		h.BindError(c, err)
		return
	}
	list.Normalize()

	status := pos.ProductStatus(c.Query("status"))
	products, err := h.products.ListProducts(c.Request.Context(), status, list.PageSize, list.Offset())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// Get returns one product with its variants
func (h *ProductHandler) Get(c *gin.Context) {
	productID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.products.GetProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

type updateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	PriceIncl   decimal.Decimal `json:"price_incl"`
}

// Update modifies product profile and pricing
func (h *ProductHandler) Update(c *gin.Context) {
	productID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.products.UpdateProduct(c.Request.Context(), productID, apppos.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		TaxRate:     req.TaxRate,
		PriceIncl:   req.PriceIncl,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete removes a product and its variants
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.products.DeleteProduct(c.Request.Context(), productID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Archive takes a product off sale
func (h *ProductHandler) Archive(c *gin.Context) {
	h.flip(c, h.products.ArchiveProduct)
}

// Activate puts a product back on sale
func (h *ProductHandler) Activate(c *gin.Context) {
	h.flip(c, h.products.ActivateProduct)
}

func (h *ProductHandler) flip(c *gin.Context, op func(ctx context.Context, id uuid.UUID) (*pos.Product, error)) {
	productID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := op(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// AddVariant appends a variant to an existing product
func (h *ProductHandler) AddVariant(c *gin.Context) {
	productID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req variantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	variant, err := h.products.AddVariant(c.Request.Context(), productID, apppos.VariantInput{
		Code:          req.Code,
		Name:          req.Name,
		Barcode:       req.Barcode,
		PriceOverride: req.PriceOverride,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, variant)
}

type updateBarcodeRequest struct {
	Barcode string `json:"barcode" binding:"required"`
}

// UpdateBarcode changes a variant's barcode, keeping the global uniqueness
// guarantee
func (h *ProductHandler) UpdateBarcode(c *gin.Context) {
	variantID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid variant ID")
		return
	}

	var req updateBarcodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	variant, err := h.products.UpdateVariantBarcode(c.Request.Context(), variantID, req.Barcode)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, variant)
}

// DeleteVariant removes a variant
func (h *ProductHandler) DeleteVariant(c *gin.Context) {
	variantID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid variant ID")
		return
	}

	if err := h.products.DeleteVariant(c.Request.Context(), variantID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// LookupBarcode resolves a scanned barcode to a variant and its product
// within the active tenant
func (h *ProductHandler) LookupBarcode(c *gin.Context) {
	barcode := c.Param("barcode")
	if barcode == "" {
		h.BadRequest(c, "Missing barcode")
		return
	}

	variant, product, err := h.products.LookupByBarcode(c.Request.Context(), barcode)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"variant": variant, "product": product})
}

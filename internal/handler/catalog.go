package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"posguard/internal/apierror"
	"posguard/internal/catalog"
	"posguard/internal/dto"
	"posguard/internal/model"
	"posguard/internal/repository"
)

type CatalogHandler struct {
	catalog *catalog.Service
	repo    repository.ProductRepository
}

func NewCatalogHandler(cat *catalog.Service, repo repository.ProductRepository) *CatalogHandler {
	return &CatalogHandler{catalog: cat, repo: repo}
}

// ListProducts godoc
// @Summary      List catalog products
// @Description  Cost and margin are omitted unless the active cashier may see them.
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.ProductListResponse
// @Router       /v1/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list products"))
		return
	}
	showCost := activeCapabilities(c).SeeCostMargin.Allows()
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, productToResponse(&products[i], showCost))
	}
	c.JSON(http.StatusOK, dto.ProductListResponse{Data: out})
}

// CreateProduct godoc
// @Summary      Create a catalog product
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateProductRequest true "Product"
// @Success      201  {object} dto.ProductResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/products [post]
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	qty := req.DefaultQty
	if qty.IsZero() {
		qty = decimal.NewFromInt(1)
	}
	p := &model.Product{
		Barcode:     req.Barcode,
		Name:        req.Name,
		Cost:        req.Cost,
		ListPrice:   req.ListPrice,
		DefaultQty:  qty,
		Preselected: req.Preselected,
		Active:      true,
	}
	if err := h.repo.Create(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	showCost := activeCapabilities(c).SeeCostMargin.Allows()
	c.JSON(http.StatusCreated, productToResponse(p, showCost))
}

// SetPreselected godoc
// @Summary      Flag or unflag a product as preselected
// @Description  Preselected products are auto-added as lines to every newly created order. Invalidates the seeder snapshot cache.
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                    true "Product UUID"
// @Param        body body dto.SetPreselectedRequest true "Flag"
// @Success      204
// @Failure      400  {object} apierror.APIError
// @Router       /v1/products/{id}/preselected [patch]
func (h *CatalogHandler) SetPreselected(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.SetPreselectedRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.catalog.SetPreselected(c.Request.Context(), id, *req.Preselected); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// PriceCheck godoc
// @Summary      Price check by barcode
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        barcode path string true "Barcode"
// @Success      200 {object} dto.PriceCheckResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/price/{barcode} [get]
func (h *CatalogHandler) PriceCheck(c *gin.Context) {
	product, err := h.catalog.ByBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Product not found"))
		return
	}
	c.JSON(http.StatusOK, dto.PriceCheckResponse{
		Name:      product.Name,
		ListPrice: product.ListPrice,
	})
}

func productToResponse(p *model.Product, showCost bool) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:          p.ID.String(),
		Barcode:     p.Barcode,
		Name:        p.Name,
		ListPrice:   p.ListPrice,
		DefaultQty:  p.DefaultQty,
		Preselected: p.Preselected,
	}
	if showCost {
		cost := p.Cost
		margin := p.Margin()
		resp.Cost = &cost
		resp.MarginPct = &margin
	}
	return resp
}

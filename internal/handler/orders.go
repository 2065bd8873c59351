package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"posguard/internal/apierror"
	"posguard/internal/dto"
	"posguard/internal/middleware"
	"posguard/internal/policy"
	"posguard/internal/service"
)

type OrdersHandler struct{ svc service.OrderService }

func NewOrdersHandler(svc service.OrderService) *OrdersHandler { return &OrdersHandler{svc: svc} }

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// Create godoc
// @Summary      Create an order
// @Description  Opens a new order; preselected catalog products are seeded as lines before the order is returned.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      201 {object} dto.OrderResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/orders [post]
func (h *OrdersHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)
	cashierID, _ := uuid.Parse(claims.CashierID)
	resp, err := h.svc.Create(c.Request.Context(), cashierID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListOpen godoc
// @Summary      List open orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.OrderListResponse
// @Router       /v1/orders [get]
func (h *OrdersHandler) ListOpen(c *gin.Context) {
	resp, err := h.svc.ListOpen(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get an order (open or finalized)
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order UUID"
// @Success      200 {object} dto.OrderResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/orders/{id} [get]
func (h *OrdersHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddLine godoc
// @Summary      Add a product line (scan)
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string              true "Order UUID"
// @Param        body body dto.AddLineRequest  true "Product to add"
// @Success      200  {object} dto.OrderResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/orders/{id}/lines [post]
func (h *OrdersHandler) AddLine(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AddLineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddLine(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateLine godoc
// @Summary      Edit a line field (quantity / discount / price)
// @Description  Guarded by the active cashier's capability record. A backspace quantity edit may remove the whole line when quantity changes are denied but removal is allowed.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path string                true "Order UUID"
// @Param        lineID path string                true "Line UUID"
// @Param        body   body dto.UpdateLineRequest true "Edit"
// @Success      200    {object} dto.OrderResponse
// @Failure      403    {object} apierror.PolicyDenial
// @Router       /v1/orders/{id}/lines/{lineID} [patch]
func (h *OrdersHandler) UpdateLine(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	lineID, ok := pathID(c, "lineID")
	if !ok {
		return
	}
	var req dto.UpdateLineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateLine(c.Request.Context(), activeCapabilities(c), id, lineID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RemoveLine godoc
// @Summary      Remove a line
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id     path string true "Order UUID"
// @Param        lineID path string true "Line UUID"
// @Success      200    {object} dto.OrderResponse
// @Failure      403    {object} apierror.PolicyDenial
// @Router       /v1/orders/{id}/lines/{lineID} [delete]
func (h *OrdersHandler) RemoveLine(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	lineID, ok := pathID(c, "lineID")
	if !ok {
		return
	}
	resp, err := h.svc.RemoveLine(c.Request.Context(), activeCapabilities(c), id, lineID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SetCustomer godoc
// @Summary      Attach a customer to an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "Order UUID"
// @Param        body body dto.SetCustomerRequest true "Customer"
// @Success      200  {object} dto.OrderResponse
// @Router       /v1/orders/{id}/customer [put]
func (h *OrdersHandler) SetCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.SetCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	customerID, _ := uuid.Parse(req.CustomerID)
	resp, err := h.svc.SetCustomer(c.Request.Context(), id, customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SelectSalesperson godoc
// @Summary      Bind a salesperson through the selection flow
// @Description  Refused once the order carries refund lines; the denial names the currently bound salesperson.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                       true "Order UUID"
// @Param        body body dto.SelectSalespersonRequest true "Salesperson"
// @Success      200  {object} dto.OrderResponse
// @Failure      403  {object} apierror.PolicyDenial
// @Router       /v1/orders/{id}/salesperson [put]
func (h *OrdersHandler) SelectSalesperson(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.SelectSalespersonRequest
	if !bindAndValidate(c, &req) {
		return
	}
	salespersonID, _ := uuid.Parse(req.SalespersonID)
	resp, err := h.svc.SelectSalesperson(c.Request.Context(), id, salespersonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refund godoc
// @Summary      Route a refund into a destination order
// @Description  Destination: the provided open order when its customer matches and mixing is allowed, else the first matching empty order, else a fresh order. The source's salesperson is bound onto the destination only if it has none.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string            true "Source order UUID"
// @Param        body body dto.RefundRequest true "Lines to refund"
// @Success      200  {object} dto.OrderResponse
// @Failure      403  {object} apierror.PolicyDenial
// @Router       /v1/orders/{id}/refund [post]
func (h *OrdersHandler) Refund(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.RefundRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	cashierID, _ := uuid.Parse(claims.CashierID)
	resp, err := h.svc.Refund(c.Request.Context(), activeCapabilities(c), cashierID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Finalize godoc
// @Summary      Finalize an order
// @Description  Validates the mandatory-salesperson policy, attaches payment references, hands the order to the sync layer, and removes it from the open set.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string              true "Order UUID"
// @Param        body body dto.FinalizeRequest true "Payment references"
// @Success      200  {object} dto.OrderResponse
// @Failure      403  {object} apierror.PolicyDenial
// @Router       /v1/orders/{id}/finalize [post]
func (h *OrdersHandler) Finalize(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.FinalizeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Finalize(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ReceiptHeader godoc
// @Summary      Receipt header payload
// @Description  The salesperson field is null when the order has no bound salesperson.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order UUID"
// @Success      200 {object} dto.ReceiptHeaderResponse
// @Router       /v1/orders/{id}/receipt-header [get]
func (h *OrdersHandler) ReceiptHeader(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ReceiptHeader(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Numpad godoc
// @Summary      Disabled numpad buttons for the active cashier
// @Description  The predicates mirror authorize exactly so UI state and policy cannot diverge.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.NumpadResponse
// @Router       /v1/numpad [get]
func (h *OrdersHandler) Numpad(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NumpadResponse{
		Disabled: policy.NumpadDisabled(activeCapabilities(c)),
	})
}

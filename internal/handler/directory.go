package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"posguard/internal/apierror"
	"posguard/internal/dto"
	"posguard/internal/model"
	"posguard/internal/repository"
)

// DirectoryHandler serves the identity lookups the register needs:
// selectable salespersons for the selection flow and customers for order
// attachment.
type DirectoryHandler struct {
	salespersons repository.SalespersonRepository
	customers    repository.CustomerRepository
}

func NewDirectoryHandler(sp repository.SalespersonRepository, cu repository.CustomerRepository) *DirectoryHandler {
	return &DirectoryHandler{salespersons: sp, customers: cu}
}

// ListSalespersons godoc
// @Summary      Selectable salespersons, in selection-list order
// @Tags         directory
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.SalespersonResponse
// @Router       /v1/salespersons [get]
func (h *DirectoryHandler) ListSalespersons(c *gin.Context) {
	sps, err := h.salespersons.ListSelectable(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list salespersons"))
		return
	}
	out := make([]dto.SalespersonResponse, 0, len(sps))
	for i := range sps {
		out = append(out, dto.SalespersonResponse{ID: sps[i].ID.String(), Name: sps[i].Name})
	}
	c.JSON(http.StatusOK, out)
}

// CreateCustomer godoc
// @Summary      Create a customer
// @Tags         directory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateCustomerRequest true "Customer"
// @Success      201  {object} dto.CustomerResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/customers [post]
func (h *DirectoryHandler) CreateCustomer(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	customer := &model.Customer{Name: req.Name, Phone: req.Phone, Email: req.Email}
	if err := h.customers.Create(c.Request.Context(), customer); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, customerToResponse(customer))
}

// ListCustomers godoc
// @Summary      List customers
// @Tags         directory
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.CustomerResponse
// @Router       /v1/customers [get]
func (h *DirectoryHandler) ListCustomers(c *gin.Context) {
	customers, err := h.customers.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list customers"))
		return
	}
	out := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, customerToResponse(&customers[i]))
	}
	c.JSON(http.StatusOK, out)
}

func customerToResponse(c *model.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:    c.ID.String(),
		Name:  c.Name,
		Phone: c.Phone,
		Email: c.Email,
	}
}

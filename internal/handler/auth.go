package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"posguard/internal/apierror"
	"posguard/internal/dto"
	"posguard/internal/service"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary      Cashier login
// @Description  Authenticates a cashier and returns a token carrying the capability record resolved at this moment.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.LoginRequest true "Credentials"
// @Success      200  {object} dto.LoginResponse
// @Failure      401  {object} apierror.APIError
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Switch godoc
// @Summary      Cashier switch
// @Description  Re-authenticates as another cashier; the returned token carries the new capability record.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.SwitchRequest true "Target cashier credentials"
// @Success      200  {object} dto.LoginResponse
// @Failure      401  {object} apierror.APIError
// @Router       /v1/auth/switch [post]
func (h *AuthHandler) Switch(c *gin.Context) {
	var req dto.SwitchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Switch(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListCashiers godoc
// @Summary      List active cashiers for the switch screen
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.CashierResponse
// @Router       /v1/cashiers [get]
func (h *AuthHandler) ListCashiers(c *gin.Context) {
	cashiers, err := h.svc.ListCashiers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list cashiers"))
		return
	}
	c.JSON(http.StatusOK, cashiers)
}

package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"posguard/internal/apierror"
	"posguard/internal/capability"
	"posguard/internal/middleware"
	"posguard/internal/policy"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags
	// like min=0, gt=0, required work without panicking.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds the JSON body and runs validator tags. Returns false
// and writes the error response if validation fails — the caller should
// return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// activeCapabilities resolves the capability record captured in the token at
// login / cashier switch. One resolution point per request keeps the numpad
// predicates and authorize decisions aligned.
func activeCapabilities(c *gin.Context) capability.Record {
	return capability.Resolve(middleware.GetClaims(c).Capabilities)
}

// respondError maps service failures: policy denials become 403 with the
// denial envelope (the client renders a blocking dialog and discards the
// attempted mutation), everything else is a 400.
func respondError(c *gin.Context, err error) {
	var denied *policy.DeniedError
	if errors.As(err, &denied) {
		c.JSON(http.StatusForbidden, apierror.NewDenial(denied.Title, denied.Body))
		return
	}
	c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
}

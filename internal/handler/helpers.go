package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/Fer-Psy/tr4cking/internal/apierror"
	"github.com/Fer-Psy/tr4cking/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails; the
// caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
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

// respondServiceError translates service-layer errors into HTTP statuses:
// state conflicts → 409, business-rule rejections → 422, ownership
// violations → 403, missing records → 404, anything else → 400.
func respondServiceError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, service.ErrCajaYaAbierta),
		errors.Is(err, service.ErrCajaYaCerrada),
		errors.Is(err, service.ErrFacturaAnulada),
		errors.Is(err, service.ErrAsientoOcupado):
		status = http.StatusConflict
	case errors.Is(err, service.ErrSinTimbrado),
		errors.Is(err, service.ErrTimbradoNoVigente),
		errors.Is(err, service.ErrSecuenciaAgotada),
		errors.Is(err, service.ErrFacturaVacia),
		errors.Is(err, service.ErrCajaNoAbierta),
		errors.Is(err, service.ErrAsientoInvalido):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrSesionAjena):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrPersonaNoRegistrada),
		errors.Is(err, gorm.ErrRecordNotFound):
		status = http.StatusNotFound
	}
	c.JSON(status, apierror.New(err.Error()))
}

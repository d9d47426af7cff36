package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/chanaka-devx/L-essence/internal/service"
)

// RequestValidator adapts validator/v10 to echo.Validator.  Failures come
// back as service.ValidationError listing the json names of the offending
// fields.
type RequestValidator struct {
	v *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &RequestValidator{v: v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return service.ValidationError{Fields: fields}
}

// bindAndValidate decodes the body into dst and runs the registered
// validator.  Errors are already in the service taxonomy.
func bindAndValidate(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return service.ValidationError{Msg: "invalid body"}
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(dst)
}

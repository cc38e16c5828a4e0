// Package validator adapts go-playground/validator to Echo's Validator hook.
package validator

import (
	"net/http"

	playground "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type customValidator struct {
	validate *playground.Validate
}

// New builds the request validator installed on the Echo server.
func New() echo.Validator {
	return &customValidator{validate: playground.New()}
}

// Validate runs struct tag validation and maps failures to a 400 response.
func (v *customValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return nil
}

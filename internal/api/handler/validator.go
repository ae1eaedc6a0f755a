package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/userhub/accounts-api/internal/core/domain"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// It knows the account_email tag in addition to the built-in ones.
func NewValidator() *echoValidator {
	v := validator.New()
	_ = v.RegisterValidation("account_email", func(fl validator.FieldLevel) bool {
		return domain.ValidEmail(fl.Field().String())
	})
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Failures come back as
// domain validation errors; a missing field wins over a malformed one.
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return err
	}
	for _, fe := range ve {
		if fe.Tag() == "required" {
			return domain.ErrMissingData
		}
	}
	return domain.NewError(domain.ErrValidation, fieldError(ve[0]))
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	if fe.Tag() == "account_email" {
		return "Invalid email"
	}
	return fmt.Sprintf("%s failed validation (%s)", strings.ToLower(fe.Field()), fe.Tag())
}

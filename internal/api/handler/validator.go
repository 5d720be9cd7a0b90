package handler

import (
	"github.com/go-playground/validator/v10"

	"github.com/kanbanly/kanban-web/internal/pkg/validation"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator with the form rules registered.
func NewValidator() *echoValidator {
	return &echoValidator{v: validation.New()}
}

// Validate satisfies the echo.Validator interface. Failures unwrap to
// domain.ErrValidation.
func (ev *echoValidator) Validate(i any) error {
	return validation.Struct(ev.v, i)
}

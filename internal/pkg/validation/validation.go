// Package validation holds the client-side form rules checked before any
// request leaves the process.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/kanbanly/kanban-web/internal/core/domain"
)

const minPasswordLen = 8

// New returns a validator with the "password" and "notblank" rules registered.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("password", validPassword)
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Struct validates i and converts failures into a *domain.ValidationError.
func Struct(v *validator.Validate, i any) error {
	err := v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	fields := make(map[string]string, len(ve))
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		m := fieldError(fe)
		fields[strings.ToLower(fe.Field())] = m
		msgs = append(msgs, m)
	}
	return domain.NewValidationError(strings.Join(msgs, "; "), fields)
}

// validPassword requires at least eight characters, one upper-case letter and one digit.
func validPassword(fl validator.FieldLevel) bool {
	return PasswordProblem(fl.Field().String()) == ""
}

// PasswordProblem returns the first unmet password rule, or "" when the password is acceptable.
func PasswordProblem(pw string) string {
	if len(pw) < minPasswordLen {
		return fmt.Sprintf("must be at least %d characters", minPasswordLen)
	}
	var upper, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper {
		return "must contain an upper-case letter"
	}
	if !digit {
		return "must contain a digit"
	}
	return ""
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "password":
		return field + " " + PasswordProblem(fmt.Sprint(fe.Value()))
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, strings.ToLower(fe.Param()))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

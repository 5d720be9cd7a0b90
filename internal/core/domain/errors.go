package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("access forbidden")
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("resource conflict")
	ErrBadRequest   = errors.New("request rejected by server")
	ErrServer       = errors.New("server error")
	ErrNetwork      = errors.New("backend unreachable")
	ErrStorage      = errors.New("session storage failure")
	ErrClosed       = errors.New("controller closed")
)

// APIError is the typed failure returned for every non-2xx backend response.
type APIError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// Unwrap maps the status onto the sentinel errors so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return ErrForbidden
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status == http.StatusConflict:
		return ErrConflict
	case e.Status >= 500:
		return ErrServer
	default:
		return ErrBadRequest
	}
}

// ValidationError carries the field messages of a locally rejected input.
type ValidationError struct {
	Fields map[string]string
	msg    string
}

func NewValidationError(msg string, fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields, msg: msg}
}

func (e *ValidationError) Error() string { return e.msg }

func (e *ValidationError) Unwrap() error { return ErrValidation }

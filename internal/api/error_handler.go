package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kanbanly/kanban-web/internal/api/handler"
	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/ports"
	"github.com/kanbanly/kanban-web/internal/core/service"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Sends browsers to the login or not-authorized view on authentication
//     and authorization failures; JSON clients get 401/403.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger, notifier ports.Notifier) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if !handler.WantsJSON(c) {
			switch {
			case errors.Is(err, domain.ErrUnauthorized):
				notifier.Error("please log in to continue")
				_ = c.Redirect(http.StatusSeeOther, service.LoginPath)
				return
			case errors.Is(err, domain.ErrForbidden):
				_ = c.Redirect(http.StatusSeeOther, service.NotAuthorizedPath)
				return
			}
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, handler.ErrorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	code := handler.Status(err)
	switch {
	case errors.Is(err, domain.ErrValidation):
		return code, err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return code, "authentication required"
	case errors.Is(err, domain.ErrForbidden):
		return code, "access forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return code, "resource not found"
	case errors.Is(err, domain.ErrConflict):
		return code, "resource conflict"
	case errors.Is(err, domain.ErrNetwork), errors.Is(err, domain.ErrServer):
		log.Warn().Err(err).Str("path", c.Path()).Msg("backend unavailable")
		return code, "the Kanban service is unavailable"
	case errors.Is(err, domain.ErrClosed):
		return code, "the service is shutting down"
	case code < http.StatusInternalServerError:
		return code, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

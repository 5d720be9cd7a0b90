package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kanbanly/kanban-web/internal/api/handler"
	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/service"
)

// Guard runs the Route Guard before every request of the group it is
// attached to. required == domain.RoleNone admits any session.
//
// Browsers are redirected with 303 See Other so the guarded URL does not stay
// in history; JSON clients get the error envelope instead.
func Guard(g *service.Guard, required domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d := g.Evaluate(c.Request().Context(), required)
			switch d.State {
			case service.StateLoading:
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusServiceUnavailable, handler.ErrorResponse{Error: "session is loading"})
			case service.StateUnauthorized:
				return reject(c, http.StatusUnauthorized, d.Redirect, "authentication required")
			case service.StateForbidden:
				c.Set(handler.SessionKey, d.Session)
				return reject(c, http.StatusForbidden, d.Redirect, "access forbidden")
			}
			c.Set(handler.SessionKey, d.Session)
			return next(c)
		}
	}
}

func reject(c echo.Context, code int, redirect, msg string) error {
	if handler.WantsJSON(c) || redirect == "" {
		return c.JSON(code, handler.ErrorResponse{Error: msg})
	}
	return c.Redirect(http.StatusSeeOther, redirect)
}

package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/ports"
)

// SessionKey is the echo context key under which the guard stores the
// session it authorized.
const SessionKey = "session"

// Flash is the notification queue rendered with every view.
type Flash interface {
	ports.Notifier
	Drain() []domain.Notice
}

// viewResponse is the envelope of every rendered view.
type viewResponse struct {
	View          string          `json:"view"`
	Items         any             `json:"items,omitempty"`
	Session       *sessionView    `json:"session,omitempty"`
	Notifications []domain.Notice `json:"notifications"`
}

type sessionView struct {
	Authenticated bool         `json:"authenticated"`
	Role          domain.Role  `json:"role,omitempty"`
	User          *domain.User `json:"user,omitempty"`
}

// Renderer writes views together with the pending notifications.
type Renderer struct {
	flash Flash
}

func NewRenderer(flash Flash) *Renderer {
	return &Renderer{flash: flash}
}

// View renders name with items and drains the notification queue.
func (r *Renderer) View(c echo.Context, code int, name string, items any) error {
	resp := viewResponse{View: name, Items: items, Notifications: r.flash.Drain()}
	if s, ok := c.Get(SessionKey).(domain.Session); ok {
		resp.Session = newSessionView(s)
	}
	return c.JSON(code, resp)
}

// Result renders the outcome of a controller call. Authentication and
// authorization failures go to the error handler; any other failure keeps
// the previous items on screen with the matching status.
func (r *Renderer) Result(c echo.Context, ok int, name string, items any, err error) error {
	if err == nil {
		return r.View(c, ok, name, items)
	}
	if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrForbidden) {
		return err
	}
	return r.View(c, Status(err), name, items)
}

// Navigate sends browsers to path and JSON clients the view.
func (r *Renderer) Navigate(c echo.Context, path, name string, items any) error {
	if WantsJSON(c) {
		return r.View(c, http.StatusOK, name, items)
	}
	return c.Redirect(http.StatusSeeOther, path)
}

// Notify exposes the queue to handlers that report outcomes themselves.
func (r *Renderer) Notify() ports.Notifier { return r.flash }

func newSessionView(s domain.Session) *sessionView {
	return &sessionView{Authenticated: s.Authenticated(), Role: s.Role(), User: s.User}
}

// WantsJSON reports whether the caller asked for JSON rather than an HTML
// navigation.
func WantsJSON(c echo.Context) bool {
	req := c.Request()
	accept := req.Header.Get(echo.HeaderAccept)
	if strings.Contains(accept, echo.MIMEApplicationJSON) {
		return true
	}
	if strings.Contains(accept, echo.MIMETextHTML) {
		return false
	}
	return req.Header.Get("X-Requested-With") == "XMLHttpRequest" ||
		strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
}

// Status maps an error onto the HTTP status rendered for it.
func Status(err error) int {
	var he *echo.HTTPError
	var apiErr *domain.APIError
	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.As(err, &apiErr) && apiErr.Status < 500:
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNetwork), errors.Is(err, domain.ErrServer):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// pathID reads a positive numeric path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// ErrorResponse is the canonical error envelope for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

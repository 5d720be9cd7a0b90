package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kanbanly/kanban-web/internal/core/domain"
)

// AdminViews is the slice of the admin service the handlers drive.
type AdminViews interface {
	Dashboard(ctx context.Context) (domain.AdminDashboard, error)
	Workspaces(ctx context.Context) ([]domain.Workspace, error)
	Roles(ctx context.Context) ([]domain.RoleDefinition, error)
	Logs(ctx context.Context, filter domain.LogFilter) ([]domain.LogEntry, error)
}

type AdminHandler struct {
	admin  AdminViews
	render *Renderer
}

func NewAdminHandler(admin AdminViews, render *Renderer) *AdminHandler {
	return &AdminHandler{admin: admin, render: render}
}

type logQuery struct {
	Source   string `query:"source"`
	LogLevel string `query:"logLevel" validate:"omitempty,oneof=DEBUG INFO WARN ERROR"`
	MemberID int64  `query:"memberId" validate:"gte=0"`
}

// Dashboard renders the platform aggregates.
//
// @Summary      Admin dashboard
// @Tags         admin
// @Produce      json
// @Success      200  {object}  viewResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /admin [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	d, err := h.admin.Dashboard(c.Request().Context())
	return h.render.Result(c, http.StatusOK, "admin-dashboard", d, err)
}

func (h *AdminHandler) Workspaces(c echo.Context) error {
	ws, err := h.admin.Workspaces(c.Request().Context())
	return h.render.Result(c, http.StatusOK, "admin-workspaces", ws, err)
}

func (h *AdminHandler) Roles(c echo.Context) error {
	roles, err := h.admin.Roles(c.Request().Context())
	return h.render.Result(c, http.StatusOK, "admin-roles", roles, err)
}

// Logs searches the backend log store.
//
// @Summary      Search logs
// @Tags         admin
// @Produce      json
// @Param        source    query     string  false  "Log source"
// @Param        logLevel  query     string  false  "DEBUG, INFO, WARN or ERROR"
// @Param        memberId  query     int     false  "Member ID"
// @Success      200       {object}  viewResponse
// @Failure      422       {object}  ErrorResponse
// @Router       /admin/logs [get]
func (h *AdminHandler) Logs(c echo.Context) error {
	var q logQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	q.LogLevel = strings.ToUpper(strings.TrimSpace(q.LogLevel))
	if err := c.Validate(&q); err != nil {
		return err
	}
	logs, err := h.admin.Logs(c.Request().Context(), domain.LogFilter{
		Source:   strings.TrimSpace(q.Source),
		LogLevel: q.LogLevel,
		MemberID: q.MemberID,
	})
	return h.render.Result(c, http.StatusOK, "admin-logs", logs, err)
}

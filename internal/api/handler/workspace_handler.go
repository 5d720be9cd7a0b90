package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kanbanly/kanban-web/internal/core/ports"
	"github.com/kanbanly/kanban-web/internal/core/service"
)

type WorkspaceHandler struct {
	workspaces *service.WorkspaceController
	render     *Renderer
}

func NewWorkspaceHandler(workspaces *service.WorkspaceController, render *Renderer) *WorkspaceHandler {
	return &WorkspaceHandler{workspaces: workspaces, render: render}
}

type workspaceRequest struct {
	Name string `json:"name" form:"name"`
}

// List renders the workspaces of the session member.
//
// @Summary      List workspaces
// @Tags         workspaces
// @Produce      json
// @Success      200  {object}  viewResponse
// @Failure      502  {object}  viewResponse
// @Router       /workspaces [get]
func (h *WorkspaceHandler) List(c echo.Context) error {
	items, err := h.workspaces.List(c.Request().Context(), 0)
	return h.render.Result(c, http.StatusOK, "workspaces", items, err)
}

// Create adds a workspace owned by the session member.
//
// @Summary      Create workspace
// @Tags         workspaces
// @Accept       json
// @Produce      json
// @Param        body  body      workspaceRequest  true  "Workspace"
// @Success      201   {object}  viewResponse
// @Failure      422   {object}  viewResponse
// @Router       /workspaces [post]
func (h *WorkspaceHandler) Create(c echo.Context) error {
	var req workspaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	items, err := h.workspaces.Create(c.Request().Context(), ports.WorkspaceInput{Name: req.Name})
	return h.render.Result(c, http.StatusCreated, "workspaces", items, err)
}

func (h *WorkspaceHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req workspaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	items, err := h.workspaces.Update(c.Request().Context(), id, ports.WorkspaceInput{Name: req.Name})
	return h.render.Result(c, http.StatusOK, "workspaces", items, err)
}

func (h *WorkspaceHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.workspaces.Delete(c.Request().Context(), id)
	return h.render.Result(c, http.StatusOK, "workspaces", items, err)
}

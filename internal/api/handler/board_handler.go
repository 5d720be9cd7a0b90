package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kanbanly/kanban-web/internal/core/ports"
	"github.com/kanbanly/kanban-web/internal/core/service"
)

type BoardHandler struct {
	boards *service.BoardController
	render *Renderer
}

func NewBoardHandler(boards *service.BoardController, render *Renderer) *BoardHandler {
	return &BoardHandler{boards: boards, render: render}
}

type boardRequest struct {
	Title   string `json:"title"   form:"title"`
	BgColor string `json:"bgColor" form:"bgColor"`
}

// List renders the boards of a workspace.
//
// @Summary      List boards
// @Tags         boards
// @Produce      json
// @Param        id   path      int  true  "Workspace ID"
// @Success      200  {object}  viewResponse
// @Router       /workspaces/{id}/boards [get]
func (h *BoardHandler) List(c echo.Context) error {
	wsID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.boards.List(c.Request().Context(), wsID)
	return h.render.Result(c, http.StatusOK, "boards", items, err)
}

// Create adds a board to a workspace.
//
// @Summary      Create board
// @Tags         boards
// @Accept       json
// @Produce      json
// @Param        id    path      int           true  "Workspace ID"
// @Param        body  body      boardRequest  true  "Board"
// @Success      201   {object}  viewResponse
// @Router       /workspaces/{id}/boards [post]
func (h *BoardHandler) Create(c echo.Context) error {
	wsID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req boardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	items, err := h.boards.Create(c.Request().Context(), ports.BoardInput{
		WorkspaceID: wsID,
		Title:       req.Title,
		BgColor:     req.BgColor,
	})
	return h.render.Result(c, http.StatusCreated, "boards", items, err)
}

func (h *BoardHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req boardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	items, err := h.boards.Update(c.Request().Context(), id, ports.BoardInput{Title: req.Title, BgColor: req.BgColor})
	return h.render.Result(c, http.StatusOK, "boards", items, err)
}

func (h *BoardHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.boards.Delete(c.Request().Context(), id)
	return h.render.Result(c, http.StatusOK, "boards", items, err)
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kanbanly/kanban-web/internal/core/ports"
	"github.com/kanbanly/kanban-web/internal/core/service"
)

type ListHandler struct {
	lists  *service.ListController
	render *Renderer
}

func NewListHandler(lists *service.ListController, render *Renderer) *ListHandler {
	return &ListHandler{lists: lists, render: render}
}

type listRequest struct {
	Title    string `json:"title"    form:"title"`
	Position int    `json:"position" form:"position"`
}

// List renders the lists of a board in position order.
//
// @Summary      List lists
// @Tags         lists
// @Produce      json
// @Param        id   path      int  true  "Board ID"
// @Success      200  {object}  viewResponse
// @Router       /boards/{id}/lists [get]
func (h *ListHandler) List(c echo.Context) error {
	boardID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.lists.List(c.Request().Context(), boardID)
	return h.render.Result(c, http.StatusOK, "lists", items, err)
}

func (h *ListHandler) Create(c echo.Context) error {
	boardID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req listRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	items, err := h.lists.Create(c.Request().Context(), ports.ListInput{
		BoardID:  boardID,
		Title:    req.Title,
		Position: req.Position,
	})
	return h.render.Result(c, http.StatusCreated, "lists", items, err)
}

func (h *ListHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req listRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	items, err := h.lists.Update(c.Request().Context(), id, ports.ListInput{Title: req.Title, Position: req.Position})
	return h.render.Result(c, http.StatusOK, "lists", items, err)
}

func (h *ListHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.lists.Delete(c.Request().Context(), id)
	return h.render.Result(c, http.StatusOK, "lists", items, err)
}

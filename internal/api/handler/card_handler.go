package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kanbanly/kanban-web/internal/core/ports"
	"github.com/kanbanly/kanban-web/internal/core/service"
)

type CardHandler struct {
	cards  *service.CardController
	render *Renderer
}

func NewCardHandler(cards *service.CardController, render *Renderer) *CardHandler {
	return &CardHandler{cards: cards, render: render}
}

type cardRequest struct {
	Title       string `json:"title"       form:"title"`
	Description string `json:"description" form:"description"`
	// ListID moves the card when set on update.
	ListID int64 `json:"listId" form:"listId"`
}

// List renders the cards of a list.
//
// @Summary      List cards
// @Tags         cards
// @Produce      json
// @Param        id   path      int  true  "List ID"
// @Success      200  {object}  viewResponse
// @Router       /lists/{id}/cards [get]
func (h *CardHandler) List(c echo.Context) error {
	listID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.cards.List(c.Request().Context(), listID)
	return h.render.Result(c, http.StatusOK, "cards", items, err)
}

func (h *CardHandler) Create(c echo.Context) error {
	listID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req cardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	items, err := h.cards.Create(c.Request().Context(), ports.CardInput{
		ListID:      listID,
		Title:       req.Title,
		Description: req.Description,
	})
	return h.render.Result(c, http.StatusCreated, "cards", items, err)
}

func (h *CardHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req cardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	items, err := h.cards.Update(c.Request().Context(), id, ports.CardInput{
		ListID:      req.ListID,
		Title:       req.Title,
		Description: req.Description,
	})
	return h.render.Result(c, http.StatusOK, "cards", items, err)
}

func (h *CardHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.cards.Delete(c.Request().Context(), id)
	return h.render.Result(c, http.StatusOK, "cards", items, err)
}

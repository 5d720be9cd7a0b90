package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/ports"
	"github.com/kanbanly/kanban-web/internal/core/service"
)

type ChecklistHandler struct {
	checklists *service.ChecklistController
	render     *Renderer
}

func NewChecklistHandler(checklists *service.ChecklistController, render *Renderer) *ChecklistHandler {
	return &ChecklistHandler{checklists: checklists, render: render}
}

type checklistRequest struct {
	Title string `json:"title" form:"title"`
}

type checklistItemRequest struct {
	Text string `json:"text" form:"text"`
}

// checklistView adds the completion counters shown next to each checklist.
type checklistView struct {
	domain.Checklist
	Done  int `json:"done"`
	Total int `json:"total"`
}

func checklistViews(in []domain.Checklist) []checklistView {
	out := make([]checklistView, len(in))
	for i, cl := range in {
		done, total := cl.Progress()
		out[i] = checklistView{Checklist: cl, Done: done, Total: total}
	}
	return out
}

func (h *ChecklistHandler) result(c echo.Context, ok int, items []domain.Checklist, err error) error {
	return h.render.Result(c, ok, "checklists", checklistViews(items), err)
}

// List renders the checklists of a card.
//
// @Summary      List checklists
// @Tags         checklists
// @Produce      json
// @Param        id   path      int  true  "Card ID"
// @Success      200  {object}  viewResponse
// @Router       /cards/{id}/checklists [get]
func (h *ChecklistHandler) List(c echo.Context) error {
	cardID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.checklists.List(c.Request().Context(), cardID)
	return h.result(c, http.StatusOK, items, err)
}

func (h *ChecklistHandler) Create(c echo.Context) error {
	cardID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req checklistRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	items, err := h.checklists.Create(c.Request().Context(), ports.ChecklistInput{CardID: cardID, Title: req.Title})
	return h.result(c, http.StatusCreated, items, err)
}

func (h *ChecklistHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req checklistRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	items, err := h.checklists.Update(c.Request().Context(), id, ports.ChecklistInput{Title: req.Title})
	return h.result(c, http.StatusOK, items, err)
}

func (h *ChecklistHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.checklists.Delete(c.Request().Context(), id)
	return h.result(c, http.StatusOK, items, err)
}

// AddItem appends an item to a checklist.
//
// @Summary      Add checklist item
// @Tags         checklists
// @Accept       json
// @Produce      json
// @Param        id    path      int                   true  "Checklist ID"
// @Param        body  body      checklistItemRequest  true  "Item"
// @Success      201   {object}  viewResponse
// @Router       /checklists/{id}/items [post]
func (h *ChecklistHandler) AddItem(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req checklistItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	items, err := h.checklists.AddItem(c.Request().Context(), id, ports.ChecklistItemInput{Text: req.Text})
	return h.result(c, http.StatusCreated, items, err)
}

func (h *ChecklistHandler) ToggleItem(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.checklists.ToggleItem(c.Request().Context(), id)
	return h.result(c, http.StatusOK, items, err)
}

func (h *ChecklistHandler) DeleteItem(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.checklists.DeleteItem(c.Request().Context(), id)
	return h.result(c, http.StatusOK, items, err)
}

// ClearCompleted removes the completed items of a checklist.
func (h *ChecklistHandler) ClearCompleted(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.checklists.ClearCompleted(c.Request().Context(), id)
	return h.result(c, http.StatusOK, items, err)
}

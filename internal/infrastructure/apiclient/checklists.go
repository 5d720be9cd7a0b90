package apiclient

import (
	"context"
	"net/http"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/ports"
)

func (c *Client) ListChecklists(ctx context.Context, cardID int64) ([]domain.Checklist, error) {
	if err := requireID(cardID); err != nil {
		return nil, err
	}
	return getList[domain.Checklist](ctx, c, call{
		method: http.MethodGet,
		route:  "/checklists/card/:cardId",
		path:   idPath("/checklists/card/%d", cardID),
	})
}

func (c *Client) CreateChecklist(ctx context.Context, in ports.ChecklistInput) (*domain.Checklist, error) {
	var cl domain.Checklist
	err := c.doJSON(ctx, call{
		method: http.MethodPost,
		route:  "/checklists",
		path:   "/checklists",
		body:   in,
	}, &cl)
	if err != nil {
		return nil, err
	}
	return &cl, nil
}

func (c *Client) UpdateChecklist(ctx context.Context, id int64, in ports.ChecklistInput) error {
	if err := requireID(id); err != nil {
		return err
	}
	return c.doJSON(ctx, call{
		method: http.MethodPut,
		route:  "/checklists/:id",
		path:   idPath("/checklists/%d", id),
		body:   in,
	}, nil)
}

func (c *Client) DeleteChecklist(ctx context.Context, id int64) error {
	if err := requireID(id); err != nil {
		return err
	}
	return c.doJSON(ctx, call{
		method: http.MethodDelete,
		route:  "/checklists/:id",
		path:   idPath("/checklists/%d", id),
	}, nil)
}

func (c *Client) AddChecklistItem(ctx context.Context, checklistID int64, in ports.ChecklistItemInput) (*domain.ChecklistItem, error) {
	if err := requireID(checklistID); err != nil {
		return nil, err
	}
	var item domain.ChecklistItem
	err := c.doJSON(ctx, call{
		method: http.MethodPost,
		route:  "/checklists/:id/items",
		path:   idPath("/checklists/%d/items", checklistID),
		body:   in,
	}, &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) ToggleChecklistItem(ctx context.Context, itemID int64) error {
	if err := requireID(itemID); err != nil {
		return err
	}
	return c.doJSON(ctx, call{
		method: http.MethodPatch,
		route:  "/checklists/items/:id/toggle",
		path:   idPath("/checklists/items/%d/toggle", itemID),
	}, nil)
}

func (c *Client) DeleteChecklistItem(ctx context.Context, itemID int64) error {
	if err := requireID(itemID); err != nil {
		return err
	}
	return c.doJSON(ctx, call{
		method: http.MethodDelete,
		route:  "/checklists/items/:id",
		path:   idPath("/checklists/items/%d", itemID),
	}, nil)
}

func (c *Client) DeleteCompletedItems(ctx context.Context, checklistID int64) error {
	if err := requireID(checklistID); err != nil {
		return err
	}
	return c.doJSON(ctx, call{
		method: http.MethodDelete,
		route:  "/checklists/:id/completed-items",
		path:   idPath("/checklists/%d/completed-items", checklistID),
	}, nil)
}

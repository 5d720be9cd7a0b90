package apiclient

import (
	"context"
	"net/http"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/ports"
)

func (c *Client) ListLists(ctx context.Context, boardID int64) ([]domain.List, error) {
	if err := requireID(boardID); err != nil {
		return nil, err
	}
	return getList[domain.List](ctx, c, call{
		method: http.MethodGet,
		route:  "/lists/board/:boardId",
		path:   idPath("/lists/board/%d", boardID),
	})
}

func (c *Client) CreateList(ctx context.Context, in ports.ListInput) (*domain.List, error) {
	var l domain.List
	err := c.doJSON(ctx, call{
		method: http.MethodPost,
		route:  "/lists",
		path:   "/lists",
		body:   in,
	}, &l)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Client) UpdateList(ctx context.Context, id int64, in ports.ListInput) error {
	if err := requireID(id); err != nil {
		return err
	}
	return c.doJSON(ctx, call{
		method: http.MethodPut,
		route:  "/lists/:id",
		path:   idPath("/lists/%d", id),
		body:   in,
	}, nil)
}

func (c *Client) DeleteList(ctx context.Context, id int64) error {
	if err := requireID(id); err != nil {
		return err
	}
	return c.doJSON(ctx, call{
		method: http.MethodDelete,
		route:  "/lists/:id",
		path:   idPath("/lists/%d", id),
	}, nil)
}

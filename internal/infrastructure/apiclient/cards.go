package apiclient

import (
	"context"
	"net/http"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/ports"
)

func (c *Client) ListCards(ctx context.Context, listID int64) ([]domain.Card, error) {
	if err := requireID(listID); err != nil {
		return nil, err
	}
	return getList[domain.Card](ctx, c, call{
		method: http.MethodGet,
		route:  "/cards/list/:listId",
		path:   idPath("/cards/list/%d", listID),
	})
}

func (c *Client) CreateCard(ctx context.Context, in ports.CardInput) (*domain.Card, error) {
	var card domain.Card
	err := c.doJSON(ctx, call{
		method: http.MethodPost,
		route:  "/cards",
		path:   "/cards",
		body:   in,
	}, &card)
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) UpdateCard(ctx context.Context, id int64, in ports.CardInput) error {
	if err := requireID(id); err != nil {
		return err
	}
	return c.doJSON(ctx, call{
		method: http.MethodPut,
		route:  "/cards/:id",
		path:   idPath("/cards/%d", id),
		body:   in,
	}, nil)
}

func (c *Client) DeleteCard(ctx context.Context, id int64) error {
	if err := requireID(id); err != nil {
		return err
	}
	return c.doJSON(ctx, call{
		method: http.MethodDelete,
		route:  "/cards/:id",
		path:   idPath("/cards/%d", id),
	}, nil)
}

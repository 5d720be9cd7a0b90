package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/ports"
)

func memberQuery(memberID int64) url.Values {
	if memberID == 0 {
		return nil
	}
	return url.Values{"memberId": []string{strconv.FormatInt(memberID, 10)}}
}

func (c *Client) ListBoards(ctx context.Context, workspaceID, memberID int64) ([]domain.Board, error) {
	if err := requireID(workspaceID); err != nil {
		return nil, err
	}
	return getList[domain.Board](ctx, c, call{
		method: http.MethodGet,
		route:  "/boards/workspace/:workspaceId",
		path:   idPath("/boards/workspace/%d", workspaceID),
		query:  memberQuery(memberID),
	})
}

func (c *Client) CreateBoard(ctx context.Context, in ports.BoardInput) (*domain.Board, error) {
	var b domain.Board
	err := c.doJSON(ctx, call{
		method: http.MethodPost,
		route:  "/boards",
		path:   "/boards",
		body:   in,
	}, &b)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) UpdateBoard(ctx context.Context, id int64, in ports.BoardInput) error {
	if err := requireID(id); err != nil {
		return err
	}
	return c.doJSON(ctx, call{
		method: http.MethodPut,
		route:  "/boards/:id",
		path:   idPath("/boards/%d", id),
		body:   in,
	}, nil)
}

// DeleteBoard passes the requesting member, the backend checks its board role.
func (c *Client) DeleteBoard(ctx context.Context, id, memberID int64) error {
	if err := requireID(id); err != nil {
		return err
	}
	return c.doJSON(ctx, call{
		method: http.MethodDelete,
		route:  "/boards/:id",
		path:   idPath("/boards/%d", id),
		query:  memberQuery(memberID),
	}, nil)
}

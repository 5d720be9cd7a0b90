package apiclient

import (
	"context"
	"net/http"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/ports"
)

func (c *Client) ListWorkspaces(ctx context.Context, memberID int64) ([]domain.Workspace, error) {
	if err := requireID(memberID); err != nil {
		return nil, err
	}
	return getList[domain.Workspace](ctx, c, call{
		method: http.MethodGet,
		route:  "/workspaces/member/:memberId",
		path:   idPath("/workspaces/member/%d", memberID),
	})
}

// CreateWorkspace returns the created workspace. The backend answers with
// {workspaceId, workspaceName}; domain.Workspace accepts both shapes.
func (c *Client) CreateWorkspace(ctx context.Context, in ports.WorkspaceInput) (*domain.Workspace, error) {
	var ws domain.Workspace
	err := c.doJSON(ctx, call{
		method: http.MethodPost,
		route:  "/workspaces",
		path:   "/workspaces",
		body:   in,
	}, &ws)
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

func (c *Client) UpdateWorkspace(ctx context.Context, id int64, in ports.WorkspaceInput) error {
	if err := requireID(id); err != nil {
		return err
	}
	return c.doJSON(ctx, call{
		method: http.MethodPut,
		route:  "/workspaces/:id",
		path:   idPath("/workspaces/%d", id),
		body:   in,
	}, nil)
}

func (c *Client) DeleteWorkspace(ctx context.Context, id int64) error {
	if err := requireID(id); err != nil {
		return err
	}
	return c.doJSON(ctx, call{
		method: http.MethodDelete,
		route:  "/workspaces/:id",
		path:   idPath("/workspaces/%d", id),
	}, nil)
}

package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/ports"
)

func (c *Client) ListWorkspaceMembers(ctx context.Context, workspaceID int64) ([]domain.WorkspaceMember, error) {
	if err := requireID(workspaceID); err != nil {
		return nil, err
	}
	return getList[domain.WorkspaceMember](ctx, c, call{
		method: http.MethodGet,
		route:  "/workspace-members/workspace/:id",
		path:   idPath("/workspace-members/workspace/%d", workspaceID),
	})
}

func (c *Client) InviteWorkspaceMember(ctx context.Context, in ports.InviteInput) error {
	if err := requireID(in.WorkspaceID); err != nil {
		return err
	}
	return c.doJSON(ctx, call{
		method: http.MethodPost,
		route:  "/workspace-members/invite",
		path:   "/workspace-members/invite",
		body:   in,
	}, nil)
}

// UpdateWorkspaceMemberRole takes the membership row id, not the member id.
func (c *Client) UpdateWorkspaceMemberRole(ctx context.Context, id int64, in ports.MemberRoleInput) error {
	if err := requireID(id); err != nil {
		return err
	}
	return c.doJSON(ctx, call{
		method: http.MethodPut,
		route:  "/workspace-members/:id/role",
		path:   idPath("/workspace-members/%d/role", id),
		body:   in,
	}, nil)
}

func (c *Client) RemoveWorkspaceMember(ctx context.Context, id int64) error {
	if err := requireID(id); err != nil {
		return err
	}
	return c.doJSON(ctx, call{
		method: http.MethodDelete,
		route:  "/workspace-members/:id",
		path:   idPath("/workspace-members/%d", id),
	}, nil)
}

func (c *Client) ListBoardMembers(ctx context.Context, boardID int64) ([]domain.BoardMembership, error) {
	if err := requireID(boardID); err != nil {
		return nil, err
	}
	return getList[domain.BoardMembership](ctx, c, call{
		method: http.MethodGet,
		route:  "/board-members/list",
		path:   "/board-members/list",
		query:  url.Values{"boardId": {strconv.FormatInt(boardID, 10)}},
	})
}

// The board membership endpoints take their arguments as query parameters
// and no body.

func (c *Client) AddBoardMember(ctx context.Context, in ports.BoardMemberInput) error {
	if err := requireID(in.BoardID, in.MemberID, in.RequesterID); err != nil {
		return err
	}
	q := boardMemberQuery(in)
	if in.WorkspaceID > 0 {
		q.Set("workspaceId", strconv.FormatInt(in.WorkspaceID, 10))
	}
	return c.doJSON(ctx, call{
		method: http.MethodPost,
		route:  "/board-members/add",
		path:   "/board-members/add",
		query:  q,
	}, nil)
}

func (c *Client) RemoveBoardMember(ctx context.Context, in ports.BoardMemberInput) error {
	if err := requireID(in.BoardID, in.MemberID, in.RequesterID); err != nil {
		return err
	}
	return c.doJSON(ctx, call{
		method: http.MethodDelete,
		route:  "/board-members/remove",
		path:   "/board-members/remove",
		query:  boardMemberQuery(in),
	}, nil)
}

func (c *Client) PromoteBoardLeader(ctx context.Context, in ports.BoardMemberInput) error {
	if err := requireID(in.BoardID, in.MemberID, in.RequesterID); err != nil {
		return err
	}
	q := boardMemberQuery(in)
	q.Del("boardId")
	return c.doJSON(ctx, call{
		method: http.MethodPost,
		route:  "/boards/:id/promote-leader",
		path:   idPath("/boards/%d/promote-leader", in.BoardID),
		query:  q,
	}, nil)
}

func boardMemberQuery(in ports.BoardMemberInput) url.Values {
	return url.Values{
		"boardId":     {strconv.FormatInt(in.BoardID, 10)},
		"memberId":    {strconv.FormatInt(in.MemberID, 10)},
		"requesterId": {strconv.FormatInt(in.RequesterID, 10)},
	}
}

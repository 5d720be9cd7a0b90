package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/ports"
	"github.com/kanbanly/kanban-web/internal/pkg/validation"
)

// WorkspaceMemberController holds the role-tagged members of one workspace.
// Every write names its workspace, so the refetch never depends on a prior List.
type WorkspaceMemberController struct {
	*collection[domain.WorkspaceMember]
	api     ports.WorkspaceMemberAPI
	session *SessionStore
}

func NewWorkspaceMemberController(api ports.WorkspaceMemberAPI, session *SessionStore, notifier ports.Notifier, log zerolog.Logger) *WorkspaceMemberController {
	return &WorkspaceMemberController{
		collection: newCollection[domain.WorkspaceMember]("workspace member", notifier, log),
		api:        api,
		session:    session,
	}
}

func (c *WorkspaceMemberController) List(ctx context.Context, workspaceID int64) ([]domain.WorkspaceMember, error) {
	return c.refresh(ctx, workspaceID, c.fetch(workspaceID))
}

// Invite adds a registered member to the workspace as MEMBER.
func (c *WorkspaceMemberController) Invite(ctx context.Context, in ports.InviteInput) ([]domain.WorkspaceMember, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(validate, in); err != nil {
		return c.reject(err)
	}
	return c.mutate(ctx, in.WorkspaceID, "invite", func(ctx context.Context) error {
		if err := c.api.InviteWorkspaceMember(ctx, in); err != nil {
			return err
		}
		c.notifier.Info(fmt.Sprintf("%s was added to the workspace", in.Email))
		return nil
	}, c.fetch(in.WorkspaceID))
}

// ChangeRole sets the role of membership id. When the change concerns the
// session member, the session's workspace roles follow the refetched list.
func (c *WorkspaceMemberController) ChangeRole(ctx context.Context, workspaceID, id int64, in ports.MemberRoleInput) ([]domain.WorkspaceMember, error) {
	in.Role = domain.MemberRole(strings.ToUpper(strings.TrimSpace(string(in.Role))))
	if err := validation.Struct(validate, in); err != nil {
		return c.reject(err)
	}
	items, err := c.mutate(ctx, workspaceID, "update", func(ctx context.Context) error {
		return c.api.UpdateWorkspaceMemberRole(ctx, id, in)
	}, c.fetch(workspaceID))
	if err == nil {
		c.syncSessionRole(ctx, workspaceID, items)
	}
	return items, err
}

func (c *WorkspaceMemberController) Remove(ctx context.Context, workspaceID, id int64) ([]domain.WorkspaceMember, error) {
	items, err := c.mutate(ctx, workspaceID, "remove", func(ctx context.Context) error {
		return c.api.RemoveWorkspaceMember(ctx, id)
	}, c.fetch(workspaceID))
	if err == nil {
		c.syncSessionRole(ctx, workspaceID, items)
	}
	return items, err
}

func (c *WorkspaceMemberController) fetch(workspaceID int64) func(context.Context) ([]domain.WorkspaceMember, error) {
	return func(ctx context.Context) ([]domain.WorkspaceMember, error) {
		return c.api.ListWorkspaceMembers(ctx, workspaceID)
	}
}

// syncSessionRole copies the session member's role in workspaceID from
// members into the session user. A member no longer listed loses the role.
func (c *WorkspaceMemberController) syncSessionRole(ctx context.Context, workspaceID int64, members []domain.WorkspaceMember) {
	user := c.session.User()
	if user == nil || user.MemberID == 0 {
		return
	}
	var role domain.MemberRole
	for _, m := range members {
		if m.MemberID == user.MemberID {
			role = m.Role
			break
		}
	}
	if user.WorkspaceRoles[workspaceID] == role {
		return
	}
	if role == "" {
		delete(user.WorkspaceRoles, workspaceID)
	} else {
		if user.WorkspaceRoles == nil {
			user.WorkspaceRoles = make(map[int64]domain.MemberRole)
		}
		user.WorkspaceRoles[workspaceID] = role
	}
	if err := c.session.UpdateUser(ctx, *user); err != nil {
		c.log.Warn().Err(err).Int64("workspace_id", workspaceID).Msg("could not record workspace role")
	}
}

// BoardMemberController holds the members of one board.
type BoardMemberController struct {
	*collection[domain.BoardMembership]
	api     ports.BoardMemberAPI
	members MemberSource
}

func NewBoardMemberController(api ports.BoardMemberAPI, members MemberSource, notifier ports.Notifier, log zerolog.Logger) *BoardMemberController {
	return &BoardMemberController{
		collection: newCollection[domain.BoardMembership]("board member", notifier, log),
		api:        api,
		members:    members,
	}
}

func (c *BoardMemberController) List(ctx context.Context, boardID int64) ([]domain.BoardMembership, error) {
	return c.refresh(ctx, boardID, c.fetch(boardID))
}

// Add puts a workspace member on the board.
func (c *BoardMemberController) Add(ctx context.Context, in ports.BoardMemberInput) ([]domain.BoardMembership, error) {
	return c.write(ctx, "add", in, c.api.AddBoardMember)
}

func (c *BoardMemberController) Remove(ctx context.Context, in ports.BoardMemberInput) ([]domain.BoardMembership, error) {
	return c.write(ctx, "remove", in, c.api.RemoveBoardMember)
}

// PromoteLeader makes a board member a LEADER of the board.
func (c *BoardMemberController) PromoteLeader(ctx context.Context, in ports.BoardMemberInput) ([]domain.BoardMembership, error) {
	return c.write(ctx, "promote", in, c.api.PromoteBoardLeader)
}

// write runs op on behalf of the session member and refetches in.BoardID.
func (c *BoardMemberController) write(ctx context.Context, action string, in ports.BoardMemberInput, op func(context.Context, ports.BoardMemberInput) error) ([]domain.BoardMembership, error) {
	if in.RequesterID == 0 {
		in.RequesterID = c.members.MemberID()
	}
	if err := validation.Struct(validate, in); err != nil {
		return c.reject(err)
	}
	return c.mutate(ctx, in.BoardID, action, func(ctx context.Context) error {
		return op(ctx, in)
	}, c.fetch(in.BoardID))
}

func (c *BoardMemberController) fetch(boardID int64) func(context.Context) ([]domain.BoardMembership, error) {
	return func(ctx context.Context) ([]domain.BoardMembership, error) {
		return c.api.ListBoardMembers(ctx, boardID)
	}
}

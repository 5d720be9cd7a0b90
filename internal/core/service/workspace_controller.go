package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/ports"
	"github.com/kanbanly/kanban-web/internal/pkg/validation"
)

// WorkspaceController holds the workspaces of one member.
type WorkspaceController struct {
	*collection[domain.Workspace]
	api     ports.WorkspaceAPI
	session *SessionStore
}

func NewWorkspaceController(api ports.WorkspaceAPI, session *SessionStore, notifier ports.Notifier, log zerolog.Logger) *WorkspaceController {
	return &WorkspaceController{
		collection: newCollection[domain.Workspace]("workspace", notifier, log),
		api:        api,
		session:    session,
	}
}

// List fetches the workspaces of memberID, or of the session member when 0.
func (c *WorkspaceController) List(ctx context.Context, memberID int64) ([]domain.Workspace, error) {
	if memberID == 0 {
		memberID = c.session.MemberID()
	}
	return c.refresh(ctx, memberID, c.fetch(memberID))
}

// Create adds a workspace. The creator becomes its OWNER and the session
// user is updated to carry the new workspace role.
func (c *WorkspaceController) Create(ctx context.Context, in ports.WorkspaceInput) ([]domain.Workspace, error) {
	if in.MemberID == 0 {
		in.MemberID = c.session.MemberID()
	}
	if err := validation.Struct(validate, in); err != nil {
		return c.reject(err)
	}
	return c.mutate(ctx, in.MemberID, "create", func(ctx context.Context) error {
		created, err := c.api.CreateWorkspace(ctx, in)
		if err != nil {
			return err
		}
		c.grantOwner(ctx, created)
		c.notifier.Info(fmt.Sprintf("Workspace %q created", in.Name))
		return nil
	}, c.fetch(in.MemberID))
}

// Update renames a workspace and refetches the cached member's workspaces.
func (c *WorkspaceController) Update(ctx context.Context, id int64, in ports.WorkspaceInput) ([]domain.Workspace, error) {
	if in.MemberID == 0 {
		in.MemberID = c.session.MemberID()
	}
	if err := validation.Struct(validate, in); err != nil {
		return c.reject(err)
	}
	parent := c.owner(in.MemberID)
	return c.mutate(ctx, parent, "update", func(ctx context.Context) error {
		return c.api.UpdateWorkspace(ctx, id, in)
	}, c.fetch(parent))
}

// Delete removes a workspace. Boards below it are the server's concern.
func (c *WorkspaceController) Delete(ctx context.Context, id int64) ([]domain.Workspace, error) {
	parent := c.owner(0)
	return c.mutate(ctx, parent, "delete", func(ctx context.Context) error {
		return c.api.DeleteWorkspace(ctx, id)
	}, c.fetch(parent))
}

// owner is the member whose workspaces a write refetches: the cached
// collection's member, else fallback, else the session member.
func (c *WorkspaceController) owner(fallback int64) int64 {
	if parent, ok := c.Parent(); ok && parent != 0 {
		return parent
	}
	if fallback != 0 {
		return fallback
	}
	return c.session.MemberID()
}

func (c *WorkspaceController) fetch(memberID int64) func(context.Context) ([]domain.Workspace, error) {
	return func(ctx context.Context) ([]domain.Workspace, error) {
		return c.api.ListWorkspaces(ctx, memberID)
	}
}

func (c *WorkspaceController) grantOwner(ctx context.Context, ws *domain.Workspace) {
	if ws == nil || ws.ID == 0 {
		return
	}
	user := c.session.User()
	if user == nil {
		return
	}
	if user.WorkspaceRoles == nil {
		user.WorkspaceRoles = make(map[int64]domain.MemberRole)
	}
	user.WorkspaceRoles[ws.ID] = domain.MemberOwner
	if err := c.session.UpdateUser(ctx, *user); err != nil {
		c.log.Warn().Err(err).Int64("workspace_id", ws.ID).Msg("could not record workspace ownership")
	}
}

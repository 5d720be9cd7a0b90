package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/ports"
	"github.com/kanbanly/kanban-web/internal/pkg/validation"
)

// MemberSource yields the member id of the logged-in user.
type MemberSource interface {
	MemberID() int64
}

// BoardController holds the boards of one workspace as seen by the session member.
type BoardController struct {
	*collection[domain.Board]
	api     ports.BoardAPI
	members MemberSource
}

func NewBoardController(api ports.BoardAPI, members MemberSource, notifier ports.Notifier, log zerolog.Logger) *BoardController {
	return &BoardController{
		collection: newCollection[domain.Board]("board", notifier, log),
		api:        api,
		members:    members,
	}
}

func (c *BoardController) List(ctx context.Context, workspaceID int64) ([]domain.Board, error) {
	return c.refresh(ctx, workspaceID, c.fetch(workspaceID))
}

func (c *BoardController) Create(ctx context.Context, in ports.BoardInput) ([]domain.Board, error) {
	if in.MemberID == 0 {
		in.MemberID = c.members.MemberID()
	}
	if err := validation.Struct(validate, in); err != nil {
		return c.reject(err)
	}
	parent := c.parentOr(in.WorkspaceID)
	return c.mutate(ctx, parent, "create", func(ctx context.Context) error {
		_, err := c.api.CreateBoard(ctx, in)
		return err
	}, c.fetch(parent))
}

func (c *BoardController) Update(ctx context.Context, id int64, in ports.BoardInput) ([]domain.Board, error) {
	if in.MemberID == 0 {
		in.MemberID = c.members.MemberID()
	}
	if err := validation.Struct(validate, in); err != nil {
		return c.reject(err)
	}
	parent := c.parentOr(in.WorkspaceID)
	return c.mutate(ctx, parent, "update", func(ctx context.Context) error {
		return c.api.UpdateBoard(ctx, id, in)
	}, c.fetch(parent))
}

func (c *BoardController) Delete(ctx context.Context, id int64) ([]domain.Board, error) {
	parent := c.parentOr(0)
	memberID := c.members.MemberID()
	return c.mutate(ctx, parent, "delete", func(ctx context.Context) error {
		return c.api.DeleteBoard(ctx, id, memberID)
	}, c.fetch(parent))
}

func (c *BoardController) fetch(workspaceID int64) func(context.Context) ([]domain.Board, error) {
	return func(ctx context.Context) ([]domain.Board, error) {
		return c.api.ListBoards(ctx, workspaceID, c.members.MemberID())
	}
}

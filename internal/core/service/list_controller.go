package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/ports"
	"github.com/kanbanly/kanban-web/internal/pkg/validation"
)

// ListController holds the lists of one board.
type ListController struct {
	*collection[domain.List]
	api ports.ListAPI
}

func NewListController(api ports.ListAPI, notifier ports.Notifier, log zerolog.Logger) *ListController {
	return &ListController{
		collection: newCollection[domain.List]("list", notifier, log),
		api:        api,
	}
}

func (c *ListController) List(ctx context.Context, boardID int64) ([]domain.List, error) {
	return c.refresh(ctx, boardID, c.fetch(boardID))
}

func (c *ListController) Create(ctx context.Context, in ports.ListInput) ([]domain.List, error) {
	if err := validation.Struct(validate, in); err != nil {
		return c.reject(err)
	}
	parent := c.parentOr(in.BoardID)
	return c.mutate(ctx, parent, "create", func(ctx context.Context) error {
		_, err := c.api.CreateList(ctx, in)
		return err
	}, c.fetch(parent))
}

func (c *ListController) Update(ctx context.Context, id int64, in ports.ListInput) ([]domain.List, error) {
	if err := validation.Struct(validate, in); err != nil {
		return c.reject(err)
	}
	parent := c.parentOr(in.BoardID)
	return c.mutate(ctx, parent, "update", func(ctx context.Context) error {
		return c.api.UpdateList(ctx, id, in)
	}, c.fetch(parent))
}

func (c *ListController) Delete(ctx context.Context, id int64) ([]domain.List, error) {
	parent := c.parentOr(0)
	return c.mutate(ctx, parent, "delete", func(ctx context.Context) error {
		return c.api.DeleteList(ctx, id)
	}, c.fetch(parent))
}

func (c *ListController) fetch(boardID int64) func(context.Context) ([]domain.List, error) {
	return func(ctx context.Context) ([]domain.List, error) {
		return c.api.ListLists(ctx, boardID)
	}
}

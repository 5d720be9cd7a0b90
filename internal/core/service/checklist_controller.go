package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/ports"
	"github.com/kanbanly/kanban-web/internal/pkg/validation"
)

// ChecklistController holds the checklists of one card, items included.
// Item operations refetch the card's checklists.
type ChecklistController struct {
	*collection[domain.Checklist]
	api ports.ChecklistAPI
}

func NewChecklistController(api ports.ChecklistAPI, notifier ports.Notifier, log zerolog.Logger) *ChecklistController {
	return &ChecklistController{
		collection: newCollection[domain.Checklist]("checklist", notifier, log),
		api:        api,
	}
}

func (c *ChecklistController) List(ctx context.Context, cardID int64) ([]domain.Checklist, error) {
	return c.refresh(ctx, cardID, c.fetch(cardID))
}

func (c *ChecklistController) Create(ctx context.Context, in ports.ChecklistInput) ([]domain.Checklist, error) {
	if err := validation.Struct(validate, in); err != nil {
		return c.reject(err)
	}
	parent := c.parentOr(in.CardID)
	return c.mutate(ctx, parent, "create", func(ctx context.Context) error {
		_, err := c.api.CreateChecklist(ctx, in)
		return err
	}, c.fetch(parent))
}

func (c *ChecklistController) Update(ctx context.Context, id int64, in ports.ChecklistInput) ([]domain.Checklist, error) {
	if err := validation.Struct(validate, in); err != nil {
		return c.reject(err)
	}
	parent := c.parentOr(in.CardID)
	return c.mutate(ctx, parent, "update", func(ctx context.Context) error {
		return c.api.UpdateChecklist(ctx, id, in)
	}, c.fetch(parent))
}

func (c *ChecklistController) Delete(ctx context.Context, id int64) ([]domain.Checklist, error) {
	parent := c.parentOr(0)
	return c.mutate(ctx, parent, "delete", func(ctx context.Context) error {
		return c.api.DeleteChecklist(ctx, id)
	}, c.fetch(parent))
}

func (c *ChecklistController) AddItem(ctx context.Context, checklistID int64, in ports.ChecklistItemInput) ([]domain.Checklist, error) {
	if err := validation.Struct(validate, in); err != nil {
		return c.reject(err)
	}
	parent := c.parentOr(0)
	return c.mutate(ctx, parent, "add item to", func(ctx context.Context) error {
		_, err := c.api.AddChecklistItem(ctx, checklistID, in)
		return err
	}, c.fetch(parent))
}

func (c *ChecklistController) ToggleItem(ctx context.Context, itemID int64) ([]domain.Checklist, error) {
	parent := c.parentOr(0)
	return c.mutate(ctx, parent, "toggle item of", func(ctx context.Context) error {
		return c.api.ToggleChecklistItem(ctx, itemID)
	}, c.fetch(parent))
}

func (c *ChecklistController) DeleteItem(ctx context.Context, itemID int64) ([]domain.Checklist, error) {
	parent := c.parentOr(0)
	return c.mutate(ctx, parent, "delete item of", func(ctx context.Context) error {
		return c.api.DeleteChecklistItem(ctx, itemID)
	}, c.fetch(parent))
}

// ClearCompleted removes every completed item of a checklist.
func (c *ChecklistController) ClearCompleted(ctx context.Context, checklistID int64) ([]domain.Checklist, error) {
	parent := c.parentOr(0)
	return c.mutate(ctx, parent, "clear completed items of", func(ctx context.Context) error {
		return c.api.DeleteCompletedItems(ctx, checklistID)
	}, c.fetch(parent))
}

func (c *ChecklistController) fetch(cardID int64) func(context.Context) ([]domain.Checklist, error) {
	return func(ctx context.Context) ([]domain.Checklist, error) {
		return c.api.ListChecklists(ctx, cardID)
	}
}

package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/ports"
	"github.com/kanbanly/kanban-web/internal/pkg/validation"
)

// CardController holds the cards of one list.
type CardController struct {
	*collection[domain.Card]
	api     ports.CardAPI
	members MemberSource
}

func NewCardController(api ports.CardAPI, members MemberSource, notifier ports.Notifier, log zerolog.Logger) *CardController {
	return &CardController{
		collection: newCollection[domain.Card]("card", notifier, log),
		api:        api,
		members:    members,
	}
}

func (c *CardController) List(ctx context.Context, listID int64) ([]domain.Card, error) {
	return c.refresh(ctx, listID, c.fetch(listID))
}

func (c *CardController) Create(ctx context.Context, in ports.CardInput) ([]domain.Card, error) {
	if in.MemberID == 0 {
		in.MemberID = c.members.MemberID()
	}
	if err := validation.Struct(validate, in); err != nil {
		return c.reject(err)
	}
	parent := c.parentOr(in.ListID)
	return c.mutate(ctx, parent, "create", func(ctx context.Context) error {
		_, err := c.api.CreateCard(ctx, in)
		return err
	}, c.fetch(parent))
}

// Update edits a card. Moving it to another list refetches the target list.
func (c *CardController) Update(ctx context.Context, id int64, in ports.CardInput) ([]domain.Card, error) {
	if in.MemberID == 0 {
		in.MemberID = c.members.MemberID()
	}
	if err := validation.Struct(validate, in); err != nil {
		return c.reject(err)
	}
	parent := c.parentOr(in.ListID)
	return c.mutate(ctx, parent, "update", func(ctx context.Context) error {
		return c.api.UpdateCard(ctx, id, in)
	}, c.fetch(parent))
}

func (c *CardController) Delete(ctx context.Context, id int64) ([]domain.Card, error) {
	parent := c.parentOr(0)
	return c.mutate(ctx, parent, "delete", func(ctx context.Context) error {
		return c.api.DeleteCard(ctx, id)
	}, c.fetch(parent))
}

func (c *CardController) fetch(listID int64) func(context.Context) ([]domain.Card, error) {
	return func(ctx context.Context) ([]domain.Card, error) {
		return c.api.ListCards(ctx, listID)
	}
}

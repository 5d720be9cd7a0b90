package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/ports"
	"github.com/kanbanly/kanban-web/internal/pkg/metrics"
	"github.com/kanbanly/kanban-web/internal/pkg/validation"
)

var validate = validation.New()

// collection is the cached, sequenced view of one parent's children that
// every resource controller is built on.
//
// Each fetch takes a ticket from issued. A result is applied only if its
// ticket is newer than the last applied one, so a slow response can never
// overwrite a newer one. Close cancels every in-flight call and turns later
// results into no-ops.
type collection[T any] struct {
	resource string
	notifier ports.Notifier
	log      zerolog.Logger

	life context.Context
	stop context.CancelFunc

	mu      sync.Mutex
	issued  uint64
	applied uint64
	parent  int64
	loaded  bool
	items   []T
}

func newCollection[T any](resource string, notifier ports.Notifier, log zerolog.Logger) *collection[T] {
	life, stop := context.WithCancel(context.Background())
	return &collection[T]{
		resource: resource,
		notifier: notifier,
		log:      log.With().Str("resource", resource).Logger(),
		life:     life,
		stop:     stop,
		items:    []T{},
	}
}

// bind derives a request context that ends when either ctx or the
// collection ends.
func (c *collection[T]) bind(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if c.life.Err() != nil {
		return nil, nil, domain.ErrClosed
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	unhook := context.AfterFunc(c.life, cancel)
	return ctx, func() {
		unhook()
		cancel()
	}, nil
}

// refresh fetches the children of parent and applies them if still current.
// On failure the previous items are returned untouched along with the error.
func (c *collection[T]) refresh(ctx context.Context, parent int64, fetch func(context.Context) ([]T, error)) ([]T, error) {
	rctx, done, err := c.bind(ctx)
	if err != nil {
		return c.Items(), err
	}
	defer done()

	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.mu.Unlock()

	items, err := fetch(rctx)
	if err != nil {
		c.fail(err, "could not load "+c.resource)
		return c.Items(), err
	}
	if items == nil {
		items = []T{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.life.Err() != nil {
		return clone(c.items), domain.ErrClosed
	}
	if seq <= c.applied {
		metrics.StaleResponsesTotal.WithLabelValues(c.resource).Inc()
		c.log.Debug().Uint64("seq", seq).Uint64("applied", c.applied).Msg("discarding stale response")
		return clone(c.items), nil
	}
	c.applied = seq
	c.parent = parent
	c.loaded = true
	c.items = items
	return clone(items), nil
}

// mutate runs a write and, when it succeeds, refetches the collection of
// parent. A failed write leaves the cached items as they were. With no known
// parent there is nothing to refetch and the cache is returned as is.
func (c *collection[T]) mutate(ctx context.Context, parent int64, action string, op func(context.Context) error, fetch func(context.Context) ([]T, error)) ([]T, error) {
	wctx, done, err := c.bind(ctx)
	if err != nil {
		return c.Items(), err
	}
	err = op(wctx)
	done()
	if err != nil {
		c.fail(err, fmt.Sprintf("could not %s %s", action, c.resource))
		return c.Items(), err
	}
	if parent == 0 {
		return c.Items(), nil
	}
	return c.refresh(ctx, parent, fetch)
}

// reject reports a locally invalid input without touching the network.
func (c *collection[T]) reject(err error) ([]T, error) {
	c.notifier.Error(err.Error())
	return c.Items(), err
}

func (c *collection[T]) fail(err error, msg string) {
	if errors.Is(err, domain.ErrClosed) || errors.Is(err, context.Canceled) {
		return
	}
	c.log.Warn().Err(err).Msg(msg)
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = msg + ": " + apiErr.Message
	}
	c.notifier.Error(msg)
}

// Items returns a copy of the last applied collection.
func (c *collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clone(c.items)
}

// Parent returns the parent id of the last applied fetch and whether any
// fetch has been applied yet.
func (c *collection[T]) Parent() (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.parent, c.loaded
}

// parentOr returns id, or the parent of the cached collection when id is 0.
func (c *collection[T]) parentOr(id int64) int64 {
	if id != 0 {
		return id
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.parent
}

// Reset empties the cache and invalidates every in-flight fetch.
func (c *collection[T]) Reset() {
	c.mu.Lock()
	c.applied = c.issued
	c.parent = 0
	c.loaded = false
	c.items = []T{}
	c.mu.Unlock()
}

// Close cancels in-flight requests. Calls made after Close return ErrClosed.
func (c *collection[T]) Close() {
	c.stop()
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

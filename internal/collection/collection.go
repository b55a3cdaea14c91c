// Package collection keeps an in-memory snapshot of one remote collection.
// Lists replace the snapshot wholesale; mutations run remotely and are
// followed by a fresh list.
package collection

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/marketplace-admin/pkg/errors"
	"github.com/jwalitptl/marketplace-admin/pkg/metrics"
)

// Fetcher lists every item of the collection in remote order.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

type Snapshot[T any] struct {
	Items     []T       `json:"items"`
	Loading   bool      `json:"loading"`
	Error     string    `json:"error,omitempty"`
	FetchedAt time.Time `json:"fetchedAt,omitempty"`
}

type Collection[T any] struct {
	name     string
	fallback string
	fetch    Fetcher[T]
	metrics  *metrics.Metrics
	logger   *zerolog.Logger

	mu        sync.RWMutex
	items     []T
	loading   bool
	errMsg    string
	fetchedAt time.Time
	now       func() time.Time
}

// New creates an empty collection. fallback is the message stored when a
// list failure carries no text, e.g. "Failed to fetch providers".
func New[T any](name, fallback string, fetch Fetcher[T], m *metrics.Metrics, logger *zerolog.Logger) *Collection[T] {
	return &Collection[T]{
		name:     name,
		fallback: fallback,
		fetch:    fetch,
		metrics:  m,
		logger:   logger,
		items:    []T{},
		now:      time.Now,
	}
}

func (c *Collection[T]) Name() string {
	return c.name
}

// Refresh lists the collection. On failure the previous items are kept and
// the error message is stored; the loading flag is cleared either way.
func (c *Collection[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	items, err := c.fetch(ctx)
	c.metrics.ObserveRefresh(c.name, len(items), err)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.errMsg = errors.Message(err, c.fallback)
		c.logger.Error().Err(err).Str("collection", c.name).Msg("failed to refresh collection")
		return err
	}
	if items == nil {
		items = []T{}
	}
	c.items = items
	c.errMsg = ""
	c.fetchedAt = c.now()
	return nil
}

// Snapshot returns a copy of the current state.
func (c *Collection[T]) Snapshot() Snapshot[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot[T]{
		Items:     slices.Clone(c.items),
		Loading:   c.loading,
		Error:     c.errMsg,
		FetchedAt: c.fetchedAt,
	}
}

// Find returns the first item of the snapshot matching fn.
func (c *Collection[T]) Find(fn func(T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if fn(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Mutate runs a remote mutation and, only if it succeeds, refreshes the
// collection. The snapshot is never changed optimistically. A failed
// re-fetch after a successful mutation is stored on the snapshot but does
// not fail the mutation.
func (c *Collection[T]) Mutate(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		c.logger.Warn().Err(err).Str("collection", c.name).Str("operation", op).Msg("mutation failed")
		return err
	}
	if err := c.Refresh(ctx); err != nil {
		c.logger.Warn().Err(err).Str("collection", c.name).Str("operation", op).Msg("refresh after mutation failed")
	}
	return nil
}

// SetError records a message on the snapshot without touching the items.
func (c *Collection[T]) SetError(msg string) {
	c.mu.Lock()
	c.errMsg = msg
	c.mu.Unlock()
}

// Package resource caches one entity collection for a client and patches it after writes.
package resource

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Notifier surfaces failures to the user. The action is one of load, add, update or remove.
type Notifier interface {
	Notify(action string, err error)
}

type NotifyFunc func(action string, err error)

func (f NotifyFunc) Notify(action string, err error) { f(action, err) }

type Loader[T any] func(ctx context.Context) ([]T, error)

// Collection holds the last successfully loaded rows of one resource. Writes go to the remote
// first and the cache is patched only when they succeed.
type Collection[T any] struct {
	name     string
	load     Loader[T]
	key      func(T) uuid.UUID
	notifier Notifier

	mu       sync.Mutex
	items    []T
	loading  bool
	fetching bool
	loaded   bool
	err      error
	fetchGen uint64
	version  uint64
	closed   bool

	// pending holds writes that landed while a fetch was in flight. They are replayed over
	// the fetched rows, which may predate them.
	pending []patch[T]
}

type patch[T any] func(items []T) []T

func NewCollection[T any](name string, load Loader[T], key func(T) uuid.UUID, notifier Notifier) *Collection[T] {
	if notifier == nil {
		notifier = NotifyFunc(func(string, error) {})
	}

	return &Collection[T]{name: name, load: load, key: key, notifier: notifier, loading: true}
}

// Fetch reloads the collection. On failure the previous rows are kept.
func (c *Collection[T]) Fetch(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}

	c.fetchGen++
	gen := c.fetchGen
	c.loading = true
	c.fetching = true
	c.mu.Unlock()

	rows, err := c.load(ctx)

	c.mu.Lock()

	// A newer fetch or Close owns the state now.
	if c.closed || gen != c.fetchGen {
		c.mu.Unlock()
		return err
	}

	c.loading = false
	c.fetching = false
	c.loaded = true
	c.err = err

	if err == nil {
		for _, p := range c.pending {
			rows = p(rows)
		}

		c.items = rows
		c.version++
	}

	c.pending = nil

	c.mu.Unlock()

	if err != nil {
		c.notifier.Notify("load", fmt.Errorf("loading %s: %w", c.name, err))
	}

	return err
}

// Add creates a row remotely and prepends it, matching the newest-first lists.
func (c *Collection[T]) Add(ctx context.Context, create func(ctx context.Context) (T, error)) (T, error) {
	row, err := create(ctx)
	if err != nil {
		c.notifier.Notify("add", fmt.Errorf("adding %s: %w", c.name, err))

		var zero T

		return zero, err
	}

	c.apply(func(items []T) []T { return c.upsert(items, row, true) })

	return row, nil
}

// Update writes remotely and swaps the cached row with the same key.
func (c *Collection[T]) Update(ctx context.Context, update func(ctx context.Context) (T, error)) (T, error) {
	row, err := update(ctx)
	if err != nil {
		c.notifier.Notify("update", fmt.Errorf("updating %s: %w", c.name, err))

		var zero T

		return zero, err
	}

	c.apply(func(items []T) []T { return c.upsert(items, row, false) })

	return row, nil
}

// Remove deletes remotely and drops the cached row.
func (c *Collection[T]) Remove(ctx context.Context, id uuid.UUID, remove func(ctx context.Context, id uuid.UUID) error) error {
	if err := remove(ctx, id); err != nil {
		c.notifier.Notify("remove", fmt.Errorf("removing %s: %w", c.name, err))
		return err
	}

	c.apply(func(items []T) []T {
		return slices.DeleteFunc(slices.Clone(items), func(it T) bool { return c.key(it) == id })
	})

	return nil
}

// apply patches the cache after a successful write and remembers the patch for an in-flight
// fetch. Patches must be idempotent: the fetched rows may already include the write.
func (c *Collection[T]) apply(p patch[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.items = p(c.items)
	c.version++

	if c.fetching {
		c.pending = append(c.pending, p)
	}
}

// upsert swaps the row with the same key. A missing row is prepended when insert is set,
// matching the newest-first lists.
func (c *Collection[T]) upsert(items []T, row T, insert bool) []T {
	id := c.key(row)

	if i := slices.IndexFunc(items, func(it T) bool { return c.key(it) == id }); i >= 0 {
		items = slices.Clone(items)
		items[i] = row

		return items
	}

	if !insert {
		return items
	}

	return append([]T{row}, items...)
}

// Items returns a copy of the cached rows.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.items)
}

// Version changes whenever the cached rows change. Derived values can key on it.
func (c *Collection[T]) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.version
}

func (c *Collection[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loading
}

// Loaded reports whether the first fetch has finished, successfully or not.
func (c *Collection[T]) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loaded
}

// Err is the error of the latest fetch.
func (c *Collection[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.err
}

// Close disposes the collection. Fetches and writes that finish afterwards leave it untouched.
func (c *Collection[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
}

type Loadable interface {
	Loaded() bool
}

// AllLoaded reports whether every collection finished its first fetch. Aggregates should only
// be computed once it is true.
func AllLoaded(cs ...Loadable) bool {
	for _, c := range cs {
		if !c.Loaded() {
			return false
		}
	}

	return true
}

package query

import (
	"slices"
	"sync"
)

// Collection is an ordered, append-only set of values that can be queried
// any number of times. Queries hold a read lock for the whole walk, so a
// concurrent Push is never observed half-way through a query.
type Collection struct {
	mu    sync.RWMutex
	items []any
}

// New builds a collection with one element per argument.
func New(values ...any) *Collection {
	return From(values)
}

// From builds a collection from the elements of items. The slice is copied.
func From(items []any) *Collection {
	return &Collection{items: slices.Clone(items)}
}

// Push appends values to the end of the collection.
func (c *Collection) Push(values ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = append(c.items, values...)
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// At returns the element at index i.
func (c *Collection) At(i int) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i < 0 || i >= len(c.items) {
		return nil, false
	}
	return c.items[i], true
}

// All returns a copy of every element.
func (c *Collection) All() []any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.items)
}

// Query selects the elements matching pattern. Matching is strict unless
// WithStrict(false) is given.
func (c *Collection) Query(pattern any, opts ...Option) []any {
	return c.Select(NewOptions(pattern, opts...))
}

// QueryConfig selects using a configuration value; see FromConfig.
func (c *Collection) QueryConfig(cfg map[string]any) []any {
	return c.Select(FromConfig(cfg))
}

// Select runs o against a consistent view of the collection.
func (c *Collection) Select(o Options) []any {
	out, _ := c.SelectWithStats(o)
	return out
}

func (c *Collection) SelectWithStats(o Options) ([]any, Stats) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return RunWithStats(c.items, o)
}

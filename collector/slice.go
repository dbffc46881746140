package collector

import (
	"context"
	"sync"
)

// SliceCollector replays a fixed slice of events and then ends its stream.
// Useful for tests, backfills and demos.
type SliceCollector[E any] struct {
	name  string
	items []E

	stopOnce sync.Once
	stopped  chan struct{}
}

// NewSlice creates a collector that emits items in order.
func NewSlice[E any](name string, items []E) *SliceCollector[E] {
	return &SliceCollector[E]{
		name:    name,
		items:   items,
		stopped: make(chan struct{}),
	}
}

// Name implements core.Collector.
func (c *SliceCollector[E]) Name() string { return c.name }

// Events implements core.Collector.
func (c *SliceCollector[E]) Events(ctx context.Context) (<-chan E, error) {
	out := make(chan E)

	go func() {
		defer close(out)
		for _, item := range c.items {
			select {
			case out <- item:
			case <-ctx.Done():
				return
			case <-c.stopped:
				return
			}
		}
	}()

	return out, nil
}

// Stop implements core.Collector. Safe to call multiple times.
func (c *SliceCollector[E]) Stop() {
	c.stopOnce.Do(func() { close(c.stopped) })
}

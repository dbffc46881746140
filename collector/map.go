package collector

import (
	"context"

	"github.com/hupe1980/eventmesh/core"
)

// MapCollector wraps an inner Collector[E] and transforms each event into F,
// letting a pipeline built around one event type consume sources of another.
type MapCollector[E, F any] struct {
	inner core.Collector[E]
	fn    func(E) F
}

// NewMap wraps inner with the transform fn.
func NewMap[E, F any](inner core.Collector[E], fn func(E) F) *MapCollector[E, F] {
	return &MapCollector[E, F]{inner: inner, fn: fn}
}

// Name implements core.Collector.
func (c *MapCollector[E, F]) Name() string { return c.inner.Name() }

// Events implements core.Collector.
func (c *MapCollector[E, F]) Events(ctx context.Context) (<-chan F, error) {
	in, err := c.inner.Events(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan F)
	go func() {
		defer close(out)
		for item := range in {
			select {
			case out <- c.fn(item):
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// Stop implements core.Collector.
func (c *MapCollector[E, F]) Stop() { c.inner.Stop() }

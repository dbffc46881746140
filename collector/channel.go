package collector

import (
	"context"
	"sync"
)

// ChannelCollector adapts an existing receive-only Go channel into a
// Collector, forwarding every item until the source closes, the run context
// is cancelled or Stop is called.
type ChannelCollector[E any] struct {
	name   string
	source <-chan E

	stopOnce sync.Once
	stopped  chan struct{}
}

// NewChannel wraps source as a Collector.
func NewChannel[E any](name string, source <-chan E) *ChannelCollector[E] {
	return &ChannelCollector[E]{
		name:    name,
		source:  source,
		stopped: make(chan struct{}),
	}
}

// Name implements core.Collector.
func (c *ChannelCollector[E]) Name() string { return c.name }

// Events implements core.Collector.
func (c *ChannelCollector[E]) Events(ctx context.Context) (<-chan E, error) {
	out := make(chan E)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.stopped:
				return
			case item, ok := <-c.source:
				if !ok {
					return
				}
				select {
				case out <- item:
				case <-ctx.Done():
					return
				case <-c.stopped:
					return
				}
			}
		}
	}()

	return out, nil
}

// Stop implements core.Collector. Safe to call multiple times.
func (c *ChannelCollector[E]) Stop() {
	c.stopOnce.Do(func() { close(c.stopped) })
}

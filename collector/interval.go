package collector

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Tick is the event emitted by IntervalCollector.
type Tick struct {
	// ID is a unique identifier for this tick.
	ID string
	// Seq increments by one per tick, starting at 1.
	Seq uint64
	// Time is when the tick fired.
	Time time.Time
}

// IntervalCollector emits a Tick every interval. It is the simplest possible
// event source and doubles as a heartbeat for pipelines whose strategies are
// time-driven.
type IntervalCollector struct {
	name     string
	interval time.Duration

	stopOnce sync.Once
	stopped  chan struct{}
}

// NewInterval creates a collector that ticks every interval.
func NewInterval(name string, interval time.Duration) *IntervalCollector {
	return &IntervalCollector{
		name:     name,
		interval: interval,
		stopped:  make(chan struct{}),
	}
}

// Name implements core.Collector.
func (c *IntervalCollector) Name() string { return c.name }

// Events implements core.Collector.
func (c *IntervalCollector) Events(ctx context.Context) (<-chan Tick, error) {
	out := make(chan Tick, 1)

	go func() {
		defer close(out)

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		var seq uint64
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.stopped:
				return
			case t := <-ticker.C:
				seq++
				tick := Tick{ID: uuid.NewString(), Seq: seq, Time: t}
				select {
				case out <- tick:
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
func (c *IntervalCollector) Stop() {
	c.stopOnce.Do(func() { close(c.stopped) })
}

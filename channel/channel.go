package channel

import (
	"sync"
	"sync/atomic"

	"github.com/hupe1980/eventmesh/logging"
)

// OnLagBehavior controls how a receiver surfaces a lag condition.
type OnLagBehavior int

const (
	// OnLagLogOnly logs a warning through the channel's logger and keeps
	// delivering. This is the default.
	OnLagLogOnly OnLagBehavior = iota
	// OnLagThrow makes the receiver return a *LagError from Next once per
	// report interval. The receiver keeps operating afterwards.
	OnLagThrow
)

// DefaultLagReportInterval is used when a Policy leaves LagReportInterval zero.
const DefaultLagReportInterval = 100

// Policy tunes per-receiver buffering and lag reporting.
type Policy struct {
	// MaxLag is the maximum number of items buffered per receiver before the
	// oldest item is evicted. Defaults to the channel capacity.
	MaxLag int
	// OnLag selects how a lag condition is surfaced.
	OnLag OnLagBehavior
	// LagReportInterval is the number of evictions between lag reports.
	// Defaults to DefaultLagReportInterval.
	LagReportInterval int
}

// Options configures a Channel instance.
type Options struct {
	// Policy tunes per-receiver buffering and lag handling.
	Policy Policy
	// Name identifies the channel in log output.
	Name string
	// Logger receives lag warnings. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Channel is a multi-producer, multi-consumer broadcast primitive. Every item
// sent is delivered to every receiver subscribed at send time. Senders never
// block; slow receivers drop their oldest buffered items instead.
//
// A Channel transitions Open -> Closed exactly once and never reopens.
type Channel[T any] struct {
	name     string
	capacity int
	policy   Policy
	logger   logging.Logger

	mu        sync.RWMutex
	receivers map[*Receiver[T]]struct{}
	closed    bool

	sent atomic.Uint64
}

// New creates a broadcast channel whose receivers buffer up to capacity items.
func New[T any](capacity int, optFns ...func(o *Options)) *Channel[T] {
	opts := Options{
		Name:   "channel",
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if capacity <= 0 {
		capacity = 1
	}

	policy := opts.Policy
	if policy.MaxLag <= 0 {
		policy.MaxLag = capacity
	}
	if policy.LagReportInterval <= 0 {
		policy.LagReportInterval = DefaultLagReportInterval
	}

	return &Channel[T]{
		name:      opts.Name,
		capacity:  capacity,
		policy:    policy,
		logger:    opts.Logger,
		receivers: make(map[*Receiver[T]]struct{}),
	}
}

// Send delivers item to every currently subscribed receiver. By the time Send
// returns, each receiver has either handed the item to a suspended consumer or
// buffered it. Returns ErrClosed if the channel has been closed.
func (c *Channel[T]) Send(item T) error {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return ErrClosed
	}
	receivers := make([]*Receiver[T], 0, len(c.receivers))
	for r := range c.receivers {
		receivers = append(receivers, r)
	}
	c.mu.RUnlock()

	c.sent.Add(1)

	// Fan-out runs on a snapshot so Subscribe/Close may mutate the registry
	// concurrently without invalidating the iteration.
	for _, r := range receivers {
		r.deliver(item)
	}

	return nil
}

// TrySend behaves like Send but reports failure as a boolean instead of an
// error, for call sites that must not propagate channel-closed.
func (c *Channel[T]) TrySend(item T) bool {
	return c.Send(item) == nil
}

// Subscribe registers and returns a new receiver. The receiver only observes
// items sent after this call; there is no retroactive replay. Returns
// ErrClosed if the channel has been closed.
func (c *Channel[T]) Subscribe() (*Receiver[T], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}

	r := &Receiver[T]{
		ch:          c,
		name:        c.name,
		maxLag:      c.policy.MaxLag,
		onLag:       c.policy.OnLag,
		reportEvery: uint64(c.policy.LagReportInterval),
		logger:      c.logger,
	}
	c.receivers[r] = struct{}{}

	return r, nil
}

// Close marks the channel closed, closes every currently subscribed receiver
// (waking their suspended consumers with end-of-stream) and clears the
// receiver set. Close is idempotent.
func (c *Channel[T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	receivers := make([]*Receiver[T], 0, len(c.receivers))
	for r := range c.receivers {
		receivers = append(receivers, r)
	}
	c.receivers = make(map[*Receiver[T]]struct{})
	c.mu.Unlock()

	for _, r := range receivers {
		r.closeInternal()
	}
}

// Closed reports whether the channel has been closed.
func (c *Channel[T]) Closed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Capacity returns the per-receiver buffer capacity.
func (c *Channel[T]) Capacity() int { return c.capacity }

// Name returns the channel's log name.
func (c *Channel[T]) Name() string { return c.name }

// Stats contains a snapshot of channel-wide counters.
type Stats struct {
	// Sent is the number of successful Send calls.
	Sent uint64
	// Receivers is the number of currently subscribed receivers.
	Receivers int
	// Dropped is the sum of items evicted across all current receivers.
	Dropped uint64
}

// Stats returns a point-in-time snapshot. Concurrent sends may advance the
// counters after Stats returns.
func (c *Channel[T]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Stats{
		Sent:      c.sent.Load(),
		Receivers: len(c.receivers),
	}
	for r := range c.receivers {
		s.Dropped += r.Lag()
	}

	return s
}

// remove deregisters a receiver. Called from Receiver.Close.
func (c *Channel[T]) remove(r *Receiver[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.receivers, r)
}

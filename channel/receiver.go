package channel

import (
	"context"
	"sync"

	"github.com/hupe1980/eventmesh/logging"
)

// Receiver is one subscriber's view of a Channel: its own FIFO buffer, its own
// lag counter and its own queue of suspended consumers. Receivers are created
// by Channel.Subscribe and are safe for concurrent use, though a single
// consumer goroutine per receiver is the expected pattern.
//
// A Receiver transitions Open -> Closed exactly once and never reopens.
type Receiver[T any] struct {
	ch          *Channel[T]
	name        string
	maxLag      int
	onLag       OnLagBehavior
	reportEvery uint64
	logger      logging.Logger

	mu         sync.Mutex
	buf        []T
	waiters    []chan T
	closed     bool
	lag        uint64
	pendingLag uint64 // nonzero: surface *LagError on the next Next call
}

// deliver is invoked by the owning channel's Send fan-out. If a consumer is
// suspended in Next, the item is handed directly to the oldest waiter.
// Otherwise it is buffered, evicting the oldest item once the buffer exceeds
// maxLag.
func (r *Receiver[T]) deliver(item T) {
	r.mu.Lock()

	if r.closed {
		r.mu.Unlock()
		return
	}

	if len(r.waiters) > 0 {
		// Waiters only exist while the buffer is empty, so direct handoff
		// preserves FIFO order. The waiter channel has capacity 1 and receives
		// exactly one send, so this never blocks.
		w := r.waiters[0]
		r.waiters = r.waiters[1:]
		w <- item
		r.mu.Unlock()
		return
	}

	r.buf = append(r.buf, item)

	var report uint64
	if len(r.buf) > r.maxLag {
		r.buf = r.buf[1:]
		r.lag++
		if r.lag%r.reportEvery == 0 {
			report = r.lag
			if r.onLag == OnLagThrow {
				r.pendingLag = report
			}
		}
	}
	onLag := r.onLag
	r.mu.Unlock()

	if report > 0 && onLag == OnLagLogOnly {
		r.logger.Warn("channel receiver lagging", "channel", r.name, "dropped", report)
	}
}

// Next returns the oldest pending item. If the buffer is empty the caller is
// suspended until an item arrives (delivered directly, FIFO across waiters),
// the receiver is closed (ErrClosed) or ctx is cancelled (ctx.Err()).
//
// With an OnLagThrow policy, Next returns a *LagError once per crossed report
// interval before resuming item delivery.
func (r *Receiver[T]) Next(ctx context.Context) (T, error) {
	var zero T

	r.mu.Lock()

	if r.closed {
		r.mu.Unlock()
		return zero, ErrClosed
	}

	if r.pendingLag > 0 {
		n := r.pendingLag
		r.pendingLag = 0
		r.mu.Unlock()
		return zero, &LagError{Count: n}
	}

	if len(r.buf) > 0 {
		item := r.buf[0]
		r.buf = r.buf[1:]
		r.mu.Unlock()
		return item, nil
	}

	w := make(chan T, 1)
	r.waiters = append(r.waiters, w)
	r.mu.Unlock()

	select {
	case item, ok := <-w:
		if !ok {
			return zero, ErrClosed
		}
		return item, nil

	case <-ctx.Done():
		r.mu.Lock()
		for i, q := range r.waiters {
			if q == w {
				r.waiters = append(r.waiters[:i], r.waiters[i+1:]...)
				break
			}
		}
		// A concurrent deliver may already have handed us an item; put it back
		// at the front so it is not lost.
		select {
		case item, ok := <-w:
			if ok {
				r.buf = append([]T{item}, r.buf...)
			}
		default:
		}
		r.mu.Unlock()
		return zero, ctx.Err()
	}
}

// Close wakes every suspended consumer with end-of-stream, clears the waiter
// queue and deregisters the receiver from its owning channel. Close is
// idempotent.
func (r *Receiver[T]) Close() {
	r.ch.remove(r)
	r.closeInternal()
}

// closeInternal closes the receiver without touching the channel registry.
// Channel.Close uses it after clearing the registry itself.
func (r *Receiver[T]) closeInternal() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	waiters := r.waiters
	r.waiters = nil
	r.buf = nil
	r.mu.Unlock()

	for _, w := range waiters {
		close(w)
	}
}

// Closed reports whether the receiver has been closed.
func (r *Receiver[T]) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Len returns the number of currently buffered items.
func (r *Receiver[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buf)
}

// Lag returns the total number of items evicted from this receiver's buffer.
func (r *Receiver[T]) Lag() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lag
}

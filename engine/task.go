package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/eventmesh/channel"
	"github.com/hupe1980/eventmesh/core"
)

// Handle identifies one supervised task and exposes its completion state.
type Handle struct {
	id   string
	name string
	kind string

	done chan struct{}
	err  error // written once before done is closed
}

func newHandle(kind, name string) *Handle {
	return &Handle{
		id:   uuid.NewString(),
		name: name,
		kind: kind,
		done: make(chan struct{}),
	}
}

// ID returns the unique task identifier.
func (h *Handle) ID() string { return h.id }

// Name returns the component name the task supervises.
func (h *Handle) Name() string { return h.name }

// Kind returns "collector", "strategy" or "executor".
func (h *Handle) Kind() string { return h.kind }

// Done is closed when the task has finished.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Err returns the task's terminal error. Only valid after Done is closed;
// clean exits return nil.
func (h *Handle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

func (h *Handle) finish(err error) {
	h.err = err
	close(h.done)
}

// spawn runs fn in its own goroutine wrapped in a Handle.
func (e *Engine[E, A]) spawn(ctx context.Context, kind, name string, fn func(ctx context.Context) error) *Handle {
	h := newHandle(kind, name)

	go func() {
		err := fn(ctx)
		if err != nil {
			e.logger.Error("task terminated", "kind", kind, "task", name, "error", err)
		} else {
			e.logger.Debug("task finished", "kind", kind, "task", name)
		}
		h.finish(err)
	}()

	return h
}

// stopReceive reports whether a Next error ends the task loop. A closed
// channel and a cancelled run context are end-of-stream, not faults; a lag
// report is warned about and skipped. Lag is deliberately never counted as a
// task failure, whatever the receiver's OnLag policy is.
func (e *Engine[E, A]) stopReceive(ctx context.Context, name string, err error) bool {
	if errors.Is(err, channel.ErrClosed) || ctx.Err() != nil {
		return true
	}

	var lagErr *channel.LagError
	if errors.As(err, &lagErr) {
		e.logger.Warn("task fell behind, events dropped", "task", name, "dropped", lagErr.Count)
		return false
	}

	e.logger.Warn("task receive failed", "task", name, "error", err)

	return false
}

// handleFailure advances the task's retry state, sleeps through the backoff
// interval if one is due, and reports whether the loop must exit because the
// critical-error policy escalated to a full engine stop.
func (e *Engine[E, A]) handleFailure(ctx context.Context, retry *retryState, kind, name string, err error) (stop bool) {
	wait := retry.onFailure()
	e.logger.Warn("task iteration failed",
		"kind", kind,
		"task", name,
		"consecutive_errors", retry.consecutive,
		"backoff", wait,
		"error", err,
	)

	if e.config.StopOnCriticalError && retry.critical() {
		e.logger.Error("critical error threshold exceeded, stopping engine", "kind", kind, "task", name)
		// Stop waits for this task too, so it must run outside the loop's
		// goroutine path.
		go e.Stop(e.config.StopTimeout)
		return true
	}

	if wait > 0 {
		sleepCtx(ctx, wait)
	}

	return false
}

func (e *Engine[E, A]) collectorLoop(ctx context.Context, col core.Collector[E], events *channel.Channel[E]) error {
	retry := newRetryState(e.config.MaxConsecutiveErrors, e.config.InitialBackoff, e.config.MaxBackoff)

	var stream <-chan E
	for {
		if stream == nil {
			s, err := col.Events(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				if e.handleFailure(ctx, &retry, "collector", col.Name(), err) {
					return err
				}
				continue
			}
			stream = s
			retry.onSuccess()
		}

		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-stream:
			if !ok {
				// Collector streams are not restartable; end-of-stream ends
				// the task.
				return nil
			}
			if err := events.Send(ev); err != nil {
				if errors.Is(err, channel.ErrClosed) {
					return nil
				}
				if e.handleFailure(ctx, &retry, "collector", col.Name(), err) {
					return err
				}
				continue
			}
			retry.onSuccess()
		}
	}
}

func (e *Engine[E, A]) strategyLoop(ctx context.Context, st core.Strategy[E, A], rcv *channel.Receiver[E], sub core.Submitter[A]) error {
	retry := newRetryState(e.config.MaxConsecutiveErrors, e.config.InitialBackoff, e.config.MaxBackoff)

	for {
		ev, err := rcv.Next(ctx)
		if err != nil {
			if e.stopReceive(ctx, st.Name(), err) {
				return nil
			}
			continue
		}

		if err := st.ProcessEvent(ctx, ev, sub); err != nil {
			if e.handleFailure(ctx, &retry, "strategy", st.Name(), err) {
				return err
			}
			continue
		}
		retry.onSuccess()
	}
}

func (e *Engine[E, A]) executorLoop(ctx context.Context, ex core.Executor[A], rcv *channel.Receiver[A]) error {
	retry := newRetryState(e.config.MaxConsecutiveErrors, e.config.InitialBackoff, e.config.MaxBackoff)

	for {
		action, err := rcv.Next(ctx)
		if err != nil {
			if e.stopReceive(ctx, ex.Name(), err) {
				return nil
			}
			continue
		}

		if err := ex.Execute(ctx, action); err != nil {
			if e.handleFailure(ctx, &retry, "executor", ex.Name(), err) {
				return err
			}
			continue
		}
		retry.onSuccess()
	}
}

// sleepCtx sleeps for d or until ctx is cancelled, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

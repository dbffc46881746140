package core

import "context"

// Collector produces a lazy, possibly infinite stream of events from an
// external source (a poller, a timer, a message feed).
//
// Events is called once per engine run. The returned channel is closed by the
// collector when the stream ends or ctx is cancelled; the stream is not
// restartable. The ctx passed in is the engine's per-run context and is
// cancelled on forced shutdown, so long-running I/O inside the collector must
// observe it.
type Collector[E any] interface {
	// Name identifies the collector in logs and task handles.
	Name() string

	// Events starts the stream. Implementations should return quickly and do
	// their blocking work in a goroutine feeding the returned channel.
	Events(ctx context.Context) (<-chan E, error)

	// Stop requests early termination of the stream. The engine invokes it
	// during shutdown before closing its channels. Stop must be safe to call
	// multiple times and before Events.
	Stop()
}

// Strategy consumes events and emits zero or more actions through the
// provided submitter.
type Strategy[E, A any] interface {
	// Name identifies the strategy in logs and task handles.
	Name() string

	// ProcessEvent handles a single event. Returning an error feeds the
	// owning task's retry state; it never crashes sibling components.
	ProcessEvent(ctx context.Context, event E, submitter Submitter[A]) error
}

// StateSyncer is an optional Strategy capability: a one-shot hook the engine
// awaits before steady-state processing begins. A SyncState failure is fatal
// to engine startup and is propagated, not retried.
type StateSyncer[A any] interface {
	SyncState(ctx context.Context, submitter Submitter[A]) error
}

// Executor performs the side effect of a single action.
type Executor[A any] interface {
	// Name identifies the executor in logs and task handles.
	Name() string

	// Execute performs one action. Returning an error feeds the owning
	// task's retry state.
	Execute(ctx context.Context, action A) error
}

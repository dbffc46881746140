package engine

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/eventmesh/channel"
	"github.com/hupe1980/eventmesh/core"
	"github.com/hupe1980/eventmesh/logging"
)

// stopGraceWindow is the additional wait after the per-run context has been
// cancelled before Stop gives up on straggling tasks.
const stopGraceWindow = time.Second

// Engine wires N collectors, M strategies and K executors into one processing
// graph and owns its full lifecycle.
//
// Components are registered before Run; Run materializes the event and action
// channels and spawns one supervised task per component; Stop tears
// everything down within a bound. The Engine can be rerun after Stop
// completes. All public methods are safe for concurrent use.
type Engine[E, A any] struct {
	config Config
	logger logging.Logger

	mu         sync.Mutex
	collectors []core.Collector[E]
	strategies []core.Strategy[E, A]
	executors  []core.Executor[A]

	// Live run state, populated by Run and released by Stop.
	running   bool
	events    *channel.Channel[E]
	actions   *channel.Channel[A]
	tasks     []*Handle
	runCancel context.CancelFunc
}

// New creates an Engine with sensible defaults and optional configuration.
//
// Example:
//
//	eng := engine.New[MyEvent, MyAction](func(o *engine.Options) {
//	    o.Config.MaxConsecutiveErrors = 3
//	    o.Logger = logging.NewDefaultSlogLogger()
//	})
func New[E, A any](optFns ...func(o *Options)) *Engine[E, A] {
	opts := Options{
		Config: DefaultConfig,
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Engine[E, A]{
		config: opts.Config,
		logger: opts.Logger,
	}
}

// AddCollector registers a collector. Registration is valid before or between
// runs; no validation happens here.
func (e *Engine[E, A]) AddCollector(c core.Collector[E]) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.collectors = append(e.collectors, c)
}

// AddStrategy registers a strategy.
func (e *Engine[E, A]) AddStrategy(s core.Strategy[E, A]) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.strategies = append(e.strategies, s)
}

// AddExecutor registers an executor.
func (e *Engine[E, A]) AddExecutor(x core.Executor[A]) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.executors = append(e.executors, x)
}

// Run starts the processing graph and returns one task handle per registered
// component.
//
// It fails with *ConfigError when any of the three component collections is
// empty (checked before any channel exists, so a failed Run has no side
// effects), with ErrAlreadyRunning when a previous run has not been stopped,
// and with *SyncStateError when a strategy's one-shot state sync fails (the
// whole startup is aborted and torn down).
//
// ctx is the parent of the per-run context threaded into every task and
// collector; cancelling it is equivalent to a forced shutdown signal, though
// Stop remains the ordinary way to end a run.
func (e *Engine[E, A]) Run(ctx context.Context) ([]*Handle, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	if len(e.collectors) == 0 {
		e.mu.Unlock()
		return nil, &ConfigError{Reason: "no collectors registered"}
	}
	if len(e.strategies) == 0 {
		e.mu.Unlock()
		return nil, &ConfigError{Reason: "no strategies registered"}
	}
	if len(e.executors) == 0 {
		e.mu.Unlock()
		return nil, &ConfigError{Reason: "no executors registered"}
	}

	runID := uuid.NewString()
	runCtx, cancel := context.WithCancel(ctx)

	events := channel.New[E](e.config.EventChannelCapacity, func(o *channel.Options) {
		o.Name = "events"
		o.Policy = e.config.EventChannelPolicy
		o.Logger = e.logger
	})
	actions := channel.New[A](e.config.ActionChannelCapacity, func(o *channel.Options) {
		o.Name = "actions"
		o.Policy = e.config.ActionChannelPolicy
		o.Logger = e.logger
	})

	e.running = true
	e.events = events
	e.actions = actions
	e.runCancel = cancel
	e.tasks = nil

	collectors := slices.Clone(e.collectors)
	strategies := slices.Clone(e.strategies)
	executors := slices.Clone(e.executors)
	e.mu.Unlock()

	var handles []*Handle

	abort := func() {
		cancel()
		events.Close()
		actions.Close()
		for _, h := range handles {
			<-h.done
		}
		e.mu.Lock()
		e.running = false
		e.events = nil
		e.actions = nil
		e.tasks = nil
		e.runCancel = nil
		e.mu.Unlock()
	}

	// Executors subscribe before any strategy can submit, so no action is
	// ever produced without a consumer attached.
	for _, ex := range executors {
		rcv, err := actions.Subscribe()
		if err != nil {
			abort()
			return nil, err
		}
		handles = append(handles, e.spawn(runCtx, "executor", ex.Name(), func(ctx context.Context) error {
			return e.executorLoop(ctx, ex, rcv)
		}))
	}

	for _, st := range strategies {
		rcv, err := events.Subscribe()
		if err != nil {
			abort()
			return nil, err
		}

		sub := newChannelSubmitter(actions, st.Name(), e.logger)

		if syncer, ok := any(st).(core.StateSyncer[A]); ok {
			e.logger.Debug("syncing strategy state", "strategy", st.Name())
			if err := syncer.SyncState(runCtx, sub); err != nil {
				abort()
				return nil, &SyncStateError{Strategy: st.Name(), Err: err}
			}
		}

		handles = append(handles, e.spawn(runCtx, "strategy", st.Name(), func(ctx context.Context) error {
			return e.strategyLoop(ctx, st, rcv, sub)
		}))
	}

	for _, col := range collectors {
		handles = append(handles, e.spawn(runCtx, "collector", col.Name(), func(ctx context.Context) error {
			return e.collectorLoop(ctx, col, events)
		}))
	}

	e.mu.Lock()
	e.tasks = handles
	e.mu.Unlock()

	e.logger.Info("engine started",
		"run_id", runID,
		"collectors", len(collectors),
		"strategies", len(strategies),
		"executors", len(executors),
	)

	return slices.Clone(handles), nil
}

// RunAndJoin runs the engine and blocks until every task has finished. Task
// level failures are logged, never returned; only startup failures propagate.
// When ctx is cancelled the engine is stopped with the configured timeout
// before RunAndJoin returns.
func (e *Engine[E, A]) RunAndJoin(ctx context.Context) error {
	handles, err := e.Run(ctx)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		for _, h := range handles {
			<-h.Done()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		e.Stop(e.config.StopTimeout)
		<-done
	}

	return nil
}

// Stop shuts the current run down. It is an idempotent no-op when the engine
// is not running.
//
// Shutdown is cooperative first: the running flag is cleared, every
// collector's Stop hook is invoked and both channels are closed, which wakes
// all blocked consumers with end-of-stream. Stop then waits up to timeout for
// the tasks to finish; on expiry the per-run context is cancelled (the forced
// shutdown signal long-running collector I/O observes) followed by a short
// grace window. The run's channels and task handles are always released so a
// subsequent Run starts clean.
//
// A non-positive timeout falls back to Config.StopTimeout.
func (e *Engine[E, A]) Stop(timeout time.Duration) {
	if timeout <= 0 {
		timeout = e.config.StopTimeout
	}

	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	events := e.events
	actions := e.actions
	tasks := e.tasks
	cancel := e.runCancel
	collectors := slices.Clone(e.collectors)
	e.mu.Unlock()

	for _, c := range collectors {
		c.Stop()
	}
	events.Close()
	actions.Close()

	done := make(chan struct{})
	go func() {
		for _, h := range tasks {
			<-h.done
		}
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		e.logger.Warn("stop timed out, forcing run context cancellation", "timeout", timeout)
		cancel()

		grace := time.NewTimer(stopGraceWindow)
		defer grace.Stop()
		select {
		case <-done:
		case <-grace.C:
			e.logger.Error("tasks did not exit within grace window")
		}
	}
	cancel()

	e.mu.Lock()
	e.events = nil
	e.actions = nil
	e.tasks = nil
	e.runCancel = nil
	e.mu.Unlock()

	e.logger.Info("engine stopped")
}

// IsRunning reports whether a run is active.
func (e *Engine[E, A]) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Tasks returns a snapshot of the current run's task handles, or nil when the
// engine is not running.
func (e *Engine[E, A]) Tasks() []*Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.tasks)
}

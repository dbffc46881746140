// Package engine implements the orchestration core of eventmesh.
//
// The Engine owns the full lifecycle of one processing graph: it materializes
// the event and action broadcast channels, spawns one supervised task per
// registered collector, strategy and executor, applies per-task retry and
// exponential backoff, and coordinates graceful shutdown within a bound.
//
// # Data Flow
//
//	Collector -> event channel -> (fan-out) -> each Strategy
//	          -> action channel -> (fan-out) -> each Executor
//
// Each strategy receives every event; each executor receives every action.
// Fan-out never blocks producers: a slow consumer drops its oldest buffered
// items instead (see the channel package).
//
// # Supervision
//
// Every component runs in its own goroutine wrapped in a shared retry loop.
// On a successful iteration the task's consecutive-error counter resets; on
// repeated failure the task backs off exponentially between iterations,
// bounded by Config.MaxBackoff. A misbehaving component degrades only itself.
// With Config.StopOnCriticalError set, a task whose counter exceeds twice
// Config.MaxConsecutiveErrors escalates to a full engine stop.
//
// # Shutdown
//
// Stop is cooperative first: it clears the running flag and closes both
// channels, which wakes every blocked consumer with end-of-stream. It then
// waits up to the given timeout for all tasks to finish; if the wait times
// out, the per-run context is cancelled so long-running collector I/O can
// abort, followed by a short grace window. Stop always releases the run's
// channels and task handles so a subsequent Run starts clean.
//
// # Error Propagation
//
// Only startup-time failures propagate out of Run: empty registrations
// (*ConfigError), a run already in progress (ErrAlreadyRunning) and a failed
// strategy state sync (*SyncStateError). Steady-state task errors are logged
// and drive the per-task retry state, never the caller.
package engine

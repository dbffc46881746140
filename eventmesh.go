// Package eventmesh provides a high-level façade over the engine and channel
// packages enabling rapid construction of event-processing pipelines. Most
// applications interact with this package by:
//  1. Creating an engine via New() (optionally overriding configuration and logging)
//  2. Registering one or more collectors, strategies and executors
//  3. Starting the pipeline with Run (or RunAndJoin) and ending it with Stop
//
// The façade delegates orchestration to engine.Engine while keeping setup
// ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically tune channel capacities and
// supply a structured logger.
//
// Example:
//
//	eng := eventmesh.New[Tick, Alert](func(o *eventmesh.Options) {
//	    o.Logger = logging.NewSlogLogger(logging.LogLevelInfo, "text", false)
//	})
//
//	eng.AddCollector(collector.NewInterval("heartbeat", time.Second))
//	eng.AddStrategy(core.NewStrategyFunc("threshold", decide))
//	eng.AddExecutor(executor.NewLog[Alert]("console"))
//
//	if err := eng.RunAndJoin(ctx); err != nil {
//	    log.Fatal(err)
//	}
package eventmesh

import (
	"github.com/hupe1980/eventmesh/engine"
	"github.com/hupe1980/eventmesh/logging"
)

// Options configures engine construction through the façade.
type Options struct {
	// Config contains operational parameters (channel capacities, retry
	// thresholds, backoff bounds). Defaults to engine.DefaultConfig.
	Config engine.Config

	// Logger defaults to NoOp logger if nil.
	Logger logging.Logger
}

// DefaultConfig returns a copy of the engine's default configuration, handy
// as a starting point for targeted overrides.
func DefaultConfig() engine.Config {
	return engine.DefaultConfig
}

// New creates an engine for pipelines carrying events of type E and actions
// of type A. Any unset option keeps its default.
func New[E, A any](optFns ...func(o *Options)) *engine.Engine[E, A] {
	opts := Options{
		Config: engine.DefaultConfig,
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return engine.New[E, A](func(o *engine.Options) {
		o.Config = opts.Config
		o.Logger = opts.Logger
	})
}

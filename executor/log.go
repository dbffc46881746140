package executor

import (
	"context"

	"github.com/hupe1980/eventmesh/logging"
)

// LogExecutor logs every action it receives. Useful as the terminal stage of
// observability-only pipelines and as a debugging aid alongside real
// executors.
type LogExecutor[A any] struct {
	name   string
	logger logging.Logger
}

// LogOptions configures a LogExecutor.
type LogOptions struct {
	// Logger receives the action log lines. Defaults to slog.Default().
	Logger logging.Logger
}

// NewLog creates an executor that logs actions at info level.
func NewLog[A any](name string, optFns ...func(o *LogOptions)) *LogExecutor[A] {
	opts := LogOptions{
		Logger: logging.NewDefaultSlogLogger(),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &LogExecutor[A]{name: name, logger: opts.Logger}
}

// Name implements core.Executor.
func (x *LogExecutor[A]) Name() string { return x.name }

// Execute implements core.Executor.
func (x *LogExecutor[A]) Execute(_ context.Context, action A) error {
	x.logger.Info("action received", "executor", x.name, "action", action)
	return nil
}

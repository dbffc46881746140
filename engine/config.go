package engine

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/eventmesh/channel"
	"github.com/hupe1980/eventmesh/logging"
)

// Config defines tuning parameters for the Engine's operational behavior.
//
// The channel capacities bound per-receiver buffering; the retry fields shape
// the shared supervised task loop. Channel-level lag handling is configured
// per channel via the embedded policies.
type Config struct {
	// EventChannelCapacity sets the per-receiver buffer size of the event
	// channel. Larger buffers tolerate slower strategies before dropping.
	EventChannelCapacity int

	// ActionChannelCapacity sets the per-receiver buffer size of the action
	// channel.
	ActionChannelCapacity int

	// EventChannelPolicy tunes lag handling on the event channel.
	EventChannelPolicy channel.Policy

	// ActionChannelPolicy tunes lag handling on the action channel.
	ActionChannelPolicy channel.Policy

	// MaxConsecutiveErrors is the number of consecutive task failures
	// tolerated before backoff kicks in.
	MaxConsecutiveErrors int

	// InitialBackoff is the first backoff interval of a failing task. The
	// interval doubles per further failure, bounded by MaxBackoff, and
	// resets on any success.
	InitialBackoff time.Duration

	// MaxBackoff bounds the exponential backoff interval.
	MaxBackoff time.Duration

	// StopTimeout bounds how long Stop waits for tasks to finish before the
	// per-run context is cancelled. Also used by RunAndJoin when it stops
	// the engine on context cancellation.
	StopTimeout time.Duration

	// StopOnCriticalError escalates a task whose consecutive-error counter
	// exceeds 2*MaxConsecutiveErrors to a full engine stop.
	StopOnCriticalError bool
}

// DefaultConfig provides production-ready default configuration values.
var DefaultConfig = Config{
	EventChannelCapacity:  512,
	ActionChannelCapacity: 512,
	MaxConsecutiveErrors:  10,
	InitialBackoff:        100 * time.Millisecond,
	MaxBackoff:            10 * time.Second,
	StopTimeout:           5 * time.Second,
	StopOnCriticalError:   false,
}

// Options configures an Engine instance using the functional options pattern.
type Options struct {
	// Config contains operational parameters for the engine behavior.
	// Defaults to DefaultConfig if not specified.
	Config Config

	// Logger provides structured logging for debugging and monitoring.
	// Defaults to NoOp logger if nil to ensure no logging dependencies.
	Logger logging.Logger
}

// fileConfig is the YAML representation of Config. Durations are expressed in
// milliseconds so config files stay free of Go duration syntax.
type fileConfig struct {
	Engine struct {
		EventChannelCapacity  int  `yaml:"event_channel_capacity"`
		ActionChannelCapacity int  `yaml:"action_channel_capacity"`
		MaxConsecutiveErrors  int  `yaml:"max_consecutive_errors"`
		InitialBackoffMS      int  `yaml:"initial_backoff_ms"`
		MaxBackoffMS          int  `yaml:"max_backoff_ms"`
		StopTimeoutMS         int  `yaml:"stop_timeout_ms"`
		StopOnCriticalError   bool `yaml:"stop_on_critical_error"`
	} `yaml:"engine"`
	EventChannel  filePolicy `yaml:"event_channel"`
	ActionChannel filePolicy `yaml:"action_channel"`
}

type filePolicy struct {
	MaxLag            int    `yaml:"max_lag"`
	OnLag             string `yaml:"on_lag"` // "log_only" (default) or "throw"
	LagReportInterval int    `yaml:"lag_report_interval"`
}

// LoadConfig reads a YAML config file and merges it over DefaultConfig.
// Omitted fields keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := DefaultConfig

	if fc.Engine.EventChannelCapacity > 0 {
		cfg.EventChannelCapacity = fc.Engine.EventChannelCapacity
	}
	if fc.Engine.ActionChannelCapacity > 0 {
		cfg.ActionChannelCapacity = fc.Engine.ActionChannelCapacity
	}
	if fc.Engine.MaxConsecutiveErrors > 0 {
		cfg.MaxConsecutiveErrors = fc.Engine.MaxConsecutiveErrors
	}
	if fc.Engine.InitialBackoffMS > 0 {
		cfg.InitialBackoff = time.Duration(fc.Engine.InitialBackoffMS) * time.Millisecond
	}
	if fc.Engine.MaxBackoffMS > 0 {
		cfg.MaxBackoff = time.Duration(fc.Engine.MaxBackoffMS) * time.Millisecond
	}
	if fc.Engine.StopTimeoutMS > 0 {
		cfg.StopTimeout = time.Duration(fc.Engine.StopTimeoutMS) * time.Millisecond
	}
	cfg.StopOnCriticalError = fc.Engine.StopOnCriticalError

	if cfg.EventChannelPolicy, err = fc.EventChannel.toPolicy(); err != nil {
		return Config{}, fmt.Errorf("event_channel: %w", err)
	}
	if cfg.ActionChannelPolicy, err = fc.ActionChannel.toPolicy(); err != nil {
		return Config{}, fmt.Errorf("action_channel: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (p filePolicy) toPolicy() (channel.Policy, error) {
	out := channel.Policy{
		MaxLag:            p.MaxLag,
		LagReportInterval: p.LagReportInterval,
	}
	switch p.OnLag {
	case "", "log_only":
		out.OnLag = channel.OnLagLogOnly
	case "throw":
		out.OnLag = channel.OnLagThrow
	default:
		return channel.Policy{}, fmt.Errorf("unknown on_lag behavior %q", p.OnLag)
	}
	return out, nil
}

func (c Config) validate() error {
	if c.InitialBackoff <= 0 {
		return fmt.Errorf("initial backoff must be positive")
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("max backoff must be >= initial backoff")
	}
	if c.MaxConsecutiveErrors < 1 {
		return fmt.Errorf("max consecutive errors must be >= 1")
	}
	return nil
}

package engine

import (
	"errors"
	"fmt"
)

// ErrAlreadyRunning is returned by Run when a previous run has not been
// stopped yet.
var ErrAlreadyRunning = errors.New("engine is already running")

// ConfigError reports an invalid engine setup detected at Run time, before
// any channel or task is created.
type ConfigError struct {
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("engine configuration error: %s", e.Reason)
}

// SyncStateError reports a failed one-shot state synchronization of a
// strategy. It aborts Run entirely; nothing keeps running afterwards.
type SyncStateError struct {
	Strategy string
	Err      error
}

// Error implements the error interface.
func (e *SyncStateError) Error() string {
	return fmt.Sprintf("strategy %s state sync failed: %v", e.Strategy, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *SyncStateError) Unwrap() error { return e.Err }

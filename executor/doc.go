// Package executor provides ready-made Executor implementations: a logging
// executor for observability-only pipelines, a function adapter, and a
// transforming wrapper for adapting one action type to another.
package executor

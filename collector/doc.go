// Package collector provides ready-made Collector implementations for common
// event sources: interval ticks, fixed slices, existing Go channels, and a
// transforming wrapper for adapting one event type to another.
//
// All collectors follow the same lifecycle: Events is called once per engine
// run and starts a goroutine feeding the returned stream; the stream closes
// when the source ends, the run context is cancelled or Stop is called.
package collector

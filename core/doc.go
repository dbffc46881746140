// Package core defines the capability contracts consumed by the eventmesh
// engine: Collector, Strategy, Executor and the Submitter handed to
// strategies.
//
// The pipeline is generic over two opaque payload types:
//
//   - E, the Event type produced by collectors and consumed by strategies
//   - A, the Action type emitted by strategies and performed by executors
//
// Data flows Collector -> event channel -> each Strategy -> action channel ->
// each Executor, with fan-out handled by the engine's broadcast channels.
//
// Optional capabilities are modelled as separate interfaces rather than
// nil-checked fields: a Strategy that needs one-time state synchronization
// additionally implements StateSyncer, and a Submitter that supports
// best-effort submission additionally implements TrySubmitter. Callers probe
// for them with type assertions, so presence or absence is part of the type.
package core

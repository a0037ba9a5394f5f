// Package dynamo provides the core body model and interfaces of the ball
// simulation.
//
//   - [Ball]: circular body with velocity, colour and deferred accumulators
//   - [Integrator]: advances a single ball by one time step
//   - [Resolver]: pairwise collision response
//   - [Metric], [Observer]: per-step measurement hooks
//
// # Deferred accumulators
//
// A resolver never mutates position or velocity directly. It adds to
// [Ball.DPos] and [Ball.DVel], and the orchestrator applies them once all
// pairs of a step have been visited, so the visiting order cannot bias a
// ball that touches several others at once.
//
// # Ownership
//
// Balls are plain values owned by one slice inside the simulator. Renderers
// and snapshots receive copies. Metrics and observers see the live slice
// only for the duration of the call and must not retain it.
package dynamo

// Package physics resolves contacts between balls and against the
// containing boundary.
//
//   - [Elastic]: pairwise mass-weighted elastic collision (mass ∝ r²)
//   - [Sweep]: all-pairs pass, each unordered pair visited once
//   - [Flush]: applies the deferred accumulators written by a sweep
//   - [Contain]: hard positional clamp against the boundary
//
// # Step order
//
// The orchestrator calls these in a fixed order each step:
//
//	physics.Sweep(balls, resolver)
//	physics.Flush(balls)
//	for i := range balls {
//	    physics.Contain(&balls[i], bound)
//	}
//
// Contain runs last so no collision of the same step can push a ball back
// through the boundary.
package physics

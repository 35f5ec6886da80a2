// Package schedule computes point-in-time schedules for IR graphs: a
// node-to-block assignment for floating nodes, a full per-block node order,
// and the block dominance relation.
//
// A Schedule is a value, not shared state. It describes the graph exactly as
// it was when Compute ran; any mutation of the graph afterwards makes the
// schedule stale, and stale schedules must not be read. Callers re-run
// Compute after mutating.
package schedule

// Package harness provides a conformance testing framework for the
// constant-replacement pass.
//
// A scenario is a YAML file describing a compilation unit: a universe of
// types (a CUE file), a compiling method, a control-flow graph with named
// constants and counter placeholders, and expectations about the
// transformed result. The harness builds the graph, runs the pass, and
// checks the expectations:
//
//   - an expected pass-error code, for scenarios exercising the error
//     taxonomy, or
//   - structural expectations: node counts per op, plus the standing
//     invariants that every resolution node dominates its users and that
//     no constant retains a non-replacement user.
//
// Passing scenarios can additionally be pinned with golden files: the
// transformed graph's dump is compared byte-for-byte against
// testdata/golden/{name}.golden, so any change to placement or node
// creation shows up as a diff.
package harness

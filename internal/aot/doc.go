// Package aot implements the constant-replacement pass that runs just
// before code emission.
//
// Constants embedded during compilation (type handles, object references,
// per-method counter placeholders) are only valid inside the compiling
// process image. The emitted code runs in a different image, so every such
// constant must become an explicit resolution sequence: a cheap indirect
// load when the AOT runtime guarantees the value is already resolved, or a
// full runtime resolution call otherwise, optionally forcing type
// initialization.
//
// The pass runs two ordered stages over one graph. Stage A rewrites counter
// placeholders into resolve-method-and-load-counters calls, synthesizing a
// type-handle hint constant for each method's declaring type. Stage B
// re-scans the grown graph and resolves all type and object constants,
// reusing dominating resolution work instead of duplicating it. Each stage
// computes a fresh schedule first; node insertion invalidates block and
// order information, so a schedule never outlives the stage it was computed
// for.
//
// Failures are fatal for the compilation unit. There is no retry path: the
// pass must not be re-run on a partially transformed graph.
package aot

// Package ir provides the graph intermediate representation transformed by
// the AOT pipeline.
//
// A Graph owns basic blocks and nodes. Fixed nodes sit in a block's ordered
// node list and carry control flow; floating nodes (constants, indirect
// loads, counter placeholders) have no block of their own and are assigned
// one by the scheduler. Usage edges are non-owning back-references: a node's
// usage list names the nodes reading it, one entry per input edge.
//
// Key design constraints:
//   - Node kinds form a closed tagged-variant set (NodeOp); classifying a
//     node never requires an open-ended type-test chain
//   - Mutation happens only through Graph methods, which keep usage lists
//     consistent with input lists
//   - Iterating a usage list while rewiring it is unsafe; Usages returns a
//     snapshot copy for exactly that reason
package ir

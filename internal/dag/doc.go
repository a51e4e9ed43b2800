// Package dag maintains the canonical execution order of a network graph.
//
// An Order is the explicit build context threaded through graph construction:
// the in-progress ordered node list plus the set of node identities already
// placed in it. Placing a node walks its input references backward, placing
// every not-yet-placed ancestor first (a depth-first post-order), so a chain
// authored as one nested expression and a chain authored step by step end up
// in the same forward order. Merge nodes with two inputs are handled by the
// same walk, with nodes reachable through several paths placed once.
package dag

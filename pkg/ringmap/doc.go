// Package ringmap computes a deterministic radial layout for a
// resource-dependency graph.
//
// Given a focal (root) node, its neighbors are arranged on concentric
// rings: the root at the canvas center, direct neighbors evenly spaced on
// an inner ring, two-hop neighbors fanned out in arcs behind their ring-1
// parents, and anything left over (orphans, nodes only reachable through
// cycles the ring walk misses) evenly spaced on an outer ring.
//
// [Compute] is pure: inputs are never mutated and identical inputs always
// produce identical output. Edge insertion order is the tie-break for
// otherwise-symmetric placements.
package ringmap

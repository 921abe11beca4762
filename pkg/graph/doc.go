// Package graph defines the resource-dependency graph model shared by all
// orbit components.
//
// A [Graph] is a flat list of nodes and edges keyed by string IDs. Nodes
// carry logical canvas coordinates that are assigned by the layout engine
// and later overridden by interactive dragging; edges are immutable once
// loaded and are treated as undirected adjacency by the layout.
//
// Provider payloads are normalized into this model at the boundary via
// [Normalize]: duplicate node IDs are dropped, labels are defaulted, and
// edges referencing unknown nodes are discarded rather than surfaced as
// errors.
package graph

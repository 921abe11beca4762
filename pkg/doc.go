// Package pkg provides the core libraries for orbit resource-graph
// exploration.
//
// # Overview
//
// Orbit lays out the dependency neighborhood of a cloud resource on
// concentric rings around it and makes the result explorable: pan, zoom,
// drag nodes, click through to neighbors. The pkg directory is organized
// into these areas:
//
//  1. [graph] - The resource-dependency graph model and normalization
//  2. [ringmap] - The radial ring layout engine
//  3. [viewport] / [interact] / [session] - Interactive exploration state
//  4. [provider] / [cache] - Inventory sources and fetch caching
//  5. [render] - Graphviz export of computed layouts
//
// # Architecture
//
// The typical data flow through orbit:
//
//	Inventory Source (file / HTTP / MongoDB)
//	         ↓
//	provider.Fetch  →  graph.Normalize
//	         ↓
//	ringmap.Compute (root, ring 1, ring 2, overflow)
//	         ↓
//	session.Frame  →  TUI render / JSON API / DOT export
//
// The session owns the mutable state: it runs a layout pass per load,
// routes pointer input through the interaction controller, and discards
// superseded fetches so the newest request always wins.
package pkg

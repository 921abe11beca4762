package graph

import (
	"encoding/json"
)

// =============================================================================
// Graph - Resource Dependency Graph
// =============================================================================

// Graph is the canonical in-memory and serialization format for a
// resource-dependency graph. Used for provider responses, caching, the
// HTTP API, and exports.
//
// Node and edge order is significant: the layout engine uses insertion
// order as the tie-break for otherwise-symmetric arrangements, so a graph
// round-tripped through JSON lays out identically.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// NodeCount returns the number of nodes in the graph.
func (g Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges in the graph.
func (g Graph) EdgeCount() int { return len(g.Edges) }

// Index returns a map from node ID to its position in the node slice.
func (g Graph) Index() map[string]int {
	idx := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		idx[n.ID] = i
	}
	return idx
}

// Clone returns a deep copy of the graph. Node coordinates on the copy can
// be mutated without affecting the original.
func (g Graph) Clone() Graph {
	out := Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	copy(out.Nodes, g.Nodes)
	copy(out.Edges, g.Edges)
	return out
}

// =============================================================================
// Node
// =============================================================================

// Node is a single resource in the dependency graph.
//
// X and Y are logical canvas coordinates, independent of the current
// pan/zoom transform. They are zero until assigned by the layout engine
// and may subsequently be overwritten by interactive node dragging.
type Node struct {
	ID       string  `json:"id" bson:"id"`
	Label    string  `json:"label,omitempty" bson:"label,omitempty"`       // Display label (defaults to ID)
	Category string  `json:"category,omitempty" bson:"category,omitempty"` // Resource category (e.g. "database")
	Service  string  `json:"service,omitempty" bson:"service,omitempty"`   // Owning service tag
	X        float64 `json:"x,omitempty" bson:"x,omitempty"`
	Y        float64 `json:"y,omitempty" bson:"y,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// =============================================================================
// Edge
// =============================================================================

// Edge represents a relationship between two resources. Direction is
// informational only: the layout treats edges as undirected adjacency.
type Edge struct {
	From         string `json:"from" bson:"from"`
	To           string `json:"to" bson:"to"`
	Relationship string `json:"relationship,omitempty" bson:"relationship,omitempty"`
}

// Touches reports whether the edge has id as either endpoint.
func (e Edge) Touches(id string) bool { return e.From == id || e.To == id }

// Other returns the endpoint opposite to id, or "" if id is not an endpoint.
func (e Edge) Other(id string) string {
	switch id {
	case e.From:
		return e.To
	case e.To:
		return e.From
	}
	return ""
}

// =============================================================================
// Normalization
// =============================================================================

// Normalize validates a graph arriving from an external provider.
//
// It returns a copy in which duplicate node IDs and duplicate edges are
// dropped (first occurrence wins), empty labels are defaulted to the node
// ID, and edges referencing a node ID absent from the node list are
// removed. Dangling edges are a non-fatal condition: the data degrades to
// a sparser render rather than an error. Input order is preserved.
//
// Edges are duplicates only when from, to, and relationship all match;
// the reverse direction and differently-labeled parallels are kept.
// Traversal-based providers can report the same edge once per hop that
// touches it, so dedupe happens here rather than in every provider.
func Normalize(g Graph) Graph {
	out := Graph{
		Nodes: make([]Node, 0, len(g.Nodes)),
		Edges: make([]Edge, 0, len(g.Edges)),
	}

	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" || seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		if n.Label == "" {
			n.Label = n.ID
		}
		out.Nodes = append(out.Nodes, n)
	}

	seenEdges := make(map[Edge]bool, len(g.Edges))
	for _, e := range g.Edges {
		if !seen[e.From] || !seen[e.To] || seenEdges[e] {
			continue
		}
		seenEdges[e] = true
		out.Edges = append(out.Edges, e)
	}

	return out
}

// =============================================================================
// Serialization
// =============================================================================

// Marshal serializes a graph to indented JSON.
func Marshal(g Graph) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// Unmarshal deserializes JSON bytes to a Graph.
func Unmarshal(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}

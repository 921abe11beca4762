package ringmap

import (
	"errors"
	"fmt"
	"math"

	"github.com/orbitviz/orbit/pkg/graph"
)

// ErrMissingRoot is returned by [Compute] when the requested root ID is
// absent from the node list. This is the only hard layout failure: callers
// must not render a partial result and should retain their previous graph.
var ErrMissingRoot = errors.New("root node not found")

// Ring identifies the distance tier a node was placed on during a layout
// pass. Membership is derived per pass and never stored on the graph.
type Ring int

const (
	// RingRoot is the focal node at the canvas center.
	RingRoot Ring = iota
	// RingOne holds direct neighbors of the root.
	RingOne
	// RingTwo holds neighbors of ring-1 nodes.
	RingTwo
	// RingOverflow holds everything the ring walk did not reach.
	RingOverflow
)

// String returns the ring name for logs and display.
func (r Ring) String() string {
	switch r {
	case RingRoot:
		return "root"
	case RingOne:
		return "ring1"
	case RingTwo:
		return "ring2"
	case RingOverflow:
		return "overflow"
	}
	return "unknown"
}

// Params holds the tunable presentation constants of the radial layout.
// Only the ordering and ring-membership guarantees are contracts; these
// distances and arc widths can be adjusted freely via configuration.
type Params struct {
	RingRadius     float64 // distance of ring-1 nodes from the root
	OuterRadius    float64 // distance of ring-2 nodes from the root
	OverflowRadius float64 // distance of overflow nodes from the root
	Jitter         float64 // alternating radial offset applied to ring-2 nodes
	ArcClamp       float64 // maximum angular width of a ring-2 arc
	ArcPerChild    float64 // angular width contributed per ring-2 child
}

// DefaultParams returns the reference layout constants.
func DefaultParams() Params {
	return Params{
		RingRadius:     200,
		OuterRadius:    380,
		OverflowRadius: 520,
		Jitter:         20,
		ArcClamp:       math.Pi / 4,
		ArcPerChild:    math.Pi / 12,
	}
}

// Result is the output of a layout pass: a positioned copy of the input
// nodes plus the ring each node was placed on.
type Result struct {
	Nodes []graph.Node
	Rings map[string]Ring
}

// Compute places every node of g on the canvas radially around the node
// identified by rootID. It returns [ErrMissingRoot] if rootID is not in
// the node list; the inputs are never mutated, so the caller's graph is
// intact on failure.
//
// Placement proceeds in three passes. Ring 1 distributes the root's direct
// neighbors evenly on a circle, in edge-discovery order. Ring 2 fans each
// ring-1 node's remaining neighbors into an arc centered on the parent's
// angle, clamped so dense arcs never exceed a quarter turn, with a small
// alternating radial jitter to reduce overlap. Any node still unplaced
// lands on the overflow ring, evenly spaced by input order.
func Compute(g graph.Graph, rootID string, canvasW, canvasH float64, p Params) (Result, error) {
	idx := g.Index()
	rootIdx, ok := idx[rootID]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrMissingRoot, rootID)
	}

	nodes := make([]graph.Node, len(g.Nodes))
	copy(nodes, g.Nodes)

	adj := adjacency(g, idx)
	placed := make(map[string]bool, len(nodes))
	rings := make(map[string]Ring, len(nodes))

	cx, cy := canvasW/2, canvasH/2
	nodes[rootIdx].X = cx
	nodes[rootIdx].Y = cy
	placed[rootID] = true
	rings[rootID] = RingRoot

	// Ring 1: direct neighbors, evenly spaced, edge-discovery order.
	ring1 := unplacedNeighbors(adj[rootID], placed)
	angles := make([]float64, len(ring1))
	for i, id := range ring1 {
		angles[i] = float64(i) * (2 * math.Pi / float64(len(ring1)))
		nodes[idx[id]].X = cx + p.RingRadius*math.Cos(angles[i])
		nodes[idx[id]].Y = cy + p.RingRadius*math.Sin(angles[i])
		placed[id] = true
		rings[id] = RingOne
	}

	// Ring 2: fan each parent's unplaced neighbors into an arc around the
	// parent's own angle.
	for i, parent := range ring1 {
		children := unplacedNeighbors(adj[parent], placed)
		k := len(children)
		if k == 0 {
			continue
		}
		width := math.Min(p.ArcClamp, float64(k)*p.ArcPerChild)
		start := angles[i] - width/2
		step := 0.0
		if k > 1 {
			step = width / float64(k-1)
		}
		for j, id := range children {
			angle := start + float64(j)*step
			radius := p.OuterRadius + p.Jitter
			if j%2 == 1 {
				radius = p.OuterRadius - p.Jitter
			}
			nodes[idx[id]].X = cx + radius*math.Cos(angle)
			nodes[idx[id]].Y = cy + radius*math.Sin(angle)
			placed[id] = true
			rings[id] = RingTwo
		}
	}

	// Overflow: everything the walk missed, evenly spaced by input order.
	var overflow []int
	for i, n := range nodes {
		if !placed[n.ID] {
			overflow = append(overflow, i)
		}
	}
	for i, ni := range overflow {
		angle := float64(i) / float64(len(overflow)) * 2 * math.Pi
		nodes[ni].X = cx + p.OverflowRadius*math.Cos(angle)
		nodes[ni].Y = cy + p.OverflowRadius*math.Sin(angle)
		rings[nodes[ni].ID] = RingOverflow
	}

	return Result{Nodes: nodes, Rings: rings}, nil
}

// adjacency builds an undirected neighbor list in edge insertion order.
// Edges referencing a node absent from the node list are ignored.
func adjacency(g graph.Graph, idx map[string]int) map[string][]string {
	adj := make(map[string][]string, len(g.Nodes))
	for _, e := range g.Edges {
		if _, ok := idx[e.From]; !ok {
			continue
		}
		if _, ok := idx[e.To]; !ok {
			continue
		}
		if e.From == e.To {
			continue
		}
		adj[e.From] = append(adj[e.From], e.To)
		adj[e.To] = append(adj[e.To], e.From)
	}
	return adj
}

// unplacedNeighbors filters ids down to unique, not-yet-placed entries,
// preserving order.
func unplacedNeighbors(ids []string, placed map[string]bool) []string {
	var out []string
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if placed[id] || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

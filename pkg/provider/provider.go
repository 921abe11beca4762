// Package provider fetches resource inventory graphs from external
// sources.
//
// A [Provider] returns the neighborhood of a focal resource as a
// normalized [graph.Graph]: depth 1 covers direct neighbors, depth 2 the
// extended two-hop neighborhood. Three backends are provided - static
// JSON files ([File]), an inventory HTTP service ([HTTP]), and MongoDB
// collections ([Mongo]) - plus a [Cached] decorator that stores fetch
// results in a [cache.Cache].
//
// All providers normalize external payloads at the boundary: whatever
// shape the source returns is converted into the fixed node/edge records
// before it reaches the session.
package provider

import (
	"context"

	"github.com/orbitviz/orbit/pkg/errors"
	"github.com/orbitviz/orbit/pkg/graph"
)

// Provider fetches the dependency neighborhood of a resource.
type Provider interface {
	// Fetch returns the graph around resourceID at the given traversal
	// depth (1 = direct neighbors, 2 = two-hop). The returned graph is
	// normalized and contains the focal resource itself.
	Fetch(ctx context.Context, resourceID string, depth int) (graph.Graph, error)
}

// =============================================================================
// Wire Payload
// =============================================================================

// payload is the JSON shape inventory sources deliver. Field names follow
// the inventory service contract, not the internal graph model.
type payload struct {
	Nodes []payloadNode `json:"nodes"`
	Edges []payloadEdge `json:"edges"`
}

type payloadNode struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Service string `json:"service"`
}

type payloadEdge struct {
	Source       string `json:"source"`
	Target       string `json:"target"`
	Relationship string `json:"relationship"`
}

// toGraph converts a wire payload into the internal model and normalizes
// it (duplicate IDs dropped, dangling edges removed, labels defaulted).
func toGraph(p payload) graph.Graph {
	g := graph.Graph{
		Nodes: make([]graph.Node, 0, len(p.Nodes)),
		Edges: make([]graph.Edge, 0, len(p.Edges)),
	}
	for _, n := range p.Nodes {
		g.Nodes = append(g.Nodes, graph.Node{
			ID:       n.ID,
			Label:    n.Name,
			Category: n.Type,
			Service:  n.Service,
		})
	}
	for _, e := range p.Edges {
		g.Edges = append(g.Edges, graph.Edge{
			From:         e.Source,
			To:           e.Target,
			Relationship: e.Relationship,
		})
	}
	return graph.Normalize(g)
}

// =============================================================================
// Neighborhood Extraction
// =============================================================================

// neighborhood extracts the depth-limited subgraph around rootID from a
// full inventory snapshot, preserving node and edge order. Returns a
// RESOURCE_NOT_FOUND error if rootID is not in the snapshot.
func neighborhood(g graph.Graph, rootID string, depth int) (graph.Graph, error) {
	idx := g.Index()
	if _, ok := idx[rootID]; !ok {
		return graph.Graph{}, errors.New(errors.ErrCodeResourceNotFound, "resource %q not in inventory", rootID)
	}

	keep := map[string]bool{rootID: true}
	frontier := []string{rootID}
	for hop := 0; hop < depth; hop++ {
		var next []string
		for _, e := range g.Edges {
			for _, id := range frontier {
				other := e.Other(id)
				if other == "" || keep[other] {
					continue
				}
				keep[other] = true
				next = append(next, other)
			}
		}
		frontier = next
	}

	out := graph.Graph{}
	for _, n := range g.Nodes {
		if keep[n.ID] {
			out.Nodes = append(out.Nodes, n)
		}
	}
	for _, e := range g.Edges {
		if keep[e.From] && keep[e.To] {
			out.Edges = append(out.Edges, e)
		}
	}
	return out, nil
}

// validate checks fetch arguments shared by all providers.
func validate(resourceID string, depth int) error {
	if err := errors.ValidateResourceID(resourceID); err != nil {
		return err
	}
	return errors.ValidateDepth(depth)
}

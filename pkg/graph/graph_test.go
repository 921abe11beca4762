package graph

import (
	"testing"
)

func TestNormalize_DedupesByID(t *testing.T) {
	g := Graph{
		Nodes: []Node{
			{ID: "a", Label: "first"},
			{ID: "b"},
			{ID: "a", Label: "second"},
		},
	}

	got := Normalize(g)

	if got.NodeCount() != 2 {
		t.Fatalf("NodeCount() = %d, want 2", got.NodeCount())
	}
	if got.Nodes[0].Label != "first" {
		t.Errorf("duplicate node resolved to %q, want first occurrence", got.Nodes[0].Label)
	}
}

func TestNormalize_DefaultsLabels(t *testing.T) {
	g := Graph{Nodes: []Node{{ID: "db-1"}, {ID: "svc", Label: "Checkout"}}}

	got := Normalize(g)

	if got.Nodes[0].Label != "db-1" {
		t.Errorf("empty label defaulted to %q, want %q", got.Nodes[0].Label, "db-1")
	}
	if got.Nodes[1].Label != "Checkout" {
		t.Errorf("set label changed to %q", got.Nodes[1].Label)
	}
}

func TestNormalize_DropsDanglingEdges(t *testing.T) {
	g := Graph{
		Nodes: []Node{{ID: "a"}, {ID: "b"}},
		Edges: []Edge{
			{From: "a", To: "b"},
			{From: "a", To: "ghost"},
			{From: "ghost", To: "b"},
		},
	}

	got := Normalize(g)

	if got.EdgeCount() != 1 {
		t.Fatalf("EdgeCount() = %d, want 1", got.EdgeCount())
	}
	if got.Edges[0] != (Edge{From: "a", To: "b"}) {
		t.Errorf("surviving edge = %+v", got.Edges[0])
	}
}

func TestNormalize_DedupesEdges(t *testing.T) {
	// Hop-by-hop traversal reports the a--b edge from both endpoints.
	g := Graph{
		Nodes: []Node{{ID: "a"}, {ID: "b"}},
		Edges: []Edge{
			{From: "a", To: "b", Relationship: "reads"},
			{From: "a", To: "b", Relationship: "reads"},
			{From: "b", To: "a", Relationship: "reads"},
			{From: "a", To: "b", Relationship: "writes"},
		},
	}

	got := Normalize(g)

	want := []Edge{
		{From: "a", To: "b", Relationship: "reads"},
		{From: "b", To: "a", Relationship: "reads"},
		{From: "a", To: "b", Relationship: "writes"},
	}
	if got.EdgeCount() != len(want) {
		t.Fatalf("EdgeCount() = %d, want %d: %+v", got.EdgeCount(), len(want), got.Edges)
	}
	for i, e := range want {
		if got.Edges[i] != e {
			t.Errorf("Edges[%d] = %+v, want %+v", i, got.Edges[i], e)
		}
	}
}

func TestNormalize_DropsEmptyIDs(t *testing.T) {
	g := Graph{Nodes: []Node{{ID: ""}, {ID: "a"}}}

	got := Normalize(g)

	if got.NodeCount() != 1 || got.Nodes[0].ID != "a" {
		t.Errorf("Nodes = %+v, want only a", got.Nodes)
	}
}

func TestNormalize_PreservesOrder(t *testing.T) {
	g := Graph{
		Nodes: []Node{{ID: "c"}, {ID: "a"}, {ID: "b"}},
		Edges: []Edge{{From: "b", To: "a"}, {From: "c", To: "b"}},
	}

	got := Normalize(g)

	wantNodes := []string{"c", "a", "b"}
	for i, id := range wantNodes {
		if got.Nodes[i].ID != id {
			t.Errorf("Nodes[%d].ID = %q, want %q", i, got.Nodes[i].ID, id)
		}
	}
	if got.Edges[0].From != "b" || got.Edges[1].From != "c" {
		t.Errorf("edge order changed: %+v", got.Edges)
	}
}

func TestClone_Independent(t *testing.T) {
	g := Graph{
		Nodes: []Node{{ID: "a", X: 1, Y: 2}},
		Edges: []Edge{{From: "a", To: "a"}},
	}

	c := g.Clone()
	c.Nodes[0].X = 99

	if g.Nodes[0].X != 1 {
		t.Errorf("mutating clone changed original: X = %v", g.Nodes[0].X)
	}
}

func TestIndex(t *testing.T) {
	g := Graph{Nodes: []Node{{ID: "x"}, {ID: "y"}, {ID: "z"}}}

	idx := g.Index()

	if idx["y"] != 1 {
		t.Errorf("Index()[y] = %d, want 1", idx["y"])
	}
	if _, ok := idx["missing"]; ok {
		t.Error("Index() contains missing id")
	}
}

func TestEdge_Other(t *testing.T) {
	e := Edge{From: "a", To: "b"}

	tests := []struct {
		id   string
		want string
	}{
		{"a", "b"},
		{"b", "a"},
		{"c", ""},
	}
	for _, tt := range tests {
		if got := e.Other(tt.id); got != tt.want {
			t.Errorf("Other(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestNode_DisplayLabel(t *testing.T) {
	n := Node{ID: "raw-id"}
	if got := n.DisplayLabel(); got != "raw-id" {
		t.Errorf("DisplayLabel() = %q, want id fallback", got)
	}
	n.Label = "Pretty"
	if got := n.DisplayLabel(); got != "Pretty" {
		t.Errorf("DisplayLabel() = %q, want %q", got, "Pretty")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	g := Graph{
		Nodes: []Node{{ID: "a", Label: "A", Category: "database", X: 10, Y: 20}},
		Edges: []Edge{{From: "a", To: "a", Relationship: "self"}},
	}

	data, err := Marshal(g)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if back.Nodes[0] != g.Nodes[0] || back.Edges[0] != g.Edges[0] {
		t.Errorf("round trip changed graph: %+v", back)
	}
}

func TestUnmarshal_Invalid(t *testing.T) {
	if _, err := Unmarshal([]byte("{not json")); err == nil {
		t.Error("Unmarshal() accepted invalid JSON")
	}
}

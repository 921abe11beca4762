package interact

import (
	"testing"

	"github.com/orbitviz/orbit/pkg/graph"
	"github.com/orbitviz/orbit/pkg/viewport"
)

func newTestController(t *testing.T) (*Controller, *graph.Graph, *viewport.Transform, *[]string) {
	t.Helper()
	g := &graph.Graph{
		Nodes: []graph.Node{
			{ID: "root", X: 600, Y: 450},
			{ID: "a", X: 800, Y: 450},
			{ID: "b", X: 400, Y: 450},
		},
	}
	view := viewport.New()
	var selected []string
	c := New(&view, func(id string) { selected = append(selected, id) })
	c.SetGraph(g, "root")
	return c, g, &view, &selected
}

func TestController_ClickSelectsNode(t *testing.T) {
	c, _, _, selected := newTestController(t)

	c.PointerDown(800, 450, "a")
	c.PointerUp()

	if len(*selected) != 1 || (*selected)[0] != "a" {
		t.Errorf("selected = %v, want [a]", *selected)
	}
}

func TestController_RootNeverSelected(t *testing.T) {
	c, _, _, selected := newTestController(t)

	c.PointerDown(600, 450, "root")
	c.PointerUp()

	if len(*selected) != 0 {
		t.Errorf("selected = %v, want none for root click", *selected)
	}
}

func TestController_MoveSuppressesSelection(t *testing.T) {
	c, _, _, selected := newTestController(t)

	c.PointerDown(800, 450, "a")
	c.PointerMove(810, 455)
	c.PointerUp()

	if len(*selected) != 0 {
		t.Errorf("selected = %v, want none after drag", *selected)
	}
}

func TestController_NodeDragMovesNode(t *testing.T) {
	c, g, _, _ := newTestController(t)

	c.PointerDown(800, 450, "a")
	c.PointerMove(850, 500)
	c.PointerUp()

	// Identity transform: logical position equals pointer position.
	if g.Nodes[1].X != 850 || g.Nodes[1].Y != 500 {
		t.Errorf("node a at (%v, %v), want (850, 500)", g.Nodes[1].X, g.Nodes[1].Y)
	}
}

func TestController_NodeDragRespectsTransform(t *testing.T) {
	c, g, view, _ := newTestController(t)
	view.PanX = 100
	view.PanY = 50
	view.Zoom = 2

	c.PointerDown(0, 0, "a")
	c.PointerMove(300, 250)
	c.PointerUp()

	// logical = (screen - pan) / zoom.
	if g.Nodes[1].X != 100 || g.Nodes[1].Y != 100 {
		t.Errorf("node a at (%v, %v), want (100, 100)", g.Nodes[1].X, g.Nodes[1].Y)
	}
}

func TestController_RootDraggableButNotSelectable(t *testing.T) {
	c, g, _, selected := newTestController(t)

	c.PointerDown(600, 450, "root")
	c.PointerMove(700, 500)
	c.PointerUp()

	if g.Nodes[0].X != 700 || g.Nodes[0].Y != 500 {
		t.Errorf("root at (%v, %v), want (700, 500)", g.Nodes[0].X, g.Nodes[0].Y)
	}
	if len(*selected) != 0 {
		t.Errorf("selected = %v, want none", *selected)
	}
}

func TestController_PanAccumulatesDeltas(t *testing.T) {
	c, _, view, _ := newTestController(t)

	c.PointerDown(100, 100, "")
	c.PointerMove(110, 105)
	c.PointerMove(130, 95)
	c.PointerUp()

	if view.PanX != 30 || view.PanY != -5 {
		t.Errorf("pan = (%v, %v), want (30, -5)", view.PanX, view.PanY)
	}
}

func TestController_PanDoesNotSelect(t *testing.T) {
	c, _, _, selected := newTestController(t)

	c.PointerDown(100, 100, "")
	c.PointerUp()

	if len(*selected) != 0 {
		t.Errorf("selected = %v, want none for background click", *selected)
	}
}

func TestController_PanDoesNotMoveNodes(t *testing.T) {
	c, g, _, _ := newTestController(t)

	c.PointerDown(100, 100, "")
	c.PointerMove(200, 200)
	c.PointerUp()

	if g.Nodes[1].X != 800 || g.Nodes[1].Y != 450 {
		t.Errorf("node a moved to (%v, %v) during pan", g.Nodes[1].X, g.Nodes[1].Y)
	}
}

func TestController_SetGraphCancelsGesture(t *testing.T) {
	c, _, _, selected := newTestController(t)

	c.PointerDown(800, 450, "a")
	if !c.Active() {
		t.Fatal("Active() = false during gesture")
	}

	next := &graph.Graph{Nodes: []graph.Node{{ID: "root"}}}
	c.SetGraph(next, "root")

	if c.Active() {
		t.Error("Active() = true after SetGraph")
	}
	c.PointerUp()
	if len(*selected) != 0 {
		t.Errorf("selected = %v, want none after graph swap mid-gesture", *selected)
	}
}

func TestController_Active(t *testing.T) {
	c, _, _, _ := newTestController(t)

	if c.Active() {
		t.Error("Active() = true before any gesture")
	}
	c.PointerDown(0, 0, "")
	if !c.Active() {
		t.Error("Active() = false during pan")
	}
	c.PointerUp()
	if c.Active() {
		t.Error("Active() = true after release")
	}
}

func TestController_NilSelectCallback(t *testing.T) {
	g := &graph.Graph{Nodes: []graph.Node{{ID: "root"}, {ID: "a"}}}
	view := viewport.New()
	c := New(&view, nil)
	c.SetGraph(g, "root")

	c.PointerDown(10, 10, "a")
	c.PointerUp() // must not panic
}

func TestController_UnknownNodeDragIgnored(t *testing.T) {
	c, g, _, _ := newTestController(t)

	c.PointerDown(0, 0, "ghost")
	c.PointerMove(50, 50)
	c.PointerUp()

	for i, n := range g.Nodes {
		if n.X == 50 && n.Y == 50 {
			t.Errorf("node %d moved by drag of unknown id", i)
		}
	}
}

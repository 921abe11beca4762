package session

import (
	"context"
	"sync"
	"testing"
	"time"

	apperrors "github.com/orbitviz/orbit/pkg/errors"
	"github.com/orbitviz/orbit/pkg/graph"
	"github.com/orbitviz/orbit/pkg/ringmap"
)

// fakeProvider serves canned graphs keyed by resource ID and can block a
// fetch until released, to exercise in-flight supersession.
type fakeProvider struct {
	mu     sync.Mutex
	graphs map[string]graph.Graph
	errs   map[string]error
	gate   map[string]chan struct{} // fetch blocks until the channel closes
	calls  int
}

func (f *fakeProvider) Fetch(ctx context.Context, resourceID string, depth int) (graph.Graph, error) {
	f.mu.Lock()
	f.calls++
	gate := f.gate[resourceID]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return graph.Graph{}, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.errs[resourceID]; ok {
		return graph.Graph{}, err
	}
	g, ok := f.graphs[resourceID]
	if !ok {
		return graph.Graph{}, apperrors.New(apperrors.ErrCodeResourceNotFound, "resource %q not found", resourceID)
	}
	return g.Clone(), nil
}

func smallGraph(root string, neighbors ...string) graph.Graph {
	g := graph.Graph{Nodes: []graph.Node{{ID: root}}}
	for _, n := range neighbors {
		g.Nodes = append(g.Nodes, graph.Node{ID: n})
		g.Edges = append(g.Edges, graph.Edge{From: root, To: n})
	}
	return g
}

func TestLoadGraph_Success(t *testing.T) {
	prov := &fakeProvider{graphs: map[string]graph.Graph{
		"svc": smallGraph("svc", "db", "cache"),
	}}
	s := New(prov, Config{})

	if err := s.LoadGraph(context.Background(), "svc", 2); err != nil {
		t.Fatalf("LoadGraph() error = %v", err)
	}

	res, depth := s.Resource()
	if res != "svc" || depth != 2 {
		t.Errorf("Resource() = (%q, %d), want (svc, 2)", res, depth)
	}
	f := s.Frame()
	if f.RootID != "svc" {
		t.Errorf("Frame().RootID = %q, want svc", f.RootID)
	}
	if len(f.Nodes) != 3 {
		t.Errorf("Frame() has %d nodes, want 3", len(f.Nodes))
	}
	if len(f.Edges) != 2 {
		t.Errorf("Frame() has %d edges, want 2", len(f.Edges))
	}
	if f.Rings["svc"] != ringmap.RingRoot || f.Rings["db"] != ringmap.RingOne {
		t.Errorf("rings = %v", f.Rings)
	}
	if s.Err() != nil {
		t.Errorf("Err() = %v after success", s.Err())
	}
}

func TestLoadGraph_InvalidDepth(t *testing.T) {
	prov := &fakeProvider{graphs: map[string]graph.Graph{}}
	s := New(prov, Config{})

	err := s.LoadGraph(context.Background(), "svc", 3)
	if apperrors.GetCode(err) != apperrors.ErrCodeInvalidDepth {
		t.Errorf("LoadGraph(depth=3) code = %v, want %v", apperrors.GetCode(err), apperrors.ErrCodeInvalidDepth)
	}
	if prov.calls != 0 {
		t.Errorf("provider called %d times for invalid depth", prov.calls)
	}
}

func TestLoadGraph_FailureRetainsPrevious(t *testing.T) {
	prov := &fakeProvider{
		graphs: map[string]graph.Graph{"svc": smallGraph("svc", "db")},
	}
	s := New(prov, Config{})
	if err := s.LoadGraph(context.Background(), "svc", 1); err != nil {
		t.Fatalf("initial load: %v", err)
	}

	if err := s.LoadGraph(context.Background(), "missing", 1); err == nil {
		t.Fatal("LoadGraph(missing) error = nil, want not-found")
	}

	// Previous graph and resource stay in place; Err surfaces the failure.
	res, _ := s.Resource()
	if res != "svc" {
		t.Errorf("Resource() = %q after failed load, want svc", res)
	}
	f := s.Frame()
	if f.RootID != "svc" || len(f.Nodes) != 2 {
		t.Errorf("frame after failed load: root %q, %d nodes", f.RootID, len(f.Nodes))
	}
	if s.Err() == nil {
		t.Error("Err() = nil, want failure of latest load")
	}

	// The next successful load clears the error.
	if err := s.LoadGraph(context.Background(), "svc", 1); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if s.Err() != nil {
		t.Errorf("Err() = %v after successful reload", s.Err())
	}
}

func TestLoadGraph_MissingRootRetainsPrevious(t *testing.T) {
	prov := &fakeProvider{graphs: map[string]graph.Graph{
		"svc":    smallGraph("svc", "db"),
		"broken": {Nodes: []graph.Node{{ID: "other"}}},
	}}
	s := New(prov, Config{})
	if err := s.LoadGraph(context.Background(), "svc", 1); err != nil {
		t.Fatalf("initial load: %v", err)
	}

	err := s.LoadGraph(context.Background(), "broken", 1)
	if err == nil {
		t.Fatal("LoadGraph(broken) error = nil, want missing-root failure")
	}

	f := s.Frame()
	if f.RootID != "svc" {
		t.Errorf("RootID = %q after missing-root load, want svc", f.RootID)
	}
}

func TestLoadGraph_LastRequestedWins(t *testing.T) {
	gate := make(chan struct{})
	prov := &fakeProvider{
		graphs: map[string]graph.Graph{
			"slow": smallGraph("slow", "s1"),
			"fast": smallGraph("fast", "f1"),
		},
		gate: map[string]chan struct{}{"slow": gate},
	}
	s := New(prov, Config{})

	slowDone := make(chan error, 1)
	go func() { slowDone <- s.LoadGraph(context.Background(), "slow", 1) }()

	// Wait until the slow fetch is in flight, then supersede it.
	deadline := time.After(2 * time.Second)
	for {
		prov.mu.Lock()
		started := prov.calls > 0
		prov.mu.Unlock()
		if started {
			break
		}
		select {
		case <-deadline:
			t.Fatal("slow fetch never started")
		case <-time.After(time.Millisecond):
		}
	}

	if err := s.LoadGraph(context.Background(), "fast", 1); err != nil {
		t.Fatalf("fast load: %v", err)
	}
	close(gate)

	if err := <-slowDone; err != nil {
		t.Errorf("superseded load returned %v, want nil", err)
	}

	res, _ := s.Resource()
	if res != "fast" {
		t.Errorf("Resource() = %q, want fast (stale result must not apply)", res)
	}
	f := s.Frame()
	if f.RootID != "fast" {
		t.Errorf("RootID = %q, want fast", f.RootID)
	}
}

func TestSetDepth(t *testing.T) {
	prov := &fakeProvider{graphs: map[string]graph.Graph{
		"svc": smallGraph("svc", "db"),
	}}
	s := New(prov, Config{})

	if err := s.SetDepth(context.Background(), 1); err == nil {
		t.Error("SetDepth before any load succeeded, want error")
	}

	if err := s.LoadGraph(context.Background(), "svc", 2); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := s.SetDepth(context.Background(), 1); err != nil {
		t.Fatalf("SetDepth(1): %v", err)
	}
	_, depth := s.Resource()
	if depth != 1 {
		t.Errorf("depth = %d, want 1", depth)
	}
}

func TestSelectNode(t *testing.T) {
	var selected []string
	prov := &fakeProvider{graphs: map[string]graph.Graph{
		"svc": smallGraph("svc", "db"),
	}}
	s := New(prov, Config{OnSelect: func(id string) { selected = append(selected, id) }})
	if err := s.LoadGraph(context.Background(), "svc", 1); err != nil {
		t.Fatalf("load: %v", err)
	}

	if !s.SelectNode("db") {
		t.Error("SelectNode(db) = false, want true")
	}
	if s.SelectNode("svc") {
		t.Error("SelectNode(root) = true, want false")
	}
	if s.SelectNode("ghost") {
		t.Error("SelectNode(unknown) = true, want false")
	}
	if len(selected) != 1 || selected[0] != "db" {
		t.Errorf("selected = %v, want [db]", selected)
	}
}

func TestPointer_ClickSelectsViaController(t *testing.T) {
	var selected []string
	prov := &fakeProvider{graphs: map[string]graph.Graph{
		"svc": smallGraph("svc", "db"),
	}}
	s := New(prov, Config{OnSelect: func(id string) { selected = append(selected, id) }})
	if err := s.LoadGraph(context.Background(), "svc", 1); err != nil {
		t.Fatalf("load: %v", err)
	}

	s.PointerDown(10, 10, "db")
	s.PointerUp()

	if len(selected) != 1 || selected[0] != "db" {
		t.Errorf("selected = %v, want [db]", selected)
	}
}

func TestPointer_DragSuppressesSelection(t *testing.T) {
	var selected []string
	prov := &fakeProvider{graphs: map[string]graph.Graph{
		"svc": smallGraph("svc", "db"),
	}}
	s := New(prov, Config{OnSelect: func(id string) { selected = append(selected, id) }})
	if err := s.LoadGraph(context.Background(), "svc", 1); err != nil {
		t.Fatalf("load: %v", err)
	}

	s.PointerDown(10, 10, "db")
	s.PointerMove(20, 20)
	s.PointerUp()

	if len(selected) != 0 {
		t.Errorf("selected = %v, want none after drag", selected)
	}
}

func TestNodeAt(t *testing.T) {
	prov := &fakeProvider{graphs: map[string]graph.Graph{
		"svc": smallGraph("svc", "db"),
	}}
	s := New(prov, Config{})
	if err := s.LoadGraph(context.Background(), "svc", 1); err != nil {
		t.Fatalf("load: %v", err)
	}

	// Root sits at the canvas center under the identity view.
	if got := s.NodeAt(DefaultCanvasWidth/2+3, DefaultCanvasHeight/2-4, 10); got != "svc" {
		t.Errorf("NodeAt(near center) = %q, want svc", got)
	}
	if got := s.NodeAt(-500, -500, 10); got != "" {
		t.Errorf("NodeAt(far away) = %q, want none", got)
	}
}

func TestNodeAt_RespectsTransform(t *testing.T) {
	prov := &fakeProvider{graphs: map[string]graph.Graph{
		"svc": smallGraph("svc", "db"),
	}}
	s := New(prov, Config{})
	if err := s.LoadGraph(context.Background(), "svc", 1); err != nil {
		t.Fatalf("load: %v", err)
	}

	// Pan the view and probe the root's new screen position.
	s.PointerDown(0, 0, "")
	s.PointerMove(100, 50)
	s.PointerUp()

	if got := s.NodeAt(DefaultCanvasWidth/2+100, DefaultCanvasHeight/2+50, 5); got != "svc" {
		t.Errorf("NodeAt(panned center) = %q, want svc", got)
	}
}

func TestLoadGraph_ResetsView(t *testing.T) {
	prov := &fakeProvider{graphs: map[string]graph.Graph{
		"svc": smallGraph("svc", "db"),
		"db":  smallGraph("db", "svc"),
	}}
	s := New(prov, Config{})
	if err := s.LoadGraph(context.Background(), "svc", 1); err != nil {
		t.Fatalf("load: %v", err)
	}

	s.ZoomBy(0.5)
	s.PointerDown(0, 0, "")
	s.PointerMove(40, 40)
	s.PointerUp()

	if err := s.LoadGraph(context.Background(), "db", 1); err != nil {
		t.Fatalf("reload: %v", err)
	}
	f := s.Frame()
	if f.View.Zoom != 1 || f.View.PanX != 0 || f.View.PanY != 0 {
		t.Errorf("view after reload = %+v, want identity", f.View)
	}
}

func TestFrame_CopyIsIndependent(t *testing.T) {
	prov := &fakeProvider{graphs: map[string]graph.Graph{
		"svc": smallGraph("svc", "db"),
	}}
	s := New(prov, Config{})
	if err := s.LoadGraph(context.Background(), "svc", 1); err != nil {
		t.Fatalf("load: %v", err)
	}

	f := s.Frame()
	f.Nodes[0].X = -9999

	if s.Frame().Nodes[0].X == -9999 {
		t.Error("mutating a frame snapshot leaked into the session")
	}
}

func TestBuildFrame(t *testing.T) {
	g := smallGraph("svc", "db")
	res, err := ringmap.Compute(g, "svc", 1200, 900, ringmap.DefaultParams())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	f := BuildFrame("svc", res, g.Edges)

	if f.RootID != "svc" || len(f.Nodes) != 2 || len(f.Edges) != 1 {
		t.Errorf("BuildFrame = root %q, %d nodes, %d edges", f.RootID, len(f.Nodes), len(f.Edges))
	}
	if f.View.Zoom != 1 {
		t.Errorf("View.Zoom = %v, want identity", f.View.Zoom)
	}
	if f.Edges[0].From.X == f.Edges[0].To.X && f.Edges[0].From.Y == f.Edges[0].To.Y {
		t.Error("edge endpoints not resolved to distinct positions")
	}
}

// Package session orchestrates graph exploration: it owns the current
// node/edge arrays and viewport state, runs layout passes when a graph is
// (re)loaded, and routes pointer input through the interaction controller.
//
// A Session is the single owner of mutable graph state. Loading is
// last-requested-wins: if LoadGraph is called again before a prior fetch
// resolves, the prior result is discarded when it arrives. A failed load
// (fetch error or missing root) retains the previous valid graph and
// viewport and surfaces the failure via [Session.Err].
//
// All pointer, zoom, and snapshot methods are safe for concurrent use
// with in-flight loads.
package session

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/orbitviz/orbit/pkg/errors"
	"github.com/orbitviz/orbit/pkg/graph"
	"github.com/orbitviz/orbit/pkg/interact"
	"github.com/orbitviz/orbit/pkg/observability"
	"github.com/orbitviz/orbit/pkg/provider"
	"github.com/orbitviz/orbit/pkg/ringmap"
	"github.com/orbitviz/orbit/pkg/viewport"
)

// Default canvas extent in logical units.
const (
	DefaultCanvasWidth  = 1200.0
	DefaultCanvasHeight = 900.0
)

// Config configures a Session.
type Config struct {
	CanvasWidth  float64       // logical canvas width (default 1200)
	CanvasHeight float64       // logical canvas height (default 900)
	Layout       ringmap.Params
	Logger       *log.Logger

	// OnSelect is invoked when a non-root node is clicked (pressed and
	// released without movement). Typically the host navigates to the
	// clicked resource, e.g. by reloading the session rooted at it.
	OnSelect func(nodeID string)
}

// Session holds the state of one interactive graph exploration.
type Session struct {
	mu   sync.Mutex
	prov provider.Provider
	cfg  Config

	resourceID string
	depth      int
	g          graph.Graph
	rings      map[string]ringmap.Ring
	rootID     string
	view       viewport.Transform
	ctrl       *interact.Controller
	loadErr    error

	gen    uint64             // load generation; only the latest applies
	cancel context.CancelFunc // cancels the in-flight fetch, if any
}

// New creates a session backed by the given provider.
func New(p provider.Provider, cfg Config) *Session {
	if cfg.CanvasWidth <= 0 {
		cfg.CanvasWidth = DefaultCanvasWidth
	}
	if cfg.CanvasHeight <= 0 {
		cfg.CanvasHeight = DefaultCanvasHeight
	}
	if cfg.Layout == (ringmap.Params{}) {
		cfg.Layout = ringmap.DefaultParams()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	s := &Session{
		prov: p,
		cfg:  cfg,
		view: viewport.New(),
	}
	s.ctrl = interact.New(&s.view, func(id string) { s.SelectNode(id) })
	return s
}

// =============================================================================
// Loading
// =============================================================================

// LoadGraph fetches the neighborhood of resourceID at the given depth,
// lays it out, and replaces the session's graph wholesale, resetting the
// viewport and any active gesture.
//
// Calling LoadGraph while a previous load is still in flight supersedes
// it: the stale result is silently discarded when it arrives and its
// LoadGraph call returns nil without mutating anything. On failure the
// previous graph is retained and the error is also available via Err.
func (s *Session) LoadGraph(ctx context.Context, resourceID string, depth int) error {
	if err := errors.ValidateDepth(depth); err != nil {
		return err
	}

	s.mu.Lock()
	s.gen++
	myGen := s.gen
	if s.cancel != nil {
		s.cancel() // supersede the in-flight fetch
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	hooks := observability.Session()
	hooks.OnFetchStart(ctx, resourceID, depth)
	start := time.Now()
	fetched, err := s.prov.Fetch(fetchCtx, resourceID, depth)
	hooks.OnFetchComplete(ctx, resourceID, depth, fetched.NodeCount(), time.Since(start), err)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != myGen {
		hooks.OnStaleResult(ctx, resourceID)
		s.cfg.Logger.Debug("discarding stale graph fetch", "resource", resourceID)
		return nil
	}

	if err != nil {
		s.loadErr = err
		s.cfg.Logger.Error("graph fetch failed", "resource", resourceID, "err", err)
		return err
	}

	hooks.OnLayoutStart(ctx, resourceID, fetched.NodeCount())
	layoutStart := time.Now()
	res, err := ringmap.Compute(fetched, resourceID, s.cfg.CanvasWidth, s.cfg.CanvasHeight, s.cfg.Layout)
	hooks.OnLayoutComplete(ctx, resourceID, time.Since(layoutStart), err)
	if err != nil {
		// Missing root: keep the previous valid graph and viewport.
		s.loadErr = err
		s.cfg.Logger.Error("layout failed", "resource", resourceID, "err", err)
		return err
	}

	s.resourceID = resourceID
	s.depth = depth
	s.rootID = resourceID
	s.g = graph.Graph{Nodes: res.Nodes, Edges: fetched.Edges}
	s.rings = res.Rings
	s.view.Reset()
	s.ctrl.SetGraph(&s.g, s.rootID)
	s.loadErr = nil

	s.cfg.Logger.Info("loaded graph",
		"resource", resourceID,
		"depth", depth,
		"nodes", s.g.NodeCount(),
		"edges", s.g.EdgeCount())
	return nil
}

// SetDepth reloads the current resource at a new traversal depth.
func (s *Session) SetDepth(ctx context.Context, depth int) error {
	s.mu.Lock()
	resourceID := s.resourceID
	s.mu.Unlock()
	if resourceID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "no graph loaded")
	}
	return s.LoadGraph(ctx, resourceID, depth)
}

// Resource returns the currently loaded resource ID and depth.
func (s *Session) Resource() (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resourceID, s.depth
}

// Err returns the failure of the most recent load attempt, or nil if the
// last load succeeded. The displayed graph is always the last valid one.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// =============================================================================
// Selection
// =============================================================================

// SelectNode fires the host selection callback for nodeID. The selection
// is rejected when nodeID is the root node, a gesture is active, or the
// node does not exist. Reports whether the callback fired.
func (s *Session) SelectNode(nodeID string) bool {
	s.mu.Lock()
	if nodeID == s.rootID || s.ctrl.Active() {
		s.mu.Unlock()
		return false
	}
	if _, ok := s.g.Index()[nodeID]; !ok {
		s.mu.Unlock()
		return false
	}
	onSelect := s.cfg.OnSelect
	s.mu.Unlock()

	if onSelect == nil {
		return false
	}
	onSelect(nodeID)
	return true
}

// =============================================================================
// Pointer Input
// =============================================================================

// PointerDown begins a gesture at screen position (x, y); a non-empty
// nodeID starts a node drag, otherwise a pan.
func (s *Session) PointerDown(x, y float64, nodeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.PointerDown(x, y, nodeID)
}

// PointerMove advances the active gesture.
func (s *Session) PointerMove(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.PointerMove(x, y)
}

// PointerUp ends the active gesture, firing selection for an unmoved
// click on a non-root node.
func (s *Session) PointerUp() {
	s.mu.Lock()
	ctrl := s.ctrl
	s.mu.Unlock()
	// The controller invokes SelectNode, which re-locks.
	ctrl.PointerUp()
}

// ZoomBy adjusts the zoom level within the viewport bounds.
func (s *Session) ZoomBy(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.ZoomBy(delta)
}

// ResetView restores the identity transform.
func (s *Session) ResetView() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.ResetView()
}

// NodeAt hit-tests screen position (x, y) against the current node
// positions and returns the ID of the nearest node within radius screen
// units, or "" if none is close enough.
func (s *Session) NodeAt(x, y, radius float64) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	best := ""
	bestDist := radius
	for _, n := range s.g.Nodes {
		p := s.view.ToScreen(viewport.Point{X: n.X, Y: n.Y})
		d := math.Hypot(p.X-x, p.Y-y)
		if d <= bestDist {
			best = n.ID
			bestDist = d
		}
	}
	return best
}

// =============================================================================
// Renderer Snapshot
// =============================================================================

// FrameEdge is an edge resolved to logical coordinate pairs for rendering.
type FrameEdge struct {
	FromID       string         `json:"from_id"`
	ToID         string         `json:"to_id"`
	From         viewport.Point `json:"from"`
	To           viewport.Point `json:"to"`
	Relationship string         `json:"relationship,omitempty"`
}

// Frame is a point-in-time snapshot of everything a renderer needs.
type Frame struct {
	RootID string                  `json:"root_id"`
	Nodes  []graph.Node            `json:"nodes"`
	Edges  []FrameEdge             `json:"edges"`
	Rings  map[string]ringmap.Ring `json:"rings"`
	View   viewport.Transform      `json:"view"`

	// Interacting reports a gesture mid-flight; renderers use it only to
	// decide whether to animate transform changes.
	Interacting bool `json:"interacting"`
}

// Frame returns a snapshot of the current graph, resolved edges, and view
// state. The returned node slice is a copy; mutating it does not affect
// the session.
func (s *Session) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := Frame{
		RootID:      s.rootID,
		Nodes:       make([]graph.Node, len(s.g.Nodes)),
		Rings:       s.rings,
		View:        s.view,
		Interacting: s.ctrl.Active(),
	}
	copy(f.Nodes, s.g.Nodes)
	f.Edges = resolveEdges(s.g)
	return f
}

// BuildFrame assembles a static frame with the identity view from a
// layout result. Stateless surfaces (the HTTP API, exports) use this
// instead of holding a session.
func BuildFrame(rootID string, res ringmap.Result, edges []graph.Edge) Frame {
	return Frame{
		RootID: rootID,
		Nodes:  res.Nodes,
		Edges:  resolveEdges(graph.Graph{Nodes: res.Nodes, Edges: edges}),
		Rings:  res.Rings,
		View:   viewport.New(),
	}
}

// resolveEdges attaches endpoint coordinates to every edge whose
// endpoints exist in the node list; the rest are dropped from the render
// set.
func resolveEdges(g graph.Graph) []FrameEdge {
	idx := g.Index()
	var out []FrameEdge
	for _, e := range g.Edges {
		fi, ok := idx[e.From]
		if !ok {
			continue
		}
		ti, ok := idx[e.To]
		if !ok {
			continue
		}
		out = append(out, FrameEdge{
			FromID:       e.From,
			ToID:         e.To,
			From:         viewport.Point{X: g.Nodes[fi].X, Y: g.Nodes[fi].Y},
			To:           viewport.Point{X: g.Nodes[ti].X, Y: g.Nodes[ti].Y},
			Relationship: e.Relationship,
		})
	}
	return out
}

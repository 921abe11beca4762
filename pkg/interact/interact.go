// Package interact maps pointer input onto the graph view: panning,
// per-node dragging, zooming, and the click-vs-drag disambiguation that
// decides whether a pointer release counts as a node selection.
//
// A Controller tracks exactly one gesture at a time - the span from
// pointer-down to pointer-up - and is either panning the viewport or
// dragging a single node, never both. A click only fires the selection
// callback when the pointer never moved between down and up and the
// target is not the root node.
package interact

import (
	"github.com/orbitviz/orbit/pkg/graph"
	"github.com/orbitviz/orbit/pkg/viewport"
)

// gesture is the controller's state within a pointer-down/up lifecycle.
type gesture int

const (
	gestureIdle gesture = iota
	gesturePan
	gestureNodePending // pointer down on a node, not yet moved
	gestureNodeDrag    // node drag confirmed by a move
)

// Controller consumes pointer events and mutates the shared node slice
// (drag) and viewport transform (pan/zoom). It never triggers a re-layout:
// a full layout pass only happens when a new graph is loaded.
//
// Not safe for concurrent use; pointer events arrive as a single stream.
type Controller struct {
	view     *viewport.Transform
	g        *graph.Graph
	index    map[string]int
	rootID   string
	onSelect func(nodeID string)

	state    gesture
	nodeID   string
	hasMoved bool
	lastX    float64
	lastY    float64
}

// New creates a controller operating on the given transform. onSelect may
// be nil, in which case clicks are swallowed.
func New(view *viewport.Transform, onSelect func(nodeID string)) *Controller {
	return &Controller{view: view, onSelect: onSelect}
}

// SetGraph points the controller at a freshly loaded graph and cancels
// any gesture that was mid-flight when the load completed.
func (c *Controller) SetGraph(g *graph.Graph, rootID string) {
	c.g = g
	c.rootID = rootID
	c.index = nil
	if g != nil {
		c.index = g.Index()
	}
	c.reset()
}

// PointerDown begins a gesture at screen position (x, y). A non-empty
// nodeID starts a pending node drag on that node; otherwise the gesture
// is a pan.
func (c *Controller) PointerDown(x, y float64, nodeID string) {
	c.lastX, c.lastY = x, y
	c.hasMoved = false
	if nodeID != "" {
		c.state = gestureNodePending
		c.nodeID = nodeID
		return
	}
	c.state = gesturePan
}

// PointerMove advances the active gesture to screen position (x, y).
// Panning applies the screen-space delta directly to the transform; a
// node drag overwrites the node's logical position with the pointer
// position converted through the current transform.
func (c *Controller) PointerMove(x, y float64) {
	switch c.state {
	case gesturePan:
		c.view.Pan(x-c.lastX, y-c.lastY)
		c.lastX, c.lastY = x, y

	case gestureNodePending, gestureNodeDrag:
		c.state = gestureNodeDrag
		c.hasMoved = true
		c.moveNode(c.nodeID, c.view.ToLogical(viewport.Point{X: x, Y: y}))
	}
}

// PointerUp ends the gesture and returns to idle. If the gesture was a
// press-and-release on a node with no intervening movement, and the node
// is not the root, the selection callback fires.
func (c *Controller) PointerUp() {
	fire := c.state == gestureNodePending && !c.hasMoved &&
		c.nodeID != c.rootID && c.onSelect != nil
	id := c.nodeID
	c.reset()
	if fire {
		c.onSelect(id)
	}
}

// ZoomBy adjusts the zoom level, clamped to the viewport bounds.
func (c *Controller) ZoomBy(delta float64) {
	c.view.ZoomBy(delta)
}

// ResetView restores the identity transform.
func (c *Controller) ResetView() {
	c.view.Reset()
}

// Active reports whether a gesture is mid-flight. The renderer uses this
// to suppress transform animations during direct manipulation; the session
// uses it to reject selection while dragging.
func (c *Controller) Active() bool {
	return c.state != gestureIdle
}

func (c *Controller) reset() {
	c.state = gestureIdle
	c.nodeID = ""
	c.hasMoved = false
}

func (c *Controller) moveNode(id string, p viewport.Point) {
	if c.g == nil {
		return
	}
	if i, ok := c.index[id]; ok {
		c.g.Nodes[i].X = p.X
		c.g.Nodes[i].Y = p.Y
	}
}

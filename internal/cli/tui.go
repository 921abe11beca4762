package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/orbitviz/orbit/pkg/ringmap"
	"github.com/orbitviz/orbit/pkg/session"
	"github.com/orbitviz/orbit/pkg/viewport"
)

// Keyboard zoom step and pan step (screen units per key press).
const (
	zoomStep = 0.1
	panStep  = 40.0
)

// graphLoadedMsg reports a finished (or failed) graph load.
type graphLoadedMsg struct {
	resourceID string
	err        error
}

// ExploreModel is the bubbletea model for the interactive graph explorer.
//
// The terminal grid acts as the screen space of the viewport transform:
// cell coordinates are projected onto the logical canvas extent, so
// pointer gestures, hit-testing, and rendering all share one coordinate
// mapping.
type ExploreModel struct {
	sess    *session.Session
	ctx     context.Context
	canvasW float64
	canvasH float64

	width  int // terminal columns
	height int // terminal rows
	depth  int

	nav      chan string // selection targets from the session callback
	loading  bool
	errText  string
	selected string // last clicked node, highlighted until next load
}

// NewExploreModel creates the explorer model. nav receives node IDs from
// the session's selection callback; the model turns them into reloads
// rooted at the clicked resource.
func NewExploreModel(ctx context.Context, sess *session.Session, nav chan string, canvasW, canvasH float64, depth int) ExploreModel {
	return ExploreModel{
		sess:    sess,
		ctx:     ctx,
		canvasW: canvasW,
		canvasH: canvasH,
		width:   80,
		height:  24,
		depth:   depth,
		nav:     nav,
	}
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)
	case tea.MouseMsg:
		return m.updateMouse(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case graphLoadedMsg:
		m.loading = false
		m.selected = ""
		m.errText = ""
		if msg.err != nil {
			m.errText = msg.err.Error()
			if msg.resourceID != "" {
				m.errText = msg.resourceID + ": " + m.errText
			}
		} else {
			_, m.depth = m.sess.Resource()
		}
	}
	return m, nil
}

func (m ExploreModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "+", "=":
		m.sess.ZoomBy(zoomStep)
	case "-", "_":
		m.sess.ZoomBy(-zoomStep)
	case "r":
		m.sess.ResetView()
	case "left":
		m.sess.PointerDown(0, 0, "")
		m.sess.PointerMove(panStep, 0)
		m.sess.PointerUp()
	case "right":
		m.sess.PointerDown(0, 0, "")
		m.sess.PointerMove(-panStep, 0)
		m.sess.PointerUp()
	case "up":
		m.sess.PointerDown(0, 0, "")
		m.sess.PointerMove(0, panStep)
		m.sess.PointerUp()
	case "down":
		m.sess.PointerDown(0, 0, "")
		m.sess.PointerMove(0, -panStep)
		m.sess.PointerUp()
	case "1", "2":
		depth := 1
		if msg.String() == "2" {
			depth = 2
		}
		if depth != m.depth && !m.loading {
			m.loading = true
			return m, m.setDepthCmd(depth)
		}
	}
	return m, nil
}

func (m ExploreModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	x, y := m.cellToScreen(msg.X, msg.Y-headerRows)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			target := m.sess.NodeAt(x, y, m.hitRadius())
			m.selected = target
			m.sess.PointerDown(x, y, target)
		case tea.MouseButtonWheelUp:
			m.sess.ZoomBy(zoomStep)
		case tea.MouseButtonWheelDown:
			m.sess.ZoomBy(-zoomStep)
		}

	case tea.MouseActionMotion:
		m.sess.PointerMove(x, y)

	case tea.MouseActionRelease:
		m.sess.PointerUp()
		// A clean click lands a navigation target on the channel.
		select {
		case id := <-m.nav:
			m.loading = true
			m.selected = id
			return m, m.loadCmd(id)
		default:
		}
	}
	return m, nil
}

func (m ExploreModel) loadCmd(resourceID string) tea.Cmd {
	depth := m.depth
	return func() tea.Msg {
		loggerFromContext(m.ctx).Debug("refocusing", "resource", resourceID, "depth", depth)
		err := m.sess.LoadGraph(m.ctx, resourceID, depth)
		return graphLoadedMsg{resourceID: resourceID, err: err}
	}
}

func (m ExploreModel) setDepthCmd(depth int) tea.Cmd {
	return func() tea.Msg {
		err := m.sess.SetDepth(m.ctx, depth)
		return graphLoadedMsg{err: err}
	}
}

// =============================================================================
// Coordinate Mapping
// =============================================================================

// Rows reserved above and below the canvas grid.
const (
	headerRows = 1
	footerRows = 2
)

func (m ExploreModel) gridSize() (int, int) {
	w := max(m.width, 20)
	h := max(m.height-headerRows-footerRows, 10)
	return w, h
}

// cellToScreen projects a terminal cell onto the screen-space canvas.
func (m ExploreModel) cellToScreen(cx, cy int) (float64, float64) {
	gw, gh := m.gridSize()
	return float64(cx) / float64(gw) * m.canvasW,
		float64(cy) / float64(gh) * m.canvasH
}

// screenToCell projects a screen-space point into the terminal grid.
// The second return is false when the point is outside the grid.
func (m ExploreModel) screenToCell(p viewport.Point) (int, int, bool) {
	gw, gh := m.gridSize()
	cx := int(p.X / m.canvasW * float64(gw))
	cy := int(p.Y / m.canvasH * float64(gh))
	if cx < 0 || cx >= gw || cy < 0 || cy >= gh {
		return 0, 0, false
	}
	return cx, cy, true
}

// hitRadius is the pointer hit-test tolerance in screen units, derived
// from a two-cell reach in the terminal grid.
func (m ExploreModel) hitRadius() float64 {
	gw, _ := m.gridSize()
	return 2.0 / float64(gw) * m.canvasW
}

// =============================================================================
// View
// =============================================================================

func (m ExploreModel) View() string {
	frame := m.sess.Frame()
	gw, gh := m.gridSize()

	grid := make([][]string, gh)
	for i := range grid {
		grid[i] = make([]string, gw)
		for j := range grid[i] {
			grid[i][j] = " "
		}
	}

	// Edges first so nodes draw over them.
	for _, e := range frame.Edges {
		m.drawEdge(grid, frame.View, e)
	}
	for i := range frame.Nodes {
		m.drawNode(grid, frame, i)
	}

	var b strings.Builder
	b.WriteString(m.header(frame))
	b.WriteString("\n")
	for _, row := range grid {
		b.WriteString(strings.Join(row, ""))
		b.WriteString("\n")
	}
	b.WriteString(m.footer(frame))
	return b.String()
}

// drawNode plots a node glyph and as much of its label as fits.
func (m ExploreModel) drawNode(grid [][]string, frame session.Frame, i int) {
	n := frame.Nodes[i]
	cx, cy, ok := m.screenToCell(frame.View.ToScreen(viewport.Point{X: n.X, Y: n.Y}))
	if !ok {
		return
	}

	glyph := "●"
	style := styleNodeRing2
	switch frame.Rings[n.ID] {
	case ringmap.RingRoot:
		glyph = "◉"
		style = styleNodeRoot
	case ringmap.RingOne:
		style = styleNodeRing1
	case ringmap.RingOverflow:
		style = styleNodeOverflow
	}
	if n.ID == m.selected {
		style = styleNodeSelected
	}
	grid[cy][cx] = style.Render(glyph)

	// Label to the right of the glyph, clipped at the grid edge.
	label := n.DisplayLabel()
	if len(label) > 16 {
		label = label[:15] + "…"
	}
	for j, r := range []rune(" " + label) {
		x := cx + 1 + j
		if x >= len(grid[0]) {
			break
		}
		if grid[cy][x] != " " {
			break
		}
		grid[cy][x] = style.Render(string(r))
	}
}

func (m ExploreModel) header(frame session.Frame) string {
	resource, depth := m.sess.Resource()
	title := StyleTitle.Render("orbit")
	info := StyleDim.Render(fmt.Sprintf("  %s  depth %d  zoom %.0f%%", resource, depth, frame.View.Zoom*100))
	return title + info
}

func (m ExploreModel) footer(frame session.Frame) string {
	status := StyleDim.Render("drag node to move · drag canvas to pan · wheel/+/- zoom · r reset · 1/2 depth · click node to refocus · q quit")
	line2 := ""
	switch {
	case m.loading:
		line2 = StyleWarning.Render("loading…")
	case m.errText != "":
		line2 = StyleError.Render("✗ " + m.errText)
	case m.selected != "":
		line2 = StyleSuccess.Render("▸ " + m.selected)
	default:
		line2 = StyleDim.Render(fmt.Sprintf("%d nodes, %d edges", len(frame.Nodes), len(frame.Edges)))
	}
	return status + "\n" + line2
}

// drawEdge plots a line of dots between the edge's endpoints.
func (m ExploreModel) drawEdge(grid [][]string, view viewport.Transform, e session.FrameEdge) {
	x0, y0, ok0 := m.screenToCell(view.ToScreen(e.From))
	x1, y1, ok1 := m.screenToCell(view.ToScreen(e.To))
	if !ok0 && !ok1 {
		return
	}
	// Bresenham between the endpoint cells.
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 >= x1 {
		sx = -1
	}
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy
	x, y := x0, y0
	for {
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[0]) && grid[y][x] == " " {
			grid[y][x] = styleEdge.Render("·")
		}
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

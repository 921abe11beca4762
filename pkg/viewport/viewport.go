// Package viewport provides the pan/zoom transform between logical graph
// space and screen space.
//
// Node positions are stored in logical space; the renderer and pointer
// hit-testing work in screen space. [Transform.ToScreen] and
// [Transform.ToLogical] are exact inverses for any zoom > 0.
package viewport

import "math"

// Zoom bounds enforced by [Transform.ZoomBy].
const (
	MinZoom = 0.3
	MaxZoom = 2.0
)

// Point is a 2D coordinate in either logical or screen space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Transform holds the current view state: a screen-space pan offset and a
// zoom scale. The zero value is not usable - use New for the identity view.
type Transform struct {
	PanX float64 `json:"pan_x"`
	PanY float64 `json:"pan_y"`
	Zoom float64 `json:"zoom"`
}

// New returns the identity transform: no pan, zoom 1.
func New() Transform {
	return Transform{Zoom: 1}
}

// ToScreen converts a logical point to screen space:
// screen = logical*zoom + pan.
func (t Transform) ToScreen(p Point) Point {
	return Point{
		X: p.X*t.Zoom + t.PanX,
		Y: p.Y*t.Zoom + t.PanY,
	}
}

// ToLogical converts a screen point back to logical space:
// logical = (screen - pan) / zoom.
func (t Transform) ToLogical(p Point) Point {
	return Point{
		X: (p.X - t.PanX) / t.Zoom,
		Y: (p.Y - t.PanY) / t.Zoom,
	}
}

// Pan shifts the view by a screen-space delta. Pan is un-scaled: a pointer
// moving 10 pixels shifts the view 10 pixels regardless of zoom.
func (t *Transform) Pan(dx, dy float64) {
	t.PanX += dx
	t.PanY += dy
}

// ZoomBy adjusts the zoom by delta, clamped to [MinZoom, MaxZoom].
func (t *Transform) ZoomBy(delta float64) {
	t.Zoom = math.Min(MaxZoom, math.Max(MinZoom, t.Zoom+delta))
}

// Reset restores the identity view.
func (t *Transform) Reset() {
	t.PanX = 0
	t.PanY = 0
	t.Zoom = 1
}

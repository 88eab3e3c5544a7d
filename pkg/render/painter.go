package render

import (
	"sort"

	"github.com/arunthurai/seeg2bids-pipeline/pkg/math3d"
)

// Canvas is the drawing surface a figure renders onto. Coordinates are
// pixels with the origin at the top left. Both the raster and the SVG
// backends implement it.
type Canvas interface {
	// Size returns the canvas dimensions in pixels.
	Size() (w, h int)
	// FillRect fills an axis-aligned rectangle.
	FillRect(x, y, w, h float64, c Color)
	// FillTriangle fills a triangle with a solid color. Edges are
	// stroked in the same color so adjacent triangles leave no seams.
	FillTriangle(p0, p1, p2 math3d.Vec2, c Color)
	// Text draws a horizontal string. The anchor point is the center
	// of the rendered text.
	Text(x, y float64, s string, c Color)
	// TextVertical draws a string rotated 90 degrees counter-clockwise,
	// anchored at its center.
	TextVertical(x, y float64, s string, c Color)
}

// PaintOrder returns face indices sorted by ascending depth key. Painting
// in this order realizes the painter's algorithm: farther faces first,
// nearer faces drawn over them. The sort is stable so coincident faces
// keep their input order.
func PaintOrder(tris []ScreenTriangle) []int {
	order := make([]int, len(tris))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return tris[order[a]].Depth < tris[order[b]].Depth
	})
	return order
}

// PaintTriangles draws the projected faces of one view onto the canvas
// in painter order. The viewport maps the data window (x in [-1, 1],
// y in [-0.6, 0.6]) into the tile, preserving aspect. Faces paint fully
// opaque: composited alpha is a tint input carried through the color
// stages, not pixel coverage.
func PaintTriangles(cv Canvas, tris []ScreenTriangle, colors []Color, vp Viewport) {
	for _, i := range PaintOrder(tris) {
		t := tris[i]
		c := colors[i]
		c.A = 1
		cv.FillTriangle(vp.Apply(t.P[0]), vp.Apply(t.P[1]), vp.Apply(t.P[2]), c)
	}
}

// Viewport maps data-space coordinates to pixel coordinates within a
// figure tile. Y flips: data Y grows upward, pixel Y grows downward.
type Viewport struct {
	CX, CY float64 // tile center, pixels
	Scale  float64 // pixels per data unit
}

// Apply converts a data-space point to pixels.
func (vp Viewport) Apply(p math3d.Vec2) math3d.Vec2 {
	return math3d.V2(vp.CX+p.X*vp.Scale, vp.CY-p.Y*vp.Scale)
}

package render

import (
	"fmt"
	"io"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/arunthurai/seeg2bids-pipeline/pkg/math3d"
)

// SVGCanvas is the vector Canvas backend built on svgo. Triangles are
// emitted as polygons stroked in their own fill color so adjacent faces
// tile without hairline gaps.
type SVGCanvas struct {
	doc  *svg.SVG
	w, h int
}

// NewSVGCanvas starts an SVG document of the given pixel size with a
// white background.
func NewSVGCanvas(w io.Writer, width, height int) *SVGCanvas {
	doc := svg.New(w)
	doc.Start(width, height)
	doc.Rect(0, 0, width, height, "fill:white")
	return &SVGCanvas{doc: doc, w: width, h: height}
}

// Size returns the document dimensions.
func (c *SVGCanvas) Size() (int, int) { return c.w, c.h }

// Close finishes the SVG document.
func (c *SVGCanvas) Close() { c.doc.End() }

func cssColor(col Color) string {
	r := col.RGBA8()
	return fmt.Sprintf("#%02x%02x%02x", r.R, r.G, r.B)
}

// FillRect emits a filled rectangle.
func (c *SVGCanvas) FillRect(x, y, w, h float64, col Color) {
	c.doc.Rect(int(x), int(y), int(w+0.5), int(h+0.5), "fill:"+cssColor(col))
}

// FillTriangle emits a solid polygon.
func (c *SVGCanvas) FillTriangle(p0, p1, p2 math3d.Vec2, col Color) {
	xs := []int{round(p0.X), round(p1.X), round(p2.X)}
	ys := []int{round(p0.Y), round(p1.Y), round(p2.Y)}
	css := cssColor(col)
	c.doc.Polygon(xs, ys, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:0.5", css, css))
}

const svgTextStyle = "font-family:sans-serif;font-size:13px;text-anchor:middle;dominant-baseline:middle"

// Text emits a centered horizontal string.
func (c *SVGCanvas) Text(x, y float64, s string, col Color) {
	c.doc.Text(round(x), round(y), s, svgTextStyle+";fill:"+cssColor(col))
}

// TextVertical emits a string rotated 90 degrees counter-clockwise about
// its anchor.
func (c *SVGCanvas) TextVertical(x, y float64, s string, col Color) {
	c.doc.Gtransform(fmt.Sprintf("rotate(-90,%d,%d)", round(x), round(y)))
	c.doc.Text(round(x), round(y), s, svgTextStyle+";fill:"+cssColor(col))
	c.doc.Gend()
}

func round(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

// RenderSVGFile renders a figure into an SVG file.
func RenderSVGFile(path string, width, height int, render func(Canvas) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	cv := NewSVGCanvas(f, width, height)
	if err := render(cv); err != nil {
		f.Close()
		return err
	}
	cv.Close()
	return f.Close()
}

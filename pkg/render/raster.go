package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/arunthurai/seeg2bids-pipeline/pkg/math3d"
)

// Raster is the PNG Canvas backend: an in-memory RGBA framebuffer with
// triangle fill and bitmap text.
type Raster struct {
	img  *image.RGBA
	w, h int
}

// NewRaster allocates a framebuffer cleared to white.
func NewRaster(w, h int) *Raster {
	r := &Raster{
		img: image.NewRGBA(image.Rect(0, 0, w, h)),
		w:   w,
		h:   h,
	}
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return r
}

// Size returns the framebuffer dimensions.
func (r *Raster) Size() (int, int) { return r.w, r.h }

// Image exposes the underlying framebuffer.
func (r *Raster) Image() *image.RGBA { return r.img }

// FillRect fills an axis-aligned rectangle, clipped to the framebuffer.
func (r *Raster) FillRect(x, y, w, h float64, c Color) {
	rect := image.Rect(int(math.Floor(x)), int(math.Floor(y)),
		int(math.Ceil(x+w)), int(math.Ceil(y+h)))
	draw.Draw(r.img, rect.Intersect(r.img.Bounds()), image.NewUniform(c.RGBA8()), image.Point{}, draw.Src)
}

// FillTriangle rasterizes a solid triangle with inclusive edge coverage,
// so triangles sharing an edge leave no gap between them.
func (r *Raster) FillTriangle(p0, p1, p2 math3d.Vec2, c Color) {
	// Orient counter-clockwise so all edge functions share a sign.
	if signedArea(p0, p1, p2) < 0 {
		p1, p2 = p2, p1
	}
	if signedArea(p0, p1, p2) == 0 {
		return
	}

	minX := int(math.Floor(min3(p0.X, p1.X, p2.X)))
	maxX := int(math.Ceil(max3(p0.X, p1.X, p2.X)))
	minY := int(math.Floor(min3(p0.Y, p1.Y, p2.Y)))
	maxY := int(math.Ceil(max3(p0.Y, p1.Y, p2.Y)))
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX >= r.w {
		maxX = r.w - 1
	}
	if maxY >= r.h {
		maxY = r.h - 1
	}

	col := c.RGBA8()
	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			p := math3d.V2(float64(px)+0.5, float64(py)+0.5)
			if edge(p0, p1, p) >= 0 && edge(p1, p2, p) >= 0 && edge(p2, p0, p) >= 0 {
				r.img.SetRGBA(px, py, col)
			}
		}
	}
}

func edge(a, b, p math3d.Vec2) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

func signedArea(a, b, c math3d.Vec2) float64 {
	return edge(a, b, c)
}

func min3(a, b, c float64) float64 { return math.Min(a, math.Min(b, c)) }
func max3(a, b, c float64) float64 { return math.Max(a, math.Max(b, c)) }

var rasterFace = basicfont.Face7x13

// Text draws a string centered on (x, y) with the built-in bitmap face.
func (r *Raster) Text(x, y float64, s string, c Color) {
	d := font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(c.RGBA8()),
		Face: rasterFace,
	}
	w := d.MeasureString(s).Ceil()
	d.Dot = fixed.P(int(x)-w/2, int(y)+rasterFace.Ascent/2)
	d.DrawString(s)
}

// TextVertical draws a string rotated 90 degrees counter-clockwise,
// centered on (x, y). The string renders into a scratch image that is
// copied transposed into the framebuffer.
func (r *Raster) TextVertical(x, y float64, s string, c Color) {
	d := font.Drawer{Face: rasterFace}
	w := d.MeasureString(s).Ceil()
	h := rasterFace.Height

	scratch := image.NewRGBA(image.Rect(0, 0, w, h))
	d.Dst = scratch
	d.Src = image.NewUniform(c.RGBA8())
	d.Dot = fixed.P(0, rasterFace.Ascent)
	d.DrawString(s)

	// (sx, sy) in scratch maps to (x + sy - h/2, y - sx + w/2).
	x0 := int(x) - h/2
	y0 := int(y) + w/2
	for sy := 0; sy < h; sy++ {
		for sx := 0; sx < w; sx++ {
			px := scratch.RGBAAt(sx, sy)
			if px.A == 0 {
				continue
			}
			r.img.SetRGBA(x0+sy, y0-sx, px)
		}
	}
}

// WritePNG encodes the framebuffer to a PNG file.
func (r *Raster) WritePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, r.img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

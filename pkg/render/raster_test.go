package render

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/arunthurai/seeg2bids-pipeline/pkg/math3d"
)

func TestNewRasterClearsWhite(t *testing.T) {
	r := NewRaster(4, 4)
	if got := r.Image().RGBAAt(2, 2); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("fresh pixel = %+v, want white", got)
	}
}

func TestFillTriangleCoverage(t *testing.T) {
	r := NewRaster(20, 20)
	red := Color{1, 0, 0, 1}
	r.FillTriangle(math3d.V2(1, 1), math3d.V2(18, 1), math3d.V2(1, 18), red)

	if got := r.Image().RGBAAt(3, 3); got != red.RGBA8() {
		t.Errorf("interior pixel = %+v, want red", got)
	}
	if got := r.Image().RGBAAt(18, 18); got == red.RGBA8() {
		t.Error("pixel outside the triangle was filled")
	}
}

func TestFillTriangleWindingIndependent(t *testing.T) {
	blue := Color{0, 0, 1, 1}
	a := NewRaster(20, 20)
	a.FillTriangle(math3d.V2(1, 1), math3d.V2(18, 1), math3d.V2(1, 18), blue)
	b := NewRaster(20, 20)
	b.FillTriangle(math3d.V2(1, 1), math3d.V2(1, 18), math3d.V2(18, 1), blue)

	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if a.Image().RGBAAt(x, y) != b.Image().RGBAAt(x, y) {
				t.Fatalf("winding changed coverage at (%d, %d)", x, y)
			}
		}
	}
}

func TestFillTriangleDegenerate(t *testing.T) {
	r := NewRaster(10, 10)
	// Collinear corners: nothing to fill, and no panic.
	r.FillTriangle(math3d.V2(1, 1), math3d.V2(5, 5), math3d.V2(9, 9), Color{1, 0, 0, 1})
}

func TestFillTriangleClipped(t *testing.T) {
	r := NewRaster(10, 10)
	// Corners far outside the framebuffer must not panic.
	r.FillTriangle(math3d.V2(-100, -100), math3d.V2(100, -100), math3d.V2(0, 100), Color{0, 1, 0, 1})
	if got := r.Image().RGBAAt(5, 5); got != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("clipped fill missed interior pixel: %+v", got)
	}
}

func TestFillRect(t *testing.T) {
	r := NewRaster(10, 10)
	r.FillRect(2, 3, 4, 2, Color{0, 0, 0, 1})
	if got := r.Image().RGBAAt(3, 4); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("rect pixel = %+v, want black", got)
	}
	if got := r.Image().RGBAAt(8, 8); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("pixel outside rect changed: %+v", got)
	}
}

func TestWritePNG(t *testing.T) {
	r := NewRaster(8, 8)
	path := filepath.Join(t.TempDir(), "out.png")
	if err := r.WritePNG(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Error("output is not a PNG file")
	}
}

func TestTintedFaceStaysOpaqueInPNG(t *testing.T) {
	// A mid-grey face tinted by a half-alpha label must round-trip
	// through PNG as opaque grey, not as a half-transparent pixel.
	r := NewRaster(20, 20)
	tinted := Color{0.5, 0.5, 0.5, 1}.Mul(Color{1, 1, 1, 0.5})
	tris := []ScreenTriangle{{P: [3]math3d.Vec2{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 0, Y: 1}}}}
	PaintTriangles(r, tris, []Color{tinted}, Viewport{CX: 10, CY: 10, Scale: 9})

	path := filepath.Join(t.TempDir(), "tinted.png")
	if err := r.WritePNG(path); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}

	cr, cg, cb, ca := img.At(10, 10).RGBA()
	if ca != 0xffff {
		t.Fatalf("decoded alpha = %#x, want opaque", ca)
	}
	want := uint32(128) * 0x101 // 0.5 in 16-bit channels
	for name, got := range map[string]uint32{"R": cr, "G": cg, "B": cb} {
		if got != want {
			t.Errorf("decoded %s = %#x, want %#x", name, got, want)
		}
	}
}

func TestTextMarksPixels(t *testing.T) {
	r := NewRaster(100, 40)
	r.Text(50, 20, "Left", Color{0, 0, 0, 1})
	found := false
	for y := 0; y < 40 && !found; y++ {
		for x := 0; x < 100; x++ {
			if r.Image().RGBAAt(x, y) != (color.RGBA{255, 255, 255, 255}) {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("Text drew nothing")
	}
}

package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arunthurai/seeg2bids-pipeline/pkg/math3d"
	"github.com/arunthurai/seeg2bids-pipeline/pkg/surface"
)

// planarMesh is a flat two-triangle square in the z=0 plane.
func planarMesh(name string) *surface.Mesh {
	return &surface.Mesh{
		Name: name,
		Vertices: []math3d.Vec3{
			math3d.V3(0, 0, 0),
			math3d.V3(1, 0, 0),
			math3d.V3(0, 1, 0),
			math3d.V3(1, 1, 0),
		},
		Faces: [][3]int{{0, 1, 2}, {1, 3, 2}},
	}
}

func uniformField(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestRenderFlatSulcOnly(t *testing.T) {
	// A flat mesh with uniform sulcal value 1.0 and nothing else: every
	// face in every view gets the narrow greyscale color at input 1.0,
	// scaled only by its shading intensity, and no overlay recolor runs.
	mesh := planarMesh("flat")
	hemi := Hemi{Mesh: mesh, Sulc: uniformField(4, 1.0)}
	in := Input{Left: hemi, Right: hemi}

	cv := &recordingCanvas{w: 800, h: 600}
	if err := Render(in, Options{}, cv); err != nil {
		t.Fatal(err)
	}

	// 2 hemispheres x 2 views x 2 faces.
	if len(cv.triangles) != 8 {
		t.Fatalf("drew %d triangles, want 8", len(cv.triangles))
	}

	// Both face normals point straight at the light, so the intensity
	// rescale saturates and the base color survives unchanged.
	want := GreysNarrow().At(1.0)
	for i, tri := range cv.triangles {
		if !colorsEqual(tri.color, want, 1e-9) {
			t.Errorf("triangle %d color = %+v, want %+v", i, tri.color, want)
		}
	}
}

func TestRenderAnnotations(t *testing.T) {
	hemi := Hemi{Mesh: planarMesh("flat")}
	cv := &recordingCanvas{w: 400, h: 300}
	if err := Render(Input{Left: hemi, Right: hemi}, Options{Title: "subject-01"}, cv); err != nil {
		t.Fatal(err)
	}
	joined := strings.Join(cv.texts, "|")
	for _, want := range []string{"Left", "Right", "Lateral", "Medial", "subject-01"} {
		if !strings.Contains(joined, want) {
			t.Errorf("annotation %q missing from %q", want, joined)
		}
	}
}

func TestRenderColorbarTicks(t *testing.T) {
	mesh := planarMesh("flat")
	vmin, vmax, thr := -2.0, 2.0, 1.0
	hemi := Hemi{Mesh: mesh, Overlay: uniformField(4, 1.5)}
	opts := Options{
		Colorbar:  true,
		VMin:      &vmin,
		VMax:      &vmax,
		Threshold: &thr,
	}
	cv := &recordingCanvas{w: 400, h: 300}
	if err := Render(Input{Left: hemi, Right: hemi}, opts, cv); err != nil {
		t.Fatal(err)
	}
	joined := strings.Join(cv.texts, "|")
	for _, want := range []string{"-2", "-1", "1", "2"} {
		if !strings.Contains(joined, want) {
			t.Errorf("tick %q missing from %q", want, joined)
		}
	}
}

func TestResolveLabelAlpha(t *testing.T) {
	zero, third := 0.0, 0.3
	tests := []struct {
		in   *float64
		want float64
	}{
		{nil, 0.5},
		{&zero, 0},
		{&third, 0.3},
	}
	for _, tt := range tests {
		if got := resolveLabelAlpha(tt.in); got != tt.want {
			t.Errorf("resolveLabelAlpha(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRenderLabelColorMismatch(t *testing.T) {
	mesh := planarMesh("flat")
	hemi := Hemi{
		Mesh:   mesh,
		Labels: [][]float64{uniformField(4, 1)},
	}
	err := Render(Input{Left: hemi, Right: hemi}, Options{}, &recordingCanvas{w: 100, h: 75})
	if err == nil {
		t.Fatal("expected error for label without a color")
	}
}

func TestRenderFieldLengthMismatch(t *testing.T) {
	mesh := planarMesh("flat")
	hemi := Hemi{Mesh: mesh, Overlay: uniformField(3, 1)} // mesh has 4 vertices
	err := Render(Input{Left: hemi, Right: hemi}, Options{}, &recordingCanvas{w: 100, h: 75})
	if err == nil || !strings.Contains(err.Error(), "same number of vertices") {
		t.Fatalf("error = %v, want vertex-count mismatch", err)
	}
}

func TestRenderToFilePNG(t *testing.T) {
	hemi := Hemi{Mesh: planarMesh("flat")}
	path := filepath.Join(t.TempDir(), "fig.png")
	if err := RenderToFile(path, Input{Left: hemi, Right: hemi}, Options{DPI: 16}); err != nil {
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

func TestRenderToFileSVG(t *testing.T) {
	hemi := Hemi{Mesh: planarMesh("flat")}
	path := filepath.Join(t.TempDir(), "fig.svg")
	if err := RenderToFile(path, Input{Left: hemi, Right: hemi}, Options{DPI: 16}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.Contains(s, "<svg") || !strings.Contains(s, "polygon") {
		t.Error("output does not look like an SVG document")
	}
}

package render

import (
	"math"
	"testing"
)

func nan() float64 { return math.NaN() }

func TestResolveRange(t *testing.T) {
	left := []float64{1, 2, math.NaN()}
	right := []float64{-3, 4}

	r := ResolveRange(nan(), nan(), nan(), left, right)
	if r.VMin != -3 || r.VMax != 4 {
		t.Errorf("resolved range [%v, %v], want [-3, 4]", r.VMin, r.VMax)
	}
	if r.Thresholded() {
		t.Error("range without threshold reports Thresholded")
	}

	r = ResolveRange(0, nan(), 1.5, left, right)
	if r.VMin != 0 || r.VMax != 4 {
		t.Errorf("half-pinned range [%v, %v], want [0, 4]", r.VMin, r.VMax)
	}
	if !r.Thresholded() {
		t.Error("threshold 1.5 not reported")
	}
}

func TestKeptFaces(t *testing.T) {
	overlay := []float64{-2, -0.5, 0, 0.5, 2}

	// No cortex, no threshold: everything kept.
	kept := KeptFaces(nil, overlay, OverlayRange{VMin: -2, VMax: 2, Threshold: nan()}, 5)
	if len(kept) != 5 {
		t.Fatalf("kept %d faces, want 5", len(kept))
	}

	// Threshold 1 drops the middle three.
	kept = KeptFaces(nil, overlay, OverlayRange{VMin: -2, VMax: 2, Threshold: 1}, 5)
	if len(kept) != 2 || kept[0] != 0 || kept[1] != 4 {
		t.Fatalf("thresholded kept = %v, want [0 4]", kept)
	}

	// Cortex intersects with the threshold set.
	cortex := []float64{0, 1, 1, 1, 1}
	kept = KeptFaces(cortex, overlay, OverlayRange{VMin: -2, VMax: 2, Threshold: 1}, 5)
	if len(kept) != 1 || kept[0] != 4 {
		t.Fatalf("intersected kept = %v, want [4]", kept)
	}
}

func TestKeptFacesThresholdMonotone(t *testing.T) {
	// Raising the threshold can only shrink the kept set.
	overlay := []float64{-3, -1.5, -0.2, 0, 0.4, 1.1, 2.7, math.NaN()}
	prev := len(overlay)
	for _, thr := range []float64{0, 0.3, 0.5, 1, 1.5, 2, 5} {
		kept := KeptFaces(nil, overlay, OverlayRange{VMin: -3, VMax: 3, Threshold: thr}, len(overlay))
		if len(kept) > prev {
			t.Fatalf("threshold %v kept %d faces, more than %d at the lower threshold", thr, len(kept), prev)
		}
		prev = len(kept)
	}
	if prev != 0 {
		t.Errorf("threshold above the data range still kept %d faces", prev)
	}
}

func TestKeptFacesNaNOverlay(t *testing.T) {
	// NaN overlay values never clear a threshold.
	overlay := []float64{math.NaN(), 2}
	kept := KeptFaces(nil, overlay, OverlayRange{VMin: 0, VMax: 2, Threshold: 1}, 2)
	if len(kept) != 1 || kept[0] != 1 {
		t.Fatalf("kept = %v, want [1]", kept)
	}
}

func TestMaskNonCortexOverridesOverlay(t *testing.T) {
	colors := []Color{{1, 0, 0, 1}, {0, 1, 0, 1}}
	MaskNonCortex(colors, []float64{0, 1})
	if colors[0] != nonCortexColor {
		t.Errorf("non-cortex face = %+v, want %+v", colors[0], nonCortexColor)
	}
	if colors[1] != (Color{0, 1, 0, 1}) {
		t.Errorf("cortex face changed: %+v", colors[1])
	}
}

func TestTintLabelsMultiplies(t *testing.T) {
	colors := []Color{{0.8, 0.4, 0.2, 1}, {1, 1, 1, 1}}
	labels := [][]float64{{1, 0}}
	tint := Color{0.5, 1, 1, 0.5}
	if err := TintLabels(colors, labels, []Color{tint}); err != nil {
		t.Fatal(err)
	}
	want := Color{0.4, 0.4, 0.2, 0.5}
	if !colorsEqual(colors[0], want, 1e-12) {
		t.Errorf("tinted face = %+v, want %+v", colors[0], want)
	}
	if colors[1] != (Color{1, 1, 1, 1}) {
		t.Errorf("unlabeled face changed: %+v", colors[1])
	}
}

func TestTintLabelsLengthMismatch(t *testing.T) {
	colors := []Color{{1, 1, 1, 1}}
	err := TintLabels(colors, [][]float64{{1}, {1}}, []Color{{1, 0, 0, 1}})
	if err == nil {
		t.Fatal("expected length-mismatch error")
	}
}

func TestApplyLightingLeavesAlpha(t *testing.T) {
	colors := []Color{{1, 1, 1, 0.5}}
	ApplyLighting(colors, []float64{0.3})
	want := Color{0.3, 0.3, 0.3, 0.5}
	if !colorsEqual(colors[0], want, 1e-12) {
		t.Errorf("lit color = %+v, want %+v", colors[0], want)
	}
}

func TestCompositeStageOrder(t *testing.T) {
	// One face carrying an overlay and a label: the final color must be
	// overlay color times label tint times intensity, proving the label
	// multiplies after the overlay recolor and lighting comes last.
	attrs := FaceAttributes{
		Sulc:      []float64{0, 1},
		Overlay:   []float64{2, 2},
		Labels:    [][]float64{{1, 0}},
		Intensity: []float64{0.5, 1},
	}
	r := OverlayRange{VMin: 0, VMax: 2, Threshold: nan()}
	cmap := Viridis()
	tint := Color{0.5, 0.5, 0.5, 0.4}

	got, err := Composite(attrs, cmap, []Color{tint}, r)
	if err != nil {
		t.Fatal(err)
	}

	base := cmap.At(1) // overlay value 2 normalizes to 1
	want0 := base.Mul(tint).Shade(0.5)
	if !colorsEqual(got[0], want0, 1e-12) {
		t.Errorf("face 0 = %+v, want %+v", got[0], want0)
	}
	if !colorsEqual(got[1], base, 1e-12) {
		t.Errorf("face 1 = %+v, want plain overlay color %+v", got[1], base)
	}
}

func TestCompositeNoOverlayKeepsBase(t *testing.T) {
	attrs := FaceAttributes{
		Sulc:      []float64{0, 1},
		Intensity: []float64{1, 1},
	}
	got, err := Composite(attrs, Viridis(), nil, OverlayRange{Threshold: nan()})
	if err != nil {
		t.Fatal(err)
	}
	base := GreysNarrow()
	if !colorsEqual(got[0], base.At(0), 1e-12) || !colorsEqual(got[1], base.At(1), 1e-12) {
		t.Errorf("base colors = %+v, %+v", got[0], got[1])
	}
}

func TestCompositeThresholdKeepsGreyBase(t *testing.T) {
	attrs := FaceAttributes{
		Sulc:      []float64{1, 1},
		Overlay:   []float64{0.1, 5},
		Intensity: []float64{1, 1},
	}
	r := OverlayRange{VMin: 0, VMax: 5, Threshold: 1}
	got, err := Composite(attrs, Viridis(), nil, r)
	if err != nil {
		t.Fatal(err)
	}
	if !colorsEqual(got[0], GreysNarrow().At(1), 1e-12) {
		t.Errorf("sub-threshold face recolored: %+v", got[0])
	}
	if !colorsEqual(got[1], Viridis().At(1), 1e-12) {
		t.Errorf("supra-threshold face = %+v, want overlay color", got[1])
	}
}

package render

import (
	"fmt"
	"math"
)

// FaceAttributes bundles the per-face scalar fields feeding one
// hemisphere's compositing pass. All slices are face-indexed and either
// nil (layer absent) or exactly FaceCount long.
type FaceAttributes struct {
	// Sulc is the binarized sulcal depth driving the greyscale base.
	Sulc []float64
	// Cortex is the median-reduced cortical mask; nil keeps every face.
	Cortex []float64
	// Overlay carries the statistical map, already reduced per face.
	Overlay []float64
	// Labels holds one median-reduced mask per label, in paint order.
	Labels [][]float64
	// Intensity is the lighting multiplier from FaceIntensities.
	Intensity []float64
}

// OverlayRange is the resolved color scale of an overlay.
type OverlayRange struct {
	VMin, VMax float64
	// Threshold hides faces whose absolute overlay value falls below
	// it. NaN means no thresholding.
	Threshold float64
}

// Thresholded reports whether a sub-threshold band exists.
func (r OverlayRange) Thresholded() bool { return !math.IsNaN(r.Threshold) }

// Normalize maps an overlay value onto [0, 1] of the colormap.
func (r OverlayRange) Normalize(v float64) float64 {
	return (v - r.VMin) / (r.VMax - r.VMin)
}

// ResolveRange fills unset (NaN) bounds from the nan-aware minimum and
// maximum of the given overlay fields, typically one per hemisphere.
func ResolveRange(vmin, vmax, threshold float64, overlays ...[]float64) OverlayRange {
	r := OverlayRange{VMin: vmin, VMax: vmax, Threshold: threshold}
	if !math.IsNaN(r.VMin) && !math.IsNaN(r.VMax) {
		return r
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, field := range overlays {
		for _, v := range field {
			if math.IsNaN(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsNaN(r.VMin) {
		r.VMin = lo
	}
	if math.IsNaN(r.VMax) {
		r.VMax = hi
	}
	return r
}

// BaseColors paints every face from the narrow greyscale map using the
// binarized sulcal field: gyri dark, sulci light, or a uniform mid-grey
// when no sulcal map was supplied.
func BaseColors(sulc []float64, base *Colormap) []Color {
	out := make([]Color, len(sulc))
	for i, v := range sulc {
		out[i] = base.At(v)
	}
	return out
}

// KeptFaces returns the set of face indices eligible for overlay
// coloring: faces whose median cortical mask is at least half, further
// restricted to faces whose absolute overlay value clears the threshold.
// A nil cortex keeps every face.
func KeptFaces(cortex []float64, overlay []float64, r OverlayRange, faceCount int) []int {
	kept := make([]int, 0, faceCount)
	for i := range faceCount {
		if cortex != nil && cortex[i] < 0.5 {
			continue
		}
		if overlay != nil && r.Thresholded() && !(math.Abs(overlay[i]) >= r.Threshold) {
			continue
		}
		kept = append(kept, i)
	}
	return kept
}

// ApplyOverlay recolors the kept faces through the colormap. Faces
// outside the kept set retain their greyscale base.
func ApplyOverlay(colors []Color, overlay []float64, kept []int, cmap *Colormap, r OverlayRange) {
	for _, i := range kept {
		colors[i] = cmap.At(r.Normalize(overlay[i]))
	}
}

// nonCortexColor flattens everything outside the cortical ribbon.
var nonCortexColor = Color{0.85, 0.85, 0.85, 1}

// MaskNonCortex overrides faces below the cortical-mask cutoff with flat
// light grey, taking priority over any overlay color.
func MaskNonCortex(colors []Color, cortex []float64) {
	if cortex == nil {
		return
	}
	for i, v := range cortex {
		if v < 0.5 {
			colors[i] = nonCortexColor
		}
	}
}

// TintLabels multiplies the current color of each labeled face by the
// label's color, alpha included. Labels apply in order, so overlapping
// labels tint one another. The multiply keeps the sulcal shading visible
// through the label instead of painting over it.
func TintLabels(colors []Color, labels [][]float64, labelColors []Color) error {
	if len(labels) != len(labelColors) {
		return fmt.Errorf("got %d labels but %d label colors; the lists must have the same length",
			len(labels), len(labelColors))
	}
	for k, mask := range labels {
		tint := labelColors[k]
		for i, v := range mask {
			if v >= 0.5 {
				colors[i] = colors[i].Mul(tint)
			}
		}
	}
	return nil
}

// ApplyLighting darkens the R, G and B channels by the per-face
// intensity. Alpha is left alone.
func ApplyLighting(colors []Color, intensity []float64) {
	for i := range colors {
		colors[i] = colors[i].Shade(intensity[i])
	}
}

// Composite runs the full per-hemisphere color pipeline in its fixed
// stage order: greyscale base, overlay on the kept set, non-cortex
// override, label tints, lighting.
func Composite(attrs FaceAttributes, cmap *Colormap, labelColors []Color, r OverlayRange) ([]Color, error) {
	colors := BaseColors(attrs.Sulc, GreysNarrow())

	if attrs.Overlay != nil {
		kept := KeptFaces(attrs.Cortex, attrs.Overlay, r, len(attrs.Sulc))
		ApplyOverlay(colors, attrs.Overlay, kept, cmap, r)
	}

	MaskNonCortex(colors, attrs.Cortex)

	if err := TintLabels(colors, attrs.Labels, labelColors); err != nil {
		return nil, err
	}

	ApplyLighting(colors, attrs.Intensity)
	return colors, nil
}

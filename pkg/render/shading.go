package render

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/arunthurai/seeg2bids-pipeline/pkg/math3d"
)

// lightDirection is the fixed light. Intensities are computed once per
// hemisphere from the normalized mesh and reused across all of its views.
var lightDirection = math3d.V3(0, 0, 1)

// shadingStrength is how much of the final intensity the light term
// contributes; the remainder is ambient.
const shadingStrength = 0.7

// shadingPercentile rescales intensities so the brightest faces saturate
// together instead of a single outlier normal setting the scale.
const shadingPercentile = 0.8

// FaceIntensities computes a per-face lighting multiplier in
// [1-shadingStrength, 1] from face normals. Back-facing normals floor
// at zero, the distribution is rescaled so its 80th percentile maps to
// full brightness, and the result blends with the ambient floor.
func FaceIntensities(normals []math3d.Vec3) []float64 {
	raw := make([]float64, len(normals))
	for i, n := range normals {
		d := n.Dot(lightDirection)
		if d < 0 {
			d = 0
		}
		raw[i] = d
	}

	sorted := make([]float64, len(raw))
	copy(sorted, raw)
	sort.Float64s(sorted)
	q := stat.Quantile(shadingPercentile, stat.LinInterp, sorted, nil)

	out := make([]float64, len(raw))
	for i, d := range raw {
		r := 0.0
		if q > 0 {
			r = d / q
		}
		if r > 1 {
			r = 1
		}
		out[i] = (1 - shadingStrength) + shadingStrength*r
	}
	return out
}

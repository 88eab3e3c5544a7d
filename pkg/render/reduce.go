package render

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// AvgMethod selects how the three vertex samples of a face collapse into
// one per-face value.
type AvgMethod int

const (
	// Mean averages the three vertex values.
	Mean AvgMethod = iota
	// Median takes the middle of the three vertex values. Preferred for
	// categorical data (labels, masks) where averaging would invent
	// values that exist at no vertex.
	Median
)

// String returns the method's scene-file spelling.
func (m AvgMethod) String() string {
	if m == Median {
		return "median"
	}
	return "mean"
}

// ParseAvgMethod parses a scene-file averaging method name.
func ParseAvgMethod(s string) (AvgMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mean":
		return Mean, nil
	case "median":
		return Median, nil
	}
	return Mean, fmt.Errorf("unknown averaging method %q (want mean or median)", s)
}

// FaceValues reduces a per-vertex scalar field to a per-face field using
// the given method. NaN vertex samples propagate into the face value
// under Mean; Median of three values containing NaN sorts NaN last and
// still returns the middle element.
func FaceValues(field []float64, faces [][3]int, method AvgMethod) []float64 {
	out := make([]float64, len(faces))
	for i, f := range faces {
		a, b, c := field[f[0]], field[f[1]], field[f[2]]
		if method == Median {
			out[i] = median3(a, b, c)
		} else {
			out[i] = (a + b + c) / 3
		}
	}
	return out
}

func median3(a, b, c float64) float64 {
	v := []float64{a, b, c}
	sort.Float64s(v)
	return v[1]
}

// BinarizeSign maps values ≤ 0 to 0 and values > 0 to 1, in place on a
// copy. NaN values pass through unbinarized, so missing sulcal data
// keeps its colormap NaN handling. A constant field is returned
// unchanged: binarizing a flat map would erase the one shade it carries.
func BinarizeSign(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	if len(out) == 0 {
		return out
	}
	flat := true
	for _, v := range out[1:] {
		if v != out[0] {
			flat = false
			break
		}
	}
	if flat {
		return out
	}
	for i, v := range out {
		switch {
		case math.IsNaN(v):
		case v <= 0:
			out[i] = 0
		default:
			out[i] = 1
		}
	}
	return out
}

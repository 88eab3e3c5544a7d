package render

import (
	"fmt"
	"math/rand"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// colormapSize is the lookup-table resolution of every built-in colormap.
const colormapSize = 256

// Colormap maps a normalized value in [0, 1] to a Color through a fixed
// lookup table. Derived maps (Narrowed, Shuffled, GreyBand) return new
// tables and never mutate the receiver.
type Colormap struct {
	name  string
	table []Color
}

// Name returns the colormap's name.
func (m *Colormap) Name() string { return m.name }

// Len returns the number of lookup-table entries.
func (m *Colormap) Len() int { return len(m.table) }

// At maps a normalized value to a color. Values outside [0, 1] clamp to
// the table ends; NaN maps to transparent.
func (m *Colormap) At(t float64) Color {
	if isNaN(t) {
		return nanColor
	}
	if t <= 0 {
		return m.table[0]
	}
	if t >= 1 {
		return m.table[len(m.table)-1]
	}
	return m.table[int(t*float64(len(m.table)-1)+0.5)]
}

// Entry returns table entry i without interpolation.
func (m *Colormap) Entry(i int) Color { return m.table[i] }

// Narrowed resamples the sub-range [lo, hi] of the map into a full-size
// table, so that Narrowed(lo, hi).At(0) == At(lo) and .At(1) == At(hi).
func (m *Colormap) Narrowed(lo, hi float64) *Colormap {
	out := make([]Color, len(m.table))
	for i := range out {
		t := float64(i) / float64(len(out)-1)
		out[i] = m.At(lo + t*(hi-lo))
	}
	return &Colormap{name: m.name, table: out}
}

// Shuffled returns a copy of the map with its entries permuted by the
// given source of randomness. Useful for parcellation overlays where
// adjacent regions should not land on adjacent colors.
func (m *Colormap) Shuffled(rng *rand.Rand) *Colormap {
	out := make([]Color, len(m.table))
	copy(out, m.table)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return &Colormap{name: m.name, table: out}
}

// GreyBand returns a copy of the map whose entries covering the value
// band (-threshold, threshold) within [vmin, vmax] are replaced by a
// mid grey. It marks the sub-threshold region of a colorbar.
func (m *Colormap) GreyBand(vmin, vmax, threshold float64) *Colormap {
	out := make([]Color, len(m.table))
	copy(out, m.table)
	n := float64(len(out) - 1)
	istart := int(normClip(-threshold, vmin, vmax) * n)
	istop := int(normClip(threshold, vmin, vmax) * n)
	grey := Color{0.5, 0.5, 0.5, 1}
	for i := istart; i < istop; i++ {
		out[i] = grey
	}
	return &Colormap{name: m.name, table: out}
}

// normClip maps v into [0, 1] over [vmin, vmax], clipping at the ends.
func normClip(v, vmin, vmax float64) float64 {
	if vmax == vmin {
		return 0
	}
	t := (v - vmin) / (vmax - vmin)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// fromAnchors builds a full-size table by piecewise-linear RGB blending
// between evenly spaced anchor colors.
func fromAnchors(name string, anchors []colorful.Color) *Colormap {
	table := make([]Color, colormapSize)
	segs := len(anchors) - 1
	for i := range table {
		t := float64(i) / float64(len(table)-1) * float64(segs)
		k := int(t)
		if k >= segs {
			k = segs - 1
		}
		c := anchors[k].BlendRgb(anchors[k+1], t-float64(k))
		table[i] = Color{c.R, c.G, c.B, 1}
	}
	return &Colormap{name: name, table: table}
}

// Viridis anchors sampled at tenths.
var viridisAnchors = []colorful.Color{
	{R: 0.267004, G: 0.004874, B: 0.329415},
	{R: 0.282623, G: 0.140926, B: 0.457517},
	{R: 0.253935, G: 0.265254, B: 0.529983},
	{R: 0.206756, G: 0.371758, B: 0.553117},
	{R: 0.163625, G: 0.471133, B: 0.558148},
	{R: 0.127568, G: 0.566949, B: 0.550556},
	{R: 0.134692, G: 0.658636, B: 0.517649},
	{R: 0.266941, G: 0.748751, B: 0.440573},
	{R: 0.477504, G: 0.821444, B: 0.318195},
	{R: 0.741388, G: 0.873449, B: 0.149561},
	{R: 0.993248, G: 0.906157, B: 0.143936},
}

var plasmaAnchors = []colorful.Color{
	{R: 0.050383, G: 0.029803, B: 0.527975},
	{R: 0.254627, G: 0.013882, B: 0.615419},
	{R: 0.417642, G: 0.000564, B: 0.658390},
	{R: 0.562738, G: 0.051545, B: 0.641509},
	{R: 0.692840, G: 0.165141, B: 0.564522},
	{R: 0.798216, G: 0.280197, B: 0.469538},
	{R: 0.881443, G: 0.392529, B: 0.383229},
	{R: 0.949217, G: 0.517763, B: 0.295662},
	{R: 0.988260, G: 0.652325, B: 0.211364},
	{R: 0.988648, G: 0.809579, B: 0.145357},
	{R: 0.940015, G: 0.975158, B: 0.131326},
}

// Greys runs white at 0 to black at 1, so larger values paint darker.
var greysAnchors = []colorful.Color{
	{R: 1, G: 1, B: 1},
	{R: 0, G: 0, B: 0},
}

// Viridis returns the default sequential colormap.
func Viridis() *Colormap { return fromAnchors("viridis", viridisAnchors) }

// Plasma returns the plasma sequential colormap.
func Plasma() *Colormap { return fromAnchors("plasma", plasmaAnchors) }

// Greys returns the white-to-black greyscale colormap.
func Greys() *Colormap { return fromAnchors("greys", greysAnchors) }

// GreysNarrow is the curvature base map: the central slice of Greys, so
// binarized sulcal depth renders as two nearby shades of grey rather
// than stark white and black.
func GreysNarrow() *Colormap { return Greys().Narrowed(0.42, 0.58) }

// ByName resolves a colormap by name. The empty string selects viridis.
func ByName(name string) (*Colormap, error) {
	switch strings.ToLower(name) {
	case "", "viridis":
		return Viridis(), nil
	case "plasma":
		return Plasma(), nil
	case "greys", "grays":
		return Greys(), nil
	}
	return nil, fmt.Errorf("unknown colormap %q", name)
}

package render

import (
	"fmt"
	"math"
	"math/rand"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/arunthurai/seeg2bids-pipeline/pkg/surface"
)

// Figure geometry: a 2x2 tile grid on an 8x6 inch page, hemispheres in
// columns and views in rows.
const (
	figureWidthInches  = 8.0
	figureHeightInches = 6.0
	// DefaultDPI is used when Options.DPI is zero.
	DefaultDPI = 128

	// Each tile shows the data window x in [-1, 1], y in [-0.6, 0.6].
	tileHalfWidth  = 1.0
	tileHalfHeight = 0.6
)

// Options configures a four-view figure render.
type Options struct {
	// Colormap names the overlay colormap; empty selects viridis.
	Colormap string
	// ShuffleCmap permutes the colormap entries, which spreads the
	// colors of a parcellation overlay apart.
	ShuffleCmap bool
	// Seed drives the shuffle. The same seed yields the same figure.
	Seed int64
	// Threshold hides overlay values with absolute value below it.
	Threshold *float64
	// VMin and VMax pin the color scale; unset bounds come from the
	// nan-aware minimum and maximum over both hemispheres' overlays.
	VMin, VMax *float64
	// AvgMethod reduces overlay vertex values to faces.
	AvgMethod AvgMethod
	// Colorbar adds a horizontal colorbar between the view rows.
	Colorbar bool
	// LabelAlpha is the alpha preset on every label tint color; unset
	// defaults to 0.5. An explicit 0 is honored.
	LabelAlpha *float64
	// Title is drawn in the center of the figure.
	Title string
	// DPI scales the page to pixels.
	DPI int
}

// Hemi bundles one hemisphere's mesh and its per-vertex fields. Optional
// fields are nil when absent.
type Hemi struct {
	Mesh    *surface.Mesh
	Sulc    []float64
	Cortex  []float64
	Overlay []float64
	Labels  [][]float64
}

// Input is a complete figure input: both hemispheres plus the colors
// assigned to labels, one per label in order.
type Input struct {
	Left, Right Hemi
	LabelColors []Color
}

// Render draws the four-view figure onto the canvas.
func Render(in Input, opts Options, cv Canvas) error {
	labelAlpha := resolveLabelAlpha(opts.LabelAlpha)

	cmap, err := ByName(opts.Colormap)
	if err != nil {
		return err
	}
	if opts.ShuffleCmap {
		cmap = cmap.Shuffled(rand.New(rand.NewSource(opts.Seed)))
	}

	hemis := []Hemi{in.Left, in.Right}
	attrs := make([]FaceAttributes, 2)
	for m, h := range hemis {
		a, err := reduceHemi(h, opts.AvgMethod)
		if err != nil {
			return fmt.Errorf("%s: %w", Hemisphere(m), err)
		}
		attrs[m] = a
	}

	rng := ResolveRange(deref(opts.VMin), deref(opts.VMax), deref(opts.Threshold),
		attrs[0].Overlay, attrs[1].Overlay)

	labelColors := make([]Color, len(in.LabelColors))
	for i, c := range in.LabelColors {
		c.A = labelAlpha
		labelColors[i] = c
	}

	w, hPix := cv.Size()
	tileW, tileH := float64(w)/2, float64(hPix)/2
	scale := math.Min(tileW/2/tileHalfWidth, tileH/2/tileHalfHeight)

	for m, h := range hemis {
		colors, err := Composite(attrs[m], cmap, labelColors, rng)
		if err != nil {
			return fmt.Errorf("%s: %w", Hemisphere(m), err)
		}

		verts := h.Mesh.Normalized()
		for i, side := range []ViewSide{Lateral, Medial} {
			view := ViewMatrix(ViewYaw(Hemisphere(m), side))
			tris := ProjectFaces(verts, h.Mesh.Faces, view)
			vp := Viewport{
				CX:    float64(m)*tileW + tileW/2,
				CY:    float64(i)*tileH + tileH/2,
				Scale: scale,
			}
			PaintTriangles(cv, tris, colors, vp)
		}
	}

	hasOverlay := attrs[0].Overlay != nil || attrs[1].Overlay != nil
	if opts.Colorbar && hasOverlay {
		drawColorbar(cv, cmap, rng)
	}
	drawAnnotations(cv, opts.Title)
	return nil
}

// reduceHemi validates a hemisphere's fields against its mesh and
// collapses them to face space.
func reduceHemi(h Hemi, method AvgMethod) (FaceAttributes, error) {
	var a FaceAttributes
	if h.Mesh == nil {
		return a, fmt.Errorf("no mesh given")
	}
	if err := h.Mesh.Validate(); err != nil {
		return a, err
	}
	faces := h.Mesh.Faces

	sulc := h.Sulc
	if sulc == nil {
		sulc = make([]float64, h.Mesh.VertexCount())
		for i := range sulc {
			sulc[i] = 0.5
		}
	} else if err := h.Mesh.CheckField("sulcal map", sulc); err != nil {
		return a, err
	}
	a.Sulc = BinarizeSign(FaceValues(sulc, faces, Mean))

	if h.Cortex != nil {
		if err := h.Mesh.CheckField("cortex mask", h.Cortex); err != nil {
			return a, err
		}
		a.Cortex = FaceValues(h.Cortex, faces, Median)
	}

	if h.Overlay != nil {
		if err := h.Mesh.CheckField("overlay", h.Overlay); err != nil {
			return a, err
		}
		a.Overlay = FaceValues(h.Overlay, faces, method)
	}

	for i, lbl := range h.Labels {
		if err := h.Mesh.CheckField(fmt.Sprintf("label %d", i), lbl); err != nil {
			return a, err
		}
		a.Labels = append(a.Labels, FaceValues(lbl, faces, Median))
	}

	normals := surface.FaceNormals(h.Mesh.Normalized(), faces)
	a.Intensity = FaceIntensities(normals)
	return a, nil
}

// Colorbar placement as fractions of the page, measured from the top
// left.
const (
	cbarLeft   = 0.38
	cbarTop    = 0.51
	cbarWidth  = 0.24
	cbarHeight = 0.024
)

var annotationColor = Color{0, 0, 0, 1}

// drawColorbar paints a horizontal gradient bar with tick labels. When a
// threshold is active the sub-threshold band renders grey and picks up
// its own ticks.
func drawColorbar(cv Canvas, cmap *Colormap, r OverlayRange) {
	w, h := cv.Size()
	x := cbarLeft * float64(w)
	y := cbarTop * float64(h)
	bw := cbarWidth * float64(w)
	bh := cbarHeight * float64(h)

	ticks := []float64{r.VMin, r.VMax}
	if r.Thresholded() && r.Threshold != r.VMin {
		if r.VMin >= 0 {
			ticks = []float64{r.VMin, r.Threshold, r.VMax}
		} else {
			ticks = []float64{r.VMin, -r.Threshold, r.Threshold, r.VMax}
		}
		cmap = cmap.GreyBand(r.VMin, r.VMax, r.Threshold)
	}

	for px := 0; px < int(bw); px++ {
		t := float64(px) / (bw - 1)
		cv.FillRect(x+float64(px), y, 1, bh, cmap.At(t))
	}

	// Outline and tick marks.
	border := annotationColor
	cv.FillRect(x, y, bw, 1, border)
	cv.FillRect(x, y+bh-1, bw, 1, border)
	cv.FillRect(x, y, 1, bh, border)
	cv.FillRect(x+bw-1, y, 1, bh, border)
	for _, tick := range ticks {
		tx := x + normClip(tick, r.VMin, r.VMax)*bw
		cv.FillRect(tx, y+bh, 1, 3, border)
		cv.Text(tx, y+bh+12, formatTick(tick), annotationColor)
	}
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

// drawAnnotations labels the columns, rows and title.
func drawAnnotations(cv Canvas, title string) {
	w, h := cv.Size()
	fw, fh := float64(w), float64(h)
	cv.Text(0.25*fw, 0.03*fh, "Left", annotationColor)
	cv.Text(0.75*fw, 0.03*fh, "Right", annotationColor)
	cv.TextVertical(0.025*fw, 0.25*fh, "Lateral", annotationColor)
	cv.TextVertical(0.025*fw, 0.75*fh, "Medial", annotationColor)
	if title != "" {
		cv.Text(0.5*fw, 0.48*fh, title, annotationColor)
	}
}

// resolveLabelAlpha distinguishes an unset tint opacity (nil, defaulting
// to 0.5) from an explicitly chosen zero.
func resolveLabelAlpha(p *float64) float64 {
	if p == nil {
		return 0.5
	}
	return *p
}

func deref(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

// RenderToFile renders the figure and writes it to path, choosing the
// backend from the file extension: .png for raster output, .svg for
// vector output.
func RenderToFile(path string, in Input, opts Options) error {
	dpi := opts.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	w := int(figureWidthInches * float64(dpi))
	h := int(figureHeightInches * float64(dpi))

	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return RenderSVGFile(path, w, h, func(cv Canvas) error {
			return Render(in, opts, cv)
		})
	case ".png":
		raster := NewRaster(w, h)
		if err := Render(in, opts, raster); err != nil {
			return err
		}
		return raster.WritePNG(path)
	}
	return fmt.Errorf("unsupported output format %q (use .png or .svg)", filepath.Ext(path))
}

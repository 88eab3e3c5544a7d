// Package config loads scene descriptions for the four-view renderer.
// A scene names the surface files of both hemispheres, the optional
// per-vertex data layered onto them, and the presentation options.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arunthurai/seeg2bids-pipeline/pkg/render"
)

// FilePair holds one file per hemisphere.
type FilePair struct {
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
}

// LabelSpec is one anatomical label drawn as a translucent tint.
type LabelSpec struct {
	// Name identifies the label in error messages.
	Name string `yaml:"name"`

	// Color is a color name or #rrggbb hex string.
	Color string `yaml:"color"`

	// Left and Right are the per-hemisphere label files.
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
}

// Scene is a complete figure description loaded from YAML.
type Scene struct {
	// Meshes are the surface geometry files, one per hemisphere.
	Meshes FilePair `yaml:"meshes"`

	// SulcMaps are optional sulcal depth (or curvature) maps rendered
	// as the greyscale base underneath everything else.
	SulcMaps *FilePair `yaml:"sulc_maps"`

	// CortexMasks optionally restrict overlay coloring to the cortical
	// ribbon; everything outside renders flat light grey.
	CortexMasks *FilePair `yaml:"cortex_masks"`

	// Overlays are optional statistical maps colored through the
	// colormap.
	Overlays *FilePair `yaml:"overlays"`

	// Labels are drawn last, in order, each tinting the faces it covers.
	Labels []LabelSpec `yaml:"labels"`

	// View collects the presentation options.
	View struct {
		// Colormap names the overlay colormap (viridis, plasma, greys).
		Colormap string `yaml:"colormap"`

		// ShuffleCmap permutes the colormap entries; Seed makes the
		// permutation reproducible.
		ShuffleCmap bool  `yaml:"shuffle_cmap"`
		Seed        int64 `yaml:"seed"`

		// Threshold hides overlay values below it in absolute value.
		Threshold *float64 `yaml:"threshold"`

		// VMin and VMax pin the color scale; unset bounds come from
		// the data.
		VMin *float64 `yaml:"vmin"`
		VMax *float64 `yaml:"vmax"`

		// AvgMethod is "mean" or "median".
		AvgMethod string `yaml:"avg_method"`

		// Colorbar adds a horizontal colorbar to the figure.
		Colorbar bool `yaml:"colorbar"`

		// LabelAlpha is the tint opacity applied to every label color.
		LabelAlpha float64 `yaml:"label_alpha"`

		// Title is drawn in the center of the figure.
		Title string `yaml:"title"`
	} `yaml:"view"`

	// Output controls where and how large the figure is written.
	Output struct {
		// File is the output path; .png selects raster output,
		// .svg vector output.
		File string `yaml:"file"`

		// DPI scales the 8x6 inch page to pixels.
		DPI int `yaml:"dpi"`
	} `yaml:"output"`
}

// Default returns a scene with the presentation defaults filled in.
func Default() *Scene {
	s := &Scene{}
	s.View.Colormap = "viridis"
	s.View.AvgMethod = "mean"
	s.View.LabelAlpha = 0.5
	s.Output.File = "plot.png"
	s.Output.DPI = render.DefaultDPI
	return s
}

// Load reads and validates a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing scene file: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the scene for the errors that would otherwise surface
// halfway through a render.
func (s *Scene) Validate() error {
	if s.Meshes.Left == "" || s.Meshes.Right == "" {
		return fmt.Errorf("meshes must name both a left and a right surface file")
	}
	for _, pair := range []struct {
		name string
		p    *FilePair
	}{
		{"sulc_maps", s.SulcMaps},
		{"cortex_masks", s.CortexMasks},
		{"overlays", s.Overlays},
	} {
		if pair.p != nil && (pair.p.Left == "" || pair.p.Right == "") {
			return fmt.Errorf("%s must name both hemisphere files when present", pair.name)
		}
	}
	if _, err := render.ParseAvgMethod(s.View.AvgMethod); err != nil {
		return err
	}
	if _, err := render.ByName(s.View.Colormap); err != nil {
		return err
	}
	if s.View.LabelAlpha < 0 || s.View.LabelAlpha > 1 {
		return fmt.Errorf("label_alpha %v outside [0, 1]", s.View.LabelAlpha)
	}
	if s.Output.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %d", s.Output.DPI)
	}
	switch strings.ToLower(filepath.Ext(s.Output.File)) {
	case ".png", ".svg":
	default:
		return fmt.Errorf("unsupported output format %q (use .png or .svg)", filepath.Ext(s.Output.File))
	}
	for i, lbl := range s.Labels {
		if lbl.Left == "" || lbl.Right == "" {
			return fmt.Errorf("label %d (%s) must name both hemisphere files", i, lbl.Name)
		}
		if _, err := render.ParseColor(lbl.Color); err != nil {
			return fmt.Errorf("label %d (%s): %w", i, lbl.Name, err)
		}
	}
	return nil
}

// RenderOptions converts the scene's view settings into render options.
// The scene must have been validated.
func (s *Scene) RenderOptions() render.Options {
	method, _ := render.ParseAvgMethod(s.View.AvgMethod)
	return render.Options{
		Colormap:    s.View.Colormap,
		ShuffleCmap: s.View.ShuffleCmap,
		Seed:        s.View.Seed,
		Threshold:   s.View.Threshold,
		VMin:        s.View.VMin,
		VMax:        s.View.VMax,
		AvgMethod:   method,
		Colorbar:    s.View.Colorbar,
		LabelAlpha:  &s.View.LabelAlpha,
		Title:       s.View.Title,
		DPI:         s.Output.DPI,
	}
}

// LabelColors parses the label colors in order. The scene must have been
// validated.
func (s *Scene) LabelColors() []render.Color {
	out := make([]render.Color, len(s.Labels))
	for i, lbl := range s.Labels {
		c, _ := render.ParseColor(lbl.Color)
		out[i] = c
	}
	return out
}

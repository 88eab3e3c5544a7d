// brainviews - four-view cortical surface figures
//
// Renders both hemispheres of a subject from lateral and medial
// viewpoints into a single PNG or SVG figure, with optional sulcal
// shading, thresholded statistical overlays, cortex masking and
// anatomical labels, driven by a YAML scene file.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/arunthurai/seeg2bids-pipeline/pkg/config"
	"github.com/arunthurai/seeg2bids-pipeline/pkg/render"
	"github.com/arunthurai/seeg2bids-pipeline/pkg/surface"
)

var outputOverride string

func main() {
	cmd := &cobra.Command{
		Use:   "brainviews <scene.yaml>",
		Short: "Render four-view cortical surface figures",
		Long: `brainviews - four-view cortical surface figures

Renders the left and right hemisphere surfaces of a subject from
lateral and medial viewpoints into one 2x2 figure. The scene file
names the surface geometry and the optional layers:

  sulcal maps    greyscale gyral/sulcal shading underneath everything
  overlays       statistical maps colored through a colormap
  cortex masks   restrict overlay coloring to the cortical ribbon
  labels         anatomical regions tinted in configurable colors

The output format follows the file extension: .png for raster
output, .svg for vector output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0])
		},
	}
	cmd.Flags().StringVarP(&outputOverride, "output", "o", "", "Override the scene's output file")

	infoCmd := &cobra.Command{
		Use:   "info <surface>",
		Short: "Display surface information",
		Long:  "Display vertex and face counts and the bounding box of a surface file (FreeSurfer binary or glTF).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args[0])
		},
	}
	cmd.AddCommand(infoCmd)

	exportCmd := &cobra.Command{
		Use:   "export <surface> <out.ply>",
		Short: "Export a surface to PLY",
		Long:  "Convert a surface file (FreeSurfer binary or glTF) to ASCII PLY for inspection in external mesh viewers.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(args[0], args[1])
		},
	}
	cmd.AddCommand(exportCmd)

	if err := fang.Execute(context.Background(), cmd); err != nil {
		os.Exit(1)
	}
}

func run(scenePath string) error {
	scene, err := config.Load(scenePath)
	if err != nil {
		return err
	}

	left, err := loadHemi(scene, render.LeftHemisphere)
	if err != nil {
		return err
	}
	right, err := loadHemi(scene, render.RightHemisphere)
	if err != nil {
		return err
	}

	in := render.Input{
		Left:        left,
		Right:       right,
		LabelColors: scene.LabelColors(),
	}

	out := scene.Output.File
	if outputOverride != "" {
		out = outputOverride
	}
	if err := render.RenderToFile(out, in, scene.RenderOptions()); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", out)
	return nil
}

// loadHemi reads one hemisphere's mesh and fields named by the scene.
func loadHemi(scene *config.Scene, h render.Hemisphere) (render.Hemi, error) {
	var hemi render.Hemi

	side := func(p config.FilePair) string {
		if h == render.RightHemisphere {
			return p.Right
		}
		return p.Left
	}

	mesh, err := surface.LoadMesh(side(scene.Meshes))
	if err != nil {
		return hemi, fmt.Errorf("%s mesh: %w", h, err)
	}
	hemi.Mesh = mesh

	if scene.SulcMaps != nil {
		hemi.Sulc, err = surface.LoadScalar(side(*scene.SulcMaps))
		if err != nil {
			return hemi, fmt.Errorf("%s sulcal map: %w", h, err)
		}
	}
	if scene.CortexMasks != nil {
		hemi.Cortex, err = surface.LoadMask(side(*scene.CortexMasks), mesh.VertexCount())
		if err != nil {
			return hemi, fmt.Errorf("%s cortex mask: %w", h, err)
		}
	}
	if scene.Overlays != nil {
		hemi.Overlay, err = surface.LoadScalar(side(*scene.Overlays))
		if err != nil {
			return hemi, fmt.Errorf("%s overlay: %w", h, err)
		}
	}
	for _, lbl := range scene.Labels {
		path := lbl.Left
		if h == render.RightHemisphere {
			path = lbl.Right
		}
		mask, err := surface.LoadMask(path, mesh.VertexCount())
		if err != nil {
			return hemi, fmt.Errorf("%s label %s: %w", h, lbl.Name, err)
		}
		hemi.Labels = append(hemi.Labels, mask)
	}
	return hemi, nil
}

func runInfo(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	mesh, err := surface.LoadMesh(path)
	if err != nil {
		return fmt.Errorf("load surface: %w", err)
	}

	min, max := mesh.Bounds()
	size := max.Sub(min)

	fmt.Printf("File:       %s\n", filepath.Base(path))
	fmt.Printf("Size:       %.2f KB\n", float64(info.Size())/1024)
	fmt.Println()
	fmt.Printf("Vertices:   %d\n", mesh.VertexCount())
	fmt.Printf("Faces:      %d\n", mesh.FaceCount())
	fmt.Println()
	fmt.Printf("Bounds Min: (%.3f, %.3f, %.3f)\n", min.X, min.Y, min.Z)
	fmt.Printf("Bounds Max: (%.3f, %.3f, %.3f)\n", max.X, max.Y, max.Z)
	fmt.Printf("Dimensions: %.3f x %.3f x %.3f\n", size.X, size.Y, size.Z)
	return nil
}

func runExport(in, out string) error {
	mesh, err := surface.LoadMesh(in)
	if err != nil {
		return fmt.Errorf("load surface: %w", err)
	}
	comment := fmt.Sprintf("exported from %s", filepath.Base(in))
	if err := surface.SavePLY(out, mesh, comment); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d vertices, %d faces)\n", out, mesh.VertexCount(), mesh.FaceCount())
	return nil
}

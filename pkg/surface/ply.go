package surface

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// WritePLY writes the mesh as ASCII PLY. The optional comment is embedded in
// the header (conventionally used to record the coordinate space, e.g.
// "SPACE=RAS"). Vertex coordinates are written with millimeter precision.
func WritePLY(w io.Writer, m *Mesh, comment string) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "ply")
	fmt.Fprintln(bw, "format ascii 1.0")
	if comment != "" {
		fmt.Fprintf(bw, "comment %s\n", comment)
	}
	fmt.Fprintf(bw, "element vertex %d\n", len(m.Vertices))
	fmt.Fprintln(bw, "property float x")
	fmt.Fprintln(bw, "property float y")
	fmt.Fprintln(bw, "property float z")
	fmt.Fprintf(bw, "element face %d\n", len(m.Faces))
	fmt.Fprintln(bw, "property list uchar int vertex_indices")
	fmt.Fprintln(bw, "end_header")

	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "%.3f %.3f %.3f\n", v.X, v.Y, v.Z)
	}
	for _, f := range m.Faces {
		fmt.Fprintf(bw, "3 %d %d %d\n", f[0], f[1], f[2])
	}

	return bw.Flush()
}

// SavePLY writes the mesh to a PLY file on disk.
func SavePLY(path string, m *Mesh, comment string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create ply file: %w", err)
	}
	defer f.Close()

	if err := WritePLY(f, m, comment); err != nil {
		return fmt.Errorf("write ply file: %w", err)
	}
	return nil
}

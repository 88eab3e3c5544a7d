// Package surface provides cortical surface meshes, the per-vertex scalar
// fields that annotate them, and the file formats they travel in.
package surface

import (
	"fmt"
	"math"

	"github.com/arunthurai/seeg2bids-pipeline/pkg/math3d"
)

// NormalEpsilon is added to face-normal lengths before division so that
// degenerate (zero-area) faces produce a finite normal instead of NaNs.
const NormalEpsilon = 1e-12

// Mesh is a triangulated surface: vertex positions plus faces indexing them.
// Meshes are loaded once per hemisphere and treated as immutable; derived
// coordinate sets are returned as copies.
type Mesh struct {
	Name     string
	Vertices []math3d.Vec3
	Faces    [][3]int
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of triangular faces.
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// Validate checks the mesh invariants: at least one vertex and one face,
// and every face index in range of the vertex slice.
func (m *Mesh) Validate() error {
	if len(m.Vertices) == 0 {
		return fmt.Errorf("mesh %q has no vertices", m.Name)
	}
	if len(m.Faces) == 0 {
		return fmt.Errorf("mesh %q has no faces", m.Name)
	}
	for i, f := range m.Faces {
		for _, v := range f {
			if v < 0 || v >= len(m.Vertices) {
				return fmt.Errorf("mesh %q: face %d references vertex %d (mesh has %d vertices)",
					m.Name, i, v, len(m.Vertices))
			}
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (m *Mesh) Bounds() (min, max math3d.Vec3) {
	if len(m.Vertices) == 0 {
		return math3d.Vec3{}, math3d.Vec3{}
	}
	min, max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		min = min.Min(v)
		max = max.Max(v)
	}
	return min, max
}

// Normalized returns a copy of the vertex positions centered on the bounding
// box midpoint and divided by the largest axis extent, leaving coordinates
// roughly within [-0.5, 0.5]. The mesh must have at least one vertex.
func (m *Mesh) Normalized() []math3d.Vec3 {
	min, max := m.Bounds()
	center := min.Add(max).Scale(0.5)
	extent := math.Max(max.X-min.X, math.Max(max.Y-min.Y, max.Z-min.Z))
	if extent == 0 {
		extent = 1
	}

	out := make([]math3d.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		out[i] = v.Sub(center).Scale(1 / extent)
	}
	return out
}

// FaceNormals computes one unit normal per face from the given vertex
// positions, as the normalized cross product of the first two edges.
// Zero-area faces yield an undefined but finite normal.
func FaceNormals(vertices []math3d.Vec3, faces [][3]int) []math3d.Vec3 {
	normals := make([]math3d.Vec3, len(faces))
	for i, f := range faces {
		e1 := vertices[f[1]].Sub(vertices[f[0]])
		e2 := vertices[f[2]].Sub(vertices[f[0]])
		normals[i] = e1.Cross(e2).NormalizeEps(NormalEpsilon)
	}
	return normals
}

// CheckField verifies that a per-vertex scalar field matches the mesh.
// A length mismatch is a fatal input error.
func (m *Mesh) CheckField(name string, field []float64) error {
	if len(field) != len(m.Vertices) {
		return fmt.Errorf("the %s does not have the same number of vertices as the mesh (%d != %d)",
			name, len(field), len(m.Vertices))
	}
	return nil
}

// MaskFromIndices expands a set of vertex indices into a dense 0/1 field of
// length n. Out-of-range indices are an error.
func MaskFromIndices(indices []int, n int) ([]float64, error) {
	mask := make([]float64, n)
	for _, idx := range indices {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("label vertex %d out of range (mesh has %d vertices)", idx, n)
		}
		mask[idx] = 1
	}
	return mask, nil
}

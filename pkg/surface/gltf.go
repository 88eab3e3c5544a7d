package surface

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"

	"github.com/arunthurai/seeg2bids-pipeline/pkg/math3d"
)

// LoadGLTF loads the triangle geometry of a GLTF or GLB file. Only vertex
// positions and indices are read; materials, normals and texture coordinates
// are ignored (the renderer computes its own face normals).
func LoadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := &Mesh{Name: filepath.Base(path)}
	for _, m := range doc.Meshes {
		if err := appendGLTFMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	return mesh, nil
}

func appendGLTFMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Lines and point clouds are not surfaces.
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		base := len(mesh.Vertices)
		mesh.Vertices = append(mesh.Vertices, positions...)

		if prim.Indices != nil {
			indices, err := readIndexAccessor(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
			for i := 0; i+2 < len(indices); i += 3 {
				mesh.Faces = append(mesh.Faces, [3]int{
					base + indices[i],
					base + indices[i+1],
					base + indices[i+2],
				})
			}
		} else {
			// No index buffer, vertices are sequential triangles.
			for i := 0; i+2 < len(positions); i += 3 {
				mesh.Faces = append(mesh.Faces, [3]int{base + i, base + i + 1, base + i + 2})
			}
		}
	}
	return nil
}

func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}
	if accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float components, got %v", accessor.ComponentType)
	}

	data, start, stride, err := accessorBytes(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	out := make([]math3d.Vec3, accessor.Count)
	for i := range accessor.Count {
		off := start + i*stride
		out[i] = math3d.V3(
			float64(readFloat32LE(data[off:])),
			float64(readFloat32LE(data[off+4:])),
			float64(readFloat32LE(data[off+8:])),
		)
	}
	return out, nil
}

func readIndexAccessor(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}

	var width int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		width = 1
	case gltf.ComponentUshort:
		width = 2
	case gltf.ComponentUint:
		width = 4
	default:
		return nil, fmt.Errorf("unsupported index component type: %v", accessor.ComponentType)
	}

	data, start, stride, err := accessorBytes(doc, accessor, width)
	if err != nil {
		return nil, err
	}

	out := make([]int, accessor.Count)
	for i := range accessor.Count {
		off := start + i*stride
		switch width {
		case 1:
			out[i] = int(data[off])
		case 2:
			out[i] = int(uint16(data[off]) | uint16(data[off+1])<<8)
		case 4:
			out[i] = int(uint32(data[off]) | uint32(data[off+1])<<8 |
				uint32(data[off+2])<<16 | uint32(data[off+3])<<24)
		}
	}
	return out, nil
}

// accessorBytes resolves an accessor to its backing buffer bytes, returning
// the data, the start offset, and the element stride.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, defaultStride int) ([]byte, int, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, 0, fmt.Errorf("accessor has no buffer view")
	}
	view := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[view.Buffer]
	if buffer.URI != "" {
		return nil, 0, 0, fmt.Errorf("external buffers not supported")
	}
	if buffer.Data == nil {
		return nil, 0, 0, fmt.Errorf("buffer has no data")
	}

	stride := view.ByteStride
	if stride == 0 {
		stride = defaultStride
	}
	start := view.ByteOffset + accessor.ByteOffset
	end := start + (accessor.Count-1)*stride + defaultStride
	if end > len(buffer.Data) {
		return nil, 0, 0, fmt.Errorf("accessor overruns buffer (%d > %d)", end, len(buffer.Data))
	}
	return buffer.Data, start, stride, nil
}

// readFloat32LE reads a little-endian float32 from a byte slice.
func readFloat32LE(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(bits)
}

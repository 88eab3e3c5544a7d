package surface

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/arunthurai/seeg2bids-pipeline/pkg/math3d"
)

// FreeSurfer binary files are big-endian and open with a 3-byte magic number.
const (
	triangleFileMagic = 0xFFFFFE // binary surface (.pial, .white, .orig, ...)
	curvFileMagic     = 0xFFFFFF // new-format curvature/sulc map
)

// ReadSurface loads a FreeSurfer binary surface file (.pial, .white, .orig,
// .sphere, .inflated) into a Mesh.
func ReadSurface(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read surface file: %w", err)
	}
	if len(data) < 3 {
		return nil, fmt.Errorf("surface file %q too short", path)
	}

	magic := read3ByteInt(data)
	if magic != triangleFileMagic {
		return nil, fmt.Errorf("surface file %q: unexpected magic 0x%06X", path, magic)
	}

	// The creation comment ends with two newlines.
	end := bytes.Index(data[3:], []byte("\n\n"))
	if end < 0 {
		return nil, fmt.Errorf("surface file %q: missing header terminator", path)
	}
	offset := 3 + end + 2

	if len(data) < offset+8 {
		return nil, fmt.Errorf("surface file %q: truncated header", path)
	}
	nVerts := int(int32(binary.BigEndian.Uint32(data[offset:])))
	nFaces := int(int32(binary.BigEndian.Uint32(data[offset+4:])))
	offset += 8

	need := offset + nVerts*12 + nFaces*12
	if nVerts < 0 || nFaces < 0 || len(data) < need {
		return nil, fmt.Errorf("surface file %q: truncated body (expected %d bytes, got %d)",
			path, need, len(data))
	}

	mesh := &Mesh{
		Name:     filepath.Base(path),
		Vertices: make([]math3d.Vec3, nVerts),
		Faces:    make([][3]int, nFaces),
	}
	for i := range nVerts {
		mesh.Vertices[i] = math3d.V3(
			float64(readFloat32BE(data[offset:])),
			float64(readFloat32BE(data[offset+4:])),
			float64(readFloat32BE(data[offset+8:])),
		)
		offset += 12
	}
	for i := range nFaces {
		for j := range 3 {
			mesh.Faces[i][j] = int(int32(binary.BigEndian.Uint32(data[offset:])))
			offset += 4
		}
	}

	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	return mesh, nil
}

// ReadCurv loads a FreeSurfer new-format curvature file (.curv, .sulc) as a
// per-vertex scalar field.
func ReadCurv(path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read curv file: %w", err)
	}
	if len(data) < 15 {
		return nil, fmt.Errorf("curv file %q too short", path)
	}

	magic := read3ByteInt(data)
	if magic != curvFileMagic {
		return nil, fmt.Errorf("curv file %q: unexpected magic 0x%06X (only new-format files supported)", path, magic)
	}

	nVerts := int(int32(binary.BigEndian.Uint32(data[3:])))
	// Face count and values-per-vertex follow; only one value per vertex
	// is meaningful for curvature maps.
	valsPerVertex := int(int32(binary.BigEndian.Uint32(data[11:])))
	if valsPerVertex != 1 {
		return nil, fmt.Errorf("curv file %q: %d values per vertex, want 1", path, valsPerVertex)
	}

	offset := 15
	if nVerts < 0 || len(data) < offset+nVerts*4 {
		return nil, fmt.Errorf("curv file %q: truncated body", path)
	}

	vals := make([]float64, nVerts)
	for i := range nVerts {
		vals[i] = float64(readFloat32BE(data[offset:]))
		offset += 4
	}
	return vals, nil
}

// ReadLabel loads a FreeSurfer ASCII .label file and returns the vertex
// indices it names. The format is a comment line, a count line, then one
// "index x y z value" line per vertex.
func ReadLabel(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read label file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	// Skip the comment header.
	if !scanner.Scan() {
		return nil, fmt.Errorf("label file %q is empty", path)
	}
	if !scanner.Scan() {
		return nil, fmt.Errorf("label file %q: missing vertex count", path)
	}
	count, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return nil, fmt.Errorf("label file %q: bad vertex count: %w", path, err)
	}

	indices := make([]int, 0, count)
	line := 2
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		idx, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("label file %q line %d: bad vertex index: %w", path, line, err)
		}
		indices = append(indices, idx)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("label file %q: %w", path, err)
	}
	if len(indices) != count {
		return nil, fmt.Errorf("label file %q: header promises %d vertices, found %d", path, count, len(indices))
	}
	return indices, nil
}

// ReadScalarText loads a plain-text scalar field: one float per
// whitespace-separated token.
func ReadScalarText(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read scalar file: %w", err)
	}
	defer f.Close()

	var vals []float64
	scanner := bufio.NewScanner(f)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		v, err := strconv.ParseFloat(scanner.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("scalar file %q: bad value %q: %w", path, scanner.Text(), err)
		}
		vals = append(vals, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scalar file %q: %w", path, err)
	}
	return vals, nil
}

// LoadMesh dispatches on the file extension: .glb/.gltf files load through
// the GLTF loader, everything else is treated as a FreeSurfer binary surface.
func LoadMesh(path string) (*Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".glb", ".gltf":
		return LoadGLTF(path)
	default:
		return ReadSurface(path)
	}
}

// LoadScalar dispatches on the file extension: .curv/.sulc files load
// through the FreeSurfer reader, everything else as plain text.
func LoadScalar(path string) ([]float64, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".curv", ".sulc":
		return ReadCurv(path)
	default:
		return ReadScalarText(path)
	}
}

// LoadMask loads a binary per-vertex mask for a mesh with n vertices,
// from a FreeSurfer .label file or a dense scalar field thresholded at 0.5.
func LoadMask(path string, n int) ([]float64, error) {
	if strings.ToLower(filepath.Ext(path)) == ".label" {
		indices, err := ReadLabel(path)
		if err != nil {
			return nil, err
		}
		return MaskFromIndices(indices, n)
	}

	vals, err := LoadScalar(path)
	if err != nil {
		return nil, err
	}
	mask := make([]float64, len(vals))
	for i, v := range vals {
		if v >= 0.5 {
			mask[i] = 1
		}
	}
	return mask, nil
}

// read3ByteInt reads a big-endian 3-byte unsigned integer.
func read3ByteInt(b []byte) int {
	return int(b[0])<<16 | int(b[1])<<8 | int(b[2])
}

// readFloat32BE reads a big-endian float32.
func readFloat32BE(b []byte) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(b))
}

package render

import (
	"math"
	"testing"

	"github.com/arunthurai/seeg2bids-pipeline/pkg/math3d"
)

func TestFaceIntensitiesUniform(t *testing.T) {
	// Every face pointing at the light saturates at full brightness.
	normals := make([]math3d.Vec3, 10)
	for i := range normals {
		normals[i] = math3d.V3(0, 0, 1)
	}
	for i, v := range FaceIntensities(normals) {
		if math.Abs(v-1) > 1e-12 {
			t.Errorf("intensity[%d] = %v, want 1", i, v)
		}
	}
}

func TestFaceIntensitiesBackFacing(t *testing.T) {
	normals := []math3d.Vec3{
		{X: 0, Y: 0, Z: 1},
		{X: 0, Y: 0, Z: 1},
		{X: 0, Y: 0, Z: 1},
		{X: 0, Y: 0, Z: 1},
		{X: 0, Y: 0, Z: -1},
	}
	got := FaceIntensities(normals)
	// Back-facing normals floor at zero and land on the ambient term.
	if want := 1 - shadingStrength; math.Abs(got[4]-want) > 1e-12 {
		t.Errorf("back-facing intensity = %v, want %v", got[4], want)
	}
	if math.Abs(got[0]-1) > 1e-12 {
		t.Errorf("front-facing intensity = %v, want 1", got[0])
	}
}

func TestFaceIntensitiesRange(t *testing.T) {
	normals := []math3d.Vec3{
		math3d.V3(0, 0, 1),
		math3d.V3(0, 1, 1).Normalize(),
		math3d.V3(1, 0, 0),
		math3d.V3(0, 0, -1),
		math3d.V3(1, 1, 1).Normalize(),
	}
	for i, v := range FaceIntensities(normals) {
		if v < 1-shadingStrength-1e-12 || v > 1+1e-12 {
			t.Errorf("intensity[%d] = %v outside [%v, 1]", i, v, 1-shadingStrength)
		}
	}
}

func TestFaceIntensitiesDegenerate(t *testing.T) {
	// All-zero normals (a mesh of degenerate faces) must stay finite.
	normals := make([]math3d.Vec3, 3)
	for i, v := range FaceIntensities(normals) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("intensity[%d] = %v, want finite", i, v)
		}
	}
}

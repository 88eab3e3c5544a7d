package render

import (
	"math"

	"github.com/arunthurai/seeg2bids-pipeline/pkg/math3d"
)

// Hemisphere identifies which side of the brain a mesh belongs to. The
// hemisphere selects the figure column and the yaw pair that exposes its
// lateral and medial walls.
type Hemisphere int

const (
	LeftHemisphere Hemisphere = iota
	RightHemisphere
)

// String returns "lh" or "rh", the FreeSurfer hemisphere prefixes.
func (h Hemisphere) String() string {
	if h == RightHemisphere {
		return "rh"
	}
	return "lh"
}

// ViewSide is one of the two fixed viewpoints rendered per hemisphere.
type ViewSide int

const (
	Lateral ViewSide = iota
	Medial
)

func (v ViewSide) String() string {
	if v == Medial {
		return "Medial"
	}
	return "Lateral"
}

// Camera constants. The mesh is normalized to unit extent, pushed three
// units down the view axis and projected through a narrow symmetric
// frustum.
const (
	cameraFovY     = 25.0 // degrees
	cameraAspect   = 1.0
	cameraNear     = 1.0
	cameraFar      = 100.0
	cameraDistance = 3.0
)

// ViewYaw returns the Y rotation in degrees that exposes the requested
// wall of the hemisphere to the camera.
func ViewYaw(h Hemisphere, v ViewSide) float64 {
	if (h == LeftHemisphere) == (v == Lateral) {
		return 90
	}
	return 270
}

// ViewMatrix builds the model-view-projection matrix for a yaw angle in
// degrees. The anatomical mesh is first tipped upright (270 degrees
// about X), spun to the requested wall, then translated and projected.
func ViewMatrix(yawDeg float64) math3d.Mat4 {
	proj := math3d.Perspective(radians(cameraFovY), cameraAspect, cameraNear, cameraFar)
	view := math3d.Translate(math3d.V3(0, 0, -cameraDistance))
	yaw := math3d.RotateY(radians(yawDeg))
	tip := math3d.RotateX(radians(270))
	return proj.Mul(view).Mul(yaw).Mul(tip)
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// ScreenTriangle is a projected face: its three screen-space corners and
// a depth key for painter ordering. Smaller depth paints earlier.
type ScreenTriangle struct {
	P     [3]math3d.Vec2
	Depth float64
}

// ProjectFaces transforms every vertex through the view matrix with
// perspective divide and assembles per-face screen triangles. The X and
// Y of the divided coordinates are the screen position; the depth key is
// the negated mean of the divided Z across the face's corners.
func ProjectFaces(vertices []math3d.Vec3, faces [][3]int, view math3d.Mat4) []ScreenTriangle {
	projected := make([]math3d.Vec3, len(vertices))
	for i, v := range vertices {
		projected[i] = view.MulVec4(math3d.V4FromV3(v, 1)).PerspectiveDivide()
	}

	out := make([]ScreenTriangle, len(faces))
	for i, f := range faces {
		var tri ScreenTriangle
		var zsum float64
		for k := range 3 {
			p := projected[f[k]]
			tri.P[k] = math3d.V2(p.X, p.Y)
			zsum += p.Z
		}
		tri.Depth = -zsum / 3
		out[i] = tri
	}
	return out
}

// Package camera builds the view rotation and screen projection used by the
// software renderer.
package camera

import (
	"math"

	"ssd-renderer/internal/mathutil"
)

// DefaultFOV is the default perspective field of view in degrees.
const DefaultFOV = 45.0

// Camera orbits the model. Angles are in degrees.
type Camera struct {
	Yaw         float64 // about world Y, positive turns the model to the left
	Pitch       float64 // about view X, positive looks down on the model
	Perspective bool
	FOV         float64 // 0 means DefaultFOV
}

// Rotation returns Rx(pitch) × Ry(yaw).
func (c Camera) Rotation() mathutil.Mat3 {
	return mathutil.Mat3Mul(mathutil.RotX(mathutil.Deg2Rad(c.Pitch)), mathutil.RotY(mathutil.Deg2Rad(c.Yaw)))
}

// Projection maps world points to screen pixels: x right, y down, z toward
// the viewer (larger z is closer).
type Projection struct {
	R      mathutil.Mat3
	Center mathutil.Vec3
	Scale  float64
	Half   float64

	persp   bool
	camDist float64
	zCenter float64
}

// Fit frames pts in a renderSize×renderSize image with margin pixels on
// every side.
func Fit(c Camera, pts []mathutil.Vec3, renderSize, margin int) Projection {
	R := c.Rotation()
	p := Projection{R: R, Half: float64(renderSize) / 2, Scale: 1}
	if len(pts) == 0 {
		return p
	}

	lo := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, v := range pts {
		t := R.MulVec3(v)
		lo = lo.Min(t)
		hi = hi.Max(t)
	}
	p.Center = lo.Add(hi).Scale(0.5)

	span := math.Max(hi[0]-lo[0], hi[1]-lo[1])
	if span < 0.001 {
		span = 0.001
	}

	if c.Perspective {
		fov := c.FOV
		if fov == 0 {
			fov = DefaultFOV
		}
		xyMax := span / 2
		if xyMax < 0.001 {
			xyMax = 0.001
		}
		p.persp = true
		p.zCenter = p.Center[2]
		p.camDist = xyMax/math.Tan(mathutil.Deg2Rad(fov/2)) + (hi[2]-lo[2])/2
		// Points nearer the camera grow by up to camDist/(camDist-depth/2).
		span *= p.camDist / math.Max(p.camDist-(hi[2]-lo[2])/2, 0.1)
	}

	avail := renderSize - 2*margin
	if avail < 1 {
		avail = renderSize
	}
	p.Scale = float64(avail) / span
	return p
}

// Project returns screen x, screen y and depth for v.
func (p Projection) Project(v mathutil.Vec3) (x, y, z float64) {
	t := p.R.MulVec3(v)
	dx, dy := t[0]-p.Center[0], t[1]-p.Center[1]
	if p.persp {
		depth := math.Max(p.camDist-(t[2]-p.zCenter), 0.1)
		f := p.camDist / depth
		dx *= f
		dy *= f
	}
	return dx*p.Scale + p.Half, -dy*p.Scale + p.Half, t[2]
}

// ProjectAll projects every vertex into parallel slices.
func (p Projection) ProjectAll(verts []mathutil.Vec3) (px, py, pz []float64) {
	n := len(verts)
	px = make([]float64, n)
	py = make([]float64, n)
	pz = make([]float64, n)
	for i, v := range verts {
		px[i], py[i], pz[i] = p.Project(v)
	}
	return px, py, pz
}

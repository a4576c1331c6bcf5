package camera

import (
	"testing"

	"ssd-renderer/internal/mathutil"

	"github.com/stretchr/testify/assert"
)

func TestFitFramesPoints(t *testing.T) {
	pts := []mathutil.Vec3{{-1, -2, 0}, {1, 2, 0}}
	p := Fit(Camera{}, pts, 100, 10)

	x, y, _ := p.Project(mathutil.Vec3{0, 0, 0})
	assert.InDelta(t, 50, x, 1e-9)
	assert.InDelta(t, 50, y, 1e-9)

	// The taller extent fills the image minus margins; y grows downward.
	_, top, _ := p.Project(mathutil.Vec3{0, 2, 0})
	_, bottom, _ := p.Project(mathutil.Vec3{0, -2, 0})
	assert.InDelta(t, 10, top, 1e-9)
	assert.InDelta(t, 90, bottom, 1e-9)
}

func TestYawTurnsModel(t *testing.T) {
	pts := []mathutil.Vec3{{-1, -1, -1}, {1, 1, 1}}
	p := Fit(Camera{Yaw: 90}, pts, 100, 0)
	// Ry(90) maps +X onto -Z, so a point on +X lands at screen center, pushed back.
	x, _, z := p.Project(mathutil.Vec3{1, 0, 0})
	assert.InDelta(t, 50, x, 1e-9)
	assert.InDelta(t, -1, z, 1e-9)
}

func TestPerspectiveStaysInFrame(t *testing.T) {
	pts := []mathutil.Vec3{{-1, -1, -1}, {1, 1, 1}, {1, 1, -1}, {-1, -1, 1}}
	p := Fit(Camera{Perspective: true}, pts, 200, 10)
	px, py, _ := p.ProjectAll(pts)
	for i := range pts {
		assert.GreaterOrEqual(t, px[i], 0.0)
		assert.LessOrEqual(t, px[i], 200.0)
		assert.GreaterOrEqual(t, py[i], 0.0)
		assert.LessOrEqual(t, py[i], 200.0)
	}
	// Near points spread further from center than far points.
	near, _, _ := p.Project(mathutil.Vec3{1, 0, 1})
	far, _, _ := p.Project(mathutil.Vec3{1, 0, -1})
	assert.Greater(t, near, far)
}

func TestFitEmpty(t *testing.T) {
	p := Fit(Camera{}, nil, 64, 4)
	x, y, _ := p.Project(mathutil.Vec3{})
	assert.Equal(t, 32.0, x)
	assert.Equal(t, 32.0, y)
}

package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMat4MulOrder(t *testing.T) {
	// Translate after rotating: T × R applied to (1,0,0).
	tr := Translation(Vec3{0, 0, 5})
	rot := FromMat3Translation(RotZ(math.Pi/2), Vec3{})
	got := Mat4Mul(tr, rot).MulPoint(Vec3{1, 0, 0})
	assert.True(t, got.ApproxEqual(Vec3{0, 1, 5}, 1e-12), "got %v", got)

	got = Mat4Mul(rot, tr).MulPoint(Vec3{1, 0, 0})
	assert.True(t, got.ApproxEqual(Vec3{0, 1, 5}, 1e-12), "got %v", got)

	got = Mat4Mul(rot, Translation(Vec3{1, 0, 0})).MulPoint(Vec3{})
	assert.True(t, got.ApproxEqual(Vec3{0, 1, 0}, 1e-12), "got %v", got)
}

func TestRigidInverseMatchesGeneralInverse(t *testing.T) {
	cases := []Mat4{
		Mat4Identity(),
		Translation(Vec3{1, -2, 3}),
		FromMat3Translation(RotXYZ(0.3, -1.1, 2.4), Vec3{0.5, 7, -3}),
		Mat4Mul(
			FromMat3Translation(RotY(0.7), Vec3{1, 1, 0}),
			FromMat3Translation(RotX(-0.2), Vec3{0, 2, 0}),
		),
	}
	for i, m := range cases {
		rigid := m.RigidInverse()
		general := m.Inverse()
		assert.True(t, rigid.ApproxEqual(general, 1e-9), "case %d: rigid %v general %v", i, rigid, general)
		assert.True(t, Mat4Mul(m, rigid).ApproxEqual(Mat4Identity(), 1e-9), "case %d: m × m⁻¹ not identity", i)
	}
}

func TestInverseSingular(t *testing.T) {
	assert.Equal(t, Mat4Identity(), Mat4{}.Inverse())
}

func TestInverseNonRigid(t *testing.T) {
	m := Mat4Mul(Translation(Vec3{2, 0, -1}), Scaling(2, 3, 4))
	assert.True(t, Mat4Mul(m, m.Inverse()).ApproxEqual(Mat4Identity(), 1e-12))
}

func TestSetMat3KeepsTranslation(t *testing.T) {
	m := Translation(Vec3{4, 5, 6})
	m.SetMat3(RotZ(math.Pi / 3))
	assert.Equal(t, Vec3{4, 5, 6}, m.Translation())
	assert.Equal(t, [4]float64{0, 0, 0, 1}, [4]float64{m[12], m[13], m[14], m[15]})
	assert.Equal(t, RotZ(math.Pi/3), m.Mat3())
}

func TestRotXYZOrder(t *testing.T) {
	// Rx·Ry·Rz applied to a vector rotates about Z first in the column-vector convention.
	r := RotXYZ(math.Pi/2, 0, math.Pi/2)
	got := r.MulVec3(Vec3{1, 0, 0})
	// Rz(90): (1,0,0)->(0,1,0); Rx(90): (0,1,0)->(0,0,1)
	assert.True(t, got.ApproxEqual(Vec3{0, 0, 1}, 1e-12), "got %v", got)
	assert.InDelta(t, 1.0, r.Det(), 1e-12)
}

func TestBasisFromAxis(t *testing.T) {
	for _, axis := range []Vec3{{0, 1, 0}, {0, 0, 1}, {0, 0, -3}, {1, 2, 3}} {
		b := BasisFromAxis(axis)
		assert.InDelta(t, 1.0, b.Det(), 1e-9, "axis %v", axis)
		z := b.MulVec3(Vec3{0, 0, 1})
		assert.True(t, z.ApproxEqual(axis.Normalize(), 1e-9), "axis %v -> %v", axis, z)
		bbt := Mat3Mul(b, b.Transpose())
		id := Mat3Identity()
		for i := range bbt {
			assert.InDelta(t, id[i], bbt[i], 1e-9, "axis %v: not orthonormal", axis)
		}
	}
}

func TestTranspose(t *testing.T) {
	m := Mat4{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}
	assert.Equal(t, m, m.Transpose().Transpose())
	assert.Equal(t, 5.0, m.Transpose()[1])
}

func TestMaxDeviation(t *testing.T) {
	id := Mat4Identity()
	m := id
	m[3], m[10] = 0.25, 0.9
	assert.InDelta(t, 0.25, m.MaxDeviation(id), 1e-15)
	assert.Zero(t, id.MaxDeviation(id))
	assert.True(t, m.ApproxEqual(id, 0.25))
	assert.False(t, m.ApproxEqual(id, 0.2))

	m[5] = math.NaN()
	assert.False(t, m.ApproxEqual(id, 1), "NaN never compares equal")
}

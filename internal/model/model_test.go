package model

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"ssd-renderer/internal/mathutil"
	"ssd-renderer/internal/pose"
	"ssd-renderer/internal/skeleton"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A two-joint arm: root at origin, elbow one unit up. Two triangles, the
// upper one bound to the elbow, the lower one to the root, and a middle
// vertex split between them.
const (
	armSkel = "0 0 0 -1\n0 1 0 0\n"
	armObj  = `v 0 0 0
v 0.1 0 0
v 0 1 0
v 0 2 0
v 0.1 2 0
f 1 2 3
f 3 4 5
`
	armAttach = "1 0\n1 0\n0.5 0.5\n0 1\n0 1\n"
)

func writeArm(t *testing.T) (skelPath, objPath, attachPath string) {
	t.Helper()
	dir := t.TempDir()
	skelPath = filepath.Join(dir, "arm.skel")
	objPath = filepath.Join(dir, "arm.obj")
	attachPath = filepath.Join(dir, "arm.attach")
	require.NoError(t, os.WriteFile(skelPath, []byte(armSkel), 0644))
	require.NoError(t, os.WriteFile(objPath, []byte(armObj), 0644))
	require.NoError(t, os.WriteFile(attachPath, []byte(armAttach), 0644))
	return
}

func loadArm(t *testing.T) *SkeletalModel {
	t.Helper()
	var m SkeletalModel
	require.NoError(t, m.Load(writeArm(t)))
	return &m
}

func TestLoadRestPose(t *testing.T) {
	m := loadArm(t)
	assert.True(t, m.Loaded())
	assert.Equal(t, 2, m.Skeleton().Len())
	assert.Equal(t, [][]float64{{1, 0}, {1, 0}, {0.5, 0.5}, {0, 1}, {0, 1}}, m.Mesh().Attachments)
	for i, v := range m.Mesh().BindVertices {
		assert.True(t, v.ApproxEqual(m.Mesh().CurrentVertices[i], 1e-12), "vertex %d", i)
	}
	require.NoError(t, m.Skeleton().CheckBindIdentity(mathutil.IdentityTol))
}

func TestSetJointRotationEndToEnd(t *testing.T) {
	m := loadArm(t)
	require.NoError(t, m.SetJointRotation(0, 0, 0, math.Pi/2))

	elbow := m.JointPositions()[1]
	assert.True(t, elbow.ApproxEqual(mathutil.Vec3{-1, 0, 0}, 1e-9), "elbow at %v", elbow)

	// Everything is rigidly attached to a rotated chain: (x,y) -> (-y,x).
	for i, v := range m.Mesh().BindVertices {
		want := mathutil.Vec3{-v[1], v[0], v[2]}
		assert.True(t, want.ApproxEqual(m.Mesh().CurrentVertices[i], 1e-9), "vertex %d: want %v got %v", i, want, m.Mesh().CurrentVertices[i])
	}
}

func TestElbowBendBlendsMiddleVertex(t *testing.T) {
	m := loadArm(t)
	require.NoError(t, m.SetJointRotation(1, 0, 0, math.Pi/2))

	cur := m.Mesh().CurrentVertices
	// Root-bound vertices stay put.
	assert.True(t, cur[0].ApproxEqual(mathutil.Vec3{0, 0, 0}, 1e-9))
	assert.True(t, cur[1].ApproxEqual(mathutil.Vec3{0.1, 0, 0}, 1e-9))
	// The elbow itself is on both joints' frames, so it does not move.
	assert.True(t, cur[2].ApproxEqual(mathutil.Vec3{0, 1, 0}, 1e-9))
	// Elbow-bound tip rotates about the elbow.
	assert.True(t, cur[3].ApproxEqual(mathutil.Vec3{-1, 1, 0}, 1e-9), "got %v", cur[3])
	assert.True(t, cur[4].ApproxEqual(mathutil.Vec3{-1, 1.1, 0}, 1e-9), "got %v", cur[4])
}

func TestSetJointRotationOutOfRange(t *testing.T) {
	m := loadArm(t)
	before := append([]mathutil.Vec3(nil), m.Mesh().CurrentVertices...)
	assert.ErrorIs(t, m.SetJointRotation(2, 0, 0, 1), skeleton.ErrJointIndex)
	assert.ErrorIs(t, m.SetJointRotation(-1, 0, 0, 1), skeleton.ErrJointIndex)
	assert.Equal(t, before, m.Mesh().CurrentVertices)
}

func TestFailedLoadKeepsState(t *testing.T) {
	m := loadArm(t)
	require.NoError(t, m.SetJointRotation(0, 0, 0, 1))
	skel, msh := m.Skeleton(), m.Mesh()

	skelPath, objPath, _ := writeArm(t)
	bad := filepath.Join(t.TempDir(), "bad.attach")
	require.NoError(t, os.WriteFile(bad, []byte("1\n"), 0644))

	assert.Error(t, m.Load(skelPath, objPath, bad))
	assert.Error(t, m.Load(skelPath, filepath.Join(t.TempDir(), "missing.obj"), bad))
	assert.Same(t, skel, m.Skeleton())
	assert.Same(t, msh, m.Mesh())
}

func TestNotLoaded(t *testing.T) {
	var m SkeletalModel
	assert.False(t, m.Loaded())
	assert.ErrorIs(t, m.SetJointRotation(0, 0, 0, 0), ErrNotLoaded)
	assert.ErrorIs(t, m.ApplyPose(pose.Pose{}), ErrNotLoaded)
	assert.ErrorIs(t, m.ResetPose(), ErrNotLoaded)
	assert.Nil(t, m.JointPositions())
	assert.Empty(t, m.Snapshot("x").Vertices)
}

func TestApplyPoseIsAbsolute(t *testing.T) {
	m := loadArm(t)
	bend := pose.Single("bend", 1, 0, 0, 90)

	require.NoError(t, m.ApplyPose(bend))
	first := append([]mathutil.Vec3(nil), m.Mesh().CurrentVertices...)

	require.NoError(t, m.SetJointRotation(0, 1, 0, 0))
	require.NoError(t, m.ApplyPose(bend))
	assert.Equal(t, first, m.Mesh().CurrentVertices, "previous edits must not leak into a pose")

	err := m.ApplyPose(pose.Single("bad", 7, 0, 0, 0))
	assert.ErrorIs(t, err, skeleton.ErrJointIndex)
	assert.Equal(t, first, m.Mesh().CurrentVertices, "invalid pose leaves the model untouched")

	require.NoError(t, m.ResetPose())
	assert.Equal(t, m.Mesh().BindVertices, m.Mesh().CurrentVertices)
}

func TestSnapshotIsACopy(t *testing.T) {
	m := loadArm(t)
	s := m.Snapshot("rest")
	assert.Equal(t, "rest", s.Name)
	assert.Equal(t, []Bone{{Parent: 0, Child: 1}}, s.Bones)
	assert.Equal(t, mathutil.Vec3{0, 1, 0}, s.JointPosition(1))

	require.NoError(t, m.SetJointRotation(0, 0, 0, math.Pi))
	assert.Equal(t, mathutil.Vec3{0, 2, 0}, s.Vertices[3])
	assert.Equal(t, mathutil.Vec3{0, 1, 0}, s.JointPosition(1))

	lo, hi := s.Bounds()
	assert.Equal(t, mathutil.Vec3{0, 0, 0}, lo)
	assert.Equal(t, mathutil.Vec3{0.1, 2, 0}, hi)
}

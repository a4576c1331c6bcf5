package model

import (
	"ssd-renderer/internal/mathutil"
	"ssd-renderer/internal/mesh"
	"ssd-renderer/internal/skeleton"
)

// Bone connects a parent joint to a child joint, by flattened index.
type Bone struct {
	Parent, Child int
}

// Snapshot is an immutable copy of everything a renderer needs for one pose.
type Snapshot struct {
	Name     string
	Vertices []mathutil.Vec3
	Faces    []mesh.Face
	// JointToWorld holds each joint's current-pose transform.
	JointToWorld []mathutil.Mat4
	Bones        []Bone
}

// Snapshot copies the current pose. Faces are shared since skinning never
// changes connectivity.
func (m *SkeletalModel) Snapshot(name string) Snapshot {
	s := Snapshot{Name: name}
	if !m.Loaded() {
		return s
	}
	s.Vertices = append([]mathutil.Vec3(nil), m.mesh.CurrentVertices...)
	s.Faces = m.mesh.Faces
	s.JointToWorld = make([]mathutil.Mat4, m.skel.Len())
	m.skel.Walk(func(id skeleton.JointID, j *skeleton.Joint) error {
		s.JointToWorld[id] = j.CurrentJointToWorld
		if j.Parent != skeleton.NoJoint {
			s.Bones = append(s.Bones, Bone{Parent: int(j.Parent), Child: int(id)})
		}
		return nil
	})
	return s
}

// JointPosition returns joint i's world position.
func (s Snapshot) JointPosition(i int) mathutil.Vec3 {
	return s.JointToWorld[i].Translation()
}

// Bounds returns the bounds of the deformed vertices and joint positions.
func (s Snapshot) Bounds() (lo, hi mathutil.Vec3) {
	pts := make([]mathutil.Vec3, 0, len(s.Vertices)+len(s.JointToWorld))
	pts = append(pts, s.Vertices...)
	for i := range s.JointToWorld {
		pts = append(pts, s.JointPosition(i))
	}
	return mesh.Bounds(pts)
}

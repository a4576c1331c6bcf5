// Package model ties a joint hierarchy to a skinned mesh and keeps the two
// consistent across pose edits.
package model

import (
	"errors"
	"fmt"

	"ssd-renderer/internal/loader"
	"ssd-renderer/internal/mathutil"
	"ssd-renderer/internal/mesh"
	"ssd-renderer/internal/pose"
	"ssd-renderer/internal/skeleton"
	"ssd-renderer/internal/skin"

	"github.com/golang/glog"
)

// ErrNotLoaded is returned by pose operations on an empty model.
var ErrNotLoaded = errors.New("model: not loaded")

// SkeletalModel owns a skeleton and the mesh it deforms. It is not safe for
// concurrent use; take a Snapshot to hand data to other goroutines.
type SkeletalModel struct {
	skel *skeleton.Hierarchy
	mesh *mesh.Mesh
}

// Load reads the skeleton, mesh and attachment files. On any failure the
// model keeps whatever it held before.
func (m *SkeletalModel) Load(skelPath, meshPath, attachPath string) error {
	recs, err := loader.LoadSkeleton(skelPath)
	if err != nil {
		return err
	}
	msh, err := loader.LoadMesh(meshPath)
	if err != nil {
		return err
	}
	att, err := loader.LoadAttachments(attachPath, len(msh.BindVertices), len(recs))
	if err != nil {
		return err
	}
	if err := m.LoadFrom(recs, msh, att); err != nil {
		return err
	}
	glog.V(1).Infof("model: loaded %s: %d joints, %d vertices, %d faces", skelPath, len(recs), len(msh.BindVertices), len(msh.Faces))
	return nil
}

// LoadFrom builds the model from already parsed data. The bind-pose pass runs
// exactly once here, followed by the current-pose pass, the bind identity
// self-test and an initial skinning pass.
func (m *SkeletalModel) LoadFrom(recs []skeleton.Record, msh *mesh.Mesh, att [][]float64) error {
	h, err := skeleton.FromRecords(recs)
	if err != nil {
		return fmt.Errorf("model: %w", err)
	}
	msh.Attachments = att
	if err := skin.CheckShape(msh, h.Len()); err != nil {
		return fmt.Errorf("model: %w", err)
	}

	h.ComputeBindWorldToJoint()
	h.UpdateCurrentJointToWorld()
	if err := h.CheckBindIdentity(mathutil.IdentityTol); err != nil {
		return fmt.Errorf("model: bind self-test: %w", err)
	}
	if err := skin.Update(msh, h); err != nil {
		return fmt.Errorf("model: %w", err)
	}

	m.skel, m.mesh = h, msh
	return nil
}

// Loaded reports whether the model holds a skeleton and mesh.
func (m *SkeletalModel) Loaded() bool {
	return m.skel != nil && m.mesh != nil
}

// Skeleton returns the joint hierarchy. Callers must not reshape it.
func (m *SkeletalModel) Skeleton() *skeleton.Hierarchy {
	return m.skel
}

// Mesh returns the skinned mesh.
func (m *SkeletalModel) Mesh() *mesh.Mesh {
	return m.mesh
}

// SetJointRotation sets one joint's Euler angles (radians), then refreshes
// the current-pose transforms and re-skins the mesh.
func (m *SkeletalModel) SetJointRotation(index int, rx, ry, rz float64) error {
	if !m.Loaded() {
		return ErrNotLoaded
	}
	if err := m.skel.SetJointLocalRotation(index, rx, ry, rz); err != nil {
		return err
	}
	return m.refresh()
}

// ApplyPose resets every joint to its bind orientation, applies p, and
// recomputes once. Rotations are validated before anything is changed.
func (m *SkeletalModel) ApplyPose(p pose.Pose) error {
	if !m.Loaded() {
		return ErrNotLoaded
	}
	for _, j := range p.Joints {
		if j.Joint < 0 || j.Joint >= m.skel.Len() {
			return fmt.Errorf("model: pose %q: %w: %d", p.Name, skeleton.ErrJointIndex, j.Joint)
		}
	}
	m.skel.ResetRotations()
	for _, j := range p.Joints {
		if err := m.skel.SetJointLocalRotation(j.Joint, j.RX, j.RY, j.RZ); err != nil {
			return err
		}
	}
	return m.refresh()
}

// ResetPose returns every joint to its bind orientation.
func (m *SkeletalModel) ResetPose() error {
	if !m.Loaded() {
		return ErrNotLoaded
	}
	m.skel.ResetRotations()
	return m.refresh()
}

func (m *SkeletalModel) refresh() error {
	m.skel.UpdateCurrentJointToWorld()
	if err := skin.Update(m.mesh, m.skel); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	return nil
}

// JointPositions returns every joint's world position in the current pose,
// in flattened order.
func (m *SkeletalModel) JointPositions() []mathutil.Vec3 {
	if !m.Loaded() {
		return nil
	}
	pos := make([]mathutil.Vec3, m.skel.Len())
	for i := range pos {
		pos[i] = m.skel.WorldPosition(skeleton.JointID(i))
	}
	return pos
}

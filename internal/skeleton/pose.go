package skeleton

import (
	"fmt"

	"ssd-renderer/internal/mathutil"
	"ssd-renderer/internal/transform"
)

// SetJointLocalRotation replaces the rotation block of a joint's local
// transform with Rx(rx) × Ry(ry) × Rz(rz), radians. The translation is kept.
// Current-pose transforms are not refreshed; call UpdateCurrentJointToWorld.
func (h *Hierarchy) SetJointLocalRotation(index int, rx, ry, rz float64) error {
	if index < 0 || index >= len(h.joints) {
		return fmt.Errorf("%w: %d (have %d joints)", ErrJointIndex, index, len(h.joints))
	}
	h.joints[index].Local.SetMat3(mathutil.RotXYZ(rx, ry, rz))
	return nil
}

// ResetRotations clears every joint's rotation back to the identity.
func (h *Hierarchy) ResetRotations() {
	for i := range h.joints {
		h.joints[i].Local.SetMat3(mathutil.Mat3Identity())
	}
}

// ComputeBindWorldToJoint fixes, for every joint, the transform from rest-pose
// world space into joint space. It is meant to run once, right after load,
// before any rotation is applied.
func (h *Hierarchy) ComputeBindWorldToJoint() {
	s := transform.New()
	h.WalkStack(s, func(_ JointID, j *Joint) {
		j.BindWorldToJoint = s.Top().RigidInverse()
	}, nil)
	h.bindComputed = true
}

// BindComputed reports whether ComputeBindWorldToJoint has run since the
// hierarchy last changed shape.
func (h *Hierarchy) BindComputed() bool {
	return h.bindComputed
}

// UpdateCurrentJointToWorld recomputes every joint's joint-to-world transform
// from the current local transforms.
func (h *Hierarchy) UpdateCurrentJointToWorld() {
	s := transform.New()
	h.WalkStack(s, func(_ JointID, j *Joint) {
		j.CurrentJointToWorld = s.Top()
	}, nil)
}

// CheckBindIdentity verifies CurrentJointToWorld × BindWorldToJoint ≈ I for
// every joint. Only meaningful while the skeleton is still in its bind pose.
func (h *Hierarchy) CheckBindIdentity(tol float64) error {
	if !h.bindComputed {
		return fmt.Errorf("skeleton: bind transforms not computed")
	}
	return h.Walk(func(id JointID, j *Joint) error {
		p := mathutil.Mat4Mul(j.CurrentJointToWorld, j.BindWorldToJoint)
		if !p.ApproxEqual(mathutil.Mat4Identity(), tol) {
			return fmt.Errorf("skeleton: joint %d: current × bind is not identity: %v", id, p)
		}
		return nil
	})
}

// WorldPosition returns the joint's origin in world space for the current pose.
func (h *Hierarchy) WorldPosition(id JointID) mathutil.Vec3 {
	j := h.Joint(id)
	if j == nil {
		return mathutil.Vec3{}
	}
	return j.CurrentJointToWorld.Translation()
}

// SkinMatrices returns CurrentJointToWorld × BindWorldToJoint per joint, in
// flattened order.
func (h *Hierarchy) SkinMatrices() []mathutil.Mat4 {
	mats := make([]mathutil.Mat4, len(h.joints))
	for i := range h.joints {
		mats[i] = mathutil.Mat4Mul(h.joints[i].CurrentJointToWorld, h.joints[i].BindWorldToJoint)
	}
	return mats
}

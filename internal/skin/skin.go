// Package skin implements Linear Blend Skinning (smooth skin deformation).
//
// Every deformed vertex is the weighted sum, over joints, of its bind
// position carried into the joint's frame by the bind-pose transform and
// back out into world space by the current-pose transform:
//
//	v' = Σ_j w[j] · (CurrentJointToWorld[j] · BindWorldToJoint[j] · v)
//
// The blend is linear in the weights. Weights are not normalized here; a
// vertex whose weights are all zero lands on the world origin.
package skin

import (
	"errors"
	"fmt"

	"ssd-renderer/internal/mathutil"
	"ssd-renderer/internal/mesh"
	"ssd-renderer/internal/skeleton"
)

var (
	// ErrBindNotComputed is returned when skinning runs before the bind-pose pass.
	ErrBindNotComputed = errors.New("skin: bind-pose transforms not computed")
	// ErrAttachmentShape is returned when the weights do not match the mesh or skeleton.
	ErrAttachmentShape = errors.New("skin: attachment shape mismatch")
)

// Update overwrites m.CurrentVertices with the skinned bind vertices for the
// skeleton's current pose.
func Update(m *mesh.Mesh, h *skeleton.Hierarchy) error {
	if !h.BindComputed() {
		return ErrBindNotComputed
	}
	if err := CheckShape(m, h.Len()); err != nil {
		return err
	}

	mats := h.SkinMatrices()
	if len(m.CurrentVertices) != len(m.BindVertices) {
		m.CurrentVertices = make([]mathutil.Vec3, len(m.BindVertices))
	}
	for i, v := range m.BindVertices {
		m.CurrentVertices[i] = Vertex(v, m.Attachments[i], mats)
	}
	return nil
}

// CheckShape verifies there is one weight vector per vertex and one weight
// per joint.
func CheckShape(m *mesh.Mesh, joints int) error {
	if len(m.Attachments) != len(m.BindVertices) {
		return fmt.Errorf("%w: %d weight vectors for %d vertices", ErrAttachmentShape, len(m.Attachments), len(m.BindVertices))
	}
	for i, w := range m.Attachments {
		if len(w) != joints {
			return fmt.Errorf("%w: vertex %d has %d weights, skeleton has %d joints", ErrAttachmentShape, i, len(w), joints)
		}
	}
	return nil
}

// Vertex blends a single bind-pose position. mats[j] is joint j's
// CurrentJointToWorld × BindWorldToJoint; len(w) must not exceed len(mats).
func Vertex(v mathutil.Vec3, w []float64, mats []mathutil.Mat4) mathutil.Vec3 {
	var out mathutil.Vec3
	for j, wj := range w {
		// Skipping zero weights assumes finite matrices; 0·Inf would be NaN.
		if wj == 0 {
			continue
		}
		out = out.Add(mats[j].MulPoint(v).Scale(wj))
	}
	return out
}

// Package skeleton holds the joint tree and the traversals that compute
// bind-pose and current-pose joint transforms.
package skeleton

import (
	"errors"
	"fmt"

	"ssd-renderer/internal/mathutil"
	"ssd-renderer/internal/transform"
)

var (
	// ErrJointIndex is returned for a joint index outside [0, Len()).
	ErrJointIndex = errors.New("skeleton: joint index out of range")
	// ErrParent is returned when a joint names a parent that does not exist yet.
	ErrParent = errors.New("skeleton: invalid parent")
	// ErrEmpty is returned when building a hierarchy from zero records.
	ErrEmpty = errors.New("skeleton: no joints")
)

// JointID is a handle into the hierarchy's joint arena. It doubles as the
// joint's index in per-vertex weight vectors.
type JointID int

// NoJoint is the parent of the root.
const NoJoint JointID = -1

// Joint is one node of the skeleton.
type Joint struct {
	// Local maps this joint's frame into its parent's frame.
	Local mathutil.Mat4
	// BindWorldToJoint maps rest-pose world space into joint space.
	BindWorldToJoint mathutil.Mat4
	// CurrentJointToWorld maps joint space into world space for the current pose.
	CurrentJointToWorld mathutil.Mat4

	Parent   JointID
	Children []JointID
}

// Record is one joint as produced by a skeleton loader.
// Offset is relative to the parent (or to the world origin for the root).
type Record struct {
	Offset mathutil.Vec3
	Parent int
}

// Hierarchy owns every joint. Joint 0 is the root; the remaining joints are
// stored in creation order, which is the flattened ordering used by weights.
type Hierarchy struct {
	joints       []Joint
	bindComputed bool
}

// New creates a hierarchy containing only a root joint translated by root.
func New(root mathutil.Vec3) *Hierarchy {
	h := &Hierarchy{}
	h.joints = append(h.joints, newJoint(NoJoint, root))
	return h
}

func newJoint(parent JointID, offset mathutil.Vec3) Joint {
	return Joint{
		Local:               mathutil.Translation(offset),
		BindWorldToJoint:    mathutil.Mat4Identity(),
		CurrentJointToWorld: mathutil.Mat4Identity(),
		Parent:              parent,
	}
}

// FromRecords builds a hierarchy from loader records. Record 0 is the root
// and its parent field is ignored; every other record must name an earlier
// record as its parent, which keeps the result a tree.
func FromRecords(records []Record) (*Hierarchy, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}
	h := New(records[0].Offset)
	for i, r := range records[1:] {
		if _, err := h.AddJoint(JointID(r.Parent), r.Offset); err != nil {
			return nil, fmt.Errorf("skeleton: joint %d: %w", i+1, err)
		}
	}
	return h, nil
}

// AddJoint appends a child of parent with the given offset and returns its handle.
// Adding a joint invalidates previously computed bind transforms.
func (h *Hierarchy) AddJoint(parent JointID, offset mathutil.Vec3) (JointID, error) {
	if parent < 0 || int(parent) >= len(h.joints) {
		return NoJoint, fmt.Errorf("%w: %d (have %d joints)", ErrParent, parent, len(h.joints))
	}
	id := JointID(len(h.joints))
	h.joints = append(h.joints, newJoint(parent, offset))
	h.joints[parent].Children = append(h.joints[parent].Children, id)
	h.bindComputed = false
	return id, nil
}

// Len returns the number of joints.
func (h *Hierarchy) Len() int {
	return len(h.joints)
}

// Root returns the root handle.
func (h *Hierarchy) Root() JointID {
	return 0
}

// Joint returns a pointer to the joint with the given handle, or nil.
func (h *Hierarchy) Joint(id JointID) *Joint {
	if id < 0 || int(id) >= len(h.joints) {
		return nil
	}
	return &h.joints[id]
}

// Walk visits every joint in pre-order: a joint before any of its
// descendants, children in stored order. A non-nil error from visit stops
// the walk and is returned.
func (h *Hierarchy) Walk(visit func(id JointID, j *Joint) error) error {
	if len(h.joints) == 0 {
		return nil
	}
	return h.walk(h.Root(), visit)
}

func (h *Hierarchy) walk(id JointID, visit func(JointID, *Joint) error) error {
	if err := visit(id, &h.joints[id]); err != nil {
		return err
	}
	for _, c := range h.joints[id].Children {
		if err := h.walk(c, visit); err != nil {
			return err
		}
	}
	return nil
}

// WalkStack is a pre-order walk that pushes each joint's local transform on
// s before calling enter and pops it after leave returns, so s.Top() inside
// enter is the joint's cumulative transform. Either callback may be nil.
func (h *Hierarchy) WalkStack(s *transform.Stack, enter, leave func(id JointID, j *Joint)) {
	if len(h.joints) == 0 {
		return
	}
	h.walkStack(h.Root(), s, enter, leave)
}

func (h *Hierarchy) walkStack(id JointID, s *transform.Stack, enter, leave func(JointID, *Joint)) {
	j := &h.joints[id]
	s.Push(j.Local)
	if enter != nil {
		enter(id, j)
	}
	for _, c := range j.Children {
		h.walkStack(c, s, enter, leave)
	}
	if leave != nil {
		leave(id, j)
	}
	s.MustPop()
}

// Order returns the joint handles in pre-order.
func (h *Hierarchy) Order() []JointID {
	ids := make([]JointID, 0, len(h.joints))
	h.Walk(func(id JointID, _ *Joint) error {
		ids = append(ids, id)
		return nil
	})
	return ids
}

// Depth returns the number of ancestors of id.
func (h *Hierarchy) Depth(id JointID) int {
	d := 0
	for j := h.Joint(id); j != nil && j.Parent != NoJoint; j = h.Joint(j.Parent) {
		d++
	}
	return d
}

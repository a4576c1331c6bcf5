// Package mesh holds bind-pose geometry, triangle connectivity and the
// per-vertex joint weights consumed by skinning.
package mesh

import (
	"math"

	"ssd-renderer/internal/mathutil"
)

// Face holds 0-based vertex indices of one triangle.
type Face [3]int

// Mesh is the bind data for one skinned triangle mesh.
type Mesh struct {
	BindVertices    []mathutil.Vec3 // rest pose, never mutated by skinning
	CurrentVertices []mathutil.Vec3 // skinning output, same indexing as BindVertices
	Faces           []Face
	// Attachments[i][j] is the weight of joint j on vertex i.
	Attachments [][]float64
}

// New returns a mesh whose current vertices start as a copy of bind.
func New(bind []mathutil.Vec3, faces []Face) *Mesh {
	cur := make([]mathutil.Vec3, len(bind))
	copy(cur, bind)
	return &Mesh{
		BindVertices:    bind,
		CurrentVertices: cur,
		Faces:           faces,
	}
}

// FaceNormal returns the unit normal of triangle (a, b, c), (b-a) × (c-a).
// Degenerate triangles yield the zero vector.
func FaceNormal(a, b, c mathutil.Vec3) mathutil.Vec3 {
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

// Bounds returns the axis-aligned bounds of the current vertices.
func (m *Mesh) Bounds() (lo, hi mathutil.Vec3) {
	return Bounds(m.CurrentVertices)
}

// Bounds returns the axis-aligned bounds of pts. Empty input yields zero vectors.
func Bounds(pts []mathutil.Vec3) (lo, hi mathutil.Vec3) {
	if len(pts) == 0 {
		return
	}
	lo = mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi = mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range pts {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return lo, hi
}

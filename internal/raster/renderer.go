package raster

import (
	"image"

	"ssd-renderer/internal/camera"
	"ssd-renderer/internal/mathutil"
	"ssd-renderer/internal/mesh"
	"ssd-renderer/internal/model"
	"ssd-renderer/internal/transform"
)

// Options controls what RenderSnapshot draws and how.
type Options struct {
	Size        int // output edge in pixels, before supersampling
	Supersample int
	Margin      int // pixels at output resolution
	Camera      camera.Camera

	DrawMesh     bool
	DrawSkeleton bool

	MeshColor  [3]uint8
	JointColor [3]uint8
	BoneColor  [3]uint8
	// JointRadius and BoneWidth are fractions of the framed model's extent.
	JointRadius float64
	BoneWidth   float64

	// Frame fixes the framed region (lo, hi) so that every frame of an
	// animation shares one camera. Nil frames the snapshot itself.
	Frame *[2]mathutil.Vec3
}

// DefaultOptions renders the mesh at 512 px with 2× supersampling.
func DefaultOptions() Options {
	return Options{
		Size:        512,
		Supersample: 2,
		Margin:      16,
		Camera:      camera.Camera{Yaw: 20, Pitch: 10},
		DrawMesh:    true,
		MeshColor:   [3]uint8{176, 176, 190},
		JointColor:  [3]uint8{220, 80, 60},
		BoneColor:   [3]uint8{90, 150, 220},
		JointRadius: 0.012,
		BoneWidth:   0.012,
	}
}

// RenderSnapshot rasterizes one pose at Size×Supersample resolution.
func RenderSnapshot(s model.Snapshot, o Options) *image.NRGBA {
	if o.Supersample < 1 {
		o.Supersample = 1
	}
	renderSize := o.Size * o.Supersample

	lo, hi := s.Bounds()
	if o.Frame != nil {
		lo, hi = o.Frame[0], o.Frame[1]
	}
	proj := camera.Fit(o.Camera, boxCorners(lo, hi), renderSize, o.Margin*o.Supersample)
	extent := hi.Sub(lo).Len()

	fb := NewFrameBuffer(renderSize, renderSize)
	lc := DefaultLightConfig()

	if o.DrawMesh {
		drawMesh(fb, proj, s, o.MeshColor, &lc)
	}
	if o.DrawSkeleton {
		drawSkeleton(fb, proj, s, o, extent, &lc)
	}
	return fb.Image()
}

func drawMesh(fb *FrameBuffer, proj camera.Projection, s model.Snapshot, base [3]uint8, lc *LightConfig) {
	px, py, pz := proj.ProjectAll(s.Vertices)
	nv := len(s.Vertices)
	for _, f := range s.Faces {
		if f[0] < 0 || f[0] >= nv || f[1] < 0 || f[1] >= nv || f[2] < 0 || f[2] >= nv {
			continue
		}
		n := mesh.FaceNormal(s.Vertices[f[0]], s.Vertices[f[1]], s.Vertices[f[2]])
		if n == (mathutil.Vec3{}) {
			continue
		}
		r, g, bl := lc.Shade(base, lc.ComputeShade(proj.R.MulVec3(n)))
		RasterizeTriangle(fb, px, py, pz, [3]int{f[0], f[1], f[2]}, r, g, bl)
	}
}

// Unit cube corners: bit 0 = +x, bit 1 = +y, bit 2 = +z.
var cubeQuads = [6][4]int{
	{0, 4, 6, 2}, // -x
	{1, 3, 7, 5}, // +x
	{0, 1, 5, 4}, // -y
	{2, 6, 7, 3}, // +y
	{0, 2, 3, 1}, // -z
	{4, 5, 7, 6}, // +z
}

func cubeCorner(i int) mathutil.Vec3 {
	var v mathutil.Vec3
	for k := 0; k < 3; k++ {
		v[k] = -0.5
		if i&(1<<k) != 0 {
			v[k] = 0.5
		}
	}
	return v
}

// BoneTransform maps the unit cube centered on the origin onto a box of
// the given width that runs from parent to child. The stack composes
// translate-to-parent, orient +z along the bone, scale, and shift the
// cube so it starts at the parent.
func BoneTransform(st *transform.Stack, parent, child mathutil.Vec3, width float64) (mathutil.Mat4, bool) {
	d := child.Sub(parent)
	length := d.Len()
	if length < 1e-9 {
		return mathutil.Mat4{}, false
	}
	st.Clear()
	st.Push(mathutil.Translation(parent))
	st.Push(mathutil.FromMat3Translation(mathutil.BasisFromAxis(d), mathutil.Vec3{}))
	st.Push(mathutil.Scaling(width, width, length))
	st.Push(mathutil.Translation(mathutil.Vec3{0, 0, 0.5}))
	m := st.Top()
	st.Clear()
	return m, true
}

func drawSkeleton(fb *FrameBuffer, proj camera.Projection, s model.Snapshot, o Options, extent float64, lc *LightConfig) {
	st := transform.New()
	width := o.BoneWidth * extent

	var corners [8]mathutil.Vec3
	px, py, pz := make([]float64, 8), make([]float64, 8), make([]float64, 8)
	for _, bone := range s.Bones {
		m, ok := BoneTransform(st, s.JointPosition(bone.Parent), s.JointPosition(bone.Child), width)
		if !ok {
			continue
		}
		for i := range corners {
			corners[i] = m.MulPoint(cubeCorner(i))
			px[i], py[i], pz[i] = proj.Project(corners[i])
		}
		for _, q := range cubeQuads {
			n := mesh.FaceNormal(corners[q[0]], corners[q[1]], corners[q[2]])
			r, g, b := lc.Shade(o.BoneColor, lc.ComputeShade(proj.R.MulVec3(n)))
			RasterizeTriangle(fb, px, py, pz, [3]int{q[0], q[1], q[2]}, r, g, b)
			RasterizeTriangle(fb, px, py, pz, [3]int{q[0], q[2], q[3]}, r, g, b)
		}
	}

	rad := o.JointRadius * extent * proj.Scale
	for i := range s.JointToWorld {
		x, y, z := proj.Project(s.JointPosition(i))
		RasterizeSphere(fb, x, y, z, rad, proj.Scale, o.JointColor, lc)
	}
}

func boxCorners(lo, hi mathutil.Vec3) []mathutil.Vec3 {
	pts := make([]mathutil.Vec3, 8)
	for i := range pts {
		for k := 0; k < 3; k++ {
			pts[i][k] = lo[k]
			if i&(1<<k) != 0 {
				pts[i][k] = hi[k]
			}
		}
	}
	return pts
}

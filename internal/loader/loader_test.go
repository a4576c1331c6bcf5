package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ssd-renderer/internal/mathutil"
	"ssd-renderer/internal/mesh"
	"ssd-renderer/internal/skeleton"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const skel = `0 0 0 -1
0 1 0 0
0 1 0 1
0.5 0 0 0
`

func TestReadSkeleton(t *testing.T) {
	recs, err := ReadSkeleton(strings.NewReader(skel))
	require.NoError(t, err)
	want := []skeleton.Record{
		{Offset: mathutil.Vec3{0, 0, 0}, Parent: -1},
		{Offset: mathutil.Vec3{0, 1, 0}, Parent: 0},
		{Offset: mathutil.Vec3{0, 1, 0}, Parent: 1},
		{Offset: mathutil.Vec3{0.5, 0, 0}, Parent: 0},
	}
	if diff := cmp.Diff(want, recs); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestReadSkeletonRootParentIgnored(t *testing.T) {
	recs, err := ReadSkeleton(strings.NewReader("1 2 3 7"))
	require.NoError(t, err)
	assert.Equal(t, -1, recs[0].Parent)
	assert.Equal(t, mathutil.Vec3{1, 2, 3}, recs[0].Offset)
}

func TestReadSkeletonErrors(t *testing.T) {
	for name, in := range map[string]string{
		"empty":         "",
		"truncated":     "0 0 0 -1\n0 1",
		"bad number":    "0 0 x -1",
		"bad parent":    "0 0 0 -1\n0 1 0 p",
		"forward ref":   "0 0 0 -1\n0 1 0 1",
		"negative ref":  "0 0 0 -1\n0 1 0 -1",
		"unknown joint": "0 0 0 -1\n0 1 0 0\n0 1 0 9",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ReadSkeleton(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

const obj = `# quad made of two triangles
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1

f 1 2 3
f 1/1/1 3/3/1 4/4/1
`

func TestReadMesh(t *testing.T) {
	m, err := ReadMesh(strings.NewReader(obj))
	require.NoError(t, err)
	assert.Len(t, m.BindVertices, 4)
	assert.Equal(t, m.BindVertices, m.CurrentVertices)
	assert.Equal(t, []mesh.Face{{0, 1, 2}, {0, 2, 3}}, m.Faces)
}

func TestReadMeshFansPolygons(t *testing.T) {
	m, err := ReadMesh(strings.NewReader("v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n"))
	require.NoError(t, err)
	assert.Equal(t, []mesh.Face{{0, 1, 2}, {0, 2, 3}}, m.Faces)
}

func TestReadMeshErrors(t *testing.T) {
	for name, in := range map[string]string{
		"no vertices":  "f 1 2 3",
		"short vertex": "v 1 2",
		"bad coord":    "v 1 2 z",
		"short face":   "v 0 0 0\nf 1 1",
		"bad index":    "v 0 0 0\nf 1 a 1",
		"zero index":   "v 0 0 0\nf 0 1 1",
		"out of range": "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ReadMesh(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestWriteOBJRoundTrip(t *testing.T) {
	m, err := ReadMesh(strings.NewReader(obj))
	require.NoError(t, err)
	m.CurrentVertices[2] = mathutil.Vec3{2, 2, 0.5}

	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(&buf, m))

	back, err := ReadMesh(&buf)
	require.NoError(t, err)
	assert.Equal(t, m.CurrentVertices, back.BindVertices)
	assert.Equal(t, m.Faces, back.Faces)
}

func TestReadAttachments(t *testing.T) {
	// Three joints: the first line omits the root weight, the second carries all three.
	in := "0.25 0.75\n0.1 0.2 0.7\n\n"
	att, err := ReadAttachments(strings.NewReader(in), 2, 3)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 0.25, 0.75}, {0.1, 0.2, 0.7}}, att)
}

func TestReadAttachmentsErrors(t *testing.T) {
	_, err := ReadAttachments(strings.NewReader("1\n"), 2, 2)
	assert.Error(t, err, "too few lines")

	_, err = ReadAttachments(strings.NewReader("1 0 0 0\n"), 1, 2)
	assert.Error(t, err, "too many weights")

	_, err = ReadAttachments(strings.NewReader("nope\n"), 1, 2)
	assert.Error(t, err, "bad weight")

	_, err = ReadAttachments(strings.NewReader(""), 0, 0)
	assert.Error(t, err, "no joints")
}

func TestValidateWeights(t *testing.T) {
	issues := ValidateWeights([][]float64{{0.5, 0.5}, {0.5, 0.4}, {0, 0}}, 1e-6)
	require.Len(t, issues, 2)
	assert.Equal(t, 1, issues[0].Vertex)
	assert.InDelta(t, 0.9, issues[0].Sum, 1e-12)
	assert.Equal(t, 2, issues[1].Vertex)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0644))
		return p
	}

	recs, err := LoadSkeleton(write("model.skel", skel))
	require.NoError(t, err)
	assert.Len(t, recs, 4)

	m, err := LoadMesh(write("model.obj", obj))
	require.NoError(t, err)
	assert.Len(t, m.Faces, 2)

	att, err := LoadAttachments(write("model.attach", "1 0 0\n1 0 0\n0 1 0\n0 0 1\n"), len(m.BindVertices), len(recs))
	require.NoError(t, err)
	assert.Len(t, att, 4)

	_, err = LoadSkeleton(filepath.Join(dir, "missing.skel"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

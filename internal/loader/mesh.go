package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"ssd-renderer/internal/mathutil"
	"ssd-renderer/internal/mesh"
)

// LoadMesh reads an .obj file holding "v" and "f" records.
func LoadMesh(path string) (*mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: open %s: %w", path, err)
	}
	defer f.Close()

	m, err := ReadMesh(f)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", path, err)
	}
	return m, nil
}

// ReadMesh parses vertex positions and faces. Face indices are 1-based in
// the file and converted to 0-based; "i/t/n" tokens use the leading index.
// Polygons with more than three corners are fanned into triangles.
// Unknown record types are skipped.
func ReadMesh(r io.Reader) (*mesh.Mesh, error) {
	var (
		verts []mathutil.Vec3
		faces []mesh.Face
		// face lines are validated once every vertex has been read
		faceLines []int
	)

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		f := fields(sc.Text())
		if len(f) == 0 {
			continue
		}
		switch f[0] {
		case "v":
			if len(f) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", lineNo)
			}
			var v mathutil.Vec3
			for k := 0; k < 3; k++ {
				x, err := strconv.ParseFloat(f[k+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: vertex coordinate %q: %w", lineNo, f[k+1], err)
				}
				v[k] = x
			}
			verts = append(verts, v)
		case "f":
			if len(f) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 indices", lineNo)
			}
			idx := make([]int, len(f)-1)
			for k, tok := range f[1:] {
				if slash := strings.IndexByte(tok, '/'); slash >= 0 {
					tok = tok[:slash]
				}
				i, err := strconv.Atoi(tok)
				if err != nil {
					return nil, fmt.Errorf("line %d: face index %q: %w", lineNo, f[k+1], err)
				}
				idx[k] = i - 1
			}
			for k := 1; k+1 < len(idx); k++ {
				faces = append(faces, mesh.Face{idx[0], idx[k], idx[k+1]})
				faceLines = append(faceLines, lineNo)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read mesh: %w", err)
	}
	if len(verts) == 0 {
		return nil, fmt.Errorf("mesh: no vertices")
	}
	for fi, face := range faces {
		for _, i := range face {
			if i < 0 || i >= len(verts) {
				return nil, fmt.Errorf("line %d: face index %d out of range [1, %d]", faceLines[fi], i+1, len(verts))
			}
		}
	}

	return mesh.New(verts, faces), nil
}

// WriteOBJ writes the current vertices and faces of m as an .obj file.
func WriteOBJ(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)
	for _, v := range m.CurrentVertices {
		fmt.Fprintf(bw, "v %g %g %g\n", v[0], v[1], v[2])
	}
	for _, f := range m.Faces {
		fmt.Fprintf(bw, "f %d %d %d\n", f[0]+1, f[1]+1, f[2]+1)
	}
	return bw.Flush()
}

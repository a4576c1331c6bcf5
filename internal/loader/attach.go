package loader

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// LoadAttachments reads an .attach file for a mesh with numVerts vertices
// and a skeleton with numJoints joints.
func LoadAttachments(path string, numVerts, numJoints int) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: open %s: %w", path, err)
	}
	defer f.Close()

	att, err := ReadAttachments(f, numVerts, numJoints)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", path, err)
	}
	return att, nil
}

// ReadAttachments parses one weight line per vertex. A line carries either
// numJoints weights, or numJoints-1 weights with the root's weight implied
// to be zero. The returned vectors always have numJoints entries.
func ReadAttachments(r io.Reader, numVerts, numJoints int) ([][]float64, error) {
	if numJoints < 1 {
		return nil, fmt.Errorf("attachments: need at least one joint")
	}

	att := make([][]float64, 0, numVerts)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		f := fields(sc.Text())
		if len(f) == 0 {
			continue
		}

		w := make([]float64, numJoints)
		var dst []float64
		switch len(f) {
		case numJoints:
			dst = w
		case numJoints - 1:
			dst = w[1:]
		default:
			return nil, fmt.Errorf("line %d: %d weights, want %d or %d", lineNo, len(f), numJoints-1, numJoints)
		}
		for k, tok := range f {
			x, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: weight %q: %w", lineNo, tok, err)
			}
			dst[k] = x
		}
		att = append(att, w)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read attachments: %w", err)
	}
	if len(att) != numVerts {
		return nil, fmt.Errorf("attachments: %d weight lines for %d vertices", len(att), numVerts)
	}
	return att, nil
}

// WeightIssue describes a vertex whose weights do not sum to one.
type WeightIssue struct {
	Vertex int
	Sum    float64
}

// ValidateWeights returns every vertex whose weights sum further than tol from 1.
func ValidateWeights(att [][]float64, tol float64) []WeightIssue {
	var issues []WeightIssue
	for i, w := range att {
		sum := 0.0
		for _, x := range w {
			sum += x
		}
		if math.Abs(sum-1) > tol {
			issues = append(issues, WeightIssue{Vertex: i, Sum: sum})
		}
	}
	return issues
}

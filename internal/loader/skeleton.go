// Package loader parses the text skeleton, mesh and attachment files.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"ssd-renderer/internal/mathutil"
	"ssd-renderer/internal/skeleton"
)

// LoadSkeleton reads a .skel file.
func LoadSkeleton(path string) ([]skeleton.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: open %s: %w", path, err)
	}
	defer f.Close()

	recs, err := ReadSkeleton(f)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", path, err)
	}
	return recs, nil
}

// ReadSkeleton parses whitespace-separated "x y z parent" records. Record 0
// is the root; its parent field is ignored. Every later record must name an
// earlier record as its parent.
func ReadSkeleton(r io.Reader) ([]skeleton.Record, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	var (
		recs  []skeleton.Record
		field [4]string
		n     int
	)
	for sc.Scan() {
		field[n] = sc.Text()
		n++
		if n < 4 {
			continue
		}
		n = 0

		rec, err := parseJoint(field, len(recs))
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read skeleton: %w", err)
	}
	if n != 0 {
		return nil, fmt.Errorf("skeleton record %d: truncated after %d fields", len(recs), n)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("skeleton: no joints")
	}
	return recs, nil
}

func parseJoint(field [4]string, index int) (skeleton.Record, error) {
	var off mathutil.Vec3
	for k := 0; k < 3; k++ {
		v, err := strconv.ParseFloat(field[k], 64)
		if err != nil {
			return skeleton.Record{}, fmt.Errorf("skeleton record %d: coordinate %q: %w", index, field[k], err)
		}
		off[k] = v
	}
	parent, err := strconv.Atoi(field[3])
	if err != nil {
		return skeleton.Record{}, fmt.Errorf("skeleton record %d: parent %q: %w", index, field[3], err)
	}
	if index == 0 {
		return skeleton.Record{Offset: off, Parent: -1}, nil
	}
	if parent < 0 || parent >= index {
		return skeleton.Record{}, fmt.Errorf("skeleton record %d: parent %d does not reference an earlier joint", index, parent)
	}
	return skeleton.Record{Offset: off, Parent: parent}, nil
}

// fields splits a line and drops a trailing # comment.
func fields(line string) []string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.Fields(line)
}

package texture

import (
	"os"
	"path/filepath"
	"strings"
)

// Index maps lowercase file stems to paths under a background directory.
// When a stem exists in several formats, TGA beats PNG beats JPEG.
type Index struct {
	entries map[string]string
}

// BuildIndex scans dir recursively. A missing or empty dir yields an empty
// index.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string]string)}
	if dir == "" {
		return idx
	}
	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		r, ok := rank[ext]
		if !ok {
			return nil
		}
		stem := stemOf(path)
		if existing, exists := idx.entries[stem]; !exists || r > rank[strings.ToLower(filepath.Ext(existing))] {
			idx.entries[stem] = path
		}
		return nil
	})
	return idx
}

// ResolvePath returns the file for name, which may carry a directory or an
// extension ("studio", "bg/studio.png"). Backslashes are accepted.
func (idx *Index) ResolvePath(name string) (string, bool) {
	if idx == nil {
		return "", false
	}
	path, ok := idx.entries[stemOf(strings.ReplaceAll(name, "\\", "/"))]
	return path, ok
}

// Len returns the number of indexed images.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.entries)
}

func stemOf(path string) string {
	base := filepath.Base(path)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

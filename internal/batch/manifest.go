package batch

import (
	"encoding/json"
	"os"
	"path/filepath"

	"ssd-renderer/internal/mathutil"
)

// ManifestEntry represents one frame in the output manifest.
type ManifestEntry struct {
	Index  int              `json:"index"`
	Name   string           `json:"name"`
	Image  string           `json:"image,omitempty"`
	Error  string           `json:"error,omitempty"`
	Joints []mathutil.Vec3  `json:"joints"`
	Bounds [2]mathutil.Vec3 `json:"bounds"`
}

// WriteManifest writes a JSON manifest describing every job's result.
// Image paths are relative to the manifest's directory.
func WriteManifest(path string, jobs []Job, results []Result) error {
	dir := filepath.Dir(path)
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		e := ManifestEntry{Index: r.Index, Name: r.Name, Error: r.Error}
		if r.Success {
			if rel, err := filepath.Rel(dir, r.Path); err == nil {
				e.Image = filepath.ToSlash(rel)
			} else {
				e.Image = r.Path
			}
		}
		if r.Index >= 0 && r.Index < len(jobs) {
			s := jobs[r.Index].Snapshot
			for j := range s.JointToWorld {
				e.Joints = append(e.Joints, s.JointPosition(j))
			}
			e.Bounds[0], e.Bounds[1] = s.Bounds()
		}
		entries[i] = e
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

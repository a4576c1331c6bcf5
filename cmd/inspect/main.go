package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"ssd-renderer/internal/config"
	"ssd-renderer/internal/loader"
	"ssd-renderer/internal/mathutil"
	"ssd-renderer/internal/model"
	"ssd-renderer/internal/pose"
	"ssd-renderer/internal/skeleton"

	"github.com/golang/glog"
)

func main() {
	configFile := flag.String("config", "", "Path to config file (.json, .yaml or .toml)")
	modelPrefix := flag.String("model", "", "Model path prefix; loads <prefix>.skel, .obj and .attach")
	poseScript := flag.String("poses", "", "Pose script to report per-frame bounds for")
	weightTol := flag.Float64("tol", 1e-3, "Tolerance for weight sums")
	flag.Parse()
	defer glog.Flush()

	var cfg config.Config
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			glog.Exitf("%v", err)
		}
	}
	cfg.Resolve(config.Flags{Model: *modelPrefix, PoseScript: *poseScript})
	if err := cfg.Validate(); err != nil {
		glog.Exitf("%v", err)
	}

	var m model.SkeletalModel
	if err := m.Load(cfg.Skeleton, cfg.Mesh, cfg.Attachments); err != nil {
		glog.Exitf("Error: %v", err)
	}
	h, msh := m.Skeleton(), m.Mesh()

	fmt.Printf("Joints: %d, Vertices: %d, Faces: %d\n", h.Len(), len(msh.BindVertices), len(msh.Faces))
	fmt.Println("Hierarchy (pre-order):")
	h.Walk(func(id skeleton.JointID, j *skeleton.Joint) error {
		t := j.Local.Translation()
		fmt.Printf("  %s[%d] offset (%.3f, %.3f, %.3f) children=%d\n",
			strings.Repeat("  ", h.Depth(id)), id, t[0], t[1], t[2], len(j.Children))
		return nil
	})

	// Load already rejects a failing self-test; report the residual anyway.
	var worst float64
	for _, mat := range h.SkinMatrices() {
		worst = max(worst, mat.MaxDeviation(mathutil.Mat4Identity()))
	}
	fmt.Printf("Bind self-test: OK (max deviation from identity %.2e)\n", worst)

	issues := loader.ValidateWeights(msh.Attachments, *weightTol)
	if len(issues) == 0 {
		fmt.Println("Weights: all vertices sum to 1")
	} else {
		fmt.Printf("Weights: %d vertices do not sum to 1\n", len(issues))
		limit := min(len(issues), 20)
		for _, is := range issues[:limit] {
			fmt.Printf("  vertex %d: sum %.4f\n", is.Vertex, is.Sum)
		}
	}

	lo, hi := msh.Bounds()
	fmt.Printf("Bind bounds: %s\n", box(lo, hi))

	if cfg.PoseScript == "" {
		return
	}
	script, err := pose.Load(cfg.PoseScript)
	if err != nil {
		glog.Exitf("%v", err)
	}
	if err := script.Validate(h.Len()); err != nil {
		glog.Exitf("%v", err)
	}
	fmt.Printf("Frames (%d):\n", len(script.Frames))
	for _, f := range script.Frames {
		if err := m.ApplyPose(f); err != nil {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", f.Name, err)
			continue
		}
		lo, hi := m.Snapshot(f.Name).Bounds()
		fmt.Printf("  %-16s joints=%d %s\n", f.Name, len(f.Joints), box(lo, hi))
	}
}

func box(lo, hi mathutil.Vec3) string {
	return fmt.Sprintf("X[%.3f, %.3f] Y[%.3f, %.3f] Z[%.3f, %.3f]", lo[0], hi[0], lo[1], hi[1], lo[2], hi[2])
}

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ssd-renderer/internal/batch"
	"ssd-renderer/internal/camera"
	"ssd-renderer/internal/config"
	"ssd-renderer/internal/mathutil"
	"ssd-renderer/internal/model"
	"ssd-renderer/internal/pose"
	"ssd-renderer/internal/raster"
	"ssd-renderer/internal/texture"

	"github.com/golang/glog"
)

func main() {
	configFile := flag.String("config", "", "Path to config file (.json, .yaml or .toml)")
	modelPrefix := flag.String("model", "", "Model path prefix; loads <prefix>.skel, .obj and .attach")
	poseScript := flag.String("poses", "", "Pose script (.yaml or .toml); default renders the bind pose only")
	outputDir := flag.String("output", "", "Output directory (default: renders)")
	format := flag.String("format", "", "Image format: webp, png or tga (default: webp)")
	view := flag.String("view", "", "What to draw: mesh, skeleton or both (default: mesh)")
	size := flag.Int("size", 0, "Output image size in pixels (default: 512)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	testN := flag.Int("test", 0, "Render only the first N frames")

	flag.Parse()
	defer glog.Flush()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			glog.Exitf("Error loading config: %v", err)
		}
	}
	cfg.Resolve(config.Flags{
		Model:      *modelPrefix,
		PoseScript: *poseScript,
		OutputDir:  *outputDir,
		Format:     *format,
		View:       *view,
		Size:       *size,
		Workers:    *workers,
	})
	if err := cfg.Validate(); err != nil {
		glog.Exitf("%v", err)
	}

	var m model.SkeletalModel
	if err := m.Load(cfg.Skeleton, cfg.Mesh, cfg.Attachments); err != nil {
		glog.Exitf("Error loading model: %v", err)
	}

	frames := []pose.Pose{{Name: "bind"}}
	if cfg.PoseScript != "" {
		script, err := pose.Load(cfg.PoseScript)
		if err != nil {
			glog.Exitf("Error loading poses: %v", err)
		}
		if len(script.Frames) > 0 {
			frames = script.Frames
		}
	}
	if *testN > 0 && *testN < len(frames) {
		frames = frames[:*testN]
	}

	jobs := make([]batch.Job, 0, len(frames))
	for _, f := range frames {
		if err := m.ApplyPose(f); err != nil {
			glog.Exitf("Frame %q: %v", f.Name, err)
		}
		bg := f.Background
		if bg == "" {
			bg = cfg.Background
		}
		jobs = append(jobs, batch.Job{Snapshot: m.Snapshot(f.Name), Background: bg})
	}

	opts := raster.DefaultOptions()
	opts.Size = cfg.RenderSize
	opts.Supersample = cfg.Supersample
	opts.Camera = camera.Camera{Yaw: cfg.Yaw, Pitch: cfg.Pitch, Perspective: cfg.Perspective}
	opts.DrawMesh = cfg.View != config.ViewSkeleton
	opts.DrawSkeleton = cfg.View != config.ViewMesh
	opts.Frame = unionBounds(jobs)

	bgIndex := texture.BuildIndex(cfg.BackgroundDir)
	glog.V(1).Infof("Backgrounds: %d indexed", bgIndex.Len())

	fmt.Printf("SSD renderer → %s\n", cfg.Format)
	fmt.Printf("Joints: %d, Vertices: %d, Faces: %d\n",
		m.Skeleton().Len(), len(m.Mesh().BindVertices), len(m.Mesh().Faces))
	fmt.Printf("Frames: %d, Workers: %d\n", len(jobs), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	results := batch.Run(batch.Config{
		OutputDir:   cfg.OutputDir,
		Format:      cfg.Format,
		Render:      opts,
		Backgrounds: texture.NewCache(bgIndex),
		Label:       cfg.Label,
		Workers:     cfg.Workers,
	}, jobs)

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
			glog.Errorf("%s: %s", r.Name, r.Error)
		}
	}
	fmt.Printf("Rendered: %d/%d\n", len(results)-failed, len(results))

	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		glog.Warningf("manifest: %v", err)
	} else if err := batch.WriteManifest(manifestPath, jobs, results); err != nil {
		glog.Warningf("manifest write failed: %v", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		glog.Flush()
		os.Exit(1)
	}
}

// unionBounds frames every snapshot with one camera so frames line up.
func unionBounds(jobs []batch.Job) *[2]mathutil.Vec3 {
	if len(jobs) == 0 {
		return nil
	}
	lo, hi := jobs[0].Snapshot.Bounds()
	for _, j := range jobs[1:] {
		l, h := j.Snapshot.Bounds()
		lo, hi = lo.Min(l), hi.Max(h)
	}
	return &[2]mathutil.Vec3{lo, hi}
}

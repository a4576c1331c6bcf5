package batch

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"ssd-renderer/internal/model"
	"ssd-renderer/internal/output"
	"ssd-renderer/internal/postprocess"
	"ssd-renderer/internal/raster"
	"ssd-renderer/internal/texture"

	"github.com/golang/glog"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir   string
	Format      string // webp, png or tga
	Render      raster.Options
	Backgrounds texture.Resolver // may be nil
	Label       bool
	Workers     int
}

// Job is one pose to render. Snapshots are immutable, so workers share
// nothing but the background cache.
type Job struct {
	Snapshot   model.Snapshot
	Background string
}

// Result holds the outcome of rendering one job.
type Result struct {
	Index   int
	Name    string
	Path    string
	Success bool
	Error   string
}

// Run renders all jobs using a worker pool. Results keep job order.
func Run(cfg Config, jobs []Job) []Result {
	total := len(jobs)
	results := make([]Result, total)
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	var processed atomic.Int64

	start := time.Now()

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					glog.Infof("[%d/%d] %.1f frames/sec", p, total, rate)
				}
			}
		}
	}()

	jobChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = renderJob(cfg, idx, jobs[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	glog.V(1).Infof("batch: %d frames in %v", total, time.Since(start).Round(time.Millisecond))
	return results
}

func renderJob(cfg Config, idx int, job Job) Result {
	name := job.Snapshot.Name
	res := Result{Index: idx, Name: name}
	if len(job.Snapshot.JointToWorld) == 0 {
		res.Error = "empty snapshot"
		return res
	}

	img := raster.RenderSnapshot(job.Snapshot, cfg.Render)
	if cfg.Render.Supersample > 1 {
		img = postprocess.Downsample(img, cfg.Render.Size)
	}
	if cfg.Backgrounds != nil && job.Background != "" {
		if bg := cfg.Backgrounds.Resolve(job.Background); bg != nil {
			img = postprocess.Composite(img, bg)
		}
	}
	if cfg.Label {
		img = postprocess.Label(img, name)
	}

	res.Path = filepath.Join(cfg.OutputDir, FileName(idx, name, cfg.Format))
	if err := output.Write(res.Path, img); err != nil {
		res.Error = err.Error()
		return res
	}
	res.Success = true
	return res
}

// FileName builds "<index>_<name>.<format>" with the name reduced to
// characters safe in any filesystem.
func FileName(idx int, name, format string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
	return fmt.Sprintf("%03d_%s.%s", idx, safe, format)
}

package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"ssd-renderer/internal/config"
	"ssd-renderer/internal/loader"
	"ssd-renderer/internal/model"
	"ssd-renderer/internal/pose"

	"github.com/golang/glog"
)

func main() {
	modelPrefix := flag.String("model", "", "Model path prefix; loads <prefix>.skel, .obj and .attach")
	joint := flag.Int("joint", 0, "Joint index to rotate")
	rx := flag.Float64("rx", 0, "Rotation about X in degrees")
	ry := flag.Float64("ry", 0, "Rotation about Y in degrees")
	rz := flag.Float64("rz", 0, "Rotation about Z in degrees")
	objOut := flag.String("obj", "", "Write the deformed mesh to this .obj instead of printing vertices")
	flag.Parse()
	defer glog.Flush()

	cfg := config.Config{}
	cfg.Resolve(config.Flags{Model: *modelPrefix})
	if err := cfg.Validate(); err != nil {
		glog.Exitf("%v", err)
	}

	var m model.SkeletalModel
	if err := m.Load(cfg.Skeleton, cfg.Mesh, cfg.Attachments); err != nil {
		glog.Exitf("Error: %v", err)
	}
	if err := m.ApplyPose(pose.Single("edit", *joint, *rx, *ry, *rz)); err != nil {
		glog.Exitf("Error: %v", err)
	}
	glog.V(1).Infof("joint %d rotated to (%.1f, %.1f, %.1f) degrees", *joint, *rx, *ry, *rz)

	if *objOut != "" {
		f, err := os.Create(*objOut)
		if err != nil {
			glog.Exitf("Error: %v", err)
		}
		if err := loader.WriteOBJ(f, m.Mesh()); err != nil {
			f.Close()
			glog.Exitf("Error: %v", err)
		}
		if err := f.Close(); err != nil {
			glog.Exitf("Error: %v", err)
		}
		fmt.Printf("Wrote %s\n", *objOut)
		return
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	for i, v := range m.Mesh().CurrentVertices {
		fmt.Fprintf(w, "%d %.6f %.6f %.6f\n", i, v[0], v[1], v[2])
	}
}

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Views accepted by the renderer.
const (
	ViewMesh     = "mesh"
	ViewSkeleton = "skeleton"
	ViewBoth     = "both"
)

// ErrInvalid wraps every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// Config holds input paths and render settings.
type Config struct {
	// Paths. Relative paths are resolved against BaseDir.
	BaseDir       string `json:"base_dir" yaml:"base_dir" toml:"base_dir"`
	Model         string `json:"model" yaml:"model" toml:"model"` // prefix for .skel, .obj and .attach
	Skeleton      string `json:"skeleton" yaml:"skeleton" toml:"skeleton"`
	Mesh          string `json:"mesh" yaml:"mesh" toml:"mesh"`
	Attachments   string `json:"attachments" yaml:"attachments" toml:"attachments"`
	PoseScript    string `json:"pose_script" yaml:"pose_script" toml:"pose_script"`
	BackgroundDir string `json:"background_dir" yaml:"background_dir" toml:"background_dir"`
	Background    string `json:"background" yaml:"background" toml:"background"`
	OutputDir     string `json:"output_dir" yaml:"output_dir" toml:"output_dir"`

	// Render settings
	Format      string  `json:"format" yaml:"format" toml:"format"`
	View        string  `json:"view" yaml:"view" toml:"view"`
	RenderSize  int     `json:"render_size" yaml:"render_size" toml:"render_size"`
	Supersample int     `json:"supersample" yaml:"supersample" toml:"supersample"`
	Yaw         float64 `json:"yaw" yaml:"yaw" toml:"yaw"`
	Pitch       float64 `json:"pitch" yaml:"pitch" toml:"pitch"`
	Perspective bool    `json:"perspective" yaml:"perspective" toml:"perspective"`
	Label       bool    `json:"label" yaml:"label" toml:"label"`
	Workers     int     `json:"workers" yaml:"workers" toml:"workers"`
}

// Load reads a JSON, YAML or TOML config file, chosen by extension.
// Fields not set in the file keep their zero values, except BaseDir which
// defaults to the file's directory.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&cfg)
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	default:
		return Config{}, fmt.Errorf("config: %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if cfg.BaseDir == "" {
		cfg.BaseDir = filepath.Dir(path)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	BaseDir    string
	Model      string
	PoseScript string
	OutputDir  string
	Format     string
	View       string
	Size       int
	Workers    int
}

// Resolve applies flag overrides, derives model file paths, makes paths
// absolute against BaseDir and fills in render defaults. Explicit skeleton,
// mesh and attachment paths take precedence over Model from the same config
// file; flags.Model replaces all of them.
func (c *Config) Resolve(flags Flags) {
	override(&c.BaseDir, flags.BaseDir)
	if flags.Model != "" {
		// A model prefix on the command line names a different model, so
		// per-file paths from the config file no longer apply.
		c.Model = flags.Model
		c.Skeleton, c.Mesh, c.Attachments = "", "", ""
	}
	override(&c.PoseScript, flags.PoseScript)
	override(&c.OutputDir, flags.OutputDir)
	override(&c.Format, flags.Format)
	override(&c.View, flags.View)
	if flags.Size > 0 {
		c.RenderSize = flags.Size
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.Model != "" {
		if c.Skeleton == "" {
			c.Skeleton = c.Model + ".skel"
		}
		if c.Mesh == "" {
			c.Mesh = c.Model + ".obj"
		}
		if c.Attachments == "" {
			c.Attachments = c.Model + ".attach"
		}
	}
	if c.OutputDir == "" {
		c.OutputDir = "renders"
	}

	for _, p := range []*string{&c.Skeleton, &c.Mesh, &c.Attachments, &c.PoseScript, &c.BackgroundDir, &c.OutputDir} {
		*p = c.abs(*p)
	}

	c.Format = strings.TrimPrefix(strings.ToLower(c.Format), ".")
	if c.Format == "" {
		c.Format = "webp"
	}
	if c.View == "" {
		c.View = ViewMesh
	}
	if c.RenderSize <= 0 {
		c.RenderSize = 512
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Validate reports missing inputs and unknown enum values.
func (c *Config) Validate() error {
	switch {
	case c.Skeleton == "" || c.Mesh == "" || c.Attachments == "":
		return fmt.Errorf("%w: skeleton, mesh and attachments are required (or set model)", ErrInvalid)
	case c.Format != "webp" && c.Format != "png" && c.Format != "tga":
		return fmt.Errorf("%w: format %q", ErrInvalid, c.Format)
	case c.View != ViewMesh && c.View != ViewSkeleton && c.View != ViewBoth:
		return fmt.Errorf("%w: view %q", ErrInvalid, c.View)
	}
	return nil
}

func (c *Config) abs(p string) string {
	if p == "" || filepath.IsAbs(p) || c.BaseDir == "" {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Package pose reads pose scripts: named sets of absolute joint rotations,
// authored in degrees, applied to a skeletal model one frame at a time.
package pose

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ssd-renderer/internal/mathutil"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// JointRotation sets one joint's Euler angles. Radians once loaded.
type JointRotation struct {
	Joint int     `yaml:"joint" toml:"joint" json:"joint"`
	RX    float64 `yaml:"rx" toml:"rx" json:"rx"`
	RY    float64 `yaml:"ry" toml:"ry" json:"ry"`
	RZ    float64 `yaml:"rz" toml:"rz" json:"rz"`
}

// Pose is one frame. Joints not listed keep their bind orientation.
// Background optionally names an image drawn behind the frame.
type Pose struct {
	Name       string          `yaml:"name" toml:"name" json:"name"`
	Background string          `yaml:"background,omitempty" toml:"background,omitempty" json:"background,omitempty"`
	Joints     []JointRotation `yaml:"joints" toml:"joints" json:"joints"`
}

// Script is an ordered list of poses.
type Script struct {
	Frames []Pose `yaml:"frames" toml:"frames" json:"frames"`
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) pose script and converts
// its angles from degrees to radians.
func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("pose: read %s: %w", path, err)
	}
	s, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return Script{}, fmt.Errorf("pose: %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a script in the format named by ext and converts degrees to radians.
func Parse(data []byte, ext string) (Script, error) {
	var s Script
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return Script{}, fmt.Errorf("parse yaml: %w", err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return Script{}, fmt.Errorf("parse toml: %w", err)
		}
	default:
		return Script{}, fmt.Errorf("unsupported pose script extension %q", ext)
	}

	for fi := range s.Frames {
		f := &s.Frames[fi]
		if f.Name == "" {
			f.Name = fmt.Sprintf("frame%03d", fi)
		}
		for ji := range f.Joints {
			j := &f.Joints[ji]
			j.RX = mathutil.Deg2Rad(j.RX)
			j.RY = mathutil.Deg2Rad(j.RY)
			j.RZ = mathutil.Deg2Rad(j.RZ)
		}
	}
	return s, nil
}

// Validate checks every joint index against the skeleton size.
func (s Script) Validate(numJoints int) error {
	for _, f := range s.Frames {
		for _, j := range f.Joints {
			if j.Joint < 0 || j.Joint >= numJoints {
				return fmt.Errorf("pose: frame %q: joint %d out of range [0, %d)", f.Name, j.Joint, numJoints)
			}
		}
	}
	return nil
}

// Single builds a one-joint pose from angles in degrees.
func Single(name string, joint int, rxDeg, ryDeg, rzDeg float64) Pose {
	return Pose{
		Name: name,
		Joints: []JointRotation{{
			Joint: joint,
			RX:    mathutil.Deg2Rad(rxDeg),
			RY:    mathutil.Deg2Rad(ryDeg),
			RZ:    mathutil.Deg2Rad(rzDeg),
		}},
	}
}

// Package output encodes rendered frames to disk.
package output

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
)

// ErrFormat is returned for an unsupported file extension.
var ErrFormat = errors.New("output: unsupported image format")

// Formats lists the extensions Write understands.
var Formats = []string{".webp", ".png", ".tga"}

// Write encodes img to path, choosing the encoder from the extension.
// Parent directories are created as needed.
func Write(path string, img image.Image) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !Supported(ext) {
		return fmt.Errorf("%w: %q", ErrFormat, ext)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("output: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if err := Encode(f, ext, img); err != nil {
		f.Close()
		return fmt.Errorf("output: encode %s: %w", path, err)
	}
	return f.Close()
}

// Encode writes img in the format named by ext (".webp", ".png" or ".tga").
func Encode(w io.Writer, ext string, img image.Image) error {
	switch strings.ToLower(ext) {
	case ".webp":
		return nativewebp.Encode(w, img, nil)
	case ".png":
		return png.Encode(w, img)
	case ".tga":
		return tga.Encode(w, img)
	}
	return fmt.Errorf("%w: %q", ErrFormat, ext)
}

// Supported reports whether ext names a known output format.
func Supported(ext string) bool {
	ext = strings.ToLower(ext)
	for _, f := range Formats {
		if f == ext {
			return true
		}
	}
	return false
}

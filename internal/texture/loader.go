// Package texture decodes and caches background images composited behind
// rendered frames.
package texture

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/ftrvxmtrx/tga"
)

// rank orders extensions by preference when two files share a stem.
// Formats that carry alpha win.
var rank = map[string]int{
	".tga":  3,
	".png":  2,
	".jpg":  1,
	".jpeg": 1,
}

// Load reads a TGA, PNG or JPEG file and returns it as NRGBA.
func Load(path string) (*image.NRGBA, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := rank[ext]; !ok {
		return nil, fmt.Errorf("texture: unknown extension: %s", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return toNRGBA(img), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Composite places fg over bg, stretching bg to cover fg's bounds. A nil
// background returns fg unchanged.
func Composite(fg *image.NRGBA, bg image.Image) *image.NRGBA {
	if bg == nil {
		return fg
	}
	b := fg.Bounds()
	dst := image.NewNRGBA(b)
	draw.BiLinear.Scale(dst, b, bg, bg.Bounds(), draw.Src, nil)
	draw.Draw(dst, b, fg, b.Min, draw.Over)
	return dst
}

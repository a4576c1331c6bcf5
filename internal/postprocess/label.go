package postprocess

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const labelPad = 3

// Label writes text into the top-left corner of img on a translucent plate.
// img is modified in place and returned.
func Label(img *image.NRGBA, text string) *image.NRGBA {
	if text == "" {
		return img
	}
	face := basicfont.Face7x13
	b := img.Bounds()
	w := font.MeasureString(face, text).Ceil()
	m := face.Metrics()
	h := (m.Ascent + m.Descent).Ceil()

	plate := image.Rect(b.Min.X, b.Min.Y, b.Min.X+w+2*labelPad, b.Min.Y+h+2*labelPad).Intersect(b)
	draw.Draw(img, plate, image.NewUniform(color.NRGBA{0, 0, 0, 140}), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(b.Min.X+labelPad, b.Min.Y+labelPad+m.Ascent.Ceil()),
	}
	d.DrawString(text)
	return img
}

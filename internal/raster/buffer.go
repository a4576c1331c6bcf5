package raster

import (
	"image"
	"math"
)

// FrameBuffer holds the rendering target as flat slices for cache locality.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGBA interleaved, len = W*H*4
	ZBuf   []float64 // depth per pixel, len = W*H, initialized to -inf
}

// NewFrameBuffer allocates a zeroed color buffer and -inf z-buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	n := w * h
	zbuf := make([]float64, n)
	for i := range zbuf {
		zbuf[i] = math.Inf(-1)
	}
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, n*4),
		ZBuf:   zbuf,
	}
}

// Image copies the color buffer into a new NRGBA image.
func (fb *FrameBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)
	return img
}

// DepthTest reports whether depth z at pixel (x, y) is in front of what is
// already stored, and stores it if so.
func (fb *FrameBuffer) DepthTest(x, y int, z float64) bool {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return false
	}
	i := y*fb.Width + x
	if z <= fb.ZBuf[i] {
		return false
	}
	fb.ZBuf[i] = z
	return true
}

// SetPixel writes an opaque color at (x, y).
func (fb *FrameBuffer) SetPixel(x, y int, r, g, b uint8) {
	i := (y*fb.Width + x) * 4
	fb.Color[i] = r
	fb.Color[i+1] = g
	fb.Color[i+2] = b
	fb.Color[i+3] = 255
}

package raster

import (
	"math"

	"ssd-renderer/internal/mathutil"
)

// RasterizeTriangle fills one flat-colored triangle with z-buffering.
// px, py are screen coordinates and pz is depth, larger is nearer.
// Triangles with an out-of-range index or zero screen area are skipped.
func RasterizeTriangle(
	fb *FrameBuffer,
	px, py, pz []float64,
	vi [3]int,
	r, g, b uint8,
) {
	nv := len(px)
	for _, i := range vi {
		if i < 0 || i >= nv {
			return
		}
	}

	x0, y0, z0 := px[vi[0]], py[vi[0]], pz[vi[0]]
	x1, y1, z1 := px[vi[1]], py[vi[1]], pz[vi[1]]
	x2, y2, z2 := px[vi[2]], py[vi[2]], pz[vi[2]]

	// Bounding box
	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))

	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	// Precompute edge deltas
	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	// Pixel loop, sampled at pixel centers
	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}
			fb.ZBuf[zIdx] = z

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = r
			fb.Color[pxIdx+1] = g
			fb.Color[pxIdx+2] = b
			fb.Color[pxIdx+3] = 255
		}
	}
}

// RasterizeSphere draws a shaded sphere impostor centered at screen (cx, cy)
// with depth cz and radius rad in pixels. pxPerUnit converts the pixel
// radius back into depth units so the bulge intersects triangles correctly.
func RasterizeSphere(fb *FrameBuffer, cx, cy, cz, rad, pxPerUnit float64, base [3]uint8, lc *LightConfig) {
	if rad <= 0 || pxPerUnit <= 0 {
		return
	}
	minX := int(math.Floor(cx - rad))
	maxX := int(math.Ceil(cx + rad))
	minY := int(math.Floor(cy - rad))
	maxY := int(math.Ceil(cy + rad))
	r2 := rad * rad

	for sy := minY; sy <= maxY; sy++ {
		dy := float64(sy) + 0.5 - cy
		for sx := minX; sx <= maxX; sx++ {
			dx := float64(sx) + 0.5 - cx
			d2 := dx*dx + dy*dy
			if d2 > r2 {
				continue
			}
			h := math.Sqrt(r2 - d2)
			if !fb.DepthTest(sx, sy, cz+h/pxPerUnit) {
				continue
			}
			// view-space normal; screen y points down
			n := mathutil.Vec3{dx / rad, -dy / rad, h / rad}
			shade := lc.ComputeShade(n)
			r, g, b := lc.Shade(base, shade)
			fb.SetPixel(sx, sy, r, g, b)
		}
	}
}

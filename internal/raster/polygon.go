// Package raster renders annotation geometry into flat row-major pixel
// buffers: polygon rings via scanline fill, raster layers via dense RLE
// expansion.
package raster

import (
	"math"
	"sort"

	"segmask/pkg/geometry"
)

// RenderRings paints the union of the filled regions of each ring into
// buf with the given value. buf is a row-major height*width buffer.
// Rings are independent shapes sharing one paint value, not nested
// even-odd holes. Coordinates are clipped to the canvas before rounding,
// so rings straddling the boundary keep their visible portion.
func RenderRings(buf []uint16, height, width int, rings [][]geometry.Point2D, value uint16) {
	for _, ring := range rings {
		if len(ring) == 0 {
			continue
		}
		pts := geometry.ClipRing(ring, width, height)
		fillRing(buf, width, pts, value)
		strokeRing(buf, height, width, pts, value)
	}
}

// fillRing paints the interior of a closed ring using even-odd scanline
// parity. Edges crossing each scanline are paired left-to-right and the
// span between each pair is painted inclusive of both rounded endpoints.
func fillRing(buf []uint16, width int, pts []geometry.PointInt, value uint16) {
	if len(pts) < 3 {
		return
	}

	box := geometry.BoundingBoxInt(pts)
	xs := make([]float64, 0, 8)
	for y := box.Y; y <= box.Y+box.Height; y++ {
		xs = xs[:0]
		for i := range pts {
			p1 := pts[i]
			p2 := pts[(i+1)%len(pts)]
			if p1.Y == p2.Y {
				continue
			}
			lo, hi := p1.Y, p2.Y
			if lo > hi {
				lo, hi = hi, lo
			}
			// Half-open [lo, hi) so shared vertices count once.
			if y < lo || y >= hi {
				continue
			}
			t := float64(y-p1.Y) / float64(p2.Y-p1.Y)
			xs = append(xs, float64(p1.X)+t*float64(p2.X-p1.X))
		}

		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			x0 := int(math.Ceil(xs[i]))
			x1 := int(math.Floor(xs[i+1]))
			for x := x0; x <= x1; x++ {
				buf[y*width+x] = value
			}
		}
	}
}

// strokeRing paints every boundary edge of the ring so thin or degenerate
// shapes still leave their outline, matching the fill-then-stroke
// behavior of the encoding side.
func strokeRing(buf []uint16, height, width int, pts []geometry.PointInt, value uint16) {
	for i := range pts {
		p1 := pts[i]
		p2 := pts[(i+1)%len(pts)]
		drawLine(buf, height, width, p1.X, p1.Y, p2.X, p2.Y, value)
	}
}

// drawLine paints a line into buf using Bresenham's algorithm.
func drawLine(buf []uint16, height, width, x1, y1, x2, y2 int, value uint16) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		if x1 >= 0 && x1 < width && y1 >= 0 && y1 < height {
			buf[y1*width+x1] = value
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

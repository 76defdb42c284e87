package geometry

import "math"

// ClipRing clips a polygon ring to the canvas [0,width-1] x [0,height-1]
// and rounds each coordinate to the nearest pixel. Points outside the
// canvas degenerate to the nearest edge rather than being dropped, so a
// ring straddling the boundary keeps its visible portion.
func ClipRing(ring []Point2D, width, height int) []PointInt {
	clipped := make([]PointInt, len(ring))
	for i, p := range ring {
		x := Clamp(p.X, 0, float64(width-1))
		y := Clamp(p.Y, 0, float64(height-1))
		clipped[i] = PointInt{X: int(math.Round(x)), Y: int(math.Round(y))}
	}
	return clipped
}

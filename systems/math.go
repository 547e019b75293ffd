package systems

import "math"

func distanceSq(ax, ay, bx, by float32) float32 {
	dx, dy := bx-ax, by-ay
	return dx*dx + dy*dy
}

func distance(ax, ay, bx, by float32) float32 {
	return float32(math.Hypot(float64(bx-ax), float64(by-ay)))
}

// normalize scales (x, y) to unit length. The zero vector stays zero.
func normalize(x, y float32) (float32, float32) {
	n := float32(math.Hypot(float64(x), float64(y)))
	if n == 0 {
		return 0, 0
	}
	return x / n, y / n
}

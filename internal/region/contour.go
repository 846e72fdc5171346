package region

import (
	"pbngen/internal/imaging"
	"pbngen/pkg/geometry"
)

// mooreOffsets enumerates the 8-neighborhood in clockwise order starting
// from the left neighbor (pixel coordinates, y grows downward).
var mooreOffsets = [8][2]int{
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
}

// traceContour walks the outer boundary of the pixels carrying the given
// label using Moore-neighbor tracing, starting at the label's
// topmost-leftmost pixel. Only the external boundary is traced; holes inside
// the region are ignored. The returned polygon is closed by convention: the
// last point connects back to the first.
func traceContour(labels *imaging.LabelMap, label int32, startX, startY int) []geometry.PointInt {
	at := func(p geometry.PointInt) bool {
		return labels.InBounds(p.X, p.Y) && labels.At(p.X, p.Y) == label
	}

	start := geometry.PointInt{X: startX, Y: startY}
	// The start pixel is topmost-leftmost, so its left neighbor is outside
	// the region; tracing conceptually entered from there.
	initialBack := geometry.PointInt{X: startX - 1, Y: startY}

	contour := []geometry.PointInt{start}
	cur := start
	back := initialBack

	// Safety cap: a boundary can visit a pixel at most a handful of times
	// (1-pixel-wide necks are walked from both sides).
	maxSteps := 4 * (labels.W*labels.H + 8)

	for step := 0; step < maxSteps; step++ {
		// Scan the neighborhood clockwise starting just after the
		// backtrack position.
		backIdx := 0
		for i, d := range mooreOffsets {
			if cur.X+d[0] == back.X && cur.Y+d[1] == back.Y {
				backIdx = i
				break
			}
		}

		found := false
		var next geometry.PointInt
		for i := 1; i <= 8; i++ {
			d := mooreOffsets[(backIdx+i)%8]
			cand := geometry.PointInt{X: cur.X + d[0], Y: cur.Y + d[1]}
			if at(cand) {
				next = cand
				found = true
				break
			}
			// The last empty neighbor before the hit is the next
			// backtrack position.
			back = cand
		}
		if !found {
			break // isolated pixel; its contour is itself
		}

		// Jacob's stopping criterion: finished when the start pixel is
		// re-entered from the original backtrack position.
		if next == start && back == initialBack {
			break
		}

		cur = next
		contour = append(contour, cur)
	}

	return contour
}

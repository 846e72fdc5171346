package geometry

// SignedArea computes the signed area of a closed polygon using the shoelace
// formula. The result is positive for counter-clockwise winding and negative
// for clockwise winding (pixel coordinates, y grows downward).
func SignedArea(polygon []Point2D) float64 {
	if len(polygon) < 3 {
		return 0
	}

	sum := 0.0
	n := len(polygon)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += polygon[i].X*polygon[j].Y - polygon[j].X*polygon[i].Y
	}
	return sum / 2
}

// PolygonArea returns the absolute shoelace area of a closed polygon.
func PolygonArea(polygon []Point2D) float64 {
	a := SignedArea(polygon)
	if a < 0 {
		return -a
	}
	return a
}

// ContourArea returns the absolute shoelace area of a closed integer contour.
func ContourArea(contour []PointInt) float64 {
	if len(contour) < 3 {
		return 0
	}

	sum := 0.0
	n := len(contour)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += float64(contour[i].X*contour[j].Y - contour[j].X*contour[i].Y)
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 2
}

// PointInPolygon tests if a point is inside a polygon using ray casting.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}
	return inside
}

// BoundingBox computes the axis-aligned bounding box of an integer contour.
func BoundingBox(contour []PointInt) RectInt {
	if len(contour) == 0 {
		return RectInt{}
	}

	minX, minY := contour[0].X, contour[0].Y
	maxX, maxY := minX, minY
	for _, p := range contour[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return RectInt{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1}
}

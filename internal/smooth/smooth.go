// Package smooth converts a region's raw traced contour into a smooth closed
// curve: Douglas-Peucker simplification to shed the pixel staircase, then a
// closed Catmull-Rom spline emitted as cubic Bézier segments.
package smooth

import (
	"math"

	"pbngen/pkg/geometry"
)

// CubicSegment is one cubic Bézier span of a closed curve. P0 and P1 are
// on-curve points; C1 and C2 are control points.
type CubicSegment struct {
	P0 geometry.Point2D `json:"p0"`
	C1 geometry.Point2D `json:"c1"`
	C2 geometry.Point2D `json:"c2"`
	P1 geometry.Point2D `json:"p1"`
}

// Options configures contour smoothing.
type Options struct {
	Tolerance  float64 // Max perpendicular deviation allowed by simplification
	Alpha      float64 // Catmull-Rom tension; 0.5 is the centripetal spline
	MaxSpacing float64 // Edges longer than this are subdivided before spline fitting
}

// DefaultOptions returns the smoothing settings used by the presets.
func DefaultOptions() Options {
	return Options{
		Tolerance:  1.5,
		Alpha:      0.5,
		MaxSpacing: 0, // derived from Tolerance
	}
}

// Contour simplifies and smooths a closed integer contour. Degenerate
// polygons (< 3 points after simplification) fall back to straight edges.
//
// Simplified edges longer than MaxSpacing are subdivided before the spline
// pass. A Catmull-Rom span bows away from its chord in proportion to the
// chord length, so without the subdivision a long straight edge would bulge
// far past the simplification tolerance; with it, the curve stays within
// roughly Tolerance of the simplified polygon everywhere.
func Contour(contour []geometry.PointInt, opts Options) []CubicSegment {
	poly := make([]geometry.Point2D, len(contour))
	for i, p := range contour {
		poly[i] = p.ToFloat()
	}

	simplified := SimplifyClosed(poly, opts.Tolerance)
	if len(simplified) < 3 {
		return straightSegments(simplified)
	}

	spacing := opts.MaxSpacing
	if spacing <= 0 {
		spacing = 8 * opts.Tolerance
		if spacing < 4 {
			spacing = 4
		}
	}
	return CatmullRom(subdivideEdges(simplified, spacing), opts.Alpha)
}

// subdivideEdges splits every polygon edge longer than spacing into equal
// parts, keeping the original vertices.
func subdivideEdges(polygon []geometry.Point2D, spacing float64) []geometry.Point2D {
	n := len(polygon)
	out := make([]geometry.Point2D, 0, n)
	for i := 0; i < n; i++ {
		a := polygon[i]
		b := polygon[(i+1)%n]
		out = append(out, a)

		length := a.Distance(b)
		if length <= spacing {
			continue
		}
		parts := int(math.Ceil(length / spacing))
		step := b.Sub(a).Scale(1 / float64(parts))
		for s := 1; s < parts; s++ {
			out = append(out, a.Add(step.Scale(float64(s))))
		}
	}
	return out
}

// SimplifyClosed runs Douglas-Peucker on a closed polygon. The polygon is
// anchored at vertex 0 and the vertex farthest from it, and each open half is
// simplified independently; that keeps the result closed without either
// anchor drifting.
func SimplifyClosed(polygon []geometry.Point2D, tolerance float64) []geometry.Point2D {
	if len(polygon) < 3 || tolerance <= 0 {
		return polygon
	}

	far := 0
	farDist := -1.0
	for i, p := range polygon {
		if d := polygon[0].Distance(p); d > farDist {
			farDist = d
			far = i
		}
	}
	if far == 0 {
		// All points coincide.
		return polygon[:1]
	}

	firstHalf := simplifyOpen(polygon[:far+1], tolerance)

	wrap := make([]geometry.Point2D, 0, len(polygon)-far+1)
	wrap = append(wrap, polygon[far:]...)
	wrap = append(wrap, polygon[0])
	secondHalf := simplifyOpen(wrap, tolerance)

	// Join, dropping the duplicated anchors.
	out := make([]geometry.Point2D, 0, len(firstHalf)+len(secondHalf)-2)
	out = append(out, firstHalf...)
	out = append(out, secondHalf[1:len(secondHalf)-1]...)
	return out
}

// simplifyOpen is the recursive Douglas-Peucker pass on an open polyline:
// points whose perpendicular distance from the chord between their neighbors'
// endpoints stays below tolerance are dropped.
func simplifyOpen(path []geometry.Point2D, tolerance float64) []geometry.Point2D {
	if len(path) <= 2 {
		return path
	}

	dmax := 0.0
	index := 0
	end := len(path) - 1
	for i := 1; i < end; i++ {
		d := perpendicularDistance(path[i], path[0], path[end])
		if d > dmax {
			dmax = d
			index = i
		}
	}

	if dmax > tolerance {
		left := simplifyOpen(path[:index+1], tolerance)
		right := simplifyOpen(path[index:], tolerance)

		result := make([]geometry.Point2D, 0, len(left)+len(right)-1)
		result = append(result, left[:len(left)-1]...)
		result = append(result, right...)
		return result
	}

	return []geometry.Point2D{path[0], path[end]}
}

// perpendicularDistance calculates the perpendicular distance from point p to
// the line through a and b.
func perpendicularDistance(p, a, b geometry.Point2D) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y

	if dx == 0 && dy == 0 {
		return p.Distance(a)
	}

	num := math.Abs(dy*p.X - dx*p.Y + b.X*a.Y - b.Y*a.X)
	den := math.Sqrt(dx*dx + dy*dy)
	return num / den
}

// CatmullRom interprets the closed polygon as a Catmull-Rom spline with
// wrap-around neighbor indexing and converts each span to a cubic Bézier.
// Alpha 0.5 gives the centripetal parameterization, which does not form
// cusps or self-intersections between vertices.
func CatmullRom(polygon []geometry.Point2D, alpha float64) []CubicSegment {
	n := len(polygon)
	if n < 3 {
		return straightSegments(polygon)
	}

	segments := make([]CubicSegment, 0, n)
	for i := 0; i < n; i++ {
		p0 := polygon[(i-1+n)%n]
		p1 := polygon[i]
		p2 := polygon[(i+1)%n]
		p3 := polygon[(i+2)%n]
		segments = append(segments, catmullRomSegment(p0, p1, p2, p3, alpha))
	}
	return segments
}

// catmullRomSegment converts the span p1..p2 of the spline through p0..p3
// into a cubic Bézier using the chord-length powers d^alpha as knot spacing.
func catmullRomSegment(p0, p1, p2, p3 geometry.Point2D, alpha float64) CubicSegment {
	d1 := math.Pow(p0.Distance(p1), alpha)
	d2 := math.Pow(p1.Distance(p2), alpha)
	d3 := math.Pow(p2.Distance(p3), alpha)

	// Coincident neighbors collapse the tangent; fall back to a chord.
	const eps = 1e-9
	if d2 < eps {
		return lineSegment(p1, p2)
	}
	if d1 < eps {
		d1 = d2
		p0 = p1
	}
	if d3 < eps {
		d3 = d2
		p3 = p2
	}

	d1sq := d1 * d1
	d2sq := d2 * d2
	d3sq := d3 * d3

	c1 := geometry.Point2D{
		X: (d1sq*p2.X - d2sq*p0.X + (2*d1sq+3*d1*d2+d2sq)*p1.X) / (3 * d1 * (d1 + d2)),
		Y: (d1sq*p2.Y - d2sq*p0.Y + (2*d1sq+3*d1*d2+d2sq)*p1.Y) / (3 * d1 * (d1 + d2)),
	}
	c2 := geometry.Point2D{
		X: (d3sq*p1.X - d2sq*p3.X + (2*d3sq+3*d3*d2+d2sq)*p2.X) / (3 * d3 * (d3 + d2)),
		Y: (d3sq*p1.Y - d2sq*p3.Y + (2*d3sq+3*d3*d2+d2sq)*p2.Y) / (3 * d3 * (d3 + d2)),
	}

	return CubicSegment{P0: p1, C1: c1, C2: c2, P1: p2}
}

// straightSegments renders a degenerate polygon as a straight-edged closed
// path.
func straightSegments(polygon []geometry.Point2D) []CubicSegment {
	n := len(polygon)
	if n < 2 {
		return nil
	}

	segments := make([]CubicSegment, 0, n)
	for i := 0; i < n; i++ {
		segments = append(segments, lineSegment(polygon[i], polygon[(i+1)%n]))
	}
	return segments
}

// lineSegment builds a cubic that degenerates to the straight line a-b.
func lineSegment(a, b geometry.Point2D) CubicSegment {
	third := b.Sub(a).Scale(1.0 / 3.0)
	return CubicSegment{
		P0: a,
		C1: a.Add(third),
		C2: a.Add(third.Scale(2)),
		P1: b,
	}
}

// Flatten samples each Bézier segment into steps line segments and returns
// the resulting closed polygon.
func Flatten(segments []CubicSegment, steps int) []geometry.Point2D {
	if steps < 1 {
		steps = 1
	}

	points := make([]geometry.Point2D, 0, len(segments)*steps)
	for _, seg := range segments {
		for s := 0; s < steps; s++ {
			t := float64(s) / float64(steps)
			points = append(points, bezierPoint(seg, t))
		}
	}
	return points
}

// CurveArea returns the enclosed area of a closed curve by flattening it and
// applying the shoelace formula.
func CurveArea(segments []CubicSegment) float64 {
	return geometry.PolygonArea(Flatten(segments, 16))
}

// bezierPoint evaluates a cubic Bézier at parameter t.
func bezierPoint(seg CubicSegment, t float64) geometry.Point2D {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return geometry.Point2D{
		X: a*seg.P0.X + b*seg.C1.X + c*seg.C2.X + d*seg.P1.X,
		Y: a*seg.P0.Y + b*seg.C1.Y + c*seg.C2.Y + d*seg.P1.Y,
	}
}

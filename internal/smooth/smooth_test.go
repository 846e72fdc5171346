package smooth

import (
	"math"
	"testing"

	"pbngen/pkg/geometry"
)

// rectPerimeter builds the clockwise pixel outline of a w x h block whose
// top-left pixel is (x0, y0), the way contour tracing would emit it.
func rectPerimeter(x0, y0, w, h int) []geometry.PointInt {
	var out []geometry.PointInt
	for x := x0; x < x0+w; x++ {
		out = append(out, geometry.PointInt{X: x, Y: y0})
	}
	for y := y0 + 1; y < y0+h; y++ {
		out = append(out, geometry.PointInt{X: x0 + w - 1, Y: y})
	}
	for x := x0 + w - 2; x >= x0; x-- {
		out = append(out, geometry.PointInt{X: x, Y: y0 + h - 1})
	}
	for y := y0 + h - 2; y > y0; y-- {
		out = append(out, geometry.PointInt{X: x0, Y: y})
	}
	return out
}

func toFloat(contour []geometry.PointInt) []geometry.Point2D {
	out := make([]geometry.Point2D, len(contour))
	for i, p := range contour {
		out[i] = p.ToFloat()
	}
	return out
}

func TestSimplifyClosedCollapsesCollinearRuns(t *testing.T) {
	poly := toFloat(rectPerimeter(0, 0, 40, 30))

	got := SimplifyClosed(poly, 1.5)
	if len(got) != 4 {
		t.Fatalf("simplified rectangle has %d points, want 4 corners", len(got))
	}

	corners := map[geometry.Point2D]bool{
		{X: 0, Y: 0}: true, {X: 39, Y: 0}: true,
		{X: 39, Y: 29}: true, {X: 0, Y: 29}: true,
	}
	for _, p := range got {
		if !corners[p] {
			t.Errorf("unexpected simplified point %+v", p)
		}
	}
}

func TestSimplifyClosedKeepsSignificantDeviation(t *testing.T) {
	// A triangle-shaped bump of height 5 on one edge must survive a 1.5
	// tolerance.
	poly := []geometry.Point2D{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 15, Y: -5}, {X: 20, Y: 0}, {X: 30, Y: 0},
		{X: 30, Y: 20}, {X: 0, Y: 20},
	}

	got := SimplifyClosed(poly, 1.5)
	found := false
	for _, p := range got {
		if p == (geometry.Point2D{X: 15, Y: -5}) {
			found = true
		}
	}
	if !found {
		t.Errorf("bump apex dropped by simplification, got %+v", got)
	}
}

func TestSimplifyClosedDoesNotMutateInput(t *testing.T) {
	poly := toFloat(rectPerimeter(0, 0, 10, 10))
	orig := make([]geometry.Point2D, len(poly))
	copy(orig, poly)

	SimplifyClosed(poly, 1.5)
	for i := range poly {
		if poly[i] != orig[i] {
			t.Fatalf("input polygon mutated at %d", i)
		}
	}
}

func TestContourSegmentsFormClosedChain(t *testing.T) {
	segments := Contour(rectPerimeter(0, 0, 50, 40), DefaultOptions())
	if len(segments) < 4 {
		t.Fatalf("got %d segments, want at least 4", len(segments))
	}

	for i, seg := range segments {
		next := segments[(i+1)%len(segments)]
		if seg.P1 != next.P0 {
			t.Fatalf("segment %d ends at %+v but next starts at %+v", i, seg.P1, next.P0)
		}
	}
}

func TestContourDegeneratePolygons(t *testing.T) {
	tests := []struct {
		name    string
		contour []geometry.PointInt
		want    int // segment count
	}{
		{"single point", []geometry.PointInt{{X: 3, Y: 3}}, 0},
		{"two points", []geometry.PointInt{{X: 0, Y: 0}, {X: 5, Y: 0}}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Contour(tt.contour, DefaultOptions())
			if len(got) != tt.want {
				t.Errorf("got %d segments, want %d", len(got), tt.want)
			}
		})
	}
}

func TestContourRectangleAreaRoundTrip(t *testing.T) {
	// Simplify + smooth on a solid rectangle's outline must reproduce its
	// pixel area within 2%. The outline encloses slightly less than the pixel
	// count (half-pixel rim) and corner rounding trims a little more; both
	// effects together must stay inside the tolerance.
	const w, h = 200, 200
	segments := Contour(rectPerimeter(10, 10, w, h), DefaultOptions())

	area := CurveArea(segments)
	pixels := float64(w * h)
	if rel := math.Abs(area-pixels) / pixels; rel > 0.02 {
		t.Errorf("curve area %v vs %v pixels: relative error %.3f > 0.02", area, pixels, rel)
	}
}

func TestContourStaysNearPolygon(t *testing.T) {
	// The smoothed curve must not bow away from long straight edges; every
	// flattened sample stays within a couple pixels of the rectangle.
	const w, h = 120, 80
	segments := Contour(rectPerimeter(0, 0, w, h), DefaultOptions())

	for _, p := range Flatten(segments, 8) {
		if p.X < -2 || p.X > w-1+2 || p.Y < -2 || p.Y > h-1+2 {
			t.Fatalf("curve point %+v strays outside the rectangle outline", p)
		}
	}
}

func TestCatmullRomInterpolatesVertices(t *testing.T) {
	poly := []geometry.Point2D{
		{X: 0, Y: 0}, {X: 10, Y: 2}, {X: 12, Y: 10}, {X: 3, Y: 8},
	}
	segments := CatmullRom(poly, 0.5)
	if len(segments) != len(poly) {
		t.Fatalf("got %d segments, want %d", len(segments), len(poly))
	}
	for i, seg := range segments {
		if seg.P0 != poly[i] {
			t.Errorf("segment %d starts at %+v, want vertex %+v", i, seg.P0, poly[i])
		}
		if seg.P1 != poly[(i+1)%len(poly)] {
			t.Errorf("segment %d ends at %+v, want vertex %+v", i, seg.P1, poly[(i+1)%len(poly)])
		}
	}
}

func TestCatmullRomCoincidentNeighbors(t *testing.T) {
	// Repeated vertices must not produce NaN control points.
	poly := []geometry.Point2D{
		{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10},
	}
	for _, seg := range CatmullRom(poly, 0.5) {
		for _, p := range []geometry.Point2D{seg.P0, seg.C1, seg.C2, seg.P1} {
			if math.IsNaN(p.X) || math.IsNaN(p.Y) {
				t.Fatalf("NaN control point in segment %+v", seg)
			}
		}
	}
}

func TestCurveArea(t *testing.T) {
	// A straight-edged unit square built from line segments has area 1.
	square := []geometry.Point2D{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
	}
	segments := straightSegments(square)
	if got := CurveArea(segments); math.Abs(got-1) > 1e-6 {
		t.Errorf("CurveArea() = %v, want 1", got)
	}
}

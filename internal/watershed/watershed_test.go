package watershed

import (
	"errors"
	"testing"

	"pbngen/internal/imaging"
)

func uniformBuffer(w, h int, r, g, b uint8) *imaging.PixelBuffer {
	buf := imaging.NewPixelBuffer(w, h)
	for off := 0; off < len(buf.Pix); off += 3 {
		buf.Pix[off] = r
		buf.Pix[off+1] = g
		buf.Pix[off+2] = b
	}
	return buf
}

func TestSegmentInputValidation(t *testing.T) {
	tests := []struct {
		name  string
		buf   *imaging.PixelBuffer
		seeds *imaging.LabelMap
		want  error
	}{
		{
			name:  "empty image",
			buf:   imaging.NewPixelBuffer(0, 0),
			seeds: imaging.NewLabelMap(0, 0),
			want:  ErrSegmentation,
		},
		{
			name:  "dimension mismatch",
			buf:   uniformBuffer(10, 10, 0, 0, 0),
			seeds: imaging.NewLabelMap(8, 10),
			want:  ErrSegmentation,
		},
		{
			name:  "no seeds",
			buf:   uniformBuffer(10, 10, 0, 0, 0),
			seeds: imaging.NewLabelMap(10, 10),
			want:  ErrNoMarkers,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Segment(tt.buf, tt.seeds)
			if !errors.Is(err, tt.want) {
				t.Errorf("Segment() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSegmentSingleSeedFloodsEverything(t *testing.T) {
	buf := uniformBuffer(12, 9, 100, 100, 100)
	seeds := imaging.NewLabelMap(12, 9)
	seeds.Set(6, 4, 1)

	labels, err := Segment(buf, seeds)
	if err != nil {
		t.Fatalf("Segment() error: %v", err)
	}

	for i, l := range labels.Labels {
		if l != 1 {
			t.Fatalf("pixel %d = %d, want region 1 (single flood, no boundary)", i, l)
		}
	}
}

func TestSegmentDoesNotModifySeeds(t *testing.T) {
	buf := uniformBuffer(8, 8, 50, 50, 50)
	seeds := imaging.NewLabelMap(8, 8)
	seeds.Set(4, 4, 1)

	if _, err := Segment(buf, seeds); err != nil {
		t.Fatalf("Segment() error: %v", err)
	}

	for i, l := range seeds.Labels {
		want := int32(0)
		if i == seeds.Index(4, 4) {
			want = 1
		}
		if l != want {
			t.Fatalf("seed map modified at %d: got %d, want %d", i, l, want)
		}
	}
}

func TestSegmentTwoSeedsFormBoundary(t *testing.T) {
	buf := uniformBuffer(15, 7, 200, 200, 200)
	seeds := imaging.NewLabelMap(15, 7)
	seeds.Set(2, 3, 1)
	seeds.Set(12, 3, 2)

	labels, err := Segment(buf, seeds)
	if err != nil {
		t.Fatalf("Segment() error: %v", err)
	}

	var count1, count2, countBoundary int
	for _, l := range labels.Labels {
		switch {
		case l == 1:
			count1++
		case l == 2:
			count2++
		case l == Boundary:
			countBoundary++
		default:
			t.Fatalf("unexpected label %d: every pixel must be a region or boundary", l)
		}
	}

	if count1 == 0 || count2 == 0 {
		t.Fatalf("both floods must survive, got %d and %d pixels", count1, count2)
	}
	if countBoundary == 0 {
		t.Fatal("colliding floods must leave a boundary line")
	}

	// Seeds keep their labels.
	if labels.At(2, 3) != 1 || labels.At(12, 3) != 2 {
		t.Error("seed pixels lost their region labels")
	}

	assertNoAdjacentRegions(t, labels)
}

func TestSegmentRespectsGradientRelief(t *testing.T) {
	// Left half dark, right half bright. Seeds sit inside each half; the
	// boundary must land on or next to the color edge at x=7/8, not drift
	// into the flat interiors.
	buf := imaging.NewPixelBuffer(16, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			v := uint8(30)
			if x >= 8 {
				v = 220
			}
			off := buf.Offset(x, y)
			buf.Pix[off] = v
			buf.Pix[off+1] = v
			buf.Pix[off+2] = v
		}
	}

	seeds := imaging.NewLabelMap(16, 8)
	seeds.Set(2, 4, 1)
	seeds.Set(13, 4, 2)

	labels, err := Segment(buf, seeds)
	if err != nil {
		t.Fatalf("Segment() error: %v", err)
	}

	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			l := labels.At(x, y)
			if x <= 5 && l != 1 {
				t.Fatalf("dark interior (%d,%d) = %d, want region 1", x, y, l)
			}
			if x >= 10 && l != 2 {
				t.Fatalf("bright interior (%d,%d) = %d, want region 2", x, y, l)
			}
		}
	}
	assertNoAdjacentRegions(t, labels)
}

// assertNoAdjacentRegions checks the core watershed invariant: two 4-adjacent
// pixels never carry different positive region labels; a boundary pixel
// always separates them.
func assertNoAdjacentRegions(t *testing.T, labels *imaging.LabelMap) {
	t.Helper()
	for y := 0; y < labels.H; y++ {
		for x := 0; x < labels.W; x++ {
			l := labels.At(x, y)
			if l <= 0 {
				continue
			}
			if x+1 < labels.W {
				if r := labels.At(x+1, y); r > 0 && r != l {
					t.Fatalf("regions %d and %d touch at (%d,%d)-(%d,%d)", l, r, x, y, x+1, y)
				}
			}
			if y+1 < labels.H {
				if d := labels.At(x, y+1); d > 0 && d != l {
					t.Fatalf("regions %d and %d touch at (%d,%d)-(%d,%d)", l, d, x, y, x, y+1)
				}
			}
		}
	}
}

package marker

import (
	"testing"

	"pbngen/internal/imaging"
)

func TestBuildParameterValidation(t *testing.T) {
	q := imaging.NewLabelMap(4, 4)

	tests := []struct {
		name       string
		colorCount int
		radius     int
	}{
		{"zero colors", 0, 2},
		{"negative colors", -1, 2},
		{"zero radius", 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Build(q, tt.colorCount, tt.radius); err == nil {
				t.Error("Build() expected error, got nil")
			}
		})
	}
}

func TestBuildSingleColor(t *testing.T) {
	q := imaging.NewLabelMap(20, 20) // all pixels color 0

	seeds, table, err := Build(q, 1, 3)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	// One component, one seed id, mapped to palette id 1.
	if len(table) != 1 {
		t.Fatalf("table size = %d, want 1", len(table))
	}
	if table[1] != 1 {
		t.Errorf("table[1] = %d, want palette id 1", table[1])
	}

	// The disk of radius 3 fits only away from the border, so the seed is a
	// shrunken version of the full frame, never touching it.
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			got := seeds.At(x, y)
			interior := x >= 3 && x <= 16 && y >= 3 && y <= 16
			if interior && got != 1 {
				t.Fatalf("interior pixel (%d,%d) = %d, want seed 1", x, y, got)
			}
			if !interior && got != 0 {
				t.Fatalf("border pixel (%d,%d) = %d, want unknown", x, y, got)
			}
		}
	}
}

func TestBuildSplitsDisconnectedBlobs(t *testing.T) {
	// Color 1 forms two squares separated by a band of color 0.
	q := imaging.NewLabelMap(30, 10)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			q.Set(x, y, 1)
		}
		for x := 20; x < 30; x++ {
			q.Set(x, y, 1)
		}
	}

	seeds, table, err := Build(q, 2, 1)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	left := seeds.At(5, 5)
	right := seeds.At(25, 5)
	if left == 0 || right == 0 {
		t.Fatalf("expected seeds in both blobs, got %d and %d", left, right)
	}
	if left == right {
		t.Error("disconnected blobs of the same color must get distinct seed ids")
	}
	if table[left] != 2 || table[right] != 2 {
		t.Errorf("both blob seeds must map to palette id 2, got %d and %d",
			table[left], table[right])
	}

	// The background band is its own color and seeds independently.
	mid := seeds.At(15, 5)
	if mid == 0 {
		t.Fatal("background band should produce a seed")
	}
	if table[mid] != 1 {
		t.Errorf("band seed maps to palette id %d, want 1", table[mid])
	}
}

func TestBuildErosionEliminatesThinFeatures(t *testing.T) {
	// A one-pixel diagonal of color 1 through a color 0 field. Even the
	// smallest disk removes it completely, so no seed carries palette id 2.
	q := imaging.NewLabelMap(20, 20)
	for i := 0; i < 20; i++ {
		q.Set(i, i, 1)
	}

	seeds, table, err := Build(q, 2, 1)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	for id, paletteID := range table {
		if paletteID == 2 {
			t.Errorf("seed %d maps to the eliminated thin color", id)
		}
	}

	// The diagonal pixels themselves must stay unknown.
	for i := 0; i < 20; i++ {
		if got := seeds.At(i, i); got != 0 {
			t.Errorf("diagonal pixel (%d,%d) = %d, want unknown", i, i, got)
		}
	}
}

func TestBuildSeedIDsAreGloballyUnique(t *testing.T) {
	// Left half color 0, right half color 1.
	q := imaging.NewLabelMap(20, 10)
	for y := 0; y < 10; y++ {
		for x := 10; x < 20; x++ {
			q.Set(x, y, 1)
		}
	}

	seeds, table, err := Build(q, 2, 1)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if len(table) != 2 {
		t.Fatalf("table size = %d, want 2", len(table))
	}

	// Ids are dense from 1 and map to distinct palette colors.
	if table[1] == table[2] {
		t.Error("seeds of different colors share a palette id")
	}
	seen := map[int32]bool{}
	for _, l := range seeds.Labels {
		if l != 0 {
			seen[l] = true
			if _, ok := table[l]; !ok {
				t.Fatalf("seed id %d missing from color table", l)
			}
		}
	}
	if len(seen) != 2 {
		t.Errorf("distinct seed ids in map = %d, want 2", len(seen))
	}
}

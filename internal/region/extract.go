// Package region turns a segmented label map into the final list of
// paint-by-numbers regions: filtered by size, traced into closed contours,
// and bound to their palette colors.
package region

import (
	"fmt"
	"sort"

	"pbngen/internal/imaging"
	"pbngen/internal/marker"
	"pbngen/internal/watershed"
	"pbngen/pkg/geometry"
)

// Region is one paintable area. Contour is the ordered closed polygon of the
// region's outer boundary in pixel coordinates; ColorID is the 1-based
// palette id. Centroid is the number placement anchor: the pixel-mass
// centroid, moved to the nearest region pixel when concavity puts it outside
// the contour. Regions are never mutated after creation.
type Region struct {
	ID       int32               `json:"id"`
	Contour  []geometry.PointInt `json:"contour"`
	Centroid geometry.Point2D    `json:"centroid"`
	Area     float64             `json:"area"`
	ColorID  int                 `json:"colorId"`
	Pixels   int                 `json:"pixels"`
}

// accumulator gathers per-label statistics in a single pass over the label
// map, bounding extraction to O(pixels) regardless of the region count.
type accumulator struct {
	count      int
	sumX, sumY float64
	startX     int
	startY     int
}

// Extract enumerates the positive labels of a segmented map, drops those
// below minSize pixels, and traces each survivor's outer contour. Dropped
// pixels are left unassigned, never merged into a neighbor. The color table
// built by the marker stage resolves each region's palette color; an
// unmapped label means the segmentation and marker stages disagree, which is
// fatal.
//
// An empty result is a valid outcome (for example when every candidate is
// under minSize); callers surface it as "no regions found", not as an error.
func Extract(labels *imaging.LabelMap, table marker.ColorTable, minSize int) ([]Region, error) {
	if minSize < 0 {
		minSize = 0
	}

	acc := make(map[int32]*accumulator)
	for y := 0; y < labels.H; y++ {
		for x := 0; x < labels.W; x++ {
			l := labels.At(x, y)
			if l <= 0 {
				continue // unknown or boundary sentinel
			}
			a := acc[l]
			if a == nil {
				// First visit in row-major order: the topmost-leftmost
				// pixel, which is where contour tracing starts.
				a = &accumulator{startX: x, startY: y}
				acc[l] = a
			}
			a.count++
			a.sumX += float64(x)
			a.sumY += float64(y)
		}
	}

	ids := make([]int32, 0, len(acc))
	for id := range acc {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	regions := make([]Region, 0, len(ids))
	for _, id := range ids {
		a := acc[id]
		if a.count < minSize {
			continue
		}

		colorID, ok := table[id]
		if !ok {
			return nil, fmt.Errorf("%w: label %d has no palette color", watershed.ErrSegmentation, id)
		}

		contour := traceContour(labels, id, a.startX, a.startY)
		regions = append(regions, Region{
			ID:       id,
			Contour:  contour,
			Centroid: geometry.Point2D{X: a.sumX / float64(a.count), Y: a.sumY / float64(a.count)},
			Area:     geometry.ContourArea(contour),
			ColorID:  colorID,
			Pixels:   a.count,
		})
	}

	anchorInside(labels, regions)
	return regions, nil
}

// anchorInside moves the centroid of concave regions to the nearest pixel of
// the region itself, so the painted number always lands inside the area it
// labels. Convex regions keep the exact mass centroid.
func anchorInside(labels *imaging.LabelMap, regions []Region) {
	// Index of regions whose centroid falls outside their contour.
	outside := make(map[int32]int)
	for i, r := range regions {
		if len(r.Contour) < 3 {
			continue
		}
		poly := make([]geometry.Point2D, len(r.Contour))
		for j, p := range r.Contour {
			poly[j] = p.ToFloat()
		}
		if !geometry.PointInPolygon(r.Centroid, poly) {
			outside[r.ID] = i
		}
	}
	if len(outside) == 0 {
		return
	}

	best := make(map[int32]float64, len(outside))
	anchor := make(map[int32]geometry.Point2D, len(outside))
	for y := 0; y < labels.H; y++ {
		for x := 0; x < labels.W; x++ {
			l := labels.At(x, y)
			i, ok := outside[l]
			if !ok {
				continue
			}
			p := geometry.Point2D{X: float64(x), Y: float64(y)}
			d := regions[i].Centroid.Sub(p)
			d2 := d.X*d.X + d.Y*d.Y
			if cur, seen := best[l]; !seen || d2 < cur {
				best[l] = d2
				anchor[l] = p
			}
		}
	}
	for id, i := range outside {
		if p, ok := anchor[id]; ok {
			regions[i].Centroid = p
		}
	}
}

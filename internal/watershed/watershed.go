// Package watershed grows regions from seed markers along a gradient relief.
// All floods advance simultaneously in order of increasing relief; where two
// fronts collide, the contested pixel becomes the boundary sentinel instead
// of joining either region. That collision rule is what yields exactly one
// single-pixel boundary line between adjacent regions.
package watershed

import (
	"container/heap"
	"errors"
	"fmt"
	"math"

	"pbngen/internal/imaging"
)

// Boundary is the label of pixels claimed by no region: a one-pixel-wide
// separator written only where two flood fronts meet.
const Boundary int32 = -1

var (
	// ErrNoMarkers is returned when the seed map contains no seeds. It is
	// fatal for the current image and aborts its pipeline run.
	ErrNoMarkers = errors.New("no markers to grow from")

	// ErrSegmentation indicates an internal consistency failure such as
	// mismatched map dimensions. Fatal for the current image.
	ErrSegmentation = errors.New("segmentation failure")
)

// Segment floods the seed markers across the pre-filtered image and returns
// the final label map: every pixel carries either a seed's region id (>= 1)
// or Boundary. The input seed map is not modified.
func Segment(buf *imaging.PixelBuffer, seeds *imaging.LabelMap) (*imaging.LabelMap, error) {
	if buf.Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrSegmentation)
	}
	if seeds.W != buf.W || seeds.H != buf.H {
		return nil, fmt.Errorf("%w: seed map %dx%d does not match image %dx%d",
			ErrSegmentation, seeds.W, seeds.H, buf.W, buf.H)
	}

	w, h := buf.W, buf.H
	relief := gradientRelief(buf)
	labels := seeds.Clone()

	queued := make([]bool, w*h)
	pq := &pixelQueue{}
	heap.Init(pq)
	seq := 0

	push := func(x, y int) {
		idx := y*w + x
		if queued[idx] || labels.Labels[idx] != 0 {
			return
		}
		queued[idx] = true
		heap.Push(pq, pixelItem{idx: idx, relief: relief[idx], seq: seq})
		seq++
	}

	// Seed the queue with every unknown pixel touching a marker.
	seeded := false
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if labels.At(x, y) <= 0 {
				continue
			}
			seeded = true
			if x > 0 {
				push(x-1, y)
			}
			if x < w-1 {
				push(x+1, y)
			}
			if y > 0 {
				push(x, y-1)
			}
			if y < h-1 {
				push(x, y+1)
			}
		}
	}
	if !seeded {
		return nil, ErrNoMarkers
	}

	for pq.Len() > 0 {
		item := heap.Pop(pq).(pixelItem)
		idx := item.idx
		if labels.Labels[idx] != 0 {
			continue
		}
		x, y := idx%w, idx/w

		// Collect the distinct region labels among 4-neighbors.
		var first int32
		collision := false
		visit := func(nx, ny int) {
			l := labels.At(nx, ny)
			if l <= 0 {
				return
			}
			if first == 0 {
				first = l
			} else if l != first {
				collision = true
			}
		}
		if x > 0 {
			visit(x-1, y)
		}
		if x < w-1 {
			visit(x+1, y)
		}
		if y > 0 {
			visit(x, y-1)
		}
		if y < h-1 {
			visit(x, y+1)
		}

		if collision {
			// Two fronts reached this pixel: it belongs to no region.
			labels.Labels[idx] = Boundary
			continue
		}
		if first == 0 {
			continue
		}

		labels.Labels[idx] = first
		if x > 0 {
			push(x-1, y)
		}
		if x < w-1 {
			push(x+1, y)
		}
		if y > 0 {
			push(x, y-1)
		}
		if y < h-1 {
			push(x, y+1)
		}
	}

	// Pixels cut off from every flood by boundary lines can remain unknown;
	// fold them into the boundary so downstream stages see only region ids
	// and the sentinel.
	for i, l := range labels.Labels {
		if l == 0 {
			labels.Labels[i] = Boundary
		}
	}

	return labels, nil
}

// gradientRelief computes a per-pixel gradient magnitude over the RGB image
// using central differences, taking the strongest channel response. Flood
// order follows this relief, so floods fill flat areas before climbing edges.
func gradientRelief(buf *imaging.PixelBuffer) []float64 {
	w, h := buf.W, buf.H
	relief := make([]float64, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var maxMag float64
			for ch := 0; ch < 3; ch++ {
				left := float64(buf.Pix[buf.Offset(clamp(x-1, w), y)+ch])
				right := float64(buf.Pix[buf.Offset(clamp(x+1, w), y)+ch])
				up := float64(buf.Pix[buf.Offset(x, clamp(y-1, h))+ch])
				down := float64(buf.Pix[buf.Offset(x, clamp(y+1, h))+ch])

				gx := (right - left) / 2
				gy := (down - up) / 2
				mag := math.Sqrt(gx*gx + gy*gy)
				if mag > maxMag {
					maxMag = mag
				}
			}
			relief[y*w+x] = maxMag
		}
	}
	return relief
}

func clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

// pixelItem orders flood candidates by relief, then by insertion sequence so
// equal-relief growth is first-in-first-out and fully deterministic.
type pixelItem struct {
	idx    int
	relief float64
	seq    int
}

type pixelQueue []pixelItem

func (q pixelQueue) Len() int { return len(q) }

func (q pixelQueue) Less(i, j int) bool {
	if q[i].relief != q[j].relief {
		return q[i].relief < q[j].relief
	}
	return q[i].seq < q[j].seq
}

func (q pixelQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *pixelQueue) Push(x any) { *q = append(*q, x.(pixelItem)) }

func (q *pixelQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

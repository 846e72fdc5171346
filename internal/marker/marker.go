// Package marker builds watershed seed markers from color connectivity: each
// eroded connected component of a quantized color becomes one uniquely
// numbered seed, so every seed (and therefore every final region) maps to
// exactly one palette color.
package marker

import (
	"fmt"

	"pbngen/internal/imaging"
)

// ColorTable maps a seed id to the 1-based palette id it originated from.
// It is built here and must be passed explicitly to the region extractor;
// it is never stashed as hidden state between stages.
type ColorTable map[int32]int

// Build constructs seed markers from a quantized label map (values in
// [0,colorCount)). For each color independently, the color's binary mask is
// eroded by a disk of the given radius and then labeled into 8-connected
// components; each component receives a globally unique seed id starting at 1.
// Unmarked pixels stay 0 ("unknown") for the watershed to resolve.
//
// Erosion can eliminate thin blobs entirely. Their pixels remain unknown and
// are later absorbed by whichever neighboring flood reaches them first; the
// thin feature is silently lost. That is an accepted trade-off of this
// seeding strategy, not an error.
func Build(quantized *imaging.LabelMap, colorCount, radius int) (*imaging.LabelMap, ColorTable, error) {
	if colorCount <= 0 {
		return nil, nil, fmt.Errorf("marker: color count %d out of range", colorCount)
	}
	if radius < 1 {
		return nil, nil, fmt.Errorf("marker: erosion radius %d out of range", radius)
	}

	w, h := quantized.W, quantized.H
	seeds := imaging.NewLabelMap(w, h)
	table := make(ColorTable)

	mask := make([]bool, w*h)
	eroded := make([]bool, w*h)
	disk := diskOffsets(radius)

	nextID := int32(1)
	for color := 0; color < colorCount; color++ {
		any := false
		for i, v := range quantized.Labels {
			in := v == int32(color)
			mask[i] = in
			any = any || in
		}
		if !any {
			continue
		}

		erodeDisk(mask, eroded, w, h, disk)
		nextID = labelComponents(eroded, seeds, w, h, nextID, color+1, table)
	}

	return seeds, table, nil
}

// diskOffsets precomputes the pixel offsets of a disk-shaped structuring
// element of the given radius.
func diskOffsets(radius int) [][2]int {
	var offs [][2]int
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				offs = append(offs, [2]int{dx, dy})
			}
		}
	}
	return offs
}

// erodeDisk writes into dst the erosion of mask by the disk: a pixel survives
// only if the whole disk around it fits inside the mask. Pixels near the
// image edge treat out-of-bounds samples as outside the mask, so blobs
// touching the border shrink away from it like any other boundary.
func erodeDisk(mask, dst []bool, w, h int, disk [][2]int) {
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if !mask[idx] {
				dst[idx] = false
				continue
			}
			keep := true
			for _, d := range disk {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h || !mask[ny*w+nx] {
					keep = false
					break
				}
			}
			dst[idx] = keep
		}
	}
}

// labelComponents runs 8-connected component labeling over the eroded mask,
// assigning ids from nextID upward and recording the id -> paletteID mapping.
// It returns the next unused id.
func labelComponents(eroded []bool, seeds *imaging.LabelMap, w, h int, nextID int32, paletteID int, table ColorTable) int32 {
	var stack []int
	for start := 0; start < len(eroded); start++ {
		if !eroded[start] || seeds.Labels[start] != 0 {
			continue
		}

		id := nextID
		nextID++
		table[id] = paletteID

		stack = append(stack[:0], start)
		seeds.Labels[start] = id
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			cx, cy := cur%w, cur/w

			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := cx+dx, cy+dy
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					nIdx := ny*w + nx
					if eroded[nIdx] && seeds.Labels[nIdx] == 0 {
						seeds.Labels[nIdx] = id
						stack = append(stack, nIdx)
					}
				}
			}
		}
	}
	return nextID
}

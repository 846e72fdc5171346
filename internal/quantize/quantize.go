// Package quantize reduces an image to a small perceptual color palette by
// clustering pixels in CIE Lab space.
package quantize

import (
	"errors"
	"fmt"
	"math/rand"

	"pbngen/internal/imaging"
	"pbngen/pkg/colorutil"
)

// ErrInvalidParameter indicates an unusable color count or an empty image.
// It is fatal; the caller must correct the input before retrying.
var ErrInvalidParameter = errors.New("invalid quantization parameter")

// PaletteEntry is one palette color. ID is the 1-based index referenced by
// regions; RGB is the average original color of the cluster's member pixels.
type PaletteEntry struct {
	ID   int    `json:"id"`
	R    uint8  `json:"r"`
	G    uint8  `json:"g"`
	B    uint8  `json:"b"`
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// Options configures the clustering run.
type Options struct {
	ColorCount    int     // K, number of palette colors
	MaxIterations int     // Per-attempt iteration cap
	Restarts      int     // Random restarts; the lowest-variance attempt wins
	Tolerance     float64 // Centroid movement below this counts as converged
	Seed          int64   // Clustering RNG seed; fixed seed => identical output
}

// DefaultOptions returns the clustering settings used by the presets.
func DefaultOptions() Options {
	return Options{
		ColorCount:    12,
		MaxIterations: 100,
		Restarts:      3,
		Tolerance:     1e-3,
		Seed:          1,
	}
}

// Result carries the per-pixel cluster index map and the palette built from
// it. Converged is false when every restart hit the iteration cap; that is a
// soft degradation, not an error.
type Result struct {
	Labels    *imaging.LabelMap // values in [0,K)
	Palette   []PaletteEntry
	Variance  float64 // total within-cluster variance of the winning attempt
	Converged bool
}

// Quantize clusters the buffer's pixels into opts.ColorCount colors.
//
// Pixels are converted to Lab so that squared Euclidean distance approximates
// perceived color difference. K-means runs with K-means++ seeding and
// opts.Restarts random restarts; the attempt with the lowest total
// within-cluster variance is kept. Palette colors are the average original
// RGB of each cluster's pixels, not back-converted centroids, so the palette
// stays faithful to the source image.
func Quantize(buf *imaging.PixelBuffer, opts Options) (*Result, error) {
	if opts.ColorCount <= 0 {
		return nil, fmt.Errorf("%w: color count %d", ErrInvalidParameter, opts.ColorCount)
	}
	if buf.Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidParameter)
	}

	k := opts.ColorCount
	n := buf.W * buf.H
	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = 100
	}
	restarts := opts.Restarts
	if restarts <= 0 {
		restarts = 1
	}

	features := labFeatures(buf)
	rng := rand.New(rand.NewSource(opts.Seed))

	var best attempt
	for i := 0; i < restarts; i++ {
		a := runKMeans(features, n, k, maxIter, opts.Tolerance, rng)
		if i == 0 || a.variance < best.variance {
			best = a
		}
	}

	labels := &imaging.LabelMap{W: buf.W, H: buf.H, Labels: best.labels}
	return &Result{
		Labels:    labels,
		Palette:   buildPalette(buf, best.labels, best.centroids, k),
		Variance:  best.variance,
		Converged: best.converged,
	}, nil
}

// labFeatures converts the buffer to a flat Lab feature vector, 3 values per
// pixel.
func labFeatures(buf *imaging.PixelBuffer) []float64 {
	features := make([]float64, buf.W*buf.H*3)
	i := 0
	for off := 0; off < len(buf.Pix); off += 3 {
		l, a, b := colorutil.Lab(buf.Pix[off], buf.Pix[off+1], buf.Pix[off+2])
		features[i] = l
		features[i+1] = a
		features[i+2] = b
		i += 3
	}
	return features
}

// buildPalette averages the original RGB of each cluster's member pixels.
// Empty clusters (possible on degenerate images) fall back to the centroid
// converted back from Lab, which keeps palette ids dense.
func buildPalette(buf *imaging.PixelBuffer, labels []int32, centroids []float64, k int) []PaletteEntry {
	sumR := make([]uint64, k)
	sumG := make([]uint64, k)
	sumB := make([]uint64, k)
	counts := make([]uint64, k)

	for i, label := range labels {
		off := i * 3
		sumR[label] += uint64(buf.Pix[off])
		sumG[label] += uint64(buf.Pix[off+1])
		sumB[label] += uint64(buf.Pix[off+2])
		counts[label]++
	}

	palette := make([]PaletteEntry, k)
	for c := 0; c < k; c++ {
		var r, g, b uint8
		if counts[c] > 0 {
			r = uint8(sumR[c] / counts[c])
			g = uint8(sumG[c] / counts[c])
			b = uint8(sumB[c] / counts[c])
		} else {
			r, g, b = colorutil.LabToRGB(centroids[c*3], centroids[c*3+1], centroids[c*3+2])
		}
		palette[c] = PaletteEntry{
			ID:   c + 1,
			R:    r,
			G:    g,
			B:    b,
			Name: colorutil.Name(r, g, b),
			Hex:  colorutil.Hex(r, g, b),
		}
	}
	return palette
}

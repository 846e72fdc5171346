// Package pipeline orchestrates the paint-by-numbers stages for one image:
// pre-filter, quantize, markers, watershed, region extraction, and contour
// smoothing. Stages run strictly in sequence, each fully consuming the
// previous stage's output; control returns to the caller only between stages
// through the progress observer.
package pipeline

import (
	"errors"
	"fmt"
	"image"

	"pbngen/internal/imaging"
	"pbngen/internal/marker"
	"pbngen/internal/preset"
	"pbngen/internal/quantize"
	"pbngen/internal/region"
	"pbngen/internal/smooth"
	"pbngen/internal/watershed"
)

// ErrInvalidParameter indicates options outside the supported ranges. The
// caller must correct the input; retrying unchanged cannot succeed.
var ErrInvalidParameter = errors.New("invalid pipeline parameter")

// Stage names reported to the progress observer and used to annotate errors.
const (
	StagePrefilter = "prefilter"
	StageQuantize  = "quantize"
	StageMarkers   = "markers"
	StageWatershed = "watershed"
	StageRegions   = "regions"
	StageSmooth    = "smooth"
)

var stageOrder = []string{
	StagePrefilter, StageQuantize, StageMarkers, StageWatershed, StageRegions, StageSmooth,
}

// ProgressFunc observes stage completion. It is called between stages only;
// no stage is interrupted mid-computation.
type ProgressFunc func(stage string, done, total int)

// Options configures one pipeline run.
type Options struct {
	ColorCount        int               // K, palette size, 6..16
	Complexity        preset.Complexity // Marker erosion level
	MinRegionSize     int               // Pixel count threshold, 50..500
	MaxDimension      int               // Longest-side resize cap; 0 disables
	Seed              int64             // Clustering RNG seed
	Restarts          int               // Clustering restarts
	SimplifyTolerance float64           // Contour simplification tolerance
	Prefilter         bool              // Apply the bilateral pre-filter
	Progress          ProgressFunc      // Optional observer
}

// DefaultOptions returns the "casual" preset as pipeline options.
func DefaultOptions() Options {
	p, _ := preset.Lookup("casual")
	return FromPreset(p)
}

// FromPreset expands a named preset into pipeline options.
func FromPreset(p preset.Preset) Options {
	return Options{
		ColorCount:        p.ColorCount,
		Complexity:        p.Complexity,
		MinRegionSize:     p.MinRegionSize,
		MaxDimension:      p.MaxDimension,
		Seed:              1,
		Restarts:          3,
		SimplifyTolerance: p.SimplifyTolerance,
		Prefilter:         true,
	}
}

// Validate checks the option ranges from the external contract.
func (o Options) Validate() error {
	if o.ColorCount < 6 || o.ColorCount > 16 {
		return fmt.Errorf("%w: color count %d outside [6,16]", ErrInvalidParameter, o.ColorCount)
	}
	if o.MinRegionSize < 50 || o.MinRegionSize > 500 {
		return fmt.Errorf("%w: min region size %d outside [50,500]", ErrInvalidParameter, o.MinRegionSize)
	}
	if o.Complexity < preset.Low || o.Complexity > preset.Extreme {
		return fmt.Errorf("%w: unknown complexity %d", ErrInvalidParameter, int(o.Complexity))
	}
	return nil
}

// Result is the pipeline output consumed by renderers and exporters. Every
// contour is a closed polygon in pixel coordinates; every ColorID indexes
// Palette 1-based. Labels is the final region map (region ids and the
// boundary sentinel), kept for raster previews.
type Result struct {
	Regions   []region.Region
	Curves    [][]smooth.CubicSegment // parallel to Regions
	Palette   []quantize.PaletteEntry
	Labels    *imaging.LabelMap
	Width     int
	Height    int
	Converged bool // false when clustering hit its iteration cap
}

// Run executes the full pipeline on a decoded image.
func Run(img image.Image, opts Options) (*Result, error) {
	return RunBuffer(imaging.FromImage(img), opts)
}

// RunBuffer executes the full pipeline on a captured pixel buffer.
//
// The marker color table travels by value from the marker stage to the
// region stage; the pipeline holds no cross-call state, so independent runs
// never interfere.
func RunBuffer(buf *imaging.PixelBuffer, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if buf.Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidParameter)
	}

	total := len(stageOrder)
	report := func(done int) {
		if opts.Progress != nil {
			opts.Progress(stageOrder[done-1], done, total)
		}
	}

	// Stage 1: pre-filter. Everything downstream, clustering included,
	// consumes the filtered buffer so the stages stay strictly forward.
	work := buf
	if opts.Prefilter || opts.MaxDimension > 0 {
		fopts := imaging.DefaultFilterOptions()
		fopts.MaxDimension = opts.MaxDimension
		if !opts.Prefilter {
			fopts.Diameter = 0
		}
		filtered, err := imaging.Prefilter(buf, fopts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", StagePrefilter, err)
		}
		work = filtered
	}
	report(1)

	// Stage 2: perceptual color quantization.
	qopts := quantize.DefaultOptions()
	qopts.ColorCount = opts.ColorCount
	qopts.Seed = opts.Seed
	if opts.Restarts > 0 {
		qopts.Restarts = opts.Restarts
	}
	quantized, err := quantize.Quantize(work, qopts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StageQuantize, err)
	}
	report(2)

	// Stage 3: color-connectivity seed markers.
	seeds, colors, err := marker.Build(quantized.Labels, opts.ColorCount, opts.Complexity.ErosionRadius())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StageMarkers, err)
	}
	report(3)

	// Stage 4: watershed flood growth.
	labels, err := watershed.Segment(work, seeds)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StageWatershed, err)
	}
	report(4)

	// Stage 5: region extraction. An empty list is a valid outcome.
	regions, err := region.Extract(labels, colors, opts.MinRegionSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StageRegions, err)
	}
	report(5)

	// Stage 6: contour smoothing.
	sopts := smooth.DefaultOptions()
	if opts.SimplifyTolerance > 0 {
		sopts.Tolerance = opts.SimplifyTolerance
	}
	curves := make([][]smooth.CubicSegment, len(regions))
	for i := range regions {
		curves[i] = smooth.Contour(regions[i].Contour, sopts)
	}
	report(6)

	return &Result{
		Regions:   regions,
		Curves:    curves,
		Palette:   quantized.Palette,
		Labels:    labels,
		Width:     work.W,
		Height:    work.H,
		Converged: quantized.Converged,
	}, nil
}

// Package render produces the downstream artifacts of a pipeline run: the
// vector template with smoothed outlines, number labels and the palette
// legend, and a flat-filled raster preview.
package render

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo/float"

	"pbngen/internal/pipeline"
	"pbngen/internal/smooth"
)

// SVGOptions configures template rendering.
type SVGOptions struct {
	StrokeWidth float64 // Outline stroke width in pixels
	ShowNumbers bool    // Draw the palette number at each region centroid
	Legend      bool    // Append the palette legend grid below the image
	FillRegions bool    // Fill regions with their palette color (solution view)
}

// DefaultSVGOptions returns the settings used for printable templates.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		StrokeWidth: 1.0,
		ShowNumbers: true,
		Legend:      true,
	}
}

// Legend layout constants, in pixels.
const (
	legendCellW   = 110.0
	legendCellH   = 44.0
	legendPadding = 12.0
)

// WriteSVG renders the result as an SVG document: one closed path per
// region, optional centroid numbers, and an optional legend grid mapping
// numbers to palette colors.
func WriteSVG(w io.Writer, res *pipeline.Result, opts SVGOptions) error {
	bw := bufio.NewWriter(w)
	canvas := svg.New(bw)

	width := float64(res.Width)
	height := float64(res.Height)
	legendH := 0.0
	cols := 0
	if opts.Legend && len(res.Palette) > 0 {
		cols = int(width / legendCellW)
		if cols < 1 {
			cols = 1
		}
		if cols > len(res.Palette) {
			cols = len(res.Palette)
		}
		rows := (len(res.Palette) + cols - 1) / cols
		legendH = float64(rows)*legendCellH + 2*legendPadding
	}

	canvas.Start(width, height+legendH)
	canvas.Rect(0, 0, width, height+legendH, "fill:white")

	for i, curve := range res.Curves {
		if len(curve) == 0 {
			continue
		}
		reg := res.Regions[i]

		style := fmt.Sprintf("fill:none;stroke:black;stroke-width:%.4g", opts.StrokeWidth)
		if opts.FillRegions {
			entry := res.Palette[reg.ColorID-1]
			style = fmt.Sprintf("fill:%s;stroke:black;stroke-width:%.4g", entry.Hex, opts.StrokeWidth)
		}
		canvas.Path(curvePathData(curve), style)
	}

	if opts.ShowNumbers {
		for _, reg := range res.Regions {
			size := numberFontSize(reg.Area)
			canvas.Text(reg.Centroid.X, reg.Centroid.Y+size/3, fmt.Sprintf("%d", reg.ColorID),
				fmt.Sprintf("font-family:sans-serif;font-size:%.4gpx;text-anchor:middle;fill:#555", size))
		}
	}

	if opts.Legend && cols > 0 {
		drawLegend(canvas, res, cols, height+legendPadding)
	}

	canvas.End()
	return bw.Flush()
}

// curvePathData builds an SVG path string from a closed Bézier chain.
func curvePathData(curve []smooth.CubicSegment) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "M%.2f,%.2f", curve[0].P0.X, curve[0].P0.Y)
	for _, seg := range curve {
		fmt.Fprintf(&sb, " C%.2f,%.2f %.2f,%.2f %.2f,%.2f",
			seg.C1.X, seg.C1.Y, seg.C2.X, seg.C2.Y, seg.P1.X, seg.P1.Y)
	}
	sb.WriteString(" Z")
	return sb.String()
}

// numberFontSize scales the centroid label with the region's area, clamped
// to stay legible without overflowing small regions.
func numberFontSize(area float64) float64 {
	size := math.Sqrt(area) / 3
	if size < 7 {
		size = 7
	}
	if size > 22 {
		size = 22
	}
	return size
}

// drawLegend lays the palette out as a grid of swatch cells with the number,
// name and hex string of each entry.
func drawLegend(canvas *svg.SVG, res *pipeline.Result, cols int, top float64) {
	for i, entry := range res.Palette {
		col := i % cols
		row := i / cols
		x := legendPadding + float64(col)*legendCellW
		y := top + float64(row)*legendCellH

		canvas.Rect(x, y, 30, 30, fmt.Sprintf("fill:%s;stroke:#888;stroke-width:0.5", entry.Hex))
		canvas.Text(x+15, y+20, fmt.Sprintf("%d", entry.ID),
			"font-family:sans-serif;font-size:12px;text-anchor:middle;fill:"+contrastColor(entry.R, entry.G, entry.B))
		canvas.Text(x+36, y+13, entry.Name, "font-family:sans-serif;font-size:10px;fill:#333")
		canvas.Text(x+36, y+26, entry.Hex, "font-family:sans-serif;font-size:9px;fill:#777")
	}
}

// contrastColor picks black or white for text over the given swatch color.
func contrastColor(r, g, b uint8) string {
	// Rec. 601 luma.
	luma := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
	if luma > 140 {
		return "black"
	}
	return "white"
}

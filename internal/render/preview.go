package render

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"pbngen/internal/pipeline"
	"pbngen/internal/watershed"
)

var (
	previewBoundary   = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	previewUnassigned = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Preview renders the solved template as a raster image: each surviving
// region filled flat with its palette color, boundary pixels dark, dropped
// pixels white, and the palette number stamped at each region centroid.
func Preview(res *pipeline.Result) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, res.Width, res.Height))

	// Labels of surviving regions only; dropped candidates stay unassigned.
	fill := make(map[int32]color.RGBA, len(res.Regions))
	for _, reg := range res.Regions {
		entry := res.Palette[reg.ColorID-1]
		fill[reg.ID] = color.RGBA{R: entry.R, G: entry.G, B: entry.B, A: 255}
	}

	for y := 0; y < res.Height; y++ {
		for x := 0; x < res.Width; x++ {
			l := res.Labels.At(x, y)
			switch {
			case l == watershed.Boundary:
				img.SetRGBA(x, y, previewBoundary)
			default:
				if c, ok := fill[l]; ok {
					img.SetRGBA(x, y, c)
				} else {
					img.SetRGBA(x, y, previewUnassigned)
				}
			}
		}
	}

	drawer := &font.Drawer{
		Dst:  img,
		Face: basicfont.Face7x13,
	}
	for _, reg := range res.Regions {
		label := fmt.Sprintf("%d", reg.ColorID)
		width := drawer.MeasureString(label)

		entry := res.Palette[reg.ColorID-1]
		if contrastColor(entry.R, entry.G, entry.B) == "black" {
			drawer.Src = image.NewUniform(color.Black)
		} else {
			drawer.Src = image.NewUniform(color.White)
		}
		drawer.Dot = fixed.Point26_6{
			X: fixed.I(int(reg.Centroid.X)) - width/2,
			Y: fixed.I(int(reg.Centroid.Y) + basicfont.Face7x13.Ascent/2),
		}
		drawer.DrawString(label)
	}

	return img
}

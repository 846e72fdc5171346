// Package colorutil provides shared color conversions and naming helpers.
package colorutil

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Lab converts an 8-bit sRGB triple to CIE Lab coordinates under the D65
// reference white. L is in [0,100], a and b roughly in [-128,128].
func Lab(r, g, b uint8) (float64, float64, float64) {
	c := colorful.Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
	l, a, bb := c.Lab()
	// go-colorful returns L in [0,1]; scale to the conventional [0,100] so
	// lightness and chroma carry comparable weight in clustering distance.
	return l * 100, a * 100, bb * 100
}

// LabToRGB converts Lab coordinates (L in [0,100]) back to an 8-bit sRGB
// triple, clamping out-of-gamut values.
func LabToRGB(l, a, b float64) (uint8, uint8, uint8) {
	c := colorful.Lab(l/100, a/100, b/100).Clamped()
	return c.RGB255()
}

// Hex formats an 8-bit RGB triple as a lowercase "#rrggbb" string.
func Hex(r, g, b uint8) string {
	c := colorful.Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
	return c.Hex()
}

// RGBToHSV converts RGB (0-255) to HSV with H in [0,360), S and V in [0,1].
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	r /= 255.0
	g /= 255.0
	b /= 255.0

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC

	v = maxC

	if maxC == 0 {
		s = 0
	} else {
		s = diff / maxC
	}

	if diff == 0 {
		h = 0
	} else if maxC == r {
		h = 60 * math.Mod((g-b)/diff, 6)
	} else if maxC == g {
		h = 60 * ((b-r)/diff + 2)
	} else {
		h = 60 * ((r-g)/diff + 4)
	}
	if h < 0 {
		h += 360
	}

	return h, s, v
}

// Name returns a coarse human-readable name for an RGB triple based on
// brightness and the dominant hue bucket. It is intentionally rough; palette
// legends only need enough to tell entries apart.
func Name(r, g, b uint8) string {
	h, s, v := RGBToHSV(float64(r), float64(g), float64(b))

	// Low saturation collapses to the gray axis.
	if s < 0.12 {
		switch {
		case v < 0.16:
			return "Black"
		case v < 0.45:
			return "Dark Gray"
		case v < 0.75:
			return "Gray"
		case v < 0.94:
			return "Light Gray"
		default:
			return "White"
		}
	}

	var base string
	switch {
	case h < 15 || h >= 345:
		base = "Red"
	case h < 40:
		base = "Orange"
	case h < 65:
		base = "Yellow"
	case h < 160:
		base = "Green"
	case h < 200:
		base = "Cyan"
	case h < 255:
		base = "Blue"
	case h < 290:
		base = "Purple"
	default:
		base = "Pink"
	}

	switch {
	case v < 0.35:
		return "Dark " + base
	case v > 0.85 && s < 0.45:
		return "Light " + base
	default:
		return base
	}
}

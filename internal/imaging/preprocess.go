package imaging

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// FilterOptions configures the pre-segmentation filter pass.
type FilterOptions struct {
	MaxDimension int     // Longest-side cap in pixels; 0 disables resizing
	Diameter     int     // Bilateral neighborhood diameter; 0 skips the filter
	SigmaColor   float64 // Bilateral filter color-space sigma
	SigmaSpace   float64 // Bilateral filter coordinate-space sigma
}

// DefaultFilterOptions returns the filter settings used by the standard
// pipeline presets.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{
		MaxDimension: 0,
		Diameter:     9,
		SigmaColor:   75,
		SigmaSpace:   75,
	}
}

// Prefilter resizes the buffer to fit opts.MaxDimension and applies a
// bilateral filter, which flattens texture noise while keeping region edges
// sharp. The input buffer is left untouched.
func Prefilter(buf *PixelBuffer, opts FilterOptions) (*PixelBuffer, error) {
	if buf.Empty() {
		return nil, fmt.Errorf("%w: empty buffer", ErrConversion)
	}

	src := bufferToMat(buf)
	defer src.Close()

	work := src
	if opts.MaxDimension > 0 && (buf.W > opts.MaxDimension || buf.H > opts.MaxDimension) {
		w, h := fitDimensions(buf.W, buf.H, opts.MaxDimension)
		resized := gocv.NewMat()
		gocv.Resize(src, &resized, image.Point{X: w, Y: h}, 0, 0, gocv.InterpolationArea)
		defer resized.Close()
		work = resized
	}

	if opts.Diameter <= 0 {
		return matToBuffer(work)
	}

	filtered := gocv.NewMat()
	defer filtered.Close()
	gocv.BilateralFilter(work, &filtered, opts.Diameter, opts.SigmaColor, opts.SigmaSpace)

	return matToBuffer(filtered)
}

// fitDimensions scales (w, h) so the longest side equals maxDim, keeping the
// aspect ratio and never returning zero.
func fitDimensions(w, h, maxDim int) (int, int) {
	if w >= h {
		nh := h * maxDim / w
		if nh < 1 {
			nh = 1
		}
		return maxDim, nh
	}
	nw := w * maxDim / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxDim
}

// bufferToMat converts a pixel buffer to a BGR Mat.
func bufferToMat(buf *PixelBuffer) gocv.Mat {
	mat := gocv.NewMatWithSize(buf.H, buf.W, gocv.MatTypeCV8UC3)
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			r, g, b := buf.RGBAt(x, y)
			mat.SetUCharAt(y, x*3+0, b)
			mat.SetUCharAt(y, x*3+1, g)
			mat.SetUCharAt(y, x*3+2, r)
		}
	}
	return mat
}

// matToBuffer converts a BGR Mat back to an RGB pixel buffer.
func matToBuffer(mat gocv.Mat) (*PixelBuffer, error) {
	if mat.Empty() {
		return nil, fmt.Errorf("%w: empty mat", ErrConversion)
	}
	h, w := mat.Rows(), mat.Cols()
	buf := NewPixelBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := buf.Offset(x, y)
			buf.Pix[off] = mat.GetUCharAt(y, x*3+2)
			buf.Pix[off+1] = mat.GetUCharAt(y, x*3+1)
			buf.Pix[off+2] = mat.GetUCharAt(y, x*3+0)
		}
	}
	return buf, nil
}

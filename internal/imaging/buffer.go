// Package imaging provides pixel buffers, label maps, image decoding, and the
// pre-filtering step that precedes segmentation.
package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrConversion indicates a channel or colorspace mismatch while building a
// pixel buffer. It is fatal for the affected run.
var ErrConversion = errors.New("pixel conversion failed")

// PixelBuffer is a width x height grid of 3-channel 8-bit RGB samples,
// interleaved in Pix (len = W*H*3). It is treated as immutable once a
// pipeline run has started.
type PixelBuffer struct {
	W, H int
	Pix  []uint8
}

// NewPixelBuffer allocates a zeroed w x h buffer.
func NewPixelBuffer(w, h int) *PixelBuffer {
	return &PixelBuffer{W: w, H: h, Pix: make([]uint8, w*h*3)}
}

// FromImage captures an image into a 3-channel buffer. Alpha channels are
// dropped; callers wanting compositing against a background must flatten
// before calling.
func FromImage(img image.Image) *PixelBuffer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	buf := NewPixelBuffer(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			off := buf.Offset(x, y)
			buf.Pix[off] = uint8(r >> 8)
			buf.Pix[off+1] = uint8(g >> 8)
			buf.Pix[off+2] = uint8(b >> 8)
		}
	}
	return buf
}

// FromRGB wraps a raw interleaved RGB slice. The slice length must be exactly
// w*h*3; 4-channel input must be converted by the caller first.
func FromRGB(w, h int, pix []uint8) (*PixelBuffer, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: bad dimensions %dx%d", ErrConversion, w, h)
	}
	if len(pix) != w*h*3 {
		return nil, fmt.Errorf("%w: got %d samples for %dx%d, want %d (3 channels)",
			ErrConversion, len(pix), w, h, w*h*3)
	}
	return &PixelBuffer{W: w, H: h, Pix: pix}, nil
}

// Empty reports whether the buffer has no pixels.
func (b *PixelBuffer) Empty() bool {
	return b == nil || b.W <= 0 || b.H <= 0 || len(b.Pix) == 0
}

// Offset returns the index of the R sample for pixel (x, y).
func (b *PixelBuffer) Offset(x, y int) int {
	return (y*b.W + x) * 3
}

// RGBAt returns the color at (x, y). The caller must keep coordinates in
// bounds.
func (b *PixelBuffer) RGBAt(x, y int) (uint8, uint8, uint8) {
	off := b.Offset(x, y)
	return b.Pix[off], b.Pix[off+1], b.Pix[off+2]
}

// ToImage renders the buffer as an opaque RGBA image.
func (b *PixelBuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.W, b.H))
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			r, g, bl := b.RGBAt(x, y)
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: bl, A: 255})
		}
	}
	return img
}

package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestFromRGB(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		pix     []uint8
		wantErr bool
	}{
		{"valid 2x2", 2, 2, make([]uint8, 12), false},
		{"short slice", 2, 2, make([]uint8, 11), true},
		{"four channel length", 2, 2, make([]uint8, 16), true},
		{"zero width", 0, 2, nil, true},
		{"negative height", 2, -1, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := FromRGB(tt.w, tt.h, tt.pix)
			if tt.wantErr {
				if err == nil {
					t.Fatal("FromRGB() expected error, got nil")
				}
				if !errors.Is(err, ErrConversion) {
					t.Errorf("FromRGB() error = %v, want ErrConversion", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromRGB() unexpected error: %v", err)
			}
			if buf.W != tt.w || buf.H != tt.h {
				t.Errorf("FromRGB() dims = %dx%d, want %dx%d", buf.W, buf.H, tt.w, tt.h)
			}
		})
	}
}

func TestFromImageDropsAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	buf := FromImage(img)
	if buf.W != 2 || buf.H != 1 {
		t.Fatalf("dims = %dx%d, want 2x1", buf.W, buf.H)
	}
	if len(buf.Pix) != 6 {
		t.Fatalf("len(Pix) = %d, want 6 (3 channels)", len(buf.Pix))
	}

	r, g, b := buf.RGBAt(0, 0)
	if r != 200 || g != 100 || b != 50 {
		t.Errorf("RGBAt(0,0) = (%d,%d,%d), want (200,100,50)", r, g, b)
	}
	r, g, b = buf.RGBAt(1, 0)
	if r != 10 || g != 20 || b != 30 {
		t.Errorf("RGBAt(1,0) = (%d,%d,%d), want (10,20,30)", r, g, b)
	}
}

func TestFromImageNonZeroOrigin(t *testing.T) {
	img := image.NewRGBA(image.Rect(5, 5, 7, 6))
	img.SetRGBA(5, 5, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	img.SetRGBA(6, 5, color.RGBA{R: 4, G: 5, B: 6, A: 255})

	buf := FromImage(img)
	if buf.W != 2 || buf.H != 1 {
		t.Fatalf("dims = %dx%d, want 2x1", buf.W, buf.H)
	}
	if r, _, _ := buf.RGBAt(0, 0); r != 1 {
		t.Errorf("origin pixel R = %d, want 1", r)
	}
}

func TestToImageRoundTrip(t *testing.T) {
	buf := NewPixelBuffer(3, 2)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			off := buf.Offset(x, y)
			buf.Pix[off] = uint8(x * 40)
			buf.Pix[off+1] = uint8(y * 80)
			buf.Pix[off+2] = uint8(x + y)
		}
	}

	img := buf.ToImage()
	back := FromImage(img)
	for i, v := range buf.Pix {
		if back.Pix[i] != v {
			t.Fatalf("Pix[%d] = %d after round trip, want %d", i, back.Pix[i], v)
		}
	}
}

func TestPixelBufferEmpty(t *testing.T) {
	var nilBuf *PixelBuffer
	if !nilBuf.Empty() {
		t.Error("nil buffer should be empty")
	}
	if !NewPixelBuffer(0, 0).Empty() {
		t.Error("0x0 buffer should be empty")
	}
	if NewPixelBuffer(1, 1).Empty() {
		t.Error("1x1 buffer should not be empty")
	}
}

func TestLabelMap(t *testing.T) {
	m := NewLabelMap(4, 3)
	m.Set(2, 1, 7)

	if got := m.At(2, 1); got != 7 {
		t.Errorf("At(2,1) = %d, want 7", got)
	}
	if got := m.Index(2, 1); got != 6 {
		t.Errorf("Index(2,1) = %d, want 6", got)
	}
	if !m.InBounds(3, 2) || m.InBounds(4, 0) || m.InBounds(0, -1) {
		t.Error("InBounds boundary checks failed")
	}

	c := m.Clone()
	c.Set(0, 0, 99)
	if m.At(0, 0) != 0 {
		t.Error("Clone() shares backing storage with original")
	}
	if c.At(2, 1) != 7 {
		t.Error("Clone() lost existing labels")
	}
}

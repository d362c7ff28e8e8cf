package raster

import (
	"bytes"
	"image/png"
	"math"
	"testing"
)

func TestEncodePNGDecodableByStdlib(t *testing.T) {
	im := NewImage(13, 7)
	im.AddPixel(0, 0, RGB{R: 1}, 1)
	im.AddPixel(12, 6, RGB{G: 0.5, B: 0.25}, 1)

	data, err := EncodePNG(im)
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("stdlib decode: %v", err)
	}
	bounds := decoded.Bounds()
	if bounds.Dx() != 13 || bounds.Dy() != 7 {
		t.Errorf("decoded size = %dx%d, want 13x7", bounds.Dx(), bounds.Dy())
	}
	r, _, _, _ := decoded.At(0, 0).RGBA()
	if r != 0xffff {
		t.Errorf("decoded (0,0) red = %#x, want 0xffff", r)
	}
}

func TestEncodePNGClampsRange(t *testing.T) {
	im := NewImage(2, 1)
	im.AddPixel(0, 0, RGB{R: 3, G: -1, B: 0}, 1)
	data, err := EncodePNG(im)
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("stdlib decode: %v", err)
	}
	r, g, _, _ := decoded.At(0, 0).RGBA()
	if r != 0xffff {
		t.Errorf("over-range red = %#x, want 0xffff", r)
	}
	if g != 0 {
		t.Errorf("under-range green = %#x, want 0", g)
	}
}

func TestPNGRoundTrip(t *testing.T) {
	im := NewImage(9, 5)
	for y := 0; y < 5; y++ {
		for x := 0; x < 9; x++ {
			v := float32(x+y*9) / 44
			im.AddPixel(x, y, RGB{R: v, G: 1 - v, B: 0.5}, 1)
		}
	}
	data, err := EncodePNG(im)
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	back, err := DecodePNG(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodePNG: %v", err)
	}
	if back.Width() != 9 || back.Height() != 5 {
		t.Fatalf("round-trip size = %dx%d, want 9x5", back.Width(), back.Height())
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 9; x++ {
			want := im.At(x, y)
			got := back.At(x, y)
			// 8-bit quantization allows half a step of error.
			if math.Abs(float64(got.R-want.R)) > 1.0/255 ||
				math.Abs(float64(got.G-want.G)) > 1.0/255 ||
				math.Abs(float64(got.B-want.B)) > 1.0/255 {
				t.Fatalf("round-trip At(%d,%d) = %v, want ~%v", x, y, got, want)
			}
		}
	}
}

package raster

import (
	"math"
	"testing"
)

func TestGaussianBlurSpreadsEnergy(t *testing.T) {
	im := NewImage(31, 31)
	im.AddPixel(15, 15, RGB{R: 1}, 1)
	out := GaussianBlur(im, 2)

	if out.At(15, 15).R >= 1 {
		t.Errorf("center after blur = %v, want < 1", out.At(15, 15).R)
	}
	if out.At(15, 17).R <= 0 {
		t.Errorf("neighbor after blur = %v, want > 0", out.At(15, 17).R)
	}
	// Interior impulse: energy is preserved up to kernel truncation.
	if math.Abs(out.Sum()-1) > 1e-3 {
		t.Errorf("blurred Sum() = %v, want ~1", out.Sum())
	}
}

func TestGaussianBlurSymmetric(t *testing.T) {
	im := NewImage(21, 21)
	im.AddPixel(10, 10, RGB{G: 1}, 1)
	out := GaussianBlur(im, 1.5)
	pairs := [][4]int{
		{10 - 3, 10, 10 + 3, 10},
		{10, 10 - 3, 10, 10 + 3},
		{10 - 2, 10, 10, 10 - 2},
	}
	for _, p := range pairs {
		a := out.At(p[0], p[1]).G
		b := out.At(p[2], p[3]).G
		if math.Abs(float64(a-b)) > 1e-6 {
			t.Errorf("blur asymmetric: At(%d,%d)=%v vs At(%d,%d)=%v", p[0], p[1], a, p[2], p[3], b)
		}
	}
}

func TestGaussianBlurZeroSigmaCopies(t *testing.T) {
	im := NewImage(5, 5)
	im.AddPixel(2, 2, RGB{B: 1}, 1)
	out := GaussianBlur(im, 0)
	if out.At(2, 2).B != 1 {
		t.Errorf("zero-sigma blur changed the image: %v", out.At(2, 2).B)
	}
	out.AddPixel(2, 2, RGB{B: 1}, 1)
	if im.At(2, 2).B != 1 {
		t.Errorf("zero-sigma blur aliased the source")
	}
}

func TestHorizontalGaussianBlurLeavesColumnsAlone(t *testing.T) {
	im := NewImage(31, 31)
	im.AddPixel(15, 15, RGB{R: 1}, 1)
	out := HorizontalGaussianBlur(im, 3)

	if out.At(18, 15).R <= 0 {
		t.Errorf("same-row neighbor = %v, want > 0", out.At(18, 15).R)
	}
	if out.At(15, 18).R != 0 {
		t.Errorf("same-column neighbor = %v, want 0", out.At(15, 18).R)
	}
}

func TestGaussianBlurIndependentOfCacheHistory(t *testing.T) {
	src := NewImage(32, 32)
	src.AddGaussian(16, 16, 2, 3, RGB{R: 1, G: 0.7, B: 0.4})

	ResetKernelCache()
	fresh := GaussianBlur(src, 3.0001)

	// Warm the same quantization bucket with a different sigma first.
	ResetKernelCache()
	GaussianBlur(src, 3.0099)
	warmed := GaussianBlur(src, 3.0001)

	fp, wp := fresh.Pix(), warmed.Pix()
	for i := range fp {
		if fp[i] != wp[i] {
			t.Fatalf("pixel %d: blur(3.0001) depends on cache history (%v vs %v)", i, wp[i], fp[i])
		}
	}
}

func TestGaussianBlurMatchesBetweenRuns(t *testing.T) {
	im := NewImage(64, 48)
	im.AddGaussian(20, 20, 3, 1, RGB{R: 1, G: 0.5, B: 0.25})
	im.AddGaussian(40, 30, 1.5, 0.8, RGB{R: 0.3, G: 0.9, B: 0.1})

	a := GaussianBlur(im, 2.5)
	b := GaussianBlur(im, 2.5)
	pa, pb := a.Pix(), b.Pix()
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("pixel %d differs between identical blurs: %v vs %v", i, pa[i], pb[i])
		}
	}
}

package starchart

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/gogpu/starchart/internal/raster"
)

func TestMeanAbsDiffIdentical(t *testing.T) {
	im := raster.NewImage(8, 8)
	im.AddPixel(3, 3, raster.RGB{R: 0.5, G: 0.25, B: 1}, 1)
	diff, err := MeanAbsDiff(im, im.Clone())
	if err != nil {
		t.Fatalf("MeanAbsDiff: %v", err)
	}
	if diff != 0 {
		t.Errorf("diff of identical images = %v, want 0", diff)
	}
}

func TestMeanAbsDiffValue(t *testing.T) {
	a := raster.NewImage(2, 1)
	b := raster.NewImage(2, 1)
	b.AddPixel(0, 0, raster.RGB{R: 0.6}, 1)
	diff, err := MeanAbsDiff(a, b)
	if err != nil {
		t.Fatalf("MeanAbsDiff: %v", err)
	}
	want := 0.6 / 6 // one channel of six differs
	if math.Abs(diff-want) > 1e-6 {
		t.Errorf("diff = %v, want %v", diff, want)
	}
}

func TestMeanAbsDiffSizeMismatch(t *testing.T) {
	if _, err := MeanAbsDiff(raster.NewImage(2, 2), raster.NewImage(3, 2)); err == nil {
		t.Errorf("size mismatch accepted")
	}
}

func TestSaveAndLoadPNG(t *testing.T) {
	im := raster.NewImage(6, 4)
	im.AddPixel(1, 1, raster.RGB{R: 1, G: 0.5, B: 0.25}, 1)
	im.Clamp(0, 1)
	result := &RenderResult{Image: im}

	path := filepath.Join(t.TempDir(), "chart.png")
	if err := result.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	back, err := LoadPNG(path)
	if err != nil {
		t.Fatalf("LoadPNG: %v", err)
	}
	if back.Width() != 6 || back.Height() != 4 {
		t.Fatalf("loaded size = %dx%d, want 6x4", back.Width(), back.Height())
	}
	diff, err := MeanAbsDiff(im, back)
	if err != nil {
		t.Fatalf("MeanAbsDiff: %v", err)
	}
	if diff > 1.0/255 {
		t.Errorf("save/load mean difference = %v, want <= 1/255", diff)
	}
}

func TestLoadPNGMissingFile(t *testing.T) {
	if _, err := LoadPNG(filepath.Join(t.TempDir(), "absent.png")); err == nil {
		t.Errorf("LoadPNG of a missing file succeeded")
	}
}

package starchart

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/gogpu/starchart/internal/raster"
)

// DecodePNG decodes PNG data into a float buffer with channels scaled to
// [0, 1].
func DecodePNG(data []byte) (*Image, error) {
	im, err := raster.DecodePNG(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("starchart: decode png: %w", err)
	}
	return im, nil
}

// LoadPNG reads and decodes a PNG file.
func LoadPNG(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("starchart: read %s: %w", path, err)
	}
	im, err := DecodePNG(data)
	if err != nil {
		return nil, fmt.Errorf("starchart: %s: %w", path, err)
	}
	return im, nil
}

// MeanAbsDiff returns the mean absolute per-channel difference between
// two equal-sized images, in [0, 1] for display images. Used to verify
// renders against stored goldens.
func MeanAbsDiff(a, b *Image) (float64, error) {
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return 0, fmt.Errorf("starchart: size mismatch %dx%d vs %dx%d",
			a.Width(), a.Height(), b.Width(), b.Height())
	}
	pa, pb := a.Pix(), b.Pix()
	if len(pa) == 0 {
		return 0, nil
	}
	sum := 0.0
	for i := range pa {
		sum += math.Abs(float64(pa[i]) - float64(pb[i]))
	}
	return sum / float64(len(pa)), nil
}

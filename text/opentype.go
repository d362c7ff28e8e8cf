package text

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// OpenTypeFace is a Face backed by a TTF/OTF font at a fixed pixel size.
// Glyph masks are rasterized once per rune with golang.org/x/image's
// font machinery and memoized.
//
// OpenTypeFace is safe for concurrent use; the underlying font.Face is
// not, so rasterization is serialized behind a mutex.
type OpenTypeFace struct {
	data   []byte
	parsed *opentype.Font
	size   float64

	mu       sync.Mutex
	face     font.Face
	advances map[rune]float64
	masks    map[rune]Mask
}

// NewOpenTypeFace parses TTF or OTF font data and returns a face at the
// given pixel size. The data slice is copied.
func NewOpenTypeFace(data []byte, sizePx float64) (*OpenTypeFace, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("text: create face: %w", err)
	}
	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)
	return &OpenTypeFace{
		data:     dataCopy,
		parsed:   parsed,
		size:     sizePx,
		face:     face,
		advances: make(map[rune]float64),
		masks:    make(map[rune]Mask),
	}, nil
}

// LoadOpenTypeFace reads a font file and returns a face at the given
// pixel size.
func LoadOpenTypeFace(path string, sizePx float64) (*OpenTypeFace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("text: read font file: %w", err)
	}
	return NewOpenTypeFace(data, sizePx)
}

// Size returns the face's pixel size.
func (f *OpenTypeFace) Size() float64 { return f.size }

// Advance implements Face.
func (f *OpenTypeFace) Advance(r rune) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if adv, ok := f.advances[r]; ok {
		return adv
	}
	fixedAdv, ok := f.face.GlyphAdvance(r)
	if !ok {
		fixedAdv, _ = f.face.GlyphAdvance(' ')
	}
	adv := fixedToFloat(fixedAdv)
	f.advances[r] = adv
	return adv
}

// GlyphMask implements Face. The mask is the glyph's ink box rendered at
// the face size; whitespace and missing glyphs yield an empty mask.
func (f *OpenTypeFace) GlyphMask(r rune) Mask {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.masks[r]; ok {
		return m
	}
	m := f.rasterizeLocked(r)
	f.masks[r] = m
	return m
}

// Height implements Face: ascent plus descent at the face size.
func (f *OpenTypeFace) Height() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	metrics := f.face.Metrics()
	return fixedToFloat(metrics.Ascent + metrics.Descent)
}

// rasterizeLocked renders one glyph into a coverage mask. Caller holds mu.
func (f *OpenTypeFace) rasterizeLocked(r rune) Mask {
	bounds, _, ok := f.face.GlyphBounds(r)
	if !ok || bounds.Empty() {
		return Mask{}
	}
	minX := bounds.Min.X.Floor()
	minY := bounds.Min.Y.Floor()
	maxX := bounds.Max.X.Ceil()
	maxY := bounds.Max.Y.Ceil()
	width := maxX - minX
	height := maxY - minY
	if width <= 0 || height <= 0 {
		return Mask{}
	}

	dot := fixed.Point26_6{X: -bounds.Min.X, Y: -bounds.Min.Y}
	dr, maskImg, maskPoint, _, ok := f.face.Glyph(dot, r)
	if !ok {
		return Mask{}
	}

	m := Mask{Width: width, Height: height, Coverage: make([]float32, width*height)}
	for y := dr.Min.Y; y < dr.Max.Y; y++ {
		if y < 0 || y >= height {
			continue
		}
		for x := dr.Min.X; x < dr.Max.X; x++ {
			if x < 0 || x >= width {
				continue
			}
			_, _, _, a := maskImg.At(maskPoint.X+x-dr.Min.X, maskPoint.Y+y-dr.Min.Y).RGBA()
			m.Coverage[y*width+x] = float32(a) / 65535
		}
	}
	return m
}

// fixedToFloat converts a fixed.Int26_6 value to float64 pixels.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// floatToFixed converts float64 pixels to fixed.Int26_6.
func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

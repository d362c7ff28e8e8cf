// Package text is the text-shaping collaborator for the star chart
// renderer. The rendering core needs exactly two things from a font:
// per-glyph advance widths (to solve curved-label layout) and per-glyph
// coverage masks (to stamp glyphs into the accumulation buffers). Face
// provides both; everything else about fonts stays behind this package.
//
// Two implementations ship: BitmapFace, a built-in 5×7 instrument glyph
// set requiring no font files, and OpenTypeFace, which parses TTF/OTF
// data via golang.org/x/image. An optional GoTextShaper upgrades advance
// computation to HarfBuzz shaping for kerning-aware label footprints.
package text

import (
	"errors"
	"math"

	"golang.org/x/text/unicode/norm"
)

// ErrEmptyFontData is returned when a face is created from no data.
var ErrEmptyFontData = errors.New("text: empty font data")

// Mask is a glyph coverage grid. Coverage is row-major, Width×Height,
// with values in [0, 1]. The mask is centered by the consumer; Masks
// carry no bearing information because the renderer stamps glyphs at
// their optical centers along an arc.
type Mask struct {
	Width    int
	Height   int
	Coverage []float32
}

// Empty reports whether the mask covers nothing.
func (m Mask) Empty() bool { return m.Width == 0 || m.Height == 0 }

// Sample returns bilinear-interpolated coverage at a fractional mask
// coordinate. Points outside the grid read as zero, so rotated stamping
// loops can over-scan the bounding box without clipping first.
func (m Mask) Sample(x, y float64) float32 {
	if m.Empty() || x <= -1 || y <= -1 || x >= float64(m.Width) || y >= float64(m.Height) {
		return 0
	}
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := float32(x - float64(x0))
	fy := float32(y - float64(y0))
	read := func(px, py int) float32 {
		if px < 0 || py < 0 || px >= m.Width || py >= m.Height {
			return 0
		}
		return m.Coverage[py*m.Width+px]
	}
	top := read(x0, y0)*(1-fx) + read(x0+1, y0)*fx
	bottom := read(x0, y0+1)*(1-fx) + read(x0+1, y0+1)*fx
	return top*(1-fy) + bottom*fy
}

// Face supplies glyph metrics and coverage for one font at one size.
// Implementations must be safe for concurrent use.
type Face interface {
	// Advance returns the advance width of the glyph for r, in pixels
	// at the face's natural size. Unknown runes map to a fallback glyph.
	Advance(r rune) float64

	// GlyphMask returns the coverage mask for r at the face's natural
	// size. Unknown runes return an empty mask.
	GlyphMask(r rune) Mask

	// Height returns the nominal glyph height in pixels at the face's
	// natural size, used for baseline offsets.
	Height() float64
}

// Advances returns per-rune advance widths for a string, normalized to
// NFC first so combining sequences measure like their precomposed forms.
// If face also implements StringShaper (see GoTextShaper), the shaped
// advances are used; otherwise advances are summed per rune.
func Advances(face Face, s string) []float64 {
	s = norm.NFC.String(s)
	if shaper, ok := face.(StringShaper); ok {
		if adv := shaper.ShapeAdvances(s); adv != nil {
			return adv
		}
	}
	runes := []rune(s)
	out := make([]float64, len(runes))
	for i, r := range runes {
		out[i] = face.Advance(r)
	}
	return out
}

// StringShaper is implemented by faces that can shape a whole string,
// producing advances that account for kerning and ligatures. A nil
// return falls back to per-rune advances.
type StringShaper interface {
	ShapeAdvances(s string) []float64
}

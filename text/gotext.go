package text

import (
	"bytes"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
)

// ShapedFace wraps an OpenTypeFace with HarfBuzz-level advance shaping
// from go-text/typesetting. Kerning pairs and ligatures then feed into
// curved-label footprints, tightening layout for fonts that carry GPOS
// tables. Masks and single-glyph advances still come from the wrapped
// face.
//
// ShapedFace is safe for concurrent use: the parsed go-text font is
// read-only, and HarfbuzzShaper instances (which hold mutable buffers)
// are pooled.
type ShapedFace struct {
	*OpenTypeFace

	shaperPool sync.Pool

	once   sync.Once
	parsed *font.Font
	err    error
}

// NewShapedFace wraps face with HarfBuzz advance shaping.
func NewShapedFace(face *OpenTypeFace) *ShapedFace {
	return &ShapedFace{
		OpenTypeFace: face,
		shaperPool: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
	}
}

// ShapeAdvances implements StringShaper. It returns one advance per rune
// of s; when shaping collapses a cluster (ligatures), the cluster's full
// advance lands on its first rune and the remaining runes get zero.
// Returns nil if the font cannot be parsed, which makes callers fall
// back to per-rune advances.
func (f *ShapedFace) ShapeAdvances(s string) []float64 {
	if s == "" {
		return nil
	}
	parsed, err := f.goTextFont()
	if err != nil {
		return nil
	}

	runes := []rune(s)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(parsed),
		Size:      floatToFixed(f.size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	shaper := f.shaperPool.Get().(*shaping.HarfbuzzShaper)
	output := shaper.Shape(input)
	f.shaperPool.Put(shaper)

	out := make([]float64, len(runes))
	for _, g := range output.Glyphs {
		cluster := g.TextIndex()
		if cluster < 0 || cluster >= len(runes) {
			continue
		}
		out[cluster] += fixedToFloat(g.Advance)
	}
	return out
}

// goTextFont lazily parses the font data for go-text once.
func (f *ShapedFace) goTextFont() (*font.Font, error) {
	f.once.Do(func() {
		face, err := font.ParseTTF(bytes.NewReader(f.data))
		if err != nil {
			f.err = err
			return
		}
		f.parsed = face.Font
	})
	return f.parsed, f.err
}

// detectScript returns the script of the first non-space rune, defaulting
// to Latin. Mixed-script labels should be split by the caller.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

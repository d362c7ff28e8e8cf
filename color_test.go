package starchart

import (
	"math"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Color
	}{
		{"six digit", "#ff8000", Color{R: 1, G: float64(0x80) / 255, B: 0}},
		{"no hash", "ff8000", Color{R: 1, G: float64(0x80) / 255, B: 0}},
		{"short form", "#f80", Color{R: 1, G: float64(0x88) / 255, B: 0}},
		{"white", "#ffffff", Color{R: 1, G: 1, B: 1}},
		{"black", "#000000", Color{}},
		{"padded", "  #102030  ", Color{R: float64(0x10) / 255, G: float64(0x20) / 255, B: float64(0x30) / 255}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("%s: ParseColor(%q) error: %v", tt.name, tt.in, err)
			continue
		}
		if math.Abs(got.R-tt.want.R) > 1e-9 || math.Abs(got.G-tt.want.G) > 1e-9 || math.Abs(got.B-tt.want.B) > 1e-9 {
			t.Errorf("%s: ParseColor(%q) = %+v, want %+v", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestParseColorErrors(t *testing.T) {
	for _, in := range []string{"", "#gggggg", "#12345", "rgb(1,2,3)"} {
		if _, err := ParseColor(in); err == nil {
			t.Errorf("ParseColor(%q) succeeded, want error", in)
		}
	}
}

func TestMustColorPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("MustColor with invalid input did not panic")
		}
	}()
	MustColor("not-a-color")
}

func TestColorMix(t *testing.T) {
	a := Color{R: 0, G: 0, B: 0}
	b := Color{R: 1, G: 0.5, B: 0.25}

	mid := a.Mix(b, 0.5)
	want := Color{R: 0.5, G: 0.25, B: 0.125}
	if math.Abs(mid.R-want.R) > 1e-9 || math.Abs(mid.G-want.G) > 1e-9 || math.Abs(mid.B-want.B) > 1e-9 {
		t.Errorf("Mix(0.5) = %+v, want %+v", mid, want)
	}

	if got := a.Mix(b, 0); got != a {
		t.Errorf("Mix(0) = %+v, want %+v", got, a)
	}
	if got := a.Mix(b, 1); got != b {
		t.Errorf("Mix(1) = %+v, want %+v", got, b)
	}
	// Out-of-range t clamps.
	if got := a.Mix(b, 2); got != b {
		t.Errorf("Mix(2) = %+v, want clamped to %+v", got, b)
	}
}

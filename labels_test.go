package starchart

import (
	"math"
	"testing"

	"github.com/gogpu/starchart/internal/raster"
	"github.com/gogpu/starchart/text"
)

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi, math.Pi},
		{2 * math.Pi, 0},
		{-0.5, -0.5},
	}
	for _, tt := range tests {
		if got := wrapAngle(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("wrapAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGlyphAdvancesFloor(t *testing.T) {
	var face text.BitmapFace
	adv := glyphAdvances(face, "AB", 2, 0)
	if len(adv) != 2 {
		t.Fatalf("len = %d, want 2", len(adv))
	}
	for i, a := range adv {
		if a != 12 {
			t.Errorf("advance[%d] = %v, want 12", i, a)
		}
	}

	// Tracking adds a constant per glyph.
	tracked := glyphAdvances(face, "AB", 2, 3)
	if tracked[0] <= adv[0] {
		t.Errorf("tracked advance %v not above untracked %v", tracked[0], adv[0])
	}
}

func TestRelaxSeparatesOverlappingLabels(t *testing.T) {
	items := []*labelItem{
		{angle: 0.00, footprint: 0.5, alignment: AlignCenter},
		{angle: 0.05, footprint: 0.5, alignment: AlignCenter},
		{angle: 0.10, footprint: 0.5, alignment: AlignCenter},
	}
	relaxLabelAngles(items)
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			gap := math.Abs(wrapAngle(items[j].centerAngle() - items[i].centerAngle()))
			required := (items[i].footprint+items[j].footprint)/2 + labelPadding
			if gap < required-1e-6 {
				t.Errorf("items %d,%d gap %v below required %v", i, j, gap, required)
			}
		}
	}
}

func TestRelaxKeepsSeparatedLabelsInPlace(t *testing.T) {
	items := []*labelItem{
		{angle: 0, footprint: 0.3, alignment: AlignCenter},
		{angle: math.Pi, footprint: 0.3, alignment: AlignCenter},
	}
	relaxLabelAngles(items)
	if math.Abs(items[0].angle) > 1e-9 {
		t.Errorf("separated label moved from 0 to %v", items[0].angle)
	}
	if math.Abs(wrapAngle(items[1].angle-math.Pi)) > 1e-9 {
		t.Errorf("separated label moved from π to %v", items[1].angle)
	}
}

func TestRelaxNeverWorseThanInitial(t *testing.T) {
	// More footprint than the circle can hold: no conflict-free layout
	// exists, so the solver must at least not degrade the input.
	items := []*labelItem{
		{angle: 0.0, footprint: 2.5, alignment: AlignCenter},
		{angle: 0.3, footprint: 2.5, alignment: AlignCenter},
		{angle: 0.6, footprint: 2.5, alignment: AlignCenter},
		{angle: 0.9, footprint: 2.5, alignment: AlignCenter},
	}
	before := totalOverlap(items)
	relaxLabelAngles(items)
	after := totalOverlap(items)
	if after > before+1e-9 {
		t.Errorf("overlap grew from %v to %v", before, after)
	}
}

func TestRelaxSingleLabelUntouched(t *testing.T) {
	items := []*labelItem{{angle: 1.2, footprint: 0.8, alignment: AlignCenter}}
	relaxLabelAngles(items)
	if items[0].angle != 1.2 {
		t.Errorf("single label moved to %v", items[0].angle)
	}
}

func TestAlignmentAnchors(t *testing.T) {
	tests := []struct {
		align      Alignment
		wantCenter float64
	}{
		{AlignCenter, 1.0},
		{AlignStart, 1.2},
		{AlignEnd, 0.8},
	}
	for _, tt := range tests {
		it := &labelItem{angle: 1.0, footprint: 0.4, alignment: tt.align}
		if got := it.centerAngle(); math.Abs(got-tt.wantCenter) > 1e-9 {
			t.Errorf("centerAngle(%s) = %v, want %v", tt.align, got, tt.wantCenter)
		}
		it.shiftCenter(tt.wantCenter + 0.5)
		if got := it.centerAngle(); math.Abs(got-(tt.wantCenter+0.5)) > 1e-9 {
			t.Errorf("shiftCenter(%s) landed at %v, want %v", tt.align, got, tt.wantCenter+0.5)
		}
	}
}

func TestDrawGlyphStampsCoverage(t *testing.T) {
	dst := raster.NewImage(32, 32)
	var face text.BitmapFace
	drawGlyph(dst, face.GlyphMask('O'), 16, 16, 0, 2, raster.RGB{R: 1, G: 1, B: 1}, 1)
	if dst.Sum() <= 0 {
		t.Errorf("glyph stamp deposited no energy")
	}
	if dst.At(0, 0).R != 0 {
		t.Errorf("glyph energy leaked to the far corner")
	}
}

func TestDrawGlyphRotationPreservesEnergy(t *testing.T) {
	var face text.BitmapFace
	mask := face.GlyphMask('H')

	upright := raster.NewImage(48, 48)
	drawGlyph(upright, mask, 24, 24, 0, 2, raster.RGB{R: 1}, 1)
	rotated := raster.NewImage(48, 48)
	drawGlyph(rotated, mask, 24, 24, math.Pi/3, 2, raster.RGB{R: 1}, 1)

	a, b := upright.Sum(), rotated.Sum()
	if b <= 0 {
		t.Fatalf("rotated stamp empty")
	}
	if math.Abs(a-b)/a > 0.1 {
		t.Errorf("rotated energy %v deviates from upright %v by more than 10%%", b, a)
	}
}

func TestDrawTextLineAlignment(t *testing.T) {
	var face text.BitmapFace
	width := 200

	centerOfMass := func(align Alignment) float64 {
		dst := raster.NewImage(width, 40)
		drawTextLine(dst, face, "ORBIT", 100, 20, 1, 0, align, raster.RGB{R: 1}, 1)
		var total, weighted float64
		for y := 0; y < 40; y++ {
			for x := 0; x < width; x++ {
				v := float64(dst.At(x, y).R)
				total += v
				weighted += v * float64(x)
			}
		}
		if total == 0 {
			t.Fatalf("no energy for alignment %s", align)
		}
		return weighted / total
	}

	start := centerOfMass(AlignStart)
	center := centerOfMass(AlignCenter)
	end := centerOfMass(AlignEnd)
	if !(end < center && center < start) {
		t.Errorf("centers of mass end=%v center=%v start=%v, want end < center < start", end, center, start)
	}
	if math.Abs(center-100) > 4 {
		t.Errorf("centered text mass at %v, want ~100", center)
	}
}

func TestReadoutRadiusResolution(t *testing.T) {
	ring := RingSpec{Radius: 0.8, Width: 0.05}
	if got := readoutRadius(ring, ReadoutPlacement{RadialOffset: 0.1}); math.Abs(got-0.9) > 1e-9 {
		t.Errorf("ring-relative radius = %v, want 0.9 (radius plus offset, no stroke term)", got)
	}
	explicit := 0.5
	if got := readoutRadius(ring, ReadoutPlacement{Radius: &explicit, RadialOffset: 0.1}); got != 0.5 {
		t.Errorf("explicit radius = %v, want 0.5 with the offset ignored", got)
	}
}

func TestBuildLabelItemsHonorsZeroAngle(t *testing.T) {
	scene := &SceneDescriptor{
		Resolution: Resolution{Width: 200, Height: 200, SSAA: 1},
		Camera:     testCamera(),
		Rings:      []RingSpec{{Radius: 1, Width: 0.01, Label: "A", LabelAngleDeg: 0}},
		Text:       TextStyle{SizePx: 18, Color: MustColor("#ffffff")},
	}
	proj := NewProjection(scene.Resolution, scene.Camera, scene.Rings)
	items := buildLabelItems(scene, proj, text.BitmapFace{}, 1)
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if items[0].angle != 0 {
		t.Errorf("explicit 0° placement became %v rad", items[0].angle)
	}
}

func TestRenderLabelLayerPlacesTextOnRing(t *testing.T) {
	scene := &SceneDescriptor{
		Resolution: Resolution{Width: 200, Height: 200, SSAA: 1},
		Camera:     testCamera(),
		Rings: []RingSpec{{
			Radius:        1,
			Width:         0.01,
			Color:         MustColor("#ffffff"),
			HaloColor:     MustColor("#ffffff"),
			Label:         "RELAY",
			LabelAngleDeg: 90,
		}},
		Text: TextStyle{SizePx: 18, Color: MustColor("#ffffff")},
	}
	proj := NewProjection(scene.Resolution, scene.Camera, scene.Rings)
	layer := renderLabelLayer(scene, proj, text.BitmapFace{}, 1)
	if layer.Sum() <= 0 {
		t.Fatalf("label layer empty")
	}

	// The label sits near the ring's 90° point; the opposite side of the
	// frame stays dark.
	centerY, radiusX, radiusY := ellipseFor(proj, scene.Rings[0].Radius)
	labelY := int(centerY + radiusY)
	oppositeY := int(centerY - radiusY)
	near := regionEnergy(layer, int(proj.CenterX), labelY, 40)
	opposite := regionEnergy(layer, int(proj.CenterX), oppositeY, 40)
	if near <= opposite {
		t.Errorf("label energy near placement %v not above opposite side %v", near, opposite)
	}
	_ = radiusX
}

// regionEnergy sums a square window clipped to the image.
func regionEnergy(im *raster.Image, cx, cy, half int) float64 {
	total := 0.0
	for y := cy - half; y <= cy+half; y++ {
		for x := cx - half; x <= cx+half; x++ {
			c := im.At(x, y)
			total += float64(c.R + c.G + c.B)
		}
	}
	return total
}

package starchart

import (
	"math"
	"sort"

	"github.com/gogpu/starchart/internal/raster"
	"github.com/gogpu/starchart/text"
)

// labelRelaxIterations bounds the collision solver. The pass is cheap
// (a handful of labels per ring) and converges long before the bound on
// every realistic scene; the bound exists so pathological inputs cannot
// spin.
const labelRelaxIterations = 140

// labelPadding is the minimum angular gap kept between adjacent label
// footprints on the same ring, in radians.
const labelPadding = 0.06

// labelItem is one piece of arc text competing for angular space on a
// ring during layout.
type labelItem struct {
	text      string
	ringIndex int
	radius    float64 // normalized chart units
	angle     float64 // radians, mutated by relaxation
	footprint float64 // radians
	alignment Alignment
}

// labelScale converts the configured text size to a mask scale factor at
// the supersampled resolution. 18 px maps to the faces' natural size.
func labelScale(style TextStyle, ssaa int) float64 {
	return math.Max(1, style.SizePx/18) * float64(ssaa)
}

// glyphAdvances returns per-glyph advance widths in supersampled pixels.
// Advances are floored at a small positive value so degenerate glyphs
// (unknown runes, thin punctuation) still claim layout space, and
// tracking adds a constant inter-glyph gap.
func glyphAdvances(face text.Face, s string, scale, tracking float64) []float64 {
	raw := text.Advances(face, s)
	out := make([]float64, len(raw))
	for i, adv := range raw {
		out[i] = math.Max(0.4, adv)*scale + tracking*scale/6
	}
	return out
}

// ellipseFor resolves the screen-space ellipse a label arc follows.
// Near-degenerate projections (extreme pitch, tiny radii) fall back to a
// circle of the unprojected radius with a flattened minor axis.
func ellipseFor(proj Projection, radius float64) (centerY, radiusX, radiusY float64) {
	centerY, radiusX, radiusY = proj.EllipseParams(radius)
	if radiusX < 1 {
		radiusX = proj.BaseRadius * radius
		centerY = proj.CenterY
	}
	if radiusY < 1 {
		radiusY = math.Max(radiusX*0.12, 1)
	}
	return centerY, radiusX, radiusY
}

// angularFootprint converts a pixel run length to the angle it subtends
// on the label ellipse, using the mean of the two semi-axes as the
// effective radius.
func angularFootprint(advances []float64, radiusX, radiusY float64) float64 {
	total := 0.0
	for _, a := range advances {
		total += a
	}
	effective := math.Max(1, (radiusX+radiusY)/2)
	return total / effective
}

// wrapAngle maps an angle to (-π, π].
func wrapAngle(a float64) float64 {
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// centerAngle returns the angular midpoint of an item's footprint given
// its alignment anchor.
func (it *labelItem) centerAngle() float64 {
	switch it.alignment {
	case AlignStart:
		return it.angle + it.footprint/2
	case AlignEnd:
		return it.angle - it.footprint/2
	default:
		return it.angle
	}
}

// shiftCenter moves the item so its footprint midpoint lands on angle.
func (it *labelItem) shiftCenter(center float64) {
	switch it.alignment {
	case AlignStart:
		it.angle = wrapAngle(center - it.footprint/2)
	case AlignEnd:
		it.angle = wrapAngle(center + it.footprint/2)
	default:
		it.angle = wrapAngle(center)
	}
}

// totalOverlap sums the pairwise angular overlap (beyond padding) of the
// items, for the accept/revert check after relaxation.
func totalOverlap(items []*labelItem) float64 {
	overlap := 0.0
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			gap := math.Abs(wrapAngle(items[j].centerAngle() - items[i].centerAngle()))
			required := (items[i].footprint+items[j].footprint)/2 + labelPadding
			if gap < required {
				overlap += required - gap
			}
		}
	}
	return overlap
}

// relaxLabelAngles resolves footprint collisions among labels sharing a
// ring by symmetrically pushing overlapping neighbors apart around the
// circle. Iteration count is bounded; if the bounded pass somehow ends
// worse than it started (dense adversarial inputs can oscillate), the
// initial angles are restored so layout is never degraded.
func relaxLabelAngles(items []*labelItem) {
	if len(items) < 2 {
		return
	}
	initial := make([]float64, len(items))
	for i, it := range items {
		initial[i] = it.angle
	}
	before := totalOverlap(items)

	for iter := 0; iter < labelRelaxIterations; iter++ {
		sort.Slice(items, func(i, j int) bool {
			return items[i].centerAngle() < items[j].centerAngle()
		})
		moved := false
		for i := 0; i < len(items); i++ {
			a := items[i]
			b := items[(i+1)%len(items)]
			if a == b {
				continue
			}
			gap := wrapAngle(b.centerAngle() - a.centerAngle())
			if gap < 0 {
				gap += 2 * math.Pi
			}
			required := (a.footprint+b.footprint)/2 + labelPadding
			if gap >= required {
				continue
			}
			shift := (required - gap) / 2
			a.shiftCenter(a.centerAngle() - shift)
			b.shiftCenter(b.centerAngle() + shift)
			moved = true
		}
		if !moved {
			break
		}
	}

	if totalOverlap(items) > before {
		for i, it := range items {
			it.angle = initial[i]
		}
	}
}

// readoutRadius resolves where a readout sits: an explicit radius is
// used as given, otherwise the ring radius plus the radial offset.
func readoutRadius(ring RingSpec, p ReadoutPlacement) float64 {
	if p.Radius != nil {
		return *p.Radius
	}
	return ring.Radius + p.RadialOffset
}

// buildLabelItems collects ring labels and arc readouts into layout
// items, grouped later by ring index for relaxation.
func buildLabelItems(scene *SceneDescriptor, proj Projection, face text.Face, ssaa int) []*labelItem {
	scale := labelScale(scene.Text, ssaa)
	var items []*labelItem

	add := func(s string, ringIndex int, radius, angleDeg float64, align Alignment) {
		if s == "" || radius <= 0 {
			return
		}
		_, radiusX, radiusY := ellipseFor(proj, radius)
		advances := glyphAdvances(face, s, scale, scene.Text.Tracking)
		items = append(items, &labelItem{
			text:      s,
			ringIndex: ringIndex,
			radius:    radius,
			angle:     wrapAngle(angleDeg * math.Pi / 180),
			footprint: angularFootprint(advances, radiusX, radiusY),
			alignment: align,
		})
	}

	for i, ring := range scene.Rings {
		if ring.Label == "" {
			continue
		}
		add(ring.Label, i, ring.Radius+ring.Width*0.5+ring.LabelOffset, ring.LabelAngleDeg, AlignCenter)
	}

	for _, r := range scene.Readouts {
		if r.Placement.Kind == PlacementLinear {
			continue
		}
		idx := r.Placement.RingIndex
		if idx < 0 || idx >= len(scene.Rings) {
			continue
		}
		radius := readoutRadius(scene.Rings[idx], r.Placement)
		align := r.Alignment
		if align == "" {
			align = AlignCenter
		}
		add(r.Text, idx, radius, r.Placement.AngleDeg, align)
	}

	return items
}

// renderLabelLayer lays out and stamps all arc and linear text into a
// fresh supersampled layer. The caller blurs a copy of the result for
// the glow contribution.
func renderLabelLayer(scene *SceneDescriptor, proj Projection, face text.Face, ssaa int) *raster.Image {
	layer := raster.NewImage(proj.Width, proj.Height)
	scale := labelScale(scene.Text, ssaa)
	rgb := scene.Text.Color.rgb32()

	items := buildLabelItems(scene, proj, face, ssaa)
	byRing := map[int][]*labelItem{}
	for _, it := range items {
		byRing[it.ringIndex] = append(byRing[it.ringIndex], it)
	}
	for _, group := range byRing {
		relaxLabelAngles(group)
	}
	for _, it := range items {
		drawArcText(layer, proj, face, it, scale, scene.Text.Tracking, rgb)
	}

	for _, r := range scene.Readouts {
		if r.Placement.Kind != PlacementLinear {
			continue
		}
		idx := r.Placement.RingIndex
		if idx < 0 || idx >= len(scene.Rings) {
			continue
		}
		radius := readoutRadius(scene.Rings[idx], r.Placement)
		centerY, radiusX, radiusY := ellipseFor(proj, radius)
		angle := r.Placement.AngleDeg * math.Pi / 180
		x := proj.CenterX + radiusX*math.Cos(angle)
		y := centerY + radiusY*math.Sin(angle)
		align := r.Alignment
		if align == "" {
			align = AlignCenter
		}
		drawTextLine(layer, face, r.Text, x, y, scale, scene.Text.Tracking, align, rgb, 1)
	}

	return layer
}

// drawArcText walks an item's glyphs along its ellipse, stamping each
// mask rotated to the local tangent. The angular cursor advances by half
// a glyph's footprint before the stamp and half after, so glyph centers
// sit where their advance midpoints fall.
func drawArcText(dst *raster.Image, proj Projection, face text.Face, item *labelItem, scale, tracking float64, rgb raster.RGB) {
	advances := glyphAdvances(face, item.text, scale, tracking)
	runes := []rune(item.text)
	if len(runes) == 0 || len(advances) != len(runes) {
		return
	}
	centerY, radiusX, radiusY := ellipseFor(proj, item.radius)
	effective := math.Max(1, (radiusX+radiusY)/2)

	angle := item.centerAngle() - item.footprint/2
	for i, r := range runes {
		step := advances[i] / effective
		angle += step / 2
		x := proj.CenterX + radiusX*math.Cos(angle)
		y := centerY + radiusY*math.Sin(angle)
		// Tangent of the ellipse parameterization; glyphs near the top of
		// the chart read left-to-right, so flip on the lower half.
		rot := math.Atan2(radiusY*math.Cos(angle), -radiusX*math.Sin(angle))
		if math.Sin(angle) > 0 {
			rot += math.Pi
		}
		drawGlyph(dst, face.GlyphMask(r), x, y, rot, scale, rgb, 1)
		angle += step / 2
	}
}

// drawTextLine stamps a string on a straight horizontal baseline
// anchored at (x, y) according to the alignment.
func drawTextLine(dst *raster.Image, face text.Face, s string, x, y, scale, tracking float64, align Alignment, rgb raster.RGB, intensity float32) {
	advances := glyphAdvances(face, s, scale, tracking)
	runes := []rune(s)
	if len(runes) == 0 || len(advances) != len(runes) {
		return
	}
	total := 0.0
	for _, a := range advances {
		total += a
	}
	cursor := x
	switch align {
	case AlignCenter:
		cursor = x - total/2
	case AlignEnd:
		cursor = x - total
	}
	for i, r := range runes {
		cx := cursor + advances[i]/2
		drawGlyph(dst, face.GlyphMask(r), cx, y, 0, scale, rgb, intensity)
		cursor += advances[i]
	}
}

// drawGlyph additively stamps one coverage mask, scaled and rotated
// about its center at (cx, cy). Destination pixels over-scan the rotated
// bounding box and sample the mask through the inverse transform, so no
// coverage is lost to corner clipping at any rotation.
func drawGlyph(dst *raster.Image, mask text.Mask, cx, cy, rot, scale float64, rgb raster.RGB, intensity float32) {
	if mask.Empty() || scale <= 0 || intensity <= 0 {
		return
	}
	halfW := float64(mask.Width) * scale / 2
	halfH := float64(mask.Height) * scale / 2
	extent := math.Hypot(halfW, halfH)

	x0 := int(math.Floor(cx - extent))
	x1 := int(math.Ceil(cx + extent))
	y0 := int(math.Floor(cy - extent))
	y1 := int(math.Ceil(cy + extent))
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > dst.Width()-1 {
		x1 = dst.Width() - 1
	}
	if y1 > dst.Height()-1 {
		y1 = dst.Height() - 1
	}

	sin, cos := math.Sincos(rot)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			mx := (dx*cos+dy*sin)/scale + float64(mask.Width)/2
			my := (-dx*sin+dy*cos)/scale + float64(mask.Height)/2
			cov := mask.Sample(mx-0.5, my-0.5)
			if cov <= 0 {
				continue
			}
			dst.AddPixel(x, y, rgb, cov*intensity)
		}
	}
}

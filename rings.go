package starchart

import (
	"math"

	"github.com/gogpu/starchart/internal/raster"
)

// ringPoint is one projected sample on a ring, alive only while that
// ring's polyline and ticks are rasterized.
type ringPoint struct {
	x, y  float64
	scale float64 // perspective size/intensity factor
	angle float64
}

// sampleRingArc projects count+1 samples along [a0, a1] on the ring.
// The perspective factor is clamped to [0.4, 2.2] so near-camera arcs
// stay bounded.
func sampleRingArc(proj Projection, radius, a0, a1 float64, count int) []ringPoint {
	if count < 1 {
		count = 1
	}
	points := make([]ringPoint, 0, count+1)
	for i := 0; i <= count; i++ {
		angle := a0 + (a1-a0)*float64(i)/float64(count)
		x, y, depth := proj.Project(radius, angle)
		points = append(points, ringPoint{
			x:     x,
			y:     y,
			scale: proj.depthScale(depth, 0.4, 2.2),
			angle: angle,
		})
	}
	return points
}

// ringSampleCount keeps the angular step sub-pixel at the supersampled
// resolution.
func ringSampleCount(radius float64, ssaa int) int {
	samples := int(360 * clamp(radius, 0.25, 1))
	if samples < 240 {
		samples = 240
	}
	return samples * ssaa
}

// drawPolyline stamps width- and intensity-modulated discs along the
// point run. Width and per-segment intensity scale with the
// interpolated perspective factor, keeping near arcs thicker and
// brighter than far ones. closed joins the last point back to the first.
func drawPolyline(dst *raster.Image, points []ringPoint, baseWidth float64, color Color, intensityScale float64, closed bool) {
	count := len(points)
	if count < 2 {
		return
	}
	segments := count - 1
	if closed {
		segments = count
	}
	rgb := color.rgb32()
	for i := 0; i < segments; i++ {
		current := points[i]
		next := points[(i+1)%count]
		dx := next.x - current.x
		dy := next.y - current.y
		distance := math.Max(1, math.Hypot(dx, dy))
		steps := int(distance / math.Max(1, baseWidth*0.45))
		if steps < 1 {
			steps = 1
		}
		for step := 0; step <= steps; step++ {
			t := float64(step) / float64(steps)
			x := current.x + dx*t
			y := current.y + dy*t
			scale := current.scale*(1-t) + next.scale*t
			width := math.Max(0.55, baseWidth*scale)
			intensity := math.Min(1.6, 0.75+0.35*math.Min(scale, 1.6)) * intensityScale
			dst.AddDisc(x, y, width*0.5, rgb, float32(intensity))
		}
	}
}

// dashSpans partitions the full sweep into on-spans according to the
// dash pattern (alternating on/off lengths in degrees). An odd-length
// pattern is logically duplicated by reusing its last entry, matching
// stroke dash conventions.
func dashSpans(pattern []float64) [][2]float64 {
	cleaned := make([]float64, 0, len(pattern)+1)
	for _, v := range pattern {
		cleaned = append(cleaned, math.Abs(v))
	}
	if len(cleaned) == 0 {
		return nil // no pattern, caller draws solid
	}
	if len(cleaned)%2 == 1 {
		cleaned = append(cleaned, cleaned[len(cleaned)-1])
	}
	var spans [][2]float64
	angle := 0.0
	idx := 0
	for angle < 360 {
		on := cleaned[idx%len(cleaned)]
		off := cleaned[(idx+1)%len(cleaned)]
		if on <= 0 && off <= 0 {
			return nil // degenerate pattern, caller draws solid
		}
		if on > 0 {
			spans = append(spans, [2]float64{angle, math.Min(360, angle+on)})
		}
		angle += on + off
		idx += 2
	}
	return spans
}

// drawRing rasterizes one ring's core stroke and its glow companion. A
// wider, dimmer duplicate pass in the halo color produces the glow; a
// zero glow strength still leaves a faint halo floor, and an absent
// halo color has been resolved to the ring color upstream.
func drawRing(core, glow *raster.Image, proj Projection, ring RingSpec, ssaa int) {
	radius := math.Max(1e-4, ring.Radius)
	baseWidth := math.Max(1, ring.Width*proj.BaseRadius)
	samples := ringSampleCount(radius, ssaa)

	glowIntensity := clamp(ring.Glow*0.25, 0.05, 0.6)
	haloWidth := baseWidth * 1.35

	if spans := dashSpans(ring.Dash); spans != nil {
		for _, span := range spans {
			a0 := span[0] * math.Pi / 180
			a1 := span[1] * math.Pi / 180
			count := int(float64(samples) * (span[1] - span[0]) / 360)
			points := sampleRingArc(proj, radius, a0, a1, count)
			drawPolyline(core, points, baseWidth, ring.Color, 1, false)
			drawPolyline(glow, points, haloWidth, ring.HaloColor, glowIntensity, false)
		}
	} else {
		points := sampleRingArc(proj, radius, 0, 2*math.Pi, samples)
		// Closed sweep: the first and last samples coincide at 0 == 2π,
		// so draw open to avoid double-stamping the seam.
		drawPolyline(core, points, baseWidth, ring.Color, 1, false)
		drawPolyline(glow, points, haloWidth, ring.HaloColor, glowIntensity, false)
	}

	if ring.Ticks != nil {
		drawTicks(core, glow, proj, ring, *ring.Ticks, ssaa)
	}
}

// tickLevel is one resolved entry of the tick hierarchy.
type tickLevel struct {
	spacingDeg float64
	lengthPx   float64
}

// tickLevels resolves the raw spec into ordered (spacing, length) pairs:
// the coarsest spacing gets the longest tick, the finest the shortest.
// Resolved once so the drawing loop never branches on spacing count.
func tickLevels(spec TickSpec) []tickLevel {
	spacings := make([]float64, 0, len(spec.EveryDeg))
	for _, s := range spec.EveryDeg {
		if s > 0 {
			spacings = append(spacings, s)
		}
	}
	if len(spacings) == 0 {
		return nil
	}
	// Descending: widest spacing first.
	for i := 1; i < len(spacings); i++ {
		for j := i; j > 0 && spacings[j] > spacings[j-1]; j-- {
			spacings[j], spacings[j-1] = spacings[j-1], spacings[j]
		}
	}
	low, high := spec.LengthPx[0], spec.LengthPx[1]
	denom := len(spacings) - 1
	if denom < 1 {
		denom = 1
	}
	levels := make([]tickLevel, len(spacings))
	for i, spacing := range spacings {
		factor := float64(i) / float64(denom)
		levels[i] = tickLevel{spacingDeg: spacing, lengthPx: high - (high-low)*factor}
	}
	return levels
}

// drawTicks stamps radial tick marks just outside the ring stroke. Tick
// pixel lengths are pre-multiplied by ssaa and converted to radius units
// via the projection's pixel-to-radius factor, so their rendered length
// is invariant across resolutions and supersampling factors.
func drawTicks(core, glow *raster.Image, proj Projection, ring RingSpec, spec TickSpec, ssaa int) {
	radius := math.Max(1e-4, ring.Radius)
	baseWidth := math.Max(1, ring.Width*proj.BaseRadius)
	coreRGB := ring.Color.rgb32()
	glowRGB := ring.HaloColor.rgb32()

	for _, level := range tickLevels(spec) {
		lengthPx := math.Max(2, level.lengthPx*float64(ssaa))
		deltaRadius := lengthPx * proj.PixelToRadius
		offsetRadius := radius + (baseWidth*0.5)*proj.PixelToRadius
		inner := offsetRadius
		outer := offsetRadius + deltaRadius

		count := int(math.Round(360 / level.spacingDeg))
		if count < 1 {
			count = 1
		}
		for i := 0; i < count; i++ {
			angle := float64(i) * level.spacingDeg * math.Pi / 180
			x0, y0, depth0 := proj.Project(inner, angle)
			x1, y1, depth1 := proj.Project(outer, angle)
			scale := clamp((depth0+depth1)*0.5/proj.Distance, 0.5, 1.8)
			width := math.Max(1, baseWidth*0.45*spec.Weight*scale)
			intensity := spec.Alpha * (0.7 + 0.3*math.Min(scale, 1.4))
			core.AddLine(x0, y0, x1, y1, coreRGB, math.Round(width), float32(intensity))
			glow.AddLine(x0, y0, x1, y1, glowRGB, math.Round(width*1.4), float32(intensity*0.4))
		}
	}
}

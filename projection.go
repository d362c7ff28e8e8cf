package starchart

import "math"

// fitFraction is the share of the short image dimension that the
// largest ring extent is scaled to occupy.
const fitFraction = 0.92

// Projection holds the camera parameters derived once per render and
// never mutated afterward. It maps (normalized ring radius, angle) pairs
// to supersampled screen coordinates with perspective and pitch applied.
type Projection struct {
	Width  int
	Height int

	CenterX    float64
	CenterY    float64
	BaseRadius float64

	Focal    float64
	Distance float64
	Pitch    float64 // radians

	// UnitScale converts normalized radius to world units; solved so the
	// widest ring fits fitFraction of the short dimension.
	UnitScale float64

	// PixelToRadius is the inverse scale: screen pixels to normalized
	// radius units, used to keep tick lengths resolution-invariant.
	PixelToRadius float64
}

// NewProjection derives projection parameters for a scene. Rings only
// contribute their maximal radial extent; an empty ring list falls back
// to unit extent.
func NewProjection(res Resolution, cam Camera, rings []RingSpec) Projection {
	width, height := res.Supersampled()
	centerX := float64(width) / 2
	centerY := float64(height) / 2
	baseRadius := math.Min(float64(width), float64(height)) * 0.5 * fitFraction

	fov := math.Max(1e-3, cam.FOVDeg*math.Pi/180)
	focal := (float64(height) / 2) / math.Tan(fov/2)

	distance := math.Max(cam.Near+1e-3, cam.Far)

	maxExtent := 0.0
	for _, ring := range rings {
		extent := ring.Radius + math.Max(ring.Width*0.75, 0)
		if extent > maxExtent {
			maxExtent = extent
		}
	}
	if maxExtent <= 1e-6 {
		maxExtent = 1
	}

	unitScale := baseRadius * distance / (focal * maxExtent)

	return Projection{
		Width:         width,
		Height:        height,
		CenterX:       centerX,
		CenterY:       centerY,
		BaseRadius:    baseRadius,
		Focal:         focal,
		Distance:      distance,
		Pitch:         cam.PitchDeg * math.Pi / 180,
		UnitScale:     unitScale,
		PixelToRadius: distance / (focal * unitScale),
	}
}

// Project maps a point at (radius, angle) on the chart plane to screen
// coordinates and camera depth. Negative radii are clamped to zero and
// the perspective divisor is floored at a small epsilon, so all finite
// inputs produce finite output.
func (p Projection) Project(radius, angle float64) (x, y, depth float64) {
	if radius < 0 {
		radius = 0
	}
	worldX := math.Cos(angle) * radius * p.UnitScale
	worldY := math.Sin(angle) * radius * p.UnitScale
	yPrime := worldY * math.Cos(p.Pitch)
	zPrime := -worldY * math.Sin(p.Pitch)
	zCamera := p.Distance - zPrime
	if zCamera <= 1e-5 {
		zCamera = 1e-5
	}
	x = p.CenterX + (p.Focal*worldX)/zCamera
	y = p.CenterY + (p.Focal*yPrime)/zCamera
	return x, y, zCamera
}

// EllipseParams returns the vertical center and the horizontal/vertical
// radii of the ellipse a ring of the given radius projects to. Sampling
// the model at 0° and ±90° saves downstream code from re-deriving the
// trigonometry.
func (p Projection) EllipseParams(radius float64) (centerY, radiusX, radiusY float64) {
	if radius <= 0 {
		return p.CenterY, 0, 0
	}
	sideX, _, _ := p.Project(radius, 0)
	_, nearY, _ := p.Project(radius, math.Pi/2)
	_, farY, _ := p.Project(radius, -math.Pi/2)
	centerY = (nearY + farY) * 0.5
	radiusX = math.Abs(sideX - p.CenterX)
	radiusY = math.Abs(nearY - centerY)
	return centerY, radiusX, radiusY
}

// depthScale converts a camera depth to the perspective size/intensity
// factor, clamped to keep degenerate geometry bounded.
func (p Projection) depthScale(depth, lo, hi float64) float64 {
	return clamp(depth/p.Distance, lo, hi)
}

package starchart

// SceneDescriptor is the fully-resolved, immutable input to Render. It
// is produced upstream (see the config subpackage): legacy aliases are
// already resolved to the canonical fields, colors are parsed, defaults
// are filled in. The core never validates or mutates it.
type SceneDescriptor struct {
	// Seed drives every stochastic choice in the render. Identical
	// descriptor and seed produce byte-identical output.
	Seed int64

	Resolution Resolution
	Camera     Camera
	Rings      []RingSpec
	Stars      StarFieldSpec
	Readouts   []ReadoutSpec
	Text       TextStyle
	Post       PostProcessSpec
	HUD        HUDSpec
}

// Resolution is the output size plus the supersampling factor. The
// render runs at Width*SSAA × Height*SSAA and box-downsamples at the
// end.
type Resolution struct {
	Width  int
	Height int
	SSAA   int
}

// Supersampled returns the internal render dimensions.
func (r Resolution) Supersampled() (width, height int) {
	ssaa := r.SSAA
	if ssaa < 1 {
		ssaa = 1
	}
	return r.Width * ssaa, r.Height * ssaa
}

// Camera holds the canonical camera parameters. A legacy tilt_deg field
// in scene files maps onto PitchDeg during config resolution.
type Camera struct {
	PitchDeg float64
	FOVDeg   float64
	Near     float64
	Far      float64
}

// RingSpec describes one projected ring: geometry, style, ticks and an
// optional curved label.
type RingSpec struct {
	// Radius is the ring radius in normalized chart units (the largest
	// ring extent maps to 92% of the short image dimension).
	Radius float64

	// Width is the stroke width as a fraction of the base radius.
	Width float64

	Color     Color
	HaloColor Color // resolved to Color upstream when unset

	// Glow scales the halo pass intensity; zero disables the glow
	// contribution for this ring.
	Glow float64

	// Dash lists alternating on/off angular spans in degrees. Empty
	// means a solid ring.
	Dash []float64

	Ticks *TickSpec

	// Label is the curved text drawn along the ring; empty for none.
	Label string
	// LabelAngleDeg is the initial placement angle in degrees, honored
	// as given (the config loader defaults absent angles to 90).
	LabelAngleDeg float64
	LabelOffset   float64 // radial offset in normalized units
}

// TickSpec describes tick marks for a ring. EveryDeg may hold several
// spacings; the rasterizer sorts them into a visual hierarchy where the
// coarsest spacing draws the longest ticks.
type TickSpec struct {
	EveryDeg []float64
	// LengthPx is the [shortest, longest] tick length in output pixels.
	// Lengths are resolution- and supersampling-invariant.
	LengthPx [2]float64
	Alpha    float64
	Weight   float64
}

// StarFieldSpec configures the two star distributions and their shared
// palette.
type StarFieldSpec struct {
	Bulge      BulgeSpec
	Background BackgroundSpec

	WarmColor       Color
	HotColor        Color
	BackgroundColor Color

	// BrightnessPower shapes the background intensity weight
	// distribution u^power; 1 is uniform, larger values bias dim.
	BrightnessPower float64
}

// BulgeSpec is the dense central distribution: uniform angle, radius
// drawn from an inverse-power-law falloff.
type BulgeSpec struct {
	Count        int
	Sigma        float64
	FalloffAlpha float64
	SizePx       [2]float64
}

// BackgroundSpec is the sparse halo distribution: uniform area density
// over an annulus, or over the whole frame when MaxR <= MinR.
type BackgroundSpec struct {
	Count  int
	MinR   float64
	MaxR   float64
	Jitter float64
	SizePx [2]float64
}

// TextStyle configures label and readout text.
type TextStyle struct {
	SizePx   float64
	Color    Color
	Tracking float64

	// FontPath selects an OpenType font for labels. Empty uses the
	// built-in bitmap instrument face.
	FontPath string
}

// Alignment anchors text relative to its placement angle or position.
type Alignment string

// Text alignment values.
const (
	AlignStart  Alignment = "start"
	AlignCenter Alignment = "center"
	AlignEnd    Alignment = "end"
)

// PlacementKind selects arc-following or straight-baseline readouts.
type PlacementKind string

// Readout placement kinds.
const (
	PlacementArc    PlacementKind = "arc"
	PlacementLinear PlacementKind = "linear"
)

// ReadoutSpec is a text readout tied to a ring.
type ReadoutSpec struct {
	Text      string
	Placement ReadoutPlacement
	Alignment Alignment
}

// ReadoutPlacement anchors a readout on or near a ring.
type ReadoutPlacement struct {
	RingIndex    int
	AngleDeg     float64
	RadialOffset float64
	// Radius, when non-nil, overrides the ring-relative radius.
	Radius *float64
	Kind   PlacementKind
}

// HUDSpec configures the bottom readout strip.
type HUDSpec struct {
	Enabled  bool
	Emissive float64
	Readouts []HUDReadout
	// UseDefaultReadouts substitutes the stock NAV/ΔV/SYNC readouts
	// when Readouts is empty.
	UseDefaultReadouts bool
}

// HUDReadout is one entry in the HUD strip. Position is a normalized
// horizontal position in [0, 1].
type HUDReadout struct {
	Text      string
	Position  float64
	Alignment Alignment
}

// PostProcessSpec holds the full post chain configuration. All fields
// are concrete; permissive defaults are applied by the config loader.
type PostProcessSpec struct {
	Bloom      BloomSpec
	Anamorphic StreakSpec
	Aberration AberrationSpec

	// Vignette strength in [0, 1]; 0 disables.
	Vignette float64

	// Grain is the Gaussian noise sigma added per pixel; 0 disables.
	Grain float64

	// Gamma is the display decode exponent applied after tone mapping.
	Gamma float64
}

// BloomSpec pairs blur sigmas with their intensities; entries beyond
// the shorter slice are ignored.
type BloomSpec struct {
	Threshold   float64
	Sigmas      []float64
	Intensities []float64
}

// StreakSpec configures the optional horizontal anamorphic streak.
type StreakSpec struct {
	Enabled   bool
	LengthPx  float64
	Intensity float64
}

// AberrationSpec configures radial chromatic aberration. Center, when
// non-nil, overrides the image center (supersampled pixel coordinates).
type AberrationSpec struct {
	Pixels float64
	Center *[2]float64
}

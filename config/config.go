// Package config loads scene descriptions from YAML and resolves them
// into the fully-validated descriptor the rendering core consumes.
// Legacy field spellings from earlier scene files are accepted and
// mapped onto the canonical fields here, so the core never sees them.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/starchart"
)

// Scene file defaults, applied before validation.
const (
	defaultWidth       = 1024
	defaultHeight      = 1024
	defaultFOVDeg      = 35
	defaultPitchDeg    = 30
	defaultNear        = 1
	defaultFar         = 6
	defaultTextSize    = 18
	defaultGamma       = 2.2
	defaultThreshold   = 1.1
	defaultBrightPower = 1.8
)

// colorValue accepts a hex string ("#7fd4ff", "fff") or a three-element
// float sequence in [0, 1].
type colorValue struct {
	set bool
	c   starchart.Color
}

func (v *colorValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		c, err := starchart.ParseColor(s)
		if err != nil {
			return err
		}
		v.c, v.set = c, true
		return nil
	case yaml.SequenceNode:
		var parts []float64
		if err := node.Decode(&parts); err != nil {
			return err
		}
		if len(parts) != 3 {
			return fmt.Errorf("config: color needs 3 components, got %d", len(parts))
		}
		v.c = starchart.Color{R: parts[0], G: parts[1], B: parts[2]}
		v.set = true
		return nil
	default:
		return fmt.Errorf("config: unsupported color node at line %d", node.Line)
	}
}

func (v colorValue) or(fallback starchart.Color) starchart.Color {
	if v.set {
		return v.c
	}
	return fallback
}

// oneOrMany accepts a scalar or a sequence of floats.
type oneOrMany []float64

func (v *oneOrMany) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var f float64
		if err := node.Decode(&f); err != nil {
			return err
		}
		*v = oneOrMany{f}
		return nil
	}
	var parts []float64
	if err := node.Decode(&parts); err != nil {
		return err
	}
	*v = parts
	return nil
}

type fileScene struct {
	Seed       int64          `yaml:"seed"`
	Resolution fileResolution `yaml:"resolution"`
	Camera     fileCamera     `yaml:"camera"`
	Rings      []fileRing     `yaml:"rings"`
	Stars      fileStars      `yaml:"stars"`
	Readouts   []fileReadout  `yaml:"readouts"`
	Text       fileText       `yaml:"text"`
	Post       filePost       `yaml:"post"`
	HUD        fileHUD        `yaml:"hud"`
}

type fileResolution struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	SSAA   int `yaml:"ssaa"`
}

type fileCamera struct {
	PitchDeg *float64 `yaml:"pitch_deg"`
	TiltDeg  *float64 `yaml:"tilt_deg"` // legacy spelling of pitch_deg
	FOVDeg   *float64 `yaml:"fov_deg"`
	Near     *float64 `yaml:"near"`
	Far      *float64 `yaml:"far"`
}

type fileRing struct {
	Radius    float64    `yaml:"radius"`
	Width     float64    `yaml:"width"`
	Color     colorValue `yaml:"color"`
	HaloColor colorValue `yaml:"halo_color"`
	Glow      float64    `yaml:"glow"`
	Dash      []float64  `yaml:"dash"`
	Ticks     *fileTicks `yaml:"ticks"`

	// TicksEveryDeg is the legacy one-line tick form; it expands to a
	// full tick spec with stock lengths.
	TicksEveryDeg oneOrMany `yaml:"ticks_every_deg"`

	Label string `yaml:"label"`
	// LabelAngleDeg is a pointer so an explicit 0° placement stays
	// distinguishable from the 90° default.
	LabelAngleDeg *float64 `yaml:"label_angle_deg"`
	LabelOffset   float64  `yaml:"label_offset"`
}

type fileTicks struct {
	EveryDeg oneOrMany  `yaml:"every_deg"`
	LengthPx [2]float64 `yaml:"length_px"`
	Alpha    *float64   `yaml:"alpha"`
	Weight   *float64   `yaml:"weight"`
}

type fileStars struct {
	Bulge struct {
		Count        int        `yaml:"count"`
		Sigma        float64    `yaml:"sigma"`
		FalloffAlpha float64    `yaml:"falloff_alpha"`
		Alpha        *float64   `yaml:"alpha"` // legacy spelling
		SizePx       [2]float64 `yaml:"size_px"`
	} `yaml:"bulge"`
	Background struct {
		Count  int        `yaml:"count"`
		MinR   float64    `yaml:"min_r"`
		MaxR   float64    `yaml:"max_r"`
		Jitter float64    `yaml:"jitter"`
		SizePx [2]float64 `yaml:"size_px"`
	} `yaml:"background"`
	WarmColor       colorValue `yaml:"warm_color"`
	HotColor        colorValue `yaml:"hot_color"`
	BackgroundColor colorValue `yaml:"background_color"`
	BrightnessPower *float64   `yaml:"brightness_power"`
}

type fileReadout struct {
	Text         string   `yaml:"text"`
	Ring         int      `yaml:"ring"`
	AngleDeg     float64  `yaml:"angle_deg"`
	RadialOffset float64  `yaml:"radial_offset"`
	Radius       *float64 `yaml:"radius"`
	Kind         string   `yaml:"kind"`
	Align        string   `yaml:"align"`
}

type fileText struct {
	SizePx   float64    `yaml:"size_px"`
	Color    colorValue `yaml:"color"`
	Tracking float64    `yaml:"tracking"`
	Font     string     `yaml:"font"`
}

type filePost struct {
	Bloom struct {
		Threshold   *float64  `yaml:"threshold"`
		Sigmas      []float64 `yaml:"sigmas"`
		Radii       []float64 `yaml:"radii"` // legacy spelling of sigmas
		Intensities []float64 `yaml:"intensities"`
		Intensity   *float64  `yaml:"intensity"` // legacy: one value for all passes
	} `yaml:"bloom"`
	Anamorphic struct {
		Enabled   bool    `yaml:"enabled"`
		LengthPx  float64 `yaml:"length_px"`
		Intensity float64 `yaml:"intensity"`
	} `yaml:"anamorphic"`
	Aberration struct {
		Pixels *float64    `yaml:"pixels"`
		K      *float64    `yaml:"k"` // legacy: shift as a fraction of width
		Center *[2]float64 `yaml:"center"`
	} `yaml:"chromatic_aberration"`
	Vignette float64  `yaml:"vignette"`
	Grain    float64  `yaml:"grain"`
	Gamma    *float64 `yaml:"gamma"`
}

type fileHUD struct {
	Enabled            bool    `yaml:"enabled"`
	Emissive           float64 `yaml:"emissive"`
	UseDefaultReadouts *bool   `yaml:"use_default_readouts"`
	Readouts           []struct {
		Text     string  `yaml:"text"`
		Position float64 `yaml:"position"`
		Align    string  `yaml:"align"`
	} `yaml:"readouts"`
}

// Load reads and resolves a scene file.
func Load(path string) (*starchart.SceneDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	scene, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return scene, nil
}

// Parse resolves YAML scene data into a validated descriptor.
func Parse(data []byte) (*starchart.SceneDescriptor, error) {
	var f fileScene
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return resolve(&f)
}

func resolve(f *fileScene) (*starchart.SceneDescriptor, error) {
	scene := &starchart.SceneDescriptor{Seed: f.Seed}

	if err := resolveResolution(f, scene); err != nil {
		return nil, err
	}
	resolveCamera(f, scene)
	if err := resolveRings(f, scene); err != nil {
		return nil, err
	}
	if err := resolveStars(f, scene); err != nil {
		return nil, err
	}
	if err := resolveReadouts(f, scene); err != nil {
		return nil, err
	}
	resolveText(f, scene)
	resolvePost(f, scene)
	resolveHUD(f, scene)
	return scene, nil
}

func resolveResolution(f *fileScene, scene *starchart.SceneDescriptor) error {
	r := f.Resolution
	if r.Width == 0 {
		r.Width = defaultWidth
	}
	if r.Height == 0 {
		r.Height = defaultHeight
	}
	if r.SSAA == 0 {
		r.SSAA = 1
	}
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("resolution: negative dimensions %dx%d", r.Width, r.Height)
	}
	if r.SSAA < 1 || r.SSAA > 8 {
		return fmt.Errorf("resolution: ssaa %d out of range [1, 8]", r.SSAA)
	}
	scene.Resolution = starchart.Resolution{Width: r.Width, Height: r.Height, SSAA: r.SSAA}
	return nil
}

func resolveCamera(f *fileScene, scene *starchart.SceneDescriptor) {
	c := f.Camera
	pitch := floatOr(c.PitchDeg, floatOr(c.TiltDeg, defaultPitchDeg))
	scene.Camera = starchart.Camera{
		PitchDeg: pitch,
		FOVDeg:   floatOr(c.FOVDeg, defaultFOVDeg),
		Near:     floatOr(c.Near, defaultNear),
		Far:      floatOr(c.Far, defaultFar),
	}
}

func resolveRings(f *fileScene, scene *starchart.SceneDescriptor) error {
	white := starchart.MustColor("#ffffff")
	for i, r := range f.Rings {
		if r.Radius <= 0 {
			return fmt.Errorf("ring %d: radius %v must be positive", i, r.Radius)
		}
		if r.Width < 0 {
			return fmt.Errorf("ring %d: negative width %v", i, r.Width)
		}
		color := r.Color.or(white)
		ring := starchart.RingSpec{
			Radius:        r.Radius,
			Width:         r.Width,
			Color:         color,
			HaloColor:     r.HaloColor.or(color),
			Glow:          r.Glow,
			Dash:          r.Dash,
			Label:         r.Label,
			LabelAngleDeg: floatOr(r.LabelAngleDeg, 90),
			LabelOffset:   r.LabelOffset,
		}
		switch {
		case r.Ticks != nil:
			if len(r.Ticks.EveryDeg) == 0 {
				return fmt.Errorf("ring %d: ticks without every_deg", i)
			}
			spec := starchart.TickSpec{
				EveryDeg: r.Ticks.EveryDeg,
				LengthPx: r.Ticks.LengthPx,
				Alpha:    floatOr(r.Ticks.Alpha, 0.85),
				Weight:   floatOr(r.Ticks.Weight, 1),
			}
			if spec.LengthPx == [2]float64{} {
				spec.LengthPx = [2]float64{6, 12}
			}
			ring.Ticks = &spec
		case len(r.TicksEveryDeg) > 0:
			ring.Ticks = &starchart.TickSpec{
				EveryDeg: r.TicksEveryDeg,
				LengthPx: [2]float64{6, 12},
				Alpha:    0.85,
				Weight:   1,
			}
		}
		scene.Rings = append(scene.Rings, ring)
	}
	return nil
}

func resolveStars(f *fileScene, scene *starchart.SceneDescriptor) error {
	s := f.Stars
	if s.Bulge.Count < 0 || s.Background.Count < 0 {
		return fmt.Errorf("stars: negative counts (%d, %d)", s.Bulge.Count, s.Background.Count)
	}
	falloff := s.Bulge.FalloffAlpha
	if falloff == 0 && s.Bulge.Alpha != nil {
		falloff = *s.Bulge.Alpha
	}
	if falloff == 0 {
		falloff = 3.2
	}
	bulgeSize := s.Bulge.SizePx
	if bulgeSize == [2]float64{} {
		bulgeSize = [2]float64{0.8, 2.4}
	}
	backgroundSize := s.Background.SizePx
	if backgroundSize == [2]float64{} {
		backgroundSize = [2]float64{0.6, 1.6}
	}
	scene.Stars = starchart.StarFieldSpec{
		Bulge: starchart.BulgeSpec{
			Count:        s.Bulge.Count,
			Sigma:        s.Bulge.Sigma,
			FalloffAlpha: falloff,
			SizePx:       bulgeSize,
		},
		Background: starchart.BackgroundSpec{
			Count:  s.Background.Count,
			MinR:   s.Background.MinR,
			MaxR:   s.Background.MaxR,
			Jitter: s.Background.Jitter,
			SizePx: backgroundSize,
		},
		WarmColor:       s.WarmColor.or(starchart.MustColor("#ff6a00")),
		HotColor:        s.HotColor.or(starchart.MustColor("#bfd9ff")),
		BackgroundColor: s.BackgroundColor.or(starchart.MustColor("#1e90ff")),
		BrightnessPower: floatOr(s.BrightnessPower, defaultBrightPower),
	}
	if scene.Stars.Bulge.Sigma <= 0 && scene.Stars.Bulge.Count > 0 {
		return fmt.Errorf("stars: bulge sigma must be positive")
	}
	if s.Background.MaxR < s.Background.MinR {
		return fmt.Errorf("stars: background max_r %v below min_r %v", s.Background.MaxR, s.Background.MinR)
	}
	return nil
}

func resolveReadouts(f *fileScene, scene *starchart.SceneDescriptor) error {
	for i, r := range f.Readouts {
		if r.Ring < 0 || r.Ring >= len(scene.Rings) {
			return fmt.Errorf("readout %d: ring %d out of range", i, r.Ring)
		}
		kind := starchart.PlacementArc
		if r.Kind == string(starchart.PlacementLinear) {
			kind = starchart.PlacementLinear
		}
		scene.Readouts = append(scene.Readouts, starchart.ReadoutSpec{
			Text: r.Text,
			Placement: starchart.ReadoutPlacement{
				RingIndex:    r.Ring,
				AngleDeg:     r.AngleDeg,
				RadialOffset: r.RadialOffset,
				Radius:       r.Radius,
				Kind:         kind,
			},
			Alignment: parseAlignment(r.Align),
		})
	}
	return nil
}

func resolveText(f *fileScene, scene *starchart.SceneDescriptor) {
	t := f.Text
	size := t.SizePx
	if size <= 0 {
		size = defaultTextSize
	}
	scene.Text = starchart.TextStyle{
		SizePx:   size,
		Color:    t.Color.or(starchart.MustColor("#cfe8ff")),
		Tracking: t.Tracking,
		FontPath: t.Font,
	}
}

func resolvePost(f *fileScene, scene *starchart.SceneDescriptor) {
	p := f.Post

	sigmas := p.Bloom.Sigmas
	if len(sigmas) == 0 {
		sigmas = p.Bloom.Radii
	}
	intensities := p.Bloom.Intensities
	if len(intensities) == 0 && p.Bloom.Intensity != nil {
		intensities = make([]float64, len(sigmas))
		for i := range intensities {
			intensities[i] = *p.Bloom.Intensity
		}
	}

	pixels := floatOr(p.Aberration.Pixels, 0)
	if p.Aberration.Pixels == nil && p.Aberration.K != nil {
		pixels = *p.Aberration.K * float64(scene.Resolution.Width)
	}

	scene.Post = starchart.PostProcessSpec{
		Bloom: starchart.BloomSpec{
			Threshold:   floatOr(p.Bloom.Threshold, defaultThreshold),
			Sigmas:      sigmas,
			Intensities: intensities,
		},
		Anamorphic: starchart.StreakSpec{
			Enabled:   p.Anamorphic.Enabled,
			LengthPx:  p.Anamorphic.LengthPx,
			Intensity: p.Anamorphic.Intensity,
		},
		Aberration: starchart.AberrationSpec{
			Pixels: pixels,
			Center: p.Aberration.Center,
		},
		Vignette: p.Vignette,
		Grain:    p.Grain,
		Gamma:    floatOr(p.Gamma, defaultGamma),
	}
}

func resolveHUD(f *fileScene, scene *starchart.SceneDescriptor) {
	h := f.HUD
	hud := starchart.HUDSpec{
		Enabled:            h.Enabled,
		Emissive:           h.Emissive,
		UseDefaultReadouts: boolOr(h.UseDefaultReadouts, true),
	}
	for _, r := range h.Readouts {
		hud.Readouts = append(hud.Readouts, starchart.HUDReadout{
			Text:      r.Text,
			Position:  r.Position,
			Alignment: parseAlignment(r.Align),
		})
	}
	scene.HUD = hud
}

func parseAlignment(s string) starchart.Alignment {
	switch starchart.Alignment(s) {
	case starchart.AlignStart, starchart.AlignEnd:
		return starchart.Alignment(s)
	default:
		return starchart.AlignCenter
	}
}

func floatOr(v *float64, fallback float64) float64 {
	if v != nil {
		return *v
	}
	return fallback
}

func boolOr(v *bool, fallback bool) bool {
	if v != nil {
		return *v
	}
	return fallback
}

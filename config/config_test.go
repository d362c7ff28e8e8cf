package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/starchart"
)

const sampleScene = `
seed: 7
resolution:
  width: 640
  height: 480
  ssaa: 2
camera:
  pitch_deg: 62
  fov_deg: 28
rings:
  - radius: 1.0
    width: 0.012
    color: "#7fd4ff"
    halo_color: "#2b6cb0"
    glow: 1.4
    dash: [6, 4]
    ticks:
      every_deg: [30, 10]
      length_px: [6, 12]
    label: "RELAY ORBIT"
    label_angle_deg: 120
  - radius: 0.62
    width: 0.008
    color: [1.0, 0.6, 0.9]
stars:
  bulge:
    count: 20000
    sigma: 0.2
    falloff_alpha: 3.2
  background:
    count: 6000
    min_r: 0.35
    max_r: 1.0
  warm_color: "#ff6a00"
readouts:
  - text: "SECTOR 7G"
    ring: 0
    angle_deg: 250
    kind: arc
text:
  size_px: 18
  color: "#cfe8ff"
  tracking: 0.5
post:
  bloom:
    threshold: 1.1
    sigmas: [2.5, 5, 10]
    intensities: [0.4, 0.25, 0.1]
  anamorphic:
    enabled: true
    length_px: 160
    intensity: 0.12
  chromatic_aberration:
    pixels: 1.5
  vignette: 0.12
  grain: 0.015
hud:
  enabled: true
  emissive: 1.2
`

func TestParseSampleScene(t *testing.T) {
	scene, err := Parse([]byte(sampleScene))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if scene.Seed != 7 {
		t.Errorf("Seed = %d, want 7", scene.Seed)
	}
	if scene.Resolution != (starchart.Resolution{Width: 640, Height: 480, SSAA: 2}) {
		t.Errorf("Resolution = %+v", scene.Resolution)
	}
	if scene.Camera.PitchDeg != 62 || scene.Camera.FOVDeg != 28 {
		t.Errorf("Camera = %+v", scene.Camera)
	}
	if len(scene.Rings) != 2 {
		t.Fatalf("len(Rings) = %d, want 2", len(scene.Rings))
	}

	ring := scene.Rings[0]
	if ring.Label != "RELAY ORBIT" || ring.LabelAngleDeg != 120 {
		t.Errorf("ring label = %q @ %v", ring.Label, ring.LabelAngleDeg)
	}
	if ring.Ticks == nil || len(ring.Ticks.EveryDeg) != 2 {
		t.Fatalf("ring ticks = %+v", ring.Ticks)
	}
	if ring.Ticks.Alpha != 0.85 || ring.Ticks.Weight != 1 {
		t.Errorf("tick defaults = alpha %v weight %v", ring.Ticks.Alpha, ring.Ticks.Weight)
	}
	if len(ring.Dash) != 2 {
		t.Errorf("dash = %v", ring.Dash)
	}

	// Sequence-form color.
	second := scene.Rings[1]
	if math.Abs(second.Color.G-0.6) > 1e-9 {
		t.Errorf("sequence color = %+v", second.Color)
	}
	// Halo defaults to the ring color when unset.
	if second.HaloColor != second.Color {
		t.Errorf("halo = %+v, want ring color %+v", second.HaloColor, second.Color)
	}

	if scene.Stars.Bulge.Count != 20000 || scene.Stars.Background.Count != 6000 {
		t.Errorf("star counts = %+v", scene.Stars)
	}
	if scene.Stars.BrightnessPower != 1.8 {
		t.Errorf("BrightnessPower default = %v, want 1.8", scene.Stars.BrightnessPower)
	}

	if len(scene.Readouts) != 1 || scene.Readouts[0].Placement.Kind != starchart.PlacementArc {
		t.Errorf("readouts = %+v", scene.Readouts)
	}
	if scene.Readouts[0].Alignment != starchart.AlignCenter {
		t.Errorf("readout alignment default = %v", scene.Readouts[0].Alignment)
	}

	if scene.Post.Gamma != 2.2 {
		t.Errorf("Gamma default = %v, want 2.2", scene.Post.Gamma)
	}
	if scene.Post.Aberration.Pixels != 1.5 {
		t.Errorf("aberration pixels = %v", scene.Post.Aberration.Pixels)
	}
	if !scene.HUD.Enabled || !scene.HUD.UseDefaultReadouts {
		t.Errorf("HUD = %+v", scene.HUD)
	}
}

func TestParseEmptySceneGetsDefaults(t *testing.T) {
	scene, err := Parse([]byte("seed: 1"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if scene.Resolution.Width != defaultWidth || scene.Resolution.Height != defaultHeight {
		t.Errorf("default resolution = %+v", scene.Resolution)
	}
	if scene.Resolution.SSAA != 1 {
		t.Errorf("default ssaa = %d, want 1", scene.Resolution.SSAA)
	}
	if scene.Camera.PitchDeg != defaultPitchDeg || scene.Camera.FOVDeg != defaultFOVDeg {
		t.Errorf("default camera = %+v", scene.Camera)
	}
	if scene.Text.SizePx != defaultTextSize {
		t.Errorf("default text size = %v", scene.Text.SizePx)
	}
}

func TestLegacyTiltDeg(t *testing.T) {
	scene, err := Parse([]byte("camera:\n  tilt_deg: 45\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if scene.Camera.PitchDeg != 45 {
		t.Errorf("tilt_deg alias: PitchDeg = %v, want 45", scene.Camera.PitchDeg)
	}

	// Canonical spelling wins over the alias.
	scene, err = Parse([]byte("camera:\n  pitch_deg: 30\n  tilt_deg: 45\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if scene.Camera.PitchDeg != 30 {
		t.Errorf("pitch_deg should win: got %v", scene.Camera.PitchDeg)
	}
}

func TestLegacyChromaticK(t *testing.T) {
	scene, err := Parse([]byte(`
resolution:
  width: 1000
  height: 1000
post:
  chromatic_aberration:
    k: 0.002
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if math.Abs(scene.Post.Aberration.Pixels-2) > 1e-9 {
		t.Errorf("k alias: Pixels = %v, want 2 (0.002 of width)", scene.Post.Aberration.Pixels)
	}
}

func TestLegacyBloomRadiiAndIntensity(t *testing.T) {
	scene, err := Parse([]byte(`
post:
  bloom:
    radii: [2.5, 5.0, 10.0]
    intensity: 0.3
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	bloom := scene.Post.Bloom
	if len(bloom.Sigmas) != 3 || bloom.Sigmas[2] != 10 {
		t.Errorf("radii alias: Sigmas = %v", bloom.Sigmas)
	}
	if len(bloom.Intensities) != 3 || bloom.Intensities[0] != 0.3 {
		t.Errorf("intensity alias: Intensities = %v", bloom.Intensities)
	}
	if bloom.Threshold != defaultThreshold {
		t.Errorf("Threshold default = %v", bloom.Threshold)
	}
}

func TestLabelAngleDefaultsAndExplicitZero(t *testing.T) {
	scene, err := Parse([]byte("rings:\n  - radius: 1\n    width: 0.01\n    label: ALPHA\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if scene.Rings[0].LabelAngleDeg != 90 {
		t.Errorf("absent label_angle_deg = %v, want default 90", scene.Rings[0].LabelAngleDeg)
	}

	scene, err = Parse([]byte("rings:\n  - radius: 1\n    width: 0.01\n    label: ALPHA\n    label_angle_deg: 0\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if scene.Rings[0].LabelAngleDeg != 0 {
		t.Errorf("explicit label_angle_deg 0 = %v, want 0", scene.Rings[0].LabelAngleDeg)
	}
}

func TestLegacyTicksEveryDeg(t *testing.T) {
	scene, err := Parse([]byte(`
rings:
  - radius: 1.0
    width: 0.01
    ticks_every_deg: 15
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ticks := scene.Rings[0].Ticks
	if ticks == nil {
		t.Fatalf("legacy ticks_every_deg produced no tick spec")
	}
	if len(ticks.EveryDeg) != 1 || ticks.EveryDeg[0] != 15 {
		t.Errorf("EveryDeg = %v, want [15]", ticks.EveryDeg)
	}
	if ticks.LengthPx != [2]float64{6, 12} || ticks.Alpha != 0.85 || ticks.Weight != 1 {
		t.Errorf("stock tick fields = %+v", ticks)
	}
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative radius", "rings:\n  - radius: -1\n    width: 0.01\n"},
		{"zero radius", "rings:\n  - radius: 0\n    width: 0.01\n"},
		{"negative ring width", "rings:\n  - radius: 1\n    width: -0.5\n"},
		{"ssaa out of range", "resolution:\n  ssaa: 9\n"},
		{"bad color", "rings:\n  - radius: 1\n    width: 0.01\n    color: \"#zzz\"\n"},
		{"readout ring out of range", "readouts:\n  - text: X\n    ring: 3\n"},
		{"background band inverted", "stars:\n  background:\n    count: 5\n    min_r: 0.9\n    max_r: 0.2\n"},
		{"bulge without sigma", "stars:\n  bulge:\n    count: 10\n"},
		{"not yaml", ": ["},
	}
	for _, tt := range tests {
		if _, err := Parse([]byte(tt.yaml)); err == nil {
			t.Errorf("%s: Parse succeeded, want error", tt.name)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(sampleScene), 0o644); err != nil {
		t.Fatalf("write temp scene: %v", err)
	}
	scene, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if scene.Seed != 7 {
		t.Errorf("Seed = %d, want 7", scene.Seed)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Errorf("Load of a missing file succeeded")
	}
}

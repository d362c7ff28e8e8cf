package starchart

import (
	"fmt"
	"os"
	"time"

	"github.com/gogpu/starchart/internal/raster"
	"github.com/gogpu/starchart/text"
)

// Image is the float accumulation buffer rendering works in: linear
// light, three float32 channels, unclamped until tone mapping.
type Image = raster.Image

// Layer names available in RenderResult.Layers.
const (
	LayerStars       = "stars"
	LayerUICore      = "ui_core"
	LayerUIGlow      = "ui_glow"
	LayerFinalLinear = "final_linear"
)

// RenderResult holds the finished frame plus the intermediate layers at
// output resolution.
type RenderResult struct {
	// Image is the tone-mapped display frame, clamped to [0, 1].
	Image *Image

	// Layers holds the downsampled intermediates: LayerStars, LayerUICore,
	// LayerUIGlow and LayerFinalLinear (the post-processed frame before
	// tone mapping).
	Layers map[string]*Image

	// Seed is the seed the render actually used.
	Seed int64
}

// EncodePNG encodes the display frame.
func (r *RenderResult) EncodePNG() ([]byte, error) {
	return raster.EncodePNG(r.Image)
}

// SavePNG writes the display frame to path.
func (r *RenderResult) SavePNG(path string) error {
	data, err := r.EncodePNG()
	if err != nil {
		return fmt.Errorf("starchart: encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("starchart: write %s: %w", path, err)
	}
	return nil
}

// Option configures a render.
type Option func(*renderConfig)

type renderConfig struct {
	seed    int64
	seedSet bool
	face    text.Face
}

// WithSeed overrides the scene's seed for this render.
func WithSeed(seed int64) Option {
	return func(c *renderConfig) {
		c.seed = seed
		c.seedSet = true
	}
}

// WithFace overrides the text face for this render, bypassing the
// scene's FontPath resolution.
func WithFace(face text.Face) Option {
	return func(c *renderConfig) { c.face = face }
}

// resolveFace picks the text face for a scene: an explicit override
// wins, then a configured font file, then the built-in bitmap face.
// OpenType faces are wrapped in the shaping face so label footprints
// account for kerning.
func resolveFace(scene *SceneDescriptor, cfg renderConfig) (text.Face, error) {
	if cfg.face != nil {
		return cfg.face, nil
	}
	if scene.Text.FontPath == "" {
		return text.BitmapFace{}, nil
	}
	size := scene.Text.SizePx
	if size <= 0 {
		size = 18
	}
	otf, err := text.LoadOpenTypeFace(scene.Text.FontPath, size)
	if err != nil {
		return nil, fmt.Errorf("starchart: load font %s: %w", scene.Text.FontPath, err)
	}
	return text.NewShapedFace(otf), nil
}

// Render executes the full pipeline for a scene: star field sampling,
// ring/tick/label/HUD rasterization, glow compositing, the post chain
// and the final box downsample. Identical scene and seed produce
// byte-identical results.
func Render(scene *SceneDescriptor, opts ...Option) (*RenderResult, error) {
	var cfg renderConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	seed := scene.Seed
	if cfg.seedSet {
		seed = cfg.seed
	}
	face, err := resolveFace(scene, cfg)
	if err != nil {
		return nil, err
	}

	res := scene.Resolution
	if res.Width <= 0 || res.Height <= 0 {
		return nil, fmt.Errorf("starchart: invalid resolution %dx%d", res.Width, res.Height)
	}
	ssaa := res.SSAA
	if ssaa < 1 {
		ssaa = 1
	}
	log := Logger()
	start := time.Now()

	rng := newSeededRand(seed)
	proj := NewProjection(res, scene.Camera, scene.Rings)

	stars := generateStarField(scene.Stars, proj, rng, ssaa)
	starLayer := renderStarField(stars, proj.Width, proj.Height)
	log.Debug("star field rendered", "stars", len(stars), "elapsed", time.Since(start))

	uiCore := raster.NewImage(proj.Width, proj.Height)
	ringGlow := raster.NewImage(proj.Width, proj.Height)
	for _, ring := range scene.Rings {
		drawRing(uiCore, ringGlow, proj, ring, ssaa)
	}

	textLayer := renderLabelLayer(scene, proj, face, ssaa)
	textLayer.Add(renderHUDLayer(scene, face, ssaa))
	uiCore.Add(textLayer)

	// Glow: the ring halo pass gets the wide blur, text a tighter one.
	uiGlow := raster.GaussianBlur(ringGlow, 3*float64(ssaa))
	uiGlow.Add(raster.GaussianBlur(textLayer, 2*float64(ssaa)))
	log.Debug("ui layers rendered", "rings", len(scene.Rings), "elapsed", time.Since(start))

	composite := starLayer.Clone()
	composite.Add(uiCore)
	composite.Add(uiGlow)

	// Post chain at supersampled resolution. Blur sigmas, streak length
	// and grain amplitude scale up with ssaa; the aberration shift scales
	// down so its displacement is expressed in output pixels.
	post := scene.Post
	bloom := post.Bloom
	bloom.Sigmas = append([]float64(nil), post.Bloom.Sigmas...)
	for i := range bloom.Sigmas {
		bloom.Sigmas[i] *= float64(ssaa)
	}
	result, bright := applyBloom(composite, bloom)

	streak := post.Anamorphic
	streak.LengthPx *= float64(ssaa)
	applyAnamorphicStreak(result, bright, streak)

	aberration := post.Aberration
	aberration.Pixels /= float64(ssaa)
	result = applyChromaticAberration(result, aberration)

	applyVignette(result, post.Vignette)
	addGrain(result, rng, post.Grain*float64(ssaa))

	finalLinear := result.Clone()
	toneMapACES(result, post.Gamma)
	result.Clamp(0, 1)
	log.Debug("post chain done", "elapsed", time.Since(start))

	out := &RenderResult{
		Image: raster.Downsample(result, ssaa),
		Layers: map[string]*Image{
			LayerStars:       raster.Downsample(starLayer, ssaa),
			LayerUICore:      raster.Downsample(uiCore, ssaa),
			LayerUIGlow:      raster.Downsample(uiGlow, ssaa),
			LayerFinalLinear: raster.Downsample(finalLinear, ssaa),
		},
		Seed: seed,
	}
	out.Image.Clamp(0, 1)
	log.Debug("render complete",
		"size", fmt.Sprintf("%dx%d", res.Width, res.Height),
		"ssaa", ssaa,
		"seed", seed,
		"elapsed", time.Since(start))
	return out, nil
}

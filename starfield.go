package starchart

import (
	"math"
	"math/rand"

	"github.com/gogpu/starchart/internal/raster"
)

// Star is one sampled point-light, ready to splat. Stars are created by
// the sampler, consumed once by rasterization, then discarded.
type Star struct {
	X, Y      float64
	Radius    float64
	Intensity float64
	Color     Color
}

// sampleBulgeRadius draws a radius from the inverse-power-law falloff
// with scale sigma and exponent alpha, by inverting the CDF of r^(1-α)
// over [ε, σ]. The α≈1 case degenerates to an exponential in log space.
func sampleBulgeRadius(rng *rand.Rand, sigma, alpha float64) float64 {
	if sigma < 1e-4 {
		sigma = 1e-4
	}
	epsilon := sigma*0.12 + 1e-4
	var value float64
	if math.Abs(alpha-1) < 1e-6 {
		span := math.Log((sigma + epsilon) / epsilon)
		value = math.Exp(rng.Float64()*span)*epsilon - epsilon
	} else {
		exponent := 1 - alpha
		base := math.Pow(sigma+epsilon, exponent) - math.Pow(epsilon, exponent)
		value = math.Pow(rng.Float64()*base+math.Pow(epsilon, exponent), 1/exponent) - epsilon
	}
	return clamp(value, 0, sigma)
}

// powerLawBrightness draws a brightness weight in [0, 1] distributed as
// u^power. power 1 is uniform; power 2 has mean 1/3, biasing dim.
// power <= 0 falls back to uniform.
func powerLawBrightness(rng *rand.Rand, power float64) float64 {
	u := rng.Float64()
	if power <= 0 {
		return u
	}
	return math.Pow(u, power)
}

// sampleBackgroundPosition places one background star. When the annulus
// is non-degenerate the position is drawn with uniform area density
// (square-root trick) and projected; otherwise it is uniform over the
// frame at backdrop depth. Jitter is added in screen space either way.
func sampleBackgroundPosition(rng *rand.Rand, proj Projection, spec BackgroundSpec) (x, y, depth float64) {
	if spec.MaxR > spec.MinR {
		u := rng.Float64()
		radius := math.Sqrt(u*(spec.MaxR*spec.MaxR-spec.MinR*spec.MinR) + spec.MinR*spec.MinR)
		angle := rng.Float64() * 2 * math.Pi
		x, y, depth = proj.Project(radius, angle)
	} else {
		x = rng.Float64() * float64(proj.Width)
		y = rng.Float64() * float64(proj.Height)
		depth = proj.Distance
	}
	jitter := spec.Jitter * proj.BaseRadius
	x += (rng.Float64()*2 - 1) * jitter
	y += (rng.Float64()*2 - 1) * jitter * 0.6
	return x, y, depth
}

// generateStarField samples the full star list: all bulge stars first,
// then all background stars. The ordering matters only for seed
// reproducibility; rendering is purely additive.
func generateStarField(spec StarFieldSpec, proj Projection, rng *rand.Rand, ssaa int) []Star {
	stars := make([]Star, 0, spec.Bulge.Count+spec.Background.Count)

	for i := 0; i < spec.Bulge.Count; i++ {
		angle := rng.Float64() * 2 * math.Pi
		radius := sampleBulgeRadius(rng, spec.Bulge.Sigma, spec.Bulge.FalloffAlpha)
		x, y, depth := proj.Project(radius, angle)
		scale := proj.depthScale(depth, 0.4, 2.2)
		size := uniformIn(rng, spec.Bulge.SizePx) * float64(ssaa) * clamp(scale, 0.7, 1.8)
		// Tightness biases the color mix toward the hot end near the
		// center of the bulge.
		tightness := clamp(1-radius/math.Max(spec.Bulge.Sigma, 1e-3), 0, 1)
		colorMix := clamp(math.Pow(tightness, 0.85)+rng.Float64()*0.2, 0, 1)
		color := spec.WarmColor.Mix(spec.HotColor, colorMix)
		intensity := (1.15 + rng.Float64()*1.5) * clamp(math.Pow(scale, 0.6), 0.6, 1.9)
		stars = append(stars, Star{X: x, Y: y, Radius: size, Intensity: intensity, Color: color})
	}

	for i := 0; i < spec.Background.Count; i++ {
		x, y, depth := sampleBackgroundPosition(rng, proj, spec.Background)
		scale := proj.depthScale(depth, 0.5, 1.6)
		size := uniformIn(rng, spec.Background.SizePx) * float64(ssaa) * clamp(scale, 0.6, 1.4)
		weight := powerLawBrightness(rng, spec.BrightnessPower)
		intensity := 0.35 + 0.65*weight
		hueMix := clamp(rng.Float64()*0.35+0.2, 0, 1)
		color := spec.BackgroundColor.Mix(spec.WarmColor, hueMix)
		stars = append(stars, Star{X: x, Y: y, Radius: size, Intensity: intensity, Color: color})
	}

	return stars
}

// renderStarField splats every star as an additive Gaussian into a fresh
// supersampled layer. Overlapping stars brighten rather than occlude.
func renderStarField(stars []Star, width, height int) *raster.Image {
	layer := raster.NewImage(width, height)
	for _, star := range stars {
		sigma := math.Max(0.5, star.Radius/2)
		layer.AddGaussian(star.X, star.Y, sigma, float32(star.Intensity), star.Color.rgb32())
	}
	return layer
}

// newSeededRand builds the deterministic source every stochastic stage
// draws from. One source per render, consumed in a fixed stage order.
func newSeededRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// uniformIn draws uniformly from the inclusive range r.
func uniformIn(rng *rand.Rand, r [2]float64) float64 {
	return r[0] + rng.Float64()*(r[1]-r[0])
}

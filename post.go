package starchart

import (
	"math"
	"math/rand"

	"github.com/chewxy/math32"

	"github.com/gogpu/starchart/internal/raster"
)

// brightPass extracts the bloom source: pixels whose Rec.709 luma
// exceeds the threshold keep their color scaled by the over-threshold
// fraction, everything else goes to black.
func brightPass(src *raster.Image, threshold float64) *raster.Image {
	out := raster.NewImage(src.Width(), src.Height())
	srcPix := src.Pix()
	outPix := out.Pix()
	t := float32(threshold)
	raster.ParallelRows(src.Height(), func(y0, y1 int) {
		for i := y0 * src.Width() * 3; i < y1*src.Width()*3; i += 3 {
			r, g, b := srcPix[i], srcPix[i+1], srcPix[i+2]
			luma := 0.2126*r + 0.7152*g + 0.0722*b
			if luma <= 1e-5 || luma <= t {
				continue
			}
			factor := (luma - t) / luma
			outPix[i] = r * factor
			outPix[i+1] = g * factor
			outPix[i+2] = b * factor
		}
	})
	return out
}

// selectDownsampleFactor picks the power-of-two reduction for a blur
// sigma: halve until the effective sigma is modest or the reduced image
// would drop below a useful size.
func selectDownsampleFactor(width, height int, sigma float64) int {
	factor := 1
	for sigma/float64(factor) > 6 {
		next := factor * 2
		if min(width/next, height/next) < 8 {
			break
		}
		factor = next
	}
	return factor
}

// blurKey memoizes blurred pyramid levels per (factor, sigma). Sigma is
// quantized so float noise from per-level sigma division cannot split
// cache entries.
type blurKey struct {
	factor int
	sigmaQ int64
}

// bloomPyramid caches the downsampled and blurred copies of one bright
// pass for the duration of a single render. Levels are built lazily and
// recursively (factor 4 downsamples from factor 2), so multi-sigma bloom
// configurations share work.
type bloomPyramid struct {
	down    map[int]*raster.Image
	blurred map[blurKey]*raster.Image
}

func newBloomPyramid(bright *raster.Image) *bloomPyramid {
	return &bloomPyramid{
		down:    map[int]*raster.Image{1: bright},
		blurred: map[blurKey]*raster.Image{},
	}
}

func (p *bloomPyramid) downsampled(factor int) *raster.Image {
	if im, ok := p.down[factor]; ok {
		return im
	}
	im := raster.Downsample(p.downsampled(factor/2), 2)
	p.down[factor] = im
	return im
}

func (p *bloomPyramid) blurredLevel(factor int, sigma float64) *raster.Image {
	key := blurKey{factor: factor, sigmaQ: int64(math.Round(sigma * 1e6))}
	if im, ok := p.blurred[key]; ok {
		return im
	}
	im := raster.GaussianBlur(p.downsampled(factor), sigma)
	p.blurred[key] = im
	return im
}

// applyBloom adds the multi-sigma bloom to a copy of src and returns it
// together with the bright pass (the streak stage reuses the latter).
// Sigma/intensity pairs beyond the shorter slice are ignored.
func applyBloom(src *raster.Image, spec BloomSpec) (result, bright *raster.Image) {
	result = src.Clone()
	bright = brightPass(src, spec.Threshold)

	passes := min(len(spec.Sigmas), len(spec.Intensities))
	if passes == 0 {
		return result, bright
	}
	pyramid := newBloomPyramid(bright)
	for i := 0; i < passes; i++ {
		sigma := spec.Sigmas[i]
		intensity := spec.Intensities[i]
		if sigma <= 0 || intensity == 0 {
			continue
		}
		factor := selectDownsampleFactor(src.Width(), src.Height(), sigma)
		blurred := pyramid.blurredLevel(factor, sigma/float64(factor))
		if factor > 1 {
			blurred = raster.ResampleNearest(blurred, src.Width(), src.Height())
		}
		result.AddScaled(blurred, float32(intensity))
	}
	return result, bright
}

// applyAnamorphicStreak adds a horizontal-only blur of the bright pass,
// emulating an anamorphic lens flare. The blur sigma derives from the
// configured streak length; long streaks blur a downsampled copy, with
// the same factor selection as bloom, and resample back.
func applyAnamorphicStreak(dst, bright *raster.Image, spec StreakSpec) {
	if !spec.Enabled || spec.Intensity == 0 || spec.LengthPx <= 0 {
		return
	}
	sigma := math.Max(1, spec.LengthPx/6)
	factor := selectDownsampleFactor(bright.Width(), bright.Height(), sigma)
	src := bright
	if factor > 1 {
		src = raster.Downsample(bright, factor)
	}
	streak := raster.HorizontalGaussianBlur(src, sigma/float64(factor))
	if factor > 1 {
		streak = raster.ResampleNearest(streak, bright.Width(), bright.Height())
	}
	dst.AddScaled(streak, float32(spec.Intensity))
}

// applyChromaticAberration shifts the red and blue channels radially in
// opposite directions, scaled by distance from the center. Green stays
// fixed; shifted samples are bilinear.
func applyChromaticAberration(src *raster.Image, spec AberrationSpec) *raster.Image {
	if math.Abs(spec.Pixels) < 1e-6 {
		return src.Clone()
	}
	width, height := src.Width(), src.Height()
	centerX := (float64(width) - 1) / 2
	centerY := (float64(height) - 1) / 2
	if spec.Center != nil {
		centerX, centerY = spec.Center[0], spec.Center[1]
	}
	maxRadius := math.Max(1, math.Hypot(
		math.Max(centerX, float64(width)-1-centerX),
		math.Max(centerY, float64(height)-1-centerY),
	))

	out := raster.NewImage(width, height)
	outPix := out.Pix()
	raster.ParallelRows(height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < width; x++ {
				dx := float64(x) - centerX
				dy := float64(y) - centerY
				radius := math.Hypot(dx, dy)
				idx := (y*width + x) * 3
				if radius < 1e-6 {
					c := src.At(x, y)
					outPix[idx], outPix[idx+1], outPix[idx+2] = c.R, c.G, c.B
					continue
				}
				shift := (radius / maxRadius) * spec.Pixels
				ux := dx / radius
				uy := dy / radius
				red := src.Sample(float64(x)+ux*shift, float64(y)+uy*shift)
				blue := src.Sample(float64(x)-ux*shift, float64(y)-uy*shift)
				outPix[idx] = red.R
				outPix[idx+1] = src.At(x, y).G
				outPix[idx+2] = blue.B
			}
		}
	})
	return out
}

// applyVignette darkens pixels by a radial falloff with exponent 1.5.
// Strength 0 is the identity.
func applyVignette(im *raster.Image, strength float64) {
	if strength <= 0 {
		return
	}
	width, height := im.Width(), im.Height()
	centerX := (float64(width) - 1) / 2
	centerY := (float64(height) - 1) / 2
	maxRadius := math.Max(1, math.Hypot(centerX, centerY))
	pix := im.Pix()
	raster.ParallelRows(height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < width; x++ {
				radius := math.Hypot(float64(x)-centerX, float64(y)-centerY)
				factor := float32(clamp(1-strength*math.Pow(radius/maxRadius, 1.5), 0, 1))
				idx := (y*width + x) * 3
				pix[idx] *= factor
				pix[idx+1] *= factor
				pix[idx+2] *= factor
			}
		}
	})
}

// addGrain adds zero-mean Gaussian noise, identical across the three
// channels of a pixel so grain stays monochrome. Runs sequentially: the
// noise stream must consume the seeded source in a fixed order.
func addGrain(im *raster.Image, rng *rand.Rand, amount float64) {
	if amount <= 0 {
		return
	}
	pix := im.Pix()
	for i := 0; i < len(pix); i += 3 {
		noise := float32(rng.NormFloat64() * amount)
		for c := 0; c < 3; c++ {
			v := pix[i+c] + noise
			if v < 0 {
				v = 0
			}
			pix[i+c] = v
		}
	}
}

// toneMapACES applies the ACES filmic approximation per channel, clamps
// to [0, 1], then applies the display gamma decode.
func toneMapACES(im *raster.Image, gamma float64) {
	exponent := float32(1 / math.Max(gamma, 1e-3))
	pix := im.Pix()
	raster.ParallelRows(im.Height(), func(y0, y1 int) {
		for i := y0 * im.Width() * 3; i < y1*im.Width()*3; i++ {
			x := pix[i]
			v := (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
			if v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			pix[i] = math32.Pow(v, exponent)
		}
	})
}

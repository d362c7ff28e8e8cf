// Package raster implements the linear-light accumulation buffer the
// renderer draws into, together with the convolution and resampling
// machinery built on top of it.
//
// An Image stores unclamped float32 RGB values. Compositing is additive:
// overlapping splats brighten rather than occlude, which is physically
// meaningful in linear light and is what every drawing stage relies on.
// Methods document whether they mutate the receiver or allocate a new
// buffer; no method ever aliases another image's storage.
package raster

import (
	"github.com/chewxy/math32"
)

// RGB is a linear-light color sample. Components are not premultiplied
// and not clamped; values above 1 are meaningful before tone mapping.
type RGB struct {
	R, G, B float32
}

// Image is a width×height grid of linear-light RGB float32 samples.
type Image struct {
	width  int
	height int
	pix    []float32 // RGB interleaved, len = width*height*3
}

// NewImage creates a zero-filled image.
func NewImage(width, height int) *Image {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Image{
		width:  width,
		height: height,
		pix:    make([]float32, width*height*3),
	}
}

// Width returns the width in pixels.
func (im *Image) Width() int { return im.width }

// Height returns the height in pixels.
func (im *Image) Height() int { return im.height }

// Pix returns the raw interleaved RGB storage. The slice is owned by the
// image; callers must not hold it across a method that allocates.
func (im *Image) Pix() []float32 { return im.pix }

// Clone returns a new image with copied storage.
func (im *Image) Clone() *Image {
	out := &Image{width: im.width, height: im.height, pix: make([]float32, len(im.pix))}
	copy(out.pix, im.pix)
	return out
}

func (im *Image) index(x, y int) int { return (y*im.width + x) * 3 }

// At returns the sample at (x, y). Out-of-bounds coordinates return zero.
func (im *Image) At(x, y int) RGB {
	if x < 0 || x >= im.width || y < 0 || y >= im.height {
		return RGB{}
	}
	i := im.index(x, y)
	return RGB{R: im.pix[i], G: im.pix[i+1], B: im.pix[i+2]}
}

// AddPixel additively blends color*intensity into the pixel at (x, y).
// Out-of-bounds coordinates are ignored. Mutates the receiver.
func (im *Image) AddPixel(x, y int, c RGB, intensity float32) {
	if x < 0 || x >= im.width || y < 0 || y >= im.height {
		return
	}
	i := im.index(x, y)
	im.pix[i] += c.R * intensity
	im.pix[i+1] += c.G * intensity
	im.pix[i+2] += c.B * intensity
}

// AddDisc additively stamps a hard-edged disc. Mutates the receiver.
func (im *Image) AddDisc(cx, cy, radius float64, c RGB, intensity float32) {
	r2 := float32(radius * radius)
	x0 := clampInt(int(cx-radius-1), 0, im.width)
	x1 := clampInt(int(cx+radius+2), 0, im.width)
	y0 := clampInt(int(cy-radius-1), 0, im.height)
	y1 := clampInt(int(cy+radius+2), 0, im.height)
	fcx, fcy := float32(cx), float32(cy)
	for y := y0; y < y1; y++ {
		dy := float32(y) - fcy
		row := y * im.width
		for x := x0; x < x1; x++ {
			dx := float32(x) - fcx
			if dx*dx+dy*dy > r2 {
				continue
			}
			i := (row + x) * 3
			im.pix[i] += c.R * intensity
			im.pix[i+1] += c.G * intensity
			im.pix[i+2] += c.B * intensity
		}
	}
}

// AddGaussian additively stamps a 2-D Gaussian splat of the given sigma,
// using the process-wide splat kernel cache. The patch is anchored at the
// rounded center, so the cache can be cleared at any time without
// changing output. Mutates the receiver.
func (im *Image) AddGaussian(cx, cy, sigma float64, intensity float32, c RGB) {
	if sigma <= 0 {
		return
	}
	p := splatPatch(sigma)
	size := p.radius*2 + 1
	x0 := int(math32.Round(float32(cx))) - p.radius
	y0 := int(math32.Round(float32(cy))) - p.radius

	py0 := 0
	if y0 < 0 {
		py0 = -y0
	}
	px0 := 0
	if x0 < 0 {
		px0 = -x0
	}
	py1 := size
	if y0+size > im.height {
		py1 = im.height - y0
	}
	px1 := size
	if x0+size > im.width {
		px1 = im.width - x0
	}
	for py := py0; py < py1; py++ {
		row := (y0 + py) * im.width
		prow := py * size
		for px := px0; px < px1; px++ {
			w := p.weights[prow+px] * intensity
			i := (row + x0 + px) * 3
			im.pix[i] += c.R * w
			im.pix[i+1] += c.G * w
			im.pix[i+2] += c.B * w
		}
	}
}

// AddLine additively stamps a thick line segment as a run of discs spaced
// one pixel apart along the major axis. Mutates the receiver.
func (im *Image) AddLine(x0, y0, x1, y1 float64, c RGB, width float64, intensity float32) {
	dx := x1 - x0
	dy := y1 - y0
	length := math32.Abs(float32(dx))
	if a := math32.Abs(float32(dy)); a > length {
		length = a
	}
	radius := width * 0.5
	if radius < 0.5 {
		radius = 0.5
	}
	if length == 0 {
		im.AddDisc(x0, y0, radius, c, intensity)
		return
	}
	steps := int(length) + 1
	inv := 1.0 / float64(steps)
	for i := 0; i <= steps; i++ {
		t := float64(i) * inv
		im.AddDisc(x0+dx*t, y0+dy*t, radius, c, intensity)
	}
}

// AddMask additively blends a coverage mask, tinted by color*intensity,
// with its top-left corner at (x0, y0). cov is a w×h row-major coverage
// grid in [0, 1]. Mutates the receiver.
func (im *Image) AddMask(cov []float32, w, h, x0, y0 int, c RGB, intensity float32) {
	if intensity == 0 || w <= 0 || h <= 0 {
		return
	}
	for my := 0; my < h; my++ {
		y := y0 + my
		if y < 0 || y >= im.height {
			continue
		}
		row := y * im.width
		mrow := my * w
		for mx := 0; mx < w; mx++ {
			x := x0 + mx
			if x < 0 || x >= im.width {
				continue
			}
			v := cov[mrow+mx]
			if v == 0 {
				continue
			}
			k := v * intensity
			i := (row + x) * 3
			im.pix[i] += c.R * k
			im.pix[i+1] += c.G * k
			im.pix[i+2] += c.B * k
		}
	}
}

// Add accumulates other into the receiver. Panics if sizes differ.
// Mutates the receiver.
func (im *Image) Add(other *Image) {
	im.ensureSameSize(other)
	for i, v := range other.pix {
		im.pix[i] += v
	}
}

// AddScaled accumulates other*scale into the receiver. Panics if sizes
// differ. Mutates the receiver.
func (im *Image) AddScaled(other *Image, scale float32) {
	if scale == 0 {
		return
	}
	im.ensureSameSize(other)
	for i, v := range other.pix {
		im.pix[i] += v * scale
	}
}

// Multiply scales every sample by factor. Mutates the receiver.
func (im *Image) Multiply(factor float32) {
	for i := range im.pix {
		im.pix[i] *= factor
	}
}

// Clamp limits every sample to [lo, hi]. Mutates the receiver.
func (im *Image) Clamp(lo, hi float32) {
	for i, v := range im.pix {
		if v < lo {
			im.pix[i] = lo
		} else if v > hi {
			im.pix[i] = hi
		}
	}
}

// Sum returns the total energy across all samples and channels.
func (im *Image) Sum() float64 {
	var total float64
	for _, v := range im.pix {
		total += float64(v)
	}
	return total
}

// Sample returns the bilinearly interpolated color at a fractional
// position. Positions within one pixel of the right/bottom edge, or
// outside the image, fall back to the nearest clamped sample.
func (im *Image) Sample(x, y float64) RGB {
	if x < 0 || x >= float64(im.width-1) || y < 0 || y >= float64(im.height-1) {
		ix := clampInt(int(x), 0, im.width-1)
		iy := clampInt(int(y), 0, im.height-1)
		return im.At(ix, iy)
	}
	x0 := int(x)
	y0 := int(y)
	wx := float32(x - float64(x0))
	wy := float32(y - float64(y0))
	i00 := im.index(x0, y0)
	i01 := i00 + 3
	i10 := im.index(x0, y0+1)
	i11 := i10 + 3
	var out RGB
	top := [3]float32{}
	bot := [3]float32{}
	for ch := 0; ch < 3; ch++ {
		top[ch] = im.pix[i00+ch]*(1-wx) + im.pix[i01+ch]*wx
		bot[ch] = im.pix[i10+ch]*(1-wx) + im.pix[i11+ch]*wx
	}
	out.R = top[0]*(1-wy) + bot[0]*wy
	out.G = top[1]*(1-wy) + bot[1]*wy
	out.B = top[2]*(1-wy) + bot[2]*wy
	return out
}

func (im *Image) ensureSameSize(other *Image) {
	if im.width != other.width || im.height != other.height {
		panic("raster: image sizes do not match")
	}
}

// clampInt clamps v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

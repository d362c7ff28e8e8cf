package raster

// GaussianBlur convolves the image with a separable Gaussian and returns
// a new buffer. The kernel is truncated (not renormalized) at the image
// edges, so energy falls off toward the border rather than smearing the
// edge pixels inward. sigma <= 0 returns a copy.
func GaussianBlur(src *Image, sigma float64) *Image {
	if sigma <= 0 {
		return src.Clone()
	}
	kernel, radius := cachedKernel1D(sigma)
	tmp := NewImage(src.width, src.height)
	convolveRows(src, tmp, kernel, radius)
	out := NewImage(src.width, src.height)
	convolveCols(tmp, out, kernel, radius)
	return out
}

// HorizontalGaussianBlur applies only the horizontal pass, producing the
// 1-D smear used by the anamorphic streak. Returns a new buffer.
func HorizontalGaussianBlur(src *Image, sigma float64) *Image {
	if sigma <= 0 {
		return src.Clone()
	}
	kernel, radius := cachedKernel1D(sigma)
	out := NewImage(src.width, src.height)
	convolveRows(src, out, kernel, radius)
	return out
}

func convolveRows(src, dst *Image, kernel []float32, radius int) {
	width, height := src.width, src.height
	ParallelRows(height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			srcRow := src.pix[y*width*3 : (y+1)*width*3]
			dstRow := dst.pix[y*width*3 : (y+1)*width*3]
			for x := 0; x < width; x++ {
				start := x - radius
				ki := 0
				if start < 0 {
					ki = -start
					start = 0
				}
				end := x + radius + 1
				if end > width {
					end = width
				}
				var r, g, b float32
				for xx := start; xx < end; xx++ {
					w := kernel[ki]
					i := xx * 3
					r += srcRow[i] * w
					g += srcRow[i+1] * w
					b += srcRow[i+2] * w
					ki++
				}
				i := x * 3
				dstRow[i] = r
				dstRow[i+1] = g
				dstRow[i+2] = b
			}
		}
	})
}

func convolveCols(src, dst *Image, kernel []float32, radius int) {
	width, height := src.width, src.height
	ParallelRows(height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			start := y - radius
			kiBase := 0
			if start < 0 {
				kiBase = -start
				start = 0
			}
			end := y + radius + 1
			if end > height {
				end = height
			}
			dstRow := dst.pix[y*width*3 : (y+1)*width*3]
			for x := 0; x < width; x++ {
				var r, g, b float32
				ki := kiBase
				for yy := start; yy < end; yy++ {
					w := kernel[ki]
					i := (yy*width + x) * 3
					r += src.pix[i] * w
					g += src.pix[i+1] * w
					b += src.pix[i+2] * w
					ki++
				}
				i := x * 3
				dstRow[i] = r
				dstRow[i+1] = g
				dstRow[i+2] = b
			}
		}
	})
}

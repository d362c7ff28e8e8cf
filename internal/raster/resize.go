package raster

// Downsample box-filters the image by an integer factor and returns a new
// buffer of size (width/factor)×(height/factor). Each output sample is
// the mean of its factor×factor source block, so total energy per unit
// area is preserved. factor <= 1 returns a copy.
func Downsample(src *Image, factor int) *Image {
	if factor <= 1 {
		return src.Clone()
	}
	newWidth := src.width / factor
	newHeight := src.height / factor
	out := NewImage(newWidth, newHeight)
	scale := 1 / float32(factor*factor)
	for y := 0; y < newHeight; y++ {
		for x := 0; x < newWidth; x++ {
			var r, g, b float32
			for yy := 0; yy < factor; yy++ {
				row := (y*factor + yy) * src.width
				for xx := 0; xx < factor; xx++ {
					i := (row + x*factor + xx) * 3
					r += src.pix[i]
					g += src.pix[i+1]
					b += src.pix[i+2]
				}
			}
			i := out.index(x, y)
			out.pix[i] = r * scale
			out.pix[i+1] = g * scale
			out.pix[i+2] = b * scale
		}
	}
	return out
}

// ResampleNearest rescales to the given size by nearest-neighbour lookup
// and returns a new buffer. Used to bring a downsampled blur back to full
// resolution; the preceding Gaussian has already removed any detail that
// nearest-neighbour could alias.
func ResampleNearest(src *Image, width, height int) *Image {
	out := NewImage(width, height)
	srcWidth := src.width
	if srcWidth < 1 {
		srcWidth = 1
	}
	srcHeight := src.height
	if srcHeight < 1 {
		srcHeight = 1
	}
	for y := 0; y < height; y++ {
		sy := (y * srcHeight) / height
		if sy > srcHeight-1 {
			sy = srcHeight - 1
		}
		srcRow := sy * src.width
		dstRow := y * width
		for x := 0; x < width; x++ {
			sx := (x * srcWidth) / width
			if sx > srcWidth-1 {
				sx = srcWidth - 1
			}
			si := (srcRow + sx) * 3
			di := (dstRow + x) * 3
			out.pix[di] = src.pix[si]
			out.pix[di+1] = src.pix[si+1]
			out.pix[di+2] = src.pix[si+2]
		}
	}
	return out
}

package raster

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"io"
)

// EncodePNG serializes the image as a minimal 8-bit-per-channel RGB PNG:
// signature, IHDR, a single zlib-deflated IDAT of filter-0 rows, IEND.
// No interlacing, palette, or alpha. Samples are clamped to [0, 1] and
// quantized with round-half-up, so any standard reader decodes it.
func EncodePNG(im *Image) ([]byte, error) {
	raw := make([]byte, 0, im.height*(1+im.width*3))
	for y := 0; y < im.height; y++ {
		raw = append(raw, 0) // filter type 0 (None)
		row := y * im.width * 3
		for i := row; i < row+im.width*3; i++ {
			raw = append(raw, quantize8(im.pix[i]))
		}
	}

	var compressed bytes.Buffer
	zw, err := zlib.NewWriterLevel(&compressed, zlib.DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("raster: zlib init: %w", err)
	}
	if _, err := zw.Write(raw); err != nil {
		return nil, fmt.Errorf("raster: zlib write: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("raster: zlib close: %w", err)
	}

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(im.width))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(im.height))
	ihdr[8] = 8 // bit depth
	ihdr[9] = 2 // color type: truecolor RGB
	// compression, filter, interlace all zero

	var out bytes.Buffer
	out.Write([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'})
	writeChunk(&out, "IHDR", ihdr)
	writeChunk(&out, "IDAT", compressed.Bytes())
	writeChunk(&out, "IEND", nil)
	return out.Bytes(), nil
}

func writeChunk(out *bytes.Buffer, tag string, payload []byte) {
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(payload)))
	out.Write(length[:])
	crc := crc32.NewIEEE()
	crc.Write([]byte(tag))
	crc.Write(payload)
	out.WriteString(tag)
	out.Write(payload)
	var sum [4]byte
	binary.BigEndian.PutUint32(sum[:], crc.Sum32())
	out.Write(sum[:])
}

func quantize8(v float32) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}

// DecodePNG reads any PNG a standard decoder accepts and returns its
// pixels as a linear image with samples in [0, 1]. Used by the reference
// comparison path, not by the renderer.
func DecodePNG(r io.Reader) (*Image, error) {
	src, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("raster: decode png: %w", err)
	}
	return fromImage(src), nil
}

func fromImage(src image.Image) *Image {
	bounds := src.Bounds()
	out := NewImage(bounds.Dx(), bounds.Dy())
	for y := 0; y < out.height; y++ {
		for x := 0; x < out.width; x++ {
			r, g, b, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			i := out.index(x, y)
			out.pix[i] = float32(r) / 65535
			out.pix[i+1] = float32(g) / 65535
			out.pix[i+2] = float32(b) / 65535
		}
	}
	return out
}

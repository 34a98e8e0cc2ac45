package lut

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// Swatch renders the buffer as a width*scale x height image so that a
// 1-pixel-high strip is visible. Texels are scaled with nearest-neighbour
// sampling to keep table entries distinct.
func (b *EncodedBuffer) Swatch(scale, height int) *image.NRGBA {
	if scale <= 0 {
		scale = 1
	}
	if height <= 0 {
		height = 1
	}
	src := b.NRGBA()
	dst := image.NewNRGBA(image.Rect(0, 0, src.Bounds().Dx()*scale, height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// EncodePNG returns the 8-bit strip of the buffer as PNG bytes.
func (b *EncodedBuffer) EncodePNG() ([]byte, error) {
	return b.encode(b.NRGBA())
}

// EncodeSwatchPNG returns Swatch(scale, height) as PNG bytes.
func (b *EncodedBuffer) EncodeSwatchPNG(scale, height int) ([]byte, error) {
	return b.encode(b.Swatch(scale, height))
}

func (b *EncodedBuffer) encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", b.Name, err)
	}
	return buf.Bytes(), nil
}

// WritePNG writes img to path.
func WritePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}

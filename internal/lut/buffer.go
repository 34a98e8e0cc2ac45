// Package lut encodes numeric tables into fixed-width, 4-channel lookup
// buffers that a sampling stage (a texture, a uniform array) reads directly.
package lut

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// WrapMode controls how a sampler treats coordinates outside [0,1].
type WrapMode string

const (
	WrapRepeat WrapMode = "repeat"
	WrapClamp  WrapMode = "clamp"
)

// FilterMode controls how a sampler interpolates between texels.
type FilterMode string

const (
	FilterPoint    FilterMode = "point"
	FilterBilinear FilterMode = "bilinear"
)

// Range describes the value range stored in a buffer's channels.
type Range string

const (
	// RangeUnsigned channels hold values in [0,1].
	RangeUnsigned Range = "unsigned"
	// RangeSigned channels hold values in [-1,1].
	RangeSigned Range = "signed"
)

// Sampler is the sampling state a consumer should bind the buffer with.
type Sampler struct {
	Wrap   WrapMode   `json:"wrap"`
	Filter FilterMode `json:"filter"`
}

// EncodedBuffer is a one-dimensional array of 4-channel texels.
type EncodedBuffer struct {
	Name    string       `json:"name"`
	Sampler Sampler      `json:"sampler"`
	Range   Range        `json:"range"`
	Texels  []mgl32.Vec4 `json:"texels"`
}

// NewBuffer allocates a zeroed buffer of the given width.
func NewBuffer(name string, width int, sampler Sampler, rng Range) *EncodedBuffer {
	return &EncodedBuffer{
		Name:    name,
		Sampler: sampler,
		Range:   rng,
		Texels:  make([]mgl32.Vec4, width),
	}
}

// Width returns the number of texels.
func (b *EncodedBuffer) Width() int {
	if b == nil {
		return 0
	}
	return len(b.Texels)
}

// At returns texel i. Out-of-range indices follow the sampler's wrap mode.
func (b *EncodedBuffer) At(i int) mgl32.Vec4 {
	w := len(b.Texels)
	if w == 0 {
		return mgl32.Vec4{}
	}
	switch b.Sampler.Wrap {
	case WrapClamp:
		if i < 0 {
			i = 0
		}
		if i >= w {
			i = w - 1
		}
	default:
		i %= w
		if i < 0 {
			i += w
		}
	}
	return b.Texels[i]
}

// Sample reads the buffer at normalized coordinate u the way a 1-pixel-high
// texture would be sampled: texel centers sit at (i+0.5)/width.
func (b *EncodedBuffer) Sample(u float32) mgl32.Vec4 {
	w := len(b.Texels)
	if w == 0 {
		return mgl32.Vec4{}
	}
	if b.Sampler.Filter != FilterBilinear {
		return b.At(int(math.Floor(float64(u * float32(w)))))
	}
	x := u*float32(w) - 0.5
	x0 := float32(math.Floor(float64(x)))
	frac := x - x0
	a := b.At(int(x0))
	c := b.At(int(x0) + 1)
	return a.Add(c.Sub(a).Mul(frac))
}

// Clone returns a deep copy of the buffer.
func (b *EncodedBuffer) Clone() *EncodedBuffer {
	if b == nil {
		return nil
	}
	out := *b
	out.Texels = append([]mgl32.Vec4(nil), b.Texels...)
	return &out
}

// Equal reports whether two buffers hold bit-identical texels and metadata.
func (b *EncodedBuffer) Equal(o *EncodedBuffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.Name != o.Name || b.Sampler != o.Sampler || b.Range != o.Range || len(b.Texels) != len(o.Texels) {
		return false
	}
	for i := range b.Texels {
		for c := 0; c < 4; c++ {
			if math.Float32bits(b.Texels[i][c]) != math.Float32bits(o.Texels[i][c]) {
				return false
			}
		}
	}
	return true
}

// Release drops the texel storage. A released buffer has width 0.
func (b *EncodedBuffer) Release() {
	if b == nil {
		return
	}
	b.Texels = nil
}

// NRGBA quantizes the buffer into a width x 1 8-bit image, the layout an
// ARGB32 texture stores. Signed buffers are remapped from [-1,1] to [0,1]
// first; everything else is clamped.
func (b *EncodedBuffer) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, len(b.Texels), 1))
	for i, t := range b.Texels {
		img.SetNRGBA(i, 0, color.NRGBA{
			R: b.quantize(t[0]),
			G: b.quantize(t[1]),
			B: b.quantize(t[2]),
			A: b.quantize(t[3]),
		})
	}
	return img
}

func (b *EncodedBuffer) quantize(v float32) uint8 {
	if b.Range == RangeSigned {
		v = v*0.5 + 0.5
	}
	return uint8(math.Round(float64(clamp01(v)) * 255))
}

// FromNRGBA decodes a width x 1 image produced by NRGBA back into texels.
// The decode is lossy for values that were not multiples of 1/255.
func FromNRGBA(name string, img image.Image, sampler Sampler, rng Range) (*EncodedBuffer, error) {
	bounds := img.Bounds()
	if bounds.Dy() != 1 {
		return nil, fmt.Errorf("lookup image must be 1 pixel high, got %d", bounds.Dy())
	}
	buf := NewBuffer(name, bounds.Dx(), sampler, rng)
	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		c := color.NRGBAModel.Convert(img.At(x, bounds.Min.Y)).(color.NRGBA)
		t := mgl32.Vec4{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
		if rng == RangeSigned {
			for i := range t {
				t[i] = t[i]*2 - 1
			}
		}
		buf.Texels[x-bounds.Min.X] = t
	}
	return buf, nil
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

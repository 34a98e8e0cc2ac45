package lut

import (
	"github.com/MeKo-Tech/noiselut/internal/tables"
	"github.com/go-gl/mathgl/mgl32"
)

// Buffer names as bound by the noise shader.
const (
	PermutationName = "_PermutationTable"
	Gradient4Name   = "_Gradient4Table"
	ColorName       = "_ColorTexture"
)

// ColorLabel is the human-readable label the color buffer carries in exports.
const ColorLabel = "Noise color texture."

var (
	// TableSampler is used for the permutation and gradient tables: integer
	// lookups that must never blend neighbouring entries.
	TableSampler = Sampler{Wrap: WrapRepeat, Filter: FilterPoint}
	// ColorSampler is used for the baked color gradient.
	ColorSampler = Sampler{Wrap: WrapClamp, Filter: FilterBilinear}
)

// EncodePermutation stores each entry v as (v/255, 0, 0, 0).
func EncodePermutation(t tables.PermutationTable) *EncodedBuffer {
	buf := NewBuffer(PermutationName, len(t), TableSampler, RangeUnsigned)
	for i, v := range t {
		buf.Texels[i] = mgl32.Vec4{float32(v) / 255, 0, 0, 0}
	}
	return buf
}

// EncodeGradients stores each 4-D gradient's signed components unchanged.
func EncodeGradients(t tables.Gradient4Table) *EncodedBuffer {
	buf := NewBuffer(Gradient4Name, len(t), TableSampler, RangeSigned)
	for i, g := range t {
		buf.Texels[i] = mgl32.Vec4{float32(g[0]), float32(g[1]), float32(g[2]), float32(g[3])}
	}
	return buf
}

// DecodePermutation recovers permutation indices from an encoded buffer by
// rounding channel 0 back onto 0..255.
func DecodePermutation(b *EncodedBuffer) []int {
	out := make([]int, len(b.Texels))
	for i, t := range b.Texels {
		out[i] = int(t[0]*255 + 0.5)
	}
	return out
}

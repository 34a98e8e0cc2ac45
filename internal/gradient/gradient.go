// Package gradient resamples continuous color gradients into fixed-width
// lookup buffers.
package gradient

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/MeKo-Tech/noiselut/internal/lut"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultWidth is the width of the color lookup buffer.
	DefaultWidth = 256
	// MaxWidth is the widest color buffer a bake accepts.
	MaxWidth = 16384
)

// ErrInvalidWidth is returned when a bake is requested with a width outside
// 1..MaxWidth.
var ErrInvalidWidth = errors.New("gradient: width must be within 1..16384")

// ColorGradient maps a position in [0,1] to an RGBA color.
type ColorGradient interface {
	Evaluate(t float64) mgl32.Vec4
}

// Func adapts a plain function to ColorGradient.
type Func func(t float64) mgl32.Vec4

// Evaluate calls f(t).
func (f Func) Evaluate(t float64) mgl32.Vec4 { return f(t) }

// SampleMode selects how bake positions are generated.
type SampleMode int

const (
	// SampleExact visits every index once at position i/(W-1).
	SampleExact SampleMode = iota
	// SampleStepped walks a float32 position from 0 to 1 in steps of 1/W and
	// writes to floor(p*(W-1)). Adjacent samples can land on the same index
	// (the later one wins) and accumulated drift can skip the final sample,
	// leaving zeroed texels. This is the sampling the shader assets were
	// originally baked with.
	SampleStepped
)

func (m SampleMode) String() string {
	switch m {
	case SampleExact:
		return "exact"
	case SampleStepped:
		return "stepped"
	default:
		return fmt.Sprintf("SampleMode(%d)", int(m))
	}
}

// ParseSampleMode parses "exact" or "stepped".
func ParseSampleMode(s string) (SampleMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exact":
		return SampleExact, nil
	case "stepped":
		return SampleStepped, nil
	default:
		return 0, fmt.Errorf("invalid sampling mode %q: must be 'exact' or 'stepped'", s)
	}
}

// Baker resamples gradients into color lookup buffers.
type Baker struct {
	Width int
	Mode  SampleMode
}

// NewBaker returns a baker with the default width.
func NewBaker(mode SampleMode) Baker {
	return Baker{Width: DefaultWidth, Mode: mode}
}

// Bake evaluates g across [0,1] and stores the samples in a new buffer.
func (b Baker) Bake(g ColorGradient) (*lut.EncodedBuffer, error) {
	if b.Width <= 0 || b.Width > MaxWidth {
		return nil, ErrInvalidWidth
	}
	buf := lut.NewBuffer(lut.ColorName, b.Width, lut.ColorSampler, lut.RangeUnsigned)
	b.visit(func(idx int, pos float64) {
		buf.Texels[idx] = g.Evaluate(pos)
	})
	return buf, nil
}

// Bake is shorthand for Baker{Width: width, Mode: mode}.Bake(g).
func Bake(g ColorGradient, width int, mode SampleMode) (*lut.EncodedBuffer, error) {
	return Baker{Width: width, Mode: mode}.Bake(g)
}

// Coverage reports how many times each index is written by a bake with the
// baker's settings. Indices with a count of zero keep their zero value.
func (b Baker) Coverage() []int {
	if b.Width <= 0 {
		return nil
	}
	counts := make([]int, b.Width)
	b.visit(func(idx int, _ float64) { counts[idx]++ })
	return counts
}

func (b Baker) visit(fn func(idx int, pos float64)) {
	w := b.Width
	switch b.Mode {
	case SampleStepped:
		step := float32(1) / float32(w)
		last := float32(w - 1)
		for p := float32(0); p <= 1; p += step {
			fn(int(math.Floor(float64(p*last))), float64(p))
		}
	default:
		if w == 1 {
			fn(0, 0)
			return
		}
		last := float64(w - 1)
		for i := 0; i < w; i++ {
			fn(i, float64(i)/last)
		}
	}
}

package noise

import (
	"math"
	"testing"

	"github.com/MeKo-Tech/noiselut/internal/lut"
	"github.com/MeKo-Tech/noiselut/internal/params"
	"github.com/MeKo-Tech/noiselut/internal/tables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromBuffersMatchesCompiledTables(t *testing.T) {
	fromTables := NewSimplex()
	fromBuffers, err := FromBuffers(
		lut.EncodePermutation(tables.Permutation()),
		lut.EncodeGradients(tables.Gradients4D()),
	)
	require.NoError(t, err)
	assert.Equal(t, fromTables.perm, fromBuffers.perm)
	assert.Equal(t, fromTables.grad, fromBuffers.grad)

	points := [][4]float64{{0.1, 0.2, 0.3, 0.4}, {-3.7, 12.2, 0.5, 9.9}, {100.25, -42, 7, 0}}
	for _, pt := range points {
		assert.Equal(t,
			fromTables.Noise4D(pt[0], pt[1], pt[2], pt[3]),
			fromBuffers.Noise4D(pt[0], pt[1], pt[2], pt[3]),
		)
	}
}

func TestFromBuffersRejectsWrongWidths(t *testing.T) {
	perm := lut.EncodePermutation(tables.Permutation())
	grad := lut.EncodeGradients(tables.Gradients4D())

	_, err := FromBuffers(grad, grad)
	assert.Error(t, err)
	_, err = FromBuffers(perm, perm)
	assert.Error(t, err)
}

func TestNoise4DZeroAtLatticeOrigin(t *testing.T) {
	s := NewSimplex()
	assert.InDelta(t, 0, s.Noise4D(0, 0, 0, 0), 1e-12)
}

func TestNoise4DBoundedAndVaried(t *testing.T) {
	s := NewSimplex()
	minV, maxV := math.Inf(1), math.Inf(-1)
	for i := 0; i < 2000; i++ {
		f := float64(i)
		v := s.Noise4D(f*0.137, f*0.071, f*0.029, f*0.011)
		require.False(t, math.IsNaN(v))
		require.LessOrEqual(t, math.Abs(v), 1.5)
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	assert.Greater(t, maxV-minV, 0.5)
}

func TestFastFloor(t *testing.T) {
	tests := []struct {
		x    float64
		want int
	}{
		{0, 0},
		{1.5, 1},
		{-0.5, -1},
		{-1, -1},
		{-1.0000001, -2},
		{-3, -3},
		{2, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fastFloor(tt.x), "fastFloor(%v)", tt.x)
	}
}

func TestNoise4DContinuousAtNegativeLattice(t *testing.T) {
	s := NewSimplex()
	at := s.Noise4D(-1, 0.3, 0.7, 0.1)
	assert.InDelta(t, at, s.Noise4D(-1-1e-7, 0.3, 0.7, 0.1), 1e-5)
	assert.InDelta(t, at, s.Noise4D(-1+1e-7, 0.3, 0.7, 0.1), 1e-5)
}

func TestFBMZeroOctaves(t *testing.T) {
	s := NewSimplex()
	p := params.Defaults()
	p.Octaves = 0
	assert.Zero(t, s.FBM(0.3, 0.7, 0, 1, p))
}

func TestFBMSingleOctaveIsNoise(t *testing.T) {
	s := NewSimplex()
	p := params.NoiseParameterSet{Octaves: 1, Lacunarity: 2, Gain: 0.5, TimeMultiplier: 1}
	assert.InDelta(t, s.Noise4D(0.3, 0.7, 0.1, 0.9), s.FBM(0.3, 0.7, 0.1, 0.9, p), 1e-12)
}

func TestNewSource(t *testing.T) {
	p := params.NoiseParameterSet{Octaves: 3, Lacunarity: 2, Gain: 0.5, TimeMultiplier: 2}
	for _, kind := range []Kind{KindSimplex, KindPerlin, KindOpenSimplex, ""} {
		src, err := NewSource(kind, p, 1337)
		require.NoError(t, err, "kind %q", kind)
		a := src.Eval(0.25, 0.75, 0.5)
		b := src.Eval(0.25, 0.75, 0.5)
		assert.Equal(t, a, b, "kind %q must be deterministic", kind)
		assert.False(t, math.IsNaN(a))
	}

	_, err := NewSource("value", p, 0)
	assert.Error(t, err)
}

func TestSimplexSourceUsesTimeMultiplier(t *testing.T) {
	slow := &SimplexSource{Simplex: NewSimplex(), Params: params.NoiseParameterSet{Octaves: 2, Lacunarity: 2, Gain: 0.5, TimeMultiplier: 1}}
	fast := &SimplexSource{Simplex: slow.Simplex, Params: params.NoiseParameterSet{Octaves: 2, Lacunarity: 2, Gain: 0.5, TimeMultiplier: 4}}

	assert.Equal(t, slow.Eval(0.4, 0.6, 2), fast.Eval(0.4, 0.6, 0.5))
}

package noise

import (
	"fmt"
	"math"

	"github.com/MeKo-Tech/noiselut/internal/params"
	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Source produces fractal noise over a 2-D plane that evolves with time.
// Values are roughly in [-1,1].
type Source interface {
	Eval(x, y, t float64) float64
}

// Kind names a Source implementation.
type Kind string

const (
	// KindSimplex is the table-driven 4-D simplex noise the shader uses.
	KindSimplex Kind = "simplex"
	// KindPerlin is classic 3-D Perlin noise.
	KindPerlin Kind = "perlin"
	// KindOpenSimplex is 3-D OpenSimplex noise.
	KindOpenSimplex Kind = "opensimplex"
)

// NewSource returns a Source of the given kind. Seed only affects the
// perlin and opensimplex kinds; the simplex kind is fixed by its tables.
func NewSource(kind Kind, p params.NoiseParameterSet, seed int64) (Source, error) {
	switch kind {
	case "", KindSimplex:
		return &SimplexSource{Simplex: NewSimplex(), Params: p}, nil
	case KindPerlin:
		return NewPerlinSource(p, seed), nil
	case KindOpenSimplex:
		return &OpenSimplexSource{noise: opensimplex.New(seed), params: p}, nil
	default:
		return nil, fmt.Errorf("unsupported noise source %q: must be simplex, perlin or opensimplex", kind)
	}
}

// SimplexSource samples the 4-D table noise on the plane (x, y, 0, t*TimeMultiplier).
type SimplexSource struct {
	Simplex *Simplex
	Params  params.NoiseParameterSet
}

// Eval implements Source.
func (s *SimplexSource) Eval(x, y, t float64) float64 {
	return s.Simplex.FBM(x, y, 0, t*float64(s.Params.TimeMultiplier), s.Params)
}

// PerlinSource wraps go-perlin, mapping gain and lacunarity onto its
// alpha (amplitude divisor) and beta (frequency multiplier).
type PerlinSource struct {
	perlin *perlin.Perlin
	params params.NoiseParameterSet
}

// NewPerlinSource creates a classic Perlin source.
func NewPerlinSource(p params.NoiseParameterSet, seed int64) *PerlinSource {
	alpha := math.MaxFloat32
	if p.Gain > 0 {
		alpha = 1 / float64(p.Gain)
	}
	return &PerlinSource{
		perlin: perlin.NewPerlin(alpha, float64(p.Lacunarity), int32(p.Octaves), seed),
		params: p,
	}
}

// Eval implements Source.
func (s *PerlinSource) Eval(x, y, t float64) float64 {
	return s.perlin.Noise3D(x, y, t*float64(s.params.TimeMultiplier))
}

// OpenSimplexSource layers OpenSimplex noise with the shader's fbm weights.
type OpenSimplexSource struct {
	noise  opensimplex.Noise
	params params.NoiseParameterSet
}

// Eval implements Source.
func (s *OpenSimplexSource) Eval(x, y, t float64) float64 {
	tt := t * float64(s.params.TimeMultiplier)
	return fbm(s.params, func(freq float64) float64 {
		return s.noise.Eval3(x*freq, y*freq, tt*freq)
	})
}

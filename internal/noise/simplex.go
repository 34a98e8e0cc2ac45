// Package noise is a CPU reference of the table-driven 4-D simplex noise the
// shader evaluates. It reads the same encoded permutation and gradient
// buffers the shader is given, so its output can be compared pixel for pixel.
package noise

import (
	"fmt"

	"github.com/MeKo-Tech/noiselut/internal/lut"
	"github.com/MeKo-Tech/noiselut/internal/params"
	"github.com/MeKo-Tech/noiselut/internal/tables"
)

// Simplex evaluates 4-D simplex noise from a permutation and gradient table.
type Simplex struct {
	perm [512]uint8
	grad [tables.Gradient4Count][4]float64
}

// NewSimplex builds a sampler from the compiled-in tables.
func NewSimplex() *Simplex {
	s := &Simplex{}
	perm := tables.Permutation()
	for i := 0; i < 512; i++ {
		s.perm[i] = perm[i&255]
	}
	for i, g := range tables.Gradients4D() {
		s.grad[i] = [4]float64{float64(g[0]), float64(g[1]), float64(g[2]), float64(g[3])}
	}
	return s
}

// FromBuffers builds a sampler from encoded permutation and gradient buffers.
func FromBuffers(perm, grad *lut.EncodedBuffer) (*Simplex, error) {
	if perm.Width() != tables.PermutationSize {
		return nil, fmt.Errorf("permutation buffer width %d, want %d", perm.Width(), tables.PermutationSize)
	}
	if grad.Width() != tables.Gradient4Count {
		return nil, fmt.Errorf("gradient buffer width %d, want %d", grad.Width(), tables.Gradient4Count)
	}
	s := &Simplex{}
	for i, v := range lut.DecodePermutation(perm) {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("permutation entry %d decodes to %d", i, v)
		}
		s.perm[i] = uint8(v)
		s.perm[i+256] = uint8(v)
	}
	for i, t := range grad.Texels {
		s.grad[i] = [4]float64{float64(t[0]), float64(t[1]), float64(t[2]), float64(t[3])}
	}
	return s, nil
}

func fastFloor(x float64) int {
	i := int(x)
	if x < float64(i) {
		i--
	}
	return i
}

func dot4(g [4]float64, x, y, z, w float64) float64 {
	return g[0]*x + g[1]*y + g[2]*z + g[3]*w
}

// Noise4D returns simplex noise at (x,y,z,w), roughly in [-1,1].
func (s *Simplex) Noise4D(x, y, z, w float64) float64 {
	const F4 = 0.30901699437494745
	const G4 = 0.1381966011250105

	t := (x + y + z + w) * F4
	i := fastFloor(x + t)
	j := fastFloor(y + t)
	k := fastFloor(z + t)
	l := fastFloor(w + t)

	t0 := float64(i+j+k+l) * G4
	x0 := x - (float64(i) - t0)
	y0 := y - (float64(j) - t0)
	z0 := z - (float64(k) - t0)
	w0 := w - (float64(l) - t0)

	// Rank each axis by magnitude to find the simplex traversal order.
	rankx, ranky, rankz, rankw := 0, 0, 0, 0
	if x0 > y0 {
		rankx++
	} else {
		ranky++
	}
	if x0 > z0 {
		rankx++
	} else {
		rankz++
	}
	if x0 > w0 {
		rankx++
	} else {
		rankw++
	}
	if y0 > z0 {
		ranky++
	} else {
		rankz++
	}
	if y0 > w0 {
		ranky++
	} else {
		rankw++
	}
	if z0 > w0 {
		rankz++
	} else {
		rankw++
	}

	step := func(rank, threshold int) int {
		if rank >= threshold {
			return 1
		}
		return 0
	}
	i1, j1, k1, l1 := step(rankx, 3), step(ranky, 3), step(rankz, 3), step(rankw, 3)
	i2, j2, k2, l2 := step(rankx, 2), step(ranky, 2), step(rankz, 2), step(rankw, 2)
	i3, j3, k3, l3 := step(rankx, 1), step(ranky, 1), step(rankz, 1), step(rankw, 1)

	ii := i & 255
	jj := j & 255
	kk := k & 255
	ll := l & 255

	corner := func(di, dj, dk, dl int, offset float64) float64 {
		cx := x0 - float64(di) + offset
		cy := y0 - float64(dj) + offset
		cz := z0 - float64(dk) + offset
		cw := w0 - float64(dl) + offset
		tc := 0.6 - cx*cx - cy*cy - cz*cz - cw*cw
		if tc <= 0 {
			return 0
		}
		gi := s.perm[ii+di+int(s.perm[jj+dj+int(s.perm[kk+dk+int(s.perm[ll+dl])])])] % tables.Gradient4Count
		tc *= tc
		return tc * tc * dot4(s.grad[gi], cx, cy, cz, cw)
	}

	n := corner(0, 0, 0, 0, 0) +
		corner(i1, j1, k1, l1, G4) +
		corner(i2, j2, k2, l2, 2*G4) +
		corner(i3, j3, k3, l3, 3*G4) +
		corner(1, 1, 1, 1, 4*G4)

	return 27.0 * n
}

// FBM sums p.Octaves layers of noise, scaling frequency by Lacunarity and
// amplitude by Gain per layer, normalized back to roughly [-1,1].
// Zero octaves yields 0.
func (s *Simplex) FBM(x, y, z, w float64, p params.NoiseParameterSet) float64 {
	return fbm(p, func(freq float64) float64 {
		return s.Noise4D(x*freq, y*freq, z*freq, w*freq)
	})
}

func fbm(p params.NoiseParameterSet, sample func(freq float64) float64) float64 {
	amp := 0.5
	freq := 1.0
	sum := 0.0
	norm := 0.0
	for i := 0; i < p.Octaves; i++ {
		sum += amp * sample(freq)
		norm += amp
		amp *= float64(p.Gain)
		freq *= float64(p.Lacunarity)
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

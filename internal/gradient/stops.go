package gradient

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fogleman/ease"
	"github.com/go-gl/mathgl/mgl32"
)

// BlendMode controls interpolation between neighbouring keys.
type BlendMode string

const (
	// BlendLinear interpolates linearly between keys.
	BlendLinear BlendMode = "blend"
	// BlendFixed holds the color of the next key without interpolating.
	BlendFixed BlendMode = "fixed"
	// BlendEased interpolates with an in-out quadratic curve.
	BlendEased BlendMode = "eased"
)

// ColorKey is an RGB color at a position in [0,1].
type ColorKey struct {
	Pos   float64
	Color mgl32.Vec3
}

// AlphaKey is an alpha value at a position in [0,1].
type AlphaKey struct {
	Pos   float64
	Alpha float32
}

// Stops is a keyed gradient with separate color and alpha keys.
// Outside the first and last key the end values are held.
type Stops struct {
	Mode   BlendMode
	Colors []ColorKey
	Alphas []AlphaKey
}

// NewStops validates and sorts the keys. At least one color key is required;
// without alpha keys the gradient is opaque.
func NewStops(mode BlendMode, colors []ColorKey, alphas []AlphaKey) (*Stops, error) {
	switch mode {
	case "":
		mode = BlendLinear
	case BlendLinear, BlendFixed, BlendEased:
	default:
		return nil, fmt.Errorf("invalid blend mode %q: must be 'blend', 'fixed' or 'eased'", mode)
	}
	if len(colors) == 0 {
		return nil, fmt.Errorf("gradient needs at least one color key")
	}
	for i, k := range colors {
		if k.Pos < 0 || k.Pos > 1 {
			return nil, fmt.Errorf("color key %d position %.3f outside [0,1]", i, k.Pos)
		}
	}
	for i, k := range alphas {
		if k.Pos < 0 || k.Pos > 1 {
			return nil, fmt.Errorf("alpha key %d position %.3f outside [0,1]", i, k.Pos)
		}
		if k.Alpha < 0 || k.Alpha > 1 {
			return nil, fmt.Errorf("alpha key %d value %.3f outside [0,1]", i, k.Alpha)
		}
	}

	s := &Stops{
		Mode:   mode,
		Colors: append([]ColorKey(nil), colors...),
		Alphas: append([]AlphaKey(nil), alphas...),
	}
	sort.SliceStable(s.Colors, func(i, j int) bool { return s.Colors[i].Pos < s.Colors[j].Pos })
	sort.SliceStable(s.Alphas, func(i, j int) bool { return s.Alphas[i].Pos < s.Alphas[j].Pos })
	return s, nil
}

// TwoStop returns a linear gradient from a at 0 to b at 1, both opaque.
func TwoStop(a, b mgl32.Vec3) *Stops {
	return &Stops{
		Mode:   BlendLinear,
		Colors: []ColorKey{{Pos: 0, Color: a}, {Pos: 1, Color: b}},
	}
}

// Clone returns a deep copy of s.
func (s *Stops) Clone() ColorGradient {
	if s == nil {
		return (*Stops)(nil)
	}
	return &Stops{
		Mode:   s.Mode,
		Colors: append([]ColorKey(nil), s.Colors...),
		Alphas: append([]AlphaKey(nil), s.Alphas...),
	}
}

// Evaluate returns the color at t.
func (s *Stops) Evaluate(t float64) mgl32.Vec4 {
	rgb := s.evalColor(t)
	alpha := float32(1)
	if len(s.Alphas) > 0 {
		alpha = s.evalAlpha(t)
	}
	return rgb.Vec4(alpha)
}

// Equal reports whether o is a Stops with the same mode and keys.
func (s *Stops) Equal(o ColorGradient) bool {
	other, ok := o.(*Stops)
	if !ok || other == nil || s == nil {
		return ok && other == s
	}
	if s.Mode != other.Mode || len(s.Colors) != len(other.Colors) || len(s.Alphas) != len(other.Alphas) {
		return false
	}
	for i := range s.Colors {
		if s.Colors[i] != other.Colors[i] {
			return false
		}
	}
	for i := range s.Alphas {
		if s.Alphas[i] != other.Alphas[i] {
			return false
		}
	}
	return true
}

func (s *Stops) evalColor(t float64) mgl32.Vec3 {
	keys := s.Colors
	i, frac, ok := s.segment(len(keys), func(i int) float64 { return keys[i].Pos }, t)
	if !ok {
		return keys[i].Color
	}
	a, b := keys[i].Color, keys[i+1].Color
	return a.Add(b.Sub(a).Mul(frac))
}

func (s *Stops) evalAlpha(t float64) float32 {
	keys := s.Alphas
	i, frac, ok := s.segment(len(keys), func(i int) float64 { return keys[i].Pos }, t)
	if !ok {
		return keys[i].Alpha
	}
	a, b := keys[i].Alpha, keys[i+1].Alpha
	return a + (b-a)*frac
}

// segment locates t among n sorted keys. When ok is false the key at index i
// is returned as is; otherwise t lies between keys i and i+1 at frac.
func (s *Stops) segment(n int, pos func(int) float64, t float64) (int, float32, bool) {
	if t <= pos(0) {
		return 0, 0, false
	}
	if t >= pos(n-1) {
		return n - 1, 0, false
	}
	i := sort.Search(n, func(k int) bool { return pos(k) >= t }) - 1
	lo, hi := pos(i), pos(i+1)
	if hi <= lo {
		return i + 1, 0, false
	}
	f := (t - lo) / (hi - lo)
	switch s.Mode {
	case BlendFixed:
		return i + 1, 0, false
	case BlendEased:
		f = ease.InOutQuad(f)
	}
	return i, float32(f), true
}

// ParseHexColor parses "#rrggbb" or "#rrggbbaa" into normalized channels.
// Alpha defaults to 1.
func ParseHexColor(s string) (mgl32.Vec4, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return mgl32.Vec4{}, fmt.Errorf("invalid color %q: expected #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return mgl32.Vec4{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return mgl32.Vec4{
		float32(v>>24&0xff) / 255,
		float32(v>>16&0xff) / 255,
		float32(v>>8&0xff) / 255,
		float32(v&0xff) / 255,
	}, nil
}

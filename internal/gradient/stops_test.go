package gradient

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopsEvaluateLinear(t *testing.T) {
	s, err := NewStops(BlendLinear, []ColorKey{
		{Pos: 1, Color: mgl32.Vec3{0, 0, 1}},
		{Pos: 0, Color: mgl32.Vec3{1, 0, 0}},
		{Pos: 0.5, Color: mgl32.Vec3{0, 1, 0}},
	}, []AlphaKey{{Pos: 0, Alpha: 0}, {Pos: 1, Alpha: 1}})
	require.NoError(t, err)

	assert.Equal(t, mgl32.Vec4{1, 0, 0, 0}, s.Evaluate(0))
	assert.Equal(t, mgl32.Vec4{0, 0, 1, 1}, s.Evaluate(1))

	mid := s.Evaluate(0.25)
	assert.InDelta(t, 0.5, mid[0], 1e-6)
	assert.InDelta(t, 0.5, mid[1], 1e-6)
	assert.InDelta(t, 0.25, mid[3], 1e-6)

	green := s.Evaluate(0.5)
	assert.InDelta(t, 1, green[1], 1e-6)
}

func TestStopsHoldEnds(t *testing.T) {
	s, err := NewStops(BlendLinear, []ColorKey{
		{Pos: 0.25, Color: mgl32.Vec3{0.2, 0.2, 0.2}},
		{Pos: 0.75, Color: mgl32.Vec3{0.8, 0.8, 0.8}},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, mgl32.Vec4{0.2, 0.2, 0.2, 1}, s.Evaluate(0))
	assert.Equal(t, mgl32.Vec4{0.8, 0.8, 0.8, 1}, s.Evaluate(1))
}

func TestStopsFixed(t *testing.T) {
	s, err := NewStops(BlendFixed, []ColorKey{
		{Pos: 0, Color: black},
		{Pos: 0.5, Color: mgl32.Vec3{0.5, 0.5, 0.5}},
		{Pos: 1, Color: white},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, mgl32.Vec4{0.5, 0.5, 0.5, 1}, s.Evaluate(0.1))
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, s.Evaluate(0.6))
	assert.Equal(t, mgl32.Vec4{0, 0, 0, 1}, s.Evaluate(0))
}

func TestStopsEasedKeepsEndpointsAndMidpoint(t *testing.T) {
	s, err := NewStops(BlendEased, []ColorKey{{Pos: 0, Color: black}, {Pos: 1, Color: white}}, nil)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, s.Evaluate(0.5)[0], 1e-6)
	assert.Less(t, s.Evaluate(0.25)[0], float32(0.25))
	assert.Greater(t, s.Evaluate(0.75)[0], float32(0.75))
}

func TestNewStopsValidation(t *testing.T) {
	tests := []struct {
		name   string
		mode   BlendMode
		colors []ColorKey
		alphas []AlphaKey
	}{
		{name: "no colors", mode: BlendLinear},
		{name: "bad mode", mode: "cubic", colors: []ColorKey{{Pos: 0}}},
		{name: "color out of range", colors: []ColorKey{{Pos: 1.5}}},
		{name: "alpha pos out of range", colors: []ColorKey{{Pos: 0}}, alphas: []AlphaKey{{Pos: -0.1, Alpha: 1}}},
		{name: "alpha value out of range", colors: []ColorKey{{Pos: 0}}, alphas: []AlphaKey{{Pos: 0, Alpha: 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStops(tt.mode, tt.colors, tt.alphas)
			assert.Error(t, err)
		})
	}
}

func TestStopsEqual(t *testing.T) {
	a := TwoStop(black, white)
	b := TwoStop(black, white)
	c := TwoStop(white, black)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(Func(a.Evaluate)))
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec4{1, float32(128) / 255, 0, 1}, c)

	c, err = ParseHexColor("00000080")
	require.NoError(t, err)
	assert.Equal(t, float32(128)/255, c[3])

	_, err = ParseHexColor("#fff")
	assert.Error(t, err)
	_, err = ParseHexColor("#gggggg")
	assert.Error(t, err)
}

func TestStopsCloneIsDeep(t *testing.T) {
	s := TwoStop(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1})
	c := s.Clone()
	assert.True(t, s.Equal(c))

	s.Colors[1].Color = mgl32.Vec3{1, 0, 0}
	assert.False(t, s.Equal(c))
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, c.Evaluate(1))
}

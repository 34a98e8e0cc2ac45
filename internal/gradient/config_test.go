package gradient

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigBuild(t *testing.T) {
	c := Config{
		Name: "fire",
		Mode: "Fixed",
		Colors: []ColorKeyConfig{
			{Pos: 1, Color: "#ffffff"},
			{Pos: 0, Color: "#000000"},
		},
		Alphas: []AlphaKeyConfig{{Pos: 0, Alpha: 0.5}},
	}

	s, err := c.Build()
	require.NoError(t, err)
	assert.Equal(t, BlendFixed, s.Mode)
	require.Len(t, s.Colors, 2)
	assert.Equal(t, 0.0, s.Colors[0].Pos)
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 0.5}, s.Evaluate(0.25))
}

func TestConfigBuildImpliedAlpha(t *testing.T) {
	c := Config{
		Name: "fade",
		Colors: []ColorKeyConfig{
			{Pos: 0, Color: "#ff000000"},
			{Pos: 1, Color: "#ff0000ff"},
		},
	}

	s, err := c.Build()
	require.NoError(t, err)
	require.Len(t, s.Alphas, 2)
	assert.InDelta(t, 0.5, s.Evaluate(0.5)[3], 1e-6)
}

func TestConfigBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"bad color", Config{Name: "x", Colors: []ColorKeyConfig{{Pos: 0, Color: "red"}}}},
		{"no colors", Config{Name: "x"}},
		{"bad mode", Config{Name: "x", Mode: "wobbly", Colors: []ColorKeyConfig{{Pos: 0, Color: "#000000"}}}},
		{"position out of range", Config{Name: "x", Colors: []ColorKeyConfig{{Pos: 2, Color: "#000000"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.Build()
			assert.Error(t, err)
		})
	}
}

func TestBuildAll(t *testing.T) {
	black := []ColorKeyConfig{{Pos: 0, Color: "#000000"}}

	got, order, err := BuildAll([]Config{{Name: "b", Colors: black}, {Name: "a", Colors: black}})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, order)
	assert.Len(t, got, 2)

	_, _, err = BuildAll([]Config{{Name: "a", Colors: black}, {Name: "a", Colors: black}})
	assert.ErrorContains(t, err, "duplicate")

	_, _, err = BuildAll([]Config{{Colors: black}})
	assert.ErrorContains(t, err, "no name")
}

func TestLoadConfigs(t *testing.T) {
	doc := `
gradients:
  - name: fire
    mode: eased
    colors:
      - {pos: 0, color: "#000000"}
      - {pos: 1, color: "#ff8000"}
    alphas:
      - {pos: 0.5, alpha: 0.25}
`
	cfgs, err := LoadConfigs(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, cfgs, 1)
	assert.Equal(t, "fire", cfgs[0].Name)
	assert.Equal(t, "eased", cfgs[0].Mode)
	assert.Equal(t, ColorKeyConfig{Pos: 1, Color: "#ff8000"}, cfgs[0].Colors[1])
	assert.Equal(t, AlphaKeyConfig{Pos: 0.5, Alpha: 0.25}, cfgs[0].Alphas[0])

	_, err = LoadConfigs(strings.NewReader("gradients: [\n"))
	assert.Error(t, err)
}

package preview

import (
	"image/color"
	"testing"

	"github.com/MeKo-Tech/noiselut/internal/gradient"
	"github.com/MeKo-Tech/noiselut/internal/lut"
	"github.com/MeKo-Tech/noiselut/internal/noise"
	"github.com/MeKo-Tech/noiselut/internal/params"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type constSource float64

func (c constSource) Eval(_, _, _ float64) float64 { return float64(c) }

func bakedBlackToWhite(t *testing.T, width int) *lut.EncodedBuffer {
	t.Helper()
	buf, err := gradient.Bake(gradient.TwoStop(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1}), width, gradient.SampleExact)
	require.NoError(t, err)
	return buf
}

func TestRenderConstantSourceUsesLUTEnds(t *testing.T) {
	buf := bakedBlackToWhite(t, gradient.DefaultWidth)

	low, err := Render(Options{Source: constSource(-1), Color: buf, Width: 8, Height: 4})
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0, G: 0, B: 0, A: 255}, low.NRGBAAt(3, 2))

	high, err := Render(Options{Source: constSource(1), Color: buf, Width: 8, Height: 4})
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, high.NRGBAAt(7, 3))
}

func TestRenderSimplexIsDeterministic(t *testing.T) {
	buf := bakedBlackToWhite(t, gradient.DefaultWidth)
	src, err := noise.NewSource(noise.KindSimplex, params.Defaults(), 0)
	require.NoError(t, err)

	opts := Options{Source: src, Color: buf, Width: 32, Height: 16, Time: 0.5}
	a, err := Render(opts)
	require.NoError(t, err)
	b, err := Render(opts)
	require.NoError(t, err)
	assert.Equal(t, a.Pix, b.Pix)

	distinct := map[color.NRGBA]bool{}
	for y := 0; y < 16; y++ {
		for x := 0; x < 32; x++ {
			distinct[a.NRGBAAt(x, y)] = true
		}
	}
	assert.Greater(t, len(distinct), 4)
}

func TestRenderFilters(t *testing.T) {
	buf := bakedBlackToWhite(t, gradient.DefaultWidth)
	src, err := noise.NewSource(noise.KindSimplex, params.Defaults(), 0)
	require.NoError(t, err)

	img, err := Render(Options{Source: src, Color: buf, Width: 16, Height: 16, Blur: 1.5, Contrast: 20})
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())
}

func TestRenderValidation(t *testing.T) {
	buf := bakedBlackToWhite(t, 4)

	_, err := Render(Options{Source: constSource(0), Color: buf, Width: 0, Height: 4})
	assert.Error(t, err)
	_, err = Render(Options{Color: buf, Width: 4, Height: 4})
	assert.Error(t, err)
	_, err = Render(Options{Source: constSource(0), Width: 4, Height: 4})
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, 0.0, Normalize(-2))
	assert.Equal(t, 0.5, Normalize(0))
	assert.Equal(t, 1.0, Normalize(3))
}

package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	p := Defaults()
	require.NoError(t, p.Validate())
	assert.Equal(t, 4, p.Octaves)
	assert.Equal(t, float32(1), p.TimeMultiplier)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*NoiseParameterSet)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*NoiseParameterSet) {}},
		{name: "upper bounds", mutate: func(p *NoiseParameterSet) {
			p.Octaves, p.Lacunarity, p.Gain, p.TimeMultiplier = 8, 8, 8, 20
		}},
		{name: "lower bounds", mutate: func(p *NoiseParameterSet) {
			p.Octaves, p.Lacunarity, p.Gain, p.TimeMultiplier = 0, 0, 0, 1
		}},
		{name: "octaves too high", mutate: func(p *NoiseParameterSet) { p.Octaves = 9 }, wantErr: true},
		{name: "negative gain", mutate: func(p *NoiseParameterSet) { p.Gain = -0.5 }, wantErr: true},
		{name: "lacunarity too high", mutate: func(p *NoiseParameterSet) { p.Lacunarity = 8.5 }, wantErr: true},
		{name: "time multiplier below one", mutate: func(p *NoiseParameterSet) { p.TimeMultiplier = 0.5 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Defaults()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrOutOfRange)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestClamp(t *testing.T) {
	p := NoiseParameterSet{Octaves: 12, Lacunarity: -1, Gain: 9, TimeMultiplier: 0}
	got := p.Clamp()

	assert.Equal(t, NoiseParameterSet{Octaves: 8, Lacunarity: 0, Gain: 8, TimeMultiplier: 1}, got)
	assert.NoError(t, got.Validate())
	assert.Equal(t, Defaults(), Defaults().Clamp())
}

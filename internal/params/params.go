// Package params holds the fractal noise parameters handed to the shader.
package params

import (
	"errors"
	"fmt"
)

// Uniform names the parameters are bound to.
const (
	OctavesName        = "_Octaves"
	LacunarityName     = "_Lacunarity"
	GainName           = "_Gain"
	TimeMultiplierName = "_TimeMultiplier"
)

// Accepted ranges.
const (
	MinOctaves        = 0
	MaxOctaves        = 8
	MinLacunarity     = 0
	MaxLacunarity     = 8
	MinGain           = 0
	MaxGain           = 8
	MinTimeMultiplier = 1
	MaxTimeMultiplier = 20
)

// ErrOutOfRange is wrapped by Validate for every violated bound.
var ErrOutOfRange = errors.New("parameter out of range")

// NoiseParameterSet is the scalar configuration of the fractal noise.
type NoiseParameterSet struct {
	Octaves        int     `json:"octaves" mapstructure:"octaves"`
	Lacunarity     float32 `json:"lacunarity" mapstructure:"lacunarity"`
	Gain           float32 `json:"gain" mapstructure:"gain"`
	TimeMultiplier float32 `json:"time_multiplier" mapstructure:"time_multiplier"`
}

// Defaults returns the parameter set used when nothing is configured.
func Defaults() NoiseParameterSet {
	return NoiseParameterSet{
		Octaves:        4,
		Lacunarity:     1,
		Gain:           1,
		TimeMultiplier: 1,
	}
}

// Validate reports every parameter outside its documented range.
func (p NoiseParameterSet) Validate() error {
	var errs []error
	if p.Octaves < MinOctaves || p.Octaves > MaxOctaves {
		errs = append(errs, fmt.Errorf("octaves %d not in [%d,%d]: %w", p.Octaves, MinOctaves, MaxOctaves, ErrOutOfRange))
	}
	if p.Lacunarity < MinLacunarity || p.Lacunarity > MaxLacunarity {
		errs = append(errs, fmt.Errorf("lacunarity %g not in [%d,%d]: %w", p.Lacunarity, MinLacunarity, MaxLacunarity, ErrOutOfRange))
	}
	if p.Gain < MinGain || p.Gain > MaxGain {
		errs = append(errs, fmt.Errorf("gain %g not in [%d,%d]: %w", p.Gain, MinGain, MaxGain, ErrOutOfRange))
	}
	if p.TimeMultiplier < MinTimeMultiplier || p.TimeMultiplier > MaxTimeMultiplier {
		errs = append(errs, fmt.Errorf("time multiplier %g not in [%d,%d]: %w", p.TimeMultiplier, MinTimeMultiplier, MaxTimeMultiplier, ErrOutOfRange))
	}
	return errors.Join(errs...)
}

// Clamp pulls every parameter into its documented range.
func (p NoiseParameterSet) Clamp() NoiseParameterSet {
	p.Octaves = clampInt(p.Octaves, MinOctaves, MaxOctaves)
	p.Lacunarity = clampFloat(p.Lacunarity, MinLacunarity, MaxLacunarity)
	p.Gain = clampFloat(p.Gain, MinGain, MaxGain)
	p.TimeMultiplier = clampFloat(p.TimeMultiplier, MinTimeMultiplier, MaxTimeMultiplier)
	return p
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

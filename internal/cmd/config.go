package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/MeKo-Tech/noiselut/assets"
	"github.com/MeKo-Tech/noiselut/internal/gradient"
	"github.com/MeKo-Tech/noiselut/internal/params"
	"github.com/spf13/viper"
)

// NOISELUT_NOISE_OCTAVES maps to noise.octaves.
var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

func noiseParams(v *viper.Viper) (params.NoiseParameterSet, error) {
	ps := params.NoiseParameterSet{
		Octaves:        v.GetInt("noise.octaves"),
		Lacunarity:     float32(v.GetFloat64("noise.lacunarity")),
		Gain:           float32(v.GetFloat64("noise.gain")),
		TimeMultiplier: float32(v.GetFloat64("noise.time_multiplier")),
	}
	if err := ps.Validate(); err != nil {
		return params.NoiseParameterSet{}, fmt.Errorf("invalid noise parameters: %w", err)
	}
	return ps, nil
}

func colorBaker(v *viper.Viper) (gradient.Baker, error) {
	mode, err := gradient.ParseSampleMode(v.GetString("lut.sampling"))
	if err != nil {
		return gradient.Baker{}, err
	}
	width := v.GetInt("lut.width")
	if width <= 0 || width > gradient.MaxWidth {
		return gradient.Baker{}, fmt.Errorf("lut width %d: %w", width, gradient.ErrInvalidWidth)
	}
	return gradient.Baker{Width: width, Mode: mode}, nil
}

// gradientConfigs returns the configured gradients, or the built-in list
// when the config defines none.
func gradientConfigs(v *viper.Viper) ([]gradient.Config, error) {
	var cfgs []gradient.Config
	if err := v.UnmarshalKey("gradients", &cfgs); err != nil {
		return nil, fmt.Errorf("failed to decode gradients: %w", err)
	}
	if len(cfgs) > 0 {
		return cfgs, nil
	}
	return gradient.LoadConfigs(bytes.NewReader(assets.DefaultGradients))
}

// selectGradients builds the gradients named in only, or all of them when
// only is empty. Repeated names in only are dropped; order is kept.
func selectGradients(cfgs []gradient.Config, only []string) ([]string, map[string]*gradient.Stops, error) {
	built, order, err := gradient.BuildAll(cfgs)
	if err != nil {
		return nil, nil, err
	}
	if len(only) == 0 {
		return order, built, nil
	}
	names := make([]string, 0, len(only))
	seen := make(map[string]bool, len(only))
	for _, name := range only {
		if _, ok := built[name]; !ok {
			return nil, nil, fmt.Errorf("unknown gradient %q (have %s)", name, strings.Join(order, ", "))
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, built, nil
}

// namedGradient returns one gradient by name; an empty name picks the first.
func namedGradient(v *viper.Viper, name string) (string, *gradient.Stops, error) {
	cfgs, err := gradientConfigs(v)
	if err != nil {
		return "", nil, err
	}
	var only []string
	if name != "" {
		only = []string{name}
	}
	names, built, err := selectGradients(cfgs, only)
	if err != nil {
		return "", nil, err
	}
	if len(names) == 0 {
		return "", nil, fmt.Errorf("no gradients configured")
	}
	return names[0], built[names[0]], nil
}

package gradient

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"
)

// ColorKeyConfig is a color key as written in config files.
type ColorKeyConfig struct {
	Pos   float64 `json:"pos" mapstructure:"pos" yaml:"pos"`
	Color string  `json:"color" mapstructure:"color" yaml:"color"`
}

// AlphaKeyConfig is an alpha key as written in config files.
type AlphaKeyConfig struct {
	Pos   float64 `json:"pos" mapstructure:"pos" yaml:"pos"`
	Alpha float32 `json:"alpha" mapstructure:"alpha" yaml:"alpha"`
}

// Config describes a named gradient.
type Config struct {
	Name   string           `json:"name" mapstructure:"name" yaml:"name"`
	Mode   string           `json:"mode,omitempty" mapstructure:"mode" yaml:"mode"`
	Colors []ColorKeyConfig `json:"colors" mapstructure:"colors" yaml:"colors"`
	Alphas []AlphaKeyConfig `json:"alphas,omitempty" mapstructure:"alphas" yaml:"alphas"`
}

// Build parses the hex colors and returns the validated gradient.
// An 8-digit color contributes an alpha key at its position unless explicit
// alpha keys are given.
func (c Config) Build() (*Stops, error) {
	colors := make([]ColorKey, 0, len(c.Colors))
	var implied []AlphaKey
	for i, k := range c.Colors {
		rgba, err := ParseHexColor(k.Color)
		if err != nil {
			return nil, fmt.Errorf("gradient %q color %d: %w", c.Name, i, err)
		}
		colors = append(colors, ColorKey{Pos: k.Pos, Color: rgba.Vec3()})
		if len(strings.TrimPrefix(strings.TrimSpace(k.Color), "#")) == 8 {
			implied = append(implied, AlphaKey{Pos: k.Pos, Alpha: rgba[3]})
		}
	}

	alphas := make([]AlphaKey, 0, len(c.Alphas))
	for _, k := range c.Alphas {
		alphas = append(alphas, AlphaKey{Pos: k.Pos, Alpha: k.Alpha})
	}
	if len(alphas) == 0 {
		alphas = implied
	}

	s, err := NewStops(BlendMode(strings.ToLower(c.Mode)), colors, alphas)
	if err != nil {
		return nil, fmt.Errorf("gradient %q: %w", c.Name, err)
	}
	return s, nil
}

// BuildAll builds every gradient and rejects empty or duplicate names.
func BuildAll(cfgs []Config) (map[string]*Stops, []string, error) {
	out := make(map[string]*Stops, len(cfgs))
	order := make([]string, 0, len(cfgs))
	for i, c := range cfgs {
		if c.Name == "" {
			return nil, nil, fmt.Errorf("gradient %d has no name", i)
		}
		if _, dup := out[c.Name]; dup {
			return nil, nil, fmt.Errorf("duplicate gradient name %q", c.Name)
		}
		s, err := c.Build()
		if err != nil {
			return nil, nil, err
		}
		out[c.Name] = s
		order = append(order, c.Name)
	}
	return out, order, nil
}

// LoadConfigs reads the "gradients" list from a YAML document.
func LoadConfigs(r io.Reader) ([]Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("failed to read gradient config: %w", err)
	}
	var cfgs []Config
	if err := v.UnmarshalKey("gradients", &cfgs); err != nil {
		return nil, fmt.Errorf("failed to decode gradients: %w", err)
	}
	return cfgs, nil
}

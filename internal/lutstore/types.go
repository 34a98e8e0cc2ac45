// Package lutstore persists baked lookup buffers in a SQLite database so a
// host can load a complete, bit-exact table set without re-baking.
package lutstore

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/MeKo-Tech/noiselut/internal/params"
	"github.com/go-gl/mathgl/mgl32"
)

// Metadata describes a store.
type Metadata struct {
	Name        string // Human-readable store identifier
	Description string
	Version     string
	Sampling    string // Gradient sampling mode used for the color buffers
	Params      params.NoiseParameterSet
}

// ToMap converts Metadata to a map for database insertion.
func (m Metadata) ToMap() map[string]string {
	result := make(map[string]string)

	if m.Name != "" {
		result["name"] = m.Name
	}
	if m.Description != "" {
		result["description"] = m.Description
	}
	if m.Version != "" {
		result["version"] = m.Version
	}
	if m.Sampling != "" {
		result["sampling"] = m.Sampling
	}
	result["octaves"] = strconv.Itoa(m.Params.Octaves)
	result["lacunarity"] = formatFloat(m.Params.Lacunarity)
	result["gain"] = formatFloat(m.Params.Gain)
	result["time_multiplier"] = formatFloat(m.Params.TimeMultiplier)

	return result
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// BufferInfo summarizes a stored buffer without its texels.
type BufferInfo struct {
	Set    string
	Name   string
	Width  int
	Wrap   string
	Filter string
	Range  string
}

var byteorder = binary.LittleEndian

// packTexels serializes texels as little-endian float32 quadruples and gzips them.
func packTexels(texels []mgl32.Vec4) ([]byte, error) {
	raw := make([]byte, len(texels)*16)
	for i, t := range texels {
		for c := 0; c < 4; c++ {
			byteorder.PutUint32(raw[i*16+c*4:], math.Float32bits(t[c]))
		}
	}

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(raw); err != nil {
		gw.Close()
		return nil, err
	}
	if err := gw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func unpackTexels(data []byte, width int) ([]mgl32.Vec4, error) {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gr.Close()

	raw, err := io.ReadAll(gr)
	if err != nil {
		return nil, err
	}
	if len(raw) != width*16 {
		return nil, fmt.Errorf("texel data is %d bytes, want %d for width %d", len(raw), width*16, width)
	}

	texels := make([]mgl32.Vec4, width)
	for i := range texels {
		for c := 0; c < 4; c++ {
			texels[i][c] = math.Float32frombits(byteorder.Uint32(raw[i*16+c*4:]))
		}
	}
	return texels, nil
}

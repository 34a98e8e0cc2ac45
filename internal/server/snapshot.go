// Package server exposes published lookup buffers and noise parameters
// over HTTP.
package server

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/MeKo-Tech/noiselut/internal/lut"
)

// Snapshot is a render target that keeps the last published value of every
// texture and uniform so HTTP handlers can read them while the frame loop
// keeps publishing. Textures are copied on publish.
type Snapshot struct {
	mu       sync.RWMutex
	textures map[string]*lut.EncodedBuffer
	ints     map[string]int
	floats   map[string]float32
	frames   atomic.Int64
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		textures: make(map[string]*lut.EncodedBuffer),
		ints:     make(map[string]int),
		floats:   make(map[string]float32),
	}
}

// SetTexture stores a copy of buf. A nil buffer removes the texture.
func (s *Snapshot) SetTexture(name string, buf *lut.EncodedBuffer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if buf == nil {
		delete(s.textures, name)
		return
	}
	// Unchanged textures are not copied again.
	if cur, ok := s.textures[name]; ok && cur.Equal(buf) {
		return
	}
	s.textures[name] = buf.Clone()
}

// SetInt stores an integer uniform.
func (s *Snapshot) SetInt(name string, v int) {
	s.mu.Lock()
	s.ints[name] = v
	s.mu.Unlock()
}

// SetFloat stores a float uniform.
func (s *Snapshot) SetFloat(name string, v float32) {
	s.mu.Lock()
	s.floats[name] = v
	s.mu.Unlock()
}

// EndFrame marks the end of one published frame.
func (s *Snapshot) EndFrame() {
	s.frames.Add(1)
}

// Frames returns the number of completed frames.
func (s *Snapshot) Frames() int64 {
	return s.frames.Load()
}

// Texture returns the stored texture. The result must not be modified.
func (s *Snapshot) Texture(name string) (*lut.EncodedBuffer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	buf, ok := s.textures[name]
	return buf, ok
}

// TextureNames returns the stored texture names in sorted order.
func (s *Snapshot) TextureNames() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.textures))
	for n := range s.textures {
		names = append(names, n)
	}
	s.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Uniforms returns a copy of all scalar uniforms keyed by name.
func (s *Snapshot) Uniforms() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.ints)+len(s.floats))
	for k, v := range s.ints {
		out[k] = v
	}
	for k, v := range s.floats {
		out[k] = v
	}
	return out
}

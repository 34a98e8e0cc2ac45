package server

import (
	"fmt"
	"log/slog"

	"github.com/MeKo-Tech/noiselut/internal/lut"
	"github.com/MeKo-Tech/noiselut/internal/lutstore"
)

// StoreSource serves buffers of one set from a LUT store.
type StoreSource struct {
	reader *lutstore.Reader
	set    string
	logger *slog.Logger
}

// StoreConfig configures a StoreSource.
type StoreConfig struct {
	Path string
	Set  string
}

// NewStoreSource opens the store read-only.
func NewStoreSource(cfg StoreConfig, logger *slog.Logger) (*StoreSource, error) {
	reader, err := lutstore.OpenReader(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open LUT store: %w", err)
	}
	return &StoreSource{reader: reader, set: cfg.Set, logger: logger}, nil
}

// Texture reads name from the configured set.
func (s *StoreSource) Texture(name string) (*lut.EncodedBuffer, bool) {
	buf, err := s.reader.ReadBuffer(s.set, name)
	if err != nil {
		s.log().Debug("store lookup failed", "set", s.set, "name", name, "error", err)
		return nil, false
	}
	return buf, true
}

// Close closes the store.
func (s *StoreSource) Close() error {
	return s.reader.Close()
}

func (s *StoreSource) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

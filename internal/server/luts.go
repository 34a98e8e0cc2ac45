package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/noiselut/internal/lut"
)

// BufferSource looks up a buffer by name.
type BufferSource interface {
	Texture(name string) (*lut.EncodedBuffer, bool)
}

// LUTConfig configures the buffer handler.
type LUTConfig struct {
	// Prefix is the URL path prefix, e.g. "/luts/".
	Prefix       string
	CacheControl string
	// SwatchHeight is the default PNG height in pixels.
	SwatchHeight int
}

// LUTHandler serves buffers as PNG strips or JSON.
type LUTHandler struct {
	src    BufferSource
	cfg    LUTConfig
	logger *slog.Logger
}

// NewLUTHandler creates a handler serving buffers from src.
func NewLUTHandler(src BufferSource, cfg LUTConfig, logger *slog.Logger) *LUTHandler {
	if cfg.Prefix == "" {
		cfg.Prefix = "/luts/"
	}
	if cfg.CacheControl == "" {
		cfg.CacheControl = "no-store"
	}
	if cfg.SwatchHeight <= 0 {
		cfg.SwatchHeight = 16
	}
	return &LUTHandler{src: src, cfg: cfg, logger: logger}
}

func (h *LUTHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name, ext, ok := parseLUTPath(h.cfg.Prefix, r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	buf, ok := h.src.Texture(name)
	if !ok {
		http.Error(w, "buffer not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Cache-Control", h.cfg.CacheControl)

	switch ext {
	case ".json":
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(buf); err != nil {
			h.log().Error("failed to encode buffer", "name", name, "error", err)
		}
	case ".png":
		scale := queryInt(r, "scale", 1)
		height := queryInt(r, "height", h.cfg.SwatchHeight)
		if scale < 1 || scale > 16 || height < 1 || height > 1024 {
			http.Error(w, "invalid scale or height", http.StatusBadRequest)
			return
		}
		data, err := buf.EncodeSwatchPNG(scale, height)
		if err != nil {
			h.log().Error("failed to encode png", "name", name, "error", err)
			http.Error(w, "failed to encode png", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		if _, err := w.Write(data); err != nil {
			h.log().Error("failed to write response", "error", err)
		}
	}
}

func (h *LUTHandler) log() *slog.Logger {
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}

// parseLUTPath splits "/luts/_ColorTexture.png" into name and extension.
func parseLUTPath(prefix, requestPath string) (string, string, bool) {
	if !strings.HasPrefix(requestPath, prefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(requestPath, prefix)
	if rest == "" || strings.Contains(rest, "/") {
		return "", "", false
	}
	ext := path.Ext(rest)
	if ext != ".png" && ext != ".json" {
		return "", "", false
	}
	name := strings.TrimSuffix(rest, ext)
	if name == "" {
		return "", "", false
	}
	return name, ext, true
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}

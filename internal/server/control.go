package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/MeKo-Tech/noiselut/internal/gradient"
	"github.com/MeKo-Tech/noiselut/internal/params"
	"github.com/MeKo-Tech/noiselut/internal/provider"
)

// Status is the JSON body of the status endpoint.
type Status struct {
	State    string                   `json:"state"`
	Frames   int64                    `json:"frames"`
	Params   params.NoiseParameterSet `json:"params"`
	Textures []string                 `json:"textures"`
	Uniforms map[string]any           `json:"uniforms"`
}

// Control serves the parameter, gradient and status endpoints of a running
// frame loop.
type Control struct {
	loop    *Loop
	snap    *Snapshot
	timeout time.Duration
	logger  *slog.Logger
}

// NewControl creates the control endpoints for loop.
func NewControl(loop *Loop, snap *Snapshot, logger *slog.Logger) *Control {
	return &Control{loop: loop, snap: snap, timeout: 5 * time.Second, logger: logger}
}

// ParamsHandler serves GET (current parameters) and PUT (replace parameters).
// PUT bodies are validated; out-of-range values are rejected with 400.
func (c *Control) ParamsHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
		defer cancel()

		switch r.Method {
		case http.MethodGet:
		case http.MethodPut, http.MethodPost:
			var ps params.NoiseParameterSet
			if err := json.NewDecoder(r.Body).Decode(&ps); err != nil {
				http.Error(w, fmt.Sprintf("invalid body: %v", err), http.StatusBadRequest)
				return
			}
			if err := ps.Validate(); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if err := c.loop.Do(ctx, func(p *provider.Provider) error {
				p.SetParams(ps)
				return nil
			}); err != nil {
				c.fail(w, err)
				return
			}
			c.log().Info("noise parameters updated",
				"octaves", ps.Octaves,
				"lacunarity", ps.Lacunarity,
				"gain", ps.Gain,
				"time_multiplier", ps.TimeMultiplier,
			)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var ps params.NoiseParameterSet
		if err := c.loop.Do(ctx, func(p *provider.Provider) error {
			ps = p.Params()
			return nil
		}); err != nil {
			c.fail(w, err)
			return
		}
		c.writeJSON(w, ps)
	})
}

// GradientHandler accepts PUT with a gradient.Config body. The new gradient
// is baked on the next frame.
func (c *Control) GradientHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut && r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var cfg gradient.Config
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			http.Error(w, fmt.Sprintf("invalid body: %v", err), http.StatusBadRequest)
			return
		}
		g, err := cfg.Build()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
		defer cancel()
		if err := c.loop.Do(ctx, func(p *provider.Provider) error {
			p.SetGradient(g)
			return nil
		}); err != nil {
			c.fail(w, err)
			return
		}
		c.log().Info("color gradient replaced", "name", cfg.Name, "mode", string(g.Mode), "colors", len(g.Colors))
		w.WriteHeader(http.StatusNoContent)
	})
}

// StatusHandler reports the provider state and the last published values.
func (c *Control) StatusHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
		defer cancel()

		var st Status
		if err := c.loop.Do(ctx, func(p *provider.Provider) error {
			st.State = p.State().String()
			st.Params = p.Params()
			return nil
		}); err != nil {
			c.fail(w, err)
			return
		}
		st.Frames = c.snap.Frames()
		st.Textures = c.snap.TextureNames()
		st.Uniforms = c.snap.Uniforms()
		c.writeJSON(w, st)
	})
}

func (c *Control) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		c.log().Error("failed to encode response", "error", err)
	}
}

func (c *Control) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, ErrLoopStopped) || errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusServiceUnavailable
	}
	c.log().Error("provider request failed", "error", err)
	http.Error(w, err.Error(), status)
}

func (c *Control) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

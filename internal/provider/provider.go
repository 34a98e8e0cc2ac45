// Package provider owns the encoded noise lookup buffers for one consumer and
// publishes them, together with the fractal parameters, once per frame.
//
// A Provider is driven from a single goroutine: the host calls Enable, then
// Tick once per frame, and Disable when done. It does no locking.
package provider

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/MeKo-Tech/noiselut/internal/gradient"
	"github.com/MeKo-Tech/noiselut/internal/lut"
	"github.com/MeKo-Tech/noiselut/internal/params"
	"github.com/MeKo-Tech/noiselut/internal/tables"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrDisabled is returned by operations that need built buffers.
var ErrDisabled = errors.New("provider is disabled")

// State is the lifecycle state of a Provider.
type State int

const (
	// StateDisabled holds no buffers.
	StateDisabled State = iota
	// StateDirty has buffers, but the color buffer is older than the gradient.
	StateDirty
	// StateClean has buffers in sync with the tables and the gradient.
	StateClean
)

func (s State) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateDirty:
		return "enabled-dirty"
	case StateClean:
		return "enabled-clean"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// RenderTarget receives the published buffers and parameters. Buffers passed
// to SetTexture stay owned by the provider and are released on Disable;
// targets that keep them beyond the call must copy them.
type RenderTarget interface {
	SetTexture(name string, buf *lut.EncodedBuffer)
	SetInt(name string, v int)
	SetFloat(name string, v float32)
}

// Options configures a Provider.
type Options struct {
	Gradient gradient.ColorGradient
	// Params defaults to params.Defaults when left zero.
	Params params.NoiseParameterSet
	// Width of the color buffer; defaults to gradient.DefaultWidth.
	Width    int
	Sampling gradient.SampleMode
	Logger   *slog.Logger
}

// Provider builds, owns and publishes the permutation, gradient and color buffers.
type Provider struct {
	target   RenderTarget
	baker    gradient.Baker
	gradient gradient.ColorGradient
	baked    gradient.ColorGradient
	params   params.NoiseParameterSet
	logger   *slog.Logger

	state       State
	permutation *lut.EncodedBuffer
	gradients   *lut.EncodedBuffer
	color       *lut.EncodedBuffer
}

// DefaultGradient is an opaque white gradient, used when none is configured.
func DefaultGradient() *gradient.Stops {
	return gradient.TwoStop(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1, 1, 1})
}

// New creates a disabled provider publishing to target.
func New(target RenderTarget, opts Options) *Provider {
	if opts.Width == 0 {
		opts.Width = gradient.DefaultWidth
	}
	if opts.Params == (params.NoiseParameterSet{}) {
		opts.Params = params.Defaults()
	}
	var g gradient.ColorGradient = DefaultGradient()
	if opts.Gradient != nil {
		g = opts.Gradient
	}
	return &Provider{
		target:   target,
		baker:    gradient.Baker{Width: opts.Width, Mode: opts.Sampling},
		gradient: g,
		params:   opts.Params,
		logger:   opts.Logger,
	}
}

// State returns the current lifecycle state.
func (p *Provider) State() State { return p.state }

// Params returns the parameters published on every tick.
func (p *Provider) Params() params.NoiseParameterSet { return p.params }

// SetParams replaces the published parameters. Range checks belong to the
// caller; see params.NoiseParameterSet.Validate.
func (p *Provider) SetParams(ps params.NoiseParameterSet) { p.params = ps }

// Gradient returns the gradient the next bake will use.
func (p *Provider) Gradient() gradient.ColorGradient { return p.gradient }

// SetGradient replaces the gradient. An enabled provider becomes dirty unless
// g is known to equal the gradient of the last bake.
func (p *Provider) SetGradient(g gradient.ColorGradient) {
	if g == nil {
		g = DefaultGradient()
	}
	p.gradient = g
	if p.state == StateClean && !sameGradient(g, p.baked) {
		p.state = StateDirty
	}
}

// Buffers returns the currently held buffers. All are nil when disabled.
func (p *Provider) Buffers() (permutation, gradients, color *lut.EncodedBuffer) {
	return p.permutation, p.gradients, p.color
}

// Enable builds the table buffers and bakes the color buffer. Enabling an
// enabled provider does nothing. If building fails or panics, everything
// built so far is released and the provider stays disabled.
func (p *Provider) Enable() (err error) {
	if p.state != StateDisabled {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			p.release()
			panic(r)
		}
		if err != nil {
			p.release()
		}
	}()

	p.permutation = lut.EncodePermutation(tables.Permutation())
	p.gradients = lut.EncodeGradients(tables.Gradients4D())
	if p.baker.Width <= 0 || p.baker.Width > gradient.MaxWidth {
		return fmt.Errorf("failed to allocate color buffer: %w", gradient.ErrInvalidWidth)
	}
	p.color = lut.NewBuffer(lut.ColorName, p.baker.Width, lut.ColorSampler, lut.RangeUnsigned)
	p.state = StateDirty

	if err := p.Bake(); err != nil {
		return err
	}

	p.log().Debug("noise provider enabled",
		"color_width", p.baker.Width,
		"sampling", p.baker.Mode.String(),
	)
	return nil
}

// Bake resamples the current gradient into a fresh color buffer.
func (p *Provider) Bake() error {
	if p.state == StateDisabled {
		return ErrDisabled
	}
	buf, err := p.baker.Bake(p.gradient)
	if err != nil {
		return fmt.Errorf("failed to bake color buffer: %w", err)
	}
	p.color.Release()
	p.color = buf
	p.baked = snapshot(p.gradient)
	p.state = StateClean
	return nil
}

// BakeIfChanged bakes only when the gradient changed since the last bake.
// It reports whether a bake happened.
func (p *Provider) BakeIfChanged() (bool, error) {
	if p.state != StateDirty {
		return false, nil
	}
	if err := p.Bake(); err != nil {
		return false, err
	}
	return true, nil
}

// Tick publishes all buffers and parameters to the target. It republishes
// unconditionally on every call and never bakes.
func (p *Provider) Tick() {
	if p.state == StateDisabled || p.target == nil {
		return
	}
	p.target.SetTexture(lut.ColorName, p.color)
	p.target.SetTexture(lut.PermutationName, p.permutation)
	p.target.SetTexture(lut.Gradient4Name, p.gradients)

	p.target.SetInt(params.OctavesName, p.params.Octaves)
	p.target.SetFloat(params.LacunarityName, p.params.Lacunarity)
	p.target.SetFloat(params.GainName, p.params.Gain)
	p.target.SetFloat(params.TimeMultiplierName, p.params.TimeMultiplier)
}

// Disable releases all buffers. Disabling a disabled provider does nothing.
func (p *Provider) Disable() {
	if p.state == StateDisabled {
		return
	}
	p.release()
	p.log().Debug("noise provider disabled")
}

// Close disables the provider so it can be deferred like any io.Closer.
func (p *Provider) Close() error {
	p.Disable()
	return nil
}

func (p *Provider) release() {
	p.permutation.Release()
	p.gradients.Release()
	p.color.Release()
	p.permutation = nil
	p.gradients = nil
	p.color = nil
	p.baked = nil
	p.state = StateDisabled
}

func (p *Provider) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return slog.Default()
}

type cloner interface {
	Clone() gradient.ColorGradient
}

// snapshot copies g when it can be copied, so edits made to g in place after
// a bake still register as changes.
func snapshot(g gradient.ColorGradient) gradient.ColorGradient {
	if c, ok := g.(cloner); ok {
		return c.Clone()
	}
	return g
}

type equaler interface {
	Equal(gradient.ColorGradient) bool
}

func sameGradient(a, b gradient.ColorGradient) bool {
	if a == nil || b == nil {
		return false
	}
	if eq, ok := a.(equaler); ok {
		return eq.Equal(b)
	}
	return false
}

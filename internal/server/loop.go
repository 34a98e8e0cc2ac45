package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/MeKo-Tech/noiselut/internal/provider"
)

// ErrLoopStopped is returned by Do once the loop has exited.
var ErrLoopStopped = errors.New("frame loop stopped")

// LoopConfig configures the frame loop.
type LoopConfig struct {
	// Interval between frames (default: 1/30s).
	Interval time.Duration
}

// Loop owns a provider and drives it from a single goroutine: every frame it
// applies queued changes, rebakes if the gradient changed and publishes.
// Other goroutines reach the provider only through Do.
type Loop struct {
	prov     *provider.Provider
	snap     *Snapshot
	interval time.Duration
	jobs     chan job
	done     chan struct{}
	logger   *slog.Logger
}

type job struct {
	fn    func(*provider.Provider) error
	reply chan error
}

// NewLoop creates a loop over an enabled provider that publishes into snap.
func NewLoop(prov *provider.Provider, snap *Snapshot, cfg LoopConfig, logger *slog.Logger) *Loop {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second / 30
	}
	return &Loop{
		prov:     prov,
		snap:     snap,
		interval: cfg.Interval,
		jobs:     make(chan job),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// Run drives frames until ctx is cancelled, then disables the provider.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	defer l.prov.Disable()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.frame()
	for {
		select {
		case <-ctx.Done():
			l.log().Info("frame loop stopping", "frames", l.snap.Frames())
			return
		case j := <-l.jobs:
			j.reply <- l.apply(j.fn)
		case <-ticker.C:
			l.frame()
		}
	}
}

// Do runs fn on the loop goroutine and waits for its result.
func (l *Loop) Do(ctx context.Context, fn func(*provider.Provider) error) error {
	j := job{fn: fn, reply: make(chan error, 1)}
	select {
	case l.jobs <- j:
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-j.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed when Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) apply(fn func(*provider.Provider) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			l.log().Error("provider job panicked", "panic", r)
			err = errors.New("provider job panicked")
		}
	}()
	return fn(l.prov)
}

func (l *Loop) frame() {
	if l.prov.State() == provider.StateDisabled {
		return
	}
	rebaked, err := l.prov.BakeIfChanged()
	if err != nil {
		l.log().Error("failed to rebake color gradient", "error", err)
	} else if rebaked {
		l.log().Debug("color gradient rebaked")
	}
	l.prov.Tick()
	l.snap.EndFrame()
}

func (l *Loop) log() *slog.Logger {
	if l.logger != nil {
		return l.logger
	}
	return slog.Default()
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/MeKo-Tech/noiselut/internal/gradient"
	"github.com/MeKo-Tech/noiselut/internal/lut"
	"github.com/MeKo-Tech/noiselut/internal/lutstore"
	"github.com/MeKo-Tech/noiselut/internal/tables"
	"github.com/MeKo-Tech/noiselut/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	formatPNG   = "png"
	formatStore = "store"
)

var bakeCmd = &cobra.Command{
	Use:   "bake",
	Short: "Bake color ramps and noise tables",
	Long: `Bake every configured gradient into a color ramp, in parallel.

With --format=png each ramp is written as <name>.png next to the permutation
and gradient table strips. With --format=store all buffers go into a single
SQLite LUT store, one set per gradient, each set holding the color ramp and
both noise tables.`,
	RunE: runBake,
}

func init() {
	rootCmd.AddCommand(bakeCmd)

	bakeCmd.Flags().StringP("output", "o", "./luts", "Output directory (png) or database file (store)")
	bakeCmd.Flags().String("format", formatPNG, "Output format: png or store")
	bakeCmd.Flags().StringSlice("only", nil, "Bake only these gradients (default: all)")
	bakeCmd.Flags().IntP("workers", "w", 0, "Number of parallel workers (default: number of CPUs)")
	bakeCmd.Flags().Bool("progress", true, "Show progress bar")
	bakeCmd.Flags().Int("swatch-height", 1, "Height of the PNG strips in pixels")
	bakeCmd.Flags().Int("swatch-scale", 1, "Horizontal scale of the PNG strips")
	bakeCmd.Flags().Bool("allow-failures", false, "Exit successfully even if some gradients fail")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"bake.output", "output"},
		{"bake.format", "format"},
		{"bake.only", "only"},
		{"bake.workers", "workers"},
		{"bake.progress", "progress"},
		{"bake.swatch_height", "swatch-height"},
		{"bake.swatch_scale", "swatch-scale"},
		{"bake.allow_failures", "allow-failures"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, bakeCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runBake(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}
	v := viper.GetViper()

	output := v.GetString("bake.output")
	format := v.GetString("bake.format")
	workers := v.GetInt("bake.workers")
	showProgress := v.GetBool("bake.progress")
	allowFailures := v.GetBool("bake.allow_failures")

	if format != formatPNG && format != formatStore {
		return fmt.Errorf("invalid format %q: must be 'png' or 'store'", format)
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ps, err := noiseParams(v)
	if err != nil {
		return err
	}
	baker, err := colorBaker(v)
	if err != nil {
		return err
	}
	cfgs, err := gradientConfigs(v)
	if err != nil {
		return err
	}
	names, built, err := selectGradients(cfgs, v.GetStringSlice("bake.only"))
	if err != nil {
		return err
	}

	sink := &bakeSink{
		baker:        baker,
		format:       format,
		dir:          output,
		swatchScale:  v.GetInt("bake.swatch_scale"),
		swatchHeight: v.GetInt("bake.swatch_height"),
		permutation:  lut.EncodePermutation(tables.Permutation()),
		gradients:    lut.EncodeGradients(tables.Gradients4D()),
	}

	switch format {
	case formatPNG:
		if err := os.MkdirAll(output, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := sink.writeTableStrips(); err != nil {
			return err
		}
	case formatStore:
		if dir := filepath.Dir(output); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		sink.store, err = lutstore.New(output, lutstore.Metadata{
			Name:        filepath.Base(output),
			Description: "noise lookup tables and color ramps",
			Version:     "1",
			Sampling:    baker.Mode.String(),
			Params:      ps,
		})
		if err != nil {
			return fmt.Errorf("failed to create LUT store: %w", err)
		}
		defer func() {
			if err := sink.store.Close(); err != nil {
				logger.Error("Failed to close LUT store", "error", err)
			}
		}()
	}

	logger.Info("Starting bake",
		"gradients", len(names),
		"width", baker.Width,
		"sampling", baker.Mode.String(),
		"format", format,
		"output", output,
		"workers", workers,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("Received interrupt signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	tasks := make([]worker.Task, 0, len(names))
	for _, name := range names {
		tasks = append(tasks, worker.Task{Name: name, Gradient: built[name]})
	}

	progress := worker.NewProgress(len(tasks), "gradients", showProgress)
	pool := worker.New(worker.Config{
		Workers:    workers,
		Baker:      sink,
		OnProgress: progress.Callback(),
	})

	results := pool.Run(ctx, tasks)
	progress.Done()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			logger.Error("Gradient bake failed", "gradient", r.Task.Name, "error", r.Err)
			continue
		}
		logger.Debug("Gradient baked", "gradient", r.Task.Name, "elapsed", r.Elapsed)
		r.Buffer.Release()
	}
	logger.Info(progress.Summary())

	if failed > 0 {
		if allowFailures {
			logger.Warn("Some gradients failed to bake, but continuing due to --allow-failures flag", "failed_count", failed)
			return nil
		}
		return fmt.Errorf("%d of %d gradients failed to bake", failed, len(tasks))
	}
	return nil
}

// bakeSink bakes one gradient and writes the result in the chosen format.
type bakeSink struct {
	baker        gradient.Baker
	format       string
	dir          string
	swatchScale  int
	swatchHeight int
	store        *lutstore.Writer
	permutation  *lut.EncodedBuffer
	gradients    *lut.EncodedBuffer
}

func (s *bakeSink) Bake(ctx context.Context, task worker.Task) (*lut.EncodedBuffer, error) {
	buf, err := s.baker.Bake(task.Gradient)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch s.format {
	case formatStore:
		for _, b := range []*lut.EncodedBuffer{buf, s.permutation, s.gradients} {
			if err := s.store.WriteBuffer(task.Name, b); err != nil {
				return nil, err
			}
		}
	default:
		path := filepath.Join(s.dir, task.Name+".png")
		if err := lut.WritePNG(path, buf.Swatch(s.swatchScale, s.swatchHeight)); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

func (s *bakeSink) writeTableStrips() error {
	for _, b := range []*lut.EncodedBuffer{s.permutation, s.gradients} {
		path := filepath.Join(s.dir, b.Name+".png")
		if err := lut.WritePNG(path, b.Swatch(s.swatchScale, s.swatchHeight)); err != nil {
			return err
		}
	}
	return nil
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MeKo-Tech/noiselut/internal/provider"
	"github.com/MeKo-Tech/noiselut/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the noise provider and serve its published buffers",
	Long: `Run a noise provider in a frame loop and expose what it publishes.

Endpoints:
  /luts/{name}.png    8-bit strip of a published buffer (?scale=, ?height=)
  /luts/{name}.json   float texels and sampler state of a published buffer
  /params             GET or PUT the noise parameters
  /gradient           PUT a gradient; it is baked on the next frame
  /status             provider state, frame count and published uniforms
  /store/{name}.png   buffers from a LUT store (with --store)
  /healthz`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Listen address (host:port)")
	serveCmd.Flags().String("gradient", "", "Initial gradient name (default: first configured)")
	serveCmd.Flags().Int("fps", 30, "Frames published per second")
	serveCmd.Flags().String("cache-control", "no-store", "Cache-Control header for served buffers")
	serveCmd.Flags().String("store", "", "Also serve buffers from this LUT store")
	serveCmd.Flags().String("store-set", "", "Set to serve from the LUT store (default: --gradient)")

	mustBind := func(key string, name string) {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag: %v", err))
		}
	}

	mustBind("serve.addr", "addr")
	mustBind("serve.gradient", "gradient")
	mustBind("serve.fps", "fps")
	mustBind("serve.cache_control", "cache-control")
	mustBind("serve.store", "store")
	mustBind("serve.store_set", "store-set")
}

func runServe(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}
	v := viper.GetViper()

	addr := v.GetString("serve.addr")
	fps := v.GetInt("serve.fps")
	cacheControl := v.GetString("serve.cache_control")
	if fps <= 0 {
		return fmt.Errorf("fps must be positive")
	}

	ps, err := noiseParams(v)
	if err != nil {
		return err
	}
	baker, err := colorBaker(v)
	if err != nil {
		return err
	}
	name, g, err := namedGradient(v, v.GetString("serve.gradient"))
	if err != nil {
		return err
	}

	var storeSrc *server.StoreSource
	if storePath := v.GetString("serve.store"); storePath != "" {
		set := v.GetString("serve.store_set")
		if set == "" {
			set = name
		}
		storeSrc, err = server.NewStoreSource(server.StoreConfig{Path: storePath, Set: set}, logger)
		if err != nil {
			return err
		}
		defer storeSrc.Close()
		logger.Info("serving LUT store", "path", storePath, "set", set)
	}

	snap := server.NewSnapshot()
	prov := provider.New(snap, provider.Options{
		Gradient: g,
		Params:   ps,
		Width:    baker.Width,
		Sampling: baker.Mode,
		Logger:   logger,
	})
	if err := prov.Enable(); err != nil {
		return fmt.Errorf("failed to enable provider: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	loop := server.NewLoop(prov, snap, server.LoopConfig{Interval: time.Second / time.Duration(fps)}, logger)
	go loop.Run(ctx)

	control := server.NewControl(loop, snap, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/luts/", withCORS(server.NewLUTHandler(snap, server.LUTConfig{
		Prefix:       "/luts/",
		CacheControl: cacheControl,
	}, logger)))
	mux.Handle("/params", withCORS(control.ParamsHandler()))
	mux.Handle("/gradient", withCORS(control.GradientHandler()))
	mux.Handle("/status", withCORS(control.StatusHandler()))

	if storeSrc != nil {
		mux.Handle("/store/", withCORS(server.NewLUTHandler(storeSrc, server.LUTConfig{
			Prefix:       "/store/",
			CacheControl: cacheControl,
		}, logger)))
	}

	logger.Info("noise provider server listening",
		"addr", addr,
		"gradient", name,
		"fps", fps,
		"width", baker.Width,
		"sampling", baker.Mode.String(),
	)

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		cancel()
		<-loop.Done()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	<-loop.Done()
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

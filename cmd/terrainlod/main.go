// Package main flies a viewer over terrain without a window and reports the
// level-of-detail selection it produces.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/app"
	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/engine/gpu"
	"github.com/Faultbox/midgard-terrain/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Midgard Terrain LOD ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Metrics.Addr != "" {
		go app.ServeMetrics(ctx, cfg.Metrics.Addr)
	}

	device := gpu.NewMemoryDevice()
	root, err := app.BuildRoot(cfg.Terrain, device)
	if err != nil {
		logger.Error("failed to build terrain", zap.Error(err))
		os.Exit(1)
	}
	defer root.Close()

	path := app.NewOrbitPath(root.Bounds(), cfg.Simulation)
	report, err := app.Simulate(ctx, root, path, cfg.Simulation.Frames)
	if err != nil {
		logger.Warn("simulation interrupted", zap.Error(err))
	}

	logger.Info("simulation finished",
		zap.Int("frames", report.Frames),
		zap.Int("patches", report.Final.Patches),
		zap.Int("min_triangles", report.MinTriangles),
		zap.Int("peak_triangles", report.PeakTriangles),
		zap.Float64("mean_triangles", report.MeanTriangles),
		zap.Int("max_stitched", report.MaxStitched),
		zap.Ints("final_levels", report.Final.Levels),
		zap.Int("index_buffers", root.Cache().BufferCount()),
		zap.Int("live_buffers", device.Live()),
		zap.Duration("took", report.Took),
	)

	// Keep serving metrics until interrupted
	if cfg.Metrics.Addr != "" && ctx.Err() == nil {
		logger.Info("serving metrics, press Ctrl+C to exit", zap.String("addr", cfg.Metrics.Addr))
		<-ctx.Done()
	}
}

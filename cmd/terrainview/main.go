// Package main is an interactive OpenGL viewer for continuous-LOD terrain.
//
// Drag with the left mouse button to orbit, scroll to zoom, WASD/QE to move.
// Right click logs the patch under the cursor. F1 toggles wireframe, B
// outlines patches by level, L freezes the LOD selection, V toggles vsync and
// F12 saves a screenshot.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/config"
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

	logger.Info("=== Midgard Terrain Viewer ===")

	v, err := newViewer(cfg)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	v.Run()
	logger.Info("viewer closed normally")
}

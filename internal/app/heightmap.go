// Package app wires configuration to the terrain core for the commands.
package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/engine/gpu"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/internal/logger"
)

// BuildHeightmap loads the configured image, or synthesizes terrain when no
// image path is set.
func BuildHeightmap(cfg config.TerrainConfig) (*terrain.Heightmap, error) {
	if cfg.Heightmap != "" {
		hm, err := terrain.LoadHeightmap(cfg.Heightmap, cfg.HeightScale, cfg.SmoothSteps)
		if err != nil {
			return nil, err
		}
		logger.Info("heightmap loaded",
			zap.String("path", cfg.Heightmap),
			zap.Int("width", hm.Width),
			zap.Int("height", hm.Height),
		)
		return hm, nil
	}

	heights := terrain.Synthesize(cfg.Width, cfg.Height, cfg.Seed)
	for i := range heights {
		heights[i] *= cfg.HeightScale
	}
	hm, err := terrain.NewHeightmap(cfg.Width, cfg.Height, heights, cfg.SmoothSteps)
	if err != nil {
		return nil, fmt.Errorf("synthetic heightmap: %w", err)
	}
	logger.Info("heightmap synthesized",
		zap.Uint32("seed", cfg.Seed),
		zap.Int("width", hm.Width),
		zap.Int("height", hm.Height),
	)
	return hm, nil
}

// BuildRoot builds the heightmap and tiles it on device.
func BuildRoot(cfg config.TerrainConfig, device gpu.Device) (*terrain.Root, error) {
	hm, err := BuildHeightmap(cfg)
	if err != nil {
		return nil, err
	}
	return terrain.NewRoot(hm, terrain.Options{
		PatchSize: cfg.PatchSize,
		LODScale:  cfg.LODScale,
	}, device)
}

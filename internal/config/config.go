// Package config handles terrain configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all terrain and viewer settings.
type Config struct {
	Terrain    TerrainConfig    `yaml:"terrain"`
	Graphics   GraphicsConfig   `yaml:"graphics"`
	Simulation SimulationConfig `yaml:"simulation"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// TerrainConfig holds the height-field source and LOD settings.
// An empty Heightmap path selects the synthetic source.
type TerrainConfig struct {
	Heightmap   string  `yaml:"heightmap"`
	Width       int     `yaml:"width"`  // Synthetic width in samples
	Height      int     `yaml:"height"` // Synthetic height in samples
	Seed        uint32  `yaml:"seed"`
	HeightScale float32 `yaml:"height_scale"`
	SmoothSteps int     `yaml:"smooth_steps"`
	PatchSize   int     `yaml:"patch_size"`
	LODScale    float32 `yaml:"lod_scale"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	Wireframe  bool `yaml:"wireframe"`

	SunLongitude float32 `yaml:"sun_longitude"` // Degrees around Y
	SunLatitude  float32 `yaml:"sun_latitude"`  // Degrees above the horizon
}

// SimulationConfig describes the viewer path flown by the headless runner.
type SimulationConfig struct {
	Frames      int     `yaml:"frames"`
	OrbitRadius float32 `yaml:"orbit_radius"` // 0 fits the orbit to the terrain
	Speed       float32 `yaml:"speed"`        // Radians per frame
}

// MetricsConfig holds the prometheus endpoint settings.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // Empty disables the endpoint
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			Width:       257,
			Height:      257,
			Seed:        1,
			HeightScale: 40,
			SmoothSteps: 1,
			PatchSize:   16,
			LODScale:    1,
		},
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			Wireframe:  false,

			SunLongitude: 45,
			SunLatitude:  50,
		},
		Simulation: SimulationConfig{
			Frames: 120,
			Speed:  0.05,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks the settings the terrain cannot be built without.
func (c *Config) Validate() error {
	t := c.Terrain
	switch {
	case t.PatchSize < 2 || t.PatchSize&(t.PatchSize-1) != 0:
		return fmt.Errorf("%w: terrain.patch_size %d is not a power of two >= 2", ErrInvalidConfig, t.PatchSize)
	case t.LODScale <= 0:
		return fmt.Errorf("%w: terrain.lod_scale must be positive, got %g", ErrInvalidConfig, t.LODScale)
	case t.SmoothSteps < 0:
		return fmt.Errorf("%w: terrain.smooth_steps must not be negative", ErrInvalidConfig)
	case t.HeightScale == 0:
		return fmt.Errorf("%w: terrain.height_scale must not be zero", ErrInvalidConfig)
	case t.Heightmap == "" && (t.Width < 2 || t.Height < 2):
		return fmt.Errorf("%w: synthetic terrain needs at least 2x2 samples, got %dx%d", ErrInvalidConfig, t.Width, t.Height)
	case c.Simulation.Frames < 0:
		return fmt.Errorf("%w: simulation.frames must not be negative", ErrInvalidConfig)
	}
	return nil
}

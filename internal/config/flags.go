package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagHeightmap   = flag.String("heightmap", "", "Height-field image (PNG, JPEG, BMP, TIFF, TGA)")
	flagPatchSize   = flag.Int("patch-size", 0, "Patch size in samples, a power of two")
	flagLODScale    = flag.Float64("lod-scale", 0, "LOD distance scale")
	flagWindowed    = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen  = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth       = flag.Int("width", 0, "Window width")
	flagHeight      = flag.Int("height", 0, "Window height")
	flagFrames      = flag.Int("frames", -1, "Frames to simulate")
	flagMetricsAddr = flag.String("metrics-addr", "", "Serve prometheus metrics on this address")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagHeightmap != "" {
		cfg.Terrain.Heightmap = *flagHeightmap
	}
	if *flagPatchSize > 0 {
		cfg.Terrain.PatchSize = *flagPatchSize
	}
	if *flagLODScale > 0 {
		cfg.Terrain.LODScale = float32(*flagLODScale)
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagFrames >= 0 {
		cfg.Simulation.Frames = *flagFrames
	}
	if *flagMetricsAddr != "" {
		cfg.Metrics.Addr = *flagMetricsAddr
	}
}

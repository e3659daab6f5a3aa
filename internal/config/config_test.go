package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Terrain.PatchSize != 16 {
		t.Errorf("expected patch size 16, got %d", cfg.Terrain.PatchSize)
	}
	if cfg.Terrain.LODScale != 1 {
		t.Errorf("expected lod scale 1, got %f", cfg.Terrain.LODScale)
	}
	if cfg.Terrain.Heightmap != "" {
		t.Errorf("expected synthetic terrain by default, got %s", cfg.Terrain.Heightmap)
	}

	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	if cfg.Metrics.Addr != "" {
		t.Errorf("expected metrics disabled by default, got %s", cfg.Metrics.Addr)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"patch size 2", func(c *Config) { c.Terrain.PatchSize = 2 }, true},
		{"patch size 1", func(c *Config) { c.Terrain.PatchSize = 1 }, false},
		{"patch size not power of two", func(c *Config) { c.Terrain.PatchSize = 12 }, false},
		{"zero lod scale", func(c *Config) { c.Terrain.LODScale = 0 }, false},
		{"negative smoothing", func(c *Config) { c.Terrain.SmoothSteps = -1 }, false},
		{"zero height scale", func(c *Config) { c.Terrain.HeightScale = 0 }, false},
		{"tiny synthetic terrain", func(c *Config) { c.Terrain.Width = 1 }, false},
		{"tiny size ignored with heightmap", func(c *Config) {
			c.Terrain.Width = 0
			c.Terrain.Heightmap = "terrain.png"
		}, true},
		{"negative frames", func(c *Config) { c.Simulation.Frames = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("expected valid config, got %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
terrain:
  heightmap: "maps/island.png"
  height_scale: 64
  smooth_steps: 3
  patch_size: 32
  lod_scale: 1.5

graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  wireframe: true

simulation:
  frames: 600
  orbit_radius: 200
  speed: 0.01

metrics:
  addr: ":9100"

logging:
  level: "debug"
  log_file: "terrain.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Terrain.Heightmap != "maps/island.png" {
		t.Errorf("expected heightmap maps/island.png, got %s", cfg.Terrain.Heightmap)
	}
	if cfg.Terrain.HeightScale != 64 {
		t.Errorf("expected height scale 64, got %f", cfg.Terrain.HeightScale)
	}
	if cfg.Terrain.PatchSize != 32 {
		t.Errorf("expected patch size 32, got %d", cfg.Terrain.PatchSize)
	}
	if cfg.Terrain.LODScale != 1.5 {
		t.Errorf("expected lod scale 1.5, got %f", cfg.Terrain.LODScale)
	}
	// Unset keys keep their defaults
	if cfg.Terrain.Seed != 1 {
		t.Errorf("expected default seed 1, got %d", cfg.Terrain.Seed)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be false")
	}
	if !cfg.Graphics.Wireframe {
		t.Error("expected wireframe to be true")
	}

	if cfg.Simulation.Frames != 600 {
		t.Errorf("expected 600 frames, got %d", cfg.Simulation.Frames)
	}
	if cfg.Simulation.OrbitRadius != 200 {
		t.Errorf("expected orbit radius 200, got %f", cfg.Simulation.OrbitRadius)
	}

	if cfg.Metrics.Addr != ":9100" {
		t.Errorf("expected metrics addr :9100, got %s", cfg.Metrics.Addr)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "terrain.log" {
		t.Errorf("expected log file 'terrain.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
terrain:
  patch_size: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
	if filepath.Base(dir) != AppName {
		t.Errorf("ConfigDir should end in %s, got %s", AppName, dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("terrain:\n  patch_size: 8\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Terrain.PatchSize = 64
	cfg.Metrics.Addr = "127.0.0.1:9100"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.Terrain.PatchSize != 64 {
		t.Errorf("expected patch size 64, got %d", loaded.Terrain.PatchSize)
	}
	if loaded.Metrics.Addr != "127.0.0.1:9100" {
		t.Errorf("expected metrics addr to survive save, got %s", loaded.Metrics.Addr)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "terrain flags",
			setup: func() {
				*flagHeightmap = "height.tga"
				*flagPatchSize = 8
				*flagLODScale = 2.5
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Terrain.Heightmap != "height.tga" {
					t.Errorf("expected heightmap height.tga, got %s", cfg.Terrain.Heightmap)
				}
				if cfg.Terrain.PatchSize != 8 {
					t.Errorf("expected patch size 8, got %d", cfg.Terrain.PatchSize)
				}
				if cfg.Terrain.LODScale != 2.5 {
					t.Errorf("expected lod scale 2.5, got %f", cfg.Terrain.LODScale)
				}
			},
			teardown: func() {
				*flagHeightmap = ""
				*flagPatchSize = 0
				*flagLODScale = 0
			},
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Graphics.Width)
				}
				if cfg.Graphics.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "zero frames overrides default",
			setup: func() {
				*flagFrames = 0
				*flagMetricsAddr = ":9100"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Simulation.Frames != 0 {
					t.Errorf("expected 0 frames, got %d", cfg.Simulation.Frames)
				}
				if cfg.Metrics.Addr != ":9100" {
					t.Errorf("expected metrics addr :9100, got %s", cfg.Metrics.Addr)
				}
			},
			teardown: func() {
				*flagFrames = -1
				*flagMetricsAddr = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
terrain:
  patch_size: 32
  lod_scale: 2
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagPatchSize = 8
	defer func() {
		*flagConfig = ""
		*flagPatchSize = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Patch size comes from the flag, lod scale from the file
	if cfg.Terrain.PatchSize != 8 {
		t.Errorf("expected patch size 8 from flag, got %d", cfg.Terrain.PatchSize)
	}
	if cfg.Terrain.LODScale != 2 {
		t.Errorf("expected lod scale 2 from file, got %f", cfg.Terrain.LODScale)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("terrain:\n  patch_size: 12\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

package main

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/app"
	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/engine/camera"
	"github.com/Faultbox/midgard-terrain/internal/engine/debug"
	"github.com/Faultbox/midgard-terrain/internal/engine/gpu"
	"github.com/Faultbox/midgard-terrain/internal/engine/input"
	"github.com/Faultbox/midgard-terrain/internal/engine/lighting"
	"github.com/Faultbox/midgard-terrain/internal/engine/picking"
	"github.com/Faultbox/midgard-terrain/internal/engine/renderer"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/internal/engine/window"
	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

const (
	fovY      = 0.9 // radians
	nearPlane = 0.5
	titleMS   = 500 // title refresh interval
)

type viewer struct {
	window   *window.Window
	renderer *renderer.Renderer
	root     *terrain.Root
	camera   *camera.OrbitCamera
	input    *input.Input
	shots    *debug.ScreenshotCapture

	frozen   bool
	vsync    bool
	overlay  bool
	snapshot bool
}

func newViewer(cfg *config.Config) (*viewer, error) {
	v := &viewer{vsync: cfg.Graphics.VSync}

	var err error
	v.window, err = window.New(window.Config{
		Title:      "Midgard Terrain",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer initializes GL, so it must exist before any GL buffer
	width, height := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:     width,
		Height:    height,
		Wireframe: cfg.Graphics.Wireframe,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	v.renderer.SetLightDirection(lighting.LightDirection(cfg.Graphics.SunLongitude, cfg.Graphics.SunLatitude))

	v.root, err = app.BuildRoot(cfg.Terrain, gpu.NewGLDevice())
	if err != nil {
		v.renderer.Close()
		v.window.Close()
		return nil, fmt.Errorf("failed to build terrain: %w", err)
	}

	v.camera = camera.NewOrbitCamera()
	v.camera.FitToBounds(v.root.Bounds())
	v.input = input.New()
	v.shots = debug.NewScreenshotCapture("screenshots", "terrain")
	return v, nil
}

// Close releases GL resources before the context goes away.
func (v *viewer) Close() {
	v.root.Close()
	v.renderer.Close()
	v.window.Close()
}

// Run loops until the window is closed or Escape is pressed.
func (v *viewer) Run() {
	lastTitle := window.Ticks()
	frames := 0

	for {
		if v.input.Update() || v.input.IsKeyPressed(sdl.SCANCODE_ESCAPE) {
			return
		}
		v.handleInput()

		if !v.frozen {
			v.root.UpdateLod(v.camera.Position())
		}

		v.renderer.Begin()
		viewProj := v.viewProj()
		v.renderer.DrawTerrain(v.root.Drawables(), viewProj)
		if v.overlay {
			v.renderer.DrawLines(debug.PatchOverlay(v.root.Patches(), v.root.MaxLevel()), viewProj)
		}
		if v.snapshot {
			v.capture()
		}
		v.window.SwapBuffers()
		frames++

		if now := window.Ticks(); now-lastTitle >= titleMS {
			fps := float32(frames) * 1000 / float32(now-lastTitle)
			v.updateTitle(fps)
			lastTitle, frames = now, 0
		}
	}
}

func (v *viewer) handleInput() {
	for _, e := range v.input.Events() {
		switch {
		case e.Type == input.EventWindowResize:
			v.renderer.Resize(v.window.DrawableSize())
		case e.Type == input.EventMouseDown && e.Button == sdl.BUTTON_RIGHT:
			v.inspect(e.MouseX, e.MouseY)
		}
	}

	if dx, dy := v.input.Drag(sdl.BUTTON_LEFT); dx != 0 || dy != 0 {
		v.camera.HandleDrag(dx, dy)
	}
	if wheel := v.input.Wheel(); wheel != 0 {
		v.camera.HandleZoom(wheel)
	}

	forward := v.input.Axis(sdl.SCANCODE_W, sdl.SCANCODE_S)
	right := v.input.Axis(sdl.SCANCODE_D, sdl.SCANCODE_A)
	up := v.input.Axis(sdl.SCANCODE_E, sdl.SCANCODE_Q)
	if forward != 0 || right != 0 || up != 0 {
		v.camera.HandleMovement(forward, right, up)
	}

	if v.input.IsKeyPressed(sdl.SCANCODE_F1) {
		v.renderer.SetWireframe(!v.renderer.Wireframe())
	}
	if v.input.IsKeyPressed(sdl.SCANCODE_L) {
		v.frozen = !v.frozen
		logger.Info("lod freeze toggled", zap.Bool("frozen", v.frozen))
	}
	if v.input.IsKeyPressed(sdl.SCANCODE_B) {
		v.overlay = !v.overlay
	}
	if v.input.IsKeyPressed(sdl.SCANCODE_F12) {
		v.snapshot = true
	}
	if v.input.IsKeyPressed(sdl.SCANCODE_V) {
		v.vsync = !v.vsync
		v.window.SetVSync(v.vsync)
	}
}

// inspect logs the patch under a window point.
func (v *viewer) inspect(x, y int) {
	w, h := v.window.GetSize()
	ray := picking.ScreenToRay(float32(x), float32(y), float32(w), float32(h), v.viewProj().Inverse())
	p := picking.PickPatch(ray, v.root.Patches())
	if p == nil {
		return
	}
	logger.Info("patch",
		zap.Int("col", p.Col),
		zap.Int("row", p.Row),
		zap.Int("level", p.Level()),
		zap.Int("version", p.Version()),
		zap.Int("indices", p.IndexCount()),
	)
}

func (v *viewer) capture() {
	v.snapshot = false
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

func (v *viewer) viewProj() math.Mat4 {
	far := max(v.camera.Distance*4, v.root.Bounds().Size().Length()*2)
	proj := math.Perspective(fovY, v.renderer.Aspect(), nearPlane, far)
	return proj.Mul(v.camera.ViewMatrix())
}

func (v *viewer) updateTitle(fps float32) {
	stats := v.root.Stats()
	frame := v.renderer.Stats()
	title := fmt.Sprintf("Midgard Terrain - %.0f fps, %d triangles, %d draws, %d stitched",
		fps, frame.Triangles, frame.DrawCalls, stats.Stitched)
	if v.frozen {
		title += " [frozen]"
	}
	v.window.SetTitle(title)
}

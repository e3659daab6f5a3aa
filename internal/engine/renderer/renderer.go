// Package renderer draws terrain patches with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/engine/gpu"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width     int
	Height    int
	Wireframe bool
}

// FrameStats counts the work of the last DrawTerrain call.
type FrameStats struct {
	DrawCalls int
	Triangles int
}

// Renderer draws terrain drawables. Vertex array objects are created lazily,
// one per vertex buffer, and survive across frames.
type Renderer struct {
	config Config

	program        uint32
	locViewProj    int32
	locLightDir    int32
	locHeightRange int32
	locWireframe   int32
	lightDir       math.Vec3

	vaos  map[gpu.Buffer]uint32
	lines *lineBatch
	stats FrameStats
}

// New initializes OpenGL and builds the terrain program.
// It must be called after the OpenGL context is current.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:   cfg,
		vaos:     make(map[gpu.Buffer]uint32),
		lightDir: math.Vec3{X: -0.4, Y: -1, Z: -0.3}.Normalize(),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)

	program, err := compileProgram(terrainVertexShader, terrainFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("terrain shader: %w", err)
	}
	r.program = program
	r.locViewProj = uniform(program, "uViewProj")
	r.locLightDir = uniform(program, "uLightDir")
	r.locHeightRange = uniform(program, "uHeightRange")
	r.locWireframe = uniform(program, "uWireframe")

	r.lines, err = newLineBatch()
	if err != nil {
		gl.DeleteProgram(r.program)
		return nil, err
	}

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close releases the program and every vertex array.
func (r *Renderer) Close() {
	logger.Info("closing renderer", zap.Int("vaos", len(r.vaos)))
	for vb, vao := range r.vaos {
		gl.DeleteVertexArrays(1, &vao)
		delete(r.vaos, vb)
	}
	if r.lines != nil {
		r.lines.close()
		r.lines = nil
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
}

// Resize sets the viewport in pixels.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// SetLightDirection sets the direction light travels.
func (r *Renderer) SetLightDirection(dir math.Vec3) {
	r.lightDir = dir.Normalize()
}

// SetWireframe switches between line and filled polygons.
func (r *Renderer) SetWireframe(on bool) {
	r.config.Wireframe = on
}

// Wireframe reports whether polygons are drawn as lines.
func (r *Renderer) Wireframe() bool {
	return r.config.Wireframe
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Stats returns the counters of the last DrawTerrain.
func (r *Renderer) Stats() FrameStats {
	return r.stats
}

// DrawTerrain draws every drawable with its current index buffer.
func (r *Renderer) DrawTerrain(drawables []terrain.Drawable, viewProj math.Mat4) {
	r.stats = frameStats(drawables)
	if len(drawables) == 0 {
		return
	}

	lo, hi := heightRange(drawables)

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.locViewProj, 1, false, viewProj.Ptr())
	gl.Uniform3f(r.locLightDir, r.lightDir.X, r.lightDir.Y, r.lightDir.Z)
	gl.Uniform2f(r.locHeightRange, lo, hi)

	if r.config.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		gl.Uniform1i(r.locWireframe, 1)
	} else {
		gl.Uniform1i(r.locWireframe, 0)
	}

	for _, d := range drawables {
		if d.IndexCount == 0 {
			continue
		}
		gl.BindVertexArray(r.vertexArray(d.VertexBuffer))
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(d.IndexBuffer))
		gl.DrawElements(gl.TRIANGLES, int32(d.IndexCount), gl.UNSIGNED_INT, nil)
	}
	gl.BindVertexArray(0)

	if r.config.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

// DrawLines draws x, y, z, r, g, b line vertices over the terrain.
func (r *Renderer) DrawLines(vertices []float32, viewProj math.Mat4) {
	r.lines.draw(vertices, viewProj)
}

// ReadPixels returns the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}

// vertexArray returns the VAO describing vb, creating it on first use.
func (r *Renderer) vertexArray(vb gpu.Buffer) uint32 {
	if vao, ok := r.vaos[vb]; ok {
		return vao
	}

	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(vb))

	layout := gpu.TerrainLayout
	stride := int32(layout.Stride() * layout.Type.Size())
	for i, attr := range layout.Attributes {
		offset := uintptr(layout.Offset(attr.Name) * layout.Type.Size())
		gl.VertexAttribPointerWithOffset(uint32(i), int32(attr.Components), gl.FLOAT, false, stride, offset)
		gl.EnableVertexAttribArray(uint32(i))
	}

	r.vaos[vb] = vao
	return vao
}

func frameStats(drawables []terrain.Drawable) FrameStats {
	var s FrameStats
	for _, d := range drawables {
		if d.IndexCount == 0 {
			continue
		}
		s.DrawCalls++
		s.Triangles += d.IndexCount / 3
	}
	return s
}

// heightRange returns the lowest and highest Y over all drawable bounds.
func heightRange(drawables []terrain.Drawable) (float32, float32) {
	b := math.EmptyAABB()
	for _, d := range drawables {
		b = b.Merge(d.Bounds)
	}
	if b.IsEmpty() {
		return 0, 0
	}
	return b.Min.Y, b.Max.Y
}

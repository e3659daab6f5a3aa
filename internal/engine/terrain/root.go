package terrain

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/engine/gpu"
	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// ErrInvalidLODScale is returned when the LOD scale is not positive.
var ErrInvalidLODScale = errors.New("lod scale must be positive")

// Root tiles a heightmap into a grid of patches sharing one PatternCache.
type Root struct {
	heightmap *Heightmap
	device    gpu.Device
	cache     *PatternCache

	patchSize int
	lodScale  float32

	columns int
	rows    int
	patches []*Patch // row-major

	bounds math.AABB

	// Per-frame scratch reused by UpdateLod.
	before      []gpu.Buffer
	levels      []int
	levelGauges []prometheus.Gauge
}

// NewRoot builds the pattern cache and one patch per patchSize square of hm.
// On error, every buffer created so far is released.
func NewRoot(hm *Heightmap, opts Options, device gpu.Device) (*Root, error) {
	if hm == nil || hm.Width < 2 || hm.Height < 2 {
		return nil, fmt.Errorf("%w: need at least 2x2 samples", ErrInvalidHeightmap)
	}
	if len(hm.Heights) != hm.Width*hm.Height || len(hm.Normals) != len(hm.Heights)*3 {
		return nil, fmt.Errorf("%w: sample arrays do not match %dx%d", ErrInvalidHeightmap, hm.Width, hm.Height)
	}
	if !(opts.LODScale > 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidLODScale, opts.LODScale)
	}

	cache, err := NewPatternCache(device, opts.PatchSize)
	if err != nil {
		return nil, fmt.Errorf("pattern cache: %w", err)
	}

	r := &Root{
		heightmap: hm,
		device:    device,
		cache:     cache,
		patchSize: opts.PatchSize,
		lodScale:  opts.LODScale,
		columns:   ceilDiv(hm.Width-1, opts.PatchSize),
		rows:      ceilDiv(hm.Height-1, opts.PatchSize),
		bounds:    math.EmptyAABB(),
	}

	r.patches = make([]*Patch, 0, r.columns*r.rows)
	for row := range r.rows {
		for col := range r.columns {
			p, err := newPatch(r, col, row)
			if err != nil {
				r.Close()
				return nil, fmt.Errorf("patch (%d, %d): %w", col, row, err)
			}
			r.patches = append(r.patches, p)
			r.bounds = r.bounds.Merge(p.Bounds)
		}
	}
	r.before = make([]gpu.Buffer, len(r.patches))
	r.levels = make([]int, cache.MaxLevel()+1)
	r.levelGauges = levelGauges(cache.MaxLevel())

	logger.Info("terrain built",
		zap.Int("width", hm.Width),
		zap.Int("height", hm.Height),
		zap.Int("patch_size", r.patchSize),
		zap.Int("columns", r.columns),
		zap.Int("rows", r.rows),
		zap.Int("max_level", cache.MaxLevel()),
		zap.Int("index_buffers", cache.BufferCount()),
	)
	return r, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// UpdateLod refreshes every patch for a viewer position. All levels are chosen
// before any version, since versions read the neighbors' levels for this frame.
func (r *Root) UpdateLod(viewer math.Vec3) {
	start := time.Now()

	for i, p := range r.patches {
		r.before[i] = p.IndexBuffer()
	}

	for _, p := range r.patches {
		p.UpdateLod(viewer)
	}
	for _, p := range r.patches {
		p.UpdateVersion()
	}

	switches := 0
	for i, p := range r.patches {
		if p.IndexBuffer() != r.before[i] {
			switches++
		}
	}

	took := time.Since(start)
	r.countLevels(r.levels)
	instrumentUpdate(took, switches, r.levels, r.levelGauges)
	if ce := logger.Log.Check(zap.DebugLevel, "lod updated"); ce != nil {
		ce.Write(
			zap.Int("switches", switches),
			zap.Duration("took", took),
		)
	}
}

// Patch returns the patch at (col, row), or nil outside the grid.
func (r *Root) Patch(col, row int) *Patch {
	if col < 0 || row < 0 || col >= r.columns || row >= r.rows {
		return nil
	}
	return r.patches[col+row*r.columns]
}

// Patches returns all patches in row-major order.
func (r *Root) Patches() []*Patch {
	return r.patches
}

// Columns returns the number of patch columns, ceil((Width-1) / PatchSize).
// A patch spans PatchSize quads, so the last sample column closes the last patch.
func (r *Root) Columns() int {
	return r.columns
}

// Rows returns the number of patch rows, ceil((Height-1) / PatchSize).
func (r *Root) Rows() int {
	return r.rows
}

// PatchSize returns the number of quads per patch side.
func (r *Root) PatchSize() int {
	return r.patchSize
}

// MaxLevel returns the finest detail level.
func (r *Root) MaxLevel() int {
	return r.cache.MaxLevel()
}

// Cache returns the shared pattern cache.
func (r *Root) Cache() *PatternCache {
	return r.cache
}

// Bounds returns the merged bounds of all patches.
func (r *Root) Bounds() math.AABB {
	return r.bounds
}

// Drawables returns the current buffers of every patch, in row-major order.
func (r *Root) Drawables() []Drawable {
	out := make([]Drawable, len(r.patches))
	for i, p := range r.patches {
		out[i] = p.Drawable()
	}
	return out
}

// Stats summarizes the current selection.
func (r *Root) Stats() Stats {
	s := Stats{
		Patches: len(r.patches),
		Levels:  make([]int, r.cache.MaxLevel()+1),
	}
	r.countLevels(s.Levels)
	for _, p := range r.patches {
		if p.version != 0 {
			s.Stitched++
		}
		s.Triangles += p.pattern.Count / 3
	}
	return s
}

// countLevels fills levels with the patch count per level.
func (r *Root) countLevels(levels []int) {
	clear(levels)
	for _, p := range r.patches {
		levels[p.level]++
	}
}

// Close deletes every patch vertex buffer and every cached index buffer.
// Afterwards the grid is empty and Patch returns nil everywhere.
func (r *Root) Close() {
	for _, p := range r.patches {
		r.device.DeleteBuffer(p.VertexBuffer)
	}
	r.patches = nil
	r.before = nil
	r.columns, r.rows = 0, 0
	if r.cache != nil {
		r.cache.Release()
	}
}

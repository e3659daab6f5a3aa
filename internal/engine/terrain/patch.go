package terrain

import (
	gomath "math"

	"github.com/Faultbox/midgard-terrain/internal/engine/gpu"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Patch is one square tile of a Root. Its vertex buffer is fixed at creation;
// each frame it selects one shared index buffer by (level, version).
type Patch struct {
	StartX, StartY int // Origin in heightmap samples
	Col, Row       int // Position in the patch grid

	Center       math.Vec3 // LOD reference point, Y = 0
	VertexBuffer gpu.Buffer
	Bounds       math.AABB

	level   int
	version int
	pattern Pattern

	root *Root
}

func newPatch(r *Root, col, row int) (*Patch, error) {
	p := &Patch{
		StartX: col * r.patchSize,
		StartY: row * r.patchSize,
		Col:    col,
		Row:    row,
		root:   r,
	}
	half := float32(r.patchSize) / 2
	p.Center = math.Vec3{X: float32(p.StartX) + half, Y: 0, Z: float32(p.StartY) + half}

	data := p.buildVertices(r.heightmap)
	vb, err := r.device.CreateVertexBuffer(data, gpu.TerrainLayout)
	if err != nil {
		return nil, err
	}
	p.VertexBuffer = vb
	p.Bounds = math.AABBFromPoints(data, gpu.TerrainLayout.Stride())
	p.pattern = r.cache.Get(0, 0)
	return p, nil
}

// buildVertices samples (patchSize+1)^2 points. Samples past the heightmap edge
// clamp to the last row or column, collapsing the overhanging triangles.
func (p *Patch) buildVertices(hm *Heightmap) []float32 {
	size := p.root.patchSize + 1
	stride := gpu.TerrainLayout.Stride()
	data := make([]float32, 0, size*size*stride)

	uMax := float32(hm.Width - 1)
	vMax := float32(hm.Height - 1)

	for j := range size {
		y := min(p.StartY+j, hm.Height-1)
		for i := range size {
			x := min(p.StartX+i, hm.Width-1)
			n := hm.NormalAt(x, y)
			data = append(data,
				float32(x), hm.HeightAt(x, y), float32(y),
				n.X, n.Y, n.Z,
				float32(x)/uMax, float32(y)/vMax,
			)
		}
	}
	return data
}

// Level returns the detail level selected by the last UpdateLod.
func (p *Patch) Level() int {
	return p.level
}

// Version returns the edge mask selected by the last UpdateVersion.
func (p *Patch) Version() int {
	return p.version
}

// IndexBuffer returns the cached buffer for the current (level, version).
func (p *Patch) IndexBuffer() gpu.Buffer {
	return p.pattern.Buffer
}

// IndexCount returns the number of indices in IndexBuffer.
func (p *Patch) IndexCount() int {
	return p.pattern.Count
}

// Drawable returns the buffers to draw this patch with.
func (p *Patch) Drawable() Drawable {
	return Drawable{
		VertexBuffer: p.VertexBuffer,
		IndexBuffer:  p.pattern.Buffer,
		IndexCount:   p.pattern.Count,
		Bounds:       p.Bounds,
	}
}

// Sibling returns the patch dx columns and dy rows away, or nil past the grid edge.
func (p *Patch) Sibling(dx, dy int) *Patch {
	return p.root.Patch(p.Col+dx, p.Row+dy)
}

// UpdateLod selects the level from the ground distance between viewer and Center.
// Detail falls linearly from MaxLevel at the center to 0 at
// patchSize * MaxLevel * LODScale. A distance that is not a number selects
// level 0. The version from the previous frame is kept until UpdateVersion runs.
func (p *Patch) UpdateLod(viewer math.Vec3) {
	maxLevel := float64(p.root.cache.MaxLevel())
	d := float64(viewer.XZ().Distance(p.Center.XZ()))
	lodRange := float64(p.root.patchSize) * maxLevel * float64(p.root.lodScale)

	t := 0.0
	if !gomath.IsNaN(d) {
		t = 1 - max(0, min(d/lodRange, 1))
	}
	p.level = int(gomath.Ceil(t * maxLevel))
	p.pattern = p.root.cache.Get(p.level, p.version)
}

// UpdateVersion sets an edge bit for every neighbor at a strictly higher level.
// Only odd levels can stitch; a missing neighbor counts as the same level.
// Every patch must have run UpdateLod for this frame first.
func (p *Patch) UpdateVersion() {
	p.version = 0
	if p.level%2 == 1 {
		for _, n := range neighbors {
			sibling := p.Sibling(n.dx, n.dy)
			if sibling != nil && sibling.level > p.level {
				p.version |= n.bit
			}
		}
	}
	p.pattern = p.root.cache.Get(p.level, p.version)
}

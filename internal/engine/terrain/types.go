// Package terrain provides continuous level-of-detail terrain built from a heightmap.
//
// A Root tiles a Heightmap into square Patches that share one PatternCache of index
// buffers. Each frame Root.UpdateLod picks a detail level per patch from the viewer
// distance, then a boundary version that subdivides the edges facing more detailed
// neighbors so adjacent patches never leave cracks.
package terrain

import (
	"github.com/Faultbox/midgard-terrain/internal/engine/gpu"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Edge bits of a patch version. A set bit means that edge is split to match a
// more detailed neighbor.
const (
	EdgeTop    = 1 << iota // neighbor at (0, -1)
	EdgeRight              // neighbor at (1, 0)
	EdgeBottom             // neighbor at (0, 1)
	EdgeLeft               // neighbor at (-1, 0)
)

// VersionCount is the number of distinct edge masks.
const VersionCount = 16

// neighbors lists the grid offset of each edge, in bit order.
var neighbors = [4]struct {
	dx, dy int
	bit    int
}{
	{0, -1, EdgeTop},
	{1, 0, EdgeRight},
	{0, 1, EdgeBottom},
	{-1, 0, EdgeLeft},
}

// Options controls how a heightmap is tiled.
type Options struct {
	PatchSize int     // Quads per patch side, a power of two >= 2
	LODScale  float32 // Stretches the distance over which detail falls off
}

// DefaultOptions returns the tiling used when none is configured.
func DefaultOptions() Options {
	return Options{
		PatchSize: 16,
		LODScale:  1.0,
	}
}

// Pattern is one cached index buffer together with its index count.
type Pattern struct {
	Buffer gpu.Buffer
	Count  int
}

// Drawable is what the renderer needs to draw one patch this frame.
type Drawable struct {
	VertexBuffer gpu.Buffer
	IndexBuffer  gpu.Buffer
	IndexCount   int
	Bounds       math.AABB
}

// Stats summarizes the current selection across all patches.
type Stats struct {
	Patches   int
	Levels    []int // Patch count per level
	Stitched  int   // Patches with at least one split edge
	Triangles int
}

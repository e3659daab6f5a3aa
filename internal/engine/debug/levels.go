package debug

import "github.com/Faultbox/midgard-terrain/internal/engine/terrain"

// StitchedColor marks patches whose edges are split toward a finer neighbor.
var StitchedColor = Color{1, 1, 1}

// LevelColor maps a detail level onto a blue (coarse) to red (fine) ramp.
func LevelColor(level, maxLevel int) Color {
	if maxLevel <= 0 {
		return Color{0, 0, 1}
	}
	t := float32(min(max(level, 0), maxLevel)) / float32(maxLevel)
	return Color{t, 1 - 2*abs(t-0.5), 1 - t}
}

// PatchOverlay returns line vertices outlining every patch, colored by its
// current level. Stitched patches use StitchedColor.
func PatchOverlay(patches []*terrain.Patch, maxLevel int) []float32 {
	out := make([]float32, 0, len(patches)*BBoxWireframeVertexCount*LineVertexStride)
	for _, p := range patches {
		c := LevelColor(p.Level(), maxLevel)
		if p.Version() != 0 {
			c = StitchedColor
		}
		out = AppendBBoxWireframe(out, p.Bounds, 0.05, c)
	}
	return out
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

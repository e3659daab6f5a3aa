// Package debug provides debug visualization utilities.
package debug

import "github.com/Faultbox/midgard-terrain/pkg/math"

// LineVertexStride is the number of floats per line vertex: x, y, z, r, g, b.
const LineVertexStride = 6

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges x 2).
const BBoxWireframeVertexCount = 24

// Color is an RGB triple in [0, 1].
type Color [3]float32

// AppendBBoxWireframe appends the 12 edges of b as colored line vertices.
// padding expands the box on every side.
func AppendBBoxWireframe(dst []float32, b math.AABB, padding float32, c Color) []float32 {
	if b.IsEmpty() {
		return dst
	}
	minX, minY, minZ := b.Min.X-padding, b.Min.Y-padding, b.Min.Z-padding
	maxX, maxY, maxZ := b.Max.X+padding, b.Max.Y+padding, b.Max.Z+padding

	corners := [8]math.Vec3{
		{X: minX, Y: minY, Z: minZ}, {X: maxX, Y: minY, Z: minZ},
		{X: maxX, Y: minY, Z: maxZ}, {X: minX, Y: minY, Z: maxZ},
		{X: minX, Y: maxY, Z: minZ}, {X: maxX, Y: maxY, Z: minZ},
		{X: maxX, Y: maxY, Z: maxZ}, {X: minX, Y: maxY, Z: maxZ},
	}
	edges := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0}, // bottom
		{4, 5}, {5, 6}, {6, 7}, {7, 4}, // top
		{0, 4}, {1, 5}, {2, 6}, {3, 7}, // vertical
	}

	for _, e := range edges {
		for _, i := range e {
			p := corners[i]
			dst = append(dst, p.X, p.Y, p.Z, c[0], c[1], c[2])
		}
	}
	return dst
}

package renderer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

func TestFrameStats(t *testing.T) {
	drawables := []terrain.Drawable{
		{VertexBuffer: 1, IndexBuffer: 10, IndexCount: 6},
		{VertexBuffer: 2, IndexBuffer: 11, IndexCount: 0},
		{VertexBuffer: 3, IndexBuffer: 12, IndexCount: 96},
	}

	require.Equal(t, FrameStats{DrawCalls: 2, Triangles: 34}, frameStats(drawables))
	require.Equal(t, FrameStats{}, frameStats(nil))
}

func TestHeightRange(t *testing.T) {
	drawables := []terrain.Drawable{
		{Bounds: math.AABB{Min: math.Vec3{Y: -2}, Max: math.Vec3{X: 4, Y: 5, Z: 4}}},
		{Bounds: math.EmptyAABB()},
		{Bounds: math.AABB{Min: math.Vec3{X: 4, Y: 1}, Max: math.Vec3{X: 8, Y: 9, Z: 4}}},
	}

	lo, hi := heightRange(drawables)
	require.Equal(t, float32(-2), lo)
	require.Equal(t, float32(9), hi)

	lo, hi = heightRange(nil)
	require.Zero(t, lo)
	require.Zero(t, hi)
}

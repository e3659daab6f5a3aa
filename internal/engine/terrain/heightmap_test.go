package terrain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

const epsilon = 1e-5

// ramp returns heights equal to x times slope.
func ramp(width, height int, slope float32) []float32 {
	h := make([]float32, width*height)
	for y := range height {
		for x := range width {
			h[x+y*width] = float32(x) * slope
		}
	}
	return h
}

func requireVec3(t *testing.T, want, got math.Vec3) {
	t.Helper()
	require.InDelta(t, want.X, got.X, epsilon, "x")
	require.InDelta(t, want.Y, got.Y, epsilon, "y")
	require.InDelta(t, want.Z, got.Z, epsilon, "z")
}

func TestNewHeightmapErrors(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		heights       []float32
		smooth        int
	}{
		{"zero width", 0, 2, nil, 0},
		{"negative height", 2, -1, nil, 0},
		{"sample mismatch", 2, 2, make([]float32, 3), 0},
		{"negative smooth", 2, 2, make([]float32, 4), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHeightmap(tt.width, tt.height, tt.heights, tt.smooth)
			require.ErrorIs(t, err, ErrInvalidHeightmap)
		})
	}
}

func TestNewHeightmapCopiesSamples(t *testing.T) {
	src := []float32{1, 2, 3, 4}
	hm, err := NewHeightmap(2, 2, src, 0)
	require.NoError(t, err)

	src[0] = 100
	require.Equal(t, float32(1), hm.HeightAt(0, 0))
	require.Len(t, hm.Normals, len(hm.Heights)*3)
}

func TestHeightAt(t *testing.T) {
	hm, err := NewHeightmap(3, 2, []float32{1, 2, 3, 4, 5, 6}, 0)
	require.NoError(t, err)

	require.Equal(t, float32(1), hm.HeightAt(0, 0))
	require.Equal(t, float32(6), hm.HeightAt(2, 1))
	require.Equal(t, float32(4), hm.HeightAt(0, 1))

	for _, p := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 2}, {10, 10}} {
		require.Zero(t, hm.HeightAt(p[0], p[1]), "out of range (%d, %d)", p[0], p[1])
	}
}

func TestFlatNormalsPointUp(t *testing.T) {
	heights := make([]float32, 5*4)
	for i := range heights {
		heights[i] = 7.5
	}
	hm, err := NewHeightmap(5, 4, heights, 0)
	require.NoError(t, err)

	for y := range 4 {
		for x := range 5 {
			requireVec3(t, up, hm.NormalAt(x, y))
		}
	}
}

func TestCalculateNormalAtRamp(t *testing.T) {
	hm, err := NewHeightmap(5, 5, ramp(5, 5, 1), 0)
	require.NoError(t, err)

	// Interior: left column sums to 2(x-1), right to 2(x+1)
	requireVec3(t, math.Vec3{X: -4, Y: 1, Z: 0}.Normalize(), hm.CalculateNormalAt(2, 2))

	// Left edge: missing neighbors take the center height, halving the slope
	requireVec3(t, math.Vec3{X: -2, Y: 1, Z: 0}.Normalize(), hm.CalculateNormalAt(0, 2))

	// Stored normals match the derivation
	requireVec3(t, hm.CalculateNormalAt(3, 1), hm.NormalAt(3, 1))
}

func TestNormalAtClamping(t *testing.T) {
	hm, err := NewHeightmap(4, 3, ramp(4, 3, 2), 0)
	require.NoError(t, err)

	require.Equal(t, up, hm.NormalAt(-1, 1))
	require.Equal(t, up, hm.NormalAt(1, -5))
	require.Equal(t, hm.NormalAt(3, 2), hm.NormalAt(10, 20))
	require.Equal(t, hm.NormalAt(3, 1), hm.NormalAt(4, 1))
}

func TestCalculateNormalsAfterEdit(t *testing.T) {
	hm, err := NewHeightmap(3, 3, make([]float32, 9), 0)
	require.NoError(t, err)

	hm.Heights[1+1*3] = 5
	// Stale until recomputed
	require.Equal(t, up, hm.NormalAt(0, 1))

	hm.CalculateNormals()
	require.NotEqual(t, up, hm.NormalAt(0, 1))
}

func TestSmooth(t *testing.T) {
	heights := make([]float32, 9)
	heights[4] = 16
	hm, err := NewHeightmap(3, 3, heights, 1)
	require.NoError(t, err)

	// Every tap reads pre-iteration values
	want := []float32{
		1, 2, 1,
		2, 4, 2,
		1, 2, 1,
	}
	for i, w := range want {
		require.InDelta(t, w, hm.Heights[i], epsilon, "sample %d", i)
	}
}

func TestSmoothKeepsConstantField(t *testing.T) {
	heights := make([]float32, 16)
	for i := range heights {
		heights[i] = 3
	}
	hm, err := NewHeightmap(4, 4, heights, 0)
	require.NoError(t, err)

	hm.Smooth(3)
	for i, h := range hm.Heights {
		require.InDelta(t, 3, h, epsilon, "sample %d", i)
	}

	hm.Smooth(0)
	require.InDelta(t, 3, hm.Heights[0], epsilon)
}

func TestRescale(t *testing.T) {
	hm, err := NewHeightmap(5, 5, ramp(5, 5, 1), 0)
	require.NoError(t, err)
	require.NoError(t, hm.Rescale(3))

	ref, err := NewHeightmap(5, 5, ramp(5, 5, 3), 0)
	require.NoError(t, err)

	for y := range 5 {
		for x := range 5 {
			require.InDelta(t, ref.HeightAt(x, y), hm.HeightAt(x, y), epsilon)
			requireVec3(t, ref.NormalAt(x, y), hm.NormalAt(x, y))
		}
	}

	require.ErrorIs(t, hm.Rescale(0), ErrInvalidHeightmap)
}

func TestHeightmapBounds(t *testing.T) {
	hm, err := NewHeightmap(3, 2, []float32{1, -2, 3, 4, 0, 9}, 0)
	require.NoError(t, err)

	b := hm.Bounds()
	require.Equal(t, math.Vec3{X: 0, Y: -2, Z: 0}, b.Min)
	require.Equal(t, math.Vec3{X: 2, Y: 9, Z: 1}, b.Max)
}

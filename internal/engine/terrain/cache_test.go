package terrain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-terrain/internal/engine/gpu"
)

var errDeviceFull = errors.New("device full")

// limitedDevice fails every creation after the first n.
type limitedDevice struct {
	*gpu.MemoryDevice
	n int
}

func (d *limitedDevice) CreateIndexBuffer(indices []uint32) (gpu.Buffer, error) {
	if d.Created() >= d.n {
		return 0, errDeviceFull
	}
	return d.MemoryDevice.CreateIndexBuffer(indices)
}

func (d *limitedDevice) CreateVertexBuffer(data []float32, layout gpu.VertexLayout) (gpu.Buffer, error) {
	if d.Created() >= d.n {
		return 0, errDeviceFull
	}
	return d.MemoryDevice.CreateVertexBuffer(data, layout)
}

func TestNewPatternCacheInvalidSize(t *testing.T) {
	for _, size := range []int{-4, 0, 1, 3, 6, 12} {
		_, err := NewPatternCache(gpu.NewMemoryDevice(), size)
		require.ErrorIs(t, err, ErrInvalidPatchSize, "patch size %d", size)
	}
}

func TestPatternCacheEvenLevelsAlias(t *testing.T) {
	c, err := NewPatternCache(gpu.NewMemoryDevice(), 8)
	require.NoError(t, err)
	defer c.Release()

	for level := 0; level <= c.MaxLevel(); level += 2 {
		first := c.Get(level, 0)
		for v := 1; v < VersionCount; v++ {
			require.Equal(t, first, c.Get(level, v), "level %d version %d", level, v)
		}
	}
}

func TestPatternCacheOddLevelsDistinct(t *testing.T) {
	c, err := NewPatternCache(gpu.NewMemoryDevice(), 8)
	require.NoError(t, err)
	defer c.Release()

	for level := 1; level <= c.MaxLevel(); level += 2 {
		seen := map[gpu.Buffer]bool{}
		for v := range VersionCount {
			b := c.Get(level, v).Buffer
			require.False(t, seen[b], "level %d version %d reuses a buffer", level, v)
			seen[b] = true
		}
	}
}

func TestPatternCacheBuffers(t *testing.T) {
	device := gpu.NewMemoryDevice()
	c, err := NewPatternCache(device, 16)
	require.NoError(t, err)

	maxLevel := MaxLevel(16)
	want := (maxLevel/2 + 1) + (maxLevel/2)*VersionCount
	require.Equal(t, 16, c.PatchSize())
	require.Equal(t, maxLevel, c.MaxLevel())
	require.Equal(t, want, c.BufferCount())
	require.Equal(t, want, device.Live())

	// Buffers hold exactly the generated patterns
	for level := 0; level <= maxLevel; level++ {
		for _, v := range []int{0, EdgeTop | EdgeLeft, VersionCount - 1} {
			p := c.Get(level, v)
			buf, err := device.Lookup(p.Buffer)
			require.NoError(t, err)
			indices := CreateIndices(level, v, 17)
			require.Equal(t, indices, buf.Indices)
			require.Equal(t, len(indices), p.Count)
		}
	}

	c.Release()
	require.Zero(t, device.Live())
	require.Equal(t, want, device.Deleted())
}

func TestPatternCacheGetOutOfRange(t *testing.T) {
	c, err := NewPatternCache(gpu.NewMemoryDevice(), 4)
	require.NoError(t, err)
	defer c.Release()

	require.Panics(t, func() { c.Get(-1, 0) })
	require.Panics(t, func() { c.Get(c.MaxLevel()+1, 0) })
	require.Panics(t, func() { c.Get(1, VersionCount) })
	require.Panics(t, func() { c.Get(1, -1) })
	require.NotPanics(t, func() { c.Get(c.MaxLevel(), VersionCount-1) })
}

func TestNewPatternCacheDeviceFailure(t *testing.T) {
	device := &limitedDevice{MemoryDevice: gpu.NewMemoryDevice(), n: 5}

	_, err := NewPatternCache(device, 8)
	require.ErrorIs(t, err, errDeviceFull)
	require.Zero(t, device.Live())
}

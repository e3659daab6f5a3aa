package terrain

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/engine/gpu"
	"github.com/Faultbox/midgard-terrain/internal/logger"
)

// ErrInvalidPatchSize is returned when a patch size is not a power of two >= 2.
var ErrInvalidPatchSize = errors.New("patch size must be a power of two >= 2")

// PatternCache holds one index buffer per (level, version) pair for a patch size.
// Even levels ignore the version, so all their slots alias a single buffer.
// The cache is immutable once built and shared by every patch of a Root.
type PatternCache struct {
	patchSize int
	maxLevel  int
	patterns  [][VersionCount]Pattern
	buffers   []gpu.Buffer // distinct buffers, in creation order
	device    gpu.Device
}

// NewPatternCache generates and uploads every pattern a patch of patchSize can use.
// On error, buffers created so far are released.
func NewPatternCache(device gpu.Device, patchSize int) (*PatternCache, error) {
	if patchSize < 2 || !isPowerOfTwo(patchSize) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPatchSize, patchSize)
	}

	c := &PatternCache{
		patchSize: patchSize,
		maxLevel:  MaxLevel(patchSize),
		device:    device,
	}
	c.patterns = make([][VersionCount]Pattern, c.maxLevel+1)

	size := patchSize + 1
	for level := 0; level <= c.maxLevel; level++ {
		if level%2 == 0 {
			p, err := c.upload(CreateIndices(level, 0, size))
			if err != nil {
				c.Release()
				return nil, fmt.Errorf("level %d: %w", level, err)
			}
			for v := range VersionCount {
				c.patterns[level][v] = p
			}
			continue
		}
		for v := range VersionCount {
			p, err := c.upload(CreateIndices(level, v, size))
			if err != nil {
				c.Release()
				return nil, fmt.Errorf("level %d version %d: %w", level, v, err)
			}
			c.patterns[level][v] = p
		}
	}

	logger.Debug("pattern cache built",
		zap.Int("patch_size", patchSize),
		zap.Int("max_level", c.maxLevel),
		zap.Int("buffers", len(c.buffers)),
	)
	return c, nil
}

func (c *PatternCache) upload(indices []uint32) (Pattern, error) {
	b, err := c.device.CreateIndexBuffer(indices)
	if err != nil {
		return Pattern{}, err
	}
	c.buffers = append(c.buffers, b)
	instrumentIndexBuffers(1)
	return Pattern{Buffer: b, Count: len(indices)}, nil
}

// Get returns the pattern for (level, version). It panics on keys outside
// [0, MaxLevel] x [0, VersionCount), which only a caller bug can produce.
func (c *PatternCache) Get(level, version int) Pattern {
	if level < 0 || level > c.maxLevel || version < 0 || version >= VersionCount {
		panic(fmt.Sprintf("terrain: pattern (%d, %d) outside cache of max level %d", level, version, c.maxLevel))
	}
	return c.patterns[level][version]
}

// MaxLevel returns the finest level held by the cache.
func (c *PatternCache) MaxLevel() int {
	return c.maxLevel
}

// PatchSize returns the patch size the patterns were built for.
func (c *PatternCache) PatchSize() int {
	return c.patchSize
}

// BufferCount returns the number of distinct index buffers.
func (c *PatternCache) BufferCount() int {
	return len(c.buffers)
}

// Release deletes every buffer once. The cache must not be used afterwards.
func (c *PatternCache) Release() {
	for _, b := range c.buffers {
		c.device.DeleteBuffer(b)
	}
	if len(c.buffers) > 0 {
		instrumentIndexBuffers(-len(c.buffers))
	}
	c.buffers = nil
	c.patterns = nil
}

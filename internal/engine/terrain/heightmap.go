package terrain

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// ErrInvalidHeightmap is returned for heightmaps that cannot be tiled or sampled.
var ErrInvalidHeightmap = errors.New("invalid heightmap")

var up = math.Vec3{X: 0, Y: 1, Z: 0}

// Heightmap is a rectangular grid of elevation samples with per-sample normals.
// Heights are row-major: Heights[x+y*Width]. Normals hold three floats per sample.
//
// Normals reflect Heights as of the last CalculateNormals call; editing Heights
// directly leaves them stale until the caller recomputes.
type Heightmap struct {
	Width   int
	Height  int
	Heights []float32
	Normals []float32
}

// NewHeightmap builds a heightmap from raw samples, smooths it smoothSteps times
// and derives its normals. The samples are copied.
func NewHeightmap(width, height int, heights []float32, smoothSteps int) (*Heightmap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidHeightmap, width, height)
	}
	if len(heights) != width*height {
		return nil, fmt.Errorf("%w: got %d samples for %dx%d", ErrInvalidHeightmap, len(heights), width, height)
	}
	if smoothSteps < 0 {
		return nil, fmt.Errorf("%w: negative smooth steps %d", ErrInvalidHeightmap, smoothSteps)
	}

	hm := &Heightmap{
		Width:   width,
		Height:  height,
		Heights: append([]float32(nil), heights...),
		Normals: make([]float32, width*height*3),
	}
	hm.Smooth(smoothSteps)
	hm.CalculateNormals()
	return hm, nil
}

func (hm *Heightmap) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < hm.Width && y < hm.Height
}

// HeightAt returns the sample at (x, y), or 0 outside the grid.
func (hm *Heightmap) HeightAt(x, y int) float32 {
	if !hm.inside(x, y) {
		return 0
	}
	return hm.Heights[x+y*hm.Width]
}

// NormalAt returns the stored normal at (x, y). Negative coordinates yield the
// up vector; coordinates past the far edges are clamped.
func (hm *Heightmap) NormalAt(x, y int) math.Vec3 {
	if x < 0 || y < 0 {
		return up
	}
	x = min(x, hm.Width-1)
	y = min(y, hm.Height-1)
	i := (x + y*hm.Width) * 3
	return math.Vec3{X: hm.Normals[i], Y: hm.Normals[i+1], Z: hm.Normals[i+2]}
}

// CalculateNormalAt derives a normal from the 8 neighbors of (x, y).
// Axis neighbors weigh 1, diagonals 0.5; a neighbor outside the grid contributes
// the center height so that side adds no slope.
func (hm *Heightmap) CalculateNormalAt(x, y int) math.Vec3 {
	center := hm.HeightAt(x, y)
	h := func(dx, dy int) float32 {
		if !hm.inside(x+dx, y+dy) {
			return center
		}
		return hm.Heights[x+dx+(y+dy)*hm.Width]
	}

	tl, t, tr := h(-1, -1), h(0, -1), h(1, -1)
	l, r := h(-1, 0), h(1, 0)
	bl, b, br := h(-1, 1), h(0, 1), h(1, 1)

	left := 0.5*tl + l + 0.5*bl
	right := 0.5*tr + r + 0.5*br
	top := 0.5*tl + t + 0.5*tr
	bottom := 0.5*bl + b + 0.5*br

	return math.Vec3{X: left - right, Y: 1, Z: top - bottom}.Normalize()
}

// CalculateNormals recomputes every normal from the current heights.
func (hm *Heightmap) CalculateNormals() {
	if len(hm.Normals) != len(hm.Heights)*3 {
		hm.Normals = make([]float32, len(hm.Heights)*3)
	}
	for y := range hm.Height {
		for x := range hm.Width {
			n := hm.CalculateNormalAt(x, y)
			i := (x + y*hm.Width) * 3
			hm.Normals[i] = n.X
			hm.Normals[i+1] = n.Y
			hm.Normals[i+2] = n.Z
		}
	}
}

// Smooth runs a 3x3 low-pass filter over the heights steps times.
// Weights are 4 for the center, 2 for edge neighbors and 1 for corners, over 16.
// Taps outside the grid repeat the nearest edge sample. Normals are not updated.
func (hm *Heightmap) Smooth(steps int) {
	if steps <= 0 {
		return
	}

	src := hm.Heights
	dst := make([]float32, len(src))
	at := func(x, y int) float32 {
		x = max(0, min(x, hm.Width-1))
		y = max(0, min(y, hm.Height-1))
		return src[x+y*hm.Width]
	}

	for range steps {
		for y := range hm.Height {
			for x := range hm.Width {
				sum := 4 * at(x, y)
				sum += 2 * (at(x-1, y) + at(x+1, y) + at(x, y-1) + at(x, y+1))
				sum += at(x-1, y-1) + at(x+1, y-1) + at(x-1, y+1) + at(x+1, y+1)
				dst[x+y*hm.Width] = sum / 16
			}
		}
		src, dst = dst, src
	}
	hm.Heights = src
}

// Rescale multiplies every height by scale and adjusts the normals to match,
// without rederiving them from the grid.
func (hm *Heightmap) Rescale(scale float32) error {
	if scale == 0 {
		return fmt.Errorf("%w: zero height scale", ErrInvalidHeightmap)
	}
	for i := range hm.Heights {
		hm.Heights[i] *= scale
	}
	for i := 0; i+2 < len(hm.Normals); i += 3 {
		n := math.Vec3{X: hm.Normals[i], Y: hm.Normals[i+1] / scale, Z: hm.Normals[i+2]}.Normalize()
		hm.Normals[i] = n.X
		hm.Normals[i+1] = n.Y
		hm.Normals[i+2] = n.Z
	}
	return nil
}

// Bounds returns the box spanned by the samples in grid space.
func (hm *Heightmap) Bounds() math.AABB {
	b := math.EmptyAABB()
	if len(hm.Heights) == 0 {
		return b
	}
	lo, hi := hm.Heights[0], hm.Heights[0]
	for _, h := range hm.Heights[1:] {
		lo = min(lo, h)
		hi = max(hi, h)
	}
	b.Min = math.Vec3{X: 0, Y: lo, Z: 0}
	b.Max = math.Vec3{X: float32(hm.Width - 1), Y: hi, Z: float32(hm.Height - 1)}
	return b
}

package terrain

import (
	"fmt"
	"image"
	"image/color"
	gomath "math"

	"github.com/Faultbox/midgard-terrain/internal/engine/texture"
)

// HeightmapFromImage converts image luminance to heights in [0, heightScale].
// Luminance is read at 16-bit precision so 16-bit grayscale sources keep their range.
func HeightmapFromImage(img image.Image, heightScale float32, smoothSteps int) (*Heightmap, error) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	heights := make([]float32, width*height)

	for y := range height {
		for x := range width {
			g := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
			heights[x+y*width] = float32(g.Y) / gomath.MaxUint16 * heightScale
		}
	}
	return NewHeightmap(width, height, heights, smoothSteps)
}

// LoadHeightmap decodes an image file (PNG, JPEG, GIF, BMP, TIFF or TGA) into a heightmap.
func LoadHeightmap(path string, heightScale float32, smoothSteps int) (*Heightmap, error) {
	img, err := texture.Load(path)
	if err != nil {
		return nil, fmt.Errorf("heightmap %s: %w", path, err)
	}
	return HeightmapFromImage(img, heightScale, smoothSteps)
}

// Synthesize returns width*height heights in [0, 1) from a few octaves of smoothed
// lattice noise. The same seed always gives the same terrain.
func Synthesize(width, height int, seed uint32) []float32 {
	heights := make([]float32, width*height)
	const octaves = 4

	for y := range height {
		for x := range width {
			var sum, norm float64
			amp, freq := 1.0, 1.0/32
			for o := range octaves {
				sum += amp * valueNoise(float64(x)*freq, float64(y)*freq, seed+uint32(o)*1013)
				norm += amp
				amp /= 2
				freq *= 2
			}
			heights[x+y*width] = float32(sum / norm)
		}
	}
	return heights
}

// lattice hashes an integer point into [0, 1).
func lattice(x, y int, seed uint32) float64 {
	h := uint32(x)*73856093 ^ uint32(y)*19349663 ^ seed*83492791
	h = (h >> 13) ^ h
	h = h*(h*h*15731+789221) + 1376312589
	return float64(h&0x7fffffff) / float64(0x80000000)
}

// smoothLattice blurs the lattice with a 3x3 corners/sides/center kernel.
func smoothLattice(x, y int, seed uint32) float64 {
	corners := (lattice(x-1, y-1, seed) + lattice(x+1, y-1, seed) + lattice(x-1, y+1, seed) + lattice(x+1, y+1, seed)) / 16
	sides := (lattice(x-1, y, seed) + lattice(x+1, y, seed) + lattice(x, y-1, seed) + lattice(x, y+1, seed)) / 8
	center := lattice(x, y, seed) / 4
	return corners + sides + center
}

// valueNoise interpolates smoothLattice with a smoothstep fade.
func valueNoise(x, y float64, seed uint32) float64 {
	x0, y0 := gomath.Floor(x), gomath.Floor(y)
	fx, fy := x-x0, y-y0
	fx = fx * fx * (3 - 2*fx)
	fy = fy * fy * (3 - 2*fy)

	ix, iy := int(x0), int(y0)
	v00 := smoothLattice(ix, iy, seed)
	v10 := smoothLattice(ix+1, iy, seed)
	v01 := smoothLattice(ix, iy+1, seed)
	v11 := smoothLattice(ix+1, iy+1, seed)

	top := v00 + (v10-v00)*fx
	bottom := v01 + (v11-v01)*fx
	return top + (bottom-top)*fy
}

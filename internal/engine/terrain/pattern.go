package terrain

import "math/bits"

// MaxLevel returns the finest level for a patch of the given size:
// two levels per doubling of grid density.
func MaxLevel(patchSize int) int {
	if patchSize <= 0 {
		return 0
	}
	return 2 * (bits.Len(uint(patchSize)) - 1)
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// CreateIndices returns the triangle list for a size x size vertex grid at the
// given level. Odd levels subdivide the patch edges selected by version; even
// levels ignore it. The result only depends on the arguments.
//
// All triangles share one winding: (TL, BR, TR) is the level 0 first triangle.
func CreateIndices(level, version, size int) []uint32 {
	if level == 0 {
		return quad(0, size-1, size*(size-1), size*size-1, true)
	}

	density := 1 << (level / 2)
	step := (size - 1 + density - 1) / density
	if level%2 == 0 {
		return evenPattern(step, size)
	}
	return oddPattern(step, version, size)
}

// quad emits two triangles for the corners a (top-left), b (top-right),
// c (bottom-left), d (bottom-right). mainDiagonal splits along a-d, otherwise b-c.
func quad(a, b, c, d int, mainDiagonal bool) []uint32 {
	if mainDiagonal {
		return []uint32{uint32(a), uint32(d), uint32(b), uint32(a), uint32(c), uint32(d)}
	}
	return []uint32{uint32(a), uint32(c), uint32(b), uint32(b), uint32(c), uint32(d)}
}

func evenPattern(step, size int) []uint32 {
	cells := (size - 1) / step
	indices := make([]uint32, 0, cells*cells*6)

	for z := 0; z+step < size; z += step {
		for x := 0; x+step < size; x += step {
			a := x + z*size
			b := a + step
			c := a + step*size
			d := c + step
			// Alternate the diagonal in a checkerboard to avoid a directional bias.
			main := (x%(2*step) == 0) == (z%(2*step) == 0)
			indices = append(indices, quad(a, b, c, d, main)...)
		}
	}
	return indices
}

func oddPattern(step, version, size int) []uint32 {
	half := step / 2
	cells := (size - 1) / step
	indices := make([]uint32, 0, cells*cells*24)

	for z := 0; z+step < size; z += step {
		for x := 0; x+step < size; x += step {
			// a b c
			// d e f
			// g h i
			a := x + z*size
			b := a + half
			c := a + step
			d := a + half*size
			e := d + half
			f := d + step
			g := a + step*size
			h := g + half
			i := g + step

			mask := 0
			if z == 0 {
				mask |= EdgeTop
			}
			if x+step == size-1 {
				mask |= EdgeRight
			}
			if z+step == size-1 {
				mask |= EdgeBottom
			}
			if x == 0 {
				mask |= EdgeLeft
			}
			mask &= version

			indices = appendArm(indices, e, a, b, c, mask&EdgeTop != 0)
			indices = appendArm(indices, e, c, f, i, mask&EdgeRight != 0)
			indices = appendArm(indices, e, i, h, g, mask&EdgeBottom != 0)
			indices = appendArm(indices, e, g, d, a, mask&EdgeLeft != 0)
		}
	}
	return indices
}

// appendArm emits the fan arm from p to q around center, split through mid when asked.
func appendArm(indices []uint32, center, p, mid, q int, split bool) []uint32 {
	if split {
		return append(indices,
			uint32(center), uint32(mid), uint32(p),
			uint32(center), uint32(q), uint32(mid),
		)
	}
	return append(indices, uint32(center), uint32(q), uint32(p))
}

package math

import "math"

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min Vec3
	Max Vec3
}

// EmptyAABB returns an inverted box that any point or box will replace on merge.
func EmptyAABB() AABB {
	return AABB{
		Min: Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
}

// AABBFromPoints builds a box from a flat buffer of vertices.
// stride is the number of floats per vertex; the first three are x, y, z.
func AABBFromPoints(points []float32, stride int) AABB {
	b := EmptyAABB()
	if stride < 3 {
		return b
	}
	for i := 0; i+2 < len(points); i += stride {
		b = b.Extend(Vec3{points[i], points[i+1], points[i+2]})
	}
	return b
}

// IsEmpty reports whether the box contains no points.
func (b AABB) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Extend returns the box grown to contain p.
func (b AABB) Extend(p Vec3) AABB {
	return AABB{
		Min: Vec3{min(b.Min.X, p.X), min(b.Min.Y, p.Y), min(b.Min.Z, p.Z)},
		Max: Vec3{max(b.Max.X, p.X), max(b.Max.Y, p.Y), max(b.Max.Z, p.Z)},
	}
}

// Merge returns the smallest box containing both b and other.
func (b AABB) Merge(other AABB) AABB {
	if other.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return other
	}
	return b.Extend(other.Min).Extend(other.Max)
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent along each axis.
func (b AABB) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

package app

import (
	gomath "math"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// OrbitPath circles a viewer around a point at a fixed height.
type OrbitPath struct {
	Center math.Vec3
	Radius float32
	Height float32
	Speed  float32 // Radians per frame
}

// NewOrbitPath fits a path to the terrain bounds. A zero configured radius
// orbits at a quarter of the larger XZ extent, so the viewer crosses the
// detail falloff of most patches.
func NewOrbitPath(bounds math.AABB, cfg config.SimulationConfig) OrbitPath {
	center := bounds.Center()
	size := bounds.Size()

	radius := cfg.OrbitRadius
	if radius <= 0 {
		radius = max(size.X, size.Z) / 4
	}
	return OrbitPath{
		Center: math.Vec3{X: center.X, Y: 0, Z: center.Z},
		Radius: radius,
		Height: bounds.Max.Y + size.Y/2,
		Speed:  cfg.Speed,
	}
}

// At returns the viewer position at a frame.
func (o OrbitPath) At(frame int) math.Vec3 {
	a := float64(o.Speed) * float64(frame)
	return math.Vec3{
		X: o.Center.X + o.Radius*float32(gomath.Cos(a)),
		Y: o.Height,
		Z: o.Center.Z + o.Radius*float32(gomath.Sin(a)),
	}
}

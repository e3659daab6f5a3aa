// Package lighting provides lighting utilities for terrain rendering.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// SunDirection converts sun angles in degrees to a unit vector pointing
// towards the sun. Longitude rotates around Y from +Z, latitude is the
// elevation above the horizon.
func SunDirection(longitude, latitude float32) math.Vec3 {
	lonRad := float64(longitude) * gomath.Pi / 180.0
	latRad := float64(latitude) * gomath.Pi / 180.0

	return math.Vec3{
		X: float32(gomath.Cos(latRad) * gomath.Sin(lonRad)),
		Y: float32(gomath.Sin(latRad)),
		Z: float32(gomath.Cos(latRad) * gomath.Cos(lonRad)),
	}
}

// LightDirection is the direction light travels, the negated sun direction.
func LightDirection(longitude, latitude float32) math.Vec3 {
	return SunDirection(longitude, latitude).Scale(-1)
}

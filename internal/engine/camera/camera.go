// Package camera provides the orbit camera used to inspect terrain.
package camera

import (
	gomath "math"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	CenterX, CenterY, CenterZ float32

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        200.0,
		RotationX:       0.5,
		RotationY:       0.0,
		MinDistance:     50.0,
		MaxDistance:     5000.0,
		MinPitch:        0.1,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))

	return math.Vec3{
		X: c.CenterX + x,
		Y: c.CenterY + y,
		Z: c.CenterZ + z,
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	pos := c.Position()
	center := math.Vec3{X: c.CenterX, Y: c.CenterY, Z: c.CenterZ}
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(pos, center, up)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity

	// Clamp pitch
	if c.RotationX < c.MinPitch {
		c.RotationX = c.MinPitch
	}
	if c.RotationX > c.MaxPitch {
		c.RotationX = c.MaxPitch
	}
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// HandleMovement pans the camera center point based on keyboard input.
func (c *OrbitCamera) HandleMovement(forward, right, up float32) {
	// Speed scales with distance for consistent feel
	speed := c.Distance * 0.01

	// Calculate movement direction based on current camera rotation
	dirX := float32(gomath.Sin(float64(c.RotationY)))
	dirZ := float32(gomath.Cos(float64(c.RotationY)))

	// Right direction (perpendicular to forward)
	rightX := float32(gomath.Cos(float64(c.RotationY)))
	rightZ := float32(-gomath.Sin(float64(c.RotationY)))

	// Apply movement to center point (negate forward so W moves "into" the scene)
	c.CenterX += (-dirX*forward + rightX*right) * speed
	c.CenterZ += (-dirZ*forward + rightZ*right) * speed
	c.CenterY += up * speed
}

// SetCenter sets the camera's center point.
func (c *OrbitCamera) SetCenter(x, y, z float32) {
	c.CenterX = x
	c.CenterY = y
	c.CenterZ = z
}

// Target returns the orbit center.
func (c *OrbitCamera) Target() math.Vec3 {
	return math.Vec3{X: c.CenterX, Y: c.CenterY, Z: c.CenterZ}
}

// FitToBounds centers the orbit on b and backs off far enough to see its
// XZ extent. Distance limits widen to fit the terrain.
func (c *OrbitCamera) FitToBounds(b math.AABB) {
	if b.IsEmpty() {
		return
	}
	center := b.Center()
	c.SetCenter(center.X, center.Y, center.Z)

	size := b.Size()
	maxSize := max(size.X, size.Z)

	c.Distance = max(maxSize*0.75, c.MinDistance)
	c.MaxDistance = max(c.MaxDistance, maxSize*4)
	c.RotationX = 0.6 // ~35 degrees down
	c.RotationY = 0.0
}

// Package picking casts screen rays against terrain patches.
package picking

import (
	gomath "math"

	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// ScreenToRay converts pixel coordinates to a world-space ray.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	near := unproject(invViewProj, math.Vec4{ndcX, ndcY, -1.0, 1.0})
	far := unproject(invViewProj, math.Vec4{ndcX, ndcY, 1.0, 1.0})

	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

func unproject(inv math.Mat4, p math.Vec4) math.Vec3 {
	w := inv.MulVec4(p)
	if w[3] != 0 {
		w[0] /= w[3]
		w[1] /= w[3]
		w[2] /= w[3]
	}
	return math.Vec3{X: w[0], Y: w[1], Z: w[2]}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectPlaneY intersects a ray with a horizontal plane at the given Y level.
func (r Ray) IntersectPlaneY(planeY float32) (x, z float32, ok bool) {
	if gomath.Abs(float64(r.Direction.Y)) < 0.001 {
		return 0, 0, false
	}

	t := (planeY - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return 0, 0, false
	}

	p := r.At(t)
	return p.X, p.Z, true
}

// IntersectAABB returns the entry distance into box, or the exit distance if
// the ray starts inside it.
func (r Ray) IntersectAABB(box math.AABB) (t float32, hit bool) {
	if box.IsEmpty() {
		return 0, false
	}

	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	origin := [3]float32{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float32{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float32{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float32{box.Max.X, box.Max.Y, box.Max.Z}

	for axis := range 3 {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// PickPatch returns the patch whose bounds the ray enters first, or nil.
func PickPatch(r Ray, patches []*terrain.Patch) *terrain.Patch {
	var best *terrain.Patch
	bestT := float32(gomath.MaxFloat32)
	for _, p := range patches {
		if t, hit := r.IntersectAABB(p.Bounds); hit && t < bestT {
			best, bestT = p, t
		}
	}
	return best
}

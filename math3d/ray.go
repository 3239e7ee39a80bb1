package math3d

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a half line. Direction does not need to be unit length; At and
// the intersection points scale with it.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// LookAt points the ray at p with a unit direction.
func (r *Ray) LookAt(p mgl32.Vec3) {
	r.Direction = Normalize(p.Sub(r.Origin))
}

// IntersectBox returns the first point where the ray enters b, or the
// origin's exit point when the origin is inside.
func (r Ray) IntersectBox(b Box3) (mgl32.Vec3, bool) {
	if b.IsEmpty() {
		return mgl32.Vec3{}, false
	}

	tmin, tmax := slab(r.Origin[0], r.Direction[0], b.Min[0], b.Max[0])
	tymin, tymax := slab(r.Origin[1], r.Direction[1], b.Min[1], b.Max[1])
	if tmin > tymax || tymin > tmax {
		return mgl32.Vec3{}, false
	}
	if tymin > tmin || math32.IsNaN(tmin) {
		tmin = tymin
	}
	if tymax < tmax || math32.IsNaN(tmax) {
		tmax = tymax
	}

	tzmin, tzmax := slab(r.Origin[2], r.Direction[2], b.Min[2], b.Max[2])
	if tmin > tzmax || tzmin > tmax {
		return mgl32.Vec3{}, false
	}
	if tzmin > tmin || math32.IsNaN(tmin) {
		tmin = tzmin
	}
	if tzmax < tmax || math32.IsNaN(tmax) {
		tmax = tzmax
	}

	if tmax < 0 {
		return mgl32.Vec3{}, false
	}
	if tmin >= 0 {
		return r.At(tmin), true
	}
	return r.At(tmax), true
}

// slab returns the entry and exit parameters for one axis. A zero
// direction component divides to an infinity.
func slab(origin, dir, min, max float32) (float32, float32) {
	inv := 1 / dir
	if inv >= 0 {
		return (min - origin) * inv, (max - origin) * inv
	}
	return (max - origin) * inv, (min - origin) * inv
}

func (r Ray) IntersectsBox(b Box3) bool {
	_, ok := r.IntersectBox(b)
	return ok
}

// IntersectTriangle returns where the ray hits t. With backfaceCulling,
// triangles facing away from the ray (clockwise as seen from the origin)
// are missed.
func (r Ray) IntersectTriangle(t Triangle, backfaceCulling bool) (mgl32.Vec3, bool) {
	edge1 := t.B.Sub(t.A)
	edge2 := t.C.Sub(t.A)
	normal := edge1.Cross(edge2)

	dn := r.Direction.Dot(normal)
	var sign float32
	switch {
	case dn > 0:
		if backfaceCulling {
			return mgl32.Vec3{}, false
		}
		sign = 1
	case dn < 0:
		sign = -1
		dn = -dn
	default:
		return mgl32.Vec3{}, false
	}

	diff := r.Origin.Sub(t.A)
	b1 := sign * r.Direction.Dot(diff.Cross(edge2))
	if b1 < 0 {
		return mgl32.Vec3{}, false
	}
	b2 := sign * r.Direction.Dot(edge1.Cross(diff))
	if b2 < 0 || b1+b2 > dn {
		return mgl32.Vec3{}, false
	}

	qn := -sign * diff.Dot(normal)
	if qn < 0 {
		return mgl32.Vec3{}, false
	}
	return r.At(qn / dn), true
}

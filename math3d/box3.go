package math3d

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Box3 is an axis-aligned bounding box. A box with Max < Min on any axis
// is empty.
type Box3 struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// EmptyBox3 returns a box that any ExpandByPoint turns into that point.
func EmptyBox3() Box3 {
	inf := math32.Inf(1)
	return Box3{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

func (b Box3) IsEmpty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

// Center is the zero vector for an empty box.
func (b Box3) Center() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b Box3) Size() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

func (b *Box3) ExpandByPoint(p mgl32.Vec3) {
	for i := range p {
		b.Min[i] = math32.Min(b.Min[i], p[i])
		b.Max[i] = math32.Max(b.Max[i], p[i])
	}
}

func (b *Box3) ExpandByScalar(s float32) {
	for i := 0; i < 3; i++ {
		b.Min[i] -= s
		b.Max[i] += s
	}
}

func (b Box3) ContainsPoint(p mgl32.Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

func (b Box3) IntersectsBox(o Box3) bool {
	return !(o.Max[0] < b.Min[0] || o.Min[0] > b.Max[0] ||
		o.Max[1] < b.Min[1] || o.Min[1] > b.Max[1] ||
		o.Max[2] < b.Min[2] || o.Min[2] > b.Max[2])
}

// IntersectsTriangle runs the separating axis test with the 9 edge cross
// products, the 3 box face normals and the triangle normal.
func (b Box3) IntersectsTriangle(t Triangle) bool {
	if b.IsEmpty() {
		return false
	}

	center := b.Center()
	extents := b.Max.Sub(center)

	v0 := t.A.Sub(center)
	v1 := t.B.Sub(center)
	v2 := t.C.Sub(center)

	f0 := v1.Sub(v0)
	f1 := v2.Sub(v1)
	f2 := v0.Sub(v2)

	edgeAxes := []mgl32.Vec3{
		{0, -f0[2], f0[1]}, {0, -f1[2], f1[1]}, {0, -f2[2], f2[1]},
		{f0[2], 0, -f0[0]}, {f1[2], 0, -f1[0]}, {f2[2], 0, -f2[0]},
		{-f0[1], f0[0], 0}, {-f1[1], f1[0], 0}, {-f2[1], f2[0], 0},
	}
	if !satForAxes(edgeAxes, v0, v1, v2, extents) {
		return false
	}
	if !satForAxes([]mgl32.Vec3{Right, Up, Forward}, v0, v1, v2, extents) {
		return false
	}
	return satForAxes([]mgl32.Vec3{f0.Cross(f1)}, v0, v1, v2, extents)
}

// satForAxes reports whether no axis separates the triangle v0 v1 v2 from
// a box of the given half extents centered on the origin.
func satForAxes(axes []mgl32.Vec3, v0, v1, v2, extents mgl32.Vec3) bool {
	for _, axis := range axes {
		r := extents[0]*math32.Abs(axis[0]) + extents[1]*math32.Abs(axis[1]) + extents[2]*math32.Abs(axis[2])
		p0, p1, p2 := v0.Dot(axis), v1.Dot(axis), v2.Dot(axis)
		if math32.Max(-math32.Max(math32.Max(p0, p1), p2), math32.Min(math32.Min(p0, p1), p2)) > r {
			return false
		}
	}
	return true
}

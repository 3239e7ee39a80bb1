package math3d

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Plane is the set of points p with Normal.Dot(p) + Constant == 0.
type Plane struct {
	Normal   mgl32.Vec3
	Constant float32
}

// PlaneFromCoplanarPoints orients the normal by the counter-clockwise
// winding of a, b, c. Collinear points give a zero normal.
func PlaneFromCoplanarPoints(a, b, c mgl32.Vec3) Plane {
	n := Normalize(c.Sub(b).Cross(a.Sub(b)))
	return Plane{Normal: n, Constant: -a.Dot(n)}
}

// DistanceToPoint is signed, positive on the side the normal points to.
func (p Plane) DistanceToPoint(v mgl32.Vec3) float32 {
	return p.Normal.Dot(v) + p.Constant
}

type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

func (s Sphere) ContainsPoint(p mgl32.Vec3) bool {
	return p.Sub(s.Center).LenSqr() <= s.Radius*s.Radius
}

// DistanceToPoint is negative inside the sphere.
func (s Sphere) DistanceToPoint(p mgl32.Vec3) float32 {
	return p.Sub(s.Center).Len() - s.Radius
}

func (s Sphere) IntersectsSphere(o Sphere) bool {
	r := s.Radius + o.Radius
	return o.Center.Sub(s.Center).LenSqr() <= r*r
}

func (s Sphere) IntersectsBox(b Box3) bool {
	if b.IsEmpty() {
		return false
	}
	var closest mgl32.Vec3
	for i := range closest {
		closest[i] = clamp(s.Center[i], b.Min[i], b.Max[i])
	}
	return s.ContainsPoint(closest)
}

type Triangle struct {
	A, B, C mgl32.Vec3
}

// Transform returns the triangle with every vertex transformed by m.
func (t Triangle) Transform(m mgl32.Mat4) Triangle {
	return Triangle{ApplyMat4(t.A, m), ApplyMat4(t.B, m), ApplyMat4(t.C, m)}
}

func (t Triangle) Normal() mgl32.Vec3 {
	return Normalize(t.C.Sub(t.B).Cross(t.A.Sub(t.B)))
}

func (t Triangle) Plane() Plane {
	return PlaneFromCoplanarPoints(t.A, t.B, t.C)
}

func (t Triangle) Bounds() Box3 {
	b := EmptyBox3()
	b.ExpandByPoint(t.A)
	b.ExpandByPoint(t.B)
	b.ExpandByPoint(t.C)
	return b
}

// Barycoord returns the barycentric coordinates of p projected onto the
// triangle's plane. ok is false for a degenerate triangle.
func (t Triangle) Barycoord(p mgl32.Vec3) (coord mgl32.Vec3, ok bool) {
	v0 := t.C.Sub(t.A)
	v1 := t.B.Sub(t.A)
	v2 := p.Sub(t.A)

	dot00 := v0.Dot(v0)
	dot01 := v0.Dot(v1)
	dot02 := v0.Dot(v2)
	dot11 := v1.Dot(v1)
	dot12 := v1.Dot(v2)

	denom := dot00*dot11 - dot01*dot01
	if denom == 0 {
		return mgl32.Vec3{}, false
	}
	inv := 1 / denom
	u := (dot11*dot02 - dot01*dot12) * inv
	v := (dot00*dot12 - dot01*dot02) * inv
	return mgl32.Vec3{1 - u - v, v, u}, true
}

// ContainsPoint tests p projected onto the triangle's plane.
func (t Triangle) ContainsPoint(p mgl32.Vec3) bool {
	c, ok := t.Barycoord(p)
	return ok && c[0] >= 0 && c[1] >= 0 && c[0]+c[1] <= 1
}

// Line3 is the segment from Start to End.
type Line3 struct {
	Start, End mgl32.Vec3
}

func (l Line3) Delta() mgl32.Vec3 { return l.End.Sub(l.Start) }

func (l Line3) At(t float32) mgl32.Vec3 {
	return l.Start.Add(l.Delta().Mul(t))
}

// ClosestPointToPoint returns the point of the segment nearest to p and
// its parameter in [0, 1]. A zero-length segment returns Start.
func (l Line3) ClosestPointToPoint(p mgl32.Vec3) (mgl32.Vec3, float32) {
	d := l.Delta()
	lenSq := d.LenSqr()
	if lenSq == 0 {
		return l.Start, 0
	}
	t := clamp(p.Sub(l.Start).Dot(d)/lenSq, 0, 1)
	return l.At(t), t
}

func (l Line3) DistanceToPoint(p mgl32.Vec3) float32 {
	c, _ := l.ClosestPointToPoint(p)
	return p.Sub(c).Len()
}

// parallelEpsilon is relative to the squared lengths of both segments.
const parallelEpsilon = 1e-6

// ClosestPoints returns the closest pair of points between segments l and
// o, the first on l. Parallel segments pick the pair nearest the middle
// of o.
func (l Line3) ClosestPoints(o Line3) (mgl32.Vec3, mgl32.Vec3) {
	r := l.Delta()
	s := o.Delta()
	w := o.Start.Sub(l.Start)

	a := r.Dot(s)
	b := r.Dot(r)
	c := s.Dot(s)
	d := s.Dot(w)
	e := r.Dot(w)

	if c == 0 {
		p, _ := l.ClosestPointToPoint(o.Start)
		return p, o.Start
	}
	if b == 0 {
		q, _ := o.ClosestPointToPoint(l.Start)
		return l.Start, q
	}

	var t1, t2 float32
	if divisor := b*c - a*a; math32.Abs(divisor) < parallelEpsilon*b*c {
		d1 := -d / c
		d2 := (a - d) / c
		if math32.Abs(d1-0.5) < math32.Abs(d2-0.5) {
			t1, t2 = 0, d1
		} else {
			t1, t2 = 1, d2
		}
	} else {
		t1 = (e*c - a*d) / divisor
		t2 = (t1*a - d) / c
	}
	return l.At(clamp(t1, 0, 1)), o.At(clamp(t2, 0, 1))
}

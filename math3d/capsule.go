package math3d

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Capsule is the set of points within Radius of the segment Start End.
type Capsule struct {
	Start, End mgl32.Vec3
	Radius     float32
}

// Contact is where a capsule touches a triangle. Moving the capsule by
// Normal*Depth separates them.
type Contact struct {
	Normal mgl32.Vec3
	Point  mgl32.Vec3
	Depth  float32
}

func (c Capsule) Center() mgl32.Vec3 {
	return c.Start.Add(c.End).Mul(0.5)
}

func (c Capsule) Translate(v mgl32.Vec3) Capsule {
	return Capsule{Start: c.Start.Add(v), End: c.End.Add(v), Radius: c.Radius}
}

// IntersectsBox is conservative: it compares the segment end points,
// grown by the radius, against b in the xy, xz and yz projections.
func (c Capsule) IntersectsBox(b Box3) bool {
	s, e := c.Start, c.End
	return c.axisOverlap(s[0], s[1], e[0], e[1], b.Min[0], b.Max[0], b.Min[1], b.Max[1]) &&
		c.axisOverlap(s[0], s[2], e[0], e[2], b.Min[0], b.Max[0], b.Min[2], b.Max[2]) &&
		c.axisOverlap(s[1], s[2], e[1], e[2], b.Min[1], b.Max[1], b.Min[2], b.Max[2])
}

func (c Capsule) axisOverlap(p1x, p1y, p2x, p2y, minx, maxx, miny, maxy float32) bool {
	r := c.Radius
	return (minx-p1x < r || minx-p2x < r) &&
		(p1x-maxx < r || p2x-maxx < r) &&
		(miny-p1y < r || miny-p2y < r) &&
		(p1y-maxy < r || p2y-maxy < r)
}

// IntersectTriangle reports how deep the capsule sinks into t. A capsule
// crossing the triangle's face is pushed out along the plane normal;
// otherwise the nearest edge pushes it away from that edge.
func (c Capsule) IntersectTriangle(t Triangle) (Contact, bool) {
	plane := t.Plane()

	d1 := plane.DistanceToPoint(c.Start) - c.Radius
	d2 := plane.DistanceToPoint(c.End) - c.Radius
	if (d1 > 0 && d2 > 0) || (d1 < -c.Radius && d2 < -c.Radius) {
		return Contact{}, false
	}

	var delta float32
	if sum := math32.Abs(d1) + math32.Abs(d2); sum > 0 {
		delta = math32.Abs(d1 / sum)
	}
	point := c.Start.Add(c.End.Sub(c.Start).Mul(delta))
	if t.ContainsPoint(point) {
		return Contact{
			Normal: plane.Normal,
			Point:  point,
			Depth:  math32.Abs(math32.Min(d1, d2)),
		}, true
	}

	axis := Line3{c.Start, c.End}
	r2 := c.Radius * c.Radius
	for _, edge := range []Line3{{t.A, t.B}, {t.B, t.C}, {t.C, t.A}} {
		p1, p2 := axis.ClosestPoints(edge)
		if d := p1.Sub(p2); d.LenSqr() < r2 {
			return Contact{
				Normal: Normalize(d),
				Point:  p2,
				Depth:  c.Radius - d.Len(),
			}, true
		}
	}
	return Contact{}, false
}

// Package collision answers ray and capsule queries against the triangles
// of a scene, bucketed in an octree.
package collision

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/r3dgo/r3d/gpu"
	"github.com/r3dgo/r3d/math3d"
	"github.com/r3dgo/r3d/r3d"
)

const (
	leafTriangles = 8
	maxDepth      = 16
	boundsPadding = 0.01
)

// Hit is the nearest triangle a ray struck.
type Hit struct {
	Distance float32
	Point    mgl32.Vec3
	Triangle math3d.Triangle
	// Owner is the renderable the triangle was taken from, nil for
	// triangles added directly.
	Owner r3d.Renderable
}

// Octree holds world-space triangles. Add triangles, then Build before
// querying; triangles added after Build are not found until the next Build.
type Octree struct {
	root      octant
	bounds    math3d.Box3
	triangles []math3d.Triangle
	owners    []r3d.Renderable
}

type octant struct {
	box       math3d.Box3
	children  []*octant
	triangles []int
}

func New() *Octree {
	return &Octree{bounds: math3d.EmptyBox3()}
}

func (o *Octree) Len() int { return len(o.triangles) }

// Bounds is the union of all added triangles.
func (o *Octree) Bounds() math3d.Box3 { return o.bounds }

func (o *Octree) AddTriangle(t math3d.Triangle, owner r3d.Renderable) {
	o.bounds.ExpandByPoint(t.A)
	o.bounds.ExpandByPoint(t.B)
	o.bounds.ExpandByPoint(t.C)
	o.triangles = append(o.triangles, t)
	o.owners = append(o.owners, owner)
}

// AddGeometry adds the triangles of geo transformed by world. Line
// topologies have no surface and are skipped.
func (o *Octree) AddGeometry(geo *r3d.Geometry, world mgl32.Mat4, owner r3d.Renderable) error {
	if geo.Topology() != gpu.Triangles {
		return nil
	}
	positions := geo.Positions()
	vertex := func(i uint32) (mgl32.Vec3, error) {
		if int(i) >= len(positions) {
			return mgl32.Vec3{}, errors.Errorf("index %d out of range of %d positions", i, len(positions))
		}
		return math3d.ApplyMat4(positions[i], world), nil
	}

	count := len(positions)
	if geo.Indexed() {
		count = len(geo.Indices())
	}
	for i := 0; i+2 < count; i += 3 {
		var corners [3]mgl32.Vec3
		for k := range corners {
			idx := uint32(i + k)
			if geo.Indexed() {
				idx = geo.Indices()[i+k]
			}
			v, err := vertex(idx)
			if err != nil {
				return errors.Wrapf(err, "triangle %d", i/3)
			}
			corners[k] = v
		}
		o.AddTriangle(math3d.Triangle{A: corners[0], B: corners[1], C: corners[2]}, owner)
	}
	return nil
}

// AddRenderable adds every visible geometry in root's subtree with its
// current world transform. Hidden subtrees are skipped.
func (o *Octree) AddRenderable(root r3d.Renderable) error {
	var err error
	r3d.Traverse(root, func(r r3d.Renderable) bool {
		if err != nil || !r.Transform().Visible() {
			return false
		}
		if geo := r.Geometry(); geo != nil {
			if err = o.AddGeometry(geo, r.Transform().ComputeWorldMatrix(), r); err != nil {
				err = errors.Wrapf(err, "node %q", r.Transform().Name)
			}
		}
		return err == nil
	})
	return err
}

// Build partitions the triangles. The root box is the triangle bounds
// grown slightly so faces lying on the outer planes still overlap an
// octant after the halving rounds off.
func (o *Octree) Build() {
	o.root = octant{}
	if len(o.triangles) == 0 {
		o.root.box = math3d.EmptyBox3()
		return
	}
	o.root.box = o.bounds
	o.root.box.ExpandByScalar(boundsPadding)
	o.root.triangles = make([]int, len(o.triangles))
	for i := range o.root.triangles {
		o.root.triangles[i] = i
	}
	o.root.split(0, o.triangles)
}

// split hands the octant's triangles to its eight sub-boxes. A child with
// more than leafTriangles triangles splits again until maxDepth; empty
// children are dropped.
func (n *octant) split(depth int, triangles []math3d.Triangle) {
	half := n.box.Size().Mul(0.5)
	var subs []*octant
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			for z := 0; z < 2; z++ {
				min := n.box.Min.Add(mgl32.Vec3{float32(x) * half[0], float32(y) * half[1], float32(z) * half[2]})
				subs = append(subs, &octant{box: math3d.Box3{Min: min, Max: min.Add(half)}})
			}
		}
	}

	for _, i := range n.triangles {
		for _, sub := range subs {
			if sub.box.IntersectsTriangle(triangles[i]) {
				sub.triangles = append(sub.triangles, i)
			}
		}
	}

	var children []*octant
	for _, sub := range subs {
		if len(sub.triangles) == 0 {
			continue
		}
		if len(sub.triangles) > leafTriangles && depth < maxDepth {
			sub.split(depth+1, triangles)
		}
		children = append(children, sub)
	}
	// float error in the overlap test can leave every octant empty; keep
	// the triangles here rather than lose them
	if len(children) == 0 {
		return
	}
	n.children = children
	n.triangles = nil
}

// collect gathers the triangles of every leaf whose box passes hit.
func (n *octant) collect(hit func(math3d.Box3) bool, seen map[int]struct{}) {
	if !hit(n.box) {
		return
	}
	if len(n.children) == 0 {
		for _, i := range n.triangles {
			seen[i] = struct{}{}
		}
		return
	}
	for _, c := range n.children {
		c.collect(hit, seen)
	}
}

// candidates returns the sorted, deduplicated triangle indices near a
// query shape.
func (o *Octree) candidates(hit func(math3d.Box3) bool) []int {
	seen := map[int]struct{}{}
	o.root.collect(hit, seen)
	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// RayIntersect returns the nearest front-facing triangle hit by ray.
// A zero direction never hits.
func (o *Octree) RayIntersect(ray math3d.Ray) (Hit, bool) {
	if ray.Direction.LenSqr() == 0 {
		return Hit{}, false
	}
	var best Hit
	found := false
	for _, i := range o.candidates(ray.IntersectsBox) {
		p, ok := ray.IntersectTriangle(o.triangles[i], true)
		if !ok {
			continue
		}
		if d := p.Sub(ray.Origin).Len(); !found || d < best.Distance {
			best = Hit{Distance: d, Point: p, Triangle: o.triangles[i], Owner: o.owners[i]}
			found = true
		}
	}
	return best, found
}

// CapsuleIntersect returns the contact with the first triangle, in index
// order, that capsule penetrates. Translating the capsule by
// Normal*Depth resolves it.
func (o *Octree) CapsuleIntersect(capsule math3d.Capsule) (math3d.Contact, r3d.Renderable, bool) {
	for _, i := range o.candidates(capsule.IntersectsBox) {
		if c, ok := capsule.IntersectTriangle(o.triangles[i]); ok {
			return c, o.owners[i], true
		}
	}
	return math3d.Contact{}, nil, false
}

// RayFromCamera casts a ray from the camera through a point given in
// normalized device coordinates, both axes in [-1, 1] with +Y up.
func RayFromCamera(cam r3d.Camera, ndcX, ndcY float32) math3d.Ray {
	unproject := cam.Transform().ComputeWorldMatrix().Mul4(cam.ProjectionMatrixInverse())
	near := math3d.ApplyMat4(mgl32.Vec3{ndcX, ndcY, -1}, unproject)
	far := math3d.ApplyMat4(mgl32.Vec3{ndcX, ndcY, 1}, unproject)
	return math3d.Ray{Origin: near, Direction: math3d.Normalize(far.Sub(near))}
}

package r3d

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/r3dgo/r3d/math3d"
)

var (
	ErrCycle     = errors.New("node would become its own ancestor")
	ErrHasParent = errors.New("node already has a parent")
	ErrSceneRoot = errors.New("node is a scene root")
)

// Node is a transformable object of the scene graph.
//
// Position, quaternion and scale are authoritative. Every mutation marks
// the node dirty; the local matrix is recomposed lazily by UpdateMatrix,
// which the renderer calls during traversal. The euler rotation is a
// mirror refreshed whenever the quaternion changes.
//
// A node owns its children exclusively. The parent pointer is kept for
// Add's cycle check and for world matrix lookups.
type Node struct {
	ID   uuid.UUID
	Name string

	CastShadow    bool
	ReceiveShadow bool
	FrustumCulled bool
	RenderOrder   int

	visible    bool
	position   mgl32.Vec3
	rotation   math3d.Euler
	quaternion mgl32.Quat
	scale      mgl32.Vec3

	matrix      mgl32.Mat4
	worldMatrix mgl32.Mat4
	dirty       bool

	parent   *Node
	children []Renderable
	scene    *Scene // set while the node is a root of scene
}

func NewNode() *Node {
	n := &Node{}
	n.init()
	return n
}

func (n *Node) init() {
	n.ID = uuid.New()
	n.CastShadow = true
	n.ReceiveShadow = true
	n.FrustumCulled = true
	n.visible = true
	n.quaternion = mgl32.QuatIdent()
	n.rotation = math3d.Euler{Order: math3d.XYZ}
	n.scale = math3d.One
	n.matrix = mgl32.Ident4()
	n.worldMatrix = mgl32.Ident4()
}

func (n *Node) Transform() *Node { return n }
func (n *Node) Geometry() *Geometry { return nil }

func (n *Node) Render(r *Renderer, parentWorld *mgl32.Mat4) {
	r.Draw(n, parentWorld)
}

func (n *Node) Visible() bool { return n.visible }
func (n *Node) Dirty() bool { return n.dirty }
func (n *Node) Position() mgl32.Vec3 { return n.position }
func (n *Node) Quaternion() mgl32.Quat { return n.quaternion }
func (n *Node) Rotation() math3d.Euler { return n.rotation }
func (n *Node) Scale() mgl32.Vec3 { return n.scale }
func (n *Node) Matrix() mgl32.Mat4 { return n.matrix }
func (n *Node) WorldMatrix() mgl32.Mat4 { return n.worldMatrix }
func (n *Node) Parent() *Node { return n.parent }
func (n *Node) Children() []Renderable { return n.children }
func (n *Node) WorldPosition() mgl32.Vec3 { return n.worldMatrix.Col(3).Vec3() }

func (n *Node) onQuaternionUpdated() {
	n.rotation = math3d.EulerFromQuat(n.quaternion, n.rotation.Order)
	n.dirty = true
}

// UpdateMatrix recomposes the local matrix if the node is dirty and
// reports whether it did.
func (n *Node) UpdateMatrix() bool {
	if !n.dirty {
		return false
	}
	n.matrix = math3d.Compose(n.position, n.quaternion, n.scale)
	n.dirty = false
	return true
}

// localMatrix is the local matrix as UpdateMatrix would leave it, without
// clearing the dirty flag.
func (n *Node) localMatrix() mgl32.Mat4 {
	if n.dirty {
		return math3d.Compose(n.position, n.quaternion, n.scale)
	}
	return n.matrix
}

// ComputeWorldMatrix walks the parent chain and multiplies current local
// matrices. Unlike worldMatrix it does not lag behind ancestors that moved
// since the last traversal. No node state is modified.
func (n *Node) ComputeWorldMatrix() mgl32.Mat4 {
	world := n.localMatrix()
	for p := n.parent; p != nil; p = p.parent {
		world = p.localMatrix().Mul4(world)
	}
	return world
}

// updateWorldMatrix is step 4 of the traversal. parentWorld is non-nil
// when an ancestor changed this frame. wasDirty is the node's dirty flag
// before UpdateMatrix ran. The result tells children whether to recompute.
func (n *Node) updateWorldMatrix(parentWorld *mgl32.Mat4, wasDirty bool) bool {
	switch {
	case parentWorld != nil:
		n.worldMatrix = parentWorld.Mul4(n.matrix)
		return true
	case wasDirty:
		if n.parent != nil {
			n.worldMatrix = n.parent.worldMatrix.Mul4(n.matrix)
		} else {
			n.worldMatrix = n.matrix
		}
		return true
	default:
		return false
	}
}

// ApplyMatrix left-multiplies the current local transform by m and
// decomposes the result back into position, rotation and scale.
func (n *Node) ApplyMatrix(m mgl32.Mat4) {
	n.matrix = m.Mul4(math3d.Compose(n.position, n.quaternion, n.scale))
	n.position, n.quaternion, n.scale = math3d.Decompose(n.matrix)
	n.onQuaternionUpdated()
}

func (n *Node) RotateFromAxisAngle(axis mgl32.Vec3, angle float32) {
	n.quaternion = math3d.QuatFromAxisAngle(axis, angle)
	n.onQuaternionUpdated()
}

func (n *Node) RotateFromEuler(e math3d.Euler) {
	n.quaternion = math3d.QuatFromEuler(e)
	n.onQuaternionUpdated()
}

// RotateFromMatrix sets the rotation from a pure rotation matrix.
func (n *Node) RotateFromMatrix(m mgl32.Mat3) {
	n.quaternion = math3d.QuatFromMat3(m)
	n.onQuaternionUpdated()
}

func (n *Node) RotateFromQuaternion(q mgl32.Quat) {
	n.quaternion = q
	n.onQuaternionUpdated()
}

// RotateOnAxis rotates around an axis in local space.
func (n *Node) RotateOnAxis(axis mgl32.Vec3, angle float32) {
	n.quaternion = math3d.RotateOnAxis(n.quaternion, axis, angle)
	n.onQuaternionUpdated()
}

// RotateOnWorldAxis rotates around an axis in world space. The node is
// assumed to have no rotated ancestors.
func (n *Node) RotateOnWorldAxis(axis mgl32.Vec3, angle float32) {
	n.quaternion = math3d.RotateOnWorldAxis(n.quaternion, axis, angle)
	n.onQuaternionUpdated()
}

func (n *Node) RotateX(angle float32) { n.RotateOnAxis(math3d.Right, angle) }
func (n *Node) RotateY(angle float32) { n.RotateOnAxis(math3d.Up, angle) }
func (n *Node) RotateZ(angle float32) { n.RotateOnAxis(math3d.Forward, angle) }

// TranslateOnAxis moves the node along a local axis.
func (n *Node) TranslateOnAxis(axis mgl32.Vec3, distance float32) {
	n.position = n.position.Add(math3d.ApplyQuat(axis, n.quaternion).Mul(distance))
	n.dirty = true
}

func (n *Node) TranslateX(distance float32) { n.TranslateOnAxis(math3d.Right, distance) }
func (n *Node) TranslateY(distance float32) { n.TranslateOnAxis(math3d.Up, distance) }
func (n *Node) TranslateZ(distance float32) { n.TranslateOnAxis(math3d.Forward, distance) }

func (n *Node) SetPosition(p mgl32.Vec3) {
	n.position = p
	n.dirty = true
}

func (n *Node) SetScale(s mgl32.Vec3) {
	n.scale = s
	n.dirty = true
}

func (n *Node) SetRotation(q mgl32.Quat) {
	n.RotateFromQuaternion(q)
}

func (n *Node) SetRotationFromEuler(e math3d.Euler) {
	n.RotateFromEuler(e)
}

// LookAt turns the node toward a world-space target: cameras point -Z at
// it, other nodes point +Z at it. Rotated parents are taken into account
// through their world matrix of the last rendered frame.
func (n *Node) LookAt(target mgl32.Vec3) {
	n.lookAt(target, false)
}

func (n *Node) lookAt(target mgl32.Vec3, camera bool) {
	eye := n.position
	if n.parent != nil {
		eye = math3d.ApplyMat4(n.position, n.parent.worldMatrix)
	}

	var m mgl32.Mat4
	if camera {
		m = math3d.LookAt(eye, target, math3d.Up)
	} else {
		m = math3d.LookAt(target, eye, math3d.Up)
	}
	q := math3d.QuatFromRotationMatrix(m)

	if n.parent != nil {
		_, parentRotation, _ := math3d.Decompose(n.parent.worldMatrix)
		q = parentRotation.Inverse().Mul(q)
	}
	n.RotateFromQuaternion(q)
}

// Show makes the node and its subtree visible again. The node is marked
// dirty since ancestors may have moved while it was skipped.
func (n *Node) Show() {
	if !n.visible {
		n.visible = true
		n.dirty = true
	}
}

// Hide excludes the node and its subtree from traversal.
func (n *Node) Hide() {
	n.visible = false
}

// Add appends child to the node's children. The child must not already
// have a parent, be a scene root, or be the node or one of its ancestors.
func (n *Node) Add(child Renderable) error {
	c := child.Transform()
	if c.parent != nil {
		return errors.Wrapf(ErrHasParent, "add %q to %q", c.Name, n.Name)
	}
	if c.scene != nil {
		return errors.Wrapf(ErrSceneRoot, "add %q to %q", c.Name, n.Name)
	}
	for a := n; a != nil; a = a.parent {
		if a == c {
			return errors.Wrapf(ErrCycle, "add %q to %q", c.Name, n.Name)
		}
	}
	c.parent = n
	c.dirty = true
	n.children = append(n.children, child)
	return nil
}

// Remove detaches child and reports whether it was found. GPU resources
// of the detached subtree stay allocated until Renderer.Destroy.
func (n *Node) Remove(child Renderable) bool {
	c := child.Transform()
	for i, r := range n.children {
		if r.Transform() == c {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			c.parent = nil
			c.dirty = true
			return true
		}
	}
	return false
}

// Traverse calls fn for the node's subtree depth-first, pre-order,
// starting with self. Returning false from fn skips that subtree.
func Traverse(r Renderable, fn func(Renderable) bool) {
	if !fn(r) {
		return
	}
	for _, c := range r.Transform().children {
		Traverse(c, fn)
	}
}

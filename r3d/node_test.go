package r3d

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r3dgo/r3d/math3d"
)

const eps = 1e-5

func assertVec3(t *testing.T, want, got mgl32.Vec3, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], eps, msgAndArgs...)
}

func assertMat4(t *testing.T, want, got mgl32.Mat4) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], eps)
}

func TestNodeDirtyContract(t *testing.T) {
	n := NewNode()
	assert.False(t, n.Dirty())
	assert.False(t, n.UpdateMatrix())
	assertMat4(t, mgl32.Ident4(), n.Matrix())

	n.SetPosition(mgl32.Vec3{1, 2, 3})
	assert.True(t, n.Dirty())
	assert.True(t, n.UpdateMatrix())
	assert.False(t, n.Dirty())
	assertMat4(t, mgl32.Translate3D(1, 2, 3), n.Matrix())

	// second call is a no-op
	m := n.Matrix()
	assert.False(t, n.UpdateMatrix())
	assert.Equal(t, m, n.Matrix())
}

func TestNodeMutatorsMarkDirty(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(n *Node)
	}{
		{"SetPosition", func(n *Node) { n.SetPosition(mgl32.Vec3{1, 0, 0}) }},
		{"SetScale", func(n *Node) { n.SetScale(mgl32.Vec3{2, 2, 2}) }},
		{"SetRotation", func(n *Node) { n.SetRotation(mgl32.QuatRotate(1, math3d.Up)) }},
		{"SetRotationFromEuler", func(n *Node) { n.SetRotationFromEuler(math3d.NewEuler(0.1, 0.2, 0.3)) }},
		{"RotateFromAxisAngle", func(n *Node) { n.RotateFromAxisAngle(math3d.Right, 0.5) }},
		{"RotateFromMatrix", func(n *Node) { n.RotateFromMatrix(mgl32.Rotate3DY(0.5)) }},
		{"RotateOnAxis", func(n *Node) { n.RotateOnAxis(math3d.Up, 0.5) }},
		{"RotateOnWorldAxis", func(n *Node) { n.RotateOnWorldAxis(math3d.Up, 0.5) }},
		{"RotateX", func(n *Node) { n.RotateX(0.5) }},
		{"RotateY", func(n *Node) { n.RotateY(0.5) }},
		{"RotateZ", func(n *Node) { n.RotateZ(0.5) }},
		{"TranslateOnAxis", func(n *Node) { n.TranslateOnAxis(math3d.Up, 1) }},
		{"TranslateX", func(n *Node) { n.TranslateX(1) }},
		{"TranslateY", func(n *Node) { n.TranslateY(1) }},
		{"TranslateZ", func(n *Node) { n.TranslateZ(1) }},
		{"ApplyMatrix", func(n *Node) { n.ApplyMatrix(mgl32.Translate3D(0, 1, 0)) }},
		{"LookAt", func(n *Node) { n.LookAt(mgl32.Vec3{1, 0, 0}) }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			n := NewNode()
			tc.mutate(n)
			assert.True(t, n.Dirty())
		})
	}
}

func TestNodeEulerMirror(t *testing.T) {
	n := NewNode()
	n.RotateX(0.5)
	assertVec3(t, mgl32.Vec3{0.5, 0, 0}, n.Rotation().Angles)

	n.SetRotationFromEuler(math3d.NewEuler(0.1, 0.2, 0.3))
	assertVec3(t, mgl32.Vec3{0.1, 0.2, 0.3}, n.Rotation().Angles)
}

func TestNodeRotateOrder(t *testing.T) {
	local := NewNode()
	local.RotateX(mgl32.DegToRad(90))
	local.RotateOnAxis(math3d.Up, mgl32.DegToRad(90))

	world := NewNode()
	world.RotateX(mgl32.DegToRad(90))
	world.RotateOnWorldAxis(math3d.Up, mgl32.DegToRad(90))

	qx := mgl32.QuatRotate(mgl32.DegToRad(90), math3d.Right)
	qy := mgl32.QuatRotate(mgl32.DegToRad(90), math3d.Up)
	assert.True(t, math3d.QuatEqual(qx.Mul(qy), local.Quaternion(), eps))
	assert.True(t, math3d.QuatEqual(qy.Mul(qx), world.Quaternion(), eps))
	assert.False(t, math3d.QuatEqual(local.Quaternion(), world.Quaternion(), eps))
}

func TestNodeTranslateOnRotatedAxis(t *testing.T) {
	n := NewNode()
	n.RotateY(mgl32.DegToRad(90))
	n.TranslateX(1)
	assertVec3(t, mgl32.Vec3{0, 0, -1}, n.Position())
}

func TestNodeApplyMatrix(t *testing.T) {
	n := NewNode()
	n.SetPosition(mgl32.Vec3{1, 0, 0})
	n.ApplyMatrix(mgl32.Translate3D(0, 2, 0))
	assertVec3(t, mgl32.Vec3{1, 2, 0}, n.Position())

	n.ApplyMatrix(mgl32.HomogRotate3DZ(mgl32.DegToRad(90)))
	assertVec3(t, mgl32.Vec3{-2, 1, 0}, n.Position())
	assertVec3(t, mgl32.Vec3{0, 0, mgl32.DegToRad(90)}, n.Rotation().Angles)
	assertVec3(t, math3d.One, n.Scale())

	n.UpdateMatrix()
	assertMat4(t, mgl32.HomogRotate3DZ(mgl32.DegToRad(90)).Mul4(mgl32.Translate3D(1, 2, 0)), n.Matrix())
}

func TestNodeLookAt(t *testing.T) {
	n := NewNode()
	n.LookAt(mgl32.Vec3{1, 0, 0})
	// +Z faces the target
	assertVec3(t, mgl32.Vec3{1, 0, 0}, math3d.ApplyQuat(math3d.Forward, n.Quaternion()))

	n.SetPosition(mgl32.Vec3{0, 0, 5})
	n.LookAt(mgl32.Vec3{})
	assertVec3(t, mgl32.Vec3{0, 0, -1}, math3d.ApplyQuat(math3d.Forward, n.Quaternion()))
}

func TestNodeAdd(t *testing.T) {
	a, b, c := NewNode(), NewNode(), NewNode()
	a.Name, b.Name, c.Name = "a", "b", "c"

	require.NoError(t, a.Add(b))
	assert.Same(t, a, b.Parent())
	assert.True(t, b.Dirty())
	assert.Len(t, a.Children(), 1)

	assert.ErrorIs(t, a.Add(a), ErrCycle)
	assert.ErrorIs(t, b.Add(a), ErrCycle)

	require.NoError(t, b.Add(c))
	assert.ErrorIs(t, c.Add(a), ErrCycle)
	assert.ErrorIs(t, a.Add(c), ErrHasParent)
	assert.Len(t, a.Children(), 1)
}

func TestNodeRemove(t *testing.T) {
	p, a, b := NewNode(), NewNode(), NewNode()
	require.NoError(t, p.Add(a))
	require.NoError(t, p.Add(b))
	a.UpdateMatrix()

	assert.True(t, p.Remove(a))
	assert.Nil(t, a.Parent())
	assert.True(t, a.Dirty())
	assert.Equal(t, []Renderable{b}, p.Children())
	assert.False(t, p.Remove(a))

	// detached nodes can be attached elsewhere
	assert.NoError(t, b.Add(a))
}

func TestNodeShowHide(t *testing.T) {
	n := NewNode()
	assert.True(t, n.Visible())
	n.Show()
	assert.False(t, n.Dirty())

	n.Hide()
	assert.False(t, n.Visible())
	n.Show()
	assert.True(t, n.Visible())
	assert.True(t, n.Dirty())
}

func TestTraverse(t *testing.T) {
	root := NewNode()
	a, a1, b := NewNode(), NewNode(), NewNode()
	root.Name, a.Name, a1.Name, b.Name = "root", "a", "a1", "b"
	require.NoError(t, root.Add(a))
	require.NoError(t, a.Add(a1))
	require.NoError(t, root.Add(b))

	var names []string
	Traverse(root, func(r Renderable) bool {
		names = append(names, r.Transform().Name)
		return true
	})
	assert.Equal(t, []string{"root", "a", "a1", "b"}, names)

	names = nil
	Traverse(root, func(r Renderable) bool {
		names = append(names, r.Transform().Name)
		return r != Renderable(a)
	})
	assert.Equal(t, []string{"root", "a", "b"}, names)
}

func TestUpdateWorldMatrix(t *testing.T) {
	p, c := NewNode(), NewNode()
	require.NoError(t, p.Add(c))
	p.SetPosition(mgl32.Vec3{1, 0, 0})
	c.SetPosition(mgl32.Vec3{0, 1, 0})

	// root: own dirty flag decides
	assert.True(t, p.updateWorldMatrix(nil, p.UpdateMatrix()))
	assertMat4(t, mgl32.Translate3D(1, 0, 0), p.WorldMatrix())

	parentWorld := p.WorldMatrix()
	assert.True(t, c.updateWorldMatrix(&parentWorld, c.UpdateMatrix()))
	assertVec3(t, mgl32.Vec3{1, 1, 0}, c.WorldPosition())

	// nothing changed
	assert.False(t, c.updateWorldMatrix(nil, c.UpdateMatrix()))

	// only the child moved: the parent's stored world matrix is used
	c.SetPosition(mgl32.Vec3{0, 2, 0})
	assert.True(t, c.updateWorldMatrix(nil, c.UpdateMatrix()))
	assertVec3(t, mgl32.Vec3{1, 2, 0}, c.WorldPosition())
}

package r3d

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r3dgo/r3d/math3d"
)

func TestPerspectiveProjection(t *testing.T) {
	c := NewPerspectiveCamera(60, 1.5, 0.1, 100)
	assertMat4(t, mgl32.Perspective(mgl32.DegToRad(60), 1.5, 0.1, 100), c.ProjectionMatrix())
	assertMat4(t, mgl32.Ident4(), c.ProjectionMatrix().Mul4(c.ProjectionMatrixInverse()))

	before := c.ProjectionMatrix()
	c.SetZoom(2)
	assert.InDelta(t, 2*before[0], c.ProjectionMatrix()[0], eps)
	assert.InDelta(t, 2*before[5], c.ProjectionMatrix()[5], eps)

	c.SetZoom(1)
	c.SetAspect(1)
	assertMat4(t, mgl32.Perspective(mgl32.DegToRad(60), 1, 0.1, 100), c.ProjectionMatrix())
	c.SetFov(90)
	c.SetNearFar(1, 10)
	assertMat4(t, mgl32.Perspective(mgl32.DegToRad(90), 1, 1, 10), c.ProjectionMatrix())
}

func TestPerspectiveFilmOffset(t *testing.T) {
	c := NewPerspectiveCamera(45, 2, 0.1, 100)
	assert.InDelta(t, 17.5, c.FilmHeight(), eps)
	assert.InDelta(t, 35, c.FilmWidth(), eps)
	assert.Zero(t, c.ProjectionMatrix()[8])

	c.SetFilmOffset(5)
	// skewed frustum: (r+l)/(r-l) becomes non-zero
	assert.NotZero(t, c.ProjectionMatrix()[8])
	assertMat4(t, mgl32.Ident4(), c.ProjectionMatrix().Mul4(c.ProjectionMatrixInverse()))
}

func TestOrthographicZoom(t *testing.T) {
	c := NewOrthographicCamera(-2, 2, 1, -1, 0.1, 100)
	assertMat4(t, mgl32.Ortho(-2, 2, -1, 1, 0.1, 100), c.ProjectionMatrix())

	c.SetZoom(2)
	l, r, top, b := c.Frustum()
	assert.Equal(t, []float32{-1, 1, 0.5, -0.5}, []float32{l, r, top, b})
	assertMat4(t, mgl32.Ortho(-1, 1, -0.5, 0.5, 0.1, 100), c.ProjectionMatrix())

	// off-center planes zoom around their center
	c.SetPlanes(0, 4, 2, 0, 0.1, 100)
	l, r, top, b = c.Frustum()
	assert.Equal(t, []float32{1, 3, 1.5, 0.5}, []float32{l, r, top, b})
}

func TestCameraUpdateMatrix(t *testing.T) {
	c := NewPerspectiveCamera(45, 1, 0.1, 100)
	assert.True(t, c.UpdateMatrix(), "first update computes the view")
	assertMat4(t, mgl32.Ident4(), c.ViewMatrix())
	assert.False(t, c.UpdateMatrix())

	c.SetPosition(mgl32.Vec3{0, 0, 5})
	assert.True(t, c.UpdateMatrix())
	assertMat4(t, mgl32.Translate3D(0, 0, -5), c.ViewMatrix())
	assert.False(t, c.UpdateMatrix())
}

func TestCameraWithParent(t *testing.T) {
	rig := NewNode()
	c := NewOrthographicCamera(-1, 1, 1, -1, 0.1, 10)
	require.NoError(t, rig.Add(c))

	rig.SetPosition(mgl32.Vec3{1, 0, 0})
	rig.updateWorldMatrix(nil, rig.UpdateMatrix())
	c.SetPosition(mgl32.Vec3{0, 0, 5})

	assert.True(t, c.UpdateMatrix())
	assertMat4(t, mgl32.Translate3D(-1, 0, -5), c.ViewMatrix())

	// the rig moving is picked up without touching the camera
	rig.SetPosition(mgl32.Vec3{2, 0, 0})
	rig.updateWorldMatrix(nil, rig.UpdateMatrix())
	assert.True(t, c.UpdateMatrix())
	assertMat4(t, mgl32.Translate3D(-2, 0, -5), c.ViewMatrix())
}

func TestCameraLookAt(t *testing.T) {
	c := NewPerspectiveCamera(45, 1, 0.1, 100)
	c.SetPosition(mgl32.Vec3{5, 0, 0})
	c.LookAt(mgl32.Vec3{})

	// cameras look down their -Z axis
	assertVec3(t, mgl32.Vec3{-1, 0, 0}, math3d.ApplyQuat(mgl32.Vec3{0, 0, -1}, c.Quaternion()))

	c.UpdateMatrix()
	assertVec3(t, mgl32.Vec3{0, 0, -5}, math3d.ApplyMat4(mgl32.Vec3{}, c.ViewMatrix()))
}

func TestOrbitController(t *testing.T) {
	o := NewOrbitController(mgl32.Vec3{}, 5, 0, 0)
	assertVec3(t, mgl32.Vec3{0, 0, 5}, o.Position())

	o.Yaw = 90
	assertVec3(t, mgl32.Vec3{5, 0, 0}, o.Position())

	o.Yaw, o.Pitch = 0, 90
	o.Target = mgl32.Vec3{1, 1, 1}
	assertVec3(t, mgl32.Vec3{1, 6, 1}, o.Position())

	c := NewPerspectiveCamera(45, 1, 0.1, 100)
	o.Pitch = 30
	o.Apply(c)
	c.UpdateMatrix()
	assertVec3(t, o.Position(), c.Position())
	// target ends up straight ahead at the orbit distance
	assertVec3(t, mgl32.Vec3{0, 0, -5}, math3d.ApplyMat4(o.Target, c.ViewMatrix()))
}

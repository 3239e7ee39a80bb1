package r3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/r3dgo/r3d/math3d"
)

// Camera provides the projection and view matrices for a render pass.
type Camera interface {
	Transform() *Node
	// LookAt points the camera's -Z axis at a world-space target.
	LookAt(target mgl32.Vec3)
	// UpdateMatrix refreshes the view matrix if the camera node moved.
	// It is called once per frame before traversal.
	UpdateMatrix() bool
	ProjectionMatrix() mgl32.Mat4
	ProjectionMatrixInverse() mgl32.Mat4
	ViewMatrix() mgl32.Mat4
}

type cameraBase struct {
	Node

	projection        mgl32.Mat4
	projectionInverse mgl32.Mat4
	view              mgl32.Mat4
	viewWorld         mgl32.Mat4 // world matrix view was inverted from
	viewValid         bool
}

func (c *cameraBase) init() {
	c.Node.init()
	c.projection = mgl32.Ident4()
	c.projectionInverse = mgl32.Ident4()
	c.view = mgl32.Ident4()
}

func (c *cameraBase) ProjectionMatrix() mgl32.Mat4 { return c.projection }
func (c *cameraBase) ProjectionMatrixInverse() mgl32.Mat4 { return c.projectionInverse }
func (c *cameraBase) ViewMatrix() mgl32.Mat4 { return c.view }

func (c *cameraBase) LookAt(target mgl32.Vec3) {
	c.Node.lookAt(target, true)
}

func (c *cameraBase) setProjection(p mgl32.Mat4) {
	c.projection = p
	c.projectionInverse = math3d.Invert(p)
}

// UpdateMatrix derives the camera's world matrix from the current local
// transforms of the camera and its ancestors and inverts it into the view
// matrix when it differs from the one the view was built from. It runs
// before traversal, so ancestors moved this frame are already accounted
// for.
//
// A camera with children is left dirty so traversal still propagates its
// new world matrix to them.
func (c *cameraBase) UpdateMatrix() bool {
	if len(c.children) == 0 {
		c.Node.UpdateMatrix()
	}
	world := c.Node.ComputeWorldMatrix()
	c.worldMatrix = world
	if c.viewValid && world == c.viewWorld {
		return false
	}
	c.viewWorld = world
	c.view = math3d.Invert(world)
	c.viewValid = true
	return true
}

// OrbitController places a camera on a sphere around Target.
type OrbitController struct {
	Target   mgl32.Vec3
	Distance float32
	Pitch    float32 // degrees, x rotation
	Yaw      float32 // degrees, y rotation
}

func NewOrbitController(target mgl32.Vec3, dist, pitch, yaw float32) *OrbitController {
	return &OrbitController{
		Target:   target,
		Distance: dist,
		Pitch:    pitch,
		Yaw:      yaw,
	}
}

func (c *OrbitController) Position() mgl32.Vec3 {
	pitch := float64(mgl32.DegToRad(c.Pitch))
	yaw := float64(mgl32.DegToRad(c.Yaw))
	return mgl32.Vec3{
		c.Distance * float32(math.Cos(pitch)*math.Sin(yaw)),
		c.Distance * float32(math.Sin(pitch)),
		c.Distance * float32(math.Cos(pitch)*math.Cos(yaw)),
	}.Add(c.Target)
}

// Apply moves cam to the orbit position and aims it at the target.
func (c *OrbitController) Apply(cam Camera) {
	cam.Transform().SetPosition(c.Position())
	cam.LookAt(c.Target)
}

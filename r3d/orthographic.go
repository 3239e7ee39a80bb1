package r3d

import (
	"github.com/go-gl/mathgl/mgl32"
)

// OrthographicCamera is a parallel projection of the box between the
// given planes. Zoom scales the box around its centre; zoom > 1 magnifies.
type OrthographicCamera struct {
	cameraBase

	left, right, top, bottom float32
	near, far                float32
	zoom                     float32
}

var _ Camera = (*OrthographicCamera)(nil)

func NewOrthographicCamera(left, right, top, bottom, near, far float32) *OrthographicCamera {
	c := &OrthographicCamera{
		left:   left,
		right:  right,
		top:    top,
		bottom: bottom,
		near:   near,
		far:    far,
		zoom:   1,
	}
	c.cameraBase.init()
	c.updateProjectionMatrix()
	return c
}

func (c *OrthographicCamera) Zoom() float32 { return c.zoom }

func (c *OrthographicCamera) SetZoom(zoom float32) {
	c.zoom = zoom
	c.updateProjectionMatrix()
}

func (c *OrthographicCamera) SetPlanes(left, right, top, bottom, near, far float32) {
	c.left, c.right, c.top, c.bottom = left, right, top, bottom
	c.near, c.far = near, far
	c.updateProjectionMatrix()
}

// Frustum returns the effective planes after zoom.
func (c *OrthographicCamera) Frustum() (left, right, top, bottom float32) {
	dx := (c.right - c.left) / (2 * c.zoom)
	dy := (c.top - c.bottom) / (2 * c.zoom)
	cx := (c.right + c.left) / 2
	cy := (c.top + c.bottom) / 2
	return cx - dx, cx + dx, cy + dy, cy - dy
}

func (c *OrthographicCamera) updateProjectionMatrix() {
	left, right, top, bottom := c.Frustum()
	c.setProjection(mgl32.Ortho(left, right, bottom, top, c.near, c.far))
}

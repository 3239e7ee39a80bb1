package r3d

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/r3dgo/r3d/math3d"
)

// PerspectiveCamera projects through a frustum defined by a vertical
// field of view. A non-zero film offset skews the frustum horizontally.
type PerspectiveCamera struct {
	cameraBase

	fov    float32 // degrees
	aspect float32
	near   float32
	far    float32
	zoom   float32

	filmGauge  float32 // mm
	filmOffset float32 // mm
}

var _ Camera = (*PerspectiveCamera)(nil)

func NewPerspectiveCamera(fov, aspect, near, far float32) *PerspectiveCamera {
	c := &PerspectiveCamera{
		fov:       fov,
		aspect:    aspect,
		near:      near,
		far:       far,
		zoom:      1,
		filmGauge: 35,
	}
	c.cameraBase.init()
	c.updateProjectionMatrix()
	return c
}

func (c *PerspectiveCamera) Fov() float32 { return c.fov }
func (c *PerspectiveCamera) Aspect() float32 { return c.aspect }
func (c *PerspectiveCamera) Near() float32 { return c.near }
func (c *PerspectiveCamera) Far() float32 { return c.far }
func (c *PerspectiveCamera) Zoom() float32 { return c.zoom }

func (c *PerspectiveCamera) FilmWidth() float32 {
	return c.filmGauge * math32.Min(c.aspect, 1)
}

func (c *PerspectiveCamera) FilmHeight() float32 {
	return c.filmGauge / math32.Max(c.aspect, 1)
}

func (c *PerspectiveCamera) SetFov(fov float32) {
	c.fov = fov
	c.updateProjectionMatrix()
}

func (c *PerspectiveCamera) SetAspect(aspect float32) {
	c.aspect = aspect
	c.updateProjectionMatrix()
}

func (c *PerspectiveCamera) SetNearFar(near, far float32) {
	c.near, c.far = near, far
	c.updateProjectionMatrix()
}

func (c *PerspectiveCamera) SetZoom(zoom float32) {
	c.zoom = zoom
	c.updateProjectionMatrix()
}

// SetFilmGauge sets the film size in millimetres along the larger axis.
func (c *PerspectiveCamera) SetFilmGauge(gauge float32) {
	c.filmGauge = gauge
	c.updateProjectionMatrix()
}

// SetFilmOffset shifts the frustum horizontally by offset millimetres.
func (c *PerspectiveCamera) SetFilmOffset(offset float32) {
	c.filmOffset = offset
	c.updateProjectionMatrix()
}

func (c *PerspectiveCamera) updateProjectionMatrix() {
	near := c.near
	top := near * math32.Tan(0.5*math3d.DegToRad(c.fov)) / c.zoom
	height := 2 * top
	width := c.aspect * height
	left := -0.5 * width

	if c.filmOffset != 0 {
		left += near * c.filmOffset / c.FilmWidth()
	}

	c.setProjection(mgl32.Frustum(left, left+width, top-height, top, near, c.far))
}

package geometry

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/r3dgo/r3d/gpu"
	"github.com/r3dgo/r3d/r3d"
)

// plane axes: u and v span the face, w is the face normal axis.
type planeAxes struct{ u, v, w int }

var (
	axesZYX = planeAxes{2, 1, 0}
	axesXZY = planeAxes{0, 2, 1}
	axesXYZ = planeAxes{0, 1, 2}
)

type builder struct {
	indices   []uint32
	positions []mgl32.Vec3
	normals   []mgl32.Vec3
}

// Box builds an indexed box centered on the origin with per-face normals.
// Each face is subdivided into segments; with one segment per side the
// box has 24 vertices and 36 indices.
func Box(width, height, depth float32, widthSegs, heightSegs, depthSegs int) *r3d.Geometry {
	widthSegs, heightSegs, depthSegs = atLeastOne(widthSegs), atLeastOne(heightSegs), atLeastOne(depthSegs)

	b := &builder{}
	b.plane(axesZYX, -1, -1, depth, height, width, depthSegs, heightSegs)
	b.plane(axesZYX, 1, -1, depth, height, -width, depthSegs, heightSegs)
	b.plane(axesXZY, 1, 1, width, depth, height, widthSegs, depthSegs)
	b.plane(axesXZY, 1, -1, width, depth, -height, widthSegs, depthSegs)
	b.plane(axesXYZ, 1, -1, width, height, depth, widthSegs, heightSegs)
	b.plane(axesXYZ, -1, -1, width, height, -depth, widthSegs, heightSegs)

	return r3d.NewGeometry(gpu.Triangles, b.indices, b.positions, b.normals, nil)
}

// Cube is a box with equal sides and one segment per face.
func Cube(size float32) *r3d.Geometry {
	return Box(size, size, size, 1, 1, 1)
}

func (b *builder) plane(axes planeAxes, udir, vdir, width, height, depth float32, gridX, gridY int) {
	start := uint32(len(b.positions))

	segW := width / float32(gridX)
	segH := height / float32(gridY)
	halfW, halfH, halfD := width/2, height/2, depth/2

	var normal mgl32.Vec3
	if depth > 0 {
		normal[axes.w] = 1
	} else {
		normal[axes.w] = -1
	}

	for iy := 0; iy <= gridY; iy++ {
		y := float32(iy)*segH - halfH
		for ix := 0; ix <= gridX; ix++ {
			x := float32(ix)*segW - halfW
			var p mgl32.Vec3
			p[axes.u] = x * udir
			p[axes.v] = y * vdir
			p[axes.w] = halfD
			b.positions = append(b.positions, p)
			b.normals = append(b.normals, normal)
		}
	}

	row := uint32(gridX + 1)
	for iy := uint32(0); iy < uint32(gridY); iy++ {
		for ix := uint32(0); ix < uint32(gridX); ix++ {
			a := start + ix + row*iy
			bb := start + ix + row*(iy+1)
			c := start + ix + 1 + row*(iy+1)
			d := start + ix + 1 + row*iy
			b.indices = append(b.indices, a, bb, d, bb, c, d)
		}
	}
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

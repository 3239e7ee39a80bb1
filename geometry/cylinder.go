package geometry

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/r3dgo/r3d/gpu"
	"github.com/r3dgo/r3d/math3d"
	"github.com/r3dgo/r3d/r3d"
)

// CylinderOptions configures Cylinder. Zero segment counts fall back to
// 32 radial and 1 height segment; a zero ThetaLength means a full turn.
type CylinderOptions struct {
	RadialSegments int
	HeightSegments int
	OpenEnded      bool
	ThetaStart     float32
	ThetaLength    float32
}

// Cylinder builds an indexed cylinder along Y centered on the origin.
// A zero radius at either end produces a cone.
func Cylinder(radiusTop, radiusBottom, height float32, opts CylinderOptions) *r3d.Geometry {
	if opts.RadialSegments < 1 {
		opts.RadialSegments = 32
	}
	opts.HeightSegments = atLeastOne(opts.HeightSegments)
	if opts.ThetaLength == 0 {
		opts.ThetaLength = 2 * math32.Pi
	}

	b := &builder{}
	b.torso(radiusTop, radiusBottom, height, opts)
	if !opts.OpenEnded {
		if radiusTop > 0 {
			b.cap(true, radiusTop, height, opts)
		}
		if radiusBottom > 0 {
			b.cap(false, radiusBottom, height, opts)
		}
	}
	return r3d.NewGeometry(gpu.Triangles, b.indices, b.positions, b.normals, nil)
}

// Cone builds a closed cone with its apex on +Y.
func Cone(radius, height float32) *r3d.Geometry {
	return Cylinder(0, radius, height, CylinderOptions{})
}

func (b *builder) torso(radiusTop, radiusBottom, height float32, opts CylinderOptions) {
	halfHeight := height / 2
	slope := (radiusBottom - radiusTop) / height
	rows := make([][]uint32, opts.HeightSegments+1)

	for y := 0; y <= opts.HeightSegments; y++ {
		v := float32(y) / float32(opts.HeightSegments)
		radius := v*(radiusBottom-radiusTop) + radiusTop
		for x := 0; x <= opts.RadialSegments; x++ {
			u := float32(x) / float32(opts.RadialSegments)
			theta := u*opts.ThetaLength + opts.ThetaStart
			sin, cos := math32.Sin(theta), math32.Cos(theta)

			rows[y] = append(rows[y], uint32(len(b.positions)))
			b.positions = append(b.positions, mgl32.Vec3{radius * sin, -v*height + halfHeight, radius * cos})
			b.normals = append(b.normals, math3d.Normalize(mgl32.Vec3{sin, slope, cos}))
		}
	}

	for x := 0; x < opts.RadialSegments; x++ {
		for y := 0; y < opts.HeightSegments; y++ {
			a := rows[y][x]
			bb := rows[y+1][x]
			c := rows[y+1][x+1]
			d := rows[y][x+1]
			b.indices = append(b.indices, a, bb, d, bb, c, d)
		}
	}
}

func (b *builder) cap(top bool, radius, height float32, opts CylinderOptions) {
	sign := float32(-1)
	if top {
		sign = 1
	}
	y := height / 2 * sign
	normal := mgl32.Vec3{0, sign, 0}

	// one center vertex per segment
	centerStart := uint32(len(b.positions))
	for x := 0; x < opts.RadialSegments; x++ {
		b.positions = append(b.positions, mgl32.Vec3{0, y, 0})
		b.normals = append(b.normals, normal)
	}

	rimStart := uint32(len(b.positions))
	for x := 0; x <= opts.RadialSegments; x++ {
		u := float32(x) / float32(opts.RadialSegments)
		theta := u*opts.ThetaLength + opts.ThetaStart
		sin, cos := math32.Sin(theta), math32.Cos(theta)
		b.positions = append(b.positions, mgl32.Vec3{radius * sin, y, radius * cos})
		b.normals = append(b.normals, normal)
	}

	for x := uint32(0); x < uint32(opts.RadialSegments); x++ {
		c := centerStart + x
		i := rimStart + x
		if top {
			b.indices = append(b.indices, i, i+1, c)
		} else {
			b.indices = append(b.indices, i+1, i, c)
		}
	}
}

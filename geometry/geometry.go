// Package geometry builds procedural geometries for the r3d renderer.
// Every builder returns a fresh *r3d.Geometry with no GPU state.
package geometry

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/r3dgo/r3d/gpu"
	"github.com/r3dgo/r3d/r3d"
)

// Lines draws each consecutive pair of points as a segment.
func Lines(points []mgl32.Vec3) *r3d.Geometry {
	return r3d.NewGeometry(gpu.Lines, nil, points, nil, nil)
}

// LineStrip connects the points in order.
func LineStrip(points []mgl32.Vec3) *r3d.Geometry {
	return r3d.NewGeometry(gpu.LineStrip, nil, points, nil, nil)
}

// Triangles builds a non-indexed triangle list with one flat color.
func Triangles(triangles [][3]mgl32.Vec3, color mgl32.Vec3) *r3d.Geometry {
	positions := make([]mgl32.Vec3, 0, len(triangles)*3)
	for _, t := range triangles {
		positions = append(positions, t[0], t[1], t[2])
	}
	return r3d.NewGeometry(gpu.Triangles, nil, positions, nil, Fill(len(positions), color))
}

// Fill returns n copies of color.
func Fill(n int, color mgl32.Vec3) []mgl32.Vec3 {
	colors := make([]mgl32.Vec3, n)
	for i := range colors {
		colors[i] = color
	}
	return colors
}

// Gradient interpolates n colors from one color to another. The first
// entry is one step past from, the last one is to.
func Gradient(n int, from, to mgl32.Vec3) []mgl32.Vec3 {
	colors := make([]mgl32.Vec3, n)
	for i := range colors {
		t := float32(i+1) / float32(n)
		colors[i] = from.Add(to.Sub(from).Mul(t))
	}
	return colors
}

// Axes draws the three unit axes scaled by size, colored red, green and
// blue for X, Y and Z.
func Axes(size float32) *r3d.Geometry {
	positions := []mgl32.Vec3{
		{}, {size, 0, 0},
		{}, {0, size, 0},
		{}, {0, 0, size},
	}
	colors := []mgl32.Vec3{
		{1, 0, 0}, {1, 0, 0},
		{0, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {0, 0, 1},
	}
	return r3d.NewGeometry(gpu.Lines, nil, positions, nil, colors)
}

// Grid draws a square grid on the XZ plane centered on the origin.
func Grid(size float32, divisions int) *r3d.Geometry {
	if divisions < 1 {
		divisions = 1
	}
	half := size / 2
	step := size / float32(divisions)
	positions := make([]mgl32.Vec3, 0, (divisions+1)*4)
	for i := 0; i <= divisions; i++ {
		k := -half + float32(i)*step
		positions = append(positions,
			mgl32.Vec3{-half, 0, k}, mgl32.Vec3{half, 0, k},
			mgl32.Vec3{k, 0, -half}, mgl32.Vec3{k, 0, half},
		)
	}
	return Lines(positions)
}

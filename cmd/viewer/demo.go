package main

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/r3dgo/r3d/geometry"
	"github.com/r3dgo/r3d/r3d"
)

// demoScene is shown when no scene file is given: a floor grid with axes
// and a few primitives, one of them parented to another.
func demoScene() []r3d.Renderable {
	floor := r3d.NewNode()
	floor.Name = "floor"

	grid := r3d.NewMesh(geometry.Grid(10, 10))
	grid.Name = "grid"
	grid.SetColor(mgl32.Vec3{0.4, 0.4, 0.4})
	axes := r3d.NewMesh(geometry.Axes(1.5))
	axes.Name = "axes"
	axes.SetPosition(mgl32.Vec3{0, 0.001, 0})
	mustAdd(floor, grid)
	mustAdd(floor, axes)

	cube := r3d.NewMesh(geometry.Cube(1))
	cube.Name = "cube"
	cube.SetColor(mgl32.Vec3{0.9, 0.55, 0.2})
	cube.SetPosition(mgl32.Vec3{0, 0.5, 0})

	cone := r3d.NewMesh(geometry.Cone(0.3, 0.6))
	cone.Name = "cone"
	cone.SetColor(mgl32.Vec3{0.3, 0.6, 0.9})
	cone.SetPosition(mgl32.Vec3{0, 0.8, 0})
	mustAdd(cube, cone)

	pillar := r3d.NewMesh(geometry.Cylinder(0.25, 0.25, 1.5, geometry.CylinderOptions{RadialSegments: 24}))
	pillar.Name = "pillar"
	pillar.SetColor(mgl32.Vec3{0.5, 0.85, 0.4})
	pillar.SetPosition(mgl32.Vec3{-2, 0.75, 1})

	triangle := r3d.NewMesh(geometry.Triangles([][3]mgl32.Vec3{
		{{-0.5, 0, 0}, {0.5, 0, 0}, {0, 1, 0}},
	}, mgl32.Vec3{0.9, 0.2, 0.6}))
	triangle.Name = "triangle"
	triangle.SetPosition(mgl32.Vec3{2, 0, -1})

	return []r3d.Renderable{floor, cube, pillar, triangle}
}

func mustAdd(parent r3d.Renderable, child r3d.Renderable) {
	if err := parent.Transform().Add(child); err != nil {
		panic(err)
	}
}

package r3d

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is a node with geometry.
type Mesh struct {
	Node

	geometry *Geometry
	color    mgl32.Vec3
}

var (
	_ Renderable = (*Mesh)(nil)
	_ Renderable = (*Node)(nil)
)

// NewMesh wraps a copy of geo, so several meshes can be built from one
// generator output and each owns its GPU objects.
func NewMesh(geo *Geometry) *Mesh {
	m := &Mesh{geometry: geo.Clone(), color: mgl32.Vec3{1, 1, 1}}
	m.Node.init()
	return m
}

// NewMeshShared uses geo as is. The caller guarantees it is not attached
// to another mesh.
func NewMeshShared(geo *Geometry) *Mesh {
	m := &Mesh{geometry: geo, color: mgl32.Vec3{1, 1, 1}}
	m.Node.init()
	return m
}

func (m *Mesh) Geometry() *Geometry { return m.geometry }

func (m *Mesh) Color() mgl32.Vec3 { return m.color }

func (m *Mesh) SetColor(c mgl32.Vec3) { m.color = c }

func (m *Mesh) Render(r *Renderer, parentWorld *mgl32.Mat4) {
	r.Draw(m, parentWorld)
}

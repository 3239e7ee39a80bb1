package r3d

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Renderable is anything the renderer can walk: it has a transform node,
// optionally a geometry, and knows how to hand itself to the renderer.
//
// *Node is a Renderable without geometry, usable as a group.
type Renderable interface {
	Transform() *Node
	// Geometry returns nil for nodes that only group children.
	Geometry() *Geometry
	// Render draws the object and its subtree. parentWorld is set only
	// when an ancestor's world matrix changed this frame.
	Render(r *Renderer, parentWorld *mgl32.Mat4)
}

// Colored is implemented by renderables that supply the uniform color
// used by shader variants without per-vertex colors.
type Colored interface {
	Color() mgl32.Vec3
}

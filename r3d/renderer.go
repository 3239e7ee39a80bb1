package r3d

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/r3dgo/r3d/gpu"
	"github.com/r3dgo/r3d/rendercontext"
)

// Stats are counters of one rendered frame.
type Stats struct {
	Frame        uint64 `json:"frame"`
	Nodes        int    `json:"nodes"`
	Draws        int    `json:"draws"`
	Uploads      int    `json:"uploads"`
	Reuploads    int    `json:"reuploads"`
	WorldUpdates int    `json:"world_updates"`
	Released     int    `json:"released"`
}

var defaultColor = mgl32.Vec3{1, 1, 1}

// Renderer walks renderable trees and draws them against a gpu.Context.
// It owns the built-in shader programs. A Renderer is bound to the
// thread of its context.
type Renderer struct {
	ctx      gpu.Context
	programs map[Attributes]*MeshProgram
	current  *MeshProgram

	ClearColor mgl32.Vec3

	projection mgl32.Mat4
	view       mgl32.Mat4

	geometries *rendercontext.Store[*Geometry]
	released   int

	stats Stats
	frame Stats
}

// NewRenderer compiles the mesh shader variants. It panics if a shader
// fails to compile or link, or lacks a uniform the renderer sets.
func NewRenderer(ctx gpu.Context) *Renderer {
	r := &Renderer{
		ctx:        ctx,
		programs:   make(map[Attributes]*MeshProgram, len(variantAttributes)),
		projection: mgl32.Ident4(),
		view:       mgl32.Ident4(),
	}
	r.geometries = rendercontext.New(func(g *Geometry) {
		g.Destroy(r.ctx)
		r.released++
	})
	for _, a := range variantAttributes {
		r.programs[a] = loadMeshProgram(ctx, a)
	}
	return r
}

func (r *Renderer) Context() gpu.Context { return r.ctx }

// Stats returns the counters of the last completed frame.
func (r *Renderer) Stats() Stats { return r.stats }

func (r *Renderer) Program(a Attributes) *MeshProgram {
	return r.programs[variantFor(a)]
}

func (r *Renderer) SetViewport(width, height int) {
	r.ctx.Viewport(0, 0, int32(width), int32(height))
}

// Render draws one frame: the camera's matrices are refreshed, then every
// visible root is traversed depth-first in order.
func (r *Renderer) Render(roots []Renderable, cam Camera) {
	cam.UpdateMatrix()
	r.projection = cam.ProjectionMatrix()
	r.view = cam.ViewMatrix()

	r.frame = Stats{Frame: r.stats.Frame + 1}
	r.current = nil

	r.ctx.Clear(r.ClearColor)
	for _, root := range roots {
		root.Render(r, nil)
	}

	if r.current != nil {
		r.ctx.UseProgram(0)
		r.current = nil
	}
	r.frame.Released, r.released = r.released, 0
	r.stats = r.frame
}

func (r *Renderer) RenderScene(s *Scene, cam Camera) {
	r.Render(s.Roots(), cam)
}

// Draw renders obj and recurses into its children. parentWorld is the
// parent's world matrix if it changed this frame, nil otherwise.
//
// Renderable implementations call Draw from their Render method; it is
// not meant to be called directly with a non-nil matrix.
func (r *Renderer) Draw(obj Renderable, parentWorld *mgl32.Mat4) {
	n := obj.Transform()
	if !n.visible {
		return
	}
	r.frame.Nodes++

	geo := obj.Geometry()
	if geo != nil {
		if !geo.Uploaded() {
			geo.Upload(r.ctx)
			r.frame.Uploads++
		} else if geo.Update(r.ctx) {
			r.frame.Reuploads++
		}
		r.geometries.Use(geo)
	}

	wasDirty := n.UpdateMatrix()
	changed := n.updateWorldMatrix(parentWorld, wasDirty)
	if changed {
		r.frame.WorldUpdates++
	}

	if geo != nil && geo.DrawCount() > 0 {
		r.drawGeometry(obj, geo, n.worldMatrix)
	}

	var next *mgl32.Mat4
	if changed {
		world := n.worldMatrix
		next = &world
	}
	for _, child := range n.children {
		child.Render(r, next)
	}
}

func (r *Renderer) drawGeometry(obj Renderable, geo *Geometry, world mgl32.Mat4) {
	p := r.Program(geo.Attributes())
	if p != r.current {
		r.ctx.UseProgram(p.Id)
		r.current = p
	}

	color := defaultColor
	if c, ok := obj.(Colored); ok {
		color = c.Color()
	}
	p.setUniforms(r.ctx, r.projection, r.view.Mul4(world), color)

	geo.Bind(r.ctx)
	geo.Draw(r.ctx)
	geo.Unbind(r.ctx)
	r.frame.Draws++
}

// Destroy frees the GPU objects of every geometry in the subtree. The
// nodes stay usable; drawing them again uploads anew.
func (r *Renderer) Destroy(obj Renderable) {
	Traverse(obj, func(o Renderable) bool {
		if geo := o.Geometry(); geo != nil {
			geo.Destroy(r.ctx)
			r.geometries.Forget(geo)
		}
		return true
	})
}

// ReleaseUnused frees geometries that were not drawn since the previous
// call, e.g. because their nodes were hidden or removed from the scene.
func (r *Renderer) ReleaseUnused() int {
	n := r.geometries.Swap()
	if n != 0 {
		log.Printf("[r3d] released %d unused geometries", n)
	}
	return n
}

// Release deletes the shader programs. Geometries must be destroyed
// separately.
func (r *Renderer) Release() {
	for a, p := range r.programs {
		p.Delete(r.ctx)
		delete(r.programs, a)
	}
	r.current = nil
}

package r3d

import (
	"log"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/r3dgo/r3d/gpu"
)

// Attributes is the set of vertex arrays a geometry carries.
type Attributes uint8

const (
	AttrPosition Attributes = 1 << iota
	AttrNormal
	AttrColor
)

func (a Attributes) Has(b Attributes) bool { return a&b == b }

// Fixed shader attribute locations.
const (
	LocationPosition uint32 = 0
	LocationNormal   uint32 = 1
	LocationColor    uint32 = 2
)

const vec3Size = int(unsafe.Sizeof(mgl32.Vec3{}))

// Geometry holds CPU-side vertex arrays and the GPU objects they were
// uploaded to.
//
// The three GPU handles are either all zero (never uploaded) or all set.
// Upload happens lazily on first draw; Destroy must be called explicitly
// before the geometry is dropped, there is no finalizer.
type Geometry struct {
	topology  gpu.Topology
	indices   []uint32
	positions []mgl32.Vec3
	normals   []mgl32.Vec3
	colors    []mgl32.Vec3

	dirty        bool
	indicesDirty bool

	vbo gpu.Buffer
	ebo gpu.Buffer
	vao gpu.VertexArray
	// vertex bytes and attribute set of the last BufferData
	allocated     int
	allocatedWith Attributes
}

// NewGeometry builds a geometry. Nil indices mean a non-indexed draw of
// len(positions) vertices. Normals and colors, when present, parallel
// positions.
func NewGeometry(topology gpu.Topology, indices []uint32, positions, normals, colors []mgl32.Vec3) *Geometry {
	return &Geometry{
		topology:  topology,
		indices:   indices,
		positions: positions,
		normals:   normals,
		colors:    colors,
	}
}

// Clone deep-copies the CPU arrays. The copy is never uploaded, even if
// the source is.
func (g *Geometry) Clone() *Geometry {
	return NewGeometry(g.topology,
		cloneSlice(g.indices), cloneSlice(g.positions), cloneSlice(g.normals), cloneSlice(g.colors))
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

func (g *Geometry) Topology() gpu.Topology { return g.topology }
func (g *Geometry) Indices() []uint32 { return g.indices }
func (g *Geometry) Positions() []mgl32.Vec3 { return g.positions }
func (g *Geometry) Normals() []mgl32.Vec3 { return g.normals }
func (g *Geometry) Colors() []mgl32.Vec3 { return g.colors }
func (g *Geometry) Dirty() bool { return g.dirty || g.indicesDirty }
func (g *Geometry) Uploaded() bool { return g.vao != 0 }
func (g *Geometry) Indexed() bool { return g.indices != nil }

// Handles returns the GPU objects, all zero before the first upload.
func (g *Geometry) Handles() (vbo, ebo gpu.Buffer, vao gpu.VertexArray) {
	return g.vbo, g.ebo, g.vao
}

func (g *Geometry) Attributes() Attributes {
	var a Attributes
	if g.positions != nil {
		a |= AttrPosition
	}
	if g.normals != nil {
		a |= AttrNormal
	}
	if g.colors != nil {
		a |= AttrColor
	}
	return a
}

// DrawCount is the number of indices, or of vertices for non-indexed geometry.
func (g *Geometry) DrawCount() int {
	if g.indices != nil {
		return len(g.indices)
	}
	return len(g.positions)
}

func (g *Geometry) SetPositions(p []mgl32.Vec3) {
	g.positions = p
	g.dirty = true
}

func (g *Geometry) SetNormals(n []mgl32.Vec3) {
	g.normals = n
	g.dirty = true
}

func (g *Geometry) SetColors(c []mgl32.Vec3) {
	g.colors = c
	g.dirty = true
}

func (g *Geometry) SetIndices(i []uint32) {
	g.indices = i
	g.indicesDirty = true
}

func vec3Bytes(v []mgl32.Vec3) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*vec3Size)
}

func u32Bytes(v []uint32) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4)
}

// layout returns the present attribute arrays in buffer order
// (positions, normals, colors) with their byte offsets.
func (g *Geometry) layout() (total int, attrs []attribLayout) {
	for _, a := range []attribLayout{
		{LocationPosition, g.positions, 0},
		{LocationNormal, g.normals, 0},
		{LocationColor, g.colors, 0},
	} {
		if a.data == nil {
			continue
		}
		a.offset = total
		total += len(a.data) * vec3Size
		attrs = append(attrs, a)
	}
	return total, attrs
}

type attribLayout struct {
	location uint32
	data     []mgl32.Vec3
	offset   int
}

// Upload allocates the GPU objects and writes all arrays. It does
// nothing if the geometry is already uploaded.
func (g *Geometry) Upload(ctx gpu.Context) {
	if g.Uploaded() {
		return
	}

	g.vbo = ctx.CreateBuffer()
	g.ebo = ctx.CreateBuffer()
	g.vao = ctx.CreateVertexArray()
	if g.vbo == 0 || g.ebo == 0 || g.vao == 0 {
		panic(errors.Errorf("failed to allocate gpu objects: vbo=%d ebo=%d vao=%d", g.vbo, g.ebo, g.vao))
	}

	ctx.BindVertexArray(g.vao)
	g.uploadVertices(ctx, true)
	g.uploadIndices(ctx)

	ctx.BindVertexArray(0)
	ctx.BindBuffer(gpu.ElementArrayBuffer, 0)
	ctx.BindBuffer(gpu.ArrayBuffer, 0)
}

// Update re-uploads arrays changed since the last upload. Vertex data is
// rewritten in place; if its byte size changed the buffer is reallocated
// and the attribute pointers reconfigured.
func (g *Geometry) Update(ctx gpu.Context) bool {
	if !g.Uploaded() || !g.Dirty() {
		return false
	}

	ctx.BindVertexArray(g.vao)
	if g.dirty {
		total, _ := g.layout()
		realloc := total != g.allocated || g.Attributes() != g.allocatedWith
		if realloc {
			log.Printf("[r3d] geometry vertex layout changed (%v, %d bytes) -> (%v, %d bytes), reallocating",
				g.allocatedWith, g.allocated, g.Attributes(), total)
		}
		g.uploadVertices(ctx, realloc)
	}
	if g.indicesDirty {
		g.uploadIndices(ctx)
	}

	ctx.BindVertexArray(0)
	ctx.BindBuffer(gpu.ElementArrayBuffer, 0)
	ctx.BindBuffer(gpu.ArrayBuffer, 0)
	return true
}

// uploadVertices expects the vertex array to be bound.
func (g *Geometry) uploadVertices(ctx gpu.Context, allocate bool) {
	total, attrs := g.layout()

	ctx.BindBuffer(gpu.ArrayBuffer, g.vbo)
	if allocate {
		ctx.BufferData(gpu.ArrayBuffer, total, gpu.StaticDraw)
		g.allocated = total
		g.allocatedWith = g.Attributes()
	}
	for _, a := range attrs {
		ctx.BufferSubData(gpu.ArrayBuffer, a.offset, vec3Bytes(a.data))
		if allocate {
			ctx.VertexAttribPointer(a.location, 3, int32(vec3Size), a.offset)
		}
	}
	g.dirty = false
}

func (g *Geometry) uploadIndices(ctx gpu.Context) {
	ctx.BindBuffer(gpu.ElementArrayBuffer, g.ebo)
	if g.indices != nil {
		data := u32Bytes(g.indices)
		ctx.BufferData(gpu.ElementArrayBuffer, len(data), gpu.StaticDraw)
		ctx.BufferSubData(gpu.ElementArrayBuffer, 0, data)
	}
	g.indicesDirty = false
}

// Bind makes the geometry's vertex array current and enables its attributes.
func (g *Geometry) Bind(ctx gpu.Context) {
	ctx.BindVertexArray(g.vao)
	attrs := g.Attributes()
	for _, a := range attribLocations {
		if attrs.Has(a.attr) {
			ctx.EnableVertexAttribArray(a.location)
		}
	}
	ctx.BindBuffer(gpu.ArrayBuffer, g.vbo)
	ctx.BindBuffer(gpu.ElementArrayBuffer, g.ebo)
}

func (g *Geometry) Unbind(ctx gpu.Context) {
	ctx.BindBuffer(gpu.ElementArrayBuffer, 0)
	ctx.BindBuffer(gpu.ArrayBuffer, 0)
	attrs := g.Attributes()
	for _, a := range attribLocations {
		if attrs.Has(a.attr) {
			ctx.DisableVertexAttribArray(a.location)
		}
	}
	ctx.BindVertexArray(0)
}

var attribLocations = []struct {
	attr     Attributes
	location uint32
}{
	{AttrPosition, LocationPosition},
	{AttrNormal, LocationNormal},
	{AttrColor, LocationColor},
}

// Draw issues an indexed or array draw. The geometry must be bound.
func (g *Geometry) Draw(ctx gpu.Context) {
	if g.indices != nil {
		ctx.DrawElements(g.topology, int32(len(g.indices)))
	} else if g.positions != nil {
		ctx.DrawArrays(g.topology, 0, int32(len(g.positions)))
	}
}

// Destroy frees the GPU objects. It is a no-op for a geometry that was
// never uploaded or is already destroyed; the CPU arrays stay usable and
// a later draw uploads again.
func (g *Geometry) Destroy(ctx gpu.Context) {
	if !g.Uploaded() {
		return
	}
	ctx.DeleteVertexArray(g.vao)
	ctx.DeleteBuffer(g.ebo)
	ctx.DeleteBuffer(g.vbo)
	g.vao, g.ebo, g.vbo = 0, 0, 0
	g.allocated, g.allocatedWith = 0, 0
}

// Package gpu defines the graphics context the renderer talks to.
//
// Every GPU-touching operation in the engine takes a Context explicitly;
// there is no ambient global GL state. Handle value 0 means "no object",
// as in OpenGL.
package gpu

import (
	"github.com/go-gl/mathgl/mgl32"
)

type (
	Buffer          uint32
	VertexArray     uint32
	Shader          uint32
	Program         uint32
	UniformLocation int32
)

// NoUniform is returned by UniformLocation for unknown names.
const NoUniform UniformLocation = -1

// Topology values match the GL primitive enums.
type Topology uint32

const (
	Lines     Topology = 0x0001
	LineStrip Topology = 0x0003
	Triangles Topology = 0x0004
)

func (t Topology) String() string {
	switch t {
	case Lines:
		return "lines"
	case LineStrip:
		return "line-strip"
	case Triangles:
		return "triangles"
	default:
		return "unknown"
	}
}

type BufferTarget uint32

const (
	ArrayBuffer        BufferTarget = 0x8892
	ElementArrayBuffer BufferTarget = 0x8893
)

type Usage uint32

const (
	StaticDraw  Usage = 0x88E4
	DynamicDraw Usage = 0x88E8
)

type ShaderType uint32

const (
	FragmentShader ShaderType = 0x8B30
	VertexShader   ShaderType = 0x8B31
)

func (t ShaderType) String() string {
	switch t {
	case VertexShader:
		return "vertex"
	case FragmentShader:
		return "fragment"
	default:
		return "unknown"
	}
}

// Context is a current graphics context. Implementations are not safe
// for concurrent use; all calls happen on the thread owning the context.
type Context interface {
	CreateBuffer() Buffer
	DeleteBuffer(Buffer)
	CreateVertexArray() VertexArray
	DeleteVertexArray(VertexArray)

	BindBuffer(BufferTarget, Buffer)
	BindVertexArray(VertexArray)
	// BufferData (re)allocates size bytes for the buffer bound to target.
	BufferData(target BufferTarget, size int, usage Usage)
	BufferSubData(target BufferTarget, offset int, data []byte)

	// VertexAttribPointer describes float components of the bound array buffer.
	VertexAttribPointer(location uint32, components int32, stride int32, offset int)
	EnableVertexAttribArray(location uint32)
	DisableVertexAttribArray(location uint32)

	CompileShader(t ShaderType, source string) (Shader, error)
	DeleteShader(Shader)
	LinkProgram(shaders ...Shader) (Program, error)
	DeleteProgram(Program)
	UseProgram(Program)
	UniformLocation(p Program, name string) UniformLocation

	UniformMatrix4(UniformLocation, mgl32.Mat4)
	UniformMatrix3(UniformLocation, mgl32.Mat3)
	Uniform3(UniformLocation, mgl32.Vec3)

	DrawArrays(mode Topology, first, count int32)
	// DrawElements draws count uint32 indices from the bound element buffer.
	DrawElements(mode Topology, count int32)

	Viewport(x, y, width, height int32)
	Clear(color mgl32.Vec3)
}

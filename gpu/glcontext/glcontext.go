// Package glcontext implements gpu.Context on OpenGL 4.3 core.
package glcontext

import (
	"log"
	"unsafe"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/r3dgo/r3d/gpu"
)

type Context struct{}

var _ gpu.Context = (*Context)(nil)

// New loads the GL function pointers. A context must be current on the
// calling thread.
func New() (*Context, error) {
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize OpenGL")
	}
	log.Printf("[gl] Version: %q", gl.GoStr(gl.GetString(gl.VERSION)))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Disable(gl.CULL_FACE)
	return &Context{}, nil
}

func (c *Context) CreateBuffer() gpu.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	return gpu.Buffer(b)
}

func (c *Context) DeleteBuffer(b gpu.Buffer) {
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

func (c *Context) CreateVertexArray() gpu.VertexArray {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return gpu.VertexArray(vao)
}

func (c *Context) DeleteVertexArray(vao gpu.VertexArray) {
	id := uint32(vao)
	gl.DeleteVertexArrays(1, &id)
}

func (c *Context) BindBuffer(target gpu.BufferTarget, b gpu.Buffer) {
	gl.BindBuffer(uint32(target), uint32(b))
}

func (c *Context) BindVertexArray(vao gpu.VertexArray) {
	gl.BindVertexArray(uint32(vao))
}

func (c *Context) BufferData(target gpu.BufferTarget, size int, usage gpu.Usage) {
	gl.BufferData(uint32(target), size, nil, uint32(usage))
}

func (c *Context) BufferSubData(target gpu.BufferTarget, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.BufferSubData(uint32(target), offset, len(data), gl.Ptr(data))
}

func (c *Context) VertexAttribPointer(location uint32, components int32, stride int32, offset int) {
	gl.VertexAttribPointer(location, components, gl.FLOAT, false, stride, gl.PtrOffset(offset))
}

func (c *Context) EnableVertexAttribArray(location uint32) {
	gl.EnableVertexAttribArray(location)
}

func (c *Context) DisableVertexAttribArray(location uint32) {
	gl.DisableVertexAttribArray(location)
}

func (c *Context) CompileShader(t gpu.ShaderType, text string) (gpu.Shader, error) {
	shader := gl.CreateShader(uint32(t))

	csource, free := gl.Strs(text + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var success int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &success)
	if success == gl.FALSE {
		var logSize int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logSize)
		buf := make([]uint8, logSize+1)
		gl.GetShaderInfoLog(shader, int32(len(buf)), &logSize, &buf[0])
		errString := string(buf[:logSize])
		log.Printf("Failed to compile %v shader:\n%s", t, errString)

		gl.DeleteShader(shader)
		return 0, errors.Errorf("failed to compile %v shader: %q", t, errString)
	}
	return gpu.Shader(shader), nil
}

func (c *Context) DeleteShader(s gpu.Shader) {
	gl.DeleteShader(uint32(s))
}

func (c *Context) LinkProgram(shaders ...gpu.Shader) (gpu.Program, error) {
	p := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(p, uint32(s))
	}
	gl.LinkProgram(p)

	var isLinked int32
	gl.GetProgramiv(p, gl.LINK_STATUS, &isLinked)
	if isLinked == gl.FALSE {
		var logSize int32
		gl.GetProgramiv(p, gl.INFO_LOG_LENGTH, &logSize)
		buf := make([]uint8, logSize+1)
		gl.GetProgramInfoLog(p, int32(len(buf)), &logSize, &buf[0])
		errString := string(buf[:logSize])
		log.Printf("Failed to link program:\n%s", errString)

		for _, s := range shaders {
			gl.DetachShader(p, uint32(s))
		}
		gl.DeleteProgram(p)
		return 0, errors.Errorf("failed to link program: %q", errString)
	}

	for _, s := range shaders {
		gl.DetachShader(p, uint32(s))
	}
	return gpu.Program(p), nil
}

func (c *Context) DeleteProgram(p gpu.Program) {
	gl.DeleteProgram(uint32(p))
}

func (c *Context) UseProgram(p gpu.Program) {
	gl.UseProgram(uint32(p))
}

func (c *Context) UniformLocation(p gpu.Program, name string) gpu.UniformLocation {
	return gpu.UniformLocation(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

func (c *Context) UniformMatrix4(loc gpu.UniformLocation, m mgl32.Mat4) {
	gl.UniformMatrix4fv(int32(loc), 1, false, &m[0])
}

func (c *Context) UniformMatrix3(loc gpu.UniformLocation, m mgl32.Mat3) {
	gl.UniformMatrix3fv(int32(loc), 1, false, &m[0])
}

func (c *Context) Uniform3(loc gpu.UniformLocation, v mgl32.Vec3) {
	gl.Uniform3f(int32(loc), v[0], v[1], v[2])
}

func (c *Context) DrawArrays(mode gpu.Topology, first, count int32) {
	gl.DrawArrays(uint32(mode), first, count)
}

func (c *Context) DrawElements(mode gpu.Topology, count int32) {
	gl.DrawElements(uint32(mode), count, gl.UNSIGNED_INT, unsafe.Pointer(nil))
}

func (c *Context) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (c *Context) Clear(color mgl32.Vec3) {
	gl.ClearColor(color[0], color[1], color[2], 1.0)
	gl.ClearDepth(1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Package gputest provides a gpu.Context that records calls instead of
// talking to a driver, for tests of GPU-facing code.
package gputest

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/r3dgo/r3d/gpu"
)

// Draw is one recorded draw call with the uniform state at the time of the call.
type Draw struct {
	Program     gpu.Program
	VertexArray gpu.VertexArray
	Mode        gpu.Topology
	Indexed     bool
	First       int32
	Count       int32
	// Uniforms is keyed by uniform name.
	Uniforms map[string]interface{}
	// Attribs lists the vertex attribute locations enabled at draw time.
	Attribs []uint32
}

func (d Draw) Mat4(name string) mgl32.Mat4 {
	m, _ := d.Uniforms[name].(mgl32.Mat4)
	return m
}

func (d Draw) Mat3(name string) mgl32.Mat3 {
	m, _ := d.Uniforms[name].(mgl32.Mat3)
	return m
}

func (d Draw) Vec3(name string) mgl32.Vec3 {
	v, _ := d.Uniforms[name].(mgl32.Vec3)
	return v
}

// AttribPointer is a recorded VertexAttribPointer call.
type AttribPointer struct {
	Location   uint32
	Components int32
	Stride     int32
	Offset     int
}

type program struct {
	shaders  []gpu.Shader
	uniforms map[string]gpu.UniformLocation
	names    map[gpu.UniformLocation]string
	values   map[string]interface{}
}

// Recorder implements gpu.Context in memory. Buffers keep their contents
// so tests can inspect uploaded bytes.
type Recorder struct {
	// FailCompile makes CompileShader fail for sources containing the marker.
	FailCompile string
	// MissingUniforms are reported as gpu.NoUniform.
	MissingUniforms []string

	Draws []Draw
	// Calls counts calls by method name.
	Calls map[string]int

	Buffers      map[gpu.Buffer][]byte
	VertexArrays map[gpu.VertexArray][]AttribPointer
	Shaders      map[gpu.Shader]gpu.ShaderType
	Programs     map[gpu.Program]*program

	nextHandle uint32
	nextLoc    gpu.UniformLocation

	boundArray   gpu.Buffer
	boundElement gpu.Buffer
	boundVAO     gpu.VertexArray
	current      gpu.Program
	enabled      map[uint32]bool
}

var _ gpu.Context = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{
		Calls:        make(map[string]int),
		Buffers:      make(map[gpu.Buffer][]byte),
		VertexArrays: make(map[gpu.VertexArray][]AttribPointer),
		Shaders:      make(map[gpu.Shader]gpu.ShaderType),
		Programs:     make(map[gpu.Program]*program),
		enabled:      make(map[uint32]bool),
	}
}

func (r *Recorder) handle(call string) uint32 {
	r.Calls[call]++
	r.nextHandle++
	return r.nextHandle
}

// Reset drops recorded draws and call counts, keeping live objects.
func (r *Recorder) Reset() {
	r.Draws = nil
	r.Calls = make(map[string]int)
}

func (r *Recorder) CreateBuffer() gpu.Buffer {
	b := gpu.Buffer(r.handle("CreateBuffer"))
	r.Buffers[b] = nil
	return b
}

func (r *Recorder) DeleteBuffer(b gpu.Buffer) {
	r.Calls["DeleteBuffer"]++
	delete(r.Buffers, b)
}

func (r *Recorder) CreateVertexArray() gpu.VertexArray {
	vao := gpu.VertexArray(r.handle("CreateVertexArray"))
	r.VertexArrays[vao] = nil
	return vao
}

func (r *Recorder) DeleteVertexArray(vao gpu.VertexArray) {
	r.Calls["DeleteVertexArray"]++
	delete(r.VertexArrays, vao)
}

func (r *Recorder) BindBuffer(target gpu.BufferTarget, b gpu.Buffer) {
	r.Calls["BindBuffer"]++
	switch target {
	case gpu.ArrayBuffer:
		r.boundArray = b
	case gpu.ElementArrayBuffer:
		r.boundElement = b
	}
}

func (r *Recorder) BindVertexArray(vao gpu.VertexArray) {
	r.Calls["BindVertexArray"]++
	r.boundVAO = vao
}

func (r *Recorder) bound(target gpu.BufferTarget) gpu.Buffer {
	if target == gpu.ElementArrayBuffer {
		return r.boundElement
	}
	return r.boundArray
}

func (r *Recorder) BufferData(target gpu.BufferTarget, size int, usage gpu.Usage) {
	r.Calls["BufferData"]++
	if b := r.bound(target); b != 0 {
		r.Buffers[b] = make([]byte, size)
	}
}

func (r *Recorder) BufferSubData(target gpu.BufferTarget, offset int, data []byte) {
	r.Calls["BufferSubData"]++
	b := r.bound(target)
	if b == 0 {
		return
	}
	buf := r.Buffers[b]
	if offset+len(data) > len(buf) {
		panic(errors.Errorf("buffer %d overflow: write %d bytes at %d into %d", b, len(data), offset, len(buf)))
	}
	copy(buf[offset:], data)
}

func (r *Recorder) VertexAttribPointer(location uint32, components int32, stride int32, offset int) {
	r.Calls["VertexAttribPointer"]++
	if r.boundVAO == 0 {
		return
	}
	ptrs := r.VertexArrays[r.boundVAO]
	for i := range ptrs {
		if ptrs[i].Location == location {
			ptrs[i] = AttribPointer{location, components, stride, offset}
			return
		}
	}
	r.VertexArrays[r.boundVAO] = append(ptrs, AttribPointer{location, components, stride, offset})
}

func (r *Recorder) EnableVertexAttribArray(location uint32) {
	r.Calls["EnableVertexAttribArray"]++
	r.enabled[location] = true
}

func (r *Recorder) DisableVertexAttribArray(location uint32) {
	r.Calls["DisableVertexAttribArray"]++
	delete(r.enabled, location)
}

func (r *Recorder) CompileShader(t gpu.ShaderType, source string) (gpu.Shader, error) {
	if r.FailCompile != "" && strings.Contains(source, r.FailCompile) {
		r.Calls["CompileShader"]++
		return 0, errors.Errorf("failed to compile %v shader: %q", t, "syntax error")
	}
	s := gpu.Shader(r.handle("CompileShader"))
	r.Shaders[s] = t
	return s, nil
}

func (r *Recorder) DeleteShader(s gpu.Shader) {
	r.Calls["DeleteShader"]++
	delete(r.Shaders, s)
}

func (r *Recorder) LinkProgram(shaders ...gpu.Shader) (gpu.Program, error) {
	for _, s := range shaders {
		if _, ok := r.Shaders[s]; !ok {
			r.Calls["LinkProgram"]++
			return 0, errors.Errorf("failed to link program: unknown shader %d", s)
		}
	}
	p := gpu.Program(r.handle("LinkProgram"))
	r.Programs[p] = &program{
		shaders:  append([]gpu.Shader(nil), shaders...),
		uniforms: make(map[string]gpu.UniformLocation),
		names:    make(map[gpu.UniformLocation]string),
		values:   make(map[string]interface{}),
	}
	return p, nil
}

func (r *Recorder) DeleteProgram(p gpu.Program) {
	r.Calls["DeleteProgram"]++
	delete(r.Programs, p)
}

func (r *Recorder) UseProgram(p gpu.Program) {
	r.Calls["UseProgram"]++
	r.current = p
}

func (r *Recorder) UniformLocation(p gpu.Program, name string) gpu.UniformLocation {
	r.Calls["UniformLocation"]++
	for _, missing := range r.MissingUniforms {
		if missing == name {
			return gpu.NoUniform
		}
	}
	prog, ok := r.Programs[p]
	if !ok {
		return gpu.NoUniform
	}
	if loc, ok := prog.uniforms[name]; ok {
		return loc
	}
	loc := r.nextLoc
	r.nextLoc++
	prog.uniforms[name] = loc
	prog.names[loc] = name
	return loc
}

func (r *Recorder) setUniform(call string, loc gpu.UniformLocation, v interface{}) {
	r.Calls[call]++
	prog, ok := r.Programs[r.current]
	if !ok || loc == gpu.NoUniform {
		return
	}
	if name, ok := prog.names[loc]; ok {
		prog.values[name] = v
	}
}

func (r *Recorder) UniformMatrix4(loc gpu.UniformLocation, m mgl32.Mat4) {
	r.setUniform("UniformMatrix4", loc, m)
}

func (r *Recorder) UniformMatrix3(loc gpu.UniformLocation, m mgl32.Mat3) {
	r.setUniform("UniformMatrix3", loc, m)
}

func (r *Recorder) Uniform3(loc gpu.UniformLocation, v mgl32.Vec3) {
	r.setUniform("Uniform3", loc, v)
}

func (r *Recorder) record(mode gpu.Topology, indexed bool, first, count int32) {
	d := Draw{
		Program:     r.current,
		VertexArray: r.boundVAO,
		Mode:        mode,
		Indexed:     indexed,
		First:       first,
		Count:       count,
		Uniforms:    make(map[string]interface{}),
	}
	if prog, ok := r.Programs[r.current]; ok {
		for k, v := range prog.values {
			d.Uniforms[k] = v
		}
	}
	for loc := uint32(0); loc < 16; loc++ {
		if r.enabled[loc] {
			d.Attribs = append(d.Attribs, loc)
		}
	}
	r.Draws = append(r.Draws, d)
}

func (r *Recorder) DrawArrays(mode gpu.Topology, first, count int32) {
	r.Calls["DrawArrays"]++
	r.record(mode, false, first, count)
}

func (r *Recorder) DrawElements(mode gpu.Topology, count int32) {
	r.Calls["DrawElements"]++
	r.record(mode, true, 0, count)
}

func (r *Recorder) Viewport(x, y, width, height int32) {
	r.Calls["Viewport"]++
}

func (r *Recorder) Clear(color mgl32.Vec3) {
	r.Calls["Clear"]++
}

// LiveObjects counts buffers and vertex arrays not yet deleted.
func (r *Recorder) LiveObjects() int {
	return len(r.Buffers) + len(r.VertexArrays)
}

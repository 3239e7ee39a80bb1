package r3d

import (
	_ "embed"
	"fmt"
	"log"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/r3dgo/r3d/gpu"
	"github.com/r3dgo/r3d/math3d"
)

//go:embed shaders/mesh.vert
var meshVertexShader string

//go:embed shaders/mesh.frag
var meshFragmentShader string

const glslVersion = "#version 330 core\n"

type Program struct {
	Id                           gpu.Program
	VertexShader, FragmentShader gpu.Shader
}

func (p *Program) Delete(ctx gpu.Context) {
	ctx.DeleteProgram(p.Id)
	ctx.DeleteShader(p.VertexShader)
	ctx.DeleteShader(p.FragmentShader)
}

// Uniform looks up a uniform by name and panics if the program does not
// have it. Missing uniforms are shader bugs, not runtime conditions.
func (p *Program) Uniform(ctx gpu.Context, name string) gpu.UniformLocation {
	loc := ctx.UniformLocation(p.Id, name)
	if loc == gpu.NoUniform {
		panic(errors.Errorf("program %d: uniform %q not found", p.Id, name))
	}
	return loc
}

func LoadProgram(ctx gpu.Context, vertexShaderText, fragmentShaderText string) (*Program, error) {
	p := &Program{}

	if vs, err := ctx.CompileShader(gpu.VertexShader, vertexShaderText); err != nil {
		return nil, errors.Wrap(err, "vertex shader")
	} else {
		p.VertexShader = vs
	}

	if fs, err := ctx.CompileShader(gpu.FragmentShader, fragmentShaderText); err != nil {
		ctx.DeleteShader(p.VertexShader)
		return nil, errors.Wrap(err, "fragment shader")
	} else {
		p.FragmentShader = fs
	}

	id, err := ctx.LinkProgram(p.VertexShader, p.FragmentShader)
	if err != nil {
		ctx.DeleteShader(p.VertexShader)
		ctx.DeleteShader(p.FragmentShader)
		return nil, err
	}
	p.Id = id
	return p, nil
}

func MustLoadProgram(ctx gpu.Context, vertexShaderText, fragmentShaderText string) *Program {
	program, err := LoadProgram(ctx, vertexShaderText, fragmentShaderText)
	if err != nil {
		panic(err)
	}
	return program
}

// MeshProgram is one variant of the built-in mesh shader, specialised for
// a vertex attribute set.
type MeshProgram struct {
	*Program

	Attributes Attributes

	UProjection   gpu.UniformLocation
	UModelView    gpu.UniformLocation
	UNormalMatrix gpu.UniformLocation
	UColor        gpu.UniformLocation
}

// variantAttributes lists the shader variants built by NewRenderer.
var variantAttributes = []Attributes{
	AttrPosition,
	AttrPosition | AttrNormal,
	AttrPosition | AttrColor,
	AttrPosition | AttrNormal | AttrColor,
}

// variantFor picks the variant for a geometry. Position is always
// present; normals and colors select the richer variants.
func variantFor(a Attributes) Attributes {
	return AttrPosition | a&(AttrNormal|AttrColor)
}

func shaderSource(body string, a Attributes) string {
	var sb strings.Builder
	sb.WriteString(glslVersion)
	if a.Has(AttrNormal) {
		sb.WriteString("#define HAS_NORMAL\n")
	}
	if a.Has(AttrColor) {
		sb.WriteString("#define HAS_COLOR\n")
	}
	sb.WriteString(body)
	return sb.String()
}

func loadMeshProgram(ctx gpu.Context, a Attributes) *MeshProgram {
	p, err := LoadProgram(ctx, shaderSource(meshVertexShader, a), shaderSource(meshFragmentShader, a))
	if err != nil {
		panic(errors.Wrapf(err, "mesh program %v", a))
	}

	mp := &MeshProgram{
		Program:       p,
		Attributes:    a,
		UNormalMatrix: gpu.NoUniform,
		UColor:        gpu.NoUniform,
	}
	mp.UProjection = p.Uniform(ctx, "projection")
	mp.UModelView = p.Uniform(ctx, "modelView")
	if a.Has(AttrNormal) {
		mp.UNormalMatrix = p.Uniform(ctx, "normalMatrix")
	}
	if !a.Has(AttrColor) {
		mp.UColor = p.Uniform(ctx, "color")
	}
	log.Printf("[r3d] loaded mesh program %v (id %d)", a, p.Id)
	return mp
}

func (mp *MeshProgram) setUniforms(ctx gpu.Context, projection, modelView mgl32.Mat4, color mgl32.Vec3) {
	ctx.UniformMatrix4(mp.UProjection, projection)
	ctx.UniformMatrix4(mp.UModelView, modelView)
	if mp.UNormalMatrix != gpu.NoUniform {
		ctx.UniformMatrix3(mp.UNormalMatrix, math3d.NormalMatrix(modelView))
	}
	if mp.UColor != gpu.NoUniform {
		ctx.Uniform3(mp.UColor, color)
	}
}

func (a Attributes) String() string {
	var parts []string
	if a.Has(AttrPosition) {
		parts = append(parts, "position")
	}
	if a.Has(AttrNormal) {
		parts = append(parts, "normal")
	}
	if a.Has(AttrColor) {
		parts = append(parts, "color")
	}
	if len(parts) == 0 {
		return fmt.Sprintf("attributes(%d)", uint8(a))
	}
	return strings.Join(parts, "+")
}

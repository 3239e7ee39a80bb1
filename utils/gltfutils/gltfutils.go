// Package gltfutils builds r3d scene graphs from glTF 2.0 documents.
package gltfutils

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/r3dgo/r3d/gpu"
	"github.com/r3dgo/r3d/r3d"
	"github.com/r3dgo/r3d/utils"
)

var identity = [16]float32(mgl32.Ident4())

// Load opens a .gltf or .glb file and builds its default scene.
func Load(path string) ([]r3d.Renderable, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open %q", path)
	}
	roots, err := Build(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to build %q", path)
	}
	log.Printf("[gltf] loaded %q: %d nodes, %d meshes, %d roots", path, len(doc.Nodes), len(doc.Meshes), len(roots))
	return roots, nil
}

type builder struct {
	doc     *gltf.Document
	visited map[uint32]bool
}

// Build converts the document's default scene into renderables. A
// document without scenes yields every node that is nobody's child.
func Build(doc *gltf.Document) ([]r3d.Renderable, error) {
	b := &builder{doc: doc, visited: make(map[uint32]bool)}

	var roots []r3d.Renderable
	for _, idx := range sceneRoots(doc) {
		r, err := b.node(idx)
		if err != nil {
			return nil, err
		}
		roots = append(roots, r)
	}
	return roots, nil
}

func sceneRoots(doc *gltf.Document) []uint32 {
	if len(doc.Scenes) != 0 {
		scene := uint32(0)
		if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
			scene = *doc.Scene
		}
		return doc.Scenes[scene].Nodes
	}

	child := make(map[uint32]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			child[c] = true
		}
	}
	var roots []uint32
	for i := range doc.Nodes {
		if !child[uint32(i)] {
			roots = append(roots, uint32(i))
		}
	}
	return roots
}

func (b *builder) node(idx uint32) (r3d.Renderable, error) {
	if int(idx) >= len(b.doc.Nodes) {
		return nil, errors.Errorf("Node index %d out of range", idx)
	}
	if b.visited[idx] {
		return nil, errors.Errorf("Node %d is referenced more than once", idx)
	}
	b.visited[idx] = true
	gn := b.doc.Nodes[idx]

	var result r3d.Renderable
	if gn.Mesh != nil {
		meshes, err := b.mesh(*gn.Mesh)
		if err != nil {
			return nil, errors.Wrapf(err, "Node %q", gn.Name)
		}
		if len(meshes) == 1 {
			result = meshes[0]
		} else {
			group := r3d.NewNode()
			for _, m := range meshes {
				if err := group.Add(m); err != nil {
					return nil, err
				}
			}
			result = group
		}
	} else {
		result = r3d.NewNode()
	}

	n := result.Transform()
	n.Name = gn.Name
	applyTransform(n, gn)

	for _, c := range gn.Children {
		child, err := b.node(c)
		if err != nil {
			return nil, err
		}
		if err := n.Add(child); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// applyTransform sets the node's local transform. A non-identity matrix
// wins over TRS, as glTF forbids using both. Zero-valued TRS arrays are
// treated as unset.
func applyTransform(n *r3d.Node, gn *gltf.Node) {
	if gn.Matrix != identity && gn.Matrix != [16]float32{} {
		n.ApplyMatrix(mgl32.Mat4(gn.Matrix))
		return
	}
	n.SetPosition(mgl32.Vec3(gn.Translation))
	if r := gn.Rotation; r != [4]float32{} {
		n.SetRotation(mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}.Normalize())
	}
	if s := gn.Scale; s != [3]float32{} {
		n.SetScale(mgl32.Vec3(s))
	}
}

func (b *builder) mesh(idx uint32) ([]*r3d.Mesh, error) {
	if int(idx) >= len(b.doc.Meshes) {
		return nil, errors.Errorf("Mesh index %d out of range", idx)
	}
	gm := b.doc.Meshes[idx]

	var meshes []*r3d.Mesh
	for i, p := range gm.Primitives {
		geo, err := b.primitive(p)
		if err != nil {
			return nil, errors.Wrapf(err, "Mesh %q primitive %d", gm.Name, i)
		}
		if geo == nil {
			continue
		}
		m := r3d.NewMeshShared(geo)
		m.Name = gm.Name
		if c, ok := b.baseColor(p); ok {
			m.SetColor(c.Vec3())
		}
		meshes = append(meshes, m)
	}
	if len(meshes) == 0 {
		return nil, errors.Errorf("Mesh %q has no drawable primitives", gm.Name)
	}
	return meshes, nil
}

func topology(mode gltf.PrimitiveMode) (gpu.Topology, bool) {
	switch mode {
	case gltf.PrimitiveTriangles:
		return gpu.Triangles, true
	case gltf.PrimitiveLines:
		return gpu.Lines, true
	case gltf.PrimitiveLineStrip:
		return gpu.LineStrip, true
	default:
		return 0, false
	}
}

// primitive returns nil for primitive modes the renderer cannot draw.
func (b *builder) primitive(p *gltf.Primitive) (*r3d.Geometry, error) {
	mode, ok := topology(p.Mode)
	if !ok {
		log.Printf("[gltf] skipping primitive with unsupported mode %v", p.Mode)
		return nil, nil
	}

	posIdx, ok := p.Attributes[gltf.POSITION]
	if !ok {
		return nil, errors.New("No POSITION attribute")
	}
	acr, err := b.accessor(posIdx)
	if err != nil {
		return nil, err
	}
	pos, err := modeler.ReadPosition(b.doc, acr, nil)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to read positions")
	}
	positions := vec3s(pos)

	var normals []mgl32.Vec3
	if idx, ok := p.Attributes[gltf.NORMAL]; ok {
		acr, err := b.accessor(idx)
		if err != nil {
			return nil, err
		}
		nrm, err := modeler.ReadNormal(b.doc, acr, nil)
		if err != nil {
			return nil, errors.Wrap(err, "Failed to read normals")
		}
		if len(nrm) == len(pos) {
			normals = vec3s(nrm)
		} else {
			log.Printf("[gltf] ignoring %d normals for %d vertices", len(nrm), len(pos))
		}
	}

	var colors []mgl32.Vec3
	if idx, ok := p.Attributes[gltf.COLOR_0]; ok {
		acr, err := b.accessor(idx)
		if err != nil {
			return nil, err
		}
		col, err := modeler.ReadColor(b.doc, acr, nil)
		if err != nil {
			return nil, errors.Wrap(err, "Failed to read colors")
		}
		if len(col) == len(pos) {
			colors = make([]mgl32.Vec3, len(col))
			for i, c := range col {
				colors[i] = mgl32.Vec3{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255}
			}
		} else {
			log.Printf("[gltf] ignoring %d colors for %d vertices", len(col), len(pos))
		}
	}

	var indices []uint32
	if p.Indices != nil {
		acr, err := b.accessor(*p.Indices)
		if err != nil {
			return nil, err
		}
		indices, err = modeler.ReadIndices(b.doc, acr, nil)
		if err != nil {
			return nil, errors.Wrap(err, "Failed to read indices")
		}
		for _, i := range indices {
			if int(i) >= len(positions) {
				return nil, errors.Errorf("Index %d out of range of %d vertices", i, len(positions))
			}
		}
	}

	return r3d.NewGeometry(mode, indices, positions, normals, colors), nil
}

func (b *builder) accessor(idx uint32) (*gltf.Accessor, error) {
	if int(idx) >= len(b.doc.Accessors) {
		return nil, errors.Errorf("Accessor index %d out of range", idx)
	}
	return b.doc.Accessors[idx], nil
}

func (b *builder) baseColor(p *gltf.Primitive) (utils.ColorFloat, bool) {
	if p.Material == nil || int(*p.Material) >= len(b.doc.Materials) {
		return utils.ColorFloat{}, false
	}
	pbr := b.doc.Materials[*p.Material].PBRMetallicRoughness
	if pbr == nil || pbr.BaseColorFactor == nil {
		return utils.ColorFloat{}, false
	}
	return utils.NewColorFloatA(pbr.BaseColorFactor[:]), true
}

func vec3s(in [][3]float32) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(in))
	for i, v := range in {
		out[i] = mgl32.Vec3(v)
	}
	return out
}

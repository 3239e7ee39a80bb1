package r3d

import (
	"github.com/pkg/errors"
)

// Scene is an ordered list of root renderables.
type Scene struct {
	roots []Renderable
}

func NewScene() *Scene {
	return &Scene{}
}

func (s *Scene) Roots() []Renderable { return s.roots }

// Add appends a root. Nodes attached to a parent or already a root of a
// scene are rejected. While it is a root the node cannot be added to
// another node.
func (s *Scene) Add(root Renderable) error {
	n := root.Transform()
	if n.parent != nil {
		return errors.Wrapf(ErrHasParent, "add %q to scene", n.Name)
	}
	if n.scene != nil {
		return errors.Wrapf(ErrSceneRoot, "add %q to scene", n.Name)
	}
	n.scene = s
	s.roots = append(s.roots, root)
	return nil
}

func (s *Scene) Remove(root Renderable) bool {
	n := root.Transform()
	if n.scene != s {
		return false
	}
	for i, r := range s.roots {
		if r.Transform() == n {
			s.roots = append(s.roots[:i], s.roots[i+1:]...)
			n.scene = nil
			return true
		}
	}
	return false
}

// Find returns the first renderable named name in traversal order.
func (s *Scene) Find(name string) Renderable {
	var found Renderable
	for _, root := range s.roots {
		Traverse(root, func(r Renderable) bool {
			if found == nil && r.Transform().Name == name {
				found = r
			}
			return found == nil
		})
		if found != nil {
			break
		}
	}
	return found
}

// Destroy releases the GPU objects of all roots and empties the scene.
func (s *Scene) Destroy(r *Renderer) {
	for _, root := range s.roots {
		r.Destroy(root)
		root.Transform().scene = nil
	}
	s.roots = nil
}

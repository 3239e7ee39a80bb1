package web

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/r3dgo/r3d/r3d"
	"github.com/r3dgo/r3d/utils"
)

type GeometryInfo struct {
	Topology   string `json:"topology"`
	Attributes string `json:"attributes"`
	Vertices   int    `json:"vertices"`
	Indices    int    `json:"indices"`
	Uploaded   bool   `json:"uploaded"`
}

// NodeInfo is a detached copy of a node's state, safe to hand to other
// goroutines.
type NodeInfo struct {
	ID            uuid.UUID     `json:"id"`
	Name          string        `json:"name"`
	Visible       bool          `json:"visible"`
	Position      mgl32.Vec3    `json:"position"`
	Rotation      mgl32.Vec3    `json:"rotation"` // degrees
	Scale         mgl32.Vec3    `json:"scale"`
	WorldPosition mgl32.Vec3    `json:"world_position"`
	Geometry      *GeometryInfo `json:"geometry,omitempty"`
	Children      []NodeInfo    `json:"children,omitempty"`
}

// Describe snapshots the trees under roots. It must run on the render
// thread.
func Describe(roots []r3d.Renderable) []NodeInfo {
	infos := make([]NodeInfo, 0, len(roots))
	for _, r := range roots {
		infos = append(infos, describe(r))
	}
	return infos
}

func describe(r r3d.Renderable) NodeInfo {
	n := r.Transform()
	info := NodeInfo{
		ID:            n.ID,
		Name:          n.Name,
		Visible:       n.Visible(),
		Position:      n.Position(),
		Rotation:      utils.RadiansToDegreeV3(n.Rotation().Angles),
		Scale:         n.Scale(),
		WorldPosition: n.WorldPosition(),
	}
	if g := r.Geometry(); g != nil {
		info.Geometry = &GeometryInfo{
			Topology:   g.Topology().String(),
			Attributes: g.Attributes().String(),
			Vertices:   len(g.Positions()),
			Indices:    len(g.Indices()),
			Uploaded:   g.Uploaded(),
		}
	}
	for _, c := range n.Children() {
		info.Children = append(info.Children, describe(c))
	}
	return info
}

func findNode(infos []NodeInfo, id uuid.UUID) *NodeInfo {
	for i := range infos {
		if infos[i].ID == id {
			return &infos[i]
		}
		if found := findNode(infos[i].Children, id); found != nil {
			return found
		}
	}
	return nil
}

// State is what the render loop publishes for the debug server.
type State struct {
	mu    sync.RWMutex
	stats r3d.Stats
	scene []NodeInfo
}

func NewState() *State {
	return &State{}
}

// Publish replaces the snapshot. Neither argument may be modified
// afterwards.
func (s *State) Publish(stats r3d.Stats, scene []NodeInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = stats
	s.scene = scene
}

func (s *State) Stats() r3d.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

func (s *State) Scene() []NodeInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scene
}

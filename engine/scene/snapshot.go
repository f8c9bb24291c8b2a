package scene

import (
	"slices"

	"github.com/samber/lo"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/game_object"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/renderer/material"
)

// Snapshot is a point-in-time copy of the scene state, safe to serialize.
type Snapshot struct {
	Name        string          `json:"name"`
	Background  common.Color    `json:"background"`
	Fog         Fog             `json:"fog"`
	Bloom       Bloom           `json:"bloom"`
	Environment Environment     `json:"environment"`
	Camera      CameraSnapshot  `json:"camera"`
	Nodes       []NodeSnapshot  `json:"nodes"`
	Lights      []LightSnapshot `json:"lights"`
}

// CameraSnapshot is the camera pose and projection. The matrices are
// column-major, as uploaded to a uniform buffer.
type CameraSnapshot struct {
	Position       [3]float32  `json:"position"`
	Target         [3]float32  `json:"target"`
	Fov            float32     `json:"fov"`
	Aspect         float32     `json:"aspect"`
	Near           float32     `json:"near"`
	Far            float32     `json:"far"`
	View           [16]float32 `json:"view"`
	Projection     [16]float32 `json:"projection"`
	ViewProjection [16]float32 `json:"view_projection"`
}

// NodeSnapshot is one scene node.
type NodeSnapshot struct {
	ID       uint64           `json:"id"`
	Name     string           `json:"name,omitempty"`
	Kind     game_object.Kind `json:"kind"`
	Enabled  bool             `json:"enabled"`
	Position [3]float32       `json:"position"`
	Rotation [3]float32       `json:"rotation"`
	Scale    [3]float32       `json:"scale"`
	Opacity  float32          `json:"opacity"`
	Vertices int              `json:"vertices"`

	// Material is nil for nodes without a material.
	Material *material.RenderState `json:"material,omitempty"`
}

// LightSnapshot is one light.
type LightSnapshot struct {
	Type      string       `json:"type"`
	Position  [3]float32   `json:"position"`
	Color     common.Color `json:"color"`
	Intensity float32      `json:"intensity"`
	Shadows   bool         `json:"shadows"`
}

func (s *scene) Snapshot() Snapshot {
	s.mu.RLock()
	objs := sortByID(lo.Values(s.registry))
	lights := slices.Clone(s.lights)
	snap := Snapshot{
		Name:        s.name,
		Background:  s.background,
		Fog:         s.fog,
		Bloom:       s.bloom,
		Environment: s.environment,
	}
	cam := s.cam
	s.mu.RUnlock()

	if cam != nil {
		snap.Camera = CameraSnapshot{
			Fov:            cam.Fov(),
			Aspect:         cam.Aspect(),
			Near:           cam.Near(),
			Far:            cam.Far(),
			View:           cam.ViewMatrix(),
			Projection:     cam.ProjectionMatrix(),
			ViewProjection: cam.ViewProjectionMatrix(),
		}
		if ctrl := cam.Controller(); ctrl != nil {
			snap.Camera.Position = ctrl.Position()
			snap.Camera.Target = ctrl.Target()
		}
	}

	snap.Nodes = make([]NodeSnapshot, 0, len(objs))
	for _, o := range objs {
		n := NodeSnapshot{
			ID:       o.ID(),
			Name:     o.Name(),
			Kind:     o.Kind(),
			Enabled:  o.Enabled(),
			Position: o.Position(),
			Rotation: o.Rotation(),
			Scale:    o.Scale(),
			Opacity:  1,
		}
		if m := o.Model(); m != nil {
			n.Vertices = m.VertexCount()
			if mat := m.Material(); mat != nil {
				n.Opacity = mat.Opacity()
				rs := mat.RenderState()
				n.Material = &rs
			}
		}
		snap.Nodes = append(snap.Nodes, n)
	}

	snap.Lights = make([]LightSnapshot, 0, len(lights))
	for _, l := range lights {
		snap.Lights = append(snap.Lights, LightSnapshot{
			Type:      l.Type().String(),
			Position:  l.Position(),
			Color:     l.Color(),
			Intensity: l.Intensity(),
			Shadows:   l.CastsShadows(),
		})
	}
	return snap
}

package model

import (
	"math"
	"sync"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/geometry"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/renderer/material"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/resource"
)

// model is the implementation of the Model interface.
type model struct {
	mu sync.RWMutex

	name           string
	meshes         []*geometry.Mesh
	materials      []material.Material
	handles        []resource.Handle
	tracker        resource.Tracker
	boundingRadius float32
	renderOrder    int
	disposed       bool
}

// Model defines the interface for a renderable container.
// A Model owns one or more meshes, each paired with the material at the same
// index (the last material is reused when there are fewer materials than meshes).
// Every mesh is accounted as one geometry resource; disposing the model releases
// the geometries and every owned material exactly once.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Mesh retrieves the first mesh, or nil if the model is empty.
	//
	// Returns:
	//   - *geometry.Mesh: the primary mesh
	Mesh() *geometry.Mesh

	// Meshes retrieves every mesh in submission order.
	//
	// Returns:
	//   - []*geometry.Mesh: the meshes
	Meshes() []*geometry.Mesh

	// Material retrieves the first material, or nil if none is set.
	//
	// Returns:
	//   - material.Material: the primary material
	Material() material.Material

	// Materials retrieves every owned material.
	//
	// Returns:
	//   - []material.Material: the materials
	Materials() []material.Material

	// MaterialFor returns the material used to draw the mesh at index i.
	//
	// Parameters:
	//   - i: the mesh index
	//
	// Returns:
	//   - material.Material: the paired material, or nil
	MaterialFor(i int) material.Material

	// ReplaceMaterials swaps the owned materials and disposes the previous ones
	// that are not part of mats.
	//
	// Parameters:
	//   - mats: the new materials
	ReplaceMaterials(mats []material.Material)

	// BoundingRadius returns the bounding sphere radius for this model, measured as
	// the maximum vertex distance from the origin.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// Bounds returns the axis-aligned bounds over every mesh.
	//
	// Returns:
	//   - [3]float32: minimum corner
	//   - [3]float32: maximum corner
	Bounds() ([3]float32, [3]float32)

	// VertexCount returns the total vertex count.
	VertexCount() int

	// RenderOrder returns the draw priority; lower draws first.
	RenderOrder() int

	// SetRenderOrder sets the draw priority.
	SetRenderOrder(order int)

	// GeometryHandles returns the resource handles of the meshes.
	GeometryHandles() []resource.Handle

	// Dispose releases every geometry and material. Safe to call more than once.
	Dispose()

	// Disposed reports whether Dispose has run.
	Disposed() bool
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
// When a tracker is configured each mesh is registered as a geometry resource.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}

	if m.tracker != nil {
		m.handles = make([]resource.Handle, len(m.meshes))
		for i, mesh := range m.meshes {
			name := mesh.Name
			if name == "" {
				name = m.name
			}
			m.handles[i] = m.tracker.Track(resource.KindGeometry, name)
		}
	}

	m.boundingRadius = computeBoundingRadius(m.meshes)
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Mesh() *geometry.Mesh {
	if len(m.meshes) == 0 {
		return nil
	}
	return m.meshes[0]
}

func (m *model) Meshes() []*geometry.Mesh {
	return m.meshes
}

func (m *model) Material() material.Material {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.materials) == 0 {
		return nil
	}
	return m.materials[0]
}

func (m *model) Materials() []material.Material {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]material.Material, len(m.materials))
	copy(out, m.materials)
	return out
}

func (m *model) MaterialFor(i int) material.Material {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.materials) == 0 || i < 0 {
		return nil
	}
	if i >= len(m.materials) {
		return m.materials[len(m.materials)-1]
	}
	return m.materials[i]
}

func (m *model) ReplaceMaterials(mats []material.Material) {
	m.mu.Lock()
	old := m.materials
	m.materials = append([]material.Material(nil), mats...)
	m.mu.Unlock()

	for _, o := range old {
		keep := false
		for _, n := range mats {
			if n == o {
				keep = true
				break
			}
		}
		if !keep {
			o.Dispose()
		}
	}
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *model) Bounds() ([3]float32, [3]float32) {
	var bmin, bmax [3]float32
	first := true
	for _, mesh := range m.meshes {
		if len(mesh.Vertices) == 0 {
			continue
		}
		lo, hi := mesh.Bounds()
		if first {
			bmin, bmax = lo, hi
			first = false
			continue
		}
		for i := 0; i < 3; i++ {
			bmin[i] = min(bmin[i], lo[i])
			bmax[i] = max(bmax[i], hi[i])
		}
	}
	return bmin, bmax
}

func (m *model) VertexCount() int {
	n := 0
	for _, mesh := range m.meshes {
		n += mesh.VertexCount()
	}
	return n
}

func (m *model) RenderOrder() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.renderOrder
}

func (m *model) SetRenderOrder(order int) {
	m.mu.Lock()
	m.renderOrder = order
	m.mu.Unlock()
}

func (m *model) GeometryHandles() []resource.Handle {
	return m.handles
}

func (m *model) Dispose() {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.disposed = true
	mats := m.materials
	m.mu.Unlock()

	for _, h := range m.handles {
		h.Dispose()
	}
	for _, mat := range mats {
		mat.Dispose()
	}
}

func (m *model) Disposed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.disposed
}

// computeBoundingRadius returns the maximum vertex distance from the origin.
func computeBoundingRadius(meshes []*geometry.Mesh) float32 {
	var maxSq float64
	for _, mesh := range meshes {
		for _, v := range mesh.Vertices {
			p := v.Position
			d := float64(p[0])*float64(p[0]) + float64(p[1])*float64(p[1]) + float64(p[2])*float64(p[2])
			if d > maxSq {
				maxSq = d
			}
		}
	}
	return float32(math.Sqrt(maxSq))
}

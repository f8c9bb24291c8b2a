package model

import (
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/geometry"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/renderer/material"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/resource"
)

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithMesh is an option builder that appends a mesh to the Model.
//
// Parameters:
//   - mesh: the mesh to append
//
// Returns:
//   - ModelBuilderOption: a function that applies the mesh option to a model
func WithMesh(mesh geometry.Mesh) ModelBuilderOption {
	return func(m *model) {
		mm := mesh
		m.meshes = append(m.meshes, &mm)
	}
}

// WithMeshes appends several meshes in order.
func WithMeshes(meshes []geometry.Mesh) ModelBuilderOption {
	return func(m *model) {
		for i := range meshes {
			mm := meshes[i]
			m.meshes = append(m.meshes, &mm)
		}
	}
}

// WithMaterial is an option builder that appends a material owned by the Model.
//
// Parameters:
//   - mat: the material to append
//
// Returns:
//   - ModelBuilderOption: a function that applies the material option to a model
func WithMaterial(mat material.Material) ModelBuilderOption {
	return func(m *model) {
		if mat != nil {
			m.materials = append(m.materials, mat)
		}
	}
}

// WithMaterials appends several owned materials in order.
func WithMaterials(mats []material.Material) ModelBuilderOption {
	return func(m *model) {
		for _, mat := range mats {
			if mat != nil {
				m.materials = append(m.materials, mat)
			}
		}
	}
}

// WithRenderOrder sets the draw priority.
func WithRenderOrder(order int) ModelBuilderOption {
	return func(m *model) {
		m.renderOrder = order
	}
}

// WithTracker is an option builder that accounts every mesh as a geometry resource.
//
// Parameters:
//   - tracker: the resource tracker
//
// Returns:
//   - ModelBuilderOption: a function that applies the tracker option to a model
func WithTracker(tracker resource.Tracker) ModelBuilderOption {
	return func(m *model) {
		m.tracker = tracker
	}
}

package model

import (
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/geometry"
)

// --- Import Types ---

// ImportedModel represents a 3D model loaded from an external format.
// This is the universal format that importers (glTF, OBJ) produce.
type ImportedModel struct {
	// Name is the model identifier.
	Name string

	// Meshes contains all mesh data (may have multiple meshes/submeshes).
	Meshes []ImportedMesh

	// Materials are referenced materials (indices into a material library).
	Materials []common.ImportedMaterial
}

// ImportedMesh represents a single mesh within an imported model.
type ImportedMesh struct {
	// Name is the mesh identifier.
	Name string

	// Mesh holds the triangle data.
	Mesh geometry.Mesh

	// MaterialIndex references ImportedModel.Materials, or -1 for none.
	MaterialIndex int

	// BoundingMin is the minimum corner of the axis-aligned bounding box.
	BoundingMin [3]float32

	// BoundingMax is the maximum corner of the axis-aligned bounding box.
	BoundingMax [3]float32
}

// Bounds returns the combined axis-aligned bounding box over every mesh.
//
// Returns:
//   - [3]float32: minimum corner
//   - [3]float32: maximum corner
//   - bool: false if the model has no vertices
func (im *ImportedModel) Bounds() ([3]float32, [3]float32, bool) {
	var bmin, bmax [3]float32
	found := false
	for _, m := range im.Meshes {
		if len(m.Mesh.Vertices) == 0 {
			continue
		}
		if !found {
			bmin, bmax = m.BoundingMin, m.BoundingMax
			found = true
			continue
		}
		for i := 0; i < 3; i++ {
			bmin[i] = min(bmin[i], m.BoundingMin[i])
			bmax[i] = max(bmax[i], m.BoundingMax[i])
		}
	}
	return bmin, bmax, found
}

// VertexCount returns the total number of vertices across all meshes.
func (im *ImportedModel) VertexCount() int {
	n := 0
	for _, m := range im.Meshes {
		n += len(m.Mesh.Vertices)
	}
	return n
}

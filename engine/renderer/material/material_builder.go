package material

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/resource"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithShading sets the lighting model.
func WithShading(shading Shading) MaterialBuilderOption {
	return func(m *material) {
		m.shading = shading
	}
}

// WithBaseColor is an option builder that sets the albedo RGBA color of the material.
//
// Parameters:
//   - color: the base color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color option to a material
func WithBaseColor(color common.Color) MaterialBuilderOption {
	return func(m *material) {
		m.baseColor = color
	}
}

// WithEmissive sets the emissive color and intensity.
//
// Parameters:
//   - color: the emissive color
//   - intensity: the emissive multiplier
//
// Returns:
//   - MaterialBuilderOption: a function that applies the emissive option to a material
func WithEmissive(color common.Color, intensity float32) MaterialBuilderOption {
	return func(m *material) {
		m.emissive = color
		m.emissiveIntensity = intensity
	}
}

// WithMetallic sets the metallic factor (0.0 = dielectric, 1.0 = metal).
func WithMetallic(metallic float32) MaterialBuilderOption {
	return func(m *material) {
		m.metallic = metallic
	}
}

// WithRoughness sets the roughness factor (0.0 = smooth, 1.0 = rough).
func WithRoughness(roughness float32) MaterialBuilderOption {
	return func(m *material) {
		m.roughness = roughness
	}
}

// WithOpacity marks the material transparent with the given opacity and
// selects alpha blending unless a blend state was already chosen.
//
// Parameters:
//   - opacity: the initial opacity in [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that applies the opacity option to a material
func WithOpacity(opacity float32) MaterialBuilderOption {
	return func(m *material) {
		m.opacity = min(max(opacity, 0), 1)
		m.transparent = true
		if m.blend == nil {
			blend := AlphaBlend
			m.blend = &blend
		}
	}
}

// WithAdditiveBlending selects additive blending and marks the material transparent.
func WithAdditiveBlending() MaterialBuilderOption {
	return func(m *material) {
		blend := AdditiveBlend
		m.blend = &blend
		m.transparent = true
	}
}

// WithDoubleSided disables face culling.
func WithDoubleSided() MaterialBuilderOption {
	return func(m *material) {
		m.cullMode = wgpu.CullModeNone
	}
}

// WithDepth sets depth test and depth write.
//
// Parameters:
//   - test: whether fragments are depth tested
//   - write: whether fragments write depth
//
// Returns:
//   - MaterialBuilderOption: a function that applies the depth option to a material
func WithDepth(test, write bool) MaterialBuilderOption {
	return func(m *material) {
		m.depthTest = test
		m.depthWrite = write
	}
}

// WithVertexColors enables per-vertex color modulation.
func WithVertexColors() MaterialBuilderOption {
	return func(m *material) {
		m.vertexColors = true
	}
}

// WithWireframe draws triangle edges only.
func WithWireframe(wireframe bool) MaterialBuilderOption {
	return func(m *material) {
		m.wireframe = wireframe
	}
}

// WithUniform sets the initial value of a named scalar uniform.
func WithUniform(name string, value float32) MaterialBuilderOption {
	return func(m *material) {
		m.uniforms[name] = value
	}
}

// WithVector sets a named vector uniform.
func WithVector(name string, value [3]float32) MaterialBuilderOption {
	return func(m *material) {
		m.vectors[name] = value
	}
}

// WithTexture binds an initial texture.
func WithTexture(tex *common.ImportedTexture) MaterialBuilderOption {
	return func(m *material) {
		m.texture = tex
	}
}

// WithTracker registers the material with a resource tracker on construction.
//
// Parameters:
//   - tracker: the tracker accounting for this material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the tracker option to a material
func WithTracker(tracker resource.Tracker) MaterialBuilderOption {
	return func(m *material) {
		m.tracker = tracker
	}
}

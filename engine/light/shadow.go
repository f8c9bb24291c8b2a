package light

// ShadowMapResolution is the default width and height in texels of the shadow
// depth texture used by shadow-casting directional lights.
const ShadowMapResolution = 2048

// DefaultShadowHalfExtent is the default orthographic half-extent (in world units)
// of the directional light shadow frustum.
const DefaultShadowHalfExtent float32 = 100.0

// DefaultShadowNear is the default near plane for the directional light's
// orthographic shadow projection.
const DefaultShadowNear float32 = 0.5

// DefaultShadowFar is the default far plane for the directional light's
// orthographic shadow projection.
const DefaultShadowFar float32 = 500.0

// DefaultShadowBias is the constant depth bias applied to shadow comparisons.
const DefaultShadowBias float32 = 0.001

// ShadowSettings configures the shadow camera of a shadow-casting light.
type ShadowSettings struct {
	// MapSize is the square shadow map resolution in texels.
	MapSize int

	// Near and Far bound the orthographic shadow projection.
	Near, Far float32

	// HalfExtent is the orthographic half-width and half-height (left=-h, right=h, bottom=-h, top=h).
	HalfExtent float32

	// Bias is the constant depth bias.
	Bias float32
}

// DefaultShadowSettings returns the shadow configuration used by the scene's key light.
func DefaultShadowSettings() ShadowSettings {
	return ShadowSettings{
		MapSize:    ShadowMapResolution,
		Near:       DefaultShadowNear,
		Far:        DefaultShadowFar,
		HalfExtent: DefaultShadowHalfExtent,
		Bias:       DefaultShadowBias,
	}
}

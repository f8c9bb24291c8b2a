package light

import "github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithPosition is an option builder that sets the world-space position of the light.
//
// Parameters:
//   - pos: the position
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(pos [3]float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = pos
	}
}

// WithTarget is an option builder that sets the aim point of a directional light.
//
// Parameters:
//   - target: the aim point
//
// Returns:
//   - LightBuilderOption: a function that applies the target option to a lightImpl
func WithTarget(target [3]float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.target = target
	}
}

// WithColor is an option builder that sets the color of the light.
//
// Parameters:
//   - c: the color
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColor(c common.Color) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = c
	}
}

// WithIntensity is an option builder that sets the intensity multiplier of the light.
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithDistance is an option builder that sets the cutoff distance of a point light.
//
// Parameters:
//   - distance: the cutoff distance, zero for unbounded
//
// Returns:
//   - LightBuilderOption: a function that applies the distance option to a lightImpl
func WithDistance(distance float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.distance = max(distance, 0)
	}
}

// WithDecay sets the attenuation exponent of a point light.
func WithDecay(decay float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.decay = decay
	}
}

// WithEnabled is an option builder that sets whether the light is active.
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}

// WithCastsShadows is an option builder that sets whether the light is eligible
// for shadow map generation.
//
// Parameters:
//   - castsShadows: true to enable shadow casting
//
// Returns:
//   - LightBuilderOption: a function that applies the shadow-casting option to a lightImpl
func WithCastsShadows(castsShadows bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.castsShadows = castsShadows
	}
}

// WithShadow overrides the shadow camera configuration.
func WithShadow(settings ShadowSettings) LightBuilderOption {
	return func(l *lightImpl) {
		l.shadow = settings
	}
}

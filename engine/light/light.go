package light

import (
	"sync"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional represents a light with no position, only direction.
	// Used for large distant sources like the sun. Affects all fragments
	// uniformly with no distance attenuation.
	LightTypeDirectional LightType = iota

	// LightTypePoint represents a light that emits in all directions from a position.
	// Attenuates with distance up to a configurable range following the decay exponent.
	LightTypePoint

	// LightTypeAmbient represents a uniform fill term with no position or direction.
	LightTypeAmbient
)

func (t LightType) String() string {
	switch t {
	case LightTypeDirectional:
		return "directional"
	case LightTypePoint:
		return "point"
	case LightTypeAmbient:
		return "ambient"
	default:
		return "unknown"
	}
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu sync.RWMutex

	lightType    LightType
	position     [3]float32
	target       [3]float32
	color        common.Color
	intensity    float32
	distance     float32
	decay        float32
	enabled      bool
	castsShadows bool
	shadow       ShadowSettings
}

// Light defines the interface for a light source in the scene.
//
// All light types (directional, point, ambient) share this interface;
// type-specific properties return zero values when not applicable.
// Intensity is mutable at runtime so the animation driver can pulse it.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type
	Type() LightType

	// Position returns the world-space position of the light.
	// Directional lights shine from Position toward Target.
	//
	// Returns:
	//   - [3]float32: position as (x, y, z)
	Position() [3]float32

	// Target returns the point a directional light aims at.
	//
	// Returns:
	//   - [3]float32: target as (x, y, z)
	Target() [3]float32

	// Direction returns the normalized direction from Position to Target.
	//
	// Returns:
	//   - [3]float32: normalized direction as (x, y, z)
	Direction() [3]float32

	// Color returns the light color.
	//
	// Returns:
	//   - common.Color: the color
	Color() common.Color

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Distance returns the cutoff distance of a point light. Zero means unbounded.
	//
	// Returns:
	//   - float32: the distance
	Distance() float32

	// Decay returns the attenuation exponent of a point light.
	//
	// Returns:
	//   - float32: the decay exponent
	Decay() float32

	// Enabled returns whether this light is active for rendering.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// CastsShadows returns whether this light is eligible for shadow map generation.
	//
	// Returns:
	//   - bool: true if the light casts shadows
	CastsShadows() bool

	// Shadow returns the shadow camera configuration.
	//
	// Returns:
	//   - ShadowSettings: the shadow settings
	Shadow() ShadowSettings

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - pos: position components
	SetPosition(pos [3]float32)

	// SetIntensity sets the scalar intensity multiplier.
	//
	// Parameters:
	//   - intensity: the intensity value
	SetIntensity(intensity float32)

	// SetColor sets the light color.
	SetColor(c common.Color)

	// SetEnabled enables or disables the light for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type with sensible defaults and
// any provided options applied.
//
// Parameters:
//   - lightType: the kind of light to create
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType: lightType,
		color:     common.White,
		intensity: 1.0,
		decay:     2.0,
		enabled:   true,
		shadow:    DefaultShadowSettings(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() [3]float32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.position
}

func (l *lightImpl) Target() [3]float32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.target
}

func (l *lightImpl) Direction() [3]float32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	d := common.Sub3(l.target, l.position)
	if common.Length3(d) < 1e-8 {
		return [3]float32{0, -1, 0}
	}
	return common.Normalize3(d)
}

func (l *lightImpl) Color() common.Color {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.intensity
}

func (l *lightImpl) Distance() float32 {
	return l.distance
}

func (l *lightImpl) Decay() float32 {
	return l.decay
}

func (l *lightImpl) Enabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.enabled
}

func (l *lightImpl) CastsShadows() bool {
	return l.castsShadows
}

func (l *lightImpl) Shadow() ShadowSettings {
	return l.shadow
}

func (l *lightImpl) SetPosition(pos [3]float32) {
	l.mu.Lock()
	l.position = pos
	l.mu.Unlock()
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.mu.Lock()
	l.intensity = intensity
	l.mu.Unlock()
}

func (l *lightImpl) SetColor(c common.Color) {
	l.mu.Lock()
	l.color = c
	l.mu.Unlock()
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.mu.Lock()
	l.enabled = enabled
	l.mu.Unlock()
}

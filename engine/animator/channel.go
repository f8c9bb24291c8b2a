package animator

import (
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/light"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/renderer/material"
)

// Channel is a single scalar property a policy writes each frame.
type Channel interface {
	// Get reads the current value.
	Get() float32

	// Set writes a new value.
	Set(v float32)
}

type opacityChannel struct{ m material.Material }

func (c opacityChannel) Get() float32  { return c.m.Opacity() }
func (c opacityChannel) Set(v float32) { c.m.SetOpacity(v) }

// MaterialOpacity targets a material's opacity. Writes are clamped to [0, 1] by the material.
func MaterialOpacity(m material.Material) Channel {
	return opacityChannel{m: m}
}

type intensityChannel struct{ l light.Light }

func (c intensityChannel) Get() float32  { return c.l.Intensity() }
func (c intensityChannel) Set(v float32) { c.l.SetIntensity(v) }

// LightIntensity targets a light's intensity.
func LightIntensity(l light.Light) Channel {
	return intensityChannel{l: l}
}

type uniformChannel struct {
	m    material.Material
	name string
}

func (c uniformChannel) Get() float32 {
	v, _ := c.m.Uniform(c.name)
	return v
}

func (c uniformChannel) Set(v float32) { c.m.SetUniform(c.name, v) }

// MaterialUniform targets a named scalar shader uniform.
//
// Parameters:
//   - m: the material owning the uniform
//   - name: the uniform name
//
// Returns:
//   - Channel: the uniform channel
func MaterialUniform(m material.Material, name string) Channel {
	return uniformChannel{m: m, name: name}
}

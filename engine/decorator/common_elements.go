package decorator

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/animator"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/game_object"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/geometry"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/light"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/renderer/material"
)

const (
	StarCount     = 200
	starMinRadius = 400.0
	starMaxRadius = 600.0

	GlowCount      = 5
	glowRingRadius = 40.0
	glowHeight     = 15.0

	gridSize      = 1000
	gridDivKeirin = 50
	gridDivBoat   = 100
	gridHeight    = -0.15
	gridOpacity   = 0.5
)

var (
	colorCyan   = common.Hex("#00ffff")
	colorViolet = common.Hex("#8000ff")
	colorPink   = common.Hex("#ff61d5")
	colorSky    = common.Hex("#61dafb")
	glowPalette = []common.Color{colorViolet, colorCyan, colorPink, colorSky, colorViolet}
)

// stars scatters points on the upper half of a thick spherical shell. Each
// point pulses its opacity with its own frequency and phase.
func (b *builder) stars() *Decoration {
	out := &Decoration{}
	lo.Times(StarCount, func(i int) struct{} {
		radius := starMinRadius + b.rand()*(starMaxRadius-starMinRadius)
		phi := math.Acos(b.rand())
		theta := b.rand() * 2 * math.Pi
		freq := 0.5 + b.rand()*1.5
		phase := b.rand() * 2 * math.Pi

		mat := material.NewMaterial(
			material.WithName("star"),
			material.WithShading(material.ShadingPoints),
			material.WithOpacity(1),
			material.WithUniform("size", 2),
			material.WithTracker(b.deps.Tracker),
		)
		obj := b.element(game_object.KindStar, fmt.Sprintf("star-%d", i), geometry.Point(), mat,
			game_object.WithPosition(common.SphericalToCartesian(radius, phi, theta)),
		)
		out.add(obj, animator.NewPulse(animator.MaterialOpacity(mat), 0.5, 0.5, freq, phase))
		return struct{}{}
	})
	return out
}

// glowLights rings point lights, each paired with a translucent sphere.
// Light intensity and sphere opacity pulse together with a per-index phase.
func (b *builder) glowLights() *Decoration {
	out := &Decoration{}
	lo.Times(GlowCount, func(i int) struct{} {
		angle := 2 * math.Pi * float64(i) / GlowCount
		pos := [3]float32{
			float32(glowRingRadius * math.Cos(angle)),
			glowHeight,
			float32(glowRingRadius * math.Sin(angle)),
		}
		color := glowPalette[i%len(glowPalette)]

		l := light.NewLight(light.LightTypePoint,
			light.WithColor(color),
			light.WithIntensity(2),
			light.WithDistance(50),
			light.WithDecay(2),
		)
		mat := b.glowMaterial("glow", color, 0.3)
		obj := b.element(game_object.KindGlow, fmt.Sprintf("glow-%d", i), geometry.Sphere(1, 16, 16), mat,
			game_object.WithPosition(pos),
			game_object.WithLight(l),
		)
		phase := float64(i)
		out.add(obj,
			animator.NewPulse(animator.LightIntensity(l), 2, 1, 2, phase),
			animator.NewPulse(animator.MaterialOpacity(mat), 0.3, 0.2, 2, phase),
		)
		return struct{}{}
	})
	return out
}

// grid lays the neon floor grid just above the ground plane. It draws with
// vertex colors, additively, with no depth test.
func (b *builder) grid(isBoat bool) *Decoration {
	div := gridDivKeirin
	if isBoat {
		div = gridDivBoat
	}
	mat := material.NewMaterial(
		material.WithName("grid"),
		material.WithShading(material.ShadingLine),
		material.WithVertexColors(),
		material.WithOpacity(gridOpacity),
		material.WithAdditiveBlending(),
		material.WithDepth(false, false),
		material.WithTracker(b.deps.Tracker),
	)
	obj := b.element(game_object.KindGrid, "grid", geometry.Grid(gridSize, div, colorSky, colorPink), mat,
		game_object.WithPosition([3]float32{0, gridHeight, 0}),
		game_object.WithRotation(TrackSpace),
	)
	out := &Decoration{}
	out.add(obj)
	return out
}

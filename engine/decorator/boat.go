package decorator

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/animator"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/game_object"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/geometry"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/renderer/material"
)

const (
	WaterParticleCount = 50
	waterOpacity       = 0.8
	waterDecrement     = 0.005

	BuoyCount     = 2
	buoyRadius    = 1.5
	buoyHeight    = 4
	buoyBase      = 0
	buoyAmplitude = 0.3
)

// WaterParticleExtent bounds water particle respawns above the water plane.
var WaterParticleExtent = [2][3]float32{{-40, 0.5, -80}, {40, 3, 80}}

// waterParticles scatters spray that fades out and respawns elsewhere. Initial
// opacities are staggered so the cycles do not line up.
func (b *builder) waterParticles() *Decoration {
	lo3, hi3 := WaterParticleExtent[0], WaterParticleExtent[1]
	out := &Decoration{}
	lo.Times(WaterParticleCount, func(i int) struct{} {
		var pos [3]float32
		for k := range pos {
			pos[k] = lo3[k] + float32(b.rand())*(hi3[k]-lo3[k])
		}
		mat := b.glowMaterial("water-particle", common.White, waterOpacity)
		obj := b.element(game_object.KindWaterParticle, fmt.Sprintf("water-particle-%d", i), geometry.Sphere(0.2, 8, 8), mat,
			game_object.WithPosition(pos),
		)
		fade := animator.NewFadeRespawn(obj, animator.MaterialOpacity(mat), waterOpacity, waterDecrement, lo3, hi3)
		mat.SetOpacity(float32(b.rand()) * waterOpacity)
		out.add(obj, fade)
		return struct{}{}
	})
	return out
}

// buoys places a bobbing cone over each turn center, in counter-phase.
func (b *builder) buoys() *Decoration {
	out := &Decoration{}
	for i, at := range b.deps.Course.Buoys {
		mat := material.NewMaterial(
			material.WithName("buoy"),
			material.WithBaseColor(colorPink),
			material.WithEmissive(colorPink, 0.5),
			material.WithRoughness(0.4),
			material.WithTracker(b.deps.Tracker),
		)
		// Buoys sit in track space; (x, y, z) maps to world (x, z, -y).
		pos := [3]float32{at[0], at[2] + buoyBase, -at[1]}
		obj := b.element(game_object.KindBuoy, fmt.Sprintf("buoy-%d", i), geometry.Cone(buoyRadius, buoyHeight, 16), mat,
			game_object.WithPosition(pos),
		)
		out.add(obj, animator.NewOscillation(obj, float64(pos[1]), buoyAmplitude, float64(i)*math.Pi))
	}
	return out
}

// startBand lays the pulsing start/finish band across the near straight.
func (b *builder) startBand() *Decoration {
	mat := b.glowMaterial("start-band", common.White, 0.8, material.WithDoubleSided())
	obj := b.element(game_object.KindStartBand, "start-band", b.deps.Course.StartBand, mat,
		game_object.WithRotation(TrackSpace),
	)
	out := &Decoration{}
	out.add(obj, animator.NewPulse(animator.MaterialOpacity(mat), 0.6, 0.3, 3, 0))
	return out
}

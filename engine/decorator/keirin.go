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
	CubeCount      = 10
	cubeSize       = 2
	cubeMinHeight  = 5
	cubeHeightSpan = 10
	cubeBase       = 5
	cubeAmplitude  = 2
	cubeSpin       = 0.6

	// BoundaryParticleCount is the total of both streams; half run along X, half along Z.
	BoundaryParticleCount = 20
	particleRadius        = 0.3
	particleHeight        = -0.14
	particleBound         = 500
	particleMinSpeed      = 100
	particleSpeedSpan     = 50

	FinishParticleCount = 6
	finishBandWidth     = 1
	finishClearance     = 0.05
	finishParticleLift  = 0.3

	LaneLineCount   = 3
	laneClearance   = 0.05
	evacuationInset = 1.5
	innerLaneInset  = 0.3
	outerLaneInset  = 0.3
)

// cubes floats translucent boxes over the infield. Spread is the
// track length along both ground axes; each cube bobs with its own phase and spins
// on X and Y.
func (b *builder) cubes(params geometry.TrackParameters) *Decoration {
	spread, _ := params.Extent()
	out := &Decoration{}
	lo.Times(CubeCount, func(i int) struct{} {
		pos := [3]float32{
			float32((b.rand() - 0.5) * spread),
			float32(b.rand()*cubeHeightSpan + cubeMinHeight),
			float32((b.rand() - 0.5) * spread),
		}
		phase := b.rand() * 2 * math.Pi

		mat := b.glowMaterial("cube", colorViolet, 0.7)
		obj := b.element(game_object.KindCube, fmt.Sprintf("cube-%d", i), geometry.Box(cubeSize, cubeSize, cubeSize), mat,
			game_object.WithPosition(pos),
		)
		osc := animator.NewOscillation(obj, cubeBase, cubeAmplitude, phase)
		osc.RotationRate = [3]float32{cubeSpin, cubeSpin, 0}
		out.add(obj, osc)
		return struct{}{}
	})
	return out
}

// boundaryParticles sends two perpendicular streams sweeping the ground plane
// between -bound and +bound.
func (b *builder) boundaryParticles() *Decoration {
	out := &Decoration{}
	perStream := BoundaryParticleCount / 2
	lane := func(i int) float32 {
		return float32(-particleBound + float64(i)*2*particleBound/float64(perStream-1))
	}
	spawn := func(name string, i int, pos [3]float32, axis animator.Axis) {
		mat := b.glowMaterial("particle", colorCyan, 0.9)
		obj := b.element(game_object.KindParticle, fmt.Sprintf("%s-%d", name, i), geometry.Sphere(particleRadius, 16, 16), mat,
			game_object.WithPosition(pos),
		)
		speed := particleMinSpeed + b.rand()*particleSpeedSpan
		out.add(obj, animator.NewBoundedTravel(obj, axis, speed, particleBound))
	}

	for i := 0; i < perStream; i++ {
		spawn("particle-x", i, [3]float32{-particleBound, particleHeight, lane(i)}, animator.AxisX)
	}
	for i := 0; i < perStream; i++ {
		spawn("particle-z", i, [3]float32{lane(i), particleHeight, -particleBound}, animator.AxisZ)
	}
	return out
}

// finishLine lays a pulsing band across the near straight at x = 0 and a row of
// particles shuttling across it. The band endpoints follow the banked surface.
func (b *builder) finishLine(params geometry.TrackParameters) (*Decoration, error) {
	track := b.deps.Track
	if track.SurfaceCount == 0 {
		return nil, fmt.Errorf("track mesh has no riding surface")
	}
	outer := float32(params.CurveRadius)
	inner := float32(params.InnerRadius())
	ends := geometry.SnapToSurface(
		[][2]float32{{0, -inner}, {0, -outer}},
		track.Vertices[:track.SurfaceCount],
		finishClearance,
	)

	out := &Decoration{}
	bandMat := b.glowMaterial("finish-band", common.White, 0.8, material.WithDoubleSided())
	band := b.element(game_object.KindFinishBand, "finish-band", geometry.Band(ends[0], ends[1], finishBandWidth), bandMat,
		game_object.WithRotation(TrackSpace),
	)
	out.add(band, animator.NewPulse(animator.MaterialOpacity(bandMat), 0.6, 0.3, 3, 0))

	// Track-space -y is world +z, so the band spans world z in [inner, outer].
	height := max(ends[0][2], ends[1][2]) + finishParticleLift
	lo.Times(FinishParticleCount, func(i int) struct{} {
		z := inner + (outer-inner)*float32(i)/float32(FinishParticleCount-1)
		mat := b.glowMaterial("finish-particle", colorPink, 0.9)
		obj := b.element(game_object.KindFinishParticle, fmt.Sprintf("finish-particle-%d", i), geometry.Sphere(0.2, 8, 8), mat,
			game_object.WithPosition([3]float32{0, height, z}),
		)
		out.add(obj, &animator.BoundedTravel{
			Object:    obj,
			Axis:      animator.AxisZ,
			Speed:     5 + b.rand()*5,
			Direction: 1,
			Min:       float64(inner),
			Max:       float64(outer),
		})
		return struct{}{}
	})
	return out, nil
}

// laneLines draws the evacuation, inner and outer boundary lines. The inner
// and outer lines pulse in counter-phase.
func (b *builder) laneLines(params geometry.TrackParameters) *Decoration {
	inner := params.InnerRadius()
	lines := []struct {
		name   string
		radius float64
		color  common.Color
		pulse  bool
		phase  float64
	}{
		{"evacuation-line", inner - evacuationInset, common.White, false, 0},
		{"inner-line", inner + innerLaneInset, colorCyan, true, 0},
		{"outer-line", params.CurveRadius - outerLaneInset, colorPink, true, math.Pi},
	}

	out := &Decoration{}
	for _, l := range lines {
		curve := geometry.LaneLine(b.deps.Track, l.radius, laneClearance)
		mat := material.NewMaterial(
			material.WithName(l.name),
			material.WithShading(material.ShadingLine),
			material.WithBaseColor(l.color),
			material.WithOpacity(0.8),
			material.WithTracker(b.deps.Tracker),
		)
		obj := b.element(game_object.KindLaneLine, l.name, curve.Mesh(l.name), mat,
			game_object.WithRotation(TrackSpace),
		)
		if l.pulse {
			out.add(obj, animator.NewPulse(animator.MaterialOpacity(mat), 0.6, 0.4, 2, l.phase))
			continue
		}
		out.add(obj)
	}
	return out
}

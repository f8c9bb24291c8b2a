package decorator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/animator"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/game_object"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/geometry"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/model"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/renderer/material"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/resource"
)

func keirinDeps(t *testing.T) (geometry.TrackParameters, Deps) {
	t.Helper()
	p := geometry.KeirinParameters()
	track, err := geometry.BuildTrackMesh(p)
	require.NoError(t, err)
	return p, Deps{
		Tracker: resource.NewTracker(),
		Rand:    rand.New(rand.NewSource(7)),
		Track:   track,
	}
}

func boatDeps(t *testing.T) (geometry.TrackParameters, Deps) {
	t.Helper()
	p := geometry.BoatParameters()
	course, err := geometry.BuildWaterCourse(p, geometry.DefaultWaterCourseOptions())
	require.NoError(t, err)
	return p, Deps{
		Tracker: resource.NewTracker(),
		Rand:    rand.New(rand.NewSource(7)),
		Course:  course,
	}
}

func TestDecorate_KeirinCounts(t *testing.T) {
	p, deps := keirinDeps(t)
	d, err := Decorate(p, false, deps)
	require.NoError(t, err)

	assert.Equal(t, StarCount, d.Count(game_object.KindStar))
	assert.Equal(t, GlowCount, d.Count(game_object.KindGlow))
	assert.Equal(t, 1, d.Count(game_object.KindGrid))
	assert.Equal(t, CubeCount, d.Count(game_object.KindCube))
	assert.Equal(t, BoundaryParticleCount, d.Count(game_object.KindParticle))
	assert.Equal(t, 1, d.Count(game_object.KindFinishBand))
	assert.Equal(t, FinishParticleCount, d.Count(game_object.KindFinishParticle))
	assert.Equal(t, LaneLineCount, d.Count(game_object.KindLaneLine))

	assert.Zero(t, d.Count(game_object.KindWaterParticle))
	assert.Zero(t, d.Count(game_object.KindBuoy))
	assert.Zero(t, d.Count(game_object.KindStartBand))
}

func TestDecorate_BoatCounts(t *testing.T) {
	p, deps := boatDeps(t)
	d, err := Decorate(p, true, deps)
	require.NoError(t, err)

	counts := d.Counts()
	assert.Equal(t, StarCount, counts[game_object.KindStar])
	assert.Equal(t, GlowCount, counts[game_object.KindGlow])
	assert.Equal(t, WaterParticleCount, counts[game_object.KindWaterParticle])
	assert.Equal(t, BuoyCount, counts[game_object.KindBuoy])
	assert.Equal(t, 1, counts[game_object.KindStartBand])

	assert.Zero(t, counts[game_object.KindCube])
	assert.Zero(t, counts[game_object.KindParticle])
	assert.Zero(t, counts[game_object.KindLaneLine])
}

func TestDecorate_GlowPairsCarryLights(t *testing.T) {
	p, deps := boatDeps(t)
	d, err := Decorate(p, true, deps)
	require.NoError(t, err)

	for _, o := range d.Objects {
		if o.Kind() != game_object.KindGlow {
			continue
		}
		require.NotNil(t, o.Light())
		assert.Equal(t, o.Position(), o.Light().Position())
	}
}

func TestDecorate_DisposeBalancesTracker(t *testing.T) {
	for _, isBoat := range []bool{false, true} {
		var p geometry.TrackParameters
		var deps Deps
		if isBoat {
			p, deps = boatDeps(t)
		} else {
			p, deps = keirinDeps(t)
		}
		d, err := Decorate(p, isBoat, deps)
		require.NoError(t, err)

		created := deps.Tracker.Created()
		assert.Equal(t, 2*len(d.Objects), created, "one geometry and one material per element")
		assert.Equal(t, created, deps.Tracker.Live())

		d.Dispose()
		assert.Equal(t, created, deps.Tracker.Disposed())
		assert.Zero(t, deps.Tracker.Live())
	}
}

func TestDecorate_MissingCollaborators(t *testing.T) {
	_, err := Decorate(geometry.KeirinParameters(), false, Deps{
		Tracker: resource.NewTracker(),
		Rand:    rand.New(rand.NewSource(1)),
	})
	assert.ErrorIs(t, err, ErrMissingTrack)

	_, err = Decorate(geometry.BoatParameters(), true, Deps{
		Tracker: resource.NewTracker(),
		Rand:    rand.New(rand.NewSource(1)),
	})
	assert.ErrorIs(t, err, ErrMissingCourse)

	assert.Panics(t, func() {
		_, _ = Decorate(geometry.KeirinParameters(), false, Deps{})
	})
}

func TestDecorate_SameSeedSamePlacement(t *testing.T) {
	p, a := keirinDeps(t)
	_, b := keirinDeps(t)
	da, err := Decorate(p, false, a)
	require.NoError(t, err)
	db, err := Decorate(p, false, b)
	require.NoError(t, err)

	require.Len(t, db.Objects, len(da.Objects))
	for i := range da.Objects {
		assert.Equal(t, da.Objects[i].Position(), db.Objects[i].Position())
	}
}

func TestDecorate_StarsAboveHorizonInShell(t *testing.T) {
	p, deps := keirinDeps(t)
	d, err := Decorate(p, false, deps)
	require.NoError(t, err)

	for _, o := range d.Objects {
		if o.Kind() != game_object.KindStar {
			continue
		}
		pos := o.Position()
		r := math.Sqrt(float64(pos[0]*pos[0] + pos[1]*pos[1] + pos[2]*pos[2]))
		assert.GreaterOrEqual(t, pos[1], float32(0))
		assert.InDelta(t, 500, r, 100.01)
	}
}

func TestDecorate_BoundaryParticlesStayInBounds(t *testing.T) {
	p, deps := keirinDeps(t)
	d, err := Decorate(p, false, deps)
	require.NoError(t, err)

	drv := animator.NewDriver(animator.WithRand(rand.New(rand.NewSource(3))))
	for _, pol := range d.Policies {
		drv.Register(pol)
	}
	for i := 0; i < 2000; i++ {
		drv.Tick(float64(i) / 60)
	}
	for _, o := range d.Objects {
		if o.Kind() != game_object.KindParticle {
			continue
		}
		pos := o.Position()
		assert.LessOrEqual(t, pos[0], float32(particleBound))
		assert.GreaterOrEqual(t, pos[0], float32(-particleBound))
		assert.LessOrEqual(t, pos[2], float32(particleBound))
		assert.GreaterOrEqual(t, pos[2], float32(-particleBound))
	}
}

func TestDecorate_WaterParticlesRespawnInsideExtent(t *testing.T) {
	p, deps := boatDeps(t)
	d, err := Decorate(p, true, deps)
	require.NoError(t, err)

	drv := animator.NewDriver(animator.WithRand(rand.New(rand.NewSource(3))))
	for _, pol := range d.Policies {
		drv.Register(pol)
	}
	for i := 0; i < 400; i++ {
		drv.Tick(float64(i) / 60)
	}

	lo3, hi3 := WaterParticleExtent[0], WaterParticleExtent[1]
	for _, o := range d.Objects {
		if o.Kind() != game_object.KindWaterParticle {
			continue
		}
		pos := o.Position()
		for k := 0; k < 3; k++ {
			assert.GreaterOrEqual(t, pos[k], lo3[k])
			assert.LessOrEqual(t, pos[k], hi3[k])
		}
		op := o.Model().Material().Opacity()
		assert.Greater(t, op, float32(0))
		assert.LessOrEqual(t, op, float32(waterOpacity))
	}
}

func TestNewLabel(t *testing.T) {
	tracker := resource.NewTracker()
	glyphs := []geometry.Glyph{{Rune: 'K', Advance: 700}, {Rune: 'C', Advance: 700}}
	obj, err := NewLabel(glyphs, 1000, tracker)
	require.NoError(t, err)

	assert.Equal(t, game_object.KindLabel, obj.Kind())
	assert.InDelta(t, -3.5, obj.Position()[0], 1e-5)
	assert.Equal(t, float32(labelHeight), obj.Position()[1])
	assert.Equal(t, 2, tracker.Live())

	_, err = NewLabel([]geometry.Glyph{{Rune: ' ', Advance: 300}}, 1000, tracker)
	assert.Error(t, err)
}

func TestNewOverlay_FitsTrack(t *testing.T) {
	_, deps := keirinDeps(t)
	trackMat := material.NewMaterial(material.WithName("track"), material.WithTracker(deps.Tracker))

	box := geometry.Box(200, 100, 2)
	box.Translate([3]float32{10, 20, 0})
	bmin, bmax := box.Bounds()
	im := &model.ImportedModel{
		Name: "velodrome",
		Meshes: []model.ImportedMesh{
			{Name: "shell", Mesh: box, MaterialIndex: -1, BoundingMin: bmin, BoundingMax: bmax},
		},
	}

	obj, err := NewOverlay(im, deps.Track, trackMat, deps.Tracker)
	require.NoError(t, err)

	// Extent is (100, 50) against (200, 100), so both axes agree on 0.5.
	assert.InDelta(t, 0.5*overlayFill, obj.Scale()[0], 1e-5)
	assert.InDelta(t, deps.Track.MaxHeight()+overlayLift, obj.Position()[1], 1e-5)
	assert.Equal(t, TrackSpace, obj.Rotation())

	mesh := obj.Model().Mesh()
	mmin, mmax := mesh.Bounds()
	assert.InDelta(t, -100, mmin[0], 1e-4)
	assert.InDelta(t, 100, mmax[0], 1e-4)
	assert.InDelta(t, -50, mmin[1], 1e-4)

	// The imported mesh is not mutated by recentering.
	gotMin, _ := im.Meshes[0].Mesh.Bounds()
	assert.Equal(t, bmin, gotMin)

	mat := obj.Model().Material()
	require.NotNil(t, mat)
	assert.NotSame(t, trackMat, mat)

	obj.Dispose()
	assert.False(t, trackMat.Disposed())
}

func TestNewOverlay_Empty(t *testing.T) {
	_, deps := keirinDeps(t)
	trackMat := material.NewMaterial()
	_, err := NewOverlay(&model.ImportedModel{}, deps.Track, trackMat, deps.Tracker)
	assert.ErrorIs(t, err, ErrEmptyOverlay)
}

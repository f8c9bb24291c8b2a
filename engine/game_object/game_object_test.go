package game_object

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/geometry"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/light"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/model"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/renderer/material"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/resource"
)

func TestNewGameObject_Defaults(t *testing.T) {
	obj := NewGameObject(WithName("cube"), WithKind(KindCube))

	assert.Equal(t, uint64(0), obj.ID())
	assert.Equal(t, "cube", obj.Name())
	assert.Equal(t, KindCube, obj.Kind())
	assert.True(t, obj.Enabled())
	assert.Equal(t, [3]float32{1, 1, 1}, obj.Scale())
	assert.Nil(t, obj.Model())
	assert.Nil(t, obj.Light())

	obj.SetID(7)
	assert.Equal(t, uint64(7), obj.ID())
}

func TestGameObject_LightFollowsPosition(t *testing.T) {
	l := light.NewLight(light.LightTypePoint)
	obj := NewGameObject(WithKind(KindGlow), WithLight(l), WithPosition([3]float32{40, 15, 0}))

	assert.Equal(t, [3]float32{40, 15, 0}, l.Position())

	obj.SetPosition([3]float32{1, 2, 3})
	assert.Equal(t, [3]float32{1, 2, 3}, l.Position())
}

func TestGameObject_TrackSpaceRotation(t *testing.T) {
	obj := NewGameObject(WithRotation([3]float32{-math.Pi / 2, 0, 0}))

	// Track space (x, y, z-up) maps to world (x, z, -y).
	p := obj.WorldPoint([3]float32{3, 4, 5})
	assert.InDelta(t, 3, p[0], 1e-5)
	assert.InDelta(t, 5, p[1], 1e-5)
	assert.InDelta(t, -4, p[2], 1e-5)
}

func TestGameObject_ModelMatrixTranslation(t *testing.T) {
	obj := NewGameObject(WithPosition([3]float32{1, 2, 3}), WithScale([3]float32{2, 2, 2}))
	m := obj.ModelMatrix()
	assert.Equal(t, float32(1), m[12])
	assert.Equal(t, float32(2), m[13])
	assert.Equal(t, float32(3), m[14])
	assert.Equal(t, float32(2), m[0])
}

func TestGameObject_DisposeReleasesModel(t *testing.T) {
	tr := resource.NewTracker()
	mdl := model.NewModel(
		model.WithMesh(geometry.Box(1, 1, 1)),
		model.WithMaterial(material.NewMaterial(material.WithTracker(tr))),
		model.WithTracker(tr),
	)
	obj := NewGameObject(WithModel(mdl))

	obj.Dispose()
	obj.Dispose()
	assert.Equal(t, 2, tr.Created())
	assert.Equal(t, 2, tr.Disposed())
}

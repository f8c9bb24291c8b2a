package composition

import (
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/animator"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/decorator"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/game_object"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/geometry"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/light"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/model"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/renderer/material"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/resource"
)

const (
	// waterLevel is the height of the ground and water planes.
	waterLevel = -0.2

	groundSize      = 10000
	distortionScale = 3.7

	// UniformTime is the water shader clock driven every frame.
	UniformTime = "time"

	// WaterNormalRepeat tiles the water-normal texture across the plane.
	WaterNormalRepeat = 4
)

// staticSet is the non-decorative geometry of one activation.
type staticSet struct {
	decorator.Decoration

	// trackMaterial is the velodrome material the overlay clones. Nil for boat.
	trackMaterial material.Material

	// waterMaterial receives the water-normal texture. Nil for keirin.
	waterMaterial material.Material
}

func node(tracker resource.Tracker, kind game_object.Kind, name string, mesh geometry.Mesh, mat material.Material, opts ...game_object.GameObjectBuilderOption) game_object.GameObject {
	mdl := model.NewModel(
		model.WithName(name),
		model.WithMesh(mesh),
		model.WithMaterial(mat),
		model.WithTracker(tracker),
	)
	base := []game_object.GameObjectBuilderOption{
		game_object.WithKind(kind),
		game_object.WithName(name),
		game_object.WithModel(mdl),
	}
	return game_object.NewGameObject(append(base, opts...)...)
}

// velodrome builds the banked track, the ground plane and the racing line.
func velodrome(track *geometry.TrackMesh, tracker resource.Tracker) *staticSet {
	out := &staticSet{}
	out.trackMaterial = material.NewMaterial(
		material.WithName("track"),
		material.WithBaseColor(colorTrack),
		material.WithRoughness(0.3),
		material.WithMetallic(0.8),
		material.WithEmissive(colorViolet, 1),
		material.WithOpacity(0.8),
		material.WithDoubleSided(),
		material.WithTracker(tracker),
	)
	out.Objects = append(out.Objects, node(tracker, game_object.KindTrack, "track", track.Mesh, out.trackMaterial,
		game_object.WithRotation(decorator.TrackSpace),
	))

	groundMat := material.NewMaterial(
		material.WithName("ground"),
		material.WithBaseColor(colorGround),
		material.WithRoughness(0.8),
		material.WithMetallic(0.2),
		material.WithEmissive(colorGroundGlow, 1),
		material.WithTracker(tracker),
	)
	out.Objects = append(out.Objects, node(tracker, game_object.KindGround, "ground", geometry.Plane(groundSize, groundSize, 1, 1), groundMat,
		game_object.WithPosition([3]float32{0, waterLevel, 0}),
		game_object.WithRotation(decorator.TrackSpace),
	))

	lineMat := material.NewMaterial(
		material.WithName("racing-line"),
		material.WithShading(material.ShadingLine),
		material.WithBaseColor(colorCyan),
		material.WithTracker(tracker),
	)
	out.Objects = append(out.Objects, node(tracker, game_object.KindRacingLine, "racing-line", geometry.RacingLine(track).Mesh("racing-line"), lineMat,
		game_object.WithRotation(decorator.TrackSpace),
	))
	return out
}

// waterway builds the animated water plane and the boundary tube. The water
// clock is driven by a policy; the normal texture arrives asynchronously.
func waterway(course *geometry.WaterCourse, tracker resource.Tracker) *staticSet {
	out := &staticSet{}
	out.waterMaterial = material.NewMaterial(
		material.WithName("water"),
		material.WithShading(material.ShadingWater),
		material.WithBaseColor(colorWater),
		material.WithUniform(UniformTime, 0),
		material.WithUniform("distortionScale", distortionScale),
		material.WithVector("sunColor", common.White.RGB()),
		material.WithVector("sunDirection", SunDirection()),
		material.WithTracker(tracker),
	)
	water := node(tracker, game_object.KindWater, "water", course.Plane, out.waterMaterial,
		game_object.WithPosition([3]float32{0, waterLevel, 0}),
		game_object.WithRotation(decorator.TrackSpace),
	)
	out.Objects = append(out.Objects, water)
	out.Policies = append(out.Policies, animator.NewClock(animator.MaterialUniform(out.waterMaterial, UniformTime)))

	tubeMat := material.NewMaterial(
		material.WithName("boundary-tube"),
		material.WithBaseColor(colorPink),
		material.WithEmissive(colorPink, 0.5),
		material.WithRoughness(0.4),
		material.WithTracker(tracker),
	)
	out.Objects = append(out.Objects, node(tracker, game_object.KindTube, "boundary-tube", course.Tube, tubeMat,
		game_object.WithRotation(decorator.TrackSpace),
	))
	return out
}

// lightingRig returns the key, fill, ambient and accent lights shared by both disciplines.
func lightingRig() []game_object.GameObject {
	sun := SunDirection()
	key := light.NewLight(light.LightTypeDirectional,
		light.WithColor(colorPink),
		light.WithIntensity(1.5),
		light.WithCastsShadows(true),
		light.WithShadow(light.DefaultShadowSettings()),
	)
	fill := light.NewLight(light.LightTypeDirectional,
		light.WithColor(colorSky),
		light.WithIntensity(1),
		light.WithCastsShadows(true),
		light.WithShadow(light.DefaultShadowSettings()),
	)
	rig := []game_object.GameObject{
		game_object.NewGameObject(
			game_object.WithKind(game_object.KindLight),
			game_object.WithName("key-light"),
			game_object.WithLight(key),
			game_object.WithPosition(common.Scale3(sun, 100)),
		),
		game_object.NewGameObject(
			game_object.WithKind(game_object.KindLight),
			game_object.WithName("fill-light"),
			game_object.WithLight(fill),
			game_object.WithPosition([3]float32{-50, 50, -50}),
		),
		game_object.NewGameObject(
			game_object.WithKind(game_object.KindLight),
			game_object.WithName("ambient-light"),
			game_object.WithLight(light.NewLight(light.LightTypeAmbient, light.WithIntensity(0.2))),
		),
	}

	accents := []struct {
		pos   [3]float32
		color common.Color
	}{
		{[3]float32{0, 20, 0}, colorViolet},
		{[3]float32{0, 20, 50}, colorCyan},
		{[3]float32{0, 20, -50}, colorViolet},
	}
	for _, a := range accents {
		l := light.NewLight(light.LightTypePoint,
			light.WithColor(a.color),
			light.WithIntensity(2),
			light.WithDistance(100),
			light.WithDecay(2),
		)
		rig = append(rig, game_object.NewGameObject(
			game_object.WithKind(game_object.KindLight),
			game_object.WithName("accent-light"),
			game_object.WithLight(l),
			game_object.WithPosition(a.pos),
		))
	}
	return rig
}

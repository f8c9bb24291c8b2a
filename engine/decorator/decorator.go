// Package decorator assembles the per-discipline decoration elements of the
// race scene and the motion policies that animate them.
package decorator

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/samber/lo"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/animator"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/game_object"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/geometry"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/model"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/renderer/material"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/resource"
)

// TrackSpace is the node rotation that lays track-space geometry (outline in
// XY, height on +Z) onto the world ground plane (Y up): (x, y, z) maps to (x, z, -y).
var TrackSpace = [3]float32{-math.Pi / 2, 0, 0}

var (
	// ErrMissingTrack is returned when the velodrome decoration has no track mesh to follow.
	ErrMissingTrack = errors.New("decorator: keirin decoration requires a track mesh")
	// ErrMissingCourse is returned when the boat decoration has no water course.
	ErrMissingCourse = errors.New("decorator: boat decoration requires a water course")
)

// Deps are the collaborators a decoration is built against.
type Deps struct {
	// Tracker accounts every geometry and material created. Required.
	Tracker resource.Tracker

	// Rand drives every random placement. Required.
	Rand *rand.Rand

	// Track is the banked velodrome mesh. Required for keirin.
	Track *geometry.TrackMesh

	// Course is the water course. Required for boat.
	Course *geometry.WaterCourse
}

// Decoration is the full element set of one discipline activation.
type Decoration struct {
	// Objects are the scene nodes, in creation order.
	Objects []game_object.GameObject

	// Policies animate the objects.
	Policies []animator.Policy
}

// Count returns the number of objects carrying the kind tag.
func (d *Decoration) Count(kind game_object.Kind) int {
	return lo.CountBy(d.Objects, func(o game_object.GameObject) bool {
		return o.Kind() == kind
	})
}

// Counts returns the object count per kind.
func (d *Decoration) Counts() map[game_object.Kind]int {
	return lo.CountValuesBy(d.Objects, func(o game_object.GameObject) game_object.Kind {
		return o.Kind()
	})
}

// Dispose releases every object's model.
func (d *Decoration) Dispose() {
	for _, o := range d.Objects {
		o.Dispose()
	}
}

func (d *Decoration) add(obj game_object.GameObject, policies ...animator.Policy) {
	d.Objects = append(d.Objects, obj)
	d.Policies = append(d.Policies, policies...)
}

func (d *Decoration) merge(o *Decoration) {
	d.Objects = append(d.Objects, o.Objects...)
	d.Policies = append(d.Policies, o.Policies...)
}

// Decorate builds the decoration of one discipline: the common starfield,
// glow lights and grid, then either the velodrome set (cubes, boundary
// particles, finish line, lane lines) or the water set (water particles,
// buoys, start band). Element counts are fixed; only positions depend on
// the random source.
//
// Parameters:
//   - params: the track parameters of the discipline
//   - isBoat: selects the water set
//   - deps: the tracker, random source and built geometry
//
// Returns:
//   - *Decoration: the elements and their policies
//   - error: error if a required collaborator is missing
func Decorate(params geometry.TrackParameters, isBoat bool, deps Deps) (*Decoration, error) {
	if deps.Tracker == nil {
		panic("decorator: Decorate requires a non-nil Tracker")
	}
	if deps.Rand == nil {
		panic("decorator: Decorate requires a non-nil Rand")
	}
	if isBoat && deps.Course == nil {
		return nil, ErrMissingCourse
	}
	if !isBoat && deps.Track == nil {
		return nil, ErrMissingTrack
	}

	b := &builder{deps: deps}
	out := &Decoration{}
	out.merge(b.stars())
	out.merge(b.glowLights())
	out.merge(b.grid(isBoat))

	if isBoat {
		out.merge(b.waterParticles())
		out.merge(b.buoys())
		out.merge(b.startBand())
		return out, nil
	}

	out.merge(b.cubes(params))
	out.merge(b.boundaryParticles())
	finish, err := b.finishLine(params)
	if err != nil {
		out.Dispose()
		return nil, fmt.Errorf("failed to build finish line: %w", err)
	}
	out.merge(finish)
	out.merge(b.laneLines(params))
	return out, nil
}

// builder carries the shared collaborators of the element constructors.
type builder struct {
	deps Deps
}

func (b *builder) rand() float64 {
	return b.deps.Rand.Float64()
}

// element creates a tracked model from mesh and mat and wraps it in a node.
func (b *builder) element(kind game_object.Kind, name string, mesh geometry.Mesh, mat material.Material, opts ...game_object.GameObjectBuilderOption) game_object.GameObject {
	mdl := model.NewModel(
		model.WithName(name),
		model.WithMesh(mesh),
		model.WithMaterial(mat),
		model.WithTracker(b.deps.Tracker),
	)
	base := []game_object.GameObjectBuilderOption{
		game_object.WithKind(kind),
		game_object.WithName(name),
		game_object.WithModel(mdl),
	}
	return game_object.NewGameObject(append(base, opts...)...)
}

// glowMaterial returns a translucent additive unlit material.
func (b *builder) glowMaterial(name string, color common.Color, opacity float32, opts ...material.MaterialBuilderOption) material.Material {
	base := []material.MaterialBuilderOption{
		material.WithName(name),
		material.WithShading(material.ShadingBasic),
		material.WithBaseColor(color),
		material.WithOpacity(opacity),
		material.WithAdditiveBlending(),
		material.WithTracker(b.deps.Tracker),
	}
	return material.NewMaterial(append(base, opts...)...)
}

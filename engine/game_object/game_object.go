package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/light"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/model"
)

// Kind tags a node with the decoration role it plays in the scene.
type Kind string

const (
	KindTrack          Kind = "track"
	KindGround         Kind = "ground"
	KindWater          Kind = "water"
	KindGrid           Kind = "grid"
	KindStar           Kind = "star"
	KindGlow           Kind = "glow"
	KindLight          Kind = "light"
	KindCube           Kind = "cube"
	KindParticle       Kind = "particle"
	KindFinishBand     Kind = "finish-band"
	KindFinishParticle Kind = "finish-particle"
	KindLaneLine       Kind = "lane-line"
	KindRacingLine     Kind = "racing-line"
	KindLabel          Kind = "label"
	KindOverlay        Kind = "overlay"
	KindTube           Kind = "tube"
	KindBuoy           Kind = "buoy"
	KindWaterParticle  Kind = "water-particle"
	KindStartBand      Kind = "start-band"
)

type gameObject struct {
	id            atomic.Uint64
	name          string
	kind          Kind
	enabled       atomic.Bool
	mdl           model.Model
	attachedLight light.Light

	mu       sync.RWMutex
	position [3]float32
	rotation [3]float32
	scale    [3]float32
}

// GameObject defines the interface for a scene node. A node carries a
// transform and may own a Model, an attached Light, or both. Transform
// accessors are safe for concurrent use so the animation driver can write
// while outer surfaces read.
type GameObject interface {
	// ID returns the object's unique identifier. Zero until the scene assigns one.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Name returns the debug label.
	Name() string

	// Kind returns the decoration role tag.
	//
	// Returns:
	//   - Kind: the node kind
	Kind() Kind

	// Enabled returns whether this object is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Model returns the Model associated with this object, or nil if not set.
	//
	// Returns:
	//   - model.Model: the associated model or nil
	Model() model.Model

	// Light returns the attached light, or nil.
	//
	// Returns:
	//   - light.Light: the attached light or nil
	Light() light.Light

	// Position returns the local translation.
	Position() [3]float32

	// Rotation returns the Euler rotation in radians.
	Rotation() [3]float32

	// Scale returns the per-axis scale.
	Scale() [3]float32

	// ModelMatrix returns the column-major model matrix built from the transform.
	//
	// Returns:
	//   - [16]float32: the model matrix
	ModelMatrix() [16]float32

	// WorldPoint transforms a local-space point by the model matrix.
	//
	// Parameters:
	//   - p: the local point
	//
	// Returns:
	//   - [3]float32: the world point
	WorldPoint(p [3]float32) [3]float32

	// SetID assigns the identifier.
	SetID(id uint64)

	// SetEnabled toggles rendering.
	SetEnabled(enabled bool)

	// SetPosition sets the translation and moves an attached light with it.
	//
	// Parameters:
	//   - pos: the new translation
	SetPosition(pos [3]float32)

	// SetRotation sets the Euler rotation in radians.
	//
	// Parameters:
	//   - rot: the new rotation
	SetRotation(rot [3]float32)

	// SetScale sets the per-axis scale.
	//
	// Parameters:
	//   - scale: the new scale
	SetScale(scale [3]float32)

	// Dispose releases the owned Model. Safe to call more than once.
	Dispose()
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new scene node with unit scale, enabled, and the provided options applied.
// An attached light is moved to the node position.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		scale: [3]float32{1, 1, 1},
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	if obj.attachedLight != nil {
		obj.attachedLight.SetPosition(obj.position)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id.Load()
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Kind() Kind {
	return g.kind
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) Model() model.Model {
	return g.mdl
}

func (g *gameObject) Light() light.Light {
	return g.attachedLight
}

func (g *gameObject) Position() [3]float32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.position
}

func (g *gameObject) Rotation() [3]float32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rotation
}

func (g *gameObject) Scale() [3]float32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.scale
}

func (g *gameObject) ModelMatrix() [16]float32 {
	g.mu.RLock()
	pos, rot, scale := g.position, g.rotation, g.scale
	g.mu.RUnlock()

	var m [16]float32
	common.BuildModelMatrix(m[:], pos, rot, scale)
	return m
}

func (g *gameObject) WorldPoint(p [3]float32) [3]float32 {
	m := g.ModelMatrix()
	return common.TransformPoint(m[:], p)
}

func (g *gameObject) SetID(id uint64) {
	g.id.Store(id)
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) SetPosition(pos [3]float32) {
	g.mu.Lock()
	g.position = pos
	g.mu.Unlock()
	if g.attachedLight != nil {
		g.attachedLight.SetPosition(pos)
	}
}

func (g *gameObject) SetRotation(rot [3]float32) {
	g.mu.Lock()
	g.rotation = rot
	g.mu.Unlock()
}

func (g *gameObject) SetScale(scale [3]float32) {
	g.mu.Lock()
	g.scale = scale
	g.mu.Unlock()
}

func (g *gameObject) Dispose() {
	if g.mdl != nil {
		g.mdl.Dispose()
	}
}

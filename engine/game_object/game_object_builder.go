package game_object

import (
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/light"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/model"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id.Store(id)
	}
}

// WithName sets the debug label.
func WithName(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.name = name
	}
}

// WithKind sets the decoration role tag.
//
// Parameters:
//   - kind: the node kind
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Kind
func WithKind(kind Kind) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.kind = kind
	}
}

// WithEnabled sets whether the GameObject is enabled for rendering.
//
// Parameters:
//   - enabled: true to render the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithModel sets the Model for this GameObject.
//
// Parameters:
//   - m: the Model to associate
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Model
func WithModel(m model.Model) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.mdl = m
	}
}

// WithPosition sets the initial position of the GameObject.
//
// Parameters:
//   - pos: the translation
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial position
func WithPosition(pos [3]float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = pos
	}
}

// WithScale sets the initial scale of the GameObject.
//
// Parameters:
//   - scale: the per-axis scale factors
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial scale
func WithScale(scale [3]float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.scale = scale
	}
}

// WithRotation sets the initial Euler rotation of the GameObject in radians.
//
// Parameters:
//   - rot: the rotation angles
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial rotation
func WithRotation(rot [3]float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotation = rot
	}
}

// WithLight attaches a Light to the GameObject. The light follows the
// object's position whenever it is moved.
//
// Parameters:
//   - l: the Light to attach
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the attached light
func WithLight(l light.Light) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.attachedLight = l
	}
}

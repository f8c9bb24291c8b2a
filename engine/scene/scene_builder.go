package scene

import (
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/game_object"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithObjects adds initial objects to the scene.
// Objects without IDs will be assigned new IDs.
//
// Parameters:
//   - objects: the objects to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObjects(objects ...game_object.GameObject) SceneBuilderOption {
	return func(s *scene) {
		for _, obj := range objects {
			if obj.ID() == 0 {
				obj.SetID(s.nextID)
				s.nextID++
			}
			s.registry[obj.ID()] = obj
			if l := obj.Light(); l != nil {
				s.lights = append(s.lights, l)
			}
		}
	}
}

// WithBackground sets the clear color.
//
// Parameters:
//   - c: the background color
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBackground(c common.Color) SceneBuilderOption {
	return func(s *scene) {
		s.background = c
	}
}

// WithFog sets the distance fog.
//
// Parameters:
//   - f: the fog settings
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithFog(f Fog) SceneBuilderOption {
	return func(s *scene) {
		s.fog = f
	}
}

// WithBloom sets the post-process glow.
func WithBloom(b Bloom) SceneBuilderOption {
	return func(s *scene) {
		s.bloom = b
	}
}

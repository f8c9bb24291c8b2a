package composition

import (
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/animator"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/loader"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/resource"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/scene"
)

// RootBuilderOption is a functional option for configuring a Root via NewRoot.
type RootBuilderOption func(*root)

// WithScene is an option builder that sets the render-target scene. Required.
//
// Parameters:
//   - s: the scene the root populates
//
// Returns:
//   - RootBuilderOption: a function that applies the scene option to a root
func WithScene(s scene.Scene) RootBuilderOption {
	return func(r *root) {
		r.scene = s
	}
}

// WithTracker is an option builder that sets the resource tracker.
//
// Parameters:
//   - t: the tracker every geometry, material and texture is accounted in
//
// Returns:
//   - RootBuilderOption: a function that applies the tracker option to a root
func WithTracker(t resource.Tracker) RootBuilderOption {
	return func(r *root) {
		r.tracker = t
	}
}

// WithRand is an option builder that sets the random source of every placement.
// The default driver shares it.
func WithRand(rng *rand.Rand) RootBuilderOption {
	return func(r *root) {
		r.rng = rng
	}
}

// WithDriver is an option builder that replaces the default animation driver.
//
// Parameters:
//   - d: the driver
//
// Returns:
//   - RootBuilderOption: a function that applies the driver option to a root
func WithDriver(d animator.Driver) RootBuilderOption {
	return func(r *root) {
		r.driver = d
	}
}

// WithAsyncLoader is an option builder that sets the asset loader. Without one
// the optional assets are never requested. The root closes it on Close.
func WithAsyncLoader(l loader.AsyncLoader) RootBuilderOption {
	return func(r *root) {
		r.loader = l
	}
}

// WithAssets is an option builder that overrides the asset names.
func WithAssets(a Assets) RootBuilderOption {
	return func(r *root) {
		r.assets = a
	}
}

// WithLogger is an option builder that sets the lifecycle logger.
//
// Parameters:
//   - logger: the zerolog logger
//
// Returns:
//   - RootBuilderOption: a function that applies the logger option to a root
func WithLogger(logger zerolog.Logger) RootBuilderOption {
	return func(r *root) {
		r.logger = logger
	}
}

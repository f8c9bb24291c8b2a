package engine

import (
	"github.com/rs/zerolog"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/profiler"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables frame-time profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets the engine tick rate in frames per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.engineTickRate = rateInterval(fps)
	}
}

// WithFrameCallback registers a frame callback during engine construction.
//
// Parameters:
//   - callback: the frame function
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFrameCallback(callback FrameCallback) EngineBuilderOption {
	return func(e *engine) {
		if callback != nil {
			e.frameCallbacks = append(e.frameCallbacks, callback)
		}
	}
}

// WithLogger sets the logger of the frame loop and its default profiler.
//
// Parameters:
//   - logger: the zerolog logger
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(logger zerolog.Logger) EngineBuilderOption {
	return func(e *engine) {
		e.logger = logger
	}
}

// WithProfiler replaces the default profiler.
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

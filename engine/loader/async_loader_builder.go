package loader

import (
	"github.com/rs/zerolog"
)

// AsyncLoaderBuilderOption is a functional option for configuring an AsyncLoader via NewAsyncLoader.
type AsyncLoaderBuilderOption func(*asyncLoader)

// WithWorkers is an option builder that sets the worker cap of the load pool.
// Values below one are ignored.
//
// Parameters:
//   - n: the maximum concurrent loads
//
// Returns:
//   - AsyncLoaderBuilderOption: a function that applies the worker option
func WithWorkers(n int) AsyncLoaderBuilderOption {
	return func(a *asyncLoader) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithLogger is an option builder that sets the logger for load tracing.
//
// Parameters:
//   - logger: the zerolog logger
//
// Returns:
//   - AsyncLoaderBuilderOption: a function that applies the logger option
func WithLogger(logger zerolog.Logger) AsyncLoaderBuilderOption {
	return func(a *asyncLoader) {
		a.logger = logger
	}
}

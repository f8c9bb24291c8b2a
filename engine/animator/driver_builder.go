package animator

import "math/rand"

// DriverOption is a functional option for configuring a Driver.
type DriverOption func(*driver)

// WithNominalFrameRate sets the frame rate that per-call steps are scaled by.
// Non-positive values are ignored.
//
// Parameters:
//   - fps: the nominal frame rate
//
// Returns:
//   - DriverOption: option function to apply
func WithNominalFrameRate(fps float64) DriverOption {
	return func(d *driver) {
		if fps > 0 {
			d.nominalFPS = fps
		}
	}
}

// WithRand injects the random source used for respawn placement.
//
// Parameters:
//   - r: the random source
//
// Returns:
//   - DriverOption: option function to apply
func WithRand(r *rand.Rand) DriverOption {
	return func(d *driver) {
		d.rng = r
	}
}

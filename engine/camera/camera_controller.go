package camera

// CameraController defines the orbit control surface that owns the camera
// position and target. Position is expressed in spherical coordinates around
// the target: radius, azimuth around +Y measured from +Z, and polar angle
// measured from +Y. Every mutation is clamped to the configured limits.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - [3]float32: world-space camera position
	Position() [3]float32

	// Target returns the look-at point.
	//
	// Returns:
	//   - [3]float32: world-space target position
	Target() [3]float32

	// SetTarget sets the look-at/pivot point and recomputes position from spherical coordinates.
	//
	// Parameters:
	//   - target: world-space coordinates
	SetTarget(target [3]float32)

	// SetPosition places the camera at a world-space position. The spherical
	// coordinates are derived from the offset to the target and then clamped.
	//
	// Parameters:
	//   - pos: world-space coordinates
	SetPosition(pos [3]float32)

	// Zoom adjusts the camera's distance by modifying orbit radius.
	// Positive delta zooms in (closer to target).
	//
	// Parameters:
	//   - delta: zoom amount scaled by ZoomSpeed
	Zoom(delta float32)

	// Orbit rotates around the target.
	//
	// Parameters:
	//   - dAzimuth: azimuth change in radians
	//   - dPolar: polar change in radians
	Orbit(dAzimuth, dPolar float32)

	// Pan translates position and target along the camera's right and up axes.
	// Ignored when panning is disabled.
	//
	// Parameters:
	//   - dx: right-axis amount scaled by PanSpeed
	//   - dy: up-axis amount scaled by PanSpeed
	Pan(dx, dy float32)

	// Radius returns the current orbit radius (distance from target).
	Radius() float32

	// SetRadius sets the orbit radius directly, clamped to min/max bounds.
	SetRadius(radius float32)

	// Azimuth returns the current horizontal angle around the Y axis.
	Azimuth() float32

	// Polar returns the current angle from +Y.
	Polar() float32

	// Limits returns the configured constraints.
	//
	// Returns:
	//   - Limits: the constraints
	Limits() Limits

	// SetLimits replaces the constraints and re-clamps the current state.
	//
	// Parameters:
	//   - limits: the constraints
	SetLimits(limits Limits)
}

// Limits bounds what an orbit controller may do.
type Limits struct {
	// MinDistance and MaxDistance bound the orbit radius.
	MinDistance, MaxDistance float32

	// MinPolar and MaxPolar bound the angle from +Y.
	MinPolar, MaxPolar float32

	// PanEnabled allows Pan to move the target.
	PanEnabled bool
}

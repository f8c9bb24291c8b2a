package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithRadius sets the initial orbit radius (distance from target).
//
// Parameters:
//   - radius: distance from the orbit target
//
// Returns:
//   - CameraControllerOption: functional option to set the radius
func WithRadius(radius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.radius = radius
	}
}

// WithAzimuth sets the initial horizontal angle around the Y axis.
//
// Parameters:
//   - azimuth: horizontal angle in radians (0 = +Z axis)
//
// Returns:
//   - CameraControllerOption: functional option to set the azimuth
func WithAzimuth(azimuth float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.azimuth = azimuth
	}
}

// WithPolar sets the initial angle from +Y.
func WithPolar(polar float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.polar = polar
	}
}

// WithTarget sets the orbit pivot point.
//
// Parameters:
//   - target: world-space pivot
//
// Returns:
//   - CameraControllerOption: functional option to set the target
func WithTarget(target [3]float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = target
	}
}

// WithPosition starts the camera at a world position. Spherical coordinates
// are derived from it once every option has been applied.
//
// Parameters:
//   - pos: world-space start position
//
// Returns:
//   - CameraControllerOption: functional option to set the start position
func WithPosition(pos [3]float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		p := pos
		cc.start = &p
	}
}

// WithLimits sets the distance, polar, and pan constraints.
//
// Parameters:
//   - limits: the constraints
//
// Returns:
//   - CameraControllerOption: functional option to set the limits
func WithLimits(limits Limits) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.limits = limits
	}
}

// WithZoomSpeed sets the zoom speed multiplier.
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomSpeed = speed
	}
}

// WithPanSpeed sets the pan speed multiplier.
func WithPanSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.panSpeed = speed
	}
}

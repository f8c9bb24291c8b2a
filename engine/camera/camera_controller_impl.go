package camera

import (
	"math"
	"sync"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
)

// cameraControllerImpl is the single implementation of CameraController.
type cameraControllerImpl struct {
	mu *sync.Mutex

	// Camera position (computed from target + spherical coords)
	position [3]float32
	target   [3]float32

	// Spherical coordinates (offset from target)
	radius  float32
	azimuth float32 // around +Y, 0 = +Z
	polar   float32 // from +Y

	limits Limits

	zoomSpeed float32
	panSpeed  float32

	// start is a world position requested at construction, resolved after the target is known.
	start *[3]float32
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewOrbitController creates a new orbit controller with sensible defaults.
// Options that set a start position are applied after the limits so the
// derived spherical coordinates are clamped.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewOrbitController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:      &sync.Mutex{},
		radius:  50.0,
		azimuth: 0.0,
		polar:   float32(math.Pi / 3),
		limits: Limits{
			MinDistance: 1,
			MaxDistance: 1000,
			MinPolar:    0,
			MaxPolar:    math.Pi,
			PanEnabled:  true,
		},
		zoomSpeed: 1.0,
		panSpeed:  1.0,
	}

	for _, option := range options {
		option(cc)
	}
	if cc.start != nil {
		cc.fromPosition(*cc.start)
		cc.start = nil
	}
	cc.clamp()
	cc.updatePosition()
	return cc
}

// --- internal helpers ---

// updatePosition recomputes the camera position from spherical coordinates.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	sinPolar := float32(math.Sin(float64(cc.polar)))
	cosPolar := float32(math.Cos(float64(cc.polar)))
	sinAzim := float32(math.Sin(float64(cc.azimuth)))
	cosAzim := float32(math.Cos(float64(cc.azimuth)))

	cc.position[0] = cc.target[0] + cc.radius*sinPolar*sinAzim
	cc.position[1] = cc.target[1] + cc.radius*cosPolar
	cc.position[2] = cc.target[2] + cc.radius*sinPolar*cosAzim
}

// fromPosition derives spherical coordinates from a world position.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) fromPosition(pos [3]float32) {
	off := common.Sub3(pos, cc.target)
	r := common.Length3(off)
	if r < 1e-8 {
		return
	}
	cc.radius = r
	cc.azimuth = float32(math.Atan2(float64(off[0]), float64(off[2])))
	cc.polar = float32(math.Acos(common.Clamp(float64(off[1]/r), -1, 1)))
}

// clamp applies the limits to radius and polar angle. Caller must hold the mutex.
func (cc *cameraControllerImpl) clamp() {
	l := cc.limits
	cc.radius = float32(common.Clamp(float64(cc.radius), float64(l.MinDistance), float64(l.MaxDistance)))
	cc.polar = float32(common.Clamp(float64(cc.polar), float64(l.MinPolar), float64(l.MaxPolar)))
}

func (cc *cameraControllerImpl) Position() [3]float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) Target() [3]float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) SetTarget(target [3]float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = target
	cc.updatePosition()
}

func (cc *cameraControllerImpl) SetPosition(pos [3]float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.fromPosition(pos)
	cc.clamp()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius -= delta * cc.zoomSpeed
	cc.clamp()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Orbit(dAzimuth, dPolar float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth += dAzimuth
	cc.polar += dPolar
	cc.clamp()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Pan(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.limits.PanEnabled {
		return
	}

	back := common.Normalize3(common.Sub3(cc.position, cc.target))
	right := common.Normalize3(common.Cross3([3]float32{0, 1, 0}, back))
	up := common.Cross3(back, right)
	move := common.Add3(common.Scale3(right, dx*cc.panSpeed), common.Scale3(up, dy*cc.panSpeed))
	cc.target = common.Add3(cc.target, move)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) SetRadius(radius float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = radius
	cc.clamp()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) Polar() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.polar
}

func (cc *cameraControllerImpl) Limits() Limits {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.limits
}

func (cc *cameraControllerImpl) SetLimits(limits Limits) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.limits = limits
	cc.clamp()
	cc.updatePosition()
}

package composition

import (
	"math"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/camera"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/scene"
)

// Camera framing shared by both disciplines. The field of view is 50° in radians.
const (
	CameraFov  float32 = 50 * math.Pi / 180
	CameraNear float32 = 0.1
)

// CameraStart is the initial camera position of every activation.
var CameraStart = [3]float32{40, 30, 40}

var (
	colorBackground = common.Hex("#1a0d2b")
	colorTrack      = common.Hex("#444444")
	colorGround     = common.Hex("#1a0d2b")
	colorGroundGlow = common.Hex("#0a0518")
	colorWater      = common.Hex("#001e0f")
	colorViolet     = common.Hex("#8000ff")
	colorCyan       = common.Hex("#00ffff")
	colorPink       = common.Hex("#ff61d5")
	colorSky        = common.Hex("#61dafb")
)

// Preset is the per-discipline look configured once on activation.
type Preset struct {
	Background  common.Color
	Fog         scene.Fog
	Bloom       scene.Bloom
	Environment scene.Environment

	// CameraFar is the far clipping plane.
	CameraFar float32

	// Orbit bounds the camera controller and OrbitTarget is its pivot.
	Orbit       camera.Limits
	OrbitTarget [3]float32
}

// SunDirection returns the unit vector toward the sun at 60° elevation and 45° azimuth.
func SunDirection() [3]float32 {
	return common.SphericalToCartesian(1, common.DegToRad(90-60), common.DegToRad(45))
}

// PresetFor returns the look of a discipline.
//
// Parameters:
//   - d: the discipline
//
// Returns:
//   - Preset: the background, fog, bloom, sky, camera and orbit settings
func PresetFor(d common.Discipline) Preset {
	p := Preset{
		Background: colorBackground,
		Fog:        scene.Fog{Enabled: true, Color: colorBackground, Near: 100, Far: 1000},
		Bloom: scene.Bloom{
			Enabled:   true,
			Strength:  1.5,
			Radius:    0.9,
			Threshold: 0.1,
			Height:    300,
		},
		Environment: scene.Environment{SunDirection: SunDirection()},
		CameraFar:   1000,
		Orbit: camera.Limits{
			MinDistance: 30,
			MaxDistance: 150,
			MinPolar:    0,
			MaxPolar:    math.Pi / 2.5,
		},
	}
	if d.IsBoat() {
		p.CameraFar = 12000
		p.Environment.Sky = true
		p.Orbit.MinDistance = 50
		p.Orbit.MaxDistance = 200
		p.OrbitTarget = [3]float32{0, waterLevel, 0}
	}
	return p
}

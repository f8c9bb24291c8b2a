package camera

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keirinLimits() Limits {
	return Limits{MinDistance: 30, MaxDistance: 150, MaxPolar: math.Pi / 2.5}
}

func TestOrbitController_StartPosition(t *testing.T) {
	cc := NewOrbitController(WithLimits(keirinLimits()), WithPosition([3]float32{40, 30, 40}))

	p := cc.Position()
	assert.InDelta(t, 40, p[0], 1e-3)
	assert.InDelta(t, 30, p[1], 1e-3)
	assert.InDelta(t, 40, p[2], 1e-3)
	assert.InDelta(t, math.Sqrt(4100), cc.Radius(), 1e-3)
}

func TestOrbitController_ClampsDistance(t *testing.T) {
	cc := NewOrbitController(WithLimits(keirinLimits()), WithPosition([3]float32{40, 30, 40}))

	cc.Zoom(1000)
	assert.Equal(t, float32(30), cc.Radius())
	cc.Zoom(-1000)
	assert.Equal(t, float32(150), cc.Radius())
	cc.SetRadius(10)
	assert.Equal(t, float32(30), cc.Radius())
}

func TestOrbitController_ClampsPolar(t *testing.T) {
	cc := NewOrbitController(WithLimits(keirinLimits()), WithPosition([3]float32{40, 30, 40}))

	cc.Orbit(0, 10)
	assert.InDelta(t, math.Pi/2.5, cc.Polar(), 1e-6)
	assert.Greater(t, cc.Position()[1], float32(0), "camera stays above the ground plane")

	cc.Orbit(0, -10)
	assert.InDelta(t, 0, cc.Polar(), 1e-6)
}

func TestOrbitController_PanDisabled(t *testing.T) {
	target := [3]float32{0, -0.2, 0}
	cc := NewOrbitController(WithTarget(target), WithLimits(Limits{MinDistance: 50, MaxDistance: 200, MaxPolar: math.Pi / 2.5}))

	cc.Pan(5, 5)
	assert.Equal(t, target, cc.Target())

	cc.SetLimits(Limits{MinDistance: 50, MaxDistance: 200, MaxPolar: math.Pi / 2.5, PanEnabled: true})
	cc.Pan(5, 0)
	assert.NotEqual(t, target, cc.Target())
}

func TestCamera_UpdateMatrices(t *testing.T) {
	cc := NewOrbitController(WithPosition([3]float32{0, 0, 10}))
	cam := NewCamera(WithFar(12000), WithController(cc))

	require.NotNil(t, cam.Controller())
	assert.InDelta(t, 50*math.Pi/180, cam.Fov(), 1e-6)
	assert.Equal(t, float32(12000), cam.Far())

	view := cam.ViewMatrix()
	// Looking down -Z from z=10: view translation is -10 on z.
	assert.InDelta(t, -10, view[14], 1e-4)

	vp := cam.ViewProjectionMatrix()
	assert.NotEqual(t, [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}, vp)

	cam.SetAspect(2)
	proj := cam.ProjectionMatrix()
	assert.InDelta(t, proj[5]/2, proj[0], 1e-5)
}

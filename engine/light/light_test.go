package light

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
)

func TestNewLight_Defaults(t *testing.T) {
	l := NewLight(LightTypeAmbient)

	assert.Equal(t, LightTypeAmbient, l.Type())
	assert.Equal(t, "ambient", l.Type().String())
	assert.Equal(t, common.White, l.Color())
	assert.Equal(t, float32(1), l.Intensity())
	assert.True(t, l.Enabled())
	assert.False(t, l.CastsShadows())
	assert.Equal(t, DefaultShadowSettings(), l.Shadow())
	assert.Equal(t, [3]float32{0, -1, 0}, l.Direction())
}

func TestNewLight_Point(t *testing.T) {
	l := NewLight(LightTypePoint,
		WithPosition([3]float32{0, 20, 50}),
		WithColor(common.Hex("#00ffff")),
		WithIntensity(2),
		WithDistance(100),
		WithDecay(2),
	)

	assert.Equal(t, [3]float32{0, 20, 50}, l.Position())
	assert.Equal(t, float32(100), l.Distance())
	assert.Equal(t, float32(2), l.Decay())
	assert.Equal(t, common.Color{0, 1, 1, 1}, l.Color())
}

func TestNewLight_DirectionalShadow(t *testing.T) {
	l := NewLight(LightTypeDirectional,
		WithPosition([3]float32{0, 100, 0}),
		WithCastsShadows(true),
	)

	assert.True(t, l.CastsShadows())
	d := l.Direction()
	assert.InDelta(t, -1, d[1], 1e-6)

	s := l.Shadow()
	assert.Equal(t, 2048, s.MapSize)
	assert.Equal(t, float32(0.5), s.Near)
	assert.Equal(t, float32(500), s.Far)
	assert.Equal(t, float32(100), s.HalfExtent)
}

func TestLight_ConcurrentIntensity(t *testing.T) {
	l := NewLight(LightTypePoint)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(v float32) {
			defer wg.Done()
			l.SetIntensity(v)
			_ = l.Intensity()
		}(float32(i))
	}
	wg.Wait()

	l.SetIntensity(3)
	assert.Equal(t, float32(3), l.Intensity())
}

package material

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/resource"
)

func TestNewMaterial_Defaults(t *testing.T) {
	m := NewMaterial(WithName("plain"))

	assert.Equal(t, "plain", m.Name())
	assert.Equal(t, common.White, m.BaseColor())
	assert.Equal(t, float32(1), m.Opacity())
	assert.False(t, m.Transparent())
	assert.Nil(t, m.Blend())
	assert.Equal(t, wgpu.CullModeBack, m.CullMode())
	assert.True(t, m.DepthTest())
	assert.True(t, m.DepthWrite())
	assert.Nil(t, m.Handle())
	assert.False(t, m.Disposed())

	// Untracked dispose is a no-op.
	m.Dispose()
}

func TestNewMaterial_TrackAndDispose(t *testing.T) {
	tr := resource.NewTracker()
	m := NewMaterial(WithName("cube"), WithTracker(tr))

	require.NotNil(t, m.Handle())
	assert.Equal(t, 1, tr.CreatedOf(resource.KindMaterial))

	m.Dispose()
	m.Dispose()
	assert.True(t, m.Disposed())
	assert.Equal(t, 1, tr.DisposedOf(resource.KindMaterial))
}

func TestMaterial_BlendModes(t *testing.T) {
	add := NewMaterial(WithOpacity(0.7), WithAdditiveBlending())
	assert.True(t, add.Transparent())
	assert.True(t, add.Additive())
	assert.Equal(t, wgpu.BlendFactorOne, add.Blend().Color.DstFactor)

	// Opacity after additive keeps the additive state.
	add2 := NewMaterial(WithAdditiveBlending(), WithOpacity(0.9))
	assert.True(t, add2.Additive())

	alpha := NewMaterial(WithOpacity(0.8))
	assert.False(t, alpha.Additive())
	assert.Equal(t, wgpu.BlendFactorOneMinusSrcAlpha, alpha.Blend().Color.DstFactor)
}

func TestMaterial_OpacityClamped(t *testing.T) {
	m := NewMaterial(WithOpacity(2))
	assert.Equal(t, float32(1), m.Opacity())
	m.SetOpacity(-0.5)
	assert.Equal(t, float32(0), m.Opacity())
	m.SetOpacity(0.4)
	assert.Equal(t, float32(0.4), m.Opacity())
}

func TestMaterial_Uniforms(t *testing.T) {
	m := NewMaterial(WithShading(ShadingWater), WithUniform("time", 0), WithVector("sunDirection", [3]float32{0, 1, 0}))

	v, ok := m.Uniform("time")
	require.True(t, ok)
	assert.Equal(t, float32(0), v)

	m.SetUniform("time", 12.5)
	v, _ = m.Uniform("time")
	assert.Equal(t, float32(12.5), v)

	_, ok = m.Uniform("missing")
	assert.False(t, ok)

	sun, ok := m.Vector("sunDirection")
	require.True(t, ok)
	assert.Equal(t, [3]float32{0, 1, 0}, sun)
}

func TestMaterial_CloneIsIndependent(t *testing.T) {
	tr := resource.NewTracker()
	src := NewMaterial(
		WithName("track"),
		WithBaseColor(common.Hex("#444444")),
		WithEmissive(common.Hex("#8000ff"), 1),
		WithOpacity(0.8),
		WithDoubleSided(),
		WithUniform("k", 1),
		WithTracker(tr),
	)

	c := src.Clone()
	assert.Equal(t, 2, tr.CreatedOf(resource.KindMaterial))
	assert.NotEqual(t, src.Handle().ID(), c.Handle().ID())
	assert.Equal(t, wgpu.CullModeNone, c.CullMode())
	em, intensity := c.Emissive()
	assert.Equal(t, common.Hex("#8000ff"), em)
	assert.Equal(t, float32(1), intensity)

	c.SetOpacity(0.1)
	c.SetUniform("k", 2)
	assert.Equal(t, float32(0.8), src.Opacity())
	k, _ := src.Uniform("k")
	assert.Equal(t, float32(1), k)

	c.Dispose()
	assert.False(t, src.Disposed())
}

func TestMaterial_Texture(t *testing.T) {
	m := NewMaterial()
	assert.Nil(t, m.Texture())
	tex := &common.ImportedTexture{Name: "waternormals"}
	m.SetTexture(tex)
	assert.Same(t, tex, m.Texture())
}

func TestMaterial_RenderState(t *testing.T) {
	t.Run("opaque defaults", func(t *testing.T) {
		rs := NewMaterial().RenderState()
		assert.Equal(t, "standard", rs.Shading)
		assert.Equal(t, BlendOpaque, rs.Blend)
		assert.Empty(t, rs.SrcFactor)
		assert.Equal(t, "back", rs.CullMode)
		assert.True(t, rs.DepthTest)
		assert.True(t, rs.DepthWrite)
		assert.Nil(t, rs.Texture)
	})

	t.Run("additive double sided", func(t *testing.T) {
		rs := NewMaterial(
			WithShading(ShadingPoints),
			WithAdditiveBlending(),
			WithDoubleSided(),
			WithDepth(true, false),
		).RenderState()
		assert.Equal(t, "points", rs.Shading)
		assert.Equal(t, BlendAdditive, rs.Blend)
		assert.Equal(t, "src-alpha", rs.SrcFactor)
		assert.Equal(t, "one", rs.DstFactor)
		assert.Equal(t, "none", rs.CullMode)
		assert.False(t, rs.DepthWrite)
		assert.True(t, rs.Transparent)
	})

	t.Run("alpha", func(t *testing.T) {
		rs := NewMaterial(WithOpacity(0.5)).RenderState()
		assert.Equal(t, BlendAlpha, rs.Blend)
		assert.Equal(t, "one-minus-src-alpha", rs.DstFactor)
	})

	t.Run("texture sampler", func(t *testing.T) {
		m := NewMaterial()
		m.SetTexture(&common.ImportedTexture{Name: "plain", Width: 4, Height: 2})
		rs := m.RenderState()
		require.NotNil(t, rs.Texture)
		assert.Equal(t, "clamp-to-edge", rs.Texture.AddressModeU)
		assert.Equal(t, "linear", rs.Texture.MagFilter)
		assert.Equal(t, 4, rs.Texture.Width)

		m.SetTexture(&common.ImportedTexture{
			Name: "waternormals",
			SamplerData: &common.SamplerStagingData{
				AddressModeU: wgpu.AddressModeRepeat,
				AddressModeV: wgpu.AddressModeRepeat,
				MagFilter:    wgpu.FilterModeLinear,
				MinFilter:    wgpu.FilterModeNearest,
				RepeatU:      8,
				RepeatV:      8,
			},
		})
		rs = m.RenderState()
		assert.Equal(t, "repeat", rs.Texture.AddressModeU)
		assert.Equal(t, "repeat", rs.Texture.AddressModeV)
		assert.Equal(t, "nearest", rs.Texture.MinFilter)
		assert.Equal(t, float32(8), rs.Texture.RepeatU)
	})

	assert.Equal(t, BlendCustom, BlendName(&wgpu.BlendState{}))
}

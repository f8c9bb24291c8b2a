package material

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
)

// Blend mode names reported by RenderState.
const (
	BlendOpaque   = "opaque"
	BlendAlpha    = "alpha"
	BlendAdditive = "additive"
	BlendCustom   = "custom"
)

// RenderState is the pipeline-facing view of a material, in the vocabulary a
// rendering surface configures its wgpu pipeline and sampler with.
type RenderState struct {
	Shading      string        `json:"shading"`
	Blend        string        `json:"blend"`
	SrcFactor    string        `json:"src_factor,omitempty"`
	DstFactor    string        `json:"dst_factor,omitempty"`
	CullMode     string        `json:"cull_mode"`
	DepthTest    bool          `json:"depth_test"`
	DepthWrite   bool          `json:"depth_write"`
	Transparent  bool          `json:"transparent"`
	VertexColors bool          `json:"vertex_colors,omitempty"`
	Texture      *TextureState `json:"texture,omitempty"`
}

// TextureState describes the bound texture and how it is sampled.
type TextureState struct {
	Name         string  `json:"name"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	AddressModeU string  `json:"address_mode_u"`
	AddressModeV string  `json:"address_mode_v"`
	MagFilter    string  `json:"mag_filter"`
	MinFilter    string  `json:"min_filter"`
	RepeatU      float32 `json:"repeat_u"`
	RepeatV      float32 `json:"repeat_v"`
}

// BlendName classifies a blend state. Nil means opaque replacement.
func BlendName(b *wgpu.BlendState) string {
	switch {
	case b == nil:
		return BlendOpaque
	case *b == AdditiveBlend:
		return BlendAdditive
	case *b == AlphaBlend:
		return BlendAlpha
	}
	return BlendCustom
}

func (m *material) RenderState() RenderState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rs := RenderState{
		Shading:      m.shading.String(),
		Blend:        BlendName(m.blend),
		CullMode:     m.cullMode.String(),
		DepthTest:    m.depthTest,
		DepthWrite:   m.depthWrite,
		Transparent:  m.transparent,
		VertexColors: m.vertexColors,
	}
	if m.blend != nil {
		rs.SrcFactor = m.blend.Color.SrcFactor.String()
		rs.DstFactor = m.blend.Color.DstFactor.String()
	}
	if m.texture != nil {
		rs.Texture = textureState(m.texture)
	}
	return rs
}

func textureState(tex *common.ImportedTexture) *TextureState {
	s := tex.SamplerData
	if s == nil {
		s = common.DefaultSampler()
	}
	return &TextureState{
		Name:         tex.Name,
		Width:        tex.Width,
		Height:       tex.Height,
		AddressModeU: s.AddressModeU.String(),
		AddressModeV: s.AddressModeV.String(),
		MagFilter:    s.MagFilter.String(),
		MinFilter:    s.MinFilter.String(),
		RepeatU:      s.RepeatU,
		RepeatV:      s.RepeatV,
	}
}

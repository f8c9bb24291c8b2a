package material

import (
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/resource"
)

// Shading selects the lighting model the surface renderer applies.
type Shading int

const (
	// ShadingStandard is physically based metallic/roughness shading.
	ShadingStandard Shading = iota
	// ShadingBasic is unlit flat color.
	ShadingBasic
	// ShadingLine is unlit line rendering.
	ShadingLine
	// ShadingPoints is unlit point-sprite rendering.
	ShadingPoints
	// ShadingWater is the animated reflective water surface.
	ShadingWater
)

func (s Shading) String() string {
	switch s {
	case ShadingStandard:
		return "standard"
	case ShadingBasic:
		return "basic"
	case ShadingLine:
		return "line"
	case ShadingPoints:
		return "points"
	case ShadingWater:
		return "water"
	}
	return "unknown"
}

// AlphaBlend is the conventional premultiplied-free alpha blend state.
var AlphaBlend = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
}

// AdditiveBlend accumulates source color weighted by its alpha onto the target.
var AdditiveBlend = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOne,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOne,
		Operation: wgpu.BlendOperationAdd,
	},
}

// material is the implementation of the Material interface.
type material struct {
	mu sync.RWMutex

	name              string
	shading           Shading
	baseColor         common.Color
	emissive          common.Color
	emissiveIntensity float32
	metallic          float32
	roughness         float32
	opacity           float32
	transparent       bool
	blend             *wgpu.BlendState
	cullMode          wgpu.CullMode
	depthTest         bool
	depthWrite        bool
	vertexColors      bool
	wireframe         bool
	uniforms          map[string]float32
	vectors           map[string][3]float32
	texture           *common.ImportedTexture

	tracker resource.Tracker
	handle  resource.Handle
}

// Material describes the render state of one surface: color terms, opacity,
// blending, face culling, depth behavior, named shader uniforms and an optional
// texture. Opacity, uniforms and texture are mutable after construction so the
// animation pass and late asset loads can update them. Thread-safe.
type Material interface {
	// Name retrieves the material identifier.
	Name() string

	// Shading retrieves the lighting model.
	Shading() Shading

	// BaseColor retrieves the albedo RGBA color.
	BaseColor() common.Color

	// Emissive retrieves the emissive color and its intensity.
	//
	// Returns:
	//   - common.Color: the emissive color
	//   - float32: the emissive intensity
	Emissive() (common.Color, float32)

	// Metallic retrieves the metallic factor.
	Metallic() float32

	// Roughness retrieves the roughness factor.
	Roughness() float32

	// Opacity retrieves the current opacity.
	Opacity() float32

	// SetOpacity replaces the current opacity, clamped to [0, 1].
	//
	// Parameters:
	//   - opacity: the new opacity
	SetOpacity(opacity float32)

	// Transparent reports whether the surface is sorted and alpha-composited.
	Transparent() bool

	// Blend retrieves the blend state, or nil for opaque replacement.
	Blend() *wgpu.BlendState

	// Additive reports whether the blend state is additive.
	Additive() bool

	// CullMode retrieves the face culling mode. wgpu.CullModeNone renders both sides.
	CullMode() wgpu.CullMode

	// DepthTest reports whether fragments are depth tested.
	DepthTest() bool

	// DepthWrite reports whether fragments write depth.
	DepthWrite() bool

	// VertexColors reports whether per-vertex colors modulate the base color.
	VertexColors() bool

	// Wireframe reports whether triangles are drawn as edges.
	Wireframe() bool

	// Uniform retrieves a named scalar uniform.
	//
	// Parameters:
	//   - name: the uniform name
	//
	// Returns:
	//   - float32: the value
	//   - bool: whether the uniform is set
	Uniform(name string) (float32, bool)

	// SetUniform sets a named scalar uniform.
	SetUniform(name string, value float32)

	// Vector retrieves a named vector uniform.
	Vector(name string) ([3]float32, bool)

	// Texture retrieves the bound texture, or nil.
	Texture() *common.ImportedTexture

	// SetTexture binds a texture. Any previously bound texture is replaced.
	SetTexture(tex *common.ImportedTexture)

	// RenderState returns the blend, cull, depth and sampler settings as the
	// rendering surface consumes them.
	RenderState() RenderState

	// Clone returns an independent copy with its own resource handle.
	Clone() Material

	// Handle retrieves the resource handle, or nil for untracked materials.
	Handle() resource.Handle

	// Dispose releases the material's resource handle. Repeated calls are no-ops.
	Dispose()

	// Disposed reports whether Dispose has run.
	Disposed() bool
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
// When a tracker is supplied, the material registers one resource handle.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		baseColor:  common.White,
		metallic:   0.0,
		roughness:  1.0,
		opacity:    1.0,
		cullMode:   wgpu.CullModeBack,
		depthTest:  true,
		depthWrite: true,
		uniforms:   make(map[string]float32),
		vectors:    make(map[string][3]float32),
	}
	for _, opt := range options {
		opt(m)
	}
	if m.tracker != nil {
		m.handle = m.tracker.Track(resource.KindMaterial, m.name)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Shading() Shading {
	return m.shading
}

func (m *material) BaseColor() common.Color {
	return m.baseColor
}

func (m *material) Emissive() (common.Color, float32) {
	return m.emissive, m.emissiveIntensity
}

func (m *material) Metallic() float32 {
	return m.metallic
}

func (m *material) Roughness() float32 {
	return m.roughness
}

func (m *material) Opacity() float32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.opacity
}

func (m *material) SetOpacity(opacity float32) {
	m.mu.Lock()
	m.opacity = min(max(opacity, 0), 1)
	m.mu.Unlock()
}

func (m *material) Transparent() bool {
	return m.transparent
}

func (m *material) Blend() *wgpu.BlendState {
	return m.blend
}

func (m *material) Additive() bool {
	return m.blend != nil && *m.blend == AdditiveBlend
}

func (m *material) CullMode() wgpu.CullMode {
	return m.cullMode
}

func (m *material) DepthTest() bool {
	return m.depthTest
}

func (m *material) DepthWrite() bool {
	return m.depthWrite
}

func (m *material) VertexColors() bool {
	return m.vertexColors
}

func (m *material) Wireframe() bool {
	return m.wireframe
}

func (m *material) Uniform(name string) (float32, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.uniforms[name]
	return v, ok
}

func (m *material) SetUniform(name string, value float32) {
	m.mu.Lock()
	m.uniforms[name] = value
	m.mu.Unlock()
}

func (m *material) Vector(name string) ([3]float32, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vectors[name]
	return v, ok
}

func (m *material) Texture() *common.ImportedTexture {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.texture
}

func (m *material) SetTexture(tex *common.ImportedTexture) {
	m.mu.Lock()
	m.texture = tex
	m.mu.Unlock()
}

func (m *material) Clone() Material {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c := &material{
		name:              m.name,
		shading:           m.shading,
		baseColor:         m.baseColor,
		emissive:          m.emissive,
		emissiveIntensity: m.emissiveIntensity,
		metallic:          m.metallic,
		roughness:         m.roughness,
		opacity:           m.opacity,
		transparent:       m.transparent,
		blend:             m.blend,
		cullMode:          m.cullMode,
		depthTest:         m.depthTest,
		depthWrite:        m.depthWrite,
		vertexColors:      m.vertexColors,
		wireframe:         m.wireframe,
		uniforms:          make(map[string]float32, len(m.uniforms)),
		vectors:           make(map[string][3]float32, len(m.vectors)),
		texture:           m.texture,
		tracker:           m.tracker,
	}
	for k, v := range m.uniforms {
		c.uniforms[k] = v
	}
	for k, v := range m.vectors {
		c.vectors[k] = v
	}
	if c.tracker != nil {
		c.handle = c.tracker.Track(resource.KindMaterial, c.name)
	}
	return c
}

func (m *material) Handle() resource.Handle {
	return m.handle
}

func (m *material) Dispose() {
	if m.handle != nil {
		m.handle.Dispose()
	}
}

func (m *material) Disposed() bool {
	return m.handle != nil && m.handle.Disposed()
}

package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/geometry"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/model"
)

// gltfBackend imports static triangle meshes and their materials from .gltf and .glb files.
type gltfBackend struct{}

var _ loaderBackend = &gltfBackend{}

func (b *gltfBackend) Load(path string) (*model.ImportedModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return b.decode(modelName(path), data, filepath.Dir(path))
}

func (b *gltfBackend) LoadReader(name string, r io.Reader, baseDir string) (*model.ImportedModel, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	return b.decode(name, data, baseDir)
}

func (b *gltfBackend) decode(name string, data []byte, baseDir string) (*model.ImportedModel, error) {
	p, err := parseGLTF(data, baseDir)
	if err != nil {
		return nil, err
	}

	im := &model.ImportedModel{Name: name}
	if p.doc.Scene != nil && *p.doc.Scene < len(p.doc.Scenes) && p.doc.Scenes[*p.doc.Scene].Name != "" {
		im.Name = p.doc.Scenes[*p.doc.Scene].Name
	}

	for mi := range p.doc.Meshes {
		mesh := &p.doc.Meshes[mi]
		for pi := range mesh.Primitives {
			imported, err := p.extractPrimitive(&mesh.Primitives[pi], mesh.Name, pi)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			im.Meshes = append(im.Meshes, *imported)
		}
	}

	for i := range p.doc.Materials {
		mat, err := p.extractMaterial(i)
		if err != nil {
			return nil, fmt.Errorf("material %d: %w", i, err)
		}
		im.Materials = append(im.Materials, mat)
	}
	return im, nil
}

// extractPrimitive converts one triangle primitive. Normals are generated when
// the file omits them.
func (p *gltfParser) extractPrimitive(prim *gltfPrimitive, meshName string, primIndex int) (*model.ImportedMesh, error) {
	if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
		return nil, fmt.Errorf("unsupported primitive mode %d (only triangles)", *prim.Mode)
	}
	posIndex, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("primitive has no POSITION attribute")
	}
	positions, width, err := p.readAccessor(posIndex)
	if err != nil || width != 3 {
		return nil, fmt.Errorf("failed to read positions: %w", orWidth(err, width, 3))
	}

	count := len(positions) / 3
	mesh := geometry.Mesh{Topology: geometry.TopologyTriangles, Vertices: make([]geometry.Vertex, count)}
	for i := range mesh.Vertices {
		mesh.Vertices[i].Position = [3]float32{positions[i*3], positions[i*3+1], positions[i*3+2]}
		mesh.Vertices[i].Color = common.White
	}

	hasNormals := false
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, w, err := p.readAccessor(idx)
		if err != nil || w != 3 {
			return nil, fmt.Errorf("failed to read normals: %w", orWidth(err, w, 3))
		}
		for i := 0; i < count && i*3+2 < len(normals); i++ {
			mesh.Vertices[i].Normal = [3]float32{normals[i*3], normals[i*3+1], normals[i*3+2]}
		}
		hasNormals = true
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, w, err := p.readAccessor(idx)
		if err != nil || w != 2 {
			return nil, fmt.Errorf("failed to read texcoords: %w", orWidth(err, w, 2))
		}
		for i := 0; i < count && i*2+1 < len(uvs); i++ {
			mesh.Vertices[i].TexCoord = [2]float32{uvs[i*2], uvs[i*2+1]}
		}
	}
	if idx, ok := prim.Attributes["COLOR_0"]; ok {
		colors, w, err := p.readAccessor(idx)
		if err != nil || (w != 3 && w != 4) {
			return nil, fmt.Errorf("failed to read colors: %w", orWidth(err, w, 4))
		}
		for i := 0; i < count && i*w+w-1 < len(colors); i++ {
			c := common.White
			copy(c[:w], colors[i*w:i*w+w])
			mesh.Vertices[i].Color = c
		}
	}

	if prim.Indices != nil {
		if mesh.Indices, err = p.readIndices(*prim.Indices); err != nil {
			return nil, fmt.Errorf("failed to read indices: %w", err)
		}
	} else {
		mesh.Indices = make([]uint32, count)
		for i := range mesh.Indices {
			mesh.Indices[i] = uint32(i)
		}
	}
	if !hasNormals {
		mesh.ComputeNormals()
	}

	name := meshName
	if name == "" {
		name = fmt.Sprintf("mesh_%d", primIndex)
	}
	if primIndex > 0 {
		name = fmt.Sprintf("%s_prim%d", name, primIndex)
	}
	mesh.Name = name

	materialIndex := -1
	if prim.Material != nil {
		materialIndex = *prim.Material
	}
	bmin, bmax := mesh.Bounds()
	return &model.ImportedMesh{
		Name:          name,
		Mesh:          mesh,
		MaterialIndex: materialIndex,
		BoundingMin:   bmin,
		BoundingMax:   bmax,
	}, nil
}

// extractMaterial reads the metallic-roughness factors and base color texture of a material.
func (p *gltfParser) extractMaterial(index int) (common.ImportedMaterial, error) {
	src := &p.doc.Materials[index]
	out := common.ImportedMaterial{
		Name:        src.Name,
		BaseColor:   common.White,
		Metallic:    1,
		Roughness:   1,
		Opacity:     1,
		DoubleSided: src.DoubleSided,
	}
	if src.EmissiveFactor != nil {
		e := *src.EmissiveFactor
		out.Emissive = common.Color{e[0], e[1], e[2], 1}
	}

	pbr := src.PbrMetallicRoughness
	if pbr == nil {
		return out, nil
	}
	if pbr.BaseColorFactor != nil {
		out.BaseColor = *pbr.BaseColorFactor
		if src.AlphaMode == "BLEND" {
			out.Opacity = out.BaseColor[3]
		}
	}
	if pbr.MetallicFactor != nil {
		out.Metallic = *pbr.MetallicFactor
	}
	if pbr.RoughnessFactor != nil {
		out.Roughness = *pbr.RoughnessFactor
	}
	if pbr.BaseColorTexture != nil {
		tex, err := p.extractTexture(pbr.BaseColorTexture.Index)
		if err != nil {
			return out, fmt.Errorf("material %q: base color texture: %w", src.Name, err)
		}
		if tex != nil {
			out.DiffuseTexture = tex
			out.DiffuseTexturePath = tex.Path
		}
	}
	return out, nil
}

// extractTexture resolves a texture to its image bytes, embedded or on disk.
// A missing external file yields a texture with only Path set.
func (p *gltfParser) extractTexture(index int) (*common.ImportedTexture, error) {
	if index < 0 || index >= len(p.doc.Textures) {
		return nil, fmt.Errorf("texture index %d out of range", index)
	}
	tex := &p.doc.Textures[index]
	if tex.Source == nil {
		return nil, nil
	}
	if *tex.Source < 0 || *tex.Source >= len(p.doc.Images) {
		return nil, fmt.Errorf("image index %d out of range", *tex.Source)
	}
	img := &p.doc.Images[*tex.Source]

	out := &common.ImportedTexture{Name: img.Name, MimeType: img.MimeType}
	if tex.Sampler != nil && *tex.Sampler >= 0 && *tex.Sampler < len(p.doc.Samplers) {
		out.SamplerData = gltfSampler2Staging(&p.doc.Samplers[*tex.Sampler])
	}

	switch {
	case img.BufferView != nil:
		view, _, err := p.bufferView(*img.BufferView)
		if err != nil {
			return nil, fmt.Errorf("failed to read image buffer view: %w", err)
		}
		out.Data = append([]byte(nil), view...)
	case strings.HasPrefix(img.URI, "data:"):
		data, mime, err := decodeDataURI(img.URI)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image data URI: %w", err)
		}
		out.Data = data
		if out.MimeType == "" {
			out.MimeType = mime
		}
	case img.URI != "":
		out.Path = filepath.Join(p.baseDir, img.URI)
		if data, err := os.ReadFile(out.Path); err == nil {
			out.Data = data
		}
	default:
		return nil, nil
	}
	return out, nil
}

// gltfSampler2Staging maps a glTF sampler onto sampler staging data. Unset
// fields keep the glTF defaults of linear filtering and repeat wrapping.
func gltfSampler2Staging(s *gltfSampler) *common.SamplerStagingData {
	out := &common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeRepeat,
		AddressModeV: wgpu.AddressModeRepeat,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
		RepeatU:      1,
		RepeatV:      1,
	}
	if s.MagFilter != nil && *s.MagFilter == gltfFilterNearest {
		out.MagFilter = wgpu.FilterModeNearest
	}
	if s.MinFilter != nil {
		switch *s.MinFilter {
		case gltfFilterNearest, gltfFilterNearestMipmapNearest, gltfFilterNearestMipmapLinear:
			out.MinFilter = wgpu.FilterModeNearest
		}
	}
	if s.WrapS != nil {
		out.AddressModeU = gltfWrap(*s.WrapS)
	}
	if s.WrapT != nil {
		out.AddressModeV = gltfWrap(*s.WrapT)
	}
	return out
}

func gltfWrap(wrap int) wgpu.AddressMode {
	switch wrap {
	case gltfWrapClampToEdge:
		return wgpu.AddressModeClampToEdge
	case gltfWrapMirroredRepeat:
		return wgpu.AddressModeMirrorRepeat
	}
	return wgpu.AddressModeRepeat
}

// orWidth reports err, or a width mismatch when err is nil.
func orWidth(err error, got, want int) error {
	if err != nil {
		return err
	}
	return fmt.Errorf("expected %d components, got %d", want, got)
}

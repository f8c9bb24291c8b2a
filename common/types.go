// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// Discipline selects one of the two supported race types.
type Discipline string

const (
	// DisciplineKeirin is the banked land velodrome.
	DisciplineKeirin Discipline = "keirin"
	// DisciplineBoat is the water course.
	DisciplineBoat Discipline = "boat"
)

// ErrUnknownDiscipline is returned by ParseDiscipline for tags outside the known set.
var ErrUnknownDiscipline = errors.New("unknown discipline")

// ParseDiscipline validates a discipline tag received from an outer surface.
//
// Parameters:
//   - s: the raw tag, matched case-insensitively
//
// Returns:
//   - Discipline: the parsed discipline
//   - error: ErrUnknownDiscipline if the tag is not keirin or boat
func ParseDiscipline(s string) (Discipline, error) {
	switch Discipline(strings.ToLower(strings.TrimSpace(s))) {
	case DisciplineKeirin:
		return DisciplineKeirin, nil
	case DisciplineBoat:
		return DisciplineBoat, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDiscipline, s)
}

// IsBoat reports whether d is the water discipline.
func (d Discipline) IsBoat() bool {
	return d == DisciplineBoat
}

// Color is a linear RGBA color with components in [0, 1].
type Color [4]float32

// White is opaque white.
var White = Color{1, 1, 1, 1}

// ParseHexColor converts a "#rrggbb" or "rrggbb" string into an opaque Color.
//
// Parameters:
//   - hex: the hex string
//
// Returns:
//   - Color: the parsed color
//   - error: error if the string is not six hex digits
func ParseHexColor(hex string) (Color, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q", hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return Color{
		float32((v>>16)&0xff) / 255,
		float32((v>>8)&0xff) / 255,
		float32(v&0xff) / 255,
		1,
	}, nil
}

// Hex is ParseHexColor for compile-time constants. It panics on malformed input.
func Hex(hex string) Color {
	c, err := ParseHexColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// Lerp blends c toward o by t, alpha included.
func (c Color) Lerp(o Color, t float32) Color {
	return Color{
		c[0] + (o[0]-c[0])*t,
		c[1] + (o[1]-c[1])*t,
		c[2] + (o[2]-c[2])*t,
		c[3] + (o[3]-c[3])*t,
	}
}

// RGB returns the color without alpha.
func (c Color) RGB() [3]float32 {
	return [3]float32{c[0], c[1], c[2]}
}

// SamplerStagingData holds the sampling configuration for a texture slot.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV specify how texture coordinates outside [0, 1] are resolved.
	AddressModeU, AddressModeV wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// RepeatU and RepeatV scale texture coordinates before addressing.
	RepeatU, RepeatV float32
}

// DefaultSampler returns a linear, clamp-to-edge sampler with unit repeat.
func DefaultSampler() *SamplerStagingData {
	return &SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
		RepeatU:      1,
		RepeatV:      1,
	}
}

// ImportedMaterial represents material properties from an imported model file.
type ImportedMaterial struct {
	// Name is the material identifier.
	Name string

	// BaseColor is the albedo/diffuse color (RGBA).
	BaseColor Color

	// Metallic factor (0.0 = dielectric, 1.0 = metal).
	Metallic float32

	// Roughness factor (0.0 = smooth, 1.0 = rough).
	Roughness float32

	// Opacity is the material's dissolve factor.
	Opacity float32

	// Emissive is the self-illumination color.
	Emissive Color

	// DoubleSided disables back-face culling.
	DoubleSided bool

	// DiffuseTexture holds the albedo image when the model embeds or references one.
	DiffuseTexture *ImportedTexture

	// DiffuseTexturePath is the file path for the diffuse/albedo texture.
	DiffuseTexturePath string
}

// ImportedTexture represents texture data from an asset file.
// For embedded textures the Data field contains raw image bytes.
// For external textures the Path field contains the file path.
type ImportedTexture struct {
	// Name is an identifier for this texture (e.g., "waternormals").
	Name string

	// Path is the file path for external textures (empty for embedded).
	Path string

	// MimeType is the declared image type of embedded data, if any.
	MimeType string

	// Data contains raw image bytes for embedded textures (PNG/JPEG).
	Data []byte

	// Pixels holds decoded RGBA pixels after Decode.
	Pixels []byte

	// Width is the texture width in pixels (populated after Decode).
	Width int

	// Height is the texture height in pixels (populated after Decode).
	Height int

	// SamplerData holds sampling parameters. Nil means DefaultSampler.
	SamplerData *SamplerStagingData
}

// Decode decodes the texture to raw RGBA pixel data and caches it in Pixels.
// Uses either embedded Data bytes or loads from Path on disk.
// Supports PNG and JPEG formats.
//
// Returns:
//   - error: error if decoding fails
func (t *ImportedTexture) Decode() error {
	if t == nil {
		return fmt.Errorf("texture is nil")
	}

	var img image.Image
	var err error

	switch {
	case len(t.Data) > 0:
		img, _, err = image.Decode(bytes.NewReader(t.Data))
		if err != nil {
			return fmt.Errorf("failed to decode embedded image: %w", err)
		}
	case t.Path != "":
		file, fileErr := os.Open(t.Path)
		if fileErr != nil {
			return fmt.Errorf("failed to open texture file %s: %w", t.Path, fileErr)
		}
		defer file.Close()

		img, _, err = image.Decode(file)
		if err != nil {
			return fmt.Errorf("failed to decode texture file %s: %w", t.Path, err)
		}
	default:
		return fmt.Errorf("texture has neither data nor path")
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	t.Pixels = rgba.Pix
	t.Width = bounds.Dx()
	t.Height = bounds.Dy()
	return nil
}

package loader

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

var (
	errInvalidGLTFVersion = errors.New("invalid glTF version: must be 2.x")
	errInvalidGLBHeader   = errors.New("invalid GLB header")
	errMissingJSONChunk   = errors.New("GLB file missing JSON chunk")
	errInvalidDataURI     = errors.New("invalid data URI")
	errBufferSizeMismatch = errors.New("buffer size mismatch")
	errSparseAccessor     = errors.New("sparse accessors are not supported")
)

// gltfParser holds a decoded glTF document with its buffers resolved.
type gltfParser struct {
	baseDir string
	doc     *gltfDocument
	bin     []byte
}

// parseGLTF decodes a .gltf JSON or .glb container. GLB is detected by its magic
// number, so the extension does not matter.
//
// Parameters:
//   - data: the file contents
//   - baseDir: the directory external URIs resolve against
//
// Returns:
//   - *gltfParser: the parsed document
//   - error: error if the container or document is malformed
func parseGLTF(data []byte, baseDir string) (*gltfParser, error) {
	p := &gltfParser{baseDir: baseDir}

	jsonData := data
	if len(data) >= 4 && binary.LittleEndian.Uint32(data) == gltfGLBMagic {
		var err error
		if jsonData, p.bin, err = splitGLB(data); err != nil {
			return nil, err
		}
	}

	var doc gltfDocument
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return nil, errInvalidGLTFVersion
	}
	p.doc = &doc

	if err := p.loadBuffers(); err != nil {
		return nil, fmt.Errorf("failed to load buffers: %w", err)
	}
	return p, nil
}

// splitGLB returns the JSON and BIN chunks of a GLB container.
func splitGLB(data []byte) ([]byte, []byte, error) {
	if len(data) < 12 || binary.LittleEndian.Uint32(data[4:]) != gltfGLBVersion {
		return nil, nil, errInvalidGLBHeader
	}

	var jsonChunk, binChunk []byte
	for off := 12; off+8 <= len(data); {
		length := int(binary.LittleEndian.Uint32(data[off:]))
		kind := binary.LittleEndian.Uint32(data[off+4:])
		start := off + 8
		if start+length > len(data) {
			return nil, nil, fmt.Errorf("GLB chunk at %d overruns file", off)
		}
		switch kind {
		case gltfGLBChunkJSON:
			jsonChunk = data[start : start+length]
		case gltfGLBChunkBIN:
			binChunk = data[start : start+length]
		}
		off = start + length
	}

	if jsonChunk == nil {
		return nil, nil, errMissingJSONChunk
	}
	return jsonChunk, binChunk, nil
}

// loadBuffers resolves every buffer from the GLB binary chunk, a data URI or a file.
func (p *gltfParser) loadBuffers() error {
	for i := range p.doc.Buffers {
		buf := &p.doc.Buffers[i]

		switch {
		case buf.URI == "" && i == 0 && p.bin != nil:
			buf.Data = p.bin
		case buf.URI == "":
			return fmt.Errorf("buffer %d has no URI and no GLB binary chunk", i)
		case strings.HasPrefix(buf.URI, "data:"):
			data, _, err := decodeDataURI(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.Data = data
		default:
			data, err := os.ReadFile(filepath.Join(p.baseDir, buf.URI))
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.Data = data
		}

		if len(buf.Data) < buf.ByteLength {
			return fmt.Errorf("buffer %d: %w", i, errBufferSizeMismatch)
		}
	}
	return nil
}

// decodeDataURI decodes a base64 "data:[<mediatype>];base64,<data>" URI.
//
// Returns:
//   - []byte: the decoded payload
//   - string: the media type, possibly empty
//   - error: errInvalidDataURI if the URI is malformed
func decodeDataURI(uri string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", errInvalidDataURI
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", errInvalidDataURI
	}
	mime, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return nil, "", fmt.Errorf("%w: only base64 payloads are supported", errInvalidDataURI)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode base64: %w", err)
	}
	return data, mime, nil
}

// bufferView returns the raw bytes of a buffer view.
func (p *gltfParser) bufferView(index int) ([]byte, *gltfBufferView, error) {
	if index < 0 || index >= len(p.doc.BufferViews) {
		return nil, nil, fmt.Errorf("bufferView index %d out of range", index)
	}
	bv := &p.doc.BufferViews[index]
	if bv.Buffer < 0 || bv.Buffer >= len(p.doc.Buffers) {
		return nil, nil, fmt.Errorf("buffer index %d out of range", bv.Buffer)
	}
	data := p.doc.Buffers[bv.Buffer].Data
	end := bv.ByteOffset + bv.ByteLength
	if end > len(data) {
		return nil, nil, fmt.Errorf("bufferView %d exceeds buffer bounds", index)
	}
	return data[bv.ByteOffset:end], bv, nil
}

// readAccessor decodes an accessor into float components. Integer components are
// normalized to [0, 1] or [-1, 1] when the accessor says so.
//
// Parameters:
//   - index: the accessor index
//
// Returns:
//   - []float32: count × width components, tightly packed
//   - int: the element width
//   - error: error if the accessor cannot be read
func (p *gltfParser) readAccessor(index int) ([]float32, int, error) {
	if index < 0 || index >= len(p.doc.Accessors) {
		return nil, 0, fmt.Errorf("accessor index %d out of range", index)
	}
	acc := &p.doc.Accessors[index]
	if acc.Sparse != nil {
		return nil, 0, errSparseAccessor
	}
	if acc.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor %d has no bufferView", index)
	}
	width, ok := gltfAccessorWidth[acc.Type]
	if !ok {
		return nil, 0, fmt.Errorf("accessor %d has unknown type %q", index, acc.Type)
	}
	size := componentSize(acc.ComponentType)
	if size == 0 {
		return nil, 0, fmt.Errorf("accessor %d has unknown component type %d", index, acc.ComponentType)
	}

	view, bv, err := p.bufferView(*acc.BufferView)
	if err != nil {
		return nil, 0, err
	}
	stride := width * size
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}
	if acc.Count > 0 && acc.ByteOffset+(acc.Count-1)*stride+width*size > len(view) {
		return nil, 0, fmt.Errorf("accessor %d exceeds its bufferView", index)
	}

	out := make([]float32, 0, acc.Count*width)
	for i := 0; i < acc.Count; i++ {
		base := acc.ByteOffset + i*stride
		for c := 0; c < width; c++ {
			out = append(out, readComponent(view[base+c*size:], acc.ComponentType, acc.Normalized))
		}
	}
	return out, width, nil
}

// readIndices decodes an unsigned scalar index accessor. Indices are read as
// integers directly so 32-bit values keep full precision.
func (p *gltfParser) readIndices(index int) ([]uint32, error) {
	if index < 0 || index >= len(p.doc.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", index)
	}
	acc := &p.doc.Accessors[index]
	if acc.Type != "SCALAR" || acc.BufferView == nil {
		return nil, fmt.Errorf("index accessor %d is not a SCALAR view", index)
	}
	size := componentSize(acc.ComponentType)
	if acc.ComponentType == gltfComponentTypeByte || acc.ComponentType == gltfComponentTypeShort || acc.ComponentType == gltfComponentTypeFloat || size == 0 {
		return nil, fmt.Errorf("unsupported index component type %d", acc.ComponentType)
	}

	view, bv, err := p.bufferView(*acc.BufferView)
	if err != nil {
		return nil, err
	}
	stride := size
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}
	if acc.Count > 0 && acc.ByteOffset+(acc.Count-1)*stride+size > len(view) {
		return nil, fmt.Errorf("index accessor %d exceeds its bufferView", index)
	}

	out := make([]uint32, acc.Count)
	for i := range out {
		b := view[acc.ByteOffset+i*stride:]
		switch size {
		case 1:
			out[i] = uint32(b[0])
		case 2:
			out[i] = uint32(binary.LittleEndian.Uint16(b))
		default:
			out[i] = binary.LittleEndian.Uint32(b)
		}
	}
	return out, nil
}

func componentSize(componentType int) int {
	switch componentType {
	case gltfComponentTypeByte, gltfComponentTypeUnsignedByte:
		return 1
	case gltfComponentTypeShort, gltfComponentTypeUnsignedShort:
		return 2
	case gltfComponentTypeUnsignedInt, gltfComponentTypeFloat:
		return 4
	}
	return 0
}

func readComponent(b []byte, componentType int, normalized bool) float32 {
	switch componentType {
	case gltfComponentTypeFloat:
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	case gltfComponentTypeUnsignedInt:
		return float32(binary.LittleEndian.Uint32(b))
	case gltfComponentTypeUnsignedShort:
		v := float32(binary.LittleEndian.Uint16(b))
		if normalized {
			return v / math.MaxUint16
		}
		return v
	case gltfComponentTypeShort:
		v := float32(int16(binary.LittleEndian.Uint16(b)))
		if normalized {
			return max(v/math.MaxInt16, -1)
		}
		return v
	case gltfComponentTypeUnsignedByte:
		if normalized {
			return float32(b[0]) / math.MaxUint8
		}
		return float32(b[0])
	case gltfComponentTypeByte:
		v := float32(int8(b[0]))
		if normalized {
			return max(v/math.MaxInt8, -1)
		}
		return v
	}
	return 0
}

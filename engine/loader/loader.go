// Package loader imports the external assets of the race scene: decorative
// models (glTF/GLB and OBJ+MTL), textures and typeface fonts. Loader is the
// synchronous, cached importer; AsyncLoader runs it on a worker pool and
// delivers results through callbacks.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/model"
)

// AssetKind identifies what a load request produces.
type AssetKind int

const (
	// AssetModel is a decorative 3D model.
	AssetModel AssetKind = iota
	// AssetTexture is a decoded RGBA image.
	AssetTexture
	// AssetFont is a typeface JSON font.
	AssetFont
)

func (k AssetKind) String() string {
	switch k {
	case AssetModel:
		return "model"
	case AssetTexture:
		return "texture"
	case AssetFont:
		return "font"
	}
	return "unknown"
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	baseDir string

	modelCache map[string]*model.ImportedModel
	fontCache  map[string]*Font

	backends map[string]loaderBackend
}

// Loader defines the public-facing interface for importing and caching assets.
// It abstracts the model file format behind a backend chosen by extension and
// caches imported models and fonts by resolved path. Textures are decoded on
// every call because callers take ownership of the pixel data.
type Loader interface {
	// LoadModel imports a model file and caches the result.
	// The backend is selected by extension: .gltf/.glb use glTF, .obj uses OBJ+MTL.
	//
	// Parameters:
	//   - path: the model path, relative to the base directory unless absolute
	//
	// Returns:
	//   - *model.ImportedModel: the imported model
	//   - error: error if the format is unsupported or import fails
	LoadModel(path string) (*model.ImportedModel, error)

	// LoadTexture reads and decodes a PNG or JPEG image.
	//
	// Parameters:
	//   - path: the image path
	//
	// Returns:
	//   - *common.ImportedTexture: the decoded texture
	//   - error: error if reading or decoding fails
	LoadTexture(path string) (*common.ImportedTexture, error)

	// LoadFont reads a typeface JSON font and caches the result.
	//
	// Parameters:
	//   - path: the font path
	//
	// Returns:
	//   - *Font: the parsed font
	//   - error: error if reading or decoding fails
	LoadFont(path string) (*Font, error)

	// Get retrieves a cached model by path. Returns nil if not found.
	//
	// Parameters:
	//   - path: the path the model was loaded with
	//
	// Returns:
	//   - *model.ImportedModel: the cached model or nil
	Get(path string) *model.ImportedModel

	// Models returns a copy of the model cache.
	//
	// Returns:
	//   - map[string]*model.ImportedModel: all cached models keyed by resolved path
	Models() map[string]*model.ImportedModel

	// Resolve joins a relative path onto the base directory.
	Resolve(path string) string
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the glTF and OBJ backends registered and options applied.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	gltf := &gltfBackend{}
	l := &loader{
		modelCache: make(map[string]*model.ImportedModel),
		fontCache:  make(map[string]*Font),
		backends: map[string]loaderBackend{
			".gltf": gltf,
			".glb":  gltf,
			".obj":  &objBackend{},
		},
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) LoadModel(path string) (*model.ImportedModel, error) {
	full := l.Resolve(path)

	l.mu.RLock()
	if cached, ok := l.modelCache[full]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(full)
	if err != nil {
		return nil, err
	}

	imported, err := backend.Load(full)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	l.mu.Lock()
	l.modelCache[full] = imported
	l.mu.Unlock()

	return imported, nil
}

func (l *loader) LoadTexture(path string) (*common.ImportedTexture, error) {
	full := l.Resolve(path)
	tex := &common.ImportedTexture{Name: modelName(full), Path: full}
	if err := tex.Decode(); err != nil {
		return nil, fmt.Errorf("failed to load texture %s: %w", path, err)
	}
	return tex, nil
}

func (l *loader) LoadFont(path string) (*Font, error) {
	full := l.Resolve(path)

	l.mu.RLock()
	if cached, ok := l.fontCache[full]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("failed to open font %s: %w", path, err)
	}
	defer f.Close()

	font, err := ParseFont(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load font %s: %w", path, err)
	}

	l.mu.Lock()
	l.fontCache[full] = font
	l.mu.Unlock()

	return font, nil
}

func (l *loader) Get(path string) *model.ImportedModel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[l.Resolve(path)]
}

func (l *loader) Models() map[string]*model.ImportedModel {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]*model.ImportedModel, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}

func (l *loader) Resolve(path string) string {
	if l.baseDir == "" || filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(l.baseDir, path)
}

// resolveBackend selects the loader backend registered for the file extension.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if b, ok := l.backends[ext]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("unsupported model format: %q", ext)
}

// modelName derives a display name from a file path.
func modelName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

package loader

import (
	"io"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/model"
)

// loaderBackend defines the generic interface for importing models from files or streams.
// Concrete implementations (gltfBackend, objBackend) handle format-specific details.
type loaderBackend interface {
	// Load imports the model at path. Sibling resources (buffers, material
	// libraries, textures) are resolved relative to the file's directory.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *model.ImportedModel: the imported model data
	//   - error: error if loading fails
	Load(path string) (*model.ImportedModel, error)

	// LoadReader imports a model from a stream.
	//
	// Parameters:
	//   - name: the model name
	//   - r: the reader providing model data
	//   - baseDir: the directory sibling resources resolve against
	//
	// Returns:
	//   - *model.ImportedModel: the imported model data
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader, baseDir string) (*model.ImportedModel, error)
}

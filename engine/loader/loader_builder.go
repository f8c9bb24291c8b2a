package loader

import (
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/model"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithBaseDir is an option builder that sets the directory relative asset paths resolve against.
//
// Parameters:
//   - dir: the asset root
//
// Returns:
//   - LoaderBuilderOption: a function that applies the base directory option to a loader
func WithBaseDir(dir string) LoaderBuilderOption {
	return func(l *loader) {
		l.baseDir = dir
	}
}

// WithModel is an option builder that pre-populates the model cache with a model.
// The key is resolved against the base directory, so apply WithBaseDir first.
//
// Parameters:
//   - key: the path the model is served for
//   - im: the model to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(key string, im *model.ImportedModel) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[l.Resolve(key)] = im
	}
}

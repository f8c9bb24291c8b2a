package scene

import (
	"slices"
	"sync"

	"github.com/samber/lo"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/camera"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/game_object"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/light"
)

// Fog is linear distance fog.
type Fog struct {
	Enabled bool         `json:"enabled"`
	Color   common.Color `json:"color"`
	Near    float32      `json:"near"`
	Far     float32      `json:"far"`
}

// Bloom configures the post-process glow pass.
type Bloom struct {
	Enabled   bool    `json:"enabled"`
	Strength  float32 `json:"strength"`
	Radius    float32 `json:"radius"`
	Threshold float32 `json:"threshold"`
	// Height is the render target height the pass is sized for; width follows the aspect ratio.
	Height int `json:"height"`
}

// Environment describes the sky used for reflections.
type Environment struct {
	// Sky enables the procedural sky dome.
	Sky bool `json:"sky"`
	// SunDirection is the unit vector toward the sun.
	SunDirection [3]float32 `json:"sunDirection"`
}

// Scene manages a registry of GameObjects keyed by ID, a light list, the camera,
// and the global render settings (background, fog, bloom, environment).
// Lights attached to added objects are registered automatically.
// Scenes can be hot-swapped via the Active flag.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Count returns the number of GameObjects in the registry.
	//
	// Returns:
	//   - int: count of registered GameObjects
	Count() int

	// CountByKind returns the number of registered GameObjects carrying the kind tag.
	//
	// Parameters:
	//   - kind: the kind tag
	//
	// Returns:
	//   - int: the count
	CountByKind(kind game_object.Kind) int

	// ByKind returns the registered GameObjects carrying the kind tag, ordered by ID.
	//
	// Parameters:
	//   - kind: the kind tag
	//
	// Returns:
	//   - []game_object.GameObject: the matching objects
	ByKind(kind game_object.Kind) []game_object.GameObject

	// Objects returns every registered GameObject ordered by ID.
	Objects() []game_object.GameObject

	// Add registers a GameObject. Objects without an ID are assigned one.
	// An attached light is added to the light list.
	//
	// Parameters:
	//   - obj: the object to add
	//
	// Returns:
	//   - uint64: the object's ID
	Add(obj game_object.GameObject) uint64

	// Get returns the object with the given ID, or nil.
	Get(id uint64) game_object.GameObject

	// Remove unregisters the object with the given ID and detaches its light.
	// The object is returned so the caller can dispose it; nil if absent.
	//
	// Parameters:
	//   - id: the object ID
	//
	// Returns:
	//   - game_object.GameObject: the removed object or nil
	Remove(id uint64) game_object.GameObject

	// Clear unregisters every object and light and returns the removed objects ordered by ID.
	//
	// Returns:
	//   - []game_object.GameObject: the removed objects
	Clear() []game_object.GameObject

	// AddLight registers a standalone light.
	AddLight(l light.Light)

	// RemoveLight unregisters a light.
	RemoveLight(l light.Light)

	// Lights returns every registered light.
	Lights() []light.Light

	// Background returns the clear color.
	Background() common.Color

	// SetBackground sets the clear color.
	SetBackground(c common.Color)

	// Fog returns the fog settings.
	Fog() Fog

	// SetFog replaces the fog settings.
	SetFog(f Fog)

	// Bloom returns the bloom settings.
	Bloom() Bloom

	// SetBloom replaces the bloom settings.
	SetBloom(b Bloom)

	// Environment returns the sky settings.
	Environment() Environment

	// SetEnvironment replaces the sky settings.
	SetEnvironment(env Environment)

	// Snapshot captures the current scene state for outer surfaces.
	//
	// Returns:
	//   - Snapshot: an immutable copy of the scene state
	Snapshot() Snapshot
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	registry map[uint64]game_object.GameObject
	nextID   uint64

	cam camera.Camera

	lights      []light.Light
	background  common.Color
	fog         Fog
	bloom       Bloom
	environment Environment
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new Scene with the given camera. The camera is required and
// NewScene panics if it is nil.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}

	s := &scene{
		mu:         &sync.RWMutex{},
		name:       name,
		cam:        cam,
		registry:   make(map[uint64]game_object.GameObject),
		nextID:     1,
		background: common.Color{0, 0, 0, 1},
	}

	for _, option := range options {
		option(s)
	}
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) CountByKind(kind game_object.Kind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.CountBy(lo.Values(s.registry), func(o game_object.GameObject) bool {
		return o.Kind() == kind
	})
}

func (s *scene) ByKind(kind game_object.Kind) []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortByID(lo.Filter(lo.Values(s.registry), func(o game_object.GameObject, _ int) bool {
		return o.Kind() == kind
	}))
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortByID(lo.Values(s.registry))
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if obj.ID() == 0 {
		obj.SetID(s.nextID)
		s.nextID++
	}
	s.registry[obj.ID()] = obj

	if l := obj.Light(); l != nil && !lo.Contains(s.lights, l) {
		s.lights = append(s.lights, l)
	}
	return obj.ID()
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry[id]
}

func (s *scene) Remove(id uint64) game_object.GameObject {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, exists := s.registry[id]
	if !exists {
		return nil
	}
	delete(s.registry, id)

	if l := obj.Light(); l != nil {
		s.lights = lo.Without(s.lights, l)
	}
	return obj
}

func (s *scene) Clear() []game_object.GameObject {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := sortByID(lo.Values(s.registry))
	s.registry = make(map[uint64]game_object.GameObject)
	s.lights = nil
	return removed
}

func (s *scene) AddLight(l light.Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !lo.Contains(s.lights, l) {
		s.lights = append(s.lights, l)
	}
}

func (s *scene) RemoveLight(l light.Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lights = lo.Without(s.lights, l)
}

func (s *scene) Lights() []light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.lights)
}

func (s *scene) Background() common.Color {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.background
}

func (s *scene) SetBackground(c common.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background = c
}

func (s *scene) Fog() Fog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fog
}

func (s *scene) SetFog(f Fog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fog = f
}

func (s *scene) Bloom() Bloom {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bloom
}

func (s *scene) SetBloom(b Bloom) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bloom = b
}

func (s *scene) Environment() Environment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.environment
}

func (s *scene) SetEnvironment(env Environment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.environment = env
}

func sortByID(objs []game_object.GameObject) []game_object.GameObject {
	slices.SortFunc(objs, func(a, b game_object.GameObject) int {
		switch {
		case a.ID() < b.ID():
			return -1
		case a.ID() > b.ID():
			return 1
		}
		return 0
	})
	return objs
}

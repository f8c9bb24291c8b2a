// Package composition owns the discipline lifecycle of the race scene. The
// Root builds the track geometry and decoration for one discipline, attaches
// them to the scene, registers their motion with the animation driver and
// tears all of it down again before the next discipline is built.
package composition

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/animator"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/decorator"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/geometry"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/loader"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/renderer/material"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/resource"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/scene"
)

// ErrClosed is returned by Activate after Close.
var ErrClosed = errors.New("composition: root is closed")

// State is the lifecycle state of the Root: Inactive, or ActiveFor(Discipline).
type State struct {
	Active     bool
	Discipline common.Discipline
}

// Inactive is the state with nothing built.
var Inactive = State{}

// ActiveFor returns the state of a built discipline.
func ActiveFor(d common.Discipline) State {
	return State{Active: true, Discipline: d}
}

func (s State) String() string {
	if !s.Active {
		return "inactive"
	}
	return fmt.Sprintf("active(%s)", s.Discipline)
}

// Assets are the logical names of the external assets, relative to the loader's base directory.
// An empty name skips that asset.
type Assets struct {
	WaterNormals string
	Overlay      string
	Font         string
}

// DefaultAssets returns the asset names shipped with the scene.
func DefaultAssets() Assets {
	return Assets{
		WaterNormals: "textures/waternormals.jpg",
		Overlay:      "models/Velodrome+250m_Geometry.obj",
		Font:         "fonts/Orbitron_Regular.json",
	}
}

// root is the implementation of the Root interface.
type root struct {
	mu sync.Mutex

	scene   scene.Scene
	driver  animator.Driver
	tracker resource.Tracker
	rng     *rand.Rand
	loader  loader.AsyncLoader
	assets  Assets
	logger  zerolog.Logger

	state      State
	generation uint64
	closed     bool

	// Current activation.
	params   geometry.TrackParameters
	track    *geometry.TrackMesh
	statics  *staticSet
	textures []resource.Handle

	mailboxMu sync.Mutex
	mailbox   []loader.Result
}

// Root is the Scene Composition Root. Structural scene changes happen only
// through Activate, Deactivate and the asset results applied in Frame; the
// animation driver is the only other writer, and only of node properties.
// Methods are serialized, so Activate may be called from another goroutine
// than the frame loop.
type Root interface {
	// Activate transitions to ActiveFor(d). The current discipline, if any, is
	// torn down completely before anything of d is constructed. Activating the
	// current discipline rebuilds it.
	//
	// Parameters:
	//   - d: the discipline to build
	//
	// Returns:
	//   - error: error if geometry construction fails; the root is then Inactive
	Activate(d common.Discipline) error

	// Deactivate disposes every geometry and material of the current
	// discipline and detaches every node. No-op when Inactive.
	Deactivate()

	// State returns the lifecycle state.
	State() State

	// Generation returns the activation counter. Async results carry the
	// generation that requested them.
	Generation() uint64

	// Frame is the per-frame callback: it applies completed asset loads of the
	// current generation, discards stale ones, and advances the driver.
	//
	// Parameters:
	//   - elapsed: the scene clock in seconds
	Frame(elapsed float64)

	// Scene returns the render-target scene.
	Scene() scene.Scene

	// Driver returns the animation driver.
	Driver() animator.Driver

	// Tracker returns the resource tracker every primitive is accounted in.
	Tracker() resource.Tracker

	// Close deactivates, closes the async loader and rejects later activations.
	Close()
}

var _ Root = &root{}

// NewRoot creates an Inactive Root around a scene.
//
// Parameters:
//   - options: functional options; WithScene is required
//
// Returns:
//   - Root: the composition root
func NewRoot(options ...RootBuilderOption) Root {
	r := &root{
		assets: DefaultAssets(),
		logger: zerolog.Nop(),
	}
	for _, option := range options {
		option(r)
	}
	if r.scene == nil {
		panic("composition: NewRoot requires a Scene (use WithScene)")
	}
	if r.tracker == nil {
		r.tracker = resource.NewTracker()
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if r.driver == nil {
		r.driver = animator.NewDriver(animator.WithRand(r.rng))
	}
	return r
}

func (r *root) Activate(d common.Discipline) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	r.teardown()

	r.generation++
	if err := r.construct(d); err != nil {
		r.teardown()
		return fmt.Errorf("failed to activate %s: %w", d, err)
	}
	r.state = ActiveFor(d)
	r.logger.Info().
		Str("discipline", string(d)).
		Uint64("generation", r.generation).
		Int("nodes", r.scene.Count()).
		Int("policies", r.driver.Len()).
		Msg("discipline activated")

	r.requestAssets(d)
	return nil
}

func (r *root) Deactivate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teardown()
}

func (r *root) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *root) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation
}

func (r *root) Scene() scene.Scene {
	return r.scene
}

func (r *root) Driver() animator.Driver {
	return r.driver
}

func (r *root) Tracker() resource.Tracker {
	return r.tracker
}

func (r *root) Frame(elapsed float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.drainMailbox()
	r.driver.Tick(elapsed)
}

func (r *root) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.teardown()
	r.mu.Unlock()

	// Outside the lock: in-flight deliveries only touch the mailbox.
	if r.loader != nil {
		r.loader.Close()
	}
	r.mailboxMu.Lock()
	r.mailbox = nil
	r.mailboxMu.Unlock()
}

// construct builds every element of d. On error the partial build stays
// attached so teardown can release it.
func (r *root) construct(d common.Discipline) error {
	r.params = geometry.ParametersFor(d)
	r.applyPreset(PresetFor(d))

	deps := decorator.Deps{Tracker: r.tracker, Rand: r.rng}
	if d.IsBoat() {
		course, err := geometry.BuildWaterCourse(r.params, geometry.DefaultWaterCourseOptions())
		if err != nil {
			return fmt.Errorf("failed to build water course: %w", err)
		}
		deps.Course = course
		r.statics = waterway(course, r.tracker)
	} else {
		track, err := geometry.BuildTrackMesh(r.params)
		if err != nil {
			return fmt.Errorf("failed to build track mesh: %w", err)
		}
		r.track = track
		deps.Track = track
		r.statics = velodrome(track, r.tracker)
	}
	r.attach(&r.statics.Decoration)

	for _, l := range lightingRig() {
		r.scene.Add(l)
	}

	deco, err := decorator.Decorate(r.params, d.IsBoat(), deps)
	if err != nil {
		return fmt.Errorf("failed to decorate: %w", err)
	}
	r.attach(deco)
	return nil
}

func (r *root) attach(d *decorator.Decoration) {
	for _, o := range d.Objects {
		r.scene.Add(o)
	}
	for _, p := range d.Policies {
		r.driver.Register(p)
	}
}

// teardown detaches and disposes everything of the current activation. All
// nodes, including asynchronously added ones, live in the scene registry, so
// clearing the scene reaches every model exactly once.
func (r *root) teardown() {
	prev := r.state

	r.driver.Clear()
	removed := r.scene.Clear()
	for _, o := range removed {
		o.Dispose()
	}
	for _, h := range r.textures {
		h.Dispose()
	}

	r.textures = nil
	r.statics = nil
	r.track = nil
	r.state = Inactive

	if prev.Active {
		r.logger.Info().
			Str("discipline", string(prev.Discipline)).
			Int("nodes", len(removed)).
			Int("live", r.tracker.Live()).
			Msg("discipline torn down")
	}
}

func (r *root) applyPreset(p Preset) {
	r.scene.SetBackground(p.Background)
	r.scene.SetFog(p.Fog)
	r.scene.SetBloom(p.Bloom)
	r.scene.SetEnvironment(p.Environment)

	cam := r.scene.Camera()
	cam.SetFov(CameraFov)
	cam.SetNear(CameraNear)
	cam.SetFar(p.CameraFar)
	if ctrl := cam.Controller(); ctrl != nil {
		ctrl.SetLimits(p.Orbit)
		ctrl.SetTarget(p.OrbitTarget)
		ctrl.SetPosition(CameraStart)
	}
	cam.Update()
}

// trackMaterial returns the velodrome material overlay meshes clone, or nil.
func (r *root) trackMaterial() material.Material {
	if r.statics == nil {
		return nil
	}
	return r.statics.trackMaterial
}

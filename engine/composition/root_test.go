package composition

import (
	"bytes"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/camera"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/decorator"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/game_object"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/geometry"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/loader"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/model"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/renderer/material"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/resource"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/scene"
)

// rigLights is the number of lights of the shared lighting rig.
const rigLights = 6

type fakeRequest struct {
	kind    loader.AssetKind
	path    string
	token   uint64
	deliver func(loader.Result)
}

// fakeLoader records requests so tests decide when, and with what, each completes.
type fakeLoader struct {
	mu       sync.Mutex
	requests []fakeRequest
	closed   bool
}

func (f *fakeLoader) Request(kind loader.AssetKind, path string, token uint64, deliver func(loader.Result)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, fakeRequest{kind: kind, path: path, token: token, deliver: deliver})
}

func (f *fakeLoader) InFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeLoader) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

// complete delivers the first pending request of kind issued under token.
func (f *fakeLoader) complete(t *testing.T, kind loader.AssetKind, token uint64, fill func(*loader.Result)) {
	t.Helper()
	f.mu.Lock()
	var req *fakeRequest
	for i, r := range f.requests {
		if r.kind == kind && r.token == token {
			req = &f.requests[i]
			f.requests = append(f.requests[:i:i], f.requests[i+1:]...)
			break
		}
	}
	f.mu.Unlock()
	require.NotNil(t, req, "no %s request with token %d", kind, token)

	res := loader.Result{Kind: req.kind, Path: req.path, Token: req.token}
	fill(&res)
	req.deliver(res)
}

func newTestRoot(t *testing.T, opts ...RootBuilderOption) (Root, resource.Tracker) {
	t.Helper()
	cam := camera.NewCamera(camera.WithController(camera.NewOrbitController()))
	tracker := resource.NewTracker()
	base := []RootBuilderOption{
		WithScene(scene.NewScene("race", cam)),
		WithTracker(tracker),
		WithRand(rand.New(rand.NewSource(42))),
	}
	return NewRoot(append(base, opts...)...), tracker
}

const testFont = `{"familyName":"Orbitron","resolution":1000,"glyphs":{
  "K":{"ha":700},"C":{"ha":650},"Y":{"ha":640},"L":{"ha":560},"E":{"ha":600}}}`

func overlayModel() *model.ImportedModel {
	box := geometry.Box(200, 100, 4)
	bmin, bmax := box.Bounds()
	return &model.ImportedModel{
		Name: "velodrome",
		Meshes: []model.ImportedMesh{
			{Name: "shell", Mesh: box, MaterialIndex: -1, BoundingMin: bmin, BoundingMax: bmax},
		},
	}
}

func assertBalanced(t *testing.T, tracker resource.Tracker) {
	t.Helper()
	assert.Zero(t, tracker.Live(), "live handles: %v", tracker.LiveHandles())
	assert.Equal(t, tracker.Created(), tracker.Disposed())
}

func TestNewRoot_PanicsWithoutScene(t *testing.T) {
	assert.Panics(t, func() { NewRoot() })
}

func TestRoot_StartsInactive(t *testing.T) {
	r, tracker := newTestRoot(t)
	assert.Equal(t, Inactive, r.State())
	assert.Equal(t, "inactive", r.State().String())
	assert.Zero(t, r.Scene().Count())
	assert.Zero(t, tracker.Created())

	// Frames before any activation are valid and do nothing.
	r.Frame(0.5)
	r.Deactivate()
	assert.Equal(t, Inactive, r.State())
}

func TestRoot_KeirinScene(t *testing.T) {
	r, _ := newTestRoot(t)
	require.NoError(t, r.Activate(common.DisciplineKeirin))

	assert.Equal(t, ActiveFor(common.DisciplineKeirin), r.State())
	assert.Equal(t, "active(keirin)", r.State().String())

	s := r.Scene()
	assert.Equal(t, 1, s.CountByKind(game_object.KindTrack))
	assert.Equal(t, 1, s.CountByKind(game_object.KindGround))
	assert.Equal(t, 1, s.CountByKind(game_object.KindRacingLine))
	assert.Equal(t, decorator.CubeCount, s.CountByKind(game_object.KindCube))
	assert.Equal(t, decorator.BoundaryParticleCount, s.CountByKind(game_object.KindParticle))
	assert.Equal(t, 1, s.CountByKind(game_object.KindFinishBand))
	assert.Equal(t, decorator.LaneLineCount, s.CountByKind(game_object.KindLaneLine))
	assert.Equal(t, decorator.StarCount, s.CountByKind(game_object.KindStar))
	assert.Equal(t, decorator.GlowCount, s.CountByKind(game_object.KindGlow))
	assert.Equal(t, rigLights, s.CountByKind(game_object.KindLight))
	assert.Len(t, s.Lights(), rigLights+decorator.GlowCount)

	assert.Zero(t, s.CountByKind(game_object.KindWater))
	assert.Zero(t, s.CountByKind(game_object.KindTube))

	assert.Equal(t, float32(1000), s.Camera().Far())
	assert.Equal(t, float32(150), s.Camera().Controller().Limits().MaxDistance)
	assert.Equal(t, PresetFor(common.DisciplineKeirin).Background, s.Background())
	assert.True(t, s.Bloom().Enabled)
	assert.Positive(t, r.Driver().Len())
}

func TestRoot_BoatScene(t *testing.T) {
	r, _ := newTestRoot(t)
	require.NoError(t, r.Activate(common.DisciplineBoat))

	s := r.Scene()
	assert.Equal(t, decorator.WaterParticleCount, s.CountByKind(game_object.KindWaterParticle))
	assert.Equal(t, decorator.GlowCount, s.CountByKind(game_object.KindGlow))
	assert.Equal(t, decorator.StarCount, s.CountByKind(game_object.KindStar))
	assert.Equal(t, 1, s.CountByKind(game_object.KindTube))
	assert.Equal(t, 1, s.CountByKind(game_object.KindWater))
	assert.Equal(t, decorator.BuoyCount, s.CountByKind(game_object.KindBuoy))

	assert.Zero(t, s.CountByKind(game_object.KindTrack))
	assert.Zero(t, s.CountByKind(game_object.KindCube))

	assert.Equal(t, float32(12000), s.Camera().Far())
	assert.True(t, s.Environment().Sky)
	assert.Equal(t, [3]float32{0, waterLevel, 0}, s.Camera().Controller().Target())
}

func TestRoot_SwitchingDisposesEverything(t *testing.T) {
	r, tracker := newTestRoot(t)

	require.NoError(t, r.Activate(common.DisciplineKeirin))
	keirinLive := tracker.Live()
	keirinNodes := r.Scene().Count()
	assert.Positive(t, keirinLive)

	require.NoError(t, r.Activate(common.DisciplineBoat))
	// Nothing of the keirin scene survives: the switched root holds exactly
	// what a root that only ever built the boat scene holds.
	fresh, freshTracker := newTestRoot(t)
	require.NoError(t, fresh.Activate(common.DisciplineBoat))
	assert.Equal(t, freshTracker.Live(), tracker.Live())
	assert.Equal(t, fresh.Scene().Count(), r.Scene().Count())
	assert.Zero(t, r.Scene().CountByKind(game_object.KindCube))
	assert.Zero(t, r.Scene().CountByKind(game_object.KindLaneLine))
	assert.Len(t, r.Scene().Lights(), rigLights+decorator.GlowCount)

	require.NoError(t, r.Activate(common.DisciplineKeirin))
	assert.Equal(t, keirinLive, tracker.Live())
	assert.Equal(t, keirinNodes, r.Scene().Count())
	assert.Zero(t, r.Scene().CountByKind(game_object.KindWaterParticle))
	assert.Zero(t, r.Scene().CountByKind(game_object.KindTube))
	assert.Zero(t, r.Scene().CountByKind(game_object.KindBuoy))

	r.Deactivate()
	assert.Equal(t, Inactive, r.State())
	assert.Zero(t, r.Scene().Count())
	assert.Empty(t, r.Scene().Lights())
	assert.Zero(t, r.Driver().Len())
	assertBalanced(t, tracker)
	assert.Equal(t, uint64(3), r.Generation())
}

func TestRoot_ReactivateSameDisciplineRebuilds(t *testing.T) {
	r, tracker := newTestRoot(t)
	require.NoError(t, r.Activate(common.DisciplineBoat))
	live, policies := tracker.Live(), r.Driver().Len()

	require.NoError(t, r.Activate(common.DisciplineBoat))
	assert.Equal(t, live, tracker.Live())
	assert.Equal(t, policies, r.Driver().Len())
	assert.Equal(t, uint64(2), r.Generation())
}

func TestRoot_FrameDrivesWaterClock(t *testing.T) {
	r, _ := newTestRoot(t)
	require.NoError(t, r.Activate(common.DisciplineBoat))

	r.Frame(1.25)
	water := r.Scene().ByKind(game_object.KindWater)
	require.Len(t, water, 1)
	v, ok := water[0].Model().Material().Uniform(UniformTime)
	require.True(t, ok)
	assert.InDelta(t, 1.25, v, 1e-6)
	assert.Equal(t, 1.25, r.Driver().Elapsed())
}

func TestRoot_AppliesKeirinAssetsOnNextFrame(t *testing.T) {
	fl := &fakeLoader{}
	r, tracker := newTestRoot(t, WithAsyncLoader(fl))
	require.NoError(t, r.Activate(common.DisciplineKeirin))
	require.Equal(t, 2, fl.InFlight())

	font, err := loader.ParseFont(strings.NewReader(testFont))
	require.NoError(t, err)
	fl.complete(t, loader.AssetFont, 1, func(res *loader.Result) { res.Font = font })
	fl.complete(t, loader.AssetModel, 1, func(res *loader.Result) { res.Model = overlayModel() })

	// Results wait in the mailbox until the frame loop picks them up.
	assert.Zero(t, r.Scene().CountByKind(game_object.KindLabel))
	r.Frame(0)
	assert.Equal(t, 1, r.Scene().CountByKind(game_object.KindLabel))
	assert.Equal(t, 1, r.Scene().CountByKind(game_object.KindOverlay))

	overlay := r.Scene().ByKind(game_object.KindOverlay)[0]
	track := r.Scene().ByKind(game_object.KindTrack)[0]
	assert.NotSame(t, track.Model().Material(), overlay.Model().Material())

	r.Deactivate()
	assertBalanced(t, tracker)
}

func TestRoot_DiscardsStaleResults(t *testing.T) {
	fl := &fakeLoader{}
	r, tracker := newTestRoot(t, WithAsyncLoader(fl))

	require.NoError(t, r.Activate(common.DisciplineKeirin))
	require.NoError(t, r.Activate(common.DisciplineBoat))
	created := tracker.Created()

	font, err := loader.ParseFont(strings.NewReader(testFont))
	require.NoError(t, err)
	fl.complete(t, loader.AssetFont, 1, func(res *loader.Result) { res.Font = font })
	fl.complete(t, loader.AssetModel, 1, func(res *loader.Result) { res.Model = overlayModel() })
	r.Frame(0)

	assert.Zero(t, r.Scene().CountByKind(game_object.KindLabel))
	assert.Zero(t, r.Scene().CountByKind(game_object.KindOverlay))
	assert.Equal(t, created, tracker.Created())

	fl.complete(t, loader.AssetTexture, 2, func(res *loader.Result) {
		res.Texture = &common.ImportedTexture{Name: "waternormals", Width: 1, Height: 1, Pixels: []byte{0, 0, 255, 255}}
	})
	r.Frame(0)

	tex := r.Scene().ByKind(game_object.KindWater)[0].Model().Material().Texture()
	require.NotNil(t, tex)
	require.NotNil(t, tex.SamplerData)
	assert.Equal(t, wgpu.AddressModeRepeat, tex.SamplerData.AddressModeU)
	assert.Equal(t, float32(WaterNormalRepeat), tex.SamplerData.RepeatV)
	assert.Equal(t, 1, tracker.CreatedOf(resource.KindTexture))

	r.Deactivate()
	assert.Equal(t, 1, tracker.DisposedOf(resource.KindTexture))
	assertBalanced(t, tracker)
}

// firstNode returns the snapshot of the first node of kind.
func firstNode(t *testing.T, snap scene.Snapshot, kind game_object.Kind) scene.NodeSnapshot {
	t.Helper()
	for _, n := range snap.Nodes {
		if n.Kind == kind {
			return n
		}
	}
	require.Failf(t, "missing node", "no %s node in snapshot", kind)
	return scene.NodeSnapshot{}
}

func TestRoot_SnapshotReportsRenderState(t *testing.T) {
	t.Run("keirin", func(t *testing.T) {
		r, _ := newTestRoot(t)
		require.NoError(t, r.Activate(common.DisciplineKeirin))
		snap := r.Scene().Snapshot()

		cube := firstNode(t, snap, game_object.KindCube)
		require.NotNil(t, cube.Material)
		assert.Equal(t, material.BlendAdditive, cube.Material.Blend)
		assert.True(t, cube.Material.Transparent)

		track := firstNode(t, snap, game_object.KindTrack)
		require.NotNil(t, track.Material)
		assert.Equal(t, wgpu.CullModeNone.String(), track.Material.CullMode)
		assert.Equal(t, material.BlendAlpha, track.Material.Blend)

		ground := firstNode(t, snap, game_object.KindGround)
		assert.Equal(t, wgpu.CullModeBack.String(), ground.Material.CullMode)
	})

	t.Run("boat water texture", func(t *testing.T) {
		fl := &fakeLoader{}
		r, _ := newTestRoot(t, WithAsyncLoader(fl))
		require.NoError(t, r.Activate(common.DisciplineBoat))

		water := firstNode(t, r.Scene().Snapshot(), game_object.KindWater)
		require.NotNil(t, water.Material)
		assert.Equal(t, material.ShadingWater.String(), water.Material.Shading)
		assert.Nil(t, water.Material.Texture)

		fl.complete(t, loader.AssetTexture, 1, func(res *loader.Result) {
			res.Texture = &common.ImportedTexture{Name: "waternormals", Width: 1, Height: 1, Pixels: []byte{0, 0, 255, 255}}
		})
		r.Frame(0)

		water = firstNode(t, r.Scene().Snapshot(), game_object.KindWater)
		require.NotNil(t, water.Material.Texture)
		assert.Equal(t, wgpu.AddressModeRepeat.String(), water.Material.Texture.AddressModeU)
		assert.Equal(t, wgpu.AddressModeRepeat.String(), water.Material.Texture.AddressModeV)
		assert.Equal(t, float32(WaterNormalRepeat), water.Material.Texture.RepeatU)
		r.Deactivate()
	})
}

func TestRoot_ResultAfterDeactivateIsDiscarded(t *testing.T) {
	fl := &fakeLoader{}
	r, tracker := newTestRoot(t, WithAsyncLoader(fl))
	require.NoError(t, r.Activate(common.DisciplineKeirin))
	r.Deactivate()

	fl.complete(t, loader.AssetModel, 1, func(res *loader.Result) { res.Model = overlayModel() })
	r.Frame(0)
	assert.Zero(t, r.Scene().Count())
	assertBalanced(t, tracker)
}

func TestRoot_AssetFailuresAreLoggedNotFatal(t *testing.T) {
	var logs bytes.Buffer
	fl := &fakeLoader{}
	r, _ := newTestRoot(t, WithAsyncLoader(fl), WithLogger(zerolog.New(&logs)))
	require.NoError(t, r.Activate(common.DisciplineKeirin))
	nodes := r.Scene().Count()

	fl.complete(t, loader.AssetModel, 1, func(res *loader.Result) { res.Err = errors.New("file not found") })
	fl.complete(t, loader.AssetFont, 1, func(res *loader.Result) { res.Model = &model.ImportedModel{} })

	assert.NotPanics(t, func() { r.Frame(0.1) })
	assert.Equal(t, nodes, r.Scene().Count())
	assert.Equal(t, ActiveFor(common.DisciplineKeirin), r.State())
	assert.Contains(t, logs.String(), "asset load failed")
	assert.Contains(t, logs.String(), "file not found")
	assert.Contains(t, logs.String(), "asset not applied")
}

func TestRoot_SkipsEmptyAssetNames(t *testing.T) {
	fl := &fakeLoader{}
	r, _ := newTestRoot(t, WithAsyncLoader(fl), WithAssets(Assets{Font: "fonts/title.json"}))
	require.NoError(t, r.Activate(common.DisciplineKeirin))
	require.Equal(t, 1, fl.InFlight())
	assert.Equal(t, "fonts/title.json", fl.requests[0].path)

	require.NoError(t, r.Activate(common.DisciplineBoat))
	assert.Equal(t, 1, fl.InFlight())
}

func TestRoot_CloseRejectsActivate(t *testing.T) {
	fl := &fakeLoader{}
	r, tracker := newTestRoot(t, WithAsyncLoader(fl))
	require.NoError(t, r.Activate(common.DisciplineBoat))

	r.Close()
	r.Close()
	assert.True(t, fl.closed)
	assert.Equal(t, Inactive, r.State())
	assertBalanced(t, tracker)
	assert.ErrorIs(t, r.Activate(common.DisciplineKeirin), ErrClosed)
}

func TestRoot_WithAsyncLoader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "fonts"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "models"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fonts", "title.json"), []byte(testFont), 0o644))
	obj := "v -100 -50 0\nv 100 -50 0\nv 100 50 0\nv -100 50 0\nf 1 2 3 4\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "models", "velodrome.obj"), []byte(obj), 0o644))

	al := loader.NewAsyncLoader(loader.NewLoader(loader.WithBaseDir(dir)))
	r, tracker := newTestRoot(t,
		WithAsyncLoader(al),
		WithAssets(Assets{Overlay: "models/velodrome.obj", Font: "fonts/title.json"}),
	)
	require.NoError(t, r.Activate(common.DisciplineKeirin))

	require.Eventually(t, func() bool {
		r.Frame(0)
		return r.Scene().CountByKind(game_object.KindLabel) == 1 &&
			r.Scene().CountByKind(game_object.KindOverlay) == 1
	}, 5*time.Second, 10*time.Millisecond)

	r.Close()
	assertBalanced(t, tracker)
}

func TestPresetFor(t *testing.T) {
	k := PresetFor(common.DisciplineKeirin)
	b := PresetFor(common.DisciplineBoat)

	assert.Equal(t, float32(1000), k.CameraFar)
	assert.Equal(t, float32(12000), b.CameraFar)
	assert.Equal(t, float32(30), k.Orbit.MinDistance)
	assert.Equal(t, float32(50), b.Orbit.MinDistance)
	assert.False(t, k.Orbit.PanEnabled)
	assert.Equal(t, k.Fog, b.Fog)

	sun := SunDirection()
	assert.InDelta(t, 1, common.Length3(sun), 1e-5)
	assert.Greater(t, sun[1], float32(0.8))
}

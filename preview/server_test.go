package preview

import (
	"encoding/json"
	"math"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/camera"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/composition"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/game_object"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/scene"
)

func newTestServer(t *testing.T, opts ...ServerOption) (*Server, composition.Root, *httptest.Server) {
	t.Helper()
	cam := camera.NewCamera(camera.WithController(camera.NewOrbitController()))
	root := composition.NewRoot(
		composition.WithScene(scene.NewScene("race", cam)),
		composition.WithRand(rand.New(rand.NewSource(7))),
	)
	t.Cleanup(root.Close)

	srv := NewServer(root, opts...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, root, ts
}

func dial(t *testing.T, ts *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) FrameMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg FrameMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func control(t *testing.T, conn *websocket.Conn, msg ControlMessage) ControlReply {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var rep ControlReply
	require.NoError(t, conn.ReadJSON(&rep))
	return rep
}

func TestNewServerPanicsWithoutRoot(t *testing.T) {
	assert.Panics(t, func() { NewServer(nil) })
}

func TestControlActivatesDiscipline(t *testing.T) {
	_, root, ts := newTestServer(t)
	conn := dial(t, ts, "/control")

	rep := control(t, conn, ControlMessage{Discipline: "Boat"})
	assert.True(t, rep.OK)
	assert.Equal(t, "active(boat)", rep.State)
	assert.Equal(t, uint64(1), rep.Generation)
	assert.Equal(t, composition.ActiveFor(common.DisciplineBoat), root.State())

	rep = control(t, conn, ControlMessage{Discipline: "keirin"})
	assert.True(t, rep.OK)
	assert.Equal(t, uint64(2), rep.Generation)

	rep = control(t, conn, ControlMessage{Deactivate: true})
	assert.True(t, rep.OK)
	assert.Equal(t, "inactive", rep.State)
	assert.Zero(t, root.Scene().Count())
}

func TestControlRejectsUnknownDiscipline(t *testing.T) {
	_, root, ts := newTestServer(t)
	conn := dial(t, ts, "/control")

	rep := control(t, conn, ControlMessage{Discipline: "rowing"})
	assert.False(t, rep.OK)
	assert.Contains(t, rep.Error, "unknown discipline")
	assert.Equal(t, composition.Inactive, root.State())

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	var bad ControlReply
	require.NoError(t, conn.ReadJSON(&bad))
	assert.False(t, bad.OK)
	assert.NotEmpty(t, bad.Error)
}

func TestControlZoomStaysWithinKeirinLimits(t *testing.T) {
	_, root, ts := newTestServer(t)
	conn := dial(t, ts, "/control")
	require.True(t, control(t, conn, ControlMessage{Discipline: "keirin"}).OK)

	out, in := float32(-1000), float32(1000)
	rep := control(t, conn, ControlMessage{Zoom: &out})
	require.True(t, rep.OK, rep.Error)
	require.NotNil(t, rep.Camera)
	assert.InDelta(t, 150, rep.Camera.Radius, 1e-3)
	assert.Equal(t, uint64(1), rep.Generation, "a camera move must not rebuild the scene")

	rep = control(t, conn, ControlMessage{Zoom: &in})
	require.True(t, rep.OK, rep.Error)
	assert.InDelta(t, 30, rep.Camera.Radius, 1e-3)
	assert.InDelta(t, 30, root.Scene().Camera().Controller().Radius(), 1e-3)
}

func TestControlOrbitMovesViewProjection(t *testing.T) {
	srv, root, ts := newTestServer(t)
	require.NoError(t, root.Activate(common.DisciplineKeirin))
	frames := dial(t, ts, "/ws")
	readFrame(t, frames)

	srv.Broadcast(0)
	before := readFrame(t, frames)
	require.NotNil(t, before.Scene)

	ctl := dial(t, ts, "/control")
	aspect := float32(16.0 / 9.0)
	rep := control(t, ctl, ControlMessage{Orbit: &[2]float32{0.5, 10}, Aspect: &aspect})
	require.True(t, rep.OK, rep.Error)
	assert.InDelta(t, math.Pi/2.5, rep.Camera.Polar, 1e-4)
	assert.InDelta(t, aspect, rep.Camera.Aspect, 1e-6)

	srv.Broadcast(0.1)
	after := readFrame(t, frames)
	require.NotNil(t, after.Scene)
	assert.NotEqual(t, before.Scene.Camera.ViewProjection, after.Scene.Camera.ViewProjection)
	assert.NotEqual(t, before.Scene.Camera.Projection, after.Scene.Camera.Projection)
	assert.InDelta(t, aspect, after.Scene.Camera.Aspect, 1e-6)
	assert.Equal(t, rep.Camera.Position, after.Scene.Camera.Position)
}

func TestControlCameraMoves(t *testing.T) {
	_, root, ts := newTestServer(t)
	conn := dial(t, ts, "/control")
	require.True(t, control(t, conn, ControlMessage{Discipline: "boat"}).OK)
	target := root.Scene().Camera().Controller().Target()

	// Both presets lock the target.
	rep := control(t, conn, ControlMessage{Pan: &[2]float32{25, 25}})
	require.True(t, rep.OK, rep.Error)
	assert.Equal(t, target, rep.Camera.Target)

	bad := float32(0)
	rep = control(t, conn, ControlMessage{Aspect: &bad})
	assert.False(t, rep.OK)
	assert.Contains(t, rep.Error, "aspect")

	// A discipline change and a move in one message: the move applies to the new scene.
	out := float32(-1000)
	rep = control(t, conn, ControlMessage{Discipline: "keirin", Zoom: &out})
	require.True(t, rep.OK, rep.Error)
	assert.Equal(t, "active(keirin)", rep.State)
	assert.InDelta(t, 150, rep.Camera.Radius, 1e-3)

	// An empty message is still a discipline request.
	rep = control(t, conn, ControlMessage{})
	assert.False(t, rep.OK)
	assert.Nil(t, rep.Camera)
}

func TestFrameClientsReceiveBroadcasts(t *testing.T) {
	srv, root, ts := newTestServer(t)
	require.NoError(t, root.Activate(common.DisciplineBoat))

	conn := dial(t, ts, "/ws")
	hello := readFrame(t, conn)
	assert.Equal(t, MessageHello, hello.Type)
	assert.Equal(t, common.DisciplineBoat, hello.Discipline)
	assert.Equal(t, 1, srv.Clients())

	srv.Broadcast(1.25)
	frame := readFrame(t, conn)
	assert.Equal(t, MessageFrame, frame.Type)
	assert.Equal(t, uint64(1), frame.FrameID)
	assert.InDelta(t, 1.25, frame.Elapsed, 1e-9)
	assert.Equal(t, "active(boat)", frame.State)
	assert.Equal(t, 50, frame.Counts[game_object.KindWaterParticle])
	assert.Equal(t, 200, frame.Counts[game_object.KindStar])
	assert.Equal(t, 1, frame.Counts[game_object.KindTube])
	require.NotNil(t, frame.Scene)
	assert.Len(t, frame.Scene.Nodes, root.Scene().Count())
}

func TestBroadcastWithoutNodes(t *testing.T) {
	srv, root, ts := newTestServer(t, WithNodes(false), WithWriteTimeout(time.Second))
	require.NoError(t, root.Activate(common.DisciplineKeirin))

	conn := dial(t, ts, "/ws")
	readFrame(t, conn)

	srv.Broadcast(0.5)
	frame := readFrame(t, conn)
	assert.Nil(t, frame.Scene)
	assert.Equal(t, 10, frame.Counts[game_object.KindCube])
	assert.Equal(t, 20, frame.Counts[game_object.KindParticle])
}

func TestDisconnectedClientIsDropped(t *testing.T) {
	srv, _, ts := newTestServer(t)
	conn := dial(t, ts, "/ws")
	readFrame(t, conn)
	require.Equal(t, 1, srv.Clients())

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return srv.Clients() == 0 }, 5*time.Second, 10*time.Millisecond)

	// Broadcasting with nobody connected still advances the frame counter.
	srv.Broadcast(2)
	srv.Broadcast(3)
	assert.NotPanics(t, func() { srv.Broadcast(4) })
}

func TestHealth(t *testing.T) {
	srv, root, ts := newTestServer(t)
	require.NoError(t, root.Activate(common.DisciplineKeirin))
	srv.Broadcast(0.1)
	srv.Broadcast(0.2)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body struct {
		FrameID uint64                   `json:"frame_id"`
		Uptime  float64                  `json:"uptime_s"`
		State   string                   `json:"state"`
		Nodes   int                      `json:"nodes"`
		Counts  map[game_object.Kind]int `json:"counts"`
		Live    int                      `json:"live"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, uint64(2), body.FrameID)
	assert.GreaterOrEqual(t, body.Uptime, 0.0)
	assert.Equal(t, "active(keirin)", body.State)
	assert.Equal(t, root.Scene().Count(), body.Nodes)
	assert.Equal(t, 10, body.Counts[game_object.KindCube])
	assert.Positive(t, body.Live)
}

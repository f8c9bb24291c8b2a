// Package preview is a headless rendering surface for the race scene. It
// streams a JSON snapshot of the scene to websocket clients every frame and
// accepts discipline selections and camera moves over a control socket.
package preview

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/composition"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/game_object"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/scene"
)

// Message types on the frame socket.
const (
	MessageHello = "hello"
	MessageFrame = "frame"
)

const defaultWriteTimeout = 200 * time.Millisecond

var errNoController = errors.New("camera has no controller")

// FrameMessage is one frame pushed to /ws clients.
type FrameMessage struct {
	Type       string                   `json:"type"`
	FrameID    uint64                   `json:"frame_id"`
	Elapsed    float64                  `json:"elapsed"`
	State      string                   `json:"state"`
	Discipline common.Discipline        `json:"discipline,omitempty"`
	Counts     map[game_object.Kind]int `json:"counts"`
	Scene      *scene.Snapshot          `json:"scene,omitempty"`
}

// ControlMessage is a request on /control. An empty discipline with
// Deactivate set tears the scene down. The camera fields move the orbit
// camera within the active preset's limits and may be sent on their own;
// they apply after any discipline change.
type ControlMessage struct {
	Discipline string `json:"discipline"`
	Deactivate bool   `json:"deactivate,omitempty"`

	// Orbit is [dAzimuth, dPolar] in radians.
	Orbit *[2]float32 `json:"orbit,omitempty"`
	// Zoom moves toward the target by this distance; negative zooms out.
	Zoom *float32 `json:"zoom,omitempty"`
	// Pan is [dx, dy]; ignored unless the preset enables panning.
	Pan *[2]float32 `json:"pan,omitempty"`
	// Aspect is the viewport width over height.
	Aspect *float32 `json:"aspect,omitempty"`
}

func (m ControlMessage) movesCamera() bool {
	return m.Orbit != nil || m.Zoom != nil || m.Pan != nil || m.Aspect != nil
}

// ControlReply answers every ControlMessage.
type ControlReply struct {
	OK         bool          `json:"ok"`
	State      string        `json:"state"`
	Generation uint64        `json:"generation"`
	Error      string        `json:"error,omitempty"`
	Camera     *CameraReport `json:"camera,omitempty"`
}

// CameraReport is the orbit camera after a camera move.
type CameraReport struct {
	Radius   float32    `json:"radius"`
	Azimuth  float32    `json:"azimuth"`
	Polar    float32    `json:"polar"`
	Aspect   float32    `json:"aspect"`
	Position [3]float32 `json:"position"`
	Target   [3]float32 `json:"target"`
}

// Server serves the preview endpoints for one composition root.
type Server struct {
	mu sync.RWMutex

	root         composition.Root
	logger       zerolog.Logger
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
	withNodes    bool

	frameID   uint64
	elapsed   float64
	startTime time.Time
	clients   map[*websocket.Conn]*client
}

// client serializes writes to one connection; gorilla allows a single writer.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) write(timeout time.Duration, kind int, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(timeout))
	return c.conn.WriteMessage(kind, payload)
}

// NewServer creates a preview server over root.
//
// Parameters:
//   - root: the composition root whose scene is served
//   - options: functional options
//
// Returns:
//   - *Server: the server
func NewServer(root composition.Root, options ...ServerOption) *Server {
	if root == nil {
		panic("preview: NewServer requires a non-nil Root")
	}
	s := &Server{
		root:         root,
		logger:       zerolog.Nop(),
		upgrader:     websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		writeTimeout: defaultWriteTimeout,
		withNodes:    true,
		startTime:    time.Now(),
		clients:      map[*websocket.Conn]*client{},
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Handler returns the HTTP routes: /ws, /control and /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleFramesWS)
	mux.HandleFunc("/control", s.HandleControlWS)
	mux.HandleFunc("/health", s.HandleHealth)
	return mux
}

// Clients returns the number of connected frame clients.
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Broadcast is the per-frame callback of the surface: it snapshots the scene
// and pushes it to every frame client. Slow or gone clients are dropped.
//
// Parameters:
//   - elapsed: the scene clock in seconds
func (s *Server) Broadcast(elapsed float64) {
	s.mu.Lock()
	s.frameID++
	s.elapsed = elapsed
	msg := s.message(MessageFrame, s.frameID, elapsed)
	clients := lo.Values(s.clients)
	s.mu.Unlock()

	if len(clients) == 0 {
		return
	}
	b, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode frame")
		return
	}
	for _, c := range clients {
		if err := c.write(s.writeTimeout, websocket.TextMessage, b); err != nil {
			s.logger.Debug().Err(err).Str("remote", c.conn.RemoteAddr().String()).Msg("dropping frame client")
			s.drop(c.conn)
		}
	}
}

// message builds a frame message. The caller holds s.mu.
func (s *Server) message(kind string, frameID uint64, elapsed float64) FrameMessage {
	st := s.root.State()
	sc := s.root.Scene()
	msg := FrameMessage{
		Type:       kind,
		FrameID:    frameID,
		Elapsed:    elapsed,
		State:      st.String(),
		Discipline: st.Discipline,
		Counts:     countByKind(sc),
	}
	if s.withNodes {
		snap := sc.Snapshot()
		msg.Scene = &snap
	}
	return msg
}

func countByKind(sc scene.Scene) map[game_object.Kind]int {
	return lo.CountValuesBy(sc.Objects(), func(o game_object.GameObject) game_object.Kind {
		return o.Kind()
	})
}

func (s *Server) drop(c *websocket.Conn) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	_ = c.Close()
}

// HandleFramesWS upgrades a frame client, greets it with the current scene and
// keeps it registered until it disconnects.
func (s *Server) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug().Err(err).Msg("frame socket upgrade failed")
		return
	}

	c := &client{conn: conn}
	// The hello is written under the client lock so no frame can overtake it.
	c.mu.Lock()
	s.mu.Lock()
	s.clients[conn] = c
	hello := s.message(MessageHello, s.frameID, s.elapsed)
	s.mu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	err = conn.WriteJSON(hello)
	c.mu.Unlock()
	if err != nil {
		s.drop(conn)
		return
	}
	s.logger.Info().Str("remote", conn.RemoteAddr().String()).Msg("frame client connected")

	go func() {
		defer s.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// HandleControlWS applies discipline selections until the client disconnects.
func (s *Server) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug().Err(err).Msg("control socket upgrade failed")
		return
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg ControlMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = conn.WriteJSON(s.reply(err))
			continue
		}
		rep := s.reply(s.applyControl(msg))
		if msg.movesCamera() {
			rep.Camera = s.cameraReport()
		}
		_ = conn.WriteJSON(rep)
	}
}

func (s *Server) applyControl(msg ControlMessage) error {
	switch {
	case msg.Deactivate:
		s.root.Deactivate()
		s.logger.Info().Msg("scene deactivated by control client")
	case msg.Discipline != "" || !msg.movesCamera():
		d, err := common.ParseDiscipline(msg.Discipline)
		if err != nil {
			return err
		}
		s.logger.Info().Str("discipline", string(d)).Msg("discipline selected by control client")
		if err := s.root.Activate(d); err != nil {
			return err
		}
	}
	if msg.movesCamera() {
		return s.moveCamera(msg)
	}
	return nil
}

// moveCamera applies the camera fields of msg and recomputes the camera matrices.
func (s *Server) moveCamera(msg ControlMessage) error {
	cam := s.root.Scene().Camera()
	ctrl := cam.Controller()
	if ctrl == nil {
		return errNoController
	}
	if msg.Aspect != nil {
		if *msg.Aspect <= 0 {
			return fmt.Errorf("aspect must be positive, got %g", *msg.Aspect)
		}
		cam.SetAspect(*msg.Aspect)
	}
	if msg.Orbit != nil {
		ctrl.Orbit(msg.Orbit[0], msg.Orbit[1])
	}
	if msg.Zoom != nil {
		ctrl.Zoom(*msg.Zoom)
	}
	if msg.Pan != nil {
		ctrl.Pan(msg.Pan[0], msg.Pan[1])
	}
	cam.Update()
	s.logger.Debug().
		Float32("radius", ctrl.Radius()).
		Float32("azimuth", ctrl.Azimuth()).
		Float32("polar", ctrl.Polar()).
		Msg("camera moved by control client")
	return nil
}

func (s *Server) cameraReport() *CameraReport {
	cam := s.root.Scene().Camera()
	ctrl := cam.Controller()
	if ctrl == nil {
		return nil
	}
	return &CameraReport{
		Radius:   ctrl.Radius(),
		Azimuth:  ctrl.Azimuth(),
		Polar:    ctrl.Polar(),
		Aspect:   cam.Aspect(),
		Position: ctrl.Position(),
		Target:   ctrl.Target(),
	}
}

func (s *Server) reply(err error) ControlReply {
	rep := ControlReply{OK: err == nil, State: s.root.State().String(), Generation: s.root.Generation()}
	if err != nil {
		rep.Error = err.Error()
	}
	return rep
}

// HandleHealth reports the frame counter, uptime and element counts.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	frameID, clients := s.frameID, len(s.clients)
	s.mu.RUnlock()

	tracker := s.root.Tracker()
	resp := map[string]any{
		"frame_id": frameID,
		"uptime_s": time.Since(s.startTime).Seconds(),
		"state":    s.root.State().String(),
		"nodes":    s.root.Scene().Count(),
		"counts":   countByKind(s.root.Scene()),
		"live":     tracker.Live(),
		"clients":  clients,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

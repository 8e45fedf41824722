package globe

import (
	"fmt"
	"time"

	"github.com/blueye/globalsite/internal/lifestyle"
)

// Client message types.
const (
	MsgWheel    = "wheel"
	MsgSwipe    = "swipe"
	MsgKey      = "key"
	MsgHash     = "hash"
	MsgHome     = "home"
	MsgDetail   = "detail"
	MsgViewport = "viewport"
)

// Server message types.
const (
	MsgState    = "state"
	MsgScroll   = "scroll"
	MsgPose     = "pose"
	MsgNavigate = "navigate"
	MsgInput    = "input"
	MsgError    = "error"
)

type ClientMessage struct {
	Type    string  `json:"type"`
	DeltaY  float64 `json:"deltaY,omitempty"`
	StartY  float64 `json:"startY,omitempty"`
	EndY    float64 `json:"endY,omitempty"`
	Key     string  `json:"key,omitempty"`
	Hash    string  `json:"hash,omitempty"`
	Width   int     `json:"width,omitempty"`
	Outside bool    `json:"outside,omitempty"`
}

type ServerMessage struct {
	Type        string        `json:"type"`
	State       *SectionState `json:"state,omitempty"`
	Hash        string        `json:"hash,omitempty"`
	Pose        *Pose         `json:"pose,omitempty"`
	Entity      string        `json:"entity,omitempty"`
	Intercepted *bool         `json:"intercepted,omitempty"`
	Error       string        `json:"error,omitempty"`
}

type SessionConfig struct {
	Settle        time.Duration
	ViewportWidth int
	Camera        CameraConfig
	Now           func() time.Time
}

// Session pairs a Navigator with a Camera for one viewer and buffers the
// messages to send back. It is meant to be owned by a single goroutine.
type Session struct {
	catalog *lifestyle.Catalog
	nav     *Navigator
	cam     *Camera
	out     []ServerMessage
	moving  bool
}

func NewSession(catalog *lifestyle.Catalog, cfg SessionConfig) *Session {
	entities := catalog.Entities()
	poses := make([]Pose, len(entities))
	for i, e := range entities {
		poses[i] = Pose{Position: Vec3(e.CameraPosition), LookAt: Vec3(e.CameraTarget)}
	}

	s := &Session{
		catalog: catalog,
		nav:     NewNavigator(NewLayout(len(entities)), cfg.Settle, cfg.Now),
		cam:     NewCamera(cfg.Camera, poses, cfg.ViewportWidth),
	}
	s.nav.Subscribe(s.onEvent)
	s.cam.OnZoomComplete(s.nav.ZoomComplete)
	return s
}

func (s *Session) Navigator() *Navigator { return s.nav }

func (s *Session) Camera() *Camera { return s.cam }

// Hello queues the initial state and pose.
func (s *Session) Hello() {
	st := s.nav.State()
	pose := s.cam.Pose()
	s.out = append(s.out,
		ServerMessage{Type: MsgState, State: &st},
		ServerMessage{Type: MsgPose, Pose: &pose},
	)
}

// Apply handles one client message. It reports whether an input event was
// intercepted.
func (s *Session) Apply(msg ClientMessage) (bool, error) {
	switch msg.Type {
	case MsgWheel:
		return s.nav.Handle(Input{Kind: InputWheel, DeltaY: msg.DeltaY, Outside: msg.Outside}), nil
	case MsgSwipe:
		return s.nav.Handle(Input{Kind: InputSwipe, StartY: msg.StartY, EndY: msg.EndY, Outside: msg.Outside}), nil
	case MsgKey:
		return s.nav.Handle(Input{Kind: InputKey, Key: msg.Key, Outside: msg.Outside}), nil
	case MsgHash:
		return false, s.nav.NavigateHash(msg.Hash)
	case MsgHome:
		s.nav.Home()
		return false, nil
	case MsgDetail:
		return false, s.nav.RequestDetail()
	case MsgViewport:
		in := s.cam.Input()
		in.ViewportWidth = msg.Width
		s.cam.SetInput(in)
		return false, nil
	}
	return false, fmt.Errorf("unknown message type %q", msg.Type)
}

// Tick advances one frame: closes expired settle windows and moves the
// camera. A pose message is queued for every frame the camera moves, plus
// one for the frame it settles on.
func (s *Session) Tick() {
	s.nav.Poll()
	pose := s.cam.Tick()
	if !s.cam.Settled() {
		s.moving = true
		s.out = append(s.out, ServerMessage{Type: MsgPose, Pose: &pose})
		return
	}
	if s.moving {
		s.moving = false
		s.out = append(s.out, ServerMessage{Type: MsgPose, Pose: &pose})
	}
}

// Drain returns and clears the queued messages.
func (s *Session) Drain() []ServerMessage {
	out := s.out
	s.out = nil
	return out
}

func (s *Session) onEvent(e Event) {
	s.cam.SetInput(CameraInput{
		EntityIndex:   e.State.EntityIndex,
		Progress:      e.State.Progress,
		Zooming:       s.nav.Zooming(),
		ViewportWidth: s.cam.Input().ViewportWidth,
	})

	st := e.State
	switch e.Kind {
	case EventState, EventSettled:
		s.out = append(s.out, ServerMessage{Type: MsgState, State: &st})
	case EventScroll:
		s.out = append(s.out, ServerMessage{Type: MsgScroll, State: &st, Hash: e.Hash})
	case EventNavigate:
		msg := ServerMessage{Type: MsgNavigate, State: &st}
		if ent, ok := s.catalog.EntityAt(st.EntityIndex); ok {
			msg.Entity = string(ent.Code)
		}
		s.out = append(s.out, msg)
	}
}

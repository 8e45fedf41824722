package globe

import (
	"errors"
	"time"
)

// SwipeThreshold is the minimum vertical travel in pixels for a swipe to
// count as a section change.
const SwipeThreshold = 50

type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

type InputKind string

const (
	InputWheel InputKind = "wheel"
	InputSwipe InputKind = "swipe"
	InputKey   InputKind = "key"
)

// Input is a raw pointer or keyboard event. Outside is set by the client
// when the viewport has scrolled past the intercepted region.
type Input struct {
	Kind    InputKind `json:"kind"`
	DeltaY  float64   `json:"deltaY,omitempty"`
	StartY  float64   `json:"startY,omitempty"`
	EndY    float64   `json:"endY,omitempty"`
	Key     string    `json:"key,omitempty"`
	Outside bool      `json:"outside,omitempty"`
}

var keyDirections = map[string]Direction{
	"ArrowDown": Forward,
	"PageDown":  Forward,
	"Space":     Forward,
	" ":         Forward,
	"ArrowUp":   Backward,
	"PageUp":    Backward,
}

type EventKind string

const (
	// EventState reports a new SectionState.
	EventState EventKind = "state"
	// EventScroll asks the client to smooth-scroll to Hash.
	EventScroll EventKind = "scroll"
	// EventSettled fires once when the settle window of a move closes.
	EventSettled EventKind = "settled"
	// EventNavigate fires when a detail zoom has finished.
	EventNavigate EventKind = "navigate"
)

type Event struct {
	Kind  EventKind
	State SectionState
	Hash  string
}

// Navigator owns the current section. Moves made through RequestAdvance are
// dropped while a previous move is settling. It is not safe for concurrent
// use.
type Navigator struct {
	layout Layout
	settle time.Duration
	now    func() time.Time

	index     int
	settleAt  time.Time
	unsettled bool
	zooming   bool
	zoomIndex int
	observers []func(Event)
}

func NewNavigator(layout Layout, settle time.Duration, now func() time.Time) *Navigator {
	if now == nil {
		now = time.Now
	}
	return &Navigator{layout: layout, settle: settle, now: now}
}

// Subscribe registers fn for every event the navigator emits.
func (n *Navigator) Subscribe(fn func(Event)) {
	n.observers = append(n.observers, fn)
}

func (n *Navigator) Layout() Layout { return n.layout }

func (n *Navigator) State() SectionState {
	s := n.layout.StateAt(n.index)
	s.Transitioning = n.Transitioning()
	return s
}

// Transitioning reports whether the settle window of the last move is open
// or a detail zoom is in flight.
func (n *Navigator) Transitioning() bool {
	return n.zooming || n.now().Before(n.settleAt)
}

// Zooming reports whether a detail zoom is in flight.
func (n *Navigator) Zooming() bool { return n.zooming }

// RequestAdvance moves one section in direction d. It returns false when
// the request was dropped by the debounce, arrived during a zoom or hit a
// boundary.
func (n *Navigator) RequestAdvance(d Direction) bool {
	if n.Transitioning() {
		return false
	}
	next := n.index + int(d)
	if next < 0 || next >= n.layout.Total() {
		return false
	}
	n.moveTo(next)
	return true
}

// Handle maps an input event to a section move. It reports whether the
// event was intercepted; false means the client should scroll natively.
func (n *Navigator) Handle(in Input) bool {
	if in.Outside {
		return false
	}
	switch in.Kind {
	case InputWheel:
		switch {
		case in.DeltaY > 0:
			n.RequestAdvance(Forward)
		case in.DeltaY < 0:
			n.RequestAdvance(Backward)
		}
		return true
	case InputSwipe:
		diff := in.StartY - in.EndY
		if diff > SwipeThreshold {
			n.RequestAdvance(Forward)
			return true
		}
		if diff < -SwipeThreshold {
			n.RequestAdvance(Backward)
			return true
		}
		return false
	case InputKey:
		d, ok := keyDirections[in.Key]
		if !ok {
			return false
		}
		n.RequestAdvance(d)
		return true
	}
	return false
}

// NavigateHash jumps to the section named by a hash token, producing the
// same state a step-by-step move would. It ignores the debounce but opens a
// new settle window. Unknown tokens lead to the hero; an entity index out of
// range is an error and leaves the state unchanged.
func (n *Navigator) NavigateHash(token string) error {
	idx, err := n.layout.ParseHash(token)
	if errors.Is(err, ErrUnknownHash) {
		idx = 0
	} else if err != nil {
		return err
	}
	n.moveTo(idx)
	return nil
}

// Home returns to the hero section without opening a settle window.
func (n *Navigator) Home() {
	n.index = 0
	n.emit(Event{Kind: EventState, State: n.State()})
	n.emit(Event{Kind: EventScroll, State: n.State(), Hash: ""})
}

// Poll emits EventSettled once the settle window of the last move closes.
// Call it from the owner's frame loop.
func (n *Navigator) Poll() {
	if n.unsettled && !n.Transitioning() {
		n.unsettled = false
		n.emit(Event{Kind: EventSettled, State: n.State()})
	}
}

// RequestDetail starts the zoom into the active entity. It fails when no
// entity section is active and is a no-op while a zoom is in flight.
func (n *Navigator) RequestDetail() error {
	if n.layout.StateAt(n.index).EntityIndex < 0 {
		return ErrNoActiveEntity
	}
	if n.zooming {
		return nil
	}
	n.zooming = true
	n.zoomIndex = n.index
	n.emit(Event{Kind: EventState, State: n.State()})
	return nil
}

// ZoomComplete is the camera's completion signal. It emits EventNavigate for
// the entity the zoom started on, exactly once per zoom.
func (n *Navigator) ZoomComplete() {
	if !n.zooming {
		return
	}
	n.zooming = false
	s := n.layout.StateAt(n.zoomIndex)
	s.Transitioning = n.Transitioning()
	n.emit(Event{Kind: EventNavigate, State: s})
}

func (n *Navigator) moveTo(index int) {
	n.index = index
	n.settleAt = n.now().Add(n.settle)
	n.unsettled = true

	hash, _ := n.layout.HashFor(index)
	s := n.State()
	n.emit(Event{Kind: EventState, State: s})
	n.emit(Event{Kind: EventScroll, State: s, Hash: hash})
}

func (n *Navigator) emit(e Event) {
	for _, fn := range n.observers {
		fn(e)
	}
}

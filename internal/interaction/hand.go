// Package interaction turns conditioned hand samples into game actions. Each hand
// runs its own IDLE → TARGETING → GRABBING → DRAGGING machine; the two machines
// only meet when both drag the active piece inside the play zone.
package interaction

import (
	"math"

	"github.com/ayusman/pinchfall/internal/board"
	"github.com/ayusman/pinchfall/internal/geom"
	"github.com/ayusman/pinchfall/internal/signal"
)

// State is a hand's interaction state.
type State int

const (
	Idle State = iota
	Targeting
	Grabbing
	Dragging
)

var stateNames = [...]string{"idle", "targeting", "grabbing", "dragging"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Holding reports whether the state carries a grab.
func (s State) Holding() bool {
	return s == Grabbing || s == Dragging
}

// Side names a hand record. Left is driven by the provider's "Right" hand.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// never is the initial "last action" time so the first rotate or move is never
// held back by a cooldown.
const never = math.MinInt64 / 2

// Circle is the rotation gesture geometry kept for on-screen feedback.
type Circle struct {
	Center geom.Vec2 `json:"center"`
	Radius float64   `json:"radius"`
	Angle  float64   `json:"angle"`
	Armed  bool      `json:"armed"`
}

// Grab is the payload that only exists while a hand is GRABBING or DRAGGING.
type Grab struct {
	// Offset is target screen position minus hand position at grab time.
	Offset geom.Vec2

	// PlayZone marks a grab of the active piece after it entered the grid; such
	// grabs rotate and move the piece instead of dragging it.
	PlayZone bool

	// AnchorX is the hand x the next lateral move is measured from.
	AnchorX float64

	// Quadrant is the last applied 90° step; valid only when HasQuadrant.
	Quadrant    int
	HasQuadrant bool

	Gesture Circle
}

// Hand is one per-hand interaction record.
type Hand struct {
	Side       Side
	State      State
	Target     *board.Piece
	Pos        geom.Vec2
	Pinch      float64
	WristAngle float64
	Present    bool

	LastRotate int64
	LastMove   int64

	grab     *Grab
	smoother *signal.Smoother
}

// NewHand creates an idle record for side using the given smoothing gains.
func NewHand(side Side, smoothIdle, smoothDrag float64) *Hand {
	return &Hand{
		Side:       side,
		LastRotate: never,
		LastMove:   never,
		smoother:   signal.NewSmoother(smoothIdle, smoothDrag),
	}
}

// Grab returns the active grab payload, nil unless GRABBING or DRAGGING.
func (h *Hand) Grab() *Grab {
	return h.grab
}

// FreeDragging reports whether the hand is carrying an object around the screen,
// as opposed to steering the in-grid active piece.
func (h *Hand) FreeDragging() bool {
	return h.State.Holding() && h.grab != nil && !h.grab.PlayZone && h.Target != nil
}

// release drops the grab payload and returns the record to IDLE. A free-dragged
// target stops being grabbed and stays where it is drawn.
func (h *Hand) release() {
	if h.Target != nil && h.grab != nil && !h.grab.PlayZone {
		h.Target.Grabbed = false
		h.Target.Target = h.Target.Screen
	}
	h.State = Idle
	h.Target = nil
	h.grab = nil
}

// Reset returns the record to its startup defaults. It runs whenever the hand
// disappears from the input.
func (h *Hand) Reset() {
	h.release()
	h.Pos = geom.Vec2{}
	h.Pinch = 0
	h.WristAngle = 0
	h.Present = false
	h.LastRotate = never
	h.LastMove = never
	h.smoother.Reset()
}

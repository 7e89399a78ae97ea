// Package event defines the discrete actions a frame can produce.
package event

// Kind names an event.
type Kind string

const (
	Grab     Kind = "grab"
	Release  Kind = "release"
	HandLost Kind = "hand_lost"
	Move     Kind = "move"
	Rotate   Kind = "rotate"
	Hold     Kind = "hold"
	Unhold   Kind = "unhold"
	Spawn    Kind = "spawn"
	Lock     Kind = "lock"
	Lines    Kind = "lines"
	GameOver Kind = "game_over"
)

// Event is one discrete action. Value carries the kind-specific quantity: the
// column delta of a move, the quarter turns of a rotation, the lines cleared.
type Event struct {
	Kind  Kind   `json:"kind"`
	At    int64  `json:"at"`
	Hand  string `json:"hand,omitempty"`
	Piece string `json:"piece,omitempty"`
	Slot  int    `json:"slot"`
	Value int    `json:"value,omitempty"`
}

// Log collects events for one frame.
type Log struct {
	events []Event
}

// Add appends e.
func (l *Log) Add(e Event) {
	l.events = append(l.events, e)
}

// Events returns the collected events.
func (l *Log) Events() []Event {
	return l.events
}

// Reset empties the log, keeping its storage.
func (l *Log) Reset() {
	l.events = l.events[:0]
}

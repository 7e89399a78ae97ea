package engine

import (
	"github.com/ayusman/pinchfall/internal/board"
	"github.com/ayusman/pinchfall/internal/geom"
	"github.com/ayusman/pinchfall/internal/interaction"
	"github.com/ayusman/pinchfall/internal/layout"
)

// PieceView is a drawn piece.
type PieceView struct {
	Type    string    `json:"type"`
	Color   string    `json:"color"`
	X       int       `json:"x"`
	Y       int       `json:"y"`
	Shape   [][]int   `json:"shape"`
	Screen  geom.Vec2 `json:"screen"`
	Grabbed bool      `json:"grabbed"`
	InPlay  bool      `json:"in_play"`
}

// SlotView is one hold slot with its stack, bottom first.
type SlotView struct {
	Index    int         `json:"index"`
	Rect     geom.Rect   `json:"rect"`
	Type     string      `json:"type"`
	Capacity int         `json:"capacity"`
	Targeted bool        `json:"targeted"`
	Pieces   []PieceView `json:"pieces"`
}

// HandView is one hand record for feedback drawing.
type HandView struct {
	Side       string              `json:"side"`
	State      string              `json:"state"`
	Present    bool                `json:"present"`
	Pos        geom.Vec2           `json:"pos"`
	Pinch      float64             `json:"pinch"`
	WristAngle float64             `json:"wrist_angle"`
	Steering   bool                `json:"steering"`
	Gesture    *interaction.Circle `json:"gesture,omitempty"`
}

// Snapshot is everything a renderer needs for one frame.
type Snapshot struct {
	Time    int64               `json:"time"`
	Layout  layout.Layout       `json:"layout"`
	Grid    [][]board.PieceType `json:"grid"`
	Active  *PieceView          `json:"active,omitempty"`
	Hold    []SlotView          `json:"hold"`
	Hands   []HandView          `json:"hands"`
	Score   int                 `json:"score"`
	Lines   int                 `json:"lines"`
	Level   int                 `json:"level"`
	Over    bool                `json:"over"`
	SpawnAt int64               `json:"spawn_at,omitempty"`
}

// Snapshot copies the current state into a value that is safe to hand to
// another goroutine.
func (e *Engine) Snapshot() Snapshot {
	b := e.board
	s := Snapshot{
		Time:   e.now,
		Layout: e.layout,
		Grid:   b.Grid(),
		Score:  b.Score,
		Lines:  b.Lines,
		Level:  b.Level,
		Over:   b.Over,
	}
	s.Layout.HoldSlots = append([]geom.Rect(nil), e.layout.HoldSlots...)
	if at, ok := b.SpawnPending(); ok {
		s.SpawnAt = at
	}
	if b.Active != nil {
		v := pieceView(b.Active)
		s.Active = &v
	}

	for _, slot := range e.hold.Slots() {
		sv := SlotView{
			Index:    slot.Index,
			Rect:     slot.Rect,
			Type:     slot.Type().String(),
			Capacity: slot.Capacity(),
			Targeted: slot.Targeted,
		}
		for _, p := range slot.Pieces() {
			sv.Pieces = append(sv.Pieces, pieceView(p))
		}
		s.Hold = append(s.Hold, sv)
	}

	for _, h := range []*interaction.Hand{e.hands.Left, e.hands.Right} {
		hv := HandView{
			Side:       h.Side.String(),
			State:      h.State.String(),
			Present:    h.Present,
			Pos:        h.Pos,
			Pinch:      h.Pinch,
			WristAngle: h.WristAngle,
		}
		if g := h.Grab(); g != nil && g.PlayZone {
			c := g.Gesture
			hv.Steering = true
			hv.Gesture = &c
		}
		s.Hands = append(s.Hands, hv)
	}
	return s
}

func pieceView(p *board.Piece) PieceView {
	shape := make([][]int, len(p.Shape))
	for i := range p.Shape {
		shape[i] = append([]int(nil), p.Shape[i]...)
	}
	return PieceView{
		Type:    p.Type.String(),
		Color:   p.Color,
		X:       p.X,
		Y:       p.Y,
		Shape:   shape,
		Screen:  p.Screen,
		Grabbed: p.Grabbed,
		InPlay:  p.InPlay,
	}
}

package interaction

import (
	"github.com/ayusman/pinchfall/internal/board"
	"github.com/ayusman/pinchfall/internal/config"
	"github.com/ayusman/pinchfall/internal/event"
	"github.com/ayusman/pinchfall/internal/geom"
	"github.com/ayusman/pinchfall/internal/hold"
	"github.com/ayusman/pinchfall/internal/layout"
)

// World is the game state a hand machine reads and mutates during one frame.
type World struct {
	Board  *board.Board
	Hold   *hold.Inventory
	Layout layout.Layout
	Config config.Config
	Now    int64
	Events *event.Log
}

func (w *World) emit(e event.Event) {
	if w.Events == nil {
		return
	}
	e.At = w.Now
	w.Events.Add(e)
}

// Interactable reports whether p can still be targeted: it is either the active
// piece or the top of a hold slot.
func (w *World) Interactable(p *board.Piece) bool {
	if p == nil {
		return false
	}
	return p == w.Board.Active || w.Hold.SlotOfTop(p) >= 0
}

// inPlayZone reports whether p is the active piece and has entered the grid.
func (w *World) inPlayZone(p *board.Piece) bool {
	return p != nil && p == w.Board.Active && p.InPlay
}

// candidates lists every interactable object: the active piece first, then the
// top of each hold slot in index order.
func (w *World) candidates() []*board.Piece {
	out := make([]*board.Piece, 0, 1+len(w.Hold.Slots()))
	if w.Board.Active != nil {
		out = append(out, w.Board.Active)
	}
	for _, s := range w.Hold.Slots() {
		if top := s.Top(); top != nil {
			out = append(out, top)
		}
	}
	return out
}

// Nearest returns the interactable object whose drawn center is closest to pos
// and within the targeting radius. Objects held by other are skipped, except
// the in-grid active piece which both hands may share. Ties keep the first
// candidate.
func (w *World) Nearest(pos geom.Vec2, other *Hand) *board.Piece {
	var best *board.Piece
	bestDist := w.Config.TargetRadius
	for _, p := range w.candidates() {
		if other != nil && other.State.Holding() && other.Target == p && !w.inPlayZone(p) {
			continue
		}
		d := w.Layout.ScreenCenter(p).Dist(pos)
		if d > bestDist {
			continue
		}
		if best == nil || d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

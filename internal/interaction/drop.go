package interaction

import (
	"github.com/ayusman/pinchfall/internal/board"
	"github.com/ayusman/pinchfall/internal/event"
	"github.com/ayusman/pinchfall/internal/geom"
)

// DropResult says what a release did to the dropped object.
type DropResult int

const (
	DropNone DropResult = iota
	DropHeld
	DropRejected
	DropPromoted
)

// resolveDrop applies the first matching rule for p released at pt:
//
//  1. over a hold slot (grown by the drop tolerance) that accepts p's type: p
//     leaves its origin and is pushed there; an active piece leaving the grid
//     schedules the next spawn. A slot that refuses p changes nothing.
//  2. over the spawn zone, for a hold piece: p becomes the active piece, and an
//     active piece not yet in the grid is swapped into the vacated slot.
//  3. anywhere else: nothing changes.
func resolveDrop(w *World, p *board.Piece, pt geom.Vec2) DropResult {
	if p == nil {
		return DropNone
	}
	from := w.Hold.SlotOfTop(p)

	if i := w.Hold.SlotAt(pt, w.Config.HoldDropTolerance); i >= 0 {
		if i == from {
			return DropNone
		}
		dst := w.Hold.Slot(i)
		if !dst.Accepts(p.Type) {
			return DropRejected
		}
		switch {
		case p == w.Board.Active:
			w.Board.TakeActive()
			w.Board.ScheduleSpawn(w.Now + w.Config.HoldSpawnDelayMs)
		case from >= 0:
			w.Hold.Slot(from).Pop()
		default:
			return DropNone
		}
		p.Grabbed = false
		dst.Push(p)
		w.emit(event.Event{Kind: event.Hold, Piece: p.Type.String(), Slot: i})
		return DropHeld
	}

	if from >= 0 && w.Layout.SpawnZone.Contains(pt) {
		return promote(w, p, from)
	}
	return DropNone
}

// promote moves the top of slot from onto the board as the new active piece. An
// active piece still in the spawn band goes into the vacated slot when it fits
// there; otherwise it is discarded. A piece held by the other hand blocks the
// promotion.
func promote(w *World, p *board.Piece, from int) DropResult {
	src := w.Hold.Slot(from)
	active := w.Board.Active
	if active != nil && active.Grabbed {
		return DropRejected
	}

	src.Pop()
	if active != nil {
		w.Board.TakeActive()
		if !active.InPlay && src.Accepts(active.Type) {
			src.Push(active)
		}
	}
	w.Board.Promote(p)
	w.emit(event.Event{Kind: event.Unhold, Piece: p.Type.String(), Slot: from})
	return DropPromoted
}

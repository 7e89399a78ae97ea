// Package hold implements the hold inventory: a fixed set of capacity-limited
// slots, each restricted to a single piece type while non-empty.
package hold

import (
	"github.com/ayusman/pinchfall/internal/board"
	"github.com/ayusman/pinchfall/internal/geom"
)

// Slot is one hold bucket. Pieces are stacked in insertion order and only the
// top piece can be interacted with.
type Slot struct {
	Index    int
	Rect     geom.Rect
	Targeted bool

	pieces   []*board.Piece
	typ      board.PieceType
	capacity int
}

// Len returns the number of stacked pieces.
func (s *Slot) Len() int { return len(s.pieces) }

// Capacity returns the maximum number of pieces.
func (s *Slot) Capacity() int { return s.capacity }

// Type returns the slot's type constraint, board.Empty when untyped.
func (s *Slot) Type() board.PieceType { return s.typ }

// Full reports whether the slot is at capacity.
func (s *Slot) Full() bool { return len(s.pieces) >= s.capacity }

// Accepts reports whether a piece of type t could be pushed.
func (s *Slot) Accepts(t board.PieceType) bool {
	if s.Full() {
		return false
	}
	return s.typ == board.Empty || s.typ == t
}

// Push adds p on top of the stack. It returns false, leaving the slot untouched,
// when the slot is full or typed differently.
func (s *Slot) Push(p *board.Piece) bool {
	if p == nil || !s.Accepts(p.Type) {
		return false
	}
	s.pieces = append(s.pieces, p)
	s.typ = p.Type
	p.InPlay = false
	return true
}

// Pop removes and returns the top piece; the type constraint resets once the
// slot is empty.
func (s *Slot) Pop() *board.Piece {
	n := len(s.pieces)
	if n == 0 {
		return nil
	}
	p := s.pieces[n-1]
	s.pieces[n-1] = nil
	s.pieces = s.pieces[:n-1]
	if len(s.pieces) == 0 {
		s.typ = board.Empty
	}
	return p
}

// Top returns the interactable piece, or nil.
func (s *Slot) Top() *board.Piece {
	if len(s.pieces) == 0 {
		return nil
	}
	return s.pieces[len(s.pieces)-1]
}

// Pieces returns the stack bottom first.
func (s *Slot) Pieces() []*board.Piece {
	return append([]*board.Piece(nil), s.pieces...)
}

// Inventory is the full set of hold slots.
type Inventory struct {
	slots []*Slot
}

// New creates n empty slots of the given capacity.
func New(n, capacity int) *Inventory {
	inv := &Inventory{slots: make([]*Slot, n)}
	for i := range inv.slots {
		inv.slots[i] = &Slot{Index: i, capacity: capacity}
	}
	return inv
}

// Slots returns the slots in index order.
func (inv *Inventory) Slots() []*Slot { return inv.slots }

// Slot returns slot i or nil when out of range.
func (inv *Inventory) Slot(i int) *Slot {
	if i < 0 || i >= len(inv.slots) {
		return nil
	}
	return inv.slots[i]
}

// ApplyLayout assigns this frame's pixel rectangles to the slots.
func (inv *Inventory) ApplyLayout(rects []geom.Rect) {
	for i, s := range inv.slots {
		if i < len(rects) {
			s.Rect = rects[i]
		}
	}
}

// SlotAt returns the index of the first slot whose rectangle, grown by tol,
// contains pt, or -1.
func (inv *Inventory) SlotAt(pt geom.Vec2, tol float64) int {
	for i, s := range inv.slots {
		if s.Rect.Inflate(tol).Contains(pt) {
			return i
		}
	}
	return -1
}

// SlotOfTop returns the index of the slot whose top piece is p, or -1.
func (inv *Inventory) SlotOfTop(p *board.Piece) int {
	if p == nil {
		return -1
	}
	for i, s := range inv.slots {
		if s.Top() == p {
			return i
		}
	}
	return -1
}

// ClearTargets resets every slot's highlight flag.
func (inv *Inventory) ClearTargets() {
	for _, s := range inv.slots {
		s.Targeted = false
	}
}

// Count returns the total number of held pieces.
func (inv *Inventory) Count() int {
	n := 0
	for _, s := range inv.slots {
		n += s.Len()
	}
	return n
}

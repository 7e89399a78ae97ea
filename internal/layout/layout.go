// Package layout derives the pixel-space zones of the game from the viewport.
// Nothing here is cached: the engine calls Compute every frame.
package layout

import (
	"github.com/ayusman/pinchfall/internal/board"
	"github.com/ayusman/pinchfall/internal/config"
	"github.com/ayusman/pinchfall/internal/geom"
)

// Bank identifies which viewport edge a hold slot is pinned to.
type Bank int

const (
	BankLeft Bank = iota
	BankRight
)

// Layout is the per-frame zone geometry.
type Layout struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	CellSize    float64     `json:"cell_size"`
	BoardOrigin geom.Vec2   `json:"board_origin"`
	PlayZone    geom.Rect   `json:"play_zone"`
	SpawnZone   geom.Rect   `json:"spawn_zone"`
	HoldSlots   []geom.Rect `json:"hold_slots"`

	// SpawnOccupied is true when an active piece exists for the spawn zone to show.
	SpawnOccupied bool `json:"spawn_occupied"`
}

// Compute lays out the board centered horizontally and anchored to the bottom,
// the spawn band directly above it, and the hold slots in two stacks against
// the left and right edges.
func Compute(cfg config.Config, width, height float64, hasPiece bool) Layout {
	cell := cfg.CellSize
	bw := float64(cfg.Columns) * cell
	bh := float64(cfg.Rows) * cell

	origin := geom.Vec2{
		X: (width - bw) / 2,
		Y: height - cfg.BoardBottomMargin - bh,
	}
	spawnH := cfg.SpawnZoneHeight()

	l := Layout{
		Width:         width,
		Height:        height,
		CellSize:      cell,
		BoardOrigin:   origin,
		PlayZone:      geom.Rect{X: origin.X, Y: origin.Y, W: bw, H: bh},
		SpawnZone:     geom.Rect{X: origin.X, Y: origin.Y - spawnH, W: bw, H: spawnH},
		HoldSlots:     make([]geom.Rect, cfg.HoldSlots),
		SpawnOccupied: hasPiece,
	}

	perBank := cfg.HoldSlots / 2
	for i := range l.HoldSlots {
		row := i % perBank
		x := cfg.HoldEdgeMargin
		if SlotBank(cfg.HoldSlots, i) == BankRight {
			x = width - cfg.HoldEdgeMargin - cfg.HoldSlotWidth
		}
		l.HoldSlots[i] = geom.Rect{
			X: x,
			Y: cfg.HoldTopMargin + float64(row)*(cfg.HoldSlotHeight+cfg.HoldGap),
			W: cfg.HoldSlotWidth,
			H: cfg.HoldSlotHeight,
		}
	}
	return l
}

// SlotBank reports which bank slot index i belongs to: the first half of the
// slots stack on the left, the second half on the right.
func SlotBank(slots, i int) Bank {
	if i < slots/2 {
		return BankLeft
	}
	return BankRight
}

// CellPos returns the top-left pixel of grid cell (x, y). Negative y lands in the
// spawn band.
func (l Layout) CellPos(x, y int) geom.Vec2 {
	return geom.Vec2{
		X: l.BoardOrigin.X + float64(x)*l.CellSize,
		Y: l.BoardOrigin.Y + float64(y)*l.CellSize,
	}
}

// PiecePos returns the top-left pixel at which p is drawn from its grid position.
func (l Layout) PiecePos(p *board.Piece) geom.Vec2 {
	return l.CellPos(p.X, p.Y)
}

// PieceSize returns the pixel extent of p's current shape.
func (l Layout) PieceSize(p *board.Piece) geom.Vec2 {
	return geom.Vec2{X: float64(p.Width()) * l.CellSize, Y: float64(p.Height()) * l.CellSize}
}

// GridCenter returns the pixel center of p at its grid position.
func (l Layout) GridCenter(p *board.Piece) geom.Vec2 {
	return l.PiecePos(p).Add(l.PieceSize(p).Scale(0.5))
}

// ScreenCenter returns the pixel center of p at its current screen position.
func (l Layout) ScreenCenter(p *board.Piece) geom.Vec2 {
	return p.Screen.Add(l.PieceSize(p).Scale(0.5))
}

// StackPos returns where the piece at stack index depth of slot i rests, offset a
// little per depth so stacked pieces stay visible.
func (l Layout) StackPos(i, depth int, p *board.Piece) geom.Vec2 {
	r := l.HoldSlots[i]
	size := l.PieceSize(p)
	c := r.Center()
	off := float64(depth) * 6
	return geom.Vec2{X: c.X - size.X/2 + off, Y: c.Y - size.Y/2 - off}
}

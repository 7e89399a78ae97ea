package board

import "math/rand/v2"

// Kick offsets tried, in order, after a rotation lands on an invalid placement.
var wallKicks = []int{-1, 1, -2, 2}

// Line-clear score table indexed by lines cleared in one lock.
var scoreTable = []int{0, 100, 300, 500, 800}

// TickResult describes what one gravity step did.
type TickResult struct {
	Moved    bool
	Locked   bool
	Lines    int
	GameOver bool
	Spawned  *Piece
}

// Board owns the locked grid and the active piece.
type Board struct {
	cols       int
	rows       int
	spawnTicks int
	cells      [][]PieceType
	rng        *rand.Rand

	// Active is the piece under gravity, nil while a hold-spawn delay runs.
	Active *Piece

	spawnAt      int64
	spawnPending bool
	lastGravity  int64

	Lines int
	Score int
	Level int
	Over  bool
}

// New creates an empty board. rng drives piece selection; pass a seeded source
// for deterministic play.
func New(cols, rows, spawnTicks int, rng *rand.Rand) *Board {
	b := &Board{
		cols:       cols,
		rows:       rows,
		spawnTicks: spawnTicks,
		rng:        rng,
	}
	b.cells = make([][]PieceType, rows)
	for y := range b.cells {
		b.cells[y] = make([]PieceType, cols)
	}
	return b
}

// Columns returns the grid width.
func (b *Board) Columns() int { return b.cols }

// Rows returns the grid height.
func (b *Board) Rows() int { return b.rows }

// Cell returns the content of a grid cell; out-of-range reads are Empty.
func (b *Board) Cell(x, y int) PieceType {
	if x < 0 || x >= b.cols || y < 0 || y >= b.rows {
		return Empty
	}
	return b.cells[y][x]
}

// SetCell writes a grid cell. Out-of-range writes are ignored.
func (b *Board) SetCell(x, y int, t PieceType) {
	if x < 0 || x >= b.cols || y < 0 || y >= b.rows {
		return
	}
	b.cells[y][x] = t
}

// Grid returns a copy of the locked cells, row 0 first.
func (b *Board) Grid() [][]PieceType {
	out := make([][]PieceType, b.rows)
	for y := range b.cells {
		out[y] = append([]PieceType(nil), b.cells[y]...)
	}
	return out
}

// CanPlace reports whether p fits at its current position. Cells above the board
// (y < 0) only need to respect the horizontal bounds.
func (b *Board) CanPlace(p *Piece) bool {
	ok := true
	p.Cells(func(x, y int) {
		if !ok {
			return
		}
		if x < 0 || x >= b.cols || y >= b.rows {
			ok = false
			return
		}
		if y >= 0 && b.cells[y][x] != Empty {
			ok = false
		}
	})
	return ok
}

// CanMove reports whether the active piece could shift by (dx, dy).
func (b *Board) CanMove(dx, dy int) bool {
	if b.Active == nil {
		return false
	}
	b.Active.X += dx
	b.Active.Y += dy
	ok := b.CanPlace(b.Active)
	b.Active.X -= dx
	b.Active.Y -= dy
	return ok
}

// Move shifts the active piece when the destination is free.
func (b *Board) Move(dx, dy int) bool {
	if !b.CanMove(dx, dy) {
		return false
	}
	b.Active.X += dx
	b.Active.Y += dy
	return true
}

// Rotate turns p a quarter clockwise, trying the wall kicks when the rotated
// shape does not fit. A rotation that cannot be placed leaves shape and position
// exactly as they were. The O piece never rotates.
func (b *Board) Rotate(p *Piece) bool {
	if p == nil || p.Type == O {
		return false
	}

	prev := p.Shape
	p.Shape = rotateCW(prev)
	if b.CanPlace(p) {
		return true
	}

	for _, dx := range wallKicks {
		p.X += dx
		if b.CanPlace(p) {
			return true
		}
		p.X -= dx
	}

	p.Shape = prev
	return false
}

// Lock copies the active piece into the grid. A piece locked while any of its
// cells is still above row 0 ends the game.
func (b *Board) Lock() {
	p := b.Active
	if p == nil {
		return
	}
	p.Cells(func(x, y int) {
		if y < 0 {
			b.Over = true
			return
		}
		if y < b.rows && x >= 0 && x < b.cols {
			b.cells[y][x] = p.Type
		}
	})
	b.Active = nil
}

// ClearLines removes every full row and returns how many were removed. Rows are
// scanned bottom to top; after a removal the same index is examined again since
// the rows above have shifted into it.
func (b *Board) ClearLines() int {
	cleared := 0
	for y := b.rows - 1; y >= 0; y-- {
		if !b.rowFull(y) {
			continue
		}
		cleared++
		for pull := y; pull > 0; pull-- {
			copy(b.cells[pull], b.cells[pull-1])
		}
		for x := range b.cells[0] {
			b.cells[0][x] = Empty
		}
		y++
	}

	if cleared > 0 {
		idx := min(cleared, len(scoreTable)-1)
		b.Score += scoreTable[idx] * (b.Level + 1)
		b.Lines += cleared
		b.Level = b.Lines / 10
	}
	return cleared
}

func (b *Board) rowFull(y int) bool {
	for _, c := range b.cells[y] {
		if c == Empty {
			return false
		}
	}
	return true
}

// Spawn creates a random piece centered above the board, SpawnTicks gravity
// steps away from row 0, and makes it active.
func (b *Board) Spawn() *Piece {
	t := PieceType(b.rng.IntN(NumTypes) + 1)
	p := NewPiece(t)
	b.place(p)
	b.Active = p
	b.spawnPending = false
	return p
}

// Promote makes p the active piece, re-centered at the spawn entry row with its
// per-grid flags cleared. Any pending hold-spawn is cancelled.
func (b *Board) Promote(p *Piece) {
	b.place(p)
	p.Grabbed = false
	p.InPlay = false
	b.Active = p
	b.spawnPending = false
}

// TakeActive detaches the active piece from the grid and returns it.
func (b *Board) TakeActive() *Piece {
	p := b.Active
	b.Active = nil
	return p
}

func (b *Board) place(p *Piece) {
	p.X = (b.cols - p.Width()) / 2
	p.Y = -b.spawnTicks
}

// ScheduleSpawn arranges for a new piece to appear at the given timestamp.
func (b *Board) ScheduleSpawn(at int64) {
	b.spawnAt = at
	b.spawnPending = true
}

// SpawnPending reports whether a deferred spawn is waiting, and when it is due.
func (b *Board) SpawnPending() (int64, bool) {
	return b.spawnAt, b.spawnPending
}

// SpawnIfDue spawns the deferred piece once now reaches the scheduled time.
func (b *Board) SpawnIfDue(now int64) *Piece {
	if !b.spawnPending || now < b.spawnAt || b.Over {
		return nil
	}
	if b.Active != nil {
		b.spawnPending = false
		return nil
	}
	return b.Spawn()
}

// Gravity runs one Step when interval milliseconds have passed since the last
// gravity tick. A grabbed active piece is left alone but the clock still advances.
func (b *Board) Gravity(now, interval int64) TickResult {
	if now-b.lastGravity < interval {
		return TickResult{}
	}
	b.lastGravity = now
	if b.Over || b.Active == nil || b.Active.Grabbed {
		return TickResult{}
	}
	return b.Step()
}

// Step applies a single gravity tick to the active piece: descend if possible,
// otherwise lock, clear lines and spawn the next piece.
func (b *Board) Step() TickResult {
	if b.Over || b.Active == nil {
		return TickResult{}
	}
	if b.Move(0, 1) {
		return TickResult{Moved: true}
	}

	b.Lock()
	res := TickResult{Locked: true, Lines: b.ClearLines()}
	if b.Over {
		res.GameOver = true
		return res
	}
	res.Spawned = b.Spawn()
	return res
}

// Reset empties the grid and counters and spawns a fresh piece.
func (b *Board) Reset(now int64) *Piece {
	for y := range b.cells {
		for x := range b.cells[y] {
			b.cells[y][x] = Empty
		}
	}
	b.Active = nil
	b.spawnPending = false
	b.lastGravity = now
	b.Lines, b.Score, b.Level = 0, 0, 0
	b.Over = false
	return b.Spawn()
}

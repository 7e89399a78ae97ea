// Package board implements the falling-block grid: the locked cells, the active
// piece, rotation with wall kicks, locking, line clearing, gravity and spawning.
package board

import "github.com/ayusman/pinchfall/internal/geom"

// PieceType tags a piece shape and, inside the grid, a locked cell. Empty marks a
// free cell.
type PieceType int

const (
	Empty PieceType = iota
	I
	O
	T
	S
	Z
	J
	L
)

// NumTypes is the number of real piece types.
const NumTypes = 7

var typeNames = [...]string{"empty", "I", "O", "T", "S", "Z", "J", "L"}

func (t PieceType) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

// Compact shape matrices; rotation works on the non-square ones directly.
var shapes = map[PieceType][][]int{
	I: {{1, 1, 1, 1}},
	O: {{1, 1}, {1, 1}},
	T: {{0, 1, 0}, {1, 1, 1}},
	S: {{0, 1, 1}, {1, 1, 0}},
	Z: {{1, 1, 0}, {0, 1, 1}},
	J: {{1, 0, 0}, {1, 1, 1}},
	L: {{0, 0, 1}, {1, 1, 1}},
}

var colors = map[PieceType]string{
	I: "#00f0f0",
	O: "#f0f000",
	T: "#a000f0",
	S: "#00f000",
	Z: "#f00000",
	J: "#0000f0",
	L: "#f0a000",
}

// ColorOf returns the render color for a piece type.
func ColorOf(t PieceType) string {
	return colors[t]
}

// Piece is a single tetromino. While it is the board's active piece its X/Y are
// grid coordinates (Y is negative inside the spawn zone); once it moves into a
// hold slot only the screen positions remain meaningful.
type Piece struct {
	Type    PieceType
	Shape   [][]int
	X       int
	Y       int
	Color   string
	Grabbed bool
	InPlay  bool

	// Screen is where the piece is drawn this frame; Target is where it is easing to.
	Screen geom.Vec2
	Target geom.Vec2
}

// NewPiece returns a piece of type t in its spawn orientation at the grid origin.
func NewPiece(t PieceType) *Piece {
	return &Piece{
		Type:  t,
		Shape: cloneShape(shapes[t]),
		Color: colors[t],
	}
}

// Width returns the number of columns of the current shape.
func (p *Piece) Width() int {
	if len(p.Shape) == 0 {
		return 0
	}
	return len(p.Shape[0])
}

// Height returns the number of rows of the current shape.
func (p *Piece) Height() int {
	return len(p.Shape)
}

// Cells calls fn for every filled cell in grid coordinates.
func (p *Piece) Cells(fn func(x, y int)) {
	for r, row := range p.Shape {
		for c, v := range row {
			if v != 0 {
				fn(p.X+c, p.Y+r)
			}
		}
	}
}

// rotateCW returns shape rotated a quarter turn clockwise: transpose, then reverse
// each row.
func rotateCW(shape [][]int) [][]int {
	rows := len(shape)
	if rows == 0 {
		return nil
	}
	cols := len(shape[0])
	rotated := make([][]int, cols)
	for c := range cols {
		rotated[c] = make([]int, rows)
		for r := range rows {
			rotated[c][rows-1-r] = shape[r][c]
		}
	}
	return rotated
}

func cloneShape(shape [][]int) [][]int {
	out := make([][]int, len(shape))
	for i := range shape {
		out[i] = append([]int(nil), shape[i]...)
	}
	return out
}

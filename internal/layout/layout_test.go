package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/pinchfall/internal/board"
	"github.com/ayusman/pinchfall/internal/config"
	"github.com/ayusman/pinchfall/internal/geom"
)

func TestCompute(t *testing.T) {
	cfg := config.Default()
	l := Compute(cfg, 1280, 960, true)

	t.Run("board centered and bottom anchored", func(t *testing.T) {
		assert.Equal(t, geom.Vec2{X: 490, Y: 320}, l.BoardOrigin)
		assert.Equal(t, geom.Rect{X: 490, Y: 320, W: 300, H: 600}, l.PlayZone)
		assert.InDelta(t, 960-40, l.PlayZone.Y+l.PlayZone.H, 1e-9)
	})

	t.Run("spawn band sits directly above the board", func(t *testing.T) {
		assert.Equal(t, geom.Rect{X: 490, Y: 170, W: 300, H: 150}, l.SpawnZone)
		assert.True(t, l.SpawnOccupied)
	})

	t.Run("hold slots split across both edges", func(t *testing.T) {
		require.Len(t, l.HoldSlots, 4)
		assert.Equal(t, geom.Rect{X: 20, Y: 80, W: 120, H: 120}, l.HoldSlots[0])
		assert.Equal(t, geom.Rect{X: 20, Y: 220, W: 120, H: 120}, l.HoldSlots[1])
		assert.Equal(t, geom.Rect{X: 1140, Y: 80, W: 120, H: 120}, l.HoldSlots[2])
		assert.Equal(t, geom.Rect{X: 1140, Y: 220, W: 120, H: 120}, l.HoldSlots[3])

		assert.Equal(t, BankLeft, SlotBank(4, 1))
		assert.Equal(t, BankRight, SlotBank(4, 2))
	})
}

func TestCompute_Stateless(t *testing.T) {
	cfg := config.Default()
	a := Compute(cfg, 800, 900, false)
	_ = Compute(cfg, 1920, 1080, true)
	b := Compute(cfg, 800, 900, false)

	assert.Equal(t, a, b)
	assert.False(t, a.SpawnOccupied)
}

func TestPieceGeometry(t *testing.T) {
	cfg := config.Default()
	l := Compute(cfg, 1280, 960, true)

	p := board.NewPiece(board.T)
	p.X, p.Y = 3, -5

	assert.Equal(t, geom.Vec2{X: 580, Y: 170}, l.PiecePos(p))
	assert.Equal(t, geom.Vec2{X: 90, Y: 60}, l.PieceSize(p))
	assert.Equal(t, geom.Vec2{X: 625, Y: 200}, l.GridCenter(p))
	assert.True(t, l.SpawnZone.Contains(l.GridCenter(p)))

	p.Screen = geom.Vec2{X: 100, Y: 100}
	assert.Equal(t, geom.Vec2{X: 145, Y: 130}, l.ScreenCenter(p))
}

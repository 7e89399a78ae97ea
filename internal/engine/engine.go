// Package engine runs one frame of the game: it lays out the zones, advances the
// board, feeds both hands through their interaction machines and eases every
// drawn object toward its resting place. An Engine is not safe for concurrent
// use; callers serialize Update and Snapshot.
package engine

import (
	"fmt"
	"math/rand/v2"

	"github.com/ayusman/pinchfall/internal/board"
	"github.com/ayusman/pinchfall/internal/config"
	"github.com/ayusman/pinchfall/internal/detector"
	"github.com/ayusman/pinchfall/internal/event"
	"github.com/ayusman/pinchfall/internal/hold"
	"github.com/ayusman/pinchfall/internal/interaction"
	"github.com/ayusman/pinchfall/internal/layout"
)

// Input is everything one frame consumes besides the clock.
type Input struct {
	Left   *detector.HandSample `json:"left,omitempty"`
	Right  *detector.HandSample `json:"right,omitempty"`
	Width  float64              `json:"width"`
	Height float64              `json:"height"`
}

// Engine owns the game state.
type Engine struct {
	cfg     config.Config
	seed    uint64
	board   *board.Board
	hold    *hold.Inventory
	hands   interaction.Hands
	layout  layout.Layout
	events  event.Log
	now     int64
	started bool
}

// New creates an engine whose piece sequence is fixed by seed.
func New(cfg config.Config, seed uint64) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	e := &Engine{cfg: cfg, seed: seed}
	e.init()
	return e, nil
}

func (e *Engine) init() {
	rng := rand.New(rand.NewPCG(e.seed, e.seed^0x9e3779b97f4a7c15))
	e.board = board.New(e.cfg.Columns, e.cfg.Rows, e.cfg.SpawnTicks, rng)
	e.hold = hold.New(e.cfg.HoldSlots, e.cfg.HoldCapacity)
	e.hands = interaction.NewHands(e.cfg.SmoothIdle, e.cfg.SmoothDrag)
	e.started = false
}

// Restart throws away the current game and starts a new one on the next Update.
func (e *Engine) Restart() {
	e.init()
}

// Config returns the engine's configuration.
func (e *Engine) Config() config.Config { return e.cfg }

// Board exposes the board.
func (e *Engine) Board() *board.Board { return e.board }

// Hold exposes the hold inventory.
func (e *Engine) Hold() *hold.Inventory { return e.hold }

// Hands exposes both interaction records.
func (e *Engine) Hands() interaction.Hands { return e.hands }

// Layout returns the zones computed by the last Update.
func (e *Engine) Layout() layout.Layout { return e.layout }

// Now returns the timestamp of the last Update.
func (e *Engine) Now() int64 { return e.now }

// Update advances the game to now (milliseconds) with this frame's input and
// returns the events the frame produced. Stages always run in this order:
// layout, zone entry, deferred spawn, gravity, left hand, right hand, easing,
// hold highlight.
func (e *Engine) Update(now int64, in Input) []event.Event {
	e.events.Reset()
	e.now = now

	var fresh *board.Piece
	if !e.started {
		e.started = true
		fresh = e.board.Reset(now)
	}

	e.layout = layout.Compute(e.cfg, in.Width, in.Height, e.board.Active != nil)
	e.hold.ApplyLayout(e.layout.HoldSlots)

	w := &interaction.World{
		Board:  e.board,
		Hold:   e.hold,
		Layout: e.layout,
		Config: e.cfg,
		Now:    now,
		Events: &e.events,
	}

	if fresh != nil {
		e.spawned(fresh)
	}

	if a := e.board.Active; a != nil && !a.InPlay && a.Y >= 0 {
		a.InPlay = true
	}

	if p := e.board.SpawnIfDue(now); p != nil {
		e.spawned(p)
	}

	e.gravity(now)

	e.hands.Update(w, in.Left, in.Right)

	e.ease()

	e.hands.Highlight(w)

	return append([]event.Event(nil), e.events.Events()...)
}

func (e *Engine) gravity(now int64) {
	locked := e.board.Active
	res := e.board.Gravity(now, e.cfg.GravityIntervalMs)
	if !res.Locked {
		return
	}

	e.emit(event.Event{Kind: event.Lock, Piece: locked.Type.String(), Slot: -1})
	if res.Lines > 0 {
		e.emit(event.Event{Kind: event.Lines, Slot: -1, Value: res.Lines})
	}
	if res.GameOver {
		e.emit(event.Event{Kind: event.GameOver, Slot: -1, Value: e.board.Score})
		return
	}
	if res.Spawned != nil {
		e.spawned(res.Spawned)
	}
}

// spawned places a freshly generated piece directly at its grid position.
func (e *Engine) spawned(p *board.Piece) {
	p.Screen = e.layout.PiecePos(p)
	p.Target = p.Screen
	e.emit(event.Event{Kind: event.Spawn, Piece: p.Type.String(), Slot: -1})
}

// ease moves every object that no hand is carrying a fraction of the way toward
// its resting place: the active piece toward its grid cell, held pieces toward
// their stack position.
func (e *Engine) ease() {
	k := e.cfg.Easing
	if a := e.board.Active; a != nil && !a.Grabbed {
		a.Target = e.layout.PiecePos(a)
		a.Screen = a.Screen.Lerp(a.Target, k)
	}
	for i, s := range e.hold.Slots() {
		for depth, p := range s.Pieces() {
			if p.Grabbed {
				continue
			}
			p.Target = e.layout.StackPos(i, depth, p)
			p.Screen = p.Screen.Lerp(p.Target, k)
		}
	}
}

func (e *Engine) emit(ev event.Event) {
	ev.At = e.now
	e.events.Add(ev)
}

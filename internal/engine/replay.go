package engine

import (
	"github.com/ayusman/pinchfall/internal/config"
	"github.com/ayusman/pinchfall/internal/event"
)

// Frame is one recorded engine input.
type Frame struct {
	Time  int64 `json:"t"`
	Input Input `json:"input"`
}

// Replay runs frames through a fresh engine seeded with seed and returns the
// engine together with every event produced. The same config, seed and frames
// always yield the same game.
func Replay(cfg config.Config, seed uint64, frames []Frame) (*Engine, []event.Event, error) {
	e, err := New(cfg, seed)
	if err != nil {
		return nil, nil, err
	}
	var all []event.Event
	for _, f := range frames {
		all = append(all, e.Update(f.Time, f.Input)...)
	}
	return e, all, nil
}

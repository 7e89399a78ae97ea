// Package tray provides the system tray menu: pause and resume, a new game, the
// last game event and quit.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/pinchfall/internal/event"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle  func(enabled bool)
	onRestart func()
	onOpen    func()
	onQuit    func()
	enabled   bool
	last      string
	mu        sync.RWMutex

	menuToggle *systray.MenuItem
	menuLast   *systray.MenuItem
}

// New creates a new Tray in the running state.
func New() *Tray {
	return &Tray{enabled: true}
}

// OnToggle sets the callback for pause/resume.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnRestart sets the callback for "New Game".
func (t *Tray) OnRestart(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onRestart = fn
}

// OnOpen sets the callback for "Open Board...".
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback for "Quit".
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray. It blocks until systray.Quit is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetTitle("Pinchfall")
	systray.SetTooltip("Pinchfall")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Pause or resume the game")
	systray.AddSeparator()
	t.menuLast = systray.AddMenuItem(t.lastTitle(), "Last game event")
	t.menuLast.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuRestart := systray.AddMenuItem("New Game", "Start a new game")
	menuOpen := systray.AddMenuItem("Open Board...", "Open the board in a browser")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit Pinchfall")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuRestart.ClickedCh:
				t.call(func() func() { return t.onRestart })
			case <-menuOpen.ClickedCh:
				t.call(func() func() { return t.onOpen })
			case <-menuQuit.ClickedCh:
				t.call(func() func() { return t.onQuit })
				systray.Quit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Playing"
	}
	return "○ Paused"
}

// handleToggle flips the running state and reports it.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
	callback := t.onToggle
	t.mu.Unlock()

	if callback != nil {
		callback(enabled)
	}
}

// call runs the callback picked under the read lock.
func (t *Tray) call(pick func() func()) {
	t.mu.RLock()
	callback := pick()
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// Describe renders an event for the "Last:" menu line.
func Describe(ev event.Event) string {
	switch ev.Kind {
	case event.Lines:
		return fmt.Sprintf("%d line(s)", ev.Value)
	case event.GameOver:
		return fmt.Sprintf("game over (%d)", ev.Value)
	case event.Hold, event.Unhold:
		return fmt.Sprintf("%s %s, slot %d", ev.Kind, ev.Piece, ev.Slot+1)
	case event.Grab, event.Release, event.Move, event.Rotate:
		return fmt.Sprintf("%s %s (%s hand)", ev.Kind, ev.Piece, ev.Hand)
	case event.HandLost:
		return ev.Hand + " hand lost"
	}
	if ev.Piece != "" {
		return fmt.Sprintf("%s %s", ev.Kind, ev.Piece)
	}
	return string(ev.Kind)
}

// SetLastEvent updates the "Last:" menu line.
func (t *Tray) SetLastEvent(ev event.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.last = Describe(ev)
	if t.menuLast != nil {
		t.menuLast.SetTitle(t.lastTitle())
	}
}

func (t *Tray) lastTitle() string {
	if t.last == "" {
		return "Last: none"
	}
	return "Last: " + t.last
}

// SetEnabled syncs the menu with a state change made elsewhere.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
}

// IsEnabled returns the current running state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// Package tray provides a system tray menu for running gesturetoe without a
// window: pause and resume detection, show the game status and quit.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

const (
	titleEnabled  = "● Detecting"
	titlePaused   = "○ Paused"
	defaultStatus = "Mode: menu"
	defaultLast   = "Last: none"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle func(enabled bool)
	onOpen   func()
	onQuit   func()
	enabled  bool
	status   string
	last     string
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuStatus *systray.MenuItem
	menuLast   *systray.MenuItem
}

// New creates a new Tray with detection enabled.
func New() *Tray {
	return &Tray{
		enabled: true,
		status:  defaultStatus,
		last:    defaultLast,
	}
}

// OnToggle sets the callback invoked when detection is paused or resumed.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnOpen sets the callback for the "Open board" item. Without one the item
// is not shown.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback invoked when Quit is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray. It must be called from the main goroutine and
// blocks until Quit is clicked or Stop is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Stop removes the tray icon and makes Run return.
func (t *Tray) Stop() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("gesturetoe")
	systray.SetTooltip("Gesture Tic-Tac-Toe")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Pause or resume hand detection")
	systray.AddSeparator()

	t.menuStatus = systray.AddMenuItem(t.status, "Current mode")
	t.menuStatus.Disable()
	t.menuLast = systray.AddMenuItem(t.last, "Last game event")
	t.menuLast.Disable()
	systray.AddSeparator()

	var openCh chan struct{}
	if t.onOpen != nil {
		openCh = systray.AddMenuItem("Open board...", "Open the live board in a browser").ClickedCh
		systray.AddSeparator()
	}
	t.mu.Unlock()

	menuQuit := systray.AddMenuItem("Quit", "Quit gesturetoe")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-openCh:
				t.handleOpen()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// handleToggle flips the enabled state and reports it.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleOpen() {
	t.mu.RLock()
	callback := t.onOpen
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetStatus updates the status line, e.g. "Mode: playing".
func (t *Tray) SetStatus(status string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if status == "" {
		status = defaultStatus
	}
	t.status = status
	if t.menuStatus != nil {
		t.menuStatus.SetTitle(status)
	}
}

// SetLast updates the last-event line.
func (t *Tray) SetLast(event string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.last = defaultLast
	if event != "" {
		t.last = "Last: " + event
	}
	if t.menuLast != nil {
		t.menuLast.SetTitle(t.last)
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// Status returns the current status and last-event lines.
func (t *Tray) Status() (status, last string) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status, t.last
}

func toggleTitle(enabled bool) string {
	if enabled {
		return titleEnabled
	}
	return titlePaused
}

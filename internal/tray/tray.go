// Package tray provides the system tray interface for PhysioCheck.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

// Tray shows session state in the system tray: pause/resume, the running
// rep count and a link to the dashboard.
type Tray struct {
	onToggle    func(enabled bool)
	onDashboard func()
	onQuit      func()
	enabled     bool
	mu          sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuReps   *systray.MenuItem
}

// New creates a new Tray with detection enabled by default.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback for pausing or resuming detection.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnDashboard sets the callback for the dashboard menu item.
func (t *Tray) OnDashboard(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDashboard = fn
}

// OnQuit sets the callback for the quit menu item.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("PhysioCheck")
	systray.SetTooltip("PhysioCheck exercise tracking")

	t.menuToggle = systray.AddMenuItem("● Tracking", "Pause or resume exercise tracking")
	systray.AddSeparator()

	t.menuReps = systray.AddMenuItem("Reps: 0", "Reps counted this session")
	t.menuReps.Disable()
	systray.AddSeparator()

	menuDashboard := systray.AddMenuItem("Open Dashboard...", "Open the dashboard in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit PhysioCheck")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuDashboard.ClickedCh:
				t.handleDashboard()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if enabled {
		t.menuToggle.SetTitle("● Tracking")
	} else {
		t.menuToggle.SetTitle("○ Paused")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleDashboard() {
	t.mu.RLock()
	callback := t.onDashboard
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

// SetRepCount updates the rep counter shown in the menu.
func (t *Tray) SetRepCount(count int) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuReps != nil {
		t.menuReps.SetTitle(fmt.Sprintf("Reps: %d", count))
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

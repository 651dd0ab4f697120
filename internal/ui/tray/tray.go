package tray

import (
	"fmt"

	"sherpa/internal/core/timekeeper"

	"fyne.io/fyne/v2"
)

// MenuHost is the part of desktop.App the tray needs.
type MenuHost interface {
	SetSystemTrayMenu(menu *fyne.Menu)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnPreferences func()
	OnTogglePause func()
	OnStop        func()
	OnQuit        func()
}

// Manager mirrors the timer in the system tray menu.
type Manager struct {
	host       MenuHost
	title      string
	callbacks  Callbacks
	statusItem *fyne.MenuItem
	pauseItem  *fyne.MenuItem
	stopItem   *fyne.MenuItem
	state      timekeeper.State
	mode       timekeeper.Mode
	seconds    int
}

// New creates a tray manager and installs its menu.
func New(host MenuHost, title string, callbacks Callbacks) *Manager {
	manager := &Manager{
		host:      host,
		title:     title,
		callbacks: callbacks,
		state:     timekeeper.StateIdle,
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.pauseItem = fyne.NewMenuItem("Pause", invoke(&manager.callbacks.OnTogglePause))
	manager.stopItem = fyne.NewMenuItem("Stop timer", invoke(&manager.callbacks.OnStop))

	manager.refresh()
	return manager
}

// Listen applies events until the channel closes.
func (manager *Manager) Listen(events <-chan timekeeper.Event) {
	for event := range events {
		event := event
		fyne.Do(func() {
			manager.Apply(event)
		})
	}
}

// Apply updates the menu for one event.
func (manager *Manager) Apply(event timekeeper.Event) {
	switch event.Type {
	case timekeeper.EventProgress, timekeeper.EventStateChange:
		manager.mode = event.Mode
		manager.state = event.State
		manager.seconds = event.Seconds
	default:
		return
	}
	manager.refresh()
}

// Status returns the text of the status item.
func (manager *Manager) Status() string {
	return manager.statusItem.Label
}

func (manager *Manager) refresh() {
	manager.statusItem.Label = statusText(manager.state, manager.mode, manager.seconds)

	active := manager.state == timekeeper.StateRunning || manager.state == timekeeper.StatePaused
	manager.pauseItem.Disabled = !active
	manager.stopItem.Disabled = !active
	if manager.state == timekeeper.StatePaused {
		manager.pauseItem.Label = "Resume"
	} else {
		manager.pauseItem.Label = "Pause"
	}

	if manager.host == nil {
		return
	}
	manager.host.SetSystemTrayMenu(fyne.NewMenu(manager.title,
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.pauseItem,
		manager.stopItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences", invoke(&manager.callbacks.OnPreferences)),
		fyne.NewMenuItem("Quit", invoke(&manager.callbacks.OnQuit)),
	))
}

func statusText(state timekeeper.State, mode timekeeper.Mode, seconds int) string {
	clock := timekeeper.FormatCompact(seconds)
	switch state {
	case timekeeper.StateRunning:
		if mode == timekeeper.ModeStopwatch {
			return fmt.Sprintf("Stopwatch: %s", clock)
		}
		return fmt.Sprintf("Time left: %s", clock)
	case timekeeper.StatePaused:
		return fmt.Sprintf("Paused at %s", clock)
	case timekeeper.StateExpired:
		return "Time is up!"
	default:
		return "No timer running"
	}
}

// invoke defers the callback lookup so handlers can be replaced after New.
func invoke(handler *func()) func() {
	return func() {
		if *handler != nil {
			(*handler)()
		}
	}
}

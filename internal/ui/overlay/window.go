package overlay

import (
	"image/color"

	"sherpa/internal/core/timekeeper"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Controls receives the overlay's button presses.
type Controls interface {
	TogglePause() error
	WindowClosed()
}

// Config defines overlay visuals.
type Config struct {
	Title   string
	Opacity uint8
}

// Window shows the running timer: a time label and a Pause/Resume toggle.
type Window struct {
	window     fyne.Window
	config     Config
	background *canvas.Rectangle
	clock      *canvas.Text
	label      *widget.Label
	toggle     *widget.Button
	controls   Controls
	visible    bool
}

const (
	overlayWidth  = float32(300)
	overlayHeight = float32(100)
)

// view is what the overlay shows for a session state.
type view struct {
	visible bool
	toggle  string
}

func viewFor(state timekeeper.State) view {
	switch state {
	case timekeeper.StateRunning:
		return view{visible: true, toggle: "Pause"}
	case timekeeper.StatePaused:
		return view{visible: true, toggle: "Resume"}
	default:
		return view{visible: false, toggle: "Pause"}
	}
}

// New creates the overlay window. It starts hidden.
func New(app fyne.App, config Config, controls Controls) *Window {
	if config.Title == "" {
		config.Title = "Sherpa"
	}
	window := app.NewWindow(config.Title)
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	background := canvas.NewRectangle(color.NRGBA{R: 24, G: 24, B: 32, A: config.Opacity})

	clock := canvas.NewText("00:00", color.NRGBA{R: 232, G: 190, B: 66, A: 255})
	clock.Alignment = fyne.TextAlignCenter
	clock.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	clock.TextSize = 22

	label := widget.NewLabel("")
	label.Alignment = fyne.TextAlignCenter

	overlay := &Window{
		window:     window,
		config:     config,
		background: background,
		clock:      clock,
		label:      label,
		controls:   controls,
	}
	overlay.toggle = widget.NewButton("Pause", overlay.handleToggle)

	content := container.NewBorder(container.NewVBox(clock, label), nil, nil, nil, overlay.toggle)
	window.SetContent(container.NewStack(background, content))
	window.Resize(fyne.NewSize(overlayWidth, overlayHeight))
	window.SetFixedSize(true)
	window.SetCloseIntercept(overlay.handleClose)

	return overlay
}

// Listen applies events until the channel closes. Updates are handed to the
// fyne event loop, so Listen may run on any goroutine.
func (overlay *Window) Listen(events <-chan timekeeper.Event) {
	for event := range events {
		event := event
		fyne.Do(func() {
			overlay.Apply(event)
		})
	}
}

// Apply updates the overlay for one event. It must run on the fyne event loop.
func (overlay *Window) Apply(event timekeeper.Event) {
	switch event.Type {
	case timekeeper.EventProgress:
		overlay.label.SetText(event.Label)
		overlay.clock.Text = timekeeper.FormatCompact(event.Seconds)
		overlay.clock.Refresh()
	case timekeeper.EventStateChange:
		state := viewFor(event.State)
		overlay.toggle.SetText(state.toggle)
		if state.visible {
			overlay.show()
		} else {
			overlay.hide()
		}
	}
}

// Visible reports whether the overlay is on screen.
func (overlay *Window) Visible() bool {
	return overlay.visible
}

// Label returns the text of the time label.
func (overlay *Window) Label() string {
	return overlay.label.Text
}

// UpdateConfig updates overlay visuals.
func (overlay *Window) UpdateConfig(config Config) {
	overlay.config.Opacity = config.Opacity
	overlay.background.FillColor = color.NRGBA{R: 24, G: 24, B: 32, A: config.Opacity}
	canvas.Refresh(overlay.background)
	overlay.applyNativeOpacity(config.Opacity)
}

func (overlay *Window) show() {
	if overlay.visible {
		return
	}
	overlay.visible = true
	overlay.window.Show()
	overlay.applyNativeOpacity(overlay.config.Opacity)
}

func (overlay *Window) hide() {
	if !overlay.visible {
		return
	}
	overlay.visible = false
	overlay.window.Hide()
}

// handleToggle and handleClose run on the fyne event loop; the controller may
// block until a tick loop exits, so they hand off to a goroutine.
func (overlay *Window) handleToggle() {
	if overlay.controls == nil {
		return
	}
	go func() {
		_ = overlay.controls.TogglePause()
	}()
}

func (overlay *Window) handleClose() {
	overlay.hide()
	if overlay.controls == nil {
		return
	}
	go overlay.controls.WindowClosed()
}

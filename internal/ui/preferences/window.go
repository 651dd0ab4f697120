package preferences

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window    fyne.Window
	settings  Settings
	onSave    func(Settings)
	idleCheck *widget.Check
	idleAfter *widget.Entry
	maxHours  *widget.Entry
	sound     *widget.Check
	opacity   *widget.Slider
	store     *widget.Select
}

// New creates a preferences window. It starts hidden.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Sherpa Settings")

	prefs := &Window{
		window:    window,
		onSave:    onSave,
		idleCheck: widget.NewCheck("Pause the timer when I'm away", nil),
		idleAfter: widget.NewEntry(),
		maxHours:  widget.NewEntry(),
		sound:     widget.NewCheck("Play a chime when time is up", nil),
		opacity:   widget.NewSlider(MinOverlayOpacity, MaxOverlayOpacity),
		store:     widget.NewSelect([]string{"yaml", "sqlite"}, nil),
	}
	prefs.opacity.Step = 0.01

	form := container.NewVBox(
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.idleCheck,
		container.NewHBox(widget.NewLabel("Away after"), prefs.idleAfter, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Longest timer"), prefs.maxHours, widget.NewLabel("h")),
		prefs.sound,
		widget.NewLabelWithStyle("Overlay", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Opacity"),
		prefs.opacity,
		widget.NewLabelWithStyle("Storage (applies on next start)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.store,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", window.Hide)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(380, 420))
	window.SetCloseIntercept(window.Hide)

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.idleCheck.SetChecked(settings.IdleEnabled)
	prefs.idleAfter.SetText(fmt.Sprintf("%d", int(settings.IdleAfter.Minutes())))
	prefs.maxHours.SetText(fmt.Sprintf("%d", int(settings.MaxDuration.Hours())))
	prefs.sound.SetChecked(settings.SoundEnabled)
	prefs.opacity.SetValue(settings.OverlayOpacity)
	prefs.store.SetSelected(settings.Store)
}

func (prefs *Window) handleSave() {
	prefs.settings = prefs.collect()
	if prefs.onSave != nil {
		prefs.onSave(prefs.settings)
	}
	prefs.window.Hide()
}

// collect reads the form back into Settings. Fields that do not parse keep
// their previous value.
func (prefs *Window) collect() Settings {
	settings := prefs.settings
	if minutes, ok := parsePositiveInt(prefs.idleAfter.Text); ok {
		settings.IdleAfter = time.Duration(minutes) * time.Minute
	}
	if hours, ok := parsePositiveInt(prefs.maxHours.Text); ok {
		settings.MaxDuration = time.Duration(hours) * time.Hour
	}
	settings.IdleEnabled = prefs.idleCheck.Checked
	settings.SoundEnabled = prefs.sound.Checked
	settings.OverlayOpacity = prefs.opacity.Value
	if prefs.store.Selected != "" {
		settings.Store = prefs.store.Selected
	}
	return settings
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}

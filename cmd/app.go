package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"sherpa/internal/control"
	"sherpa/internal/core/clock"
	"sherpa/internal/core/session"
	"sherpa/internal/core/timekeeper"
	"sherpa/internal/platform"
	"sherpa/internal/storage"
	"sherpa/internal/ui/alert"
	"sherpa/internal/ui/console"
	"sherpa/internal/ui/overlay"
	"sherpa/internal/ui/preferences"
	"sherpa/internal/ui/tray"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/spf13/cobra"
)

func runApp(cmd *cobra.Command) error {
	settings, settingsPath := resolveSettings(cmd)
	kind, dataPath, err := resolveStore(cmd, settings)
	if err != nil {
		return err
	}

	lock, err := platform.AcquireDataLock(appName, dataPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = lock.Release()
	}()

	store, err := storage.Open(kind, dataPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	tasks, err := store.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := timekeeper.NewHub()
	defer hub.Close()

	presenter := console.New(cmd.OutOrStdout())
	controller := session.NewController(ctx, settings.TimeKeeperConfig(), tasks, store, presenter, session.Options{
		Clock:       clock.Real(),
		Publisher:   hub,
		IdleChecker: platform.NewIdleChecker(),
	})
	defer controller.Close()

	var player alert.Player
	if speaker, err := alert.NewSpeaker(); err != nil {
		log.Printf("audio disabled: %v", err)
	} else {
		player = speaker
	}
	chime := alert.New(player, settings.SoundEnabled)
	go chime.Listen(hub.Subscribe(8))

	planner := control.NewPlanner(tasks, store, presenter, nil)
	loop := control.NewLoop(cmd.InOrStdin(), presenter, planner, controller)

	presenter.Welcome(appName)

	headless, _ := cmd.Flags().GetBool("headless")
	if headless {
		return loop.Run(ctx)
	}
	return runDesktop(ctx, loop, controller, hub, chime, settings, settingsPath)
}

// runDesktop runs the fyne event loop on the main goroutine and the command
// loop beside it. Either one ending ends the other.
func runDesktop(ctx context.Context, loop *control.Loop, controller *session.Controller, hub *timekeeper.Hub, chime *alert.Alert, settings preferences.Settings, settingsPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fyneApp := app.NewWithID(appID)

	overlayWindow := overlay.New(fyneApp, overlay.Config{Title: appName, Opacity: settings.OverlayAlpha()}, controller)
	go overlayWindow.Listen(hub.Subscribe(64))

	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		if settingsPath != "" {
			if err := storage.SaveSettings(settingsPath, updated); err != nil {
				log.Printf("save settings: %v", err)
			}
		}
		controller.UpdateConfig(updated.TimeKeeperConfig())
		chime.SetEnabled(updated.SoundEnabled)
		overlayWindow.UpdateConfig(overlay.Config{Title: appName, Opacity: updated.OverlayAlpha()})
	})

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager := tray.New(desktopApp, appName, tray.Callbacks{
			OnPreferences: prefsWindow.Show,
			OnTogglePause: func() { go func() { _ = controller.TogglePause() }() },
			OnStop:        func() { go func() { _ = controller.StopTimer() }() },
			OnQuit:        fyneApp.Quit,
		})
		go trayManager.Listen(hub.Subscribe(64))
	} else {
		log.Printf("system tray unsupported on this platform")
	}

	loopErr := make(chan error, 1)
	go func() {
		loopErr <- loop.Run(ctx)
		fyne.Do(fyneApp.Quit)
	}()
	go func() {
		<-ctx.Done()
		fyne.Do(fyneApp.Quit)
	}()

	fyneApp.Run()
	cancel()
	controller.Close()

	err := <-loopErr
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

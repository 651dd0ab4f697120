package main

import (
	"fmt"
	"os"

	"sherpa/internal/storage"
	"sherpa/internal/ui/preferences"

	"github.com/spf13/cobra"
)

const (
	appName = "Sherpa"
	appID   = "com.sherpa.app"
	dataEnv = "SHERPA_DATA"
)

var rootCmd = &cobra.Command{
	Use:   "sherpa",
	Short: "Study planner with a countdown and stopwatch timer",
	Long: "Sherpa keeps a list of tasks with due and work dates and runs study sessions\n" +
		"with a countdown or stopwatch timer shown in a small always-visible window.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().String("data", "", "Path to the task save file (overrides "+dataEnv+" env var)")
	rootCmd.PersistentFlags().String("store", "", "Task store backend: yaml or sqlite (overrides settings)")
	rootCmd.PersistentFlags().String("config", "", "Path to settings.yaml")
	rootCmd.Flags().Bool("headless", false, "Run in the terminal only, without the timer window and tray")

	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(historyCmd)
}

// resolveSettings loads settings from --config or the default location.
// A broken settings file is reported and defaults are used.
func resolveSettings(cmd *cobra.Command) (preferences.Settings, string) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		defaultPath, err := storage.SettingsPath(appName)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "settings: %v\n", err)
			return preferences.DefaultSettings(), ""
		}
		path = defaultPath
	}
	settings, err := storage.LoadSettings(path)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "settings: %v (using defaults)\n", err)
	}
	return settings, path
}

// resolveStore returns the backend and save file path: --store over the
// settings file, and --data over SHERPA_DATA over the default location.
func resolveStore(cmd *cobra.Command, settings preferences.Settings) (storage.Kind, string, error) {
	name, _ := cmd.Flags().GetString("store")
	if name == "" {
		name = settings.Store
	}
	kind, err := storage.ParseKind(name)
	if err != nil {
		return "", "", err
	}

	if path, _ := cmd.Flags().GetString("data"); path != "" {
		return kind, path, nil
	}
	if path := os.Getenv(dataEnv); path != "" {
		return kind, path, nil
	}
	path, err := storage.DefaultDataPath(appName, kind)
	if err != nil {
		return "", "", err
	}
	return kind, path, nil
}

func openStore(cmd *cobra.Command) (storage.TaskStore, preferences.Settings, string, error) {
	settings, settingsPath := resolveSettings(cmd)
	kind, path, err := resolveStore(cmd, settings)
	if err != nil {
		return nil, settings, settingsPath, err
	}
	store, err := storage.Open(kind, path)
	if err != nil {
		return nil, settings, settingsPath, fmt.Errorf("open %s store %s: %w", kind, path, err)
	}
	return store, settings, settingsPath, nil
}

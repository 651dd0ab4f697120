package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sherpa/internal/platform"
	"sherpa/internal/ui/preferences"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	IdleEnabled      bool    `yaml:"idle_enabled"`
	IdleAfterMinutes int     `yaml:"idle_after_minutes"`
	MaxDurationHours int     `yaml:"max_duration_hours"`
	SoundEnabled     *bool   `yaml:"sound_enabled"`
	OverlayOpacity   float64 `yaml:"overlay_opacity"`
	Store            string  `yaml:"store"`
}

// LoadSettings reads user preferences from the YAML file at path.
// If the file does not exist, default settings are returned.
func LoadSettings(path string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to the YAML file at path.
func SaveSettings(path string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	sound := settings.SoundEnabled
	fileData := yamlSettings{
		IdleEnabled:      settings.IdleEnabled,
		IdleAfterMinutes: int(settings.IdleAfter / time.Minute),
		MaxDurationHours: int(settings.MaxDuration / time.Hour),
		SoundEnabled:     &sound,
		OverlayOpacity:   settings.OverlayOpacity,
		Store:            settings.Store,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// SettingsPath returns <config dir>/<appName>/settings.yaml.
func SettingsPath(appName string) (string, error) {
	appDir, err := platform.AppDir(appName)
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, settingsFileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.IdleAfterMinutes > 0 {
		settings.IdleAfter = time.Duration(fileData.IdleAfterMinutes) * time.Minute
	}
	if fileData.MaxDurationHours > 0 {
		settings.MaxDuration = time.Duration(fileData.MaxDurationHours) * time.Hour
	}
	if fileData.OverlayOpacity >= preferences.MinOverlayOpacity && fileData.OverlayOpacity <= preferences.MaxOverlayOpacity {
		settings.OverlayOpacity = fileData.OverlayOpacity
	}
	if kind, err := ParseKind(fileData.Store); err == nil {
		settings.Store = string(kind)
	}
	if fileData.SoundEnabled != nil {
		settings.SoundEnabled = *fileData.SoundEnabled
	}

	settings.IdleEnabled = fileData.IdleEnabled
}

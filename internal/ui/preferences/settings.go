package preferences

import (
	"time"

	"sherpa/internal/core/model"
)

const (
	MinOverlayOpacity = 0.5
	MaxOverlayOpacity = 1.0
)

// Settings defines editable user preferences.
type Settings struct {
	IdleEnabled bool
	IdleAfter   time.Duration
	MaxDuration time.Duration

	SoundEnabled   bool
	OverlayOpacity float64

	// Store names the task store backend, "yaml" or "sqlite".
	Store string
}

// DefaultSettings returns default settings for Sherpa.
func DefaultSettings() Settings {
	return Settings{
		IdleEnabled:    false,
		IdleAfter:      5 * time.Minute,
		MaxDuration:    24 * time.Hour,
		SoundEnabled:   true,
		OverlayOpacity: 0.9,
		Store:          "yaml",
	}
}

// TimeKeeperConfig converts settings to TimeKeeperConfig.
func (settings Settings) TimeKeeperConfig() model.TimeKeeperConfig {
	config := model.DefaultTimeKeeperConfig()
	config.IdlePauseEnabled = settings.IdleEnabled
	if settings.IdleAfter > 0 {
		config.IdlePauseAfter = settings.IdleAfter
	}
	if settings.MaxDuration > 0 {
		config.MaxDuration = settings.MaxDuration
	}
	return config
}

// OverlayAlpha maps the opacity preference onto a color alpha channel.
func (settings Settings) OverlayAlpha() uint8 {
	opacity := settings.OverlayOpacity
	if opacity < MinOverlayOpacity {
		opacity = MinOverlayOpacity
	}
	if opacity > MaxOverlayOpacity {
		opacity = MaxOverlayOpacity
	}
	return uint8(opacity * 255)
}

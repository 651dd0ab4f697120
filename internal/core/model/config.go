package model

import "time"

// TimeKeeperConfig contains runtime settings shared by every timer session.
type TimeKeeperConfig struct {
	TickInterval time.Duration
	MaxDuration  time.Duration

	IdlePauseEnabled  bool
	IdlePauseAfter    time.Duration
	IdleCheckInterval time.Duration
}

// DefaultTimeKeeperConfig returns the settings used when nothing is configured.
func DefaultTimeKeeperConfig() TimeKeeperConfig {
	return TimeKeeperConfig{
		TickInterval:      time.Second,
		MaxDuration:       24 * time.Hour,
		IdlePauseEnabled:  false,
		IdlePauseAfter:    5 * time.Minute,
		IdleCheckInterval: 5 * time.Second,
	}
}

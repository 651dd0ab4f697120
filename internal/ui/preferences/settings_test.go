package preferences

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeKeeperConfigFromSettings(t *testing.T) {
	settings := DefaultSettings()
	settings.IdleEnabled = true
	settings.IdleAfter = 10 * time.Minute
	settings.MaxDuration = 3 * time.Hour

	config := settings.TimeKeeperConfig()
	assert.True(t, config.IdlePauseEnabled)
	assert.Equal(t, 10*time.Minute, config.IdlePauseAfter)
	assert.Equal(t, 3*time.Hour, config.MaxDuration)
	assert.Equal(t, time.Second, config.TickInterval)
}

func TestTimeKeeperConfigKeepsDefaultsForZeroValues(t *testing.T) {
	config := Settings{}.TimeKeeperConfig()
	assert.Equal(t, 5*time.Minute, config.IdlePauseAfter)
	assert.Equal(t, 24*time.Hour, config.MaxDuration)
}

func TestOverlayAlphaIsClamped(t *testing.T) {
	assert.Equal(t, uint8(255), Settings{OverlayOpacity: 3}.OverlayAlpha())
	assert.Equal(t, uint8(127), Settings{OverlayOpacity: 0.1}.OverlayAlpha())
	assert.Equal(t, uint8(229), Settings{OverlayOpacity: 0.9}.OverlayAlpha())
}

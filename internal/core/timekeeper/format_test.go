package timekeeper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		name  string
		total int
		want  string
	}{
		{"zero", 0, "00 second(s)"},
		{"single digit seconds", 7, "07 second(s)"},
		{"minutes", 69, "01 minute(s) 09 second(s)"},
		{"exact minute", 600, "10 minute(s) 00 second(s)"},
		{"hours use modulo minutes", 3909, "01 hour(s) 05 minute(s) 09 second(s)"},
		{"long session", 12*3600 + 34*60 + 56, "12 hour(s) 34 minute(s) 56 second(s)"},
		{"negative clamps", -5, "00 second(s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSeconds(tt.total))
		})
	}
}

func TestFormatCompact(t *testing.T) {
	assert.Equal(t, "00:07", FormatCompact(7))
	assert.Equal(t, "25:00", FormatCompact(1500))
	assert.Equal(t, "01:05:09", FormatCompact(3909))
}

func TestDescribeDuration(t *testing.T) {
	assert.Equal(t, "45 seconds", DescribeDuration(45))
	assert.Equal(t, "2 minutes 5 seconds", DescribeDuration(125))
	assert.Equal(t, "1 hours 5 minutes 9 seconds", DescribeDuration(3909))
}

func TestSnapshotPredicates(t *testing.T) {
	paused := Snapshot{State: StatePaused}
	assert.True(t, paused.Paused())
	assert.True(t, paused.Running())
	assert.False(t, paused.Finished())

	stopped := Snapshot{State: StateStopped}
	assert.True(t, stopped.ForcedStop())
	assert.False(t, stopped.Running())
	assert.True(t, stopped.Finished())

	expired := Snapshot{State: StateExpired}
	assert.False(t, expired.ForcedStop())
	assert.True(t, expired.Finished())

	assert.Equal(t, "Time left: 03 second(s)", Snapshot{Mode: ModeCountdown, Seconds: 3}.Label())
}

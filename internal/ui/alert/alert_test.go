package alert

import (
	"sync"
	"testing"
	"time"

	"sherpa/internal/core/timekeeper"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPlayer struct {
	mu      sync.Mutex
	streams []beep.Streamer
}

func (player *recordingPlayer) Play(streamer beep.Streamer) {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.streams = append(player.streams, streamer)
}

func (player *recordingPlayer) Count() int {
	player.mu.Lock()
	defer player.mu.Unlock()
	return len(player.streams)
}

func countSamples(streamer beep.Streamer) (int, float64) {
	buffer := make([][2]float64, 512)
	var total int
	var peak float64
	for {
		n, ok := streamer.Stream(buffer)
		for _, sample := range buffer[:n] {
			if sample[0] > peak {
				peak = sample[0]
			}
		}
		total += n
		if !ok {
			return total, peak
		}
	}
}

func TestChimeLength(t *testing.T) {
	streamer, err := chime(SampleRate)
	require.NoError(t, err)

	samples, peak := countSamples(streamer)
	want := SampleRate.N(150*time.Millisecond) + SampleRate.N(80*time.Millisecond) + SampleRate.N(250*time.Millisecond)
	assert.Equal(t, want, samples)
	assert.Greater(t, peak, 0.0)
	assert.LessOrEqual(t, peak, 0.41)
}

func TestListenChimesOnlyOnExpiry(t *testing.T) {
	player := &recordingPlayer{}
	alert := New(player, true)

	events := make(chan timekeeper.Event, 8)
	events <- timekeeper.Event{Type: timekeeper.EventStateChange, State: timekeeper.StateRunning}
	events <- timekeeper.Event{Type: timekeeper.EventProgress, State: timekeeper.StateRunning, Seconds: 0}
	events <- timekeeper.Event{Type: timekeeper.EventStateChange, State: timekeeper.StateStopped}
	events <- timekeeper.Event{Type: timekeeper.EventStateChange, State: timekeeper.StateExpired}
	close(events)

	alert.Listen(events)
	assert.Equal(t, 1, player.Count())
}

func TestDisabledAlertIsSilent(t *testing.T) {
	player := &recordingPlayer{}
	alert := New(player, false)
	require.NoError(t, alert.Chime())
	assert.Equal(t, 0, player.Count())

	alert.SetEnabled(true)
	require.NoError(t, alert.Chime())
	assert.Equal(t, 1, player.Count())

	assert.NoError(t, New(nil, true).Chime())
}

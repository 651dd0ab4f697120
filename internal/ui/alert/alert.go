// Package alert plays a chime when a countdown runs out.
package alert

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"sherpa/internal/core/timekeeper"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// SampleRate is the rate the chime is synthesized and played at.
const SampleRate = beep.SampleRate(44100)

// note is one tone of the chime; a zero frequency is a rest.
type note struct {
	frequency float64
	length    time.Duration
}

var chimeNotes = []note{
	{frequency: 880, length: 150 * time.Millisecond},
	{length: 80 * time.Millisecond},
	{frequency: 1320, length: 250 * time.Millisecond},
}

// Player sends a stream to an audio device.
type Player interface {
	Play(streamer beep.Streamer)
}

type speakerPlayer struct {
	mu sync.Mutex
}

// NewSpeaker initialises the default audio device.
func NewSpeaker() (Player, error) {
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	return &speakerPlayer{}, nil
}

func (player *speakerPlayer) Play(streamer beep.Streamer) {
	player.mu.Lock()
	defer player.mu.Unlock()
	speaker.Play(streamer)
}

// Alert chimes on natural expiry. A nil player keeps it silent.
type Alert struct {
	player  Player
	enabled atomic.Bool
}

// New creates an alert playing through player.
func New(player Player, enabled bool) *Alert {
	alert := &Alert{player: player}
	alert.enabled.Store(enabled)
	return alert
}

// SetEnabled turns the chime on or off.
func (alert *Alert) SetEnabled(enabled bool) {
	alert.enabled.Store(enabled)
}

// Listen chimes for every expiry event until the channel closes.
func (alert *Alert) Listen(events <-chan timekeeper.Event) {
	for event := range events {
		if event.Type == timekeeper.EventStateChange && event.State == timekeeper.StateExpired {
			if err := alert.Chime(); err != nil {
				log.Printf("chime: %v", err)
			}
		}
	}
}

// Chime plays the chime if enabled.
func (alert *Alert) Chime() error {
	if alert.player == nil || !alert.enabled.Load() {
		return nil
	}
	streamer, err := chime(SampleRate)
	if err != nil {
		return err
	}
	alert.player.Play(streamer)
	return nil
}

func chime(sampleRate beep.SampleRate) (beep.Streamer, error) {
	parts := make([]beep.Streamer, 0, len(chimeNotes))
	for _, n := range chimeNotes {
		samples := sampleRate.N(n.length)
		if n.frequency == 0 {
			parts = append(parts, beep.Silence(samples))
			continue
		}
		tone, err := generators.SineTone(sampleRate, n.frequency)
		if err != nil {
			return nil, fmt.Errorf("sine tone %.0f Hz: %w", n.frequency, err)
		}
		parts = append(parts, beep.Take(samples, tone))
	}
	return &effects.Gain{Streamer: beep.Seq(parts...), Gain: -0.6}, nil
}

package timekeeper

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"sherpa/internal/core/clock"
	"sherpa/internal/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	clock  *clock.Manual
	hub    *Hub
	events <-chan Event
}

func newFixture() *fixture {
	hub := NewHub()
	return &fixture{
		clock:  clock.NewManual(time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)),
		hub:    hub,
		events: hub.Subscribe(256),
	}
}

func (f *fixture) keeper(session Config, options Options) *TimeKeeper {
	options.Clock = f.clock
	options.Publisher = f.hub
	return New(model.DefaultTimeKeeperConfig(), session, options)
}

// tick advances one interval and waits until the loop has armed its next timer.
func (f *fixture) tick(t *testing.T) {
	t.Helper()
	f.clock.BlockUntil(1)
	f.clock.Advance(time.Second)
}

func (f *fixture) settle(t *testing.T) {
	t.Helper()
	f.clock.BlockUntil(1)
}

func waitDone(t *testing.T, keeper *TimeKeeper) {
	t.Helper()
	select {
	case <-keeper.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("tick loop did not exit")
	}
}

func drain(events <-chan Event) []Event {
	var out []Event
	for {
		select {
		case event := <-events:
			out = append(out, event)
		default:
			return out
		}
	}
}

func statesOf(events []Event) []State {
	var states []State
	for _, event := range events {
		if event.Type == EventStateChange {
			states = append(states, event.State)
		}
	}
	return states
}

func TestCountdownExpiresAfterExactTicks(t *testing.T) {
	f := newFixture()
	var expirations int32
	expired := make(chan Snapshot, 1)
	keeper := f.keeper(Config{Mode: ModeCountdown, Seconds: 3}, Options{
		OnExpire: func(snapshot Snapshot) {
			atomic.AddInt32(&expirations, 1)
			expired <- snapshot
		},
	})

	keeper.Start(context.Background())
	for i := 0; i < 3; i++ {
		f.tick(t)
	}
	waitDone(t, keeper)

	select {
	case snapshot := <-expired:
		assert.Equal(t, StateExpired, snapshot.State)
		assert.Equal(t, 0, snapshot.Seconds)
		assert.False(t, snapshot.ForcedStop())
	case <-time.After(2 * time.Second):
		t.Fatal("expiry callback not invoked")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&expirations))
	assert.Equal(t, 0, f.clock.Pending())

	states := statesOf(drain(f.events))
	assert.Equal(t, []State{StateRunning, StateExpired}, states)
}

func TestCountdownExpiryForAnyDuration(t *testing.T) {
	for _, seconds := range []int{1, 2, 5, 12} {
		f := newFixture()
		keeper := f.keeper(Config{Mode: ModeCountdown, Seconds: seconds}, Options{})
		keeper.Start(context.Background())
		for i := 0; i < seconds; i++ {
			f.tick(t)
		}
		waitDone(t, keeper)

		snapshot := keeper.Snapshot()
		assert.Equal(t, StateExpired, snapshot.State, "seconds=%d", seconds)
		assert.Equal(t, 0, snapshot.Seconds, "seconds=%d", seconds)
	}
}

func TestPauseResumePreservesRemaining(t *testing.T) {
	f := newFixture()
	keeper := f.keeper(Config{Mode: ModeCountdown, Seconds: 10}, Options{})
	keeper.Start(context.Background())

	for i := 0; i < 3; i++ {
		f.tick(t)
	}
	f.settle(t)

	paused, err := keeper.Pause()
	require.NoError(t, err)
	assert.Equal(t, 7, paused.Seconds)
	assert.True(t, paused.Paused())
	assert.True(t, paused.Running())

	assert.Equal(t, 0, f.clock.Pending(), "pause must cancel the interval in flight")
	f.clock.Advance(5 * time.Second)
	assert.Equal(t, 7, keeper.Snapshot().Seconds)

	resumed, err := keeper.Resume()
	require.NoError(t, err)
	assert.Equal(t, 7, resumed.Seconds)
	assert.Equal(t, StateRunning, resumed.State)

	f.tick(t)
	f.settle(t)
	assert.Equal(t, 6, keeper.Snapshot().Seconds)

	_, err = keeper.Stop()
	require.NoError(t, err)
}

func TestResumeStartsFullInterval(t *testing.T) {
	f := newFixture()
	keeper := f.keeper(Config{Mode: ModeCountdown, Seconds: 10}, Options{})
	keeper.Start(context.Background())

	f.settle(t)
	f.clock.Advance(600 * time.Millisecond)
	_, err := keeper.Pause()
	require.NoError(t, err)
	assert.Equal(t, 0, f.clock.Pending())

	_, err = keeper.Resume()
	require.NoError(t, err)
	f.settle(t)

	f.clock.Advance(600 * time.Millisecond)
	assert.Equal(t, 10, keeper.Snapshot().Seconds)

	f.clock.Advance(400 * time.Millisecond)
	f.settle(t)
	assert.Equal(t, 9, keeper.Snapshot().Seconds)

	_, err = keeper.Stop()
	require.NoError(t, err)
}

func TestStopFromRunningAndPaused(t *testing.T) {
	for _, pause := range []bool{false, true} {
		f := newFixture()
		keeper := f.keeper(Config{Mode: ModeCountdown, Seconds: 30}, Options{
			OnExpire: func(Snapshot) { t.Error("forced stop must not report expiry") },
		})
		keeper.Start(context.Background())
		f.tick(t)
		f.settle(t)
		if pause {
			_, err := keeper.Pause()
			require.NoError(t, err)
		}

		snapshot, err := keeper.Stop()
		require.NoError(t, err)
		assert.Equal(t, StateStopped, snapshot.State)
		assert.Equal(t, 0, snapshot.Seconds)
		assert.True(t, snapshot.ForcedStop())
		assert.False(t, snapshot.Running())
		waitDone(t, keeper)
		assert.Equal(t, 0, f.clock.Pending())

		states := statesOf(drain(f.events))
		require.NotEmpty(t, states)
		assert.Equal(t, StateStopped, states[len(states)-1])
	}
}

func TestIllegalTransitions(t *testing.T) {
	f := newFixture()
	keeper := f.keeper(Config{Mode: ModeCountdown, Seconds: 5}, Options{})

	_, err := keeper.Pause()
	assert.ErrorIs(t, err, ErrNotRunning)
	_, err = keeper.Resume()
	assert.ErrorIs(t, err, ErrNotRunning)
	_, err = keeper.Stop()
	assert.ErrorIs(t, err, ErrNotRunning)

	keeper.Start(context.Background())
	_, err = keeper.Resume()
	assert.ErrorIs(t, err, ErrStillRunning)

	_, err = keeper.Pause()
	require.NoError(t, err)
	_, err = keeper.Pause()
	assert.ErrorIs(t, err, ErrAlreadyPaused)

	_, err = keeper.Stop()
	require.NoError(t, err)
	_, err = keeper.Pause()
	assert.ErrorIs(t, err, ErrAlreadyFinished)
	_, err = keeper.Stop()
	assert.ErrorIs(t, err, ErrAlreadyFinished)
	_, err = keeper.Resume()
	assert.ErrorIs(t, err, ErrNotRunning)

	assert.True(t, errors.Is(err, ErrIllegalTransition))
}

func TestStartTwiceIsNoop(t *testing.T) {
	f := newFixture()
	keeper := f.keeper(Config{Mode: ModeCountdown, Seconds: 5}, Options{})
	keeper.Start(context.Background())
	done := keeper.Done()
	keeper.Start(context.Background())
	assert.Equal(t, done, keeper.Done())
	f.settle(t)
	assert.Equal(t, 1, f.clock.Pending())

	_, err := keeper.Stop()
	require.NoError(t, err)
}

func TestStopwatchCountsUp(t *testing.T) {
	f := newFixture()
	keeper := f.keeper(Config{Mode: ModeStopwatch, Seconds: 99}, Options{})
	keeper.Start(context.Background())
	for i := 0; i < 4; i++ {
		f.tick(t)
	}
	f.settle(t)

	snapshot := keeper.Snapshot()
	assert.Equal(t, 4, snapshot.Seconds)
	assert.Equal(t, "Time elapsed: 04 second(s)", snapshot.Label())

	stopped, err := keeper.Stop()
	require.NoError(t, err)
	assert.Equal(t, 0, stopped.Seconds)
}

func TestProgressEventsCarryLabels(t *testing.T) {
	f := newFixture()
	keeper := f.keeper(Config{Mode: ModeCountdown, Seconds: 62}, Options{})
	keeper.Start(context.Background())
	f.tick(t)
	f.settle(t)
	_, err := keeper.Stop()
	require.NoError(t, err)

	var labels []string
	for _, event := range drain(f.events) {
		if event.Type == EventProgress {
			labels = append(labels, event.Label)
			assert.Equal(t, keeper.ID(), event.Session)
		}
	}
	assert.Equal(t, []string{
		"Time left: 01 minute(s) 02 second(s)",
		"Time left: 01 minute(s) 01 second(s)",
	}, labels)
}

func TestParentCancellationStopsLoop(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	keeper := f.keeper(Config{Mode: ModeStopwatch}, Options{})
	keeper.Start(ctx)
	f.settle(t)

	cancel()
	waitDone(t, keeper)
	assert.Equal(t, StateStopped, keeper.State())
}

type stubIdle struct {
	mu   sync.Mutex
	idle time.Duration
	err  error
}

func (stub *stubIdle) IdleDuration() (time.Duration, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	return stub.idle, stub.err
}

func TestIdlePause(t *testing.T) {
	f := newFixture()
	idle := &stubIdle{idle: 10 * time.Minute}
	pausedCh := make(chan Snapshot, 1)

	config := model.DefaultTimeKeeperConfig()
	config.IdlePauseEnabled = true
	keeper := New(config, Config{Mode: ModeCountdown, Seconds: 60}, Options{
		Clock:       f.clock,
		Publisher:   f.hub,
		IdleChecker: idle,
		OnIdlePause: func(snapshot Snapshot) { pausedCh <- snapshot },
	})
	keeper.Start(context.Background())
	f.tick(t)

	select {
	case snapshot := <-pausedCh:
		assert.Equal(t, StatePaused, snapshot.State)
		assert.Equal(t, 59, snapshot.Seconds)
	case <-time.After(2 * time.Second):
		t.Fatal("idle pause not reported")
	}

	resumed, err := keeper.Resume()
	require.NoError(t, err)
	assert.Equal(t, 59, resumed.Seconds)
	_, err = keeper.Stop()
	require.NoError(t, err)
}

func TestIdleUnsupportedDisablesChecks(t *testing.T) {
	f := newFixture()
	idle := &stubIdle{err: ErrIdleUnsupported}

	config := model.DefaultTimeKeeperConfig()
	config.IdlePauseEnabled = true
	keeper := New(config, Config{Mode: ModeStopwatch}, Options{
		Clock:       f.clock,
		Publisher:   f.hub,
		IdleChecker: idle,
	})
	keeper.Start(context.Background())
	f.tick(t)
	f.settle(t)
	_, err := keeper.Stop()
	require.NoError(t, err)

	var idleErrors int
	for _, event := range drain(f.events) {
		if event.Type == EventIdleError {
			idleErrors++
		}
	}
	assert.Equal(t, 1, idleErrors)
}

func TestHubCloseClosesSubscribers(t *testing.T) {
	hub := NewHub()
	events := hub.Subscribe(1)
	hub.Publish(Event{Type: EventProgress})
	hub.Publish(Event{Type: EventProgress}) // dropped, buffer full
	hub.Close()

	var received int
	for range events {
		received++
	}
	assert.Equal(t, 1, received)

	late := hub.Subscribe(1)
	_, open := <-late
	assert.False(t, open)
}

func TestHubKeepsStateChangesWhenFull(t *testing.T) {
	hub := NewHub()
	events := hub.Subscribe(2)
	hub.Publish(Event{Type: EventProgress, Seconds: 3})
	hub.Publish(Event{Type: EventProgress, Seconds: 2})
	hub.Publish(Event{Type: EventProgress, Seconds: 1}) // dropped
	hub.Publish(Event{Type: EventStateChange, State: StatePaused})

	first := <-events
	second := <-events
	assert.Equal(t, 2, first.Seconds)
	assert.Equal(t, EventStateChange, second.Type)
	assert.Equal(t, StatePaused, second.State)
}

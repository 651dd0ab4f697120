package timekeeper

import (
	"context"
	"errors"
	"sync"
	"time"

	"sherpa/internal/core/clock"
	"sherpa/internal/core/model"

	"github.com/google/uuid"
)

// ErrIdleUnsupported indicates idle detection is not available on this system.
var ErrIdleUnsupported = errors.New("idle detection unsupported")

// IdleChecker reports the duration of user inactivity.
type IdleChecker interface {
	IdleDuration() (time.Duration, error)
}

// Config describes a single timer session.
type Config struct {
	Mode    Mode
	Seconds int
}

// Options wires a TimeKeeper to its collaborators. OnExpire runs on the tick
// goroutine after the loop has exited. OnIdlePause runs on the tick goroutine
// while the loop is alive, so it must not call Stop.
type Options struct {
	Clock       clock.Clock
	Publisher   Publisher
	IdleChecker IdleChecker
	OnExpire    func(Snapshot)
	OnIdlePause func(Snapshot)
}

// TimeKeeper runs one countdown or stopwatch tick loop.
type TimeKeeper struct {
	mu            sync.Mutex
	config        model.TimeKeeperConfig
	session       Config
	options       Options
	id            uuid.UUID
	state         State
	seconds       int
	ticks         int
	startedAt     time.Time
	resumeCh      chan struct{}
	pauseCh       chan struct{}
	timer         clock.Timer
	pauses        int
	cancel        context.CancelFunc
	done          chan struct{}
	lastIdleCheck time.Time
	idleEnabled   bool
}

// New creates a TimeKeeper for one session.
func New(config model.TimeKeeperConfig, session Config, options Options) *TimeKeeper {
	if config.TickInterval <= 0 {
		config.TickInterval = time.Second
	}
	if config.IdleCheckInterval <= 0 {
		config.IdleCheckInterval = 5 * time.Second
	}
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.Publisher == nil {
		options.Publisher = discardPublisher{}
	}
	if session.Mode == "" {
		session.Mode = ModeCountdown
	}
	if session.Mode == ModeStopwatch || session.Seconds < 0 {
		session.Seconds = 0
	}

	return &TimeKeeper{
		config:      config,
		session:     session,
		options:     options,
		id:          uuid.New(),
		state:       StateIdle,
		seconds:     session.Seconds,
		idleEnabled: config.IdlePauseEnabled && options.IdleChecker != nil,
	}
}

// ID identifies the session.
func (keeper *TimeKeeper) ID() uuid.UUID {
	return keeper.id
}

// Start launches the tick loop. The loop ends when ctx is cancelled, when
// Stop is called, or when a countdown reaches zero. Calling Start on a
// TimeKeeper that already started does nothing.
func (keeper *TimeKeeper) Start(ctx context.Context) {
	keeper.mu.Lock()
	if keeper.state != StateIdle {
		keeper.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	keeper.cancel = cancel
	keeper.done = make(chan struct{})
	keeper.pauseCh = make(chan struct{})
	keeper.state = StateRunning
	keeper.startedAt = keeper.options.Clock.Now()
	keeper.emitStateLocked(keeper.startedAt, "")
	keeper.emitProgressLocked(keeper.startedAt)
	keeper.mu.Unlock()

	go keeper.run(runCtx)
}

func (keeper *TimeKeeper) run(ctx context.Context) {
	expired := keeper.loop(ctx)

	keeper.mu.Lock()
	if keeper.state == StateRunning || keeper.state == StatePaused {
		// cancelled from outside, not through Stop
		keeper.forceStopLocked()
	}
	snapshot := keeper.snapshotLocked()
	done := keeper.done
	keeper.mu.Unlock()

	keeper.cancel()
	close(done)

	if expired && keeper.options.OnExpire != nil {
		keeper.options.OnExpire(snapshot)
	}
}

func (keeper *TimeKeeper) loop(ctx context.Context) bool {
	for {
		if !keeper.waitWhilePaused(ctx) {
			return false
		}
		timer, paused, pauses, ok := keeper.arm()
		if !ok {
			continue
		}

		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-paused:
			// pauseLocked already stopped the timer
			continue
		case tickTime := <-timer.C():
			expired, idlePaused, snapshot := keeper.tick(tickTime, pauses)
			if expired {
				return true
			}
			if idlePaused && keeper.options.OnIdlePause != nil {
				keeper.options.OnIdlePause(snapshot)
			}
		}
	}
}

// waitWhilePaused blocks until the session is running again. It reports false
// when the loop should exit.
func (keeper *TimeKeeper) waitWhilePaused(ctx context.Context) bool {
	keeper.mu.Lock()
	for keeper.state == StatePaused {
		wake := keeper.resumeCh
		keeper.mu.Unlock()
		select {
		case <-ctx.Done():
			return false
		case <-wake:
		}
		keeper.mu.Lock()
	}
	running := keeper.state == StateRunning
	keeper.mu.Unlock()
	return running
}

// arm starts a full interval for a running session and returns it with the
// channel closed by the next pause. It reports false when the session is no
// longer running.
func (keeper *TimeKeeper) arm() (clock.Timer, <-chan struct{}, int, bool) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.state != StateRunning {
		return nil, nil, 0, false
	}
	keeper.timer = keeper.options.Clock.NewTimer(keeper.config.TickInterval)
	return keeper.timer, keeper.pauseCh, keeper.pauses, true
}

func (keeper *TimeKeeper) tick(tickTime time.Time, pauses int) (expired bool, idlePaused bool, snapshot Snapshot) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.timer = nil

	// A pause that raced the firing timer discards this tick, even when the
	// session was resumed before the tick got here.
	if keeper.state != StateRunning || keeper.pauses != pauses {
		return false, false, keeper.snapshotLocked()
	}

	keeper.ticks++
	if keeper.session.Mode == ModeStopwatch {
		keeper.seconds++
	} else {
		keeper.seconds--
	}

	if keeper.session.Mode == ModeCountdown && keeper.seconds <= 0 {
		keeper.seconds = 0
		keeper.state = StateExpired
		keeper.emitProgressLocked(tickTime)
		keeper.emitStateLocked(tickTime, "time is up")
		return true, false, keeper.snapshotLocked()
	}

	keeper.emitProgressLocked(tickTime)
	idlePaused = keeper.handleIdleCheckLocked(tickTime)
	return false, idlePaused, keeper.snapshotLocked()
}

func (keeper *TimeKeeper) handleIdleCheckLocked(now time.Time) bool {
	if !keeper.idleEnabled {
		return false
	}
	if !keeper.lastIdleCheck.IsZero() && now.Sub(keeper.lastIdleCheck) < keeper.config.IdleCheckInterval {
		return false
	}
	keeper.lastIdleCheck = now

	idleDuration, err := keeper.options.IdleChecker.IdleDuration()
	if err != nil {
		if errors.Is(err, ErrIdleUnsupported) {
			keeper.idleEnabled = false
		}
		keeper.emitLocked(Event{
			Type:    EventIdleError,
			State:   keeper.state,
			Message: err.Error(),
			At:      now,
		})
		return false
	}
	if idleDuration < keeper.config.IdlePauseAfter {
		return false
	}

	keeper.pauseLocked()
	keeper.emitLocked(Event{
		Type:    EventIdlePause,
		State:   StatePaused,
		Seconds: keeper.seconds,
		Message: "paused after inactivity",
		At:      now,
	})
	keeper.emitStateLocked(now, "paused after inactivity")
	return true
}

func (keeper *TimeKeeper) emitStateLocked(at time.Time, message string) {
	keeper.emitLocked(Event{
		Type:    EventStateChange,
		State:   keeper.state,
		Seconds: keeper.seconds,
		Message: message,
		At:      at,
	})
}

func (keeper *TimeKeeper) emitProgressLocked(at time.Time) {
	keeper.emitLocked(Event{
		Type:    EventProgress,
		State:   keeper.state,
		Seconds: keeper.seconds,
		Label:   keeper.snapshotLocked().Label(),
		At:      at,
	})
}

func (keeper *TimeKeeper) emitLocked(event Event) {
	event.Session = keeper.id
	event.Mode = keeper.session.Mode
	keeper.options.Publisher.Publish(event)
}

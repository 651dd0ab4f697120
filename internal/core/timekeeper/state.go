package timekeeper

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrIllegalTransition is the root of every rejected state change.
var ErrIllegalTransition = errors.New("illegal timer transition")

var (
	ErrNotRunning      = fmt.Errorf("%w: timer is not running", ErrIllegalTransition)
	ErrAlreadyPaused   = fmt.Errorf("%w: timer is already paused", ErrIllegalTransition)
	ErrAlreadyFinished = fmt.Errorf("%w: timer has already finished", ErrIllegalTransition)
	ErrStillRunning    = fmt.Errorf("%w: timer is still running", ErrIllegalTransition)
)

// Snapshot is a consistent copy of a session's state taken under the lock.
// Ticks counts the intervals actually applied, so it survives the reset a
// forced stop performs on Seconds.
type Snapshot struct {
	ID        uuid.UUID
	Mode      Mode
	State     State
	Seconds   int
	Initial   int
	Ticks     int
	StartedAt time.Time
}

// Running reports whether the tick loop is alive, paused or not.
func (snapshot Snapshot) Running() bool {
	return snapshot.State == StateRunning || snapshot.State == StatePaused
}

// Paused reports whether the session is suspended.
func (snapshot Snapshot) Paused() bool {
	return snapshot.State == StatePaused
}

// ForcedStop reports whether the user stopped the session.
func (snapshot Snapshot) ForcedStop() bool {
	return snapshot.State == StateStopped
}

// Finished reports whether the session reached a terminal state.
func (snapshot Snapshot) Finished() bool {
	return snapshot.State == StateStopped || snapshot.State == StateExpired
}

// Label is the text shown on the overlay for the current value.
func (snapshot Snapshot) Label() string {
	if snapshot.Mode == ModeStopwatch {
		return "Time elapsed: " + FormatSeconds(snapshot.Seconds)
	}
	return "Time left: " + FormatSeconds(snapshot.Seconds)
}

// Pause suspends the tick loop without touching the counter.
func (keeper *TimeKeeper) Pause() (Snapshot, error) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	switch keeper.state {
	case StatePaused:
		return keeper.snapshotLocked(), ErrAlreadyPaused
	case StateStopped, StateExpired:
		return keeper.snapshotLocked(), ErrAlreadyFinished
	case StateIdle:
		return keeper.snapshotLocked(), ErrNotRunning
	}

	keeper.pauseLocked()
	keeper.emitStateLocked(keeper.options.Clock.Now(), "")
	return keeper.snapshotLocked(), nil
}

// Resume wakes a paused tick loop.
func (keeper *TimeKeeper) Resume() (Snapshot, error) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	switch keeper.state {
	case StateRunning:
		return keeper.snapshotLocked(), ErrStillRunning
	case StateIdle, StateStopped, StateExpired:
		return keeper.snapshotLocked(), ErrNotRunning
	}

	keeper.state = StateRunning
	keeper.pauseCh = make(chan struct{})
	keeper.wakeLocked()
	keeper.emitStateLocked(keeper.options.Clock.Now(), "")
	return keeper.snapshotLocked(), nil
}

// Stop force-stops a running or paused session, resets the counter and waits
// for the tick loop to exit.
func (keeper *TimeKeeper) Stop() (Snapshot, error) {
	keeper.mu.Lock()
	switch keeper.state {
	case StateIdle:
		snapshot := keeper.snapshotLocked()
		keeper.mu.Unlock()
		return snapshot, ErrNotRunning
	case StateStopped, StateExpired:
		snapshot := keeper.snapshotLocked()
		keeper.mu.Unlock()
		return snapshot, ErrAlreadyFinished
	}

	keeper.forceStopLocked()
	snapshot := keeper.snapshotLocked()
	cancel := keeper.cancel
	done := keeper.done
	keeper.mu.Unlock()

	cancel()
	<-done
	return snapshot, nil
}

// Snapshot returns the current session state.
func (keeper *TimeKeeper) Snapshot() Snapshot {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.snapshotLocked()
}

// State returns the current lifecycle state.
func (keeper *TimeKeeper) State() State {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.state
}

// Done is closed once the tick loop has exited. It is nil before Start.
func (keeper *TimeKeeper) Done() <-chan struct{} {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.done
}

func (keeper *TimeKeeper) forceStopLocked() {
	keeper.state = StateStopped
	keeper.seconds = 0
	keeper.stopTimerLocked()
	keeper.wakeLocked()
	keeper.emitStateLocked(keeper.options.Clock.Now(), "")
}

// pauseLocked cancels the interval in flight, so every resume starts a fresh
// full interval.
func (keeper *TimeKeeper) pauseLocked() {
	keeper.state = StatePaused
	keeper.pauses++
	keeper.resumeCh = make(chan struct{})
	keeper.stopTimerLocked()
	if keeper.pauseCh != nil {
		close(keeper.pauseCh)
		keeper.pauseCh = nil
	}
}

func (keeper *TimeKeeper) stopTimerLocked() {
	if keeper.timer != nil {
		keeper.timer.Stop()
		keeper.timer = nil
	}
}

func (keeper *TimeKeeper) wakeLocked() {
	if keeper.resumeCh != nil {
		close(keeper.resumeCh)
		keeper.resumeCh = nil
	}
}

func (keeper *TimeKeeper) snapshotLocked() Snapshot {
	return Snapshot{
		ID:        keeper.id,
		Mode:      keeper.session.Mode,
		State:     keeper.state,
		Seconds:   keeper.seconds,
		Initial:   keeper.session.Seconds,
		Ticks:     keeper.ticks,
		StartedAt: keeper.startedAt,
	}
}

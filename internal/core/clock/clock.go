// Package clock abstracts the time operations the tick loop depends on so
// tests can drive it deterministically.
package clock

import "time"

// Clock provides the current time and one-shot timers.
type Clock interface {
	Now() time.Time
	NewTimer(d time.Duration) Timer
}

// Timer is a single pending wake-up.
type Timer interface {
	C() <-chan time.Time
	// Stop prevents the timer from firing. It reports false if the timer
	// already fired or was stopped.
	Stop() bool
}

type realClock struct{}

// Real returns a Clock backed by the time package.
func Real() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) NewTimer(d time.Duration) Timer {
	return &realTimer{timer: time.NewTimer(d)}
}

type realTimer struct {
	timer *time.Timer
}

func (timer *realTimer) C() <-chan time.Time {
	return timer.timer.C
}

func (timer *realTimer) Stop() bool {
	return timer.timer.Stop()
}

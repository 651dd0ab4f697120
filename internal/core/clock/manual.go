package clock

import (
	"sort"
	"sync"
	"time"
)

// Manual is a Clock whose time only moves when Advance is called.
type Manual struct {
	mu      sync.Mutex
	cond    *sync.Cond
	now     time.Time
	pending []*manualTimer
}

// NewManual creates a manual clock starting at start.
func NewManual(start time.Time) *Manual {
	manual := &Manual{now: start}
	manual.cond = sync.NewCond(&manual.mu)
	return manual
}

// Now returns the manual clock's current time.
func (manual *Manual) Now() time.Time {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	return manual.now
}

// NewTimer registers a timer that fires once the clock reaches now+d.
func (manual *Manual) NewTimer(d time.Duration) Timer {
	manual.mu.Lock()
	defer manual.mu.Unlock()

	timer := &manualTimer{
		owner:    manual,
		deadline: manual.now.Add(d),
		ch:       make(chan time.Time, 1),
	}
	if d <= 0 {
		timer.ch <- manual.now
		return timer
	}
	manual.pending = append(manual.pending, timer)
	manual.cond.Broadcast()
	return timer
}

// Advance moves the clock forward and fires every timer that became due.
func (manual *Manual) Advance(d time.Duration) {
	manual.mu.Lock()
	defer manual.mu.Unlock()

	manual.now = manual.now.Add(d)
	sort.Slice(manual.pending, func(i, j int) bool {
		return manual.pending[i].deadline.Before(manual.pending[j].deadline)
	})

	remaining := manual.pending[:0]
	for _, timer := range manual.pending {
		if timer.deadline.After(manual.now) {
			remaining = append(remaining, timer)
			continue
		}
		timer.ch <- manual.now
	}
	manual.pending = remaining
	manual.cond.Broadcast()
}

// BlockUntil waits until at least n timers are pending.
func (manual *Manual) BlockUntil(n int) {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	for len(manual.pending) < n {
		manual.cond.Wait()
	}
}

// Pending returns the number of timers waiting to fire.
func (manual *Manual) Pending() int {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	return len(manual.pending)
}

type manualTimer struct {
	owner    *Manual
	deadline time.Time
	ch       chan time.Time
}

func (timer *manualTimer) C() <-chan time.Time {
	return timer.ch
}

func (timer *manualTimer) Stop() bool {
	manual := timer.owner
	manual.mu.Lock()
	defer manual.mu.Unlock()

	for i, candidate := range manual.pending {
		if candidate == timer {
			manual.pending = append(manual.pending[:i], manual.pending[i+1:]...)
			manual.cond.Broadcast()
			return true
		}
	}
	return false
}

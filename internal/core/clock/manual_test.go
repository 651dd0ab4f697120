package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualFiresOnlyDueTimers(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	manual := NewManual(start)

	short := manual.NewTimer(time.Second)
	long := manual.NewTimer(3 * time.Second)
	require.Equal(t, 2, manual.Pending())

	manual.Advance(time.Second)

	select {
	case fired := <-short.C():
		assert.Equal(t, start.Add(time.Second), fired)
	default:
		t.Fatal("short timer did not fire")
	}
	select {
	case <-long.C():
		t.Fatal("long timer fired early")
	default:
	}
	assert.Equal(t, 1, manual.Pending())
}

func TestManualStopRemovesTimer(t *testing.T) {
	manual := NewManual(time.Unix(0, 0))
	timer := manual.NewTimer(time.Second)

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	assert.Equal(t, 0, manual.Pending())

	manual.Advance(2 * time.Second)
	select {
	case <-timer.C():
		t.Fatal("stopped timer fired")
	default:
	}
}

func TestManualBlockUntil(t *testing.T) {
	manual := NewManual(time.Unix(0, 0))
	done := make(chan struct{})
	go func() {
		manual.BlockUntil(1)
		close(done)
	}()

	manual.NewTimer(time.Minute)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("BlockUntil did not observe the new timer")
	}
}

func TestManualZeroDurationFiresImmediately(t *testing.T) {
	manual := NewManual(time.Unix(0, 0))
	timer := manual.NewTimer(0)

	select {
	case <-timer.C():
	default:
		t.Fatal("zero-duration timer did not fire")
	}
	assert.Equal(t, 0, manual.Pending())
}

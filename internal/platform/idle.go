package platform

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"sherpa/internal/core/timekeeper"
)

// NewIdleChecker returns the idle detector for this platform. Where none is
// available the checker reports timekeeper.ErrIdleUnsupported.
func NewIdleChecker() timekeeper.IdleChecker {
	return newIdleChecker()
}

type unsupportedIdleChecker struct{}

func (unsupportedIdleChecker) IdleDuration() (time.Duration, error) {
	return 0, timekeeper.ErrIdleUnsupported
}

// parseIdleMillis reads xprintidle output: milliseconds since last input.
func parseIdleMillis(output string) (time.Duration, error) {
	idleMillis, err := strconv.ParseInt(strings.TrimSpace(output), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse idle milliseconds: %w", err)
	}
	if idleMillis < 0 {
		idleMillis = 0
	}
	return time.Duration(idleMillis) * time.Millisecond, nil
}

var hidIdlePattern = regexp.MustCompile(`"HIDIdleTime"\s*=\s*(\d+)`)

// parseHIDIdleTime reads the IOHIDSystem registry dump printed by ioreg,
// where HIDIdleTime is in nanoseconds.
func parseHIDIdleTime(output string) (time.Duration, error) {
	match := hidIdlePattern.FindStringSubmatch(output)
	if match == nil {
		return 0, fmt.Errorf("HIDIdleTime not found in ioreg output")
	}
	idleNanos, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse HIDIdleTime: %w", err)
	}
	return time.Duration(idleNanos), nil
}

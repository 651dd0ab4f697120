package session

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"sherpa/internal/core/timekeeper"
)

// ParseTimerArgs reads the arguments of a start command:
//
//	start <duration>
//	start countdown <duration>
//	start stopwatch
//
// A duration is whole seconds ("90") or a Go duration ("25m", "1h30m") between
// one second and limit.
func ParseTimerArgs(args []string, limit time.Duration) (timekeeper.Mode, int, error) {
	invalid := newError(ErrInvalidTimerInput, msgInvalidTimerInput, nil)
	if len(args) == 0 {
		return "", 0, invalid
	}

	switch strings.ToLower(args[0]) {
	case string(timekeeper.ModeStopwatch):
		if len(args) != 1 {
			return "", 0, invalid
		}
		return timekeeper.ModeStopwatch, 0, nil
	case string(timekeeper.ModeCountdown):
		args = args[1:]
	}
	if len(args) != 1 {
		return "", 0, invalid
	}

	seconds, err := parseSeconds(args[0])
	if err != nil {
		invalid.Cause = err
		return "", 0, invalid
	}
	if seconds < 1 || (limit > 0 && seconds > int(limit/time.Second)) {
		return "", 0, invalid
	}
	return timekeeper.ModeCountdown, seconds, nil
}

func parseSeconds(token string) (int, error) {
	if seconds, err := strconv.Atoi(token); err == nil {
		return seconds, nil
	}
	duration, err := time.ParseDuration(token)
	if err != nil {
		return 0, err
	}
	if duration%time.Second != 0 {
		return 0, fmt.Errorf("duration %q is not a whole number of seconds", token)
	}
	return int(duration / time.Second), nil
}

// parsePosition reads the 1-based task number of a mark command.
func parsePosition(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: expected one task number", ErrInvalidTaskInput)
	}
	position, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTaskInput, err)
	}
	return position, nil
}

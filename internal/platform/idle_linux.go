package platform

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"sherpa/internal/core/timekeeper"
)

type xprintidleChecker struct {
	path string
}

func newIdleChecker() timekeeper.IdleChecker {
	path, err := exec.LookPath("xprintidle")
	if err != nil {
		return unsupportedIdleChecker{}
	}
	return &xprintidleChecker{path: path}
}

func (checker *xprintidleChecker) IdleDuration() (time.Duration, error) {
	// xprintidle only sees X11 input; under Wayland it reports stale values.
	if strings.EqualFold(os.Getenv("XDG_SESSION_TYPE"), "wayland") {
		return 0, timekeeper.ErrIdleUnsupported
	}
	output, err := exec.Command(checker.path).Output()
	if err != nil {
		return 0, fmt.Errorf("xprintidle: %w", err)
	}
	return parseIdleMillis(string(output))
}

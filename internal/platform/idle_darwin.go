package platform

import (
	"fmt"
	"os/exec"
	"time"

	"sherpa/internal/core/timekeeper"
)

type ioregChecker struct {
	path string
}

func newIdleChecker() timekeeper.IdleChecker {
	path, err := exec.LookPath("ioreg")
	if err != nil {
		return unsupportedIdleChecker{}
	}
	return &ioregChecker{path: path}
}

func (checker *ioregChecker) IdleDuration() (time.Duration, error) {
	output, err := exec.Command(checker.path, "-c", "IOHIDSystem", "-d", "4").Output()
	if err != nil {
		return 0, fmt.Errorf("ioreg: %w", err)
	}
	return parseHIDIdleTime(string(output))
}

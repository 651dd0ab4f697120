//go:build !linux && !darwin && !windows

package platform

import "sherpa/internal/core/timekeeper"

func newIdleChecker() timekeeper.IdleChecker {
	return unsupportedIdleChecker{}
}

package platform

import (
	"errors"
	"fmt"
	"syscall"
	"time"
	"unsafe"

	"sherpa/internal/core/timekeeper"
)

var (
	user32               = syscall.NewLazyDLL("user32.dll")
	kernel32             = syscall.NewLazyDLL("kernel32.dll")
	procGetLastInputInfo = user32.NewProc("GetLastInputInfo")
	procGetTickCount     = kernel32.NewProc("GetTickCount")
)

type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

type win32IdleChecker struct{}

func newIdleChecker() timekeeper.IdleChecker {
	if procGetLastInputInfo.Find() != nil || procGetTickCount.Find() != nil {
		return unsupportedIdleChecker{}
	}
	return win32IdleChecker{}
}

func (win32IdleChecker) IdleDuration() (time.Duration, error) {
	info := lastInputInfo{cbSize: uint32(unsafe.Sizeof(lastInputInfo{}))}
	result, _, err := procGetLastInputInfo.Call(uintptr(unsafe.Pointer(&info)))
	if result == 0 {
		if err == nil {
			err = errors.New("unknown error")
		}
		return 0, fmt.Errorf("get last input info: %w", err)
	}

	// Both values are 32-bit tick counts, so the subtraction wraps correctly
	// after the 49.7 day rollover.
	now, _, _ := procGetTickCount.Call()
	idleMillis := uint32(now) - info.dwTime
	return time.Duration(idleMillis) * time.Millisecond, nil
}

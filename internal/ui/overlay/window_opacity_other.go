//go:build !windows

package overlay

// applyNativeOpacity is a no-op where only the background rectangle carries
// the opacity.
func (overlay *Window) applyNativeOpacity(uint8) {}

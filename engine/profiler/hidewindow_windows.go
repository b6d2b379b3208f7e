//go:build profile && windows

package profiler

import "syscall"

// hiddenWindow keeps the speedscope launch from flashing a console window.
func hiddenWindow() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{HideWindow: true}
}

//go:build profile && !windows

package profiler

import "syscall"

func hiddenWindow() *syscall.SysProcAttr { return nil }

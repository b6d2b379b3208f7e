//go:build profile

package profiler

import (
	"os"
	"os/exec"
	"path/filepath"
	"sync/atomic"

	"github.com/hubastard/meshbridge/engine/core"
)

var global atomic.Pointer[Recorder]

// Init starts recording with room for capacity events. Call it once at
// startup; scopes started before Init are not recorded.
func Init(capacity int) {
	global.Store(NewRecorder(capacity))
}

func Enabled() bool { return true }

// Start begins a scope and returns an end func to be deferred.
func Start(name string) func() {
	r := global.Load()
	if r == nil {
		return func() {}
	}
	return r.Start(name)
}

// Dump writes the capture to the temp dir and opens it with the speedscope
// CLI when that is installed.
func Dump() (string, error) {
	r := global.Load()
	if r == nil {
		return "", ErrNoEvents
	}
	path := filepath.Join(os.TempDir(), "meshbridge.profile.speedscope.json")
	if err := r.WriteFile(path, "meshbridge frames"); err != nil {
		return "", err
	}

	cmd := exec.Command("speedscope", path)
	cmd.SysProcAttr = hiddenWindow()
	if err := cmd.Start(); err != nil {
		core.Logger().Warn("profiler: speedscope not started", "err", err, "path", path)
	}
	return path, nil
}

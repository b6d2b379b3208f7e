package profiler

import "runtime"

type MemStats struct {
	// Alloc is the live heap in bytes.
	Alloc uint64
	// Mallocs is the cumulative count of heap allocations.
	Mallocs uint64
	NumGC   uint32
}

// Memory reads the runtime memory counters. It stops the world briefly, so
// call it at most once per frame.
func Memory() MemStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemStats{Alloc: m.Alloc, Mallocs: m.Mallocs, NumGC: m.NumGC}
}

func NumGoroutine() int { return runtime.NumGoroutine() }

func NumCPU() int { return runtime.NumCPU() }

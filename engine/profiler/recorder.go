// Package profiler records nested timing scopes into a ring buffer and
// writes them as a speedscope evented profile.
//
// The package-level Start is a no-op unless the binary is built with the
// "profile" tag.
package profiler

import (
	"sync"
	"sync/atomic"
	"time"
)

const DefaultCapacity = 1 << 20

type event struct {
	atNS  int64
	frame int
	open  bool
}

// ring keeps the last cap events in write order.
type ring struct {
	cap   uint64
	write atomic.Uint64
	evs   []event
}

func (r *ring) push(e event) {
	i := r.write.Add(1) - 1
	r.evs[i%r.cap] = e
}

func (r *ring) snapshot() []event {
	n := r.write.Load()
	if n == 0 {
		return nil
	}
	start := uint64(0)
	if n > r.cap {
		start = n - r.cap
	}
	out := make([]event, 0, n-start)
	for k := start; k < n; k++ {
		out = append(out, r.evs[k%r.cap])
	}
	return out
}

// Recorder collects scopes. Start may be called from any goroutine, but
// speedscope shows one timeline, so scopes should nest.
type Recorder struct {
	ring ring
	now  func() int64

	mu    sync.Mutex
	names []string
	index map[string]int
}

func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	r := &Recorder{
		now:   func() int64 { return time.Now().UnixNano() },
		index: make(map[string]int),
	}
	r.ring.cap = uint64(capacity)
	r.ring.evs = make([]event, capacity)
	return r
}

// Start opens a scope and returns the func that closes it.
func (r *Recorder) Start(name string) func() {
	id := r.intern(name)
	start := r.now()
	r.ring.push(event{atNS: start, frame: id, open: true})
	return func() {
		end := max(r.now(), start)
		r.ring.push(event{atNS: end, frame: id})
	}
}

// Len is the number of events held, at most the capacity.
func (r *Recorder) Len() int {
	return int(min(r.ring.write.Load(), r.ring.cap))
}

func (r *Recorder) intern(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.index[name]; ok {
		return id
	}
	id := len(r.names)
	r.index[name] = id
	r.names = append(r.names, name)
	return id
}

func (r *Recorder) frameNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.names...)
}

package profiler

import (
	"encoding/json"
	"errors"
	"io"
	"os"
)

var ErrNoEvents = errors.New("profiler: no events recorded")

type ssFile struct {
	Schema   string      `json:"$schema"`
	Shared   ssShared    `json:"shared"`
	Profiles []ssProfile `json:"profiles"`
	Exporter string      `json:"exporter,omitempty"`
	Name     string      `json:"name,omitempty"`
}

type ssShared struct {
	Frames []ssFrame `json:"frames"`
}

type ssFrame struct {
	Name string `json:"name"`
}

type ssProfile struct {
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Unit       string    `json:"unit"`
	StartValue int64     `json:"startValue"`
	EndValue   int64     `json:"endValue"`
	Events     []ssEvent `json:"events"`
}

type ssEvent struct {
	Type  string `json:"type"` // "O" or "C"
	At    int64  `json:"at"`   // µs since the first event
	Frame int    `json:"frame"`
}

// balance converts raw events to speedscope events. A close that does not
// match the innermost open scope is dropped (its open was overwritten by
// the ring), and scopes still open at the end are closed at the last
// timestamp.
func balance(evs []event) ([]ssEvent, int64) {
	if len(evs) == 0 {
		return nil, 0
	}
	base := evs[0].atNS
	out := make([]ssEvent, 0, len(evs)+16)
	stack := make([]int, 0, 64)
	last := int64(0)

	for _, e := range evs {
		at := max((e.atNS-base)/1000, last)
		if e.open {
			stack = append(stack, e.frame)
			out = append(out, ssEvent{Type: "O", At: at, Frame: e.frame})
		} else {
			if len(stack) == 0 || stack[len(stack)-1] != e.frame {
				continue
			}
			stack = stack[:len(stack)-1]
			out = append(out, ssEvent{Type: "C", At: at, Frame: e.frame})
		}
		last = at
	}
	for i := len(stack) - 1; i >= 0; i-- {
		out = append(out, ssEvent{Type: "C", At: last, Frame: stack[i]})
	}
	return out, last
}

// WriteSpeedscope encodes everything recorded so far.
func (r *Recorder) WriteSpeedscope(w io.Writer, title string) error {
	evs, end := balance(r.ring.snapshot())
	if len(evs) == 0 {
		return ErrNoEvents
	}
	names := r.frameNames()
	frames := make([]ssFrame, len(names))
	for i, n := range names {
		frames[i] = ssFrame{Name: n}
	}
	doc := ssFile{
		Schema: "https://www.speedscope.app/file-format-schema.json",
		Shared: ssShared{Frames: frames},
		Profiles: []ssProfile{{
			Type:     "evented",
			Name:     title,
			Unit:     "microseconds",
			EndValue: end,
			Events:   evs,
		}},
		Exporter: "meshbridge-profiler",
		Name:     title,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&doc)
}

// WriteFile writes the profile to path through a temporary file, so a
// viewer never sees a partial file.
func (r *Recorder) WriteFile(path, title string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := r.WriteSpeedscope(f, title); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Package analog holds the live per-key pressure state decoded from a
// Hall-effect keyboard, plus the report decoder that feeds it.
package analog

import (
	"sync"

	"github.com/analogkb/analogkb/internal/logger"
)

// NumKeys is the size of the HID usage code space covered by a report.
const NumKeys = 256

// State is the shared cell read by consumers (a renderer, the D-Bus
// surface) and written by the bridge pipeline. Each field has its own
// lock so a status poll never contends with the value stream.
type State struct {
	vid uint16
	pid uint16

	valuesMu sync.RWMutex
	values   [NumKeys]float32

	activeMu sync.RWMutex
	active   bool

	statusMu sync.RWMutex
	status   string
}

// NewState creates a state cell for the given device ids. All values
// start at zero, inactive, with status "Starting...".
func NewState(vid, pid uint16) *State {
	return &State{
		vid:    vid,
		pid:    pid,
		status: "Starting...",
	}
}

// Values returns a snapshot of all 256 analog values
// (0.0 = released, 1.0 = fully pressed).
func (s *State) Values() [NumKeys]float32 {
	s.valuesMu.RLock()
	defer s.valuesMu.RUnlock()
	return s.values
}

// Value returns a single key value by HID usage code.
func (s *State) Value(code uint8) float32 {
	s.valuesMu.RLock()
	defer s.valuesMu.RUnlock()
	return s.values[code]
}

// SetValues replaces the entire value array. This is the digital
// fallback path; callers are expected to skip it while IsActive.
func (s *State) SetValues(vals [NumKeys]float32) {
	for i, v := range vals {
		vals[i] = clamp(v)
	}
	s.valuesMu.Lock()
	s.values = vals
	s.valuesMu.Unlock()
}

// SetValue writes one key value, clamped to [0,1].
func (s *State) SetValue(code uint8, v float32) {
	s.valuesMu.Lock()
	s.values[code] = clamp(v)
	s.valuesMu.Unlock()
}

// PressedCount returns how many keys read above the given threshold.
func (s *State) PressedCount(threshold float32) int {
	s.valuesMu.RLock()
	defer s.valuesMu.RUnlock()
	n := 0
	for _, v := range s.values {
		if v > threshold {
			n++
		}
	}
	return n
}

// IsActive reports whether analog data is streaming.
func (s *State) IsActive() bool {
	s.activeMu.RLock()
	defer s.activeMu.RUnlock()
	return s.active
}

// SetActive marks the analog stream as live or ended.
func (s *State) SetActive(active bool) {
	s.activeMu.Lock()
	s.active = active
	s.activeMu.Unlock()
}

// Status returns the current human-readable pipeline status.
func (s *State) Status() string {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}

// SetStatus updates the pipeline status and logs the transition.
func (s *State) SetStatus(msg string) {
	s.statusMu.Lock()
	s.status = msg
	s.statusMu.Unlock()
	logger.Infof("[HID] %s", msg)
}

// SetStatusQuiet updates the status without a log line. Used for the
// per-frame key counter, which would otherwise flood the log.
func (s *State) SetStatusQuiet(msg string) {
	s.statusMu.Lock()
	s.status = msg
	s.statusMu.Unlock()
}

func (s *State) VID() uint16 { return s.vid }
func (s *State) PID() uint16 { return s.pid }

func clamp(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

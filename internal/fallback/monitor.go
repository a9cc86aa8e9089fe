// Package fallback feeds digital key state (fully pressed / released)
// into the shared cell while no analog stream is running, so consumers
// still see something on a plain keyboard or before the bridge is up.
package fallback

import (
	"context"
	"fmt"

	"github.com/MarinX/keylogger"

	"github.com/analogkb/analogkb/internal/analog"
	"github.com/analogkb/analogkb/internal/logger"
)

// Monitor reads evdev key events and mirrors them into the state as
// 0.0/1.0 values, deferring to the analog pipeline whenever it is live.
type Monitor struct {
	state  *analog.State
	device string

	keyLogger *keylogger.KeyLogger
	values    [analog.NumKeys]float32
}

// New creates a monitor for the given evdev device path. An empty path
// auto-detects the first keyboard device.
func New(state *analog.State, device string) *Monitor {
	return &Monitor{
		state:  state,
		device: device,
	}
}

// Start opens the input device and begins mirroring events in a
// background goroutine. Callers treat an error as "fallback disabled",
// never as fatal.
func (m *Monitor) Start(ctx context.Context) error {
	device := m.device
	if device == "" {
		device = keylogger.FindKeyboardDevice()
	}
	if device == "" {
		return fmt.Errorf("no keyboard input device found - check input group membership")
	}

	k, err := keylogger.New(device)
	if err != nil {
		return fmt.Errorf("failed to open input device %s: %w", device, err)
	}

	m.keyLogger = k
	logger.Debugf("Fallback input reading from %s", device)

	go m.monitorKeys(ctx)
	return nil
}

func (m *Monitor) monitorKeys(ctx context.Context) {
	defer m.keyLogger.Close()

	events := m.keyLogger.Read()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				logger.Debug("Fallback input device closed")
				return
			}
			if e.Type != keylogger.EvKey {
				continue
			}

			switch {
			case e.KeyPress():
				m.handleKey(e.Code, true)
			case e.KeyRelease():
				m.handleKey(e.Code, false)
			default:
				// Key repeat carries no new information.
			}
		}
	}
}

func (m *Monitor) handleKey(code uint16, pressed bool) {
	usage, known := usageForKeycode[code]
	if !known {
		return
	}

	if pressed {
		m.values[usage] = 1.0
	} else {
		m.values[usage] = 0.0
	}

	// The analog pipeline owns the state while a session is live.
	if m.state.IsActive() {
		return
	}

	m.state.SetValues(m.values)
}

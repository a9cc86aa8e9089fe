// Package watcher supervises the bridge: it polls for the target
// keyboard and runs one capture session per detection cycle.
package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/analogkb/analogkb/internal/analog"
	"github.com/analogkb/analogkb/internal/hidscan"
	"github.com/analogkb/analogkb/internal/logger"
	"github.com/analogkb/analogkb/internal/notification"
)

// SessionRunner is the slice of bridge.Server the watcher drives.
type SessionRunner interface {
	Start() error
	RunSession()
}

// Watcher is a two-state loop: Searching (device absent, poll with
// backoff) and Bridging (run one capture session, then re-check).
type Watcher struct {
	state    *analog.State
	bridge   SessionRunner
	notifier notification.Notifier

	// Seam for tests; defaults to hidscan.Present.
	present func(vid, pid uint16) bool

	searchBackoff time.Duration
	bridgeDelay   time.Duration

	notified bool
}

func New(state *analog.State, bridge SessionRunner, notifier notification.Notifier) *Watcher {
	return &Watcher{
		state:         state,
		bridge:        bridge,
		notifier:      notifier,
		present:       hidscan.Present,
		searchBackoff: 2 * time.Second,
		bridgeDelay:   2 * time.Second,
	}
}

// Run drives the watch loop until ctx is cancelled. The default caller
// passes context.Background(): the tool is resident for the process
// lifetime and device loss is only ever detected through a dead session.
func (w *Watcher) Run(ctx context.Context) {
	logger.Infof("Watching for keyboard %04x:%04x", w.state.VID(), w.state.PID())

	for {
		if ctx.Err() != nil {
			return
		}

		if !w.present(w.state.VID(), w.state.PID()) {
			w.state.SetStatus("Keyboard not found - plug it in")
			if !sleepCtx(ctx, w.searchBackoff) {
				return
			}
			continue
		}

		if !w.notified {
			w.notified = true
			title := "analogkb"
			msg := fmt.Sprintf("Keyboard %04x:%04x detected", w.state.VID(), w.state.PID())
			if err := w.notifier.Notify(title, msg); err != nil {
				logger.Warnf("Notification failed: %v", err)
			}
		}

		w.state.SetStatus("Keyboard detected - launching Chrome bridge...")

		if err := w.bridge.Start(); err != nil {
			// Start already published the bind error as status.
			logger.Error("Bridge start failed", err)
			if !sleepCtx(ctx, w.bridgeDelay) {
				return
			}
			continue
		}

		w.bridge.RunSession()

		if !sleepCtx(ctx, w.bridgeDelay) {
			return
		}
	}
}

// sleepCtx sleeps for d, returning false if ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// Package browser opens a URL in the user's default browser. Launch
// failure is never fatal to callers: the capture URL is always printed
// and can be opened by hand.
package browser

import (
	"io"

	"github.com/pkg/browser"
)

func init() {
	// Browser chatter on our stdout/stderr would interleave with the log.
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// Open launches the default browser at url.
func Open(url string) error {
	return browser.OpenURL(url)
}

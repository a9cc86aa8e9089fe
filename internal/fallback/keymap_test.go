package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsageForKeycodeSpotChecks(t *testing.T) {
	// KEY_A, KEY_SPACE, KEY_ESC, KEY_ENTER, KEY_LEFTSHIFT, KEY_UP
	checks := map[uint16]uint8{
		30:  0x04,
		57:  0x2C,
		1:   0x29,
		28:  0x28,
		42:  0xE1,
		103: 0x52,
	}
	for keycode, usage := range checks {
		got, ok := usageForKeycode[keycode]
		assert.True(t, ok, "keycode %d unmapped", keycode)
		assert.Equal(t, usage, got, "keycode %d", keycode)
	}
}

func TestUsageForKeycodeHasNoDuplicateTargets(t *testing.T) {
	seen := make(map[uint8]uint16)
	for keycode, usage := range usageForKeycode {
		if prev, dup := seen[usage]; dup {
			t.Errorf("usage 0x%02X mapped from both keycode %d and %d", usage, prev, keycode)
		}
		seen[usage] = keycode
	}
}

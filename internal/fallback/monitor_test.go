package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/analogkb/analogkb/internal/analog"
)

func TestHandleKeyMirrorsDigitalState(t *testing.T) {
	s := analog.NewState(0, 0)
	m := New(s, "")

	m.handleKey(30, true) // KEY_A
	assert.Equal(t, float32(1.0), s.Value(0x04))

	m.handleKey(57, true) // KEY_SPACE
	assert.Equal(t, float32(1.0), s.Value(0x2C))
	assert.Equal(t, float32(1.0), s.Value(0x04), "earlier key survives the full-array write")

	m.handleKey(30, false)
	assert.Equal(t, float32(0), s.Value(0x04))
	assert.Equal(t, float32(1.0), s.Value(0x2C))
}

func TestHandleKeyIgnoresUnmappedKeycodes(t *testing.T) {
	s := analog.NewState(0, 0)
	m := New(s, "")

	m.handleKey(465, true) // KEY_FN_RIGHT_SHIFT, not on the usage page
	assert.Equal(t, [analog.NumKeys]float32{}, s.Values())
}

func TestHandleKeyDefersToAnalogStream(t *testing.T) {
	s := analog.NewState(0, 0)
	m := New(s, "")

	s.SetActive(true)
	m.handleKey(30, true)
	assert.Equal(t, float32(0), s.Value(0x04), "digital path must not touch live analog state")

	// Local tracking continues, so the next write after the session ends
	// reflects held keys.
	s.SetActive(false)
	m.handleKey(57, true)
	assert.Equal(t, float32(1.0), s.Value(0x04))
	assert.Equal(t, float32(1.0), s.Value(0x2C))
}

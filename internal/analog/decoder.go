package analog

import "encoding/binary"

// Analog report layout (payload of a type-0x03 bridge frame):
//
//	[0]   report tag, always 0xA0
//	[1:3] padding
//	[3]   HID usage code of the sampled key
//	[4:6] raw travel, big-endian
//
// Extra trailing bytes are ignored.
const (
	reportTag = 0xA0

	// Raw readings at or below the deadzone are sensor noise around the
	// switch rest position. analogMax approximates full travel in raw
	// units; readings past it (calibration drift, spikes) clamp to 1.0.
	analogDeadzone uint16  = 10
	analogMax      float32 = 1550.0
)

// DecodeReport parses one analog report payload into a key usage code
// and a normalized value in [0,1]. ok is false for short payloads and
// foreign report tags; those are expected protocol noise, not errors.
func DecodeReport(payload []byte) (code uint8, value float32, ok bool) {
	if len(payload) < 6 || payload[0] != reportTag {
		return 0, 0, false
	}

	code = payload[3]
	raw := binary.BigEndian.Uint16(payload[4:6])

	if raw <= analogDeadzone {
		return code, 0, true
	}

	value = float32(raw-analogDeadzone) / analogMax
	return code, clamp(value), true
}

// ApplyReport decodes a report payload and writes the sampled key into
// the state. Exactly one key changes per valid report; invalid payloads
// leave the state untouched.
func (s *State) ApplyReport(payload []byte) bool {
	code, value, ok := DecodeReport(payload)
	if !ok {
		return false
	}
	s.SetValue(code, value)
	return true
}

package fallback

// usageForKeycode maps Linux evdev keycodes (input-event-codes.h) to HID
// usage codes (Keyboard/Keypad usage page), so digital key events land in
// the same slots the analog reports use.
var usageForKeycode = map[uint16]uint8{
	// Letters
	30: 0x04, 48: 0x05, 46: 0x06, 32: 0x07, 18: 0x08, 33: 0x09, 34: 0x0A,
	35: 0x0B, 23: 0x0C, 36: 0x0D, 37: 0x0E, 38: 0x0F, 50: 0x10, 49: 0x11,
	24: 0x12, 25: 0x13, 16: 0x14, 19: 0x15, 31: 0x16, 20: 0x17, 22: 0x18,
	47: 0x19, 17: 0x1A, 45: 0x1B, 21: 0x1C, 44: 0x1D,
	// Number row
	2: 0x1E, 3: 0x1F, 4: 0x20, 5: 0x21, 6: 0x22, 7: 0x23, 8: 0x24,
	9: 0x25, 10: 0x26, 11: 0x27,
	// Enter, Esc, Backspace, Tab, Space
	28: 0x28, 1: 0x29, 14: 0x2A, 15: 0x2B, 57: 0x2C,
	// Punctuation row
	12: 0x2D, 13: 0x2E, 26: 0x2F, 27: 0x30, 43: 0x31, 39: 0x33, 40: 0x34,
	41: 0x35, 51: 0x36, 52: 0x37, 53: 0x38,
	// Caps lock and function row
	58: 0x39,
	59: 0x3A, 60: 0x3B, 61: 0x3C, 62: 0x3D, 63: 0x3E, 64: 0x3F,
	65: 0x40, 66: 0x41, 67: 0x42, 68: 0x43, 87: 0x44, 88: 0x45,
	// SysRq, Scroll Lock, Pause
	99: 0x46, 70: 0x47, 119: 0x48,
	// Insert, Home, PageUp, Delete, End, PageDown
	110: 0x49, 102: 0x4A, 104: 0x4B, 111: 0x4C, 107: 0x4D, 109: 0x4E,
	// Arrows
	106: 0x4F, 105: 0x50, 108: 0x51, 103: 0x52,
	// Compose/menu key
	127: 0x65,
	// Modifiers
	29: 0xE0, 42: 0xE1, 56: 0xE2, 125: 0xE3,
	97: 0xE4, 54: 0xE5, 100: 0xE6, 126: 0xE7,
}

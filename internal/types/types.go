package types

import (
	"strconv"
	"strings"
)

// Default target device: Hall-effect keyboard speaking the 0xA0 analog report.
const (
	DefaultVendorID  uint16 = 0x41e4
	DefaultProductID uint16 = 0x2103
)

// DeviceConfig identifies the target keyboard. IDs are hex strings
// ("0x41e4" or "41e4") so the file reads like lsusb output.
type DeviceConfig struct {
	VendorID  string `yaml:"vendor_id"`
	ProductID string `yaml:"product_id"`
}

// BridgeConfig controls the local HTTP/WebSocket relay.
type BridgeConfig struct {
	HTTPPort       int  `yaml:"http_port"`       // 0 = ephemeral
	WSPort         int  `yaml:"ws_port"`         // 0 = ephemeral
	DisableBrowser bool `yaml:"disable_browser"` // skip the automatic browser launch
}

// FallbackConfig controls the digital (on/off) input path used while no
// analog stream is running.
type FallbackConfig struct {
	Enabled bool   `yaml:"enabled"`
	Device  string `yaml:"device"` // evdev path; empty = auto-detect
}

// DBusConfig controls the session-bus query surface.
type DBusConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	Device   DeviceConfig   `yaml:"device"`
	Bridge   BridgeConfig   `yaml:"bridge"`
	Fallback FallbackConfig `yaml:"fallback"`
	DBus     DBusConfig     `yaml:"dbus"`
}

// ParseUSBID parses a 16-bit USB id from a hex string, with or without
// the 0x prefix.
func ParseUSBID(s string) (uint16, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

// GetVendorID returns the configured vendor id, or the default when the
// field is empty or malformed.
func (c *Config) GetVendorID() uint16 {
	if c.Device.VendorID == "" {
		return DefaultVendorID
	}
	v, err := ParseUSBID(c.Device.VendorID)
	if err != nil {
		return DefaultVendorID
	}
	return v
}

// GetProductID returns the configured product id, or the default when the
// field is empty or malformed.
func (c *Config) GetProductID() uint16 {
	if c.Device.ProductID == "" {
		return DefaultProductID
	}
	v, err := ParseUSBID(c.Device.ProductID)
	if err != nil {
		return DefaultProductID
	}
	return v
}

func (c *Config) GetBridgeConfig() BridgeConfig {
	return c.Bridge
}

func (c *Config) GetFallbackConfig() FallbackConfig {
	return c.Fallback
}

func (c *Config) GetDBusConfig() DBusConfig {
	return c.DBus
}

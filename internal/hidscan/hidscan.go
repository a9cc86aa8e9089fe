// Package hidscan wraps HID device enumeration for presence polling.
package hidscan

import (
	"github.com/karalabe/hid"
)

// DeviceInfo describes one attached HID device.
type DeviceInfo struct {
	VendorID     uint16
	ProductID    uint16
	Path         string
	Manufacturer string
	Product      string
}

// Present reports whether a device with the given vendor/product id pair
// is currently attached. Enumeration failure reads as "not present"; the
// caller's retry loop is the recovery path.
func Present(vid, pid uint16) bool {
	if !hid.Supported() {
		return false
	}
	return len(hid.Enumerate(vid, pid)) > 0
}

// ListDevices returns all attached HID devices, for --list-devices.
func ListDevices() []DeviceInfo {
	if !hid.Supported() {
		return nil
	}

	devices := hid.Enumerate(0, 0)
	result := make([]DeviceInfo, len(devices))
	for i, d := range devices {
		result[i] = DeviceInfo{
			VendorID:     d.VendorID,
			ProductID:    d.ProductID,
			Path:         d.Path,
			Manufacturer: d.Manufacturer,
			Product:      d.Product,
		}
	}
	return result
}

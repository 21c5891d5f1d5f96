package monitor

import "errors"

// Discovery errors surfaced to callers of Locate and Detect. Transport-level
// failures pass through wrapped as *transport.Error instead.
var (
	// ErrDeviceNotFound indicates the target device never showed up within
	// the discovery window.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrCharacteristicNotFound indicates the connected device does not
	// expose the Heart Rate Measurement characteristic.
	ErrCharacteristicNotFound = errors.New("heart rate characteristic not found")

	// ErrMonitorNotFound indicates no supported device could be located.
	ErrMonitorNotFound = errors.New("heart rate monitor not found")
)

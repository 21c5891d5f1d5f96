// Package transport defines the BLE transport seam the monitoring core runs
// against: adapter acquisition, advertisement scanning, peripheral connection
// and notification streaming. The go-ble backed implementation lives in the
// goble subpackage; tests substitute fakes.
package transport

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for transport-level failures.
var (
	// ErrNoAdapters indicates the host exposes no usable BLE adapter.
	ErrNoAdapters = errors.New("bluetooth adapters not found")

	// ErrBluetoothOff indicates the adapter exists but the radio is disabled.
	ErrBluetoothOff = errors.New("bluetooth is turned off")
)

// Error wraps a failure reported by the underlying BLE stack, tagged with the
// operation that produced it.
type Error struct {
	Op  string // "scan", "connect", "discover", "subscribe", "disconnect"
	Err error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("bluetooth %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WrapError tags err as a transport failure for op. Returns nil for nil err.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// Manager hands out BLE adapters.
type Manager interface {
	// Adapters returns the usable adapters on this host. An empty result is
	// reported as ErrNoAdapters by callers that need one.
	Adapters(ctx context.Context) ([]Adapter, error)
}

// Adapter is a single BLE radio capable of scanning for advertisements.
type Adapter interface {
	// StartScan begins advertisement collection in the background. Discovered
	// peripherals accumulate until StopScan or ctx cancellation.
	StartScan(ctx context.Context) error

	// StopScan halts advertisement collection. Peripherals discovered so far
	// remain enumerable.
	StopScan() error

	// Peripherals returns the peripherals discovered so far, in discovery
	// order.
	Peripherals() []Peripheral
}

// Properties is the advertised identity of a discovered peripheral.
type Properties struct {
	// LocalName is the advertised device name, empty when not broadcast.
	LocalName string
	// Address is the stable hardware address assigned by the stack.
	Address string
	// RSSI is the signal strength of the latest advertisement.
	RSSI int
}

// Characteristic is a GATT characteristic exposed by a connected peripheral.
type Characteristic interface {
	// UUID returns the characteristic identifier in normalized form
	// (see NormalizeUUID).
	UUID() string
}

// Notification is one unsolicited value push from a subscribed
// characteristic.
type Notification struct {
	// UUID identifies the originating characteristic, normalized.
	UUID string
	// Value is the raw notification payload.
	Value []byte
}

// Peripheral is a discovered remote device. Connection-scoped calls
// (DiscoverServices, Characteristics, Subscribe, Notifications, Disconnect)
// require a prior successful Connect.
type Peripheral interface {
	// Properties returns the advertised identity captured during scanning.
	Properties() Properties

	// Connect establishes a connection to the peripheral.
	Connect(ctx context.Context) error

	// DiscoverServices performs GATT service and characteristic discovery.
	DiscoverServices() error

	// Characteristics lists the discovered characteristics across all
	// services, in discovery order.
	Characteristics() []Characteristic

	// Subscribe enables notifications on the given characteristic.
	Subscribe(c Characteristic) error

	// Notifications returns the stream of notifications for this connection.
	// The channel is closed when the connection ends; it is finite per
	// connection and recreated by a subsequent Connect.
	Notifications() (<-chan Notification, error)

	// Disconnect tears the connection down and ends the notification stream.
	Disconnect() error
}

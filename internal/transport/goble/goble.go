// Package goble implements the transport interfaces on top of
// github.com/go-ble/ble. One host adapter is exposed; scanning collects
// advertisements in the background and notification delivery is buffered so
// the BLE callback thread never blocks on a slow consumer.
package goble

import (
	"context"
	"sync"

	ble "github.com/go-ble/ble"
	"github.com/sirupsen/logrus"

	"github.com/srg/hrmon/internal/transport"
)

// DeviceFactory creates ble.Device instances (can be overridden in tests).
//
//nolint:revive // DeviceFactory name is intentional for test mocking
var DeviceFactory = func() (ble.Device, error) {
	return defaultDevice()
}

// Manager exposes the host BLE adapter as a transport.Manager.
type Manager struct {
	logger *logrus.Logger

	mu      sync.Mutex
	adapter *adapter
}

// NewManager creates a Manager. A nil logger falls back to a default one.
func NewManager(logger *logrus.Logger) *Manager {
	if logger == nil {
		logger = logrus.New()
	}
	return &Manager{logger: logger}
}

// Adapters acquires the host BLE device. The host exposes exactly one
// adapter, which holds an exclusive handle (the HCI socket on linux), so the
// device is created on first use and every later call hands back the same
// adapter instead of minting a second live handle.
func (m *Manager) Adapters(ctx context.Context) ([]transport.Adapter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.adapter == nil {
		dev, err := DeviceFactory()
		if err != nil {
			return nil, transport.WrapError("adapter", NormalizeError(err))
		}
		ble.SetDefaultDevice(dev)
		m.adapter = newAdapter(dev, m.logger)
	}
	return []transport.Adapter{m.adapter}, nil
}

package monitor

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/srg/hrmon/internal/transport"
)

// Locator resolves an advertised device name to its hardware address by
// scanning for a fixed discovery window.
type Locator struct {
	manager transport.Manager
	window  time.Duration
	logger  *logrus.Logger
}

// NewLocator creates a Locator scanning for the given window per attempt.
func NewLocator(manager transport.Manager, window time.Duration, logger *logrus.Logger) *Locator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Locator{manager: manager, window: window, logger: logger}
}

// Locate scans for the discovery window and returns the address of the first
// peripheral whose advertised name equals name exactly. Returns
// ErrDeviceNotFound when no peripheral matches; adapter and scan failures
// propagate as transport errors.
func (l *Locator) Locate(ctx context.Context, name string) (string, error) {
	adapters, err := l.manager.Adapters(ctx)
	if err != nil {
		return "", err
	}
	if len(adapters) == 0 {
		return "", transport.ErrNoAdapters
	}
	adapter := adapters[0]

	if err := adapter.StartScan(ctx); err != nil {
		return "", err
	}

	select {
	case <-time.After(l.window):
	case <-ctx.Done():
		_ = adapter.StopScan()
		return "", ctx.Err()
	}

	if err := adapter.StopScan(); err != nil {
		return "", err
	}

	for _, p := range adapter.Peripherals() {
		props := p.Properties()
		if props.LocalName == name {
			l.logger.WithFields(logrus.Fields{
				"device":  name,
				"address": props.Address,
				"rssi":    props.RSSI,
			}).Info("Located device")
			return props.Address, nil
		}
	}

	return "", ErrDeviceNotFound
}

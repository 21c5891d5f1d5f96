package goble

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cornelk/hashmap"
	ble "github.com/go-ble/ble"
	"github.com/sirupsen/logrus"

	"github.com/srg/hrmon/internal/transport"
)

// adapter wraps a ble.Device as a transport.Adapter. Advertisements are
// collected by a background goroutine between StartScan and StopScan;
// discovered peripherals are deduplicated by address and kept in discovery
// order.
type adapter struct {
	dev    ble.Device
	logger *logrus.Logger

	seen *hashmap.Map[string, *peripheral]

	mu      sync.Mutex
	order   []*peripheral
	cancel  context.CancelFunc
	done    chan struct{}
	scanErr error
}

func newAdapter(dev ble.Device, logger *logrus.Logger) *adapter {
	return &adapter{
		dev:    dev,
		logger: logger,
		seen:   hashmap.New[string, *peripheral](),
	}
}

// StartScan begins advertisement collection. The underlying scan runs until
// StopScan or ctx cancellation; scan failures are surfaced by StopScan since
// the scan itself runs in the background.
func (a *adapter) StartScan(ctx context.Context) error {
	a.mu.Lock()
	if a.cancel != nil {
		a.mu.Unlock()
		return transport.WrapError("scan", fmt.Errorf("scan already in progress"))
	}

	scanCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	a.cancel = cancel
	a.done = done
	a.scanErr = nil
	a.mu.Unlock()

	a.logger.Debug("Starting BLE scan")

	go func() {
		defer close(done)
		err := a.dev.Scan(scanCtx, true, a.handleAdvertisement)
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			err = NormalizeError(err)
			a.logger.WithError(err).Warn("BLE scan ended with error")
			a.mu.Lock()
			a.scanErr = err
			a.mu.Unlock()
		}
	}()

	return nil
}

// StopScan halts collection and reports any error the scan ended with.
func (a *adapter) StopScan() error {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done

	a.mu.Lock()
	err := a.scanErr
	a.scanErr = nil
	count := len(a.order)
	a.mu.Unlock()

	a.logger.WithField("device_count", count).Debug("BLE scan stopped")
	return transport.WrapError("scan", err)
}

// Peripherals returns a snapshot of discovered peripherals in discovery order.
func (a *adapter) Peripherals() []transport.Peripheral {
	a.mu.Lock()
	defer a.mu.Unlock()

	result := make([]transport.Peripheral, len(a.order))
	for i, p := range a.order {
		result[i] = p
	}
	return result
}

// handleAdvertisement updates an existing peripheral or records a new one.
func (a *adapter) handleAdvertisement(adv ble.Advertisement) {
	addr := adv.Addr().String()

	p, existing := a.seen.Get(addr)
	if !existing {
		p, existing = a.seen.GetOrInsert(addr, newPeripheral(adv, a.logger))
		if !existing {
			a.mu.Lock()
			a.order = append(a.order, p)
			a.mu.Unlock()

			a.logger.WithFields(logrus.Fields{
				"device":  adv.LocalName(),
				"address": addr,
				"rssi":    adv.RSSI(),
			}).Debug("Discovered new peripheral")
			return
		}
	}

	p.update(adv)
}

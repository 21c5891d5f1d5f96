package monitor

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/srg/hrmon/hrs"
	"github.com/srg/hrmon/internal/transport"
	"github.com/srg/hrmon/pkg/config"
)

// Session owns one (adapter, device address) pair and runs the
// connect-subscribe-stream-decode loop against it. The pair is fixed at
// construction and shared read-only with the background loop; the session
// holds at most one live connection at a time.
type Session struct {
	adapter transport.Adapter
	address string
	logger  *logrus.Logger

	scanWindow     time.Duration
	connectTimeout time.Duration
	capacity       int
	retry          RetryPolicy
	target         string // normalized Heart Rate Measurement UUID
}

// NewSession binds a session to an adapter and a resolved device address.
// A nil cfg falls back to the reference policy.
func NewSession(adapter transport.Adapter, address string, cfg *config.Config, logger *logrus.Logger) *Session {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = cfg.NewLogger()
	}
	return &Session{
		adapter:        adapter,
		address:        address,
		logger:         logger,
		scanWindow:     cfg.ScanWindow,
		connectTimeout: cfg.ConnectTimeout,
		capacity:       cfg.ChannelCapacity,
		retry:          FixedBackoff{Interval: cfg.Backoff},
		target:         transport.NormalizeUUID(hrs.MeasurementUUID),
	}
}

// Address returns the device address the session is bound to.
func (s *Session) Address() string {
	return s.address
}

// WithRetry replaces the retry policy. Must be called before Start.
func (s *Session) WithRetry(policy RetryPolicy) *Session {
	s.retry = policy
	return s
}

// Start spawns the monitoring loop and returns the channel decoded values
// arrive on, in notification order. The channel is buffered and stays valid
// across reconnect cycles; it is closed when the loop ends. Cancelling ctx is
// the consumer's shutdown signal: the session disconnects once and stops.
func (s *Session) Start(ctx context.Context) <-chan uint8 {
	out := make(chan uint8, s.capacity)
	go s.run(ctx, out)
	return out
}

// run retries cycles until one completes cleanly. Errors are reported to the
// logging sink and converted into a backoff pause, never propagated.
func (s *Session) run(ctx context.Context, out chan<- uint8) {
	defer close(out)

	for {
		err := s.cycle(ctx, out)
		if err == nil {
			s.logger.WithField("address", s.address).Debug("Monitoring finished")
			return
		}

		s.logger.WithError(err).Error("Monitoring error")
		if !s.retry.Wait(ctx) {
			return
		}
	}
}

// cycle runs one full scan-connect-subscribe-stream pass. A nil return means
// the cycle finished cleanly (stream ended or consumer shut down) and the
// loop must not retry.
func (s *Session) cycle(ctx context.Context, out chan<- uint8) error {
	if err := s.adapter.StartScan(ctx); err != nil {
		return err
	}
	select {
	case <-time.After(s.scanWindow):
	case <-ctx.Done():
		_ = s.adapter.StopScan()
		return nil
	}
	if err := s.adapter.StopScan(); err != nil {
		return err
	}

	var target transport.Peripheral
	for _, p := range s.adapter.Peripherals() {
		if p.Properties().Address == s.address {
			target = p
			break
		}
	}
	if target == nil {
		return ErrDeviceNotFound
	}

	connCtx, cancel := context.WithTimeout(ctx, s.connectTimeout)
	err := target.Connect(connCtx)
	cancel()
	if err != nil {
		return err
	}

	if err := target.DiscoverServices(); err != nil {
		s.teardown(target)
		return err
	}

	char := s.findMeasurement(target)
	if char == nil {
		s.teardown(target)
		return ErrCharacteristicNotFound
	}

	if err := target.Subscribe(char); err != nil {
		s.teardown(target)
		return err
	}

	stream, err := target.Notifications()
	if err != nil {
		s.teardown(target)
		return err
	}

	s.logger.WithField("address", s.address).Info("Streaming heart rate notifications")
	return s.stream(ctx, target, stream, out)
}

// stream decodes matching notifications into out until the stream ends or the
// consumer shuts down.
func (s *Session) stream(ctx context.Context, target transport.Peripheral, stream <-chan transport.Notification, out chan<- uint8) error {
	for {
		select {
		case <-ctx.Done():
			// Consumer gone: one disconnect, then the loop exits for good.
			s.teardown(target)
			return nil

		case n, ok := <-stream:
			if !ok {
				// Stream ended naturally; a failed disconnect still triggers
				// a retry cycle.
				return target.Disconnect()
			}
			if transport.NormalizeUUID(n.UUID) != s.target {
				continue
			}

			select {
			case out <- hrs.ParseMeasurement(n.Value):
			case <-ctx.Done():
				s.teardown(target)
				return nil
			}
		}
	}
}

// findMeasurement returns the Heart Rate Measurement characteristic, nil if
// the device does not expose it.
func (s *Session) findMeasurement(target transport.Peripheral) transport.Characteristic {
	for _, c := range target.Characteristics() {
		if transport.NormalizeUUID(c.UUID()) == s.target {
			return c
		}
	}
	return nil
}

// teardown disconnects on a path that is not going to retry on disconnect
// failure; the error only goes to the logging sink.
func (s *Session) teardown(target transport.Peripheral) {
	if err := target.Disconnect(); err != nil {
		s.logger.WithError(err).Warn("Disconnect failed")
	}
}

package monitor

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/srg/hrmon/internal/transport"
	"github.com/srg/hrmon/pkg/config"
)

// Factory builds a Session for the first reachable device from the configured
// candidate list.
type Factory struct {
	manager transport.Manager
	cfg     *config.Config
	logger  *logrus.Logger
}

// NewFactory creates a Factory over the given transport manager. A nil cfg
// falls back to the reference policy.
func NewFactory(manager transport.Manager, cfg *config.Config, logger *logrus.Logger) *Factory {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = cfg.NewLogger()
	}
	return &Factory{manager: manager, cfg: cfg, logger: logger}
}

// Detect tries each configured device name in order and returns a Session
// bound to the first one that can be located. Per-candidate failures are
// logged and skipped; ErrMonitorNotFound is returned when every candidate
// fails.
//
// The session acquires its adapter from the same manager the locator used;
// managers hand back one adapter per host, so both scopes share a single
// transport handle rather than duplicating it.
func (f *Factory) Detect(ctx context.Context) (*Session, error) {
	locator := NewLocator(f.manager, f.cfg.ScanWindow, f.logger)

	for _, name := range f.cfg.SupportedDevices {
		address, err := locator.Locate(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			f.logger.WithFields(logrus.Fields{
				"device": name,
				"error":  err,
			}).Warn("Device not found")
			continue
		}

		adapters, err := f.manager.Adapters(ctx)
		if err != nil {
			return nil, err
		}
		if len(adapters) == 0 {
			return nil, transport.ErrNoAdapters
		}
		return NewSession(adapters[0], address, f.cfg, f.logger), nil
	}

	return nil, ErrMonitorNotFound
}

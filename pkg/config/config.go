// Package config holds the compiled-in runtime policy: discovery timing,
// retry backoff, output buffering and the ordered list of supported sensors.
// There is no config file or environment surface; callers adjust fields
// programmatically (tests inject synthetic candidates and short intervals).
package config

import (
	"time"

	"github.com/mcuadros/go-defaults"
	"github.com/sirupsen/logrus"
)

// Config holds application configuration.
type Config struct {
	LogLevel logrus.Level

	// ScanWindow is how long a scan accumulates advertisements before
	// peripherals are enumerated.
	ScanWindow time.Duration `default:"5s"`

	// Backoff is the fixed delay between failed monitoring cycles.
	Backoff time.Duration `default:"5s"`

	// ConnectTimeout bounds a single connection attempt.
	ConnectTimeout time.Duration `default:"30s"`

	// ChannelCapacity is the output channel buffer for decoded values.
	ChannelCapacity int `default:"100"`

	// SupportedDevices is the ordered list of advertised names to try, first
	// match wins.
	SupportedDevices []string
}

// DefaultConfig returns the reference policy.
func DefaultConfig() *Config {
	cfg := &Config{}
	defaults.SetDefaults(cfg)

	// Near-silent by default: the process prints decoded values only, errors
	// go to the logging sink when a level is raised.
	cfg.LogLevel = logrus.PanicLevel
	cfg.SupportedDevices = []string{"Xiaomi Smart Band 9 082F"}
	return cfg
}

// NewLogger creates a configured logger instance.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(c.LogLevel)

	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	return logger
}

package goble

import (
	"fmt"
	"strings"

	"github.com/srg/hrmon/internal/transport"
)

// NormalizeError maps known go-ble error strings to structured sentinel
// errors so callers can match with errors.Is even if the upstream library
// changes messages slightly. The original error stays in the chain.
func NormalizeError(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "is Bluetooth turned on?"):
		return fmt.Errorf("%w: %v", transport.ErrBluetoothOff, err)
	case containsIgnoreCase(msg, "bluetooth is turned off"):
		return fmt.Errorf("%w: %v", transport.ErrBluetoothOff, err)
	case containsIgnoreCase(msg, "no bluetooth adapter"):
		return fmt.Errorf("%w: %v", transport.ErrNoAdapters, err)
	default:
		return err
	}
}

// containsIgnoreCase checks the substring case-insensitively
func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

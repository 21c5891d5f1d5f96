//go:build !darwin && !linux

package goble

import (
	"fmt"
	"runtime"

	ble "github.com/go-ble/ble"
)

func defaultDevice() (ble.Device, error) {
	return nil, fmt.Errorf("BLE is not supported on %s", runtime.GOOS)
}

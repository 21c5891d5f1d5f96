//go:build linux

package goble

import (
	ble "github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"
)

func defaultDevice() (ble.Device, error) {
	return linux.NewDevice()
}

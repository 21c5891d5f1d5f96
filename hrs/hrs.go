// Package hrs implements the data contract of the Bluetooth SIG Heart Rate
// Service: the well-known service/characteristic identifiers and the decoder
// for Heart Rate Measurement notification payloads.
package hrs

import "encoding/binary"

const (
	// ServiceUUID is the Bluetooth SIG Heart Rate service (0x180D).
	ServiceUUID = "0000180d-0000-1000-8000-00805f9b34fb"

	// MeasurementUUID is the Heart Rate Measurement characteristic (0x2A37).
	// Notifications on this characteristic carry the payload decoded below.
	MeasurementUUID = "00002a37-0000-1000-8000-00805f9b34fb"
)

// ParseMeasurement decodes a Heart Rate Measurement notification payload into
// a BPM value.
//
// Byte 0 is the flags byte. Bit 0 selects the value encoding: 0 means the
// value is a uint8 at offset 1, 1 means it is a little-endian uint16 at
// offsets 1-2. The 16-bit form is truncated to its low byte; downstream
// consumers expect the historical uint8 contract, so the truncation is kept
// (use ParseMeasurementWide to avoid it).
//
// Payloads too short to hold the encoded value decode to 0, the "no reading"
// sentinel. The function never fails.
func ParseMeasurement(payload []byte) uint8 {
	return uint8(ParseMeasurementWide(payload))
}

// ParseMeasurementWide decodes the same payload without truncating the 16-bit
// encoding, covering sensors that report values above 255.
func ParseMeasurementWide(payload []byte) uint16 {
	if len(payload) < 2 {
		return 0
	}
	if payload[0]&0x01 == 0 {
		return uint16(payload[1])
	}
	if len(payload) < 3 {
		return 0
	}
	return binary.LittleEndian.Uint16(payload[1:3])
}

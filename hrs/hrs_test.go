package hrs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/srg/hrmon/hrs"
)

// TestParseMeasurement_ShortPayload verifies the "no reading" sentinel for
// payloads too short to carry a value.
func TestParseMeasurement_ShortPayload(t *testing.T) {
	assert.Equal(t, uint8(0), hrs.ParseMeasurement(nil))
	assert.Equal(t, uint8(0), hrs.ParseMeasurement([]byte{}))
	assert.Equal(t, uint8(0), hrs.ParseMeasurement([]byte{0x00}))
	assert.Equal(t, uint8(0), hrs.ParseMeasurement([]byte{0x01}))

	// 16-bit encoding flagged but the second value byte is missing
	assert.Equal(t, uint8(0), hrs.ParseMeasurement([]byte{0x01, 0x50}))
}

// TestParseMeasurement_8Bit covers the uint8 encoding for the full value
// range, including flag bytes with unrelated bits set.
func TestParseMeasurement_8Bit(t *testing.T) {
	for v := 0; v <= 255; v++ {
		assert.Equal(t, uint8(v), hrs.ParseMeasurement([]byte{0x00, byte(v)}))
	}

	// Bits 1-7 (sensor contact, energy expended, RR-interval) do not affect
	// the value encoding
	assert.Equal(t, uint8(75), hrs.ParseMeasurement([]byte{0x16, 75}))
}

// TestParseMeasurement_16Bit covers the little-endian uint16 encoding and its
// documented truncation to the low byte.
func TestParseMeasurement_16Bit(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    uint8
	}{
		{
			name:    "value within uint8 range",
			payload: []byte{0x01, 0x48, 0x00}, // 72
			want:    72,
		},
		{
			name:    "300 truncates to low byte",
			payload: []byte{0x01, 0x2C, 0x01}, // 300 -> 0x2C
			want:    44,
		},
		{
			name:    "256 truncates to zero",
			payload: []byte{0x01, 0x00, 0x01},
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hrs.ParseMeasurement(tt.payload))
		})
	}
}

// TestParseMeasurementWide verifies the non-truncating variant.
func TestParseMeasurementWide(t *testing.T) {
	assert.Equal(t, uint16(0), hrs.ParseMeasurementWide([]byte{0x01}))
	assert.Equal(t, uint16(75), hrs.ParseMeasurementWide([]byte{0x00, 75}))
	assert.Equal(t, uint16(300), hrs.ParseMeasurementWide([]byte{0x01, 0x2C, 0x01}))
	assert.Equal(t, uint16(65535), hrs.ParseMeasurementWide([]byte{0x01, 0xFF, 0xFF}))
}

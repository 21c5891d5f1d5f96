package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNormalizeUUID verifies that NormalizeUUID handles the UUID formats seen
// in advertisements, GATT discovery and compiled-in constants.
func TestNormalizeUUID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "16-bit short form",
			input:    "2a37",
			expected: "2a37",
		},
		{
			name:     "16-bit uppercase",
			input:    "2A37",
			expected: "2a37",
		},
		{
			name:     "16-bit with 0x prefix",
			input:    "0x2a37",
			expected: "2a37",
		},
		{
			name:     "full SIG UUID with dashes",
			input:    "00002a37-0000-1000-8000-00805f9b34fb",
			expected: "2a37",
		},
		{
			name:     "full SIG UUID without dashes",
			input:    "00002a3700001000800000805f9b34fb",
			expected: "2a37",
		},
		{
			name:     "full SIG UUID with braces",
			input:    "{00002a37-0000-1000-8000-00805f9b34fb}",
			expected: "2a37",
		},
		{
			name:     "custom 128-bit UUID stays full length",
			input:    "6e400001-b5a3-f393-e0a9-e50e24dcca9e",
			expected: "6e400001b5a3f393e0a9e50e24dcca9e",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeUUID(tt.input))
		})
	}
}

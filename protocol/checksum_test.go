package protocol

import "testing"

func TestChecksum(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected byte
	}{
		{
			name:     "empty data",
			data:     []byte{},
			expected: 0x00,
		},
		{
			name:     "single byte",
			data:     []byte{0x42},
			expected: 0x42,
		},
		{
			name:     "multiple bytes",
			data:     []byte{0x01, 0x02, 0x03, 0x04},
			expected: 0x0A,
		},
		{
			name:     "wraps mod 256",
			data:     []byte{0xFF, 0x02},
			expected: 0x01,
		},
		{
			name:     "all ones",
			data:     []byte{0xFF, 0xFF, 0xFF, 0xFF},
			expected: 0xFC,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Checksum(tt.data)
			if result != tt.expected {
				t.Errorf("Checksum() = 0x%02X, want 0x%02X", result, tt.expected)
			}
		})
	}
}

// The additive checksum is insensitive to corruptions whose byte deltas
// sum to a multiple of 256. That weakness is part of the legacy protocol
// and is locked in here so nobody "fixes" it to a CRC.
func TestChecksumKnownWeakness(t *testing.T) {
	a := []byte{0x10, 0x20, 0x30}
	b := []byte{0x11, 0x1F, 0x30} // +1 on one byte, -1 on another

	if Checksum(a) != Checksum(b) {
		t.Errorf("expected compensating corruption to collide: 0x%02X vs 0x%02X",
			Checksum(a), Checksum(b))
	}

	c := []byte{0x11, 0x20, 0x30} // single-byte corruption
	if Checksum(a) == Checksum(c) {
		t.Error("single-byte corruption must change the checksum")
	}
}

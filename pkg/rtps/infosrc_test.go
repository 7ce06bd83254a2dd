package rtps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInfoSource(t *testing.T) {
	body := []byte{
		0x00, 0x00, 0x00, 0x00,
		0x02, 0x04, 0x10, 0x20,
		0x01, 0x02, 0x03, 0x04,
		0x05, 0x06, 0x07, 0x08,
		0x09, 0x0A, 0x0B, 0x0C,
	}
	info, err := decodeInfoSource(body)
	require.NoError(t, err)
	assert.Equal(t, byte(2), info.ProtocolVersion.Major)
	assert.Equal(t, byte(4), info.ProtocolVersion.Minor)
	assert.Equal(t, VendorId{0x10, 0x20}, info.VendorId)
	assert.Equal(t, GuidPrefix{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C}, info.GuidPrefix)
}

func TestInfoSourceRoundTrip(t *testing.T) {
	original := InfoSource{
		ProtocolVersion: ProtocolVersion{Major: 2, Minor: 4},
		VendorId:        VendorId{0x01, 0x21},
		GuidPrefix:      GuidPrefix{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
	}
	decoded, err := decodeInfoSource(original.encode())
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

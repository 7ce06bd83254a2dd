package rtps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInfoDestination(t *testing.T) {
	body := []byte{10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21}
	info, err := decodeInfoDestination(body)
	require.NoError(t, err)
	assert.Equal(t, GuidPrefix{10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21}, info.GuidPrefix)
}

func TestInfoDestinationRoundTrip(t *testing.T) {
	original := InfoDestination{GuidPrefix: GuidPrefix{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}}
	decoded, err := decodeInfoDestination(original.encode())
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

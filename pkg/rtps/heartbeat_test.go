package rtps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeartbeatRoundTrip(t *testing.T) {
	original := Heartbeat{
		Final:      true,
		Liveliness: false,
		ReaderId:   EntityId{1, 2, 3, 4},
		WriterId:   EntityId{5, 6, 7, 8},
		FirstSn:    1,
		LastSn:     42,
		Count:      3,
	}
	body, flags := original.encode()
	decoded, err := decodeHeartbeat(body, flags)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestHeartbeatRejectsShortBody(t *testing.T) {
	_, err := decodeHeartbeat([]byte{1, 2, 3}, 0)
	require.Error(t, err)
}

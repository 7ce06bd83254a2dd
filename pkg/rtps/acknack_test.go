package rtps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ackNackWireVector() []byte {
	return []byte{
		0x10, 0x12, 0x14, 0x16,
		0x26, 0x24, 0x22, 0x20,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x04, 0xD2,
		0x00, 0x00, 0x00, 0x08,
		0x00, 0x00, 0x00, 0x0C,
		0x00, 0x00, 0x00, 0x0F,
	}
}

func TestDecodeAckNackBigEndianNotFinal(t *testing.T) {
	body := ackNackWireVector()
	ack, err := decodeAckNack(body, 0)
	require.NoError(t, err)
	assert.False(t, ack.Final)
	assert.Equal(t, EntityId{0x10, 0x12, 0x14, 0x16}, ack.ReaderId)
	assert.Equal(t, EntityId{0x26, 0x24, 0x22, 0x20}, ack.WriterId)
	assert.Equal(t, Count(15), ack.Count)
	assert.True(t, ack.ReaderSnState.Contains(1236))
	assert.True(t, ack.ReaderSnState.Contains(1237))
	assert.False(t, ack.ReaderSnState.Contains(1234))
}

func TestDecodeAckNackFinalFlag(t *testing.T) {
	body := ackNackWireVector()
	ack, err := decodeAckNack(body, ackNackFinalFlag)
	require.NoError(t, err)
	assert.True(t, ack.Final)
	assert.Equal(t, Count(15), ack.Count)
}

func TestAckNackRoundTrip(t *testing.T) {
	original := AckNack{
		Final:    true,
		ReaderId: EntityId{1, 2, 3, 4},
		WriterId: EntityId{5, 6, 7, 8},
		ReaderSnState: SequenceNumberSet{
			Base:    10,
			NumBits: 4,
			Bitmap:  []bool{true, false, true, false},
		},
		Count: 7,
	}
	body, flags := original.encode()
	decoded, err := decodeAckNack(body, flags)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

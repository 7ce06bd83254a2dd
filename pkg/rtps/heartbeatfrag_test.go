package rtps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeHeartbeatFragBigEndian(t *testing.T) {
	body := []byte{
		0x10, 0x11, 0x12, 0x13,
		0x26, 0x25, 0x24, 0x23,
		0x00, 0x00, 0x10, 0x01,
		0x01, 0x02, 0x03, 0x04,
		0x00, 0x05, 0x70, 0x10,
		0x00, 0x00, 0x00, 0x05,
	}
	hb, err := decodeHeartbeatFrag(body, 0)
	require.NoError(t, err)
	assert.Equal(t, EntityId{0x10, 0x11, 0x12, 0x13}, hb.ReaderId)
	assert.Equal(t, EntityId{0x26, 0x25, 0x24, 0x23}, hb.WriterId)
	assert.Equal(t, SequenceNumber(17596497920772), hb.WriterSn)
	assert.Equal(t, FragmentNumber(356368), hb.LastFragmentNum)
	assert.Equal(t, Count(5), hb.Count)
}

func TestDecodeHeartbeatFragLittleEndian(t *testing.T) {
	body := []byte{
		0x10, 0x11, 0x12, 0x13,
		0x26, 0x25, 0x24, 0x23,
		0x01, 0x10, 0x00, 0x00,
		0x04, 0x03, 0x02, 0x01,
		0x10, 0x70, 0x05, 0x00,
		0x05, 0x00, 0x00, 0x00,
	}
	hb, err := decodeHeartbeatFrag(body, 0x01)
	require.NoError(t, err)
	assert.Equal(t, SequenceNumber(17596497920772), hb.WriterSn)
	assert.Equal(t, FragmentNumber(356368), hb.LastFragmentNum)
	assert.Equal(t, Count(5), hb.Count)
}

func TestHeartbeatFragRoundTrip(t *testing.T) {
	original := HeartbeatFrag{
		ReaderId:        EntityId{1, 2, 3, 4},
		WriterId:        EntityId{5, 6, 7, 8},
		WriterSn:        17596497920772,
		LastFragmentNum: 356368,
		Count:           5,
	}
	decoded, err := decodeHeartbeatFrag(original.encode(), 0)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

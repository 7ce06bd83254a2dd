package rtps

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSequenceNumberSetScenarioSix(t *testing.T) {
	// base=1234, num_bits=8, bitmap word 0x0000000C (bits 2 and 3 set).
	buf := []byte{
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x04, 0xD2,
		0x00, 0x00, 0x00, 0x08,
		0x00, 0x00, 0x00, 0x0C,
	}
	set, consumed, err := decodeSequenceNumberSet(buf, binary.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, 16, consumed)
	assert.Equal(t, SequenceNumber(1234), set.Base)
	assert.Equal(t, uint32(8), set.NumBits)

	expected := map[SequenceNumber]bool{
		1234: false, 1235: false, 1236: true, 1237: true,
		1238: false, 1239: false, 1240: false, 1241: false,
	}
	for sn, want := range expected {
		assert.Equal(t, want, set.Contains(sn), "sn=%d", sn)
	}
}

func TestDecodeSequenceNumberSetRejectsZeroBase(t *testing.T) {
	buf := []byte{
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x0C,
		0x00, 0x00, 0x00, 0x0C,
	}
	_, _, err := decodeSequenceNumberSet(buf, binary.BigEndian)
	require.Error(t, err)
	var codecErr *CodecError
	require.ErrorAs(t, err, &codecErr)
	assert.Equal(t, ReasonInvalidSubmessage, codecErr.Reason)
}

func TestDecodeSequenceNumberSetRejectsOutOfRangeNumBits(t *testing.T) {
	buf := []byte{
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x04, 0xD2,
		0x00, 0x00, 0x02, 0x00,
		0x00, 0x00, 0x00, 0x0C,
	}
	_, _, err := decodeSequenceNumberSet(buf, binary.BigEndian)
	require.Error(t, err)
}

func TestSequenceNumberSetRoundTrip(t *testing.T) {
	set := SequenceNumberSet{
		Base:    1234,
		NumBits: 8,
		Bitmap:  []bool{false, false, true, true, false, false, false, false},
	}
	encoded := set.encode(nil)
	decoded, consumed, err := decodeSequenceNumberSet(encoded, binary.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, len(encoded), consumed)
	assert.Equal(t, set, decoded)
}

package rtps

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paramListWireVector() []byte {
	return []byte{
		0x00, 0x70, 0x00, 0x10, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A,
		0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x10, 0x00, 0x10, 0x00, 0x08, 0x10, 0x11, 0x12, 0x13,
		0x14, 0x15, 0x16, 0x17, 0x00, 0x71, 0x00, 0x04, 0x10, 0x20, 0x30, 0x40, 0x00, 0x01,
		0x00, 0x00,
	}
}

func TestDecodeParameterListKeyHashAndStatusInfo(t *testing.T) {
	list, consumed, err := decodeParameterList(paramListWireVector(), binary.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, 44, consumed)
	require.NotNil(t, list.KeyHash)
	assert.Equal(t, InstanceHandle{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x10}, *list.KeyHash)
	require.NotNil(t, list.Status)
	assert.Equal(t, StatusInfo{0x10, 0x20, 0x30, 0x40}, *list.Status)
	// The unrecognised pid 0x0010 is preserved in the raw parameter list too.
	assert.Len(t, list.Parameters, 3)
}

func TestDecodeParameterListRejectsTruncatedValue(t *testing.T) {
	buf := []byte{0x00, 0x05, 0x00, 0x03, 0x01, 0x02, 0x03}
	_, _, err := decodeParameterList(buf, binary.BigEndian)
	require.Error(t, err)
}

func TestDecodeParameterListRejectsLengthBelowMinimum(t *testing.T) {
	buf := []byte{
		0x00, 0x05, 0x00, 0x03, 0x01, 0x02, 0x03, 0x00, 0x10, 0x00, 0x08, 0x10, 0x11, 0x12,
		0x13, 0x14, 0x15, 0x16, 0x17, 0x00, 0x01, 0x00, 0x00,
	}
	_, _, err := decodeParameterList(buf, binary.BigEndian)
	require.Error(t, err)
}

func TestStatusInfoFlags(t *testing.T) {
	disposed := StatusInfo{0, 0, 0, 0x01}
	unregistered := StatusInfo{0, 0, 0, 0x02}
	assert.True(t, disposed.Disposed())
	assert.False(t, disposed.Unregistered())
	assert.True(t, unregistered.Unregistered())
	assert.False(t, unregistered.Disposed())
}

func TestParameterListRoundTrip(t *testing.T) {
	keyHash := InstanceHandle{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	list := ParameterList{
		Parameters: []Parameter{
			{Id: ParameterIdKeyHash, Value: keyHash[:]},
			{Id: ParameterIdTopicName, Value: []byte{'S', 'q', 'u', 'a'}},
		},
		KeyHash: &keyHash,
	}
	encoded := list.encode(nil)
	decoded, consumed, err := decodeParameterList(encoded, binary.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, len(encoded), consumed)
	require.Len(t, decoded.Parameters, 2)
	assert.Equal(t, list.Parameters, decoded.Parameters)
}

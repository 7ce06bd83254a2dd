package rtps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dataWireVector() []byte {
	return []byte{
		0x00, 0x00, 0x00, 0x10,
		0x10, 0x12, 0x14, 0x16,
		0x26, 0x24, 0x22, 0x20,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x04, 0xD1,
		0x00, 0x70, 0x00, 0x10,
		0x01, 0x02, 0x03, 0x04,
		0x05, 0x06, 0x07, 0x08,
		0x09, 0x0A, 0x0B, 0x0C,
		0x0D, 0x0E, 0x0F, 0x10,
		0x00, 0x10, 0x00, 0x08,
		0x10, 0x11, 0x12, 0x13,
		0x14, 0x15, 0x16, 0x17,
		0x00, 0x01, 0x00, 0x00,
		0x20, 0x30, 0x40, 0x50,
	}
}

func TestDecodeDataWithoutInlineQosOrPayload(t *testing.T) {
	data, err := decodeData(dataWireVector(), 0)
	require.NoError(t, err)
	assert.Equal(t, EntityId{0x10, 0x12, 0x14, 0x16}, data.ReaderId)
	assert.Equal(t, EntityId{0x26, 0x24, 0x22, 0x20}, data.WriterId)
	assert.Equal(t, SequenceNumber(1233), data.WriterSn)
	assert.Nil(t, data.InlineQos)
	assert.Equal(t, PayloadNone, data.PayloadKind)
}

func TestDecodeDataWithInlineQosWithoutPayload(t *testing.T) {
	data, err := decodeData(dataWireVector(), dataFlagInlineQos)
	require.NoError(t, err)
	assert.Equal(t, SequenceNumber(1233), data.WriterSn)
	assert.Equal(t, PayloadNone, data.PayloadKind)
	require.NotNil(t, data.InlineQos)
	require.NotNil(t, data.InlineQos.KeyHash)
	assert.Equal(t, InstanceHandle{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x10}, *data.InlineQos.KeyHash)
}

func TestDecodeDataWithInlineQosAndDataPayload(t *testing.T) {
	data, err := decodeData(dataWireVector(), dataFlagInlineQos|dataFlagData)
	require.NoError(t, err)
	require.NotNil(t, data.InlineQos.KeyHash)
	assert.Equal(t, PayloadData, data.PayloadKind)
	assert.Equal(t, []byte{0x20, 0x30, 0x40, 0x50}, data.Payload)
}

func TestDecodeDataWithInlineQosAndKeyPayload(t *testing.T) {
	data, err := decodeData(dataWireVector(), dataFlagInlineQos|dataFlagKey)
	require.NoError(t, err)
	assert.Equal(t, PayloadKey, data.PayloadKind)
	assert.Equal(t, []byte{0x20, 0x30, 0x40, 0x50}, data.Payload)
}

func TestDecodeDataRejectsDataAndKeyBothSet(t *testing.T) {
	_, err := decodeData(dataWireVector(), dataFlagData|dataFlagKey)
	require.Error(t, err)
	var codecErr *CodecError
	require.ErrorAs(t, err, &codecErr)
	assert.Equal(t, ReasonInvalidSubmessage, codecErr.Reason)
}

func TestDataRoundTrip(t *testing.T) {
	keyHash := InstanceHandle{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	original := Data{
		ReaderId: EntityId{0x10, 0x12, 0x14, 0x16},
		WriterId: EntityId{0x26, 0x24, 0x22, 0x20},
		WriterSn: 1233,
		InlineQos: &ParameterList{
			Parameters: []Parameter{{Id: ParameterIdKeyHash, Value: keyHash[:]}},
			KeyHash:    &keyHash,
		},
		PayloadKind: PayloadData,
		Payload:     []byte{0x20, 0x30, 0x40, 0x50},
	}
	body, flags := original.encode()
	decoded, err := decodeData(body, flags)
	require.NoError(t, err)
	assert.Equal(t, original.ReaderId, decoded.ReaderId)
	assert.Equal(t, original.WriterId, decoded.WriterId)
	assert.Equal(t, original.WriterSn, decoded.WriterSn)
	assert.Equal(t, original.PayloadKind, decoded.PayloadKind)
	assert.Equal(t, original.Payload, decoded.Payload)
	require.NotNil(t, decoded.InlineQos.KeyHash)
	assert.Equal(t, keyHash, *decoded.InlineQos.KeyHash)
}

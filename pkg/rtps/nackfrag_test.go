package rtps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNackFragRoundTrip(t *testing.T) {
	original := NackFrag{
		ReaderId: EntityId{1, 2, 3, 4},
		WriterId: EntityId{5, 6, 7, 8},
		WriterSn: 9,
		FragmentNumberState: FragmentNumberSet{
			Base:    1,
			NumBits: 3,
			Bitmap:  []bool{true, false, true},
		},
		Count: 2,
	}
	decoded, err := decodeNackFrag(original.encode(), 0)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

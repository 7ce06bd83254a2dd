package rtps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGapRoundTrip(t *testing.T) {
	original := Gap{
		ReaderId: EntityId{1, 2, 3, 4},
		WriterId: EntityId{5, 6, 7, 8},
		GapStart: 100,
		GapList: SequenceNumberSet{
			Base:    100,
			NumBits: 4,
			Bitmap:  []bool{true, true, false, false},
		},
	}
	decoded, err := decodeGap(original.encode(), 0)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

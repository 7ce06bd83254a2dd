package rtps

import "encoding/binary"

// SequenceNumberSet is the bitmap ACKNACK/GAP carry to describe which
// sequence numbers relative to a base are present. Bit N of a bitmap word
// (value 1<<N) means base+N is a member of the set (original_source's
// parser/ack_nack_submessage.rs and parser/helpers.rs test vectors,
// cross-checked against spec.md scenario 6).
type SequenceNumberSet struct {
	Base    SequenceNumber
	NumBits uint32
	Bitmap  []bool // len == NumBits, Bitmap[n] corresponds to Base+n
}

// Contains reports whether sn is a member of the set.
func (s SequenceNumberSet) Contains(sn SequenceNumber) bool {
	n := sn - s.Base
	if n < 0 || uint32(n) >= s.NumBits {
		return false
	}
	return s.Bitmap[n]
}

// decodeSequenceNumberSet reads a sequence-number-set at buf[0:] in the
// given byte order, returning the set and the number of bytes consumed.
func decodeSequenceNumberSet(buf []byte, order binary.ByteOrder) (SequenceNumberSet, int, error) {
	if len(buf) < 12 {
		return SequenceNumberSet{}, 0, errf(ReasonInvalidSubmessage, "sequence number set: need at least 12 bytes, got %d", len(buf))
	}
	hi := int32(order.Uint32(buf[0:4]))
	lo := order.Uint32(buf[4:8])
	base := SequenceNumber(int64(hi)<<32 | int64(lo))
	if base < 1 {
		return SequenceNumberSet{}, 0, errf(ReasonInvalidSubmessage, "sequence number set: base %d must be >= 1", base)
	}
	numBits := order.Uint32(buf[8:12])
	if numBits < 1 || numBits > 256 {
		return SequenceNumberSet{}, 0, errf(ReasonInvalidSubmessage, "sequence number set: num_bits %d out of range [1,256]", numBits)
	}
	numWords := int((numBits + 31) / 32)
	need := 12 + numWords*4
	if len(buf) < need {
		return SequenceNumberSet{}, 0, errf(ReasonInvalidSubmessage, "sequence number set: need %d bytes for bitmap, got %d", need, len(buf))
	}
	bitmap := make([]bool, numBits)
	for word := 0; word < numWords; word++ {
		off := 12 + word*4
		v := order.Uint32(buf[off : off+4])
		bitsInWord := int(numBits) - word*32
		if bitsInWord > 32 {
			bitsInWord = 32
		}
		for bit := 0; bit < bitsInWord; bit++ {
			if v&(1<<uint(bit)) != 0 {
				bitmap[word*32+bit] = true
			}
		}
	}
	return SequenceNumberSet{Base: base, NumBits: numBits, Bitmap: bitmap}, need, nil
}

// encode appends the wire form of s (always big-endian, this module's wire
// encoding convention) to buf and returns the result.
func (s SequenceNumberSet) encode(buf []byte) []byte {
	var hdr [12]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(int64(s.Base)>>32))
	binary.BigEndian.PutUint32(hdr[4:8], uint32(int64(s.Base)))
	binary.BigEndian.PutUint32(hdr[8:12], s.NumBits)
	buf = append(buf, hdr[:]...)

	numWords := int((s.NumBits + 31) / 32)
	words := make([]byte, numWords*4)
	for idx, present := range s.Bitmap {
		if !present {
			continue
		}
		word := idx / 32
		bit := idx % 32
		off := word * 4
		v := binary.BigEndian.Uint32(words[off : off+4])
		v |= 1 << uint(bit)
		binary.BigEndian.PutUint32(words[off:off+4], v)
	}
	return append(buf, words...)
}

package rtps

// NackFrag requests retransmission of specific fragments of WriterSn, the
// fragment-level analogue of AckNack (spec.md §4.1's DATA_FRAG handling).
type NackFrag struct {
	ReaderId        EntityId
	WriterId        EntityId
	WriterSn        SequenceNumber
	FragmentNumberState FragmentNumberSet
	Count           Count
}

func (NackFrag) Kind() SubmessageKind { return SubmessageKindNackFrag }

func decodeNackFrag(body []byte, flags byte) (NackFrag, error) {
	if len(body) < 16 {
		return NackFrag{}, errf(ReasonInvalidSubmessage, "NACK_FRAG submessage: need at least 16 bytes, got %d", len(body))
	}
	order := endiannessOrder(flags)
	var readerId, writerId EntityId
	copy(readerId[:], body[0:4])
	copy(writerId[:], body[4:8])

	hi := int32(order.Uint32(body[8:12]))
	lo := order.Uint32(body[12:16])
	writerSn := SequenceNumber(int64(hi)<<32 | int64(lo))

	set, consumed, err := decodeFragmentNumberSet(body[16:], order)
	if err != nil {
		return NackFrag{}, err
	}
	countOff := 16 + consumed
	if len(body) < countOff+4 {
		return NackFrag{}, errf(ReasonInvalidSubmessage, "NACK_FRAG submessage: missing count field")
	}
	count := Count(int32(order.Uint32(body[countOff : countOff+4])))

	return NackFrag{
		ReaderId:            readerId,
		WriterId:            writerId,
		WriterSn:            writerSn,
		FragmentNumberState: set,
		Count:               count,
	}, nil
}

func (m NackFrag) encode() []byte {
	body := make([]byte, 0, 32)
	body = append(body, m.ReaderId[:]...)
	body = append(body, m.WriterId[:]...)
	var sn [8]byte
	octetsBE32(sn[0:4], uint32(int64(m.WriterSn)>>32))
	octetsBE32(sn[4:8], uint32(int64(m.WriterSn)))
	body = append(body, sn[:]...)
	body = m.FragmentNumberState.encode(body)
	var count [4]byte
	octetsBE32(count[:], uint32(m.Count))
	return append(body, count[:]...)
}

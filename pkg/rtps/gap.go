package rtps

// Gap tells a reader that a range of sequence numbers will never be sent,
// letting it stop waiting on samples a writer has already aged out of its
// history cache (spec.md §4.1, §4.3's writer-cache eviction).
type Gap struct {
	ReaderId   EntityId
	WriterId   EntityId
	GapStart   SequenceNumber
	GapList    SequenceNumberSet
}

func (Gap) Kind() SubmessageKind { return SubmessageKindGap }

func decodeGap(body []byte, flags byte) (Gap, error) {
	if len(body) < 16 {
		return Gap{}, errf(ReasonInvalidSubmessage, "GAP submessage: need at least 16 bytes, got %d", len(body))
	}
	order := endiannessOrder(flags)
	var readerId, writerId EntityId
	copy(readerId[:], body[0:4])
	copy(writerId[:], body[4:8])

	hi := int32(order.Uint32(body[8:12]))
	lo := order.Uint32(body[12:16])
	gapStart := SequenceNumber(int64(hi)<<32 | int64(lo))

	set, _, err := decodeSequenceNumberSet(body[16:], order)
	if err != nil {
		return Gap{}, err
	}
	return Gap{ReaderId: readerId, WriterId: writerId, GapStart: gapStart, GapList: set}, nil
}

func (m Gap) encode() []byte {
	body := make([]byte, 0, 32)
	body = append(body, m.ReaderId[:]...)
	body = append(body, m.WriterId[:]...)
	var start [8]byte
	octetsBE32(start[0:4], uint32(int64(m.GapStart)>>32))
	octetsBE32(start[4:8], uint32(int64(m.GapStart)))
	body = append(body, start[:]...)
	return m.GapList.encode(body)
}

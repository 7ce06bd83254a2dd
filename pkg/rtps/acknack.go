package rtps

// AckNack is sent by a reader to a writer, acknowledging receipt up to (and
// requesting retransmission of missing members within) ReaderSnState
// (spec.md §4.1 scenario 6, original_source's parser/ack_nack_submessage.rs).
type AckNack struct {
	Final         bool
	ReaderId      EntityId
	WriterId      EntityId
	ReaderSnState SequenceNumberSet
	Count         Count
}

func (AckNack) Kind() SubmessageKind { return SubmessageKindAckNack }

const ackNackFinalFlag byte = 0x02

func decodeAckNack(body []byte, flags byte) (AckNack, error) {
	if len(body) < 8 {
		return AckNack{}, errf(ReasonInvalidSubmessage, "ACKNACK submessage: need at least 8 bytes, got %d", len(body))
	}
	order := endiannessOrder(flags)
	var readerId, writerId EntityId
	copy(readerId[:], body[0:4])
	copy(writerId[:], body[4:8])

	set, consumed, err := decodeSequenceNumberSet(body[8:], order)
	if err != nil {
		return AckNack{}, err
	}
	countOff := 8 + consumed
	if len(body) < countOff+4 {
		return AckNack{}, errf(ReasonInvalidSubmessage, "ACKNACK submessage: missing count field")
	}
	count := Count(int32(order.Uint32(body[countOff : countOff+4])))

	return AckNack{
		Final:         flags&ackNackFinalFlag != 0,
		ReaderId:      readerId,
		WriterId:      writerId,
		ReaderSnState: set,
		Count:         count,
	}, nil
}

func (m AckNack) encode() (body []byte, flags byte) {
	body = make([]byte, 0, 24)
	body = append(body, m.ReaderId[:]...)
	body = append(body, m.WriterId[:]...)
	body = m.ReaderSnState.encode(body)
	var count [4]byte
	octetsBE32(count[:], uint32(m.Count))
	body = append(body, count[:]...)
	if m.Final {
		flags |= ackNackFinalFlag
	}
	return body, flags
}

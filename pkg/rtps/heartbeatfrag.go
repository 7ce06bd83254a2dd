package rtps

// HeartbeatFrag tells a reader assembling a fragmented sample the highest
// fragment number a writer has available for WriterSn
// (original_source's parser/heartbeat_frag_submessage.rs).
type HeartbeatFrag struct {
	ReaderId        EntityId
	WriterId        EntityId
	WriterSn        SequenceNumber
	LastFragmentNum FragmentNumber
	Count           Count
}

func (HeartbeatFrag) Kind() SubmessageKind { return SubmessageKindHeartbeatFrag }

func decodeHeartbeatFrag(body []byte, flags byte) (HeartbeatFrag, error) {
	if len(body) < 24 {
		return HeartbeatFrag{}, errf(ReasonInvalidSubmessage, "HEARTBEAT_FRAG submessage: need 24 bytes, got %d", len(body))
	}
	order := endiannessOrder(flags)
	var readerId, writerId EntityId
	copy(readerId[:], body[0:4])
	copy(writerId[:], body[4:8])

	hi := int32(order.Uint32(body[8:12]))
	lo := order.Uint32(body[12:16])
	writerSn := SequenceNumber(int64(hi)<<32 | int64(lo))
	if writerSn < 1 {
		return HeartbeatFrag{}, errf(ReasonInvalidSubmessage, "HEARTBEAT_FRAG submessage: writer_sn %d must be >= 1", writerSn)
	}

	lastFrag := FragmentNumber(order.Uint32(body[16:20]))
	count := Count(int32(order.Uint32(body[20:24])))

	return HeartbeatFrag{
		ReaderId:        readerId,
		WriterId:        writerId,
		WriterSn:        writerSn,
		LastFragmentNum: lastFrag,
		Count:           count,
	}, nil
}

func (m HeartbeatFrag) encode() []byte {
	body := make([]byte, 24)
	copy(body[0:4], m.ReaderId[:])
	copy(body[4:8], m.WriterId[:])
	octetsBE32(body[8:12], uint32(int64(m.WriterSn)>>32))
	octetsBE32(body[12:16], uint32(int64(m.WriterSn)))
	octetsBE32(body[16:20], uint32(m.LastFragmentNum))
	octetsBE32(body[20:24], uint32(m.Count))
	return body
}

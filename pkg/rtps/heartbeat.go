package rtps

// Heartbeat lets a writer tell matched readers the range of sequence
// numbers [FirstSn, LastSn] it currently holds, driving reliable-reader
// AckNack generation (spec.md §4.1).
type Heartbeat struct {
	Final      bool
	Liveliness bool
	ReaderId   EntityId
	WriterId   EntityId
	FirstSn    SequenceNumber
	LastSn     SequenceNumber
	Count      Count
}

func (Heartbeat) Kind() SubmessageKind { return SubmessageKindHeartbeat }

const (
	heartbeatFinalFlag      byte = 0x02
	heartbeatLivelinessFlag byte = 0x04
)

func decodeHeartbeat(body []byte, flags byte) (Heartbeat, error) {
	if len(body) < 28 {
		return Heartbeat{}, errf(ReasonInvalidSubmessage, "HEARTBEAT submessage: need 28 bytes, got %d", len(body))
	}
	order := endiannessOrder(flags)
	var readerId, writerId EntityId
	copy(readerId[:], body[0:4])
	copy(writerId[:], body[4:8])

	firstHi := int32(order.Uint32(body[8:12]))
	firstLo := order.Uint32(body[12:16])
	firstSn := SequenceNumber(int64(firstHi)<<32 | int64(firstLo))

	lastHi := int32(order.Uint32(body[16:20]))
	lastLo := order.Uint32(body[20:24])
	lastSn := SequenceNumber(int64(lastHi)<<32 | int64(lastLo))

	count := Count(int32(order.Uint32(body[24:28])))

	return Heartbeat{
		Final:      flags&heartbeatFinalFlag != 0,
		Liveliness: flags&heartbeatLivelinessFlag != 0,
		ReaderId:   readerId,
		WriterId:   writerId,
		FirstSn:    firstSn,
		LastSn:     lastSn,
		Count:      count,
	}, nil
}

func (m Heartbeat) encode() (body []byte, flags byte) {
	body = make([]byte, 28)
	copy(body[0:4], m.ReaderId[:])
	copy(body[4:8], m.WriterId[:])
	octetsBE32(body[8:12], uint32(int64(m.FirstSn)>>32))
	octetsBE32(body[12:16], uint32(int64(m.FirstSn)))
	octetsBE32(body[16:20], uint32(int64(m.LastSn)>>32))
	octetsBE32(body[20:24], uint32(int64(m.LastSn)))
	octetsBE32(body[24:28], uint32(m.Count))
	if m.Final {
		flags |= heartbeatFinalFlag
	}
	if m.Liveliness {
		flags |= heartbeatLivelinessFlag
	}
	return body, flags
}

package rtps

// InfoTimestamp conveys the wall-clock time the submessages that follow it
// (until overridden or the message ends) were sent, or no time at all if
// the InvalidateFlag is set (original_source's info_timestamp_submessage.rs).
type InfoTimestamp struct {
	Timestamp *Time
}

func (InfoTimestamp) Kind() SubmessageKind { return SubmessageKindInfoTimestamp }

const infoTimestampInvalidFlag byte = 0x02

func decodeInfoTimestamp(body []byte, flags byte) (InfoTimestamp, error) {
	if flags&infoTimestampInvalidFlag != 0 {
		return InfoTimestamp{}, nil
	}
	if len(body) < 8 {
		return InfoTimestamp{}, errf(ReasonInvalidSubmessage, "INFO_TS submessage: need 8 bytes, got %d", len(body))
	}
	order := endiannessOrder(flags)
	t := Time{Seconds: order.Uint32(body[0:4]), Fraction: order.Uint32(body[4:8])}
	return InfoTimestamp{Timestamp: &t}, nil
}

func (m InfoTimestamp) encode() (body []byte, flags byte) {
	if m.Timestamp == nil {
		return nil, infoTimestampInvalidFlag
	}
	body = make([]byte, 8)
	octetsBE32(body[0:4], m.Timestamp.Seconds)
	octetsBE32(body[4:8], m.Timestamp.Fraction)
	return body, 0
}

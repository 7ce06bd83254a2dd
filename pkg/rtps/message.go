package rtps

// Message is one decoded RTPS message: the fixed header plus an ordered
// stream of submessages (spec.md §4.1).
type Message struct {
	Header      MessageHeader
	Submessages []Submessage
}

// Decode parses buf as a complete RTPS message. Decoding never panics on
// malformed input: it returns a *CodecError and the caller drops the
// datagram (pkg/transport, pkg/participant).
//
// A submessage whose Length field is 0 is, per the RTPS spec, the last
// submessage in the message and extends to the end of the buffer — this is
// the one length exception the loop below honours.
func Decode(buf []byte) (Message, error) {
	header, err := decodeMessageHeader(buf)
	if err != nil {
		return Message{}, err
	}
	msg := Message{Header: header}
	pos := messageHeaderSize
	for pos < len(buf) {
		remaining := buf[pos:]
		subHeader, err := decodeSubmessageHeader(remaining)
		if err != nil {
			return Message{}, err
		}
		bodyStart := pos + 4
		var bodyEnd int
		if subHeader.Length == 0 {
			bodyEnd = len(buf)
		} else {
			bodyEnd = bodyStart + int(subHeader.Length)
			if bodyEnd > len(buf) {
				return Message{}, errf(ReasonInvalidSubmessage, "submessage 0x%02x: declared length %d runs past end of message", subHeader.Id, subHeader.Length)
			}
		}
		body := buf[bodyStart:bodyEnd]

		sub, err := decodeSubmessageBody(subHeader.Id, body, subHeader.Flags)
		if err != nil {
			return Message{}, err
		}
		if sub != nil {
			msg.Submessages = append(msg.Submessages, sub)
		}
		pos = bodyEnd
	}
	return msg, nil
}

func decodeSubmessageBody(id SubmessageKind, body []byte, flags byte) (Submessage, error) {
	switch id {
	case SubmessageKindPad:
		return Pad{}, nil
	case SubmessageKindAckNack:
		return decodeAckNack(body, flags)
	case SubmessageKindHeartbeat:
		return decodeHeartbeat(body, flags)
	case SubmessageKindGap:
		return decodeGap(body, flags)
	case SubmessageKindInfoTimestamp:
		return decodeInfoTimestamp(body, flags)
	case SubmessageKindInfoSource:
		return decodeInfoSource(body)
	case SubmessageKindInfoDestination:
		return decodeInfoDestination(body)
	case SubmessageKindNackFrag:
		return decodeNackFrag(body, flags)
	case SubmessageKindHeartbeatFrag:
		return decodeHeartbeatFrag(body, flags)
	case SubmessageKindData:
		return decodeData(body, flags)
	case SubmessageKindDataFrag:
		return decodeDataFrag(body, flags)
	case SubmessageKindInfoReplyIP4, SubmessageKindInfoReply:
		// Locator-forwarding hints this implementation does not act on;
		// skipped rather than decoded.
		return nil, nil
	default:
		return nil, errf(ReasonInvalidSubmessage, "unrecognised submessage id 0x%02x", byte(id))
	}
}

// Encode serialises msg to its wire form. Every submessage is emitted in
// big-endian order with an explicit (non-zero) length field.
func (msg Message) Encode() []byte {
	buf := msg.Header.encode(make([]byte, 0, messageHeaderSize))
	order := endiannessOrder(0)
	for _, sub := range msg.Submessages {
		body, flags := encodeSubmessageBody(sub)
		hdr := submessageHeader{Id: sub.Kind(), Flags: flags, Length: uint16(len(body))}
		buf = hdr.encode(buf, order)
		buf = append(buf, body...)
	}
	return buf
}

func encodeSubmessageBody(sub Submessage) (body []byte, flags byte) {
	switch m := sub.(type) {
	case Pad:
		return nil, 0
	case AckNack:
		return m.encode()
	case Heartbeat:
		return m.encode()
	case Gap:
		return m.encode(), 0
	case InfoTimestamp:
		return m.encode()
	case InfoSource:
		return m.encode(), 0
	case InfoDestination:
		return m.encode(), 0
	case NackFrag:
		return m.encode(), 0
	case HeartbeatFrag:
		return m.encode(), 0
	case Data:
		return m.encode()
	default:
		return nil, 0
	}
}

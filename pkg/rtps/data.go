package rtps

// PayloadKind distinguishes whether a Data submessage's serialized payload
// is a full sample, a key-only disposal/unregistration marker, or absent.
type PayloadKind byte

const (
	PayloadNone PayloadKind = iota
	PayloadData
	PayloadKey
)

const (
	dataFlagInlineQos byte = 0x02
	dataFlagData      byte = 0x04
	dataFlagKey       byte = 0x08
	dataFlagNonStd    byte = 0x10
)

// Data carries one CacheChange from a writer to one or more readers
// (spec.md §4.1, original_source's parser/data_submessage.rs).
type Data struct {
	ReaderId      EntityId
	WriterId      EntityId
	WriterSn      SequenceNumber
	InlineQos     *ParameterList
	PayloadKind   PayloadKind
	Payload       []byte
}

func (Data) Kind() SubmessageKind { return SubmessageKindData }

// decodeData parses a DATA submessage body. The offsets (extra-flags,
// octets-to-inline-qos, reader-id, writer-id, writer-sn) and the
// data+key-both-set rejection are taken field-for-field from
// original_source's parse_data_submessage.
func decodeData(body []byte, flags byte) (Data, error) {
	order := endiannessOrder(flags)
	inlineQosFlag := flags&dataFlagInlineQos != 0
	dataFlag := flags&dataFlagData != 0
	keyFlag := flags&dataFlagKey != 0

	if dataFlag && keyFlag {
		return Data{}, errf(ReasonInvalidSubmessage, "DATA submessage: D and K flags both set")
	}
	if len(body) < 20 {
		return Data{}, errf(ReasonInvalidSubmessage, "DATA submessage: need at least 20 bytes, got %d", len(body))
	}
	extraFlags := order.Uint16(body[0:2])
	if extraFlags != 0 {
		return Data{}, errf(ReasonInvalidSubmessage, "DATA submessage: extra flags must be zero, got 0x%04x", extraFlags)
	}
	octetsToInlineQos := int(order.Uint16(body[2:4]))

	var readerId, writerId EntityId
	copy(readerId[:], body[4:8])
	copy(writerId[:], body[8:12])

	hi := int32(order.Uint32(body[12:16]))
	lo := order.Uint32(body[16:20])
	writerSn := SequenceNumber(int64(hi)<<32 | int64(lo))

	var inlineQos *ParameterList
	octetsToData := octetsToInlineQos
	if inlineQosFlag {
		qosStart := 4 + octetsToInlineQos
		if qosStart > len(body) {
			return Data{}, errf(ReasonInvalidSubmessage, "DATA submessage: octets_to_inline_qos runs past end of submessage")
		}
		list, size, err := decodeParameterList(body[qosStart:], order)
		if err != nil {
			return Data{}, err
		}
		inlineQos = &list
		octetsToData = octetsToInlineQos + size
	}

	payloadStart := 4 + octetsToData
	if payloadStart > len(body) {
		return Data{}, errf(ReasonInvalidSubmessage, "DATA submessage: payload offset runs past end of submessage")
	}
	payload := body[payloadStart:]

	result := Data{ReaderId: readerId, WriterId: writerId, WriterSn: writerSn, InlineQos: inlineQos}
	switch {
	case dataFlag && !keyFlag:
		result.PayloadKind = PayloadData
		result.Payload = payload
	case !dataFlag && keyFlag:
		result.PayloadKind = PayloadKey
		result.Payload = payload
	default:
		result.PayloadKind = PayloadNone
	}
	return result, nil
}

// encode serialises d as a DATA submessage body, always in big-endian order
// with octets_to_inline_qos fixed at 16 (reader-id + writer-id + writer-sn).
func (d Data) encode() (body []byte, flags byte) {
	const fixedTailSize = 16
	body = make([]byte, 0, 20+len(d.Payload))
	body = append(body, 0, 0) // extra flags
	var octets [2]byte
	octetsBE(octets[:], fixedTailSize)
	body = append(body, octets[:]...)
	body = append(body, d.ReaderId[:]...)
	body = append(body, d.WriterId[:]...)

	var sn [8]byte
	octetsBE32(sn[0:4], uint32(int64(d.WriterSn)>>32))
	octetsBE32(sn[4:8], uint32(int64(d.WriterSn)))
	body = append(body, sn[:]...)

	if d.InlineQos != nil {
		flags |= dataFlagInlineQos
		body = d.InlineQos.encode(body)
	}
	switch d.PayloadKind {
	case PayloadData:
		flags |= dataFlagData
		body = append(body, d.Payload...)
	case PayloadKey:
		flags |= dataFlagKey
		body = append(body, d.Payload...)
	}
	return body, flags
}

func octetsBE(dst []byte, v uint16) {
	dst[0] = byte(v >> 8)
	dst[1] = byte(v)
}

func octetsBE32(dst []byte, v uint32) {
	dst[0] = byte(v >> 24)
	dst[1] = byte(v >> 16)
	dst[2] = byte(v >> 8)
	dst[3] = byte(v)
}

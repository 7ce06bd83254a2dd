package rtps

// DataFrag carries one fragment of an oversized sample. This codec parses
// the fragment header and hands back the raw fragment bytes; it does not
// reassemble fragments into a complete sample. original_source itself never
// implements DATA_FRAG parsing (data_frag_submessage.rs is a bare
// unimplemented!() stub) — this is a documented gap, not an oversight:
// reassembly needs a per-writer fragment buffer that belongs in pkg/cache,
// not in the wire codec.
type DataFrag struct {
	ReaderId              EntityId
	WriterId              EntityId
	WriterSn              SequenceNumber
	FragmentStartingNum   FragmentNumber
	FragmentsInSubmessage uint16
	FragmentSize          uint16
	SampleSize            uint32
	InlineQos             *ParameterList
	IsKey                 bool
	Fragment              []byte
}

func (DataFrag) Kind() SubmessageKind { return SubmessageKindDataFrag }

const (
	dataFragFlagInlineQos byte = 0x02
	dataFragFlagKey       byte = 0x04
)

func decodeDataFrag(body []byte, flags byte) (DataFrag, error) {
	if len(body) < 32 {
		return DataFrag{}, errf(ReasonInvalidSubmessage, "DATA_FRAG submessage: need at least 32 bytes, got %d", len(body))
	}
	order := endiannessOrder(flags)
	octetsToInlineQos := int(order.Uint16(body[2:4]))

	var readerId, writerId EntityId
	copy(readerId[:], body[4:8])
	copy(writerId[:], body[8:12])

	hi := int32(order.Uint32(body[12:16]))
	lo := order.Uint32(body[16:20])
	writerSn := SequenceNumber(int64(hi)<<32 | int64(lo))

	fragStart := FragmentNumber(order.Uint32(body[20:24]))
	fragCount := order.Uint16(body[24:26])
	fragSize := order.Uint16(body[26:28])
	sampleSize := order.Uint32(body[28:32])

	result := DataFrag{
		ReaderId:              readerId,
		WriterId:              writerId,
		WriterSn:              writerSn,
		FragmentStartingNum:   fragStart,
		FragmentsInSubmessage: fragCount,
		FragmentSize:          fragSize,
		SampleSize:            sampleSize,
		IsKey:                 flags&dataFragFlagKey != 0,
	}

	octetsToData := octetsToInlineQos
	if flags&dataFragFlagInlineQos != 0 {
		qosStart := 4 + octetsToInlineQos
		if qosStart > len(body) {
			return DataFrag{}, errf(ReasonInvalidSubmessage, "DATA_FRAG submessage: octets_to_inline_qos runs past end of submessage")
		}
		list, size, err := decodeParameterList(body[qosStart:], order)
		if err != nil {
			return DataFrag{}, err
		}
		result.InlineQos = &list
		octetsToData = octetsToInlineQos + size
	}
	payloadStart := 4 + octetsToData
	if payloadStart > len(body) {
		return DataFrag{}, errf(ReasonInvalidSubmessage, "DATA_FRAG submessage: payload offset runs past end of submessage")
	}
	result.Fragment = body[payloadStart:]
	return result, nil
}

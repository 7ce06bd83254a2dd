package rtps

// InfoSource overrides the guid prefix, protocol version and vendor id that
// the submessages following it in the same message are considered to carry
// (original_source's info_source_submessage.rs).
type InfoSource struct {
	ProtocolVersion ProtocolVersion
	VendorId        VendorId
	GuidPrefix      GuidPrefix
}

func (InfoSource) Kind() SubmessageKind { return SubmessageKindInfoSource }

func decodeInfoSource(body []byte) (InfoSource, error) {
	if len(body) < 20 {
		return InfoSource{}, errf(ReasonInvalidSubmessage, "INFO_SRC submessage: need 20 bytes, got %d", len(body))
	}
	var out InfoSource
	out.ProtocolVersion = ProtocolVersion{Major: body[4], Minor: body[5]}
	copy(out.VendorId[:], body[6:8])
	copy(out.GuidPrefix[:], body[8:20])
	return out, nil
}

func (m InfoSource) encode() []byte {
	body := make([]byte, 20)
	body[4] = m.ProtocolVersion.Major
	body[5] = m.ProtocolVersion.Minor
	copy(body[6:8], m.VendorId[:])
	copy(body[8:20], m.GuidPrefix[:])
	return body
}

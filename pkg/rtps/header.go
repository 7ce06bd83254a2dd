package rtps

import "encoding/binary"

// MessageHeader is the fixed 20-byte prefix of every RTPS message
// (spec.md §4.1, original_source's message.rs MessageHeader).
type MessageHeader struct {
	ProtocolVersion ProtocolVersion
	VendorId        VendorId
	GuidPrefix      GuidPrefix
}

const messageHeaderSize = 20

var rtpsMagic = [4]byte{'R', 'T', 'P', 'S'}

func decodeMessageHeader(buf []byte) (MessageHeader, error) {
	if len(buf) < MinimumMessageSize {
		return MessageHeader{}, errf(ReasonMessageTooSmall, "message is %d bytes, minimum is %d", len(buf), MinimumMessageSize)
	}
	if buf[0] != rtpsMagic[0] || buf[1] != rtpsMagic[1] || buf[2] != rtpsMagic[2] || buf[3] != rtpsMagic[3] {
		return MessageHeader{}, errf(ReasonInvalidHeader, "missing RTPS magic bytes")
	}
	version := ProtocolVersion{Major: buf[4], Minor: buf[5]}
	if version.Major < 2 || version.Minor > 4 {
		return MessageHeader{}, errf(ReasonUnsupportedVersion, "protocol version %s", version)
	}
	var vendor VendorId
	copy(vendor[:], buf[6:8])
	var prefix GuidPrefix
	copy(prefix[:], buf[8:20])
	return MessageHeader{ProtocolVersion: version, VendorId: vendor, GuidPrefix: prefix}, nil
}

func (h MessageHeader) encode(buf []byte) []byte {
	buf = append(buf, rtpsMagic[:]...)
	buf = append(buf, h.ProtocolVersion.Major, h.ProtocolVersion.Minor)
	buf = append(buf, h.VendorId[:]...)
	buf = append(buf, h.GuidPrefix[:]...)
	return buf
}

// MinimumMessageSize is the smallest a well-formed RTPS message can be:
// the 20-byte header with no submessages.
const MinimumMessageSize = messageHeaderSize

// submessageHeader is the 4-byte header preceding every submessage body.
type submessageHeader struct {
	Id     SubmessageKind
	Flags  byte
	Length uint16
}

func endiannessOrder(flags byte) binary.ByteOrder {
	if flags&0x01 == 0x01 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func decodeSubmessageHeader(buf []byte) (submessageHeader, error) {
	if len(buf) < 4 {
		return submessageHeader{}, errf(ReasonInvalidSubmessage, "submessage header needs 4 bytes, got %d", len(buf))
	}
	id := SubmessageKind(buf[0])
	flags := buf[1]
	order := endiannessOrder(flags)
	length := order.Uint16(buf[2:4])
	return submessageHeader{Id: id, Flags: flags, Length: length}, nil
}

func (h submessageHeader) encode(buf []byte, order binary.ByteOrder) []byte {
	buf = append(buf, byte(h.Id), h.Flags, 0, 0)
	order.PutUint16(buf[len(buf)-2:], h.Length)
	return buf
}

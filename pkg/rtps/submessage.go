package rtps

// SubmessageKind is the wire id of a submessage (original_source's
// parser/mod.rs SubmessageKind, spec.md §4.1).
type SubmessageKind byte

const (
	SubmessageKindPad             SubmessageKind = 0x01
	SubmessageKindAckNack         SubmessageKind = 0x06
	SubmessageKindHeartbeat       SubmessageKind = 0x07
	SubmessageKindGap             SubmessageKind = 0x08
	SubmessageKindInfoTimestamp   SubmessageKind = 0x09
	SubmessageKindInfoSource      SubmessageKind = 0x0c
	SubmessageKindInfoReplyIP4    SubmessageKind = 0x0d
	SubmessageKindInfoDestination SubmessageKind = 0x0e
	SubmessageKindInfoReply       SubmessageKind = 0x0f
	SubmessageKindNackFrag        SubmessageKind = 0x12
	SubmessageKindHeartbeatFrag   SubmessageKind = 0x13
	SubmessageKindData            SubmessageKind = 0x15
	SubmessageKindDataFrag        SubmessageKind = 0x16

	submessageFlagEndianness byte = 0x01
)

// Submessage is the decoded body of one RTPS submessage. Concrete types:
// Pad, AckNack, Heartbeat, Gap, InfoTimestamp, InfoSource, InfoDestination,
// NackFrag, HeartbeatFrag, Data, DataFrag.
type Submessage interface {
	Kind() SubmessageKind
}

package rtps

import (
	"encoding/hex"
	"fmt"
)

// GuidPrefix is the 12-byte per-participant random component of a GUID.
type GuidPrefix [12]byte

func (p GuidPrefix) String() string { return hex.EncodeToString(p[:]) }

// EntityId is the 4-byte (entity-key + entity-kind) component of a GUID.
// The well-known values in spec.md §6 are expressed here in the same
// big-endian-hex form the OMG spec assigns them.
type EntityId [4]byte

func (e EntityId) String() string { return hex.EncodeToString(e[:]) }

// EntityKind occupies the low byte of EntityId.
func (e EntityId) EntityKind() byte { return e[3] }

func entityId(v uint32) EntityId {
	return EntityId{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func (e EntityId) Uint32() uint32 {
	return uint32(e[0])<<24 | uint32(e[1])<<16 | uint32(e[2])<<8 | uint32(e[3])
}

// Well-known built-in entity ids (spec.md §6).
var (
	EntityIdUnknown                        = EntityId{0, 0, 0, 0}
	EntityIdSPDPBuiltinParticipantWriter    = entityId(0x000001c1)
	EntityIdSPDPBuiltinParticipantReader    = entityId(0x000001c2)
	EntityIdSEDPBuiltinPublicationsWriter   = entityId(0x000003c2)
	EntityIdSEDPBuiltinPublicationsReader   = entityId(0x000003c7)
	EntityIdSEDPBuiltinSubscriptionsWriter  = entityId(0x000004c2)
	EntityIdSEDPBuiltinSubscriptionsReader  = entityId(0x000004c7)
	EntityIdSEDPBuiltinTopicsWriter         = entityId(0x000002c2)
	EntityIdSEDPBuiltinTopicsReader         = entityId(0x000002c7)

	// EntityIdParticipant is the entity id of the participant itself,
	// used as the "entity" half of the participant's own GUID.
	EntityIdParticipant = entityId(0x000001c1)
)

// Entity kind bytes used when minting user entity ids.
const (
	EntityKindWriterWithKey    byte = 0x02
	EntityKindWriterNoKey      byte = 0x03
	EntityKindReaderNoKey      byte = 0x04
	EntityKindReaderWithKey    byte = 0x07
	EntityKindWriterGroup      byte = 0x08
	EntityKindReaderGroup      byte = 0x09
)

// NewEntityId builds an entity id from a 3-byte key and a kind byte.
func NewEntityId(key [3]byte, kind byte) EntityId {
	return EntityId{key[0], key[1], key[2], kind}
}

// Guid is the 16-byte globally unique endpoint identifier.
type Guid struct {
	Prefix GuidPrefix
	Entity EntityId
}

func (g Guid) String() string { return g.Prefix.String() + ":" + g.Entity.String() }

func (g Guid) Bytes() [16]byte {
	var out [16]byte
	copy(out[:12], g.Prefix[:])
	copy(out[12:], g.Entity[:])
	return out
}

// InstanceHandle is a process-local identifier for an entity or a keyed
// sample's key-hash (spec.md §3).
type InstanceHandle [16]byte

func (h InstanceHandle) String() string { return hex.EncodeToString(h[:]) }

// Less gives InstanceHandle a total order so *_next_instance (spec.md §4.3)
// can compute "the next instance handle strictly greater than previous".
func (h InstanceHandle) Less(other InstanceHandle) bool {
	for i := range h {
		if h[i] != other[i] {
			return h[i] < other[i]
		}
	}
	return false
}

// InstanceHandleFromGuid derives the instance handle DDS assigns to an
// entity itself (as opposed to a keyed sample) from its GUID.
func InstanceHandleFromGuid(g Guid) InstanceHandle {
	return InstanceHandle(g.Bytes())
}

// SequenceNumber is a 64-bit signed, strictly increasing per-writer counter
// starting from 1 (spec.md §3).
type SequenceNumber int64

// SequenceNumberUnknown is the RTPS sentinel for "no sequence number".
const SequenceNumberUnknown SequenceNumber = -1

// ProtocolVersion is the 2-byte (major, minor) RTPS protocol version.
type ProtocolVersion struct {
	Major byte
	Minor byte
}

func (v ProtocolVersion) String() string { return fmt.Sprintf("%d.%d", v.Major, v.Minor) }

// ProtocolVersion2_4 is the version this codec emits.
var ProtocolVersion2_4 = ProtocolVersion{Major: 2, Minor: 4}

// VendorId is the 2-byte OMG-assigned vendor identifier.
type VendorId [2]byte

// VendorIdUnknown is used when a vendor id is not meaningful to assert.
var VendorIdUnknown = VendorId{0, 0}

// VendorIdThisImplementation is an unregistered vendor id this module uses
// for messages it originates.
var VendorIdThisImplementation = VendorId{0x01, 0x21}

// Count is a monotonically increasing counter carried by several
// submessages (ACKNACK, HEARTBEAT) to disambiguate retransmissions.
type Count int32

// FragmentNumber identifies one fragment of a DATA_FRAG/NACK_FRAG exchange.
type FragmentNumber uint32

// Time is the RTPS wire timestamp: whole seconds plus a fractional-second
// field expressed in 2^-32 units, matching the original's {seconds,
// fraction} struct.
type Time struct {
	Seconds  uint32
	Fraction uint32
}

// TimeInvalid marks "no timestamp" on the wire.
var TimeInvalid = Time{Seconds: 0xffffffff, Fraction: 0xffffffff}

// LocatorKind distinguishes the transport family a Locator addresses.
type LocatorKind int32

const (
	LocatorKindInvalid  LocatorKind = -1
	LocatorKindReserved LocatorKind = 0
	LocatorKindUDPv4    LocatorKind = 1
	LocatorKindUDPv6    LocatorKind = 2
)

// Locator is a transport address: kind, port, and a 16-byte address field
// (an IPv4 address occupies the last 4 bytes, per spec.md §6).
type Locator struct {
	Kind    LocatorKind
	Port    uint32
	Address [16]byte
}

// LocatorInvalid is the RTPS "no locator" sentinel.
var LocatorInvalid = Locator{Kind: LocatorKindInvalid}

func (l Locator) String() string {
	if l.Kind == LocatorKindUDPv4 {
		return fmt.Sprintf("%d.%d.%d.%d:%d", l.Address[12], l.Address[13], l.Address[14], l.Address[15], l.Port)
	}
	return fmt.Sprintf("locator{kind=%d port=%d}", l.Kind, l.Port)
}

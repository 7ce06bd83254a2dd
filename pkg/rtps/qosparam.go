package rtps

import "encoding/binary"

// ParameterId identifies an inline-QoS parameter (spec.md §4.1's inline-QoS
// list, original_source's parser/mod.rs InlineQosPid enum).
type ParameterId uint16

const (
	ParameterIdPadString                ParameterId = 0x0000
	ParameterIdSentinel                 ParameterId = 0x0001
	ParameterIdDurability                ParameterId = 0x001d
	ParameterIdDeadline                  ParameterId = 0x0023
	ParameterIdLatencyBudget             ParameterId = 0x0027
	ParameterIdLiveliness                ParameterId = 0x001b
	ParameterIdReliability               ParameterId = 0x001a
	ParameterIdLifespan                  ParameterId = 0x002b
	ParameterIdOwnership                 ParameterId = 0x001f
	ParameterIdOwnershipStrength         ParameterId = 0x0006
	ParameterIdDestinationOrder          ParameterId = 0x0025
	ParameterIdPresentation              ParameterId = 0x0021
	ParameterIdPartition                 ParameterId = 0x0029
	ParameterIdTimeBasedFilter           ParameterId = 0x0004
	ParameterIdTopicName                 ParameterId = 0x0005
	ParameterIdTypeName                  ParameterId = 0x0007
	ParameterIdKeyHash                   ParameterId = 0x0070
	ParameterIdStatusInfo                ParameterId = 0x0071
	ParameterIdUnicastLocator            ParameterId = 0x002f
	ParameterIdMulticastLocator          ParameterId = 0x0030
	ParameterIdParticipantGuid           ParameterId = 0x0050
	ParameterIdGroupGuid                 ParameterId = 0x0052
	ParameterIdBuiltinEndpointSet        ParameterId = 0x0058
	ParameterIdBuiltinEndpointQos        ParameterId = 0x0077
	ParameterIdDomainId                  ParameterId = 0x000f
	ParameterIdDomainTag                 ParameterId = 0x4014
)

// StatusInfo is the 4-byte flag word carried by the StatusInfo inline-QoS
// parameter, signalling disposal/unregistration on a DATA submessage.
type StatusInfo [4]byte

const (
	statusInfoDisposedFlag      = 0x01
	statusInfoUnregisteredFlag  = 0x02
)

func (s StatusInfo) Disposed() bool     { return s[3]&statusInfoDisposedFlag != 0 }
func (s StatusInfo) Unregistered() bool { return s[3]&statusInfoUnregisteredFlag != 0 }

// Parameter is one raw (pid, value) entry of an inline-QoS parameter list.
// Only KeyHash and StatusInfo are given dedicated accessors elsewhere; every
// other recognised or unrecognised pid is preserved here unexamined, mirroring
// original_source's parse_inline_qos_parameter_list which only special-cases
// those two ids and otherwise skips the value.
type Parameter struct {
	Id    ParameterId
	Value []byte
}

// ParameterList is an ordered sequence of inline-QoS parameters terminated
// on the wire by the Sentinel pid.
type ParameterList struct {
	Parameters []Parameter
	KeyHash    *InstanceHandle
	Status     *StatusInfo
}

const minimumParameterValueLength = 4

// decodeParameterList reads a sentinel-terminated parameter list from
// buf[0:], returning the list and the number of bytes consumed (including
// the sentinel entry), per original_source's parse_inline_qos_parameter_list.
func decodeParameterList(buf []byte, order binary.ByteOrder) (ParameterList, int, error) {
	var list ParameterList
	pos := 0
	for {
		if len(buf)-pos < 4 {
			return ParameterList{}, 0, errf(ReasonInvalidSubmessage, "parameter list truncated before sentinel")
		}
		pid := ParameterId(order.Uint16(buf[pos : pos+2]))
		length := int(order.Uint16(buf[pos+2 : pos+4]))
		if pid == ParameterIdSentinel {
			pos += 4
			return list, pos, nil
		}
		if length < minimumParameterValueLength {
			return ParameterList{}, 0, errf(ReasonInvalidSubmessage, "parameter 0x%04x: length %d below minimum %d", pid, length, minimumParameterValueLength)
		}
		valueStart := pos + 4
		valueEnd := valueStart + length
		if valueEnd > len(buf) {
			return ParameterList{}, 0, errf(ReasonInvalidSubmessage, "parameter 0x%04x: value runs past end of submessage", pid)
		}
		value := buf[valueStart:valueEnd]
		switch pid {
		case ParameterIdKeyHash:
			if len(value) >= 16 {
				var h InstanceHandle
				copy(h[:], value[:16])
				list.KeyHash = &h
			}
		case ParameterIdStatusInfo:
			if len(value) >= 4 {
				var s StatusInfo
				copy(s[:], value[:4])
				list.Status = &s
			}
		}
		list.Parameters = append(list.Parameters, Parameter{Id: pid, Value: value})
		pos = valueEnd
	}
}

// encode appends the wire form of l (including the terminating sentinel) in
// big-endian order to buf.
func (l ParameterList) encode(buf []byte) []byte {
	for _, p := range l.Parameters {
		var hdr [4]byte
		binary.BigEndian.PutUint16(hdr[0:2], uint16(p.Id))
		binary.BigEndian.PutUint16(hdr[2:4], uint16(len(p.Value)))
		buf = append(buf, hdr[:]...)
		buf = append(buf, p.Value...)
	}
	var sentinel [4]byte
	binary.BigEndian.PutUint16(sentinel[0:2], uint16(ParameterIdSentinel))
	return append(buf, sentinel[:]...)
}

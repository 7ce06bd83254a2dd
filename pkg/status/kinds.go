package status

// Kind is a bitmask identifying one communication-status, matching the
// standard DDS StatusKind bit assignments so a listener's subscribed mask
// can be tested with a single bitwise AND.
type Kind uint32

const (
	InconsistentTopic        Kind = 1 << 0
	OfferedDeadlineMissed    Kind = 1 << 1
	RequestedDeadlineMissed  Kind = 1 << 2
	OfferedIncompatibleQos   Kind = 1 << 5
	RequestedIncompatibleQos Kind = 1 << 6
	SampleLost               Kind = 1 << 7
	SampleRejected           Kind = 1 << 8
	LivelinessChanged        Kind = 1 << 12
	LivelinessLost           Kind = 1 << 11
	PublicationMatched       Kind = 1 << 13
	SubscriptionMatched      Kind = 1 << 14
)

// String names the status kind for logging.
func (k Kind) String() string {
	switch k {
	case InconsistentTopic:
		return "inconsistent_topic"
	case OfferedDeadlineMissed:
		return "offered_deadline_missed"
	case RequestedDeadlineMissed:
		return "requested_deadline_missed"
	case OfferedIncompatibleQos:
		return "offered_incompatible_qos"
	case RequestedIncompatibleQos:
		return "requested_incompatible_qos"
	case SampleLost:
		return "sample_lost"
	case SampleRejected:
		return "sample_rejected"
	case LivelinessChanged:
		return "liveliness_changed"
	case LivelinessLost:
		return "liveliness_lost"
	case PublicationMatched:
		return "publication_matched"
	case SubscriptionMatched:
		return "subscription_matched"
	default:
		return "unknown_status"
	}
}

// Mask ORs a set of status kinds into the bitmask a listener subscribes
// with. AllStatuses subscribes to every kind this package defines.
func Mask(kinds ...Kind) Kind {
	var m Kind
	for _, k := range kinds {
		m |= k
	}
	return m
}

const AllStatuses Kind = InconsistentTopic | OfferedDeadlineMissed | RequestedDeadlineMissed |
	OfferedIncompatibleQos | RequestedIncompatibleQos | SampleLost | SampleRejected |
	LivelinessChanged | LivelinessLost | PublicationMatched | SubscriptionMatched

// Subscribed reports whether mask includes kind.
func (mask Kind) Subscribed(kind Kind) bool { return mask&kind != 0 }

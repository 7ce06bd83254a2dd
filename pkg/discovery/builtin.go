package discovery

import (
	"time"

	"github.com/lattice-dds/rtps/pkg/qos"
	"github.com/lattice-dds/rtps/pkg/rtps"
)

// BuiltinEndpoint is a bit in the AvailableBuiltinEndpoints mask a
// ParticipantProxy advertises, naming which of the four built-in
// announcer/detector pairs the remote participant runs (spec.md §4.5).
type BuiltinEndpoint uint32

const (
	BuiltinEndpointParticipantAnnouncer BuiltinEndpoint = 1 << 0
	BuiltinEndpointParticipantDetector  BuiltinEndpoint = 1 << 1
	BuiltinEndpointPublicationsAnnouncer BuiltinEndpoint = 1 << 2
	BuiltinEndpointPublicationsDetector  BuiltinEndpoint = 1 << 3
	BuiltinEndpointSubscriptionsAnnouncer BuiltinEndpoint = 1 << 4
	BuiltinEndpointSubscriptionsDetector  BuiltinEndpoint = 1 << 5
	BuiltinEndpointTopicsAnnouncer        BuiltinEndpoint = 1 << 6
	BuiltinEndpointTopicsDetector         BuiltinEndpoint = 1 << 7
)

// Has reports whether mask advertises endpoint.
func (e BuiltinEndpoint) Has(mask uint32) bool { return mask&uint32(e) != 0 }

// ParticipantBuiltinTopicData is the key/identity half of an SPDP
// announcement (spec.md §3's discovered_participants entries).
type ParticipantBuiltinTopicData struct {
	Key        rtps.InstanceHandle
	GuidPrefix rtps.GuidPrefix
	UserData   []byte
}

// ParticipantProxy is the connectivity/capability half of an SPDP
// announcement: protocol version, vendor id, locators, and the built-in
// endpoint bitmask (spec.md §4.5).
type ParticipantProxy struct {
	ProtocolVersion rtps.ProtocolVersion
	VendorId        rtps.VendorId
	GuidPrefix      rtps.GuidPrefix

	// DomainId is nil when the remote did not advertise one; absent
	// domain-id is treated as matching any local domain (spec.md §9,
	// DESIGN.md Open Question decision).
	DomainId    *uint32
	DomainTag   string

	AvailableBuiltinEndpoints uint32

	MetatrafficUnicastLocators   []rtps.Locator
	MetatrafficMulticastLocators []rtps.Locator
	DefaultUnicastLocators       []rtps.Locator
	DefaultMulticastLocators     []rtps.Locator

	LeaseDuration time.Duration
}

// domainMatches implements spec.md §9's "absent remote domain_id treated
// as matching any local domain" decision.
func domainMatches(local uint32, remote *uint32) bool {
	return remote == nil || *remote == local
}

// ContentFilterProperty is a structural placeholder for a content-filtered
// topic's filter expression. spec.md's Non-goal (c) leaves filter-
// expression evaluation semantics to a collaborator; this package only
// carries the data through discovery without interpreting it.
type ContentFilterProperty struct {
	FilterClassName   string
	FilterExpression  string
	ExpressionParameters []string
}

// PublicationBuiltinTopicData is a SEDP DiscoveredWriterData entry.
type PublicationBuiltinTopicData struct {
	Key            rtps.InstanceHandle
	ParticipantKey rtps.InstanceHandle
	Guid           rtps.Guid
	Topic          string
	TypeName       string
	Policies       qos.Policies

	UnicastLocators   []rtps.Locator
	MulticastLocators []rtps.Locator
}

// SubscriptionBuiltinTopicData is a SEDP DiscoveredReaderData entry.
type SubscriptionBuiltinTopicData struct {
	Key            rtps.InstanceHandle
	ParticipantKey rtps.InstanceHandle
	Guid           rtps.Guid
	Topic          string
	TypeName       string
	Policies       qos.Policies

	UnicastLocators   []rtps.Locator
	MulticastLocators []rtps.Locator

	ContentFilter *ContentFilterProperty
}

// TopicBuiltinTopicData is a SEDP DiscoveredTopicData entry, used both to
// populate discovered_topic_list (for find_topic) and to drive the topic
// consistency check (spec.md §4.5).
type TopicBuiltinTopicData struct {
	Key      rtps.InstanceHandle
	Name     string
	TypeName string
	Policies qos.Policies
}

// WriterProxy is the remote-writer view a local reader holds once matched
// (spec.md §3).
type WriterProxy struct {
	Guid              rtps.Guid
	UnicastLocators   []rtps.Locator
	MulticastLocators []rtps.Locator
	ReliabilityKind   qos.ReliabilityKind
	DurabilityKind    qos.DurabilityKind
}

// ReaderProxy is the remote-reader view a local writer holds once matched
// (spec.md §3).
type ReaderProxy struct {
	Guid              rtps.Guid
	UnicastLocators   []rtps.Locator
	MulticastLocators []rtps.Locator
	ReliabilityKind   qos.ReliabilityKind
	DurabilityKind    qos.DurabilityKind
}

// withParticipantDefaults fills empty locator lists from the participant's
// default locators (spec.md §3: "inherited from participant defaults if
// empty").
func withParticipantDefaults(unicast, multicast, defaultUnicast, defaultMulticast []rtps.Locator) ([]rtps.Locator, []rtps.Locator) {
	if len(unicast) == 0 {
		unicast = defaultUnicast
	}
	if len(multicast) == 0 {
		multicast = defaultMulticast
	}
	return unicast, multicast
}

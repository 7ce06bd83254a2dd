package qos

import "time"

// PolicyId identifies one QoS policy, used to report which policy made a
// writer/reader pair incompatible (spec.md §4.4's
// "last_triggering policy id").
type PolicyId int32

const (
	PolicyIdUserData             PolicyId = 1
	PolicyIdDurability           PolicyId = 2
	PolicyIdPresentation         PolicyId = 3
	PolicyIdDeadline             PolicyId = 4
	PolicyIdLatencyBudget        PolicyId = 5
	PolicyIdOwnership            PolicyId = 6
	PolicyIdOwnershipStrength    PolicyId = 7
	PolicyIdLiveliness           PolicyId = 8
	PolicyIdTimeBasedFilter      PolicyId = 9
	PolicyIdPartition            PolicyId = 10
	PolicyIdReliability          PolicyId = 11
	PolicyIdDestinationOrder     PolicyId = 12
	PolicyIdHistory              PolicyId = 13
	PolicyIdResourceLimits       PolicyId = 14
	PolicyIdTransportPriority    PolicyId = 20
	PolicyIdLifespan             PolicyId = 21
	PolicyIdDataRepresentation   PolicyId = 23
)

// DurabilityKind orders from weakest to strongest: a writer offering a
// weaker durability than a reader requests is incompatible (spec.md §4.4).
type DurabilityKind int

const (
	Volatile DurabilityKind = iota
	TransientLocal
	Transient
	Persistent
)

type Durability struct {
	Kind DurabilityKind
}

// AccessScopeKind orders instance < topic < group for PRESENTATION's
// access-scope comparison.
type AccessScopeKind int

const (
	InstanceScope AccessScopeKind = iota
	TopicScope
	GroupScope
)

type Presentation struct {
	AccessScope    AccessScopeKind
	CoherentAccess bool
	OrderedAccess  bool
}

type Deadline struct {
	Period time.Duration
}

type LatencyBudget struct {
	Duration time.Duration
}

// LivelinessKind orders automatic < manual-by-participant < manual-by-topic,
// the loosest-to-strictest ordering the compatibility check expects.
type LivelinessKind int

const (
	Automatic LivelinessKind = iota
	ManualByParticipant
	ManualByTopic
)

type Liveliness struct {
	Kind          LivelinessKind
	LeaseDuration time.Duration
}

// ReliabilityKind orders BestEffort < Reliable (spec.md §4.4).
type ReliabilityKind int

const (
	BestEffort ReliabilityKind = iota
	Reliable
)

type Reliability struct {
	Kind             ReliabilityKind
	MaxBlockingTime  time.Duration
}

// DestinationOrderKind orders by-reception < by-source-timestamp.
type DestinationOrderKind int

const (
	ByReceptionTimestamp DestinationOrderKind = iota
	BySourceTimestamp
)

type DestinationOrder struct {
	Kind DestinationOrderKind
}

type OwnershipKind int

const (
	Shared OwnershipKind = iota
	Exclusive
)

type Ownership struct {
	Kind OwnershipKind
}

type OwnershipStrength struct {
	Value int32
}

// DataRepresentationId mirrors the wire-level XCDR representation codes.
type DataRepresentationId int16

const (
	XCDR  DataRepresentationId = 0
	XML   DataRepresentationId = 1
	XCDR2 DataRepresentationId = 2
)

// DataRepresentation carries the offered (writer) or accepted (reader) set
// of representations; an empty reader set is treated as XCDR-only
// (spec.md §4.4).
type DataRepresentation struct {
	Value []DataRepresentationId
}

func (d DataRepresentation) effective() []DataRepresentationId {
	if len(d.Value) == 0 {
		return []DataRepresentationId{XCDR}
	}
	return d.Value
}

// HistoryKind selects whether a cache retains the last Depth samples per
// instance or an unbounded history up to RESOURCE_LIMITS (spec.md §4.3).
type HistoryKind int

const (
	KeepLast HistoryKind = iota
	KeepAll
)

type History struct {
	Kind  HistoryKind
	Depth int32
}

type ResourceLimits struct {
	MaxSamples             int32
	MaxInstances           int32
	MaxSamplesPerInstance  int32
}

// Unlimited is the RESOURCE_LIMITS sentinel meaning "no bound".
const Unlimited int32 = -1

type Lifespan struct {
	Duration time.Duration
}

type Partition struct {
	Names []string
}

type TimeBasedFilter struct {
	MinimumSeparation time.Duration
}

// Policies bundles every QoS policy an entity carries. DataWriter and
// DataReader both use the full set; the matching/compatibility code reads
// only the policies relevant to its own role.
type Policies struct {
	Durability         Durability
	Presentation       Presentation
	Deadline           Deadline
	LatencyBudget      LatencyBudget
	Liveliness         Liveliness
	Reliability        Reliability
	DestinationOrder   DestinationOrder
	Ownership          Ownership
	OwnershipStrength  OwnershipStrength
	DataRepresentation DataRepresentation
	History            History
	ResourceLimits     ResourceLimits
	Lifespan           Lifespan
	Partition          Partition
	TimeBasedFilter    TimeBasedFilter
}

// Default returns the QoS a newly created entity has before any QoS is set
// explicitly: Volatile durability, instance-scope non-coherent/non-ordered
// presentation, infinite deadline/lifespan, zero latency budget, automatic
// liveliness, best-effort reliability, by-reception ordering, shared
// ownership, KeepLast(1) history, unlimited resource limits, no partitions.
func Default() Policies {
	const infinite = time.Duration(1<<63 - 1)
	return Policies{
		Durability:    Durability{Kind: Volatile},
		Presentation:  Presentation{AccessScope: InstanceScope},
		Deadline:      Deadline{Period: infinite},
		LatencyBudget: LatencyBudget{Duration: 0},
		Liveliness:    Liveliness{Kind: Automatic, LeaseDuration: infinite},
		Reliability:   Reliability{Kind: BestEffort, MaxBlockingTime: 100 * time.Millisecond},
		History:       History{Kind: KeepLast, Depth: 1},
		ResourceLimits: ResourceLimits{
			MaxSamples:            Unlimited,
			MaxInstances:          Unlimited,
			MaxSamplesPerInstance: Unlimited,
		},
		Lifespan: Lifespan{Duration: infinite},
	}
}

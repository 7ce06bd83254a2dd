package status

import (
	"github.com/lattice-dds/rtps/pkg/qos"
	"github.com/lattice-dds/rtps/pkg/rtps"
)

// RejectedReason names why add_reader_change rejected a sample on
// resource-limit grounds (spec.md §4.3 step 5).
type RejectedReason int

const (
	RejectedBySamplesLimit RejectedReason = iota
	RejectedByInstancesLimit
	RejectedBySamplesPerInstanceLimit
)

// InconsistentTopicStatus tracks topic_data/QoS mismatches discovered
// between local and remote topics of the same name (spec.md §4.5).
type InconsistentTopicStatus struct {
	TotalCount       int32
	TotalCountChange int32
}

// OfferedDeadlineMissedStatus tracks a writer's DEADLINE misses
// (spec.md §4.2).
type OfferedDeadlineMissedStatus struct {
	TotalCount           int32
	TotalCountChange      int32
	LastInstanceHandle    rtps.InstanceHandle
}

// RequestedDeadlineMissedStatus tracks a reader's DEADLINE misses.
type RequestedDeadlineMissedStatus struct {
	TotalCount         int32
	TotalCountChange   int32
	LastInstanceHandle rtps.InstanceHandle
}

// OfferedIncompatibleQosStatus is a writer's per-policy incompatibility
// histogram (spec.md §4.2's "incompatible_subscription_list +
// offered_incompatible_qos_status").
type OfferedIncompatibleQosStatus struct {
	TotalCount       int32
	TotalCountChange int32
	LastPolicyId     qos.PolicyId
	Policies         map[qos.PolicyId]int32
}

// RequestedIncompatibleQosStatus mirrors OfferedIncompatibleQosStatus for
// a reader.
type RequestedIncompatibleQosStatus struct {
	TotalCount       int32
	TotalCountChange int32
	LastPolicyId     qos.PolicyId
	Policies         map[qos.PolicyId]int32
}

// SampleLostStatus tracks samples that never reached a reader's cache at
// all (a transport-level gap, not a resource-limit rejection).
type SampleLostStatus struct {
	TotalCount       int32
	TotalCountChange int32
}

// SampleRejectedStatus tracks add_reader_change resource-limit rejections
// (spec.md §4.3 step 5).
type SampleRejectedStatus struct {
	TotalCount         int32
	TotalCountChange   int32
	LastReason         RejectedReason
	LastInstanceHandle rtps.InstanceHandle
}

// LivelinessLostStatus tracks a writer failing to assert liveliness within
// its LIVELINESS.lease_duration.
type LivelinessLostStatus struct {
	TotalCount       int32
	TotalCountChange int32
}

// LivelinessChangedStatus tracks a reader's view of matched writers
// transitioning alive/not-alive.
type LivelinessChangedStatus struct {
	AliveCount             int32
	NotAliveCount          int32
	AliveCountChange       int32
	NotAliveCountChange    int32
	LastPublicationHandle  rtps.InstanceHandle
}

// PublicationMatchedStatus is a writer's match bookkeeping (spec.md
// §4.2's "publication_matched_status": current/total counts, both with
// change counters reset to 0 on read).
type PublicationMatchedStatus struct {
	TotalCount              int32
	TotalCountChange        int32
	CurrentCount            int32
	CurrentCountChange      int32
	LastSubscriptionHandle  rtps.InstanceHandle
}

// SubscriptionMatchedStatus mirrors PublicationMatchedStatus for a
// reader.
type SubscriptionMatchedStatus struct {
	TotalCount            int32
	TotalCountChange      int32
	CurrentCount          int32
	CurrentCountChange    int32
	LastPublicationHandle rtps.InstanceHandle
}

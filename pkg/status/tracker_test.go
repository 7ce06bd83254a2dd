package status

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lattice-dds/rtps/pkg/qos"
	"github.com/lattice-dds/rtps/pkg/rtps"
)

func TestPublicationMatchedCountsAndChangeReset(t *testing.T) {
	tr := NewTracker()
	var handle rtps.InstanceHandle
	handle[0] = 7

	tr.BumpPublicationMatched(1, handle)
	s := tr.ReadPublicationMatched()
	assert.EqualValues(t, 1, s.TotalCount)
	assert.EqualValues(t, 1, s.TotalCountChange)
	assert.EqualValues(t, 1, s.CurrentCount)
	assert.EqualValues(t, 1, s.CurrentCountChange)

	// Change counters reset to 0 on read; totals persist.
	s2 := tr.ReadPublicationMatched()
	assert.EqualValues(t, 1, s2.TotalCount)
	assert.EqualValues(t, 0, s2.TotalCountChange)
	assert.EqualValues(t, 1, s2.CurrentCount)
	assert.EqualValues(t, 0, s2.CurrentCountChange)

	tr.BumpPublicationMatched(-1, handle)
	s3 := tr.ReadPublicationMatched()
	assert.EqualValues(t, 1, s3.TotalCount, "total count never decreases on unmatch")
	assert.EqualValues(t, 0, s3.CurrentCount)
	assert.EqualValues(t, -1, s3.CurrentCountChange)
}

func TestOfferedIncompatibleQosHistogram(t *testing.T) {
	tr := NewTracker()
	tr.BumpOfferedIncompatibleQos(qos.PolicyIdReliability)
	tr.BumpOfferedIncompatibleQos(qos.PolicyIdReliability)
	tr.BumpOfferedIncompatibleQos(qos.PolicyIdDurability)

	s := tr.ReadOfferedIncompatibleQos()
	assert.EqualValues(t, 3, s.TotalCount)
	assert.Equal(t, qos.PolicyIdDurability, s.LastPolicyId)
	assert.EqualValues(t, 2, s.Policies[qos.PolicyIdReliability])
	assert.EqualValues(t, 1, s.Policies[qos.PolicyIdDurability])

	s2 := tr.ReadOfferedIncompatibleQos()
	assert.EqualValues(t, 0, s2.TotalCountChange)
}

func TestSampleRejectedRecordsReasonAndHandle(t *testing.T) {
	tr := NewTracker()
	var handle rtps.InstanceHandle
	handle[0] = 9
	tr.BumpSampleRejected(RejectedByInstancesLimit, handle)

	s := tr.ReadSampleRejected()
	assert.EqualValues(t, 1, s.TotalCount)
	assert.Equal(t, RejectedByInstancesLimit, s.LastReason)
	assert.Equal(t, handle, s.LastInstanceHandle)
}

type maskListener struct {
	mask     Kind
	received []Event
}

func (m *maskListener) Mask() Kind { return m.mask }
func (m *maskListener) OnStatusChanged(ev Event) {
	m.received = append(m.received, ev)
}

func TestChainDeliversToInnermostSubscribedListener(t *testing.T) {
	entity := &maskListener{mask: OfferedDeadlineMissed}
	group := &maskListener{mask: AllStatuses}
	participant := &maskListener{mask: AllStatuses}
	chain := Chain{Entity: entity, Group: group, Participant: participant}

	ev := Event{Kind: PublicationMatched}
	chain.Deliver(ev)

	assert.Empty(t, entity.received, "entity listener isn't subscribed to this kind")
	assert.Len(t, group.received, 1)
	assert.Empty(t, participant.received, "group already fired, participant must not")
}

func TestChainDeliversToNobodyWhenNoneSubscribed(t *testing.T) {
	entity := &maskListener{mask: OfferedDeadlineMissed}
	chain := Chain{Entity: entity}
	chain.Deliver(Event{Kind: SampleLost})
	assert.Empty(t, entity.received)
}

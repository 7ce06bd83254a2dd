package status

import (
	"sync"

	"github.com/lattice-dds/rtps/pkg/qos"
	"github.com/lattice-dds/rtps/pkg/rtps"
)

// Tracker accumulates one entity's communication-status values. Every
// Bump* call mutates the running totals and the *Change counters in the
// same step; every Read* call returns a copy and zeroes that status's
// change counters, per spec.md §4.2's "change-counts reset to 0 on read".
type Tracker struct {
	mu sync.Mutex

	inconsistentTopic        InconsistentTopicStatus
	offeredDeadlineMissed     OfferedDeadlineMissedStatus
	requestedDeadlineMissed   RequestedDeadlineMissedStatus
	offeredIncompatibleQos    OfferedIncompatibleQosStatus
	requestedIncompatibleQos  RequestedIncompatibleQosStatus
	sampleLost                SampleLostStatus
	sampleRejected             SampleRejectedStatus
	livelinessLost            LivelinessLostStatus
	livelinessChanged         LivelinessChangedStatus
	publicationMatched        PublicationMatchedStatus
	subscriptionMatched       SubscriptionMatchedStatus
}

func NewTracker() *Tracker {
	t := &Tracker{}
	t.offeredIncompatibleQos.Policies = make(map[qos.PolicyId]int32)
	t.requestedIncompatibleQos.Policies = make(map[qos.PolicyId]int32)
	return t
}

func (t *Tracker) BumpInconsistentTopic() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inconsistentTopic.TotalCount++
	t.inconsistentTopic.TotalCountChange++
}

func (t *Tracker) ReadInconsistentTopic() InconsistentTopicStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.inconsistentTopic
	t.inconsistentTopic.TotalCountChange = 0
	return out
}

func (t *Tracker) BumpOfferedDeadlineMissed(handle rtps.InstanceHandle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.offeredDeadlineMissed.TotalCount++
	t.offeredDeadlineMissed.TotalCountChange++
	t.offeredDeadlineMissed.LastInstanceHandle = handle
}

func (t *Tracker) ReadOfferedDeadlineMissed() OfferedDeadlineMissedStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.offeredDeadlineMissed
	t.offeredDeadlineMissed.TotalCountChange = 0
	return out
}

func (t *Tracker) BumpRequestedDeadlineMissed(handle rtps.InstanceHandle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.requestedDeadlineMissed.TotalCount++
	t.requestedDeadlineMissed.TotalCountChange++
	t.requestedDeadlineMissed.LastInstanceHandle = handle
}

func (t *Tracker) ReadRequestedDeadlineMissed() RequestedDeadlineMissedStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.requestedDeadlineMissed
	t.requestedDeadlineMissed.TotalCountChange = 0
	return out
}

func (t *Tracker) BumpOfferedIncompatibleQos(policy qos.PolicyId) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.offeredIncompatibleQos.TotalCount++
	t.offeredIncompatibleQos.TotalCountChange++
	t.offeredIncompatibleQos.LastPolicyId = policy
	t.offeredIncompatibleQos.Policies[policy]++
}

func (t *Tracker) ReadOfferedIncompatibleQos() OfferedIncompatibleQosStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.offeredIncompatibleQos
	out.Policies = cloneCounts(t.offeredIncompatibleQos.Policies)
	t.offeredIncompatibleQos.TotalCountChange = 0
	return out
}

func (t *Tracker) BumpRequestedIncompatibleQos(policy qos.PolicyId) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.requestedIncompatibleQos.TotalCount++
	t.requestedIncompatibleQos.TotalCountChange++
	t.requestedIncompatibleQos.LastPolicyId = policy
	t.requestedIncompatibleQos.Policies[policy]++
}

func (t *Tracker) ReadRequestedIncompatibleQos() RequestedIncompatibleQosStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.requestedIncompatibleQos
	out.Policies = cloneCounts(t.requestedIncompatibleQos.Policies)
	t.requestedIncompatibleQos.TotalCountChange = 0
	return out
}

func (t *Tracker) BumpSampleLost() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sampleLost.TotalCount++
	t.sampleLost.TotalCountChange++
}

func (t *Tracker) ReadSampleLost() SampleLostStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.sampleLost
	t.sampleLost.TotalCountChange = 0
	return out
}

func (t *Tracker) BumpSampleRejected(reason RejectedReason, handle rtps.InstanceHandle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sampleRejected.TotalCount++
	t.sampleRejected.TotalCountChange++
	t.sampleRejected.LastReason = reason
	t.sampleRejected.LastInstanceHandle = handle
}

func (t *Tracker) ReadSampleRejected() SampleRejectedStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.sampleRejected
	t.sampleRejected.TotalCountChange = 0
	return out
}

func (t *Tracker) BumpLivelinessLost() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.livelinessLost.TotalCount++
	t.livelinessLost.TotalCountChange++
}

func (t *Tracker) ReadLivelinessLost() LivelinessLostStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.livelinessLost
	t.livelinessLost.TotalCountChange = 0
	return out
}

func (t *Tracker) BumpLivelinessChanged(aliveDelta, notAliveDelta int32, handle rtps.InstanceHandle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.livelinessChanged.AliveCount += aliveDelta
	t.livelinessChanged.NotAliveCount += notAliveDelta
	t.livelinessChanged.AliveCountChange += aliveDelta
	t.livelinessChanged.NotAliveCountChange += notAliveDelta
	t.livelinessChanged.LastPublicationHandle = handle
}

func (t *Tracker) ReadLivelinessChanged() LivelinessChangedStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.livelinessChanged
	t.livelinessChanged.AliveCountChange = 0
	t.livelinessChanged.NotAliveCountChange = 0
	return out
}

func (t *Tracker) BumpPublicationMatched(delta int32, readerHandle rtps.InstanceHandle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if delta > 0 {
		t.publicationMatched.TotalCount += delta
		t.publicationMatched.TotalCountChange += delta
	}
	t.publicationMatched.CurrentCount += delta
	t.publicationMatched.CurrentCountChange += delta
	t.publicationMatched.LastSubscriptionHandle = readerHandle
}

func (t *Tracker) ReadPublicationMatched() PublicationMatchedStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.publicationMatched
	t.publicationMatched.TotalCountChange = 0
	t.publicationMatched.CurrentCountChange = 0
	return out
}

func (t *Tracker) BumpSubscriptionMatched(delta int32, writerHandle rtps.InstanceHandle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if delta > 0 {
		t.subscriptionMatched.TotalCount += delta
		t.subscriptionMatched.TotalCountChange += delta
	}
	t.subscriptionMatched.CurrentCount += delta
	t.subscriptionMatched.CurrentCountChange += delta
	t.subscriptionMatched.LastPublicationHandle = writerHandle
}

func (t *Tracker) ReadSubscriptionMatched() SubscriptionMatchedStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.subscriptionMatched
	t.subscriptionMatched.TotalCountChange = 0
	t.subscriptionMatched.CurrentCountChange = 0
	return out
}

func cloneCounts(in map[qos.PolicyId]int32) map[qos.PolicyId]int32 {
	out := make(map[qos.PolicyId]int32, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

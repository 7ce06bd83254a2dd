package cache

import (
	"time"

	"github.com/lattice-dds/rtps/pkg/ddserror"
	"github.com/lattice-dds/rtps/pkg/metrics"
	"github.com/lattice-dds/rtps/pkg/qos"
	"github.com/lattice-dds/rtps/pkg/rtps"
	"github.com/lattice-dds/rtps/pkg/status"
)

// AddResult is the outcome add_reader_change reports (spec.md §4.3).
type AddResult int

const (
	Added AddResult = iota
	NotAdded
	Rejected
)

type AddOutcome struct {
	Result         AddResult
	Handle         rtps.InstanceHandle
	RejectedReason status.RejectedReason
}

// Reader is a reader history cache: it accepts inbound changes,
// maintains per-instance state, and answers read/take/*_next_instance
// queries (spec.md §4.3).
type Reader struct {
	Guid     rtps.Guid
	Policies qos.Policies

	instances map[rtps.InstanceHandle]*instanceEntry
	tracker   *status.Tracker
}

func NewReader(guid rtps.Guid, policies qos.Policies, tracker *status.Tracker) *Reader {
	return &Reader{
		Guid:      guid,
		Policies:  policies,
		instances: make(map[rtps.InstanceHandle]*instanceEntry),
		tracker:   tracker,
	}
}

// WriterOwnership carries the OWNERSHIP_STRENGTH a CacheChange's writer
// offers; callers at the discovery/matching layer supply it since the
// strength lives on the remote writer's QoS, not on the change itself.
type WriterOwnership struct {
	Strength int32
}

// AddChange runs the add_reader_change algorithm of spec.md §4.3 steps
// 1-9.
func (r *Reader) AddChange(change ChangeRecord, reception time.Time, writer WriterOwnership) AddOutcome {
	inst, exists := r.instances[change.InstanceHandle]
	if !exists {
		inst = &instanceEntry{handle: change.InstanceHandle}
		r.instances[change.InstanceHandle] = inst
	}

	// Step 2: instance-state transition per the transition rules in §3.
	inst.applyChangeKind(change.Kind)

	// Step 3: OWNERSHIP = Exclusive arbitration.
	if r.Policies.Ownership.Kind == qos.Exclusive {
		if inst.hasOwner && writer.Strength <= inst.ownerStrength && change.WriterGuid != inst.ownerGuid {
			return AddOutcome{Result: NotAdded, Handle: change.InstanceHandle}
		}
		if change.Kind.isNotAlive() {
			inst.hasOwner = false
		} else {
			inst.hasOwner = true
			inst.ownerGuid = change.WriterGuid
			inst.ownerStrength = writer.Strength
		}
	}

	// Step 4: TIME_BASED_FILTER. A prior sample with source-timestamp <=
	// inbound exists and the gap is under minimum_separation: drop it.
	if inst.haveLastTimestamp && r.Policies.TimeBasedFilter.MinimumSeparation > 0 &&
		!inst.lastSourceTimestamp.After(change.SourceTimestamp) {
		delta := change.SourceTimestamp.Sub(inst.lastSourceTimestamp)
		if delta < r.Policies.TimeBasedFilter.MinimumSeparation {
			return AddOutcome{Result: NotAdded, Handle: change.InstanceHandle}
		}
	}
	inst.lastSourceTimestamp = change.SourceTimestamp
	inst.haveLastTimestamp = true

	// Step 5: resource-limit gate.
	limits := r.Policies.ResourceLimits
	if limits.MaxInstances != qos.Unlimited && !exists && int32(len(r.instances)) > limits.MaxInstances {
		delete(r.instances, change.InstanceHandle)
		r.tracker.BumpSampleRejected(status.RejectedByInstancesLimit, change.InstanceHandle)
		metrics.CacheChangesRejectedTotal.WithLabelValues(r.Guid.String(), "max_instances").Inc()
		return AddOutcome{Result: Rejected, Handle: change.InstanceHandle, RejectedReason: status.RejectedByInstancesLimit}
	}
	if limits.MaxSamplesPerInstance != qos.Unlimited && int32(len(inst.samples)) >= limits.MaxSamplesPerInstance {
		r.tracker.BumpSampleRejected(status.RejectedBySamplesPerInstanceLimit, change.InstanceHandle)
		metrics.CacheChangesRejectedTotal.WithLabelValues(r.Guid.String(), "max_samples_per_instance").Inc()
		return AddOutcome{Result: Rejected, Handle: change.InstanceHandle, RejectedReason: status.RejectedBySamplesPerInstanceLimit}
	}
	if limits.MaxSamples != qos.Unlimited && int32(r.totalSamples()) >= limits.MaxSamples {
		r.tracker.BumpSampleRejected(status.RejectedBySamplesLimit, change.InstanceHandle)
		metrics.CacheChangesRejectedTotal.WithLabelValues(r.Guid.String(), "max_samples").Inc()
		return AddOutcome{Result: Rejected, Handle: change.InstanceHandle, RejectedReason: status.RejectedBySamplesLimit}
	}

	// Step 6: KeepLast eviction.
	if r.Policies.History.Kind == qos.KeepLast && int32(len(inst.samples)) >= r.Policies.History.Depth {
		evicted := inst.samples[0]
		inst.samples = inst.samples[1:]
		metrics.CacheChangesTotal.WithLabelValues(r.Guid.String(), changeKindLabel(evicted.Change.Kind)).Dec()
	}

	// Step 7: append the sample, generation counters snapshotted now.
	sample := &ReaderSample{
		Change:                   change,
		State:                    NotRead,
		DisposedGenerationCount:  inst.mostRecentDisposedGen,
		NoWritersGenerationCount: inst.mostRecentNoWritersGen,
		ReceptionTimestamp:       reception,
	}
	inst.samples = append(inst.samples, sample)
	metrics.CacheChangesTotal.WithLabelValues(r.Guid.String(), changeKindLabel(change.Kind)).Inc()

	// Step 8: re-sort per DESTINATION_ORDER.
	r.sortInstance(inst)

	return AddOutcome{Result: Added, Handle: change.InstanceHandle}
}

func (r *Reader) totalSamples() int {
	n := 0
	for _, inst := range r.instances {
		n += len(inst.samples)
	}
	return n
}

func (r *Reader) sortInstance(inst *instanceEntry) {
	bySource := r.Policies.DestinationOrder.Kind == qos.BySourceTimestamp
	samples := inst.samples
	for i := 1; i < len(samples); i++ {
		j := i
		for j > 0 && less(samples[j-1], samples[j], bySource) {
			samples[j-1], samples[j] = samples[j], samples[j-1]
			j--
		}
	}
}

func less(a, b *ReaderSample, bySource bool) bool {
	if bySource {
		return a.Change.SourceTimestamp.After(b.Change.SourceTimestamp)
	}
	return a.ReceptionTimestamp.After(b.ReceptionTimestamp)
}

// Filter selects which buffered samples read/take return (spec.md
// §4.3).
type Filter struct {
	MaxSamples       int
	SampleStates     []SampleState
	ViewStates       []ViewState
	InstanceStates   []InstanceState
	SpecificInstance *rtps.InstanceHandle
}

func (f Filter) matchesStates(s *ReaderSample, inst *instanceEntry) bool {
	if !containsSample(f.SampleStates, s.State) {
		return false
	}
	if !containsView(f.ViewStates, inst.viewState) {
		return false
	}
	if !containsInstance(f.InstanceStates, inst.instanceState) {
		return false
	}
	if f.SpecificInstance != nil && *f.SpecificInstance != inst.handle {
		return false
	}
	return true
}

func containsSample(set []SampleState, v SampleState) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsView(set []ViewState, v ViewState) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsInstance(set []InstanceState, v InstanceState) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// SampleInfo is the per-sample metadata read/take attaches (spec.md
// §4.3).
type SampleInfo struct {
	Sample                 ReaderSample
	AbsoluteGenerationRank int32
	GenerationRank         int32
	SampleRank             int32
	ValidData              bool
}

// Read returns matching samples without removing them, marking them Read
// and their instances NotNew. Returns ddserror NoData when nothing
// matches, per spec.md §4.3's explicit "distinct from an empty success
// result" contract.
func (r *Reader) Read(filter Filter) ([]SampleInfo, error) {
	return r.collect(filter, false)
}

// Take behaves like Read but additionally removes matched samples from
// the cache.
func (r *Reader) Take(filter Filter) ([]SampleInfo, error) {
	return r.collect(filter, true)
}

func (r *Reader) collect(filter Filter, remove bool) ([]SampleInfo, error) {
	type matched struct {
		inst   *instanceEntry
		sample *ReaderSample
	}
	var all []matched
	handles := r.orderedHandles()
collect:
	for _, h := range handles {
		inst := r.instances[h]
		for _, s := range inst.samples {
			if filter.matchesStates(s, inst) {
				all = append(all, matched{inst, s})
			}
			if filter.MaxSamples > 0 && len(all) >= filter.MaxSamples {
				break collect
			}
		}
	}
	if len(all) == 0 {
		return nil, ddserror.New(ddserror.NoData)
	}

	// lastAbsRank per instance: the absolute_generation_rank of the last
	// matched sample for that instance, used for generation_rank.
	lastAbsRank := make(map[rtps.InstanceHandle]int32)
	for _, m := range all {
		abs := (m.inst.mostRecentDisposedGen + m.inst.mostRecentNoWritersGen) -
			(m.sample.DisposedGenerationCount + m.sample.NoWritersGenerationCount)
		lastAbsRank[m.inst.handle] = abs
	}
	remainingAfter := make(map[*ReaderSample]int32)
	counts := make(map[rtps.InstanceHandle]int32)
	for i := len(all) - 1; i >= 0; i-- {
		h := all[i].inst.handle
		remainingAfter[all[i].sample] = counts[h]
		counts[h]++
	}

	out := make([]SampleInfo, 0, len(all))
	for _, m := range all {
		abs := (m.inst.mostRecentDisposedGen + m.inst.mostRecentNoWritersGen) -
			(m.sample.DisposedGenerationCount + m.sample.NoWritersGenerationCount)
		out = append(out, SampleInfo{
			Sample:                 *m.sample,
			AbsoluteGenerationRank: abs,
			GenerationRank:         abs - lastAbsRank[m.inst.handle],
			SampleRank:             remainingAfter[m.sample],
			ValidData:              m.sample.Change.Kind == Alive || m.sample.Change.Kind == AliveFiltered,
		})
		m.sample.State = Read
		m.inst.viewState = NotNew
	}

	if remove {
		toRemove := make(map[*ReaderSample]bool, len(all))
		for _, m := range all {
			toRemove[m.sample] = true
		}
		for _, inst := range r.instances {
			kept := inst.samples[:0]
			for _, s := range inst.samples {
				if toRemove[s] {
					metrics.CacheChangesTotal.WithLabelValues(r.Guid.String(), changeKindLabel(s.Change.Kind)).Dec()
					continue
				}
				kept = append(kept, s)
			}
			inst.samples = kept
		}
	}

	return out, nil
}

// orderedHandles returns instance handles in a stable total order so
// read/take results are deterministic across calls.
func (r *Reader) orderedHandles() []rtps.InstanceHandle {
	out := make([]rtps.InstanceHandle, 0, len(r.instances))
	for h := range r.instances {
		out = append(out, h)
	}
	for i := 1; i < len(out); i++ {
		j := i
		for j > 0 && out[j].Less(out[j-1]) {
			out[j], out[j-1] = out[j-1], out[j]
			j--
		}
	}
	return out
}

// NextInstance computes the next instance handle strictly greater than
// previous (or the minimum when previous is nil), then delegates to Read
// or Take with that specific handle, per spec.md §4.3's *_next_instance.
func (r *Reader) NextInstance(previous *rtps.InstanceHandle, filter Filter, take bool) ([]SampleInfo, error) {
	handles := r.orderedHandles()
	var next *rtps.InstanceHandle
	for i := range handles {
		if previous == nil || previous.Less(handles[i]) {
			next = &handles[i]
			break
		}
	}
	if next == nil {
		return nil, ddserror.New(ddserror.NoData)
	}
	filter.SpecificInstance = next
	if take {
		return r.Take(filter)
	}
	return r.Read(filter)
}

// IsHistoricalDataReceived implements is_historical_data_received
// (spec.md §4.3): Volatile durability makes the call illegal; at
// TransientLocal and stronger it reports whether every pre-existing
// sample from matched writers has arrived. This cache has no visibility
// into the durability handshake itself (that belongs to the discovery /
// writer-proxy layer), so the caller supplies the answer once it knows;
// this method only enforces the Volatile precondition.
func (r *Reader) IsHistoricalDataReceived(received bool) (bool, error) {
	if r.Policies.Durability.Kind == qos.Volatile {
		return false, ddserror.New(ddserror.IllegalOperation)
	}
	return received, nil
}

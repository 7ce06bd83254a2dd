package cache

import (
	"time"

	"github.com/lattice-dds/rtps/pkg/rtps"
)

// ViewState tracks whether an instance has been seen by this read/take
// cursor before (spec.md §3).
type ViewState int

const (
	New ViewState = iota
	NotNew
)

// InstanceState is a reader-side instance's alive/not-alive disposition
// (spec.md §3).
type InstanceState int

const (
	InstanceAlive InstanceState = iota
	InstanceNotAliveDisposed
	InstanceNotAliveNoWriters
)

// SampleState marks whether a sample has been returned by a prior
// read/take call.
type SampleState int

const (
	NotRead SampleState = iota
	Read
)

// ReaderSample is a reader-side view of a CacheChange, augmented with the
// state spec.md §3 requires for read/take filtering and SampleInfo.
type ReaderSample struct {
	Change ChangeRecord

	State                    SampleState
	DisposedGenerationCount  int32
	NoWritersGenerationCount int32
	ReceptionTimestamp       time.Time
}

// ChangeRecord is the writer-originated payload a ReaderSample wraps; it
// mirrors CacheChange but omits fields only the writer side needs.
type ChangeRecord struct {
	Kind            ChangeKind
	WriterGuid      rtps.Guid
	InstanceHandle  rtps.InstanceHandle
	SequenceNumber  rtps.SequenceNumber
	SourceTimestamp time.Time
	Payload         []byte
}

// instanceEntry is the reader-side per-instance state: the InstanceState
// fields from spec.md §3 plus the ownership and time-based-filter
// bookkeeping §4.3 layers on top of it.
type instanceEntry struct {
	handle rtps.InstanceHandle

	viewState     ViewState
	instanceState InstanceState

	mostRecentDisposedGen  int32
	mostRecentNoWritersGen int32

	ownerGuid           rtps.Guid
	hasOwner            bool
	ownerStrength       int32
	lastSourceTimestamp time.Time
	haveLastTimestamp   bool

	samples []*ReaderSample
}

// applyChangeKind advances the instance-state machine per spec.md §3's
// transition rules, called before a new sample is appended.
func (e *instanceEntry) applyChangeKind(kind ChangeKind) {
	wasNotAlive := e.instanceState != InstanceAlive
	switch kind {
	case NotAliveDisposed, NotAliveDisposedUnregistered:
		e.instanceState = InstanceNotAliveDisposed
	case NotAliveUnregistered:
		e.instanceState = InstanceNotAliveNoWriters
	default:
		if e.instanceState == InstanceNotAliveDisposed {
			e.mostRecentDisposedGen++
		}
		if e.instanceState == InstanceNotAliveNoWriters {
			e.mostRecentNoWritersGen++
		}
		e.instanceState = InstanceAlive
	}
	if e.instanceState == InstanceAlive && wasNotAlive {
		e.viewState = New
	}
}

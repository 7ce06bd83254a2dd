package cache

import (
	"time"

	"github.com/lattice-dds/rtps/pkg/rtps"
)

// ChangeKind is a CacheChange's disposition (spec.md §3).
type ChangeKind int

const (
	Alive ChangeKind = iota
	NotAliveDisposed
	NotAliveUnregistered
	NotAliveDisposedUnregistered
	AliveFiltered
)

func (k ChangeKind) isNotAlive() bool { return k != Alive && k != AliveFiltered }

// CacheChange is a writer-originated record (spec.md §3): identity,
// sequence number, instance handle, optional source timestamp, and
// serialised payload.
type CacheChange struct {
	Kind            ChangeKind
	WriterGuid      rtps.Guid
	InstanceHandle  rtps.InstanceHandle
	SequenceNumber  rtps.SequenceNumber
	SourceTimestamp time.Time
	InlineQos       *rtps.ParameterList
	Payload         []byte
}

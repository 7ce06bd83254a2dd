package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-dds/rtps/pkg/ddserror"
	"github.com/lattice-dds/rtps/pkg/qos"
	"github.com/lattice-dds/rtps/pkg/rtps"
)

func testWriterGuid(b byte) rtps.Guid {
	var g rtps.Guid
	g.Prefix[0] = b
	return g
}

func TestReaderAddChangeBasic(t *testing.T) {
	r := NewReader(rtps.Guid{}, qos.Default(), testTracker())
	var h rtps.InstanceHandle
	h[0] = 1

	out := r.AddChange(ChangeRecord{Kind: Alive, WriterGuid: testWriterGuid(1), InstanceHandle: h, SequenceNumber: 1, SourceTimestamp: time.Now()}, time.Now(), WriterOwnership{})
	assert.Equal(t, Added, out.Result)

	samples, err := r.Read(Filter{})
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.True(t, samples[0].ValidData)
}

func TestReaderTakeRemovesSamples(t *testing.T) {
	r := NewReader(rtps.Guid{}, qos.Default(), testTracker())
	var h rtps.InstanceHandle
	r.AddChange(ChangeRecord{Kind: Alive, WriterGuid: testWriterGuid(1), InstanceHandle: h, SequenceNumber: 1, SourceTimestamp: time.Now()}, time.Now(), WriterOwnership{})

	samples, err := r.Take(Filter{})
	require.NoError(t, err)
	require.Len(t, samples, 1)

	_, err = r.Read(Filter{})
	assert.ErrorIs(t, err, ddserror.New(ddserror.NoData))
}

func TestReaderKeepLastEvictsOldestAlive(t *testing.T) {
	policies := qos.Default()
	policies.History = qos.History{Kind: qos.KeepLast, Depth: 2}
	r := NewReader(rtps.Guid{}, policies, testTracker())
	var h rtps.InstanceHandle

	for i := rtps.SequenceNumber(1); i <= 3; i++ {
		ts := time.Now().Add(time.Duration(i) * time.Millisecond)
		r.AddChange(ChangeRecord{Kind: Alive, WriterGuid: testWriterGuid(1), InstanceHandle: h, SequenceNumber: i, SourceTimestamp: ts}, ts, WriterOwnership{})
	}
	samples, err := r.Read(Filter{})
	require.NoError(t, err)
	require.Len(t, samples, 2)
}

func TestReaderResourceLimitRejectsSample(t *testing.T) {
	policies := qos.Default()
	policies.ResourceLimits.MaxSamples = 1
	r := NewReader(rtps.Guid{}, policies, testTracker())
	var h1, h2 rtps.InstanceHandle
	h1[0], h2[0] = 1, 2

	out1 := r.AddChange(ChangeRecord{Kind: Alive, WriterGuid: testWriterGuid(1), InstanceHandle: h1, SequenceNumber: 1, SourceTimestamp: time.Now()}, time.Now(), WriterOwnership{})
	require.Equal(t, Added, out1.Result)

	out2 := r.AddChange(ChangeRecord{Kind: Alive, WriterGuid: testWriterGuid(1), InstanceHandle: h2, SequenceNumber: 2, SourceTimestamp: time.Now()}, time.Now(), WriterOwnership{})
	assert.Equal(t, Rejected, out2.Result)
}

func TestReaderOwnershipExclusiveRejectsWeakerWriter(t *testing.T) {
	policies := qos.Default()
	policies.Ownership.Kind = qos.Exclusive
	r := NewReader(rtps.Guid{}, policies, testTracker())
	var h rtps.InstanceHandle

	strong := testWriterGuid(1)
	weak := testWriterGuid(2)

	out := r.AddChange(ChangeRecord{Kind: Alive, WriterGuid: strong, InstanceHandle: h, SequenceNumber: 1, SourceTimestamp: time.Now()}, time.Now(), WriterOwnership{Strength: 10})
	require.Equal(t, Added, out.Result)

	out2 := r.AddChange(ChangeRecord{Kind: Alive, WriterGuid: weak, InstanceHandle: h, SequenceNumber: 1, SourceTimestamp: time.Now()}, time.Now(), WriterOwnership{Strength: 5})
	assert.Equal(t, NotAdded, out2.Result)
}

func TestReaderOwnershipExclusiveAcceptsStrongerWriter(t *testing.T) {
	policies := qos.Default()
	policies.Ownership.Kind = qos.Exclusive
	r := NewReader(rtps.Guid{}, policies, testTracker())
	var h rtps.InstanceHandle

	weak := testWriterGuid(2)
	strong := testWriterGuid(1)

	out := r.AddChange(ChangeRecord{Kind: Alive, WriterGuid: weak, InstanceHandle: h, SequenceNumber: 1, SourceTimestamp: time.Now()}, time.Now(), WriterOwnership{Strength: 5})
	require.Equal(t, Added, out.Result)

	out2 := r.AddChange(ChangeRecord{Kind: Alive, WriterGuid: strong, InstanceHandle: h, SequenceNumber: 2, SourceTimestamp: time.Now()}, time.Now(), WriterOwnership{Strength: 10})
	assert.Equal(t, Added, out2.Result)
}

func TestReaderTimeBasedFilterRejectsTooSoonSample(t *testing.T) {
	policies := qos.Default()
	policies.TimeBasedFilter.MinimumSeparation = time.Second
	r := NewReader(rtps.Guid{}, policies, testTracker())
	var h rtps.InstanceHandle

	base := time.Now()
	out := r.AddChange(ChangeRecord{Kind: Alive, WriterGuid: testWriterGuid(1), InstanceHandle: h, SequenceNumber: 1, SourceTimestamp: base}, base, WriterOwnership{})
	require.Equal(t, Added, out.Result)

	out2 := r.AddChange(ChangeRecord{Kind: Alive, WriterGuid: testWriterGuid(1), InstanceHandle: h, SequenceNumber: 2, SourceTimestamp: base.Add(100 * time.Millisecond)}, base, WriterOwnership{})
	assert.Equal(t, NotAdded, out2.Result)
}

func TestReaderInstanceStateTransitionsOnDispose(t *testing.T) {
	r := NewReader(rtps.Guid{}, qos.Default(), testTracker())
	var h rtps.InstanceHandle

	r.AddChange(ChangeRecord{Kind: Alive, WriterGuid: testWriterGuid(1), InstanceHandle: h, SequenceNumber: 1, SourceTimestamp: time.Now()}, time.Now(), WriterOwnership{})
	r.AddChange(ChangeRecord{Kind: NotAliveDisposed, WriterGuid: testWriterGuid(1), InstanceHandle: h, SequenceNumber: 2, SourceTimestamp: time.Now()}, time.Now(), WriterOwnership{})

	inst := r.instances[h]
	assert.Equal(t, InstanceNotAliveDisposed, inst.instanceState)

	r.AddChange(ChangeRecord{Kind: Alive, WriterGuid: testWriterGuid(1), InstanceHandle: h, SequenceNumber: 3, SourceTimestamp: time.Now()}, time.Now(), WriterOwnership{})
	assert.Equal(t, InstanceAlive, inst.instanceState)
	assert.EqualValues(t, 1, inst.mostRecentDisposedGen)
	assert.Equal(t, New, inst.viewState)
}

func TestReaderIsHistoricalDataReceivedIllegalOnVolatile(t *testing.T) {
	r := NewReader(rtps.Guid{}, qos.Default(), testTracker())
	_, err := r.IsHistoricalDataReceived(true)
	assert.ErrorIs(t, err, ddserror.New(ddserror.IllegalOperation))
}

func TestReaderIsHistoricalDataReceivedReportsForTransientLocal(t *testing.T) {
	policies := qos.Default()
	policies.Durability.Kind = qos.TransientLocal
	r := NewReader(rtps.Guid{}, policies, testTracker())
	ok, err := r.IsHistoricalDataReceived(true)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReaderNextInstanceWalksInOrder(t *testing.T) {
	r := NewReader(rtps.Guid{}, qos.Default(), testTracker())
	var h1, h2 rtps.InstanceHandle
	h1[0], h2[0] = 1, 2
	r.AddChange(ChangeRecord{Kind: Alive, WriterGuid: testWriterGuid(1), InstanceHandle: h1, SequenceNumber: 1, SourceTimestamp: time.Now()}, time.Now(), WriterOwnership{})
	r.AddChange(ChangeRecord{Kind: Alive, WriterGuid: testWriterGuid(1), InstanceHandle: h2, SequenceNumber: 1, SourceTimestamp: time.Now()}, time.Now(), WriterOwnership{})

	first, err := r.NextInstance(nil, Filter{}, false)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, h1, first[0].Sample.Change.InstanceHandle)

	second, err := r.NextInstance(&h1, Filter{}, false)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, h2, second[0].Sample.Change.InstanceHandle)

	_, err = r.NextInstance(&h2, Filter{}, false)
	assert.ErrorIs(t, err, ddserror.New(ddserror.NoData))
}

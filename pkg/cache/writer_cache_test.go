package cache

import (
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-dds/rtps/pkg/ddserror"
	"github.com/lattice-dds/rtps/pkg/qos"
	"github.com/lattice-dds/rtps/pkg/rtps"
	"github.com/lattice-dds/rtps/pkg/status"
)

func testTracker() *status.Tracker { return status.NewTracker() }

func discardLogger() zerolog.Logger { return zerolog.New(io.Discard) }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestWriterWriteIncrementsSequenceNumber(t *testing.T) {
	policies := qos.Default()
	w := NewWriter(rtps.Guid{}, policies, true, testTracker(), fixedClock(time.Now()), nil)

	var h1 rtps.InstanceHandle
	h1[0] = 1
	sn1, err := w.WriteWithTimestamp(h1, []byte("a"), time.Now())
	require.NoError(t, err)
	sn2, err := w.WriteWithTimestamp(h1, []byte("b"), time.Now())
	require.NoError(t, err)
	assert.Equal(t, rtps.SequenceNumber(1), sn1)
	assert.Equal(t, rtps.SequenceNumber(2), sn2)
}

func TestWriterKeepLastEvictsOldest(t *testing.T) {
	policies := qos.Default()
	policies.History = qos.History{Kind: qos.KeepLast, Depth: 2}
	w := NewWriter(rtps.Guid{}, policies, true, testTracker(), fixedClock(time.Now()), nil)

	var h rtps.InstanceHandle
	for i := 0; i < 3; i++ {
		_, err := w.WriteWithTimestamp(h, []byte{byte(i)}, time.Now())
		require.NoError(t, err)
	}
	changes := w.Changes()
	require.Len(t, changes, 2)
	assert.Equal(t, rtps.SequenceNumber(2), changes[0].SequenceNumber)
	assert.Equal(t, rtps.SequenceNumber(3), changes[1].SequenceNumber)
}

func TestWriterMaxInstancesRejectsNewInstance(t *testing.T) {
	policies := qos.Default()
	policies.ResourceLimits.MaxInstances = 1
	w := NewWriter(rtps.Guid{}, policies, true, testTracker(), fixedClock(time.Now()), nil)

	var h1, h2 rtps.InstanceHandle
	h1[0], h2[0] = 1, 2
	_, err := w.WriteWithTimestamp(h1, []byte("a"), time.Now())
	require.NoError(t, err)
	_, err = w.WriteWithTimestamp(h2, []byte("b"), time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, ddserror.New(ddserror.OutOfResources))
}

func TestWriterReliableKeepLastTimesOutWhenUnacknowledged(t *testing.T) {
	policies := qos.Default()
	policies.History = qos.History{Kind: qos.KeepLast, Depth: 1}
	policies.Reliability = qos.Reliability{Kind: qos.Reliable, MaxBlockingTime: time.Millisecond}
	w := NewWriter(rtps.Guid{}, policies, true, testTracker(), time.Now, func(rtps.SequenceNumber) bool { return false })

	var h rtps.InstanceHandle
	_, err := w.WriteWithTimestamp(h, []byte("a"), time.Now())
	require.NoError(t, err)
	_, err = w.WriteWithTimestamp(h, []byte("b"), time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, ddserror.New(ddserror.Timeout))
}

func TestWriterUnregisterEmitsNotAliveUnregistered(t *testing.T) {
	policies := qos.Default()
	w := NewWriter(rtps.Guid{}, policies, true, testTracker(), fixedClock(time.Now()), nil)

	var h rtps.InstanceHandle
	err := w.UnregisterWithTimestamp(h, time.Now())
	require.NoError(t, err)

	changes := w.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, NotAliveUnregistered, changes[0].Kind)
}

func TestWriterDisposeAndUnregisterRequireKeyedTopic(t *testing.T) {
	policies := qos.Default()
	w := NewWriter(rtps.Guid{}, policies, false, testTracker(), fixedClock(time.Now()), nil)

	var h rtps.InstanceHandle
	err := w.DisposeWithTimestamp(h, time.Now())
	assert.ErrorIs(t, err, ddserror.New(ddserror.IllegalOperation))

	err = w.UnregisterWithTimestamp(h, time.Now())
	assert.ErrorIs(t, err, ddserror.New(ddserror.IllegalOperation))
}

func TestWriterRemoveExpiredIsIdempotent(t *testing.T) {
	now := time.Now()
	policies := qos.Default()
	policies.Lifespan.Duration = time.Second
	w := NewWriter(rtps.Guid{}, policies, true, testTracker(), fixedClock(now), nil)

	var h rtps.InstanceHandle
	_, err := w.WriteWithTimestamp(h, []byte("a"), now.Add(-2*time.Second))
	require.NoError(t, err)

	w.RemoveExpired(now)
	assert.Empty(t, w.Changes())
	w.RemoveExpired(now) // idempotent: no panic, no change
	assert.Empty(t, w.Changes())
}

func TestWriterCheckDeadlinesBumpsStatus(t *testing.T) {
	now := time.Now()
	policies := qos.Default()
	policies.Deadline.Period = time.Second
	tracker := testTracker()
	w := NewWriter(rtps.Guid{}, policies, true, tracker, fixedClock(now), nil)

	var h rtps.InstanceHandle
	_, err := w.WriteWithTimestamp(h, []byte("a"), now.Add(-2*time.Second))
	require.NoError(t, err)

	w.CheckDeadlines(now)
	s := tracker.ReadOfferedDeadlineMissed()
	assert.EqualValues(t, 1, s.TotalCount)
}

func TestWriterAreAllChangesAcknowledged(t *testing.T) {
	policies := qos.Default()
	w := NewWriter(rtps.Guid{}, policies, true, testTracker(), fixedClock(time.Now()), nil)
	assert.True(t, w.AreAllChangesAcknowledged(), "stateless writer with no AckChecker trivially acknowledges")

	w2 := NewWriter(rtps.Guid{}, policies, true, testTracker(), fixedClock(time.Now()), func(rtps.SequenceNumber) bool { return false })
	var h rtps.InstanceHandle
	_, err := w2.WriteWithTimestamp(h, []byte("a"), time.Now())
	require.NoError(t, err)
	assert.False(t, w2.AreAllChangesAcknowledged())
}

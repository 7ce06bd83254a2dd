package participant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-dds/rtps/pkg/qos"
	"github.com/lattice-dds/rtps/pkg/rtps"
)

func TestSweepTimersRemovesExpiredLifespanChanges(t *testing.T) {
	clock := time.Now()
	p, err := New(Config{DomainId: 0, Now: func() time.Time { return clock }})
	require.NoError(t, err)
	require.NoError(t, p.Start())
	t.Cleanup(func() { _ = p.Stop() })

	policies := qos.Default()
	policies.Lifespan.Duration = 10 * time.Millisecond
	topic, err := p.CreateTopic("Weather", "WeatherReport", false, &policies)
	require.NoError(t, err)
	pub := p.CreatePublisher()
	w := p.CreateDataWriter(pub, topic, &policies)
	require.NoError(t, p.EnableDataWriter(w))

	handle := rtps.InstanceHandleFromGuid(w.Guid)
	_, err = p.Write(w, []byte("hot"), handle, clock)
	require.NoError(t, err)
	require.Len(t, w.Cache.Changes(), 1)

	clock = clock.Add(time.Hour)
	require.True(t, p.submit(p.sweepTimers))

	assert.Empty(t, w.Cache.Changes())
}

func TestSweepTimersBumpsOfferedDeadlineMissed(t *testing.T) {
	clock := time.Now()
	p, err := New(Config{DomainId: 0, Now: func() time.Time { return clock }})
	require.NoError(t, err)
	require.NoError(t, p.Start())
	t.Cleanup(func() { _ = p.Stop() })

	policies := qos.Default()
	policies.Deadline.Period = 10 * time.Millisecond
	topic, err := p.CreateTopic("Weather", "WeatherReport", false, &policies)
	require.NoError(t, err)
	pub := p.CreatePublisher()
	w := p.CreateDataWriter(pub, topic, &policies)
	require.NoError(t, p.EnableDataWriter(w))

	handle := rtps.InstanceHandleFromGuid(w.Guid)
	_, err = p.Write(w, []byte("hot"), handle, clock)
	require.NoError(t, err)

	clock = clock.Add(time.Hour)
	require.True(t, p.submit(p.sweepTimers))

	assert.Equal(t, int32(1), w.Tracker.ReadOfferedDeadlineMissed().TotalCount)
}

package discovery

import (
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-dds/rtps/pkg/cache"
	"github.com/lattice-dds/rtps/pkg/match"
	"github.com/lattice-dds/rtps/pkg/qos"
	"github.com/lattice-dds/rtps/pkg/rtps"
)

type fakeAnnouncer struct {
	participants []ParticipantBuiltinTopicData
	writers      []PublicationBuiltinTopicData
	readers      []SubscriptionBuiltinTopicData
	topics       []TopicBuiltinTopicData
}

func (f *fakeAnnouncer) AnnounceParticipant(d ParticipantBuiltinTopicData, _ ParticipantProxy) {
	f.participants = append(f.participants, d)
}
func (f *fakeAnnouncer) AnnounceWriter(d PublicationBuiltinTopicData)   { f.writers = append(f.writers, d) }
func (f *fakeAnnouncer) AnnounceReader(d SubscriptionBuiltinTopicData) { f.readers = append(f.readers, d) }
func (f *fakeAnnouncer) AnnounceTopic(d TopicBuiltinTopicData)         { f.topics = append(f.topics, d) }

type fakeProxyInstaller struct {
	writerProxies []WriterProxy
	readerProxies []ReaderProxy
}

func (f *fakeProxyInstaller) InstallWriterProxy(_ rtps.EntityId, p WriterProxy) {
	f.writerProxies = append(f.writerProxies, p)
}
func (f *fakeProxyInstaller) InstallReaderProxy(_ rtps.EntityId, p ReaderProxy) {
	f.readerProxies = append(f.readerProxies, p)
}

func newTestEngine(t *testing.T, announcer *fakeAnnouncer, installer *fakeProxyInstaller) *Engine {
	t.Helper()
	e := New(Config{
		Local:          LocalParticipant{Data: ParticipantBuiltinTopicData{}, Proxy: ParticipantProxy{DomainTag: ""}},
		DomainId:       0,
		Matcher:        match.New(zerolog.New(io.Discard)),
		Announcer:      announcer,
		ProxyInstaller: installer,
		Now:            time.Now,
	})
	return e
}

func TestOnParticipantChangeInstallsSedpProxiesOnDiscovery(t *testing.T) {
	announcer := &fakeAnnouncer{}
	installer := &fakeProxyInstaller{}
	e := newTestEngine(t, announcer, installer)

	var key rtps.InstanceHandle
	key[0] = 1
	proxy := ParticipantProxy{
		GuidPrefix:                rtps.GuidPrefix{9},
		AvailableBuiltinEndpoints: uint32(BuiltinEndpointPublicationsAnnouncer | BuiltinEndpointSubscriptionsAnnouncer),
	}
	e.OnParticipantChange(cache.Alive, ParticipantBuiltinTopicData{Key: key}, proxy)

	require.Len(t, installer.writerProxies, 2)
	require.Len(t, installer.readerProxies, 0)
	assert.NotEmpty(t, announcer.participants, "re-announce fires on new discovery")

	entries := e.Participants().All()
	require.Len(t, entries, 1)
}

func TestOnParticipantChangeIgnoresDomainMismatch(t *testing.T) {
	announcer := &fakeAnnouncer{}
	installer := &fakeProxyInstaller{}
	e := newTestEngine(t, announcer, installer)

	mismatched := uint32(7)
	var key rtps.InstanceHandle
	key[0] = 2
	e.OnParticipantChange(cache.Alive, ParticipantBuiltinTopicData{Key: key}, ParticipantProxy{DomainId: &mismatched})

	assert.Empty(t, e.Participants().All())
}

func TestOnParticipantChangeRemovalCascadesToEndpoints(t *testing.T) {
	announcer := &fakeAnnouncer{}
	installer := &fakeProxyInstaller{}
	e := newTestEngine(t, announcer, installer)

	var pkey rtps.InstanceHandle
	pkey[0] = 3
	e.OnParticipantChange(cache.Alive, ParticipantBuiltinTopicData{Key: pkey}, ParticipantProxy{})

	var wguid rtps.Guid
	wguid.Prefix[0] = 3
	wguid.Entity[3] = 2
	e.OnWriterChange(cache.Alive, PublicationBuiltinTopicData{
		Key: rtps.InstanceHandleFromGuid(wguid), ParticipantKey: pkey, Guid: wguid, Topic: "t", TypeName: "T",
	})
	require.Len(t, e.Writers().All(), 1)

	e.OnParticipantChange(cache.NotAliveDisposed, ParticipantBuiltinTopicData{Key: pkey}, ParticipantProxy{})
	assert.Empty(t, e.Writers().All())
}

func TestOnWriterChangeMatchesAgainstLocalReader(t *testing.T) {
	announcer := &fakeAnnouncer{}
	installer := &fakeProxyInstaller{}
	e := newTestEngine(t, announcer, installer)

	var rguid rtps.Guid
	rguid.Entity[3] = 7
	e.matcher.AddReader(match.Endpoint{Guid: rguid, Topic: "sensors", TypeName: "Temp", Policies: qos.Default()})

	var wguid rtps.Guid
	wguid.Entity[3] = 2
	e.OnWriterChange(cache.Alive, PublicationBuiltinTopicData{
		Key: rtps.InstanceHandleFromGuid(wguid), Guid: wguid, Topic: "sensors", TypeName: "Temp", Policies: qos.Default(),
	})

	assert.Contains(t, e.matcher.Matches(wguid), rguid)
}

type fakeLocalTopics struct {
	topics []TopicBuiltinTopicData
}

func (f *fakeLocalTopics) LocalTopics(name, typeName string) []TopicBuiltinTopicData {
	var out []TopicBuiltinTopicData
	for _, t := range f.topics {
		if t.Name == name && t.TypeName == typeName {
			out = append(out, t)
		}
	}
	return out
}

func TestOnTopicChangeReportsInconsistency(t *testing.T) {
	announcer := &fakeAnnouncer{}
	installer := &fakeProxyInstaller{}
	localPolicies := qos.Default()
	mismatched := qos.Default()
	mismatched.Reliability.Kind = qos.Reliable

	local := &fakeLocalTopics{topics: []TopicBuiltinTopicData{{Name: "sensors", TypeName: "Temp", Policies: localPolicies}}}

	var reported []TopicBuiltinTopicData
	e := New(Config{
		Local:          LocalParticipant{},
		Matcher:        match.New(zerolog.New(io.Discard)),
		Announcer:      announcer,
		ProxyInstaller: installer,
		LocalTopics:    local,
		OnInconsistentTopic: func(t TopicBuiltinTopicData) {
			reported = append(reported, t)
		},
		Now: time.Now,
	})

	e.OnTopicChange(cache.Alive, TopicBuiltinTopicData{Name: "sensors", TypeName: "Temp", Policies: mismatched})

	require.Len(t, reported, 1)
	assert.Equal(t, "sensors", reported[0].Name)
}

func TestOnTopicChangeNoReportWhenConsistent(t *testing.T) {
	announcer := &fakeAnnouncer{}
	installer := &fakeProxyInstaller{}
	policies := qos.Default()
	local := &fakeLocalTopics{topics: []TopicBuiltinTopicData{{Name: "sensors", TypeName: "Temp", Policies: policies}}}

	var reported []TopicBuiltinTopicData
	e := New(Config{
		Matcher:             match.New(zerolog.New(io.Discard)),
		Announcer:           announcer,
		ProxyInstaller:      installer,
		LocalTopics:         local,
		OnInconsistentTopic: func(t TopicBuiltinTopicData) { reported = append(reported, t) },
		Now:                 time.Now,
	})

	e.OnTopicChange(cache.Alive, TopicBuiltinTopicData{Name: "sensors", TypeName: "Temp", Policies: policies})
	assert.Empty(t, reported)
}

package discovery

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lattice-dds/rtps/pkg/cache"
	"github.com/lattice-dds/rtps/pkg/log"
	"github.com/lattice-dds/rtps/pkg/match"
	"github.com/lattice-dds/rtps/pkg/metrics"
	"github.com/lattice-dds/rtps/pkg/qos"
	"github.com/lattice-dds/rtps/pkg/rtps"
)

// defaultSPDPPeriod is the interval the SPDP announce loop runs at absent
// an explicit configuration value.
const defaultSPDPPeriod = 5 * time.Second

// Announcer publishes built-in topic data through the participant's
// built-in SPDP/SEDP writers. The concrete implementation (in
// pkg/participant) drives a cache.Writer per built-in
// endpoint and hands the serialised payload to the transport.
type Announcer interface {
	AnnounceParticipant(ParticipantBuiltinTopicData, ParticipantProxy)
	AnnounceWriter(PublicationBuiltinTopicData)
	AnnounceReader(SubscriptionBuiltinTopicData)
	AnnounceTopic(TopicBuiltinTopicData)
}

// LocalTopicLister answers the topic-consistency check's "every local
// topic with matching name and type-name" query (spec.md §4.5).
type LocalTopicLister interface {
	LocalTopics(name, typeName string) []TopicBuiltinTopicData
}

// ProxyInstaller installs the remote writer/reader proxy a newly-matched
// SPDP peer's advertised built-in endpoints imply, using its metatraffic
// locators (spec.md §4.5 step (a)).
type ProxyInstaller interface {
	InstallWriterProxy(localEntity rtps.EntityId, proxy WriterProxy)
	InstallReaderProxy(localEntity rtps.EntityId, proxy ReaderProxy)
}

// LocalParticipant is the identity and capability data this engine
// announces about itself over SPDP.
type LocalParticipant struct {
	Data  ParticipantBuiltinTopicData
	Proxy ParticipantProxy
}

// Config bundles the collaborators Engine needs; all fields are required
// except SPDPPeriod, OnInconsistentTopic, ProxyInstaller and LocalTopics.
type Config struct {
	Local          LocalParticipant
	DomainId       uint32
	Matcher        *match.Matcher
	Announcer      Announcer
	ProxyInstaller ProxyInstaller
	LocalTopics    LocalTopicLister

	// OnInconsistentTopic is called once per local topic whose QoS
	// disagrees with an incoming TopicBuiltinTopicData (spec.md §4.5).
	OnInconsistentTopic func(localTopic TopicBuiltinTopicData)

	SPDPPeriod time.Duration
	Now        func() time.Time
}

// Engine runs the SPDP announce loop and dispatches SEDP/SPDP detect
// events into the discovered-X tables and the matching engine.
type Engine struct {
	mu     sync.Mutex
	logger zerolog.Logger

	local          LocalParticipant
	domainID       uint32
	matcher        *match.Matcher
	announcer      Announcer
	proxyInstaller ProxyInstaller
	localTopics    LocalTopicLister
	onInconsistent func(TopicBuiltinTopicData)

	participants *ParticipantTable
	writers      *WriterTable
	readers      *ReaderTable
	topics       *TopicTable

	period time.Duration
	now    func() time.Time
	stopCh chan struct{}
}

func New(cfg Config) *Engine {
	period := cfg.SPDPPeriod
	if period <= 0 {
		period = defaultSPDPPeriod
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	onInconsistent := cfg.OnInconsistentTopic
	if onInconsistent == nil {
		onInconsistent = func(TopicBuiltinTopicData) {}
	}
	return &Engine{
		logger:         log.WithComponent("discovery"),
		local:          cfg.Local,
		domainID:       cfg.DomainId,
		matcher:        cfg.Matcher,
		announcer:      cfg.Announcer,
		proxyInstaller: cfg.ProxyInstaller,
		localTopics:    cfg.LocalTopics,
		onInconsistent: onInconsistent,
		participants:   NewParticipantTable(),
		writers:        NewWriterTable(),
		readers:        NewReaderTable(),
		topics:         NewTopicTable(),
		period:         period,
		now:            now,
		stopCh:         make(chan struct{}),
	}
}

// Start begins the SPDP announce/lease-check loop.
func (e *Engine) Start() { go e.run() }

// Stop stops the loop.
func (e *Engine) Stop() { close(e.stopCh) }

func (e *Engine) run() {
	ticker := time.NewTicker(e.period)
	defer ticker.Stop()

	e.logger.Info().Dur("period", e.period).Msg("discovery engine started")

	for {
		select {
		case <-ticker.C:
			e.cycle()
		case <-e.stopCh:
			e.logger.Info().Msg("discovery engine stopped")
			return
		}
	}
}

// cycle performs one SPDP announce and lease-expiry sweep.
func (e *Engine) cycle() {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.DiscoveryCycleDuration)

	e.announcer.AnnounceParticipant(e.local.Data, e.local.Proxy)
	metrics.SpdpAnnouncementsTotal.Inc()

	e.checkLeases(e.now())
}

// checkLeases removes any discovered participant whose lease_duration has
// elapsed since it was last seen, cascading removal to its discovered
// endpoints (see doc.go for why this supplements the explicit-dispose
// path spec.md names).
func (e *Engine) checkLeases(now time.Time) {
	for _, entry := range e.participants.All() {
		if now.Sub(entry.LastSeen) > entry.Proxy.LeaseDuration {
			e.logger.Warn().
				Str("participant", entry.Proxy.GuidPrefix.String()).
				Msg("participant lease expired")
			e.removeParticipant(entry.Data.Key)
		}
	}
}

// OnParticipantChange handles an SPDP detect event (spec.md §4.5).
func (e *Engine) OnParticipantChange(kind cache.ChangeKind, data ParticipantBuiltinTopicData, proxy ParticipantProxy) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if kind != cache.Alive {
		e.removeParticipant(data.Key)
		return
	}

	if !domainMatches(e.domainID, proxy.DomainId) || proxy.DomainTag != e.local.Proxy.DomainTag {
		e.logger.Debug().Str("participant", proxy.GuidPrefix.String()).Msg("participant domain mismatch, ignored")
		return
	}

	_, known := e.participants.Get(data.Key)
	e.participants.Upsert(ParticipantEntry{Data: data, Proxy: proxy, LastSeen: e.now()})

	if !known {
		e.installAdvertisedEndpoints(proxy)
		metrics.DiscoveredParticipantsTotal.Inc()
		// Re-announce to accelerate the new peer's discovery of us.
		e.announcer.AnnounceParticipant(e.local.Data, e.local.Proxy)
		metrics.SpdpAnnouncementsTotal.Inc()
		e.logger.Info().Str("participant", proxy.GuidPrefix.String()).Msg("discovered participant")
	}
}

// installAdvertisedEndpoints wires up matched-reader/matched-writer
// installation for every SEDP built-in endpoint the remote participant
// advertises, using its metatraffic locators (spec.md §4.5 step (a)).
func (e *Engine) installAdvertisedEndpoints(proxy ParticipantProxy) {
	if e.proxyInstaller == nil {
		return
	}
	uni, multi := proxy.MetatrafficUnicastLocators, proxy.MetatrafficMulticastLocators

	if BuiltinEndpointPublicationsAnnouncer.Has(proxy.AvailableBuiltinEndpoints) {
		remoteGuid := rtps.Guid{Prefix: proxy.GuidPrefix, Entity: rtps.EntityIdSEDPBuiltinPublicationsWriter}
		e.proxyInstaller.InstallWriterProxy(rtps.EntityIdSEDPBuiltinPublicationsReader, WriterProxy{
			Guid: remoteGuid, UnicastLocators: uni, MulticastLocators: multi,
			ReliabilityKind: qos.Reliable, DurabilityKind: qos.TransientLocal,
		})
	}
	if BuiltinEndpointPublicationsDetector.Has(proxy.AvailableBuiltinEndpoints) {
		remoteGuid := rtps.Guid{Prefix: proxy.GuidPrefix, Entity: rtps.EntityIdSEDPBuiltinPublicationsReader}
		e.proxyInstaller.InstallReaderProxy(rtps.EntityIdSEDPBuiltinPublicationsWriter, ReaderProxy{
			Guid: remoteGuid, UnicastLocators: uni, MulticastLocators: multi,
			ReliabilityKind: qos.Reliable, DurabilityKind: qos.TransientLocal,
		})
	}
	if BuiltinEndpointSubscriptionsAnnouncer.Has(proxy.AvailableBuiltinEndpoints) {
		remoteGuid := rtps.Guid{Prefix: proxy.GuidPrefix, Entity: rtps.EntityIdSEDPBuiltinSubscriptionsWriter}
		e.proxyInstaller.InstallWriterProxy(rtps.EntityIdSEDPBuiltinSubscriptionsReader, WriterProxy{
			Guid: remoteGuid, UnicastLocators: uni, MulticastLocators: multi,
			ReliabilityKind: qos.Reliable, DurabilityKind: qos.TransientLocal,
		})
	}
	if BuiltinEndpointSubscriptionsDetector.Has(proxy.AvailableBuiltinEndpoints) {
		remoteGuid := rtps.Guid{Prefix: proxy.GuidPrefix, Entity: rtps.EntityIdSEDPBuiltinSubscriptionsReader}
		e.proxyInstaller.InstallReaderProxy(rtps.EntityIdSEDPBuiltinSubscriptionsWriter, ReaderProxy{
			Guid: remoteGuid, UnicastLocators: uni, MulticastLocators: multi,
			ReliabilityKind: qos.Reliable, DurabilityKind: qos.TransientLocal,
		})
	}
	if BuiltinEndpointTopicsAnnouncer.Has(proxy.AvailableBuiltinEndpoints) {
		remoteGuid := rtps.Guid{Prefix: proxy.GuidPrefix, Entity: rtps.EntityIdSEDPBuiltinTopicsWriter}
		e.proxyInstaller.InstallWriterProxy(rtps.EntityIdSEDPBuiltinTopicsReader, WriterProxy{
			Guid: remoteGuid, UnicastLocators: uni, MulticastLocators: multi,
			ReliabilityKind: qos.Reliable, DurabilityKind: qos.TransientLocal,
		})
	}
	if BuiltinEndpointTopicsDetector.Has(proxy.AvailableBuiltinEndpoints) {
		remoteGuid := rtps.Guid{Prefix: proxy.GuidPrefix, Entity: rtps.EntityIdSEDPBuiltinTopicsReader}
		e.proxyInstaller.InstallReaderProxy(rtps.EntityIdSEDPBuiltinTopicsWriter, ReaderProxy{
			Guid: remoteGuid, UnicastLocators: uni, MulticastLocators: multi,
			ReliabilityKind: qos.Reliable, DurabilityKind: qos.TransientLocal,
		})
	}
}

// removeParticipant implements the NotAliveDisposed / lease-expiry path:
// drop the participant and cascade-remove its discovered endpoints.
func (e *Engine) removeParticipant(key rtps.InstanceHandle) {
	if _, ok := e.participants.Remove(key); !ok {
		return
	}
	metrics.DiscoveredParticipantsTotal.Dec()
	for _, w := range e.writers.RemoveByParticipant(key) {
		e.matcher.RemoveWriter(w.Guid)
	}
	for _, r := range e.readers.RemoveByParticipant(key) {
		e.matcher.RemoveReader(r.Guid)
	}
}

// OnWriterChange handles a SEDP DiscoveredWriterData change.
func (e *Engine) OnWriterChange(kind cache.ChangeKind, data PublicationBuiltinTopicData) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if kind != cache.Alive {
		e.writers.Remove(data.Key)
		e.matcher.RemoveWriter(data.Guid)
		return
	}
	e.writers.Upsert(data)
	e.matcher.AddWriter(match.Endpoint{
		Guid:     data.Guid,
		Topic:    data.Topic,
		TypeName: data.TypeName,
		Policies: data.Policies,
	})
}

// OnReaderChange handles a SEDP DiscoveredReaderData change.
func (e *Engine) OnReaderChange(kind cache.ChangeKind, data SubscriptionBuiltinTopicData) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if kind != cache.Alive {
		e.readers.Remove(data.Key)
		e.matcher.RemoveReader(data.Guid)
		return
	}
	e.readers.Upsert(data)
	e.matcher.AddReader(match.Endpoint{
		Guid:     data.Guid,
		Topic:    data.Topic,
		TypeName: data.TypeName,
		Policies: data.Policies,
	})
}

// OnTopicChange handles a SEDP DiscoveredTopicData change: it populates
// discovered_topics and runs the topic-consistency check against every
// local topic of the same name and type-name (spec.md §4.5).
func (e *Engine) OnTopicChange(kind cache.ChangeKind, data TopicBuiltinTopicData) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if kind != cache.Alive {
		e.topics.Remove(data.Key)
		return
	}
	e.topics.Upsert(data)

	if e.localTopics == nil {
		return
	}
	for _, local := range e.localTopics.LocalTopics(data.Name, data.TypeName) {
		if !compatiblePolicies(local.Policies, data.Policies) {
			e.onInconsistent(local)
			e.logger.Warn().
				Str("topic", data.Name).
				Str("type", data.TypeName).
				Msg("inconsistent topic QoS")
		}
	}
}

// compatiblePolicies compares the QoS fields spec.md §4.5 names for
// topic consistency that qos.Policies carries: durability, deadline,
// latency_budget, liveliness, reliability, destination_order, history,
// resource_limits, lifespan, ownership. (topic_data and transport_priority
// have no field in qos.Policies and are not compared — see DESIGN.md.)
func compatiblePolicies(a, b qos.Policies) bool {
	return a.Durability == b.Durability &&
		a.Deadline == b.Deadline &&
		a.LatencyBudget == b.LatencyBudget &&
		a.Liveliness == b.Liveliness &&
		a.Reliability == b.Reliability &&
		a.DestinationOrder == b.DestinationOrder &&
		a.History == b.History &&
		a.ResourceLimits == b.ResourceLimits &&
		a.Lifespan == b.Lifespan &&
		a.Ownership == b.Ownership
}

// AnnounceLocalWriter/AnnounceLocalReader/AnnounceLocalTopic publish a
// newly-enabled local endpoint's SEDP data immediately (not waiting for
// the next SPDP tick, since SEDP itself is not ticker-driven).
func (e *Engine) AnnounceLocalWriter(data PublicationBuiltinTopicData) {
	e.announcer.AnnounceWriter(data)
	metrics.SedpAnnouncementsTotal.WithLabelValues("publication").Inc()
}

func (e *Engine) AnnounceLocalReader(data SubscriptionBuiltinTopicData) {
	e.announcer.AnnounceReader(data)
	metrics.SedpAnnouncementsTotal.WithLabelValues("subscription").Inc()
}

func (e *Engine) AnnounceLocalTopic(data TopicBuiltinTopicData) {
	e.announcer.AnnounceTopic(data)
	metrics.SedpAnnouncementsTotal.WithLabelValues("topic").Inc()
}

// Participants, Writers, Readers, Topics expose the discovered-X tables
// for read access (e.g. find_topic, introspection APIs).
func (e *Engine) Participants() *ParticipantTable { return e.participants }
func (e *Engine) Writers() *WriterTable           { return e.writers }
func (e *Engine) Readers() *ReaderTable           { return e.readers }
func (e *Engine) Topics() *TopicTable             { return e.topics }

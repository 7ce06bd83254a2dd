package participant

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lattice-dds/rtps/pkg/cache"
	"github.com/lattice-dds/rtps/pkg/discovery"
	"github.com/lattice-dds/rtps/pkg/log"
	"github.com/lattice-dds/rtps/pkg/match"
	"github.com/lattice-dds/rtps/pkg/metrics"
	"github.com/lattice-dds/rtps/pkg/qos"
	"github.com/lattice-dds/rtps/pkg/rtps"
	"github.com/lattice-dds/rtps/pkg/status"
	"github.com/lattice-dds/rtps/pkg/transport"
)

// defaultMaintenancePeriod is the tick interval for the deadline/lifespan
// sweep (spec.md §4.2's LIFESPAN/DEADLINE timers, modelled here as a
// periodic maintenance pass rather than per-entity timers; see doc.go).
const defaultMaintenancePeriod = 200 * time.Millisecond

// Config holds the user-facing knobs for New, in cuemby-warren/pkg/manager's
// Config shape.
type Config struct {
	GuidPrefix rtps.GuidPrefix
	DomainId   uint32
	DomainTag  string

	Transport transport.Transport

	SPDPPeriod        time.Duration
	MaintenancePeriod time.Duration
	Now               func() time.Time
}

// Participant is the single-threaded mail-box orchestrator spec.md §4.6
// describes. Every exported method enqueues a closure onto jobs and
// blocks for its result, so all state mutation happens on the run()
// goroutine regardless of which goroutine called in.
type Participant struct {
	logger zerolog.Logger

	guidPrefix rtps.GuidPrefix
	domainID   uint32
	domainTag  string

	transport transport.Transport
	now       func() time.Time

	matcher   *match.Matcher
	broker    *status.Broker
	discovery *discovery.Engine

	topics      map[string]*Topic
	publishers  map[rtps.EntityId]*Publisher
	subscribers map[rtps.EntityId]*Subscriber
	writers     map[rtps.Guid]*DataWriter
	readers     map[rtps.Guid]*DataReader

	builtinWriters map[rtps.EntityId]*cache.Writer
	builtinReaders map[rtps.EntityId]*cache.Reader
	// builtinReaderLocators is keyed by a built-in writer's entity id and
	// holds the metatraffic locators of every remote built-in reader
	// InstallReaderProxy has reported for it (spec.md §4.5 step (a)).
	builtinReaderLocators map[rtps.EntityId][]rtps.Locator

	entityCounter uint32

	participantListener status.Listener

	jobs              chan func()
	stopCh            chan struct{}
	wg                sync.WaitGroup
	maintenancePeriod time.Duration
}

// New wires every collaborator (matcher, status broker, the eight
// built-in SPDP/SEDP history caches, discovery engine) and returns the
// orchestrator, unstarted.
func New(cfg Config) (*Participant, error) {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	maintenancePeriod := cfg.MaintenancePeriod
	if maintenancePeriod <= 0 {
		maintenancePeriod = defaultMaintenancePeriod
	}

	p := &Participant{
		logger:            log.WithComponent("participant"),
		guidPrefix:        cfg.GuidPrefix,
		domainID:          cfg.DomainId,
		domainTag:         cfg.DomainTag,
		transport:         cfg.Transport,
		now:               now,
		matcher:           match.New(log.WithComponent("participant")),
		broker:            status.NewBroker(),
		topics:            make(map[string]*Topic),
		publishers:        make(map[rtps.EntityId]*Publisher),
		subscribers:       make(map[rtps.EntityId]*Subscriber),
		writers:           make(map[rtps.Guid]*DataWriter),
		readers:           make(map[rtps.Guid]*DataReader),
		builtinWriters:        make(map[rtps.EntityId]*cache.Writer),
		builtinReaders:        make(map[rtps.EntityId]*cache.Reader),
		builtinReaderLocators: make(map[rtps.EntityId][]rtps.Locator),
		jobs:              make(chan func(), 256),
		stopCh:            make(chan struct{}),
		maintenancePeriod: maintenancePeriod,
	}

	p.installBuiltinEndpoints()

	localData := discovery.ParticipantBuiltinTopicData{
		Key:        rtps.InstanceHandleFromGuid(p.guid()),
		GuidPrefix: p.guidPrefix,
	}
	localProxy := discovery.ParticipantProxy{
		ProtocolVersion:           rtps.ProtocolVersion2_4,
		VendorId:                  rtps.VendorIdThisImplementation,
		GuidPrefix:                p.guidPrefix,
		DomainId:                  &cfg.DomainId,
		DomainTag:                 cfg.DomainTag,
		AvailableBuiltinEndpoints: p.availableBuiltinEndpoints(),
		LeaseDuration:             10 * cfg.SPDPPeriod,
	}
	if cfg.Transport != nil {
		localProxy.MetatrafficUnicastLocators = []rtps.Locator{cfg.Transport.DefaultUnicastLocator()}
		localProxy.DefaultUnicastLocators = []rtps.Locator{cfg.Transport.DefaultUnicastLocator()}
		if mc := cfg.Transport.DefaultMulticastLocator(); mc.Kind == rtps.LocatorKindUDPv4 {
			localProxy.MetatrafficMulticastLocators = []rtps.Locator{mc}
		}
	}
	if localProxy.LeaseDuration <= 0 {
		localProxy.LeaseDuration = 10 * discoveryDefaultSPDPPeriod
	}

	p.discovery = discovery.New(discovery.Config{
		Local:          discovery.LocalParticipant{Data: localData, Proxy: localProxy},
		DomainId:       cfg.DomainId,
		Matcher:        p.matcher,
		Announcer:      p,
		ProxyInstaller: p,
		LocalTopics:    p,
		SPDPPeriod:          cfg.SPDPPeriod,
		Now:                 now,
		OnInconsistentTopic: p.handleInconsistentTopic,
	})

	return p, nil
}

// handleInconsistentTopic bumps the local topic's INCONSISTENT_TOPIC
// status and delivers it to whichever listener (topic, else participant)
// is mask-subscribed (spec.md §4.5/§4.4).
func (p *Participant) handleInconsistentTopic(remote discovery.TopicBuiltinTopicData) {
	t, ok := p.topics[remote.Name]
	if !ok {
		return
	}
	t.Tracker.BumpInconsistentTopic()
	status.Chain{Entity: t.StatusListener, Participant: p.participantListener}.Deliver(status.Event{
		Entity: rtps.Guid{Prefix: p.guidPrefix, Entity: t.ID},
		Kind:   status.InconsistentTopic,
		Value:  t.Tracker.ReadInconsistentTopic(),
	})
}

// SetParticipantListener installs the participant-level fallback listener
// spec.md §4.4's three-level fan-out terminates at.
func (p *Participant) SetParticipantListener(l status.Listener) {
	p.submit(func() { p.participantListener = l })
}

// discoveryDefaultSPDPPeriod mirrors pkg/discovery's unexported default,
// used only to size a sane lease duration when the caller leaves
// SPDPPeriod at zero.
const discoveryDefaultSPDPPeriod = 5 * time.Second

func (p *Participant) guid() rtps.Guid {
	return rtps.Guid{Prefix: p.guidPrefix, Entity: rtps.EntityIdParticipant}
}

// nextEntityKey mints the 3-byte per-participant counter NewEntityId
// needs.
func (p *Participant) nextEntityKey() [3]byte {
	p.entityCounter++
	v := p.entityCounter
	return [3]byte{byte(v >> 16), byte(v >> 8), byte(v)}
}

// availableBuiltinEndpoints reports the fixed bitmask this implementation
// always advertises: it carries all eight SPDP/SEDP built-in endpoints.
func (p *Participant) availableBuiltinEndpoints() uint32 {
	return uint32(discovery.BuiltinEndpointParticipantAnnouncer) |
		uint32(discovery.BuiltinEndpointParticipantDetector) |
		uint32(discovery.BuiltinEndpointPublicationsAnnouncer) |
		uint32(discovery.BuiltinEndpointPublicationsDetector) |
		uint32(discovery.BuiltinEndpointSubscriptionsAnnouncer) |
		uint32(discovery.BuiltinEndpointSubscriptionsDetector) |
		uint32(discovery.BuiltinEndpointTopicsAnnouncer) |
		uint32(discovery.BuiltinEndpointTopicsDetector)
}

// Start launches the mailbox goroutine, the maintenance ticker, the
// discovery engine, and the transport read loop (spec.md §5: the
// transport reader and timer drivers run as parallel tasks that post
// mail; only the mailbox goroutine itself mutates participant state).
func (p *Participant) Start() error {
	p.wg.Add(1)
	go p.run()

	p.wg.Add(1)
	go p.runMaintenance()

	p.discovery.Start()

	if p.transport != nil {
		if err := p.transport.Start(p.onReceive); err != nil {
			return err
		}
	}

	p.broker.Start()
	metrics.ParticipantsTotal.Inc()
	p.logger.Info().Str("guid", p.guid().String()).Msg("participant started")
	return nil
}

// Stop halts the mailbox and maintenance goroutines and waits for them,
// then stops the discovery engine, the status broker and the transport.
func (p *Participant) Stop() error {
	close(p.stopCh)
	p.wg.Wait()

	p.discovery.Stop()
	p.broker.Stop()
	metrics.ParticipantsTotal.Dec()

	if p.transport != nil {
		return p.transport.Stop()
	}
	return nil
}

// run drains the mailbox until stopCh closes. Every enqueued job is a
// closure that already knows how to report its own result; run only
// needs to invoke it.
func (p *Participant) run() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobs:
			metrics.MailboxQueueDepth.Set(float64(len(p.jobs)))
			timer := metrics.NewTimer()
			job()
			timer.ObserveDurationVec(metrics.MailProcessingDuration, "mail")
		case <-p.stopCh:
			return
		}
	}
}

// submit posts job onto the mailbox and blocks until it has run on the
// owner goroutine, giving every exported method spec.md §5's
// linearisability guarantee. Returns false if the participant is
// stopping and the job could not be delivered.
func (p *Participant) submit(job func()) bool {
	done := make(chan struct{})
	wrapped := func() {
		job()
		close(done)
	}
	select {
	case p.jobs <- wrapped:
	case <-p.stopCh:
		return false
	}
	select {
	case <-done:
		return true
	case <-p.stopCh:
		return false
	}
}

// post enqueues a fire-and-forget job (used by the transport read loop
// and the maintenance ticker, neither of which waits for a reply).
func (p *Participant) post(job func()) {
	select {
	case p.jobs <- job:
	case <-p.stopCh:
	}
}

// Broker exposes the status event bus for listener-delivery subscribers.
func (p *Participant) Broker() *status.Broker { return p.broker }

// qosOrDefault resolves a create_* call's optional QoS argument:
// qos.Policies isn't comparable to its zero value (DataRepresentation and
// Partition both hold slices), so "use the default" is spelled as a nil
// pointer rather than a zero-value sentinel.
func qosOrDefault(requested *qos.Policies) qos.Policies {
	if requested == nil {
		return qos.Default()
	}
	return *requested
}

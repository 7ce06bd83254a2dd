package participant

import (
	"bytes"
	"encoding/gob"

	"github.com/lattice-dds/rtps/pkg/cache"
	"github.com/lattice-dds/rtps/pkg/discovery"
	"github.com/lattice-dds/rtps/pkg/qos"
	"github.com/lattice-dds/rtps/pkg/rtps"
	"github.com/lattice-dds/rtps/pkg/status"
)

// spdpQoS and sedpQoS are the fixed QoS profiles spec.md §4.5 assigns the
// built-in endpoints: SPDP is BestEffort since it is a periodic heartbeat
// that tolerates loss, SEDP is Reliable since endpoint/topic data must
// eventually arrive exactly once per change.
func spdpQoS() qos.Policies {
	p := qos.Default()
	p.Reliability.Kind = qos.BestEffort
	p.Durability.Kind = qos.TransientLocal
	p.History = qos.History{Kind: qos.KeepLast, Depth: 1}
	return p
}

func sedpQoS() qos.Policies {
	p := qos.Default()
	p.Reliability.Kind = qos.Reliable
	p.Durability.Kind = qos.TransientLocal
	p.History = qos.History{Kind: qos.KeepLast, Depth: 1}
	return p
}

// builtinTopic pairs each of the four built-in topics with its
// well-known writer/reader entity ids (spec.md §6).
type builtinTopic struct {
	writerId rtps.EntityId
	readerId rtps.EntityId
	qos      qos.Policies
}

func builtinTopics() []builtinTopic {
	return []builtinTopic{
		{rtps.EntityIdSPDPBuiltinParticipantWriter, rtps.EntityIdSPDPBuiltinParticipantReader, spdpQoS()},
		{rtps.EntityIdSEDPBuiltinPublicationsWriter, rtps.EntityIdSEDPBuiltinPublicationsReader, sedpQoS()},
		{rtps.EntityIdSEDPBuiltinSubscriptionsWriter, rtps.EntityIdSEDPBuiltinSubscriptionsReader, sedpQoS()},
		{rtps.EntityIdSEDPBuiltinTopicsWriter, rtps.EntityIdSEDPBuiltinTopicsReader, sedpQoS()},
	}
}

// installBuiltinEndpoints creates the writer/reader history cache pair
// backing each of the four built-in topics (spec.md §4.5). Built-in
// caches never block on acknowledgement (acked: nil) — this
// implementation's reliability protocol delivers SEDP data best-effort
// over the metatraffic channel rather than running a full HEARTBEAT/
// ACKNACK handshake for its own bootstrap traffic (see DESIGN.md).
func (p *Participant) installBuiltinEndpoints() {
	for _, bt := range builtinTopics() {
		tracker := status.NewTracker()
		p.builtinWriters[bt.writerId] = cache.NewWriter(
			rtps.Guid{Prefix: p.guidPrefix, Entity: bt.writerId}, bt.qos, true, tracker, p.now, nil,
		)
		p.builtinReaders[bt.readerId] = cache.NewReader(
			rtps.Guid{Prefix: p.guidPrefix, Entity: bt.readerId}, bt.qos, tracker,
		)
	}
}

// encodeBuiltin and decodeBuiltin stand in for the IDL/CDR type
// serialiser spec.md §1 names as out of scope: built-in topic data still
// has to cross the wire for SPDP/SEDP to function (in-scope discovery),
// so this package gob-encodes the Go structs directly into the Data
// submessage's Payload rather than hand-rolling a CDR encoder for five
// specific struct shapes (see DESIGN.md).
func encodeBuiltin(v any) []byte {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func decodeBuiltin(payload []byte, out any) error {
	return gob.NewDecoder(bytes.NewReader(payload)).Decode(out)
}

// sendBuiltin writes a single change through writerId's built-in writer
// cache and transmits it to every known reader (falling back to the
// transport's default multicast locator before any peer is known — the
// same address SPDP detection listens on).
func (p *Participant) sendBuiltin(writerId rtps.EntityId, readerId rtps.EntityId, handle rtps.InstanceHandle, payload []byte) {
	w, ok := p.builtinWriters[writerId]
	if !ok || p.transport == nil {
		return
	}
	sn, err := w.WriteWithTimestamp(handle, payload, p.now())
	if err != nil {
		p.logger.Warn().Err(err).Str("writer", writerId.String()).Msg("built-in write failed")
		return
	}
	msg := rtps.Message{
		Header: rtps.MessageHeader{
			ProtocolVersion: rtps.ProtocolVersion2_4,
			VendorId:        rtps.VendorIdThisImplementation,
			GuidPrefix:      p.guidPrefix,
		},
		Submessages: []rtps.Submessage{rtps.Data{
			ReaderId:    readerId,
			WriterId:    writerId,
			WriterSn:    sn,
			PayloadKind: rtps.PayloadData,
			Payload:     payload,
		}},
	}

	locators := p.builtinReaderLocators[writerId]
	if len(locators) == 0 {
		locators = []rtps.Locator{p.transport.DefaultMulticastLocator()}
	}
	for _, loc := range locators {
		if err := p.transport.Send(loc, msg); err != nil {
			p.logger.Debug().Err(err).Str("locator", loc.String()).Msg("built-in send failed")
		}
	}
}

// AnnounceParticipant implements discovery.Announcer.
func (p *Participant) AnnounceParticipant(data discovery.ParticipantBuiltinTopicData, proxy discovery.ParticipantProxy) {
	p.sendBuiltin(rtps.EntityIdSPDPBuiltinParticipantWriter, rtps.EntityIdSPDPBuiltinParticipantReader,
		data.Key, encodeBuiltin(spdpPayload{Data: data, Proxy: proxy}))
}

// AnnounceWriter implements discovery.Announcer.
func (p *Participant) AnnounceWriter(data discovery.PublicationBuiltinTopicData) {
	p.sendBuiltin(rtps.EntityIdSEDPBuiltinPublicationsWriter, rtps.EntityIdSEDPBuiltinPublicationsReader,
		data.Key, encodeBuiltin(data))
}

// AnnounceReader implements discovery.Announcer.
func (p *Participant) AnnounceReader(data discovery.SubscriptionBuiltinTopicData) {
	p.sendBuiltin(rtps.EntityIdSEDPBuiltinSubscriptionsWriter, rtps.EntityIdSEDPBuiltinSubscriptionsReader,
		data.Key, encodeBuiltin(data))
}

// AnnounceTopic implements discovery.Announcer.
func (p *Participant) AnnounceTopic(data discovery.TopicBuiltinTopicData) {
	p.sendBuiltin(rtps.EntityIdSEDPBuiltinTopicsWriter, rtps.EntityIdSEDPBuiltinTopicsReader,
		data.Key, encodeBuiltin(data))
}

// spdpPayload bundles the two halves of an SPDP announcement into one
// wire payload.
type spdpPayload struct {
	Data  discovery.ParticipantBuiltinTopicData
	Proxy discovery.ParticipantProxy
}

// InstallWriterProxy implements discovery.ProxyInstaller: it records that
// a remote writer exists for localEntity's built-in reader. Reception of
// built-in traffic is dispatched purely by destination entity id (see
// onReceive), so no further bookkeeping is required for inbound routing;
// this is logged for introspection only.
func (p *Participant) InstallWriterProxy(localEntity rtps.EntityId, proxy discovery.WriterProxy) {
	p.logger.Debug().
		Str("local_reader", localEntity.String()).
		Str("remote_writer", proxy.Guid.String()).
		Msg("installed built-in writer proxy")
}

// InstallReaderProxy implements discovery.ProxyInstaller: it records the
// metatraffic locators of a remote built-in reader so the corresponding
// local built-in writer (the peer of localEntity) knows where to send
// its announcements, instead of relying solely on multicast.
func (p *Participant) InstallReaderProxy(localEntity rtps.EntityId, proxy discovery.ReaderProxy) {
	writerId := localEntity
	locators := append(append([]rtps.Locator{}, proxy.UnicastLocators...), proxy.MulticastLocators...)
	if len(locators) == 0 {
		return
	}
	existing := p.builtinReaderLocators[writerId]
	for _, loc := range locators {
		if !containsLocator(existing, loc) {
			existing = append(existing, loc)
		}
	}
	p.builtinReaderLocators[writerId] = existing
}

func containsLocator(set []rtps.Locator, loc rtps.Locator) bool {
	for _, l := range set {
		if l == loc {
			return true
		}
	}
	return false
}

// LocalTopics implements discovery.LocalTopicLister.
func (p *Participant) LocalTopics(name, typeName string) []discovery.TopicBuiltinTopicData {
	t, ok := p.topics[name]
	if !ok || t.TypeName != typeName {
		return nil
	}
	return []discovery.TopicBuiltinTopicData{{
		Key:      rtps.InstanceHandleFromGuid(rtps.Guid{Prefix: p.guidPrefix, Entity: t.ID}),
		Name:     t.Name,
		TypeName: t.TypeName,
		Policies: t.Policies,
	}}
}

// onReceive is the transport.ReceiveFunc handed to Start: it posts a
// fire-and-forget mail that dispatches the decoded message on the owner
// goroutine (spec.md §5: "the transport reader... pushes decoded
// submessages into the mailbox").
func (p *Participant) onReceive(src rtps.Locator, msg rtps.Message) {
	p.post(func() { p.dispatchMessage(msg) })
}

// dispatchMessage runs on the mailbox goroutine: it routes each DATA
// submessage to the matching built-in or user reader cache by
// destination entity id, and feeds built-in arrivals into the discovery
// engine (spec.md §4: "dispatched to the matching built-in or user
// reader cache by destination entity-id").
func (p *Participant) dispatchMessage(msg rtps.Message) {
	for _, sub := range msg.Submessages {
		data, ok := sub.(rtps.Data)
		if !ok {
			continue
		}
		p.dispatchData(msg.Header.GuidPrefix, data)
	}
}

func (p *Participant) dispatchData(srcPrefix rtps.GuidPrefix, data rtps.Data) {
	switch data.WriterId {
	case rtps.EntityIdSPDPBuiltinParticipantWriter:
		var payload spdpPayload
		if err := decodeBuiltin(data.Payload, &payload); err != nil {
			return
		}
		if payload.Data.GuidPrefix == p.guidPrefix {
			return
		}
		p.discovery.OnParticipantChange(cache.Alive, payload.Data, payload.Proxy)
		return
	case rtps.EntityIdSEDPBuiltinPublicationsWriter:
		var d discovery.PublicationBuiltinTopicData
		if err := decodeBuiltin(data.Payload, &d); err != nil {
			return
		}
		if d.Guid.Prefix == p.guidPrefix {
			return
		}
		p.discovery.OnWriterChange(cache.Alive, d)
		return
	case rtps.EntityIdSEDPBuiltinSubscriptionsWriter:
		var d discovery.SubscriptionBuiltinTopicData
		if err := decodeBuiltin(data.Payload, &d); err != nil {
			return
		}
		if d.Guid.Prefix == p.guidPrefix {
			return
		}
		p.discovery.OnReaderChange(cache.Alive, d)
		return
	case rtps.EntityIdSEDPBuiltinTopicsWriter:
		var d discovery.TopicBuiltinTopicData
		if err := decodeBuiltin(data.Payload, &d); err != nil {
			return
		}
		p.discovery.OnTopicChange(cache.Alive, d)
		return
	}

	// Otherwise this is user data addressed to one of our DataReaders.
	p.dispatchUserData(srcPrefix, data)
}

// dispatchUserData feeds an inbound user DATA submessage into the
// matching local reader's cache, deriving an instance handle from the
// key-hash inline QoS parameter when present, else from the writer's
// identity (unkeyed topics have exactly one instance).
func (p *Participant) dispatchUserData(srcPrefix rtps.GuidPrefix, data rtps.Data) {
	writerGuid := rtps.Guid{Prefix: srcPrefix, Entity: data.WriterId}
	for _, r := range p.readers {
		if r.Guid.Entity != data.ReaderId {
			continue
		}
		handle := instanceHandleFromData(writerGuid, data, r)
		change := cache.ChangeRecord{
			Kind:            changeKindFromPayloadKind(data.PayloadKind),
			WriterGuid:      writerGuid,
			InstanceHandle:  handle,
			SequenceNumber:  data.WriterSn,
			SourceTimestamp: p.now(),
			Payload:         data.Payload,
		}
		strength := int32(0)
		if wp, ok := r.matchedWriters[change.WriterGuid]; ok {
			strength = wp.ownershipStrength
		}
		r.Cache.AddChange(change, p.now(), cache.WriterOwnership{Strength: strength})
		return
	}
}

func instanceHandleFromData(writerGuid rtps.Guid, data rtps.Data, r *DataReader) rtps.InstanceHandle {
	if !r.Topic.Keyed {
		return rtps.InstanceHandle{}
	}
	if data.InlineQos != nil && data.InlineQos.KeyHash != nil {
		return *data.InlineQos.KeyHash
	}
	return rtps.InstanceHandleFromGuid(writerGuid)
}

func changeKindFromPayloadKind(k rtps.PayloadKind) cache.ChangeKind {
	if k == rtps.PayloadKey {
		return cache.NotAliveDisposed
	}
	return cache.Alive
}

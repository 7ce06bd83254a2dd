package participant

import (
	"time"

	"github.com/lattice-dds/rtps/pkg/cache"
	"github.com/lattice-dds/rtps/pkg/ddserror"
	"github.com/lattice-dds/rtps/pkg/discovery"
	"github.com/lattice-dds/rtps/pkg/match"
	"github.com/lattice-dds/rtps/pkg/metrics"
	"github.com/lattice-dds/rtps/pkg/qos"
	"github.com/lattice-dds/rtps/pkg/rtps"
	"github.com/lattice-dds/rtps/pkg/status"
)

func reliabilityLabel(p qos.Policies) string {
	if p.Reliability.Kind == qos.Reliable {
		return "reliable"
	}
	return "best_effort"
}

// entityKindTopic is a local-only entity kind byte: topics never appear
// on the wire by GUID (only by name/type in SEDP's TopicBuiltinTopicData),
// so this only needs to be distinct from the writer/reader/group kinds
// pkg/rtps reserves.
const entityKindTopic byte = 0xa0

// CreateTopic creates or re-references a topic by name (spec.md §3). A
// second create_topic call for the same name must agree on type name;
// disagreement is BadParameter. Each call increments the topic's
// reference count, mirroring the "deleted only when no endpoint still
// holds a reference" rule for create_topic handles themselves.
func (p *Participant) CreateTopic(name, typeName string, keyed bool, policies *qos.Policies) (*Topic, error) {
	var result *Topic
	var err error
	p.submit(func() {
		if t, ok := p.topics[name]; ok {
			if t.TypeName != typeName {
				err = ddserror.New(ddserror.BadParameter)
				return
			}
			t.refCount++
			result = t
			return
		}
		t := &Topic{
			ID:       rtps.NewEntityId(p.nextEntityKey(), entityKindTopic),
			Name:     name,
			TypeName: typeName,
			Keyed:    keyed,
			Policies: qosOrDefault(policies),
			Tracker:  status.NewTracker(),
			refCount: 1,
		}
		p.topics[name] = t
		result = t
	})
	return result, err
}

// DeleteTopic drops a reference; the topic is removed once no reference
// remains.
func (p *Participant) DeleteTopic(t *Topic) error {
	var err error
	p.submit(func() {
		cur, ok := p.topics[t.Name]
		if !ok || cur != t {
			err = ddserror.New(ddserror.AlreadyDeleted)
			return
		}
		cur.refCount--
		if cur.refCount <= 0 {
			delete(p.topics, t.Name)
		}
	})
	return err
}

// CreatePublisher creates a new, initially-disabled publisher.
func (p *Participant) CreatePublisher() *Publisher {
	var result *Publisher
	p.submit(func() {
		pub := &Publisher{
			ID:      rtps.NewEntityId(p.nextEntityKey(), rtps.EntityKindWriterGroup),
			writers: make(map[rtps.Guid]*DataWriter),
		}
		p.publishers[pub.ID] = pub
		result = pub
	})
	return result
}

// CreateSubscriber creates a new, initially-disabled subscriber.
func (p *Participant) CreateSubscriber() *Subscriber {
	var result *Subscriber
	p.submit(func() {
		sub := &Subscriber{
			ID:      rtps.NewEntityId(p.nextEntityKey(), rtps.EntityKindReaderGroup),
			readers: make(map[rtps.Guid]*DataReader),
		}
		p.subscribers[sub.ID] = sub
		result = sub
	})
	return result
}

// DeletePublisher requires the publisher to own no writers.
func (p *Participant) DeletePublisher(pub *Publisher) error {
	var err error
	p.submit(func() {
		if len(pub.writers) > 0 {
			err = ddserror.Newf(ddserror.PreconditionNotMet, "publisher %s still owns %d writers", pub.ID, len(pub.writers))
			return
		}
		delete(p.publishers, pub.ID)
	})
	return err
}

// DeleteSubscriber requires the subscriber to own no readers.
func (p *Participant) DeleteSubscriber(sub *Subscriber) error {
	var err error
	p.submit(func() {
		if len(sub.readers) > 0 {
			err = ddserror.Newf(ddserror.PreconditionNotMet, "subscriber %s still owns %d readers", sub.ID, len(sub.readers))
			return
		}
		delete(p.subscribers, sub.ID)
	})
	return err
}

// CreateDataWriter binds a new, initially-disabled writer to pub and
// topic.
func (p *Participant) CreateDataWriter(pub *Publisher, topic *Topic, policies *qos.Policies) *DataWriter {
	var result *DataWriter
	p.submit(func() {
		kind := rtps.EntityKindWriterNoKey
		if topic.Keyed {
			kind = rtps.EntityKindWriterWithKey
		}
		guid := rtps.Guid{Prefix: p.guidPrefix, Entity: rtps.NewEntityId(p.nextEntityKey(), kind)}
		pol := qosOrDefault(policies)
		w := &DataWriter{
			Guid:           guid,
			Topic:          topic,
			Publisher:      pub,
			Policies:       pol,
			Tracker:        status.NewTracker(),
			matchedReaders: make(map[rtps.Guid]readerProxy),
		}
		w.Cache = cache.NewWriter(guid, pol, topic.Keyed, w.Tracker, p.now, p.ackCheckerFor(w))
		topic.refCount++
		pub.writers[guid] = w
		p.writers[guid] = w
		metrics.WritersTotal.WithLabelValues(reliabilityLabel(pol)).Inc()
		result = w
	})
	return result
}

// CreateDataReader binds a new, initially-disabled reader to sub and
// topic.
func (p *Participant) CreateDataReader(sub *Subscriber, topic *Topic, policies *qos.Policies) *DataReader {
	var result *DataReader
	p.submit(func() {
		kind := rtps.EntityKindReaderNoKey
		if topic.Keyed {
			kind = rtps.EntityKindReaderWithKey
		}
		guid := rtps.Guid{Prefix: p.guidPrefix, Entity: rtps.NewEntityId(p.nextEntityKey(), kind)}
		pol := qosOrDefault(policies)
		r := &DataReader{
			Guid:           guid,
			Topic:          topic,
			Subscriber:     sub,
			Policies:       pol,
			Tracker:        status.NewTracker(),
			matchedWriters: make(map[rtps.Guid]writerProxy),
		}
		r.Cache = cache.NewReader(guid, pol, r.Tracker)
		topic.refCount++
		sub.readers[guid] = r
		p.readers[guid] = r
		metrics.ReadersTotal.WithLabelValues(reliabilityLabel(pol)).Inc()
		result = r
	})
	return result
}

// DeleteDataWriter requires the writer be disabled or have no matched
// readers left pending acknowledgement; this implementation only checks
// entity bookkeeping (spec.md leaves teardown-under-reliability racing to
// the transport layer, out of this package's scope).
func (p *Participant) DeleteDataWriter(w *DataWriter) error {
	var err error
	p.submit(func() {
		if _, ok := p.writers[w.Guid]; !ok {
			err = ddserror.New(ddserror.AlreadyDeleted)
			return
		}
		p.matcher.RemoveWriter(w.Guid)
		delete(p.writers, w.Guid)
		delete(w.Publisher.writers, w.Guid)
		w.Topic.refCount--
		metrics.WritersTotal.WithLabelValues(reliabilityLabel(w.Policies)).Dec()
	})
	return err
}

// DeleteDataReader mirrors DeleteDataWriter.
func (p *Participant) DeleteDataReader(r *DataReader) error {
	var err error
	p.submit(func() {
		if _, ok := p.readers[r.Guid]; !ok {
			err = ddserror.New(ddserror.AlreadyDeleted)
			return
		}
		p.matcher.RemoveReader(r.Guid)
		delete(p.readers, r.Guid)
		delete(r.Subscriber.readers, r.Guid)
		r.Topic.refCount--
		metrics.ReadersTotal.WithLabelValues(reliabilityLabel(r.Policies)).Dec()
	})
	return err
}

// EnableDataWriter enables the writer, registers it with the matcher
// (evaluated against every currently-discovered reader per spec.md
// §4.4(a)), and announces it over SEDP.
func (p *Participant) EnableDataWriter(w *DataWriter) error {
	var err error
	p.submit(func() {
		if w.Enabled {
			return
		}
		w.Enabled = true
		p.matcher.AddWriter(match.Endpoint{
			Guid:     w.Guid,
			Topic:    w.Topic.Name,
			TypeName: w.Topic.TypeName,
			Policies: w.Policies,
			Listeners: match.Listeners{
				Entity: w.Listener,
				Group:  w.Publisher.Listener,
			},
			// The Tracker's PUBLICATION_MATCHED/OFFERED_INCOMPATIBLE_QOS
			// counters must move on every transition, whether or not the
			// application installed a Listener above.
			OnMatched: func(remote rtps.Guid) {
				w.Tracker.BumpPublicationMatched(1, rtps.InstanceHandleFromGuid(remote))
			},
			OnUnmatched: func(remote rtps.Guid) {
				w.Tracker.BumpPublicationMatched(-1, rtps.InstanceHandleFromGuid(remote))
			},
			OnIncompatibleQos: func(policy qos.PolicyId) {
				w.Tracker.BumpOfferedIncompatibleQos(policy)
			},
		})
		p.discovery.AnnounceLocalWriter(discovery.PublicationBuiltinTopicData{
			Key:            rtps.InstanceHandleFromGuid(w.Guid),
			ParticipantKey: rtps.InstanceHandleFromGuid(p.guid()),
			Guid:           w.Guid,
			Topic:          w.Topic.Name,
			TypeName:       w.Topic.TypeName,
			Policies:       w.Policies,
			UnicastLocators: unicastSelfLocators(p.transport),
		})
	})
	return err
}

// EnableDataReader mirrors EnableDataWriter.
func (p *Participant) EnableDataReader(r *DataReader) error {
	var err error
	p.submit(func() {
		if r.Enabled {
			return
		}
		r.Enabled = true
		p.matcher.AddReader(match.Endpoint{
			Guid:     r.Guid,
			Topic:    r.Topic.Name,
			TypeName: r.Topic.TypeName,
			Policies: r.Policies,
			Listeners: match.Listeners{
				Entity: r.Listener,
				Group:  r.Subscriber.Listener,
			},
			// Mirrors the writer side: SUBSCRIPTION_MATCHED/
			// REQUESTED_INCOMPATIBLE_QOS must update regardless of Listener.
			OnMatched: func(remote rtps.Guid) {
				r.Tracker.BumpSubscriptionMatched(1, rtps.InstanceHandleFromGuid(remote))
			},
			OnUnmatched: func(remote rtps.Guid) {
				r.Tracker.BumpSubscriptionMatched(-1, rtps.InstanceHandleFromGuid(remote))
			},
			OnIncompatibleQos: func(policy qos.PolicyId) {
				r.Tracker.BumpRequestedIncompatibleQos(policy)
			},
		})
		p.discovery.AnnounceLocalReader(discovery.SubscriptionBuiltinTopicData{
			Key:            rtps.InstanceHandleFromGuid(r.Guid),
			ParticipantKey: rtps.InstanceHandleFromGuid(p.guid()),
			Guid:           r.Guid,
			Topic:          r.Topic.Name,
			TypeName:       r.Topic.TypeName,
			Policies:       r.Policies,
			UnicastLocators: unicastSelfLocators(p.transport),
		})
	})
	return err
}

func unicastSelfLocators(t interface {
	DefaultUnicastLocator() rtps.Locator
}) []rtps.Locator {
	if t == nil {
		return nil
	}
	return []rtps.Locator{t.DefaultUnicastLocator()}
}

// ackCheckerFor returns the AckChecker a writer cache uses to decide
// whether a sequence number is fully acknowledged. This package does not
// yet parse inbound ACKNACK submessages, so every writer — reliable or
// not — passes nil, which cache.Writer documents as "treat every change
// as acknowledged". wait_for_acknowledgments therefore returns
// immediately; tightening this requires wiring an ACKNACK receive path
// in builtin.go's dispatch, left for a future pass.
func (p *Participant) ackCheckerFor(w *DataWriter) cache.AckChecker {
	return nil
}

// Write runs write_with_timestamp (spec.md §4.2) and, on success, sends
// the resulting change as a DATA submessage to every matched reader.
func (p *Participant) Write(w *DataWriter, payload []byte, handle rtps.InstanceHandle, ts time.Time) (rtps.SequenceNumber, error) {
	var sn rtps.SequenceNumber
	var err error
	p.submit(func() {
		if !w.Enabled {
			err = ddserror.New(ddserror.NotEnabled)
			return
		}
		sn, err = w.Cache.WriteWithTimestamp(handle, payload, ts)
		if err != nil {
			return
		}
		p.sendUserData(w, rtps.Data{
			WriterId:    w.Guid.Entity,
			WriterSn:    sn,
			PayloadKind: rtps.PayloadData,
			Payload:     payload,
		})
	})
	return sn, err
}

// Dispose runs dispose_with_timestamp and propagates a key-only DATA
// submessage to matched readers.
func (p *Participant) Dispose(w *DataWriter, handle rtps.InstanceHandle, ts time.Time) error {
	return p.writeNotAlive(w, handle, ts, w.Cache.DisposeWithTimestamp)
}

// Unregister runs unregister_with_timestamp, mirroring Dispose.
func (p *Participant) Unregister(w *DataWriter, handle rtps.InstanceHandle, ts time.Time) error {
	return p.writeNotAlive(w, handle, ts, w.Cache.UnregisterWithTimestamp)
}

func (p *Participant) writeNotAlive(w *DataWriter, handle rtps.InstanceHandle, ts time.Time, op func(rtps.InstanceHandle, time.Time) error) error {
	var err error
	p.submit(func() {
		if !w.Enabled {
			err = ddserror.New(ddserror.NotEnabled)
			return
		}
		err = op(handle, ts)
		if err != nil {
			return
		}
		p.sendUserData(w, rtps.Data{
			WriterId:    w.Guid.Entity,
			PayloadKind: rtps.PayloadKey,
		})
	})
	return err
}

// sendUserData transmits data to every matched reader's advertised
// unicast locators, falling back to its multicast locators and then to
// the transport's default multicast locator if none were advertised
// (spec.md §3: "inherited from participant defaults if empty").
func (p *Participant) sendUserData(w *DataWriter, data rtps.Data) {
	if p.transport == nil {
		return
	}
	msg := rtps.Message{
		Header: rtps.MessageHeader{
			ProtocolVersion: rtps.ProtocolVersion2_4,
			VendorId:        rtps.VendorIdThisImplementation,
			GuidPrefix:      p.guidPrefix,
		},
		Submessages: []rtps.Submessage{data},
	}
	for readerGuid, proxy := range w.matchedReaders {
		data.ReaderId = readerGuid.Entity
		msg.Submessages = []rtps.Submessage{data}
		locators := proxy.unicast
		if len(locators) == 0 {
			locators = proxy.multicast
		}
		if len(locators) == 0 && p.transport != nil {
			locators = []rtps.Locator{p.transport.DefaultMulticastLocator()}
		}
		for _, loc := range locators {
			if err := p.transport.Send(loc, msg); err != nil {
				p.logger.Debug().Err(err).Str("locator", loc.String()).Msg("user data send failed")
			}
		}
	}
}

// Read runs the reader cache's read operation.
func (p *Participant) Read(r *DataReader, filter cache.Filter) ([]cache.SampleInfo, error) {
	var out []cache.SampleInfo
	var err error
	p.submit(func() {
		if !r.Enabled {
			err = ddserror.New(ddserror.NotEnabled)
			return
		}
		out, err = r.Cache.Read(filter)
	})
	return out, err
}

// Take runs the reader cache's take operation.
func (p *Participant) Take(r *DataReader, filter cache.Filter) ([]cache.SampleInfo, error) {
	var out []cache.SampleInfo
	var err error
	p.submit(func() {
		if !r.Enabled {
			err = ddserror.New(ddserror.NotEnabled)
			return
		}
		out, err = r.Cache.Take(filter)
	})
	return out, err
}

// WaitForAcknowledgments loops an internal "are all changes
// acknowledged?" query against a wall-clock deadline, per spec.md §4.6's
// "races a timer-delay against the completion loop".
func (p *Participant) WaitForAcknowledgments(w *DataWriter, timeout time.Duration) error {
	deadline := p.now().Add(timeout)
	for {
		var done bool
		p.submit(func() { done = w.Cache.AreAllChangesAcknowledged() })
		if done {
			return nil
		}
		if p.now().After(deadline) {
			return ddserror.New(ddserror.Timeout)
		}
		time.Sleep(time.Millisecond)
	}
}

// WaitForHistoricalData loops is_historical_data_received against a
// deadline. This package has no durability handshake of its own (see
// pkg/cache's IsHistoricalDataReceived doc comment), so "received" is
// reported true once the reader has at least one matched writer —
// documented in DESIGN.md as a deliberate simplification.
func (p *Participant) WaitForHistoricalData(r *DataReader, maxWait time.Duration) error {
	deadline := p.now().Add(maxWait)
	for {
		var done bool
		var err error
		p.submit(func() {
			received := len(r.matchedWriters) > 0
			done, err = r.Cache.IsHistoricalDataReceived(received)
		})
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if p.now().After(deadline) {
			return ddserror.New(ddserror.Timeout)
		}
		time.Sleep(time.Millisecond)
	}
}

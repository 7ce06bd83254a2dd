package match

import (
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lattice-dds/rtps/pkg/metrics"
	"github.com/lattice-dds/rtps/pkg/qos"
	"github.com/lattice-dds/rtps/pkg/rtps"
)

// Listener receives match-state transitions for one entity. Fan-out picks
// at most one listener per event: the entity's own, else its publisher's
// or subscriber's, else the participant's (spec.md §4.4).
type Listener interface {
	OnMatched(local, remote rtps.Guid)
	OnUnmatched(local, remote rtps.Guid)
	OnIncompatibleQos(local rtps.Guid, policy qos.PolicyId)
}

// Listeners is the three-level fan-out chain attached to one endpoint.
type Listeners struct {
	Entity      Listener
	Group       Listener
	Participant Listener
}

func (l Listeners) fire(f func(Listener)) {
	for _, ln := range []Listener{l.Entity, l.Group, l.Participant} {
		if ln != nil {
			f(ln)
			return
		}
	}
}

// Endpoint is the subset of a DataWriter/DataReader's state the matching
// engine needs: identity, topic/type binding, QoS, and listener chain.
//
// OnMatched, OnUnmatched and OnIncompatibleQos are separate from Listeners:
// Listeners is the optional application-facing fan-out (spec.md §4.4),
// while these hooks are how the owning DataWriter/DataReader keeps its own
// status.Tracker counters correct. They fire on every transition regardless
// of whether an application installed a Listener.
type Endpoint struct {
	Guid      rtps.Guid
	Topic     string
	TypeName  string
	Policies  qos.Policies
	Listeners Listeners

	OnMatched         func(remote rtps.Guid)
	OnUnmatched       func(remote rtps.Guid)
	OnIncompatibleQos func(policy qos.PolicyId)
}

type matchKey struct {
	writer rtps.Guid
	reader rtps.Guid
}

// Matcher evaluates every (writer, reader) pair reactively, on the three
// triggers spec.md §4.4 names: a local endpoint being enabled, a remote
// endpoint being discovered, and a remote endpoint being removed. It keeps
// the set of currently-matched pairs so removal and requery only touch
// what changed, the way cuemby-warren's scheduler only mutates the
// containers that moved between desired and actual state.
type Matcher struct {
	mu      sync.RWMutex
	logger  zerolog.Logger
	writers map[rtps.Guid]Endpoint
	readers map[rtps.Guid]Endpoint
	matched map[matchKey]struct{}
}

func New(logger zerolog.Logger) *Matcher {
	return &Matcher{
		logger:  logger.With().Str("component", "match").Logger(),
		writers: make(map[rtps.Guid]Endpoint),
		readers: make(map[rtps.Guid]Endpoint),
		matched: make(map[matchKey]struct{}),
	}
}

// AddWriter registers or updates a local/discovered writer and evaluates it
// against every known reader.
func (m *Matcher) AddWriter(ep Endpoint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writers[ep.Guid] = ep
	for _, r := range m.readers {
		m.evaluate(ep, r)
	}
}

// AddReader registers or updates a local/discovered reader and evaluates it
// against every known writer.
func (m *Matcher) AddReader(ep Endpoint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readers[ep.Guid] = ep
	for _, w := range m.writers {
		m.evaluate(w, ep)
	}
}

// RemoveWriter drops a writer (local delete or discovery loss) and
// unmatches every reader still paired with it.
func (m *Matcher) RemoveWriter(guid rtps.Guid) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.writers[guid]
	if !ok {
		return
	}
	for key := range m.matched {
		if key.writer != guid {
			continue
		}
		r := m.readers[key.reader]
		m.unmatch(w, r, key)
	}
	delete(m.writers, guid)
}

// RemoveReader drops a reader and unmatches every writer still paired
// with it.
func (m *Matcher) RemoveReader(guid rtps.Guid) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.readers[guid]
	if !ok {
		return
	}
	for key := range m.matched {
		if key.reader != guid {
			continue
		}
		w := m.writers[key.writer]
		m.unmatch(w, r, key)
	}
	delete(m.readers, guid)
}

// evaluate runs the full gate (topic/type identity, partition, QoS
// compatibility) for one candidate pair and installs or tears down the
// match as the outcome requires. Caller holds m.mu.
func (m *Matcher) evaluate(w, r Endpoint) {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.MatchingLatency)

	key := matchKey{writer: w.Guid, reader: r.Guid}
	_, wasMatched := m.matched[key]

	if w.Topic != r.Topic || w.TypeName != r.TypeName {
		if wasMatched {
			m.unmatch(w, r, key)
		}
		return
	}
	if !partitionsMatch(w.Policies.Partition.Names, r.Policies.Partition.Names) {
		if wasMatched {
			m.unmatch(w, r, key)
		}
		return
	}

	bad := qos.Compatible(w.Policies, r.Policies)
	if len(bad) > 0 {
		if wasMatched {
			m.unmatch(w, r, key)
		}
		if w.OnIncompatibleQos != nil {
			w.OnIncompatibleQos(bad[0].PolicyId)
		}
		if r.OnIncompatibleQos != nil {
			r.OnIncompatibleQos(bad[0].PolicyId)
		}
		w.Listeners.fire(func(l Listener) { l.OnIncompatibleQos(w.Guid, bad[0].PolicyId) })
		r.Listeners.fire(func(l Listener) { l.OnIncompatibleQos(r.Guid, bad[0].PolicyId) })
		metrics.IncompatibleQosTotal.WithLabelValues(strconv.Itoa(int(bad[0].PolicyId))).Inc()
		m.logger.Debug().
			Str("writer", w.Guid.String()).
			Str("reader", r.Guid.String()).
			Int32("policy", int32(bad[0].PolicyId)).
			Msg("incompatible qos")
		return
	}

	if wasMatched {
		return
	}
	m.matched[key] = struct{}{}
	metrics.MatchedEndpointsTotal.Inc()
	if w.OnMatched != nil {
		w.OnMatched(r.Guid)
	}
	if r.OnMatched != nil {
		r.OnMatched(w.Guid)
	}
	w.Listeners.fire(func(l Listener) { l.OnMatched(w.Guid, r.Guid) })
	r.Listeners.fire(func(l Listener) { l.OnMatched(r.Guid, w.Guid) })
	m.logger.Debug().
		Str("writer", w.Guid.String()).
		Str("reader", r.Guid.String()).
		Msg("matched")
}

func (m *Matcher) unmatch(w, r Endpoint, key matchKey) {
	delete(m.matched, key)
	metrics.MatchedEndpointsTotal.Dec()
	if w.OnUnmatched != nil {
		w.OnUnmatched(r.Guid)
	}
	if r.OnUnmatched != nil {
		r.OnUnmatched(w.Guid)
	}
	w.Listeners.fire(func(l Listener) { l.OnUnmatched(w.Guid, r.Guid) })
	r.Listeners.fire(func(l Listener) { l.OnUnmatched(r.Guid, w.Guid) })
	m.logger.Debug().
		Str("writer", w.Guid.String()).
		Str("reader", r.Guid.String()).
		Msg("unmatched")
}

// Matches returns every reader guid currently matched to writer.
func (m *Matcher) Matches(writer rtps.Guid) []rtps.Guid {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []rtps.Guid
	for key := range m.matched {
		if key.writer == writer {
			out = append(out, key.reader)
		}
	}
	return out
}

// MatchedWriters returns every writer guid currently matched to reader.
func (m *Matcher) MatchedWriters(reader rtps.Guid) []rtps.Guid {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []rtps.Guid
	for key := range m.matched {
		if key.reader == reader {
			out = append(out, key.writer)
		}
	}
	return out
}

package participant

import (
	"github.com/lattice-dds/rtps/pkg/cache"
	"github.com/lattice-dds/rtps/pkg/match"
	"github.com/lattice-dds/rtps/pkg/qos"
	"github.com/lattice-dds/rtps/pkg/rtps"
	"github.com/lattice-dds/rtps/pkg/status"
)

// Topic is a local topic entity. Type-support descriptors are shared by
// reference between a topic and every endpoint bound to it (spec.md §3);
// this package models that sharing with a simple reference count, since
// deletion requires no endpoint still holds a reference.
type Topic struct {
	ID       rtps.EntityId
	Name     string
	TypeName string
	Keyed    bool
	Policies qos.Policies
	Enabled  bool
	refCount int

	Tracker        *status.Tracker
	StatusListener status.Listener
}

// Publisher and Subscriber are the group entities between Participant and
// DataWriter/DataReader. Their Listener/StatusListener fields are the
// "publisher/subscriber listener" level of spec.md §4.4's three-level
// fan-out precedence.
type Publisher struct {
	ID              rtps.EntityId
	Enabled         bool
	Listener        match.Listener
	StatusListener  status.Listener
	writers         map[rtps.Guid]*DataWriter
}

type Subscriber struct {
	ID             rtps.EntityId
	Enabled        bool
	Listener       match.Listener
	StatusListener status.Listener
	readers        map[rtps.Guid]*DataReader
}

// DataWriter binds a writer history cache to a topic, QoS, and listener
// chain.
type DataWriter struct {
	Guid       rtps.Guid
	Topic      *Topic
	Publisher  *Publisher
	Policies   qos.Policies
	Enabled    bool
	Cache      *cache.Writer
	Tracker    *status.Tracker
	Listener   match.Listener
	StatusListener status.Listener

	// matchedReaders mirrors the reader-proxy table spec.md §3 describes:
	// remote readers this writer currently sends DATA to, along with
	// their locators, populated as pkg/discovery's SEDP detection drives
	// matches through pkg/match.
	matchedReaders map[rtps.Guid]readerProxy
}

type readerProxy struct {
	unicast   []rtps.Locator
	multicast []rtps.Locator
}

// DataReader binds a reader cache to a topic, QoS, and listener chain.
type DataReader struct {
	Guid           rtps.Guid
	Topic          *Topic
	Subscriber     *Subscriber
	Policies       qos.Policies
	Enabled        bool
	Cache          *cache.Reader
	Tracker        *status.Tracker
	Listener       match.Listener
	StatusListener status.Listener

	matchedWriters map[rtps.Guid]writerProxy
}

type writerProxy struct {
	unicast        []rtps.Locator
	multicast      []rtps.Locator
	ownershipStrength int32
}

package discovery

import (
	"sync"
	"time"

	"github.com/lattice-dds/rtps/pkg/rtps"
)

// ParticipantEntry is one discovered_participants row: the announced data
// plus bookkeeping for lease expiry.
type ParticipantEntry struct {
	Data     ParticipantBuiltinTopicData
	Proxy    ParticipantProxy
	LastSeen time.Time
}

// ParticipantTable is the discovered_participants table (spec.md §3):
// membership keyed by built-in-topic key, replace-on-match-by-key.
type ParticipantTable struct {
	mu      sync.RWMutex
	entries map[rtps.InstanceHandle]ParticipantEntry
}

func NewParticipantTable() *ParticipantTable {
	return &ParticipantTable{entries: make(map[rtps.InstanceHandle]ParticipantEntry)}
}

func (t *ParticipantTable) Upsert(e ParticipantEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[e.Data.Key] = e
}

func (t *ParticipantTable) Remove(key rtps.InstanceHandle) (ParticipantEntry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[key]
	if ok {
		delete(t.entries, key)
	}
	return e, ok
}

func (t *ParticipantTable) Get(key rtps.InstanceHandle) (ParticipantEntry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[key]
	return e, ok
}

func (t *ParticipantTable) All() []ParticipantEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]ParticipantEntry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	return out
}

// WriterTable is the discovered_writers table.
type WriterTable struct {
	mu      sync.RWMutex
	entries map[rtps.InstanceHandle]PublicationBuiltinTopicData
}

func NewWriterTable() *WriterTable {
	return &WriterTable{entries: make(map[rtps.InstanceHandle]PublicationBuiltinTopicData)}
}

func (t *WriterTable) Upsert(d PublicationBuiltinTopicData) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[d.Key] = d
}

func (t *WriterTable) Remove(key rtps.InstanceHandle) (PublicationBuiltinTopicData, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	d, ok := t.entries[key]
	if ok {
		delete(t.entries, key)
	}
	return d, ok
}

// RemoveByParticipant drops every entry whose ParticipantKey matches, for
// cascading removal when a remote participant is disposed or its lease
// expires. Returns the removed entries.
func (t *WriterTable) RemoveByParticipant(participantKey rtps.InstanceHandle) []PublicationBuiltinTopicData {
	t.mu.Lock()
	defer t.mu.Unlock()
	var removed []PublicationBuiltinTopicData
	for k, d := range t.entries {
		if d.ParticipantKey == participantKey {
			removed = append(removed, d)
			delete(t.entries, k)
		}
	}
	return removed
}

func (t *WriterTable) All() []PublicationBuiltinTopicData {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]PublicationBuiltinTopicData, 0, len(t.entries))
	for _, d := range t.entries {
		out = append(out, d)
	}
	return out
}

// ReaderTable is the discovered_readers table.
type ReaderTable struct {
	mu      sync.RWMutex
	entries map[rtps.InstanceHandle]SubscriptionBuiltinTopicData
}

func NewReaderTable() *ReaderTable {
	return &ReaderTable{entries: make(map[rtps.InstanceHandle]SubscriptionBuiltinTopicData)}
}

func (t *ReaderTable) Upsert(d SubscriptionBuiltinTopicData) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[d.Key] = d
}

func (t *ReaderTable) Remove(key rtps.InstanceHandle) (SubscriptionBuiltinTopicData, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	d, ok := t.entries[key]
	if ok {
		delete(t.entries, key)
	}
	return d, ok
}

func (t *ReaderTable) RemoveByParticipant(participantKey rtps.InstanceHandle) []SubscriptionBuiltinTopicData {
	t.mu.Lock()
	defer t.mu.Unlock()
	var removed []SubscriptionBuiltinTopicData
	for k, d := range t.entries {
		if d.ParticipantKey == participantKey {
			removed = append(removed, d)
			delete(t.entries, k)
		}
	}
	return removed
}

func (t *ReaderTable) All() []SubscriptionBuiltinTopicData {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]SubscriptionBuiltinTopicData, 0, len(t.entries))
	for _, d := range t.entries {
		out = append(out, d)
	}
	return out
}

// TopicTable is the discovered_topics table, used both by find_topic and
// by the topic-consistency check.
type TopicTable struct {
	mu      sync.RWMutex
	entries map[rtps.InstanceHandle]TopicBuiltinTopicData
}

func NewTopicTable() *TopicTable {
	return &TopicTable{entries: make(map[rtps.InstanceHandle]TopicBuiltinTopicData)}
}

func (t *TopicTable) Upsert(d TopicBuiltinTopicData) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[d.Key] = d
}

func (t *TopicTable) Remove(key rtps.InstanceHandle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, key)
}

// Find returns every discovered topic entry whose name matches, for
// find_topic to synthesise a local topic from.
func (t *TopicTable) Find(name string) []TopicBuiltinTopicData {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []TopicBuiltinTopicData
	for _, d := range t.entries {
		if d.Name == name {
			out = append(out, d)
		}
	}
	return out
}
